package sufast

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Config holds the tunables of a Sufast instance: bind host/port, cache
// sizing, query-keyed caching, metrics, and logging. A JSON, TOML or YAML
// file is decoded into it through its mapstructure tags (see LoadFile);
// sufast has no templates, sessions, or TLS surface of its own to
// configure.
type Config struct {
	// AppName identifies the instance in logs and the stats snapshot.
	//
	// Default value: "sufast"
	AppName string `mapstructure:"app_name"`

	// DebugMode selects the dev binding policy (loopback only) and a more
	// verbose logger.
	//
	// Default value: false
	DebugMode bool `mapstructure:"debug_mode"`

	// Port is the TCP port to bind. Port 1 is a sentinel reinterpreted as
	// 8080, matching a convention the foreign embedding layer uses to mean
	// "pick the conventional default" without needing to know what that
	// default is.
	//
	// Default value: 8080
	Port int `mapstructure:"port"`

	// CacheMaxMemoryBytes bounds the TTL cache's backing store.
	//
	// Default value: 33554432 (32 MiB)
	CacheMaxMemoryBytes int `mapstructure:"cache_max_memory_bytes"`

	// CacheKeyIncludesQuery controls whether the query string is folded
	// into the TTL cache key (see the Dispatcher field of the same name).
	//
	// Default value: false
	CacheKeyIncludesQuery bool `mapstructure:"cache_key_includes_query"`

	// MetricsEnabled registers the four dispatch counters with a
	// Prometheus registry in addition to the plain atomics.
	//
	// Default value: false
	MetricsEnabled bool `mapstructure:"metrics_enabled"`

	// LogFile, when non-empty, routes the logger's output through a
	// rotating file sink instead of stderr.
	//
	// Default value: ""
	LogFile string `mapstructure:"log_file"`

	// ConfigFile, if set before Serve is called, is read and decoded on
	// top of the current Config. The file format is chosen by its
	// extension (.json, .toml, .yaml/.yml).
	//
	// Default value: ""
	ConfigFile string `mapstructure:"-"`
}

// DefaultConfig returns the zero-value-filled defaults sufast runs with
// absent a config file.
func DefaultConfig() *Config {
	return &Config{
		AppName:             "sufast",
		Port:                8080,
		CacheMaxMemoryBytes: defaultCacheMaxMemoryBytes,
	}
}

// LoadFile reads path and decodes it on top of c. The format is chosen by
// the file extension.
func (c *Config) LoadFile(path string) error {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return err
	}

	m := map[string]interface{}{}
	var err2 error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err2 = json.Unmarshal(b, &m)
	case ".toml":
		err2 = toml.Unmarshal(b, &m)
	case ".yaml", ".yml":
		err2 = yaml.Unmarshal(b, &m)
	default:
		err2 = fmt.Errorf("sufast: unsupported configuration file extension: %s", ext)
	}
	if err2 != nil {
		return err2
	}

	return mapstructure.Decode(m, c)
}

// resolvePort applies the port-1 sentinel: embedding layers that want
// "the conventional default port" pass 1 rather than hardcoding 8080.
func resolvePort(port int) int {
	if port == 1 {
		return 8080
	}
	return port
}

// bindHost returns the host component of the listen address: loopback-only
// in debug mode, all interfaces otherwise.
func bindHost(debugMode bool) string {
	if debugMode {
		return "127.0.0.1"
	}
	return "0.0.0.0"
}
