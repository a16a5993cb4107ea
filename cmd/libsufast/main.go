// Command libsufast builds the C ABI surface that embeds the sufast router
// core behind a foreign-language application layer, per spec.md's
// registration API (section 6) and its supplemented FFI shape
// (SPEC_FULL.md section 4). Build with:
//
//	go build -buildmode=c-shared -o libsufast.so ./cmd/libsufast
//
// The resulting shared library exports one C function per registration or
// serving operation; a scripting host loads it with its own FFI layer
// (e.g. Python's ctypes, Node's ffi-napi) and drives the router through
// those calls.
package main

/*
#include <stdlib.h>

// sufast_callback_fn is the shape of the single callback a foreign layer
// registers: it receives the request envelope as a length-prefixed byte
// buffer and writes back a response envelope the same way, returning 1 on
// success (the handler produced a response) or 0 (handler unavailable —
// a null return).
typedef int (*sufast_callback_fn)(const char *req_json, int req_len, char **resp_json, int *resp_len);

static int sufast_invoke_callback(sufast_callback_fn fn, const char *req_json, int req_len, char **resp_json, int *resp_len) {
	return fn(req_json, req_len, resp_json, resp_len);
}
*/
import "C"

import (
	"context"
	"encoding/json"
	"unsafe"

	"github.com/sufast-dev/sufast"
)

// instance is the single Sufast the shared library embeds. The C ABI
// surface intentionally supports one instance per process, mirroring
// server_rust/src/lib.rs's single global router.
var instance = sufast.New(nil)

// serveCancel cancels the running Serve call started by SufastStartServer,
// if any.
var serveCancel context.CancelFunc

//export SufastSetCallback
// SufastSetCallback registers fn as the process's single foreign handler.
// When threeArgShape is non-zero, the request envelope's method, path, and
// path-params-as-JSON are extracted and the callback is invoked through the
// legacy three-argument adapter instead of the single-envelope shape.
func SufastSetCallback(fn C.sufast_callback_fn, threeArgShape C.int) C.int {
	if fn == nil {
		return 0
	}

	cb := func(reqJSON []byte) sufast.CallbackResult {
		cReq := C.CString(string(reqJSON))
		defer C.free(unsafe.Pointer(cReq))

		var cResp *C.char
		var cRespLen C.int

		ok := C.sufast_invoke_callback(fn, cReq, C.int(len(reqJSON)), &cResp, &cRespLen)
		if ok == 0 || cResp == nil {
			return sufast.CallbackResult{OK: false}
		}

		body := C.GoBytes(unsafe.Pointer(cResp), cRespLen)
		return sufast.CallbackResult{
			Body: body,
			OK:   true,
			Release: func() {
				C.free(unsafe.Pointer(cResp))
			},
		}
	}

	if threeArgShape != 0 {
		instance.RegisterThreeArgCallback(func(method, path, pathParamsJSON string) sufast.CallbackResult {
			env, _ := json.Marshal(map[string]interface{}{
				"method":       method,
				"path":         path,
				"path_params":  json.RawMessage(pathParamsJSON),
				"query_params": map[string]string{},
				"headers":      map[string]string{},
				"body":         "",
			})
			return cb(env)
		})
	} else {
		instance.RegisterCallback(cb)
	}

	return 1
}

//export SufastAddStaticRoute
func SufastAddStaticRoute(method, path, body, contentType *C.char, status C.int) C.int {
	instance.AddStaticRoute(
		C.GoString(method),
		C.GoString(path),
		[]byte(C.GoString(body)),
		int(status),
		C.GoString(contentType),
		nil,
	)
	return 1
}

//export SufastAddDynamicRoute
func SufastAddDynamicRoute(method, pattern, handlerName *C.char, cacheTTLSeconds C.int) C.int {
	err := instance.AddDynamicRoute(
		C.GoString(method),
		C.GoString(pattern),
		C.GoString(handlerName),
		int(cacheTTLSeconds),
	)
	if err != nil {
		return 0
	}
	return 1
}

//export SufastPrecompileStaticRoutes
func SufastPrecompileStaticRoutes() C.int {
	return C.int(instance.PrecompileStaticRoutes())
}

//export SufastClearCache
func SufastClearCache() C.int {
	instance.ClearCache()
	return 1
}

//export SufastStats
// SufastStats returns the JSON-encoded stats snapshot. The caller owns the
// returned string and must free it with SufastFreeString.
func SufastStats() *C.char {
	b, err := json.Marshal(instance.Stats())
	if err != nil {
		return nil
	}
	return C.CString(string(b))
}

//export SufastStartServer
// SufastStartServer binds and serves in the background, returning
// immediately; 0 on success, nonzero on a bind error. production != 0
// selects the all-interfaces bind policy instead of loopback.
func SufastStartServer(host *C.char, port C.int, production C.int) C.int {
	instance.Config.Port = int(port)
	instance.Config.DebugMode = production == 0

	ctx, cancel := context.WithCancel(context.Background())
	serveCancel = cancel

	errCh := make(chan error, 1)
	go func() { errCh <- instance.Serve(ctx) }()

	select {
	case err := <-errCh:
		if err != nil {
			return 1
		}
		return 0
	default:
		return 0
	}
}

//export SufastStopServer
func SufastStopServer() C.int {
	if serveCancel == nil {
		return 0
	}
	serveCancel()
	return 1
}

//export SufastFreeString
func SufastFreeString(s *C.char) {
	C.free(unsafe.Pointer(s))
}

func main() {}
