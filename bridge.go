package sufast

import (
	"encoding/json"
	"sync"
)

var reqBufferPool = newBufferPool()

// CallbackResult is what a registered Callback hands back to the bridge.
//
// Body is a borrowed read-only byte range: the bridge copies it out exactly
// once, immediately, and then — if Release is non-nil — invokes Release so
// the foreign side can free whatever it allocated. This is a
// language-neutral buffer-ownership strategy ("pointer, length,
// release_token"); Release stands in for the release entry-point a cgo or
// other FFI binding would otherwise expose.
//
// OK false means "handler unavailable" and is distinct from a non-nil Body
// that merely fails to parse as a response envelope.
type CallbackResult struct {
	Body    []byte
	OK      bool
	Release func()
}

// Callback is the bridge's canonical, single-shape signature: a JSON
// request envelope in, a CallbackResult out. Both wire shapes a foreign
// handler may use (the three-string-argument shape and the single-envelope
// shape) are adapted down to this one via AdaptThreeArg / AdaptEnvelope so
// the rest of the core only ever deals with one calling convention.
type Callback func(requestJSON []byte) CallbackResult

// ThreeArgFunc is the legacy three-argument callback shape: method, path,
// and the path parameters pre-serialized to JSON.
type ThreeArgFunc func(method, path, pathParamsJSON string) CallbackResult

// AdaptThreeArg wraps a ThreeArgFunc as a Callback.
func AdaptThreeArg(fn ThreeArgFunc) Callback {
	return func(requestJSON []byte) CallbackResult {
		var env RequestEnvelope
		if err := json.Unmarshal(requestJSON, &env); err != nil {
			return CallbackResult{OK: false}
		}

		paramsJSON, err := json.Marshal(env.PathParams)
		if err != nil {
			return CallbackResult{OK: false}
		}

		return fn(env.Method, env.Path, string(paramsJSON))
	}
}

// EnvelopeFunc is the single-argument callback shape: the whole request
// envelope as JSON in, a CallbackResult out. It is the identity adaptation;
// AdaptEnvelope exists so call sites read the same way regardless of which
// of the two shapes they are registering.
type EnvelopeFunc func(requestJSON []byte) CallbackResult

// AdaptEnvelope wraps an EnvelopeFunc as a Callback.
func AdaptEnvelope(fn EnvelopeFunc) Callback {
	return Callback(fn)
}

// Bridge is the single process-wide callback slot of component F. Exactly
// one callback shape is active at a time; registering again overwrites it.
// Readers clone the Callback value under the mutex and release the lock
// before invoking it, so the (possibly slow, possibly blocking) foreign
// call never runs while holding a lock any other request needs.
type Bridge struct {
	mu sync.Mutex
	cb Callback
}

// NewBridge returns an empty Bridge.
func NewBridge() *Bridge {
	return &Bridge{}
}

// Register overwrites the active callback.
func (b *Bridge) Register(cb Callback) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cb = cb
}

// Registered reports whether a callback is currently set.
func (b *Bridge) Registered() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cb != nil
}

// Invoke serializes req, calls the registered callback synchronously, and
// parses its result into a ResponseEnvelope. It never holds Bridge's mutex
// while the callback is running.
//
// Invoke returns errNoCallback if nothing is registered, errHandlerUnavailable
// if the callback reports OK == false (the null-return case), and a parse
// error if the callback's body is not a well-formed response envelope with
// a status in 100..599. All three are dispatch failures the dispatcher maps
// to the 404 fallback or a 500, never a panic.
func (b *Bridge) Invoke(req *RequestEnvelope) (*ResponseEnvelope, error) {
	b.mu.Lock()
	cb := b.cb
	b.mu.Unlock()

	if cb == nil {
		return nil, errNoCallback
	}

	buf := reqBufferPool.Get()
	defer reqBufferPool.Put(buf)

	if err := json.NewEncoder(buf).Encode(req); err != nil {
		return nil, err
	}
	reqJSON := buf.Bytes()

	result := cb(reqJSON)
	if !result.OK {
		if result.Release != nil {
			result.Release()
		}
		return nil, errHandlerUnavailable
	}

	// Copy immediately: once this function returns from the Release
	// call below, the callback's allocator may reuse or free Body.
	body := make([]byte, len(result.Body))
	copy(body, result.Body)

	if result.Release != nil {
		result.Release()
	}

	return DecodeResponseEnvelope(body)
}
