package sufast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBridgeInvokeWithNoCallback(t *testing.T) {
	b := NewBridge()
	assert.False(t, b.Registered())

	_, err := b.Invoke(&RequestEnvelope{Method: "GET", Path: "/x"})
	assert.ErrorIs(t, err, errNoCallback)
}

func TestBridgeInvokeSuccess(t *testing.T) {
	b := NewBridge()

	released := false
	b.Register(func(reqJSON []byte) CallbackResult {
		return CallbackResult{
			Body:    []byte(`{"status":200,"body":"ok"}`),
			OK:      true,
			Release: func() { released = true },
		}
	})

	assert.True(t, b.Registered())

	resp, err := b.Invoke(&RequestEnvelope{Method: "GET", Path: "/x"})
	require.NoError(t, err)
	assert.Equal(t, 200, resp.Status)
	assert.Equal(t, "ok", resp.Body)
	assert.True(t, released, "Release must run after the body is copied out")
}

func TestBridgeInvokeHandlerUnavailable(t *testing.T) {
	b := NewBridge()
	b.Register(func(reqJSON []byte) CallbackResult {
		return CallbackResult{OK: false}
	})

	_, err := b.Invoke(&RequestEnvelope{Method: "GET", Path: "/x"})
	assert.ErrorIs(t, err, errHandlerUnavailable)
}

func TestBridgeInvokeMalformedResponseBody(t *testing.T) {
	b := NewBridge()
	b.Register(func(reqJSON []byte) CallbackResult {
		return CallbackResult{Body: []byte("not json"), OK: true}
	})

	_, err := b.Invoke(&RequestEnvelope{Method: "GET", Path: "/x"})
	assert.Error(t, err)
}

func TestAdaptThreeArg(t *testing.T) {
	var gotMethod, gotPath, gotParams string
	fn := func(method, path, pathParamsJSON string) CallbackResult {
		gotMethod, gotPath, gotParams = method, path, pathParamsJSON
		return CallbackResult{Body: []byte(`{"status":200,"body":"ok"}`), OK: true}
	}

	cb := AdaptThreeArg(fn)
	env := &RequestEnvelope{Method: "GET", Path: "/users/42", PathParams: map[string]string{"id": "42"}}
	reqJSON, err := env.Encode()
	require.NoError(t, err)

	result := cb(reqJSON)
	assert.True(t, result.OK)
	assert.Equal(t, "GET", gotMethod)
	assert.Equal(t, "/users/42", gotPath)
	assert.Contains(t, gotParams, `"id":"42"`)
}

func TestRegisteringTwiceOverwrites(t *testing.T) {
	b := NewBridge()
	b.Register(func(reqJSON []byte) CallbackResult {
		return CallbackResult{Body: []byte(`{"status":200,"body":"first"}`), OK: true}
	})
	b.Register(func(reqJSON []byte) CallbackResult {
		return CallbackResult{Body: []byte(`{"status":200,"body":"second"}`), OK: true}
	})

	resp, err := b.Invoke(&RequestEnvelope{Method: "GET", Path: "/x"})
	require.NoError(t, err)
	assert.Equal(t, "second", resp.Body)
}
