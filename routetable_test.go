package sufast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouteTableRegisterAndMatch(t *testing.T) {
	rt := NewRouteTable()

	ok := rt.Register("GET", "/users/{id:int}", "getUser", 0)
	require.True(t, ok)

	rec, params, matched := rt.Match("GET", "/users/42")
	require.True(t, matched)
	assert.Equal(t, "getUser", rec.HandlerName)
	assert.Equal(t, "42", params["id"])

	_, _, matched = rt.Match("POST", "/users/42")
	assert.False(t, matched, "methods are partitioned independently")
}

func TestRouteTableInsertionOrderWins(t *testing.T) {
	rt := NewRouteTable()

	rt.Register("GET", "/items/{slug:slug}", "bySlug", 0)
	rt.Register("GET", "/items/{id:int}", "byID", 0)

	rec, _, matched := rt.Match("GET", "/items/42")
	require.True(t, matched)
	assert.Equal(t, "bySlug", rec.HandlerName, "the slug route was registered first and wins for an all-digit value")
}

func TestRouteTableReverseOrderWins(t *testing.T) {
	rt := NewRouteTable()

	rt.Register("GET", "/items/{id:int}", "byID", 0)
	rt.Register("GET", "/items/{slug:slug}", "bySlug", 0)

	rec, _, matched := rt.Match("GET", "/items/42")
	require.True(t, matched)
	assert.Equal(t, "byID", rec.HandlerName, "registration order determines the winner regardless of which pattern is more specific")
}

func TestRouteTableReRegisterOverwritesInPlace(t *testing.T) {
	rt := NewRouteTable()

	rt.Register("GET", "/a", "first", 0)
	rt.Register("GET", "/b", "second", 0)
	rt.Register("GET", "/a", "first-updated", 0)

	assert.Equal(t, 2, rt.Size())

	rec, _, matched := rt.Match("GET", "/a")
	require.True(t, matched)
	assert.Equal(t, "first-updated", rec.HandlerName)
}

func TestRouteTableRegisterRejectsDuplicateParamNames(t *testing.T) {
	rt := NewRouteTable()
	ok := rt.Register("GET", "/a/{id}/b/{id}", "h", 0)
	assert.False(t, ok)
	assert.Equal(t, 0, rt.Size())
}

func TestRouteTableNoMatch(t *testing.T) {
	rt := NewRouteTable()
	rt.Register("GET", "/known", "h", 0)

	_, _, matched := rt.Match("GET", "/unknown")
	assert.False(t, matched)
}
