package sufast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountersIncTotalReturnsMonotonicIDs(t *testing.T) {
	c := NewCounters(nil)

	first := c.IncTotal()
	second := c.IncTotal()

	assert.Equal(t, uint64(1), first)
	assert.Equal(t, uint64(2), second)
}

func TestCountersIncTier(t *testing.T) {
	c := NewCounters(nil)
	c.IncTotal()
	c.IncTotal()
	c.IncTier(TierStatic)
	c.IncTier(TierCached)
	c.IncTier(TierCached)

	snap := c.Snapshot(NewStaticStore(), NewRouteTable(), false)
	assert.Equal(t, uint64(2), snap.Total)
	assert.Equal(t, uint64(1), snap.Static)
	assert.Equal(t, uint64(2), snap.Cached)
	assert.Equal(t, uint64(0), snap.Dynamic)
}

func TestCountersSnapshotPercentages(t *testing.T) {
	c := NewCounters(nil)
	for i := 0; i < 4; i++ {
		c.IncTotal()
	}
	c.IncTier(TierStatic)
	c.IncTier(TierStatic)
	c.IncTier(TierDynamic)

	snap := c.Snapshot(NewStaticStore(), NewRouteTable(), false)
	assert.InDelta(t, 50.0, snap.StaticPercent, 0.001)
	assert.InDelta(t, 25.0, snap.DynamicPercent, 0.001)
	assert.Equal(t, 0.0, snap.CachedPercent)
}

func TestCountersSnapshotZeroTotalAvoidsDivideByZero(t *testing.T) {
	c := NewCounters(nil)
	snap := c.Snapshot(NewStaticStore(), NewRouteTable(), false)
	assert.Equal(t, 0.0, snap.StaticPercent)
}

func TestCountersSnapshotReportsTableSizes(t *testing.T) {
	c := NewCounters(nil)
	static := NewStaticStore()
	static.Precompile()
	routes := NewRouteTable()
	routes.Register("GET", "/items/{id:int}", "h", 0)

	snap := c.Snapshot(static, routes, true)
	assert.Equal(t, 4, snap.StaticRoutes)
	assert.Equal(t, 1, snap.DynamicRoutes)
	assert.True(t, snap.CacheKeyedByQuery)
}

func TestTierNotFoundHasNoDedicatedCounter(t *testing.T) {
	c := NewCounters(nil)
	c.IncTotal()
	c.IncTier(TierNotFound)

	snap := c.Snapshot(NewStaticStore(), NewRouteTable(), false)
	assert.Equal(t, uint64(0), snap.Static+snap.Cached+snap.Dynamic)
}
