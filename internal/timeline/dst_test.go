package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolverNoDST(t *testing.T) {
	r := NewResolver(OffsetFunc(func(time.Time) int { return 0 }))
	d := time.Date(2020, time.June, 15, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Duration(0), r.Adjustment(d))
	assert.False(t, r.IsDaylightSaving(d))
	assert.Equal(t, d, r.Normalize(d))
}

func TestResolverNorthernHemisphere(t *testing.T) {
	r := NewResolver(northernZone())

	winter := time.Date(2020, time.January, 15, 0, 0, 0, 0, time.UTC)
	summer := time.Date(2020, time.June, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Hour, r.Adjustment(winter))
	assert.Equal(t, time.Hour, r.Adjustment(summer))
	assert.False(t, r.IsDaylightSaving(winter))
	assert.True(t, r.IsDaylightSaving(summer))
}

func TestResolverSouthernHemisphere(t *testing.T) {
	r := NewResolver(southernZone())

	january := time.Date(2020, time.January, 15, 0, 0, 0, 0, time.UTC)
	june := time.Date(2020, time.June, 15, 0, 0, 0, 0, time.UTC)

	// January is the advanced sample in the south; the algorithm picks the
	// smaller sample as standard without a hemisphere switch.
	assert.Equal(t, time.Hour, r.Adjustment(january))
	assert.True(t, r.IsDaylightSaving(january))
	assert.False(t, r.IsDaylightSaving(june))
}

func TestResolverNormalize(t *testing.T) {
	r := NewResolver(northernZone())

	summer := time.Date(2020, time.June, 15, 0, 0, 0, 0, time.UTC)
	winter := time.Date(2020, time.January, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, summer.Add(-time.Hour), r.Normalize(summer))
	assert.Equal(t, winter, r.Normalize(winter))
}

func TestResolverRealZone(t *testing.T) {
	la := losAngeles(t)
	r := NewResolver(LocationOffset{Loc: la})

	require.Equal(t, time.Hour, r.Adjustment(time.Date(2020, time.June, 1, 0, 0, 0, 0, la)))
	assert.True(t, r.IsDaylightSaving(time.Date(2020, time.June, 1, 0, 0, 0, 0, la)))
	assert.False(t, r.IsDaylightSaving(time.Date(2020, time.December, 1, 0, 0, 0, 0, la)))
}

func TestResolverSamplesCached(t *testing.T) {
	calls := 0
	r := NewResolver(OffsetFunc(func(time.Time) int {
		calls++
		return 0
	}))
	d := time.Date(2020, time.June, 15, 0, 0, 0, 0, time.UTC)
	r.Adjustment(d)
	r.Adjustment(d)
	r.IsDaylightSaving(d) // no-DST year skips the own-offset sample
	assert.Equal(t, 2, calls)
}
