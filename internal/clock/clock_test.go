package clock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/temifoden/alx-backend-storage/internal/clock"
)

func TestMockClock_Set(t *testing.T) {
	clk := clock.NewMock(time.Time{})
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clk.Set(ts)
	assert.Equal(t, ts, clk.Now())
}

func TestMockClock_Advance(t *testing.T) {
	clk := clock.NewMock(time.Time{})
	before := clk.Now()
	clk.Advance(10 * time.Second)
	assert.Equal(t, 10*time.Second, clock.Since(clk, before))
}

func TestMockClock_AutoAdvance(t *testing.T) {
	clk := clock.NewMock(time.Time{})
	clk.AutoAdvance(250 * time.Millisecond)
	start := clk.Now()
	assert.Equal(t, 250*time.Millisecond, clock.Since(clk, start))
	assert.Equal(t, 500*time.Millisecond, clock.Since(clk, start))
}

func TestRealClock(t *testing.T) {
	clk := clock.Real{}
	before := time.Now()
	got := clk.Now()
	after := time.Now()
	assert.False(t, got.Before(before))
	assert.False(t, got.After(after))
	assert.GreaterOrEqual(t, clock.Since(clk, before), time.Duration(0))
}
