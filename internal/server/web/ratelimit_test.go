package web

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIPLimiter(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := newIPLimiter(60, 2, time.Minute)
	l.now = func() time.Time { return now }

	assert.True(t, l.allow("1.1.1.1"))
	assert.True(t, l.allow("1.1.1.1"))
	assert.False(t, l.allow("1.1.1.1"))
	assert.True(t, l.allow("2.2.2.2"), "buckets are per IP")

	now = now.Add(time.Second)
	assert.True(t, l.allow("1.1.1.1"), "one token refills per second at 60/min")
}

func TestIPLimiter_SweepsIdleVisitors(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := newIPLimiter(60, 1, time.Minute)
	l.now = func() time.Time { return now }

	l.allow("1.1.1.1")
	l.allow("2.2.2.2")
	assert.Len(t, l.visitors, 2)

	now = now.Add(2 * time.Minute)
	l.allow("3.3.3.3")
	assert.Len(t, l.visitors, 1)
}

func TestIPLimiter_Disabled(t *testing.T) {
	l := newIPLimiter(0, 0, time.Minute)
	for i := 0; i < 100; i++ {
		assert.True(t, l.allow("1.1.1.1"))
	}
}
