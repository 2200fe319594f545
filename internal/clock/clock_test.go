package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFakeAdvance(t *testing.T) {
	start := time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC)
	c := Fake(start)
	assert.Equal(t, start, c.Now())

	c.Advance(1500 * time.Millisecond)
	assert.Equal(t, start.Add(1500*time.Millisecond), c.Now())
	assert.Equal(t, start.UnixMilli()+1500, UnixMilli(c))
}

func TestRealMonotonic(t *testing.T) {
	c := Real()
	first := UnixMilli(c)
	assert.GreaterOrEqual(t, UnixMilli(c), first)
}
