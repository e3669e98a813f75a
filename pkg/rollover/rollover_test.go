package rollover

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestTarget(t *testing.T) {
	assert.True(t, Target(d("30"), d("10")).Equal(d("300")))
	assert.True(t, Target(d("0"), d("10")).IsZero())
	assert.True(t, Target(d("30"), d("0")).IsZero())
	assert.True(t, Target(d("-5"), d("10")).IsZero())
}

func TestReduce(t *testing.T) {
	assert.True(t, Reduce(d("300"), d("100")).Equal(d("200")))
	assert.True(t, Reduce(d("300"), d("300")).IsZero())
	// floored at zero
	assert.True(t, Reduce(d("300"), d("500")).IsZero())
	// non-positive wager changes nothing
	assert.True(t, Reduce(d("300"), d("0")).Equal(d("300")))
	assert.True(t, Reduce(d("300"), d("-10")).Equal(d("300")))
	assert.True(t, Reduce(d("0"), d("50")).IsZero())
}

func TestReduceMonotone(t *testing.T) {
	remaining := d("300")
	for _, wager := range []string{"20", "0", "120", "500"} {
		next := Reduce(remaining, d(wager))
		assert.True(t, next.LessThanOrEqual(remaining))
		assert.True(t, next.Sign() >= 0)
		remaining = next
	}
	assert.True(t, Unlocked(remaining))
}

func TestUnlocked(t *testing.T) {
	assert.False(t, Unlocked(d("0.01")))
	assert.True(t, Unlocked(d("0")))
}
