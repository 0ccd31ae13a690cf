package profiling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTrackAndReset(t *testing.T) {
	ResetFrame()
	stop := Track("engine.render")
	time.Sleep(time.Millisecond)
	stop()
	CountDraw("opaque")
	CountDraw("opaque")
	CountDraw("additive")

	assert.GreaterOrEqual(t, Snapshot()["engine.render"], time.Millisecond)
	assert.Equal(t, map[string]int{"opaque": 2, "additive": 1}, Draws())

	ResetFrame()
	assert.Empty(t, Snapshot())
	assert.Empty(t, Draws())
}

func TestTopN(t *testing.T) {
	ResetFrame()
	mu.Lock()
	frameTotals["a"] = 1500 * time.Microsecond
	frameTotals["b"] = 4 * time.Millisecond
	frameTotals["c"] = 200 * time.Microsecond
	mu.Unlock()

	assert.Equal(t, "b:4ms, a:1.5ms", TopN(2))
	assert.Equal(t, "b:4ms, a:1.5ms, c:0.2ms", TopN(10))
	ResetFrame()
}
