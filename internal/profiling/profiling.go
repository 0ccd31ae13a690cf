package profiling

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Per-frame CPU timings and draw call counters for the render loop.

var (
	mu          sync.Mutex
	frameTotals = make(map[string]time.Duration)
	frameDraws  = make(map[string]int)
)

// Track returns a stop function that records the elapsed time under the given name.
// Usage: defer profiling.Track("engine.renderTarget")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		frameTotals[name] += d
		mu.Unlock()
	}
}

// CountDraw records one draw call issued by the named pass.
func CountDraw(pass string) {
	mu.Lock()
	frameDraws[pass]++
	mu.Unlock()
}

// ResetFrame clears the current frame's timings and counters. Call at the start of each frame.
func ResetFrame() {
	mu.Lock()
	clear(frameTotals)
	clear(frameDraws)
	mu.Unlock()
}

// Snapshot returns a copy of the current frame's timings.
func Snapshot() map[string]time.Duration {
	mu.Lock()
	defer mu.Unlock()
	out := make(map[string]time.Duration, len(frameTotals))
	for k, v := range frameTotals {
		out[k] = v
	}
	return out
}

// Draws returns a copy of the current frame's draw counters by pass.
func Draws() map[string]int {
	mu.Lock()
	defer mu.Unlock()
	out := make(map[string]int, len(frameDraws))
	for k, v := range frameDraws {
		out[k] = v
	}
	return out
}

// TopN formats the n slowest entries of the current frame, slowest first.
// Example: "surface.OnDrawFrame:4.2ms, engine.renderTarget:2.1ms"
func TopN(n int) string {
	ss := Snapshot()
	names := make([]string, 0, len(ss))
	for k := range ss {
		names = append(names, k)
	}
	sort.Slice(names, func(i, j int) bool {
		if ss[names[i]] == ss[names[j]] {
			return names[i] < names[j]
		}
		return ss[names[i]] > ss[names[j]]
	})
	if n > len(names) {
		n = len(names)
	}
	parts := make([]string, 0, n)
	for _, name := range names[:n] {
		ms := float64(ss[name].Microseconds()) / 1000.0
		parts = append(parts, name+":"+strconv.FormatFloat(ms, 'f', -1, 64)+"ms")
	}
	return strings.Join(parts, ", ")
}
