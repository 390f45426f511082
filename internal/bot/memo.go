package bot

import (
	"fmt"
	"strings"
)

// turnCache memoizes the engine's valuation graph for a single decision. The
// graph is recursive and highly redundant (many moves share protection and
// completion odds for the same opponent), so repeated sub-queries within one
// decision are answered from cache. The cache is built fresh at the start of
// every ChooseMove and dropped at its end; nothing is shared across decisions.
type turnCache struct {
	entries map[string]any
}

func newTurnCache() *turnCache {
	return &turnCache{entries: make(map[string]any)}
}

// cacheKey builds a deterministic key from an operation name and its
// arguments.
func cacheKey(op string, args ...any) string {
	var b strings.Builder
	b.WriteString(op)
	for _, a := range args {
		b.WriteByte(':')
		fmt.Fprintf(&b, "%v", a)
	}
	return b.String()
}

// memo answers from cache or computes and stores.
func memo[T any](c *turnCache, key string, compute func() T) T {
	if v, ok := c.entries[key]; ok {
		return v.(T)
	}
	v := compute()
	c.entries[key] = v
	return v
}
