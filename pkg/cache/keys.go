package cache

import (
	"time"
)

// GridKeyOpts are the grid options that change an exported grid.
type GridKeyOpts struct {
	From           time.Time
	To             time.Time
	Unit           string
	Step           int
	Width          float64
	ColumnWidth    float64
	WorkingMode    string
	NonWorkingMode string
}

// Keyer builds cache keys.
type Keyer interface {
	// GridKey returns the key of a grid built from a calendar with the given
	// content hash.
	GridKey(calendarHash string, opts GridKeyOpts) string
}

// DefaultKeyer produces keys of the form "grid:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// GridKey hashes the calendar hash together with every option. Times are
// normalized to UTC so that equal instants give equal keys.
func (DefaultKeyer) GridKey(calendarHash string, opts GridKeyOpts) string {
	opts.From = opts.From.UTC()
	opts.To = opts.To.UTC()
	return hashKey("grid", calendarHash, opts)
}

// ScopedKeyer prefixes every key of an inner Keyer, separating the entries
// of different deployments that share one Redis instance.
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner uses DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// GridKey returns the prefixed key of the inner keyer.
func (k *ScopedKeyer) GridKey(calendarHash string, opts GridKeyOpts) string {
	return k.prefix + k.inner.GridKey(calendarHash, opts)
}
