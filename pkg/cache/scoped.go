package cache

// ScopedKeyer wraps a Keyer with a prefix, so several preview servers can
// share one Redis instance without seeing each other's artifacts.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "docmark:staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// A nil inner keyer falls back to DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(textHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(textHash, opts)
}
