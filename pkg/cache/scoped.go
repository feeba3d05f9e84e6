package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// This is useful when several deployments share one Redis instance.
//
// Example usage:
//
//	staging := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// RealizationKey generates a prefixed realization key.
func (k *ScopedKeyer) RealizationKey(patternHash string, opts RealizeKeyOpts) string {
	return k.prefix + k.inner.RealizationKey(patternHash, opts)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(realizationHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(realizationHash, opts)
}
