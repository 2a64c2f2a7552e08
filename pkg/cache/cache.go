// Package cache stores rendered artifacts keyed by document content.
//
// Transpiling is cheap, but rendering outline SVGs or full documents for a
// preview server is not free, and the same text is often submitted many
// times. The pipeline keys each artifact by the SHA-256 of the input text plus
// the render options, so identical requests are served from the cache.
//
// # Backends
//
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: JSON entries under a local directory (CLI)
//   - [RedisCache]: shared cache for the preview server
//
// All backends treat expired or corrupt entries as misses.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry TTL.
type Cache interface {
	// Get returns the cached value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// DefaultTTL is the artifact lifetime used when none is configured.
const DefaultTTL = 24 * time.Hour

// ArtifactKeyOpts are the render options that distinguish cached artifacts of
// the same document.
type ArtifactKeyOpts struct {
	Grammar     string `json:"grammar"`
	Format      string `json:"format"`
	Placeholder string `json:"placeholder,omitempty"`
	Title       string `json:"title,omitempty"`
	Detailed    bool   `json:"detailed,omitempty"`
	Width       int    `json:"width,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey generates a key for a rendered artifact of the document
	// whose content hash is textHash.
	ArtifactKey(textHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer generates unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey returns "artifact:<sha256(textHash, opts)>".
func (DefaultKeyer) ArtifactKey(textHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", textHash, opts)
}
