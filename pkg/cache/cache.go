// Package cache stores computed layouts and rendered artifacts.
//
// The pipeline caches two stages. Layouts are keyed by a hash of the input
// graph plus every option that changes positions; artifacts are keyed by a
// hash of the serialized layout plus the output options. Because keys are
// content hashes, entries never go stale; TTLs only bound disk and memory
// use.
//
// Three backends implement [Cache]: [FileCache] for the CLI (one file per
// entry under the user cache directory), [RedisCache] for the HTTP server,
// and [NullCache] when caching is disabled.
package cache

import (
	"context"
	"time"
)

// Default time-to-live per entry kind.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiry.
//
// Get reports a miss with hit=false and a nil error; errors are reserved
// for backend failures. A ttl of zero means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// LayoutKeyOpts lists every option that affects a computed layout.
type LayoutKeyOpts struct {
	VizType        string  `json:"viz_type"`
	Width          float64 `json:"width"`
	Height         float64 `json:"height"`
	Ordering       string  `json:"ordering"`
	ExactDepth     int     `json:"exact_depth,omitempty"`
	NodeWidth      float64 `json:"node_width,omitempty"`
	NodeSeparation float64 `json:"node_separation,omitempty"`
	Border         float64 `json:"border,omitempty"`
	FontFamily     string  `json:"font_family,omitempty"`
	FontSize       float64 `json:"font_size,omitempty"`
	FontColor      string  `json:"font_color,omitempty"`
	Style          string  `json:"style,omitempty"`
	Detailed       bool    `json:"detailed,omitempty"`
}

// ArtifactKeyOpts lists every option that affects a rendered artifact.
type ArtifactKeyOpts struct {
	Format      string `json:"format"`
	Style       string `json:"style"`
	HideValues  bool   `json:"hide_values,omitempty"`
	Interactive bool   `json:"interactive,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes key components into "layout:<sha256>" and
// "artifact:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey generates a key for layout caching.
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// ArtifactKey generates a key for artifact caching.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
