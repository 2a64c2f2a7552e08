package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/docmark/pkg/cache"
	"github.com/matzehuels/docmark/pkg/markup"
	"github.com/matzehuels/docmark/pkg/observability"
)

// keyTypeArtifact labels artifact cache events.
const keyTypeArtifact = "artifact"

// Runner encapsulates pipeline execution with caching.
// The CLI, the preview sessions and the server all use one to avoid
// duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is the lifetime of cached artifacts. Zero means cache.DefaultTTL.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete transpile → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, text string, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{
		Grammar:  opts.Grammar,
		TextHash: cache.Hash([]byte(text)),
	}

	// Stage 1: Transpile
	start := time.Now()
	result.Blocks = r.transpile(ctx, text, opts.ResolvedGrammar())
	result.Stats.TranspileTime = time.Since(start)
	result.Stats.Lines = countLines(text)
	result.Stats.Blocks = len(result.Blocks)
	result.Stats.Kinds = markup.Count(result.Blocks)

	opts.Logger.Debug("transpiled text",
		"grammar", opts.Grammar,
		"lines", result.Stats.Lines,
		"blocks", result.Stats.Blocks,
		"duration", result.Stats.TranspileTime)

	// Stage 2: Render
	start = time.Now()
	artifacts, hits, err := r.RenderWithCacheInfo(ctx, result.TextHash, result.Blocks, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.CacheInfo.Hits = hits
	result.Stats.RenderTime = time.Since(start)

	opts.Logger.Debug("rendered outputs",
		"formats", opts.Formats,
		"cached", len(hits),
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Transpile validates grammar and runs the transpile stage alone.
func (r *Runner) Transpile(ctx context.Context, text, grammar string) ([]markup.Block, error) {
	if grammar == "" {
		grammar = DefaultGrammar
	}
	if err := ValidateGrammar(grammar); err != nil {
		return nil, err
	}
	g, _ := markup.Lookup(grammar)
	return r.transpile(ctx, text, g), nil
}

func (r *Runner) transpile(ctx context.Context, text string, g markup.Grammar) []markup.Block {
	hooks := observability.Pipeline()
	hooks.OnTranspileStart(ctx, g.Name, countLines(text))
	start := time.Now()
	blocks := markup.Transpile(text, g)
	hooks.OnTranspileComplete(ctx, g.Name, len(blocks), time.Since(start))
	return blocks
}

// RenderWithCacheInfo renders every requested format, serving artifacts from
// the cache where possible. It returns the formats that were cache hits.
//
// Cache backend failures are logged and treated as misses; only render
// failures are returned.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, textHash string, blocks []markup.Block, opts Options) (map[string][]byte, []string, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, nil, err
	}

	hooks := observability.Pipeline()
	cacheHooks := observability.Cache()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts := make(map[string][]byte, len(opts.Formats))
	var hits []string

	for _, format := range opts.Formats {
		useCache := cacheable(format)
		key := r.Keyer.ArtifactKey(textHash, opts.ArtifactKeyOpts(format))

		if useCache && !opts.Refresh {
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil {
				opts.Logger.Warn("cache read failed", "format", format, "error", err)
			}
			if err == nil && hit {
				cacheHooks.OnCacheHit(ctx, keyTypeArtifact)
				artifacts[format] = data
				hits = append(hits, format)
				continue
			}
			cacheHooks.OnCacheMiss(ctx, keyTypeArtifact)
		}

		data, err := RenderFormat(ctx, blocks, format, opts)
		if err != nil {
			hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
			return nil, nil, err
		}
		artifacts[format] = data

		if useCache {
			if err := r.Cache.Set(ctx, key, data, r.ttl()); err != nil {
				opts.Logger.Warn("cache write failed", "format", format, "error", err)
			} else {
				cacheHooks.OnCacheSet(ctx, keyTypeArtifact, len(data))
			}
		}
	}

	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
	return artifacts, hits, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) ttl() time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return cache.DefaultTTL
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// countLines returns the number of "\n"-separated lines in text; empty text
// has none.
func countLines(text string) int {
	if text == "" {
		return 0
	}
	return strings.Count(text, "\n") + 1
}
