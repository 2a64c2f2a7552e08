// Package pkg provides the core libraries of docmark.
//
// # Overview
//
// Docmark transpiles a small line-oriented markup language into typed blocks
// and renders those blocks for browsers, terminals and graph tools. The pkg
// directory is organized into three areas:
//
//  1. Core: [markup] (grammar, block model, Transpile) and the renderers
//     under render/ ([html], [ansi], [outline])
//  2. Orchestration: [pipeline] (transpile → render with caching) and
//     [preview] (live sessions with last-write-wins publication)
//  3. Infrastructure: [cache], [config], [errors], [io], [observability],
//     [server] and [buildinfo]
//
// # Architecture
//
//	text (file, stdin, HTTP body, session update)
//	         ↓
//	    [markup] Transpile(text, grammar) → []Block
//	         ↓
//	    [pipeline] Runner (artifact cache per format)
//	         ↓
//	    html · document · json · text · dot · svg · pdf · png
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/docmark/pkg/markup"
//	    "github.com/matzehuels/docmark/pkg/render/html"
//	)
//
//	blocks := markup.Transpile("# Weekly Sync\n- notes", markup.Previewer)
//	fragment := html.Render(blocks, markup.Previewer)
//
// With caching and several formats at once:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	result, err := runner.Execute(ctx, text, pipeline.Options{
//	    Grammar: "docstyle",
//	    Formats: []string{"document", "json"},
//	})
//
// The core transpiler has no error path and never logs; errors and logging
// live in the outer layers.
//
// [markup]: github.com/matzehuels/docmark/pkg/markup
// [html]: github.com/matzehuels/docmark/pkg/render/html
// [ansi]: github.com/matzehuels/docmark/pkg/render/ansi
// [outline]: github.com/matzehuels/docmark/pkg/render/outline
// [pipeline]: github.com/matzehuels/docmark/pkg/pipeline
// [preview]: github.com/matzehuels/docmark/pkg/preview
// [cache]: github.com/matzehuels/docmark/pkg/cache
// [config]: github.com/matzehuels/docmark/pkg/config
// [errors]: github.com/matzehuels/docmark/pkg/errors
// [io]: github.com/matzehuels/docmark/pkg/io
// [observability]: github.com/matzehuels/docmark/pkg/observability
// [server]: github.com/matzehuels/docmark/pkg/server
// [buildinfo]: github.com/matzehuels/docmark/pkg/buildinfo
package pkg
