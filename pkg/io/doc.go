// Package io reads source text and exchanges transpiled blocks as JSON.
//
// # Input
//
// [ReadText] reads a document from a file path, or from stdin when the path
// is "-". [ReadTextFrom] reads from any io.Reader. Both normalise CRLF line
// endings to LF so that the transpiler sees one line per "\n".
//
// # JSON Format
//
// The block export names the grammar and lists the blocks in input order:
//
//	{
//	  "grammar": "previewer",
//	  "blocks": [
//	    {"kind": "title", "text": "Weekly Sync"},
//	    {"kind": "metadata", "text": "Date: Monday"},
//	    {"kind": "link", "label": "Docs", "url": "http://example.com"},
//	    {"kind": "spacer"},
//	    {"kind": "paragraph", "text": "hi **there**", "spans": [
//	      {"text": "hi "}, {"text": "there", "emphasis": true}
//	    ]}
//	  ]
//	}
//
// Empty fields are omitted. [WriteJSON] and [ExportJSON] produce the format;
// [ReadJSON] and [ImportJSON] read it back, rejecting unknown kinds and
// grammars.
package io
