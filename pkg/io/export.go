package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/docmark/pkg/markup"
)

// Document is a transpiled document: the grammar and the blocks it produced.
type Document struct {
	Grammar string         `json:"grammar"`
	Blocks  []markup.Block `json:"blocks"`
}

// NewDocument pairs blocks with the grammar that produced them. A nil block
// list is exported as an empty array.
func NewDocument(g markup.Grammar, blocks []markup.Block) *Document {
	if blocks == nil {
		blocks = []markup.Block{}
	}
	return &Document{Grammar: g.Name, Blocks: blocks}
}

// WriteJSON encodes doc as indented JSON and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(doc *Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes doc to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(doc *Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(doc, f)
}
