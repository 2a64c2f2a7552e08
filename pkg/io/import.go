package io

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/docmark/pkg/errors"
	"github.com/matzehuels/docmark/pkg/markup"
)

// Stdin is the path that makes ReadText read standard input.
const Stdin = "-"

// ReadText reads the document at path, or standard input when path is "-".
// A missing file yields an error with code FILE_NOT_FOUND.
func ReadText(path string) (string, error) {
	if path == Stdin {
		return ReadTextFrom(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Wrap(errors.ErrCodeFileNotFound, err, "input file %s", path)
		}
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadTextFrom(f)
}

// ReadTextFrom reads all of r and normalises CRLF line endings to LF.
// ReadTextFrom does not close r.
func ReadTextFrom(r io.Reader) (string, error) {
	data, err := io.ReadAll(bufio.NewReader(r))
	if err != nil {
		return "", fmt.Errorf("read: %w", err)
	}
	return strings.ReplaceAll(string(data), "\r\n", "\n"), nil
}

// ReadJSON decodes a block export from r.
//
// The grammar must name a known grammar; each block kind must be one of the
// kinds listed by [markup.Kinds]. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if _, err := markup.Lookup(doc.Grammar); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGrammar, err, "decode")
	}
	return &doc, nil
}

// ImportJSON reads a block export from the file at path.
// It returns the same validation errors as [ReadJSON].
func ImportJSON(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
