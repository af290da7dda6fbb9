package kantra

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// LoadKind classifies why a snapshot could not be loaded.
type LoadKind string

const (
	// LoadNotFound means the snapshot file does not exist.
	LoadNotFound LoadKind = "not_found"

	// LoadPermission means the snapshot file exists but cannot be read.
	LoadPermission LoadKind = "permission"

	// LoadEncoding means the file is not valid UTF-8.
	LoadEncoding LoadKind = "encoding"

	// LoadSyntax means the file is not valid YAML.
	LoadSyntax LoadKind = "syntax"

	// LoadWrongShape means the YAML parsed but the top level is not the
	// expected sequence of ruleset groups (includes empty documents).
	LoadWrongShape LoadKind = "wrong_shape"
)

// LoadError reports a snapshot that could not be loaded at all, as opposed
// to individual malformed entries inside an otherwise valid snapshot
// (those surface as Warnings). The Kind lets callers produce precise
// diagnostics while treating every load failure the same way in the
// pipeline.
type LoadError struct {
	Path string
	Kind LoadKind
	Err  error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("loading snapshot %s: %s: %v", e.Path, e.Kind, e.Err)
	}
	return fmt.Sprintf("loading snapshot %s: %s", e.Path, e.Kind)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Warning reports one malformed entry that was skipped during parsing.
// Skipping is per-entry: sibling entries are unaffected.
type Warning struct {
	// Path of the snapshot file the entry came from.
	Path string

	// Context locates the entry within the document, e.g. `ruleset[2]`
	// or `violation "javax-to-jakarta-00001"`.
	Context string

	// Message describes what was wrong.
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s: %s", w.Path, w.Context, w.Message)
}

// Load reads and parses one snapshot file. A failure to produce any
// document at all is returned as a *LoadError; recoverable per-entry
// problems are returned as warnings alongside the parsed document.
func Load(path string) (Document, []Warning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		kind := LoadNotFound
		if errors.Is(err, fs.ErrPermission) {
			kind = LoadPermission
		}
		return nil, nil, &LoadError{Path: path, Kind: kind, Err: err}
	}

	if !utf8.Valid(data) {
		return nil, nil, &LoadError{Path: path, Kind: LoadEncoding,
			Err: errors.New("file contains invalid UTF-8")}
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, nil, &LoadError{Path: path, Kind: LoadSyntax, Err: err}
	}

	if root.Kind == 0 || len(root.Content) == 0 {
		return nil, nil, &LoadError{Path: path, Kind: LoadWrongShape,
			Err: errors.New("document is empty")}
	}

	top := root.Content[0]
	if top.Kind != yaml.SequenceNode {
		return nil, nil, &LoadError{Path: path, Kind: LoadWrongShape,
			Err: fmt.Errorf("top level is %s, expected a sequence of rulesets", nodeKind(top))}
	}

	doc, warnings := parseDocument(top, path)
	return doc, warnings, nil
}
