package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/matzehuels/forcelayout/pkg/errors"
)

// Supported input formats.
const (
	FormatGML  = "gml"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatGV   = "gv"
)

// Formats lists the file extensions ReadFile accepts.
var Formats = []string{FormatGML, FormatJSON, FormatDOT, FormatGV}

// =============================================================================
// Graph Serialization API
// =============================================================================

// ReadFile loads a graph, choosing the reader from the file extension.
func ReadFile(path string) (*Graph, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	format, err := errors.ValidateFormat(path, Formats...)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	g, err := Read(f, format)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return g, nil
}

// Read decodes a graph in the given format ("gml", "json", "dot" or "gv").
func Read(r io.Reader, format string) (*Graph, error) {
	var (
		g   *Graph
		err error
	)
	switch format {
	case FormatGML:
		g, err = readGML(r)
	case FormatJSON:
		g, err = readJSON(r)
	case FormatDOT, FormatGV:
		g, err = readDOT(r)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported graph format %q", format)
	}
	if err != nil {
		return nil, err
	}
	if g.NodeCount() == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "graph has no nodes")
	}
	return g, nil
}

// MarshalGraph converts a graph to node-link JSON bytes.
func MarshalGraph(g *Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteJSON writes g as indented node-link JSON.
func WriteJSON(g *Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ToDocument(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteFile writes g as node-link JSON to path.
func WriteFile(g *Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(g, f)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func readJSON(r io.Reader) (*Graph, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json")
	}
	return FromDocument(doc)
}

func nodeID(i int) string { return strconv.Itoa(i) }
