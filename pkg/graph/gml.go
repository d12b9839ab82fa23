package graph

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"strings"
	"unicode"

	"github.com/matzehuels/forcelayout/pkg/errors"
)

// GML (Graph Modelling Language) is a nested key-value format:
//
//	graph [
//	  node [ id 0 label "BARABASI, A" ]
//	  node [ id 1 label "ALBERT, R" ]
//	  edge [ source 0 target 1 value 2.5 ]
//	]
//
// Only the first top-level "graph" list is read. Node "id" and edge
// "source"/"target" are matched textually; "label" gives the node name and
// defaults to the id. Other keys are ignored.

type gmlKind int

const (
	gmlScalar gmlKind = iota
	gmlList
)

type gmlValue struct {
	kind gmlKind
	text string    // scalar text (numbers verbatim, strings unquoted)
	list []gmlPair // nested key-value pairs
}

type gmlPair struct {
	key   string
	value gmlValue
}

func readGML(r io.Reader) (*Graph, error) {
	p := &gmlParser{r: bufio.NewReader(r), line: 1}
	top, err := p.parseList(false)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse gml")
	}

	var body []gmlPair
	found := false
	for _, kv := range top {
		if kv.key == "graph" && kv.value.kind == gmlList {
			body, found = kv.value.list, true
			break
		}
	}
	if !found {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "gml: no graph [ ... ] section")
	}
	return gmlToGraph(body)
}

func gmlToGraph(body []gmlPair) (*Graph, error) {
	index := make(map[string]int)
	var names []string
	type edge struct{ source, target string }
	var edges []edge

	for _, kv := range body {
		if kv.value.kind != gmlList {
			continue
		}
		switch kv.key {
		case "node":
			id, ok := lookupScalar(kv.value.list, "id")
			if !ok {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "gml: node %d has no id", len(names))
			}
			if _, dup := index[id]; dup {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "gml: duplicate node id %s", id)
			}
			label, ok := lookupScalar(kv.value.list, "label")
			if !ok {
				label = id
			}
			index[id] = len(names)
			names = append(names, label)
		case "edge":
			src, ok1 := lookupScalar(kv.value.list, "source")
			dst, ok2 := lookupScalar(kv.value.list, "target")
			if !ok1 || !ok2 {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "gml: edge %d needs source and target", len(edges))
			}
			edges = append(edges, edge{src, dst})
		}
	}

	g := New(names)
	for _, e := range edges {
		u, ok := index[e.source]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "gml: edge references unknown node %s", e.source)
		}
		v, ok := index[e.target]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "gml: edge references unknown node %s", e.target)
		}
		g.AddEdge(u, v)
	}
	return g, nil
}

func lookupScalar(list []gmlPair, key string) (string, bool) {
	for _, kv := range list {
		if kv.key == key && kv.value.kind == gmlScalar {
			return kv.value.text, true
		}
	}
	return "", false
}

// =============================================================================
// Tokenizer / Parser
// =============================================================================

type gmlParser struct {
	r    *bufio.Reader
	line int
}

func (p *gmlParser) errorf(format string, args ...any) error {
	return fmt.Errorf("line %d: %s", p.line, fmt.Sprintf(format, args...))
}

// parseList reads key-value pairs until EOF or, when nested, a closing ']'.
func (p *gmlParser) parseList(nested bool) ([]gmlPair, error) {
	var out []gmlPair
	for {
		tok, err := p.next()
		if err == io.EOF {
			if nested {
				return nil, p.errorf("unexpected end of input, missing ']'")
			}
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		if tok == "]" {
			if !nested {
				return nil, p.errorf("unexpected ']'")
			}
			return out, nil
		}
		if !isGMLKey(tok) {
			return nil, p.errorf("expected key, got %q", tok)
		}

		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		out = append(out, gmlPair{key: tok, value: val})
	}
}

func (p *gmlParser) parseValue() (gmlValue, error) {
	tok, err := p.next()
	if err == io.EOF {
		return gmlValue{}, p.errorf("unexpected end of input, missing value")
	}
	if err != nil {
		return gmlValue{}, err
	}
	switch {
	case tok == "[":
		list, err := p.parseList(true)
		if err != nil {
			return gmlValue{}, err
		}
		return gmlValue{kind: gmlList, list: list}, nil
	case tok == "]":
		return gmlValue{}, p.errorf("unexpected ']', missing value")
	case strings.HasPrefix(tok, `"`):
		return gmlValue{kind: gmlScalar, text: html.UnescapeString(tok[1 : len(tok)-1])}, nil
	default:
		return gmlValue{kind: gmlScalar, text: tok}, nil
	}
}

// next returns the next token: "[", "]", a quoted string (with quotes), or
// a bare word (key or number). Comments start with '#' and run to the end
// of the line.
func (p *gmlParser) next() (string, error) {
	for {
		r, _, err := p.r.ReadRune()
		if err != nil {
			return "", err
		}
		switch {
		case r == '\n':
			p.line++
		case unicode.IsSpace(r):
		case r == '#':
			if _, err := p.r.ReadString('\n'); err != nil {
				return "", err
			}
			p.line++
		case r == '[' || r == ']':
			return string(r), nil
		case r == '"':
			s, err := p.r.ReadString('"')
			if err == io.EOF {
				return "", p.errorf("unterminated string")
			}
			if err != nil {
				return "", err
			}
			p.line += strings.Count(s, "\n")
			return `"` + s, nil
		default:
			var b strings.Builder
			b.WriteRune(r)
			for {
				r, _, err := p.r.ReadRune()
				if err == io.EOF {
					return b.String(), nil
				}
				if err != nil {
					return "", err
				}
				if unicode.IsSpace(r) || r == '[' || r == ']' || r == '"' {
					if err := p.r.UnreadRune(); err != nil {
						return "", err
					}
					return b.String(), nil
				}
				b.WriteRune(r)
			}
		}
	}
}

func isGMLKey(tok string) bool {
	if tok == "" {
		return false
	}
	for i, r := range tok {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}
