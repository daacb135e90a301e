package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// decodeJSON parses a JSON document into a yaml.Node tree, keeping key
// order and value positions. JSON files are not always valid YAML (tab
// indentation is common), so they get their own parser.
func decodeJSON(data []byte) (*yaml.Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	p := &jsonParser{dec: dec, data: data}
	root, err := p.value()
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		line, col := p.position()
		return nil, &jsonSyntaxError{Line: line, Column: col, Msg: "unexpected data after top-level value"}
	}
	return &yaml.Node{Kind: yaml.DocumentNode, Line: 1, Column: 1, Content: []*yaml.Node{root}}, nil
}

type jsonSyntaxError struct {
	Line, Column int
	Msg          string
}

func (e *jsonSyntaxError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Msg)
}

type jsonParser struct {
	dec  *json.Decoder
	data []byte
}

// position returns the line and column of the next token.
func (p *jsonParser) position() (int, int) {
	off := int(p.dec.InputOffset())
	for off < len(p.data) && strings.IndexByte(" \t\r\n:,", p.data[off]) >= 0 {
		off++
	}
	line := 1 + bytes.Count(p.data[:off], []byte("\n"))
	col := off + 1
	if i := bytes.LastIndexByte(p.data[:off], '\n'); i >= 0 {
		col = off - i
	}
	return line, col
}

func (p *jsonParser) token() (json.Token, int, int, error) {
	line, col := p.position()
	tok, err := p.dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, line, col, &jsonSyntaxError{Line: line, Column: col, Msg: err.Error()}
	}
	return tok, line, col, nil
}

func (p *jsonParser) value() (*yaml.Node, error) {
	tok, line, col, err := p.token()
	if err != nil {
		return nil, err
	}

	n := &yaml.Node{Line: line, Column: col}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			n.Kind, n.Tag = yaml.MappingNode, "!!map"
			for p.dec.More() {
				ktok, kline, kcol, err := p.token()
				if err != nil {
					return nil, err
				}
				n.Content = append(n.Content, str(ktok.(string), kline, kcol))

				v, err := p.value()
				if err != nil {
					return nil, err
				}
				n.Content = append(n.Content, v)
			}
		case '[':
			n.Kind, n.Tag = yaml.SequenceNode, "!!seq"
			for p.dec.More() {
				v, err := p.value()
				if err != nil {
					return nil, err
				}
				n.Content = append(n.Content, v)
			}
		default:
			return nil, &jsonSyntaxError{Line: line, Column: col, Msg: fmt.Sprintf("unexpected %q", t)}
		}
		// closing delimiter
		if _, _, _, err := p.token(); err != nil {
			return nil, err
		}
		return n, nil

	case string:
		return str(t, line, col), nil

	case json.Number:
		n.Kind, n.Value = yaml.ScalarNode, t.String()
		n.Tag = "!!int"
		if strings.ContainsAny(n.Value, ".eE") {
			n.Tag = "!!float"
		}
		return n, nil

	case bool:
		n.Kind, n.Tag, n.Value = yaml.ScalarNode, "!!bool", fmt.Sprint(t)
		return n, nil

	default:
		n.Kind, n.Tag, n.Value = yaml.ScalarNode, "!!null", "null"
		return n, nil
	}
}

func str(s string, line, col int) *yaml.Node {
	return &yaml.Node{
		Kind:   yaml.ScalarNode,
		Tag:    "!!str",
		Style:  yaml.DoubleQuotedStyle,
		Value:  s,
		Line:   line,
		Column: col,
	}
}
