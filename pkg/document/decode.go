package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
)

// ErrEmptyDocument is returned when the input contains no JSON value.
var ErrEmptyDocument = errors.New("empty document")

// Load reads and decodes one JSON document from disk.
func Load(path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	root, err := DecodeBytes(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return root, nil
}

// DecodeBytes decodes a single JSON document from a byte slice.
func DecodeBytes(data []byte) (*Node, error) {
	return Decode(bytes.NewReader(data))
}

// Decode decodes a single JSON document from r into a Node tree.
//
// The decoder is token-driven and builds the tree with an explicit
// container stack rather than recursion, so document depth is bounded
// by heap, not by the call stack. Object key order is preserved, and
// number literals keep their source text so integer-typed fields stay
// distinguishable from floats.
func Decode(r io.Reader) (*Node, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	type frame struct {
		node *Node
		// key is the pending field name for the next value in an
		// object frame.
		key    string
		hasKey bool
	}

	var (
		root  *Node
		stack []*frame
	)

	attach := func(n *Node) error {
		if len(stack) == 0 {
			if root != nil {
				return errors.New("multiple top-level values")
			}
			root = n
			return nil
		}
		top := stack[len(stack)-1]
		switch top.node.Kind {
		case KindObject:
			if !top.hasKey {
				return errors.New("value without preceding object key")
			}
			top.node.Fields = append(top.node.Fields, Field{Key: top.key, Value: n})
			top.hasKey = false
		case KindArray:
			top.node.Items = append(top.node.Items, n)
		}
		return nil
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read token: %w", err)
		}

		switch v := tok.(type) {
		case json.Delim:
			switch v {
			case '{':
				n := &Node{Kind: KindObject}
				if err := attach(n); err != nil {
					return nil, err
				}
				stack = append(stack, &frame{node: n})
			case '[':
				n := &Node{Kind: KindArray}
				if err := attach(n); err != nil {
					return nil, err
				}
				stack = append(stack, &frame{node: n})
			case '}', ']':
				if len(stack) == 0 {
					return nil, fmt.Errorf("unexpected %q", v)
				}
				stack = stack[:len(stack)-1]
			}
		case string:
			// Inside an object, strings alternate between keys and
			// values; the Token API hides the colon, so track parity
			// in the frame.
			if len(stack) > 0 {
				top := stack[len(stack)-1]
				if top.node.Kind == KindObject && !top.hasKey {
					top.key = v
					top.hasKey = true
					continue
				}
			}
			if err := attach(String(v)); err != nil {
				return nil, err
			}
		case json.Number:
			if err := attach(Number(v.String())); err != nil {
				return nil, err
			}
		case bool:
			if err := attach(BoolNode(v)); err != nil {
				return nil, err
			}
		case nil:
			if err := attach(Null()); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("unexpected token %T", tok)
		}
	}

	if len(stack) != 0 {
		return nil, errors.New("unexpected end of document")
	}
	if root == nil {
		return nil, ErrEmptyDocument
	}
	return root, nil
}
