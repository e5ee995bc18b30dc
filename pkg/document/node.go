// Package document defines the parsed JSON value model used by the
// extraction engine. Nodes are identified by pointer, so a tree built
// programmatically may alias or even cycle; consumers that walk the
// tree are expected to tolerate that.
package document

import "strconv"

// Kind classifies the type of a document node.
type Kind uint8

// Node kinds for JSON values.
const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindObject
	KindArray
)

// Field is one key/value pair of an object node.
// Objects preserve the key order of the source document.
type Field struct {
	Key   string
	Value *Node
}

// Node represents a single JSON value. Exactly one of the payload
// fields is meaningful, selected by Kind:
//
//   - KindNull: no payload
//   - KindBool: Bool
//   - KindNumber: Num (the literal text, e.g. "3" or "3.5")
//   - KindString: Str
//   - KindObject: Fields
//   - KindArray: Items
type Node struct {
	Kind Kind

	Bool bool
	Num  string
	Str  string

	Fields []Field
	Items  []*Node
}

// Get returns the value of the named object field, or nil if the node
// is not an object or has no such field.
func (n *Node) Get(key string) *Node {
	if n == nil || n.Kind != KindObject {
		return nil
	}
	for _, f := range n.Fields {
		if f.Key == key {
			return f.Value
		}
	}
	return nil
}

// Has reports whether the node is an object carrying the named field.
func (n *Node) Has(key string) bool {
	if n == nil || n.Kind != KindObject {
		return false
	}
	for _, f := range n.Fields {
		if f.Key == key {
			return true
		}
	}
	return false
}

// Int returns the node's value as an integer. It succeeds only for
// number nodes whose literal is integral: "3" parses, "3.0" does not.
// This mirrors the distinction the source documents make between
// integer and floating-point fields.
func (n *Node) Int() (int64, bool) {
	if n == nil || n.Kind != KindNumber {
		return 0, false
	}
	v, err := strconv.ParseInt(n.Num, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Float returns the node's value as a float64 for any number node.
func (n *Node) Float() (float64, bool) {
	if n == nil || n.Kind != KindNumber {
		return 0, false
	}
	v, err := strconv.ParseFloat(n.Num, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Strings collects the string content of a message-like value: a
// string node yields itself, an array node yields its string elements
// in order (non-strings skipped), anything else yields nothing.
func (n *Node) Strings() []string {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KindString:
		return []string{n.Str}
	case KindArray:
		var out []string
		for _, it := range n.Items {
			if it != nil && it.Kind == KindString {
				out = append(out, it.Str)
			}
		}
		return out
	default:
		return nil
	}
}

// Constructors used when building trees in code (primarily tests and
// synthetic fixtures). Decoded documents come from Decode/Load.

// Null returns a new null node.
func Null() *Node { return &Node{Kind: KindNull} }

// BoolNode returns a new boolean node.
func BoolNode(v bool) *Node { return &Node{Kind: KindBool, Bool: v} }

// Int returns a new integer number node.
func Int(v int64) *Node {
	return &Node{Kind: KindNumber, Num: strconv.FormatInt(v, 10)}
}

// Number returns a new number node with the given literal text.
func Number(lit string) *Node { return &Node{Kind: KindNumber, Num: lit} }

// String returns a new string node.
func String(s string) *Node { return &Node{Kind: KindString, Str: s} }

// Array returns a new array node with the given elements.
func Array(items ...*Node) *Node { return &Node{Kind: KindArray, Items: items} }

// Object returns a new object node with the given fields, in order.
func Object(fields ...Field) *Node { return &Node{Kind: KindObject, Fields: fields} }

// F is shorthand for constructing an object field.
func F(key string, value *Node) Field { return Field{Key: key, Value: value} }

// Set appends or replaces the named field on an object node. It is a
// convenience for building aliased fixtures.
func (n *Node) Set(key string, value *Node) *Node {
	for i, f := range n.Fields {
		if f.Key == key {
			n.Fields[i].Value = value
			return n
		}
	}
	n.Fields = append(n.Fields, Field{Key: key, Value: value})
	return n
}
