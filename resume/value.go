package resume

import "fmt"

// Kind discriminates the variants of a Value.
type Kind int

const (
	KindAbsent Kind = iota
	KindScalar
	KindEnum
	KindObject
	KindList
)

// Value is one node of a record tree: a scalar or enum leaf, an object with
// fields in a fixed order, an ordered list, or an absent optional. Building
// the tree explicitly keeps flattening a structural recursion with a
// deterministic traversal order, with no reflection involved.
type Value struct {
	kind  Kind
	text  string
	items []Value
}

// Absent marks an optional field with no value. Flatten skips it.
func Absent() Value {
	return Value{kind: KindAbsent}
}

// Scalar is a leaf holding pre-rendered text.
func Scalar(text string) Value {
	return Value{kind: KindScalar, text: text}
}

// Scalarf is Scalar with fmt.Sprintf formatting.
func Scalarf(format string, args ...any) Value {
	return Scalar(fmt.Sprintf(format, args...))
}

// Enum is a leaf for an enumerated field; it flattens to the underlying
// string value, labeled.
func Enum(label, value string) Value {
	return Value{kind: KindEnum, text: fmt.Sprintf("%s: %s", label, value)}
}

// Optional is Scalar when value is non-empty and Absent otherwise.
func Optional(label, value string) Value {
	if value == "" {
		return Absent()
	}
	return Scalarf("%s: %s", label, value)
}

// Object groups fields; flattening visits them in the given order.
func Object(fields ...Value) Value {
	return Value{kind: KindObject, items: fields}
}

// List groups elements; flattening visits them in list order.
func List(elems ...Value) Value {
	return Value{kind: KindList, items: elems}
}

// Kind reports the variant of v.
func (v Value) Kind() Kind {
	return v.kind
}

// Flatten emits the tree's leaf strings depth-first: absent values are
// skipped, object fields and list elements are visited in order, and each
// scalar or enum leaf contributes exactly one string.
func (v Value) Flatten() []string {
	return v.appendLeaves(nil)
}

func (v Value) appendLeaves(out []string) []string {
	switch v.kind {
	case KindScalar, KindEnum:
		return append(out, v.text)
	case KindObject, KindList:
		for _, item := range v.items {
			out = item.appendLeaves(out)
		}
	}
	return out
}
