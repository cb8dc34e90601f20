// Package jsontree holds decoded JSON as a tagged value. Lookups on a Node never
// fail: a missing key, an out of range index or a wrong-typed step yields an
// absent Node, and the coercion helpers turn absent values into zero defaults.
package jsontree

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
)

type Kind uint8

const (
	KindAbsent Kind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "absent"
	}
}

var ErrTrailingData = errors.New("jsontree: trailing data after value")

// Node is a single JSON value. The zero Node is absent.
type Node struct {
	kind Kind
	b    bool
	num  json.Number
	str  string
	arr  []Node
	obj  map[string]Node
}

// Parse decodes exactly one JSON value. Numbers keep their literal text.
func Parse(data []byte) (Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return Node{}, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return Node{}, ErrTrailingData
	}
	return FromAny(v), nil
}

// FromAny converts the output of encoding/json (or hand-built maps and slices)
// into a Node. Unsupported Go types become absent.
func FromAny(v any) Node {
	switch t := v.(type) {
	case nil:
		return Node{kind: KindNull}
	case Node:
		return t
	case bool:
		return NewBool(t)
	case json.Number:
		return Node{kind: KindNumber, num: t}
	case float64:
		return Node{kind: KindNumber, num: json.Number(strconv.FormatFloat(t, 'f', -1, 64))}
	case int:
		return NewInt(int64(t))
	case int64:
		return NewInt(t)
	case string:
		return NewString(t)
	case json.RawMessage:
		n, err := Parse(t)
		if err != nil {
			return Node{}
		}
		return n
	case []any:
		out := make([]Node, len(t))
		for i, it := range t {
			out[i] = FromAny(it)
		}
		return NewArray(out)
	case map[string]any:
		out := make(map[string]Node, len(t))
		for k, it := range t {
			out[k] = FromAny(it)
		}
		return NewObject(out)
	}
	return Node{}
}

func Null() Node              { return Node{kind: KindNull} }
func NewBool(b bool) Node     { return Node{kind: KindBool, b: b} }
func NewString(s string) Node { return Node{kind: KindString, str: s} }
func NewInt(n int64) Node     { return Node{kind: KindNumber, num: json.Number(strconv.FormatInt(n, 10))} }
func NewArray(xs []Node) Node { return Node{kind: KindArray, arr: xs} }
func NewObject(m map[string]Node) Node {
	if m == nil {
		m = map[string]Node{}
	}
	return Node{kind: KindObject, obj: m}
}

func (n Node) Kind() Kind     { return n.kind }
func (n Node) Exists() bool   { return n.kind != KindAbsent }
func (n Node) IsNull() bool   { return n.kind == KindNull }
func (n Node) IsArray() bool  { return n.kind == KindArray }
func (n Node) IsObject() bool { return n.kind == KindObject }

// Get returns the member named key, or an absent Node.
func (n Node) Get(key string) Node {
	if n.kind != KindObject {
		return Node{}
	}
	return n.obj[key]
}

// Path follows keys from n, e.g. Path("data", "listProperties").
func (n Node) Path(keys ...string) Node {
	cur := n
	for _, k := range keys {
		cur = cur.Get(k)
		if !cur.Exists() {
			return Node{}
		}
	}
	return cur
}

// Items returns the array elements, or an object's member values ordered by
// key. Scalars have no items.
func (n Node) Items() []Node {
	switch n.kind {
	case KindArray:
		return n.arr
	case KindObject:
		keys := make([]string, 0, len(n.obj))
		for k := range n.obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]Node, len(keys))
		for i, k := range keys {
			out[i] = n.obj[k]
		}
		return out
	}
	return nil
}

// Len is the number of array elements or object members.
func (n Node) Len() int {
	switch n.kind {
	case KindArray:
		return len(n.arr)
	case KindObject:
		return len(n.obj)
	}
	return 0
}

// Text returns strings as-is, numbers and bools in their JSON spelling, and ""
// for everything else.
func (n Node) Text() string {
	switch n.kind {
	case KindString:
		return n.str
	case KindNumber:
		return n.num.String()
	case KindBool:
		return strconv.FormatBool(n.b)
	}
	return ""
}

// Int coerces to int64. Fractions are truncated and out of range values are
// clamped; unparseable, NaN and infinite values give 0.
func (n Node) Int() int64 {
	switch n.kind {
	case KindNumber:
		return numberToInt(string(n.num))
	case KindString:
		return numberToInt(strings.TrimSpace(n.str))
	case KindBool:
		if n.b {
			return 1
		}
	}
	return 0
}

// Float coerces to float64; unparseable, NaN and infinite values give 0.
func (n Node) Float() float64 {
	switch n.kind {
	case KindNumber, KindString:
		s := n.str
		if n.kind == KindNumber {
			s = string(n.num)
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0
		}
		return f
	case KindBool:
		if n.b {
			return 1
		}
	}
	return 0
}

func numberToInt(s string) int64 {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	// float64(MaxInt64) rounds up to 2^63, which int64 cannot hold
	switch {
	case f >= float64(math.MaxInt64):
		return math.MaxInt64
	case f <= float64(math.MinInt64):
		return math.MinInt64
	}
	return int64(f)
}

// Any converts back to plain Go values (json.Number for numbers).
func (n Node) Any() any {
	switch n.kind {
	case KindBool:
		return n.b
	case KindNumber:
		return n.num
	case KindString:
		return n.str
	case KindArray:
		out := make([]any, len(n.arr))
		for i, it := range n.arr {
			out[i] = it.Any()
		}
		return out
	case KindObject:
		out := make(map[string]any, len(n.obj))
		for k, it := range n.obj {
			out[k] = it.Any()
		}
		return out
	}
	return nil
}

// Raw re-encodes the value. Absent nodes encode to nil.
func (n Node) Raw() json.RawMessage {
	if n.kind == KindAbsent {
		return nil
	}
	b, err := json.Marshal(n.Any())
	if err != nil {
		return nil
	}
	return b
}

func (n Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.Any())
}

func (n *Node) UnmarshalJSON(data []byte) error {
	p, err := Parse(data)
	if err != nil {
		return err
	}
	*n = p
	return nil
}
