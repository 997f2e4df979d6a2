// Package value implements the runtime value representation and value
// semantics: arithmetic promotion, structural equality, ordering, and
// truthiness.
package value

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Kind discriminates the tagged union stored in a Value.
type Kind int

const (
	Null Kind = iota
	Bool
	Int
	Float
	String
	List
	Dict
	Task
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	case List:
		return "list"
	case Dict:
		return "dict"
	case Task:
		return "task"
	default:
		return "unknown"
	}
}

// Value is a single runtime value. Data holds the Go representation
// matching Kind: nil for Null, bool for Bool, int64 for Int, float64
// for Float, string for String, *ListVal for List, *DictVal for Dict,
// and TaskHandle for Task (a task-handle only ever needs its opaque
// identity, so it lives behind an interface implemented by internal/vm).
type Value struct {
	Kind Kind
	Data any
}

// TaskHandle is the interface a spawned task's handle must satisfy so
// this package can print, compare, and pass it around without
// importing internal/vm (which would create an import cycle, since vm
// imports value).
type TaskHandle interface {
	TaskID() int64
}

func NullValue() Value              { return Value{Kind: Null} }
func BoolValue(b bool) Value        { return Value{Kind: Bool, Data: b} }
func IntValue(i int64) Value        { return Value{Kind: Int, Data: i} }
func FloatValue(f float64) Value    { return Value{Kind: Float, Data: f} }
func StringValue(s string) Value    { return Value{Kind: String, Data: s} }
func ListValue(l *ListVal) Value    { return Value{Kind: List, Data: l} }
func DictValue(d *DictVal) Value    { return Value{Kind: Dict, Data: d} }
func TaskValue(t TaskHandle) Value  { return Value{Kind: Task, Data: t} }

func (v Value) AsBool() bool       { return v.Data.(bool) }
func (v Value) AsInt() int64       { return v.Data.(int64) }
func (v Value) AsFloat() float64   { return v.Data.(float64) }
func (v Value) AsString() string   { return v.Data.(string) }
func (v Value) AsList() *ListVal   { return v.Data.(*ListVal) }
func (v Value) AsDict() *DictVal   { return v.Data.(*DictVal) }
func (v Value) AsTask() TaskHandle { return v.Data.(TaskHandle) }

// ListVal is a mutable, ordered runtime list.
type ListVal struct {
	Items []Value
}

// DictVal is an insertion-ordered runtime dict. Keys are compared by
// their canonical string form (canonicalKey), so any hashable
// primitive (bool/int/float/string) may be used as a key.
type DictVal struct {
	order []Value
	index map[string]int
	vals  []Value
}

func NewDict() *DictVal {
	return &DictVal{index: map[string]int{}}
}

func canonicalKey(k Value) string {
	switch k.Kind {
	case String:
		return "s:" + k.AsString()
	case Int:
		return "i:" + strconv.FormatInt(k.AsInt(), 10)
	case Float:
		return "f:" + strconv.FormatFloat(k.AsFloat(), 'g', -1, 64)
	case Bool:
		return "b:" + strconv.FormatBool(k.AsBool())
	case Null:
		return "n"
	default:
		return fmt.Sprintf("%s:%v", k.Kind, k.Data)
	}
}

// Set inserts or overwrites key in place, preserving the key's
// original insertion position when it already exists.
func (d *DictVal) Set(key, val Value) {
	ck := canonicalKey(key)
	if i, ok := d.index[ck]; ok {
		d.vals[i] = val
		return
	}
	d.index[ck] = len(d.order)
	d.order = append(d.order, key)
	d.vals = append(d.vals, val)
}

func (d *DictVal) Get(key Value) (Value, bool) {
	i, ok := d.index[canonicalKey(key)]
	if !ok {
		return Value{}, false
	}
	return d.vals[i], true
}

func (d *DictVal) Contains(key Value) bool {
	_, ok := d.index[canonicalKey(key)]
	return ok
}

func (d *DictVal) Keys() []Value {
	out := make([]Value, len(d.order))
	copy(out, d.order)
	return out
}

func (d *DictVal) Len() int { return len(d.order) }

// Clone deep-copies a dict for task-isolation snapshots.
func (d *DictVal) Clone() *DictVal {
	out := NewDict()
	for i, k := range d.order {
		out.Set(Clone(k), Clone(d.vals[i]))
	}
	return out
}

// Clone deep-copies v, used to build a spawned task's globals snapshot
// for copy-on-spawn isolation.
func Clone(v Value) Value {
	switch v.Kind {
	case List:
		src := v.AsList()
		items := make([]Value, len(src.Items))
		for i, it := range src.Items {
			items[i] = Clone(it)
		}
		return ListValue(&ListVal{Items: items})
	case Dict:
		return DictValue(v.AsDict().Clone())
	default:
		return v
	}
}

// epsilon is the tolerance used for numeric equality.
const epsilon = 1e-9

// Equal implements structural/numeric equality: numeric equality by
// float value within epsilon, structural equality for collections
// (dict equality is key-set and per-key value equal, independent of
// key order).
func Equal(a, b Value) bool {
	if isNumeric(a) && isNumeric(b) {
		return math.Abs(numeric(a)-numeric(b)) <= epsilon
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case Null:
		return true
	case Bool:
		return a.AsBool() == b.AsBool()
	case String:
		return a.AsString() == b.AsString()
	case List:
		al, bl := a.AsList(), b.AsList()
		if len(al.Items) != len(bl.Items) {
			return false
		}
		for i := range al.Items {
			if !Equal(al.Items[i], bl.Items[i]) {
				return false
			}
		}
		return true
	case Dict:
		ad, bd := a.AsDict(), b.AsDict()
		if ad.Len() != bd.Len() {
			return false
		}
		for i, k := range ad.order {
			bv, ok := bd.Get(k)
			if !ok || !Equal(ad.vals[i], bv) {
				return false
			}
		}
		return true
	case Task:
		return a.AsTask().TaskID() == b.AsTask().TaskID()
	}
	return false
}

func isNumeric(v Value) bool { return v.Kind == Int || v.Kind == Float }

func numeric(v Value) float64 {
	if v.Kind == Int {
		return float64(v.AsInt())
	}
	return v.AsFloat()
}

// Less implements ordering: numeric, or lexicographic (byte-wise) on
// strings only.
func Less(a, b Value) (bool, error) {
	if isNumeric(a) && isNumeric(b) {
		return numeric(a) < numeric(b), nil
	}
	if a.Kind == String && b.Kind == String {
		return a.AsString() < b.AsString(), nil
	}
	return false, fmt.Errorf("comparison requires two numbers or two strings, got %s and %s", a.Kind, b.Kind)
}

// Truthy reports whether v is truthy: null/false/0/empty-string/
// empty-collection are falsy; everything else truthy.
func Truthy(v Value) bool {
	switch v.Kind {
	case Null:
		return false
	case Bool:
		return v.AsBool()
	case Int:
		return v.AsInt() != 0
	case Float:
		return v.AsFloat() != 0
	case String:
		return v.AsString() != ""
	case List:
		return len(v.AsList().Items) != 0
	case Dict:
		return v.AsDict().Len() != 0
	default:
		return true
	}
}

// Stringify renders v the way the `stringify`/`print` builtins do.
func Stringify(v Value) string {
	switch v.Kind {
	case Null:
		return "null"
	case Bool:
		return strconv.FormatBool(v.AsBool())
	case Int:
		return strconv.FormatInt(v.AsInt(), 10)
	case Float:
		return strconv.FormatFloat(v.AsFloat(), 'g', -1, 64)
	case String:
		return v.AsString()
	case List:
		items := v.AsList().Items
		parts := make([]string, len(items))
		for i, it := range items {
			parts[i] = quoteIfString(it)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case Dict:
		d := v.AsDict()
		parts := make([]string, 0, d.Len())
		for _, k := range d.order {
			val, _ := d.Get(k)
			parts = append(parts, quoteIfString(k)+": "+quoteIfString(val))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case Task:
		return fmt.Sprintf("<task %d>", v.AsTask().TaskID())
	default:
		return ""
	}
}

func quoteIfString(v Value) string {
	if v.Kind == String {
		return strconv.Quote(v.AsString())
	}
	return Stringify(v)
}

// FromJSON converts a decoded encoding/json value (via gjson.Result.Value()
// or encoding/json.Unmarshal into `any`) into a runtime Value.
func FromJSON(v any) Value {
	switch x := v.(type) {
	case nil:
		return NullValue()
	case bool:
		return BoolValue(x)
	case float64:
		if x == math.Trunc(x) && !math.IsInf(x, 0) {
			return IntValue(int64(x))
		}
		return FloatValue(x)
	case string:
		return StringValue(x)
	case []any:
		items := make([]Value, len(x))
		for i, e := range x {
			items[i] = FromJSON(e)
		}
		return ListValue(&ListVal{Items: items})
	case map[string]any:
		d := NewDict()
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			d.Set(StringValue(k), FromJSON(x[k]))
		}
		return DictValue(d)
	default:
		return NullValue()
	}
}

// ToJSON converts a runtime Value into a plain Go value suitable for
// encoding/json.Marshal.
func ToJSON(v Value) any {
	switch v.Kind {
	case Null:
		return nil
	case Bool:
		return v.AsBool()
	case Int:
		return v.AsInt()
	case Float:
		return v.AsFloat()
	case String:
		return v.AsString()
	case List:
		items := v.AsList().Items
		out := make([]any, len(items))
		for i, it := range items {
			out[i] = ToJSON(it)
		}
		return out
	case Dict:
		d := v.AsDict()
		out := make(map[string]any, d.Len())
		for _, k := range d.order {
			val, _ := d.Get(k)
			out[canonicalJSONKey(k)] = ToJSON(val)
		}
		return out
	default:
		return nil
	}
}

func canonicalJSONKey(k Value) string {
	if k.Kind == String {
		return k.AsString()
	}
	return Stringify(k)
}
