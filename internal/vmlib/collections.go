package vmlib

import (
	"fmt"

	"github.com/yasniy-lang/yasniy/internal/errors"
	"github.com/yasniy-lang/yasniy/internal/value"
)

// Append implements `append(list, item)`, mutating list in place.
func Append(list, item value.Value) (value.Value, error) {
	if list.Kind != value.List {
		return value.Value{}, errors.RuntimeError("append: first argument must be a list", nil)
	}
	l := list.AsList()
	l.Items = append(l.Items, item)
	return value.NullValue(), nil
}

// Remove implements `remove(list, index)`, mutating list in place.
func Remove(list, idx value.Value) (value.Value, error) {
	if list.Kind != value.List {
		return value.Value{}, errors.RuntimeError("remove: first argument must be a list", nil)
	}
	l := list.AsList()
	i := idx.AsInt()
	if i < 0 || int(i) >= len(l.Items) {
		return value.Value{}, errors.RuntimeError(fmt.Sprintf("remove: index %d out of range", i), nil)
	}
	l.Items = append(l.Items[:i], l.Items[i+1:]...)
	return value.NullValue(), nil
}

// Keys implements `keys(dict)`, preserving insertion order.
func Keys(d value.Value) (value.Value, error) {
	if d.Kind != value.Dict {
		return value.Value{}, errors.RuntimeError("keys: argument must be a dict", nil)
	}
	return value.ListValue(&value.ListVal{Items: d.AsDict().Keys()}), nil
}

// Contains implements `contains(dict, key)`.
func Contains(d, key value.Value) (value.Value, error) {
	if d.Kind != value.Dict {
		return value.Value{}, errors.RuntimeError("contains: first argument must be a dict", nil)
	}
	return value.BoolValue(d.AsDict().Contains(key)), nil
}

// IndexGet implements the INDEX_GET opcode's runtime semantics: list
// indexing, string indexing (single-rune substring), and dict lookup.
func IndexGet(target, idx value.Value) (value.Value, error) {
	switch target.Kind {
	case value.List:
		items := target.AsList().Items
		i := idx.AsInt()
		if i < 0 || int(i) >= len(items) {
			return value.Value{}, errors.RuntimeError(fmt.Sprintf("list index %d out of range", i), nil)
		}
		return items[i], nil
	case value.String:
		runes := []rune(target.AsString())
		i := idx.AsInt()
		if i < 0 || int(i) >= len(runes) {
			return value.Value{}, errors.RuntimeError(fmt.Sprintf("string index %d out of range", i), nil)
		}
		return value.StringValue(string(runes[i])), nil
	case value.Dict:
		v, ok := target.AsDict().Get(idx)
		if !ok {
			return value.Value{}, errors.RuntimeError(fmt.Sprintf("missing dict key %s", value.Stringify(idx)), nil)
		}
		return v, nil
	default:
		return value.Value{}, errors.RuntimeError(fmt.Sprintf("cannot index into %s", target.Kind), nil)
	}
}

// IndexSet implements the INDEX_SET opcode's runtime semantics.
func IndexSet(target, idx, val value.Value) error {
	switch target.Kind {
	case value.List:
		items := target.AsList()
		i := idx.AsInt()
		if i < 0 || int(i) >= len(items.Items) {
			return errors.RuntimeError(fmt.Sprintf("list index %d out of range", i), nil)
		}
		items.Items[i] = val
		return nil
	case value.Dict:
		target.AsDict().Set(idx, val)
		return nil
	default:
		return errors.RuntimeError(fmt.Sprintf("cannot index-assign into %s", target.Kind), nil)
	}
}

// Len implements the LEN opcode's "semantic length of top" (spec
// §4.5): same rule as the `length` builtin, generalized to dicts too.
func Len(v value.Value) (value.Value, error) { return Length(v) }
