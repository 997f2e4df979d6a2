package vmlib

import (
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/yasniy-lang/yasniy/internal/errors"
	"github.com/yasniy-lang/yasniy/internal/value"
)

// JSONParse implements `json_parse(s)`, using gjson so object key order
// from the source document is preserved (gjson.ForEach walks object
// members in source order; encoding/json's map decoding does not).
func JSONParse(s value.Value) (value.Value, error) {
	text := s.AsString()
	if !gjson.Valid(text) {
		return value.Value{}, errors.RuntimeError("json_parse: invalid JSON", nil)
	}
	return gjsonToValue(gjson.Parse(text)), nil
}

func gjsonToValue(r gjson.Result) value.Value {
	switch {
	case r.IsArray():
		var items []value.Value
		r.ForEach(func(_, v gjson.Result) bool {
			items = append(items, gjsonToValue(v))
			return true
		})
		return value.ListValue(&value.ListVal{Items: items})
	case r.IsObject():
		d := value.NewDict()
		r.ForEach(func(k, v gjson.Result) bool {
			d.Set(value.StringValue(k.String()), gjsonToValue(v))
			return true
		})
		return value.DictValue(d)
	default:
		switch r.Type {
		case gjson.Null:
			return value.NullValue()
		case gjson.True:
			return value.BoolValue(true)
		case gjson.False:
			return value.BoolValue(false)
		case gjson.String:
			return value.StringValue(r.String())
		case gjson.Number:
			return jsonNumberValue(r)
		default:
			return value.NullValue()
		}
	}
}

// jsonNumberValue keeps an integral JSON number as an Int rather than
// promoting every number to Float, preserving the int/float distinction.
func jsonNumberValue(r gjson.Result) value.Value {
	if n, err := strconv.ParseInt(r.Raw, 10, 64); err == nil {
		return value.IntValue(n)
	}
	return value.FloatValue(r.Float())
}

// JSONStringify implements `json_stringify(v)`, building the document
// incrementally with sjson.SetRaw rather than hand-rolling a JSON
// marshaler.
func JSONStringify(v value.Value) (value.Value, error) {
	s, err := toJSONString(v)
	if err != nil {
		return value.Value{}, errors.RuntimeError("json_stringify: "+err.Error(), err)
	}
	return value.StringValue(s), nil
}

func toJSONString(v value.Value) (string, error) {
	switch v.Kind {
	case value.Null:
		return "null", nil
	case value.Bool:
		return strconv.FormatBool(v.AsBool()), nil
	case value.Int:
		return strconv.FormatInt(v.AsInt(), 10), nil
	case value.Float:
		return strconv.FormatFloat(v.AsFloat(), 'g', -1, 64), nil
	case value.String:
		return strconv.Quote(v.AsString()), nil
	case value.List:
		doc := "[]"
		for _, item := range v.AsList().Items {
			raw, err := toJSONString(item)
			if err != nil {
				return "", err
			}
			doc, err = sjson.SetRaw(doc, "-1", raw)
			if err != nil {
				return "", err
			}
		}
		return doc, nil
	case value.Dict:
		doc := "{}"
		d := v.AsDict()
		for _, k := range d.Keys() {
			val, _ := d.Get(k)
			raw, err := toJSONString(val)
			if err != nil {
				return "", err
			}
			keyStr := value.Stringify(k)
			if k.Kind == value.String {
				keyStr = k.AsString()
			}
			doc, err = sjson.SetRaw(doc, escapeSjsonPath(keyStr), raw)
			if err != nil {
				return "", err
			}
		}
		return doc, nil
	default:
		return "null", nil
	}
}

// escapeSjsonPath escapes sjson's path metacharacters (`.`, `*`, `?`)
// in a dict key used as a path segment, so a key containing them is
// still treated as one literal path component.
func escapeSjsonPath(key string) string {
	out := make([]byte, 0, len(key))
	for i := 0; i < len(key); i++ {
		c := key[i]
		if c == '.' || c == '*' || c == '?' || c == '\\' {
			out = append(out, '\\')
		}
		out = append(out, c)
	}
	return string(out)
}
