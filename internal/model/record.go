package model

// Kind identifies which member of the Value union is set.
type Kind uint8

const (
	KindNull Kind = iota
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
		return "unknown"
	}
}

// Value is a decoded JSON value. Only the member matching Kind is meaningful.
type Value struct {
	Kind   Kind
	Bool   bool
	Num    float64
	Str    string
	Items  []Value
	Fields []Field
}

// Field is one key/value pair of an object. Objects keep their fields in
// input order.
type Field struct {
	Key   string
	Value Value
}

func Null() Value                { return Value{Kind: KindNull} }
func Bool(b bool) Value          { return Value{Kind: KindBool, Bool: b} }
func Number(n float64) Value     { return Value{Kind: KindNumber, Num: n} }
func String(s string) Value      { return Value{Kind: KindString, Str: s} }
func Array(items ...Value) Value { return Value{Kind: KindArray, Items: items} }

// Object builds an object value. Duplicate keys collapse onto the first
// position with the last value.
func Object(fields ...Field) Value {
	return Value{Kind: KindObject, Fields: dedupe(fields)}
}

// Get looks up key in an object value.
func (v Value) Get(key string) (Value, bool) {
	if v.Kind != KindObject {
		return Value{}, false
	}
	return lookup(v.Fields, key)
}

// Without returns a copy of an object value with the given keys removed.
// Non-object values are returned unchanged.
func (v Value) Without(keys ...string) Value {
	if v.Kind != KindObject {
		return v
	}
	return Value{Kind: KindObject, Fields: without(v.Fields, keys)}
}

// Truthy mirrors how loosely-typed producers treat a field as "set":
// false, 0, "" and null are unset.
func (v Value) Truthy() bool {
	switch v.Kind {
	case KindNull:
		return false
	case KindBool:
		return v.Bool
	case KindNumber:
		return v.Num != 0 && v.Num == v.Num
	case KindString:
		return v.Str != ""
	default:
		return true
	}
}

// StandardFields are consumed by the header and error rendering and never
// shown in the residual block.
var StandardFields = []string{"pid", "hostname", "name", "level", "time", "msg", "v", "tag", "err"}

// Record is one structured log line.
type Record struct {
	Fields []Field
}

// NewRecord builds a record from fields in input order.
func NewRecord(fields ...Field) *Record {
	return &Record{Fields: dedupe(fields)}
}

func (r *Record) Get(key string) (Value, bool) {
	return lookup(r.Fields, key)
}

// Without returns the fields of r minus the given keys. r is left untouched.
func (r *Record) Without(keys ...string) []Field {
	return without(r.Fields, keys)
}

func lookup(fields []Field, key string) (Value, bool) {
	for _, f := range fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return Value{}, false
}

func without(fields []Field, keys []string) []Field {
	out := make([]Field, 0, len(fields))
next:
	for _, f := range fields {
		for _, k := range keys {
			if f.Key == k {
				continue next
			}
		}
		out = append(out, f)
	}
	return out
}

func dedupe(fields []Field) []Field {
	if len(fields) < 2 {
		return fields
	}
	index := make(map[string]int, len(fields))
	out := make([]Field, 0, len(fields))
	for _, f := range fields {
		if i, seen := index[f.Key]; seen {
			out[i].Value = f.Value
			continue
		}
		index[f.Key] = len(out)
		out = append(out, f)
	}
	return out
}
