package parser

import (
	"errors"
	"fmt"
	"strconv"

	"logpretty/internal/model"

	"github.com/rs/zerolog/log"
	"github.com/valyala/fastjson"
)

// ErrNotRecord is returned for any line that does not hold a JSON object.
var ErrNotRecord = errors.New("line is not a structured record")

type RecordParser interface {
	Parse(line string) (*model.Record, error)
}

type jsonRecordParser struct {
	pool fastjson.ParserPool
}

// NewJSONRecordParser returns a RecordParser that is safe for concurrent use.
func NewJSONRecordParser() RecordParser {
	return &jsonRecordParser{}
}

func (p *jsonRecordParser) Parse(line string) (*model.Record, error) {
	// Parse is lenient with leading zeros, bare trailing dots, bad escapes and
	// raw control characters in strings; Validate is not.
	if err := fastjson.Validate(line); err != nil {
		log.Trace().Err(err).Str("line", line).Msg("Line is not valid JSON")
		return nil, fmt.Errorf("%w: %v", ErrNotRecord, err)
	}

	fp := p.pool.Get()
	defer p.pool.Put(fp)

	v, err := fp.Parse(line)
	if err != nil {
		log.Trace().Err(err).Str("line", line).Msg("Line is not valid JSON")
		return nil, fmt.Errorf("%w: %v", ErrNotRecord, err)
	}

	if v.Type() != fastjson.TypeObject {
		log.Trace().Str("type", v.Type().String()).Msg("JSON line is not an object")
		return nil, fmt.Errorf("%w: top-level value is %s", ErrNotRecord, v.Type())
	}

	return model.NewRecord(convertValue(v).Fields...), nil
}

// convertValue copies a fastjson value out of the parser's arena so it stays
// valid after the parser is returned to the pool.
func convertValue(v *fastjson.Value) model.Value {
	switch v.Type() {
	case fastjson.TypeObject:
		o, _ := v.Object()
		fields := make([]model.Field, 0, o.Len())
		o.Visit(func(key []byte, child *fastjson.Value) {
			fields = append(fields, model.Field{Key: string(key), Value: convertValue(child)})
		})
		return model.Object(fields...)
	case fastjson.TypeArray:
		arr, _ := v.Array()
		items := make([]model.Value, len(arr))
		for i, item := range arr {
			items[i] = convertValue(item)
		}
		return model.Array(items...)
	case fastjson.TypeString:
		return model.String(string(v.GetStringBytes()))
	case fastjson.TypeNumber:
		n, err := v.Float64()
		if err != nil {
			// out-of-range literals; ParseFloat saturates to ±Inf
			n, _ = strconv.ParseFloat(v.String(), 64)
		}
		return model.Number(n)
	case fastjson.TypeTrue:
		return model.Bool(true)
	case fastjson.TypeFalse:
		return model.Bool(false)
	default:
		return model.Null()
	}
}
