package parser_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logpretty/internal/model"
	"logpretty/internal/parser"
)

func TestJSONRecordParser_Parse(t *testing.T) {
	recordParser := parser.NewJSONRecordParser()

	tests := []struct {
		name        string
		line        string
		expectError bool
		keys        []string
	}{
		{
			name: "Valid Record",
			line: `{"level":30,"time":1700000000000,"msg":"hello"}`,
			keys: []string{"level", "time", "msg"},
		},
		{
			name: "Keys Keep Input Order",
			line: `{"zeta":1,"alpha":2,"msg":"x","beta":3}`,
			keys: []string{"zeta", "alpha", "msg", "beta"},
		},
		{
			name: "Surrounding Whitespace",
			line: "  {\"msg\":\"x\"}\t",
			keys: []string{"msg"},
		},
		{
			name: "Empty Object",
			line: `{}`,
			keys: []string{},
		},
		{name: "Empty Line", line: "", expectError: true},
		{name: "Plain Text", line: "server started on :8080", expectError: true},
		{name: "Truncated JSON", line: `{"level":30,"msg":"hel`, expectError: true},
		{name: "Trailing Garbage", line: `{"msg":"x"} tail`, expectError: true},
		{name: "Array", line: `[1,2,3]`, expectError: true},
		{name: "String", line: `"hello"`, expectError: true},
		{name: "Number", line: `42`, expectError: true},
		{name: "Boolean", line: `true`, expectError: true},
		{name: "Null", line: `null`, expectError: true},
		{name: "Raw Tab In String", line: "{\"msg\":\"a\tb\"}", expectError: true},
		{name: "Leading Zero", line: `{"a":01}`, expectError: true},
		{name: "Trailing Dot", line: `{"a":1.}`, expectError: true},
		{name: "Unknown Escape", line: `{"a":"\x"}`, expectError: true},
		{name: "Short Unicode Escape", line: `{"a":"\u12"}`, expectError: true},
		{
			name: "Unicode And Exponent",
			line: `{"a":"é","b":[1.5e3,-0]}`,
			keys: []string{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := recordParser.Parse(tt.line)

			if tt.expectError {
				assert.ErrorIs(t, err, parser.ErrNotRecord)
				assert.Nil(t, rec)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, rec)

			keys := make([]string, 0, len(rec.Fields))
			for _, f := range rec.Fields {
				keys = append(keys, f.Key)
			}
			assert.Equal(t, tt.keys, keys)
		})
	}
}

func TestJSONRecordParser_ValueKinds(t *testing.T) {
	recordParser := parser.NewJSONRecordParser()

	rec, err := recordParser.Parse(`{"s":"a\nb","n":-1.5,"t":true,"f":false,"z":null,"arr":[1,"x"],"obj":{"k":{"deep":[]}},"big":1e400}`)
	require.NoError(t, err)

	get := func(key string) model.Value {
		v, ok := rec.Get(key)
		require.True(t, ok, "missing key %s", key)
		return v
	}

	assert.Equal(t, model.String("a\nb"), get("s"))
	assert.Equal(t, model.Number(-1.5), get("n"))
	assert.Equal(t, model.Bool(true), get("t"))
	assert.Equal(t, model.Bool(false), get("f"))
	assert.Equal(t, model.KindNull, get("z").Kind)

	arr := get("arr")
	require.Equal(t, model.KindArray, arr.Kind)
	require.Len(t, arr.Items, 2)
	assert.Equal(t, 1.0, arr.Items[0].Num)
	assert.Equal(t, "x", arr.Items[1].Str)

	obj := get("obj")
	k, ok := obj.Get("k")
	require.True(t, ok)
	deep, ok := k.Get("deep")
	require.True(t, ok)
	assert.Equal(t, model.KindArray, deep.Kind)
	assert.Empty(t, deep.Items)

	big := get("big")
	assert.Equal(t, model.KindNumber, big.Kind)
	assert.True(t, big.Num > 1e308)
}

func TestJSONRecordParser_EscapedKeys(t *testing.T) {
	rec, err := parser.NewJSONRecordParser().Parse(`{"a\"b":1,"é":2}`)
	require.NoError(t, err)

	_, ok := rec.Get(`a"b`)
	assert.True(t, ok)
	_, ok = rec.Get("é")
	assert.True(t, ok)
}

func TestJSONRecordParser_ResultOutlivesParser(t *testing.T) {
	recordParser := parser.NewJSONRecordParser()

	first, err := recordParser.Parse(`{"msg":"first"}`)
	require.NoError(t, err)
	_, err = recordParser.Parse(`{"msg":"second-and-longer"}`)
	require.NoError(t, err)

	msg, _ := first.Get("msg")
	assert.Equal(t, "first", msg.Str)
}

func TestJSONRecordParser_Concurrent(t *testing.T) {
	recordParser := parser.NewJSONRecordParser()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				rec, err := recordParser.Parse(`{"level":30,"msg":"hello","extra":{"a":[1,2]}}`)
				if assert.NoError(t, err) {
					msg, _ := rec.Get("msg")
					assert.Equal(t, "hello", msg.Str)
				}
			}
		}()
	}
	wg.Wait()
}
