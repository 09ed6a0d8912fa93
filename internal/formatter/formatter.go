package formatter

import (
	"strconv"
	"strings"
	"time"

	"logpretty/internal/model"
	"logpretty/internal/parser"
	"logpretty/internal/style"
	"logpretty/internal/util"
)

const (
	timestampLayout = "2006-01-02 15:04:05.000"
	invalidDate     = "Invalid date"
)

// Formatter turns one log line into a human-readable block. It holds no
// per-call state and is safe for concurrent use.
type Formatter struct {
	painter style.Painter
	parser  parser.RecordParser
	loc     *time.Location
}

type Option func(*Formatter)

// WithLocation sets the zone timestamps are shown in (default time.Local).
func WithLocation(loc *time.Location) Option {
	return func(f *Formatter) {
		if loc != nil {
			f.loc = loc
		}
	}
}

// WithParser replaces the JSON record parser.
func WithParser(p parser.RecordParser) Option {
	return func(f *Formatter) {
		if p != nil {
			f.parser = p
		}
	}
}

func New(painter style.Painter, opts ...Option) *Formatter {
	if painter == nil {
		painter = style.Plain()
	}
	f := &Formatter{
		painter: painter,
		parser:  parser.NewJSONRecordParser(),
		loc:     time.Local,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FormatLine is Format for a raw line.
func (f *Formatter) FormatLine(line string) string {
	return f.Format(model.RawText(line))
}

// Format renders in. Lines that are not a JSON object come back unchanged
// with a newline appended. The result always ends in exactly one newline.
func (f *Formatter) Format(in model.Input) string {
	var rec *model.Record
	switch in := in.(type) {
	case model.ParsedRecord:
		rec = in.Record
	case model.RawText:
		parsed, err := f.parser.Parse(string(in))
		if err != nil {
			return string(in) + "\n"
		}
		rec = parsed
	default:
		return "\n"
	}
	if rec == nil {
		rec = model.NewRecord()
	}
	return f.render(rec)
}

func (f *Formatter) render(rec *model.Record) string {
	var b strings.Builder

	b.WriteString(f.painter.Paint(style.Muted, f.timestamp(rec)))
	b.WriteByte(' ')

	lvl := levelOf(rec.Get("level"))
	b.WriteString(f.painter.Paint(lvl.style, lvl.padded()))

	if tag, ok := rec.Get("tag"); ok && tag.Truthy() {
		b.WriteString(" [")
		b.WriteString(f.painter.Paint(style.Muted, text(tag)))
		b.WriteByte(']')
	}

	b.WriteString(": ")
	msg, _ := rec.Get("msg")
	b.WriteString(f.painter.Paint(style.Accent, indent(text(msg))))

	rest := rec.Without(model.StandardFields...)

	if errVal, ok := rec.Get("err"); ok && errVal.Truthy() {
		if stack, ok := errorText(errVal); ok {
			b.WriteString(f.painter.Paint(style.Alert, indent("\n"+stack)))
		}
		if extra, ok := errorResidual(errVal); ok {
			rest = append(rest, model.Field{Key: "err", Value: extra})
		}
	}

	if len(rest) > 0 {
		b.WriteString(indent("\n" + formatResidual(f.painter, rest)))
	}

	b.WriteByte('\n')
	return b.String()
}

func (f *Formatter) timestamp(rec *model.Record) string {
	v, ok := rec.Get("time")
	if !ok {
		return invalidDate
	}
	t, err := util.TimeFromValue(v)
	if err != nil {
		return invalidDate
	}
	return t.In(f.loc).Format(timestampLayout)
}

// text renders a header field. Unset values are empty, scalars print bare and
// composite values fall back to their uncolored inspect form.
func text(v model.Value) string {
	if !v.Truthy() {
		return ""
	}
	switch v.Kind {
	case model.KindString:
		return v.Str
	case model.KindNumber:
		return formatNumber(v.Num)
	case model.KindBool:
		return strconv.FormatBool(v.Bool)
	default:
		return inspect(style.Plain(), v)
	}
}

// errorText picks what the error block shows: the stack, else the message.
func errorText(errVal model.Value) (string, bool) {
	if errVal.Kind != model.KindObject {
		if errVal.Kind == model.KindArray {
			return "", false
		}
		return text(errVal), true
	}
	// errors logged without a stack still say what went wrong
	for _, key := range []string{"stack", "message"} {
		if v, ok := errVal.Get(key); ok && v.Truthy() {
			return text(v), true
		}
	}
	return "", false
}

// errorResidual is what is left of an error once the error block has shown
// its message and stack.
func errorResidual(errVal model.Value) (model.Value, bool) {
	switch errVal.Kind {
	case model.KindObject:
		rest := errVal.Without("message", "stack")
		return rest, len(rest.Fields) > 0
	case model.KindArray:
		return errVal, true
	default:
		return model.Value{}, false
	}
}
