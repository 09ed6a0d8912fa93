package formatter

import (
	"math"
	"strconv"
	"strings"

	"logpretty/internal/model"
	"logpretty/internal/style"
)

// inspect renders v the way a REPL would print it: composite values fully
// expanded, one entry per line, two spaces per depth, no depth or width limit.
func inspect(p style.Painter, v model.Value) string {
	var b strings.Builder
	writeValue(&b, p, v, 0)
	return b.String()
}

func writeValue(b *strings.Builder, p style.Painter, v model.Value, depth int) {
	switch v.Kind {
	case model.KindNull:
		b.WriteString(p.Paint(style.Null, "null"))
	case model.KindBool:
		b.WriteString(p.Paint(style.Boolean, strconv.FormatBool(v.Bool)))
	case model.KindNumber:
		b.WriteString(p.Paint(style.Number, formatNumber(v.Num)))
	case model.KindString:
		b.WriteString(p.Paint(style.String, quote(v.Str)))
	case model.KindArray:
		if len(v.Items) == 0 {
			b.WriteString("[]")
			return
		}
		b.WriteByte('[')
		for i, item := range v.Items {
			writeEntryStart(b, i, depth+1)
			writeValue(b, p, item, depth+1)
		}
		writeEntryEnd(b, depth, ']')
	case model.KindObject:
		if len(v.Fields) == 0 {
			b.WriteString("{}")
			return
		}
		b.WriteByte('{')
		for i, f := range v.Fields {
			writeEntryStart(b, i, depth+1)
			writeKey(b, p, f.Key)
			b.WriteString(": ")
			writeValue(b, p, f.Value, depth+1)
		}
		writeEntryEnd(b, depth, '}')
	}
}

func writeEntryStart(b *strings.Builder, i, depth int) {
	if i > 0 {
		b.WriteByte(',')
	}
	b.WriteByte('\n')
	b.WriteString(strings.Repeat("  ", depth))
}

func writeEntryEnd(b *strings.Builder, depth int, closer byte) {
	b.WriteByte('\n')
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteByte(closer)
}

func writeKey(b *strings.Builder, p style.Painter, key string) {
	if isIdentifier(key) {
		b.WriteString(key)
		return
	}
	b.WriteString(p.Paint(style.String, quote(key)))
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_' || c == '$', 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case '0' <= c && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// formatNumber prints a float64 the way JSON producers in JavaScript would
// have printed it: integers without a fraction, exponent form only for very
// large or very small magnitudes.
func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		if math.Signbit(f) {
			return "-0"
		}
		return "0"
	}

	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mantissa, exp, _ := strings.Cut(s, "e")
		sign := exp[:1]
		digits := strings.TrimLeft(exp[1:], "0")
		return mantissa + "e" + sign + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// quote wraps s in single quotes, switching to double quotes or backticks to
// avoid escaping when s contains single quotes.
func quote(s string) string {
	q := byte('\'')
	if strings.IndexByte(s, '\'') >= 0 {
		switch {
		case strings.IndexByte(s, '"') < 0:
			q = '"'
		case strings.IndexByte(s, '`') < 0:
			q = '`'
		}
	}

	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte(q)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case q:
			b.WriteByte('\\')
			b.WriteByte(c)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\v':
			b.WriteString(`\v`)
		default:
			if c < 0x20 || c == 0x7f {
				b.WriteString(`\x`)
				b.WriteByte(upperHex[c>>4])
				b.WriteByte(upperHex[c&0x0f])
				continue
			}
			b.WriteByte(c)
		}
	}
	b.WriteByte(q)
	return b.String()
}

const upperHex = "0123456789ABCDEF"
