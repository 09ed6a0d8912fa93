package formatter

import (
	"strings"

	"logpretty/internal/model"
	"logpretty/internal/style"
)

// formatResidual renders one "key: value" line per field. Top-level keys are
// printed as-is; values go through inspect.
func formatResidual(p style.Painter, fields []model.Field) string {
	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		lines = append(lines, f.Key+": "+inspect(p, f.Value))
	}
	return strings.Join(lines, "\n")
}

// indent pushes every line after the first two spaces to the right.
func indent(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\n", "\n  ")
}
