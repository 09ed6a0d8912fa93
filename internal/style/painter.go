package style

import (
	"fmt"
	"os"
	"strings"

	"logpretty/internal/terminal"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
)

// Style names the role a span of text plays in the output. How a role looks
// is up to the Painter.
type Style uint8

const (
	None Style = iota
	Muted
	Accent
	Alert
	LevelFatal
	LevelError
	LevelWarn
	LevelInfo
	LevelDebug
	LevelTrace
	String
	Number
	Boolean
	Null
)

var styleNames = [...]string{
	None:       "none",
	Muted:      "muted",
	Accent:     "accent",
	Alert:      "alert",
	LevelFatal: "fatal",
	LevelError: "error",
	LevelWarn:  "warn",
	LevelInfo:  "info",
	LevelDebug: "debug",
	LevelTrace: "trace",
	String:     "string",
	Number:     "number",
	Boolean:    "boolean",
	Null:       "null",
}

func (s Style) String() string {
	if int(s) < len(styleNames) {
		return styleNames[s]
	}
	return "unknown"
}

// Painter applies a Style to text.
type Painter interface {
	Paint(s Style, text string) string
}

type ansiPainter struct {
	colors map[Style]*color.Color
}

// ANSI returns a Painter that always emits ANSI escape sequences, whatever
// the global color.NoColor setting says.
func ANSI() Painter {
	attrs := map[Style][]color.Attribute{
		Muted:      {color.FgHiBlack},
		Accent:     {color.FgCyan},
		Alert:      {color.FgRed},
		LevelFatal: {color.BgRed},
		LevelError: {color.FgRed},
		LevelWarn:  {color.FgYellow},
		LevelInfo:  {color.FgGreen},
		LevelDebug: {color.FgBlue},
		LevelTrace: {color.FgHiBlack},
		String:     {color.FgGreen},
		Number:     {color.FgYellow},
		Boolean:    {color.FgYellow},
		Null:       {color.Bold},
	}

	p := &ansiPainter{colors: make(map[Style]*color.Color, len(attrs))}
	for s, a := range attrs {
		c := color.New(a...)
		c.EnableColor()
		p.colors[s] = c
	}
	return p
}

func (p *ansiPainter) Paint(s Style, text string) string {
	c, ok := p.colors[s]
	if !ok || text == "" {
		return text
	}
	return c.Sprint(text)
}

type plainPainter struct{}

// Plain returns a Painter that leaves text untouched.
func Plain() Painter {
	return plainPainter{}
}

func (plainPainter) Paint(_ Style, text string) string {
	return text
}

// Mode selects when color is used.
type Mode string

const (
	ModeAuto   Mode = "auto"
	ModeAlways Mode = "always"
	ModeNever  Mode = "never"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeAuto, ModeAlways, ModeNever:
		return m, nil
	case "":
		return ModeAuto, nil
	default:
		return "", fmt.Errorf("invalid color mode %q (want auto, always or never)", s)
	}
}

// Resolve picks the Painter for output written to out. In auto mode color is
// used only for terminals, and never when NO_COLOR is set.
func Resolve(mode Mode, out *os.File) Painter {
	switch mode {
	case ModeAlways:
		return ANSI()
	case ModeNever:
		return Plain()
	}

	if _, noColor := os.LookupEnv("NO_COLOR"); noColor {
		log.Debug().Msg("NO_COLOR set, disabling color")
		return Plain()
	}
	if out != nil && terminal.IsTerminal(out) {
		return ANSI()
	}
	log.Debug().Msg("Output is not a terminal, disabling color")
	return Plain()
}
