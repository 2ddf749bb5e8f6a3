package logger

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"
)

// palette is one console color theme
type palette struct {
	fg     string
	time   string
	scope  string
	key    string
	number string
	warn   string
	warnBg string
	err    string
	errBg  string
	names  []string
}

var themes = map[string]palette{
	// Gruvbox Dark: warm, muted
	"gruvbox": {
		fg:     "\x1b[38;5;223m",
		time:   "\x1b[38;5;108m",
		scope:  "\x1b[38;5;109m",
		key:    "\x1b[38;5;245m",
		number: "\x1b[38;5;175m",
		warn:   "\x1b[38;5;214m",
		warnBg: "\x1b[48;5;58m",
		err:    "\x1b[38;5;167m",
		errBg:  "\x1b[48;5;88m",
		names:  []string{"\x1b[38;5;208m", "\x1b[38;5;214m"},
	},
	// Everforest Dark: forest greens
	"everforest": {
		fg:     "\x1b[38;5;223m",
		time:   "\x1b[38;5;107m",
		scope:  "\x1b[38;5;109m",
		key:    "\x1b[38;5;245m",
		number: "\x1b[38;5;108m",
		warn:   "\x1b[38;5;179m",
		warnBg: "\x1b[48;5;58m",
		err:    "\x1b[38;5;167m",
		errBg:  "\x1b[48;5;52m",
		names:  []string{"\x1b[38;5;108m", "\x1b[38;5;65m", "\x1b[38;5;208m"},
	},
}

var currentTheme = "everforest"

// SetTheme configures the color scheme for console log output
func SetTheme(theme string) {
	if _, ok := themes[theme]; ok {
		currentTheme = theme
	}
}

func colors() palette {
	return themes[currentTheme]
}

// scopeKeys are rendered first, in this order, so every line about a session
// reads "season round event session" before anything else.
var scopeKeys = []string{FieldSeason, FieldRound, FieldEvent, FieldSession, FieldCategory}

// minimalEncoder implements a calm, compact console encoder.
// Format: "13:04:35  c.event  Session skipped  season=2023 round=5 event=Miami Grand Prix session=FP1 error=..."
type minimalEncoder struct {
	*zapcore.MapObjectEncoder // fields attached with Logger.With()
}

func newMinimalEncoder() *minimalEncoder {
	return &minimalEncoder{MapObjectEncoder: zapcore.NewMapObjectEncoder()}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	clone := zapcore.NewMapObjectEncoder()
	for k, v := range enc.Fields {
		clone.Fields[k] = v
	}
	return &minimalEncoder{MapObjectEncoder: clone}
}

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	c := colors()
	final := buffer.NewPool().Get()

	final.AppendString(c.time)
	final.AppendString(ent.Time.Format("15:04:05"))
	final.AppendString(colorReset)

	// Level: not shown for INFO
	if ent.Level != zapcore.InfoLevel {
		final.AppendString("  ")
		final.AppendString(levelColorString(ent.Level))
	}

	if ent.LoggerName != "" {
		final.AppendString("  ")
		final.AppendString(colorComponent(ent.LoggerName))
		final.AppendString(abbreviateName(ent.LoggerName))
		final.AppendString(colorReset)
	}

	final.AppendString("  ")
	final.AppendString(c.fg)
	final.AppendString(ent.Message)
	final.AppendString(colorReset)

	all := zapcore.NewMapObjectEncoder()
	for k, v := range enc.Fields {
		all.Fields[k] = v
	}
	for _, f := range fields {
		f.AddTo(all)
	}
	if rendered := renderFields(all.Fields); rendered != "" {
		final.AppendString("  ")
		final.AppendString(rendered)
	}

	final.AppendString("\n")
	return final, nil
}

// renderFields prints every field as key=value: scope keys first, the rest sorted.
// Verbose error renderings (stack traces) are left to JSON output.
func renderFields(fields map[string]interface{}) string {
	c := colors()
	var parts []string
	seen := make(map[string]bool, len(fields))

	for _, key := range scopeKeys {
		if v, ok := fields[key]; ok {
			parts = append(parts, c.scope+key+"="+fmt.Sprint(v)+colorReset)
			seen[key] = true
		}
	}

	rest := make([]string, 0, len(fields))
	for key := range fields {
		if seen[key] || strings.HasSuffix(key, "Verbose") {
			continue
		}
		rest = append(rest, key)
	}
	sort.Strings(rest)

	for _, key := range rest {
		parts = append(parts, c.key+key+"="+colorReset+formatValue(fields[key]))
	}
	return strings.Join(parts, " ")
}

func formatValue(v interface{}) string {
	c := colors()
	switch val := v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return c.number + fmt.Sprint(val) + colorReset
	default:
		return c.fg + fmt.Sprint(val) + colorReset
	}
}

// levelColorString returns bold + colored + background for WARN/ERROR
func levelColorString(level zapcore.Level) string {
	c := colors()
	switch level {
	case zapcore.DebugLevel:
		return c.key + "DEBUG" + colorReset
	case zapcore.WarnLevel:
		return colorBold + c.warnBg + c.warn + "WARN" + colorReset
	default:
		return colorBold + c.errBg + c.err + level.CapitalString() + colorReset
	}
}

func colorComponent(name string) string {
	names := colors().names
	hash := 0
	for _, r := range name {
		hash += int(r)
	}
	return names[hash%len(names)]
}

// abbreviateName shortens component names: collect.event -> c.event
func abbreviateName(name string) string {
	parts := strings.Split(name, ".")
	if len(parts) > 1 && parts[0] != "" {
		return string(parts[0][0]) + "." + strings.Join(parts[1:], ".")
	}
	return name
}
