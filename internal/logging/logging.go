// Package logging provides the logr.Logger used across quizform.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/go-logr/logr"
	"golang.org/x/term"
)

const prefix = "[quizform]"

const (
	ansiReset = "\x1b[0m"
	ansiBold  = "\x1b[1m"
	ansiDim   = "\x1b[2m"
	ansiGray  = "\x1b[90m"
	ansiRed   = "\x1b[31m"
	ansiBlue  = "\x1b[34m"
)

// Options configures the logger.
type Options struct {
	// Verbose enables V(1) messages.
	Verbose bool
	NoColor bool
}

// New returns a logger writing one line per message to w.
func New(w io.Writer, opts Options) logr.Logger {
	if w == nil {
		return logr.Discard()
	}
	verbosity := 0
	if opts.Verbose {
		verbosity = 1
	}
	return logr.New(&sink{
		out:       &lockedWriter{w: w},
		palette:   paletteFor(w, opts.NoColor),
		verbosity: verbosity,
	})
}

// lockedWriter serializes writes from loggers sharing one destination.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) writeLine(line string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.w, line+"\n")
}

type sink struct {
	out       *lockedWriter
	palette   palette
	verbosity int
	name      string
	values    []any
}

func (s *sink) Init(logr.RuntimeInfo) {}

func (s *sink) Enabled(level int) bool {
	return level <= s.verbosity
}

func (s *sink) Info(level int, msg string, keysAndValues ...any) {
	style := styleDefault
	if level > 0 {
		style = styleDebug
	}
	s.write(style, msg, keysAndValues)
}

func (s *sink) Error(err error, msg string, keysAndValues ...any) {
	kv := append([]any{"error", err}, keysAndValues...)
	s.write(styleError, msg, kv)
}

func (s *sink) WithValues(keysAndValues ...any) logr.LogSink {
	clone := *s
	clone.values = append(append([]any{}, s.values...), keysAndValues...)
	return &clone
}

func (s *sink) WithName(name string) logr.LogSink {
	clone := *s
	if clone.name == "" {
		clone.name = name
	} else {
		clone.name = clone.name + "/" + name
	}
	return &clone
}

func (s *sink) write(style style, msg string, keysAndValues []any) {
	var b strings.Builder
	b.WriteString(s.palette.prefix(prefix))
	if s.name != "" {
		b.WriteString(" ")
		b.WriteString(s.palette.apply(styleName, s.name))
	}
	b.WriteString(" ")
	b.WriteString(s.palette.apply(style, msg))
	writePairs(&b, s.values)
	writePairs(&b, keysAndValues)
	s.out.writeLine(b.String())
}

// writePairs renders key=value pairs, quoting values that contain spaces.
func writePairs(b *strings.Builder, keysAndValues []any) {
	for i := 0; i < len(keysAndValues); i += 2 {
		key := fmt.Sprint(keysAndValues[i])
		value := "<missing>"
		if i+1 < len(keysAndValues) {
			value = fmt.Sprint(keysAndValues[i+1])
		}
		if value == "" || strings.ContainsAny(value, " \t\n\"") {
			value = fmt.Sprintf("%q", value)
		}
		b.WriteString(" ")
		b.WriteString(key)
		b.WriteString("=")
		b.WriteString(value)
	}
}

type style int

const (
	styleDefault style = iota
	styleDebug
	styleName
	styleError
)

// palette controls ANSI styling for log lines.
type palette struct {
	enabled bool
}

func paletteFor(writer io.Writer, noColor bool) palette {
	if noColor {
		return palette{enabled: false}
	}
	return palette{enabled: shouldUseStyling(writer)}
}

func shouldUseStyling(writer io.Writer) bool {
	if writer == nil {
		return false
	}
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	if strings.EqualFold(os.Getenv("CLICOLOR"), "0") {
		return false
	}
	if file, ok := writer.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	if fder, ok := writer.(interface{ Fd() uintptr }); ok {
		return term.IsTerminal(int(fder.Fd()))
	}
	return false
}

func (p palette) prefix(text string) string {
	if !p.enabled {
		return text
	}
	return ansiDim + ansiGray + text + ansiReset
}

func (p palette) apply(style style, text string) string {
	if !p.enabled {
		return text
	}
	switch style {
	case styleDebug:
		return ansiDim + text + ansiReset
	case styleName:
		return ansiBold + ansiBlue + text + ansiReset
	case styleError:
		return ansiBold + ansiRed + text + ansiReset
	default:
		return text
	}
}
