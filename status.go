package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// statusLogger writes human-readable progress to out and problems to errOut.
// None of this ends up in the report itself.
type statusLogger struct {
	out     io.Writer
	errOut  io.Writer
	info    *color.Color
	warn    *color.Color
	fail    *color.Color
	success *color.Color
}

// newStatusLogger picks colour per stream, so a redirected stderr gets plain
// text even while stdout is a terminal.
func newStatusLogger(out, errOut io.Writer) *statusLogger {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	l := &statusLogger{
		out:     out,
		errOut:  errOut,
		info:    color.New(color.FgCyan),
		warn:    color.New(color.FgYellow),
		fail:    color.New(color.FgRed, color.Bold),
		success: color.New(color.FgGreen),
	}
	outColor, errColor := wantsColor(out), wantsColor(errOut)
	setColor(l.info, outColor)
	setColor(l.success, outColor)
	setColor(l.warn, errColor)
	setColor(l.fail, errColor)
	return l
}

// disableColor turns every stream plain, for --no-color.
func (l *statusLogger) disableColor() {
	for _, c := range []*color.Color{l.info, l.warn, l.fail, l.success} {
		c.DisableColor()
	}
}

// wantsColor reports whether w is a terminal that should get ANSI codes.
// NO_COLOR and TERM=dumb switch colour off everywhere.
func wantsColor(w io.Writer) bool {
	if _, set := os.LookupEnv("NO_COLOR"); set || os.Getenv("TERM") == "dumb" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func setColor(c *color.Color, on bool) {
	if on {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
}

func (l *statusLogger) Infof(format string, args ...any) {
	l.info.Fprintf(l.out, format+"\n", args...)
}

func (l *statusLogger) Successf(format string, args ...any) {
	l.success.Fprintf(l.out, format+"\n", args...)
}

// Plainf writes an uncoloured progress line.
func (l *statusLogger) Plainf(format string, args ...any) {
	fmt.Fprintf(l.out, format+"\n", args...)
}

func (l *statusLogger) Warnf(format string, args ...any) {
	l.warn.Fprintf(l.errOut, "Warning: "+format+"\n", args...)
}

func (l *statusLogger) Errorf(format string, args ...any) {
	l.fail.Fprintf(l.errOut, "Error: "+format+"\n", args...)
}
