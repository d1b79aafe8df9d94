package ui

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Banner is printed once at the start of an interactive run
const Banner = `
  ┌─────────────────────────────────────────────┐
  │  CARDFETCH :: bulk card image downloader    │
  └─────────────────────────────────────────────┘
`

const (
	ansiCyan    = "\033[36m%s\033[0m"
	ansiYellow  = "\033[33m%s\033[0m"
	ansiRed     = "\033[31m%s\033[0m"
	ansiGreen   = "\033[32m%s\033[0m"
	ansiMagenta = "\033[35m%s\033[0m"
	ansiDim     = "\033[2m%s\033[0m"
)

// Console writes human-oriented output. Colors are only used when the
// destination is a terminal and NO_COLOR is unset.
type Console struct {
	out   io.Writer
	color bool
	quiet bool
}

// NewConsole creates a console on out. noColor forces plain output; quiet
// suppresses everything except errors and the final report.
func NewConsole(out io.Writer, noColor, quiet bool) *Console {
	return &Console{
		out:   out,
		color: !noColor && os.Getenv("NO_COLOR") == "" && isTerminal(out),
		quiet: quiet,
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// ColorEnabled reports whether ANSI colors are written
func (c *Console) ColorEnabled() bool {
	return c.color
}

// Quiet reports whether progress output is suppressed
func (c *Console) Quiet() bool {
	return c.quiet
}

// Writer returns the underlying writer
func (c *Console) Writer() io.Writer {
	return c.out
}

func (c *Console) paint(format, text string) string {
	if !c.color {
		return text
	}
	return fmt.Sprintf(format, text)
}

func (c *Console) Cyan(s string) string    { return c.paint(ansiCyan, s) }
func (c *Console) Yellow(s string) string  { return c.paint(ansiYellow, s) }
func (c *Console) Red(s string) string     { return c.paint(ansiRed, s) }
func (c *Console) Green(s string) string   { return c.paint(ansiGreen, s) }
func (c *Console) Magenta(s string) string { return c.paint(ansiMagenta, s) }
func (c *Console) Dim(s string) string     { return c.paint(ansiDim, s) }

// PrintBanner prints the banner unless quiet
func (c *Console) PrintBanner() {
	if c.quiet {
		return
	}
	fmt.Fprint(c.out, c.Cyan(Banner))
}

// PrintError prints an error message in red, even when quiet
func (c *Console) PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		msg = msg + ": " + fmt.Sprintf("%v", args[0])
	}
	fmt.Fprintln(c.out, c.Red(msg))
}

// PrintSuccess prints a success message in green
func (c *Console) PrintSuccess(msg string) {
	if c.quiet {
		return
	}
	fmt.Fprintln(c.out, c.Green(msg))
}

// PrintInfo prints a label and value
func (c *Console) PrintInfo(label string, value string) {
	if c.quiet {
		return
	}
	fmt.Fprintf(c.out, "%s: %s\n", c.Cyan(label), c.Yellow(value))
}

// PrintWarning prints a warning message in yellow
func (c *Console) PrintWarning(msg string, args ...interface{}) {
	if c.quiet {
		return
	}
	if len(args) > 0 {
		msg = msg + ": " + fmt.Sprintf("%v", args[0])
	}
	fmt.Fprintln(c.out, c.Yellow(msg))
}

// PrintHighlight prints a highlighted message in magenta
func (c *Console) PrintHighlight(msg string) {
	if c.quiet {
		return
	}
	fmt.Fprintln(c.out, c.Magenta(msg))
}
