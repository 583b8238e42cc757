// Console output for progress messages.
package pretty

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Whether f is a terminal that can show color and other dynamic output.
func AllowDynamic(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Writes progress messages and report lines to one stream. Only progress
// messages are ever colored.
type Printer struct {
	out      io.Writer
	progress *color.Color
	notice   *color.Color
}

func NewPrinter(out io.Writer, useColor bool) *Printer {
	progress := color.New(color.Faint)
	notice := color.New(color.FgYellow)

	if useColor {
		progress.EnableColor()
		notice.EnableColor()
	} else {
		progress.DisableColor()
		notice.DisableColor()
	}

	return &Printer{
		out:      out,
		progress: progress,
		notice:   notice,
	}
}

// Status of the run, e.g. "Cloning ...".
func (p *Printer) Progressf(format string, a ...any) {
	p.progress.Fprintf(p.out, format, a...)
	fmt.Fprintln(p.out)
}

// Something the user should notice, e.g. where the time window ends.
func (p *Printer) Noticef(format string, a ...any) {
	p.notice.Fprintf(p.out, format, a...)
	fmt.Fprintln(p.out)
}

// Plain line, never colored.
func (p *Printer) Println(s string) {
	fmt.Fprintln(p.out, s)
}
