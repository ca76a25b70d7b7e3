package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/vasishthabirari72/currency-convertor/internal/widget"
)

const (
	ansiReset    = "\033[0m"
	ansiWhite    = "\033[97m"
	ansiGreen    = "\033[32m"
	ansiLightRed = "\033[91m"
)

// Terminal renders widget frames as plain text.
type Terminal struct {
	out   io.Writer
	color bool
}

func NewTerminal(out io.Writer, color bool) *Terminal {
	return &Terminal{out: out, color: color}
}

func (t *Terminal) Render(s widget.State) {
	var b strings.Builder
	b.WriteString("┌─────────────────────────────────────────────\n")
	writeSelector(&b, "From", s.Source)
	writeSelector(&b, "To  ", s.Target)
	fmt.Fprintf(&b, "│ Amount: %-14s Result: %s\n", orDash(s.SourceAmount), orDash(s.DestinationAmount))
	if s.TriggerDisabled {
		b.WriteString("│ [Converting…]\n")
	} else {
		b.WriteString("│ [Convert]\n")
	}
	if s.Message != "" {
		fmt.Fprintf(&b, "│ %s\n", t.paint(s.Severity, s.Message))
	}
	b.WriteString("└─────────────────────────────────────────────\n")
	_, _ = io.WriteString(t.out, b.String())
}

func (t *Terminal) paint(sev widget.Severity, msg string) string {
	if !t.color {
		return msg
	}
	code := ansiWhite
	switch sev {
	case widget.SeveritySuccess:
		code = ansiGreen
	case widget.SeverityError:
		code = ansiLightRed
	}
	return code + msg + ansiReset
}

func writeSelector(b *strings.Builder, label string, sel widget.Selector) {
	fmt.Fprintf(b, "│ %s: %-3s  %s  %s\n", label, sel.Name, sel.FlagAlt, sel.FlagURL)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
