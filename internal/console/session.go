package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/vasishthabirari72/currency-convertor/internal/currency"
	"github.com/vasishthabirari72/currency-convertor/internal/widget"
)

const (
	banner = `Currency Converter
Type an amount and press Enter. Commands: from CODE, to CODE, swap, convert, list, help, quit
`
	prompt = "> "
)

// Session feeds terminal input into a widget controller.
type Session struct {
	ctrl *widget.Controller
	in   io.Reader
	out  io.Writer
}

func NewSession(ctrl *widget.Controller, in io.Reader, out io.Writer) *Session {
	return &Session{ctrl: ctrl, in: in, out: out}
}

// Run blocks until EOF, quit, or ctx is done.
func (s *Session) Run(ctx context.Context) error {
	fmt.Fprint(s.out, banner)
	scanner := bufio.NewScanner(s.in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(s.out, prompt)
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if s.handle(ctx, line) {
			return nil
		}
	}
	return scanner.Err()
}

// handle processes one input line. Returns true if the session should end.
func (s *Session) handle(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	cmd := strings.ToLower(fields[0])

	switch cmd {
	case "quit", "exit", "q":
		fmt.Fprintln(s.out, "Bye!")
		return true

	case "help", "?":
		s.printHelp()

	case "list", "currencies":
		s.printCurrencies()

	case "swap":
		_, _, _ = s.ctrl.Swap(ctx)

	case "convert":
		if len(fields) > 1 {
			s.ctrl.SetAmount(fields[1])
		}
		_, _ = s.ctrl.Submit(ctx)

	case "from", "to":
		if len(fields) != 2 {
			fmt.Fprintf(s.out, "usage: %s CODE\n", cmd)
			return false
		}
		sel := s.ctrl.SelectSource
		if cmd == "to" {
			sel = s.ctrl.SelectTarget
		}
		if err := sel(fields[1]); err != nil {
			fmt.Fprintln(s.out, err)
		}

	default:
		if looksNumeric(line) {
			// Enter in the amount input; validation is the controller's job
			s.ctrl.SetAmount(line)
			_, _ = s.ctrl.Submit(ctx)
			return false
		}
		fmt.Fprintf(s.out, "Unknown command: %s  (type help for help)\n", line)
	}
	return false
}

func looksNumeric(s string) bool {
	return strings.IndexAny(s[:1], "0123456789+-.") == 0
}

func (s *Session) printHelp() {
	help := `
  100            set the amount and convert (Enter)
  convert [N]    convert the current amount, or N
  from CODE      select the source currency
  to CODE        select the target currency
  swap           exchange source and target
  list           show all currencies
  quit           exit
`
	fmt.Fprint(s.out, help)
}

func (s *Session) printCurrencies() {
	codes := currency.Codes()
	for i, code := range codes {
		region, _ := currency.Lookup(code)
		fmt.Fprintf(s.out, "%s(%s)", code, region)
		if (i+1)%8 == 0 || i == len(codes)-1 {
			fmt.Fprintln(s.out)
		} else {
			fmt.Fprint(s.out, "  ")
		}
	}
}
