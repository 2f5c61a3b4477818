package shell

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/muesli/termenv"
	"go.uber.org/zap"

	"github.com/smileynet/addrbook/internal/command"
)

// PlainShell reads one command per line and prints the result below it.
type PlainShell struct {
	opts  Options
	quiet bool // skip the greeting, e.g. after a TUI fallback
}

// Run loops until quit, end of input or ctx is cancelled.
func (s *PlainShell) Run(ctx context.Context) error {
	if !s.quiet {
		s.opts.logger().Info("shell.start", zap.String("mode", "plain"))
		s.println(s.opts.Renderer.Greeting())
	}

	out := termenv.NewOutput(s.opts.Out)
	sc := bufio.NewScanner(s.opts.In)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, _ = fmt.Fprint(s.opts.Out, s.opts.Renderer.Prompt())
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return fmt.Errorf("shell: reading input: %w", err)
			}
			_, _ = fmt.Fprintln(s.opts.Out)
			return nil
		}

		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		rep, err := s.opts.Session.Execute(line)
		if err != nil {
			s.println(s.opts.Renderer.Error(err))
			continue
		}
		if rep.Outcome == command.OutcomeClear {
			out.ClearScreen()
			continue
		}
		s.println(s.opts.Renderer.Reply(rep))
		if rep.Quit() {
			return nil
		}
	}
}

func (s *PlainShell) println(text string) {
	_, _ = fmt.Fprintln(s.opts.Out, text)
}
