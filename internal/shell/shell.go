// Package shell runs the interactive read-eval loop over a command session,
// as a Bubble Tea program on a terminal or as a plain line loop otherwise.
package shell

import (
	"context"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/smileynet/addrbook/internal/command"
	"github.com/smileynet/addrbook/internal/view"
)

// Shell drives a session until the user quits or input ends.
type Shell interface {
	Run(ctx context.Context) error
}

// Options configures shell creation.
type Options struct {
	In       io.Reader // Input source (default: os.Stdin).
	Out      io.Writer // Output destination (default: os.Stdout).
	Plain    bool      // Force the line loop even on a terminal.
	Session  *command.Session
	Renderer *view.Renderer
	Log      *zap.Logger
}

// New returns a TUI shell when both stdin and stdout are terminals, or a
// plain line shell otherwise. Plain overrides terminal detection.
func New(opts Options) Shell {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	if opts.Plain || !isTTY(opts.In) || !isTTY(opts.Out) {
		return &PlainShell{opts: opts}
	}
	return &TUIShell{opts: opts}
}

func (o Options) logger() *zap.Logger {
	if o.Log == nil {
		return zap.NewNop()
	}
	return o.Log
}

// isTTY reports whether v is a file connected to a terminal.
func isTTY(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// TUIShell runs the session as a Bubble Tea program.
// Falls back to PlainShell if the program fails to start.
type TUIShell struct {
	opts Options
}

// Run starts the program and blocks until it exits.
func (s *TUIShell) Run(ctx context.Context) error {
	s.opts.logger().Info("shell.start", zap.String("mode", "tui"))

	m := NewModel(s.opts.Session, s.opts.Renderer)
	p := tea.NewProgram(m,
		tea.WithInput(s.opts.In),
		tea.WithOutput(s.opts.Out),
		tea.WithContext(ctx),
	)

	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.opts.logger().Warn("shell.fallback", zap.Error(err))
		plain := &PlainShell{opts: s.opts, quiet: true}
		return plain.Run(ctx)
	}
	return nil
}
