package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/smileynet/addrbook"
	"github.com/smileynet/addrbook/internal/command"
	"github.com/smileynet/addrbook/internal/config"
	"github.com/smileynet/addrbook/internal/logging"
	"github.com/smileynet/addrbook/internal/shell"
	"github.com/smileynet/addrbook/internal/store"
	"github.com/smileynet/addrbook/internal/view"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// CLI is the top-level command structure for addrbook.
type CLI struct {
	Globals `embed:""`

	Version kong.VersionFlag `help:"Show version." short:"V"`
	Shell   ShellCmd         `cmd:"" default:"1" help:"Start the interactive address book (default)."`
	Exec    ExecCmd          `cmd:"" help:"Run one address book command and exit."`
}

// Globals are the flags shared by every command.
type Globals struct {
	File   string `help:"Contacts file (overrides storage.path)." short:"f" placeholder:"PATH"`
	Lang   string `help:"Display language: uk or en." placeholder:"LANG"`
	Plain  bool   `help:"Force line mode even if stdin and stdout are terminals."`
	Debug  bool   `help:"Write debug entries to the log file."`
	Config string `help:"Extra config file applied after the user and project layers." placeholder:"PATH"`

	Stdin  io.Reader `kong:"-"`
	Stdout io.Writer `kong:"-"`
	Stderr io.Writer `kong:"-"`
}

func (g *Globals) streams() (io.Reader, io.Writer, io.Writer) {
	in, out, errw := g.Stdin, g.Stdout, g.Stderr
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	if errw == nil {
		errw = os.Stderr
	}
	return in, out, errw
}

// ShellCmd starts the interactive read-eval loop.
type ShellCmd struct{}

// Run executes the shell command.
func (c *ShellCmd) Run(g *Globals) error {
	in, out, _ := g.streams()
	a, err := newApp(g, out)
	if err != nil {
		return fmt.Errorf("shell: %w", err)
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sh := shell.New(shell.Options{
		In:       in,
		Out:      out,
		Plain:    g.Plain,
		Session:  a.session,
		Renderer: a.renderer,
		Log:      a.log,
	})
	if err := sh.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("shell: %w", err)
	}
	return nil
}

// ExecCmd runs a single command line, e.g. `addrbook exec add Olena 0501112233`.
type ExecCmd struct {
	Args []string `arg:"" passthrough:"" help:"Command and its arguments."`
}

// Run executes the exec command.
func (c *ExecCmd) Run(g *Globals) error {
	_, out, errw := g.streams()
	a, err := newApp(g, out)
	if err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	defer a.close()

	rep, err := a.session.Execute(strings.Join(c.Args, " "))
	if err != nil {
		_, _ = fmt.Fprintln(errw, a.renderer.Error(err))
		return &commandError{err: err}
	}
	if rep.Outcome != command.OutcomeClear {
		_, _ = fmt.Fprintln(out, a.renderer.Reply(rep))
	}
	return nil
}

// commandError marks a failure that was already shown to the user.
type commandError struct {
	err error
}

func (e *commandError) Error() string { return e.err.Error() }
func (e *commandError) Unwrap() error { return e.err }

// app holds the wired runtime shared by every command.
type app struct {
	session  *command.Session
	renderer *view.Renderer
	log      *zap.Logger
	sync     func() error
}

func (a *app) close() {
	a.log.Debug("app.exit")
	_ = a.sync()
}

// newApp loads config, opens the log, loads the book and builds the renderer.
func newApp(g *Globals, out io.Writer) (*app, error) {
	_, _, errw := g.streams()

	cfg, err := loadConfig(g)
	if err != nil {
		return nil, err
	}

	log, sync, err := logging.Setup(logging.Config{Dir: cfg.Log.Dir, Debug: cfg.Log.Debug})
	if err != nil {
		_, _ = fmt.Fprintf(errw, "warning: %s\n", err)
	}

	st := store.NewFileStore(cfg.Storage.Path, store.WithLogger(log))
	b, err := st.Load()
	if err != nil {
		_ = sync()
		return nil, err
	}
	log.Info("book.loaded", zap.String("path", st.Path()), zap.Int("contacts", b.Len()))

	cat, err := view.LoadCatalog(addrbook.OverlayFS(addrbook.LocalLocalesDir, addrbook.Locales), cfg.Display.Language)
	if err != nil {
		_ = sync()
		return nil, err
	}
	r, err := view.NewRenderer(cat, view.Options{
		Output: out,
		Color:  cfg.Display.Color,
		Order:  cfg.Display.Order,
	})
	if err != nil {
		_ = sync()
		return nil, err
	}

	return &app{
		session:  command.NewSession(b, st, command.WithLogger(log)),
		renderer: r,
		log:      log,
		sync:     sync,
	}, nil
}

// loadConfig loads layered config from user and project paths, then applies
// env and flag overrides.
func loadConfig(g *Globals) (*config.Config, error) {
	paths := []string{
		os.ExpandEnv("$HOME/.config/addrbook/config.yaml"),
		".addrbook/config.yaml",
	}
	if g.Config != "" {
		paths = append(paths, g.Config)
	}
	cfg, err := config.LoadLayered(paths...)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	// Apply CLI flag overrides.
	if g.File != "" {
		cfg.Storage.Path = g.File
	}
	if g.Lang != "" {
		cfg.Display.Language = g.Lang
	}
	if g.Debug {
		cfg.Log.Debug = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

const (
	exitSuccess = 0
	exitCommand = 1
	exitSetup   = 2
)

// exitCode maps an error to the appropriate exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ce *commandError
	if errors.As(err, &ce) {
		return exitCommand
	}
	return exitSetup
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("addrbook"),
		kong.Description("An address book for the terminal."),
		kong.Vars{"version": version + " " + commit + " " + date},
	)
	err := ctx.Run(&cli.Globals)
	if err != nil {
		var ce *commandError
		if !errors.As(err, &ce) {
			fmt.Fprintf(os.Stderr, "error: %s\n", err)
		}
		os.Exit(exitCode(err))
	}
}
