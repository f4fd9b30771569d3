package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/smileynet/custdesk/internal/config"
	"github.com/smileynet/custdesk/internal/customer"
	"github.com/smileynet/custdesk/internal/entry"
	"github.com/smileynet/custdesk/internal/logging"
	"github.com/smileynet/custdesk/internal/store"
	"github.com/smileynet/custdesk/internal/viewer"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Globals holds flags shared by every command.
type Globals struct {
	DB string `help:"SQLite file to use (overrides config and CUSTDESK_DB)." placeholder:"PATH"`
}

// CLI is the top-level command structure for custdesk.
type CLI struct {
	Globals

	Version kong.VersionFlag `help:"Show version." short:"V"`
	Entry   EntryCmd         `cmd:"" help:"Open the customer entry form."`
	View    ViewCmd          `cmd:"" help:"Open the customer table viewer."`
	Add     AddCmd           `cmd:"" help:"Save one customer without the form."`
	List    ListCmd          `cmd:"" help:"Print all customers as plain text."`
	Init    InitCmd          `cmd:"" help:"Create the customers table and exit."`
}

// loadConfig loads layered config from user and project paths with env overrides.
// A non-empty dbFlag wins over both.
func loadConfig(dbFlag string) (*config.Config, error) {
	cfg, err := config.LoadLayered(
		os.ExpandEnv("$HOME/.config/custdesk/config.yaml"),
		".custdesk/config.yaml",
	)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if dbFlag != "" {
		cfg.Store.Path = dbFlag
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// app holds the resources a command owns for its lifetime.
type app struct {
	log       zerolog.Logger
	logCloser io.Closer
	store     *store.Store
}

// openApp loads config, opens the operator log and opens the store.
// Callers must Close the returned app.
func openApp(ctx context.Context, g *Globals) (*app, error) {
	cfg, err := loadConfig(g.DB)
	if err != nil {
		return nil, err
	}

	log, closer, err := logging.Open(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	s, err := store.Open(ctx, cfg.Store.Path,
		store.WithLogger(log),
		store.WithBusyTimeout(cfg.Store.BusyTimeout),
	)
	if err != nil {
		log.Error().Err(err).Str("path", cfg.Store.Path).Msg("store initialization failed")
		_ = closer.Close()
		return nil, err
	}

	return &app{log: log, logCloser: closer, store: s}, nil
}

// Close releases the store and the log file.
func (a *app) Close() error {
	err := a.store.Close()
	if cerr := a.logCloser.Close(); err == nil {
		err = cerr
	}
	return err
}

// --- Interactive commands ---

// teaRunner abstracts Bubble Tea program execution for testing.
type teaRunner interface {
	Run() (tea.Model, error)
}

// isTerminal reports whether f is connected to a terminal.
func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// runProgram runs prog when attached to a terminal.
func runProgram(name, fallback string, isTTY bool, prog teaRunner) error {
	if !isTTY {
		return fmt.Errorf("%s: requires a terminal (TTY); use %q instead", name, fallback)
	}
	_, err := prog.Run()
	return err
}

// EntryCmd opens the entry form TUI.
type EntryCmd struct{}

// Run opens the store and launches the entry form. A store that cannot be
// initialized stops the command before the form is shown.
func (e *EntryCmd) Run(g *Globals) error {
	if !isTerminal(os.Stdout) {
		return runProgram("entry", "custdesk add", false, nil)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a, err := openApp(ctx, g)
	if err != nil {
		return fmt.Errorf("entry: %w", err)
	}
	defer a.Close()

	prog := tea.NewProgram(entry.NewModel(ctx, a.store), tea.WithAltScreen(), tea.WithContext(ctx))
	return runProgram("entry", "custdesk add", true, prog)
}

// ViewCmd opens the viewer TUI.
type ViewCmd struct{}

// Run opens the store and launches the viewer.
func (v *ViewCmd) Run(g *Globals) error {
	if !isTerminal(os.Stdout) {
		return runProgram("view", "custdesk list", false, nil)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a, err := openApp(ctx, g)
	if err != nil {
		return fmt.Errorf("view: %w", err)
	}
	defer a.Close()

	prog := tea.NewProgram(viewer.NewModel(ctx, a.store), tea.WithAltScreen(), tea.WithContext(ctx))
	return runProgram("view", "custdesk list", true, prog)
}

// --- Plain commands ---

// AddCmd saves one customer through the same validation as the entry form.
type AddCmd struct {
	Name     string `help:"Customer name (required)."`
	Birthday string `help:"Birthday, YYYY-MM-DD."`
	Email    string `help:"Email address."`
	Phone    string `help:"Phone number."`
	Address  string `help:"Postal address."`
	Contact  string `help:"Preferred contact method: Email, Phone or Mail." default:"Email"`
}

// Run executes the add command.
func (c *AddCmd) Run(g *Globals) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a, err := openApp(ctx, g)
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}
	defer a.Close()

	return c.run(ctx, os.Stdout, a.store)
}

// form builds the customer form from flags. A recognised contact method is
// normalised to its canonical spelling; anything else is passed through for
// validation to judge.
func (c *AddCmd) form() customer.Form {
	f := customer.Form{
		Name:          c.Name,
		Birthday:      c.Birthday,
		Email:         c.Email,
		Phone:         c.Phone,
		Address:       c.Address,
		ContactMethod: c.Contact,
	}
	if cm, err := customer.ParseContactMethod(c.Contact); err == nil {
		f.ContactMethod = string(cm)
	}
	return f
}

// run submits the form through ins, enabling testable wiring.
func (c *AddCmd) run(ctx context.Context, w io.Writer, ins customer.Inserter) error {
	if c.Contact != "" {
		if _, err := customer.ParseContactMethod(c.Contact); err != nil {
			return fmt.Errorf("add: %w", err)
		}
	}

	out := customer.Submit(ctx, ins, c.form())
	switch out.State {
	case customer.StateSucceeded:
		_, _ = fmt.Fprintf(w, "%s (id %d)\n", out.Message, out.ID)
		return nil
	case customer.StateRejected:
		var verr *customer.ValidationError
		if errors.As(out.Err, &verr) {
			_, _ = fmt.Fprintf(w, "Validation Error: %s\n", verr.Message)
		}
		return fmt.Errorf("add: %w", out.Err)
	default:
		return fmt.Errorf("add: %w", out.Err)
	}
}

// ListCmd prints every customer as a plain text table.
type ListCmd struct{}

// Run executes the list command.
func (l *ListCmd) Run(g *Globals) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a, err := openApp(ctx, g)
	if err != nil {
		return fmt.Errorf("list: %w", err)
	}
	defer a.Close()

	return l.run(ctx, os.Stdout, a.store)
}

// run renders one snapshot from f, enabling testable wiring.
// A degraded snapshot is printed, not returned as an error.
func (l *ListCmd) run(ctx context.Context, w io.Writer, f viewer.Fetcher) error {
	return viewer.RenderPlain(w, f.FetchAll(ctx))
}

// InitCmd creates the customers table.
type InitCmd struct{}

// schemaIniter abstracts store schema creation for testing.
type schemaIniter interface {
	Init(ctx context.Context) error
	Path() string
}

// Run executes the init command.
func (c *InitCmd) Run(g *Globals) error {
	ctx := context.Background()
	a, err := openApp(ctx, g)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	defer a.Close()

	return c.run(ctx, os.Stdout, a.store)
}

// run re-runs schema creation, enabling testable wiring.
func (c *InitCmd) run(ctx context.Context, w io.Writer, s schemaIniter) error {
	if err := s.Init(ctx); err != nil {
		return fmt.Errorf("init: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Initialized %s table in %s\n", store.Table, s.Path())
	return nil
}

// Exit codes.
const (
	exitSuccess  = 0
	exitRejected = 1 // validation or write failure; nothing was saved
	exitSetup    = 2 // config, terminal or store initialization failure
)

// exitCode maps an error to the appropriate exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	if errors.Is(err, customer.ErrValidation) || errors.Is(err, store.ErrWrite) {
		return exitRejected
	}
	return exitSetup
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("custdesk"),
		kong.Description("Capture customer contact details and browse them."),
		kong.Vars{"version": version + " " + commit + " " + date},
	)
	err := ctx.Run(&cli.Globals)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(exitCode(err))
	}
}
