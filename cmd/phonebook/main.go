package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/smileynet/phonebook"
	"github.com/smileynet/phonebook/internal/book"
	"github.com/smileynet/phonebook/internal/config"
	"github.com/smileynet/phonebook/internal/console"
	"github.com/smileynet/phonebook/internal/contact"
	"github.com/smileynet/phonebook/internal/dashboard"
	"github.com/smileynet/phonebook/internal/logging"
	"github.com/smileynet/phonebook/internal/state"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// projectConfigPath is where `config init` writes and the project layer is read from.
const projectConfigPath = ".phonebook/config.yaml"

var errExists = errors.New("contact already exists")

// CLI is the top-level command structure for phonebook.
type CLI struct {
	Version    kong.VersionFlag `help:"Show version." short:"V"`
	File       string           `help:"Contacts file (overrides storage.path)." short:"f" type:"path"`
	ConfigPath string           `help:"Extra config file, applied after the user and project layers." name:"config" type:"path"`
	Plain      bool             `help:"Use the line-based menu even on a terminal."`
	LogLevel   string           `help:"Log level (debug, info, warn, error)." name:"log-level"`

	Menu   MenuCmd   `cmd:"" default:"1" help:"Open the interactive menu."`
	Add    AddCmd    `cmd:"" help:"Add or replace a contact."`
	Find   FindCmd   `cmd:"" help:"Look up contacts by part of their name."`
	Delete DeleteCmd `cmd:"" help:"Delete a contact."`
	List   ListCmd   `cmd:"" help:"Show all contacts."`
	Import ImportCmd `cmd:"" help:"Import contacts from a vCard file."`
	Config ConfigCmd `cmd:"" help:"Manage configuration."`
}

// session holds what every contact command needs once config is resolved.
type session struct {
	cfg   *config.Config
	store *contact.Store
	book  *book.Book
	warn  contact.Warning
	close func() error
}

// loadConfig loads layered config from user and project paths with env overrides.
// An explicit extra path must exist.
func loadConfig(extra string) (*config.Config, error) {
	paths := []string{
		os.ExpandEnv("$HOME/.config/phonebook/config.yaml"),
		projectConfigPath,
	}
	if extra != "" {
		if _, err := os.Stat(extra); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		paths = append(paths, extra)
	}

	cfg, err := config.LoadLayered(paths...)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveConfig loads config and applies CLI flag overrides.
func (c *CLI) resolveConfig() (*config.Config, error) {
	cfg, err := loadConfig(c.ConfigPath)
	if err != nil {
		return nil, err
	}

	if c.File != "" {
		cfg.Storage.Path = c.File
	}
	if c.Plain {
		cfg.UI.Plain = true
	}
	if c.LogLevel != "" {
		cfg.Log.Level = c.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// open resolves config, builds the logger, and loads the contacts file.
func (c *CLI) open() (*session, error) {
	cfg, err := c.resolveConfig()
	if err != nil {
		return nil, err
	}

	log, closeLog, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	if err != nil {
		return nil, err
	}

	store := contact.NewStore(state.NewFileStore(cfg.Storage.Path), contact.WithLogger(log))
	warn, err := store.Load()
	if err != nil {
		_ = log.Sync()
		_ = closeLog()
		return nil, err
	}
	log.Debug("contacts loaded", zap.String("path", cfg.Storage.Path), zap.Int("count", store.Len()))

	return &session{
		cfg:   cfg,
		store: store,
		book:  book.New(store, log),
		warn:  warn,
		close: func() error {
			_ = log.Sync()
			return closeLog()
		},
	}, nil
}

// startupNotices turns a load warning into notices for display.
func (s *session) startupNotices() []book.Notice {
	if s.warn == "" {
		return nil
	}
	return []book.Notice{{Level: book.Failure, Text: string(s.warn)}}
}

// printWarning reports a load warning on w for the one-shot commands,
// which have no notice area.
func (s *session) printWarning(w io.Writer) {
	for _, n := range s.startupNotices() {
		_, _ = fmt.Fprintln(w, n)
	}
}

// teaRunner abstracts tea.Program.Run for testing.
type teaRunner interface {
	Run() (tea.Model, error)
}

// MenuCmd opens the interactive menu.
type MenuCmd struct{}

// Run picks the Bubble Tea dashboard on a terminal and the line menu otherwise.
func (m *MenuCmd) Run(cli *CLI) error {
	s, err := cli.open()
	if err != nil {
		return fmt.Errorf("menu: %w", err)
	}
	defer s.close() //nolint:errcheck // best-effort log flush

	notices := s.startupNotices()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var prog teaRunner
	if !s.cfg.UI.Plain && isTerminal(os.Stdin) && isTerminal(os.Stdout) {
		prog = tea.NewProgram(dashboard.NewModel(s.book, notices...), tea.WithAltScreen(), tea.WithContext(ctx))
	}
	return m.run(ctx, s.book, notices, prog, os.Stdin, os.Stdout)
}

// run executes the tea program when one is given, else the line menu.
// An interrupt ends either one cleanly.
func (m *MenuCmd) run(ctx context.Context, b *book.Book, notices []book.Notice, prog teaRunner, in io.Reader, out io.Writer) error {
	if prog != nil {
		final, err := prog.Run()
		if errors.Is(err, context.Canceled) {
			return nil
		}
		if err != nil {
			return err
		}
		// The alt screen is gone once the program exits; repeat the last notices.
		if dm, ok := final.(dashboard.Model); ok {
			for _, n := range dm.Notices() {
				_, _ = fmt.Fprintln(out, n)
			}
		}
		return nil
	}

	menu := console.New(b, in, out)
	for _, n := range notices {
		menu.Notify(n)
	}
	if err := menu.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			_, _ = fmt.Fprintln(out)
			return nil
		}
		return err
	}
	return nil
}

// report prints n, or returns its error when the action failed.
func report(out io.Writer, n book.Notice) error {
	if n.Err != nil {
		return n.Err
	}
	_, _ = fmt.Fprintln(out, n)
	return nil
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// AddCmd adds a contact non-interactively.
type AddCmd struct {
	Name     string `arg:"" help:"Contact name."`
	Phone    string `help:"Phone number." short:"p"`
	Email    string `help:"Email address." short:"e"`
	Birthday string `help:"Birthday (YYYY-MM-DD)." short:"b"`
	Force    bool   `help:"Overwrite an existing contact with the same name."`
}

// Run executes the add command.
func (a *AddCmd) Run(cli *CLI) error {
	s, err := cli.open()
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}
	defer s.close() //nolint:errcheck // best-effort log flush
	s.printWarning(os.Stderr)
	return a.run(s.book, os.Stdout)
}

func (a *AddCmd) run(b *book.Book, out io.Writer) error {
	d, notices := b.Prepare(contact.Input{
		Name:     a.Name,
		Phone:    a.Phone,
		Email:    a.Email,
		Birthday: a.Birthday,
	})
	if d == nil {
		return fmt.Errorf("add: %w", notices[0].Err)
	}
	if d.Exists && !a.Force {
		return fmt.Errorf("add: %w: %s (use --force to overwrite)", errExists, d.Name)
	}

	for _, w := range d.Warnings {
		_, _ = fmt.Fprintln(out, w)
	}
	if err := report(out, b.Save(d)); err != nil {
		return fmt.Errorf("add: %w", err)
	}
	return nil
}

// FindCmd searches contacts by name.
type FindCmd struct {
	Term string `arg:"" help:"Name or part of a name."`
}

// Run executes the find command.
func (f *FindCmd) Run(cli *CLI) error {
	s, err := cli.open()
	if err != nil {
		return fmt.Errorf("find: %w", err)
	}
	defer s.close() //nolint:errcheck // best-effort log flush
	s.printWarning(os.Stderr)
	return f.run(s.book, os.Stdout)
}

func (f *FindCmd) run(b *book.Book, out io.Writer) error {
	found, n := b.Lookup(f.Term)
	if n != nil {
		_, _ = fmt.Fprintln(out, *n)
		return nil
	}
	printEntries(out, "=== Found Contacts ===", found)
	return nil
}

// DeleteCmd removes a contact by exact name.
type DeleteCmd struct {
	Name string `arg:"" help:"Exact contact name."`
	Yes  bool   `help:"Delete without asking for confirmation." short:"y"`
}

// Run executes the delete command.
func (d *DeleteCmd) Run(cli *CLI) error {
	s, err := cli.open()
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	defer s.close() //nolint:errcheck // best-effort log flush
	s.printWarning(os.Stderr)
	return d.run(s.book, os.Stdin, os.Stdout)
}

func (d *DeleteCmd) run(b *book.Book, in io.Reader, out io.Writer) error {
	name := strings.TrimSpace(d.Name)
	if _, ok := b.Store().Get(name); !ok {
		return fmt.Errorf("delete: %w: %q", book.ErrNotFound, name)
	}

	confirmed := d.Yes || askYes(in, out, fmt.Sprintf("Delete %s?", name))
	if err := report(out, b.Delete(name, confirmed)); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}

// askYes reads one answer line; only y or yes confirms.
func askYes(in io.Reader, out io.Writer, question string) bool {
	_, _ = fmt.Fprintf(out, "%s [y/N]: ", question)
	var answer string
	if _, err := fmt.Fscanln(in, &answer); err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

// ListCmd prints every contact.
type ListCmd struct{}

// Run executes the list command.
func (l *ListCmd) Run(cli *CLI) error {
	s, err := cli.open()
	if err != nil {
		return fmt.Errorf("list: %w", err)
	}
	defer s.close() //nolint:errcheck // best-effort log flush
	s.printWarning(os.Stderr)
	return l.run(s.book, os.Stdout)
}

func (l *ListCmd) run(b *book.Book, out io.Writer) error {
	entries, n := b.All()
	if n != nil {
		_, _ = fmt.Fprintln(out, *n)
		return nil
	}
	printEntries(out, "=== Phone Book Contacts ===", entries)
	return nil
}

func printEntries(out io.Writer, title string, entries []contact.Entry) {
	_, _ = fmt.Fprintln(out, title)
	for _, e := range entries {
		_, _ = fmt.Fprintf(out, "\n%s\n", contact.FormatContact(e.Name, e.Record))
	}
}

// ImportCmd merges contacts from a vCard file.
type ImportCmd struct {
	Path   string `arg:"" optional:"" help:"Path to a .vcf file." type:"path"`
	Sample bool   `help:"Import the bundled sample vCard instead of a file."`
}

// Run executes the import command.
func (i *ImportCmd) Run(cli *CLI) error {
	s, err := cli.open()
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	defer s.close() //nolint:errcheck // best-effort log flush
	s.printWarning(os.Stderr)
	return i.run(s.book, os.Stdout)
}

func (i *ImportCmd) run(b *book.Book, out io.Writer) error {
	var n book.Notice
	switch {
	case i.Sample:
		f, err := phonebook.Templates.Open(phonebook.SampleVCardFile)
		if err != nil {
			return fmt.Errorf("import: %w", err)
		}
		defer f.Close() //nolint:errcheck // read-only embedded file
		n = b.ImportFrom("sample", f)
	case strings.TrimSpace(i.Path) == "":
		return errors.New("import: a path or --sample is required")
	default:
		n = b.Import(i.Path)
	}

	if err := report(out, n); err != nil {
		return fmt.Errorf("import: %w", err)
	}
	return nil
}

// ConfigCmd groups configuration subcommands.
type ConfigCmd struct {
	Init ConfigInitCmd `cmd:"" help:"Write the default config to .phonebook/config.yaml."`
	Show ConfigShowCmd `cmd:"" help:"Print the effective configuration."`
}

// ConfigInitCmd writes the embedded config template.
type ConfigInitCmd struct {
	Force bool `help:"Overwrite an existing config file."`
}

// Run executes the config init command.
func (c *ConfigInitCmd) Run() error {
	return c.run(projectConfigPath, os.Stdout)
}

func (c *ConfigInitCmd) run(path string, out io.Writer) error {
	if _, err := os.Stat(path); err == nil && !c.Force {
		return fmt.Errorf("config init: %s already exists (use --force to overwrite)", path)
	}

	data, err := phonebook.ReadTemplate(phonebook.DefaultConfigFile)
	if err != nil {
		return fmt.Errorf("config init: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config init: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config init: %w", err)
	}
	_, _ = fmt.Fprintf(out, "Wrote %s\n", path)
	return nil
}

// ConfigShowCmd prints the merged configuration as YAML.
type ConfigShowCmd struct{}

// Run executes the config show command.
func (c *ConfigShowCmd) Run(cli *CLI) error {
	cfg, err := cli.resolveConfig()
	if err != nil {
		return fmt.Errorf("config show: %w", err)
	}
	return c.run(cfg, os.Stdout)
}

func (c *ConfigShowCmd) run(cfg *config.Config, out io.Writer) error {
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("config show: %w", err)
	}
	return enc.Close()
}

// Exit codes.
const (
	exitSuccess = 0
	exitFailure = 1
	exitInvalid = 2
)

// exitCode maps an error to the appropriate exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	if errors.Is(err, contact.ErrNameRequired) || errors.Is(err, contact.ErrPhoneRequired) {
		return exitInvalid
	}
	return exitFailure
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Description("A personal phone book with vCard import."),
		kong.Vars{"version": version + " " + commit + " " + date},
	)
	err := ctx.Run(&cli)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(exitCode(err))
	}
}
