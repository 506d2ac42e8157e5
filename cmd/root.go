package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/a1s/tabula/internal/aws"
	"github.com/a1s/tabula/internal/config"
	"github.com/a1s/tabula/internal/config/data"
	"github.com/a1s/tabula/internal/dao"
	"github.com/a1s/tabula/internal/render"
)

const (
	appName    = "tabula"
	appVersion = "0.1.0"
)

var (
	tabulaFlags *data.Flags
	rootCmd     = &cobra.Command{
		Use:   appName,
		Short: "Sort, filter and page tabular data",
		Long: `tabula shows datasets and AWS listings as sortable, searchable, paginated
tables, either printed or in an interactive terminal view.`,
		SilenceUsage: true,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, appVersion)
		},
	}
)

func init() {
	tabulaFlags = config.NewFlags()
	initTabulaFlags()
	rootCmd.AddCommand(versionCmd)
}

func initTabulaFlags() {
	pf := rootCmd.PersistentFlags()
	pf.Float32VarP(tabulaFlags.RefreshRate, "refresh", "r", 0, "Refresh rate in seconds")
	pf.StringVarP(tabulaFlags.LogLevel, "logLevel", "l", config.DefaultLogLevel, "Log level (debug, info, warn, error)")
	pf.StringVar(tabulaFlags.LogFile, "logFile", "", "Log file path")

	pf.StringVar(tabulaFlags.Profile, "profile", "", "AWS profile to use")
	pf.StringVar(tabulaFlags.Region, "region", "", "AWS region to use")

	pf.StringVarP(tabulaFlags.View, "view", "v", "", "Named view from the configuration")
	pf.StringSliceVarP(tabulaFlags.Columns, "columns", "c", nil, "Column specs field[:name[:short[:orderable]]]")
	pf.StringVarP(tabulaFlags.Sort, "sort", "s", "", "Sort column, prefix with - for descending")
	pf.StringVarP(tabulaFlags.Search, "search", "q", "", "Only show rows matching the needle")
	pf.IntVar(tabulaFlags.PageSize, "page-size", -1, "Rows per page, 0 disables pagination")
	pf.IntVarP(tabulaFlags.Page, "page", "p", 1, "Page to show")
	pf.IntVar(tabulaFlags.MaxPages, "max-pages", -1, "Page numbers listed by pagers")
	pf.StringVarP(tabulaFlags.Output, "output", "o", string(render.FormatText), "Output format (text, csv, json, yaml, html)")
	pf.BoolVar(tabulaFlags.NoHeader, "no-header", false, "Omit the header of text output")
	pf.StringVarP(tabulaFlags.Format, "format", "f", "", "Dataset format, guessed from the path by default")
	pf.StringVar(tabulaFlags.Selector, "selector", "", "gjson path to the records inside a dataset")
	pf.BoolVarP(tabulaFlags.Browse, "browse", "b", false, "Open the interactive table")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		log.Fatal(err)
	}
}

// session holds the resolved configuration of a command run.
type session struct {
	cfg     *config.Config
	log     *slog.Logger
	closer  io.Closer
	aliases *config.Aliases
	hotkeys *config.HotKeys
	out     io.Writer
	tty     bool

	conn    aws.Connection
	factory *dao.Factory
}

func newSession(cmd *cobra.Command) (*session, error) {
	if err := config.InitLocs(); err != nil {
		return nil, fmt.Errorf("failed to initialize locations: %w", err)
	}
	if err := config.InitLogLoc(); err != nil {
		return nil, fmt.Errorf("failed to initialize log location: %w", err)
	}

	logFile := *tabulaFlags.LogFile
	if logFile == "" && *tabulaFlags.Browse {
		logFile = config.AppLogFile
	}
	logger, closer, err := config.NewLogger(*tabulaFlags.LogLevel, logFile)
	if err != nil {
		return nil, err
	}

	cfg := config.NewConfig()
	if err := cfg.Load(config.AppConfigFile, false); err != nil {
		closer.Close()
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Refine(tabulaFlags, aws.NewCredentialDiscovery()); err != nil {
		closer.Close()
		return nil, fmt.Errorf("failed to refine configuration: %w", err)
	}

	aliases := config.NewAliases()
	if err := aliases.Load(); err != nil {
		logger.Warn("failed to load aliases", "error", err)
	}
	hotkeys := config.NewHotKeys()
	if err := hotkeys.Load(); err != nil {
		logger.Warn("failed to load hotkeys", "error", err)
	}

	out := cmd.OutOrStdout()
	tty := false
	if f, ok := out.(*os.File); ok {
		tty = term.IsTerminal(int(f.Fd()))
	}
	logger.Debug("session ready",
		"profile", cfg.ActiveProfile(),
		"region", cfg.ActiveRegion(),
		"tty", tty,
	)

	return &session{
		cfg:     cfg,
		log:     logger,
		closer:  closer,
		aliases: aliases,
		hotkeys: hotkeys,
		out:     out,
		tty:     tty,
	}, nil
}

// Close releases the log file.
func (s *session) Close() error {
	return s.closer.Close()
}

// connection dials AWS once per session.
func (s *session) connection() (aws.Connection, error) {
	if s.conn != nil {
		return s.conn, nil
	}

	timeout, err := s.cfg.Tabula.GetAPITimeout()
	if err != nil {
		return nil, err
	}
	client, err := aws.NewAPIClient(&aws.ClientConfig{
		Profile: s.cfg.ActiveProfile(),
		Region:  s.cfg.ActiveRegion(),
		Timeout: timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS client: %w", err)
	}
	s.conn = client

	return client, nil
}

func (s *session) daoFactory() (*dao.Factory, error) {
	if s.factory != nil {
		return s.factory, nil
	}

	conn, err := s.connection()
	if err != nil {
		return nil, err
	}
	ttl, err := s.cfg.Tabula.GetCacheTTL()
	if err != nil {
		return nil, err
	}
	s.factory = dao.NewFactory(conn, ttl)

	return s.factory, nil
}

// textWidth caps text columns so a row fits the terminal.
func (s *session) textWidth(cols int) int {
	width := s.cfg.Tabula.Table.MaxColumnWidth
	if !s.tty || cols == 0 {
		return width
	}
	f, ok := s.out.(*os.File)
	if !ok {
		return width
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		return width
	}
	fit := max(w/cols-2, 8)
	if width == 0 || fit < width {
		return fit
	}

	return width
}

// withSession wraps a command body with session setup and teardown.
func withSession(fn func(cmd *cobra.Command, s *session, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		return fn(cmd, s, args)
	}
}
