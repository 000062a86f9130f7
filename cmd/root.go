package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/zhubert/recall/internal/app"
	"github.com/zhubert/recall/internal/config"
	"github.com/zhubert/recall/internal/logger"
	"github.com/zhubert/recall/internal/router"
	"github.com/zhubert/recall/internal/session"
)

var (
	debugMode             bool
	quietMode             bool
	dbPath                string
	actorID               string
	openPath              string
	version, commit, date string
)

// SetVersionInfo sets version information from ldflags
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
}

var rootCmd = &cobra.Command{
	Use:   "recall",
	Short: "Terminal chat history browser",
	Long: `Recall is a terminal UI for browsing past chat sessions.
A collapsible sidebar lists your sessions, most recently updated first,
and opens any of them in the content pane.`,
	RunE:          runTUI,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", true, "Enable debug logging (on by default)")
	rootCmd.PersistentFlags().BoolVarP(&quietMode, "quiet", "q", false, "Reduce logging to info level only")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Session database path (overrides config)")
	rootCmd.PersistentFlags().StringVar(&actorID, "actor", "", "Actor whose sessions are shown (overrides config)")
	rootCmd.Flags().StringVar(&openPath, "open", "", "Initial route, e.g. /session/<id>")
}

func initConfig() {
	if quietMode {
		logger.SetDebug(false)
	} else if debugMode {
		logger.SetDebug(true)
	}
}

// Execute runs the root command
func Execute() error {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionTemplate())
	return rootCmd.Execute()
}

func versionTemplate() string {
	if commit != "none" && commit != "" {
		return fmt.Sprintf("recall %s\n  commit: %s\n  built:  %s\n", version, commit, date)
	}
	return fmt.Sprintf("recall %s\n", version)
}

// loadConfig loads the saved config and applies the --db and --actor
// overrides. Overrides are not persisted.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	applyOverrides(cfg)
	return cfg, nil
}

func applyOverrides(cfg *config.Config) {
	if dbPath != "" {
		cfg.SetDatabasePath(dbPath)
	}
	if actorID != "" {
		cfg.SetActorID(actorID)
	}
}

// openStore opens the session database, creating its directory first.
func openStore(cfg *config.Config) (*session.Store, error) {
	path := cfg.GetDatabasePath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("error creating database directory: %w", err)
	}
	store, err := session.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening session store: %w", err)
	}
	return store, nil
}

// startRoute parses the --open flag. An empty flag starts on home.
func startRoute(path string) (router.Route, error) {
	if path == "" {
		return router.Home(), nil
	}
	route, err := router.ParsePath(path)
	if err != nil {
		return router.Route{}, fmt.Errorf("invalid --open route %q: %w", path, err)
	}
	return route, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	start, err := startRoute(openPath)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Ensure logger is closed on exit
	defer logger.Close()

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	m := app.New(cfg, app.Options{
		Sessions: store,
		Actor:    session.Actor{ID: cfg.GetActorID()},
		Start:    start,
	})
	defer m.Close()
	p := tea.NewProgram(m)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running app: %w", err)
	}
	return nil
}
