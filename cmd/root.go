package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"intake/internal/app"
	"intake/internal/cachemanager"
	"intake/internal/casefile"
	"intake/internal/config"
	"intake/internal/flags"
	"intake/internal/flow"
	"intake/internal/infrastructure/sqlite"
	"intake/internal/log"
	"intake/internal/registry"
	"intake/internal/step"
	"intake/internal/ui/styles"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var (
	version = "dev"
	cfgFile string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:     "intake",
	Short:   "A terminal ui for housing case intake",
	Long:    `A terminal user interface for registering housing cases: capture the case details, run the person and business duplicate checks against the relation registry, and file the case.`,
	Version: version,
	RunE:    runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/intake/config.yaml)")
	rootCmd.Flags().String("lookup-url", "",
		"base URL of the relation registry API")
	rootCmd.Flags().Bool("no-auto-advance", false,
		"disable the no-match countdown that auto-advances the wizard")
	rootCmd.Flags().Bool("debug", false,
		"write debug logs to .intake/debug.log")

	// Bind flags to viper
	_ = viper.BindPFlag("lookup.url", rootCmd.Flags().Lookup("lookup-url"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("lookup.url", defaults.Lookup.URL)
	viper.SetDefault("lookup.timeout_ms", defaults.Lookup.TimeoutMS)
	viper.SetDefault("lookup.cache_ttl_seconds", defaults.Lookup.CacheTTLSeconds)
	viper.SetDefault("session.debounce_ms", defaults.Session.DebounceMS)
	viper.SetDefault("session.countdown_seconds", defaults.Session.CountdownSeconds)
	viper.SetDefault("db_path", defaults.DBPath)
	viper.SetDefault("theme.highlight", defaults.Theme.Highlight)
	viper.SetDefault("theme.subtle", defaults.Theme.Subtle)
	viper.SetDefault("theme.error", defaults.Theme.Error)
	viper.SetDefault("theme.success", defaults.Theme.Success)
	viper.SetDefault("flags", defaults.Flags)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .intake/config.yaml (current directory)
		// 2. ~/.config/intake/config.yaml (user config)
		if _, err := os.Stat(".intake/config.yaml"); err == nil {
			viper.SetConfigFile(".intake/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "intake"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create default at .intake/config.yaml
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			defaultPath := ".intake/config.yaml"
			if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
				viper.SetConfigFile(defaultPath)
				_ = viper.ReadInConfig()
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = viper.Unmarshal(&cfg)
}

func runApp(cmd *cobra.Command, args []string) error {
	if debug, _ := cmd.Flags().GetBool("debug"); debug || os.Getenv("INTAKE_DEBUG") != "" {
		if cleanup, err := log.Init(".intake/debug.log"); err == nil {
			defer cleanup()
			log.SetEnabled(true)
		}
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if noAutoAdvance, _ := cmd.Flags().GetBool("no-auto-advance"); noAutoAdvance {
		cfg.Flags[flags.FlagAutoAdvance] = false
	}

	styles.Apply(cfg.Theme.Highlight, cfg.Theme.Subtle, cfg.Theme.Error, cfg.Theme.Success)

	services, closeDB, err := buildServices(cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	model := app.New(services)
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err = p.Run()
	model.Close()

	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// buildServices wires the registry client, lookup cache, case repository and
// wizard flow into the step services.
func buildServices(cfg config.Config) (step.Services, func(), error) {
	flagRegistry := flags.New(cfg.Flags)

	var searcher registry.Searcher = registry.NewClient(cfg.Lookup.URL, cfg.LookupTimeout())
	cache := cachemanager.NewInMemoryCacheManager[string, []registry.Match](
		"lookup", cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval)
	searcher = registry.NewCachedSearcher(searcher, cache,
		cfg.CacheTTL(), flagRegistry.Enabled(flags.FlagLookupCache))

	dbPath := cfg.DBPath
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return step.Services{}, nil, fmt.Errorf("resolving home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".intake", "cases.db")
	}

	db, err := sqlite.NewDB(dbPath)
	if err != nil {
		return step.Services{}, nil, fmt.Errorf("opening case database: %w", err)
	}

	var cases casefile.Repository = sqlite.NewCaseRepository(db)

	services := step.Services{
		Config:   &cfg,
		Searcher: searcher,
		Cases:    cases,
		Flow:     flow.New(),
		Flags:    flagRegistry,
	}
	return services, func() { _ = db.Close() }, nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
