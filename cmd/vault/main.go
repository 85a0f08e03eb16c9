package main

import (
	"fmt"
	"os"
	"time"

	"promptvault/cmd/vault/config"
	"promptvault/internal/gateway"
	"promptvault/internal/logging"
	"promptvault/internal/session"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose    bool
	backendURL string
	timeout    time.Duration

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "vault",
	Short: "PromptVault - versioned prompt manager",
	Long: `PromptVault is a terminal client for a versioned prompt store.

Prompts live on a remote backend; every edit creates a new version and
older versions stay retrievable. Archived prompts are hidden from the
active list and can be restored at any time.

Run without arguments to start the interactive dashboard.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip logger init for the dashboard (it has its own UI)
		if cmd.Use == "vault" && cmd.CalledAs() == "vault" {
			return nil
		}

		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDashboard()
	},
}

// appEnv bundles the pieces every command needs.
type appEnv struct {
	cfg    config.Config
	sess   *session.Session
	client *gateway.Client
}

// newAppEnv loads config and session state and constructs the backend
// client. Flags beat environment beats config file.
func newAppEnv() (*appEnv, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if backendURL != "" {
		cfg.BackendURL = backendURL
	}
	if cfg.BackendURL == "" {
		return nil, fmt.Errorf("no backend URL configured: set PROMPTVAULT_BACKEND_URL or pass --backend")
	}

	sess, err := session.New()
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	dir, err := config.StateDir()
	if err == nil {
		logging.Initialize(dir, cfg.Debug, cfg.LogLevel)
	}

	client := gateway.NewClient(cfg.BackendURL, sess, gateway.WithTimeout(timeout))
	return &appEnv{cfg: cfg, sess: sess, client: client}, nil
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&backendURL, "backend", "", "Backend base URL (or set PROMPTVAULT_BACKEND_URL)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")

	// Add commands to root
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(promptsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
