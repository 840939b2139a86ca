package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/recon/internal/buildinfo"
	"github.com/cleared-dev/recon/internal/config"
	"github.com/cleared-dev/recon/internal/logger"
)

// app carries state shared by subcommands after flag parsing.
type app struct {
	configPath string
	logLevel   string
	cfg        *config.Config
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "recon",
		Short:   "Reconcile e-wallet statement ledgers",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", config.FileName, "config file; defaults apply when it does not exist")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override log.level from the config")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newReconcileCommand(a))
	rootCmd.AddCommand(newBatchCommand(a))

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := a.loadConfig(a.resolveConfigPath(cmd)); err != nil {
		return err
	}
	a.attachLogger(cmd)
	return nil
}

// resolveConfigPath picks the workspace's recon.yaml for commands that take
// --repo, unless --config was given explicitly.
func (a *app) resolveConfigPath(cmd *cobra.Command) string {
	if cmd.Flags().Changed("config") {
		return a.configPath
	}
	if repo := cmd.Flags().Lookup("repo"); repo != nil {
		return filepath.Join(repo.Value.String(), config.FileName)
	}
	return a.configPath
}

func (a *app) attachLogger(cmd *cobra.Command) {
	log := logger.New(a.cfg.Log.Level)
	cmd.SetContext(logger.WithContext(cmd.Context(), log))
}

func (a *app) loadConfig(path string) error {
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg
	return nil
}
