package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/skillswap/skillswap-hub/config"
	"github.com/skillswap/skillswap-hub/pkg/logger"
)

// v holds every configuration source: defaults, skillswap.yaml, env and flags.
var v = config.New()

var rootCmd = &cobra.Command{
	Use:           "skillswap",
	Short:         "Peer learning partner matching",
	Long:          `SkillSwap Hub ranks learners by shared skills and goals and manages matches between them.`,
	Version:       fmt.Sprintf("%s (%s)", version, commit),
	SilenceErrors: true,
	SilenceUsage:  true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, rankCmd)

	rootCmd.PersistentFlags().String("config", "", "Path to config file (default ./skillswap.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "json", "Log format: json or console")
	rootCmd.PersistentFlags().Bool("demo", false, "Use the seeded in-memory directory instead of PostgreSQL")

	for key, name := range map[string]string{
		"log.level":  "log-level",
		"log.format": "log-format",
		"app.demo":   "demo",
	} {
		if err := v.BindPFlag(key, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", name, err))
		}
	}
}

// loadConfig resolves configuration for a command invocation.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		v.SetConfigFile(path)
	}
	cfg, err := config.LoadFrom(v)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.App.Version = version
	return cfg, nil
}

// newLogger builds the process logger from the log settings.
func newLogger(cfg *config.Config, out io.Writer) *logger.Logger {
	return logger.New(logger.Options{
		Output:    out,
		Level:     logger.ParseLevel(cfg.Log.Level),
		Format:    cfg.Log.Format,
		AddCaller: !cfg.IsDevelopment(),
	}).With(
		logger.String("service", cfg.App.Name),
		logger.String("env", string(cfg.App.Environment)),
	)
}
