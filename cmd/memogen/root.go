package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

// rootFlags are the persistent flags shared by every subcommand.
type rootFlags struct {
	configPath string
	envFile    string
	logLevel   string
	quiet      bool
}

var flags rootFlags

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "memogen",
		Short:         "Generate meeting minutes from transcript files with hosted language models",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// .env is a convenience, never a requirement.
			_ = godotenv.Load(flags.envFile)

			return setupLogging(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to config file (default: $MEMOGEN_CONFIG or config.json)")
	cmd.PersistentFlags().StringVar(&flags.envFile, "env", ".env", "path to .env file (ignored if missing)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	cmd.PersistentFlags().BoolVarP(&flags.quiet, "quiet", "q", false, "suppress logging below error")

	cmd.AddCommand(
		generateCmd(),
		configCmd(),
		modelsCmd(),
		templatesCmd(),
		watchCmd(),
		mcpCmd(),
		initCmd(),
	)

	return cmd
}

// setupLogging configures the process-wide zerolog logger: console writer on
// stderr so stdout stays clean for command output.
func setupLogging(cmd *cobra.Command) error {
	level, err := zerolog.ParseLevel(flags.logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q", flags.logLevel)
	}

	if flags.quiet {
		level = zerolog.ErrorLevel
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).
		Level(level).
		With().Timestamp().Logger()

	log = logger

	return nil
}

// log is the CLI's logger, configured by setupLogging before any command runs.
var log = zerolog.Nop()

// resolveConfigPath picks the configuration file: the --config flag, then
// $MEMOGEN_CONFIG, then config.json in the working directory.
func resolveConfigPath() string {
	if flags.configPath != "" {
		return flags.configPath
	}

	if env := os.Getenv("MEMOGEN_CONFIG"); env != "" {
		return env
	}

	return "config.json"
}
