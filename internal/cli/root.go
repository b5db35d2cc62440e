package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	port       string
	configPath string
)

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}

	cmd := &cobra.Command{
		Use:          "samskrtam-drill",
		Short:        "Sanskrit vocabulary drills: lessons, practice, review and progress",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", envConfig, "path to YAML config (empty for built-in defaults)")
	cmd.AddCommand(NewStartCmd(&configPath, &port))
	cmd.AddCommand(NewMigrateCmd(&configPath))
	cmd.AddCommand(NewLessonsCmd(&configPath))
	cmd.AddCommand(NewProgressCmd(&configPath))
	cmd.AddCommand(NewDrillCmd(&configPath))
	cmd.AddCommand(NewPracticeCmd(&configPath))
	return cmd
}
