package cli

import (
	"errors"
	"io/fs"
	"log"
	"os"

	"champion-quiz/internal/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const defaultConfigPath = "config/config.yaml"

var (
	port       string
	configPath string
)

// Execute runs the CLI.
func Execute() error {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	envPort := os.Getenv("PORT")
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = defaultConfigPath
	}

	cmd := &cobra.Command{
		Use:           "champion-quiz",
		Short:         "Take the season quizzes, keep your results locally and publish them to the leaderboard",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVar(&port, "port", envPort, "port for the local bridge (overrides config)")
	cmd.PersistentFlags().StringVar(&configPath, "config", envConfig, "path to YAML config")
	cmd.AddCommand(NewStartCmd(&configPath, &port))
	cmd.AddCommand(NewMigrateCmd(&configPath))
	cmd.AddCommand(NewPlayCmd(&configPath))
	cmd.AddCommand(NewProfileCmd(&configPath))
	cmd.AddCommand(NewTotalsCmd(&configPath))
	cmd.AddCommand(NewSubmitCmd(&configPath))
	cmd.AddCommand(NewLeaderboardCmd(&configPath))
	cmd.AddCommand(NewWhoamiCmd(&configPath))
	return cmd
}

// loadConfig reads the config file, falling back to defaults when the
// default path does not exist.
func loadConfig(path string) (config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) && path == defaultConfigPath {
		log.Printf("config %s not found, using defaults", path)
		return config.Default(), nil
	}
	return cfg, err
}
