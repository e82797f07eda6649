package commands

import (
	"fmt"
	"os"

	"anoa.com/yamdb/internal/config"
	"anoa.com/yamdb/internal/logging"
	"anoa.com/yamdb/pkg/database"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var verbose bool

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "yamdb",
	Short: "YaMDb - reviews of films, books and music",
	Long: `YaMDb collects user reviews of titles (films, books, music and anything
else that fits a category) and serves them over a JSON API.

Running without a subcommand starts the API server.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging and SQL tracing")
}

// bootstrapEnv loads configuration, installs the logger and opens postgres.
func bootstrapEnv() (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logging.Setup(verbose || cfg.IsDevelopment())

	db, err := database.Connect(database.PostgresConfig{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPass,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
		Debug:    verbose,
	})
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}
