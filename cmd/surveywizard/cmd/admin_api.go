package cmd

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/pollwright/surveywizard/internal/core/api"
	"github.com/pollwright/surveywizard/internal/core/config"
	"github.com/pollwright/surveywizard/internal/core/db"
	"github.com/pollwright/surveywizard/internal/core/store"
	"github.com/spf13/cobra"
)

const Version = "0.1.0"

var adminAPICmd = &cobra.Command{
	Use:   "admin-api",
	Short: "Start admin wizard JSON API service",
	RunE:  runAdminAPI,
}

func init() {
	rootCmd.AddCommand(adminAPICmd)
	adminAPICmd.Flags().String("host", "0.0.0.0", "HTTP server host")
	adminAPICmd.Flags().Int("port", 8086, "HTTP server port")
}

func runAdminAPI(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("host") {
		host, _ := cmd.Flags().GetString("host")
		cfg.Host = host
	}
	if cmd.Flags().Changed("port") {
		port, _ := cmd.Flags().GetInt("port")
		cfg.Port = port
	}

	if dbURL == "" {
		return fmt.Errorf("--db-url required")
	}
	database, err := db.Open(dbURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	var migrationID string
	checkQuery := `SELECT migration_id FROM migrations WHERE migration_id = '001_init.sql'`
	err = database.Get(&migrationID, database.Rebind(checkQuery))
	if err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("migration 001_init not applied - run 'surveywizard migrate' first")
		}
		return fmt.Errorf("failed to check migrations: %w", err)
	}

	queries, err := db.LoadQueries(database)
	if err != nil {
		return fmt.Errorf("failed to load queries: %w", err)
	}

	surveyStore := store.New(queries)
	handler := api.NewHandler(surveyStore, cfg)
	app := api.NewApp(cfg, handler)

	log.Printf("Starting surveywizard admin API v%s on %s:%d", Version, cfg.Host, cfg.Port)
	errChan := make(chan error, 1)
	go func() {
		errChan <- app.Listen(fmt.Sprintf("%s:%d", cfg.Host, cfg.Port))
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case <-sigChan:
		log.Println("Shutting down gracefully...")
		return app.Shutdown()
	}
}
