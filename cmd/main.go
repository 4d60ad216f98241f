package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"group-bridge/internal/api"
	"group-bridge/internal/auth"
	"group-bridge/internal/config"
	"group-bridge/internal/consumer"
	"group-bridge/internal/manager"
	"group-bridge/internal/messaging"
	"group-bridge/internal/metrics"
	"group-bridge/internal/resolver"
	"group-bridge/internal/storage"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:   "group-bridge",
		Short: "Bridges messaging-platform groups onto agency-owned records",
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to config file")

	root.AddCommand(serveCmd(), resolveCmd(), initDBCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// openStorage loads config and connects to the configured backend.
func openStorage(cfg *config.Config) (*storage.Storage, error) {
	db, err := storage.NewStorage(cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to init DB: %w", err)
	}
	return db, nil
}

func buildManager(cfg *config.Config, db *storage.Storage) *manager.GroupManager {
	groups := storage.NewGroupRepo(db)
	agencies := storage.NewAgencyRepo(db)
	res := resolver.New(agencies)
	return manager.NewGroupManager(groups, res,
		func() int64 { return cfg.Bridge.DefaultAgencyID },
		cfg.Bridge.PlaceholderName)
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the bridge daemon: consumer + HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Init Metrics
			metrics.Init()

			// Load Configuration
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			log.Println("Configuration loaded")

			// Setup JWT Secret
			auth.SetSecret(cfg.Auth.JWTSecret)

			// Init database
			db, err := openStorage(cfg)
			if err != nil {
				return err
			}
			defer db.Close()
			log.Printf("Database connected (%s)", db.Dialect())

			// Init RabbitMQ
			rabbitClient, err := messaging.NewRabbitClient(cfg.RabbitMQ.URL)
			if err != nil {
				return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
			}
			defer rabbitClient.Close()
			log.Println("RabbitMQ connected")

			if err := rabbitClient.DeclareQueues(); err != nil {
				return err
			}

			mgr := buildManager(cfg, db)

			// Start consuming group events
			cons, err := consumer.StartConsumer(rabbitClient.GetConnection(), mgr, cfg.Workers)
			if err != nil {
				return fmt.Errorf("failed to start consumer: %w", err)
			}

			// Background loop for the queue depth gauge
			go func() {
				ticker := time.NewTicker(10 * time.Second)
				defer ticker.Stop()
				for range ticker.C {
					rabbitClient.UpdateQueueDepth()
				}
			}()

			// Init API
			groups := storage.NewGroupRepo(db)
			agencies := storage.NewAgencyRepo(db)
			apiHandler := api.NewAPI(mgr, groups, agencies, cfg)
			server := &http.Server{
				Addr:    cfg.HTTP.Addr,
				Handler: apiHandler.Router(),
			}

			// Graceful Shutdown Setup
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			go func() {
				log.Printf("🚀 Starting API server on %s", cfg.HTTP.Addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatalf("Server error: %v", err)
				}
			}()

			<-ctx.Done() // Wait for interrupt signal
			log.Println("Shutdown initiated...")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				log.Printf("HTTP shutdown error: %v", err)
			}

			cons.Stop()

			log.Println("Graceful shutdown complete")
			return nil
		},
	}
}

func resolveCmd() *cobra.Command {
	var name string
	var agencyID int64

	cmd := &cobra.Command{
		Use:   "resolve <external-group-id>",
		Short: "Resolve or register a group from the command line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			db, err := openStorage(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			mgr := buildManager(cfg, db)
			group, err := mgr.ResolveOrRegister(cmd.Context(), args[0], name, agencyID)
			if err != nil {
				color.Red("resolution failed: %v", err)
				return err
			}

			color.Green("group %s -> id=%d agency=%d name=%q", group.ExternalID, group.ID, group.AgencyID, group.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name for a newly registered group")
	cmd.Flags().Int64Var(&agencyID, "agency", 0, "explicit owning agency id (skips the fallback policy)")
	return cmd
}

func initDBCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-db",
		Short: "Apply the bridge schema (development convenience)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			db, err := openStorage(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.InitSchema(cmd.Context()); err != nil {
				return fmt.Errorf("failed to apply schema: %w", err)
			}
			color.Green("schema applied (%s)", db.Dialect())
			return nil
		},
	}
}
