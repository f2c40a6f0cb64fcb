// Package main is the foodgram binary: the HTTP API plus maintenance commands.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"foodgram-backend/cmd/config"
	migration "foodgram-backend/cmd/database/migrate"
	"foodgram-backend/domain"
	"foodgram-backend/internal/logging"
	"foodgram-backend/internal/telemetry"
	"foodgram-backend/internal/utils"
	"foodgram-backend/pkg/ingredient"
	"foodgram-backend/pkg/jwt"
	"foodgram-backend/pkg/user"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "foodgram",
		Short:         "Foodgram recipe sharing backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			utils.LoadConfig()
			utils.InitValidator()
		},
	}

	cmd.AddCommand(serveCmd(), migrateCmd(), loadIngredientsCmd(), createAdminCmd())
	return cmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) error {
	serviceName := utils.GetConfigDefault("OTEL_SERVICE_NAME", "foodgram-backend")
	tel, err := telemetry.Init(ctx, serviceName, utils.GetConfig("OTEL_EXPORTER_OTLP_ENDPOINT"))
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(os.Stderr, "telemetry shutdown: %v\n", err)
		}
	}()

	logging.Init(serviceName, utils.GetConfigDefault("APP_ENV", "production"))

	db, err := config.ConnectDB()
	if err != nil {
		return err
	}

	app, err := config.NewApp(db)
	if err != nil {
		return err
	}

	addr := ":" + utils.GetConfigDefault("APP_PORT", "8080")
	errCh := make(chan error, 1)
	go func() {
		logging.Info(ctx, "server starting", "addr", addr)
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logging.Info(context.Background(), "shutting down server")
	return app.ShutdownWithTimeout(shutdownTimeout)
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := setupDB()
			if err != nil {
				return err
			}
			return migration.Migrate(db)
		},
	}
}

func loadIngredientsCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "load-ingredients",
		Short: "Bulk load the ingredient catalog from a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open ingredients file: %w", err)
			}
			defer file.Close()

			db, err := setupDB()
			if err != nil {
				return err
			}

			service := ingredient.NewIngredientService(ingredient.NewIngredientRepository(db))
			created, err := service.LoadIngredients(cmd.Context(), file)
			if err != nil {
				return err
			}
			logging.Info(cmd.Context(), domain.MessageSuccessLoadIngredients, "created", created, "file", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "file", "f", "data/ingredients.json", "Path to the ingredients JSON file")
	return cmd
}

func createAdminCmd() *cobra.Command {
	var req domain.RegisterRequest

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create a staff user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := utils.Validate.Struct(req); err != nil {
				return err
			}

			db, err := setupDB()
			if err != nil {
				return err
			}

			service := user.NewUserService(user.NewUserRepository(db), jwt.NewJWTService())
			profile, err := service.RegisterAdmin(cmd.Context(), req)
			if err != nil {
				var derr *domain.Error
				if errors.As(err, &derr) {
					return fmt.Errorf("cannot create admin: %s", derr.Message)
				}
				return err
			}
			logging.Info(cmd.Context(), "admin created", "id", profile.ID, "email", profile.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "Admin e-mail")
	cmd.Flags().StringVar(&req.Username, "username", "admin", "Admin username")
	cmd.Flags().StringVar(&req.FirstName, "first-name", "Admin", "First name")
	cmd.Flags().StringVar(&req.LastName, "last-name", "Admin", "Last name")
	cmd.Flags().StringVar(&req.Password, "password", "", "Admin password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func setupDB() (*gorm.DB, error) {
	logging.Init(utils.GetConfigDefault("OTEL_SERVICE_NAME", "foodgram-backend"), utils.GetConfigDefault("APP_ENV", "production"))
	return config.ConnectDB()
}
