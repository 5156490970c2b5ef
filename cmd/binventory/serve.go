package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/erazemk/binventory/internal/api"
	"github.com/erazemk/binventory/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		// First run: nobody could log in without an account.
		users, err := store.ListUsers(cmd.Context(), a.db)
		if err != nil {
			return err
		}
		if len(users) == 0 {
			password, err := createUser(cmd, a, "admin", "")
			if err != nil {
				return err
			}
			printAdminCreated(a.cfg.Database.Path, "admin", password)
			fmt.Println()
		}

		a.logger.Info("database ready", zap.String("path", a.cfg.Database.Path))

		jwtSecret, err := store.GetJWTSecret(cmd.Context(), a.db)
		if err != nil {
			return err
		}

		server := &http.Server{
			Addr:              a.cfg.Server.Addr,
			Handler:           api.NewRouter(a.db, jwtSecret, a.cfg, a.logger),
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       a.cfg.Server.ReadTimeout,
			WriteTimeout:      a.cfg.Server.WriteTimeout,
			IdleTimeout:       a.cfg.Server.IdleTimeout,
		}

		// Graceful shutdown on SIGINT/SIGTERM.
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		go func() {
			sig := <-quit
			a.logger.Info("shutdown signal received", zap.String("signal", sig.String()))

			ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
			defer cancel()

			if err := server.Shutdown(ctx); err != nil {
				a.logger.Error("server forced to shutdown", zap.Error(err))
			}
		}()

		a.logger.Info("server started", zap.String("addr", a.cfg.Server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		a.logger.Info("server stopped, closing database")
		return nil
	},
}
