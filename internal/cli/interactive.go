package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/auth"
	"github.com/Makepad-fr/tada/internal/httpapi"
	"github.com/Makepad-fr/tada/internal/tui"
)

func newTUICommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse and edit todos interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer s.Close()

			err = tui.Run(tui.Config{
				Store:         s.store,
				Creator:       s.creator,
				AfterDispatch: s.persist,
			})
			if err != nil {
				return failure("tui", err)
			}
			return nil
		},
	}
}

func newServeCommand(opts *Options) *cobra.Command {
	var (
		addr         string
		requireToken bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the todo list over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := authDir(opts)
			if err != nil {
				return failure("auth", err)
			}
			token, err := dir.Require()
			switch {
			case errors.Is(err, auth.ErrNoToken):
				if requireToken {
					return &ExitError{
						Code:    ExitUsage,
						Message: "serve",
						Err:     err,
						Hint:    "Hint: set TADA_TOKEN or run `tada auth login`",
					}
				}
				token = nil
			case err != nil:
				return failure("auth", err)
			}

			s, err := openSession(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer s.Close()

			e := httpapi.New(httpapi.Config{
				Store:         s.store,
				Creator:       s.creator,
				Token:         token,
				AfterDispatch: s.persist,
				Logger:        opts.logger,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errc := make(chan error, 1)
			go func() { errc <- e.Start(addr) }()
			opts.logger.WithField("addr", addr).WithField("auth", token != nil).Warn("serving")

			select {
			case err := <-errc:
				if !errors.Is(err, http.ErrServerClosed) {
					return failure("serve", err)
				}
				return nil
			case <-ctx.Done():
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := e.Shutdown(shutdownCtx); err != nil {
				return failure("shutdown", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&requireToken, "require-token", false, "refuse to start without a token")
	return cmd
}
