package cmd

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

const (
	flagAddress = "address"

	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 10 * time.Second
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the name resolution and leaderboard HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := mustApp(cmd)
			if err != nil {
				return err
			}
			addr, _ := cmd.Flags().GetString(flagAddress)
			if addr == "" {
				addr = a.Config().API.Address
			}

			lis, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			srv := &http.Server{
				Handler:           a.Router(),
				ReadHeaderTimeout: readHeaderTimeout,
			}

			ctx := cmd.Context()
			errCh := make(chan error, 1)
			go func() { errCh <- srv.Serve(lis) }()
			a.Logger().Info("serving api", "address", lis.Addr().String())

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			a.Logger().Info("shutting down api")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().String(flagAddress, "", "listen address, overrides api.address")
	return cmd
}
