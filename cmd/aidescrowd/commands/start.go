package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/tendermint/tendermint/abci/server"

	"github.com/iov-one/aidchain/app"
	"github.com/iov-one/aidchain/errors"
)

// NewStartCmd returns the command exposing the chain to a tendermint node
// over the ABCI socket protocol.
func NewStartCmd(home *string) *cobra.Command {
	var (
		bind        string
		metricsAddr string
	)
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Serve the application to a tendermint node",
		Long: `Serve the application over the ABCI socket protocol until interrupted.
The chain is initialized by the InitChain call of the connected node, the
local genesis file is not used.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector())

			n, err := openNode(Home(*home), cmd.ErrOrStderr(), reg)
			if err != nil {
				return err
			}
			defer n.Close()
			defer serveMetrics(n, metricsAddr, reg)()

			svr, err := server.NewServer(bind, "socket", app.NewABCI(n.app))
			if err != nil {
				return errors.Wrapf(errors.ErrInput, "create abci server: %s", err)
			}
			svr.SetLogger(n.logger.With("module", "abci-server"))
			n.logger.Info("starting ABCI app", "bind", bind)
			if err := svr.Start(); err != nil {
				return errors.Wrapf(errors.ErrInput, "start abci server: %s", err)
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()

			n.logger.Info("stopping ABCI app")
			if err := svr.Stop(); err != nil {
				n.logger.Error("stop abci server", "err", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&bind, "bind", "tcp://localhost:26658", "address the ABCI server listens on")
	cmd.Flags().StringVar(&metricsAddr, "metrics", "", "listen address of the /metrics endpoint, overrides the config file")
	return cmd
}
