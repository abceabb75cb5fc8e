package commands

import (
	"bufio"
	"context"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/iov-one/aidchain/errors"
)

// NewServeCmd returns the command running the local chain fed with
// transactions from the standard input.
func NewServeCmd(home *string) *cobra.Command {
	var (
		metricsAddr string
		blockSize   int
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Execute hex encoded transactions read from the standard input",
		Long: `Execute hex encoded transactions read line by line from the standard
input. Transactions are grouped into blocks of --block-size transactions, an
empty line closes the current block early. The outcome of every block is
written as JSON.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if blockSize <= 0 {
				return errors.Wrap(errors.ErrInput, "block size must be positive")
			}
			h := Home(*home)
			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector())

			n, err := openNode(h, cmd.ErrOrStderr(), reg)
			if err != nil {
				return err
			}
			defer n.Close()
			if err := n.ensureChain(); err != nil {
				return err
			}

			defer serveMetrics(n, metricsAddr, reg)()

			var pending [][]byte
			flush := func() error {
				if len(pending) == 0 {
					return nil
				}
				b, err := n.deliver(time.Now(), pending...)
				pending = nil
				if err != nil {
					return err
				}
				return writeJSON(cmd, b)
			}

			scanner := bufio.NewScanner(cmd.InOrStdin())
			scanner.Buffer(make([]byte, 64*1024), 1024*1024)
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					if err := flush(); err != nil {
						return err
					}
					continue
				}
				raw, err := hex.DecodeString(line)
				if err != nil {
					return errors.Wrapf(errors.ErrInput, "transaction is not hex encoded: %q", line)
				}
				pending = append(pending, raw)
				if len(pending) >= blockSize {
					if err := flush(); err != nil {
						return err
					}
				}
			}
			if err := scanner.Err(); err != nil {
				return errors.Wrapf(errors.ErrInput, "read input: %s", err)
			}
			return flush()
		},
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics", "", "listen address of the /metrics endpoint, overrides the config file")
	cmd.Flags().IntVar(&blockSize, "block-size", 1, "maximum number of transactions in a block")
	return cmd
}

// serveMetrics starts the /metrics endpoint if an address is configured.
// The flag value takes precedence over the config file. The returned
// function shuts the endpoint down.
func serveMetrics(n *node, flagAddr string, reg *prometheus.Registry) func() {
	addr := n.conf.MetricsAddr
	if flagAddr != "" {
		addr = flagAddr
	}
	if addr == "" {
		return func() {}
	}
	srv := metricsServer(addr, reg)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			n.logger.Error("metrics server", "err", err)
		}
	}()
	n.logger.Info("serving metrics", "addr", addr)
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func metricsServer(addr string, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
