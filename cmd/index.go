package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"tokenomics-kernel/chain"
	"tokenomics-kernel/config"
	"tokenomics-kernel/core"
	"tokenomics-kernel/ledger"
)

const shutdownTimeout = 5 * time.Second

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Follow the chain and replay BRC-100 inscriptions",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		closer, err := config.SetupLogging(cfg.Log)
		if err != nil {
			return err
		}
		defer closer.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		bc, err := chain.NewBlockchainClient(ctx, cfg.ChainURL, cfg.RequestTimeout)
		if err != nil {
			return err
		}
		defer bc.Close()

		reg := prometheus.NewRegistry()
		if err := reg.Register(collectors.NewGoCollector()); err != nil {
			return err
		}
		metrics, err := core.NewMetrics(reg)
		if err != nil {
			return err
		}
		idx := core.NewIndexer(ledger.New(),
			core.WithExecutor(cfg.Executor()),
			core.WithMetrics(metrics),
			core.WithStartBlock(cfg.StartBlock),
		)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return startChainFetcher(gctx, bc, idx, cfg.PollInterval)
		})
		if cfg.MetricsAddr != "" {
			srv := &http.Server{
				Addr:              cfg.MetricsAddr,
				Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
				ReadHeaderTimeout: cfg.RequestTimeout,
			}
			g.Go(func() error {
				logrus.Infof("metrics listening on %s", cfg.MetricsAddr)
				if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				return srv.Shutdown(sctx)
			})
		}

		if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		logrus.Infof("indexer stopped at block %d", idx.LatestBlock())
		return nil
	},
}

func startChainFetcher(ctx context.Context, bc *chain.BlockchainClient, idx *core.Indexer, interval time.Duration) error {
	for {
		latest, err := bc.GetLatestBlockNumber(ctx)
		if err != nil {
			logrus.Errorf("GetLatestBlockNumber err: %v", err)
			if !sleep(ctx, interval) {
				return ctx.Err()
			}
			continue
		}
		logrus.Debugf("lastIndexedNumber: %d, latestChainNumber: %d", idx.LatestBlock(), latest)

		for i := idx.LatestBlock() + 1; i <= latest; i++ {
			block, err := bc.GetChainBlock(ctx, i)
			if err != nil {
				logrus.Errorf("GetBlock %d err: %v", i, err)
				break
			}
			if err := idx.HandleNewBlock(block); err != nil {
				logrus.Errorf("HandleNewBlock %d err: %v", i, err)
				break
			}
			logrus.Debugf("HandleNewBlock %d success, trx %d, receipts %d", i, len(block.Txs), len(block.Receipts))
		}
		if !sleep(ctx, interval) {
			return ctx.Err()
		}
	}
}

// sleep waits d or until ctx is done, reporting whether it slept fully.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
