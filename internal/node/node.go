package node

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	lwwpb "lwwset/internal/api/lwwpb"
	"lwwset/internal/clock"
	"lwwset/internal/config"
	"lwwset/internal/lww"
)

// Node hosts a single LWW set replica behind a gRPC server.
type Node struct {
	cfg        *config.Config
	set        *lww.Set[string, int64]
	metrics    *Metrics
	logger     *slog.Logger
	grpcServer *grpc.Server
}

// NewNode builds the replica described by cfg.
func NewNode(cfg *config.Config, logger *slog.Logger) (*Node, error) {
	if logger == nil {
		logger = slog.Default()
	}

	src, err := clock.NewSource(cfg.ClockKind())
	if err != nil {
		return nil, fmt.Errorf("failed to create clock: %w", err)
	}

	opts := []lww.Option[int64]{
		lww.WithClock(src),
		lww.WithLogger[int64](logger.With("node", cfg.NodeID)),
	}
	if cfg.Epoch != nil {
		opts = append(opts, lww.WithBaseline(*cfg.Epoch))
	}
	set := lww.New[string, int64](opts...)
	metrics := NewMetrics(cfg.NodeID, set)

	grpcServer := grpc.NewServer(
		grpc.ForceServerCodec(lwwpb.Codec{}),
		grpc.ChainUnaryInterceptor(
			tracingInterceptor(),
			observeInterceptor(logger.With("node", cfg.NodeID), metrics),
		),
	)
	lwwpb.RegisterLWWSetServer(grpcServer, NewServer(set, cfg.NodeID, logger, metrics))

	return &Node{
		cfg:        cfg,
		set:        set,
		metrics:    metrics,
		logger:     logger.With("node", cfg.NodeID),
		grpcServer: grpcServer,
	}, nil
}

// Set returns the hosted replica.
func (n *Node) Set() *lww.Set[string, int64] {
	return n.set
}

// Metrics returns the node's metrics.
func (n *Node) Metrics() *Metrics {
	return n.metrics
}

// Serve serves gRPC on lis until Stop is called.
func (n *Node) Serve(lis net.Listener) error {
	n.logger.Info("serving", "addr", lis.Addr().String(), "baseline", n.set.Baseline(), "clock", n.cfg.ClockKind())
	if err := n.grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("failed to serve: %w", err)
	}
	return nil
}

// Run listens on the configured addresses and serves until ctx is done.
// The metrics endpoint is started only when MetricsAddr is set.
func (n *Node) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", n.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", n.cfg.ListenAddr, err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return n.Serve(lis)
	})

	var metricsServer *http.Server
	if n.cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", n.metrics.Handler())
		metricsServer = &http.Server{
			Addr:              n.cfg.MetricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			n.logger.Info("serving metrics", "addr", n.cfg.MetricsAddr)
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		n.Stop()
		if metricsServer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), n.cfg.Timeout)
			defer cancel()
			return metricsServer.Shutdown(shutdownCtx)
		}
		return nil
	})

	return g.Wait()
}

// Stop gracefully stops the gRPC server.
func (n *Node) Stop() {
	n.logger.Info("stopping")
	n.grpcServer.GracefulStop()
}
