package main

import (
	"context"
	"fmt"
	"net"

	"github.com/danmuck/callwire/internal/calls"
	"github.com/danmuck/callwire/internal/config"
	"github.com/danmuck/callwire/internal/protocol/frame"
	"github.com/danmuck/callwire/internal/providers"
	"github.com/danmuck/callwire/internal/server"
	"github.com/danmuck/callwire/internal/transport"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// daemon owns the registry and the listeners of every enabled transport.
type daemon struct {
	cfg      config.DaemonConfig
	logger   zerolog.Logger
	registry *calls.Registry
	tcpLn    net.Listener
	httpLn   net.Listener
}

// newDaemon builds the registry and binds listeners so that address errors
// surface before anything is served.
func newDaemon(cfg config.DaemonConfig, logger zerolog.Logger) (*daemon, error) {
	reg, err := providers.BuildRegistry(cfg.Providers)
	if err != nil {
		return nil, err
	}
	d := &daemon{cfg: cfg, logger: logger, registry: reg}
	if cfg.TCP.Addr != "" {
		if d.tcpLn, err = net.Listen("tcp", cfg.TCP.Addr); err != nil {
			return nil, fmt.Errorf("tcp listen: %w", err)
		}
	}
	if cfg.HTTP.Addr != "" {
		if d.httpLn, err = net.Listen("tcp", cfg.HTTP.Addr); err != nil {
			d.closeListeners()
			return nil, fmt.Errorf("http listen: %w", err)
		}
	}
	logger.Info().
		Str("name", cfg.Name).
		Strs("providers", cfg.Providers).
		Int("functions", reg.Len()).
		Msg("registry ready")
	return d, nil
}

func (d *daemon) run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	if d.tcpLn != nil {
		srv := transport.NewTCPServer(d.registry, transport.TCPServerConfig{
			Limits:      frame.Limits{MaxPayloadBytes: d.cfg.TCP.MaxPayloadBytes},
			IdleTimeout: d.cfg.TCP.IdleTimeout,
		})
		ln := d.tcpLn
		g.Go(func() error { return srv.Serve(ctx, ln) })
	}

	if d.httpLn != nil {
		srv := server.New(d.registry, server.Config{
			Name:            d.cfg.Name,
			CorsOrigins:     d.cfg.HTTP.CorsOrigins,
			MaxPayloadBytes: int64(d.cfg.TCP.MaxPayloadBytes),
		})
		ln := d.httpLn
		g.Go(func() error { return srv.Serve(ctx, ln) })
	}

	if d.cfg.NATS.URL != "" {
		g.Go(func() error { return d.runNATS(ctx) })
	}

	err := g.Wait()
	d.logger.Info().Err(err).Msg("stopped")
	return err
}

func (d *daemon) runNATS(ctx context.Context) error {
	nc, err := transport.ConnectNATS(d.cfg.NATS.URL, d.cfg.Name)
	if err != nil {
		return err
	}
	defer nc.Close()

	responder := transport.NewNATSResponder(nc, d.registry, d.cfg.NATS.Subject, d.cfg.NATS.QueueGroup)
	if err := responder.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	return responder.Stop()
}

func (d *daemon) closeListeners() {
	if d.tcpLn != nil {
		_ = d.tcpLn.Close()
	}
	if d.httpLn != nil {
		_ = d.httpLn.Close()
	}
}
