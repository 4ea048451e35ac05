package transport

import (
	"context"
	"errors"
	"io"
	"net"
	"sync/atomic"
	"time"

	"github.com/danmuck/callwire/internal/protocol/frame"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// TCPServerConfig configures the framed TCP listener.
type TCPServerConfig struct {
	Limits      frame.Limits
	IdleTimeout time.Duration
}

func DefaultTCPServerConfig() TCPServerConfig {
	return TCPServerConfig{
		Limits:      frame.DefaultLimits(),
		IdleTimeout: 30 * time.Second,
	}
}

// TCPServer answers call frames with reply frames, one goroutine per
// connection. Calls on one connection are handled in order.
type TCPServer struct {
	cfg     TCPServerConfig
	inv     Invoker
	logger  zerolog.Logger
	clients atomic.Int64
}

func NewTCPServer(inv Invoker, cfg TCPServerConfig) *TCPServer {
	if cfg.Limits.MaxPayloadBytes == 0 {
		cfg.Limits = frame.DefaultLimits()
	}
	return &TCPServer{
		cfg:    cfg,
		inv:    inv,
		logger: log.Logger.With().Str("component", "transport.tcp").Logger(),
	}
}

// Serve accepts connections on ln until ctx is done. It closes ln.
func (s *TCPServer) Serve(ctx context.Context, ln net.Listener) error {
	defer ln.Close()
	s.logger.Info().Str("addr", ln.Addr().String()).Msg("listening")

	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		go s.handleConn(ctx, conn)
	}
}

// ActiveClients returns the number of open connections.
func (s *TCPServer) ActiveClients() int64 {
	return s.clients.Load()
}

func (s *TCPServer) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	remote := conn.RemoteAddr().String()
	active := s.clients.Add(1)
	s.logger.Debug().Str("remote", remote).Int64("active_clients", active).Msg("client connected")
	defer func() {
		remaining := s.clients.Add(-1)
		s.logger.Debug().Str("remote", remote).Int64("active_clients", remaining).Msg("client disconnected")
	}()

	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Now())
	})
	defer stop()

	for {
		if s.cfg.IdleTimeout > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(s.cfg.IdleTimeout))
		}
		in, err := frame.ReadFrame(conn, s.cfg.Limits)
		if err != nil {
			var netErr net.Error
			switch {
			case errors.Is(err, io.EOF) || ctx.Err() != nil:
			case errors.As(err, &netErr) && netErr.Timeout():
				s.logger.Debug().Str("remote", remote).Msg("idle timeout")
			default:
				s.logger.Warn().Str("remote", remote).Err(err).Msg("read frame")
			}
			return
		}
		if in.Header.MessageType != frame.MessageCall {
			s.logger.Warn().
				Str("remote", remote).
				Stringer("message_type", in.Header.MessageType).
				Msg("unexpected message type")
			return
		}

		resp, callErr := Dispatch(s.logger, "tcp", s.inv, in.Payload)
		out := frame.Reply(in.Header.MessageID, resp, callErr != nil)
		if err := frame.WriteFrame(conn, out, s.cfg.Limits); err != nil {
			s.logger.Warn().Str("remote", remote).Err(err).Msg("write frame")
			return
		}
	}
}
