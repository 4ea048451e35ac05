package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/danmuck/callwire/internal/protocol/frame"
	"github.com/silenceper/pool"
)

var (
	ErrClientClosed  = errors.New("transport: client closed")
	ErrReplyMismatch = errors.New("transport: reply does not match call")
)

// TCPClientConfig configures the pooled TCP caller. IdleTimeout should stay
// below the server's idle timeout so the pool retires connections before
// the server drops them.
type TCPClientConfig struct {
	Addr         string
	Limits       frame.Limits
	DialTimeout  time.Duration
	CallTimeout  time.Duration
	InitialConns int
	MaxConns     int
	MaxIdle      int
	IdleTimeout  time.Duration
}

func DefaultTCPClientConfig(addr string) TCPClientConfig {
	return TCPClientConfig{
		Addr:         addr,
		Limits:       frame.DefaultLimits(),
		DialTimeout:  3 * time.Second,
		CallTimeout:  10 * time.Second,
		InitialConns: 1,
		MaxConns:     30,
		MaxIdle:      10,
		IdleTimeout:  15 * time.Second,
	}
}

// TCPClient sends call frames over pooled connections. It is safe for
// concurrent use; each call holds one connection for its round trip.
type TCPClient struct {
	cfg    TCPClientConfig
	pool   pool.Pool
	seq    atomic.Uint64
	closed atomic.Bool
}

func NewTCPClient(cfg TCPClientConfig) (*TCPClient, error) {
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, fmt.Errorf("transport: tcp addr required")
	}
	if cfg.Limits.MaxPayloadBytes == 0 {
		cfg.Limits = frame.DefaultLimits()
	}
	p, err := pool.NewChannelPool(&pool.Config{
		InitialCap: cfg.InitialConns,
		MaxCap:     cfg.MaxConns,
		MaxIdle:    cfg.MaxIdle,
		Factory: func() (interface{}, error) {
			return net.DialTimeout("tcp", addr, cfg.DialTimeout)
		},
		Close: func(v interface{}) error {
			return v.(net.Conn).Close()
		},
		Ping: func(v interface{}) error {
			return pingConn(v.(net.Conn))
		},
		IdleTimeout: cfg.IdleTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("transport: tcp pool %s: %w", addr, err)
	}
	return &TCPClient{cfg: cfg, pool: p}, nil
}

// Call sends request and waits for the matching reply. The returned bytes
// are the response envelope; an error means the round trip itself failed.
// A call that fails because the peer already closed the connection is
// retried once on another connection.
func (c *TCPClient) Call(ctx context.Context, request []byte) ([]byte, error) {
	resp, err := c.call(ctx, request)
	if err != nil && isStaleConn(err) && ctx.Err() == nil && !c.closed.Load() {
		return c.call(ctx, request)
	}
	return resp, err
}

func (c *TCPClient) call(ctx context.Context, request []byte) ([]byte, error) {
	if c.closed.Load() {
		return nil, ErrClientClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	v, err := c.pool.Get()
	if err != nil {
		return nil, err
	}
	conn := v.(net.Conn)

	resp, err := c.roundTrip(ctx, conn, request)
	if err != nil {
		_ = c.pool.Close(conn)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}
	_ = conn.SetDeadline(time.Time{})
	// Put closes the connection itself when the idle set is full.
	_ = c.pool.Put(conn)
	return resp, nil
}

func (c *TCPClient) roundTrip(ctx context.Context, conn net.Conn, request []byte) ([]byte, error) {
	deadline, ok := ctx.Deadline()
	if !ok && c.cfg.CallTimeout > 0 {
		deadline = time.Now().Add(c.cfg.CallTimeout)
	}
	_ = conn.SetDeadline(deadline)
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Now())
	})
	defer stop()

	id := c.seq.Add(1)
	if err := frame.WriteFrame(conn, frame.Call(id, request), c.cfg.Limits); err != nil {
		return nil, err
	}
	reply, err := frame.ReadFrame(conn, c.cfg.Limits)
	if err != nil {
		return nil, err
	}
	if reply.Header.MessageType != frame.MessageReply || reply.Header.MessageID != id {
		return nil, fmt.Errorf("%w: sent id=%d got %s id=%d", ErrReplyMismatch, id, reply.Header.MessageType, reply.Header.MessageID)
	}
	return reply.Payload, nil
}

// pingConn reports whether conn is still open. The server never writes
// unsolicited, so any byte or EOF within the probe window means the
// connection is unusable.
func pingConn(conn net.Conn) error {
	if err := conn.SetReadDeadline(time.Now().Add(time.Millisecond)); err != nil {
		return err
	}
	defer conn.SetReadDeadline(time.Time{})
	var b [1]byte
	n, err := conn.Read(b[:])
	if n > 0 {
		return fmt.Errorf("transport: unsolicited data on idle connection")
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return nil
	}
	if err == nil {
		err = io.ErrUnexpectedEOF
	}
	return err
}

func isStaleConn(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, net.ErrClosed)
}

// Idle returns the number of idle pooled connections.
func (c *TCPClient) Idle() int {
	return c.pool.Len()
}

func (c *TCPClient) Close() {
	if c.closed.CompareAndSwap(false, true) {
		c.pool.Release()
	}
}
