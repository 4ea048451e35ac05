package transport

import (
	"context"
	"fmt"
	"strings"
	"time"

	comms "github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ConnectNATS opens a NATS connection with reconnect logging.
func ConnectNATS(url, name string) (*comms.Conn, error) {
	logger := log.Logger.With().Str("component", "transport.nats").Logger()
	nc, err := comms.Connect(url,
		comms.Name(name),
		comms.Timeout(10*time.Second),
		comms.ReconnectWait(2*time.Second),
		comms.MaxReconnects(60),
		comms.DisconnectErrHandler(func(_ *comms.Conn, err error) {
			logger.Warn().Err(err).Msg("disconnected")
		}),
		comms.ReconnectHandler(func(nc *comms.Conn) {
			logger.Info().Str("url", nc.ConnectedUrl()).Msg("reconnected")
		}),
		comms.ClosedHandler(func(*comms.Conn) {
			logger.Info().Msg("connection closed")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("transport: nats connect %s: %w", url, err)
	}
	logger.Info().Str("url", nc.ConnectedUrl()).Msg("connected")
	return nc, nil
}

// NATSResponder answers request messages on one subject with Invoke
// responses. Responders sharing a queue group split the load.
type NATSResponder struct {
	nc      *comms.Conn
	inv     Invoker
	subject string
	queue   string
	logger  zerolog.Logger
	sub     *comms.Subscription
}

func NewNATSResponder(nc *comms.Conn, inv Invoker, subject, queue string) *NATSResponder {
	return &NATSResponder{
		nc:      nc,
		inv:     inv,
		subject: strings.TrimSpace(subject),
		queue:   strings.TrimSpace(queue),
		logger:  log.Logger.With().Str("component", "transport.nats").Logger(),
	}
}

func (r *NATSResponder) Start() error {
	if r.subject == "" {
		return fmt.Errorf("transport: nats subject required")
	}
	handler := func(msg *comms.Msg) {
		if msg.Reply == "" {
			r.logger.Warn().Str("subject", msg.Subject).Msg("dropping call without reply subject")
			return
		}
		resp, _ := Dispatch(r.logger, "nats", r.inv, msg.Data)
		if err := msg.Respond(resp); err != nil {
			r.logger.Warn().Err(err).Msg("respond")
		}
	}
	var (
		sub *comms.Subscription
		err error
	)
	if r.queue != "" {
		sub, err = r.nc.QueueSubscribe(r.subject, r.queue, handler)
	} else {
		sub, err = r.nc.Subscribe(r.subject, handler)
	}
	if err != nil {
		return fmt.Errorf("transport: nats subscribe %s: %w", r.subject, err)
	}
	if err := r.nc.Flush(); err != nil {
		_ = sub.Unsubscribe()
		return fmt.Errorf("transport: nats flush: %w", err)
	}
	r.sub = sub
	r.logger.Info().Str("subject", r.subject).Str("queue", r.queue).Msg("subscribed")
	return nil
}

// Stop drains the subscription so in-flight calls still get a response.
func (r *NATSResponder) Stop() error {
	if r.sub == nil {
		return nil
	}
	err := r.sub.Drain()
	r.sub = nil
	return err
}

// NATSCaller sends call envelopes as NATS requests.
type NATSCaller struct {
	nc      *comms.Conn
	subject string
	timeout time.Duration
}

// NewNATSCaller returns a caller; timeout applies when the call context has
// no deadline.
func NewNATSCaller(nc *comms.Conn, subject string, timeout time.Duration) *NATSCaller {
	return &NATSCaller{nc: nc, subject: strings.TrimSpace(subject), timeout: timeout}
}

func (c *NATSCaller) Call(ctx context.Context, request []byte) ([]byte, error) {
	if _, ok := ctx.Deadline(); !ok && c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	msg, err := c.nc.RequestWithContext(ctx, c.subject, request)
	if err != nil {
		return nil, fmt.Errorf("transport: nats request %s: %w", c.subject, err)
	}
	return msg.Data, nil
}
