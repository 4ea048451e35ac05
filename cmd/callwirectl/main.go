package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/danmuck/callwire/internal/calls"
	"github.com/danmuck/callwire/internal/logging"
	"github.com/danmuck/callwire/internal/protocol/bytequeue"
	"github.com/danmuck/callwire/internal/transport"
)

const usage = `usage: callwirectl [flags] <function> [type:value ...]

argument types: bool byte int8 int16 uint16 int32 uint32 int64 uint64 int
                float32 float64 string bytes(hex) list<T>(comma separated)

-result must name the function's result type; the default void only
decodes functions that return nothing. A mismatch exits with status 2.

examples:
  callwirectl -result int add int:2 int:3
  callwirectl -result list<string> kv.list string:
  callwirectl -transport nats -result bytes kv.get string:greeting
`

type options struct {
	transport string
	addr      string
	natsURL   string
	subject   string
	result    string
	timeout   time.Duration
}

func main() {
	logging.ConfigureRuntime()
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var opts options
	fs := flag.NewFlagSet("callwirectl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	fs.StringVar(&opts.transport, "transport", "tcp", "transport: tcp|nats")
	fs.StringVar(&opts.addr, "addr", "127.0.0.1:7070", "callwired tcp address")
	fs.StringVar(&opts.natsURL, "nats-url", "nats://127.0.0.1:4222", "NATS server url")
	fs.StringVar(&opts.subject, "subject", "callwire.invoke", "NATS request subject")
	fs.StringVar(&opts.result, "result", "void", "result type used to decode the response")
	fs.DurationVar(&opts.timeout, "timeout", 10*time.Second, "call timeout")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return 2
	}

	resultType, err := bytequeue.ParseType(opts.result)
	if err != nil {
		fmt.Fprintf(stderr, "callwirectl: -result: %v\n", err)
		return 2
	}
	callArgs := make([]any, 0, fs.NArg()-1)
	for _, literal := range fs.Args()[1:] {
		v, err := parseArg(literal)
		if err != nil {
			fmt.Fprintf(stderr, "callwirectl: %v\n", err)
			return 2
		}
		callArgs = append(callArgs, v)
	}
	req, err := calls.Make(fs.Arg(0), callArgs...)
	if err != nil {
		fmt.Fprintf(stderr, "callwirectl: %v\n", err)
		return 2
	}

	caller, closeFn, err := dial(opts)
	if err != nil {
		fmt.Fprintf(stderr, "callwirectl: %v\n", err)
		return 1
	}
	defer closeFn()

	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()
	resp, err := caller.Call(ctx, req)
	if err != nil {
		fmt.Fprintf(stderr, "callwirectl: %v\n", err)
		return 1
	}

	v, err := calls.DecodeResponse(resp, resultType)
	if err != nil {
		var remote *calls.RemoteError
		if errors.As(err, &remote) {
			fmt.Fprintf(stderr, "error: %s\n", remote.Message)
			return 3
		}
		if resultMismatch(resp, err) {
			fmt.Fprintf(stderr, "callwirectl: response does not decode as -result %s: %v\n", resultType, err)
			return 2
		}
		fmt.Fprintf(stderr, "callwirectl: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, formatResult(v))
	return 0
}

// resultMismatch reports whether a success envelope failed to decode as the
// requested result type, as opposed to a malformed envelope.
func resultMismatch(resp []byte, err error) bool {
	if len(resp) == 0 || resp[0] != 0 {
		return false
	}
	return errors.Is(err, calls.ErrTrailingResponse) || errors.Is(err, calls.ErrMalformedResponse)
}

func dial(opts options) (transport.Caller, func(), error) {
	switch opts.transport {
	case "tcp":
		cfg := transport.DefaultTCPClientConfig(opts.addr)
		cfg.MaxConns = 1
		cfg.MaxIdle = 1
		client, err := transport.NewTCPClient(cfg)
		if err != nil {
			return nil, nil, err
		}
		return client, client.Close, nil
	case "nats":
		nc, err := transport.ConnectNATS(opts.natsURL, "callwirectl")
		if err != nil {
			return nil, nil, err
		}
		return transport.NewNATSCaller(nc, opts.subject, opts.timeout), nc.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown transport %q", opts.transport)
	}
}
