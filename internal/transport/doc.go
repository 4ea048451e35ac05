// Package transport carries call and response envelopes between
// processes. Envelopes are opaque here: the TCP transport wraps each one
// in a frame, the NATS transport sends it as a message body.
package transport
