// Package calls owns the function registry and the call/response envelopes.
//
// Ownership boundary:
// - callable descriptors and their registration
// - request dispatch (Invoke)
// - request construction (Make)
// - response decoding
//
// Encoding is type-inferred from argument values; decoding is directed by
// the registered signature. The two ends must agree on signatures out of
// band.
package calls
