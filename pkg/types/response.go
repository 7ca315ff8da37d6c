// Package types holds the wire envelopes shared by every checkout
// endpoint. Success bodies nest under "data"; failures nest a typed
// error under "error".
package types

type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError mirrors the public fields of a pkg/errors Error: a stable
// machine code, a shopper-safe message, and optional field details.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
