package client

import "errors"

// Sentinels returned by GRPCClient in place of raw gRPC status errors.
var (
	ErrUnavailable      = errors.New("server unavailable")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrQuotaExhausted   = errors.New("quota exhausted")
	ErrRejected         = errors.New("request rejected")
	ErrPaymentsDisabled = errors.New("payments not configured on server")
)
