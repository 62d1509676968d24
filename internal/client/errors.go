package client

import (
	"errors"
	"fmt"
)

// Failure kinds of the login handshake. Every error returned by Login wraps
// exactly one of these, so callers can classify with errors.Is.
var (
	// ErrTransport covers send/receive failures and a peer that closed the
	// stream where a response was mandatory.
	ErrTransport = errors.New("transport failure")
	// ErrProtocol covers structurally invalid success responses, such as a
	// missing nonce.
	ErrProtocol = errors.New("protocol violation")
	// ErrAuthRejected covers an explicit failure response from the broker.
	ErrAuthRejected = errors.New("authentication rejected")
)

func transportErr(format string, args ...any) error {
	return fmt.Errorf("client: %w: %s", ErrTransport, fmt.Sprintf(format, args...))
}

func protocolErr(format string, args ...any) error {
	return fmt.Errorf("client: %w: %s", ErrProtocol, fmt.Sprintf(format, args...))
}

func authErr(diagnostic string) error {
	return fmt.Errorf("client: %w: %s", ErrAuthRejected, diagnostic)
}
