package auth

import (
	"time"

	"github.com/brokkr-rpc/brokkr/internal/rpc"
)

// LoginType selects how the password field of the login request is derived.
type LoginType int

const (
	// LoginSHA1 transmits a nonce-salted SHA1 hash of the password.
	LoginSHA1 LoginType = iota
	// LoginPlain transmits the password verbatim.
	LoginPlain
)

// String returns the wire form of the login type.
func (t LoginType) String() string {
	switch t {
	case LoginPlain:
		return "PLAIN"
	default:
		return "SHA1"
	}
}

// LoginParams describes how to authenticate and how to present the session
// to the broker. Values are treated as immutable once constructed; the
// handshake derives copies instead of mutating.
type LoginParams struct {
	User     string
	Password string
	Type     LoginType

	// DeviceID and MountPoint identify the session to the broker; at most
	// one is transmitted, DeviceID taking priority.
	DeviceID   string
	MountPoint string

	// HeartbeatInterval, when set, asks the broker to enforce liveness with
	// an idle watchdog of three times this interval.
	HeartbeatInterval *time.Duration
}

// DefaultLoginParams returns SHA1 login with a one-minute heartbeat.
func DefaultLoginParams() LoginParams {
	hbi := time.Minute
	return LoginParams{
		Type:              LoginSHA1,
		HeartbeatInterval: &hbi,
	}
}

// WithPassword returns a copy of p with only the password replaced.
func (p LoginParams) WithPassword(password string) LoginParams {
	p.Password = password
	return p
}

// ToValue renders the params into the broker's generic value model. The
// projection is pure: identical params always render identically, and the
// options map only carries keys for data actually present.
func (p LoginParams) ToValue() rpc.Value {
	login := rpc.Map{
		"user":     rpc.String(p.User),
		"password": rpc.String(p.Password),
		"type":     rpc.String(p.Type.String()),
	}
	options := rpc.Map{}
	if p.HeartbeatInterval != nil {
		secs := int64(p.HeartbeatInterval.Seconds())
		options["idleWatchDogTimeOut"] = rpc.Int(secs * 3)
	}
	device := rpc.Map{}
	if p.DeviceID != "" {
		device["deviceId"] = rpc.String(p.DeviceID)
	} else if p.MountPoint != "" {
		device["mountPoint"] = rpc.String(p.MountPoint)
	}
	if len(device) > 0 {
		options["device"] = rpc.FromMap(device)
	}
	return rpc.FromMap(rpc.Map{
		"login":   rpc.FromMap(login),
		"options": rpc.FromMap(options),
	})
}
