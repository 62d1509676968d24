package client

import (
	"context"
	"unicode/utf8"

	"github.com/brokkr-rpc/brokkr/internal/auth"
	"github.com/brokkr-rpc/brokkr/internal/frame"
	"github.com/brokkr-rpc/brokkr/internal/rpc"
)

// Login runs the two-round authentication handshake against a live frame
// reader/writer pair and returns the client id assigned by the broker.
//
// The exchange is strictly sequential: a parameterless "hello" request yields
// a nonce, the nonce salts the password hash, and a "login" request carrying
// the rendered params yields the client id. A successful login response
// without a clientId field is valid and maps to id 0. The caller owns the
// reader/writer pair exclusively for the duration of the call; Login never
// retries and sends exactly two requests.
//
// ctx is consulted between the blocking steps. A read on the underlying
// stream is not interruptible here; callers wanting bounded latency should
// arrange a deadline on the transport itself.
func Login(ctx context.Context, r *frame.Reader, w *frame.Writer, params auth.LoginParams) (int32, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	hello := rpc.NewRequest("", "hello", nil)
	if err := w.Send(hello); err != nil {
		return 0, transportErr("send hello: %v", err)
	}

	resp, err := r.Receive()
	if err != nil {
		return 0, transportErr("receive hello response: %v", err)
	}
	if resp == nil {
		// Stream closed before the hello response. The original protocol
		// treats this as an empty response, which then fails on the missing
		// nonce below rather than as a distinct closed-stream case.
		resp = &rpc.Message{}
	}
	if !resp.IsSuccess() {
		return 0, authErr(resp.Error.Compact())
	}
	nonce, ok := resp.ResultValue().Get("nonce")
	if !ok {
		return 0, protocolErr("bad nonce")
	}

	hash := auth.Sha1Hash([]byte(params.Password), []byte(nonce.AsString()))
	if !utf8.Valid(hash) {
		return 0, protocolErr("password hash is not valid UTF-8")
	}
	hashed := params.WithPassword(string(hash))

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	rendered := hashed.ToValue()
	login := rpc.NewRequest("", "login", &rendered)
	if err := w.Send(login); err != nil {
		return 0, transportErr("send login: %v", err)
	}

	resp, err = r.Receive()
	if err != nil {
		return 0, transportErr("receive login response: %v", err)
	}
	if resp == nil {
		return 0, transportErr("socket closed")
	}
	if !resp.IsSuccess() {
		return 0, authErr(resp.Error.Compact())
	}
	clientID, ok := resp.ResultValue().Get("clientId")
	if !ok {
		return 0, nil
	}
	return clientID.AsInt32(), nil
}
