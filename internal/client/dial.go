package client

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
)

const websocketHandshakeTimeout = 10 * time.Second

// Dial opens a byte stream to the broker named by rawURL. Supported schemes:
// tcp://host:port, unix:///path (local socket), and ws://, wss://.
func Dial(ctx context.Context, rawURL string) (io.ReadWriteCloser, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("client: parse broker url: %w", err)
	}

	var dialer net.Dialer
	switch u.Scheme {
	case "tcp":
		conn, err := dialer.DialContext(ctx, "tcp", u.Host)
		if err != nil {
			return nil, fmt.Errorf("client: dial %s: %w", u.Host, err)
		}
		return conn, nil
	case "unix", "localsocket":
		path := u.Path
		if path == "" {
			path = u.Opaque
		}
		conn, err := dialer.DialContext(ctx, "unix", path)
		if err != nil {
			return nil, fmt.Errorf("client: dial socket %s: %w", path, err)
		}
		return conn, nil
	case "ws", "wss":
		wsDialer := &websocket.Dialer{
			Proxy:            websocket.DefaultDialer.Proxy,
			HandshakeTimeout: websocketHandshakeTimeout,
		}
		conn, _, err := wsDialer.DialContext(ctx, u.String(), nil)
		if err != nil {
			return nil, fmt.Errorf("client: dial %s: %w", u.String(), err)
		}
		return newWSStream(conn), nil
	default:
		return nil, fmt.Errorf("client: unsupported broker url scheme %q", u.Scheme)
	}
}

// wsStream presents a websocket connection as a plain byte stream so the
// frame layer can run over it unchanged. Each Write becomes one binary
// message; Read drains messages in order.
type wsStream struct {
	conn    *websocket.Conn
	current io.Reader
}

func newWSStream(conn *websocket.Conn) *wsStream {
	return &wsStream{conn: conn}
}

func (s *wsStream) Read(p []byte) (int, error) {
	for {
		if s.current == nil {
			_, r, err := s.conn.NextReader()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					return 0, io.EOF
				}
				return 0, err
			}
			s.current = r
		}
		n, err := s.current.Read(p)
		if err == io.EOF {
			s.current = nil
			if n == 0 {
				continue
			}
			err = nil
		}
		return n, err
	}
}

func (s *wsStream) Write(p []byte) (int, error) {
	if err := s.conn.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (s *wsStream) Close() error {
	deadline := time.Now().Add(3 * time.Second)
	_ = s.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
	return s.conn.Close()
}
