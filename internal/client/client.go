package client

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/brokkr-rpc/brokkr/internal/auth"
	"github.com/brokkr-rpc/brokkr/internal/frame"
	"github.com/brokkr-rpc/brokkr/internal/rpc"
)

// Client is an authenticated broker connection.
type Client struct {
	stream io.ReadWriteCloser
	reader *frame.Reader
	writer *frame.Writer

	clientID int32

	sendMu sync.Mutex

	closeOnce     sync.Once
	closeErr      error
	stopKeepAlive context.CancelFunc
}

// Connect dials the broker at rawURL, runs the login handshake and returns a
// ready client. When params carries a heartbeat interval, a keep-alive loop
// pings the broker at that interval until Close.
func Connect(ctx context.Context, rawURL string, params auth.LoginParams) (*Client, error) {
	stream, err := Dial(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	c := &Client{
		stream: stream,
		reader: frame.NewReader(stream),
		writer: frame.NewWriter(stream),
	}

	id, err := Login(ctx, c.reader, c.writer, params)
	if err != nil {
		_ = stream.Close()
		return nil, err
	}
	c.clientID = id

	if params.HeartbeatInterval != nil && *params.HeartbeatInterval > 0 {
		c.startKeepAlive(*params.HeartbeatInterval)
	}

	return c, nil
}

// ClientID returns the session identifier assigned by the broker; 0 when the
// broker accepted the session without assigning one.
func (c *Client) ClientID() int32 {
	return c.clientID
}

// Reader exposes the frame reader for callers dispatching further RPCs.
func (c *Client) Reader() *frame.Reader {
	return c.reader
}

// Send transmits a single request frame. Safe for concurrent use.
func (c *Client) Send(msg *rpc.Message) error {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	return c.writer.Send(msg)
}

// Close stops the keep-alive loop and closes the transport. Safe to call
// more than once.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		if c.stopKeepAlive != nil {
			c.stopKeepAlive()
		}
		c.closeErr = c.stream.Close()
	})
	return c.closeErr
}

func (c *Client) startKeepAlive(interval time.Duration) {
	ctx, cancel := context.WithCancel(context.Background())
	c.stopKeepAlive = cancel
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := c.Send(rpc.NewRequest("", "ping", nil)); err != nil {
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}
