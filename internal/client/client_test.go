package client

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/brokkr-rpc/brokkr/internal/auth"
	"github.com/brokkr-rpc/brokkr/internal/rpc"
)

func TestConnectOverTCP(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		conn, err := ln.Accept()
		if err != nil {
			t.Errorf("accept: %v", err)
			return
		}
		defer conn.Close()
		b := newFakeBroker(t, conn)
		hello := b.expectRequest("hello")
		if hello == nil {
			return
		}
		b.respondResult(hello.ID, rpc.Map{"nonce": rpc.String("abc123")})
		login := b.expectRequest("login")
		if login == nil {
			return
		}
		b.respondResult(login.ID, rpc.Map{"clientId": rpc.Int(7)})
	}()

	params := auth.LoginParams{User: "alice", Password: "secret"}
	c, err := Connect(context.Background(), "tcp://"+ln.Addr().String(), params)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer c.Close()

	if c.ClientID() != 7 {
		t.Fatalf("expected client id 7, got %d", c.ClientID())
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("fake broker did not finish")
	}
}

func TestConnectKeepAlivePings(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	pings := make(chan *rpc.Message, 4)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		b := newFakeBroker(t, conn)
		hello := b.expectRequest("hello")
		if hello == nil {
			return
		}
		b.respondResult(hello.ID, rpc.Map{"nonce": rpc.String("n")})
		login := b.expectRequest("login")
		if login == nil {
			return
		}
		b.respondResult(login.ID, rpc.Map{})
		for {
			msg, err := b.reader.Receive()
			if err != nil || msg == nil {
				return
			}
			select {
			case pings <- msg:
			default:
			}
		}
	}()

	hbi := 20 * time.Millisecond
	params := auth.LoginParams{User: "u", Password: "p", HeartbeatInterval: &hbi}
	c, err := Connect(context.Background(), "tcp://"+ln.Addr().String(), params)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer c.Close()

	select {
	case msg := <-pings:
		if msg.Method != "ping" {
			t.Fatalf("expected ping request, got %q", msg.Method)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no keep-alive ping observed")
	}
}

func TestConnectClosesOnLoginFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		b := newFakeBroker(t, conn)
		hello := b.expectRequest("hello")
		if hello == nil {
			return
		}
		b.respondError(hello.ID, 8, "nope")
	}()

	if _, err := Connect(context.Background(), "tcp://"+ln.Addr().String(), auth.LoginParams{}); err == nil {
		t.Fatal("expected connect to fail")
	}
}

func TestClientCloseIsIdempotent(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		b := newFakeBroker(t, conn)
		hello := b.expectRequest("hello")
		if hello == nil {
			return
		}
		b.respondResult(hello.ID, rpc.Map{"nonce": rpc.String("n")})
		login := b.expectRequest("login")
		if login == nil {
			return
		}
		b.respondResult(login.ID, rpc.Map{})
	}()

	c, err := Connect(context.Background(), "tcp://"+ln.Addr().String(), auth.LoginParams{})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	first := c.Close()
	second := c.Close()
	if first != second {
		t.Fatalf("close not idempotent: %v vs %v", first, second)
	}
}
