package cdp

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestBootstrap_ResolvesHTTPVersionEndpoint(t *testing.T) {
	upgrader := websocket.Upgrader{}
	var wsPath string
	mux := http.NewServeMux()

	srv := httptest.NewServer(mux)
	defer srv.Close()

	wsPath = "/devtools/browser/fake"
	mux.HandleFunc("/json/version", func(w http.ResponseWriter, r *http.Request) {
		wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + wsPath
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"webSocketDebuggerUrl":"` + wsURL + `"}`))
	})
	mux.HandleFunc(wsPath, func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		conn.ReadMessage()
	})

	b := NewBootstrap(nil, NewRegistry(), nil)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, err := b.Connect(ctx, srv.URL)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer conn.Close(1000, "test done")
}

func TestBootstrap_RetriesOnConnectionRefused(t *testing.T) {
	// Bind a port, close it immediately so dialing it refuses, then
	// listen again on the same port shortly after — exercising the
	// fixed-count retry loop the way a browser racing its own startup
	// would.
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := l.Addr().String()
	l.Close()

	upgrader := websocket.Upgrader{}
	go func() {
		time.Sleep(2 * DialRetryDelay)
		srv := &http.Server{Addr: addr, Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			conn, err := upgrader.Upgrade(w, r, nil)
			if err != nil {
				return
			}
			defer conn.Close()
			conn.ReadMessage()
		})}
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			return
		}
		srv.Serve(ln)
	}()

	b := NewBootstrap(nil, NewRegistry(), nil)
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(DialRetries)*DialRetryDelay+5*time.Second)
	defer cancel()

	conn, err := b.Connect(ctx, "ws://"+addr)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer conn.Close(1000, "test done")
}
