package singleinstance

import (
	"net"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/krema-build/krema/internal/errors"
	"github.com/krema-build/krema/internal/logger"
)

// upgrader mirrors the teacher's websocket_enterprise.go Upgrader: a
// loopback-only relay never needs the buffer sizes or CORS concerns a
// browser-facing endpoint does, but CheckOrigin still defaults closed to
// anything unexpected since the listener is still a real TCP socket
// another local process could in principle probe.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// relayServer accepts one-shot relay connections from later launches on a
// loopback port the OS assigns, and hands each connection's argv frame to
// onSecondInstance.
type relayServer struct {
	listener net.Listener
	srv      *http.Server
}

func startRelayServer(onSecondInstance SecondInstanceFunc) (*relayServer, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, errors.Wrap(errors.IO, "bind single-instance relay listener", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/relay", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		_, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}
		frame, err := decodeRelayFrame(payload)
		if err != nil {
			logger.Named("singleinstance").Warn().Err(err).Msg("malformed relay frame")
			return
		}
		if onSecondInstance != nil {
			onSecondInstance(frame.Args)
		}
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"ok":true}`))
	})

	srv := &http.Server{Handler: mux}
	go func() {
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Named("singleinstance").Error().Err(err).Msg("relay server stopped")
		}
	}()

	return &relayServer{listener: listener, srv: srv}, nil
}

func (s *relayServer) addr() string {
	return "ws://" + s.listener.Addr().String() + "/relay"
}

func (s *relayServer) stop() {
	_ = s.srv.Close()
}
