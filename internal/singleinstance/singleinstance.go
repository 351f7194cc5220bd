// Package singleinstance implements process-uniqueness and deep-link
// ingress (spec §4.10): a process-wide lock (flock-based file lock on
// macOS/Linux, a named mutex on Windows) decides which launch becomes the
// primary; every later launch relays its argv to the primary over a
// loopback WebSocket and exits. The relay sends one JSON text frame
// ({"args": [...]}, see relayFrame) over github.com/gorilla/websocket,
// the same library the teacher uses
// for its agent/hub connections (agents/k8s-agent/connection.go,
// api/internal/websocket/hub.go), rather than a bare TCP socket.
package singleinstance

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/gorilla/websocket"
	"github.com/krema-build/krema/internal/errors"
	"github.com/krema-build/krema/internal/logger"
)

// relayFrame is the sole message shape exchanged over the loopback
// connection: a second launch's argv, relayed to the primary.
type relayFrame struct {
	Args []string `json:"args"`
}

// SecondInstanceFunc is invoked on the primary instance whenever a later
// launch relays its argv. It runs on its own goroutine per connection.
type SecondInstanceFunc func(args []string)

// Instance reports which role the current process won and, if primary,
// owns the lock and the loopback relay listener for the process lifetime.
type Instance struct {
	primary bool
	lock    *lockFile
	server  *relayServer
}

// IsPrimary reports whether this process acquired the lock and should
// proceed to bootstrap the application. A false return means argv was
// already relayed to a running primary and this process should exit.
func (i *Instance) IsPrimary() bool { return i.primary }

// Release drops the lock and stops the relay listener. Call during
// shutdown of the primary instance; a no-op on the secondary.
func (i *Instance) Release() {
	if i == nil {
		return
	}
	if i.server != nil {
		i.server.stop()
	}
	if i.lock != nil {
		i.lock.release()
	}
}

// Acquire decides single-instance ownership for appID (the manifest's
// package.identifier) and either becomes the primary (starting the
// loopback relay listener and returning with IsPrimary()==true) or relays
// args to the existing primary and returns with IsPrimary()==false. args
// is this launch's own argv; it is only ever relayed when this call turns
// out to be the secondary. onSecondInstance is invoked on the primary's
// side once per later launch that relays to it.
func Acquire(appID string, args []string, onSecondInstance SecondInstanceFunc) (*Instance, error) {
	dir, err := stateDir(appID)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrap(errors.IO, "create single-instance state dir", err)
	}

	lockPath := filepath.Join(dir, "instance.lock")
	addrPath := filepath.Join(dir, "instance.addr")

	lock, acquired, err := acquireLock(lockPath)
	if err != nil {
		return nil, err
	}

	if acquired {
		server, err := startRelayServer(onSecondInstance)
		if err != nil {
			lock.release()
			return nil, err
		}
		if err := os.WriteFile(addrPath, []byte(server.addr()), 0o600); err != nil {
			server.stop()
			lock.release()
			return nil, errors.Wrap(errors.IO, "write single-instance address file", err)
		}
		return &Instance{primary: true, lock: lock, server: server}, nil
	}

	addr, err := os.ReadFile(addrPath)
	if err != nil {
		// The lock is held but the address file hasn't been written yet
		// (a primary mid-startup) or was removed by a crashed primary.
		// Either way we can't relay; the caller proceeds as primary-less
		// secondary and simply exits without side effects.
		return nil, errors.Wrap(errors.IO, "read single-instance address file", err)
	}
	if err := relayArgs(string(addr), args); err != nil {
		logger.Named("singleinstance").Warn().Err(err).Msg("relay to primary instance failed")
		return nil, err
	}
	return &Instance{primary: false}, nil
}

func stateDir(appID string) (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "krema", appID, "singleinstance"), nil
}

func decodeRelayFrame(payload []byte) (relayFrame, error) {
	var frame relayFrame
	if err := json.Unmarshal(payload, &frame); err != nil {
		return relayFrame{}, errors.Wrap(errors.SerializationError, "decode relay frame", err)
	}
	return frame, nil
}

func relayArgs(addr string, args []string) error {
	conn, _, err := websocket.DefaultDialer.Dial(addr, nil)
	if err != nil {
		return errors.Wrap(errors.TransientSystem, "dial primary instance relay", err)
	}
	defer conn.Close()

	payload, err := json.Marshal(relayFrame{Args: args})
	if err != nil {
		return errors.Wrap(errors.SerializationError, "encode relay frame", err)
	}
	_ = conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return errors.Wrap(errors.TransientSystem, "send relay frame", err)
	}
	// Best-effort ack read so the write above is flushed before we close;
	// the primary doesn't need to reply with anything meaningful.
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, _ = conn.ReadMessage()
	return nil
}
