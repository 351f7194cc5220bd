// Package bridge implements the JSON-RPC-shaped protocol between a webview
// and the host process (spec §4.3): request decode, response encode, the
// injected client-side shim, and per-webview sequence correlation between a
// frontend promise and the host's eventual response.
package bridge

// Request is the wire shape of a frontend invoke() call.
type Request struct {
	Seq  uint64         `json:"seq"`
	Cmd  string         `json:"cmd"`
	Args map[string]any `json:"args"`
}

// Response is the wire shape of the host's reply to a Request. Exactly one
// of Result/Error is set, matching spec §3's invocation-response shape.
type Response struct {
	Seq    uint64 `json:"seq"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// OK builds a successful Response.
func OK(seq uint64, result any) Response {
	return Response{Seq: seq, Result: result}
}

// Err builds a failed Response. message is expected to already be in
// "<kind>: <message>" form (see internal/errors.Error.Error).
func Err(seq uint64, message string) Response {
	return Response{Seq: seq, Error: message}
}

// EventMessage is the wire shape of a host-to-frontend event push.
type EventMessage struct {
	Name      string `json:"name"`
	Payload   any    `json:"payload"`
	Timestamp int64  `json:"timestamp"`
}
