package backend

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
)

// Remote sends one request per call to a simulator service over a
// websocket and waits for its single response.
type Remote struct {
	URL     string
	Timeout time.Duration
	// Dialer defaults to websocket.DefaultDialer.
	Dialer *websocket.Dialer
}

type remoteRequest struct {
	IR         json.RawMessage `json:"ir"`
	Shots      int             `json:"shots"`
	QubitCount int             `json:"qubit_count"`
}

// Simulate implements Simulator.
func (r *Remote) Simulate(ctx context.Context, serializedIR string, shots, qubitCount int) (Histogram, error) {
	if err := CheckLimits(shots, qubitCount); err != nil {
		return nil, &BoundaryError{Backend: "remote", Message: "rejected request", Err: err}
	}
	if !json.Valid([]byte(serializedIR)) {
		return nil, &BoundaryError{Backend: "remote", Message: "circuit is not valid JSON"}
	}

	ctx, cancel := withTimeout(ctx, r.Timeout)
	defer cancel()

	dialer := r.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	conn, _, err := dialer.DialContext(ctx, r.URL, nil)
	if err != nil {
		return nil, &BoundaryError{Backend: "remote", Message: "connecting to " + r.URL, Err: err}
	}
	defer conn.Close()

	// Unblock reads and writes when the context ends.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()
	if deadline, ok := ctx.Deadline(); ok {
		conn.SetWriteDeadline(deadline)
		conn.SetReadDeadline(deadline)
	}

	req := remoteRequest{IR: json.RawMessage(serializedIR), Shots: shots, QubitCount: qubitCount}
	if err := conn.WriteJSON(req); err != nil {
		return nil, r.ioError(ctx, "sending circuit", err)
	}

	var res result
	if err := conn.ReadJSON(&res); err != nil {
		return nil, r.ioError(ctx, "reading result", err)
	}
	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))

	if res.Error != "" {
		return nil, &BoundaryError{Backend: "remote", Message: res.Error}
	}
	if res.Counts == nil {
		res.Counts = Histogram{}
	}
	return res.Counts, nil
}

func (r *Remote) ioError(ctx context.Context, msg string, err error) error {
	if ctx.Err() != nil {
		err = ctx.Err()
	}
	return &BoundaryError{Backend: "remote", Message: msg, Err: err}
}
