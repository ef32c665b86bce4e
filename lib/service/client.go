// Copyright 2026 The HelpMe Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/ubco-db/helpme-sub003/lib/codec"
)

// dialTimeout bounds the connect phase only; the server's own
// deadlines cover request handling.
const dialTimeout = 5 * time.Second

// responseReadTimeout is how long Call waits for the response after
// writing the request, covering the server's read timeout plus handler
// execution.
const responseReadTimeout = 45 * time.Second

// maxResponseSize caps a single CBOR response, matching the server's
// request cap.
const maxResponseSize = 1024 * 1024

// ServiceError is returned by Call when the server answers ok=false.
type ServiceError struct {
	Action  string
	Message string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("service error on %q: %s", e.Action, e.Message)
}

// ServiceClient talks to a queue service socket. Each Call opens a
// fresh connection, matching the server's one-request-per-connection
// model; Subscribe holds its connection open for the frame stream.
type ServiceClient struct {
	socketPath string
}

// NewServiceClient creates a client for the given socket path.
func NewServiceClient(socketPath string) *ServiceClient {
	return &ServiceClient{socketPath: socketPath}
}

// Call sends one request and decodes the response. The fields map
// carries action-specific request fields; "action" is injected, so the
// caller must not set it. Pass nil fields for actions without
// parameters.
//
// A server-side failure (ok=false) returns a *ServiceError with the
// server's message; transport and encoding failures return plain
// errors.
func (c *ServiceClient) Call(ctx context.Context, action string, fields map[string]any, result any) error {
	request := buildRequest(action, fields)

	response, err := c.send(ctx, request)
	if err != nil {
		return fmt.Errorf("calling %q on %s: %w", action, c.socketPath, err)
	}

	if !response.OK {
		return &ServiceError{Action: action, Message: response.Error}
	}

	if result != nil && len(response.Data) > 0 {
		if err := codec.Unmarshal(response.Data, result); err != nil {
			return fmt.Errorf("decoding response data for %q: %w", action, err)
		}
	}
	return nil
}

// Stream is an open stream-action connection. Decode reads the next
// frame; Close tears the connection down.
type Stream struct {
	conn    net.Conn
	decoder *codec.Decoder
}

// Decode reads the next CBOR frame into frame. Returns io.EOF when the
// server closes the stream.
func (s *Stream) Decode(frame any) error {
	return s.decoder.Decode(frame)
}

// Close closes the underlying connection. Safe to call concurrently
// with Decode; the pending Decode fails with a closed-network error.
func (s *Stream) Close() error {
	return s.conn.Close()
}

// Subscribe opens a stream action: it connects, writes the request,
// and returns the connection wrapped for frame decoding. The caller
// owns the stream and must Close it.
func (c *ServiceClient) Subscribe(ctx context.Context, action string, fields map[string]any) (*Stream, error) {
	dialer := net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", c.socketPath, err)
	}

	if err := codec.NewEncoder(conn).Encode(buildRequest(action, fields)); err != nil {
		conn.Close()
		return nil, fmt.Errorf("writing %q request: %w", action, err)
	}

	return &Stream{conn: conn, decoder: codec.NewDecoder(conn)}, nil
}

func buildRequest(action string, fields map[string]any) map[string]any {
	request := make(map[string]any, len(fields)+1)
	for key, value := range fields {
		request[key] = value
	}
	request["action"] = action
	return request
}

func (c *ServiceClient) send(ctx context.Context, request any) (*Response, error) {
	dialer := net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		return nil, fmt.Errorf("connecting: %w", err)
	}
	defer conn.Close()

	if err := codec.NewEncoder(conn).Encode(request); err != nil {
		return nil, fmt.Errorf("writing request: %w", err)
	}

	// Half-close the write side so the server's read sees clean EOF.
	if unixConn, ok := conn.(*net.UnixConn); ok {
		unixConn.CloseWrite()
	}

	conn.SetReadDeadline(time.Now().Add(responseReadTimeout))
	var response Response
	if err := codec.NewDecoder(io.LimitReader(conn, maxResponseSize)).Decode(&response); err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return &response, nil
}
