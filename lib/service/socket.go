// Copyright 2026 The HelpMe Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/ubco-db/helpme-sub003/lib/codec"
)

// ActionFunc processes one request-response action. The raw parameter
// is the full CBOR request including the "action" field; the handler
// decodes its own fields from it.
//
// A non-nil result is marshaled into the response's "data" field; nil
// yields a bare {ok: true}. An error becomes {ok: false, error: ...}.
type ActionFunc func(ctx context.Context, raw []byte) (any, error)

// StreamFunc processes a stream action. After routing, the server
// hands over the connection; the handler writes CBOR frames until the
// client disconnects or ctx is cancelled. The handler must not close
// conn (the server does) and is responsible for its own error frames.
type StreamFunc func(ctx context.Context, raw []byte, conn net.Conn)

// Response is the wire envelope for every request-response action.
type Response struct {
	OK    bool             `cbor:"ok"`
	Error string           `cbor:"error,omitempty"`
	Data  codec.RawMessage `cbor:"data,omitempty"`
}

// SocketServer serves the CBOR protocol on a Unix socket. Register
// actions with Handle and HandleStream before calling Serve.
type SocketServer struct {
	socketPath string
	handlers   map[string]ActionFunc
	streams    map[string]StreamFunc
	logger     *slog.Logger

	// active tracks in-flight connections so Serve can drain them
	// before returning.
	active sync.WaitGroup
}

// NewSocketServer creates a server that will listen on socketPath.
func NewSocketServer(socketPath string, logger *slog.Logger) *SocketServer {
	return &SocketServer{
		socketPath: socketPath,
		handlers:   make(map[string]ActionFunc),
		streams:    make(map[string]StreamFunc),
		logger:     logger,
	}
}

// Handle registers a request-response action. Panics on duplicates.
func (s *SocketServer) Handle(action string, handler ActionFunc) {
	if s.registered(action) {
		panic(fmt.Sprintf("service.SocketServer: duplicate handler for action %q", action))
	}
	s.handlers[action] = handler
}

// HandleStream registers a stream action. Panics on duplicates.
func (s *SocketServer) HandleStream(action string, handler StreamFunc) {
	if s.registered(action) {
		panic(fmt.Sprintf("service.SocketServer: duplicate handler for action %q", action))
	}
	s.streams[action] = handler
}

func (s *SocketServer) registered(action string) bool {
	if _, ok := s.handlers[action]; ok {
		return true
	}
	_, ok := s.streams[action]
	return ok
}

// Serve accepts connections and dispatches to registered handlers.
// Blocks until ctx is cancelled, then stops accepting and waits for
// in-flight handlers (streams included) to finish.
//
// A stale socket file at the configured path is removed before
// listening, and the socket file is removed on return.
func (s *SocketServer) Serve(ctx context.Context) error {
	if err := os.Remove(s.socketPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing stale socket %s: %w", s.socketPath, err)
	}

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.socketPath, err)
	}
	defer func() {
		listener.Close()
		os.Remove(s.socketPath)
	}()

	// Unblock Accept on cancellation.
	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	s.logger.Info("socket server listening", "path", s.socketPath)

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				break
			}
			s.logger.Error("accept failed", "error", err)
			continue
		}

		s.active.Add(1)
		go func() {
			defer s.active.Done()
			s.handleConnection(ctx, conn)
		}()
	}

	s.active.Wait()
	return nil
}

// readTimeout bounds the wait for the client's request. A well-behaved
// client writes it immediately after connecting.
const readTimeout = 30 * time.Second

// writeTimeout bounds each response write.
const writeTimeout = 10 * time.Second

// maxRequestSize caps a single CBOR request. Generous for any queue
// operation; even a full queue configuration is a few kilobytes.
const maxRequestSize = 1024 * 1024

func (s *SocketServer) handleConnection(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(readTimeout))

	// CBOR is self-delimiting; one Decode reads exactly one request.
	// LimitReader keeps a misbehaving client from exhausting memory.
	var raw codec.RawMessage
	if err := codec.NewDecoder(io.LimitReader(conn, maxRequestSize)).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return
		}
		s.writeError(conn, fmt.Sprintf("invalid request: %v", err))
		return
	}

	var header struct {
		Action string `cbor:"action"`
	}
	if err := codec.Unmarshal(raw, &header); err != nil {
		s.writeError(conn, fmt.Sprintf("invalid request: %v", err))
		return
	}
	if header.Action == "" {
		s.writeError(conn, "missing required field: action")
		return
	}

	if stream, ok := s.streams[header.Action]; ok {
		// Streams outlive the request read deadline.
		conn.SetReadDeadline(time.Time{})
		stream(ctx, []byte(raw), conn)
		return
	}

	handler, ok := s.handlers[header.Action]
	if !ok {
		s.writeError(conn, fmt.Sprintf("unknown action %q", header.Action))
		return
	}

	result, err := handler(ctx, []byte(raw))
	if err != nil {
		s.logger.Debug("action failed", "action", header.Action, "error", err)
		s.writeError(conn, err.Error())
		return
	}
	s.writeSuccess(conn, result)
}

func (s *SocketServer) writeError(conn net.Conn, message string) {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := codec.NewEncoder(conn).Encode(Response{OK: false, Error: message}); err != nil {
		s.logger.Debug("failed to write error response", "error", err)
	}
}

func (s *SocketServer) writeSuccess(conn net.Conn, result any) {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))

	response := Response{OK: true}
	if result != nil {
		data, err := codec.Marshal(result)
		if err != nil {
			s.writeError(conn, fmt.Sprintf("internal: marshaling response: %v", err))
			return
		}
		response.Data = data
	}

	if err := codec.NewEncoder(conn).Encode(response); err != nil {
		s.logger.Debug("failed to write success response", "error", err)
	}
}
