// Copyright 2026 The HelpMe Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/ubco-db/helpme-sub003/lib/service"
)

const defaultSocketPath = "/run/helpme/queue.sock"

// connection carries the flags every command needs to reach the queue
// service and identify the caller.
type connection struct {
	Socket string
	Queue  string
	User   string
	Role   string
	JSON   bool
}

// addFlags registers the shared flags. The socket default honors the
// HELPME_SOCKET environment variable so scripts can point a whole
// session at one daemon.
func (c *connection) addFlags(fs *pflag.FlagSet) {
	socket := os.Getenv("HELPME_SOCKET")
	if socket == "" {
		socket = defaultSocketPath
	}
	fs.StringVar(&c.Socket, "socket", socket, "queue service socket path")
	fs.StringVarP(&c.Queue, "queue", "q", "", "queue name")
	fs.StringVar(&c.User, "as", "", "acting user id")
	fs.StringVar(&c.Role, "role", "student", "acting role (student or staff)")
	fs.BoolVar(&c.JSON, "json", false, "emit raw JSON instead of formatted output")
}

func (c *connection) client() *service.ServiceClient {
	return service.NewServiceClient(c.Socket)
}

func (c *connection) requireQueue() error {
	if c.Queue == "" {
		return fmt.Errorf("--queue is required")
	}
	return nil
}

func (c *connection) requireUser() error {
	if c.User == "" {
		return fmt.Errorf("--as is required")
	}
	return nil
}

// emitJSON writes v as indented JSON when --json was given. The bool
// reports whether output was handled.
func (c *connection) emitJSON(v any) (bool, error) {
	if !c.JSON {
		return false, nil
	}
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return true, encoder.Encode(v)
}

// callContext bounds one request-response exchange.
func callContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}
