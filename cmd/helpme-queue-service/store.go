// Copyright 2026 The HelpMe Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/ubco-db/helpme-sub003/lib/codec"
	"github.com/ubco-db/helpme-sub003/lib/schema"
	"github.com/ubco-db/helpme-sub003/lib/schema/ticket"
	"github.com/ubco-db/helpme-sub003/lib/sqlitepool"
)

// Store is the SQLite journal. Every mutation writes through here
// before the in-memory index changes, so a restart replays to the
// same state. Ticket and config bodies are canonical CBOR blobs;
// progress rows are relational because staff dashboards query them
// directly.
type Store struct {
	pool *sqlitepool.Pool
}

const storeSchema = `
	CREATE TABLE IF NOT EXISTS queue_config (
		queue TEXT PRIMARY KEY,
		body  BLOB NOT NULL
	);
	CREATE TABLE IF NOT EXISTS tickets (
		queue TEXT NOT NULL,
		id    TEXT NOT NULL,
		body  BLOB NOT NULL,
		PRIMARY KEY (queue, id)
	);
	CREATE TABLE IF NOT EXISTS progress (
		queue   TEXT NOT NULL,
		student TEXT NOT NULL,
		task    TEXT NOT NULL,
		done    INTEGER NOT NULL,
		PRIMARY KEY (queue, student, task)
	);
`

// OpenStore opens (and if necessary creates) the journal database.
func OpenStore(path string, logger *slog.Logger) (*Store, error) {
	pool, err := sqlitepool.Open(sqlitepool.Config{
		Path:   path,
		Logger: logger,
		OnConnect: func(conn *sqlite.Conn) error {
			return sqlitex.ExecuteScript(conn, storeSchema, nil)
		},
	})
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Close closes the underlying pool.
func (s *Store) Close() error {
	return s.pool.Close()
}

// SaveConfig persists a queue's validated configuration.
func (s *Store) SaveConfig(ctx context.Context, queue string, config *schema.QueueConfig) error {
	body, err := codec.Marshal(config)
	if err != nil {
		return fmt.Errorf("encoding config for %q: %w", queue, err)
	}

	conn, err := s.pool.Take(ctx)
	if err != nil {
		return err
	}
	defer s.pool.Put(conn)

	err = sqlitex.Execute(conn,
		"INSERT INTO queue_config (queue, body) VALUES (?, ?) ON CONFLICT (queue) DO UPDATE SET body = excluded.body",
		&sqlitex.ExecOptions{Args: []any{queue, body}})
	if err != nil {
		return fmt.Errorf("writing config for %q: %w", queue, err)
	}
	return nil
}

// SaveTicket persists one ticket body.
func (s *Store) SaveTicket(ctx context.Context, queue, id string, content *ticket.TicketContent) error {
	body, err := codec.Marshal(content)
	if err != nil {
		return fmt.Errorf("encoding ticket %s: %w", id, err)
	}

	conn, err := s.pool.Take(ctx)
	if err != nil {
		return err
	}
	defer s.pool.Put(conn)

	err = sqlitex.Execute(conn,
		"INSERT INTO tickets (queue, id, body) VALUES (?, ?, ?) ON CONFLICT (queue, id) DO UPDATE SET body = excluded.body",
		&sqlitex.ExecOptions{Args: []any{queue, id, body}})
	if err != nil {
		return fmt.Errorf("writing ticket %s: %w", id, err)
	}
	return nil
}

// SaveProgress records one staff sign-off decision.
func (s *Store) SaveProgress(ctx context.Context, queue, student, task string, done bool) error {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return err
	}
	defer s.pool.Put(conn)

	doneInt := 0
	if done {
		doneInt = 1
	}
	err = sqlitex.Execute(conn,
		"INSERT INTO progress (queue, student, task, done) VALUES (?, ?, ?, ?) ON CONFLICT (queue, student, task) DO UPDATE SET done = excluded.done",
		&sqlitex.ExecOptions{Args: []any{queue, student, task, doneInt}})
	if err != nil {
		return fmt.Errorf("writing progress for %s/%s: %w", student, task, err)
	}
	return nil
}

// loadedQueue is one queue's journaled state.
type loadedQueue struct {
	Config   *schema.QueueConfig
	Tickets  map[string]*ticket.TicketContent
	Progress map[string]map[string]bool
}

// Load reads the whole journal. Only queues with a stored config
// appear; ticket or progress rows for an unconfigured queue indicate
// a corrupt journal and fail the load.
func (s *Store) Load() (map[string]*loadedQueue, error) {
	ctx := context.Background()
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, err
	}
	defer s.pool.Put(conn)

	queues := make(map[string]*loadedQueue)

	err = sqlitex.Execute(conn, "SELECT queue, body FROM queue_config", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			queue := stmt.ColumnText(0)
			body := columnBlob(stmt, 1)
			var config schema.QueueConfig
			if err := codec.Unmarshal(body, &config); err != nil {
				return fmt.Errorf("decoding config for %q: %w", queue, err)
			}
			queues[queue] = &loadedQueue{
				Config:   &config,
				Tickets:  make(map[string]*ticket.TicketContent),
				Progress: make(map[string]map[string]bool),
			}
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("reading queue configs: %w", err)
	}

	err = sqlitex.Execute(conn, "SELECT queue, id, body FROM tickets", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			queue := stmt.ColumnText(0)
			id := stmt.ColumnText(1)
			loaded, ok := queues[queue]
			if !ok {
				return fmt.Errorf("ticket %s belongs to unconfigured queue %q", id, queue)
			}
			var content ticket.TicketContent
			if err := codec.Unmarshal(columnBlob(stmt, 2), &content); err != nil {
				return fmt.Errorf("decoding ticket %s: %w", id, err)
			}
			loaded.Tickets[id] = &content
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("reading tickets: %w", err)
	}

	err = sqlitex.Execute(conn, "SELECT queue, student, task, done FROM progress", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			queue := stmt.ColumnText(0)
			loaded, ok := queues[queue]
			if !ok {
				return fmt.Errorf("progress row belongs to unconfigured queue %q", queue)
			}
			student := stmt.ColumnText(1)
			tasks, ok := loaded.Progress[student]
			if !ok {
				tasks = make(map[string]bool)
				loaded.Progress[student] = tasks
			}
			tasks[stmt.ColumnText(2)] = stmt.ColumnInt(3) != 0
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("reading progress: %w", err)
	}

	return queues, nil
}

func columnBlob(stmt *sqlite.Stmt, col int) []byte {
	blob := make([]byte, stmt.ColumnLen(col))
	stmt.ColumnBytes(col, blob)
	return blob
}
