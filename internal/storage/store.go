// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/gaia-tui/internal/model"
)

// ErrNotFound is returned for an unknown conversation ID.
var ErrNotFound = errors.New("conversation not found")

// =============================================================================
// STORE
// =============================================================================

// Store persists conversations in SQLite. It is safe for concurrent use.
type Store struct {
	db   *sql.DB
	path string
}

// Summary describes a stored conversation without its messages.
type Summary struct {
	ID           string
	Title        string
	Tone         model.Tone
	Model        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	MessageCount int
}

// Open opens (creating if needed) the database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	// SECURITY: Transcripts are private; keep the directory owner-only.
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, and PRAGMAs are
	// per-connection, so keep exactly one.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.ExecContext(ctx, Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if _, err := db.ExecContext(ctx, InitMetadata); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize metadata: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// =============================================================================
// WRITES
// =============================================================================

// CreateConversation inserts the conversation row and any non-welcome
// messages it already holds.
func (s *Store) CreateConversation(ctx context.Context, conv *model.Conversation) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO conversations (id, title, tone, model, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, conv.ID, conv.Title, string(conv.Tone), conv.Model,
		conv.CreatedAt.UnixNano(), conv.UpdatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("insert conversation: %w", err)
	}

	for _, msg := range conv.Messages {
		if msg.Welcome {
			continue
		}
		if err := insertMessage(ctx, tx, conv.ID, msg); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// AppendMessage stores msg at the end of a conversation and bumps its update
// time. The first user message also fills an empty title. Welcome messages
// are skipped.
func (s *Store) AppendMessage(ctx context.Context, conversationID string, msg *model.Message) error {
	if msg.Welcome {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var title string
	err = tx.QueryRowContext(ctx, "SELECT title FROM conversations WHERE id = ?", conversationID).Scan(&title)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrNotFound, conversationID)
	}
	if err != nil {
		return err
	}

	if err := insertMessage(ctx, tx, conversationID, msg); err != nil {
		return err
	}

	if title == "" && msg.Role == model.RoleUser {
		title = msg.Preview(48)
	}
	_, err = tx.ExecContext(ctx,
		"UPDATE conversations SET title = ?, updated_at = MAX(updated_at, ?) WHERE id = ?",
		title, msg.Timestamp.UnixNano(), conversationID)
	if err != nil {
		return fmt.Errorf("update conversation: %w", err)
	}
	return tx.Commit()
}

func insertMessage(ctx context.Context, tx *sql.Tx, conversationID string, msg *model.Message) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO messages (id, conversation_id, role, text, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, msg.ID, conversationID, string(msg.Role), msg.Text, msg.Timestamp.UnixNano())
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// DeleteConversation removes a conversation and its messages.
func (s *Store) DeleteConversation(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM conversations WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// =============================================================================
// READS
// =============================================================================

// ListConversations returns up to limit conversations, most recently updated
// first. A limit of zero or less returns all of them.
func (s *Store) ListConversations(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.title, c.tone, c.model, c.created_at, c.updated_at,
		       (SELECT COUNT(*) FROM messages m WHERE m.conversation_id = c.id)
		FROM conversations c
		ORDER BY c.updated_at DESC, c.rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sum Summary
		var tone string
		var created, updated int64
		if err := rows.Scan(&sum.ID, &sum.Title, &tone, &sum.Model, &created, &updated, &sum.MessageCount); err != nil {
			return nil, err
		}
		sum.Tone = model.Tone(tone)
		sum.CreatedAt = time.Unix(0, created)
		sum.UpdatedAt = time.Unix(0, updated)
		out = append(out, sum)
	}
	return out, rows.Err()
}

// LoadConversation reads a conversation with all of its messages in the
// order they were appended.
func (s *Store) LoadConversation(ctx context.Context, id string) (*model.Conversation, error) {
	conv := &model.Conversation{ID: id}
	var tone string
	var created, updated int64

	err := s.db.QueryRowContext(ctx,
		"SELECT title, tone, model, created_at, updated_at FROM conversations WHERE id = ?", id,
	).Scan(&conv.Title, &tone, &conv.Model, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	conv.Tone = model.Tone(tone)
	conv.CreatedAt = time.Unix(0, created)
	conv.UpdatedAt = time.Unix(0, updated)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, role, text, created_at FROM messages
		WHERE conversation_id = ?
		ORDER BY created_at, rowid
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		msg := &model.Message{}
		var role string
		var ts int64
		if err := rows.Scan(&msg.ID, &role, &msg.Text, &ts); err != nil {
			return nil, err
		}
		msg.Role = model.Role(role)
		msg.Timestamp = time.Unix(0, ts)
		conv.Messages = append(conv.Messages, msg)
	}
	return conv, rows.Err()
}
