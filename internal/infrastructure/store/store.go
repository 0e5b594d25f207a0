package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/glebarez/go-sqlite"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/chatform/internal/shared/types"
)

// ErrNotFound is returned when a referenced row does not exist.
var ErrNotFound = errors.New("store: not found")

const memoryPath = ":memory:"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS options (
		id               INTEGER PRIMARY KEY,
		name             TEXT NOT NULL,
		description      TEXT NOT NULL DEFAULT '',
		ask_for_item     INTEGER NOT NULL DEFAULT 0,
		ask_for_location INTEGER NOT NULL DEFAULT 0
	);`,
	`CREATE TABLE IF NOT EXISTS items (
		id       INTEGER PRIMARY KEY,
		name     TEXT NOT NULL,
		category TEXT NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS items_category ON items (category);`,
	`CREATE TABLE IF NOT EXISTS locations (
		id   INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		type TEXT NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS locations_type ON locations (type);`,
	`CREATE TABLE IF NOT EXISTS conversations (
		id         TEXT PRIMARY KEY,
		title      TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS messages (
		id              TEXT PRIMARY KEY,
		conversation_id TEXT NOT NULL REFERENCES conversations (id) ON DELETE CASCADE,
		content         TEXT NOT NULL,
		is_user_message INTEGER NOT NULL DEFAULT 1,
		created_at      TEXT NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS messages_conversation ON messages (conversation_id, id);`,
}

// Store is the SQLite-backed repository.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open opens (creating if needed) the database at path and applies the
// schema. ":memory:" gives a private in-memory database.
func Open(ctx context.Context, path string, logger *zap.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}
	if path == memoryPath {
		// every connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	}

	s := NewWithDB(db, logger)
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewWithDB wraps an existing handle without touching the schema
func NewWithDB(db *sql.DB, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{db: db, logger: logger}
}

func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// Migrate creates missing tables and indexes
func (s *Store) Migrate(ctx context.Context) error {
	for _, q := range schema {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// Ping checks the database is reachable
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// ListOptions returns every option ordered by id
func (s *Store) ListOptions(ctx context.Context) ([]types.Option, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, ask_for_item, ask_for_location FROM options ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list options: %w", err)
	}
	defer rows.Close()

	options := []types.Option{}
	for rows.Next() {
		var o types.Option
		if err := rows.Scan(&o.ID, &o.Name, &o.Description, &o.AskForItem, &o.AskForLocation); err != nil {
			return nil, fmt.Errorf("scan option: %w", err)
		}
		options = append(options, o)
	}
	return options, rows.Err()
}

// ListItems returns items whose category equals q.Builtin and whose name
// contains q.Search, ignoring case. Empty fields are not applied.
func (s *Store) ListItems(ctx context.Context, q types.Query) ([]types.Item, error) {
	query, args := filtered(`SELECT id, name, category FROM items`, "category", q)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	items := []types.Item{}
	for rows.Next() {
		var i types.Item
		if err := rows.Scan(&i.ID, &i.Name, &i.Category); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

// ListLocations returns locations whose type equals q.Builtin and whose
// name contains q.Search, ignoring case. Empty fields are not applied.
func (s *Store) ListLocations(ctx context.Context, q types.Query) ([]types.Location, error) {
	query, args := filtered(`SELECT id, name, type FROM locations`, "type", q)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	locations := []types.Location{}
	for rows.Next() {
		var l types.Location
		if err := rows.Scan(&l.ID, &l.Name, &l.Type); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}

func filtered(base, builtinColumn string, q types.Query) (string, []any) {
	var (
		where []string
		args  []any
	)
	if q.Builtin != "" {
		where = append(where, builtinColumn+" = ?")
		args = append(args, q.Builtin)
	}
	if q.Search != "" {
		where = append(where, "instr(lower(name), lower(?)) > 0")
		args = append(args, q.Search)
	}

	query := base
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	return query + " ORDER BY id", args
}

// ItemCategories returns the distinct item categories in use
func (s *Store) ItemCategories(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, `SELECT DISTINCT category FROM items ORDER BY category`)
}

// LocationTypes returns the distinct location types in use
func (s *Store) LocationTypes(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, `SELECT DISTINCT type FROM locations ORDER BY type`)
}

func (s *Store) distinct(ctx context.Context, query string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("distinct values: %w", err)
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan value: %w", err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// CreateConversation inserts a conversation
func (s *Store) CreateConversation(ctx context.Context, c types.Conversation) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO conversations (id, title, created_at) VALUES (?, ?, ?)`,
		c.ID, c.Title, formatTime(c.CreatedAt))
	if err != nil {
		return fmt.Errorf("create conversation: %w", err)
	}
	return nil
}

// GetConversation returns the conversation with id or ErrNotFound
func (s *Store) GetConversation(ctx context.Context, id string) (types.Conversation, error) {
	var (
		c       types.Conversation
		created string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, created_at FROM conversations WHERE id = ?`, id).
		Scan(&c.ID, &c.Title, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Conversation{}, ErrNotFound
	}
	if err != nil {
		return types.Conversation{}, fmt.Errorf("get conversation: %w", err)
	}

	c.CreatedAt, err = parseTime(created)
	if err != nil {
		return types.Conversation{}, err
	}
	return c, nil
}

// CreateMessage inserts a message. ErrNotFound means the conversation does
// not exist.
func (s *Store) CreateMessage(ctx context.Context, m types.Message) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM conversations WHERE id = ?`, m.ConversationID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("lookup conversation: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO messages (id, conversation_id, content, is_user_message, created_at) VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.ConversationID, m.Content, m.IsUserMessage, formatTime(m.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ListMessages returns the messages of a conversation in creation order
func (s *Store) ListMessages(ctx context.Context, conversationID string) ([]types.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, conversation_id, content, is_user_message, created_at
		 FROM messages WHERE conversation_id = ? ORDER BY created_at, id`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	messages := []types.Message{}
	for rows.Next() {
		var (
			m       types.Message
			created string
		)
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Content, &m.IsUserMessage, &created); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		if m.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}
