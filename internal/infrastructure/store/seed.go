package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/chatform/internal/shared/types"
)

// SeedPattern selects seed files below the seed directory.
const SeedPattern = "**/*.{yaml,yml,toml}"

// Catalog is the content of one or more seed files.
type Catalog struct {
	Options       []types.Option       `yaml:"options" toml:"options"`
	Items         []types.Item         `yaml:"items" toml:"items"`
	Locations     []types.Location     `yaml:"locations" toml:"locations"`
	Conversations []types.Conversation `yaml:"conversations" toml:"conversations"`
}

// Merge appends other to c
func (c *Catalog) Merge(other Catalog) {
	c.Options = append(c.Options, other.Options...)
	c.Items = append(c.Items, other.Items...)
	c.Locations = append(c.Locations, other.Locations...)
	c.Conversations = append(c.Conversations, other.Conversations...)
}

// Validate checks required fields and the closed enumerations
func (c Catalog) Validate() error {
	var errs []error
	for _, o := range c.Options {
		if o.ID <= 0 || o.Name == "" {
			errs = append(errs, fmt.Errorf("option %d: id and name are required", o.ID))
		}
	}
	for _, i := range c.Items {
		if i.ID <= 0 || i.Name == "" {
			errs = append(errs, fmt.Errorf("item %d: id and name are required", i.ID))
		}
		if !i.Category.Valid() {
			errs = append(errs, fmt.Errorf("item %d: unknown category %q", i.ID, i.Category))
		}
	}
	for _, l := range c.Locations {
		if l.ID <= 0 || l.Name == "" {
			errs = append(errs, fmt.Errorf("location %d: id and name are required", l.ID))
		}
		if !l.Type.Valid() {
			errs = append(errs, fmt.Errorf("location %d: unknown type %q", l.ID, l.Type))
		}
	}
	for _, conv := range c.Conversations {
		if conv.ID == "" {
			errs = append(errs, errors.New("conversation: id is required"))
		}
	}
	return errors.Join(errs...)
}

// DecodeSeed parses one seed file, choosing the format by extension
func DecodeSeed(name string, data []byte) (Catalog, error) {
	var c Catalog
	var err error

	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &c)
	case ".toml":
		err = toml.Unmarshal(data, &c)
	default:
		return Catalog{}, fmt.Errorf("unsupported seed format %q", filepath.Ext(name))
	}
	if err != nil {
		return Catalog{}, fmt.Errorf("decode %s: %w", filepath.Base(name), err)
	}
	if err := c.Validate(); err != nil {
		return Catalog{}, fmt.Errorf("validate %s: %w", filepath.Base(name), err)
	}
	return c, nil
}

// Seeder loads seed files into a Store
type Seeder struct {
	store  *Store
	dir    string
	logger *zap.Logger
}

// NewSeeder creates a seeder reading from dir
func NewSeeder(store *Store, dir string, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{store: store, dir: dir, logger: logger}
}

// SeedResult summarizes a seeding run
type SeedResult struct {
	Files  int
	Failed int
	Catalog
}

// Seed loads every seed file below the directory and upserts its content.
// A file that fails to parse or validate is skipped and logged. A missing
// directory seeds nothing.
func (s *Seeder) Seed(ctx context.Context) (SeedResult, error) {
	var result SeedResult

	if _, err := os.Stat(s.dir); errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("seed directory not found", zap.String("dir", s.dir))
		return result, nil
	}

	files, err := s.discover(ctx)
	if err != nil {
		return result, err
	}

	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			s.logger.Warn("failed to read seed file", zap.String("file", path), zap.Error(err))
			result.Failed++
			continue
		}

		catalog, err := DecodeSeed(path, data)
		if err != nil {
			s.logger.Warn("rejected seed file", zap.String("file", path), zap.Error(err))
			result.Failed++
			continue
		}

		result.Files++
		result.Merge(catalog)
	}

	if err := s.store.Upsert(ctx, result.Catalog); err != nil {
		return result, err
	}

	s.logger.Info("catalog seeded",
		zap.Int("files", result.Files),
		zap.Int("failed", result.Failed),
		zap.Int("options", len(result.Options)),
		zap.Int("items", len(result.Items)),
		zap.Int("locations", len(result.Locations)),
		zap.Int("conversations", len(result.Conversations)),
	)
	return result, nil
}

// discover returns the seed files in lexical order so later files win
func (s *Seeder) discover(ctx context.Context) ([]string, error) {
	var (
		mu    sync.Mutex
		found []string
	)

	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, s.dir, func(p string, d os.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil || d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(s.dir, p)
		if err != nil {
			return nil
		}
		if ok, _ := doublestar.Match(SeedPattern, filepath.ToSlash(rel)); !ok {
			return nil
		}

		mu.Lock()
		found = append(found, p)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", s.dir, err)
	}

	sort.Strings(found)
	return found, nil
}

// Upsert writes a catalog in one transaction, replacing rows with the same id
func (s *Store) Upsert(ctx context.Context, c Catalog) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, o := range c.Options {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO options (id, name, description, ask_for_item, ask_for_location) VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT (id) DO UPDATE SET name = excluded.name, description = excluded.description,
			 ask_for_item = excluded.ask_for_item, ask_for_location = excluded.ask_for_location`,
			o.ID, o.Name, o.Description, o.AskForItem, o.AskForLocation); err != nil {
			return fmt.Errorf("upsert option %d: %w", o.ID, err)
		}
	}
	for _, i := range c.Items {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO items (id, name, category) VALUES (?, ?, ?)
			 ON CONFLICT (id) DO UPDATE SET name = excluded.name, category = excluded.category`,
			i.ID, i.Name, string(i.Category)); err != nil {
			return fmt.Errorf("upsert item %d: %w", i.ID, err)
		}
	}
	for _, l := range c.Locations {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO locations (id, name, type) VALUES (?, ?, ?)
			 ON CONFLICT (id) DO UPDATE SET name = excluded.name, type = excluded.type`,
			l.ID, l.Name, string(l.Type)); err != nil {
			return fmt.Errorf("upsert location %d: %w", l.ID, err)
		}
	}
	for _, conv := range c.Conversations {
		created := conv.CreatedAt
		if created.IsZero() {
			created = time.Now()
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO conversations (id, title, created_at) VALUES (?, ?, ?)
			 ON CONFLICT (id) DO UPDATE SET title = excluded.title`,
			conv.ID, conv.Title, formatTime(created)); err != nil {
			return fmt.Errorf("upsert conversation %s: %w", conv.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
