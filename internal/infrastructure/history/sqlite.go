package history

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"EndoDigest/internal/domain"
	"EndoDigest/internal/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS published_articles (
	link      TEXT PRIMARY KEY,
	title     TEXT NOT NULL,
	theme     TEXT NOT NULL,
	posted_at INTEGER NOT NULL,
	post_id   TEXT
);`

var pragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA busy_timeout = 10000",
	"PRAGMA synchronous = NORMAL",
}

// Store persists published canonical links in SQLite. Keys are never
// removed; every addition is a single flushed INSERT, not batched.
type Store struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

var _ ports.HistoryStore = (*Store)(nil)

// Open opens (or creates) the store at path and applies the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	// Every connection to :memory: is a separate database.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %s: %w", p, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping history db: %w", err)
	}

	return &Store{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Keys loads every recorded link key.
func (s *Store) Keys(ctx context.Context) (map[string]struct{}, error) {
	query, args, err := s.sb.Select("link").From("published_articles").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build keys query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query keys: %w", err)
	}
	defer rows.Close()

	keys := make(map[string]struct{})
	for rows.Next() {
		var link string
		if err := rows.Scan(&link); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys[link] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate keys: %w", err)
	}
	return keys, nil
}

// Has tests one link for membership, case-insensitively.
func (s *Store) Has(ctx context.Context, link string) (bool, error) {
	query, args, err := s.sb.Select("1").
		From("published_articles").
		Where(sq.Eq{"link": normalizeKey(link)}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build membership query: %w", err)
	}

	var one int
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query membership: %w", err)
	}
	return true, nil
}

// Reserve appends an entry keyed by the lower-cased canonical link with a
// null post id. Reserving an existing key is a no-op.
func (s *Store) Reserve(ctx context.Context, entry domain.HistoryEntry) error {
	query, args, err := s.sb.Insert("published_articles").
		Columns("link", "title", "theme", "posted_at", "post_id").
		Values(normalizeKey(entry.Link), entry.Title, entry.Theme, entry.PostedAt.Unix(), postID(entry.PostID)).
		Suffix("ON CONFLICT(link) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build reserve query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	return nil
}

// SetPostID stores the external id returned by a successful publish.
func (s *Store) SetPostID(ctx context.Context, link, id string) error {
	query, args, err := s.sb.Update("published_articles").
		Set("post_id", id).
		Where(sq.Eq{"link": normalizeKey(link)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update post id: %w", err)
	}
	return nil
}

// CountPostedSince reports how many entries were recorded at or after t.
func (s *Store) CountPostedSince(ctx context.Context, t time.Time) (int, error) {
	query, args, err := s.sb.Select("COUNT(*)").
		From("published_articles").
		Where(sq.GtOrEq{"posted_at": t.Unix()}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("query count: %w", err)
	}
	return count, nil
}

// Entry loads one record by link, mainly for tests and inspection.
func (s *Store) Entry(ctx context.Context, link string) (domain.HistoryEntry, error) {
	query, args, err := s.sb.Select("link", "title", "theme", "posted_at", "post_id").
		From("published_articles").
		Where(sq.Eq{"link": normalizeKey(link)}).
		ToSql()
	if err != nil {
		return domain.HistoryEntry{}, fmt.Errorf("build entry query: %w", err)
	}

	var (
		entry    domain.HistoryEntry
		postedAt int64
		id       sql.NullString
	)
	err = s.db.QueryRowContext(ctx, query, args...).
		Scan(&entry.Link, &entry.Title, &entry.Theme, &postedAt, &id)
	if err != nil {
		return domain.HistoryEntry{}, fmt.Errorf("query entry: %w", err)
	}

	entry.PostedAt = time.Unix(postedAt, 0)
	entry.PostID = id.String
	return entry, nil
}

func normalizeKey(link string) string {
	return strings.ToLower(strings.TrimSpace(link))
}

func postID(id string) any {
	if id == "" {
		return nil
	}
	return id
}
