package folio

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = sql.ErrNoRows

// ErrSlugTaken is returned when a post's slug collides with another post.
var ErrSlugTaken = errors.New("slug already in use")

// Store wraps a SQLite database and provides CRUD operations for blog posts
// and admin users. Handlers receive the store explicitly; there is no
// process-wide cache in front of it.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL for concurrent read/write access, busy timeout so writers wait
	// instead of returning SQLITE_BUSY, synchronous=NORMAL is safe with WAL.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS blogs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    slug TEXT NOT NULL UNIQUE,
    excerpt TEXT NOT NULL DEFAULT '',
    content TEXT NOT NULL,
    author TEXT NOT NULL,
    category TEXT NOT NULL DEFAULT '',
    tags TEXT NOT NULL DEFAULT '[]',
    thumbnail TEXT NOT NULL DEFAULT '',
    featured_image TEXT NOT NULL DEFAULT '',
    read_time INTEGER NOT NULL DEFAULT 1,
    view_count INTEGER NOT NULL DEFAULT 0,
    published INTEGER NOT NULL DEFAULT 0,
    published_at TEXT,
    seo_title TEXT NOT NULL DEFAULT '',
    seo_description TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_blogs_published ON blogs(published);
CREATE INDEX IF NOT EXISTS idx_blogs_category ON blogs(category);

CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    role TEXT NOT NULL DEFAULT 'admin',
    created_at TEXT NOT NULL
);
`)
	return err
}

const postColumns = `id, title, slug, excerpt, content, author, category, tags,
	thumbnail, featured_image, read_time, view_count, published, published_at,
	seo_title, seo_description, created_at, updated_at`

// listing order: publish date falls back to creation date, newest first,
// id descending as tiebreak so pagination stays deterministic.
const postOrder = `ORDER BY COALESCE(published_at, created_at) DESC, id DESC`

func scanPost(row interface{ Scan(...any) error }) (BlogPost, error) {
	var p BlogPost
	var tags string
	var published int
	var publishedAt sql.NullString
	var createdAt, updatedAt string
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Content,
		&p.Author, &p.Category, &tags, &p.Thumbnail, &p.FeaturedImage,
		&p.ReadTime, &p.ViewCount, &published, &publishedAt,
		&p.SEOTitle, &p.SEODescription, &createdAt, &updatedAt)
	if err != nil {
		return BlogPost{}, err
	}
	p.Tags = decodeTags(tags)
	p.IsPublished = published == 1
	p.IsDraft = !p.IsPublished
	if publishedAt.Valid {
		if t, err := time.Parse(time.RFC3339, publishedAt.String); err == nil {
			p.PublishedAt = &t
		}
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return p, nil
}

// CreatePost inserts a new post and fills in its assigned ID. The slug is
// checked first and a collision surfaces as ErrSlugTaken, so the caller can
// answer 409 instead of a generic constraint error.
func (s *Store) CreatePost(p *BlogPost) error {
	taken, err := s.SlugExists(p.Slug, 0)
	if err != nil {
		return err
	}
	if taken {
		return ErrSlugTaken
	}
	res, err := s.db.Exec(`INSERT INTO blogs
		(title, slug, excerpt, content, author, category, tags, thumbnail,
		 featured_image, read_time, view_count, published, published_at,
		 seo_title, seo_description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Title, p.Slug, p.Excerpt, p.Content, p.Author, p.Category,
		encodeTags(p.Tags), p.Thumbnail, p.FeaturedImage, p.ReadTime,
		p.ViewCount, boolToInt(p.IsPublished), timePtrString(p.PublishedAt),
		p.SEOTitle, p.SEODescription,
		p.CreatedAt.UTC().Format(time.RFC3339),
		p.UpdatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	p.ID, err = res.LastInsertId()
	return err
}

// UpdatePost overwrites every column of the post row. Partial-update
// semantics live in the handler, which loads the row and applies only the
// fields present in the request before calling this.
func (s *Store) UpdatePost(p BlogPost) error {
	res, err := s.db.Exec(`UPDATE blogs SET
		title = ?, slug = ?, excerpt = ?, content = ?, author = ?,
		category = ?, tags = ?, thumbnail = ?, featured_image = ?,
		read_time = ?, published = ?, published_at = ?, seo_title = ?,
		seo_description = ?, updated_at = ?
		WHERE id = ?`,
		p.Title, p.Slug, p.Excerpt, p.Content, p.Author, p.Category,
		encodeTags(p.Tags), p.Thumbnail, p.FeaturedImage, p.ReadTime,
		boolToInt(p.IsPublished), timePtrString(p.PublishedAt),
		p.SEOTitle, p.SEODescription,
		p.UpdatedAt.UTC().Format(time.RFC3339), p.ID)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeletePost removes a post permanently. No soft delete.
func (s *Store) DeletePost(id int64) error {
	res, err := s.db.Exec(`DELETE FROM blogs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetPostByID returns a post by id regardless of published status. Used by
// admin edit flows and id-addressed reads, which never touch the view count.
func (s *Store) GetPostByID(id int64) (BlogPost, error) {
	row := s.db.QueryRow(`SELECT `+postColumns+` FROM blogs WHERE id = ?`, id)
	return scanPost(row)
}

// GetPublishedBySlug returns a published post by slug.
func (s *Store) GetPublishedBySlug(slug string) (BlogPost, error) {
	row := s.db.QueryRow(`SELECT `+postColumns+` FROM blogs WHERE slug = ? AND published = 1`, slug)
	return scanPost(row)
}

// SlugExists reports whether another post (excluding excludeID) already owns
// the slug.
func (s *Store) SlugExists(slug string, excludeID int64) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM blogs WHERE slug = ? AND id != ?`,
		slug, excludeID).Scan(&n)
	return n > 0, err
}

// IncrementViewCount bumps the view counter for a published post in a single
// statement, so concurrent views never lose updates to a read-modify-write.
func (s *Store) IncrementViewCount(slug string) error {
	_, err := s.db.Exec(`UPDATE blogs SET view_count = view_count + 1 WHERE slug = ? AND published = 1`, slug)
	return err
}

// ListPosts returns one page of posts matching q plus pagination metadata.
// Zero matches is not an error: the result is an empty page 1 of 1.
func (s *Store) ListPosts(q ListQuery) ([]BlogPost, Pagination, error) {
	q = q.normalized()
	where, args := buildWhere(q)

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM blogs `+where, args...).Scan(&total); err != nil {
		return nil, Pagination{}, fmt.Errorf("count posts: %w", err)
	}

	pg := BuildPagination(total, q.Page, q.PageSize)
	offset := (pg.CurrentPage - 1) * pg.PageSize

	rows, err := s.db.Query(
		`SELECT `+postColumns+` FROM blogs `+where+` `+postOrder+` LIMIT ? OFFSET ?`,
		append(args, pg.PageSize, offset)...)
	if err != nil {
		return nil, Pagination{}, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := []BlogPost{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, Pagination{}, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, Pagination{}, err
	}
	return posts, pg, nil
}

// buildWhere composes the single active predicate for a listing. Search wins
// over category, category over tag (normalized() already enforced that).
func buildWhere(q ListQuery) (string, []any) {
	var conds []string
	var args []any
	switch {
	case q.DraftsOnly:
		conds = append(conds, "published = 0")
	case !q.IncludeDrafts:
		conds = append(conds, "published = 1")
	}
	switch {
	case q.Search != "":
		needle := "%" + strings.ToLower(q.Search) + "%"
		conds = append(conds, `(lower(title) LIKE ? OR lower(excerpt) LIKE ?
			OR lower(content) LIKE ? OR lower(tags) LIKE ?
			OR lower(category) LIKE ? OR lower(author) LIKE ?)`)
		for i := 0; i < 6; i++ {
			args = append(args, needle)
		}
	case q.Category != "":
		conds = append(conds, "lower(category) = ?")
		args = append(args, strings.ToLower(q.Category))
	case q.Tag != "":
		// tags holds a JSON array, so an exact element match is a quoted
		// substring match on the encoded column.
		conds = append(conds, "lower(tags) LIKE ?")
		args = append(args, `%"`+strings.ToLower(q.Tag)+`"%`)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

// AllPublished returns every published post, newest first. Feeds and the
// sitemap use it; listings go through ListPosts.
func (s *Store) AllPublished() ([]BlogPost, error) {
	rows, err := s.db.Query(`SELECT ` + postColumns + ` FROM blogs WHERE published = 1 ` + postOrder)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	posts := []BlogPost{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// RelatedPosts returns up to limit published posts sharing the source post's
// category or at least one tag, newest first, excluding the source itself.
// An unknown source id yields an empty slice, not an error.
func (s *Store) RelatedPosts(id int64, limit int) ([]BlogPost, error) {
	if limit < 1 {
		limit = 3
	}
	if limit > 10 {
		limit = 10
	}
	source, err := s.GetPostByID(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return []BlogPost{}, nil
		}
		return nil, err
	}

	rows, err := s.db.Query(
		`SELECT `+postColumns+` FROM blogs WHERE published = 1 AND id != ? `+postOrder, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tagSet := make(map[string]struct{})
	for _, t := range source.Tags {
		tagSet[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}

	related := []BlogPost{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		if !sharesCategoryOrTag(source, p, tagSet) {
			continue
		}
		related = append(related, p)
		if len(related) == limit {
			break
		}
	}
	return related, rows.Err()
}

func sharesCategoryOrTag(source, p BlogPost, tagSet map[string]struct{}) bool {
	if source.Category != "" && strings.EqualFold(source.Category, p.Category) {
		return true
	}
	for _, t := range p.Tags {
		if _, ok := tagSet[strings.ToLower(strings.TrimSpace(t))]; ok {
			return true
		}
	}
	return false
}

// ListCategories returns the distinct non-empty categories of published posts.
func (s *Store) ListCategories() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT category FROM blogs WHERE published = 1 AND category != '' ORDER BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CreateUser inserts an admin credential. Existing usernames are replaced so
// seeding is repeatable.
func (s *Store) CreateUser(username, passwordHash, role string) error {
	_, err := s.db.Exec(`INSERT INTO users (username, password_hash, role, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(username) DO UPDATE SET password_hash = excluded.password_hash, role = excluded.role`,
		username, passwordHash, role, time.Now().UTC().Format(time.RFC3339))
	return err
}

// GetUserByUsername returns a user row for login checks.
func (s *Store) GetUserByUsername(username string) (User, error) {
	var u User
	var createdAt string
	err := s.db.QueryRow(`SELECT id, username, password_hash, role, created_at FROM users WHERE username = ?`,
		username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &createdAt)
	if err != nil {
		return User{}, err
	}
	u.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return u, nil
}

// encodeTags stores tags as a JSON array so they round-trip exactly.
func encodeTags(tags []string) string {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// decodeTags tolerates a corrupt column value by degrading to an empty list
// instead of failing the read.
func decodeTags(raw string) []string {
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil || tags == nil {
		return []string{}
	}
	return tags
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func timePtrString(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
