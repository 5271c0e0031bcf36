package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/isdelr/portfolio-be/internal/database"
	"github.com/isdelr/portfolio-be/internal/models"
)

// SQLStore is the relational Store. Lists are persisted as JSON text columns.
type SQLStore struct {
	db      *sql.DB
	dialect database.Dialect
}

// NewSQLStore wraps an open, migrated database.
func NewSQLStore(db *sql.DB, dialect database.Dialect) *SQLStore {
	return &SQLStore{db: db, dialect: dialect}
}

func (s *SQLStore) Backend() Backend { return BackendRelational }

func (s *SQLStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *SQLStore) Close() error { return s.db.Close() }

// DB exposes the underlying pool for schema initialization.
func (s *SQLStore) DB() (*sql.DB, database.Dialect) { return s.db, s.dialect }

type scanner interface {
	Scan(dest ...interface{}) error
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

// User operations

const userColumns = "id, username, email, password, first_name, last_name, profile_image_url, is_admin, created_at, updated_at"

func scanUser(row scanner) (models.User, error) {
	var u models.User
	var email, first, last, image sql.NullString
	err := row.Scan(&u.ID, &u.Username, &email, &u.PasswordHash, &first, &last, &image, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return models.User{}, err
	}
	u.Email = stringPtr(email)
	u.FirstName = stringPtr(first)
	u.LastName = stringPtr(last)
	u.ProfileImageURL = stringPtr(image)
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return u, nil
}

func (s *SQLStore) getUserWhere(ctx context.Context, where string, arg interface{}) (models.User, error) {
	row := s.db.QueryRowContext(ctx, s.dialect.Rebind("SELECT "+userColumns+" FROM users WHERE "+where), arg)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to load user: %w", err)
	}
	return u, nil
}

func (s *SQLStore) GetUser(ctx context.Context, id int64) (models.User, error) {
	return s.getUserWhere(ctx, "id = ?", id)
}

func (s *SQLStore) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	return s.getUserWhere(ctx, "username = ?", username)
}

func (s *SQLStore) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	return s.getUserWhere(ctx, "email = ?", email)
}

func (s *SQLStore) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	user.CreatedAt = now
	user.UpdatedAt = now

	const query = `
		INSERT INTO users (username, email, password, first_name, last_name, profile_image_url, is_admin, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`
	err := s.db.QueryRowContext(ctx, s.dialect.Rebind(query),
		user.Username, nullString(user.Email), user.PasswordHash,
		nullString(user.FirstName), nullString(user.LastName), nullString(user.ProfileImageURL),
		user.IsAdmin, user.CreatedAt, user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return models.User{}, ErrConflict
		}
		return models.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// UpsertUser inserts user, or replaces the mutable columns of the row with
// the same id. An empty password hash keeps the stored one.
func (s *SQLStore) UpsertUser(ctx context.Context, user models.User) (models.User, error) {
	if user.ID == 0 {
		return s.CreateUser(ctx, user)
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	const query = `
		INSERT INTO users (id, username, email, password, first_name, last_name, profile_image_url, is_admin, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			username = excluded.username,
			email = excluded.email,
			password = CASE WHEN excluded.password = '' THEN users.password ELSE excluded.password END,
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			profile_image_url = excluded.profile_image_url,
			is_admin = excluded.is_admin,
			updated_at = excluded.updated_at
		RETURNING ` + userColumns
	row := s.db.QueryRowContext(ctx, s.dialect.Rebind(query),
		user.ID, user.Username, nullString(user.Email), user.PasswordHash,
		nullString(user.FirstName), nullString(user.LastName), nullString(user.ProfileImageURL),
		user.IsAdmin, now, now,
	)
	saved, err := scanUser(row)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return models.User{}, ErrConflict
		}
		return models.User{}, fmt.Errorf("failed to upsert user: %w", err)
	}

	if s.dialect.Name == database.PostgreSQL {
		// An explicit id does not advance the SERIAL sequence.
		_, err = s.db.ExecContext(ctx, "SELECT setval(pg_get_serial_sequence('users', 'id'), (SELECT MAX(id) FROM users))")
		if err != nil {
			return models.User{}, fmt.Errorf("failed to advance user id sequence: %w", err)
		}
	}
	return saved, nil
}

// Project operations

const projectColumns = "id, title, description, category, technologies_json, github_url, live_url, image, featured, created_at, updated_at"

func scanProject(row scanner) (models.Project, error) {
	var p models.Project
	var techJSON string
	var github, live sql.NullString
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Category, &techJSON, &github, &live, &p.Image, &p.Featured, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return models.Project{}, err
	}
	if p.Technologies, err = models.DecodeList(techJSON); err != nil {
		return models.Project{}, fmt.Errorf("invalid technologies for project %d: %w", p.ID, err)
	}
	p.GithubURL = stringPtr(github)
	p.LiveURL = stringPtr(live)
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return p, nil
}

func (s *SQLStore) getProject(ctx context.Context, q querier, id int64) (models.Project, error) {
	row := q.QueryRowContext(ctx, s.dialect.Rebind("SELECT "+projectColumns+" FROM projects WHERE id = ?"), id)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Project{}, ErrNotFound
	}
	if err != nil {
		return models.Project{}, fmt.Errorf("failed to load project %d: %w", id, err)
	}
	return p, nil
}

func (s *SQLStore) GetProjects(ctx context.Context) ([]models.Project, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+projectColumns+" FROM projects ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (s *SQLStore) GetProject(ctx context.Context, id int64) (models.Project, error) {
	return s.getProject(ctx, s.db, id)
}

func (s *SQLStore) CreateProject(ctx context.Context, in models.NewProject) (models.Project, error) {
	p := in.Project(0, time.Now().UTC().Truncate(time.Microsecond))
	const query = `
		INSERT INTO projects (title, description, category, technologies_json, github_url, live_url, image, featured, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`
	err := s.db.QueryRowContext(ctx, s.dialect.Rebind(query),
		p.Title, p.Description, p.Category, models.EncodeList(p.Technologies),
		nullString(p.GithubURL), nullString(p.LiveURL), p.Image, p.Featured, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		return models.Project{}, fmt.Errorf("failed to create project: %w", err)
	}
	return p, nil
}

func (s *SQLStore) UpdateProject(ctx context.Context, id int64, patch models.ProjectPatch) (models.Project, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Project{}, err
	}
	defer tx.Rollback()

	p, err := s.getProject(ctx, tx, id)
	if err != nil {
		return models.Project{}, err
	}
	patch.Apply(&p)

	const query = `
		UPDATE projects SET title = ?, description = ?, category = ?, technologies_json = ?,
		                    github_url = ?, live_url = ?, image = ?, featured = ?, updated_at = ?
		WHERE id = ?`
	_, err = tx.ExecContext(ctx, s.dialect.Rebind(query),
		p.Title, p.Description, p.Category, models.EncodeList(p.Technologies),
		nullString(p.GithubURL), nullString(p.LiveURL), p.Image, p.Featured, p.UpdatedAt,
		id,
	)
	if err != nil {
		return models.Project{}, fmt.Errorf("failed to update project %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return models.Project{}, err
	}
	return p, nil
}

// DeleteProject is a no-op when the row does not exist.
func (s *SQLStore) DeleteProject(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, s.dialect.Rebind("DELETE FROM projects WHERE id = ?"), id)
	return err
}

// Blog post operations

const blogPostColumns = "id, title, excerpt, content, category, tags_json, image, read_time, published, created_at, updated_at"

func scanBlogPost(row scanner) (models.BlogPost, error) {
	var b models.BlogPost
	var tagsJSON string
	err := row.Scan(&b.ID, &b.Title, &b.Excerpt, &b.Content, &b.Category, &tagsJSON, &b.Image, &b.ReadTime, &b.Published, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return models.BlogPost{}, err
	}
	if b.Tags, err = models.DecodeList(tagsJSON); err != nil {
		return models.BlogPost{}, fmt.Errorf("invalid tags for blog post %d: %w", b.ID, err)
	}
	b.CreatedAt = b.CreatedAt.UTC()
	b.UpdatedAt = b.UpdatedAt.UTC()
	return b, nil
}

func (s *SQLStore) getBlogPost(ctx context.Context, q querier, id int64) (models.BlogPost, error) {
	row := q.QueryRowContext(ctx, s.dialect.Rebind("SELECT "+blogPostColumns+" FROM blog_posts WHERE id = ?"), id)
	b, err := scanBlogPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.BlogPost{}, ErrNotFound
	}
	if err != nil {
		return models.BlogPost{}, fmt.Errorf("failed to load blog post %d: %w", id, err)
	}
	return b, nil
}

func (s *SQLStore) GetBlogPosts(ctx context.Context) ([]models.BlogPost, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+blogPostColumns+" FROM blog_posts ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list blog posts: %w", err)
	}
	defer rows.Close()

	posts := []models.BlogPost{}
	for rows.Next() {
		b, err := scanBlogPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, b)
	}
	return posts, rows.Err()
}

func (s *SQLStore) GetBlogPost(ctx context.Context, id int64) (models.BlogPost, error) {
	return s.getBlogPost(ctx, s.db, id)
}

func (s *SQLStore) CreateBlogPost(ctx context.Context, in models.NewBlogPost) (models.BlogPost, error) {
	b := in.BlogPost(0, time.Now().UTC().Truncate(time.Microsecond))
	const query = `
		INSERT INTO blog_posts (title, excerpt, content, category, tags_json, image, read_time, published, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`
	err := s.db.QueryRowContext(ctx, s.dialect.Rebind(query),
		b.Title, b.Excerpt, b.Content, b.Category, models.EncodeList(b.Tags),
		b.Image, b.ReadTime, b.Published, b.CreatedAt, b.UpdatedAt,
	).Scan(&b.ID)
	if err != nil {
		return models.BlogPost{}, fmt.Errorf("failed to create blog post: %w", err)
	}
	return b, nil
}

func (s *SQLStore) UpdateBlogPost(ctx context.Context, id int64, patch models.BlogPostPatch) (models.BlogPost, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.BlogPost{}, err
	}
	defer tx.Rollback()

	b, err := s.getBlogPost(ctx, tx, id)
	if err != nil {
		return models.BlogPost{}, err
	}
	patch.Apply(&b)

	const query = `
		UPDATE blog_posts SET title = ?, excerpt = ?, content = ?, category = ?, tags_json = ?,
		                      image = ?, read_time = ?, published = ?, updated_at = ?
		WHERE id = ?`
	_, err = tx.ExecContext(ctx, s.dialect.Rebind(query),
		b.Title, b.Excerpt, b.Content, b.Category, models.EncodeList(b.Tags),
		b.Image, b.ReadTime, b.Published, b.UpdatedAt,
		id,
	)
	if err != nil {
		return models.BlogPost{}, fmt.Errorf("failed to update blog post %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return models.BlogPost{}, err
	}
	return b, nil
}

// DeleteBlogPost is a no-op when the row does not exist.
func (s *SQLStore) DeleteBlogPost(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, s.dialect.Rebind("DELETE FROM blog_posts WHERE id = ?"), id)
	return err
}
