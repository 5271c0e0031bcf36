// Package storage defines the persistence port consumed by the HTTP layer and
// its two interchangeable implementations.
package storage

import (
	"context"
	"errors"

	"github.com/isdelr/portfolio-be/internal/models"
)

var (
	// ErrNotFound is returned when the referenced row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a unique username or email is already taken.
	ErrConflict = errors.New("conflict")
)

// Backend tags which implementation of Store is in use.
type Backend int

const (
	BackendMemory Backend = iota
	BackendRelational
)

func (b Backend) String() string {
	switch b {
	case BackendMemory:
		return "memory"
	case BackendRelational:
		return "relational"
	default:
		return "unknown"
	}
}

// UserStore defines user lookup and creation.
type UserStore interface {
	GetUser(ctx context.Context, id int64) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	UpsertUser(ctx context.Context, user models.User) (models.User, error)
}

// ProjectStore defines project CRUD.
type ProjectStore interface {
	GetProjects(ctx context.Context) ([]models.Project, error)
	GetProject(ctx context.Context, id int64) (models.Project, error)
	CreateProject(ctx context.Context, p models.NewProject) (models.Project, error)
	UpdateProject(ctx context.Context, id int64, patch models.ProjectPatch) (models.Project, error)
	DeleteProject(ctx context.Context, id int64) error
}

// BlogPostStore defines blog post CRUD.
type BlogPostStore interface {
	GetBlogPosts(ctx context.Context) ([]models.BlogPost, error)
	GetBlogPost(ctx context.Context, id int64) (models.BlogPost, error)
	CreateBlogPost(ctx context.Context, p models.NewBlogPost) (models.BlogPost, error)
	UpdateBlogPost(ctx context.Context, id int64, patch models.BlogPostPatch) (models.BlogPost, error)
	DeleteBlogPost(ctx context.Context, id int64) error
}

// Store is the full persistence port.
type Store interface {
	UserStore
	ProjectStore
	BlogPostStore

	Backend() Backend
	Ping(ctx context.Context) error
	Close() error
}
