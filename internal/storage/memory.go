package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/isdelr/portfolio-be/internal/models"
)

// MemoryStore keeps everything in process memory. Data is lost on restart.
type MemoryStore struct {
	mu sync.RWMutex

	users     map[int64]models.User
	projects  map[int64]models.Project
	blogPosts map[int64]models.BlogPost

	nextUserID     int64
	nextProjectID  int64
	nextBlogPostID int64
}

// NewMemoryStore creates a MemoryStore seeded with the sample projects and blog post.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		users:          make(map[int64]models.User),
		projects:       make(map[int64]models.Project),
		blogPosts:      make(map[int64]models.BlogPost),
		nextUserID:     1,
		nextProjectID:  1,
		nextBlogPostID: 1,
	}

	now := time.Now().UTC()
	for _, p := range sampleProjects(now) {
		s.projects[p.ID] = p
		if p.ID >= s.nextProjectID {
			s.nextProjectID = p.ID + 1
		}
	}
	for _, b := range sampleBlogPosts(now) {
		s.blogPosts[b.ID] = b
		if b.ID >= s.nextBlogPostID {
			s.nextBlogPostID = b.ID + 1
		}
	}
	return s
}

func (s *MemoryStore) Backend() Backend { return BackendMemory }

func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }

// User operations

func (s *MemoryStore) GetUser(ctx context.Context, id int64) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return u, nil
}

func (s *MemoryStore) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, ErrNotFound
}

func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email != nil && *u.Email == email {
			return u, nil
		}
	}
	return models.User{}, ErrNotFound
}

func (s *MemoryStore) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertUserLocked(user)
}

func (s *MemoryStore) UpsertUser(ctx context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.users[user.ID]
	if user.ID == 0 || !ok {
		return s.insertUserLocked(user)
	}
	if s.takenLocked(user, user.ID) {
		return models.User{}, ErrConflict
	}

	existing.Username = user.Username
	existing.Email = user.Email
	existing.FirstName = user.FirstName
	existing.LastName = user.LastName
	existing.ProfileImageURL = user.ProfileImageURL
	existing.IsAdmin = user.IsAdmin
	if user.PasswordHash != "" {
		existing.PasswordHash = user.PasswordHash
	}
	existing.UpdatedAt = models.NextTimestamp(existing.UpdatedAt)
	s.users[existing.ID] = existing
	return existing, nil
}

func (s *MemoryStore) insertUserLocked(user models.User) (models.User, error) {
	if s.takenLocked(user, 0) {
		return models.User{}, ErrConflict
	}
	if user.ID == 0 {
		user.ID = s.nextUserID
	}
	if user.ID >= s.nextUserID {
		s.nextUserID = user.ID + 1
	}
	now := time.Now().UTC().Truncate(time.Microsecond)
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users[user.ID] = user
	return user, nil
}

// takenLocked reports whether another user than skipID holds user's username or email.
func (s *MemoryStore) takenLocked(user models.User, skipID int64) bool {
	for id, u := range s.users {
		if id == skipID {
			continue
		}
		if u.Username == user.Username {
			return true
		}
		if user.Email != nil && u.Email != nil && *u.Email == *user.Email {
			return true
		}
	}
	return false
}

// Project operations

func (s *MemoryStore) GetProjects(ctx context.Context) ([]models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, cloneProject(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) GetProject(ctx context.Context, id int64) (models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[id]
	if !ok {
		return models.Project{}, ErrNotFound
	}
	return cloneProject(p), nil
}

func (s *MemoryStore) CreateProject(ctx context.Context, in models.NewProject) (models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextProjectID
	s.nextProjectID++
	p := in.Project(id, time.Now().UTC())
	s.projects[id] = p
	return cloneProject(p), nil
}

func (s *MemoryStore) UpdateProject(ctx context.Context, id int64, patch models.ProjectPatch) (models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return models.Project{}, ErrNotFound
	}
	patch.Apply(&p)
	s.projects[id] = p
	return cloneProject(p), nil
}

func (s *MemoryStore) DeleteProject(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.projects, id)
	return nil
}

// Blog post operations

func (s *MemoryStore) GetBlogPosts(ctx context.Context) ([]models.BlogPost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.BlogPost, 0, len(s.blogPosts))
	for _, b := range s.blogPosts {
		out = append(out, cloneBlogPost(b))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) GetBlogPost(ctx context.Context, id int64) (models.BlogPost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.blogPosts[id]
	if !ok {
		return models.BlogPost{}, ErrNotFound
	}
	return cloneBlogPost(b), nil
}

func (s *MemoryStore) CreateBlogPost(ctx context.Context, in models.NewBlogPost) (models.BlogPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextBlogPostID
	s.nextBlogPostID++
	b := in.BlogPost(id, time.Now().UTC())
	s.blogPosts[id] = b
	return cloneBlogPost(b), nil
}

func (s *MemoryStore) UpdateBlogPost(ctx context.Context, id int64, patch models.BlogPostPatch) (models.BlogPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.blogPosts[id]
	if !ok {
		return models.BlogPost{}, ErrNotFound
	}
	patch.Apply(&b)
	s.blogPosts[id] = b
	return cloneBlogPost(b), nil
}

func (s *MemoryStore) DeleteBlogPost(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blogPosts, id)
	return nil
}

// Stored rows share no slices with callers.
func cloneProject(p models.Project) models.Project {
	p.Technologies = append([]string{}, p.Technologies...)
	return p
}

func cloneBlogPost(b models.BlogPost) models.BlogPost {
	b.Tags = append([]string{}, b.Tags...)
	return b
}
