// Package mock provides in-memory repository implementations for tests.
// All repositories created by NewRepos share one store, so posts created
// through the post repository see users and groups created through theirs.
package mock

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dkoval/postium/internal/app/models"
	"github.com/dkoval/postium/internal/pkg/apperrors"
)

type followKey struct {
	userID   int64
	authorID int64
}

type store struct {
	mu sync.RWMutex

	users      map[int64]*models.User
	nextUserID int64

	groups      map[int64]*models.Group
	nextGroupID int64

	posts      map[int64]*models.Post
	nextPostID int64

	comments      map[int64]*models.Comment
	nextCommentID int64

	follows      map[followKey]int64
	nextFollowID int64

	seq int64
}

// now returns a strictly increasing timestamp so ordering assertions are
// stable even when several rows are created within the same tick.
func (s *store) now() time.Time {
	s.seq++
	return time.Now().Add(time.Duration(s.seq) * time.Microsecond)
}

// Repos bundles all mock repositories over a shared store.
type Repos struct {
	Users    *UserRepository
	Groups   *GroupRepository
	Posts    *PostRepository
	Comments *CommentRepository
	Follows  *FollowRepository
}

func NewRepos() *Repos {
	s := &store{
		users:         make(map[int64]*models.User),
		nextUserID:    1,
		groups:        make(map[int64]*models.Group),
		nextGroupID:   1,
		posts:         make(map[int64]*models.Post),
		nextPostID:    1,
		comments:      make(map[int64]*models.Comment),
		nextCommentID: 1,
		follows:       make(map[followKey]int64),
		nextFollowID:  1,
	}
	return &Repos{
		Users:    &UserRepository{s: s},
		Groups:   &GroupRepository{s: s},
		Posts:    &PostRepository{s: s},
		Comments: &CommentRepository{s: s},
		Follows:  &FollowRepository{s: s},
	}
}

// UserRepository implementation

type UserRepository struct {
	s *store
}

func (m *UserRepository) Create(_ context.Context, user *models.User) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	for _, u := range m.s.users {
		if u.Username == user.Username {
			return 0, apperrors.ErrUsernameTaken
		}
		if u.Email == user.Email {
			return 0, apperrors.ErrEmailTaken
		}
	}

	user.ID = m.s.nextUserID
	m.s.nextUserID++
	if user.JoinedAt.IsZero() {
		user.JoinedAt = m.s.now()
	}
	stored := *user
	m.s.users[user.ID] = &stored
	return user.ID, nil
}

func (m *UserRepository) FindByID(_ context.Context, id int64) (*models.User, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	u, ok := m.s.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

func (m *UserRepository) FindByUsername(_ context.Context, username string) (*models.User, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	for _, u := range m.s.users {
		if u.Username == username {
			out := *u
			return &out, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

// Delete removes a user and everything the ON DELETE CASCADE actions would
// take with them: their posts, comments on those posts, their own comments
// and every follow row they appear in.
func (m *UserRepository) Delete(_ context.Context, id int64) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if _, ok := m.s.users[id]; !ok {
		return apperrors.ErrUserNotFound
	}
	delete(m.s.users, id)

	for postID, p := range m.s.posts {
		if p.AuthorID == id {
			delete(m.s.posts, postID)
			for commentID, cm := range m.s.comments {
				if cm.PostID == postID {
					delete(m.s.comments, commentID)
				}
			}
		}
	}
	for commentID, cm := range m.s.comments {
		if cm.AuthorID == id {
			delete(m.s.comments, commentID)
		}
	}
	for key := range m.s.follows {
		if key.userID == id || key.authorID == id {
			delete(m.s.follows, key)
		}
	}
	return nil
}

// GroupRepository implementation

type GroupRepository struct {
	s *store
}

func (m *GroupRepository) Create(_ context.Context, group *models.Group) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	for _, g := range m.s.groups {
		if g.Slug == group.Slug {
			return 0, apperrors.ErrSlugTaken
		}
	}

	group.ID = m.s.nextGroupID
	m.s.nextGroupID++
	stored := *group
	m.s.groups[group.ID] = &stored
	return group.ID, nil
}

func (m *GroupRepository) FindBySlug(_ context.Context, slug string) (*models.Group, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	for _, g := range m.s.groups {
		if g.Slug == slug {
			out := *g
			return &out, nil
		}
	}
	return nil, apperrors.ErrGroupNotFound
}

func (m *GroupRepository) GetAll(_ context.Context) ([]models.Group, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	groups := make([]models.Group, 0, len(m.s.groups))
	for _, g := range m.s.groups {
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Title < groups[j].Title })
	return groups, nil
}

// Delete removes a group and nulls the group reference on its posts, the
// way the ON DELETE SET NULL action does. The posts themselves survive.
func (m *GroupRepository) Delete(_ context.Context, id int64) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if _, ok := m.s.groups[id]; !ok {
		return apperrors.ErrGroupNotFound
	}
	delete(m.s.groups, id)

	for _, p := range m.s.posts {
		if p.GroupID != nil && *p.GroupID == id {
			p.GroupID = nil
			p.Group = nil
		}
	}
	return nil
}

// PostRepository implementation

type PostRepository struct {
	s *store
}

// fkViolation mirrors what the driver reports when a post references a
// missing group.
func fkViolation() error {
	return &pgconn.PgError{Code: "23503", ConstraintName: "posts_group_id_fkey"}
}

func (m *PostRepository) Create(_ context.Context, post *models.Post) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if post.GroupID != nil {
		if _, ok := m.s.groups[*post.GroupID]; !ok {
			return 0, fkViolation()
		}
	}
	if _, ok := m.s.users[post.AuthorID]; !ok {
		return 0, &pgconn.PgError{Code: "23503", ConstraintName: "posts_author_id_fkey"}
	}

	post.ID = m.s.nextPostID
	m.s.nextPostID++
	post.PubDate = m.s.now()
	stored := *post
	m.s.posts[post.ID] = &stored
	return post.ID, nil
}

// Update changes text, group and image only. The publication date and the
// author are immutable.
func (m *PostRepository) Update(_ context.Context, post *models.Post) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	existing, ok := m.s.posts[post.ID]
	if !ok {
		return apperrors.ErrPostNotFound
	}
	if post.GroupID != nil {
		if _, found := m.s.groups[*post.GroupID]; !found {
			return fkViolation()
		}
	}

	existing.Text = post.Text
	existing.GroupID = post.GroupID
	existing.Image = post.Image
	return nil
}

func (m *PostRepository) FindByAuthorAndID(_ context.Context, authorID, postID int64) (*models.Post, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	p, ok := m.s.posts[postID]
	if !ok || p.AuthorID != authorID {
		return nil, apperrors.ErrPostNotFound
	}
	out := m.s.hydrate(p)
	return &out, nil
}

func (m *PostRepository) ListAll(_ context.Context, page, size int) ([]models.Post, int64, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	return m.s.listPosts(func(*models.Post) bool { return true }, page, size)
}

func (m *PostRepository) ListByGroup(_ context.Context, groupID int64, page, size int) ([]models.Post, int64, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	return m.s.listPosts(func(p *models.Post) bool {
		return p.GroupID != nil && *p.GroupID == groupID
	}, page, size)
}

func (m *PostRepository) ListByAuthor(_ context.Context, authorID int64, page, size int) ([]models.Post, int64, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	return m.s.listPosts(func(p *models.Post) bool { return p.AuthorID == authorID }, page, size)
}

func (m *PostRepository) ListFollowed(_ context.Context, userID int64, page, size int) ([]models.Post, int64, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	return m.s.listPosts(func(p *models.Post) bool {
		_, ok := m.s.follows[followKey{userID: userID, authorID: p.AuthorID}]
		return ok
	}, page, size)
}

func (m *PostRepository) CountByAuthor(_ context.Context, authorID int64) (int64, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	var count int64
	for _, p := range m.s.posts {
		if p.AuthorID == authorID {
			count++
		}
	}
	return count, nil
}

// hydrate attaches the author and group the SQL layer would join in.
// Callers hold the store lock.
func (s *store) hydrate(p *models.Post) models.Post {
	out := *p
	if u, ok := s.users[p.AuthorID]; ok {
		author := *u
		out.Author = &author
	}
	if p.GroupID != nil {
		if g, ok := s.groups[*p.GroupID]; ok {
			group := *g
			out.Group = &group
		}
	}
	return out
}

// listPosts filters, orders newest-first and paginates. Callers hold the
// store lock.
func (s *store) listPosts(match func(*models.Post) bool, page, size int) ([]models.Post, int64, error) {
	var all []models.Post
	for _, p := range s.posts {
		if match(p) {
			all = append(all, s.hydrate(p))
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].PubDate.Equal(all[j].PubDate) {
			return all[i].PubDate.After(all[j].PubDate)
		}
		return all[i].ID > all[j].ID
	})

	total := int64(len(all))
	offset := (page - 1) * size
	if offset < 0 {
		offset = 0
	}
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + size
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

// CommentRepository implementation

type CommentRepository struct {
	s *store
}

func (m *CommentRepository) Create(_ context.Context, comment *models.Comment) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if _, ok := m.s.posts[comment.PostID]; !ok {
		return 0, &pgconn.PgError{Code: "23503", ConstraintName: "comments_post_id_fkey"}
	}

	comment.ID = m.s.nextCommentID
	m.s.nextCommentID++
	comment.Created = m.s.now()
	stored := *comment
	m.s.comments[comment.ID] = &stored
	return comment.ID, nil
}

func (m *CommentRepository) ListByPost(_ context.Context, postID int64) ([]models.Comment, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	var out []models.Comment
	for _, c := range m.s.comments {
		if c.PostID != postID {
			continue
		}
		item := *c
		if u, ok := m.s.users[c.AuthorID]; ok {
			author := *u
			item.Author = &author
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Created.Equal(out[j].Created) {
			return out[i].Created.Before(out[j].Created)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *CommentRepository) CountByPost(_ context.Context, postID int64) (int64, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	var count int64
	for _, c := range m.s.comments {
		if c.PostID == postID {
			count++
		}
	}
	return count, nil
}

// FollowRepository implementation

type FollowRepository struct {
	s *store
}

func (m *FollowRepository) Create(_ context.Context, userID, authorID int64) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	key := followKey{userID: userID, authorID: authorID}
	if _, ok := m.s.follows[key]; ok {
		return 0, apperrors.ErrAlreadyFollowing
	}

	id := m.s.nextFollowID
	m.s.nextFollowID++
	m.s.follows[key] = id
	return id, nil
}

func (m *FollowRepository) Delete(_ context.Context, userID, authorID int64) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	delete(m.s.follows, followKey{userID: userID, authorID: authorID})
	return nil
}

func (m *FollowRepository) Exists(_ context.Context, userID, authorID int64) (bool, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	_, ok := m.s.follows[followKey{userID: userID, authorID: authorID}]
	return ok, nil
}

func (m *FollowRepository) CountFollowers(_ context.Context, authorID int64) (int64, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	var count int64
	for key := range m.s.follows {
		if key.authorID == authorID {
			count++
		}
	}
	return count, nil
}

func (m *FollowRepository) CountFollowing(_ context.Context, userID int64) (int64, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	var count int64
	for key := range m.s.follows {
		if key.userID == userID {
			count++
		}
	}
	return count, nil
}

// FollowCount returns the number of stored follow rows; used to assert
// that duplicate follows never produce extra rows.
func (m *FollowRepository) FollowCount() int {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	return len(m.s.follows)
}
