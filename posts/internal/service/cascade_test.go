package services

import (
	"context"
	"io"
	"testing"
	"time"

	models "github.com/hangoctan1012/FaceCookTan/posts/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore backs all four cascade store interfaces with in-memory maps,
// mirroring the row-level semantics of the SQL repositories: deletes of
// absent rows report zero rows affected.
type memStore struct {
	posts    map[string]*models.Post
	comments map[string]*models.Comment
	likes    map[string]string // like id -> post id
	saves    map[string]string
	counters map[[2]int]int

	counterDecs int
}

func newMemStore() *memStore {
	return &memStore{
		posts:    make(map[string]*models.Post),
		comments: make(map[string]*models.Comment),
		likes:    make(map[string]string),
		saves:    make(map[string]string),
		counters: make(map[[2]int]int),
	}
}

func (m *memStore) Delete(_ context.Context, id string) (time.Time, bool, error) {
	post, ok := m.posts[id]
	if !ok {
		return time.Time{}, false, nil
	}
	delete(m.posts, id)
	return post.CreatedAt, true, nil
}

func (m *memStore) AddCommentCount(_ context.Context, postID string, delta int) error {
	if post, ok := m.posts[postID]; ok {
		post.CommentCount += delta
	}
	return nil
}

func (m *memStore) GetByID(_ context.Context, id string) (*models.Comment, error) {
	comment, ok := m.comments[id]
	if !ok {
		return nil, nil
	}
	copied := *comment
	return &copied, nil
}

func (m *memStore) DeleteComment(_ context.Context, id string) (bool, error) {
	if _, ok := m.comments[id]; !ok {
		return false, nil
	}
	delete(m.comments, id)
	return true, nil
}

func (m *memStore) IDsByParent(_ context.Context, parentID string) ([]string, error) {
	var ids []string
	for id, c := range m.comments {
		if c.ParentID != nil && *c.ParentID == parentID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (m *memStore) DeleteByParents(_ context.Context, parents []string) (int64, error) {
	wanted := make(map[string]struct{}, len(parents))
	for _, p := range parents {
		wanted[p] = struct{}{}
	}
	var deleted int64
	for id, c := range m.comments {
		if c.ParentID == nil {
			continue
		}
		if _, ok := wanted[*c.ParentID]; ok {
			delete(m.comments, id)
			deleted++
		}
	}
	return deleted, nil
}

func (m *memStore) DeleteByPost(_ context.Context, postID string) (int64, error) {
	var deleted int64
	for id, c := range m.comments {
		if c.PostID == postID {
			delete(m.comments, id)
			deleted++
		}
	}
	return deleted, nil
}

func (m *memStore) DeleteLikesByPost(_ context.Context, postID string) (int64, error) {
	var deleted int64
	for id, pid := range m.likes {
		if pid == postID {
			delete(m.likes, id)
			deleted++
		}
	}
	return deleted, nil
}

func (m *memStore) DeleteSavesByPost(_ context.Context, postID string) (int64, error) {
	var deleted int64
	for id, pid := range m.saves {
		if pid == postID {
			delete(m.saves, id)
			deleted++
		}
	}
	return deleted, nil
}

func (m *memStore) DecMonthlyCount(_ context.Context, year, month int) error {
	m.counters[[2]int{year, month}]--
	m.counterDecs++
	return nil
}

// commentStoreShim renames DeleteComment back to the interface's Delete:
// memStore already uses Delete for posts.
type commentStoreShim struct{ *memStore }

func (s commentStoreShim) Delete(ctx context.Context, id string) (bool, error) {
	return s.DeleteComment(ctx, id)
}

func newCascade(m *memStore) *CascadeService {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewCascadeService(m, commentStoreShim{m}, m, m, log)
}

func strPtr(s string) *string { return &s }

func TestCascadeDeletePost(t *testing.T) {
	t.Parallel()

	t.Run("removes post with all engagement", func(t *testing.T) {
		t.Parallel()
		m := newMemStore()
		created := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
		m.posts["p1"] = &models.Post{ID: "p1", UserID: "u1", CreatedAt: created}
		m.posts["p2"] = &models.Post{ID: "p2", UserID: "u1", CreatedAt: created}
		m.comments["c1"] = &models.Comment{ID: "c1", PostID: "p1"}
		m.comments["c2"] = &models.Comment{ID: "c2", PostID: "p1", ParentID: strPtr("c1"), Depth: 1}
		m.comments["c3"] = &models.Comment{ID: "c3", PostID: "p2"}
		m.likes["l1"] = "p1"
		m.likes["l2"] = "p1"
		m.likes["l3"] = "p2"
		m.saves["s1"] = "p1"

		result, err := newCascade(m).DeletePost(context.Background(), "p1")
		require.NoError(t, err)

		assert.True(t, result.DeletedPost)
		assert.EqualValues(t, 2, result.DeletedComments)
		assert.EqualValues(t, 2, result.DeletedLikes)
		assert.EqualValues(t, 1, result.DeletedSaves)

		assert.NotContains(t, m.posts, "p1")
		assert.Contains(t, m.posts, "p2", "other posts are untouched")
		assert.Contains(t, m.comments, "c3")
		assert.Contains(t, m.likes, "l3")
		assert.Equal(t, -1, m.counters[[2]int{2025, 3}], "creation month counter decremented")
	})

	t.Run("redelivery is a no-op", func(t *testing.T) {
		t.Parallel()
		m := newMemStore()
		m.posts["p1"] = &models.Post{ID: "p1", CreatedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)}
		svc := newCascade(m)

		_, err := svc.DeletePost(context.Background(), "p1")
		require.NoError(t, err)

		result, err := svc.DeletePost(context.Background(), "p1")
		require.NoError(t, err)

		assert.False(t, result.DeletedPost)
		assert.Equal(t, 1, m.counterDecs, "counter only moves for the run that removed the row")
	})
}

func TestCascadeDeleteComment(t *testing.T) {
	t.Parallel()

	t.Run("removes comment thread and decrements count", func(t *testing.T) {
		t.Parallel()
		m := newMemStore()
		m.posts["p1"] = &models.Post{ID: "p1", CommentCount: 4}
		m.comments["c1"] = &models.Comment{ID: "c1", PostID: "p1"}
		m.comments["c2"] = &models.Comment{ID: "c2", PostID: "p1", ParentID: strPtr("c1"), Depth: 1}
		m.comments["c3"] = &models.Comment{ID: "c3", PostID: "p1", ParentID: strPtr("c2"), Depth: 2}
		m.comments["c4"] = &models.Comment{ID: "c4", PostID: "p1"}

		result, err := newCascade(m).DeleteComment(context.Background(), "c1")
		require.NoError(t, err)

		assert.True(t, result.DeletedComment)
		assert.EqualValues(t, 2, result.DeletedReplies)
		assert.Equal(t, "p1", result.PostID)

		assert.NotContains(t, m.comments, "c2")
		assert.NotContains(t, m.comments, "c3")
		assert.Contains(t, m.comments, "c4", "sibling threads survive")
		assert.Equal(t, 3, m.posts["p1"].CommentCount, "counter drops by one regardless of reply count")
	})

	t.Run("leaf comment deletes nothing else", func(t *testing.T) {
		t.Parallel()
		m := newMemStore()
		m.posts["p1"] = &models.Post{ID: "p1", CommentCount: 1}
		m.comments["c1"] = &models.Comment{ID: "c1", PostID: "p1"}

		result, err := newCascade(m).DeleteComment(context.Background(), "c1")
		require.NoError(t, err)

		assert.True(t, result.DeletedComment)
		assert.Zero(t, result.DeletedReplies)
		assert.Equal(t, 0, m.posts["p1"].CommentCount)
	})

	t.Run("absent comment is a no-op", func(t *testing.T) {
		t.Parallel()
		m := newMemStore()
		m.posts["p1"] = &models.Post{ID: "p1", CommentCount: 2}

		result, err := newCascade(m).DeleteComment(context.Background(), "gone")
		require.NoError(t, err)

		assert.False(t, result.DeletedComment)
		assert.Empty(t, result.PostID)
		assert.Equal(t, 2, m.posts["p1"].CommentCount, "no decrement without a deleted row")
	})
}
