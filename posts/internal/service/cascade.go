package services

import (
	"context"
	"fmt"
	"time"

	models "github.com/hangoctan1012/FaceCookTan/posts/internal/models"

	"github.com/sirupsen/logrus"
)

type PostStore interface {
	Delete(ctx context.Context, id string) (createdAt time.Time, ok bool, err error)
	AddCommentCount(ctx context.Context, postID string, delta int) error
}

type CommentStore interface {
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	Delete(ctx context.Context, id string) (bool, error)
	IDsByParent(ctx context.Context, parentID string) ([]string, error)
	DeleteByParents(ctx context.Context, ids []string) (int64, error)
	DeleteByPost(ctx context.Context, postID string) (int64, error)
}

type EngagementStore interface {
	DeleteLikesByPost(ctx context.Context, postID string) (int64, error)
	DeleteSavesByPost(ctx context.Context, postID string) (int64, error)
}

type CounterStore interface {
	DecMonthlyCount(ctx context.Context, year, month int) error
}

type PostCascadeResult struct {
	DeletedPost     bool
	DeletedComments int64
	DeletedLikes    int64
	DeletedSaves    int64
}

type CommentCascadeResult struct {
	DeletedComment bool
	DeletedReplies int64
	PostID         string
}

// CascadeService performs the ordered multi-entity deletions driven by
// moderation decisions. Every step is a plain delete or atomic decrement
// that is a no-op against already-removed rows, so a cascade replayed
// from the top runs to completion safely.
type CascadeService struct {
	posts       PostStore
	comments    CommentStore
	engagements EngagementStore
	counters    CounterStore
	log         *logrus.Logger
}

func NewCascadeService(
	posts PostStore,
	comments CommentStore,
	engagements EngagementStore,
	counters CounterStore,
	log *logrus.Logger,
) *CascadeService {
	return &CascadeService{
		posts:       posts,
		comments:    comments,
		engagements: engagements,
		counters:    counters,
		log:         log,
	}
}

// DeletePost removes the post, its comments, likes and saves, and finally
// decrements the posting counter of the post's creation month. An absent
// post short-circuits the whole cascade: redelivery of an already-applied
// command is a no-op.
func (s *CascadeService) DeletePost(ctx context.Context, postID string) (*PostCascadeResult, error) {
	createdAt, deleted, err := s.posts.Delete(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("delete post %s: %w", postID, err)
	}
	if !deleted {
		return &PostCascadeResult{}, nil
	}

	result := &PostCascadeResult{DeletedPost: true}

	if result.DeletedComments, err = s.comments.DeleteByPost(ctx, postID); err != nil {
		return result, fmt.Errorf("delete comments of post %s: %w", postID, err)
	}
	if result.DeletedLikes, err = s.engagements.DeleteLikesByPost(ctx, postID); err != nil {
		return result, fmt.Errorf("delete likes of post %s: %w", postID, err)
	}
	if result.DeletedSaves, err = s.engagements.DeleteSavesByPost(ctx, postID); err != nil {
		return result, fmt.Errorf("delete saves of post %s: %w", postID, err)
	}

	// counter adjusted only when this run actually removed the post row
	if err := s.counters.DecMonthlyCount(ctx, createdAt.Year(), int(createdAt.Month())); err != nil {
		return result, fmt.Errorf("decrement monthly counter: %w", err)
	}

	return result, nil
}

// DeleteComment removes the comment, its direct replies and their replies,
// then decrements the owning post's comment counter by one.
func (s *CascadeService) DeleteComment(ctx context.Context, commentID string) (*CommentCascadeResult, error) {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, fmt.Errorf("load comment %s: %w", commentID, err)
	}
	if comment == nil {
		return &CommentCascadeResult{}, nil
	}

	result := &CommentCascadeResult{PostID: comment.PostID}

	if result.DeletedComment, err = s.comments.Delete(ctx, commentID); err != nil {
		return result, fmt.Errorf("delete comment %s: %w", commentID, err)
	}

	// collect the direct reply ids before removing them so the next level
	// down can still be found
	replyIDs, err := s.comments.IDsByParent(ctx, commentID)
	if err != nil {
		return result, fmt.Errorf("list replies of comment %s: %w", commentID, err)
	}

	deleted, err := s.comments.DeleteByParents(ctx, []string{commentID})
	if err != nil {
		return result, fmt.Errorf("delete replies of comment %s: %w", commentID, err)
	}
	result.DeletedReplies += deleted

	if len(replyIDs) > 0 {
		deleted, err = s.comments.DeleteByParents(ctx, replyIDs)
		if err != nil {
			return result, fmt.Errorf("delete nested replies of comment %s: %w", commentID, err)
		}
		result.DeletedReplies += deleted
	}

	if err := s.posts.AddCommentCount(ctx, comment.PostID, -1); err != nil {
		return result, fmt.Errorf("decrement comment count of post %s: %w", comment.PostID, err)
	}

	return result, nil
}
