package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	models "github.com/hangoctan1012/FaceCookTan/notify/internal/models"
	"github.com/hangoctan1012/FaceCookTan/pkg/messaging"

	"github.com/sirupsen/logrus"
)

// NotificationStore persists notification records.
type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
}

// FollowerSource answers "who follows this user" — backed by the RPC to
// the user service.
type FollowerSource interface {
	Followers(ctx context.Context, actorID string) ([]string, error)
}

// Pusher delivers best-effort live updates.
type Pusher interface {
	Push(userID string, payload interface{})
}

// PushUpdate is the live payload sent to connected clients alongside the
// persisted notification.
type PushUpdate struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	ActorID   string    `json:"actorID"`
	TargetID  string    `json:"targetID"`
	CreatedAt time.Time `json:"createdAt"`
}

// NotifyService interprets tagged events from the notification queue and
// fans them out into notification records and live pushes.
type NotifyService struct {
	store     NotificationStore
	followers FollowerSource
	pusher    Pusher
	log       *logrus.Logger
}

func NewNotifyService(store NotificationStore, followers FollowerSource, pusher Pusher, log *logrus.Logger) *NotifyService {
	return &NotifyService{
		store:     store,
		followers: followers,
		pusher:    pusher,
		log:       log,
	}
}

// HandleEvent dispatches on the event type. Unrecognized types are
// dropped without effect; a nil return means the delivery is acked.
func (s *NotifyService) HandleEvent(ctx context.Context, ev messaging.NotificationEvent) error {
	switch {
	case ev.Type == models.TypeNewPost:
		return s.fanOutNewPost(ctx, ev)
	case ev.Type == models.TypeComment || ev.Type == models.TypeReply:
		return s.notifyCommented(ctx, ev)
	case s.isSingleRecipient(ev.Type):
		return s.notifyOne(ctx, ev.UserID, ev.ActorID, ev.Type, ev.TargetID)
	default:
		s.log.Warnf("Unknown notification event type: %s", ev.Type)
		return nil
	}
}

func (s *NotifyService) isSingleRecipient(eventType string) bool {
	switch eventType {
	case models.TypePostRemoved, models.TypeCommentRemove, models.TypeLike, models.TypeFollow:
		return true
	}
	return strings.HasPrefix(eventType, models.WarnPrefix) ||
		strings.HasPrefix(eventType, models.BanPrefix)
}

// fanOutNewPost looks up the actor's followers once per event, then
// creates one notification and one push per follower.
func (s *NotifyService) fanOutNewPost(ctx context.Context, ev messaging.NotificationEvent) error {
	followers, err := s.followers.Followers(ctx, ev.ActorID)
	if err != nil {
		return fmt.Errorf("get followers for %s: %w", ev.ActorID, err)
	}

	for _, uid := range followers {
		if err := s.notifyOne(ctx, uid, ev.ActorID, models.TypeNewPost, ev.TargetID); err != nil {
			return err
		}
	}

	s.log.Infof("Fanned out new_post from %s to %d followers", ev.ActorID, len(followers))
	return nil
}

// notifyCommented notifies the post owner (always recorded as a comment)
// and, for a reply carrying the original commenter's id, that commenter
// as well.
func (s *NotifyService) notifyCommented(ctx context.Context, ev messaging.NotificationEvent) error {
	if err := s.notifyOne(ctx, ev.UserID, ev.ActorID, models.TypeComment, ev.TargetID); err != nil {
		return err
	}

	if ev.Type == models.TypeReply && ev.ReplyToUserID != "" {
		return s.notifyOne(ctx, ev.ReplyToUserID, ev.ActorID, models.TypeReply, ev.TargetID)
	}
	return nil
}

func (s *NotifyService) notifyOne(ctx context.Context, userID, actorID, eventType, targetID string) error {
	n := &models.Notification{
		UserID:   userID,
		ActorID:  actorID,
		Type:     eventType,
		TargetID: targetID,
	}
	if err := s.store.Create(ctx, n); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	s.pusher.Push(userID, PushUpdate{
		ID:        n.ID,
		Type:      n.Type,
		ActorID:   n.ActorID,
		TargetID:  n.TargetID,
		CreatedAt: n.CreatedAt,
	})
	return nil
}
