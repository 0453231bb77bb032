package services

import (
	"context"
	"errors"
	"fmt"

	models "github.com/hangoctan1012/FaceCookTan/stats/internal/models"
	"github.com/hangoctan1012/FaceCookTan/pkg/messaging"

	"github.com/sirupsen/logrus"
)

var ErrInvalidViolation = errors.New("violation needs a userID and an action")

type ViolationWriter interface {
	Create(ctx context.Context, v *models.Violation) error
}

// CommandPublisher publishes moderation commands and events to queues.
type CommandPublisher interface {
	Publish(ctx context.Context, queue string, payload interface{}) error
}

// ModerationService is the moderation write path: record the decision,
// route the matching command to the service owning the target, and notify
// the penalized user.
type ModerationService struct {
	violations ViolationWriter
	publisher  CommandPublisher
	log        *logrus.Logger
}

func NewModerationService(violations ViolationWriter, publisher CommandPublisher, log *logrus.Logger) *ModerationService {
	return &ModerationService{
		violations: violations,
		publisher:  publisher,
		log:        log,
	}
}

// ApplyViolation persists the violation and fans out the moderation
// commands. The queue publishes are fire-and-forget: a failure is logged
// and the already-persisted violation stands.
func (m *ModerationService) ApplyViolation(ctx context.Context, v *models.Violation) error {
	if v.UserID == "" || v.Action == "" {
		return ErrInvalidViolation
	}

	if err := m.violations.Create(ctx, v); err != nil {
		return fmt.Errorf("save violation: %w", err)
	}

	var queue string
	switch v.Type {
	case models.TargetPost, models.TargetComment:
		queue = messaging.QueueViolatePost
	case models.TargetUser:
		queue = messaging.QueueViolateUser
	default:
		queue = messaging.QueueViolateOther
	}

	command := messaging.ViolateUserCommand{
		Event:     "violation",
		UserID:    v.UserID,
		Action:    v.Action,
		Type:      v.Type,
		Target:    v.Target,
		Reason:    v.Reason,
		End:       v.End,
		ExpiredAt: v.ExpiredAt,
	}
	if err := m.publisher.Publish(ctx, queue, command); err != nil {
		m.log.WithError(err).Errorf("Failed to publish violation command to %s", queue)
	}

	targetKind := v.Type
	if targetKind == "" {
		targetKind = models.TargetUser
	}
	notify := messaging.NotificationEvent{
		ActorID:  "System",
		UserID:   v.UserID,
		Type:     v.Action + "_" + targetKind, // warn_user, ban_post, ...
		TargetID: v.Target,
	}
	if err := m.publisher.Publish(ctx, messaging.QueueNotifications, notify); err != nil {
		m.log.WithError(err).Error("Failed to publish violation notification")
	}

	return nil
}
