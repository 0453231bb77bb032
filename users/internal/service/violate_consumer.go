package services

import (
	"context"
	"encoding/json"
	"fmt"

	models "github.com/hangoctan1012/FaceCookTan/users/internal/models"
	"github.com/hangoctan1012/FaceCookTan/pkg/messaging"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// UserStore mutates user records for moderation markers.
type UserStore interface {
	PrependTag(ctx context.Context, id, tag string) (bool, error)
}

// ViolateService applies moderation markers to user records.
type ViolateService struct {
	users UserStore
	log   *logrus.Logger
}

func NewViolateService(users UserStore, log *logrus.Logger) *ViolateService {
	return &ViolateService{users: users, log: log}
}

// Handle marks the named user as violated. A returned error gets the
// delivery nacked and redelivered; malformed or incomplete commands are
// dropped instead.
func (s *ViolateService) Handle(ctx context.Context, delivery amqp.Delivery) error {
	var cmd messaging.ViolateUserCommand
	if err := json.Unmarshal(delivery.Body, &cmd); err != nil {
		s.log.WithError(err).Warn("Malformed violate command, dropping")
		return nil
	}

	if cmd.UserID == "" {
		s.log.Warn("Violate command missing userID, dropping")
		return nil
	}

	found, err := s.users.PrependTag(ctx, cmd.UserID, models.ViolatedTag)
	if err != nil {
		return fmt.Errorf("tag user %s: %w", cmd.UserID, err)
	}
	if !found {
		s.log.Warnf("User not found for violation: %s", cmd.UserID)
		return nil
	}

	s.log.Infof("User %s marked as violated", cmd.UserID)
	return nil
}
