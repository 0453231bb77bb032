package services

import (
	"context"
	"encoding/json"

	"github.com/hangoctan1012/FaceCookTan/pkg/messaging"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// FollowerStore answers follower lookups from the follow table.
type FollowerStore interface {
	FollowerIDs(ctx context.Context, userID string) ([]string, error)
}

// FollowersRPC is the server half of the follower-list RPC used by the
// notification fan-out.
type FollowersRPC struct {
	store   FollowerStore
	replier messaging.Replier
	log     *logrus.Logger
}

func NewFollowersRPC(store FollowerStore, replier messaging.Replier, log *logrus.Logger) *FollowersRPC {
	return &FollowersRPC{
		store:   store,
		replier: replier,
		log:     log,
	}
}

// Handle serves one request. It always returns nil: the request is acked
// whether or not an answer could be produced, so a bad request can never
// loop on the queue.
func (s *FollowersRPC) Handle(ctx context.Context, delivery amqp.Delivery) error {
	var req messaging.FollowersRequest
	if err := json.Unmarshal(delivery.Body, &req); err != nil {
		s.log.WithError(err).Warn("Malformed followers request, dropping")
		return nil
	}

	if req.Type != "get_followers" {
		return nil
	}

	followers, err := s.store.FollowerIDs(ctx, req.ActorID)
	if err != nil {
		s.log.WithError(err).Errorf("Failed to look up followers of %s", req.ActorID)
		return nil
	}

	resp := messaging.FollowersResponse{
		ActorID:   req.ActorID,
		Followers: followers,
	}
	if err := s.replier.Reply(ctx, delivery, resp); err != nil {
		s.log.WithError(err).Error("Failed to reply to followers request")
	}
	return nil
}
