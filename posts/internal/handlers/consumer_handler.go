package handlers

import (
	"context"
	"encoding/json"

	services "github.com/hangoctan1012/FaceCookTan/posts/internal/service"
	"github.com/hangoctan1012/FaceCookTan/pkg/messaging"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

type ConsumerHandler struct {
	cascade *services.CascadeService
	log     *logrus.Logger
}

func NewConsumerHandler(cascade *services.CascadeService, log *logrus.Logger) *ConsumerHandler {
	return &ConsumerHandler{
		cascade: cascade,
		log:     log,
	}
}

// HandleDeleteCommand runs the cascade named by a moderation deletion
// command. Unknown or incomplete commands are logged and dropped; a
// returned error triggers the consumer's retry policy.
func (h *ConsumerHandler) HandleDeleteCommand(ctx context.Context, delivery amqp.Delivery) error {
	var cmd messaging.DeleteCommand
	if err := json.Unmarshal(delivery.Body, &cmd); err != nil {
		h.log.WithError(err).Warnf("Malformed delete command %s, dropping", delivery.MessageId)
		return nil
	}

	if cmd.Type == "" || cmd.Target == "" {
		h.log.Warn("Delete command missing type or target, dropping")
		return nil
	}

	switch cmd.Type {
	case "post":
		result, err := h.cascade.DeletePost(ctx, cmd.Target)
		if err != nil {
			return err
		}
		h.log.WithFields(logrus.Fields{
			"post":     cmd.Target,
			"deleted":  result.DeletedPost,
			"comments": result.DeletedComments,
			"likes":    result.DeletedLikes,
			"saves":    result.DeletedSaves,
		}).Info("Post cascade finished")

	case "comment":
		result, err := h.cascade.DeleteComment(ctx, cmd.Target)
		if err != nil {
			return err
		}
		h.log.WithFields(logrus.Fields{
			"comment": cmd.Target,
			"deleted": result.DeletedComment,
			"replies": result.DeletedReplies,
			"post":    result.PostID,
		}).Info("Comment cascade finished")

	default:
		h.log.Warnf("Unknown delete command type: %s", cmd.Type)
	}

	return nil
}
