package handlers

import (
	"context"
	"encoding/json"

	services "github.com/hangoctan1012/FaceCookTan/notify/internal/service"
	"github.com/hangoctan1012/FaceCookTan/pkg/messaging"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

type ConsumerHandler struct {
	notifyService *services.NotifyService
	log           *logrus.Logger
}

func NewConsumerHandler(notifyService *services.NotifyService, log *logrus.Logger) *ConsumerHandler {
	return &ConsumerHandler{
		notifyService: notifyService,
		log:           log,
	}
}

// HandleNotificationEvent decodes a notification event and runs the
// fan-out. Malformed bodies are logged and dropped; returning nil acks
// them.
func (h *ConsumerHandler) HandleNotificationEvent(ctx context.Context, delivery amqp.Delivery) error {
	var ev messaging.NotificationEvent
	if err := json.Unmarshal(delivery.Body, &ev); err != nil {
		h.log.WithError(err).Warnf("Malformed notification event %s, dropping", delivery.MessageId)
		return nil
	}

	h.log.WithFields(logrus.Fields{
		"type":  ev.Type,
		"actor": ev.ActorID,
	}).Info("Received notification event")

	return h.notifyService.HandleEvent(ctx, ev)
}
