package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	models "github.com/hangoctan1012/FaceCookTan/stats/internal/models"
	"github.com/hangoctan1012/FaceCookTan/pkg/messaging"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

type SearchStore interface {
	Create(ctx context.Context, search *models.Search) error
	GetTop(ctx context.Context, target string) (*models.TopSearch, error)
	CreateTop(ctx context.Context, top *models.TopSearch) error
	BumpTop(ctx context.Context, target string, types []string) error
}

type ReportStore interface {
	Create(ctx context.Context, report *models.Report) error
}

type ViolationStore interface {
	LatestActiveBan(ctx context.Context, userID, kind string) (*models.Violation, error)
}

// StatsService consumes the shared stats queue: search events feed the
// rolling counters, report events are persisted verbatim, and violation
// checks are answered over the RPC reply path.
type StatsService struct {
	searches   SearchStore
	reports    ReportStore
	violations ViolationStore
	replier    messaging.Replier
	now        func() time.Time
	log        *logrus.Logger
}

func NewStatsService(
	searches SearchStore,
	reports ReportStore,
	violations ViolationStore,
	replier messaging.Replier,
	log *logrus.Logger,
) *StatsService {
	return &StatsService{
		searches:   searches,
		reports:    reports,
		violations: violations,
		replier:    replier,
		now:        time.Now,
		log:        log,
	}
}

// Handle processes one delivery. Unrecognized payloads are logged and
// acked; a returned error gets the message nacked and redelivered.
func (s *StatsService) Handle(ctx context.Context, delivery amqp.Delivery) error {
	event, err := DecodeStatsEvent(delivery.Body)
	if err != nil {
		if errors.Is(err, ErrUnknownShape) {
			s.log.Warnf("Unrecognized stats payload %s, dropping", delivery.MessageId)
		} else {
			s.log.WithError(err).Warnf("Malformed stats payload %s, dropping", delivery.MessageId)
		}
		return nil
	}

	switch event := event.(type) {
	case SearchEvent:
		return s.handleSearch(ctx, event)
	case ReportEvent:
		return s.handleReport(ctx, event)
	case messaging.ViolationCheckRequest:
		return s.handleViolationCheck(ctx, delivery, event)
	}
	return nil
}

func (s *StatsService) handleSearch(ctx context.Context, ev SearchEvent) error {
	search := &models.Search{
		Keyword: ev.Keyword,
		Types:   ev.Types,
		Targets: ev.Targets,
	}
	if err := s.searches.Create(ctx, search); err != nil {
		return fmt.Errorf("save search event: %w", err)
	}

	for _, target := range ev.Targets {
		top, err := s.searches.GetTop(ctx, target)
		if err != nil {
			return fmt.Errorf("load top search %q: %w", target, err)
		}

		if top == nil {
			err = s.searches.CreateTop(ctx, &models.TopSearch{
				Target: target,
				Types:  ev.Types,
				Count:  1,
			})
		} else {
			err = s.searches.BumpTop(ctx, target, MergeTags(top.Types, ev.Types))
		}
		if err != nil {
			return fmt.Errorf("update top search %q: %w", target, err)
		}
	}

	return nil
}

func (s *StatsService) handleReport(ctx context.Context, ev ReportEvent) error {
	report := &models.Report{
		Author:       ev.Author,
		ReportedUser: ev.ReportedUser,
		Type:         ev.Type,
		Target:       ev.Target,
		Content:      ev.Content,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

// handleViolationCheck is the server half of the violation-check RPC.
// The request is answered and acked whatever happens; an unanswerable
// check must not loop on the queue, the caller's deadline covers it.
func (s *StatsService) handleViolationCheck(ctx context.Context, delivery amqp.Delivery, req messaging.ViolationCheckRequest) error {
	kind := strings.TrimPrefix(req.Check, ViolationPrefix)

	ban, err := s.violations.LatestActiveBan(ctx, req.UserID, kind)
	if err != nil {
		s.log.WithError(err).Errorf("Failed to look up ban for user %s kind %s", req.UserID, kind)
		return nil
	}

	result := EvaluateBan(ban, s.now())
	if err := s.replier.Reply(ctx, delivery, result); err != nil {
		s.log.WithError(err).Error("Failed to reply to violation check")
	}
	return nil
}
