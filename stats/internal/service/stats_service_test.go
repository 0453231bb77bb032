package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	models "github.com/hangoctan1012/FaceCookTan/stats/internal/models"
	"github.com/hangoctan1012/FaceCookTan/pkg/messaging"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSearchStore struct {
	searches []*models.Search
	tops     map[string]*models.TopSearch
}

func newFakeSearchStore() *fakeSearchStore {
	return &fakeSearchStore{tops: make(map[string]*models.TopSearch)}
}

func (s *fakeSearchStore) Create(_ context.Context, search *models.Search) error {
	s.searches = append(s.searches, search)
	return nil
}

func (s *fakeSearchStore) GetTop(_ context.Context, target string) (*models.TopSearch, error) {
	top, ok := s.tops[target]
	if !ok {
		return nil, nil
	}
	copied := *top
	return &copied, nil
}

func (s *fakeSearchStore) CreateTop(_ context.Context, top *models.TopSearch) error {
	s.tops[top.Target] = top
	return nil
}

func (s *fakeSearchStore) BumpTop(_ context.Context, target string, types []string) error {
	top, ok := s.tops[target]
	if !ok {
		return errors.New("bump of missing top search")
	}
	top.Count++
	top.Types = types
	return nil
}

type fakeReportStore struct {
	reports []*models.Report
	err     error
}

func (s *fakeReportStore) Create(_ context.Context, report *models.Report) error {
	if s.err != nil {
		return s.err
	}
	s.reports = append(s.reports, report)
	return nil
}

type fakeViolationStore struct {
	ban       *models.Violation
	err       error
	askedUser string
	askedKind string
}

func (s *fakeViolationStore) LatestActiveBan(_ context.Context, userID, kind string) (*models.Violation, error) {
	s.askedUser = userID
	s.askedKind = kind
	return s.ban, s.err
}

type fakeReplier struct {
	replies []interface{}
}

func (r *fakeReplier) Reply(_ context.Context, _ amqp.Delivery, payload interface{}) error {
	r.replies = append(r.replies, payload)
	return nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestStatsService(
	searches *fakeSearchStore,
	reports *fakeReportStore,
	violations *fakeViolationStore,
	replier *fakeReplier,
	now time.Time,
) *StatsService {
	svc := NewStatsService(searches, reports, violations, replier, quietLogger())
	svc.now = func() time.Time { return now }
	return svc
}

func delivery(t *testing.T, payload interface{}) amqp.Delivery {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return amqp.Delivery{Body: body, ReplyTo: "amq.rabbitmq.reply-to.g1"}
}

func TestStatsServiceSearch(t *testing.T) {
	t.Parallel()

	t.Run("same target searched twice bumps the counter", func(t *testing.T) {
		t.Parallel()
		searches := newFakeSearchStore()
		svc := newTestStatsService(searches, &fakeReportStore{}, &fakeViolationStore{}, &fakeReplier{}, time.Now())

		first := delivery(t, map[string]interface{}{
			"keyword": "pho bo", "type": []string{"post"}, "target": []string{"pho"},
		})
		second := delivery(t, map[string]interface{}{
			"keyword": "pho ga", "type": []string{"recipe"}, "target": []string{"pho"},
		})

		require.NoError(t, svc.Handle(context.Background(), first))
		require.NoError(t, svc.Handle(context.Background(), second))

		assert.Len(t, searches.searches, 2)
		require.Len(t, searches.tops, 1, "two searches for one target must share one counter row")

		top := searches.tops["pho"]
		assert.Equal(t, 2, top.Count)
		assert.Equal(t, []string{"post", "recipe"}, top.Types, "tag lists merge instead of overwriting")
	})

	t.Run("multi-target search counts each target", func(t *testing.T) {
		t.Parallel()
		searches := newFakeSearchStore()
		svc := newTestStatsService(searches, &fakeReportStore{}, &fakeViolationStore{}, &fakeReplier{}, time.Now())

		d := delivery(t, map[string]interface{}{
			"keyword": "noodles", "type": []string{"post"}, "target": []string{"pho", "bun"},
		})
		require.NoError(t, svc.Handle(context.Background(), d))

		assert.Len(t, searches.tops, 2)
		assert.Equal(t, 1, searches.tops["pho"].Count)
		assert.Equal(t, 1, searches.tops["bun"].Count)
	})
}

func TestStatsServiceReport(t *testing.T) {
	t.Parallel()

	t.Run("report is persisted verbatim", func(t *testing.T) {
		t.Parallel()
		reports := &fakeReportStore{}
		svc := newTestStatsService(newFakeSearchStore(), reports, &fakeViolationStore{}, &fakeReplier{}, time.Now())

		d := delivery(t, map[string]interface{}{
			"author": "u1", "reportedUser": "u2", "type": "post", "target": "p9", "content": "spam",
		})
		require.NoError(t, svc.Handle(context.Background(), d))

		require.Len(t, reports.reports, 1)
		assert.Equal(t, "u1", reports.reports[0].Author)
		assert.Equal(t, "p9", reports.reports[0].Target)
	})

	t.Run("store failure requeues", func(t *testing.T) {
		t.Parallel()
		reports := &fakeReportStore{err: errors.New("db down")}
		svc := newTestStatsService(newFakeSearchStore(), reports, &fakeViolationStore{}, &fakeReplier{}, time.Now())

		d := delivery(t, map[string]interface{}{
			"author": "u1", "type": "post", "target": "p9",
		})
		assert.Error(t, svc.Handle(context.Background(), d))
	})
}

func TestStatsServiceViolationCheck(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("active ban is reported back", func(t *testing.T) {
		t.Parallel()
		expiry := now.Add(2 * time.Hour)
		violations := &fakeViolationStore{ban: &models.Violation{
			Action:    models.ActionBan,
			ExpiredAt: &expiry,
		}}
		replier := &fakeReplier{}
		svc := newTestStatsService(newFakeSearchStore(), &fakeReportStore{}, violations, replier, now)

		d := delivery(t, map[string]string{"userID": "u1", "check": "violation_comment"})
		require.NoError(t, svc.Handle(context.Background(), d))

		assert.Equal(t, "u1", violations.askedUser)
		assert.Equal(t, "comment", violations.askedKind, "kind is the check field with the prefix stripped")

		require.Len(t, replier.replies, 1)
		result, ok := replier.replies[0].(messaging.ViolationCheckResult)
		require.True(t, ok)
		assert.False(t, result.Expired)
		assert.Equal(t, models.ActionBan, result.Action)
	})

	t.Run("no ban answers allowed", func(t *testing.T) {
		t.Parallel()
		replier := &fakeReplier{}
		svc := newTestStatsService(newFakeSearchStore(), &fakeReportStore{}, &fakeViolationStore{}, replier, now)

		d := delivery(t, map[string]string{"userID": "u2", "check": "violation_post"})
		require.NoError(t, svc.Handle(context.Background(), d))

		require.Len(t, replier.replies, 1)
		result := replier.replies[0].(messaging.ViolationCheckResult)
		assert.True(t, result.Expired)
	})

	t.Run("lookup failure acks without reply", func(t *testing.T) {
		t.Parallel()
		violations := &fakeViolationStore{err: errors.New("db down")}
		replier := &fakeReplier{}
		svc := newTestStatsService(newFakeSearchStore(), &fakeReportStore{}, violations, replier, now)

		d := delivery(t, map[string]string{"userID": "u3", "check": "violation_user"})
		assert.NoError(t, svc.Handle(context.Background(), d), "an unanswerable check must not loop on the queue")
		assert.Empty(t, replier.replies)
	})
}

func TestStatsServiceDrops(t *testing.T) {
	t.Parallel()

	t.Run("unknown shape is acked", func(t *testing.T) {
		t.Parallel()
		searches := newFakeSearchStore()
		reports := &fakeReportStore{}
		svc := newTestStatsService(searches, reports, &fakeViolationStore{}, &fakeReplier{}, time.Now())

		d := amqp.Delivery{Body: []byte(`{"something":"else"}`)}
		assert.NoError(t, svc.Handle(context.Background(), d))
		assert.Empty(t, searches.searches)
		assert.Empty(t, reports.reports)
	})

	t.Run("malformed json is acked", func(t *testing.T) {
		t.Parallel()
		svc := newTestStatsService(newFakeSearchStore(), &fakeReportStore{}, &fakeViolationStore{}, &fakeReplier{}, time.Now())

		d := amqp.Delivery{Body: []byte(`{not json`)}
		assert.NoError(t, svc.Handle(context.Background(), d))
	})
}
