package services

import (
	"testing"

	"github.com/hangoctan1012/FaceCookTan/pkg/messaging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeStatsEvent(t *testing.T) {
	t.Parallel()

	t.Run("search event", func(t *testing.T) {
		t.Parallel()
		body := []byte(`{"keyword":"pho bo","type":["post","recipe"],"target":["pho"]}`)

		event, err := DecodeStatsEvent(body)
		require.NoError(t, err)

		search, ok := event.(SearchEvent)
		require.True(t, ok, "expected a SearchEvent, got %T", event)
		assert.Equal(t, "pho bo", search.Keyword)
		assert.Equal(t, []string{"post", "recipe"}, search.Types)
		assert.Equal(t, []string{"pho"}, search.Targets)
	})

	t.Run("search event without targets", func(t *testing.T) {
		t.Parallel()
		body := []byte(`{"keyword":"banh mi","type":["user"]}`)

		event, err := DecodeStatsEvent(body)
		require.NoError(t, err)

		search, ok := event.(SearchEvent)
		require.True(t, ok)
		assert.Empty(t, search.Targets)
	})

	t.Run("report event", func(t *testing.T) {
		t.Parallel()
		body := []byte(`{"author":"u1","reportedUser":"u2","type":"post","target":"p9","content":"spam"}`)

		event, err := DecodeStatsEvent(body)
		require.NoError(t, err)

		report, ok := event.(ReportEvent)
		require.True(t, ok, "expected a ReportEvent, got %T", event)
		assert.Equal(t, "u1", report.Author)
		assert.Equal(t, "u2", report.ReportedUser)
		assert.Equal(t, "post", report.Type)
		assert.Equal(t, "p9", report.Target)
		assert.Equal(t, "spam", report.Content)
	})

	t.Run("violation check request", func(t *testing.T) {
		t.Parallel()
		body := []byte(`{"userID":"u1","check":"violation_comment"}`)

		event, err := DecodeStatsEvent(body)
		require.NoError(t, err)

		check, ok := event.(messaging.ViolationCheckRequest)
		require.True(t, ok, "expected a ViolationCheckRequest, got %T", event)
		assert.Equal(t, "u1", check.UserID)
		assert.Equal(t, "violation_comment", check.Check)
	})

	t.Run("violation check wins over other fields", func(t *testing.T) {
		t.Parallel()
		// a prefixed check field decides the shape even when keyword-like
		// fields are also present
		body := []byte(`{"userID":"u1","check":"violation_post","keyword":"x","type":["post"]}`)

		event, err := DecodeStatsEvent(body)
		require.NoError(t, err)

		_, ok := event.(messaging.ViolationCheckRequest)
		assert.True(t, ok)
	})

	t.Run("report with array type is not a report", func(t *testing.T) {
		t.Parallel()
		body := []byte(`{"author":"u1","type":["post"],"target":"p1"}`)

		_, err := DecodeStatsEvent(body)
		assert.ErrorIs(t, err, ErrUnknownShape)
	})

	t.Run("unknown shape", func(t *testing.T) {
		t.Parallel()
		body := []byte(`{"something":"else"}`)

		_, err := DecodeStatsEvent(body)
		assert.ErrorIs(t, err, ErrUnknownShape)
	})

	t.Run("invalid json", func(t *testing.T) {
		t.Parallel()
		_, err := DecodeStatsEvent([]byte(`{not json`))
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrUnknownShape)
	})
}
