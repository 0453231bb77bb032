package services

import (
	"testing"
	"time"

	models "github.com/hangoctan1012/FaceCookTan/stats/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateBan(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("no ban means allowed", func(t *testing.T) {
		t.Parallel()
		result := EvaluateBan(nil, now)

		assert.True(t, result.Expired)
		assert.Nil(t, result.ExpiredAt)
		assert.Empty(t, result.Action)
	})

	t.Run("ban without expiry means allowed", func(t *testing.T) {
		t.Parallel()
		ban := &models.Violation{Action: models.ActionBan}

		result := EvaluateBan(ban, now)

		assert.True(t, result.Expired)
		assert.Nil(t, result.ExpiredAt)
	})

	t.Run("ban still running blocks", func(t *testing.T) {
		t.Parallel()
		expiry := now.Add(time.Hour)
		ban := &models.Violation{Action: models.ActionBan, ExpiredAt: &expiry}

		result := EvaluateBan(ban, now)

		assert.False(t, result.Expired)
		require.NotNil(t, result.ExpiredAt)
		assert.Equal(t, expiry, *result.ExpiredAt)
		assert.Equal(t, models.ActionBan, result.Action)
	})

	t.Run("expiry reached exactly now allows", func(t *testing.T) {
		t.Parallel()
		expiry := now
		ban := &models.Violation{Action: models.ActionBan, ExpiredAt: &expiry}

		result := EvaluateBan(ban, now)

		assert.True(t, result.Expired)
	})

	t.Run("past expiry allows", func(t *testing.T) {
		t.Parallel()
		expiry := now.Add(-time.Minute)
		ban := &models.Violation{Action: models.ActionBan, ExpiredAt: &expiry}

		result := EvaluateBan(ban, now)

		assert.True(t, result.Expired)
		assert.Equal(t, models.ActionBan, result.Action)
	})
}

func TestMergeTags(t *testing.T) {
	t.Parallel()

	t.Run("union preserves first-seen order", func(t *testing.T) {
		t.Parallel()
		merged := MergeTags([]string{"post", "recipe"}, []string{"recipe", "user"})
		assert.Equal(t, []string{"post", "recipe", "user"}, merged)
	})

	t.Run("empty existing", func(t *testing.T) {
		t.Parallel()
		merged := MergeTags(nil, []string{"post", "post"})
		assert.Equal(t, []string{"post"}, merged)
	})

	t.Run("empty incoming", func(t *testing.T) {
		t.Parallel()
		merged := MergeTags([]string{"user"}, nil)
		assert.Equal(t, []string{"user"}, merged)
	})
}
