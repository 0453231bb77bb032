package services

import (
	"time"

	models "github.com/hangoctan1012/FaceCookTan/stats/internal/models"
	"github.com/hangoctan1012/FaceCookTan/pkg/messaging"
)

// EvaluateBan turns the most recent active ban (nil when the user has
// none) into a check result. No ban, or a ban without an expiry, answers
// expired and therefore allowed; otherwise the ban is expired once now
// has reached the expiry.
func EvaluateBan(v *models.Violation, now time.Time) messaging.ViolationCheckResult {
	if v == nil || v.ExpiredAt == nil {
		return messaging.ViolationCheckResult{Expired: true}
	}

	return messaging.ViolationCheckResult{
		Expired:   !now.Before(*v.ExpiredAt),
		ExpiredAt: v.ExpiredAt,
		Action:    v.Action,
	}
}

// MergeTags unions two tag lists preserving first-seen order.
func MergeTags(existing, incoming []string) []string {
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	merged := make([]string, 0, len(existing)+len(incoming))

	for _, lists := range [][]string{existing, incoming} {
		for _, tag := range lists {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			merged = append(merged, tag)
		}
	}
	return merged
}
