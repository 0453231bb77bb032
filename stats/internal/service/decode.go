package services

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/hangoctan1012/FaceCookTan/pkg/messaging"
)

// ErrUnknownShape marks a stats payload matching none of the three known
// message shapes.
var ErrUnknownShape = errors.New("unrecognized stats payload")

// ViolationPrefix tags the check field of a violation-check request.
const ViolationPrefix = "violation_"

// SearchEvent is a recorded search: what was typed, which entity kinds
// were searched, and which catalog entries the search resolved to.
type SearchEvent struct {
	Keyword string   `json:"keyword"`
	Types   []string `json:"type"`
	Targets []string `json:"target"`
}

// ReportEvent is a user-filed report against a post, comment or user.
type ReportEvent struct {
	Author       string `json:"author"`
	ReportedUser string `json:"reportedUser"`
	Type         string `json:"type"`
	Target       string `json:"target"`
	Content      string `json:"content"`
}

// DecodeStatsEvent decodes the shared stats queue's payload once at the
// boundary into exactly one of SearchEvent, ReportEvent or
// messaging.ViolationCheckRequest. The three producers never standardized
// on a discriminator field, so the shape is told apart by which fields
// are present: a violation check carries a prefixed check field, a search
// carries a keyword with an array type, and a report carries an author
// with a scalar type.
func DecodeStatsEvent(body []byte) (interface{}, error) {
	var probe struct {
		Check   string          `json:"check"`
		Keyword string          `json:"keyword"`
		Type    json.RawMessage `json:"type"`
		Author  string          `json:"author"`
		Target  json.RawMessage `json:"target"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, err
	}

	switch {
	case strings.HasPrefix(probe.Check, ViolationPrefix):
		var req messaging.ViolationCheckRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return nil, err
		}
		return req, nil

	case probe.Keyword != "" && isJSONArray(probe.Type):
		var ev SearchEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return nil, err
		}
		return ev, nil

	case probe.Author != "" && len(probe.Target) > 0 && isReportType(probe.Type):
		var ev ReportEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return nil, err
		}
		return ev, nil
	}

	return nil, ErrUnknownShape
}

func isJSONArray(raw json.RawMessage) bool {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		default:
			return b == '['
		}
	}
	return false
}

func isReportType(raw json.RawMessage) bool {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return false
	}
	switch s {
	case "post", "comment", "user":
		return true
	}
	return false
}
