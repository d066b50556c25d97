package models

import "strings"

// ReviewStatus is the shared review-cycle state used by member registrations,
// performance records and project applications.
type ReviewStatus string

const (
	StatusDraft             ReviewStatus = "draft"
	StatusSubmitted         ReviewStatus = "submitted"
	StatusApproved          ReviewStatus = "approved"
	StatusRejected          ReviewStatus = "rejected"
	StatusRevisionRequested ReviewStatus = "revision_requested"
	StatusCancelled         ReviewStatus = "cancelled"
)

// ThreadStatus is the consultation-thread sub-machine state.
type ThreadStatus string

const (
	ThreadOpen   ThreadStatus = "open"
	ThreadClosed ThreadStatus = "closed"
)

// Wire aliases accepted on input. Clients historically sent both spellings.
var reviewStatusAliases = map[string]ReviewStatus{
	"pending":           StatusSubmitted,
	"revision_required": StatusRevisionRequested,
}

// ParseReviewStatus normalizes a raw status string, resolving aliases.
func ParseReviewStatus(raw string) (ReviewStatus, bool) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return "", false
	}
	if canonical, ok := reviewStatusAliases[normalized]; ok {
		return canonical, true
	}
	status := ReviewStatus(normalized)
	if status.Valid() {
		return status, true
	}
	return "", false
}

func (s ReviewStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusApproved, StatusRejected,
		StatusRevisionRequested, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether the review cycle has ended for this entity.
func (s ReviewStatus) Terminal() bool {
	switch s {
	case StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// Label returns the display label for presentation boundaries. The switch is
// exhaustive so new states fail loudly in review instead of silently falling
// through per-screen maps.
func (s ReviewStatus) Label() string {
	switch s {
	case StatusDraft:
		return "Draft"
	case StatusSubmitted:
		return "Pending Review"
	case StatusApproved:
		return "Approved"
	case StatusRejected:
		return "Rejected"
	case StatusRevisionRequested:
		return "Revision Requested"
	case StatusCancelled:
		return "Cancelled"
	}
	return "Unknown"
}

// ParseThreadStatus normalizes a raw thread status string.
func ParseThreadStatus(raw string) (ThreadStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "open":
		return ThreadOpen, true
	case "closed", "resolved":
		return ThreadClosed, true
	}
	return "", false
}

func (s ThreadStatus) Valid() bool {
	return s == ThreadOpen || s == ThreadClosed
}

func (s ThreadStatus) Label() string {
	switch s {
	case ThreadOpen:
		return "Open"
	case ThreadClosed:
		return "Closed"
	}
	return "Unknown"
}
