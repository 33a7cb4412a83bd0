package triage

import (
	"sort"
	"strings"

	"mail-triage/internal/model"
)

// Sort orders accepted by ListFilter.
const (
	SortByTimestamp  = "timestamp"
	SortByConfidence = "confidence"
)

// ListFilter narrows and orders an email snapshot. All set criteria must
// match. It never mutates the collection it is applied to.
type ListFilter struct {
	Search     string
	Department string
	Sender     string
	SortBy     string
}

// Apply returns the emails matching the filter, ordered per SortBy
// (newest first by default).
func (f ListFilter) Apply(emails []*model.Email) []*model.Email {
	result := make([]*model.Email, 0, len(emails))
	for _, email := range emails {
		if f.matches(email) {
			result = append(result, email)
		}
	}

	switch f.SortBy {
	case SortByConfidence:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].Confidence > result[j].Confidence
		})
	default:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].Timestamp.After(result[j].Timestamp)
		})
	}
	return result
}

func (f ListFilter) matches(email *model.Email) bool {
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(email.Subject), needle) &&
			!strings.Contains(strings.ToLower(email.Sender), needle) &&
			!strings.Contains(strings.ToLower(email.Body), needle) {
			return false
		}
	}
	if f.Department != "" {
		// Processed emails match on where they actually went, pending
		// ones on the suggestion.
		department := email.ForwardedToDepartment
		if department == "" {
			department = email.SuggestedDepartment
		}
		if department != f.Department {
			return false
		}
	}
	if f.Sender != "" && !strings.Contains(strings.ToLower(email.Sender), strings.ToLower(f.Sender)) {
		return false
	}
	return true
}

// PartitionToProcess keeps only emails still awaiting a decision.
func PartitionToProcess(emails []*model.Email) []*model.Email {
	result := make([]*model.Email, 0, len(emails))
	for _, email := range emails {
		if email.InToProcess() {
			result = append(result, email)
		}
	}
	return result
}

// PartitionProcessed keeps only emails with a final decision.
func PartitionProcessed(emails []*model.Email) []*model.Email {
	result := make([]*model.Email, 0, len(emails))
	for _, email := range emails {
		if email.InProcessed() {
			result = append(result, email)
		}
	}
	return result
}
