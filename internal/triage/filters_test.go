package triage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"mail-triage/internal/model"
)

func filterFixture() []*model.Email {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	return []*model.Email{
		{
			ID:                  "a",
			Sender:              "alice@example.com",
			Subject:             "Invoice overdue",
			Body:                "Payment reminder",
			Timestamp:           base.Add(2 * time.Hour),
			Status:              model.StatusNotProcessed,
			SuggestedDepartment: "Billing",
			Confidence:          60,
		},
		{
			ID:                    "b",
			Sender:                "bob@example.com",
			Subject:               "Cannot log in",
			Body:                  "Password reset loop",
			Timestamp:             base.Add(time.Hour),
			Status:                model.StatusForwarded,
			SuggestedDepartment:   "Billing",
			ForwardedToDepartment: "Support",
			Confidence:            95,
		},
		{
			ID:         "c",
			Sender:     "carol@example.com",
			Subject:    "Partnership proposal",
			Body:       "We would like to resell",
			Timestamp:  base,
			Status:     model.StatusError,
			Confidence: 0,
		},
	}
}

func TestFilterSearchMatchesSubjectSenderBody(t *testing.T) {
	emails := filterFixture()

	assert.Len(t, ListFilter{Search: "invoice"}.Apply(emails), 1)
	assert.Len(t, ListFilter{Search: "BOB"}.Apply(emails), 1)
	assert.Len(t, ListFilter{Search: "resell"}.Apply(emails), 1)
	assert.Empty(t, ListFilter{Search: "nothing here"}.Apply(emails))
}

func TestFilterDepartmentPrefersForwardedTarget(t *testing.T) {
	emails := filterFixture()

	// Email b was forwarded to Support, so it no longer matches its old
	// Billing suggestion.
	billing := ListFilter{Department: "Billing"}.Apply(emails)
	assert.Len(t, billing, 1)
	assert.Equal(t, "a", billing[0].ID)

	support := ListFilter{Department: "Support"}.Apply(emails)
	assert.Len(t, support, 1)
	assert.Equal(t, "b", support[0].ID)
}

func TestFilterSender(t *testing.T) {
	emails := filterFixture()

	result := ListFilter{Sender: "carol"}.Apply(emails)
	assert.Len(t, result, 1)
	assert.Equal(t, "c", result[0].ID)
}

func TestFilterCriteriaAreConjunctive(t *testing.T) {
	emails := filterFixture()

	result := ListFilter{Search: "invoice", Sender: "bob"}.Apply(emails)
	assert.Empty(t, result)
}

func TestFilterDefaultSortNewestFirst(t *testing.T) {
	emails := filterFixture()

	result := ListFilter{}.Apply(emails)
	assert.Equal(t, []string{"a", "b", "c"}, idsOf(result))
}

func TestFilterSortByConfidence(t *testing.T) {
	emails := filterFixture()

	result := ListFilter{SortBy: SortByConfidence}.Apply(emails)
	assert.Equal(t, []string{"b", "a", "c"}, idsOf(result))
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	emails := filterFixture()

	ListFilter{SortBy: SortByConfidence}.Apply(emails)
	assert.Equal(t, []string{"a", "b", "c"}, idsOf(emails))
}

func TestPartitions(t *testing.T) {
	emails := filterFixture()

	toProcess := PartitionToProcess(emails)
	assert.Equal(t, []string{"a", "c"}, idsOf(toProcess))

	processed := PartitionProcessed(emails)
	assert.Equal(t, []string{"b"}, idsOf(processed))
}

func idsOf(emails []*model.Email) []string {
	ids := make([]string, len(emails))
	for i, email := range emails {
		ids[i] = email.ID
	}
	return ids
}
