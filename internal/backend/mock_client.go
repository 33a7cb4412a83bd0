package backend

import (
	"context"
	"time"

	"mail-triage/internal/model"
)

// MockClient is a function-field test double for the backend client. Unset
// functions fall back to benign defaults.
type MockClient struct {
	CheckEmailsFunc      func(ctx context.Context) ([]*model.Email, error)
	ProcessEmailFunc     func(ctx context.Context, email *model.Email) (*model.EmailAnalysis, string, error)
	ForwardEmailFunc     func(ctx context.Context, email *model.Email, department string, analysis *model.EmailAnalysis) error
	GetSettingsFunc      func(ctx context.Context) (*model.AppSettings, error)
	SaveSettingsFunc     func(ctx context.Context, settings *model.AppSettings) error
	AddDepartmentFunc    func(ctx context.Context, department model.Department) error
	DeleteDepartmentFunc func(ctx context.Context, nome string) error
	StartAutomationFunc  func(ctx context.Context) error
	StopAutomationFunc   func(ctx context.Context) error
	GetStatsFunc         func(ctx context.Context) (*model.HistoricalStats, error)
	RecordProcessedFunc  func(ctx context.Context, department string, confidence int) (*model.HistoricalStats, error)
	RecordReceivedFunc   func(ctx context.Context, count int) (*model.HistoricalStats, error)
}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) CheckEmails(ctx context.Context) ([]*model.Email, error) {
	if m.CheckEmailsFunc != nil {
		return m.CheckEmailsFunc(ctx)
	}
	return nil, nil
}

func (m *MockClient) ProcessEmail(ctx context.Context, email *model.Email) (*model.EmailAnalysis, string, error) {
	if m.ProcessEmailFunc != nil {
		return m.ProcessEmailFunc(ctx, email)
	}
	analysis := &model.EmailAnalysis{
		RepartoSuggerito: "Support",
		Confidence:       80,
		Summary:          "Mock analysis of: " + email.Subject,
		Reasoning:        "Mock reasoning",
	}
	return analysis, analysis.RepartoSuggerito, nil
}

func (m *MockClient) ForwardEmail(ctx context.Context, email *model.Email, department string, analysis *model.EmailAnalysis) error {
	if m.ForwardEmailFunc != nil {
		return m.ForwardEmailFunc(ctx, email, department, analysis)
	}
	return nil
}

func (m *MockClient) GetSettings(ctx context.Context) (*model.AppSettings, error) {
	if m.GetSettingsFunc != nil {
		return m.GetSettingsFunc(ctx)
	}
	settings := model.DefaultSettings()
	return &settings, nil
}

func (m *MockClient) SaveSettings(ctx context.Context, settings *model.AppSettings) error {
	if m.SaveSettingsFunc != nil {
		return m.SaveSettingsFunc(ctx, settings)
	}
	return nil
}

func (m *MockClient) AddDepartment(ctx context.Context, department model.Department) error {
	if m.AddDepartmentFunc != nil {
		return m.AddDepartmentFunc(ctx, department)
	}
	return nil
}

func (m *MockClient) DeleteDepartment(ctx context.Context, nome string) error {
	if m.DeleteDepartmentFunc != nil {
		return m.DeleteDepartmentFunc(ctx, nome)
	}
	return nil
}

func (m *MockClient) StartAutomation(ctx context.Context) error {
	if m.StartAutomationFunc != nil {
		return m.StartAutomationFunc(ctx)
	}
	return nil
}

func (m *MockClient) StopAutomation(ctx context.Context) error {
	if m.StopAutomationFunc != nil {
		return m.StopAutomationFunc(ctx)
	}
	return nil
}

func (m *MockClient) GetStats(ctx context.Context) (*model.HistoricalStats, error) {
	if m.GetStatsFunc != nil {
		return m.GetStatsFunc(ctx)
	}
	return &model.HistoricalStats{
		ByDepartment: map[string]int{},
		LastUpdated:  time.Now(),
	}, nil
}

func (m *MockClient) RecordProcessed(ctx context.Context, department string, confidence int) (*model.HistoricalStats, error) {
	if m.RecordProcessedFunc != nil {
		return m.RecordProcessedFunc(ctx, department, confidence)
	}
	return &model.HistoricalStats{
		TotalProcessed: 1,
		ByDepartment:   map[string]int{department: 1},
		LastUpdated:    time.Now(),
	}, nil
}

func (m *MockClient) RecordReceived(ctx context.Context, count int) (*model.HistoricalStats, error) {
	if m.RecordReceivedFunc != nil {
		return m.RecordReceivedFunc(ctx, count)
	}
	return &model.HistoricalStats{
		TotalReceived: count,
		ByDepartment:  map[string]int{},
		LastUpdated:   time.Now(),
	}, nil
}
