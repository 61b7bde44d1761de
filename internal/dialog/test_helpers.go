package dialog

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/user/weekly-report-bot/internal/report"
)

// MockReportStore is a testify mock of the record-store contract,
// shared by the dialog and bot tests.
type MockReportStore struct {
	mock.Mock
}

func (m *MockReportStore) FindPlannedTasksForWeek(ctx context.Context, week int) []string {
	args := m.Called(ctx, week)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}

func (m *MockReportStore) Upsert(ctx context.Context, st *report.Stored) bool {
	args := m.Called(ctx, st)
	return args.Bool(0)
}

func (m *MockReportStore) ListWeekNumbers(ctx context.Context) []int {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]int)
}

func (m *MockReportStore) DeleteWeek(ctx context.Context, week int) bool {
	args := m.Called(ctx, week)
	return args.Bool(0)
}

func (m *MockReportStore) GetReport(ctx context.Context, week int) (*report.Stored, bool) {
	args := m.Called(ctx, week)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*report.Stored), args.Bool(1)
}

// ConfigureMockStore starts a fluent expectation chain on the mock.
func ConfigureMockStore(m *MockReportStore) *MockStoreHelper {
	return &MockStoreHelper{mock: m}
}

// MockStoreHelper provides a fluent interface for configuring mock expectations.
type MockStoreHelper struct {
	mock *MockReportStore
}

// WithPlannedTasks sets up the previous-week lookup for a week.
func (h *MockStoreHelper) WithPlannedTasks(week int, tasks []string) *MockStoreHelper {
	h.mock.On("FindPlannedTasksForWeek", mock.Anything, week).Return(tasks)
	return h
}

// WithUpsert sets up the save result for any stored report.
func (h *MockStoreHelper) WithUpsert(ok bool) *MockStoreHelper {
	h.mock.On("Upsert", mock.Anything, mock.Anything).Return(ok)
	return h
}

// WithReport sets up the get-by-week lookup.
func (h *MockStoreHelper) WithReport(week int, st *report.Stored, ok bool) *MockStoreHelper {
	h.mock.On("GetReport", mock.Anything, week).Return(st, ok)
	return h
}

// WithDelete sets up the delete result for a week.
func (h *MockStoreHelper) WithDelete(week int, ok bool) *MockStoreHelper {
	h.mock.On("DeleteWeek", mock.Anything, week).Return(ok)
	return h
}

// WithWeekNumbers sets up the stored-weeks listing.
func (h *MockStoreHelper) WithWeekNumbers(weeks []int) *MockStoreHelper {
	h.mock.On("ListWeekNumbers", mock.Anything).Return(weeks)
	return h
}
