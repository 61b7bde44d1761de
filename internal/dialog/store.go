package dialog

import (
	"context"

	"github.com/user/weekly-report-bot/internal/report"
)

// ReportStore is the record-store contract the dialogue depends on.
// Failures stay behind this boundary: methods degrade to empty results
// or false, and the machine turns those into user-facing messages.
type ReportStore interface {
	// FindPlannedTasksForWeek returns the planned tasks recorded for
	// week-1. Empty when week <= 1, when no row matches, or on error.
	FindPlannedTasksForWeek(ctx context.Context, week int) []string

	// Upsert overwrites the row with this week number in place, or
	// appends a new one. False on any I/O or parsing failure.
	Upsert(ctx context.Context, st *report.Stored) bool

	// ListWeekNumbers returns all distinct stored week numbers, sorted.
	ListWeekNumbers(ctx context.Context) []int

	DeleteWeek(ctx context.Context, week int) bool

	GetReport(ctx context.Context, week int) (*report.Stored, bool)
}
