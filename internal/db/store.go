package db

import (
	"context"
	"errors"
	"log"

	"github.com/user/weekly-report-bot/internal/metrics"
	"github.com/user/weekly-report-bot/internal/report"
)

// Store adapts the Manager to the dialogue's record store contract:
// failures degrade to empty results or false and are logged here,
// never surfaced to the conversation.
type Store struct {
	manager *Manager
}

func NewStore(manager *Manager) *Store {
	return &Store{manager: manager}
}

func (s *Store) FindPlannedTasksForWeek(ctx context.Context, week int) []string {
	if week <= 1 {
		return nil
	}
	planned, err := s.manager.GetPlannedTasksForWeek(ctx, week-1)
	if err != nil {
		if !errors.Is(err, ErrReportNotFound) {
			metrics.RecordStoreFailure("db", "find_planned")
			log.Printf("[DB] error reading previous week tasks: %v", err)
		}
		return nil
	}
	return report.SplitTasks(planned)
}

func (s *Store) Upsert(ctx context.Context, st *report.Stored) bool {
	if err := s.manager.UpsertReport(ctx, st); err != nil {
		metrics.RecordStoreFailure("db", "upsert")
		log.Printf("[DB] error upserting report for week %d: %v", st.Week, err)
		return false
	}
	return true
}

func (s *Store) ListWeekNumbers(ctx context.Context) []int {
	weeks, err := s.manager.ListWeeks(ctx)
	if err != nil {
		metrics.RecordStoreFailure("db", "list")
		log.Printf("[DB] error listing weeks: %v", err)
		return nil
	}
	return weeks
}

func (s *Store) DeleteWeek(ctx context.Context, week int) bool {
	if err := s.manager.DeleteReportByWeek(ctx, week); err != nil {
		if !errors.Is(err, ErrReportNotFound) {
			metrics.RecordStoreFailure("db", "delete")
			log.Printf("[DB] error deleting report for week %d: %v", week, err)
		}
		return false
	}
	return true
}

func (s *Store) GetReport(ctx context.Context, week int) (*report.Stored, bool) {
	st, err := s.manager.GetReportByWeek(ctx, week)
	if err != nil {
		if !errors.Is(err, ErrReportNotFound) {
			metrics.RecordStoreFailure("db", "get")
			log.Printf("[DB] error reading report for week %d: %v", week, err)
		}
		return nil, false
	}
	return st, true
}
