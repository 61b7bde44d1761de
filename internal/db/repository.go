package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/user/weekly-report-bot/internal/report"
)

var ErrReportNotFound = errors.New("report not found")

const timestampLayout = "2006-01-02 15:04:05"

// UpsertReport inserts the report or overwrites the existing row with
// the same week number.
func (m *Manager) UpsertReport(ctx context.Context, st *report.Stored) error {
	reportedAt, err := time.Parse(timestampLayout, st.Timestamp)
	if err != nil {
		reportedAt = time.Now()
	}

	query := `
		INSERT INTO reports (week_number, reported_at, rating, completed_tasks, incomplete_tasks, planned_tasks, comment)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (week_number) DO UPDATE
		SET reported_at = $2, rating = $3, completed_tasks = $4, incomplete_tasks = $5, planned_tasks = $6, comment = $7
	`
	_, err = m.db.ExecContext(
		ctx,
		query,
		st.Week,
		reportedAt,
		st.Rating,
		st.Completed,
		st.Incomplete,
		st.Planned,
		st.Comment,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert report: %w", err)
	}
	return nil
}

// GetReportByWeek returns the stored report for a week number.
func (m *Manager) GetReportByWeek(ctx context.Context, week int) (*report.Stored, error) {
	query := `
		SELECT week_number, reported_at, rating, completed_tasks, incomplete_tasks, planned_tasks, comment
		FROM reports
		WHERE week_number = $1
	`
	var st report.Stored
	var reportedAt time.Time
	err := m.db.QueryRowContext(ctx, query, week).Scan(
		&st.Week,
		&reportedAt,
		&st.Rating,
		&st.Completed,
		&st.Incomplete,
		&st.Planned,
		&st.Comment,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	st.Timestamp = reportedAt.Format(timestampLayout)
	return &st, nil
}

// GetPlannedTasksForWeek returns the planned tasks blob of a week.
func (m *Manager) GetPlannedTasksForWeek(ctx context.Context, week int) (string, error) {
	query := `
		SELECT planned_tasks
		FROM reports
		WHERE week_number = $1
	`
	var planned string
	err := m.db.QueryRowContext(ctx, query, week).Scan(&planned)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrReportNotFound
		}
		return "", fmt.Errorf("failed to get planned tasks: %w", err)
	}
	return planned, nil
}

// ListWeeks returns all stored week numbers in ascending order.
func (m *Manager) ListWeeks(ctx context.Context) ([]int, error) {
	query := `
		SELECT week_number
		FROM reports
		ORDER BY week_number ASC
	`
	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list weeks: %w", err)
	}
	defer rows.Close()

	var weeks []int
	for rows.Next() {
		var week int
		if err := rows.Scan(&week); err != nil {
			return nil, fmt.Errorf("failed to scan week row: %w", err)
		}
		weeks = append(weeks, week)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating week rows: %w", err)
	}
	return weeks, nil
}

// DeleteReportByWeek removes the report for a week number.
func (m *Manager) DeleteReportByWeek(ctx context.Context, week int) error {
	query := `
		DELETE FROM reports
		WHERE week_number = $1
	`
	result, err := m.db.ExecContext(ctx, query, week)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if affected == 0 {
		return ErrReportNotFound
	}
	return nil
}
