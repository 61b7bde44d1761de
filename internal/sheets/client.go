package sheets

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/user/weekly-report-bot/internal/httpclient"
	"github.com/user/weekly-report-bot/internal/metrics"
	"github.com/user/weekly-report-bot/internal/report"
)

// Row schema: timestamp, week number, rating, completed tasks,
// incomplete tasks, planned tasks, comment. Week number is the
// uniqueness key.
const dataRange = "A:G"

var headerRow = []string{
	"Дата отчёта", "Номер недели", "Оценка",
	"Сделанные задачи", "Не сделанные задачи", "Планируемые задачи", "Комментарий",
}

// valueRange mirrors the values resource of the Sheets API.
type valueRange struct {
	Range          string     `json:"range,omitempty"`
	MajorDimension string     `json:"majorDimension,omitempty"`
	Values         [][]string `json:"values,omitempty"`
}

type batchUpdateRequest struct {
	Requests []updateRequest `json:"requests"`
}

type updateRequest struct {
	DeleteDimension *deleteDimension `json:"deleteDimension,omitempty"`
}

type deleteDimension struct {
	Range dimensionRange `json:"range"`
}

type dimensionRange struct {
	SheetID    int    `json:"sheetId"`
	Dimension  string `json:"dimension"`
	StartIndex int    `json:"startIndex"`
	EndIndex   int    `json:"endIndex"`
}

// Client stores weekly reports in one Google Sheets spreadsheet, one
// row per week. All methods degrade on failure — empty results or false
// — and log; errors never cross this boundary into the dialogue.
type Client struct {
	httpClient *httpclient.Client
	sheetID    string
}

// NewClient builds a client from the named "sheets" entry of the API
// configuration file.
func NewClient(configPath, sheetID string) (*Client, error) {
	if sheetID == "" {
		return nil, fmt.Errorf("sheet ID is required")
	}

	configs, err := httpclient.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load API configuration: %w", err)
	}

	client, err := configs.CreateClient("sheets")
	if err != nil {
		return nil, fmt.Errorf("failed to create Sheets HTTP client: %w", err)
	}

	return &Client{httpClient: client, sheetID: sheetID}, nil
}

// FindPlannedTasksForWeek returns the planned tasks recorded for the
// week before the given one. Empty for week <= 1, on a miss, or on error.
func (c *Client) FindPlannedTasksForWeek(ctx context.Context, week int) []string {
	if week <= 1 {
		return nil
	}
	rows, err := c.readRows(ctx)
	if err != nil {
		metrics.RecordStoreFailure("sheets", "find_planned")
		log.Printf("[SHEETS] error reading previous week tasks: %v", err)
		return nil
	}
	for _, row := range dataRows(rows) {
		if rowWeek(row) == week-1 {
			return report.SplitTasks(cell(row, 5))
		}
	}
	return nil
}

// Upsert overwrites the row with the report's week number, or appends a
// new one. The header row is written first when the sheet is empty.
func (c *Client) Upsert(ctx context.Context, st *report.Stored) bool {
	rows, err := c.readRows(ctx)
	if err != nil {
		metrics.RecordStoreFailure("sheets", "upsert")
		log.Printf("[SHEETS] error reading sheet for upsert: %v", err)
		return false
	}

	if len(rows) == 0 {
		if err := c.appendRow(ctx, headerRow); err != nil {
			metrics.RecordStoreFailure("sheets", "upsert")
			log.Printf("[SHEETS] error writing header row: %v", err)
			return false
		}
	}

	newRow := toRow(st)
	for i, row := range dataRows(rows) {
		if rowWeek(row) == st.Week {
			if err := c.updateRow(ctx, i+2, newRow); err != nil {
				metrics.RecordStoreFailure("sheets", "upsert")
				log.Printf("[SHEETS] error updating row for week %d: %v", st.Week, err)
				return false
			}
			return true
		}
	}

	if err := c.appendRow(ctx, newRow); err != nil {
		metrics.RecordStoreFailure("sheets", "upsert")
		log.Printf("[SHEETS] error appending row for week %d: %v", st.Week, err)
		return false
	}
	return true
}

// ListWeekNumbers returns all distinct stored week numbers, sorted.
func (c *Client) ListWeekNumbers(ctx context.Context) []int {
	rows, err := c.readRows(ctx)
	if err != nil {
		metrics.RecordStoreFailure("sheets", "list")
		log.Printf("[SHEETS] error listing weeks: %v", err)
		return nil
	}
	seen := make(map[int]bool)
	var weeks []int
	for _, row := range dataRows(rows) {
		if w := rowWeek(row); w > 0 && !seen[w] {
			seen[w] = true
			weeks = append(weeks, w)
		}
	}
	sort.Ints(weeks)
	return weeks
}

// DeleteWeek removes the row with the given week number. False when no
// row matches or the delete fails.
func (c *Client) DeleteWeek(ctx context.Context, week int) bool {
	rows, err := c.readRows(ctx)
	if err != nil {
		metrics.RecordStoreFailure("sheets", "delete")
		log.Printf("[SHEETS] error reading sheet for delete: %v", err)
		return false
	}
	for i, row := range dataRows(rows) {
		if rowWeek(row) != week {
			continue
		}
		body := batchUpdateRequest{Requests: []updateRequest{{
			DeleteDimension: &deleteDimension{Range: dimensionRange{
				Dimension:  "ROWS",
				StartIndex: i + 1, // zero-based, past the header
				EndIndex:   i + 2,
			}},
		}}}
		path := fmt.Sprintf("%s:batchUpdate", c.sheetID)
		if err := c.httpClient.Post(ctx, path, nil, body, nil); err != nil {
			metrics.RecordStoreFailure("sheets", "delete")
			log.Printf("[SHEETS] error deleting row for week %d: %v", week, err)
			return false
		}
		return true
	}
	return false
}

// GetReport returns the stored report for the given week number.
func (c *Client) GetReport(ctx context.Context, week int) (*report.Stored, bool) {
	rows, err := c.readRows(ctx)
	if err != nil {
		metrics.RecordStoreFailure("sheets", "get")
		log.Printf("[SHEETS] error reading report for week %d: %v", week, err)
		return nil, false
	}
	for _, row := range dataRows(rows) {
		if rowWeek(row) == week {
			return fromRow(row), true
		}
	}
	return nil, false
}

func (c *Client) readRows(ctx context.Context) ([][]string, error) {
	var vr valueRange
	path := fmt.Sprintf("%s/values/%s", c.sheetID, dataRange)
	if err := c.httpClient.Get(ctx, path, nil, &vr); err != nil {
		return nil, err
	}
	return vr.Values, nil
}

func (c *Client) appendRow(ctx context.Context, row []string) error {
	query := url.Values{
		"valueInputOption": {"USER_ENTERED"},
		"insertDataOption": {"INSERT_ROWS"},
	}
	path := fmt.Sprintf("%s/values/%s:append", c.sheetID, dataRange)
	return c.httpClient.Post(ctx, path, query, valueRange{Values: [][]string{row}}, nil)
}

// updateRow overwrites the 1-based sheet row n in place.
func (c *Client) updateRow(ctx context.Context, n int, row []string) error {
	query := url.Values{"valueInputOption": {"USER_ENTERED"}}
	path := fmt.Sprintf("%s/values/A%d:G%d", c.sheetID, n, n)
	return c.httpClient.Put(ctx, path, query, valueRange{Values: [][]string{row}}, nil)
}

// dataRows skips the header row.
func dataRows(rows [][]string) [][]string {
	if len(rows) <= 1 {
		return nil
	}
	return rows[1:]
}

// rowWeek reads the sanitized week number of a row; 0 when absent.
func rowWeek(row []string) int {
	return sanitizeWeek(cell(row, 1))
}

// sanitizeWeek strips every non-digit character before parsing. Cells
// edited by hand may carry stray symbols ("  5.", "№12").
func sanitizeWeek(s string) int {
	var digits strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	week, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0
	}
	return week
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return row[i]
}

func toRow(st *report.Stored) []string {
	timestamp := st.Timestamp
	if timestamp == "" {
		timestamp = time.Now().Format("2006-01-02 15:04:05")
	}
	return []string{
		timestamp,
		strconv.Itoa(st.Week),
		strconv.Itoa(st.Rating),
		st.Completed,
		st.Incomplete,
		st.Planned,
		st.Comment,
	}
}

func fromRow(row []string) *report.Stored {
	rating, _ := strconv.Atoi(strings.TrimSpace(cell(row, 2)))
	return &report.Stored{
		Timestamp:  cell(row, 0),
		Week:       rowWeek(row),
		Rating:     rating,
		Completed:  cell(row, 3),
		Incomplete: cell(row, 4),
		Planned:    cell(row, 5),
		Comment:    cell(row, 6),
	}
}
