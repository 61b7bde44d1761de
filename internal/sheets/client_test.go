package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/user/weekly-report-bot/internal/httpclient"
	"github.com/user/weekly-report-bot/internal/metrics"
	"github.com/user/weekly-report-bot/internal/report"
)

// fakeSheet emulates the values endpoints of the Sheets API over an
// in-memory grid.
type fakeSheet struct {
	rows  [][]string
	calls int
}

func (f *fakeSheet) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.calls++
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/sheet1/values/A:G":
			json.NewEncoder(w).Encode(valueRange{Values: f.rows})

		case r.Method == http.MethodPost && r.URL.Path == "/sheet1/values/A:G:append":
			var vr valueRange
			json.NewDecoder(r.Body).Decode(&vr)
			f.rows = append(f.rows, vr.Values...)
			w.Write([]byte(`{}`))

		case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/sheet1/values/A"):
			n, err := strconv.Atoi(strings.TrimPrefix(strings.Split(r.URL.Path, ":")[0], "/sheet1/values/A"))
			assert.NoError(t, err)
			var vr valueRange
			json.NewDecoder(r.Body).Decode(&vr)
			f.rows[n-1] = vr.Values[0]
			w.Write([]byte(`{}`))

		case r.Method == http.MethodPost && r.URL.Path == "/sheet1:batchUpdate":
			var req batchUpdateRequest
			json.NewDecoder(r.Body).Decode(&req)
			rng := req.Requests[0].DeleteDimension.Range
			f.rows = append(f.rows[:rng.StartIndex], f.rows[rng.EndIndex:]...)
			w.Write([]byte(`{}`))

		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func testClient(baseURL string) *Client {
	cfg := httpclient.DefaultConfig()
	cfg.BaseURL = baseURL
	cfg.Timeout = 2 * time.Second
	cfg.RetryWaitTime = time.Millisecond
	cfg.MaxRetryWaitTime = 5 * time.Millisecond
	return &Client{httpClient: httpclient.NewClient(cfg), sheetID: "sheet1"}
}

func sheetWith(rows ...[]string) *fakeSheet {
	return &fakeSheet{rows: append([][]string{headerRow}, rows...)}
}

func TestClient_FindPlannedTasksSanitizesWeek(t *testing.T) {
	sheet := sheetWith(
		[]string{"2026-08-10 10:00:00", " 4.", "8", "", "", "Задача А\nЗадача Б", ""},
	)
	server := httptest.NewServer(sheet.handler(t))
	defer server.Close()

	tasks := testClient(server.URL).FindPlannedTasksForWeek(context.Background(), 5)

	assert.Equal(t, []string{"Задача А", "Задача Б"}, tasks)
}

func TestClient_FindPlannedTasksFirstWeekSkipsLookup(t *testing.T) {
	sheet := sheetWith()
	server := httptest.NewServer(sheet.handler(t))
	defer server.Close()

	tasks := testClient(server.URL).FindPlannedTasksForWeek(context.Background(), 1)

	assert.Nil(t, tasks)
	assert.Equal(t, 0, sheet.calls)
}

func TestClient_UpsertAppendsThenOverwrites(t *testing.T) {
	sheet := &fakeSheet{}
	server := httptest.NewServer(sheet.handler(t))
	defer server.Close()

	client := testClient(server.URL)
	st := &report.Stored{
		Timestamp: "2026-08-17 12:00:00",
		Week:      5,
		Rating:    7,
		Planned:   "Первая задача",
	}

	assert.True(t, client.Upsert(context.Background(), st))
	assert.Len(t, sheet.rows, 2)
	assert.Equal(t, headerRow, sheet.rows[0])
	assert.Equal(t, "5", sheet.rows[1][1])

	st.Rating = 9
	assert.True(t, client.Upsert(context.Background(), st))
	assert.Len(t, sheet.rows, 2)
	assert.Equal(t, "9", sheet.rows[1][2])
}

func TestClient_UpsertMatchesDirtyWeekCell(t *testing.T) {
	sheet := sheetWith(
		[]string{"2026-08-10 10:00:00", "№5", "3", "", "", "", "старый"},
		[]string{"2026-08-17 10:00:00", "6", "8", "", "", "", ""},
	)
	server := httptest.NewServer(sheet.handler(t))
	defer server.Close()

	ok := testClient(server.URL).Upsert(context.Background(), &report.Stored{
		Timestamp: "2026-08-18 09:00:00",
		Week:      5,
		Rating:    7,
		Comment:   "новый",
	})

	assert.True(t, ok)
	assert.Len(t, sheet.rows, 3)
	assert.Equal(t, "новый", sheet.rows[1][6])
}

func TestClient_ListWeekNumbers(t *testing.T) {
	sheet := sheetWith(
		[]string{"", "12", "5", "", "", "", ""},
		[]string{"", " 3.", "7", "", "", "", ""},
		[]string{"", "не число", "1", "", "", "", ""},
		[]string{"", "3", "7", "", "", "", ""},
	)
	server := httptest.NewServer(sheet.handler(t))
	defer server.Close()

	weeks := testClient(server.URL).ListWeekNumbers(context.Background())

	assert.Equal(t, []int{3, 12}, weeks)
}

func TestClient_DeleteWeek(t *testing.T) {
	sheet := sheetWith(
		[]string{"", "4", "6", "", "", "", ""},
		[]string{"", "5", "8", "", "", "", ""},
	)
	server := httptest.NewServer(sheet.handler(t))
	defer server.Close()

	client := testClient(server.URL)

	assert.True(t, client.DeleteWeek(context.Background(), 4))
	assert.Len(t, sheet.rows, 2)
	assert.Equal(t, "5", sheet.rows[1][1])

	assert.False(t, client.DeleteWeek(context.Background(), 99))
}

func TestClient_GetReport(t *testing.T) {
	sheet := sheetWith(
		[]string{"2026-08-17 12:00:00", "5", "7", "Сделано", "Не сделано", "План", "Комментарий"},
	)
	server := httptest.NewServer(sheet.handler(t))
	defer server.Close()

	client := testClient(server.URL)

	st, ok := client.GetReport(context.Background(), 5)
	assert.True(t, ok)
	assert.Equal(t, 5, st.Week)
	assert.Equal(t, 7, st.Rating)
	assert.Equal(t, "Сделано", st.Completed)
	assert.Equal(t, "Не сделано", st.Incomplete)
	assert.Equal(t, "План", st.Planned)
	assert.Equal(t, "Комментарий", st.Comment)

	_, ok = client.GetReport(context.Background(), 6)
	assert.False(t, ok)
}

func TestClient_GetReportShortRow(t *testing.T) {
	sheet := sheetWith(
		[]string{"2026-08-17 12:00:00", "5", "7"},
	)
	server := httptest.NewServer(sheet.handler(t))
	defer server.Close()

	st, ok := testClient(server.URL).GetReport(context.Background(), 5)

	assert.True(t, ok)
	assert.Equal(t, "", st.Planned)
	assert.Equal(t, "", st.Comment)
}

func TestClient_DegradesOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := testClient(server.URL)
	ctx := context.Background()
	failures := func(operation string) float64 {
		return testutil.ToFloat64(metrics.StoreFailures.WithLabelValues("sheets", operation))
	}
	before := map[string]float64{}
	for _, op := range []string{"find_planned", "upsert", "list", "delete", "get"} {
		before[op] = failures(op)
	}

	assert.Nil(t, client.FindPlannedTasksForWeek(ctx, 5))
	assert.False(t, client.Upsert(ctx, &report.Stored{Week: 5}))
	assert.Nil(t, client.ListWeekNumbers(ctx))
	assert.False(t, client.DeleteWeek(ctx, 5))
	_, ok := client.GetReport(ctx, 5)
	assert.False(t, ok)

	// Every degraded operation is counted, not just logged.
	for _, op := range []string{"find_planned", "upsert", "list", "delete", "get"} {
		assert.Equal(t, before[op]+1, failures(op), "operation %s", op)
	}
}

func TestSanitizeWeek(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"5", 5},
		{" 12. ", 12},
		{"№7", 7},
		{"неделя 3", 3},
		{"", 0},
		{"abc", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeWeek(tt.in), "input %q", tt.in)
	}
}
