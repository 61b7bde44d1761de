package report

import (
	"strconv"
	"strings"
	"time"
)

// AppendTarget names the task list a free-text entry is appended to.
type AppendTarget int

const (
	AppendCompleted AppendTarget = iota
	AppendIncomplete
	AppendPlanned
)

// Draft is the in-progress, unsaved report for a single user. It is
// owned exclusively by that user's dialogue session.
type Draft struct {
	Week       int
	Rating     int
	Completed  []string
	Incomplete []string
	Planned    []string
	Priority   string
	Comment    string

	// PrevPlanned is the previous-week planned-tasks snapshot, fetched
	// once per rating step and reused on backward navigation.
	PrevPlanned []string
	PrevFetched bool

	// EditingIndex points into Planned while a task text is being
	// replaced; -1 when unset.
	EditingIndex int

	// Target selects the list free text is appended to while adding tasks.
	Target AppendTarget

	// EditMode is set when the draft was loaded from a stored report;
	// single-field steps then return to the edit hub.
	EditMode bool
}

// NewDraft returns an empty draft with no task being edited.
func NewDraft() *Draft {
	return &Draft{EditingIndex: -1}
}

// ValidateWeek parses a week number entered as text. Valid weeks are
// integers >= 1.
func ValidateWeek(s string) (int, bool) {
	week, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || week < 1 {
		return 0, false
	}
	return week, true
}

// Toggle flips the completion of previous-week task i between the
// completed and incomplete lists. A task is never present in both.
func (d *Draft) Toggle(i int) bool {
	if i < 0 || i >= len(d.PrevPlanned) {
		return false
	}
	task := d.PrevPlanned[i]
	if contains(d.Completed, task) {
		d.Completed = remove(d.Completed, task)
		d.Incomplete = append(d.Incomplete, task)
		return true
	}
	d.Incomplete = remove(d.Incomplete, task)
	d.Completed = append(d.Completed, task)
	return true
}

// IsCompleted reports whether previous-week task i is currently marked done.
func (d *Draft) IsCompleted(i int) bool {
	if i < 0 || i >= len(d.PrevPlanned) {
		return false
	}
	return contains(d.Completed, d.PrevPlanned[i])
}

// FinishSelection derives the incomplete list: every previous-week task
// not marked completed.
func (d *Draft) FinishSelection() {
	incomplete := make([]string, 0, len(d.PrevPlanned))
	for _, task := range d.PrevPlanned {
		if !contains(d.Completed, task) {
			incomplete = append(incomplete, task)
		}
	}
	d.Incomplete = incomplete
}

// SetPriority marks planned task i as the priority task.
func (d *Draft) SetPriority(i int) bool {
	if i < 0 || i >= len(d.Planned) {
		return false
	}
	d.Priority = d.Planned[i]
	return true
}

// RemovePlanned deletes planned task i. The priority reference is
// cleared when it pointed at the removed task.
func (d *Draft) RemovePlanned(i int) bool {
	if i < 0 || i >= len(d.Planned) {
		return false
	}
	if d.Planned[i] == d.Priority {
		d.Priority = ""
	}
	d.Planned = append(d.Planned[:i], d.Planned[i+1:]...)
	return true
}

// ReplacePlanned rewrites the text of planned task i, keeping the
// priority mark under the new text.
func (d *Draft) ReplacePlanned(i int, text string) bool {
	if i < 0 || i >= len(d.Planned) {
		return false
	}
	if d.Planned[i] == d.Priority {
		d.Priority = text
	}
	d.Planned[i] = text
	return true
}

// Stored is the persisted row of a finalized weekly report, keyed
// uniquely by week number. Task lists are newline-joined blobs.
type Stored struct {
	Timestamp  string
	Week       int
	Rating     int
	Completed  string
	Incomplete string
	Planned    string
	Comment    string
}

const timestampLayout = "2006-01-02 15:04:05"

// ToStored serializes the draft for persistence.
func (d *Draft) ToStored(now time.Time) *Stored {
	return &Stored{
		Timestamp:  now.Format(timestampLayout),
		Week:       d.Week,
		Rating:     d.Rating,
		Completed:  strings.Join(d.Completed, "\n"),
		Incomplete: strings.Join(d.Incomplete, "\n"),
		Planned:    strings.Join(d.Planned, "\n"),
		Comment:    d.Comment,
	}
}

// FromStored loads a stored report into a fresh draft for editing.
func FromStored(st *Stored) *Draft {
	d := NewDraft()
	d.Week = st.Week
	d.Rating = st.Rating
	d.Completed = SplitTasks(st.Completed)
	d.Incomplete = SplitTasks(st.Incomplete)
	d.Planned = SplitTasks(st.Planned)
	d.Comment = st.Comment
	d.EditMode = true
	return d
}

// SplitTasks splits a newline-joined task blob, dropping empty segments.
func SplitTasks(blob string) []string {
	var tasks []string
	for _, line := range strings.Split(blob, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			tasks = append(tasks, line)
		}
	}
	return tasks
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// remove drops the first occurrence of s only: an extra task worded
// identically to a previous-week task must survive a toggle.
func remove(list []string, s string) []string {
	for i, item := range list {
		if item == s {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
