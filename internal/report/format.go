package report

import (
	"fmt"
	"strings"
)

// Symbols used in the rendered report. The priority task additionally
// carries the star marker and sorts first within its group.
const (
	symbolPlannedDone = "✓"
	symbolExtraDone   = "+"
	symbolUndone      = "-"
	symbolPlanned     = "☐"
	symbolPriority    = "✶"
)

// Format renders the report summary shown to the user before saving and
// after a successful save. Pure function of the draft.
//
// "Что было сделано" lists planned-then-completed tasks first, then
// tasks done outside the plan, then incomplete tasks; within each group
// the priority task comes first. "Планы на следующую неделю" lists the
// planned tasks, priority first.
func Format(d *Draft) string {
	var done []string
	done = append(done, renderGroup(plannedDone(d), symbolPlannedDone, d.Priority)...)
	done = append(done, renderGroup(extraDone(d), symbolExtraDone, d.Priority)...)
	done = append(done, renderGroup(d.Incomplete, symbolUndone, d.Priority)...)

	planned := renderGroup(d.Planned, symbolPlanned, d.Priority)

	doneSection := "Нет выполненных задач"
	if len(done) > 0 {
		doneSection = strings.Join(done, "\n")
	}
	plannedSection := "Нет запланированных задач"
	if len(planned) > 0 {
		plannedSection = strings.Join(planned, "\n")
	}
	comment := d.Comment
	if comment == "" {
		comment = "Нет комментария"
	}

	return fmt.Sprintf(`#итоги_недели

%d неделя

1. Состояние: %d/10

2. Что было сделано:
%s

3. Планы на следующую неделю:
%s

4. Комментарий: %s`,
		d.Week, d.Rating, doneSection, plannedSection, comment)
}

// plannedDone returns completed tasks that were in last week's plan.
func plannedDone(d *Draft) []string {
	var tasks []string
	for _, task := range d.Completed {
		if contains(d.PrevPlanned, task) {
			tasks = append(tasks, task)
		}
	}
	return tasks
}

// extraDone returns completed tasks that were not planned.
func extraDone(d *Draft) []string {
	var tasks []string
	for _, task := range d.Completed {
		if !contains(d.PrevPlanned, task) {
			tasks = append(tasks, task)
		}
	}
	return tasks
}

// renderGroup prefixes each task with the group symbol, moving the
// priority task to the front with the star marker. Entry order is kept
// otherwise.
func renderGroup(tasks []string, symbol, priority string) []string {
	var lines []string
	for _, task := range tasks {
		if priority != "" && task == priority {
			lines = append([]string{symbol + " " + symbolPriority + " " + task}, lines...)
			continue
		}
		lines = append(lines, symbol+" "+task)
	}
	return lines
}
