package dialog

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/user/weekly-report-bot/internal/report"
)

const (
	msgBadWeek     = "Пожалуйста, введите корректный номер недели (целое число не меньше 1)."
	msgPickRating  = "Пожалуйста, выберите оценку кнопкой от 1 до 10."
	msgStale       = "⚠️ Кнопка устарела. Продолжайте текущий шаг."
	msgSaveFailed  = "❌ Ошибка при сохранении отчёта. Попробуйте ещё раз."
	msgUseCommands = "Используйте /new_report, чтобы начать новый отчёт, или /help для списка команд."
)

// Machine drives the report dialogue. Given the current state, the
// user's draft and one inbound event it computes the next state, the
// draft mutation and the outbound reply. Each event is processed to
// completion; the caller serializes events per user.
type Machine struct {
	store ReportStore
	now   func() time.Time
}

func NewMachine(store ReportStore) *Machine {
	return &Machine{store: store, now: time.Now}
}

// Render builds the prompt for a state from the draft. Exposed for the
// ingress to re-render the active step without running a transition.
func Render(d *report.Draft, st State) Reply {
	return renderState(d, st)
}

// Handle runs one transition. The draft is mutated in place; the
// returned state replaces the session's current one.
func (m *Machine) Handle(ctx context.Context, d *report.Draft, st State, ev Event) (State, Reply) {
	switch ev := ev.(type) {
	case TextEvent:
		return m.handleText(d, st, ev.Text)
	case StartReportEvent:
		*d = *report.NewDraft()
		return StateAwaitingWeekNumber, renderState(d, StateAwaitingWeekNumber)
	case RatingEvent:
		return m.handleRating(ctx, d, st, ev.Value)
	case ToggleTaskEvent:
		return m.handleToggle(d, st, ev.Index)
	case NextEvent, SkipEvent:
		return m.handleNext(d, st)
	case PriorityEvent:
		return m.handlePriority(d, st, ev.Index)
	case ConfirmEvent:
		return m.handleConfirm(ctx, d, st)
	case EditReportEvent:
		if st != StateConfirmingReport {
			return stale(d, st)
		}
		return StateEditingReport, renderState(d, StateEditingReport)
	case EditSectionEvent:
		return m.handleEditSection(d, st, ev.Section)
	case EditMenuEvent:
		return m.handleEditMenu(d, st)
	case EditTaskEvent:
		return m.handleEditTask(d, st, ev.Index)
	case RemoveMenuEvent:
		return m.handleRemoveMenu(d, st)
	case RemoveTaskEvent:
		return m.handleRemoveTask(d, st, ev.Index)
	case LoadReportEvent:
		return m.handleLoad(ctx, d, st, ev.Week)
	case DeleteReportEvent:
		return m.handleDelete(ctx, d, st, ev.Week)
	case BackEvent:
		return m.handleBack(d, st)
	default:
		log.Printf("[DIALOG] unhandled event %T in state %s", ev, st)
		return stale(d, st)
	}
}

func (m *Machine) handleText(d *report.Draft, st State, text string) (State, Reply) {
	switch st {
	case StateAwaitingWeekNumber:
		week, ok := report.ValidateWeek(text)
		if !ok {
			return st, Reply{Text: msgBadWeek}
		}
		d.Week = week
		if d.EditMode {
			return StateEditingReport, withNote(renderState(d, StateEditingReport), "Номер недели обновлён.")
		}
		return StateAwaitingRating, renderState(d, StateAwaitingRating)

	case StateAwaitingRating:
		// Only the ten discrete choices are accepted.
		return st, Reply{Text: msgPickRating}

	case StateAddingExtraTasks:
		if d.Target == report.AppendIncomplete {
			d.Incomplete = append(d.Incomplete, text)
		} else {
			d.Completed = append(d.Completed, text)
		}
		return st, withNote(renderState(d, st), "Задача добавлена: "+text)

	case StateAddingPlannedTasks:
		d.Planned = append(d.Planned, text)
		return st, withNote(renderState(d, st), "Задача добавлена: "+text)

	case StateEditingTask:
		if !d.ReplacePlanned(d.EditingIndex, text) {
			d.EditingIndex = -1
			return StateAddingPlannedTasks, renderState(d, StateAddingPlannedTasks)
		}
		d.EditingIndex = -1
		next := StateAddingPlannedTasks
		if d.EditMode {
			next = StateEditingReport
		}
		return next, withNote(renderState(d, next), "Задача изменена: "+text)

	case StateAwaitingComment:
		d.Comment = text
		if d.EditMode {
			return StateEditingReport, withNote(renderState(d, StateEditingReport), "Комментарий обновлён.")
		}
		return StateConfirmingReport, renderState(d, StateConfirmingReport)

	default:
		return st, Reply{Text: msgUseCommands}
	}
}

func (m *Machine) handleRating(ctx context.Context, d *report.Draft, st State, value int) (State, Reply) {
	if st != StateAwaitingRating {
		return stale(d, st)
	}
	d.Rating = value
	if d.EditMode {
		return StateEditingReport, withNote(renderState(d, StateEditingReport), "Оценка обновлена.")
	}

	// One snapshot per report; backward navigation reuses it.
	if !d.PrevFetched {
		d.PrevPlanned = m.store.FindPlannedTasksForWeek(ctx, d.Week)
		d.PrevFetched = true
	}

	if len(d.PrevPlanned) > 0 {
		return StateSelectingCompletedTasks,
			withNote(renderState(d, StateSelectingCompletedTasks), ratingNote(value))
	}
	d.Target = report.AppendCompleted
	return StateAddingExtraTasks,
		withNote(renderState(d, StateAddingExtraTasks), ratingNote(value)+"\nЗадач за прошлую неделю не найдено.")
}

func ratingNote(value int) string {
	return "Оценка недели: " + itoa(value) + "/10"
}

func (m *Machine) handleToggle(d *report.Draft, st State, index int) (State, Reply) {
	if st != StateSelectingCompletedTasks || !d.Toggle(index) {
		return stale(d, st)
	}
	return st, renderState(d, st)
}

func (m *Machine) handleNext(d *report.Draft, st State) (State, Reply) {
	switch st {
	case StateSelectingCompletedTasks:
		d.FinishSelection()
		d.Target = report.AppendCompleted
		return StateAddingExtraTasks, renderState(d, StateAddingExtraTasks)

	case StateAddingExtraTasks:
		if d.EditMode {
			return StateEditingReport, renderState(d, StateEditingReport)
		}
		d.Target = report.AppendPlanned
		return StateAddingPlannedTasks, renderState(d, StateAddingPlannedTasks)

	case StateAddingPlannedTasks:
		if d.EditMode {
			return StateEditingReport, renderState(d, StateEditingReport)
		}
		if len(d.Planned) > 0 {
			return StateSelectingPriorityTask, renderState(d, StateSelectingPriorityTask)
		}
		return StateAwaitingComment, renderState(d, StateAwaitingComment)

	case StateSelectingPriorityTask:
		// Skip: priority stays unset.
		if d.EditMode {
			return StateEditingReport, renderState(d, StateEditingReport)
		}
		return StateAwaitingComment, renderState(d, StateAwaitingComment)

	default:
		return stale(d, st)
	}
}

func (m *Machine) handlePriority(d *report.Draft, st State, index int) (State, Reply) {
	if st != StateSelectingPriorityTask || !d.SetPriority(index) {
		return stale(d, st)
	}
	if d.EditMode {
		return StateEditingReport, withNote(renderState(d, StateEditingReport), "Приоритетная задача обновлена.")
	}
	return StateAwaitingComment, renderState(d, StateAwaitingComment)
}

func (m *Machine) handleConfirm(ctx context.Context, d *report.Draft, st State) (State, Reply) {
	if st != StateConfirmingReport && st != StateEditingReport {
		return stale(d, st)
	}
	if !m.store.Upsert(ctx, d.ToStored(m.now())) {
		// State is not advanced; the user may retry.
		return st, Reply{Text: msgSaveFailed}
	}
	text := "✅ Отчёт успешно сохранён!\n\n" + report.Format(d)
	*d = *report.NewDraft()
	return StateIdle, Reply{Text: text}
}

func (m *Machine) handleEditSection(d *report.Draft, st State, section Section) (State, Reply) {
	if st != StateEditingReport {
		return stale(d, st)
	}
	switch section {
	case SectionWeek:
		return StateAwaitingWeekNumber, Reply{Text: "Введите новый номер недели:", Choices: [][]Choice{backRow}}
	case SectionRating:
		return StateAwaitingRating, renderState(d, StateAwaitingRating)
	case SectionCompleted:
		d.Target = report.AppendCompleted
		return StateAddingExtraTasks, renderState(d, StateAddingExtraTasks)
	case SectionIncomplete:
		d.Target = report.AppendIncomplete
		return StateAddingExtraTasks, renderState(d, StateAddingExtraTasks)
	case SectionPlanned:
		d.Target = report.AppendPlanned
		return StateAddingPlannedTasks, renderState(d, StateAddingPlannedTasks)
	case SectionPriority:
		if len(d.Planned) == 0 {
			return st, withNote(renderState(d, st), "Нет запланированных задач для выбора приоритета.")
		}
		return StateSelectingPriorityTask, renderState(d, StateSelectingPriorityTask)
	case SectionComment:
		return StateAwaitingComment, Reply{Text: "Введите новый комментарий:", Choices: [][]Choice{backRow}}
	default:
		return stale(d, st)
	}
}

func (m *Machine) handleEditMenu(d *report.Draft, st State) (State, Reply) {
	if st != StateAddingPlannedTasks {
		return stale(d, st)
	}
	if len(d.Planned) == 0 {
		return st, withNote(renderState(d, st), "Нет задач для редактирования.")
	}
	rows := make([][]Choice, 0, len(d.Planned)+1)
	for i, task := range d.Planned {
		rows = append(rows, []Choice{{Label: task, Data: tokenEditMenu + tokenSeparator + itoa(i)}})
	}
	rows = append(rows, backRow)
	return st, Reply{Text: "Выберите задачу для редактирования:", Choices: rows}
}

func (m *Machine) handleEditTask(d *report.Draft, st State, index int) (State, Reply) {
	if st != StateAddingPlannedTasks || index < 0 || index >= len(d.Planned) {
		return stale(d, st)
	}
	d.EditingIndex = index
	return StateEditingTask, renderState(d, StateEditingTask)
}

func (m *Machine) handleRemoveMenu(d *report.Draft, st State) (State, Reply) {
	if st != StateEditingReport {
		return stale(d, st)
	}
	if len(d.Planned) == 0 {
		return st, withNote(renderState(d, st), "Нет задач для удаления.")
	}
	rows := make([][]Choice, 0, len(d.Planned)+1)
	for i, task := range d.Planned {
		rows = append(rows, []Choice{{Label: task, Data: tokenRemove + tokenSeparator + itoa(i)}})
	}
	rows = append(rows, backRow)
	return st, Reply{Text: "Выберите задачу для удаления из планов:", Choices: rows}
}

func (m *Machine) handleRemoveTask(d *report.Draft, st State, index int) (State, Reply) {
	if st != StateEditingReport || !d.RemovePlanned(index) {
		return stale(d, st)
	}
	return st, withNote(renderState(d, st), "Задача удалена.")
}

func (m *Machine) handleLoad(ctx context.Context, d *report.Draft, st State, week int) (State, Reply) {
	stored, ok := m.store.GetReport(ctx, week)
	if !ok {
		return st, Reply{Text: "❌ Не удалось загрузить отчёт за неделю " + itoa(week) + "."}
	}
	*d = *report.FromStored(stored)
	return StateEditingReport, withNote(renderState(d, StateEditingReport), "Отчёт за неделю "+itoa(week)+" загружен.")
}

func (m *Machine) handleDelete(ctx context.Context, d *report.Draft, st State, week int) (State, Reply) {
	if !m.store.DeleteWeek(ctx, week) {
		return st, Reply{Text: "❌ Не удалось удалить отчёт за неделю " + itoa(week) + "."}
	}
	*d = *report.NewDraft()
	return StateIdle, Reply{Text: "🗑 Отчёт за неделю " + itoa(week) + " удалён."}
}

// handleBack moves to the previous logical step. Only the state pointer
// changes; data entered in states the user is not revisiting stays put.
func (m *Machine) handleBack(d *report.Draft, st State) (State, Reply) {
	// Single-field jumps from the edit hub return to the hub.
	if d.EditMode && st != StateEditingReport && st != StateIdle {
		d.EditingIndex = -1
		return StateEditingReport, renderState(d, StateEditingReport)
	}

	var prev State
	switch st {
	case StateAwaitingWeekNumber:
		prev = StateIdle
	case StateAwaitingRating:
		prev = StateAwaitingWeekNumber
	case StateSelectingCompletedTasks:
		prev = StateAwaitingRating
	case StateAddingExtraTasks:
		if len(d.PrevPlanned) > 0 {
			prev = StateSelectingCompletedTasks
		} else {
			prev = StateAwaitingRating
		}
	case StateAddingPlannedTasks:
		d.Target = report.AppendCompleted
		prev = StateAddingExtraTasks
	case StateEditingTask:
		d.EditingIndex = -1
		prev = StateAddingPlannedTasks
	case StateSelectingPriorityTask:
		prev = StateAddingPlannedTasks
	case StateAwaitingComment:
		if len(d.Planned) > 0 {
			prev = StateSelectingPriorityTask
		} else {
			prev = StateAddingPlannedTasks
		}
	case StateConfirmingReport:
		prev = StateAwaitingComment
	case StateEditingReport:
		prev = StateConfirmingReport
	default:
		return stale(d, st)
	}
	return prev, renderState(d, prev)
}

// stale answers a button press that is not valid in the current state,
// leaving state and draft unchanged.
func stale(d *report.Draft, st State) (State, Reply) {
	log.Printf("[DIALOG] stale event ignored in state %s", st)
	return st, Reply{Text: msgStale}
}

// LoadToken builds the callback token that loads stored week w for editing.
func LoadToken(w int) string {
	return tokenLoad + tokenSeparator + itoa(w)
}

// DeleteToken builds the callback token that deletes stored week w.
func DeleteToken(w int) string {
	return tokenDelete + tokenSeparator + itoa(w)
}

func itoa(v int) string {
	return strconv.Itoa(v)
}
