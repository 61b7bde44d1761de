package dialog

import (
	"fmt"

	"github.com/user/weekly-report-bot/internal/report"
)

// Choice is one discrete affordance offered to the user: a label plus
// the opaque callback token it sends back.
type Choice struct {
	Label string
	Data  string
}

// Reply is the outbound side of one transition: text and an optional
// inline keyboard, the dialogue's only UI primitive.
type Reply struct {
	Text    string
	Choices [][]Choice
}

var backRow = []Choice{{Label: "◀️ Назад", Data: tokenBack}}

// renderState builds the prompt for a state from the current draft.
// Backward navigation reuses it, so prompts must derive from draft data
// only and never refetch anything.
func renderState(d *report.Draft, st State) Reply {
	switch st {
	case StateAwaitingWeekNumber:
		return Reply{
			Text:    "Введите номер недели для отчёта:",
			Choices: [][]Choice{backRow},
		}

	case StateAwaitingRating:
		rows := make([][]Choice, 0, 3)
		for _, span := range [][2]int{{1, 5}, {6, 10}} {
			row := make([]Choice, 0, 5)
			for v := span[0]; v <= span[1]; v++ {
				row = append(row, Choice{
					Label: fmt.Sprintf("%d", v),
					Data:  fmt.Sprintf("%s%s%d", tokenRating, tokenSeparator, v),
				})
			}
			rows = append(rows, row)
		}
		rows = append(rows, backRow)
		return Reply{
			Text:    fmt.Sprintf("Неделя %d\n\nОцените неделю от 1 до 10:", d.Week),
			Choices: rows,
		}

	case StateSelectingCompletedTasks:
		rows := make([][]Choice, 0, len(d.PrevPlanned)+2)
		for i, task := range d.PrevPlanned {
			status := "❌"
			if d.IsCompleted(i) {
				status = "✅"
			}
			rows = append(rows, []Choice{{
				Label: status + " " + task,
				Data:  fmt.Sprintf("%s%s%d", tokenTask, tokenSeparator, i),
			}})
		}
		rows = append(rows, []Choice{{Label: "➡️ Далее", Data: tokenNext}}, backRow)
		return Reply{
			Text:    "Вот задачи за прошедшую неделю. Что из этого было выполнено?",
			Choices: rows,
		}

	case StateAddingExtraTasks:
		text := "Что ещё было сделано на этой неделе? (напишите по одной задаче):"
		if d.Target == report.AppendIncomplete {
			text = "Добавьте невыполненные задачи (напишите по одной задаче):"
		}
		return Reply{
			Text: text,
			Choices: [][]Choice{
				{{Label: "➡️ Далее", Data: tokenNext}},
				backRow,
			},
		}

	case StateAddingPlannedTasks:
		return Reply{
			Text: "Что запланировано на следующую неделю? (напишите по одной задаче):",
			Choices: [][]Choice{
				{{Label: "➡️ Далее", Data: tokenNext}},
				{{Label: "✏️ Изменить задачу", Data: tokenEditMenu}},
				backRow,
			},
		}

	case StateEditingTask:
		text := "Внесите изменения в задачу:"
		if d.EditingIndex >= 0 && d.EditingIndex < len(d.Planned) {
			text = fmt.Sprintf("Текущая задача: %s\n\nВнесите изменения в задачу:", d.Planned[d.EditingIndex])
		}
		return Reply{Text: text, Choices: [][]Choice{backRow}}

	case StateSelectingPriorityTask:
		rows := make([][]Choice, 0, len(d.Planned)+2)
		for i, task := range d.Planned {
			rows = append(rows, []Choice{{
				Label: task,
				Data:  fmt.Sprintf("%s%s%d", tokenPriority, tokenSeparator, i),
			}})
		}
		rows = append(rows, []Choice{{Label: "⏭️ Пропустить", Data: tokenSkip}}, backRow)
		return Reply{
			Text:    "Выберите приоритетную задачу из запланированных:",
			Choices: rows,
		}

	case StateAwaitingComment:
		return Reply{
			Text:    "Добавьте комментарий к отчёту:",
			Choices: [][]Choice{backRow},
		}

	case StateConfirmingReport:
		return Reply{
			Text: fmt.Sprintf("Предварительный отчёт:\n\n%s\n\nПодтвердить отчёт?", report.Format(d)),
			Choices: [][]Choice{
				{{Label: "✅ Подтвердить", Data: tokenConfirm}},
				{{Label: "✏️ Изменить", Data: tokenEdit}},
				backRow,
			},
		}

	case StateEditingReport:
		return Reply{
			Text: "Что хотите изменить в отчёте?",
			Choices: [][]Choice{
				{{Label: "📅 Номер недели", Data: sectionToken(SectionWeek)}},
				{{Label: "⭐ Оценка", Data: sectionToken(SectionRating)}},
				{{Label: "✅ Выполненные задачи", Data: sectionToken(SectionCompleted)}},
				{{Label: "❌ Невыполненные задачи", Data: sectionToken(SectionIncomplete)}},
				{{Label: "📋 Планируемые задачи", Data: sectionToken(SectionPlanned)}},
				{{Label: "🎯 Приоритетная задача", Data: sectionToken(SectionPriority)}},
				{{Label: "💬 Комментарий", Data: sectionToken(SectionComment)}},
				{{Label: "🗑 Удалить задачу из планов", Data: tokenRemoveMenu}},
				{{Label: "💾 Сохранить", Data: tokenConfirm}},
				backRow,
			},
		}

	default: // StateIdle
		return Reply{
			Text: "Привет! Я помогу тебе создать еженедельный отчёт.\nНажми кнопку ниже, чтобы начать:",
			Choices: [][]Choice{
				{{Label: "📝 Создать отчёт", Data: tokenStart}},
			},
		}
	}
}

// withNote prepends an acknowledgement line to a rendered prompt.
func withNote(r Reply, note string) Reply {
	r.Text = note + "\n\n" + r.Text
	return r
}

func sectionToken(s Section) string {
	return tokenSection + tokenSeparator + string(s)
}
