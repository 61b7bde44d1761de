package dialog

// State is the dialogue step a user is currently in. Exactly one state
// is active per user at any time.
type State int

const (
	StateIdle State = iota
	StateAwaitingWeekNumber
	StateAwaitingRating
	StateSelectingCompletedTasks
	StateAddingExtraTasks
	StateAddingPlannedTasks
	StateEditingTask
	StateSelectingPriorityTask
	StateAwaitingComment
	StateConfirmingReport
	StateEditingReport
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingWeekNumber:
		return "awaiting_week_number"
	case StateAwaitingRating:
		return "awaiting_rating"
	case StateSelectingCompletedTasks:
		return "selecting_completed_tasks"
	case StateAddingExtraTasks:
		return "adding_extra_tasks"
	case StateAddingPlannedTasks:
		return "adding_planned_tasks"
	case StateEditingTask:
		return "editing_task"
	case StateSelectingPriorityTask:
		return "selecting_priority_task"
	case StateAwaitingComment:
		return "awaiting_comment"
	case StateConfirmingReport:
		return "confirming_report"
	case StateEditingReport:
		return "editing_report"
	default:
		return "unknown"
	}
}
