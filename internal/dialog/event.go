package dialog

import (
	"fmt"
	"strconv"
	"strings"
)

// Event is one inbound user action: either free text or a discrete
// button choice. Button tokens are decoded into a closed set of
// variants once, at the ingress boundary; the state machine never
// matches on raw strings.
type Event interface {
	isEvent()
}

// TextEvent is a free-text message.
type TextEvent struct {
	Text string
}

// StartReportEvent begins a fresh report.
type StartReportEvent struct{}

// RatingEvent carries one of the ten discrete rating choices.
type RatingEvent struct {
	Value int
}

// ToggleTaskEvent toggles completion of previous-week task Index.
type ToggleTaskEvent struct {
	Index int
}

// NextEvent advances to the following step.
type NextEvent struct{}

// SkipEvent skips the current optional step.
type SkipEvent struct{}

// PriorityEvent picks planned task Index as the priority task.
type PriorityEvent struct {
	Index int
}

// ConfirmEvent saves the report. Used both by the confirmation step and
// the edit hub's save button.
type ConfirmEvent struct{}

// EditReportEvent enters the edit hub from the confirmation step.
type EditReportEvent struct{}

// Section names a report field reachable from the edit hub.
type Section string

const (
	SectionWeek       Section = "week"
	SectionRating     Section = "rating"
	SectionCompleted  Section = "completed"
	SectionIncomplete Section = "incomplete"
	SectionPlanned    Section = "planned"
	SectionPriority   Section = "priority"
	SectionComment    Section = "comment"
)

// EditSectionEvent jumps from the edit hub to a single-field step.
type EditSectionEvent struct {
	Section Section
}

// EditMenuEvent opens the pick-a-task-to-edit keyboard.
type EditMenuEvent struct{}

// EditTaskEvent selects planned task Index for text replacement.
type EditTaskEvent struct {
	Index int
}

// RemoveMenuEvent opens the pick-a-task-to-remove keyboard.
type RemoveMenuEvent struct{}

// RemoveTaskEvent removes planned task Index.
type RemoveTaskEvent struct {
	Index int
}

// LoadReportEvent loads stored report Week into the draft for editing.
type LoadReportEvent struct {
	Week int
}

// DeleteReportEvent deletes stored report Week.
type DeleteReportEvent struct {
	Week int
}

// BackEvent navigates to the previous dialogue step.
type BackEvent struct{}

func (TextEvent) isEvent()         {}
func (StartReportEvent) isEvent()  {}
func (RatingEvent) isEvent()       {}
func (ToggleTaskEvent) isEvent()   {}
func (NextEvent) isEvent()         {}
func (SkipEvent) isEvent()         {}
func (PriorityEvent) isEvent()     {}
func (ConfirmEvent) isEvent()      {}
func (EditReportEvent) isEvent()   {}
func (EditSectionEvent) isEvent()  {}
func (EditMenuEvent) isEvent()     {}
func (EditTaskEvent) isEvent()     {}
func (RemoveMenuEvent) isEvent()   {}
func (RemoveTaskEvent) isEvent()   {}
func (LoadReportEvent) isEvent()   {}
func (DeleteReportEvent) isEvent() {}
func (BackEvent) isEvent()         {}

// Callback tokens. Parameterized tokens use the "name:arg" wire form.
const (
	tokenStart      = "start"
	tokenRating     = "rating"
	tokenTask       = "task"
	tokenNext       = "next"
	tokenSkip       = "skip"
	tokenPriority   = "priority"
	tokenConfirm    = "confirm"
	tokenEdit       = "edit"
	tokenSection    = "section"
	tokenEditMenu   = "edittask"
	tokenRemoveMenu = "remove_menu"
	tokenRemove     = "remove"
	tokenLoad       = "load"
	tokenDelete     = "delete"
	tokenBack       = "back"

	tokenSeparator = ":"
)

// ParseCallback decodes a callback token into an event. Unknown or
// malformed tokens are rejected here so stale buttons never reach the
// state machine as garbage.
func ParseCallback(data string) (Event, error) {
	name := data
	arg := ""
	if i := strings.Index(data, tokenSeparator); i >= 0 {
		name, arg = data[:i], data[i+1:]
	}

	switch name {
	case tokenStart:
		return StartReportEvent{}, nil
	case tokenNext:
		return NextEvent{}, nil
	case tokenSkip:
		return SkipEvent{}, nil
	case tokenConfirm:
		return ConfirmEvent{}, nil
	case tokenEdit:
		return EditReportEvent{}, nil
	case tokenEditMenu:
		if arg == "" {
			return EditMenuEvent{}, nil
		}
		i, err := parseIndex(arg)
		if err != nil {
			return nil, err
		}
		return EditTaskEvent{Index: i}, nil
	case tokenRemoveMenu:
		return RemoveMenuEvent{}, nil
	case tokenBack:
		return BackEvent{}, nil
	case tokenRating:
		v, err := parseIndex(arg)
		if err != nil {
			return nil, err
		}
		if v < 1 || v > 10 {
			return nil, fmt.Errorf("rating out of range: %d", v)
		}
		return RatingEvent{Value: v}, nil
	case tokenTask:
		i, err := parseIndex(arg)
		if err != nil {
			return nil, err
		}
		return ToggleTaskEvent{Index: i}, nil
	case tokenPriority:
		i, err := parseIndex(arg)
		if err != nil {
			return nil, err
		}
		return PriorityEvent{Index: i}, nil
	case tokenRemove:
		i, err := parseIndex(arg)
		if err != nil {
			return nil, err
		}
		return RemoveTaskEvent{Index: i}, nil
	case tokenLoad:
		w, err := parseIndex(arg)
		if err != nil {
			return nil, err
		}
		return LoadReportEvent{Week: w}, nil
	case tokenDelete:
		w, err := parseIndex(arg)
		if err != nil {
			return nil, err
		}
		return DeleteReportEvent{Week: w}, nil
	case tokenSection:
		switch Section(arg) {
		case SectionWeek, SectionRating, SectionCompleted, SectionIncomplete,
			SectionPlanned, SectionPriority, SectionComment:
			return EditSectionEvent{Section: Section(arg)}, nil
		}
		return nil, fmt.Errorf("unknown section: %q", arg)
	default:
		return nil, fmt.Errorf("unknown callback token: %q", data)
	}
}

func parseIndex(arg string) (int, error) {
	i, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("bad callback argument %q: %w", arg, err)
	}
	return i, nil
}
