package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const (
	GoalStatusPending    = "pending"
	GoalStatusInProgress = "in_progress"
	GoalStatusCompleted  = "completed"
	GoalStatusArchived   = "archived"

	GoalPriorityLow    = "low"
	GoalPriorityMedium = "medium"
	GoalPriorityHigh   = "high"

	GoalVisibilityPrivate = "private"
	GoalVisibilityPublic  = "public"
)

func ValidGoalStatus(s string) bool {
	switch s {
	case GoalStatusPending, GoalStatusInProgress, GoalStatusCompleted, GoalStatusArchived:
		return true
	}
	return false
}

func ValidGoalPriority(p string) bool {
	switch p {
	case GoalPriorityLow, GoalPriorityMedium, GoalPriorityHigh:
		return true
	}
	return false
}

func ValidGoalVisibility(v string) bool {
	switch v {
	case GoalVisibilityPrivate, GoalVisibilityPublic:
		return true
	}
	return false
}

// Milestone is an inline sub-document of a goal, stored as JSON in the
// goals.milestones column.
type Milestone struct {
	Title   string     `json:"title"`
	Done    bool       `json:"done"`
	DueDate *time.Time `json:"dueDate,omitempty"`
	Notes   string     `json:"notes,omitempty"`
}

// Reminder is an inline sub-document of a goal. The sent flag is persisted
// metadata only; delivery happens outside this service.
type Reminder struct {
	Date    time.Time `json:"date"`
	Message string    `json:"message,omitempty"`
	Sent    bool      `json:"sent"`
}

type Goal struct {
	ID           string        `db:"id" json:"id"`
	UserID       string        `db:"user_id" json:"user"`
	Title        string        `db:"title" json:"title"`
	Description  string        `db:"description" json:"description"`
	Category     string        `db:"category" json:"category"`
	Status       string        `db:"status" json:"status"`
	Priority     string        `db:"priority" json:"priority"`
	StartDate    *time.Time    `db:"start_date" json:"startDate,omitempty"`
	DueDate      *time.Time    `db:"due_date" json:"dueDate,omitempty"`
	Progress     int           `db:"progress" json:"progress"`
	Tags         StringList    `db:"tags" json:"tags"`
	Milestones   MilestoneList `db:"milestones" json:"milestones"`
	Reminders    ReminderList  `db:"reminders" json:"reminders"`
	Visibility   string        `db:"visibility" json:"visibility"`
	TargetValue  *float64      `db:"target_value" json:"targetValue,omitempty"`
	CurrentValue *float64      `db:"current_value" json:"currentValue,omitempty"`
	Unit         string        `db:"unit" json:"unit,omitempty"`
	StreakCount  int           `db:"streak_count" json:"streakCount"`
	CreatedAt    time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updatedAt"`
}

// JSON-encoded list columns. SQLite and Postgres both store these as TEXT;
// scanning an empty or NULL column yields an empty (non-nil) slice so the
// API always serializes [] instead of null.

type StringList []string

func (l *StringList) Scan(value any) error {
	return scanJSONList(value, l)
}

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

type MilestoneList []Milestone

func (l *MilestoneList) Scan(value any) error {
	return scanJSONList(value, l)
}

func (l MilestoneList) Value() (driver.Value, error) {
	if l == nil {
		l = MilestoneList{}
	}
	return json.Marshal(l)
}

type ReminderList []Reminder

func (l *ReminderList) Scan(value any) error {
	return scanJSONList(value, l)
}

func (l ReminderList) Value() (driver.Value, error) {
	if l == nil {
		l = ReminderList{}
	}
	return json.Marshal(l)
}

func scanJSONList(value, dest any) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		data = []byte("[]")
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported column type %T", value)
	}
	if len(data) == 0 {
		data = []byte("[]")
	}
	return json.Unmarshal(data, dest)
}
