package service

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MiguelProz/kairos/internal/model"
	"github.com/MiguelProz/kairos/internal/repository"
)

type GoalService struct {
	repo repository.GoalRepository
}

func NewGoalService(repo repository.GoalRepository) *GoalService {
	return &GoalService{repo: repo}
}

// GoalInput is the request payload for create and update. Every field is
// optional; on create, absent fields take schema defaults. ID and User are
// accepted but discarded: the owner always comes from the verified token.
type GoalInput struct {
	ID           *string              `json:"id"`
	User         *string              `json:"user"`
	Title        *string              `json:"title"`
	Description  *string              `json:"description"`
	Category     *string              `json:"category"`
	Status       *string              `json:"status"`
	Priority     *string              `json:"priority"`
	StartDate    *time.Time           `json:"startDate"`
	DueDate      *time.Time           `json:"dueDate"`
	Progress     *int                 `json:"progress"`
	Tags         *model.StringList    `json:"tags"`
	Milestones   *model.MilestoneList `json:"milestones"`
	Reminders    *model.ReminderList  `json:"reminders"`
	Visibility   *string              `json:"visibility"`
	TargetValue  *float64             `json:"targetValue"`
	CurrentValue *float64             `json:"currentValue"`
	Unit         *string              `json:"unit"`
	StreakCount  *int                 `json:"streakCount"`
}

func (s *GoalService) Create(userID string, in GoalInput) (*model.Goal, error) {
	now := time.Now()
	goal := &model.Goal{
		ID:         uuid.New().String(),
		UserID:     userID,
		Status:     model.GoalStatusPending,
		Priority:   model.GoalPriorityMedium,
		Visibility: model.GoalVisibilityPrivate,
		Tags:       model.StringList{},
		Milestones: model.MilestoneList{},
		Reminders:  model.ReminderList{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	apply(goal, in)

	err := validateGoal(goal)
	if err != nil {
		return nil, err
	}

	err = s.repo.Create(goal)
	if err != nil {
		return nil, err
	}

	return goal, nil
}

func (s *GoalService) ByID(userID, goalID string) (*model.Goal, error) {
	return s.repo.ByID(userID, goalID)
}

func (s *GoalService) Goals(userID string, filter repository.GoalFilter) ([]*model.Goal, error) {
	return s.repo.Goals(userID, filter)
}

// Update applies a partial patch. The lookup is scoped to the owner, so a
// goal belonging to another user surfaces as not found.
func (s *GoalService) Update(userID, goalID string, in GoalInput) (*model.Goal, error) {
	goal, err := s.repo.ByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	apply(goal, in)

	err = validateGoal(goal)
	if err != nil {
		return nil, err
	}

	goal.UpdatedAt = time.Now()
	err = s.repo.Update(goal)
	if err != nil {
		return nil, err
	}

	return goal, nil
}

func (s *GoalService) Delete(userID, goalID string) error {
	return s.repo.Delete(userID, goalID)
}

func apply(goal *model.Goal, in GoalInput) {
	if in.Title != nil {
		goal.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		goal.Description = strings.TrimSpace(*in.Description)
	}
	if in.Category != nil {
		goal.Category = strings.TrimSpace(*in.Category)
	}
	if in.Status != nil {
		goal.Status = *in.Status
	}
	if in.Priority != nil {
		goal.Priority = *in.Priority
	}
	if in.StartDate != nil {
		goal.StartDate = in.StartDate
	}
	if in.DueDate != nil {
		goal.DueDate = in.DueDate
	}
	if in.Progress != nil {
		goal.Progress = *in.Progress
	}
	if in.Tags != nil {
		goal.Tags = *in.Tags
	}
	if in.Milestones != nil {
		goal.Milestones = *in.Milestones
	}
	if in.Reminders != nil {
		goal.Reminders = *in.Reminders
	}
	if in.Visibility != nil {
		goal.Visibility = *in.Visibility
	}
	if in.TargetValue != nil {
		goal.TargetValue = in.TargetValue
	}
	if in.CurrentValue != nil {
		goal.CurrentValue = in.CurrentValue
	}
	if in.Unit != nil {
		goal.Unit = strings.TrimSpace(*in.Unit)
	}
	if in.StreakCount != nil {
		goal.StreakCount = *in.StreakCount
	}
}

func validateGoal(goal *model.Goal) error {
	if goal.Title == "" {
		return invalidInput("title is required")
	}
	if !model.ValidGoalStatus(goal.Status) {
		return invalidInputf("invalid status %q", goal.Status)
	}
	if !model.ValidGoalPriority(goal.Priority) {
		return invalidInputf("invalid priority %q", goal.Priority)
	}
	if !model.ValidGoalVisibility(goal.Visibility) {
		return invalidInputf("invalid visibility %q", goal.Visibility)
	}

	for i, m := range goal.Milestones {
		title := strings.TrimSpace(m.Title)
		if title == "" {
			return invalidInputf("milestone %d: title is required", i)
		}
		goal.Milestones[i].Title = title
	}
	for i, r := range goal.Reminders {
		if r.Date.IsZero() {
			return invalidInputf("reminder %d: date is required", i)
		}
	}

	// Progress is clamped rather than rejected
	if goal.Progress < 0 {
		goal.Progress = 0
	}
	if goal.Progress > 100 {
		goal.Progress = 100
	}
	if goal.StreakCount < 0 {
		goal.StreakCount = 0
	}

	return nil
}
