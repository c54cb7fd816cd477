package repository

import (
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/MiguelProz/kairos/internal/model"
)

var (
	ErrGoalNotFound = errors.New("goal not found")
)

// GoalFilter narrows a goal listing. All fields are conjunctive;
// zero values are ignored.
type GoalFilter struct {
	Status   string
	Priority string
	Search   string
}

type GoalRepository interface {
	Create(goal *model.Goal) error
	ByID(userID, goalID string) (*model.Goal, error)
	Goals(userID string, filter GoalFilter) ([]*model.Goal, error)
	Update(goal *model.Goal) error
	Delete(userID, goalID string) error
}

type goalRepository struct {
	db *sqlx.DB
}

func NewGoalRepository(db *sqlx.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Create(goal *model.Goal) error {
	query := `INSERT INTO goals (id, user_id, title, description, category, status, priority,
	              start_date, due_date, progress, tags, milestones, reminders, visibility,
	              target_value, current_value, unit, streak_count, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`

	_, err := r.db.Exec(query,
		goal.ID,
		goal.UserID,
		goal.Title,
		goal.Description,
		goal.Category,
		goal.Status,
		goal.Priority,
		goal.StartDate,
		goal.DueDate,
		goal.Progress,
		goal.Tags,
		goal.Milestones,
		goal.Reminders,
		goal.Visibility,
		goal.TargetValue,
		goal.CurrentValue,
		goal.Unit,
		goal.StreakCount,
		goal.CreatedAt,
		goal.UpdatedAt,
	)

	return err
}

// ByID filters by (id, user_id) jointly so a goal owned by another user is
// indistinguishable from a nonexistent one.
func (r *goalRepository) ByID(userID, goalID string) (*model.Goal, error) {
	goal := &model.Goal{}
	query := `SELECT * FROM goals WHERE id = $1 AND user_id = $2`

	err := r.db.Get(goal, query, goalID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrGoalNotFound
	}

	return goal, err
}

func (r *goalRepository) Goals(userID string, filter GoalFilter) ([]*model.Goal, error) {
	query := `SELECT * FROM goals WHERE user_id = $1`
	args := []any{userID}

	if filter.Status != "" {
		args = append(args, filter.Status)
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	if filter.Priority != "" {
		args = append(args, filter.Priority)
		query += ` AND priority = $` + strconv.Itoa(len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		p := `$` + strconv.Itoa(len(args))
		query += ` AND (title LIKE ` + p + ` ESCAPE '\'
		           OR description LIKE ` + p + ` ESCAPE '\'
		           OR category LIKE ` + p + ` ESCAPE '\'
		           OR tags LIKE ` + p + ` ESCAPE '\')`
	}

	query += ` ORDER BY updated_at DESC`

	goals := []*model.Goal{}
	err := r.db.Select(&goals, query, args...)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

func (r *goalRepository) Update(goal *model.Goal) error {
	query := `UPDATE goals
	          SET title = $1, description = $2, category = $3, status = $4, priority = $5,
	              start_date = $6, due_date = $7, progress = $8, tags = $9, milestones = $10,
	              reminders = $11, visibility = $12, target_value = $13, current_value = $14,
	              unit = $15, streak_count = $16, updated_at = $17
	          WHERE id = $18 AND user_id = $19`

	result, err := r.db.Exec(query,
		goal.Title,
		goal.Description,
		goal.Category,
		goal.Status,
		goal.Priority,
		goal.StartDate,
		goal.DueDate,
		goal.Progress,
		goal.Tags,
		goal.Milestones,
		goal.Reminders,
		goal.Visibility,
		goal.TargetValue,
		goal.CurrentValue,
		goal.Unit,
		goal.StreakCount,
		goal.UpdatedAt,
		goal.ID,
		goal.UserID,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrGoalNotFound
	}

	return nil
}

func (r *goalRepository) Delete(userID, goalID string) error {
	query := `DELETE FROM goals WHERE id = $1 AND user_id = $2`
	result, err := r.db.Exec(query, goalID, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrGoalNotFound
	}

	return nil
}

// escapeLike escapes LIKE wildcards in a user-supplied search term.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
