package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/miutaku/nugget/internal/model"
	"github.com/miutaku/nugget/internal/repository"
)

type assignmentRepository struct {
	BaseRepository
}

func NewAssignmentRepository(base BaseRepository) repository.AssignmentRepository {
	return &assignmentRepository{base}
}

// reminderRow flattens the assignment/todo/user/setting join for sqlx.
type reminderRow struct {
	AID             uuid.UUID  `db:"a_id"`
	ATodoID         uuid.UUID  `db:"a_todo_id"`
	AUserID         uuid.UUID  `db:"a_user_id"`
	AIsCompleted    bool       `db:"a_is_completed"`
	ACompletedAt    *time.Time `db:"a_completed_at"`
	ALastNotifiedAt *time.Time `db:"a_last_notified_at"`
	ACreatedAt      time.Time  `db:"a_created_at"`

	TID           uuid.UUID `db:"t_id"`
	TTitle        string    `db:"t_title"`
	TDescription  *string   `db:"t_description"`
	TDueDate      time.Time `db:"t_due_date"`
	TCreatedByID  uuid.UUID `db:"t_created_by_id"`
	TReminderDays model.DayList `db:"t_reminder_days"`

	UID          uuid.UUID `db:"u_id"`
	UEmail       string    `db:"u_email"`
	UName        string    `db:"u_name"`
	USlackUserID *string   `db:"u_slack_user_id"`
	UIsActive    bool      `db:"u_is_active"`

	SID               *uuid.UUID    `db:"s_id"`
	SDaysBeforeDue    model.DayList `db:"s_days_before_due"`
	SEnabled          *bool         `db:"s_enabled"`
	SNotificationHour *int          `db:"s_notification_hour"`
}

func (row *reminderRow) toCandidate() *model.ReminderCandidate {
	c := &model.ReminderCandidate{
		Assignment: model.Assignment{
			ID:             row.AID,
			TodoID:         row.ATodoID,
			UserID:         row.AUserID,
			IsCompleted:    row.AIsCompleted,
			CompletedAt:    row.ACompletedAt,
			LastNotifiedAt: row.ALastNotifiedAt,
			CreatedAt:      row.ACreatedAt,
		},
		Todo: model.Todo{
			Title:        row.TTitle,
			Description:  row.TDescription,
			DueDate:      row.TDueDate,
			CreatedByID:  row.TCreatedByID,
			ReminderDays: row.TReminderDays,
		},
		User: model.User{
			Email:       row.UEmail,
			Name:        row.UName,
			SlackUserID: row.USlackUserID,
			IsActive:    row.UIsActive,
		},
	}
	c.Todo.ID = row.TID
	c.User.ID = row.UID

	if row.SID != nil && row.SEnabled != nil && row.SNotificationHour != nil {
		setting := &model.NotificationSetting{
			UserID:           row.UID,
			DaysBeforeDue:    row.SDaysBeforeDue,
			Enabled:          *row.SEnabled,
			NotificationHour: *row.SNotificationHour,
		}
		setting.ID = *row.SID
		c.Setting = setting
	}
	return c
}

func (r *assignmentRepository) ListOpenWithContext(ctx context.Context) ([]*model.ReminderCandidate, error) {
	query := `
		SELECT
			a.id AS a_id, a.todo_id AS a_todo_id, a.user_id AS a_user_id,
			a.is_completed AS a_is_completed, a.completed_at AS a_completed_at,
			a.last_notified_at AS a_last_notified_at, a.created_at AS a_created_at,
			t.id AS t_id, t.title AS t_title, t.description AS t_description,
			t.due_date AS t_due_date, t.created_by_id AS t_created_by_id,
			t.reminder_days AS t_reminder_days,
			u.id AS u_id, u.email AS u_email, u.name AS u_name,
			u.slack_user_id AS u_slack_user_id, u.is_active AS u_is_active,
			s.id AS s_id, s.days_before_due AS s_days_before_due,
			s.enabled AS s_enabled, s.notification_hour AS s_notification_hour
		FROM todo_assignments a
		JOIN todos t ON t.id = a.todo_id
		JOIN users u ON u.id = a.user_id
		LEFT JOIN notification_settings s ON s.user_id = u.id
		WHERE a.is_completed = FALSE
		ORDER BY t.due_date, a.id
	`

	var rows []reminderRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list open assignments: %w", err)
	}

	candidates := make([]*model.ReminderCandidate, 0, len(rows))
	for i := range rows {
		candidates = append(candidates, rows[i].toCandidate())
	}
	return candidates, nil
}

func (r *assignmentRepository) MarkNotified(ctx context.Context, assignmentID uuid.UUID, date time.Time) error {
	query := `
		UPDATE todo_assignments
		SET last_notified_at = $1
		WHERE id = $2
	`
	result, err := r.db.ExecContext(ctx, query, model.UTCDate(date), assignmentID)
	if err != nil {
		return fmt.Errorf("failed to mark assignment notified: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("assignment not found")
	}
	return nil
}

func (r *assignmentRepository) Get(ctx context.Context, todoID, userID uuid.UUID) (*model.Assignment, error) {
	query := `
		SELECT id, todo_id, user_id, is_completed, completed_at, last_notified_at, created_at
		FROM todo_assignments
		WHERE todo_id = $1 AND user_id = $2
	`

	var assignment model.Assignment
	if err := r.db.GetContext(ctx, &assignment, query, todoID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}

	return &assignment, nil
}

func (r *assignmentRepository) SetCompleted(ctx context.Context, todoID, userID uuid.UUID, completed bool, event *model.OutboxEvent) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			UPDATE todo_assignments
			SET is_completed = $1, completed_at = $2
			WHERE todo_id = $3 AND user_id = $4
		`
		var completedAt *time.Time
		if completed {
			now := time.Now()
			completedAt = &now
		}

		result, err := tx.ExecContext(ctx, query, completed, completedAt, todoID, userID)
		if err != nil {
			return fmt.Errorf("failed to update assignment: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return fmt.Errorf("assignment not found")
		}

		return r.InsertOutboxTx(ctx, tx, event)
	})
}

func (r *assignmentRepository) ListForUser(ctx context.Context, userID uuid.UUID, filters *model.MyTodoFilters) ([]*model.MyTodo, error) {
	query := `
		SELECT
			a.id AS a_id, a.todo_id AS a_todo_id, a.user_id AS a_user_id,
			a.is_completed AS a_is_completed, a.completed_at AS a_completed_at,
			a.last_notified_at AS a_last_notified_at, a.created_at AS a_created_at,
			t.id AS t_id, t.title AS t_title, t.description AS t_description,
			t.due_date AS t_due_date, t.created_by_id AS t_created_by_id,
			t.reminder_days AS t_reminder_days,
			u.id AS u_id, u.email AS u_email, u.name AS u_name,
			u.slack_user_id AS u_slack_user_id, u.is_active AS u_is_active,
			NULL::uuid AS s_id, NULL::integer[] AS s_days_before_due,
			NULL::boolean AS s_enabled, NULL::integer AS s_notification_hour
		FROM todo_assignments a
		JOIN todos t ON t.id = a.todo_id
		JOIN users u ON u.id = t.created_by_id
		WHERE a.user_id = $1
	`
	args := []interface{}{userID}

	if filters != nil {
		if filters.IsCompleted != nil {
			query += fmt.Sprintf(" AND a.is_completed = $%d", len(args)+1)
			args = append(args, *filters.IsCompleted)
		}
		if filters.SearchTerm != "" {
			query += fmt.Sprintf(" AND (t.title ILIKE $%d OR t.description ILIKE $%d)", len(args)+1, len(args)+1)
			args = append(args, "%"+filters.SearchTerm+"%")
		}
	}

	sortBy := ""
	if filters != nil {
		sortBy = filters.SortBy
	}
	switch sortBy {
	case "created_at":
		query += " ORDER BY t.created_at DESC"
	default:
		query += " ORDER BY t.due_date, a.id"
	}

	var rows []reminderRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list user assignments: %w", err)
	}

	now := time.Now()
	todos := make([]*model.MyTodo, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		todos = append(todos, &model.MyTodo{
			AssignmentID: row.AID,
			TodoID:       row.TID,
			Title:        row.TTitle,
			Description:  row.TDescription,
			DueDate:      row.TDueDate,
			IsCompleted:  row.AIsCompleted,
			CompletedAt:  row.ACompletedAt,
			DaysUntilDue: model.DaysUntil(row.TDueDate, now),
			CreatedBy: model.CreatedBy{
				ID:    row.UID,
				Name:  row.UName,
				Email: row.UEmail,
			},
		})
	}
	return todos, nil
}

func (r *assignmentRepository) ListProgress(ctx context.Context, todoID uuid.UUID) ([]model.AssignmentProgress, error) {
	query := `
		SELECT u.id AS user_id, u.name AS user_name, u.email AS user_email,
		       a.is_completed, a.completed_at
		FROM todo_assignments a
		JOIN users u ON u.id = a.user_id
		WHERE a.todo_id = $1
		ORDER BY a.is_completed, u.name
	`

	type progressRow struct {
		UserID      uuid.UUID  `db:"user_id"`
		UserName    string     `db:"user_name"`
		UserEmail   string     `db:"user_email"`
		IsCompleted bool       `db:"is_completed"`
		CompletedAt *time.Time `db:"completed_at"`
	}

	var rows []progressRow
	if err := r.db.SelectContext(ctx, &rows, query, todoID); err != nil {
		return nil, fmt.Errorf("failed to list assignment progress: %w", err)
	}

	progress := make([]model.AssignmentProgress, 0, len(rows))
	for _, row := range rows {
		progress = append(progress, model.AssignmentProgress{
			UserID:      row.UserID,
			UserName:    row.UserName,
			UserEmail:   row.UserEmail,
			IsCompleted: row.IsCompleted,
			CompletedAt: row.CompletedAt,
		})
	}
	return progress, nil
}

func (r *assignmentRepository) OpenUsers(ctx context.Context, todoID uuid.UUID) ([]*model.User, error) {
	query := `
		SELECT ` + userColumns("u") + `
		FROM users u
		JOIN todo_assignments a ON a.user_id = u.id
		WHERE a.todo_id = $1 AND a.is_completed = FALSE
		ORDER BY u.id
	`

	var users []*model.User
	if err := r.db.SelectContext(ctx, &users, query, todoID); err != nil {
		return nil, fmt.Errorf("failed to list open assignment users: %w", err)
	}

	return users, nil
}

func (r *assignmentRepository) CountAll(ctx context.Context) (int, int, error) {
	var counts struct {
		Total     int `db:"total"`
		Completed int `db:"completed"`
	}
	query := `
		SELECT COUNT(*) AS total,
		       COUNT(*) FILTER (WHERE is_completed) AS completed
		FROM todo_assignments
	`
	if err := r.db.GetContext(ctx, &counts, query); err != nil {
		return 0, 0, fmt.Errorf("failed to count assignments: %w", err)
	}
	return counts.Total, counts.Completed, nil
}

func (r *assignmentRepository) PersonalStats(ctx context.Context, userID uuid.UUID, now time.Time) (*model.PersonalStats, error) {
	today := model.UTCDate(now)
	weekEnd := today.AddDate(0, 0, 7)

	query := `
		SELECT COUNT(*) AS total,
		       COUNT(*) FILTER (WHERE a.is_completed) AS completed,
		       COUNT(*) FILTER (WHERE NOT a.is_completed AND t.due_date < $2) AS overdue,
		       COUNT(*) FILTER (WHERE NOT a.is_completed AND t.due_date >= $2 AND t.due_date < $3) AS due_this_week
		FROM todo_assignments a
		JOIN todos t ON t.id = a.todo_id
		WHERE a.user_id = $1
	`

	var row struct {
		Total       int `db:"total"`
		Completed   int `db:"completed"`
		Overdue     int `db:"overdue"`
		DueThisWeek int `db:"due_this_week"`
	}
	if err := r.db.GetContext(ctx, &row, query, userID, today, weekEnd); err != nil {
		return nil, fmt.Errorf("failed to get personal stats: %w", err)
	}

	stats := &model.PersonalStats{
		TotalAssigned: row.Total,
		Completed:     row.Completed,
		Open:          row.Total - row.Completed,
		Overdue:       row.Overdue,
		DueThisWeek:   row.DueThisWeek,
	}
	if row.Total > 0 {
		stats.CompletionRate = float64(row.Completed) / float64(row.Total) * 100
	}
	return stats, nil
}

func (r *assignmentRepository) RecentActivity(ctx context.Context, since time.Time, days int) ([]model.DailyActivity, error) {
	since = model.UTCDate(since)

	type dayCount struct {
		Day   time.Time `db:"day"`
		Count int       `db:"count"`
	}

	var created []dayCount
	createdQuery := `
		SELECT DATE_TRUNC('day', created_at AT TIME ZONE 'UTC') AS day, COUNT(*) AS count
		FROM todos
		WHERE created_at >= $1
		GROUP BY day
	`
	if err := r.db.SelectContext(ctx, &created, createdQuery, since); err != nil {
		return nil, fmt.Errorf("failed to count created todos: %w", err)
	}

	var completed []dayCount
	completedQuery := `
		SELECT DATE_TRUNC('day', completed_at AT TIME ZONE 'UTC') AS day, COUNT(*) AS count
		FROM todo_assignments
		WHERE completed_at IS NOT NULL AND completed_at >= $1
		GROUP BY day
	`
	if err := r.db.SelectContext(ctx, &completed, completedQuery, since); err != nil {
		return nil, fmt.Errorf("failed to count completed assignments: %w", err)
	}

	createdByDay := make(map[time.Time]int, len(created))
	for _, c := range created {
		createdByDay[model.UTCDate(c.Day)] = c.Count
	}
	completedByDay := make(map[time.Time]int, len(completed))
	for _, c := range completed {
		completedByDay[model.UTCDate(c.Day)] = c.Count
	}

	activity := make([]model.DailyActivity, 0, days)
	for i := 0; i < days; i++ {
		day := since.AddDate(0, 0, i)
		activity = append(activity, model.DailyActivity{
			Date:      day,
			Created:   createdByDay[day],
			Completed: completedByDay[day],
		})
	}
	return activity, nil
}
