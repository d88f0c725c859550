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

const todoColumns = `
	id, title, description, due_date, created_by_id,
	target_kind, target_group_id, target_user_ids, target_attribute_key, target_attribute_value,
	notify_immediately, reminder_days, created_at, updated_at
`

type todoRepository struct {
	BaseRepository
}

func NewTodoRepository(base BaseRepository) repository.TodoRepository {
	return &todoRepository{base}
}

func (r *todoRepository) Create(ctx context.Context, todo *model.Todo, assigneeIDs []uuid.UUID, event *model.OutboxEvent) error {
	todo.ID = uuid.New()
	todo.CreatedAt = time.Now()
	todo.UpdatedAt = todo.CreatedAt

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO todos (` + todoColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		`
		_, err := tx.ExecContext(ctx, query,
			todo.ID,
			todo.Title,
			todo.Description,
			todo.DueDate,
			todo.CreatedByID,
			todo.TargetKind,
			todo.TargetGroupID,
			todo.TargetUserIDs,
			todo.TargetAttributeKey,
			todo.TargetAttributeValue,
			todo.NotifyImmediately,
			todo.ReminderDays,
			todo.CreatedAt,
			todo.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert todo: %w", err)
		}

		insertAssignment := `
			INSERT INTO todo_assignments (id, todo_id, user_id, is_completed, created_at)
			VALUES ($1, $2, $3, FALSE, $4)
			ON CONFLICT (todo_id, user_id) DO NOTHING
		`
		for _, userID := range assigneeIDs {
			if _, err := tx.ExecContext(ctx, insertAssignment, uuid.New(), todo.ID, userID, todo.CreatedAt); err != nil {
				return fmt.Errorf("failed to insert assignment for user %s: %w", userID, err)
			}
		}

		return r.InsertOutboxTx(ctx, tx, event)
	})
}

func (r *todoRepository) Get(ctx context.Context, id uuid.UUID) (*model.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = $1`

	var todo model.Todo
	if err := r.db.GetContext(ctx, &todo, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get todo: %w", err)
	}

	return &todo, nil
}

func (r *todoRepository) Update(ctx context.Context, todo *model.Todo, event *model.OutboxEvent) error {
	todo.UpdatedAt = time.Now()

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			UPDATE todos SET
				title = $1,
				description = $2,
				due_date = $3,
				notify_immediately = $4,
				reminder_days = $5,
				updated_at = $6
			WHERE id = $7
		`
		result, err := tx.ExecContext(ctx, query,
			todo.Title,
			todo.Description,
			todo.DueDate,
			todo.NotifyImmediately,
			todo.ReminderDays,
			todo.UpdatedAt,
			todo.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update todo: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return fmt.Errorf("todo not found")
		}

		return r.InsertOutboxTx(ctx, tx, event)
	})
}

// Delete removes the todo and its assignments in one transaction; the
// foreign key does not cascade so a half-deleted todo can never be observed.
func (r *todoRepository) Delete(ctx context.Context, id uuid.UUID, event *model.OutboxEvent) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM todo_assignments WHERE todo_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete assignments: %w", err)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM todos WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete todo: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return fmt.Errorf("todo not found")
		}

		return r.InsertOutboxTx(ctx, tx, event)
	})
}

func (r *todoRepository) ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]*model.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE created_by_id = $1 ORDER BY created_at DESC`

	var todos []*model.Todo
	if err := r.db.SelectContext(ctx, &todos, query, creatorID); err != nil {
		return nil, fmt.Errorf("failed to list todos by creator: %w", err)
	}

	return todos, nil
}

func (r *todoRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM todos`); err != nil {
		return 0, fmt.Errorf("failed to count todos: %w", err)
	}
	return count, nil
}

func (r *todoRepository) CountByTargetKind(ctx context.Context) ([]model.TargetKindCount, error) {
	query := `
		SELECT target_kind, COUNT(*) AS count
		FROM todos
		GROUP BY target_kind
		ORDER BY target_kind
	`

	var counts []model.TargetKindCount
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("failed to count todos by target kind: %w", err)
	}

	return counts, nil
}
