package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/miutaku/nugget/internal/model"
	"github.com/miutaku/nugget/internal/repository"
)

type groupRepository struct {
	BaseRepository
}

func NewGroupRepository(base BaseRepository) repository.GroupRepository {
	return &groupRepository{base}
}

func (r *groupRepository) List(ctx context.Context) ([]*model.Group, error) {
	query := `
		SELECT g.id, g.display_name, g.external_id, g.created_at, g.updated_at,
		       COUNT(ug.user_id) AS member_count
		FROM groups g
		LEFT JOIN user_groups ug ON ug.group_id = g.id
		GROUP BY g.id
		ORDER BY g.display_name
	`

	var groups []*model.Group
	if err := r.db.SelectContext(ctx, &groups, query); err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}

	return groups, nil
}

func (r *groupRepository) Get(ctx context.Context, id uuid.UUID) (*model.Group, error) {
	query := `
		SELECT g.id, g.display_name, g.external_id, g.created_at, g.updated_at,
		       COUNT(ug.user_id) AS member_count
		FROM groups g
		LEFT JOIN user_groups ug ON ug.group_id = g.id
		WHERE g.id = $1
		GROUP BY g.id
	`

	var group model.Group
	if err := r.db.GetContext(ctx, &group, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	return &group, nil
}

func (r *groupRepository) GetMembers(ctx context.Context, groupID uuid.UUID) ([]*model.User, error) {
	query := `
		SELECT ` + userColumns(`u`) + `
		FROM users u
		JOIN user_groups ug ON ug.user_id = u.id
		WHERE ug.group_id = $1
		ORDER BY u.id
	`

	var users []*model.User
	if err := r.db.SelectContext(ctx, &users, query, groupID); err != nil {
		return nil, fmt.Errorf("failed to get group members: %w", err)
	}

	return users, nil
}

func (r *groupRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM groups`); err != nil {
		return 0, fmt.Errorf("failed to count groups: %w", err)
	}
	return count, nil
}
