package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/miutaku/nugget/internal/model"
	"github.com/miutaku/nugget/internal/repository"
)

// userColumns renders the users column list, optionally alias-qualified for
// joined queries.
func userColumns(alias string) string {
	cols := []string{
		"id", "email", "name", "slack_user_id", "role", "saml_name_id", "external_id",
		"department", "division", "job_title", "employee_number", "cost_center", "organization",
		"is_active", "created_at", "updated_at",
	}
	if alias != "" {
		for i, c := range cols {
			cols[i] = alias + "." + c
		}
	}
	return strings.Join(cols, ", ")
}

type userRepository struct {
	BaseRepository
}

func NewUserRepository(base BaseRepository) repository.UserRepository {
	return &userRepository{base}
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `SELECT ` + userColumns("") + ` FROM users WHERE id = $1`

	var user model.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns("") + ` FROM users WHERE email = $1`

	var user model.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &user, nil
}

func (r *userRepository) List(ctx context.Context, filters *model.UserFilters) ([]*model.User, error) {
	query := `SELECT ` + userColumns("") + ` FROM users WHERE 1=1`
	args := []interface{}{}

	if filters != nil {
		if filters.ActiveOnly {
			query += " AND is_active = TRUE"
		}
		if filters.SearchTerm != "" {
			query += fmt.Sprintf(" AND (name ILIKE $%d OR email ILIKE $%d)", len(args)+1, len(args)+1)
			args = append(args, "%"+filters.SearchTerm+"%")
		}
	}

	query += " ORDER BY name, id"

	var users []*model.User
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

func (r *userRepository) GetActiveUsers(ctx context.Context) ([]*model.User, error) {
	query := `SELECT ` + userColumns("") + ` FROM users WHERE is_active = TRUE ORDER BY id`

	var users []*model.User
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("failed to get active users: %w", err)
	}

	return users, nil
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	strIDs := make(pq.StringArray, len(ids))
	for i, id := range ids {
		strIDs[i] = id.String()
	}

	query := `SELECT ` + userColumns("") + ` FROM users WHERE id = ANY($1::uuid[]) ORDER BY id`

	var users []*model.User
	if err := r.db.SelectContext(ctx, &users, query, strIDs); err != nil {
		return nil, fmt.Errorf("failed to get users by ids: %w", err)
	}

	return users, nil
}

func (r *userRepository) GetByAttribute(ctx context.Context, key, value string) ([]*model.User, error) {
	column, ok := model.AttributeColumn(key)
	if !ok {
		// Unrecognized attribute keys match nobody.
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT `+userColumns("")+` FROM users WHERE %s = $1 ORDER BY id`, column)

	var users []*model.User
	if err := r.db.SelectContext(ctx, &users, query, value); err != nil {
		return nil, fmt.Errorf("failed to get users by attribute: %w", err)
	}

	return users, nil
}

func (r *userRepository) ListAttributeValues(ctx context.Context, key string) ([]string, error) {
	column, ok := model.AttributeColumn(key)
	if !ok {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT DISTINCT %s FROM users
		WHERE %s IS NOT NULL AND %s <> '' AND is_active = TRUE
		ORDER BY %s
	`, column, column, column, column)

	var values []string
	if err := r.db.SelectContext(ctx, &values, query); err != nil {
		return nil, fmt.Errorf("failed to list attribute values: %w", err)
	}

	return values, nil
}

func (r *userRepository) CountActive(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users WHERE is_active = TRUE`); err != nil {
		return 0, fmt.Errorf("failed to count active users: %w", err)
	}
	return count, nil
}
