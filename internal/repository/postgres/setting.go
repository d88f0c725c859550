package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/miutaku/nugget/internal/model"
	"github.com/miutaku/nugget/internal/repository"
)

type settingRepository struct {
	BaseRepository
}

func NewSettingRepository(base BaseRepository) repository.SettingRepository {
	return &settingRepository{base}
}

func (r *settingRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.NotificationSetting, error) {
	query := `
		SELECT id, user_id, days_before_due, enabled, notification_hour, created_at, updated_at
		FROM notification_settings
		WHERE user_id = $1
	`

	var setting model.NotificationSetting
	if err := r.db.GetContext(ctx, &setting, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get notification setting: %w", err)
	}

	return &setting, nil
}

func (r *settingRepository) Upsert(ctx context.Context, setting *model.NotificationSetting) error {
	now := time.Now()
	setting.UpdatedAt = now

	query := `
		INSERT INTO notification_settings (
			id, user_id, days_before_due, enabled, notification_hour, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			days_before_due = EXCLUDED.days_before_due,
			enabled = EXCLUDED.enabled,
			notification_hour = EXCLUDED.notification_hour,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		uuid.New(),
		setting.UserID,
		setting.DaysBeforeDue,
		setting.Enabled,
		setting.NotificationHour,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert notification setting: %w", err)
	}
	return nil
}
