package setting

import (
	"context"

	"github.com/google/uuid"

	"github.com/miutaku/nugget/internal/model"
	"github.com/miutaku/nugget/internal/repository"
	apperrors "github.com/miutaku/nugget/pkg/errors"
	"github.com/miutaku/nugget/pkg/logger"
)

// Service manages per-user notification preferences.
type Service interface {
	// Get returns the user's effective preference. Users who never stored
	// one see the defaults, not an error.
	Get(ctx context.Context, userID uuid.UUID) (*model.EffectiveSetting, error)
	Update(ctx context.Context, userID uuid.UUID, req *model.UpdateNotificationSettingRequest) (*model.EffectiveSetting, error)
}

type service struct {
	settings repository.SettingRepository
	logger   *logger.Logger
}

func NewService(settings repository.SettingRepository, log *logger.Logger) Service {
	return &service{settings: settings, logger: log}
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*model.EffectiveSetting, error) {
	stored, err := s.settings.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	effective := model.Effective(stored)
	return &effective, nil
}

func (s *service) Update(ctx context.Context, userID uuid.UUID, req *model.UpdateNotificationSettingRequest) (*model.EffectiveSetting, error) {
	hour := model.DefaultNotificationHour
	if req.NotificationHour != nil {
		hour = *req.NotificationHour
	}
	if hour < 0 || hour > 23 {
		return nil, apperrors.BadRequest("notification hour must be between 0 and 23", nil)
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	setting := &model.NotificationSetting{
		UserID:           userID,
		DaysBeforeDue:    model.DayList(req.DaysBeforeDue).Normalize(),
		Enabled:          enabled,
		NotificationHour: hour,
	}

	if err := s.settings.Upsert(ctx, setting); err != nil {
		return nil, apperrors.Internal(err)
	}

	s.logger.Info("updated notification setting",
		"user_id", userID.String(),
		"enabled", enabled,
		"hour", hour,
	)

	effective := model.Effective(setting)
	return &effective, nil
}
