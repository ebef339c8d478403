package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/lockedin/internal/domain"
	"github.com/alexanderramin/lockedin/internal/repository"
	"github.com/google/uuid"
)

type scheduleService struct {
	schedules repository.ScheduleRepo
}

func NewScheduleService(schedules repository.ScheduleRepo) ScheduleService {
	return &scheduleService{schedules: schedules}
}

func (s *scheduleService) Create(ctx context.Context, sch *domain.Schedule) error {
	if sch.ID == "" {
		sch.ID = uuid.New().String()
	}
	if sch.CreatedAt.IsZero() {
		sch.CreatedAt = time.Now().UTC()
	}
	if err := sch.Validate(); err != nil {
		return err
	}
	return s.schedules.Create(ctx, sch)
}

func (s *scheduleService) GetByID(ctx context.Context, id string) (*domain.Schedule, error) {
	sch, err := s.schedules.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("schedule %s: %w", id, domain.ErrScheduleNotFound)
	}
	return sch, err
}

func (s *scheduleService) List(ctx context.Context) ([]*domain.Schedule, error) {
	return s.schedules.List(ctx)
}

func (s *scheduleService) ListEnabled(ctx context.Context) ([]*domain.Schedule, error) {
	return s.schedules.ListEnabled(ctx)
}

func (s *scheduleService) Resolve(ctx context.Context, id string) (*domain.Schedule, error) {
	if id != "" {
		return s.GetByID(ctx, id)
	}
	enabled, err := s.schedules.ListEnabled(ctx)
	if err != nil {
		return nil, err
	}
	if len(enabled) == 0 {
		return nil, domain.ErrNoScheduleConfigured
	}
	return enabled[0], nil
}

func (s *scheduleService) Update(ctx context.Context, sch *domain.Schedule) error {
	if err := sch.Validate(); err != nil {
		return err
	}
	err := s.schedules.Update(ctx, sch)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("schedule %s: %w", sch.ID, domain.ErrScheduleNotFound)
	}
	return err
}

func (s *scheduleService) SetEnabled(ctx context.Context, id string, enabled bool) error {
	sch, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	sch.Enabled = enabled
	return s.schedules.Update(ctx, sch)
}

func (s *scheduleService) Delete(ctx context.Context, id string) error {
	err := s.schedules.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("schedule %s: %w", id, domain.ErrScheduleNotFound)
	}
	return err
}
