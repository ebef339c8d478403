package service

import (
	"context"
	"time"

	"github.com/alexanderramin/lockedin/internal/domain"
	"github.com/alexanderramin/lockedin/internal/repository"
)

type setupService struct {
	setup repository.SetupRepo
}

func NewSetupService(setup repository.SetupRepo) SetupService {
	return &setupService{setup: setup}
}

func (s *setupService) Get(ctx context.Context) (*domain.SetupState, error) {
	return s.setup.Get(ctx)
}

func (s *setupService) Complete(ctx context.Context) error {
	current, err := s.setup.Get(ctx)
	if err != nil {
		return err
	}
	if current.Completed {
		return nil
	}
	now := time.Now().UTC()
	return s.setup.Save(ctx, &domain.SetupState{Completed: true, CompletedAt: &now})
}

func (s *setupService) Reset(ctx context.Context) error {
	return s.setup.Save(ctx, &domain.SetupState{})
}
