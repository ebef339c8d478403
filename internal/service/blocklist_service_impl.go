package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/lockedin/internal/domain"
	"github.com/alexanderramin/lockedin/internal/feed"
	"github.com/alexanderramin/lockedin/internal/repository"
)

type blocklistService struct {
	apps repository.BlockedAppRepo
	feed feed.Feed[domain.PackageSet]
}

func NewBlocklistService(apps repository.BlockedAppRepo) BlocklistService {
	return &blocklistService{apps: apps}
}

func (s *blocklistService) Add(ctx context.Context, packageName, displayName string) error {
	pkg := strings.TrimSpace(packageName)
	if pkg == "" || strings.ContainsAny(pkg, " \t") {
		return fmt.Errorf("%q: %w", packageName, domain.ErrInvalidPackage)
	}
	if displayName == "" {
		displayName = pkg
	}
	if err := s.apps.Upsert(ctx, &domain.BlockedApp{PackageName: pkg, DisplayName: displayName, Enabled: true}); err != nil {
		return err
	}
	return s.publish(ctx)
}

func (s *blocklistService) Remove(ctx context.Context, packageName string) error {
	if err := s.apps.Delete(ctx, packageName); err != nil {
		return err
	}
	return s.publish(ctx)
}

func (s *blocklistService) SetEnabled(ctx context.Context, packageName string, enabled bool) error {
	if err := s.apps.SetEnabled(ctx, packageName, enabled); err != nil {
		return err
	}
	return s.publish(ctx)
}

func (s *blocklistService) List(ctx context.Context) ([]domain.BlockedApp, error) {
	return s.apps.List(ctx)
}

func (s *blocklistService) EnabledSet(ctx context.Context) (domain.PackageSet, error) {
	apps, err := s.apps.ListEnabled(ctx)
	if err != nil {
		return nil, err
	}
	return domain.NewPackageSet(apps), nil
}

func (s *blocklistService) EnabledCount(ctx context.Context) (int, error) {
	return s.apps.CountEnabled(ctx)
}

func (s *blocklistService) Subscribe(fn func(domain.PackageSet)) func() {
	return s.feed.Subscribe(fn)
}

func (s *blocklistService) Reload(ctx context.Context) error {
	return s.publish(ctx)
}

// publish pushes the committed enabled set to subscribers.
func (s *blocklistService) publish(ctx context.Context) error {
	if s.feed.Len() == 0 {
		return nil
	}
	set, err := s.EnabledSet(ctx)
	if err != nil {
		return fmt.Errorf("refreshing block-list subscribers: %w", err)
	}
	s.feed.Publish(set)
	return nil
}
