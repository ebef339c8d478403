package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/alexanderramin/lockedin/internal/domain"
	"github.com/alexanderramin/lockedin/internal/repository"
)

type tokenService struct {
	tokens   repository.TokenRepo
	observer UseCaseObserver
}

func NewTokenService(tokens repository.TokenRepo, observers ...UseCaseObserver) TokenService {
	return &tokenService{tokens: tokens, observer: useCaseObserverOrNoop(observers)}
}

func (s *tokenService) Get(ctx context.Context) (*domain.RegisteredToken, error) {
	return s.tokens.Get(ctx)
}

// Validate accepts any well-formed token when none is registered. Once a
// token is registered, a scan that does not normalize is a mismatch like
// any other foreign token; with no registration it is ErrInvalidToken.
func (s *tokenService) Validate(ctx context.Context, scanned string) (domain.TokenValidation, error) {
	id, idErr := domain.NormalizeTokenID(scanned)
	registered, err := s.tokens.Get(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		if idErr != nil {
			return domain.TokenValidation{}, idErr
		}
		return domain.ValidateToken(nil, id), nil
	}
	if err != nil {
		return domain.TokenValidation{}, err
	}
	if idErr != nil {
		id = strings.TrimSpace(scanned)
	}
	return domain.ValidateToken(registered, id), nil
}

func (s *tokenService) Register(ctx context.Context, rawID, nickname string) (token *domain.RegisteredToken, err error) {
	fields := map[string]any{}
	defer observe(ctx, s.observer, "register-token", time.Now(), fields, &err)

	id, err := domain.NormalizeTokenID(rawID)
	if err != nil {
		return nil, err
	}
	fields["token_id"] = id
	token = &domain.RegisteredToken{
		TokenID:      id,
		RegisteredAt: time.Now().UTC(),
		Nickname:     nickname,
	}
	if err = s.tokens.Put(ctx, token); err != nil {
		return nil, err
	}
	return token, nil
}

func (s *tokenService) Unregister(ctx context.Context) (err error) {
	defer observe(ctx, s.observer, "unregister-token", time.Now(), nil, &err)
	return s.tokens.Delete(ctx)
}
