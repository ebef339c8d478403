package domain

import (
	"fmt"
	"strings"
	"time"
)

// RegisteredToken is the single trusted physical token.
type RegisteredToken struct {
	TokenID      string
	RegisteredAt time.Time
	Nickname     string
}

type TokenMatch int

const (
	TokenUnregistered TokenMatch = iota
	TokenMatched
	TokenMismatched
)

func (m TokenMatch) String() string {
	switch m {
	case TokenUnregistered:
		return "no_registered_token"
	case TokenMatched:
		return "match"
	case TokenMismatched:
		return "mismatch"
	default:
		return "unknown"
	}
}

// TokenValidation is the outcome of checking a scanned token.
type TokenValidation struct {
	Result   TokenMatch
	Expected string
	Got      string
}

// Accepted reports whether the scan may proceed to session handling.
func (v TokenValidation) Accepted() bool {
	return v.Result != TokenMismatched
}

// ValidateToken compares scanned against the registered token (nil = none).
func ValidateToken(registered *RegisteredToken, scanned string) TokenValidation {
	if registered == nil {
		return TokenValidation{Result: TokenUnregistered, Got: scanned}
	}
	if registered.TokenID != scanned {
		return TokenValidation{Result: TokenMismatched, Expected: registered.TokenID, Got: scanned}
	}
	return TokenValidation{Result: TokenMatched, Expected: registered.TokenID, Got: scanned}
}

// NormalizeTokenID upper-cases a hex token id and strips ':', '-' and spaces.
func NormalizeTokenID(raw string) (string, error) {
	r := strings.NewReplacer(":", "", "-", "", " ", "")
	id := strings.ToUpper(r.Replace(strings.TrimSpace(raw)))
	if id == "" {
		return "", fmt.Errorf("empty token id: %w", ErrInvalidToken)
	}
	for _, c := range id {
		if !(c >= '0' && c <= '9' || c >= 'A' && c <= 'F') {
			return "", fmt.Errorf("token id %q is not hex: %w", raw, ErrInvalidToken)
		}
	}
	return id, nil
}
