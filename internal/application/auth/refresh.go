package auth

import (
	"context"

	"github.com/google/uuid"
)

type RefreshInput struct {
	RefreshToken string
}

type Refresh interface {
	Execute(ctx context.Context, in RefreshInput) (TokenPairOutput, error)
}

type refresh struct {
	tokens *TokenService
}

func NewRefresh(tokens *TokenService) Refresh {
	return &refresh{tokens: tokens}
}

func (uc *refresh) Execute(ctx context.Context, in RefreshInput) (TokenPairOutput, error) {
	claims, err := uc.tokens.Parse(in.RefreshToken)
	if err != nil {
		return TokenPairOutput{}, ErrInvalidToken
	}
	if claims.Type != TokenTypeRefresh {
		return TokenPairOutput{}, ErrNotRefreshToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return TokenPairOutput{}, ErrInvalidToken
	}

	return issuePair(uc.tokens, userID, claims.Device)
}
