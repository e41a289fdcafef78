package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	domain "github.com/mohammadpnp/employee-registry/internal/domain/user"
)

type LoginInput struct {
	Email      string
	Password   string
	DeviceName string
}

// TokenPairOutput is the response shape shared by login and refresh.
type TokenPairOutput struct {
	AccessToken      string `json:"access_token"`
	ExpiresIn        int64  `json:"expires_in"`
	RefreshToken     string `json:"refresh_token"`
	RefreshExpiresIn int64  `json:"refresh_expires_in"`
	TokenType        string `json:"token_type"`
}

type Login interface {
	Execute(ctx context.Context, in LoginInput) (TokenPairOutput, error)
}

type userByEmailFinder interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

type login struct {
	users  userByEmailFinder
	tokens *TokenService
}

func NewLogin(users userByEmailFinder, tokens *TokenService) Login {
	return &login{users: users, tokens: tokens}
}

func (uc *login) Execute(ctx context.Context, in LoginInput) (TokenPairOutput, error) {
	account, err := uc.users.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return TokenPairOutput{}, ErrInvalidCredentials
		}
		return TokenPairOutput{}, fmt.Errorf("find user: %w", err)
	}

	if !VerifyPassword(in.Password, account.PasswordHash) {
		return TokenPairOutput{}, ErrInvalidCredentials
	}

	return issuePair(uc.tokens, account.ID, in.DeviceName)
}

func issuePair(tokens *TokenService, userID uuid.UUID, device string) (TokenPairOutput, error) {
	access, err := tokens.IssueAccess(userID, device)
	if err != nil {
		return TokenPairOutput{}, fmt.Errorf("%w: %v", ErrIssueTokens, err)
	}
	refresh, err := tokens.IssueRefresh(userID, device)
	if err != nil {
		return TokenPairOutput{}, fmt.Errorf("%w: %v", ErrIssueTokens, err)
	}

	return TokenPairOutput{
		AccessToken:      access,
		ExpiresIn:        int64(tokens.AccessTokenTTL().Seconds()),
		RefreshToken:     refresh,
		RefreshExpiresIn: int64(tokens.RefreshTokenTTL().Seconds()),
		TokenType:        "bearer",
	}, nil
}
