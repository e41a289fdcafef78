package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mohammadpnp/employee-registry/internal/application/auth"
	domain "github.com/mohammadpnp/employee-registry/internal/domain/user"
)

func testTokenService(accessTTL time.Duration) *auth.TokenService {
	return auth.NewTokenService(auth.TokenServiceConfig{
		Secret:         []byte("test-secret"),
		Issuer:         "employee-registry",
		AccessTokenTTL: accessTTL,
	})
}

func TestIssueAndParseAccessToken(t *testing.T) {
	t.Parallel()

	tokens := testTokenService(time.Minute)
	userID := uuid.New()

	signed, err := tokens.IssueAccess(userID, "cli")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	claims, err := tokens.Parse(signed)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if claims.Subject != userID.String() {
		t.Fatalf("unexpected subject %q", claims.Subject)
	}
	if claims.Type != auth.TokenTypeAccess {
		t.Fatalf("unexpected type %q", claims.Type)
	}
	if claims.Device != "cli" {
		t.Fatalf("unexpected device %q", claims.Device)
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	tokens := testTokenService(-time.Minute)

	signed, err := tokens.IssueAccess(uuid.New(), "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if _, err := tokens.Parse(signed); !errors.Is(err, auth.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParseRejectsForeignSignature(t *testing.T) {
	t.Parallel()

	signed, err := testTokenService(time.Minute).IssueAccess(uuid.New(), "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	other := auth.NewTokenService(auth.TokenServiceConfig{Secret: []byte("other-secret")})
	if _, err := other.Parse(signed); !errors.Is(err, auth.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

type fakeUserFinder struct {
	user *domain.User
	err  error
}

func (f *fakeUserFinder) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

func TestLoginIssuesTokenPair(t *testing.T) {
	t.Parallel()

	hash, err := auth.HashPassword("s3cret")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	tokens := testTokenService(time.Minute)
	userID := uuid.New()
	uc := auth.NewLogin(&fakeUserFinder{user: &domain.User{ID: userID, Email: "alice@example.com", PasswordHash: hash}}, tokens)

	out, err := uc.Execute(context.Background(), auth.LoginInput{Email: "alice@example.com", Password: "s3cret", DeviceName: "cli"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if out.TokenType != "bearer" {
		t.Fatalf("unexpected token type %q", out.TokenType)
	}
	if out.ExpiresIn != 60 {
		t.Fatalf("unexpected expires_in %d", out.ExpiresIn)
	}

	claims, err := tokens.Parse(out.AccessToken)
	if err != nil {
		t.Fatalf("expected a parseable access token, got %v", err)
	}
	if claims.Subject != userID.String() {
		t.Fatalf("unexpected subject %q", claims.Subject)
	}

	refreshClaims, err := tokens.Parse(out.RefreshToken)
	if err != nil {
		t.Fatalf("expected a parseable refresh token, got %v", err)
	}
	if refreshClaims.Type != auth.TokenTypeRefresh {
		t.Fatalf("unexpected refresh type %q", refreshClaims.Type)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	t.Parallel()

	hash, err := auth.HashPassword("s3cret")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	uc := auth.NewLogin(&fakeUserFinder{user: &domain.User{ID: uuid.New(), PasswordHash: hash}}, testTokenService(time.Minute))

	_, err = uc.Execute(context.Background(), auth.LoginInput{Email: "alice@example.com", Password: "wrong"})
	if !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	t.Parallel()

	uc := auth.NewLogin(&fakeUserFinder{err: domain.ErrUserNotFound}, testTokenService(time.Minute))

	_, err := uc.Execute(context.Background(), auth.LoginInput{Email: "ghost@example.com", Password: "x"})
	if !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRefreshRotatesPair(t *testing.T) {
	t.Parallel()

	tokens := testTokenService(time.Minute)
	userID := uuid.New()

	refreshToken, err := tokens.IssueRefresh(userID, "cli")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	uc := auth.NewRefresh(tokens)
	out, err := uc.Execute(context.Background(), auth.RefreshInput{RefreshToken: refreshToken})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	claims, err := tokens.Parse(out.AccessToken)
	if err != nil {
		t.Fatalf("expected a parseable access token, got %v", err)
	}
	if claims.Subject != userID.String() {
		t.Fatalf("unexpected subject %q", claims.Subject)
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	t.Parallel()

	tokens := testTokenService(time.Minute)
	accessToken, err := tokens.IssueAccess(uuid.New(), "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	uc := auth.NewRefresh(tokens)
	_, err = uc.Execute(context.Background(), auth.RefreshInput{RefreshToken: accessToken})
	if !errors.Is(err, auth.ErrNotRefreshToken) {
		t.Fatalf("expected ErrNotRefreshToken, got %v", err)
	}
}
