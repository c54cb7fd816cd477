package service

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/MiguelProz/kairos/internal/db"
	"github.com/MiguelProz/kairos/internal/repository"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	database, err := db.Init("sqlite", path+"?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	err = db.RunMigrations(database.DB, "sqlite")
	require.NoError(t, err)

	return database
}

func newAuthService(t *testing.T, expiry time.Duration) (*AuthService, repository.UserRepository) {
	t.Helper()

	database := newTestDB(t)
	userRepository := repository.NewUserRepository(database)
	emailService := NewEmailService("", "noreply@example.com", "http://localhost:4000", "Kairos", true)

	return NewAuthService(userRepository, emailService, "test-secret", expiry), userRepository
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	authService, userRepository := newAuthService(t, time.Hour)

	user, err := authService.Register(RegisterInput{
		Email:    "Alice@Example.com",
		Password: "pw12345",
		Name:     "Alice",
		Nickname: "Alice",
	})
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", user.Email)
	require.Equal(t, "alice", user.Nickname)
	require.NotEqual(t, "pw12345", user.PasswordHash)

	// Login is case-insensitive on email
	token, err := authService.Login("ALICE@example.com", "pw12345")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := authService.VerifyJWT(token)
	require.NoError(t, err)
	require.Equal(t, user.ID, userID)

	stored, err := userRepository.ByEmail("alice@example.com")
	require.NoError(t, err)
	require.Equal(t, user.ID, stored.ID)
}

func TestAuthService_RegisterMissingFields(t *testing.T) {
	authService, _ := newAuthService(t, time.Hour)

	_, err := authService.Register(RegisterInput{Email: "a@example.com", Password: "pw12345"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestAuthService_RegisterDuplicates(t *testing.T) {
	authService, _ := newAuthService(t, time.Hour)

	_, err := authService.Register(RegisterInput{
		Email:    "bob@example.com",
		Password: "pw12345",
		Name:     "Bob",
		Nickname: "bob",
	})
	require.NoError(t, err)

	// Same email, different case
	_, err = authService.Register(RegisterInput{
		Email:    "BOB@example.com",
		Password: "pw12345",
		Name:     "Bob Two",
		Nickname: "bob2",
	})
	require.ErrorIs(t, err, repository.ErrDuplicateEmail)

	_, err = authService.Register(RegisterInput{
		Email:    "bob2@example.com",
		Password: "pw12345",
		Name:     "Bob Two",
		Nickname: "BOB",
	})
	require.ErrorIs(t, err, repository.ErrDuplicateNickname)
}

func TestAuthService_LoginInvalidCredentials(t *testing.T) {
	authService, _ := newAuthService(t, time.Hour)

	_, err := authService.Register(RegisterInput{
		Email:    "carol@example.com",
		Password: "pw12345",
		Name:     "Carol",
		Nickname: "carol",
	})
	require.NoError(t, err)

	// Unknown email and wrong password are indistinguishable
	_, err = authService.Login("nobody@example.com", "pw12345")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = authService.Login("carol@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_VerifyJWTExpired(t *testing.T) {
	authService, _ := newAuthService(t, -time.Minute)

	user, err := authService.Register(RegisterInput{
		Email:    "dave@example.com",
		Password: "pw12345",
		Name:     "Dave",
		Nickname: "dave",
	})
	require.NoError(t, err)

	token, err := authService.GenerateJWT(user)
	require.NoError(t, err)

	_, err = authService.VerifyJWT(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_VerifyJWTWrongSecret(t *testing.T) {
	authService, userRepository := newAuthService(t, time.Hour)

	user, err := authService.Register(RegisterInput{
		Email:    "erin@example.com",
		Password: "pw12345",
		Name:     "Erin",
		Nickname: "erin",
	})
	require.NoError(t, err)

	otherService := NewAuthService(userRepository, nil, "other-secret", time.Hour)
	token, err := otherService.GenerateJWT(user)
	require.NoError(t, err)

	_, err = authService.VerifyJWT(token)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = authService.VerifyJWT("not.a.token")
	require.ErrorIs(t, err, ErrInvalidToken)
}
