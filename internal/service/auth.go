package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/MiguelProz/kairos/internal/model"
	"github.com/MiguelProz/kairos/internal/repository"
	"github.com/MiguelProz/kairos/internal/validation"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

type AuthService struct {
	userRepository repository.UserRepository
	emailService   *EmailService
	jwtSecret      string
	jwtExpiry      time.Duration
}

// NewAuthService builds an AuthService. The signing secret is injected so
// tests can run with distinct secrets per instance.
func NewAuthService(userRepository repository.UserRepository, emailService *EmailService, jwtSecret string, jwtExpiry time.Duration) *AuthService {
	return &AuthService{
		userRepository: userRepository,
		emailService:   emailService,
		jwtSecret:      jwtSecret,
		jwtExpiry:      jwtExpiry,
	}
}

type RegisterInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Name      string `json:"name"`
	Nickname  string `json:"nickname"`
	Bio       string `json:"bio"`
	AvatarURL string `json:"avatarUrl"`
}

func (s *AuthService) Register(in RegisterInput) (*model.User, error) {
	if in.Email == "" || in.Password == "" || in.Name == "" || in.Nickname == "" {
		return nil, invalidInput("email, password, name and nickname are required")
	}

	email := strings.TrimSpace(strings.ToLower(in.Email))
	err := validation.ValidateEmail(email)
	if err != nil {
		return nil, invalidInput(err.Error())
	}

	err = validation.ValidateName(in.Name)
	if err != nil {
		return nil, invalidInput(err.Error())
	}

	// Nicknames and emails are stored lowercased, which makes the unique
	// indexes case-insensitive.
	nickname := strings.TrimSpace(strings.ToLower(in.Nickname))
	err = validation.ValidateNickname(nickname)
	if err != nil {
		return nil, invalidInput(err.Error())
	}

	err = validation.ValidatePassword(in.Password)
	if err != nil {
		return nil, invalidInput(err.Error())
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		Nickname:     nickname,
		Name:         strings.TrimSpace(in.Name),
		Bio:          in.Bio,
		AvatarURL:    in.AvatarURL,
		PasswordHash: string(hashedBytes),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.userRepository.Create(user)
	if err != nil {
		return nil, err
	}

	err = s.emailService.SendWelcomeEmail(user.Email, user.Name)
	if err != nil {
		slog.Warn("failed to send welcome email", "error", err, "email", user.Email)
	}

	slog.Info("user registered", "user_id", user.ID, "nickname", user.Nickname)
	return user, nil
}

// Login authenticates by email and password and returns a signed token.
// Unknown email and wrong password yield the same error.
func (s *AuthService) Login(email, password string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.userRepository.ByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to get user: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		return "", ErrInvalidCredentials
	}

	return s.GenerateJWT(user)
}

func (s *AuthService) GenerateJWT(user *model.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     time.Now().Add(s.jwtExpiry).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// VerifyJWT validates the signature and expiry and returns the embedded
// user id.
func (s *AuthService) VerifyJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", ErrInvalidToken
	}

	return userID, nil
}
