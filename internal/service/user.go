package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/MiguelProz/kairos/internal/model"
	"github.com/MiguelProz/kairos/internal/repository"
	"github.com/MiguelProz/kairos/internal/validation"
)

var (
	ErrNoChanges              = errors.New("no changes to apply")
	ErrMissingCurrentPassword = errors.New("current password is required")
	ErrInvalidCurrentPassword = errors.New("current password is incorrect")
)

type UserService struct {
	userRepository repository.UserRepository
}

func NewUserService(userRepository repository.UserRepository) *UserService {
	return &UserService{
		userRepository: userRepository,
	}
}

func (s *UserService) ByID(id string) (*model.User, error) {
	return s.userRepository.ByID(id)
}

// UpdateAccountInput is a partial patch; nil fields are left untouched.
// Changing the password requires the current one.
type UpdateAccountInput struct {
	Email           *string `json:"email"`
	Name            *string `json:"name"`
	Nickname        *string `json:"nickname"`
	Bio             *string `json:"bio"`
	AvatarURL       *string `json:"avatarUrl"`
	CurrentPassword *string `json:"currentPassword"`
	NewPassword     *string `json:"newPassword"`
}

func (in UpdateAccountInput) empty() bool {
	return in.Email == nil && in.Name == nil && in.Nickname == nil &&
		in.Bio == nil && in.AvatarURL == nil && in.NewPassword == nil
}

func (s *UserService) UpdateAccount(userID string, in UpdateAccountInput) (*model.User, error) {
	if in.empty() {
		return nil, ErrNoChanges
	}

	user, err := s.userRepository.ByID(userID)
	if err != nil {
		return nil, err
	}

	if in.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*in.Email))
		if email != user.Email {
			err = validation.ValidateEmail(email)
			if err != nil {
				return nil, invalidInput(err.Error())
			}
			_, err = s.userRepository.ByEmail(email)
			if err == nil {
				return nil, repository.ErrDuplicateEmail
			}
			if !errors.Is(err, repository.ErrUserNotFound) {
				return nil, fmt.Errorf("failed to check email: %w", err)
			}
			user.Email = email
		}
	}

	if in.Name != nil {
		err = validation.ValidateName(*in.Name)
		if err != nil {
			return nil, invalidInput(err.Error())
		}
		user.Name = strings.TrimSpace(*in.Name)
	}

	if in.Nickname != nil {
		nickname := strings.TrimSpace(strings.ToLower(*in.Nickname))
		if nickname != user.Nickname {
			err = validation.ValidateNickname(nickname)
			if err != nil {
				return nil, invalidInput(err.Error())
			}
			_, err = s.userRepository.ByNickname(nickname)
			if err == nil {
				return nil, repository.ErrDuplicateNickname
			}
			if !errors.Is(err, repository.ErrUserNotFound) {
				return nil, fmt.Errorf("failed to check nickname: %w", err)
			}
			user.Nickname = nickname
		}
	}

	if in.Bio != nil {
		user.Bio = *in.Bio
	}
	if in.AvatarURL != nil {
		user.AvatarURL = *in.AvatarURL
	}

	// Hashing happens only when the password actually changes
	if in.NewPassword != nil {
		if in.CurrentPassword == nil || *in.CurrentPassword == "" {
			return nil, ErrMissingCurrentPassword
		}
		err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(*in.CurrentPassword))
		if err != nil {
			return nil, ErrInvalidCurrentPassword
		}
		err = validation.ValidatePassword(*in.NewPassword)
		if err != nil {
			return nil, invalidInput(err.Error())
		}
		hashedBytes, err := bcrypt.GenerateFromPassword([]byte(*in.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hashedBytes)
	}

	user.UpdatedAt = time.Now()
	err = s.userRepository.Update(user)
	if err != nil {
		return nil, err
	}

	return user, nil
}

// SetAvatarURL points the account at an uploaded avatar object.
func (s *UserService) SetAvatarURL(userID, url string) (*model.User, error) {
	user, err := s.userRepository.ByID(userID)
	if err != nil {
		return nil, err
	}

	user.AvatarURL = url
	user.UpdatedAt = time.Now()

	err = s.userRepository.Update(user)
	if err != nil {
		return nil, err
	}

	return user, nil
}
