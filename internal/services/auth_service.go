package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/terraincognita07/circlecare/internal/models"
	"golang.org/x/crypto/bcrypt"
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9_.-]{3,32}$`)

type AuthUserRepository interface {
	FindByID(userID uint) (models.User, bool, error)
	FindByNormalizedUsername(username string) (models.User, bool, error)
	ListByIDs(ids []uint) ([]models.User, error)
	ListUsernames() ([]string, error)
	Create(user *models.User) (bool, error)
	UpdateUsername(userID uint, username string) (bool, error)
	UpdatePassword(userID uint, passwordHash string, mustChangePassword bool) error
	DeleteAccountAndRelatedData(userID uint) error
}

type AuthService struct {
	users      AuthUserRepository
	bcryptCost int
}

func NewAuthService(users AuthUserRepository) *AuthService {
	return &AuthService{users: users, bcryptCost: bcrypt.DefaultCost}
}

// WithBcryptCost overrides the hashing cost, mainly to keep tests fast.
func (service *AuthService) WithBcryptCost(cost int) *AuthService {
	service.bcryptCost = cost
	return service
}

func NormalizeUsername(raw string) (string, error) {
	username := strings.ToLower(strings.TrimSpace(raw))
	if !usernamePattern.MatchString(username) {
		return "", fmt.Errorf("%w: username must be 3-32 characters of a-z, 0-9, '_', '.', '-'", ErrInvalidInput)
	}
	return username, nil
}

func (service *AuthService) Register(rawUsername string, password string) (models.User, error) {
	username, err := NormalizeUsername(rawUsername)
	if err != nil {
		return models.User{}, err
	}
	if err := ValidatePasswordStrength(password); err != nil {
		return models.User{}, err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), service.bcryptCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{Username: username, PasswordHash: string(passwordHash)}
	created, err := service.users.Create(&user)
	if err != nil {
		return models.User{}, storageError("create user", err)
	}
	if !created {
		return models.User{}, ErrUsernameTaken
	}
	return user, nil
}

func (service *AuthService) Authenticate(rawUsername string, password string) (models.User, error) {
	username := strings.ToLower(strings.TrimSpace(rawUsername))
	if username == "" || password == "" {
		return models.User{}, ErrInvalidCredentials
	}

	user, found, err := service.users.FindByNormalizedUsername(username)
	if err != nil {
		return models.User{}, storageError("find user", err)
	}
	if !found {
		return models.User{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (service *AuthService) FindByID(userID uint) (models.User, error) {
	user, found, err := service.users.FindByID(userID)
	if err != nil {
		return models.User{}, storageError("find user", err)
	}
	if !found {
		return models.User{}, ErrUserNotFound
	}
	return user, nil
}

func (service *AuthService) FindByUsername(rawUsername string) (models.User, error) {
	username := strings.ToLower(strings.TrimSpace(rawUsername))
	if username == "" {
		return models.User{}, ErrUserNotFound
	}
	user, found, err := service.users.FindByNormalizedUsername(username)
	if err != nil {
		return models.User{}, storageError("find user", err)
	}
	if !found {
		return models.User{}, ErrUserNotFound
	}
	return user, nil
}

// UsernamesByIDs maps ids to usernames in the order given. Unknown ids are
// skipped.
func (service *AuthService) UsernamesByIDs(ids []uint) ([]string, error) {
	users, err := service.users.ListByIDs(ids)
	if err != nil {
		return nil, storageError("list users", err)
	}

	byID := make(map[uint]string, len(users))
	for _, user := range users {
		byID[user.ID] = user.Username
	}

	usernames := make([]string, 0, len(ids))
	for _, id := range ids {
		if username, ok := byID[id]; ok {
			usernames = append(usernames, username)
		}
	}
	return usernames, nil
}

// ListUsers returns every username in ascending order.
func (service *AuthService) ListUsers() ([]string, error) {
	usernames, err := service.users.ListUsernames()
	if err != nil {
		return nil, storageError("list users", err)
	}
	return usernames, nil
}

func (service *AuthService) UpdateUsername(userID uint, rawUsername string) (models.User, error) {
	username, err := NormalizeUsername(rawUsername)
	if err != nil {
		return models.User{}, err
	}
	updated, err := service.users.UpdateUsername(userID, username)
	if err != nil {
		return models.User{}, storageError("update username", err)
	}
	if !updated {
		return models.User{}, ErrUsernameTaken
	}
	return service.FindByID(userID)
}

func (service *AuthService) UpdatePassword(userID uint, currentPassword string, newPassword string) error {
	user, err := service.FindByID(userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)) != nil {
		return ErrInvalidCredentials
	}
	return service.SetPassword(userID, newPassword, false)
}

// SetPassword stores a new password without checking the current one.
func (service *AuthService) SetPassword(userID uint, newPassword string, mustChangePassword bool) error {
	if err := ValidatePasswordStrength(newPassword); err != nil {
		return err
	}
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), service.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := service.users.UpdatePassword(userID, string(passwordHash), mustChangePassword); err != nil {
		return storageError("update password", err)
	}
	return nil
}

func (service *AuthService) DeleteAccount(userID uint) error {
	if err := service.users.DeleteAccountAndRelatedData(userID); err != nil {
		return storageError("delete account", err)
	}
	return nil
}
