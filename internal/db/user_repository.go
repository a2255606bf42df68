package db

import (
	"errors"

	"github.com/terraincognita07/circlecare/internal/models"
	"gorm.io/gorm"
)

type UserRepository struct {
	database *gorm.DB
}

func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{database: database}
}

func (repo *UserRepository) FindByID(userID uint) (models.User, bool, error) {
	var user models.User
	err := repo.database.First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, false, nil
	}
	if err != nil {
		return models.User{}, false, err
	}
	return user, true, nil
}

func (repo *UserRepository) FindByNormalizedUsername(username string) (models.User, bool, error) {
	var user models.User
	err := repo.database.Where("lower(trim(username)) = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, false, nil
	}
	if err != nil {
		return models.User{}, false, err
	}
	return user, true, nil
}

func (repo *UserRepository) ListByIDs(ids []uint) ([]models.User, error) {
	users := make([]models.User, 0, len(ids))
	if len(ids) == 0 {
		return users, nil
	}
	if err := repo.database.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (repo *UserRepository) ListUsernames() ([]string, error) {
	usernames := make([]string, 0)
	if err := repo.database.
		Model(&models.User{}).
		Order("username ASC").
		Pluck("username", &usernames).Error; err != nil {
		return nil, err
	}
	return usernames, nil
}

// Create inserts the user. It reports false without an error when the
// username is already taken.
func (repo *UserRepository) Create(user *models.User) (bool, error) {
	if err := repo.database.Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (repo *UserRepository) UpdateUsername(userID uint, username string) (bool, error) {
	err := repo.database.Model(&models.User{}).Where("id = ?", userID).Update("username", username).Error
	if isUniqueViolation(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (repo *UserRepository) UpdatePassword(userID uint, passwordHash string, mustChangePassword bool) error {
	return repo.database.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]any{
		"password_hash":        passwordHash,
		"must_change_password": mustChangePassword,
	}).Error
}

// DeleteAccountAndRelatedData removes the user together with every log entry,
// pending request and friendship that references them.
func (repo *UserRepository) DeleteAccountAndRelatedData(userID uint) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.LogEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("from_user_id = ? OR to_user_id = ?", userID, userID).Delete(&models.FriendRequest{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_low_id = ? OR user_high_id = ?", userID, userID).Delete(&models.Friendship{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, userID).Error
	})
}
