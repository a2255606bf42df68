package db

import (
	"github.com/terraincognita07/circlecare/internal/models"
	"gorm.io/gorm"
)

type FriendRepository struct {
	database *gorm.DB
}

func NewFriendRepository(database *gorm.DB) *FriendRepository {
	return &FriendRepository{database: database}
}

// FindPendingBetween returns the pending request between a and b in either
// direction.
func (repo *FriendRepository) FindPendingBetween(a uint, b uint) (models.FriendRequest, bool, error) {
	low, high := models.OrderedPair(a, b)
	request := models.FriendRequest{}
	result := repo.database.
		Where("pair_low = ? AND pair_high = ?", low, high).
		Limit(1).
		Find(&request)
	if result.Error != nil {
		return models.FriendRequest{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.FriendRequest{}, false, nil
	}
	return request, true, nil
}

// InsertPending stores a new pending request. It reports false without an
// error when the pair already has a pending request.
func (repo *FriendRepository) InsertPending(request *models.FriendRequest) (bool, error) {
	request.Status = models.FriendRequestPending
	if err := repo.database.Create(request).Error; err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (repo *FriendRepository) DeletePending(from uint, to uint) (bool, error) {
	result := repo.database.
		Where("from_user_id = ? AND to_user_id = ?", from, to).
		Delete(&models.FriendRequest{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (repo *FriendRepository) ListIncoming(userID uint) ([]models.FriendRequest, error) {
	requests := make([]models.FriendRequest, 0)
	if err := repo.database.Where("to_user_id = ?", userID).Order("created_at ASC, id ASC").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (repo *FriendRepository) ListOutgoing(userID uint) ([]models.FriendRequest, error) {
	requests := make([]models.FriendRequest, 0)
	if err := repo.database.Where("from_user_id = ?", userID).Order("created_at ASC, id ASC").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (repo *FriendRepository) FriendshipExists(a uint, b uint) (bool, error) {
	low, high := models.OrderedPair(a, b)
	var count int64
	if err := repo.database.Model(&models.Friendship{}).
		Where("user_low_id = ? AND user_high_id = ?", low, high).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// AcceptPending deletes the pending request from→to and records the
// friendship in one transaction. It reports false when no such request
// exists. A friendship row written concurrently by another process is kept.
func (repo *FriendRepository) AcceptPending(from uint, to uint) (bool, error) {
	accepted := false
	err := repo.database.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("from_user_id = ? AND to_user_id = ?", from, to).Delete(&models.FriendRequest{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		accepted = true

		low, high := models.OrderedPair(from, to)
		friendship := models.Friendship{UserLowID: low, UserHighID: high}
		if err := tx.Create(&friendship).Error; err != nil && !isUniqueViolation(err) {
			return err
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return accepted, nil
}

func (repo *FriendRepository) DeleteFriendship(a uint, b uint) (bool, error) {
	low, high := models.OrderedPair(a, b)
	result := repo.database.
		Where("user_low_id = ? AND user_high_id = ?", low, high).
		Delete(&models.Friendship{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (repo *FriendRepository) ListFriendIDs(userID uint) ([]uint, error) {
	friendships := make([]models.Friendship, 0)
	if err := repo.database.
		Where("user_low_id = ? OR user_high_id = ?", userID, userID).
		Find(&friendships).Error; err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(friendships))
	for _, friendship := range friendships {
		ids = append(ids, friendship.Other(userID))
	}
	return ids, nil
}
