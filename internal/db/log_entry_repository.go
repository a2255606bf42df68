package db

import (
	"errors"
	"time"

	"github.com/terraincognita07/circlecare/internal/models"
	"gorm.io/gorm"
)

type LogEntryRepository struct {
	database *gorm.DB
}

func NewLogEntryRepository(database *gorm.DB) *LogEntryRepository {
	return &LogEntryRepository{database: database}
}

func (repo *LogEntryRepository) FindByID(entryID uint) (models.LogEntry, bool, error) {
	entry := models.LogEntry{}
	err := repo.database.First(&entry, entryID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.LogEntry{}, false, nil
	}
	if err != nil {
		return models.LogEntry{}, false, err
	}
	return entry, true, nil
}

func (repo *LogEntryRepository) FindByUserAndDayRange(userID uint, dayStart time.Time, dayEnd time.Time) (models.LogEntry, bool, error) {
	entry := models.LogEntry{}
	result := repo.database.
		Where("user_id = ? AND date >= ? AND date < ?", userID, dayStart, dayEnd).
		Order("date DESC, id DESC").
		Limit(1).
		Find(&entry)
	if result.Error != nil {
		return models.LogEntry{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.LogEntry{}, false, nil
	}
	return entry, true, nil
}

func (repo *LogEntryRepository) ListByUserRange(userID uint, fromStart *time.Time, toEnd *time.Time) ([]models.LogEntry, error) {
	query := repo.database.Model(&models.LogEntry{}).Where("user_id = ?", userID)
	if fromStart != nil {
		query = query.Where("date >= ?", *fromStart)
	}
	if toEnd != nil {
		query = query.Where("date < ?", *toEnd)
	}

	entries := make([]models.LogEntry, 0)
	if err := query.Order("date ASC, id ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (repo *LogEntryRepository) ListFlowDays(userID uint) ([]models.LogEntry, error) {
	entries := make([]models.LogEntry, 0)
	if err := repo.database.
		Select("id", "user_id", "date", "flow").
		Where("user_id = ? AND flow <> ''", userID).
		Order("date ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Create inserts the entry. It reports false without an error when the user
// already has an entry for that date.
func (repo *LogEntryRepository) Create(entry *models.LogEntry) (bool, error) {
	if err := repo.database.Create(entry).Error; err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// UpdateContent rewrites the mutable fields of a loaded entry. Owner and date
// are never written.
func (repo *LogEntryRepository) UpdateContent(entry *models.LogEntry) (bool, error) {
	entry.UpdatedAt = time.Now().UTC()
	result := repo.database.Model(entry).
		Select("symptoms", "mood", "flow", "notes", "updated_at").
		Updates(entry)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (repo *LogEntryRepository) Delete(entryID uint) (bool, error) {
	result := repo.database.Delete(&models.LogEntry{}, entryID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
