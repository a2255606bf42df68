package services

import (
	"errors"

	"github.com/terraincognita07/circlecare/internal/models"
)

type StatsLogReader interface {
	ListFlowDays(owner uint) ([]models.LogEntry, error)
}

type StatsService struct {
	logs StatsLogReader
}

func NewStatsService(logs StatsLogReader) *StatsService {
	return &StatsService{logs: logs}
}

// CalculateCycleStats reads the owner's current log and derives stats from
// it. Nothing is cached.
func (service *StatsService) CalculateCycleStats(owner uint) (CycleStats, error) {
	entries, err := service.logs.ListFlowDays(owner)
	if err != nil {
		if errors.Is(err, ErrStorage) {
			return CycleStats{}, err
		}
		return CycleStats{}, storageError("read cycle log", err)
	}
	return BuildCycleStats(entries)
}
