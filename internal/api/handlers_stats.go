package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/circlecare/internal/services"
)

type cycleStatsResponse struct {
	AverageCycleLengthDays  float64  `json:"average_cycle_length_days"`
	CycleLengthStdDeviation float64  `json:"cycle_length_std_deviation"`
	ShortestCycleDays       int      `json:"shortest_cycle_days"`
	LongestCycleDays        int      `json:"longest_cycle_days"`
	IsRegular               bool     `json:"is_regular"`
	CompleteCycles          int      `json:"complete_cycles"`
	CycleLengths            []int    `json:"cycle_lengths"`
	CycleStarts             []string `json:"cycle_starts"`
	LastCycleStart          string   `json:"last_cycle_start,omitempty"`
	PredictedNextStart      string   `json:"predicted_next_start,omitempty"`
	InsufficientData        bool     `json:"insufficient_data"`
}

func (handler *Handler) GetCycleStats(c *fiber.Ctx) error {
	user := mustCurrentUser(c)

	stats, err := handler.statsService.CalculateCycleStats(user.ID)
	insufficient := errors.Is(err, services.ErrInsufficientData)
	if err != nil && !insufficient {
		return respondServiceError(c, err)
	}

	return c.JSON(cycleStatsResponse{
		AverageCycleLengthDays:  stats.AverageCycleLengthDays,
		CycleLengthStdDeviation: stats.CycleLengthStdDeviation,
		ShortestCycleDays:       stats.ShortestCycleDays,
		LongestCycleDays:        stats.LongestCycleDays,
		IsRegular:               stats.IsRegular,
		CompleteCycles:          stats.CompleteCycles,
		CycleLengths:            stats.CycleLengths,
		CycleStarts:             stats.CycleStarts,
		LastCycleStart:          handler.formatOptionalDay(stats.LastCycleStart),
		PredictedNextStart:      handler.formatOptionalDay(stats.PredictedNextStart),
		InsufficientData:        insufficient,
	})
}

func (handler *Handler) formatOptionalDay(value *time.Time) string {
	if value == nil {
		return ""
	}
	return services.FormatDay(value.In(handler.location))
}
