package services

import (
	"math"
	"sort"
	"time"

	"github.com/terraincognita07/circlecare/internal/models"
)

const (
	// A flow day starts a new cycle when more than this many flow-free days
	// separate it from the previous flow day.
	maxFlowGapWithinPeriod  = 1
	minCycleLengthsForStats = 2
	regularCycleRangeDays   = 7
)

type CycleStats struct {
	AverageCycleLengthDays  float64    `json:"average_cycle_length_days"`
	CycleLengthStdDeviation float64    `json:"cycle_length_std_deviation"`
	ShortestCycleDays       int        `json:"shortest_cycle_days"`
	LongestCycleDays        int        `json:"longest_cycle_days"`
	IsRegular               bool       `json:"is_regular"`
	CompleteCycles          int        `json:"complete_cycles"`
	CycleLengths            []int      `json:"cycle_lengths"`
	CycleStarts             []string   `json:"cycle_starts"`
	LastCycleStart          *time.Time `json:"last_cycle_start,omitempty"`
	PredictedNextStart      *time.Time `json:"predicted_next_start,omitempty"`
}

// BuildCycleStats derives cycle statistics from log entries. Entries without
// flow are ignored. With fewer than two complete cycles it returns the
// partial stats together with ErrInsufficientData.
func BuildCycleStats(entries []models.LogEntry) (CycleStats, error) {
	starts := DetectCycleStarts(entries)
	lengths := cycleLengths(starts)

	stats := CycleStats{
		CompleteCycles: len(lengths),
		CycleLengths:   lengths,
		CycleStarts:    make([]string, 0, len(starts)),
	}
	if stats.CycleLengths == nil {
		stats.CycleLengths = []int{}
	}
	for _, start := range starts {
		stats.CycleStarts = append(stats.CycleStarts, FormatDay(start))
	}
	if len(starts) > 0 {
		last := starts[len(starts)-1]
		stats.LastCycleStart = &last
	}

	if len(lengths) < minCycleLengthsForStats {
		return stats, ErrInsufficientData
	}

	mean := averageInts(lengths)
	shortest, longest := minMaxInts(lengths)
	stats.AverageCycleLengthDays = mean
	stats.CycleLengthStdDeviation = populationStdDeviation(lengths, mean)
	stats.ShortestCycleDays = shortest
	stats.LongestCycleDays = longest
	stats.IsRegular = longest-shortest <= regularCycleRangeDays

	predicted := stats.LastCycleStart.AddDate(0, 0, int(math.Round(mean)))
	stats.PredictedNextStart = &predicted
	return stats, nil
}

// DetectCycleStarts returns the first day of every flow episode in ascending
// order.
func DetectCycleStarts(entries []models.LogEntry) []time.Time {
	flowDays := make([]time.Time, 0, len(entries))
	for _, entry := range entries {
		if entry.HasFlow() {
			flowDays = append(flowDays, entry.Date)
		}
	}
	if len(flowDays) == 0 {
		return nil
	}
	sort.Slice(flowDays, func(i, j int) bool {
		return flowDays[i].Before(flowDays[j])
	})

	starts := make([]time.Time, 0)
	var previous time.Time
	for index, day := range flowDays {
		if index == 0 {
			starts = append(starts, day)
			previous = day
			continue
		}

		gapDays := daysBetween(previous, day) - 1
		if gapDays > maxFlowGapWithinPeriod {
			starts = append(starts, day)
		}
		previous = day
	}
	return starts
}

func cycleLengths(starts []time.Time) []int {
	if len(starts) < 2 {
		return nil
	}

	lengths := make([]int, 0, len(starts)-1)
	for i := 1; i < len(starts); i++ {
		lengths = append(lengths, daysBetween(starts[i-1], starts[i]))
	}
	return lengths
}

func averageInts(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	var total int
	for _, value := range values {
		total += value
	}
	return float64(total) / float64(len(values))
}

func populationStdDeviation(values []int, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sumSquares float64
	for _, value := range values {
		diff := float64(value) - mean
		sumSquares += diff * diff
	}
	return math.Sqrt(sumSquares / float64(len(values)))
}

func minMaxInts(values []int) (int, int) {
	if len(values) == 0 {
		return 0, 0
	}
	low, high := values[0], values[0]
	for _, value := range values[1:] {
		if value < low {
			low = value
		}
		if value > high {
			high = value
		}
	}
	return low, high
}
