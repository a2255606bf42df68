package services

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/terraincognita07/circlecare/internal/models"
)

func TestDetectCycleStartsTreatsSingleGapDayAsSamePeriod(t *testing.T) {
	entries := []models.LogEntry{
		makeFlowEntry("2024-01-01", models.FlowHeavy),
		makeFlowEntry("2024-01-03", models.FlowLight),
		makeFlowEntry("2024-01-06", models.FlowLight),
	}

	starts := DetectCycleStarts(entries)
	got := formatDays(starts)
	want := []string{"2024-01-01", "2024-01-06"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected starts %v, got %v", want, got)
	}
}

func TestDetectCycleStartsIgnoresEntriesWithoutFlowAndSortsInput(t *testing.T) {
	entries := []models.LogEntry{
		makeFlowEntry("2024-01-30", models.FlowMedium),
		makeFlowEntry("2024-01-02", models.FlowMedium),
		makeFlowEntry("2024-01-29", models.FlowHeavy),
		makeFlowEntry("2024-01-15", ""),
		makeFlowEntry("2024-01-01", models.FlowHeavy),
	}

	got := formatDays(DetectCycleStarts(entries))
	want := []string{"2024-01-01", "2024-01-29"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected starts %v, got %v", want, got)
	}
}

func TestBuildCycleStatsRequiresTwoCompleteCycles(t *testing.T) {
	entries := flowEntries(
		"2024-01-01", "2024-01-02", "2024-01-03",
		"2024-01-29", "2024-01-30", "2024-01-31",
	)

	stats, err := BuildCycleStats(entries)
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData with two starts, got %v", err)
	}
	if stats.CompleteCycles != 1 {
		t.Fatalf("expected one complete cycle, got %d", stats.CompleteCycles)
	}
	if !reflect.DeepEqual(stats.CycleLengths, []int{28}) {
		t.Fatalf("expected cycle lengths [28], got %v", stats.CycleLengths)
	}
	if stats.PredictedNextStart != nil {
		t.Fatalf("expected no prediction without enough data, got %v", stats.PredictedNextStart)
	}
	if stats.AverageCycleLengthDays != 0 {
		t.Fatalf("expected no average without enough data, got %.2f", stats.AverageCycleLengthDays)
	}
}

func TestBuildCycleStatsWithNoFlowDays(t *testing.T) {
	stats, err := BuildCycleStats(nil)
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData for empty log, got %v", err)
	}
	if stats.CompleteCycles != 0 || stats.LastCycleStart != nil {
		t.Fatalf("expected empty stats, got %+v", stats)
	}
	if stats.CycleLengths == nil {
		t.Fatal("expected non-nil cycle lengths slice")
	}
}

func TestBuildCycleStatsRegularCycles(t *testing.T) {
	entries := flowEntries(
		"2024-01-01", "2024-01-02", "2024-01-03",
		"2024-01-29", "2024-01-30", "2024-01-31",
		"2024-02-26", "2024-02-27", "2024-02-28",
	)

	stats, err := BuildCycleStats(entries)
	if err != nil {
		t.Fatalf("BuildCycleStats returned error: %v", err)
	}
	if stats.AverageCycleLengthDays != 28 {
		t.Fatalf("expected average 28, got %.2f", stats.AverageCycleLengthDays)
	}
	if stats.CycleLengthStdDeviation != 0 {
		t.Fatalf("expected zero deviation, got %.2f", stats.CycleLengthStdDeviation)
	}
	if stats.CompleteCycles != 2 {
		t.Fatalf("expected two complete cycles, got %d", stats.CompleteCycles)
	}
	if !stats.IsRegular {
		t.Fatal("expected cycles to be regular")
	}
	if stats.LastCycleStart == nil || FormatDay(*stats.LastCycleStart) != "2024-02-26" {
		t.Fatalf("unexpected last cycle start: %v", stats.LastCycleStart)
	}
	if stats.PredictedNextStart == nil || FormatDay(*stats.PredictedNextStart) != "2024-03-25" {
		t.Fatalf("unexpected predicted next start: %v", stats.PredictedNextStart)
	}
}

func TestBuildCycleStatsIrregularCycles(t *testing.T) {
	entries := flowEntries("2024-01-01", "2024-01-27", "2024-03-04")

	stats, err := BuildCycleStats(entries)
	if err != nil {
		t.Fatalf("BuildCycleStats returned error: %v", err)
	}
	if !reflect.DeepEqual(stats.CycleLengths, []int{26, 37}) {
		t.Fatalf("expected lengths [26 37], got %v", stats.CycleLengths)
	}
	if stats.AverageCycleLengthDays != 31.5 {
		t.Fatalf("expected average 31.5, got %.2f", stats.AverageCycleLengthDays)
	}
	if math.Abs(stats.CycleLengthStdDeviation-5.5) > 1e-9 {
		t.Fatalf("expected population deviation 5.5, got %.4f", stats.CycleLengthStdDeviation)
	}
	if stats.ShortestCycleDays != 26 || stats.LongestCycleDays != 37 {
		t.Fatalf("unexpected range %d..%d", stats.ShortestCycleDays, stats.LongestCycleDays)
	}
	if stats.IsRegular {
		t.Fatal("expected an 11 day spread to be irregular")
	}
	if stats.PredictedNextStart == nil || FormatDay(*stats.PredictedNextStart) != "2024-04-05" {
		t.Fatalf("unexpected predicted next start: %v", stats.PredictedNextStart)
	}
}

func TestStatsServiceReadsOnlyOwnersLog(t *testing.T) {
	repo := newLogEntryRepositoryStub()
	for _, entry := range flowEntries("2024-01-01", "2024-01-29", "2024-02-26") {
		entry.UserID = alice
		if _, err := repo.Create(&entry); err != nil {
			t.Fatalf("seed entry: %v", err)
		}
	}
	bobEntry := makeFlowEntry("2024-01-15", models.FlowLight)
	bobEntry.UserID = bob
	if _, err := repo.Create(&bobEntry); err != nil {
		t.Fatalf("seed entry: %v", err)
	}

	service := NewStatsService(NewLogService(repo, time.UTC))

	stats, err := service.CalculateCycleStats(alice)
	if err != nil {
		t.Fatalf("CalculateCycleStats returned error: %v", err)
	}
	if !reflect.DeepEqual(stats.CycleLengths, []int{28, 28}) {
		t.Fatalf("expected alice lengths [28 28], got %v", stats.CycleLengths)
	}

	if _, err := service.CalculateCycleStats(bob); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected insufficient data for bob, got %v", err)
	}

	repo.err = errors.New("read failed")
	if _, err := service.CalculateCycleStats(alice); !errors.Is(err, ErrStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
}

type failingFlowReader struct {
	err error
}

func (reader failingFlowReader) ListFlowDays(uint) ([]models.LogEntry, error) {
	return nil, reader.err
}

func TestStatsServiceWrapsReaderFailures(t *testing.T) {
	raw := errors.New("connection reset")
	service := NewStatsService(failingFlowReader{err: raw})

	_, err := service.CalculateCycleStats(alice)
	if !errors.Is(err, ErrStorage) || !errors.Is(err, raw) {
		t.Fatalf("expected storage error wrapping the reader failure, got %v", err)
	}

	wrapped := storageError("list flow days", raw)
	service = NewStatsService(failingFlowReader{err: wrapped})
	if _, err := service.CalculateCycleStats(alice); err != wrapped {
		t.Fatalf("expected an already wrapped error to pass through unchanged, got %v", err)
	}
}

func flowEntries(days ...string) []models.LogEntry {
	entries := make([]models.LogEntry, 0, len(days))
	for _, day := range days {
		entries = append(entries, makeFlowEntry(day, models.FlowMedium))
	}
	return entries
}

func makeFlowEntry(date string, flow models.FlowIntensity) models.LogEntry {
	return models.LogEntry{
		Date:     mustParseDay(date),
		Flow:     flow,
		Symptoms: []models.Symptom{},
	}
}

func formatDays(days []time.Time) []string {
	formatted := make([]string, 0, len(days))
	for _, day := range days {
		formatted = append(formatted, FormatDay(day))
	}
	return formatted
}

func mustParseDay(raw string) time.Time {
	parsed, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	if err != nil {
		panic(err)
	}
	return parsed
}
