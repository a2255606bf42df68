package services

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/terraincognita07/circlecare/internal/models"
)

// LogInput carries the mutable part of a log entry. Owner and date are set
// once at creation and cannot change.
type LogInput struct {
	Symptoms []models.Symptom
	Mood     models.Mood
	Flow     models.FlowIntensity
	Notes    string
}

type LogEntryRepository interface {
	FindByID(entryID uint) (models.LogEntry, bool, error)
	FindByUserAndDayRange(userID uint, dayStart time.Time, dayEnd time.Time) (models.LogEntry, bool, error)
	ListByUserRange(userID uint, fromStart *time.Time, toEnd *time.Time) ([]models.LogEntry, error)
	ListFlowDays(userID uint) ([]models.LogEntry, error)
	Create(entry *models.LogEntry) (bool, error)
	UpdateContent(entry *models.LogEntry) (bool, error)
	Delete(entryID uint) (bool, error)
}

type LogService struct {
	entries  LogEntryRepository
	location *time.Location
	owners   keyedLocks
}

func NewLogService(entries LogEntryRepository, location *time.Location) *LogService {
	if location == nil {
		location = time.UTC
	}
	return &LogService{entries: entries, location: location}
}

func NormalizeLogInput(input LogInput) (LogInput, error) {
	seen := make(map[models.Symptom]struct{}, len(input.Symptoms))
	symptoms := make([]models.Symptom, 0, len(input.Symptoms))
	for _, raw := range input.Symptoms {
		symptom := models.Symptom(strings.ToLower(strings.TrimSpace(string(raw))))
		if !models.IsKnownSymptom(symptom) {
			return LogInput{}, fmt.Errorf("%w: unknown symptom %q", ErrInvalidInput, raw)
		}
		if _, duplicate := seen[symptom]; duplicate {
			continue
		}
		seen[symptom] = struct{}{}
		symptoms = append(symptoms, symptom)
	}
	sort.Slice(symptoms, func(i, j int) bool { return symptoms[i] < symptoms[j] })

	mood := models.Mood(strings.ToLower(strings.TrimSpace(string(input.Mood))))
	if mood != "" && !models.IsKnownMood(mood) {
		return LogInput{}, fmt.Errorf("%w: unknown mood %q", ErrInvalidInput, input.Mood)
	}

	flow := models.FlowIntensity(strings.ToLower(strings.TrimSpace(string(input.Flow))))
	if flow != "" && !models.IsKnownFlow(flow) {
		return LogInput{}, fmt.Errorf("%w: unknown flow %q", ErrInvalidInput, input.Flow)
	}

	notes := strings.TrimSpace(input.Notes)
	if utf8.RuneCountInString(notes) > models.MaxNotesLength {
		return LogInput{}, fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, models.MaxNotesLength)
	}

	return LogInput{Symptoms: symptoms, Mood: mood, Flow: flow, Notes: notes}, nil
}

// Create records a new entry for owner on day. Each owner has at most one
// entry per calendar date.
func (service *LogService) Create(owner uint, day time.Time, input LogInput) (models.LogEntry, error) {
	normalized, err := NormalizeLogInput(input)
	if err != nil {
		return models.LogEntry{}, err
	}

	unlock := service.owners.lock(userLockKey(owner))
	defer unlock()

	dayStart, dayEnd := DayRange(day, service.location)
	_, exists, err := service.entries.FindByUserAndDayRange(owner, dayStart, dayEnd)
	if err != nil {
		return models.LogEntry{}, storageError("find log entry", err)
	}
	if exists {
		return models.LogEntry{}, ErrLogDateTaken
	}

	entry := models.LogEntry{
		UserID:   owner,
		Date:     dayStart,
		Symptoms: normalized.Symptoms,
		Mood:     normalized.Mood,
		Flow:     normalized.Flow,
		Notes:    normalized.Notes,
	}
	created, err := service.entries.Create(&entry)
	if err != nil {
		return models.LogEntry{}, storageError("create log entry", err)
	}
	if !created {
		return models.LogEntry{}, ErrLogDateTaken
	}
	return entry, nil
}

// Update replaces symptoms, mood, flow and notes. Callers must have run
// AssertAuthorIsUser first; UpdateOwned does both.
func (service *LogService) Update(entryID uint, input LogInput) (models.LogEntry, error) {
	normalized, err := NormalizeLogInput(input)
	if err != nil {
		return models.LogEntry{}, err
	}

	entry, found, err := service.entries.FindByID(entryID)
	if err != nil {
		return models.LogEntry{}, storageError("load log entry", err)
	}
	if !found {
		return models.LogEntry{}, ErrLogEntryNotFound
	}

	entry.Symptoms = normalized.Symptoms
	entry.Mood = normalized.Mood
	entry.Flow = normalized.Flow
	entry.Notes = normalized.Notes
	updated, err := service.entries.UpdateContent(&entry)
	if err != nil {
		return models.LogEntry{}, storageError("update log entry", err)
	}
	if !updated {
		return models.LogEntry{}, ErrLogEntryNotFound
	}
	return entry, nil
}

func (service *LogService) GetByDate(owner uint, day time.Time) (models.LogEntry, bool, error) {
	dayStart, dayEnd := DayRange(day, service.location)
	entry, found, err := service.entries.FindByUserAndDayRange(owner, dayStart, dayEnd)
	if err != nil {
		return models.LogEntry{}, false, storageError("find log entry", err)
	}
	return entry, found, nil
}

func (service *LogService) AssertAuthorIsUser(entryID uint, userID uint) error {
	entry, found, err := service.entries.FindByID(entryID)
	if err != nil {
		return storageError("load log entry", err)
	}
	if !found {
		return ErrLogEntryNotFound
	}
	if entry.UserID != userID {
		return ErrNotLogOwner
	}
	return nil
}

func (service *LogService) Delete(entryID uint) error {
	deleted, err := service.entries.Delete(entryID)
	if err != nil {
		return storageError("delete log entry", err)
	}
	if !deleted {
		return ErrLogEntryNotFound
	}
	return nil
}

func (service *LogService) UpdateOwned(userID uint, entryID uint, input LogInput) (models.LogEntry, error) {
	if err := service.AssertAuthorIsUser(entryID, userID); err != nil {
		return models.LogEntry{}, err
	}
	return service.Update(entryID, input)
}

func (service *LogService) DeleteOwned(userID uint, entryID uint) error {
	if err := service.AssertAuthorIsUser(entryID, userID); err != nil {
		return err
	}
	return service.Delete(entryID)
}

// ListByOwner returns the owner's entries in ascending date order. Nil bounds
// are open; to is inclusive.
func (service *LogService) ListByOwner(owner uint, from *time.Time, to *time.Time) ([]models.LogEntry, error) {
	var fromStart *time.Time
	var toEnd *time.Time
	if from != nil {
		start, _ := DayRange(*from, service.location)
		fromStart = &start
	}
	if to != nil {
		_, end := DayRange(*to, service.location)
		toEnd = &end
	}

	entries, err := service.entries.ListByUserRange(owner, fromStart, toEnd)
	if err != nil {
		return nil, storageError("list log entries", err)
	}
	return entries, nil
}

func (service *LogService) ListFlowDays(owner uint) ([]models.LogEntry, error) {
	entries, err := service.entries.ListFlowDays(owner)
	if err != nil {
		return nil, storageError("list flow days", err)
	}
	return entries, nil
}
