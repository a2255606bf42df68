package models

import "time"

type Symptom string

const (
	SymptomCramps           Symptom = "cramps"
	SymptomHeadache         Symptom = "headache"
	SymptomBloating         Symptom = "bloating"
	SymptomFatigue          Symptom = "fatigue"
	SymptomAcne             Symptom = "acne"
	SymptomBackPain         Symptom = "back_pain"
	SymptomNausea           Symptom = "nausea"
	SymptomBreastTenderness Symptom = "breast_tenderness"
	SymptomInsomnia         Symptom = "insomnia"
	SymptomCravings         Symptom = "cravings"
	SymptomMoodSwings       Symptom = "mood_swings"
	SymptomSpotting         Symptom = "spotting"
)

type Mood string

const (
	MoodHappy     Mood = "happy"
	MoodCalm      Mood = "calm"
	MoodSad       Mood = "sad"
	MoodAnxious   Mood = "anxious"
	MoodIrritable Mood = "irritable"
	MoodEnergetic Mood = "energetic"
	MoodTired     Mood = "tired"
)

type FlowIntensity string

const (
	FlowLight  FlowIntensity = "light"
	FlowMedium FlowIntensity = "medium"
	FlowHeavy  FlowIntensity = "heavy"
)

const MaxNotesLength = 2000

// LogEntry is one user's health log for a calendar day. An empty Mood or Flow
// means the value was not recorded.
type LogEntry struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	UserID    uint          `gorm:"not null;uniqueIndex:uidx_log_user_date" json:"-"`
	Date      time.Time     `gorm:"type:date;not null;uniqueIndex:uidx_log_user_date" json:"date"`
	Symptoms  []Symptom     `gorm:"serializer:json" json:"symptoms"`
	Mood      Mood          `gorm:"not null;default:''" json:"mood,omitempty"`
	Flow      FlowIntensity `gorm:"not null;default:''" json:"flow,omitempty"`
	Notes     string        `json:"notes"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func (entry LogEntry) HasFlow() bool {
	return entry.Flow != ""
}

func AllSymptoms() []Symptom {
	return []Symptom{
		SymptomCramps,
		SymptomHeadache,
		SymptomBloating,
		SymptomFatigue,
		SymptomAcne,
		SymptomBackPain,
		SymptomNausea,
		SymptomBreastTenderness,
		SymptomInsomnia,
		SymptomCravings,
		SymptomMoodSwings,
		SymptomSpotting,
	}
}

func IsKnownSymptom(value Symptom) bool {
	for _, symptom := range AllSymptoms() {
		if symptom == value {
			return true
		}
	}
	return false
}

func IsKnownMood(value Mood) bool {
	switch value {
	case MoodHappy, MoodCalm, MoodSad, MoodAnxious, MoodIrritable, MoodEnergetic, MoodTired:
		return true
	}
	return false
}

func IsKnownFlow(value FlowIntensity) bool {
	switch value {
	case FlowLight, FlowMedium, FlowHeavy:
		return true
	}
	return false
}
