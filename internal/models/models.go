package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID              uuid.UUID `db:"id" json:"id"`
	Email           string    `db:"email" json:"email"`         // Encrypted in DB
	EmailBlindIndex string    `db:"email_blind_index" json:"-"` // HMAC hash for lookups
	PasswordHash    *string   `db:"password_hash" json:"-"`
	GoogleSubject   *string   `db:"google_subject" json:"-"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

type Profile struct {
	UserID        uuid.UUID `db:"user_id" json:"user_id"`
	Email         string    `db:"email" json:"email"` // Encrypted in DB, lives on users
	FullName      *string   `db:"full_name" json:"full_name"`
	AvatarURL     *string   `db:"avatar_url" json:"avatar_url"`
	Points        int       `db:"points" json:"points"`
	CurrentStreak int       `db:"current_streak" json:"current_streak"`
	TotalDays     int       `db:"total_days" json:"total_days"`
	LastEntryDate *Date     `db:"last_entry_date" json:"last_entry_date"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// CompassEntry is one daily reflection. Every reflective field is optional
// and stays NULL when the user leaves it blank.
type CompassEntry struct {
	ID                      uuid.UUID `db:"id" json:"id"`
	UserID                  uuid.UUID `db:"user_id" json:"user_id"`
	Date                    Date      `db:"date" json:"date"`
	PhysicalActivity        *string   `db:"physical_activity" json:"physical_activity"`
	PhysicalDescription     *string   `db:"physical_description" json:"physical_description"` // Encrypted in DB
	Emotion                 *string   `db:"emotion" json:"emotion"`
	EmotionEmoji            *string   `db:"emotion_emoji" json:"emotion_emoji"`
	IntellectualActivity    *string   `db:"intellectual_activity" json:"intellectual_activity"`
	IntellectualDescription *string   `db:"intellectual_description" json:"intellectual_description"` // Encrypted in DB
	ThoughtOfDay            *string   `db:"thought_of_day" json:"thought_of_day"`                     // Encrypted in DB
	EventOfDay              *string   `db:"event_of_day" json:"event_of_day"`                         // Encrypted in DB
	PersonOfDay             *string   `db:"person_of_day" json:"person_of_day"`                       // Encrypted in DB
	GratitudeOfDay          *string   `db:"gratitude_of_day" json:"gratitude_of_day"`                 // Encrypted in DB
	ValueOfDay              *string   `db:"value_of_day" json:"value_of_day"`
	PointsEarned            *int      `db:"points_earned" json:"points_earned"`
	CreatedAt               time.Time `db:"created_at" json:"created_at"`
	UpdatedAt               time.Time `db:"updated_at" json:"updated_at"`
}

type EssayTopic struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Deadline  Date      `db:"deadline" json:"deadline"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Essay struct {
	ID             uuid.UUID `db:"id" json:"id"`
	UserID         uuid.UUID `db:"user_id" json:"user_id"`
	TopicID        uuid.UUID `db:"topic_id" json:"topic_id"`
	Content        string    `db:"content" json:"content"` // Encrypted in DB
	CharacterCount int       `db:"character_count" json:"character_count"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

type FirstTime struct {
	ID               uuid.UUID `db:"id" json:"id"`
	UserID           uuid.UUID `db:"user_id" json:"user_id"`
	Title            string    `db:"title" json:"title"`
	Date             Date      `db:"date" json:"date"`
	WhyRecorded      *string   `db:"why_recorded" json:"why_recorded"`
	WhatChanged      *string   `db:"what_changed" json:"what_changed"`
	HowUseExperience *string   `db:"how_use_experience" json:"how_use_experience"`
	WhatProudImprove *string   `db:"what_proud_improve" json:"what_proud_improve"`
	Emotions         *string   `db:"emotions" json:"emotions"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

type Wish struct {
	ID          uuid.UUID `db:"id" json:"id"`
	UserID      uuid.UUID `db:"user_id" json:"user_id"`
	OrderNumber int       `db:"order_number" json:"order_number"`
	Wish        string    `db:"wish" json:"wish"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

type MonthlyPhoto struct {
	ID         uuid.UUID `db:"id" json:"id"`
	UserID     uuid.UUID `db:"user_id" json:"user_id"`
	Month      int       `db:"month" json:"month"`
	Year       int       `db:"year" json:"year"`
	PhotoURL   string    `db:"photo_url" json:"photo_url"`
	StorageKey string    `db:"storage_key" json:"-"`
	Caption    *string   `db:"caption" json:"caption"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

type FitnessTest struct {
	ID              uuid.UUID `db:"id" json:"id"`
	UserID          uuid.UUID `db:"user_id" json:"user_id"`
	TestNumber      int       `db:"test_number" json:"test_number"`
	Date            Date      `db:"date" json:"date"`
	Run2400mSeconds int       `db:"run_2400m_seconds" json:"run_2400m_seconds"`
	Pushups         int       `db:"pushups" json:"pushups"`
	Abs             int       `db:"abs" json:"abs"`
	LongJumpCm      int       `db:"long_jump_cm" json:"long_jump_cm"`
	Run40mSeconds   float64   `db:"run_40m_seconds" json:"run_40m_seconds"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

type EnglishTest struct {
	ID         uuid.UUID `db:"id" json:"id"`
	UserID     uuid.UUID `db:"user_id" json:"user_id"`
	TestNumber int       `db:"test_number" json:"test_number"`
	Date       Date      `db:"date" json:"date"`
	Grammar    int       `db:"grammar" json:"grammar"`
	Vocabulary int       `db:"vocabulary" json:"vocabulary"`
	Reading    int       `db:"reading" json:"reading"`
	Listening  int       `db:"listening" json:"listening"`
	Average    int       `db:"-" json:"average"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

type Action struct {
	ID           uuid.UUID `db:"id" json:"id"`
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	Title        string    `db:"title" json:"title"`
	ActivityType string    `db:"activity_type" json:"activity_type"`
	Date         Date      `db:"date" json:"date"`
	TimeSpent    int       `db:"time_spent" json:"time_spent"` // minutes
	WorkDone     string    `db:"work_done" json:"work_done"`
	Emotions     *string   `db:"emotions" json:"emotions"`
	Insights     *string   `db:"insights" json:"insights"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// ActionTotal is the time spent per activity type.
type ActionTotal struct {
	ActivityType string `db:"activity_type" json:"activity_type"`
	Count        int    `db:"count" json:"count"`
	Minutes      int    `db:"minutes" json:"minutes"`
}
