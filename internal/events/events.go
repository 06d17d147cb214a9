package events

import (
	"time"
)

// EventType represents the kinds of domain events published by the service
type EventType string

const (
	// Exam events
	EventExamPublished EventType = "exam.published"
	EventExamArchived  EventType = "exam.archived"

	// Session events
	EventSessionStarted   EventType = "session.started"
	EventSessionCompleted EventType = "session.completed"
	EventSessionAbandoned EventType = "session.abandoned"
	EventSessionExpired   EventType = "session.expired"
)

// Event is the envelope shared by all published events
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Exam event payloads

type ExamPublishedEvent struct {
	ExamID          uint    `json:"exam_id"`
	Title           string  `json:"title"`
	Subject         string  `json:"subject"`
	QuestionCount   int     `json:"question_count"`
	DurationMinutes *int    `json:"duration_minutes,omitempty"`
	MaxAttempts     int     `json:"max_attempts"`
	PassingScore    float64 `json:"passing_score"`
	CreatorID       uint    `json:"creator_id"`
}

type ExamArchivedEvent struct {
	ExamID uint   `json:"exam_id"`
	Title  string `json:"title"`
}

// Session event payloads

type SessionStartedEvent struct {
	SessionID     uint       `json:"session_id"`
	ExamID        uint       `json:"exam_id"`
	StudentID     uint       `json:"student_id"`
	AttemptNumber int        `json:"attempt_number"`
	StartTime     time.Time  `json:"start_time"`
	Deadline      *time.Time `json:"deadline,omitempty"`
}

type SessionFinishedEvent struct {
	SessionID    uint      `json:"session_id"`
	ExamID       uint      `json:"exam_id"`
	StudentID    uint      `json:"student_id"`
	EndTime      time.Time `json:"end_time"`
	Score        *float64  `json:"score,omitempty"`
	EarnedPoints *float64  `json:"earned_points,omitempty"`
	TotalPoints  *float64  `json:"total_points,omitempty"`
}
