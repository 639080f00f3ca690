package event

import (
	"time"

	"github.com/google/uuid"
)

const (
	QuizCreated = "quiz.created"
	QuizUpdated = "quiz.updated"
	QuizDeleted = "quiz.deleted"
	QuizPurged  = "quiz.purged"
)

// QuizEvent is the body of every quiz lifecycle message. EventType doubles as
// the routing key.
type QuizEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	QuizID    string    `json:"quiz_id,omitempty"`
	Title     string    `json:"title,omitempty"`
	UserID    string    `json:"user_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewQuizEvent(eventType, quizID, title, userID string) *QuizEvent {
	return &QuizEvent{
		EventID:   uuid.NewString(),
		EventType: eventType,
		QuizID:    quizID,
		Title:     title,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
	}
}
