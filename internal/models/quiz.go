package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Question struct {
	Prompt  string   `bson:"prompt" json:"prompt"`
	Choices []string `bson:"choices" json:"choices"`
	Answer  int      `bson:"answer" json:"answer"`
}

type Quiz struct {
	ID          bson.ObjectID `bson:"_id" json:"id"`
	Title       string        `bson:"title" json:"title"`
	Description string        `bson:"description" json:"description"`
	Author      string        `bson:"author" json:"author"`
	Tags        []string      `bson:"tags" json:"tags"`
	Questions   []Question    `bson:"questions" json:"questions"`
	AddedAt     time.Time     `bson:"added_at" json:"added_at"`
}

// QuizRequest is the writable projection of a Quiz: everything but the identifier.
// Only a UTC AddedAt with millisecond precision survives a store round trip
// unchanged.
type QuizRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Author      string     `json:"author"`
	Tags        []string   `json:"tags"`
	Questions   []Question `json:"questions"`
	AddedAt     time.Time  `json:"added_at"`
}

// ToDocument builds the stored form of a request. The result never carries an _id,
// so it is usable both for inserts and for full-document replaces. AddedAt is
// stored as a BSON datetime: it reads back in UTC, truncated to milliseconds.
func ToDocument(req QuizRequest) bson.D {
	var questions bson.A
	if req.Questions != nil {
		questions = make(bson.A, 0, len(req.Questions))
		for _, q := range req.Questions {
			questions = append(questions, bson.D{
				{Key: "prompt", Value: q.Prompt},
				{Key: "choices", Value: q.Choices},
				{Key: "answer", Value: q.Answer},
			})
		}
	}

	return bson.D{
		{Key: "title", Value: req.Title},
		{Key: "description", Value: req.Description},
		{Key: "author", Value: req.Author},
		{Key: "tags", Value: req.Tags},
		{Key: "questions", Value: questions},
		{Key: "added_at", Value: bson.NewDateTimeFromTime(req.AddedAt)},
	}
}

// FromDocument decodes a stored document into a Quiz. Extra fields such as the
// text search score are ignored.
func FromDocument(raw bson.Raw) (*Quiz, error) {
	var quiz Quiz
	if err := bson.Unmarshal(raw, &quiz); err != nil {
		return nil, fmt.Errorf("failed to decode quiz document: %w", err)
	}
	return &quiz, nil
}

// Request returns the writable projection of q.
func (q *Quiz) Request() QuizRequest {
	return QuizRequest{
		Title:       q.Title,
		Description: q.Description,
		Author:      q.Author,
		Tags:        q.Tags,
		Questions:   q.Questions,
		AddedAt:     q.AddedAt,
	}
}
