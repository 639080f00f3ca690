package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func sampleRequest() QuizRequest {
	return QuizRequest{
		Title:       "Capital cities",
		Description: "Name the capital",
		Author:      "geo-team",
		Tags:        []string{"geography", "europe"},
		Questions: []Question{
			{Prompt: "Capital of France?", Choices: []string{"Paris", "Lyon"}, Answer: 0},
			{Prompt: "Capital of Spain?", Choices: []string{"Seville", "Madrid"}, Answer: 1},
		},
		AddedAt: time.Date(2024, 3, 9, 12, 30, 15, 123_000_000, time.UTC),
	}
}

// storeRoundTrip mimics what the store does: it assigns an _id and persists the
// document as BSON bytes.
func storeRoundTrip(t *testing.T, doc bson.D) (bson.ObjectID, bson.Raw) {
	t.Helper()
	id := bson.NewObjectID()
	stored := append(bson.D{{Key: "_id", Value: id}}, doc...)
	raw, err := bson.Marshal(stored)
	require.NoError(t, err)
	return id, raw
}

func TestToDocumentHasNoIdentifier(t *testing.T) {
	doc := ToDocument(sampleRequest())
	for _, e := range doc {
		assert.NotEqual(t, "_id", e.Key)
	}

	keys := make([]string, 0, len(doc))
	for _, e := range doc {
		keys = append(keys, e.Key)
	}
	assert.Equal(t, []string{"title", "description", "author", "tags", "questions", "added_at"}, keys)
}

func TestRequestDocumentQuizRoundTrip(t *testing.T) {
	testCases := []struct {
		name string
		req  QuizRequest
	}{
		{name: "full", req: sampleRequest()},
		{name: "nil slices", req: QuizRequest{Title: "empty", AddedAt: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)}},
		{name: "empty slices", req: QuizRequest{Title: "blank", Tags: []string{}, Questions: []Question{}, AddedAt: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			id, raw := storeRoundTrip(t, ToDocument(tc.req))

			quiz, err := FromDocument(raw)
			require.NoError(t, err)
			assert.Equal(t, id, quiz.ID)
			assert.Equal(t, tc.req, quiz.Request())
		})
	}
}

func TestAddedAtReadsBackInUTCMilliseconds(t *testing.T) {
	req := sampleRequest()
	req.AddedAt = time.Date(2024, 3, 9, 14, 30, 15, 123_456_789, time.FixedZone("CEST", 2*60*60))

	_, raw := storeRoundTrip(t, ToDocument(req))
	quiz, err := FromDocument(raw)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 3, 9, 12, 30, 15, 123_000_000, time.UTC), quiz.AddedAt)
}

func TestFromDocumentIgnoresSearchScore(t *testing.T) {
	doc := append(ToDocument(sampleRequest()), bson.E{Key: "score", Value: 1.5})
	_, raw := storeRoundTrip(t, doc)

	quiz, err := FromDocument(raw)
	require.NoError(t, err)
	assert.Equal(t, "Capital cities", quiz.Title)
}

func TestFromDocumentRejectsMistypedField(t *testing.T) {
	raw, err := bson.Marshal(bson.D{{Key: "title", Value: 42}})
	require.NoError(t, err)

	_, err = FromDocument(raw)
	assert.Error(t, err)
}

func TestGetQuizIndexesHasSingleTextIndex(t *testing.T) {
	textIndexes := 0
	for _, idx := range GetQuizIndexes() {
		for _, key := range idx.Keys.(bson.D) {
			if key.Value == "text" {
				textIndexes++
				assert.Equal(t, "title", key.Key)
			}
		}
	}
	assert.Equal(t, 1, textIndexes)
}
