package models

import (
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// GetQuizIndexes returns the indexes the quiz queries rely on. The text index on
// title backs $text searches; a collection may hold only one text index.
func GetQuizIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "title", Value: "text"}},
			Options: options.Index().SetName("title_text"),
		},
		{
			Keys:    bson.D{{Key: "added_at", Value: -1}},
			Options: options.Index().SetName("added_at_desc"),
		},
		{
			Keys: bson.D{{Key: "tags", Value: 1}},
		},
	}
}
