package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quizzbuzz/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

const (
	QuizCollection = "quiz"

	// RecentLimit caps FetchRecentQuizzes.
	RecentLimit = 8

	// PurgeTag marks fixture quizzes removed by DeleteQuizzes.
	PurgeTag = "funner"
)

// quizCollection is the subset of *mongo.Collection the repository uses.
type quizCollection interface {
	FindOne(ctx context.Context, filter any, opts ...options.Lister[options.FindOneOptions]) *mongo.SingleResult
	Find(ctx context.Context, filter any, opts ...options.Lister[options.FindOptions]) (*mongo.Cursor, error)
	InsertOne(ctx context.Context, document any, opts ...options.Lister[options.InsertOneOptions]) (*mongo.InsertOneResult, error)
	ReplaceOne(ctx context.Context, filter any, replacement any, opts ...options.Lister[options.ReplaceOptions]) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter any, opts ...options.Lister[options.DeleteOneOptions]) (*mongo.DeleteResult, error)
	DeleteMany(ctx context.Context, filter any, opts ...options.Lister[options.DeleteManyOptions]) (*mongo.DeleteResult, error)
	Indexes() mongo.IndexView
}

var _ quizCollection = (*mongo.Collection)(nil)

// QuizRepository is a stateless gateway to the quiz collection. It is safe for
// concurrent use; concurrent writes to one quiz are last-write-wins.
type QuizRepository struct {
	collection quizCollection
	logger     *zap.Logger
}

func NewQuizRepository(database *mongo.Database, logger *zap.Logger) *QuizRepository {
	return newQuizRepository(database.Collection(QuizCollection), logger)
}

func newQuizRepository(collection quizCollection, logger *zap.Logger) *QuizRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuizRepository{
		collection: collection,
		logger:     logger.Named("quiz-repository"),
	}
}

// InitializeIndexes creates the text index SearchQuizzes depends on and the
// index backing the recency sort.
func (r *QuizRepository) InitializeIndexes(ctx context.Context) error {
	names, err := r.collection.Indexes().CreateMany(ctx, models.GetQuizIndexes())
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	r.logger.Info("quiz indexes ready", zap.Strings("indexes", names))
	return nil
}

func parseID(id string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.NilObjectID, &InvalidIDError{ID: id}
	}
	return oid, nil
}

// FetchQuiz returns the quiz with the given identifier, or a *NotFoundError.
func (r *QuizRepository) FetchQuiz(ctx context.Context, id string) (_ *models.Quiz, err error) {
	defer func(start time.Time) { observe("fetch_quiz", start, err) }(time.Now())

	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	raw, err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Raw()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{ID: id}
		}
		return nil, &QueryError{Op: "fetch quiz", Err: err}
	}

	quiz, err := models.FromDocument(raw)
	if err != nil {
		return nil, &QueryError{Op: "fetch quiz", Err: err}
	}
	return quiz, nil
}

// SearchQuizzes runs a full-text search on title. The term may arrive
// percent-encoded; a term that does not decode to valid UTF-8 is an
// *InvalidQueryError. Results are ordered by descending text score.
func (r *QuizRepository) SearchQuizzes(ctx context.Context, title string) (_ []models.Quiz, err error) {
	defer func(start time.Time) { observe("search_quizzes", start, err) }(time.Now())

	term, err := decodeSearchTerm(title)
	if err != nil {
		return nil, &InvalidQueryError{Query: title, Err: err}
	}

	score := bson.M{"$meta": "textScore"}
	opts := options.Find().
		SetProjection(bson.M{"score": score}).
		SetSort(bson.M{"score": score})

	cur, err := r.collection.Find(ctx, bson.M{"$text": bson.M{"$search": term}}, opts)
	if err != nil {
		return nil, &QueryError{Op: "search quizzes", Err: err}
	}
	return r.collect(ctx, "search quizzes", cur)
}

// CreateQuiz inserts entry and returns the hex form of the assigned identifier.
func (r *QuizRepository) CreateQuiz(ctx context.Context, entry models.QuizRequest) (_ string, err error) {
	defer func(start time.Time) { observe("create_quiz", start, err) }(time.Now())

	res, err := r.collection.InsertOne(ctx, models.ToDocument(entry))
	if err != nil {
		return "", &QueryError{Op: "create quiz", Err: err}
	}

	oid, ok := res.InsertedID.(bson.ObjectID)
	if !ok {
		return "", &QueryError{Op: "create quiz", Err: fmt.Errorf("unexpected inserted id type %T", res.InsertedID)}
	}
	return oid.Hex(), nil
}

// EditQuiz replaces the stored quiz with entry. Editing an identifier that
// matches nothing is not an error.
func (r *QuizRepository) EditQuiz(ctx context.Context, id string, entry models.QuizRequest) (err error) {
	defer func(start time.Time) { observe("edit_quiz", start, err) }(time.Now())

	oid, err := parseID(id)
	if err != nil {
		return err
	}

	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": oid}, models.ToDocument(entry))
	if err != nil {
		return &QueryError{Op: "edit quiz", Err: err}
	}
	if res.MatchedCount == 0 {
		r.logger.Debug("edit matched no quiz", zap.String("id", id))
	}
	return nil
}

// DeleteQuiz removes the quiz with the given identifier. Deleting an identifier
// that matches nothing is not an error.
func (r *QuizRepository) DeleteQuiz(ctx context.Context, id string) (err error) {
	defer func(start time.Time) { observe("delete_quiz", start, err) }(time.Now())

	oid, err := parseID(id)
	if err != nil {
		return err
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return &QueryError{Op: "delete quiz", Err: err}
	}
	if res.DeletedCount == 0 {
		r.logger.Debug("delete matched no quiz", zap.String("id", id))
	}
	return nil
}

// FetchQuizzes returns every quiz in store order.
func (r *QuizRepository) FetchQuizzes(ctx context.Context) (_ []models.Quiz, err error) {
	defer func(start time.Time) { observe("fetch_quizzes", start, err) }(time.Now())

	cur, err := r.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, &QueryError{Op: "fetch quizzes", Err: err}
	}
	return r.collect(ctx, "fetch quizzes", cur)
}

// FetchRecentQuizzes returns at most RecentLimit quizzes, newest added_at first.
func (r *QuizRepository) FetchRecentQuizzes(ctx context.Context) (_ []models.Quiz, err error) {
	defer func(start time.Time) { observe("fetch_recent_quizzes", start, err) }(time.Now())

	opts := options.Find().
		SetSort(bson.D{{Key: "added_at", Value: -1}}).
		SetLimit(RecentLimit)

	cur, err := r.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, &QueryError{Op: "fetch recent quizzes", Err: err}
	}
	return r.collect(ctx, "fetch recent quizzes", cur)
}

// DeleteQuizzes removes every quiz whose tags are exactly [PurgeTag]. The number
// removed is logged and counted, not returned.
func (r *QuizRepository) DeleteQuizzes(ctx context.Context) (err error) {
	defer func(start time.Time) { observe("delete_quizzes", start, err) }(time.Now())

	res, err := r.collection.DeleteMany(ctx, bson.M{"tags": bson.A{PurgeTag}})
	if err != nil {
		return &QueryError{Op: "delete quizzes", Err: err}
	}

	purgedQuizzes.Add(float64(res.DeletedCount))
	r.logger.Info("deleted quizzes", zap.Int64("count", res.DeletedCount))
	return nil
}

func (r *QuizRepository) collect(ctx context.Context, op string, cur *mongo.Cursor) ([]models.Quiz, error) {
	defer cur.Close(ctx)

	quizzes := make([]models.Quiz, 0)
	for cur.Next(ctx) {
		quiz, err := models.FromDocument(cur.Current)
		if err != nil {
			return nil, &QueryError{Op: op, Err: err}
		}
		quizzes = append(quizzes, *quiz)
	}
	if err := cur.Err(); err != nil {
		return nil, &QueryError{Op: op, Err: err}
	}
	return quizzes, nil
}
