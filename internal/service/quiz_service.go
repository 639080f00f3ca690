package service

import (
	"context"

	"quizzbuzz/internal/event"
	"quizzbuzz/internal/models"

	"go.uber.org/zap"
)

// QuizStore is implemented by *repository.QuizRepository.
type QuizStore interface {
	FetchQuiz(ctx context.Context, id string) (*models.Quiz, error)
	SearchQuizzes(ctx context.Context, title string) ([]models.Quiz, error)
	CreateQuiz(ctx context.Context, entry models.QuizRequest) (string, error)
	EditQuiz(ctx context.Context, id string, entry models.QuizRequest) error
	DeleteQuiz(ctx context.Context, id string) error
	FetchQuizzes(ctx context.Context) ([]models.Quiz, error)
	FetchRecentQuizzes(ctx context.Context) ([]models.Quiz, error)
	DeleteQuizzes(ctx context.Context) error
}

type QuizService struct {
	store     QuizStore
	publisher event.Publisher
	logger    *zap.Logger
}

// NewQuizService wires the store to the event publisher. publisher may be nil,
// in which case no events are sent.
func NewQuizService(store QuizStore, publisher event.Publisher, logger *zap.Logger) *QuizService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuizService{
		store:     store,
		publisher: publisher,
		logger:    logger.Named("quiz-service"),
	}
}

func (s *QuizService) GetQuiz(ctx context.Context, id string) (*models.Quiz, error) {
	return s.store.FetchQuiz(ctx, id)
}

func (s *QuizService) SearchQuizzes(ctx context.Context, title string) ([]models.Quiz, error) {
	return s.store.SearchQuizzes(ctx, title)
}

func (s *QuizService) ListQuizzes(ctx context.Context) ([]models.Quiz, error) {
	return s.store.FetchQuizzes(ctx)
}

func (s *QuizService) RecentQuizzes(ctx context.Context) ([]models.Quiz, error) {
	return s.store.FetchRecentQuizzes(ctx)
}

func (s *QuizService) CreateQuiz(ctx context.Context, userID string, req models.QuizRequest) (string, error) {
	id, err := s.store.CreateQuiz(ctx, req)
	if err != nil {
		return "", err
	}
	s.publish(ctx, event.NewQuizEvent(event.QuizCreated, id, req.Title, userID))
	return id, nil
}

// UpdateQuiz replaces a quiz. Like the store, it reports success when id
// matches nothing.
func (s *QuizService) UpdateQuiz(ctx context.Context, userID, id string, req models.QuizRequest) error {
	if err := s.store.EditQuiz(ctx, id, req); err != nil {
		return err
	}
	s.publish(ctx, event.NewQuizEvent(event.QuizUpdated, id, req.Title, userID))
	return nil
}

func (s *QuizService) DeleteQuiz(ctx context.Context, userID, id string) error {
	if err := s.store.DeleteQuiz(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, event.NewQuizEvent(event.QuizDeleted, id, "", userID))
	return nil
}

// PurgeQuizzes removes the fixture quizzes tagged for cleanup.
func (s *QuizService) PurgeQuizzes(ctx context.Context, userID string) error {
	if err := s.store.DeleteQuizzes(ctx); err != nil {
		return err
	}
	s.publish(ctx, event.NewQuizEvent(event.QuizPurged, "", "", userID))
	return nil
}

// publish never fails the caller; the write already happened.
func (s *QuizService) publish(ctx context.Context, evt *event.QuizEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishQuizEvent(ctx, evt); err != nil {
		s.logger.Warn("failed to publish quiz event",
			zap.String("event_type", evt.EventType),
			zap.String("quiz_id", evt.QuizID),
			zap.Error(err))
	}
}
