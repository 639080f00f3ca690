package handlers

import (
	"context"
	"errors"
	"time"

	"quizzbuzz/internal/middleware"
	"quizzbuzz/internal/models"
	"quizzbuzz/internal/repository"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

type QuizService interface {
	GetQuiz(ctx context.Context, id string) (*models.Quiz, error)
	SearchQuizzes(ctx context.Context, title string) ([]models.Quiz, error)
	ListQuizzes(ctx context.Context) ([]models.Quiz, error)
	RecentQuizzes(ctx context.Context) ([]models.Quiz, error)
	CreateQuiz(ctx context.Context, userID string, req models.QuizRequest) (string, error)
	UpdateQuiz(ctx context.Context, userID, id string, req models.QuizRequest) error
	DeleteQuiz(ctx context.Context, userID, id string) error
	PurgeQuizzes(ctx context.Context, userID string) error
}

type QuizHandler struct {
	quizService QuizService
	timeout     time.Duration
	logger      *zap.Logger
}

func NewQuizHandler(quizService QuizService, timeout time.Duration, logger *zap.Logger) *QuizHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &QuizHandler{
		quizService: quizService,
		timeout:     timeout,
		logger:      logger.Named("quiz-handler"),
	}
}

// RegisterRoutes mounts the quiz routes. protected guards every write route.
func (h *QuizHandler) RegisterRoutes(app *fiber.App, protected ...fiber.Handler) {
	publicGroup := app.Group("/public/quizz/quiz")
	publicGroup.Get("/", h.ListQuizzes)
	publicGroup.Get("/recent", h.RecentQuizzes)
	publicGroup.Get("/search/:title", h.SearchQuizzes)
	publicGroup.Get("/:id", h.GetQuiz)

	protectedGroup := app.Group("/protected/quizz/quiz", protected...)
	protectedGroup.Post("/", h.CreateQuiz)
	protectedGroup.Delete("/purge", h.PurgeQuizzes)
	protectedGroup.Put("/:id", h.UpdateQuiz)
	protectedGroup.Delete("/:id", h.DeleteQuiz)
}

func (h *QuizHandler) requestContext(c fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Context(), h.timeout)
}

// writeError maps the repository error taxonomy onto HTTP statuses.
func (h *QuizHandler) writeError(c fiber.Ctx, action string, err error) error {
	var (
		invalidID    *repository.InvalidIDError
		invalidQuery *repository.InvalidQueryError
		notFound     *repository.NotFoundError
	)

	switch {
	case errors.As(err, &invalidID):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid quiz ID format",
		})
	case errors.As(err, &invalidQuery):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid search query",
		})
	case errors.As(err, &notFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Quiz not found",
		})
	}

	h.logger.Error("quiz request failed", zap.String("action", action), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Failed to " + action,
	})
}

// bindRequest decodes a quiz body. added_at is normalized to what the store keeps,
// UTC at millisecond precision, and defaults to now.
func (h *QuizHandler) bindRequest(c fiber.Ctx) (models.QuizRequest, error) {
	var req models.QuizRequest
	if err := c.Bind().Body(&req); err != nil {
		return req, err
	}
	if req.Title == "" {
		return req, errors.New("title is required")
	}
	if req.AddedAt.IsZero() {
		req.AddedAt = time.Now()
	}
	req.AddedAt = req.AddedAt.UTC().Truncate(time.Millisecond)
	return req, nil
}

func (h *QuizHandler) GetQuiz(c fiber.Ctx) error {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	quiz, err := h.quizService.GetQuiz(ctx, c.Params("id"))
	if err != nil {
		return h.writeError(c, "retrieve quiz", err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{
			"quiz": quiz,
		},
	})
}

// SearchQuizzes passes the raw path segment through; the repository decodes it.
func (h *QuizHandler) SearchQuizzes(c fiber.Ctx) error {
	title := c.Params("title")

	ctx, cancel := h.requestContext(c)
	defer cancel()

	quizzes, err := h.quizService.SearchQuizzes(ctx, title)
	if err != nil {
		return h.writeError(c, "search quizzes", err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{
			"quizzes": quizzes,
			"count":   len(quizzes),
		},
	})
}

func (h *QuizHandler) ListQuizzes(c fiber.Ctx) error {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	quizzes, err := h.quizService.ListQuizzes(ctx)
	if err != nil {
		return h.writeError(c, "list quizzes", err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{
			"quizzes": quizzes,
			"count":   len(quizzes),
		},
	})
}

func (h *QuizHandler) RecentQuizzes(c fiber.Ctx) error {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	quizzes, err := h.quizService.RecentQuizzes(ctx)
	if err != nil {
		return h.writeError(c, "list recent quizzes", err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{
			"quizzes": quizzes,
			"count":   len(quizzes),
		},
	})
}

func (h *QuizHandler) CreateQuiz(c fiber.Ctx) error {
	req, err := h.bindRequest(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	id, err := h.quizService.CreateQuiz(ctx, c.Get(middleware.UserIDHeader), req)
	if err != nil {
		return h.writeError(c, "create quiz", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Quiz created successfully",
		"data": fiber.Map{
			"id": id,
		},
	})
}

// UpdateQuiz answers 200 even when the id matches no quiz; the store treats
// that as a successful no-op.
func (h *QuizHandler) UpdateQuiz(c fiber.Ctx) error {
	req, err := h.bindRequest(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	if err := h.quizService.UpdateQuiz(ctx, c.Get(middleware.UserIDHeader), c.Params("id"), req); err != nil {
		return h.writeError(c, "update quiz", err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Quiz updated successfully",
	})
}

func (h *QuizHandler) DeleteQuiz(c fiber.Ctx) error {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	if err := h.quizService.DeleteQuiz(ctx, c.Get(middleware.UserIDHeader), c.Params("id")); err != nil {
		return h.writeError(c, "delete quiz", err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Quiz deleted successfully",
	})
}

func (h *QuizHandler) PurgeQuizzes(c fiber.Ctx) error {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	if err := h.quizService.PurgeQuizzes(ctx, c.Get(middleware.UserIDHeader)); err != nil {
		return h.writeError(c, "purge quizzes", err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Fixture quizzes purged",
	})
}
