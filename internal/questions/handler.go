package questions

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"docqa-backend/internal/shared/server/middleware"
	"docqa-backend/internal/shared/server/respond"
	"docqa-backend/internal/shared/validate"
)

const retryAfterSeconds = "30"

const defaultMaxQuestionChars = 2000

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc              *Service
	MaxQuestionChars int
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxQuestionChars int) *Handler {
	return &Handler{Svc: svc, MaxQuestionChars: maxQuestionChars}
}

// RegisterRoutes attaches question routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/questions", h.ask)
	rg.GET("/questions", h.list)
	rg.GET("/questions/:id", h.get)
	rg.DELETE("/questions/:id", h.remove)
	rg.POST("/documents/:id/questions", h.askForDocument)
	rg.GET("/documents/:id/questions", h.listForDocument)
}

type askRequest struct {
	DocumentID string `json:"documentId" validate:"required,uuid4"`
	Question   string `json:"question" validate:"required"`
}

func (h *Handler) ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", nil)
		return
	}
	h.askValidated(c, req)
}

func (h *Handler) askForDocument(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", nil)
		return
	}
	req.DocumentID = c.Param("id")
	h.askValidated(c, req)
}

func (h *Handler) askValidated(c *gin.Context, req askRequest) {
	maxChars := h.MaxQuestionChars
	if maxChars <= 0 {
		maxChars = defaultMaxQuestionChars
	}
	err := validate.Join(
		validate.Struct(req),
		validate.Field("question", req.Question, fmt.Sprintf("max=%d", maxChars)),
	)
	if err != nil {
		var verr *validate.Error
		if errors.As(err, &verr) {
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request", verr.Fields)
			return
		}
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request", nil)
		return
	}

	ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
	q, queued, err := h.Svc.Ask(ctx, req.DocumentID, req.Question)
	if err != nil {
		switch {
		case errors.Is(err, ErrDocumentNotFound):
			respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "document not found", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "documentId and question are required", nil)
		case errors.Is(err, ErrAnswerFailed):
			c.Header("Retry-After", retryAfterSeconds)
			respond.Error(c, http.StatusServiceUnavailable, respond.CodeRetryable, "failed to answer question, please retry", gin.H{
				"questionId": q.ID,
				"errorCode":  q.ErrorCode,
			})
		default:
			respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to record question", nil)
		}
		return
	}

	if queued {
		respond.Accepted(c, toResponse(q))
		return
	}
	respond.Created(c, toResponse(q))
}

func (h *Handler) get(c *gin.Context) {
	q, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "question not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to fetch question", nil)
		}
		return
	}
	respond.OK(c, toResponse(q))
}

func (h *Handler) remove(c *gin.Context) {
	err := h.Svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "question not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to delete question", nil)
		}
		return
	}
	respond.NoContent(c)
}

func (h *Handler) list(c *gin.Context) {
	h.listQuestions(c, c.Query("documentId"))
}

func (h *Handler) listForDocument(c *gin.Context) {
	h.listQuestions(c, c.Param("id"))
}

func (h *Handler) listQuestions(c *gin.Context, documentID string) {
	limit := 20
	offset := 0

	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "limit must be a non-negative integer", nil)
			return
		}
		limit = parsed
	}
	if limit > 100 {
		limit = 100
	}

	if v := c.Query("offset"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "offset must be a non-negative integer", nil)
			return
		}
		offset = parsed
	}

	qs, err := h.Svc.List(c.Request.Context(), documentID, limit, offset)
	if err != nil {
		switch {
		case errors.Is(err, ErrDocumentNotFound):
			respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "document not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to list questions", nil)
		}
		return
	}

	respond.OK(c, toResponses(qs))
}
