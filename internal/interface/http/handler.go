package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/knguyen2000/officehourlens/internal/domain/course"
	"github.com/knguyen2000/officehourlens/internal/domain/faq"
	"github.com/knguyen2000/officehourlens/internal/domain/question"
	apperrors "github.com/knguyen2000/officehourlens/pkg/errors"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	questionSvc *question.Service
	faqSvc      *faq.Service
	courseSvc   *course.Service
	logger      *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(questionSvc *question.Service, faqSvc *faq.Service, courseSvc *course.Service, logger *slog.Logger) *Handler {
	return &Handler{
		questionSvc: questionSvc,
		faqSvc:      faqSvc,
		courseSvc:   courseSvc,
		logger:      logger.With("component", "http.handler"),
	}
}

type createQuestionRequest struct {
	StudentName  string `json:"student_name"`
	Course       string `json:"course"`
	QuestionText string `json:"question_text"`
}

type questionResponse struct {
	question.Question
	QueuePosition *int `json:"queue_position,omitempty"`
}

// CreateQuestion accepts a student question and queues it with an AI draft.
func (h *Handler) CreateQuestion(c *gin.Context) {
	var req createQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	q, err := h.questionSvc.Create(c.Request.Context(), req.StudentName, req.Course, req.QuestionText)
	if err != nil {
		abortWithError(c, domainError(err, "question_failed"))
		return
	}

	c.JSON(http.StatusOK, questionResponse{Question: q})
}

// GetQuestion returns one question with its live queue position.
func (h *Handler) GetQuestion(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	q, err := h.questionSvc.Get(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, domainError(err, "question_failed"))
		return
	}

	resp := questionResponse{Question: q}
	if q.Status == question.StatusWaiting || q.Status == question.StatusInProgress {
		pos, err := h.questionSvc.QueuePosition(c.Request.Context(), id)
		if err != nil {
			abortWithError(c, domainError(err, "question_failed"))
			return
		}
		resp.QueuePosition = &pos
	}

	c.JSON(http.StatusOK, resp)
}

// DeleteQuestion removes a question from the queue.
func (h *Handler) DeleteQuestion(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.questionSvc.Delete(c.Request.Context(), id); err != nil {
		abortWithError(c, domainError(err, "question_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Queue lists active questions in arrival order.
func (h *Handler) Queue(c *gin.Context) {
	questions, err := h.questionSvc.Queue(c.Request.Context())
	if err != nil {
		abortWithError(c, domainError(err, "queue_failed"))
		return
	}
	if questions == nil {
		questions = []question.Question{}
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

type statusUpdateRequest struct {
	Status string `json:"status"`
}

// UpdateStatus moves a question through its lifecycle.
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	q, err := h.questionSvc.UpdateStatus(c.Request.Context(), id, question.Status(req.Status))
	if err != nil {
		abortWithError(c, domainError(err, "question_failed"))
		return
	}
	c.JSON(http.StatusOK, questionResponse{Question: q})
}

type resolveRequest struct {
	ResolvedAnswer string `json:"resolved_answer"`
	SaveToFAQ      *bool  `json:"save_to_faq"`
}

// Resolve records the TA answer, closes the question, and optionally
// archives the pair into the FAQ corpus.
func (h *Handler) Resolve(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	saveToFAQ := true
	if req.SaveToFAQ != nil {
		saveToFAQ = *req.SaveToFAQ
	}

	q, err := h.questionSvc.Resolve(c.Request.Context(), id, req.ResolvedAnswer, saveToFAQ)
	if err != nil {
		abortWithError(c, domainError(err, "resolve_failed"))
		return
	}
	c.JSON(http.StatusOK, questionResponse{Question: q})
}

// ListFAQ returns the visible FAQ board.
func (h *Handler) ListFAQ(c *gin.Context) {
	entries, err := h.faqSvc.List(c.Request.Context())
	if err != nil {
		abortWithError(c, domainError(err, "faq_failed"))
		return
	}
	if entries == nil {
		entries = []faq.Entry{}
	}
	c.JSON(http.StatusOK, entries)
}

// ClusterFAQ triggers a full reclustering pass.
func (h *Handler) ClusterFAQ(c *gin.Context) {
	if err := h.faqSvc.Recluster(c.Request.Context()); err != nil {
		abortWithError(c, domainError(err, "cluster_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "message": "FAQs clustered successfully"})
}

type createDocRequest struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	SourceType string `json:"source_type"`
}

// ListCourseDocs returns all course documents.
func (h *Handler) ListCourseDocs(c *gin.Context) {
	docs, err := h.courseSvc.List(c.Request.Context())
	if err != nil {
		abortWithError(c, domainError(err, "course_doc_failed"))
		return
	}
	if docs == nil {
		docs = []course.Doc{}
	}
	c.JSON(http.StatusOK, docs)
}

// CreateCourseDoc stores a new course document.
func (h *Handler) CreateCourseDoc(c *gin.Context) {
	var req createDocRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	doc, err := h.courseSvc.Create(c.Request.Context(), req.Title, req.Content, req.SourceType)
	if err != nil {
		abortWithError(c, domainError(err, "course_doc_failed"))
		return
	}
	c.JSON(http.StatusOK, doc)
}

// DeleteCourseDoc removes a course document.
func (h *Handler) DeleteCourseDoc(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.courseSvc.Delete(c.Request.Context(), id); err != nil {
		abortWithError(c, domainError(err, "course_doc_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GetSetting reads a course setting.
func (h *Handler) GetSetting(c *gin.Context) {
	key := c.Param("key")
	value, ok, err := h.faqSvc.Setting(c.Request.Context(), key)
	if err != nil {
		abortWithError(c, domainError(err, "settings_failed"))
		return
	}
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusNotFound, "not_found", "setting not found", nil))
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "value": value})
}

type putSettingRequest struct {
	Value string `json:"value"`
}

// PutSetting upserts a course setting.
func (h *Handler) PutSetting(c *gin.Context) {
	key := c.Param("key")
	var req putSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	if err := h.faqSvc.SetSetting(c.Request.Context(), key, req.Value); err != nil {
		abortWithError(c, domainError(err, "settings_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "value": req.Value})
}

// SeedSample loads starter course docs and FAQ entries on an empty system.
func (h *Handler) SeedSample(c *gin.Context) {
	if err := h.courseSvc.SeedDefaults(c.Request.Context()); err != nil {
		abortWithError(c, domainError(err, "seed_failed"))
		return
	}
	if err := h.faqSvc.SeedDefaults(c.Request.Context()); err != nil {
		abortWithError(c, domainError(err, "seed_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "invalid id", err))
		return 0, false
	}
	return id, true
}

func domainError(err error, fallbackCode string) *HTTPError {
	status := http.StatusInternalServerError
	code := fallbackCode
	switch {
	case apperrors.IsCode(err, "invalid_input"):
		status = http.StatusBadRequest
		code = "invalid_request"
	case apperrors.IsCode(err, "not_found"):
		status = http.StatusNotFound
		code = "not_found"
	case apperrors.IsCode(err, "provider_error"):
		status = http.StatusBadGateway
		code = "provider_error"
	}
	return NewHTTPError(status, code, errMessage(err), err)
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
