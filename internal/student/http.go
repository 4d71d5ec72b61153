package student

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"student-records/internal/httputil"
	"student-records/internal/metrics"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service      Service
	validator    *Validator
	logger       *slog.Logger
	metrics      *metrics.Metrics
	exposeErrors bool
}

func NewHandler(service Service, validator *Validator, logger *slog.Logger, m *metrics.Metrics, exposeErrors bool) *Handler {
	return &Handler{
		service:      service,
		validator:    validator,
		logger:       logger,
		metrics:      m,
		exposeErrors: exposeErrors,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/students", h.CreateStudent)
	router.Get("/students", h.GetAllStudents)
	router.Get("/students/{id}", h.GetStudent)
	router.Put("/students/{id}", h.UpdateStudent)
	router.Delete("/students/{id}", h.DeleteStudent)
}

func (h *Handler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	draft, fieldErrors := h.validator.Validate(in)
	if fieldErrors != nil {
		httputil.RespondWithFieldErrors(w, http.StatusBadRequest, "Validation failed", fieldErrors)
		return
	}

	h.logger.InfoContext(r.Context(), "creating student", "email", draft.Email)
	created, err := h.service.CreateStudent(r.Context(), draft)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.metrics.RecordStudentCreated(r.Context())

	httputil.RespondWithData(w, http.StatusCreated, "Student created successfully", created)
}

func (h *Handler) GetAllStudents(w http.ResponseWriter, r *http.Request) {
	h.logger.InfoContext(r.Context(), "fetching all students")

	students, err := h.service.GetAllStudents(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.metrics.RecordStudentsListViewed(r.Context())

	httputil.RespondWithList(w, http.StatusOK, "Students data retrieved successfully", students, len(students))
}

func (h *Handler) GetStudent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	h.logger.InfoContext(r.Context(), "fetching student by ID")
	student, err := h.service.GetStudentByID(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.metrics.RecordStudentViewed(r.Context())

	httputil.RespondWithData(w, http.StatusOK, "Student retrieved successfully", student)
}

func (h *Handler) UpdateStudent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	draft, fieldErrors := h.validator.Validate(in)
	if fieldErrors != nil {
		httputil.RespondWithFieldErrors(w, http.StatusBadRequest, "Validation failed", fieldErrors)
		return
	}

	h.logger.InfoContext(r.Context(), "updating student", "email", draft.Email)
	updated, err := h.service.UpdateStudent(r.Context(), id, draft)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.metrics.RecordStudentUpdated(r.Context())

	httputil.RespondWithData(w, http.StatusOK, "Student updated successfully", updated)
}

func (h *Handler) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	h.logger.InfoContext(r.Context(), "deleting student")
	deleted, err := h.service.DeleteStudent(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.metrics.RecordStudentDeleted(r.Context())

	httputil.RespondWithData(w, http.StatusOK, "Student data deleted successfully", deleted)
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrEmailTaken):
		h.logger.InfoContext(r.Context(), "duplicate email")
		httputil.RespondWithError(w, http.StatusBadRequest, "Email already exists")
	case errors.Is(err, ErrMatricNoTaken):
		h.logger.InfoContext(r.Context(), "duplicate matric number")
		httputil.RespondWithError(w, http.StatusBadRequest, "Matriculation Number already exists")
	case errors.Is(err, ErrStudentNotFound):
		h.logger.InfoContext(r.Context(), "student not found")
		httputil.RespondWithError(w, http.StatusNotFound, "Student not found")
	case errors.Is(err, ErrInvalidID):
		h.logger.InfoContext(r.Context(), "invalid student id")
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid student ID format")
	default:
		h.logger.ErrorContext(r.Context(), "internal error", "error", err)
		if h.exposeErrors {
			httputil.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		httputil.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
