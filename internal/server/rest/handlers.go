package rest

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/civicreport/internal/logging"
	"github.com/dmitrijs2005/civicreport/internal/server/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type UserAuthenticator interface {
	Register(ctx context.Context, name, email, phone, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
}

type IssueReporter interface {
	Report(ctx context.Context, userID int64, issue *models.Issue) (*models.Issue, error)
	List(ctx context.Context) ([]models.Issue, error)
	ListByReporter(ctx context.Context, userID int64) ([]models.Issue, error)
	Get(ctx context.Context, id int64) (*models.Issue, error)
}

type ImageUploader interface {
	Upload(ctx context.Context, filename, contentType string, size int64, body io.Reader) (string, error)
}

type TokenVerifier interface {
	Verify(token string) (int64, error)
}

type Handler struct {
	users          UserAuthenticator
	issues         IssueReporter
	images         ImageUploader
	tokens         TokenVerifier
	logger         logging.Logger
	validate       *validator.Validate
	maxUploadBytes int64
}

func NewHandler(l logging.Logger, us UserAuthenticator, is IssueReporter, im ImageUploader, tv TokenVerifier, maxUploadBytes int64) *Handler {
	return &Handler{
		users:          us,
		issues:         is,
		images:         im,
		tokens:         tv,
		logger:         l.With("module", "rest_handler"),
		validate:       newValidator(),
		maxUploadBytes: maxUploadBytes,
	}
}

// fail logs err and writes the mapped status and detail. Malformed bodies
// are 400 regardless of what they wrap.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, errMalformedBody) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	status, detail := errorStatus(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(r.Context(), err.Error(), "path", r.URL.Path)
	} else {
		h.logger.Debug(r.Context(), err.Error(), "path", r.URL.Path, "status", status)
	}
	writeError(w, status, detail)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	h.logger.Info(r.Context(), "Registration request")

	u, err := h.users.Register(r.Context(), req.Name, req.Email, req.Phone, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.logger.Info(r.Context(), "Registered", "user_id", u.ID)
	writeJSON(w, http.StatusOK, msgResponse{Msg: "Registered"})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	token, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{AccessToken: token})
}

func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, "File too large")
		case errors.Is(err, http.ErrMissingFile):
			writeError(w, http.StatusBadRequest, "No file uploaded")
		default:
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}
	defer file.Close()

	url, err := h.images.Upload(r.Context(), header.Filename, header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, UploadImageResponse{ImageURL: url})
}

func (h *Handler) ReportIssue(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	var req IssueRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	issue, err := h.issues.Report(r.Context(), userID, req.toModel())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.logger.Info(r.Context(), "Issue reported", "issue_id", issue.ID, "user_id", userID)
	writeJSON(w, http.StatusOK, msgResponse{Msg: "Issue reported"})
}

func (h *Handler) ListIssues(w http.ResponseWriter, r *http.Request) {
	list, err := h.issues.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if list == nil {
		list = []models.Issue{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) MyIssues(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	list, err := h.issues.ListByReporter(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if list == nil {
		list = []models.Issue{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) GetIssue(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid issue id")
		return
	}

	issue, err := h.issues.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, issue)
}
