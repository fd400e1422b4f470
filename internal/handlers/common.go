package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	apierrors "github.com/stwalsh4118/debtdesk/api/internal/errors"
	"github.com/stwalsh4118/debtdesk/api/internal/middleware"
	"github.com/stwalsh4118/debtdesk/api/internal/pagination"
	"github.com/stwalsh4118/debtdesk/api/internal/repository"
	"github.com/stwalsh4118/debtdesk/api/internal/services"
	"github.com/stwalsh4118/debtdesk/api/internal/validation"
)

const (
	msgInvalidBody = "Некоректне тіло запиту"
	msgInvalidID   = "Некоректний ідентифікатор"
)

// MessageResponse is the body of mutation endpoints.
type MessageResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id,omitempty"`
}

// ImportResponse is the body of upload endpoints.
type ImportResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Data    *services.ImportResult `json:"data"`
}

// listRequest carries the paging and sorting keys of an offset list body.
// Every other key of the body is a filter value.
type listRequest struct {
	Title         string `json:"title"`
	SortBy        string `json:"sort_by"`
	SortDirection string `json:"sort_direction"`
	Page          int    `json:"page"`
	Limit         int    `json:"limit"`
}

// cursorRequest carries the paging keys of a cursor list body.
type cursorRequest struct {
	Cursor *int64 `json:"cursor"`
	Sort   string `json:"sort"`
	Limit  int    `json:"limit"`
}

// RegisterValidators installs the custom binding rules on gin's validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected validator engine")
	}
	return validation.Register(v)
}

// respondError writes the response for a service error.
func respondError(c *gin.Context, err error) {
	e, ok := services.AsError(err)
	if !ok {
		apierrors.InternalServerError(c, apierrors.MsgInternal, err)
		return
	}

	switch e.Kind {
	case services.KindValidation:
		apierrors.Respond(c, http.StatusBadRequest, apierrors.ErrValidation, e.Message, e.Details)
	case services.KindNotFound:
		apierrors.NotFound(c, e.Message)
	case services.KindDocument:
		apierrors.DocumentError(c, e.Message)
	case services.KindPersistence:
		apierrors.Respond(c, http.StatusBadRequest, apierrors.ErrDatabaseConnection, e.Message, nil)
	case services.KindForbidden:
		apierrors.Forbidden(c, e.Message)
	default:
		apierrors.InternalServerError(c, apierrors.MsgInternal, err)
	}
}

// respondBindError writes the response for a request that failed binding.
func respondBindError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		apierrors.ValidationError(c, validationErrors)
		return
	}
	apierrors.BadRequest(c, msgInvalidBody, nil)
}

// bindBody decodes the JSON body into obj. An empty body leaves obj as is.
// The body is cached so it can be decoded more than once.
func bindBody(c *gin.Context, obj any) error {
	err := c.ShouldBindBodyWith(obj, binding.JSON)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// bindListFilter decodes an offset list request body.
func bindListFilter(c *gin.Context) (repository.ListFilter, bool) {
	var req listRequest
	values := map[string]any{}
	if err := bindBody(c, &req); err != nil {
		respondBindError(c, err)
		return repository.ListFilter{}, false
	}
	if err := bindBody(c, &values); err != nil {
		respondBindError(c, err)
		return repository.ListFilter{}, false
	}

	return repository.ListFilter{
		Values:        values,
		Title:         req.Title,
		SortBy:        req.SortBy,
		SortDirection: req.SortDirection,
		Page:          pagination.Offset(req.Page, req.Limit),
	}, true
}

// bindCursorFilter decodes a cursor list request body.
func bindCursorFilter(c *gin.Context) (repository.CursorFilter, bool) {
	var req cursorRequest
	values := map[string]any{}
	if err := bindBody(c, &req); err != nil {
		respondBindError(c, err)
		return repository.CursorFilter{}, false
	}
	if err := bindBody(c, &values); err != nil {
		respondBindError(c, err)
		return repository.CursorFilter{}, false
	}

	return repository.CursorFilter{
		Values: values,
		Cursor: pagination.NewCursor(req.Cursor, req.Sort, req.Limit),
	}, true
}

// pathID parses the :id route parameter.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		apierrors.BadRequest(c, msgInvalidID, nil)
		return 0, false
	}
	return id, true
}

// actor returns the authenticated user id, or 0 for anonymous requests.
func actor(c *gin.Context) int64 {
	uid, _ := middleware.GetUserID(c)
	return uid
}

// sendDocument writes a generated document as an attachment.
func sendDocument(c *gin.Context, doc *services.Document) {
	c.Header("Content-Disposition", `attachment; filename="`+doc.Filename+`"`)
	c.Data(http.StatusOK, services.DocxContentType, doc.Data)
}
