package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/stwalsh4118/debtdesk/api/internal/errors"
	"github.com/stwalsh4118/debtdesk/api/internal/services"
)

// UploadField is the multipart field carrying the spreadsheet.
const UploadField = "file"

// readUpload extracts the spreadsheet of a multipart request. Requests over
// maxBytes are rejected before the file is parsed.
func readUpload(c *gin.Context, maxBytes int64) (services.Upload, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)

	header, err := c.FormFile(UploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			apierrors.Respond(c, http.StatusRequestEntityTooLarge, apierrors.ErrBadRequest, "Файл завеликий", nil)
			return services.Upload{}, false
		}
		apierrors.BadRequest(c, "Файл не завантажено", nil)
		return services.Upload{}, false
	}

	f, err := header.Open()
	if err != nil {
		apierrors.BadRequest(c, "Не вдалося прочитати файл", nil)
		return services.Upload{}, false
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		apierrors.BadRequest(c, "Не вдалося прочитати файл", nil)
		return services.Upload{}, false
	}

	return services.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, true
}

// respondImport writes the result of a successful import.
func respondImport(c *gin.Context, result *services.ImportResult) {
	message := "Файл успішно завантажено"
	if result.Skipped > 0 {
		message = "Файл завантажено частково: деякі рядки містять помилки"
	}
	c.JSON(http.StatusOK, ImportResponse{
		Success: true,
		Message: message,
		Data:    result,
	})
}
