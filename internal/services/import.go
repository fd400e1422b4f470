package services

import (
	"errors"
	"strings"

	"github.com/stwalsh4118/debtdesk/api/internal/importer"
	"github.com/stwalsh4118/debtdesk/api/internal/logger"
)

// Upload is a spreadsheet received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ImportResult reports a bulk import. Total counts the rows that passed
// validation; rows listed in Errors are neither imported nor counted.
type ImportResult struct {
	Imported int                 `json:"imported"`
	Total    int                 `json:"total"`
	Skipped  int                 `json:"skipped"`
	Errors   []importer.RowError `json:"errors"`
}

// readUpload reads the first sheet of u and maps its header row.
// Every failure is a validation error with a message for the client.
func readUpload(log *logger.Logger, u Upload, columns importer.Columns, required []string) ([]importer.Row, error) {
	fields := map[string]interface{}{
		"filename": u.Filename,
		"size":     len(u.Data),
	}

	sheet, err := importer.ReadSheet(u.Filename, u.ContentType, u.Data)
	if err == nil {
		var rows []importer.Row
		rows, err = importer.Table(sheet, columns, required...)
		if err == nil {
			return rows, nil
		}
	}

	log.Warn("Rejected spreadsheet", withError(fields, err))

	var missing *importer.MissingColumnsError
	switch {
	case errors.Is(err, importer.ErrUnsupportedFormat):
		return nil, validationError("Непідтримуваний формат файлу. Завантажте файл .xls або .xlsx")
	case errors.Is(err, importer.ErrEmptySheet):
		return nil, validationError("Файл не містить даних")
	case errors.As(err, &missing):
		return nil, validationError("У файлі відсутні обов'язкові колонки: " + strings.Join(missing.Headers, ", "))
	default:
		return nil, &Error{Kind: KindValidation, Message: "Не вдалося прочитати файл", Err: err}
	}
}

// rejectAll is returned when no row of an upload is valid.
func rejectAll(rowErrors []importer.RowError) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: "Жоден рядок файлу не пройшов перевірку",
		Details: map[string]interface{}{"errors": rowErrors},
	}
}

func newImportResult(imported, valid int, rowErrors []importer.RowError) *ImportResult {
	if rowErrors == nil {
		rowErrors = []importer.RowError{}
	}
	return &ImportResult{
		Imported: imported,
		Total:    valid,
		Skipped:  len(rowErrors),
		Errors:   rowErrors,
	}
}

// withError copies fields and adds err for a log line.
func withError(fields map[string]interface{}, err error) map[string]interface{} {
	out := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	if err != nil {
		out["error"] = err.Error()
	}
	return out
}
