package services

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stwalsh4118/debtdesk/api/internal/importer"
	"github.com/stwalsh4118/debtdesk/api/internal/logger"
	"github.com/stwalsh4118/debtdesk/api/internal/models"
	"github.com/stwalsh4118/debtdesk/api/internal/repository"
	"github.com/stwalsh4118/debtdesk/api/internal/validation"
)

const msgCadasterNotFound = "Запис кадастру не знайдено"

// CadasterInput is the editable part of a parcel.
type CadasterInput struct {
	PlotArea        decimal.Decimal
	LandTax         decimal.Decimal
	PayerName       string
	PayerAddress    string
	IBAN            string
	TaxAddress      string
	CadastralNumber string
}

// CadasterService defines parcel operations.
type CadasterService interface {
	// Filter returns one page of parcels matching f.
	Filter(ctx context.Context, f repository.ListFilter) (models.Page[models.CadasterRecord], error)

	// Get returns a parcel or a not_found error.
	Get(ctx context.Context, id int64) (*models.CadasterRecord, error)

	// Create validates and stores a parcel on behalf of uid.
	Create(ctx context.Context, uid int64, in CadasterInput) (int64, error)

	// Update validates and overwrites a parcel.
	Update(ctx context.Context, uid int64, id int64, in CadasterInput) error

	// Delete removes a parcel.
	Delete(ctx context.Context, uid int64, id int64) error

	// Import loads a cadaster spreadsheet, upserting by cadastral number.
	Import(ctx context.Context, uid int64, u Upload) (*ImportResult, error)
}

type cadasterService struct {
	repo      repository.CadasterRepository
	log       *logger.Logger
	batchSize int
}

// NewCadasterService creates a new instance of CadasterService.
func NewCadasterService(repo repository.CadasterRepository, log *logger.Logger, batchSize int) CadasterService {
	return &cadasterService{repo: repo, log: log, batchSize: batchSize}
}

func (s *cadasterService) Filter(ctx context.Context, f repository.ListFilter) (models.Page[models.CadasterRecord], error) {
	page, err := s.repo.Filter(ctx, f)
	if err != nil {
		return page, listError(s.log, "cadaster", err)
	}
	return page, nil
}

func (s *cadasterService) Get(ctx context.Context, id int64) (*models.CadasterRecord, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to query cadaster record", err, map[string]interface{}{"id": id})
		return nil, persistenceError(err)
	}
	if record == nil {
		return nil, notFoundError(msgCadasterNotFound)
	}
	return record, nil
}

func (s *cadasterService) Create(ctx context.Context, uid int64, in CadasterInput) (int64, error) {
	record, err := s.validate(in)
	if err != nil {
		return 0, err
	}

	id, err := s.repo.Create(ctx, uid, record)
	if err != nil {
		return 0, s.writeError("create", err, record)
	}

	s.log.Info("Cadaster record created", map[string]interface{}{
		"id":               id,
		"cadastral_number": record.CadastralNumber,
		"uid":              uid,
	})
	return id, nil
}

func (s *cadasterService) Update(ctx context.Context, uid int64, id int64, in CadasterInput) error {
	record, err := s.validate(in)
	if err != nil {
		return err
	}
	record.ID = id

	found, err := s.repo.Update(ctx, uid, record)
	if err != nil {
		return s.writeError("update", err, record)
	}
	if !found {
		return notFoundError(msgCadasterNotFound)
	}

	s.log.Info("Cadaster record updated", map[string]interface{}{"id": id, "uid": uid})
	return nil
}

func (s *cadasterService) Delete(ctx context.Context, uid int64, id int64) error {
	found, err := s.repo.Delete(ctx, uid, id)
	if err != nil {
		s.log.Error("Failed to delete cadaster record", err, map[string]interface{}{"id": id})
		return persistenceError(err)
	}
	if !found {
		return notFoundError(msgCadasterNotFound)
	}

	s.log.Info("Cadaster record deleted", map[string]interface{}{"id": id, "uid": uid})
	return nil
}

func (s *cadasterService) Import(ctx context.Context, uid int64, u Upload) (*ImportResult, error) {
	rows, err := readUpload(s.log, u, importer.CadasterColumns, importer.CadasterRequired)
	if err != nil {
		return nil, err
	}

	records, rowErrors := importer.CadasterRows(rows)
	if len(records) == 0 {
		s.log.Warn("Cadaster import rejected, no valid rows", map[string]interface{}{
			"filename": u.Filename,
			"errors":   len(rowErrors),
		})
		return nil, rejectAll(rowErrors)
	}

	imported, err := s.repo.Upsert(ctx, uid, records, s.batchSize)
	if err != nil {
		s.log.Error("Failed to import cadaster records", err, map[string]interface{}{
			"filename": u.Filename,
			"rows":     len(records),
		})
		return nil, persistenceError(err)
	}

	s.log.Info("Cadaster import finished", map[string]interface{}{
		"filename": u.Filename,
		"imported": imported,
		"skipped":  len(rowErrors),
		"uid":      uid,
	})
	return newImportResult(imported, len(records), rowErrors), nil
}

// validate trims and checks input. A missing cadastral number is replaced by
// a synthetic one that documents never print.
func (s *cadasterService) validate(in CadasterInput) (*models.CadasterRecord, error) {
	record := &models.CadasterRecord{
		PayerName:       strings.TrimSpace(in.PayerName),
		PayerAddress:    strings.TrimSpace(in.PayerAddress),
		IBAN:            validation.NormalizeIBAN(in.IBAN),
		TaxAddress:      strings.TrimSpace(in.TaxAddress),
		CadastralNumber: strings.TrimSpace(in.CadastralNumber),
		PlotArea:        in.PlotArea,
		LandTax:         in.LandTax,
	}

	var violation string
	switch {
	case record.PayerName == "":
		violation = "Не вказано платника"
	case record.IBAN != "" && !validation.IsIBAN(record.IBAN):
		violation = "IBAN має складатися з UA та 27 цифр"
	case record.LandTax.IsNegative():
		violation = "Земельний податок не може бути від'ємним"
	case record.PlotArea.IsNegative():
		violation = "Площа не може бути від'ємною"
	}
	if violation != "" {
		s.log.Warn("Invalid cadaster record", map[string]interface{}{
			"reason":           violation,
			"cadastral_number": record.CadastralNumber,
		})
		return nil, validationError(violation)
	}

	if record.CadastralNumber == "" {
		record.CadastralNumber = importer.SyntheticCadastral()
	}
	return record, nil
}

func (s *cadasterService) writeError(op string, err error, record *models.CadasterRecord) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return validationError("Запис з кадастровим номером " + record.CadastralNumber + " уже існує")
	}
	s.log.Error("Failed to "+op+" cadaster record", err, map[string]interface{}{
		"id":               record.ID,
		"cadastral_number": record.CadastralNumber,
	})
	return persistenceError(err)
}
