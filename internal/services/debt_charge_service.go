package services

import (
	"context"
	"fmt"

	"github.com/stwalsh4118/debtdesk/api/internal/debt"
	"github.com/stwalsh4118/debtdesk/api/internal/docgen"
	"github.com/stwalsh4118/debtdesk/api/internal/importer"
	"github.com/stwalsh4118/debtdesk/api/internal/logger"
	"github.com/stwalsh4118/debtdesk/api/internal/models"
	"github.com/stwalsh4118/debtdesk/api/internal/repository"
)

const msgChargeNotFound = "Податкове повідомлення не знайдено"

// DebtChargeService defines operations on issued tax notices.
type DebtChargeService interface {
	// Filter returns one page of charges matching f.
	Filter(ctx context.Context, f repository.ListFilter) (models.Page[models.DebtCharge], error)

	// Get returns a charge or a not_found error.
	Get(ctx context.Context, id int64) (*models.DebtCharge, error)

	// Import replaces every stored charge with the valid rows of u.
	Import(ctx context.Context, uid int64, u Upload) (*ImportResult, error)

	// Generate renders the tax notification of a charge, filling the debt
	// amounts from the payer's latest debtor snapshot when there is one.
	Generate(ctx context.Context, id int64) (*Document, error)
}

type debtChargeService struct {
	charges   repository.DebtChargeRepository
	debtors   repository.DebtorRepository
	docs      DocumentGenerator
	log       *logger.Logger
	batchSize int
}

// NewDebtChargeService creates a new instance of DebtChargeService.
func NewDebtChargeService(
	charges repository.DebtChargeRepository,
	debtors repository.DebtorRepository,
	docs DocumentGenerator,
	log *logger.Logger,
	batchSize int,
) DebtChargeService {
	return &debtChargeService{
		charges:   charges,
		debtors:   debtors,
		docs:      docs,
		log:       log,
		batchSize: batchSize,
	}
}

func (s *debtChargeService) Filter(ctx context.Context, f repository.ListFilter) (models.Page[models.DebtCharge], error) {
	page, err := s.charges.Filter(ctx, f)
	if err != nil {
		return page, listError(s.log, "debt charges", err)
	}
	return page, nil
}

func (s *debtChargeService) Get(ctx context.Context, id int64) (*models.DebtCharge, error) {
	charge, err := s.charges.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to query debt charge", err, map[string]interface{}{"id": id})
		return nil, persistenceError(err)
	}
	if charge == nil {
		return nil, notFoundError(msgChargeNotFound)
	}
	return charge, nil
}

func (s *debtChargeService) Import(ctx context.Context, uid int64, u Upload) (*ImportResult, error) {
	rows, err := readUpload(s.log, u, importer.DebtChargeColumns, importer.DebtChargeRequired)
	if err != nil {
		return nil, err
	}

	charges, rowErrors := importer.DebtChargeRows(rows)
	if len(charges) == 0 {
		s.log.Warn("Debt charge import rejected, no valid rows", map[string]interface{}{
			"filename": u.Filename,
			"errors":   len(rowErrors),
		})
		return nil, rejectAll(rowErrors)
	}

	inserted, err := s.charges.ReplaceAll(ctx, uid, charges, s.batchSize)
	if err != nil {
		s.log.Error("Failed to import debt charges", err, map[string]interface{}{
			"filename": u.Filename,
			"rows":     len(charges),
		})
		return nil, persistenceError(err)
	}

	s.log.Info("Debt charge import finished", map[string]interface{}{
		"filename": u.Filename,
		"imported": inserted,
		"skipped":  len(rowErrors),
		"uid":      uid,
	})
	return newImportResult(inserted, len(charges), rowErrors), nil
}

func (s *debtChargeService) Generate(ctx context.Context, id int64) (*Document, error) {
	charge, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var amounts *debt.Amounts
	if charge.TaxNumber != "" {
		debtor, err := s.debtors.FindLatestByIdentification(ctx, charge.TaxNumber)
		if err != nil {
			s.log.Error("Failed to query debtor for tax notification", err, map[string]interface{}{"id": id})
			return nil, persistenceError(err)
		}
		if debtor != nil {
			a := debt.FromDebtor(*debtor)
			amounts = &a
		}
	}

	data, err := s.docs.TaxNotification(docgen.TaxNotification{Charge: *charge, Amounts: amounts})
	if err != nil {
		s.log.Error("Failed to generate tax notification", err, map[string]interface{}{"id": id})
		return nil, documentError(msgDocumentFailed, err)
	}

	s.log.Info("Tax notification generated", map[string]interface{}{
		"id":          id,
		"with_debtor": amounts != nil,
	})
	return &Document{
		Filename: fmt.Sprintf("notification_%d.docx", id),
		Data:     data,
	}, nil
}
