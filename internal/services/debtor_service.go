package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/stwalsh4118/debtdesk/api/internal/debt"
	"github.com/stwalsh4118/debtdesk/api/internal/docgen"
	"github.com/stwalsh4118/debtdesk/api/internal/logger"
	"github.com/stwalsh4118/debtdesk/api/internal/models"
	"github.com/stwalsh4118/debtdesk/api/internal/repository"
)

const (
	msgDebtorNotFound    = "Боржника не знайдено"
	msgRequisiteNotFound = "Не знайдено реквізити для оплати. Зверніться до адміністратора"
	msgNoDebt            = "У боржника немає заборгованості"
	msgDocumentFailed    = "Не вдалося сформувати документ"
)

// DocxContentType is the media type of generated Word documents.
const DocxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Document is a generated file ready for download.
type Document struct {
	Filename string
	Data     []byte
}

// DocumentGenerator renders Word documents. *docgen.Generator implements it.
type DocumentGenerator interface {
	DebtorNotice(n docgen.DebtorNotice) ([]byte, error)
	TaxNotification(n docgen.TaxNotification) ([]byte, error)
}

// DebtorInfo is a debtor with the derived total and its line items.
type DebtorInfo struct {
	Debtor    models.TaxDebtor `json:"debtor"`
	TotalDebt debt.Money       `json:"total_debt"`
	Breakdown debt.Breakdown   `json:"breakdown"`
}

// SectionRequisite is the payment routing printed under one debt section.
type SectionRequisite struct {
	Category debt.Category         `json:"category"`
	Label    string                `json:"label"`
	Details  models.PaymentDetails `json:"details"`
	Text     string                `json:"text"`
}

// DebtorPrint is everything a client needs to render the debt notice itself.
type DebtorPrint struct {
	DebtorInfo
	Requisites []SectionRequisite `json:"requisites"`
}

// DebtorService defines debtor read and document operations.
type DebtorService interface {
	// Filter returns one page of debtors with masked identification numbers.
	Filter(ctx context.Context, f repository.ListFilter) (models.Page[models.TaxDebtor], error)

	// Info returns a debtor with its total and line items.
	Info(ctx context.Context, id int64) (*DebtorInfo, error)

	// Print returns the line items together with the payment requisites of
	// every printed section.
	Print(ctx context.Context, id int64) (*DebtorPrint, error)

	// Generate renders the debt notice of a debtor.
	Generate(ctx context.Context, id int64) (*Document, error)
}

type debtorService struct {
	debtors    repository.DebtorRepository
	cadaster   repository.CadasterRepository
	requisites repository.RequisiteRepository
	docs       DocumentGenerator
	log        *logger.Logger
}

// NewDebtorService creates a new instance of DebtorService.
func NewDebtorService(
	debtors repository.DebtorRepository,
	cadaster repository.CadasterRepository,
	requisites repository.RequisiteRepository,
	docs DocumentGenerator,
	log *logger.Logger,
) DebtorService {
	return &debtorService{
		debtors:    debtors,
		cadaster:   cadaster,
		requisites: requisites,
		docs:       docs,
		log:        log,
	}
}

func (s *debtorService) Filter(ctx context.Context, f repository.ListFilter) (models.Page[models.TaxDebtor], error) {
	page, err := s.debtors.Filter(ctx, f)
	if err != nil {
		return page, listError(s.log, "debtors", err)
	}
	for i := range page.Items {
		page.Items[i].Identification = debt.MaskTaxID(page.Items[i].Identification)
	}
	return page, nil
}

func (s *debtorService) Info(ctx context.Context, id int64) (*DebtorInfo, error) {
	info, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	info.Debtor.Identification = debt.MaskTaxID(info.Debtor.Identification)
	return info, nil
}

func (s *debtorService) Print(ctx context.Context, id int64) (*DebtorPrint, error) {
	info, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	requisite, err := s.requisite(ctx)
	if err != nil {
		return nil, err
	}

	sections := make([]SectionRequisite, 0, len(info.Breakdown.Sections))
	for _, section := range info.Breakdown.Sections {
		details := debt.RequisiteFor(*requisite, section.Category)
		sections = append(sections, SectionRequisite{
			Category: section.Category,
			Label:    section.Label,
			Details:  details,
			Text:     debt.RequisiteText(details),
		})
	}

	info.Debtor.Identification = debt.MaskTaxID(info.Debtor.Identification)
	return &DebtorPrint{DebtorInfo: *info, Requisites: sections}, nil
}

func (s *debtorService) Generate(ctx context.Context, id int64) (*Document, error) {
	info, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	requisite, err := s.requisite(ctx)
	if err != nil {
		return nil, err
	}

	data, err := s.docs.DebtorNotice(docgen.DebtorNotice{
		Debtor:    info.Debtor,
		Breakdown: info.Breakdown,
		Requisite: *requisite,
	})
	if err != nil {
		if errors.Is(err, docgen.ErrNoDebt) {
			s.log.Warn("Debt notice requested for debtor without debt", map[string]interface{}{"id": id})
			return nil, documentError(msgNoDebt, err)
		}
		s.log.Error("Failed to generate debt notice", err, map[string]interface{}{"id": id})
		return nil, documentError(msgDocumentFailed, err)
	}

	s.log.Info("Debt notice generated", map[string]interface{}{
		"id":          id,
		"items":       len(info.Breakdown.Items),
		"grand_total": info.Breakdown.GrandTotal.String(),
	})
	return &Document{
		Filename: fmt.Sprintf("debtor_%d.docx", id),
		Data:     data,
	}, nil
}

// load fetches a debtor and decomposes its debt. Parcels are only read when
// there is land debt to itemize.
func (s *debtorService) load(ctx context.Context, id int64) (*DebtorInfo, error) {
	debtor, err := s.debtors.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to query debtor", err, map[string]interface{}{"id": id})
		return nil, persistenceError(err)
	}
	if debtor == nil {
		return nil, notFoundError(msgDebtorNotFound)
	}

	var parcels []models.CadasterRecord
	if debt.NeedsParcels(*debtor) {
		parcels, err = s.cadaster.FindByPayerName(ctx, debtor.Name)
		if err != nil {
			s.log.Error("Failed to query parcels of debtor", err, map[string]interface{}{"id": id})
			return nil, persistenceError(err)
		}
	}

	breakdown := debt.BuildLineItems(*debtor, parcels)
	return &DebtorInfo{
		Debtor:    *debtor,
		TotalDebt: breakdown.TotalDebt,
		Breakdown: breakdown,
	}, nil
}

func (s *debtorService) requisite(ctx context.Context) (*models.Requisite, error) {
	requisite, err := s.requisites.Latest(ctx)
	if err != nil {
		s.log.Error("Failed to query requisites", err, nil)
		return nil, persistenceError(err)
	}
	if requisite == nil {
		s.log.Warn("No payment requisites configured", nil)
		return nil, notFoundError(msgRequisiteNotFound)
	}
	return requisite, nil
}
