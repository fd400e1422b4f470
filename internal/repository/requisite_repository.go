package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/stwalsh4118/debtdesk/api/internal/database"
	"github.com/stwalsh4118/debtdesk/api/internal/debt"
	"github.com/stwalsh4118/debtdesk/api/internal/models"
)

// requisiteSQL shapes one ower.settings row into the nested JSON of
// models.Requisite. Each category stores four <category>_<field> columns.
var requisiteSQL = func() string {
	parts := []string{"'id', s.id", "'date', s.date"}
	for _, c := range debt.Categories {
		prefix := "s." + string(c) + "_"
		parts = append(parts, fmt.Sprintf(
			"'%s', json_build_object('recipient', %srecipient, 'edrpou', %sedrpou, 'account', %saccount, 'purpose', %spurpose)",
			c, prefix, prefix, prefix, prefix))
	}
	return `SELECT json_build_object(` + strings.Join(parts, ", ") + `)
		FROM ower.settings s
		ORDER BY s.date DESC NULLS LAST, s.id DESC
		LIMIT 1`
}()

// RequisiteRepository reads the organization's payment settings.
type RequisiteRepository interface {
	// Latest returns the most recent settings row by date, or nil, nil when
	// none is configured.
	Latest(ctx context.Context) (*models.Requisite, error)
}

type requisiteRepository struct {
	db *database.Database
}

// NewRequisiteRepository creates a new instance of RequisiteRepository.
func NewRequisiteRepository(db *database.Database) RequisiteRepository {
	return &requisiteRepository{db: db}
}

func (r *requisiteRepository) Latest(ctx context.Context) (*models.Requisite, error) {
	requisite, err := getOne[models.Requisite](ctx, r.db.Pool, requisiteSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query requisites: %w", err)
	}
	return requisite, nil
}
