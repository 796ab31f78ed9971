package store

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/digitallabs/icp-engine/apperrors"
	"github.com/digitallabs/icp-engine/model"
)

// CreateSchema creates the tables and indexes the store needs. Used by the
// seed command and the test suites; production deployments migrate outside
// this process.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*model.Company)(nil),
		(*model.CompanyField)(nil),
		(*model.ICPProfile)(nil),
		(*model.Campaign)(nil),
	}
	for _, m := range models {
		if _, err := db.NewCreateTable().
			Model(m).
			IfNotExists().
			Exec(ctx); err != nil {
			return apperrors.Storef(err, "create table for %T", m)
		}
	}

	// The upsert path relies on this unique constraint as its conflict target.
	if _, err := db.NewCreateIndex().
		Model((*model.CompanyField)(nil)).
		Index("company_fields_company_id_field_name_key").
		Unique().
		Column("company_id", "field_name").
		IfNotExists().
		Exec(ctx); err != nil {
		return apperrors.Storef(err, "create company_fields unique index")
	}
	return nil
}
