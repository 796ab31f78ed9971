package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/digitallabs/icp-engine/apperrors"
	"github.com/digitallabs/icp-engine/model"
)

// BunStore implements Store over a bun.DB (Postgres in production, SQLite in
// tests; the queries stay dialect-portable).
type BunStore struct {
	db *bun.DB
}

func NewBunStore(db *bun.DB) *BunStore {
	return &BunStore{db: db}
}

var _ Store = (*BunStore)(nil)

// ---------------------------------------------------------------- companies

func (s *BunStore) CompaniesByOwner(ctx context.Context, ownerID string) ([]*model.Company, error) {
	companies := []*model.Company{}
	err := s.db.NewSelect().
		Model(&companies).
		Where("c.owner_id = ?", ownerID).
		Relation("Fields").
		Relation("Profiles", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("created_at DESC")
		}).
		Relation("Profiles.Campaigns").
		OrderExpr("c.created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, apperrors.Storef(err, "list companies for owner %s", ownerID)
	}
	return companies, nil
}

func (s *BunStore) CompanyByID(ctx context.Context, id int64, ownerID string) (*model.Company, error) {
	company := new(model.Company)
	err := s.db.NewSelect().
		Model(company).
		Where("c.id = ?", id).
		Where("c.owner_id = ?", ownerID).
		Relation("Fields").
		Relation("Profiles").
		Relation("Profiles.Campaigns").
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFoundf("company %d not found", id)
	}
	if err != nil {
		return nil, apperrors.Storef(err, "get company %d", id)
	}
	return company, nil
}

func (s *BunStore) CreateCompany(ctx context.Context, company *model.Company) error {
	now := time.Now().UTC()
	company.CreatedAt = now
	company.UpdatedAt = now

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(company).Exec(ctx); err != nil {
			return err
		}
		for _, field := range company.Fields {
			field.CompanyID = company.ID
			if field.Version == 0 {
				field.Version = 1
			}
			if _, err := tx.NewInsert().Model(field).Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return apperrors.Storef(err, "create company %q", company.Name)
	}
	return nil
}

func (s *BunStore) UpdateCompanyName(ctx context.Context, id int64, ownerID, name string) (*model.Company, error) {
	res, err := s.db.NewUpdate().
		Model((*model.Company)(nil)).
		Set("name = ?", name).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Where("owner_id = ?", ownerID).
		Exec(ctx)
	if err != nil {
		return nil, apperrors.Storef(err, "update company %d", id)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, apperrors.NotFoundf("company %d not found", id)
	}
	return s.CompanyByID(ctx, id, ownerID)
}

// DeleteCompany removes the company and its whole subtree in one
// transaction; invalidation must only run after this commits.
func (s *BunStore) DeleteCompany(ctx context.Context, id int64, ownerID string) error {
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewDelete().
			Model((*model.Company)(nil)).
			Where("id = ?", id).
			Where("owner_id = ?", ownerID).
			Exec(ctx)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return sql.ErrNoRows
		}
		if _, err := tx.NewDelete().
			Model((*model.Campaign)(nil)).
			Where("icp_id IN (SELECT id FROM icp_profiles WHERE company_id = ?)", id).
			Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewDelete().
			Model((*model.ICPProfile)(nil)).
			Where("company_id = ?", id).
			Exec(ctx); err != nil {
			return err
		}
		_, err = tx.NewDelete().
			Model((*model.CompanyField)(nil)).
			Where("company_id = ?", id).
			Exec(ctx)
		return err
	})
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NotFoundf("company %d not found", id)
	}
	if err != nil {
		return apperrors.Storef(err, "delete company %d", id)
	}
	return nil
}

func (s *BunStore) UpsertCompanyField(ctx context.Context, companyID int64, fieldName, fieldValue string) (*model.CompanyField, error) {
	field := &model.CompanyField{
		CompanyID:  companyID,
		FieldName:  fieldName,
		FieldValue: fieldValue,
		Version:    1,
	}
	_, err := s.db.NewInsert().
		Model(field).
		On("CONFLICT (company_id, field_name) DO UPDATE").
		Set("field_value = EXCLUDED.field_value").
		Set("version = cf.version + 1").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, apperrors.Storef(err, "upsert field %q on company %d", fieldName, companyID)
	}
	return field, nil
}

func (s *BunStore) BulkUpsertCompanyFields(ctx context.Context, companyID int64, fields []FieldValue) ([]*model.CompanyField, error) {
	updated := make([]*model.CompanyField, 0, len(fields))
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, fv := range fields {
			field := &model.CompanyField{
				CompanyID:  companyID,
				FieldName:  fv.Name,
				FieldValue: fv.Value,
				Version:    1,
			}
			_, err := tx.NewInsert().
				Model(field).
				On("CONFLICT (company_id, field_name) DO UPDATE").
				Set("field_value = EXCLUDED.field_value").
				Set("version = cf.version + 1").
				Returning("*").
				Exec(ctx)
			if err != nil {
				return err
			}
			updated = append(updated, field)
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Storef(err, "bulk upsert %d fields on company %d", len(fields), companyID)
	}
	return updated, nil
}

func (s *BunStore) Stats(ctx context.Context, id int64, ownerID string) (*CompanyStats, error) {
	company := new(model.Company)
	err := s.db.NewSelect().
		Model(company).
		Where("c.id = ?", id).
		Where("c.owner_id = ?", ownerID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFoundf("company %d not found", id)
	}
	if err != nil {
		return nil, apperrors.Storef(err, "get company %d", id)
	}

	fields, err := s.db.NewSelect().
		Model((*model.CompanyField)(nil)).
		Where("company_id = ?", id).
		Count(ctx)
	if err != nil {
		return nil, apperrors.Storef(err, "count fields for company %d", id)
	}
	profiles, err := s.db.NewSelect().
		Model((*model.ICPProfile)(nil)).
		Where("company_id = ?", id).
		Count(ctx)
	if err != nil {
		return nil, apperrors.Storef(err, "count profiles for company %d", id)
	}
	campaigns, err := s.db.NewSelect().
		Model((*model.Campaign)(nil)).
		Where("icp_id IN (SELECT id FROM icp_profiles WHERE company_id = ?)", id).
		Count(ctx)
	if err != nil {
		return nil, apperrors.Storef(err, "count campaigns for company %d", id)
	}

	return &CompanyStats{
		CompanyID:      id,
		DataFields:     fields,
		ICPProfiles:    profiles,
		TotalCampaigns: campaigns,
		LastUpdated:    company.UpdatedAt,
	}, nil
}

// ----------------------------------------------------------------- profiles

func (s *BunStore) ProfilesByCompany(ctx context.Context, companyID int64) ([]*model.ICPProfile, error) {
	profiles := []*model.ICPProfile{}
	err := s.db.NewSelect().
		Model(&profiles).
		Where("p.company_id = ?", companyID).
		Relation("Campaigns").
		Relation("Company").
		Relation("Company.Fields").
		OrderExpr("p.created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, apperrors.Storef(err, "list profiles for company %d", companyID)
	}
	return profiles, nil
}

func (s *BunStore) ProfileByID(ctx context.Context, id string) (*model.ICPProfile, error) {
	profile := new(model.ICPProfile)
	err := s.db.NewSelect().
		Model(profile).
		Where("p.id = ?", id).
		Relation("Campaigns").
		Relation("Company").
		Relation("Company.Fields").
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFoundf("icp profile %s not found", id)
	}
	if err != nil {
		return nil, apperrors.Storef(err, "get profile %s", id)
	}
	return profile, nil
}

func (s *BunStore) CreateProfile(ctx context.Context, profile *model.ICPProfile) error {
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	profile.CreatedAt = now
	profile.UpdatedAt = now
	if _, err := s.db.NewInsert().Model(profile).Exec(ctx); err != nil {
		return apperrors.Storef(err, "create profile %q", profile.Name)
	}
	return nil
}

func (s *BunStore) UpdateProfile(ctx context.Context, id string, up ProfileUpdate) (*model.ICPProfile, error) {
	q := s.db.NewUpdate().
		Model((*model.ICPProfile)(nil)).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id)
	if up.Name != nil {
		q = q.Set("name = ?", *up.Name)
	}
	if up.Description != nil {
		q = q.Set("description = ?", *up.Description)
	}
	if up.ProfileData != nil {
		q = q.Set("profile_data = ?", up.ProfileData)
	}
	if up.ConfidenceLevel != nil {
		q = q.Set("confidence_level = ?", *up.ConfidenceLevel)
	}
	res, err := q.Exec(ctx)
	if err != nil {
		return nil, apperrors.Storef(err, "update profile %s", id)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, apperrors.NotFoundf("icp profile %s not found", id)
	}
	return s.ProfileByID(ctx, id)
}

func (s *BunStore) DeleteProfile(ctx context.Context, id string) error {
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewDelete().
			Model((*model.ICPProfile)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return sql.ErrNoRows
		}
		_, err = tx.NewDelete().
			Model((*model.Campaign)(nil)).
			Where("icp_id = ?", id).
			Exec(ctx)
		return err
	})
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NotFoundf("icp profile %s not found", id)
	}
	if err != nil {
		return apperrors.Storef(err, "delete profile %s", id)
	}
	return nil
}

// ---------------------------------------------------------------- campaigns

func (s *BunStore) CampaignsByICP(ctx context.Context, icpID string) ([]*model.Campaign, error) {
	campaigns := []*model.Campaign{}
	err := s.db.NewSelect().
		Model(&campaigns).
		Where("cam.icp_id = ?", icpID).
		Relation("Profile").
		Relation("Profile.Company").
		Relation("Profile.Company.Fields").
		OrderExpr("cam.created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, apperrors.Storef(err, "list campaigns for profile %s", icpID)
	}
	return campaigns, nil
}

func (s *BunStore) CampaignByID(ctx context.Context, id string) (*model.Campaign, error) {
	campaign := new(model.Campaign)
	err := s.db.NewSelect().
		Model(campaign).
		Where("cam.id = ?", id).
		Relation("Profile").
		Relation("Profile.Company").
		Relation("Profile.Company.Fields").
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFoundf("campaign %s not found", id)
	}
	if err != nil {
		return nil, apperrors.Storef(err, "get campaign %s", id)
	}
	return campaign, nil
}

func (s *BunStore) CreateCampaign(ctx context.Context, campaign *model.Campaign) error {
	if campaign.ID == "" {
		campaign.ID = uuid.NewString()
	}
	campaign.CreatedAt = time.Now().UTC()
	if _, err := s.db.NewInsert().Model(campaign).Exec(ctx); err != nil {
		return apperrors.Storef(err, "create campaign %q", campaign.Name)
	}
	return nil
}

func (s *BunStore) UpdateCampaign(ctx context.Context, id string, up CampaignUpdate) (*model.Campaign, error) {
	sets := map[string]*string{
		"name":              up.Name,
		"copy_style":        up.CopyStyle,
		"media_type":        up.MediaType,
		"ad_copy":           up.AdCopy,
		"image_prompt":      up.ImagePrompt,
		"image_url":         up.ImageURL,
		"cta":               up.CTA,
		"hooks":             up.Hooks,
		"landing_page_copy": up.LandingPageCopy,
	}
	q := s.db.NewUpdate().
		Model((*model.Campaign)(nil)).
		Where("id = ?", id)
	changed := false
	for column, value := range sets {
		if value != nil {
			q = q.Set("? = ?", bun.Ident(column), *value)
			changed = true
		}
	}
	if !changed {
		return s.CampaignByID(ctx, id)
	}
	res, err := q.Exec(ctx)
	if err != nil {
		return nil, apperrors.Storef(err, "update campaign %s", id)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, apperrors.NotFoundf("campaign %s not found", id)
	}
	return s.CampaignByID(ctx, id)
}

func (s *BunStore) DeleteCampaign(ctx context.Context, id string) error {
	res, err := s.db.NewDelete().
		Model((*model.Campaign)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return apperrors.Storef(err, "delete campaign %s", id)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFoundf("campaign %s not found", id)
	}
	return nil
}
