// Package store is the transactional store client for the entity hierarchy.
// It owns durability: list reads eager-load the child collections the cache
// layer embeds, deletes cascade inside one transaction, and every failure is
// mapped onto the apperrors taxonomy (missing rows → NotFound, everything
// else → StoreError).
package store

import (
	"context"
	"time"

	"github.com/digitallabs/icp-engine/model"
)

// FieldValue is one name/value pair for a bulk field upsert.
type FieldValue struct {
	Name  string
	Value string
}

// ProfileUpdate carries the optional fields of a profile update; nil means
// leave unchanged.
type ProfileUpdate struct {
	Name            *string
	Description     *string
	ProfileData     map[string]any
	ConfidenceLevel *model.ConfidenceLevel
}

// CampaignUpdate carries the optional fields of a campaign update.
type CampaignUpdate struct {
	Name            *string
	CopyStyle       *string
	MediaType       *string
	AdCopy          *string
	ImagePrompt     *string
	ImageURL        *string
	CTA             *string
	Hooks           *string
	LandingPageCopy *string
}

// CompanyStats aggregates counts across a company's subtree.
type CompanyStats struct {
	CompanyID      int64     `json:"companyId"`
	DataFields     int       `json:"dataFields"`
	ICPProfiles    int       `json:"icpProfiles"`
	TotalCampaigns int       `json:"totalCampaigns"`
	LastUpdated    time.Time `json:"lastUpdated"`
}

// Store is the CRUD contract consumed by the service and generation layers.
type Store interface {
	CompaniesByOwner(ctx context.Context, ownerID string) ([]*model.Company, error)
	CompanyByID(ctx context.Context, id int64, ownerID string) (*model.Company, error)
	CreateCompany(ctx context.Context, company *model.Company) error
	UpdateCompanyName(ctx context.Context, id int64, ownerID, name string) (*model.Company, error)
	DeleteCompany(ctx context.Context, id int64, ownerID string) error
	UpsertCompanyField(ctx context.Context, companyID int64, fieldName, fieldValue string) (*model.CompanyField, error)
	BulkUpsertCompanyFields(ctx context.Context, companyID int64, fields []FieldValue) ([]*model.CompanyField, error)
	Stats(ctx context.Context, id int64, ownerID string) (*CompanyStats, error)

	ProfilesByCompany(ctx context.Context, companyID int64) ([]*model.ICPProfile, error)
	ProfileByID(ctx context.Context, id string) (*model.ICPProfile, error)
	CreateProfile(ctx context.Context, profile *model.ICPProfile) error
	UpdateProfile(ctx context.Context, id string, up ProfileUpdate) (*model.ICPProfile, error)
	DeleteProfile(ctx context.Context, id string) error

	CampaignsByICP(ctx context.Context, icpID string) ([]*model.Campaign, error)
	CampaignByID(ctx context.Context, id string) (*model.Campaign, error)
	CreateCampaign(ctx context.Context, campaign *model.Campaign) error
	UpdateCampaign(ctx context.Context, id string, up CampaignUpdate) (*model.Campaign, error)
	DeleteCampaign(ctx context.Context, id string) error
}
