package model

import (
	"time"

	"github.com/uptrace/bun"
)

// ConfidenceLevel grades how much trust an ICP profile's generated content
// deserves. Generated profiles start at high; manual edits may downgrade.
type ConfidenceLevel string

const (
	ConfidenceLow    ConfidenceLevel = "low"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceHigh   ConfidenceLevel = "high"
)

// Company is the root of the entity hierarchy. List queries eager-load the
// full field set and the ICPProfile→Campaign subtree, which is why any write
// below a company also touches the owner's company-list cache entry.
type Company struct {
	bun.BaseModel `bun:"table:companies,alias:c"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	OwnerID   string    `bun:"owner_id,notnull" json:"ownerId"`
	Name      string    `bun:"name,notnull" json:"name"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"createdAt"`
	UpdatedAt time.Time `bun:"updated_at,notnull" json:"updatedAt"`

	Fields   []*CompanyField `bun:"rel:has-many,join:id=company_id" json:"companyData,omitempty"`
	Profiles []*ICPProfile   `bun:"rel:has-many,join:id=company_id" json:"icpProfiles,omitempty"`
}

// CompanyField is a free-form key/value attribute on a company, unique per
// (companyID, fieldName). Version increments on every update; it detects
// concurrent-write races but is never used for conflict rejection.
type CompanyField struct {
	bun.BaseModel `bun:"table:company_fields,alias:cf"`

	ID         int64  `bun:"id,pk,autoincrement" json:"id"`
	CompanyID  int64  `bun:"company_id,notnull" json:"companyId"`
	FieldName  string `bun:"field_name,notnull" json:"fieldName"`
	FieldValue string `bun:"field_value,notnull" json:"fieldValue"`
	Version    int    `bun:"version,notnull" json:"version"`
}

// ICPProfile is an AI-generated ideal-customer profile. ProfileData is a
// nested document whose schema is validated at generation time, not by the
// store.
type ICPProfile struct {
	bun.BaseModel `bun:"table:icp_profiles,alias:p"`

	ID              string          `bun:"id,pk" json:"id"`
	CompanyID       int64           `bun:"company_id,notnull" json:"companyId"`
	Name            string          `bun:"name,notnull" json:"name"`
	Description     string          `bun:"description" json:"description,omitempty"`
	ConfidenceLevel ConfidenceLevel `bun:"confidence_level,notnull" json:"confidenceLevel"`
	ProfileData     map[string]any  `bun:"profile_data,type:jsonb" json:"profileData"`
	CreatedAt       time.Time       `bun:"created_at,notnull" json:"createdAt"`
	UpdatedAt       time.Time       `bun:"updated_at,notnull" json:"updatedAt"`

	Campaigns []*Campaign `bun:"rel:has-many,join:id=icp_id" json:"campaigns,omitempty"`
	Company   *Company    `bun:"rel:belongs-to,join:company_id=id" json:"company,omitempty"`
}

// Campaign is a generated marketing campaign under a single ICP profile.
type Campaign struct {
	bun.BaseModel `bun:"table:campaigns,alias:cam"`

	ID              string    `bun:"id,pk" json:"id"`
	ICPID           string    `bun:"icp_id,notnull" json:"icpId"`
	Name            string    `bun:"name,notnull" json:"name"`
	CopyStyle       string    `bun:"copy_style,notnull" json:"copyStyle"`
	MediaType       string    `bun:"media_type,notnull" json:"mediaType"`
	AdCopy          string    `bun:"ad_copy,notnull" json:"adCopy"`
	ImagePrompt     string    `bun:"image_prompt" json:"imagePrompt,omitempty"`
	ImageURL        string    `bun:"image_url" json:"imageUrl,omitempty"`
	CTA             string    `bun:"cta,notnull" json:"cta"`
	Hooks           string    `bun:"hooks,notnull" json:"hooks"`
	LandingPageCopy string    `bun:"landing_page_copy" json:"landingPageCopy,omitempty"`
	CreatedAt       time.Time `bun:"created_at,notnull" json:"createdAt"`

	Profile *ICPProfile `bun:"rel:belongs-to,join:icp_id=id" json:"icpProfile,omitempty"`
}

// FieldMap flattens a company's fields into name→value form, the shape the
// generation prompts consume.
func (c *Company) FieldMap() map[string]string {
	m := make(map[string]string, len(c.Fields))
	for _, f := range c.Fields {
		m[f.FieldName] = f.FieldValue
	}
	return m
}
