package service

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/digitallabs/icp-engine/apperrors"
)

// CreateCompanyInput names a new company for an owner, optionally with an
// initial field sheet created in the same transaction.
type CreateCompanyInput struct {
	Name   string             `json:"name"`
	Fields []UpsertFieldInput `json:"fields,omitempty"`
}

func (in CreateCompanyInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&in.Fields, validation.Length(0, 100)),
	)
}

// RenameCompanyInput renames an existing company.
type RenameCompanyInput struct {
	Name string `json:"name"`
}

func (in RenameCompanyInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 255)),
	)
}

// UpsertFieldInput sets one company data field.
type UpsertFieldInput struct {
	FieldName  string `json:"fieldName"`
	FieldValue string `json:"fieldValue"`
}

func (in UpsertFieldInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.FieldName, validation.Required, validation.Length(1, 128)),
		validation.Field(&in.FieldValue, validation.Required),
	)
}

// BulkUpsertFieldsInput sets many company data fields at once.
type BulkUpsertFieldsInput struct {
	Fields []UpsertFieldInput `json:"fields"`
}

func (in BulkUpsertFieldsInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Fields, validation.Required, validation.Length(1, 100)),
	)
}

// GenerateProfileInput starts ICP generation for a company.
type GenerateProfileInput struct {
	CompanyID   int64  `json:"companyId"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (in GenerateProfileInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.CompanyID, validation.Required),
		validation.Field(&in.Name, validation.Required, validation.Length(1, 255)),
	)
}

// UpdateProfileInput patches profile metadata; nil fields stay untouched.
type UpdateProfileInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (in UpdateProfileInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.NilOrNotEmpty, validation.Length(1, 255)),
	)
}

// GenerateCampaignInput starts campaign generation under a profile.
type GenerateCampaignInput struct {
	ICPID     string `json:"icpId"`
	Name      string `json:"name"`
	CopyStyle string `json:"copyStyle"`
	MediaType string `json:"mediaType"`
	CTA       string `json:"cta"`
	Hooks     string `json:"hooks"`
}

func (in GenerateCampaignInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.ICPID, validation.Required),
		validation.Field(&in.Name, validation.Required, validation.Length(1, 255)),
	)
}

// UpdateCampaignInput patches campaign fields; nil fields stay untouched.
type UpdateCampaignInput struct {
	Name            *string `json:"name"`
	CopyStyle       *string `json:"copyStyle"`
	MediaType       *string `json:"mediaType"`
	AdCopy          *string `json:"adCopy"`
	ImagePrompt     *string `json:"imagePrompt"`
	ImageURL        *string `json:"imageUrl"`
	CTA             *string `json:"cta"`
	Hooks           *string `json:"hooks"`
	LandingPageCopy *string `json:"landingPageCopy"`
}

func (in UpdateCampaignInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.NilOrNotEmpty, validation.Length(1, 255)),
	)
}

// RegenerateCampaignInput re-runs generation on an existing campaign.
type RegenerateCampaignInput struct {
	CopyStyle *string `json:"copyStyle"`
	MediaType *string `json:"mediaType"`
	CTA       *string `json:"cta"`
	Hooks     *string `json:"hooks"`
}

func (in RegenerateCampaignInput) Validate() error { return nil }

// checkInput funnels every input validation through the error taxonomy.
func checkInput(in interface{ Validate() error }) error {
	if err := in.Validate(); err != nil {
		return apperrors.Validation(err)
	}
	return nil
}
