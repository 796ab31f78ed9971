package service

import (
	"context"

	"github.com/digitallabs/icp-engine/cache"
	"github.com/digitallabs/icp-engine/generation"
	"github.com/digitallabs/icp-engine/invalidation"
	"github.com/digitallabs/icp-engine/model"
	"github.com/digitallabs/icp-engine/store"
)

// ListCompanies returns the owner's companies with their fields and profile
// subtrees, served through the company list cache scope.
func (s *Service) ListCompanies(ctx context.Context, ownerID string) ([]*model.Company, error) {
	return cache.GetOrFetch(ctx, s.cache, cache.CompanyListKey(ownerID), s.ttl.ListTTL,
		func(ctx context.Context) ([]*model.Company, error) {
			return s.store.CompaniesByOwner(ctx, ownerID)
		})
}

// GetCompany reads one company directly from the store. Point reads skip
// the cache; only list scopes are cached.
func (s *Service) GetCompany(ctx context.Context, ownerID string, id int64) (*model.Company, error) {
	return s.store.CompanyByID(ctx, id, ownerID)
}

func (s *Service) CreateCompany(ctx context.Context, ownerID string, in CreateCompanyInput) (*model.Company, error) {
	if err := checkInput(in); err != nil {
		return nil, err
	}
	company := &model.Company{OwnerID: ownerID, Name: in.Name}
	for _, f := range in.Fields {
		company.Fields = append(company.Fields, &model.CompanyField{
			FieldName:  f.FieldName,
			FieldValue: f.FieldValue,
		})
	}
	if err := s.store.CreateCompany(ctx, company); err != nil {
		return nil, err
	}
	s.invalidate(ctx, invalidation.Event{
		Kind:      invalidation.KindCompany,
		OwnerID:   ownerID,
		CompanyID: company.ID,
	})
	return company, nil
}

func (s *Service) RenameCompany(ctx context.Context, ownerID string, id int64, in RenameCompanyInput) (*model.Company, error) {
	if err := checkInput(in); err != nil {
		return nil, err
	}
	company, err := s.store.UpdateCompanyName(ctx, id, ownerID, in.Name)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, invalidation.Event{
		Kind:      invalidation.KindCompany,
		OwnerID:   ownerID,
		CompanyID: id,
	})
	return company, nil
}

func (s *Service) DeleteCompany(ctx context.Context, ownerID string, id int64) error {
	if err := s.store.DeleteCompany(ctx, id, ownerID); err != nil {
		return err
	}
	s.invalidate(ctx, invalidation.Event{
		Kind:      invalidation.KindCompany,
		OwnerID:   ownerID,
		CompanyID: id,
	})
	return nil
}

// UpsertField sets one data field on a company the caller owns. Field writes
// are company-level writes: they invalidate the company list, the profile
// list, and the cached analysis.
func (s *Service) UpsertField(ctx context.Context, ownerID string, companyID int64, in UpsertFieldInput) (*model.CompanyField, error) {
	if err := checkInput(in); err != nil {
		return nil, err
	}
	if _, err := s.store.CompanyByID(ctx, companyID, ownerID); err != nil {
		return nil, err
	}
	field, err := s.store.UpsertCompanyField(ctx, companyID, in.FieldName, in.FieldValue)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, invalidation.Event{
		Kind:      invalidation.KindCompany,
		OwnerID:   ownerID,
		CompanyID: companyID,
	})
	return field, nil
}

// BulkUpsertFields sets many fields in one transaction and invalidates the
// company scope once, not per field.
func (s *Service) BulkUpsertFields(ctx context.Context, ownerID string, companyID int64, in BulkUpsertFieldsInput) ([]*model.CompanyField, error) {
	if err := checkInput(in); err != nil {
		return nil, err
	}
	if _, err := s.store.CompanyByID(ctx, companyID, ownerID); err != nil {
		return nil, err
	}
	values := make([]store.FieldValue, len(in.Fields))
	for i, f := range in.Fields {
		values[i] = store.FieldValue{Name: f.FieldName, Value: f.FieldValue}
	}
	fields, err := s.store.BulkUpsertCompanyFields(ctx, companyID, values)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, invalidation.Event{
		Kind:      invalidation.KindCompany,
		OwnerID:   ownerID,
		CompanyID: companyID,
	})
	return fields, nil
}

// CompanyStats aggregates subtree counts straight from the store.
func (s *Service) CompanyStats(ctx context.Context, ownerID string, companyID int64) (*store.CompanyStats, error) {
	return s.store.Stats(ctx, companyID, ownerID)
}

// AnalyzeCompany serves the AI company analysis, cached under the analysis
// scope until the next company-level write or TTL expiry.
func (s *Service) AnalyzeCompany(ctx context.Context, ownerID string, companyID int64) (*generation.AnalysisDocument, error) {
	return s.generator.AnalyzeCompany(ctx, ownerID, companyID)
}
