package service

import (
	"context"

	"github.com/digitallabs/icp-engine/apperrors"
	"github.com/digitallabs/icp-engine/cache"
	"github.com/digitallabs/icp-engine/generation"
	"github.com/digitallabs/icp-engine/invalidation"
	"github.com/digitallabs/icp-engine/model"
	"github.com/digitallabs/icp-engine/store"
)

// ListProfiles returns a company's ICP profiles with their campaigns,
// served through the profile list cache scope. Ownership is checked before
// the cache so a foreign company never warms a key.
func (s *Service) ListProfiles(ctx context.Context, ownerID string, companyID int64) ([]*model.ICPProfile, error) {
	if _, err := s.store.CompanyByID(ctx, companyID, ownerID); err != nil {
		return nil, err
	}
	return cache.GetOrFetch(ctx, s.cache, cache.ICPListKey(companyID), s.ttl.ListTTL,
		func(ctx context.Context) ([]*model.ICPProfile, error) {
			return s.store.ProfilesByCompany(ctx, companyID)
		})
}

// GetProfile reads one profile, rejecting profiles under a company the
// caller does not own.
func (s *Service) GetProfile(ctx context.Context, ownerID, id string) (*model.ICPProfile, error) {
	return s.ownedProfile(ctx, ownerID, id)
}

// GenerateProfile runs the AI pipeline and persists a new profile.
func (s *Service) GenerateProfile(ctx context.Context, ownerID string, in GenerateProfileInput) (*model.ICPProfile, error) {
	if err := checkInput(in); err != nil {
		return nil, err
	}
	return s.generator.GenerateICP(ctx, generation.GenerateICPRequest{
		OwnerID:     ownerID,
		CompanyID:   in.CompanyID,
		Name:        in.Name,
		Description: in.Description,
	})
}

func (s *Service) UpdateProfile(ctx context.Context, ownerID, id string, in UpdateProfileInput) (*model.ICPProfile, error) {
	if err := checkInput(in); err != nil {
		return nil, err
	}
	existing, err := s.ownedProfile(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	updated, err := s.store.UpdateProfile(ctx, id, store.ProfileUpdate{
		Name:        in.Name,
		Description: in.Description,
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, invalidation.Event{
		Kind:      invalidation.KindProfile,
		OwnerID:   ownerID,
		CompanyID: existing.CompanyID,
	})
	return updated, nil
}

func (s *Service) DeleteProfile(ctx context.Context, ownerID, id string) error {
	existing, err := s.ownedProfile(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteProfile(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, invalidation.Event{
		Kind:      invalidation.KindProfile,
		OwnerID:   ownerID,
		CompanyID: existing.CompanyID,
	})
	return nil
}

func (s *Service) ownedProfile(ctx context.Context, ownerID, id string) (*model.ICPProfile, error) {
	profile, err := s.store.ProfileByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if profile.Company == nil || profile.Company.OwnerID != ownerID {
		return nil, apperrors.NotFoundf("icp profile %s not found", id)
	}
	return profile, nil
}
