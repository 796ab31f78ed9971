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

// ListCampaigns returns a profile's campaigns through the campaign list
// cache scope.
func (s *Service) ListCampaigns(ctx context.Context, ownerID, icpID string) ([]*model.Campaign, error) {
	if _, err := s.ownedProfile(ctx, ownerID, icpID); err != nil {
		return nil, err
	}
	return cache.GetOrFetch(ctx, s.cache, cache.CampaignListKey(icpID), s.ttl.ListTTL,
		func(ctx context.Context) ([]*model.Campaign, error) {
			return s.store.CampaignsByICP(ctx, icpID)
		})
}

// GetCampaign reads one campaign, rejecting campaigns outside the caller's
// company tree.
func (s *Service) GetCampaign(ctx context.Context, ownerID, id string) (*model.Campaign, error) {
	return s.ownedCampaign(ctx, ownerID, id)
}

// GenerateCampaign runs the AI pipeline and persists a new campaign.
func (s *Service) GenerateCampaign(ctx context.Context, ownerID string, in GenerateCampaignInput) (*model.Campaign, error) {
	if err := checkInput(in); err != nil {
		return nil, err
	}
	return s.generator.GenerateCampaign(ctx, generation.GenerateCampaignRequest{
		OwnerID:   ownerID,
		ICPID:     in.ICPID,
		Name:      in.Name,
		CopyStyle: in.CopyStyle,
		MediaType: in.MediaType,
		CTA:       in.CTA,
		Hooks:     in.Hooks,
	})
}

// RegenerateCampaign re-runs generation over an existing campaign.
func (s *Service) RegenerateCampaign(ctx context.Context, ownerID, id string, in RegenerateCampaignInput) (*model.Campaign, error) {
	if err := checkInput(in); err != nil {
		return nil, err
	}
	return s.generator.RegenerateCampaign(ctx, generation.RegenerateCampaignRequest{
		OwnerID:    ownerID,
		CampaignID: id,
		CopyStyle:  in.CopyStyle,
		MediaType:  in.MediaType,
		CTA:        in.CTA,
		Hooks:      in.Hooks,
	})
}

func (s *Service) UpdateCampaign(ctx context.Context, ownerID, id string, in UpdateCampaignInput) (*model.Campaign, error) {
	if err := checkInput(in); err != nil {
		return nil, err
	}
	existing, err := s.ownedCampaign(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	updated, err := s.store.UpdateCampaign(ctx, id, store.CampaignUpdate{
		Name:            in.Name,
		CopyStyle:       in.CopyStyle,
		MediaType:       in.MediaType,
		AdCopy:          in.AdCopy,
		ImagePrompt:     in.ImagePrompt,
		ImageURL:        in.ImageURL,
		CTA:             in.CTA,
		Hooks:           in.Hooks,
		LandingPageCopy: in.LandingPageCopy,
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, invalidation.Event{
		Kind:  invalidation.KindCampaign,
		ICPID: existing.ICPID,
	})
	return updated, nil
}

func (s *Service) DeleteCampaign(ctx context.Context, ownerID, id string) error {
	existing, err := s.ownedCampaign(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteCampaign(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, invalidation.Event{
		Kind:  invalidation.KindCampaign,
		ICPID: existing.ICPID,
	})
	return nil
}

func (s *Service) ownedCampaign(ctx context.Context, ownerID, id string) (*model.Campaign, error) {
	campaign, err := s.store.CampaignByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if campaign.Profile == nil || campaign.Profile.Company == nil || campaign.Profile.Company.OwnerID != ownerID {
		return nil, apperrors.NotFoundf("campaign %s not found", id)
	}
	return campaign, nil
}
