// Package generation coordinates an external AI call with a consistent
// persist-then-invalidate sequence. Each request moves through the phases
// Gathering → Invoking → Validating → Persisting → Invalidating → Done; a
// failure in any phase before Persisting leaves no durable side effect, and
// a failure after Persisting never takes the request down with it.
package generation

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/digitallabs/icp-engine/apperrors"
	"github.com/digitallabs/icp-engine/cache"
	"github.com/digitallabs/icp-engine/invalidation"
	"github.com/digitallabs/icp-engine/model"
	"github.com/digitallabs/icp-engine/store"
)

// Phase tags a step of the generation state machine, mostly for logs.
type Phase string

const (
	PhaseGathering    Phase = "gathering"
	PhaseInvoking     Phase = "invoking"
	PhaseValidating   Phase = "validating"
	PhasePersisting   Phase = "persisting"
	PhaseInvalidating Phase = "invalidating"
	PhaseDone         Phase = "done"
)

// DefaultProviderTimeout bounds a single provider call. Generation latency
// is dominated by the model, so this sits far above any store budget.
const DefaultProviderTimeout = 90 * time.Second

// Params wires an Orchestrator.
type Params struct {
	Store       store.Store
	Provider    Provider
	Invalidator invalidation.Invalidator
	// Cache and TTLs back AnalyzeCompany, the one read-through flow owned
	// by this package.
	Cache  *cache.Accessor
	TTL    cache.Config
	Logger *slog.Logger
	// ProviderTimeout overrides DefaultProviderTimeout when > 0.
	ProviderTimeout time.Duration
}

// Orchestrator runs generation requests. Stateless given its dependencies;
// safe for concurrent use.
type Orchestrator struct {
	store           store.Store
	provider        Provider
	invalidator     invalidation.Invalidator
	cache           *cache.Accessor
	ttl             cache.Config
	logger          *slog.Logger
	providerTimeout time.Duration
}

func New(p Params) *Orchestrator {
	if p.Logger == nil {
		p.Logger = slog.Default()
	}
	if p.ProviderTimeout <= 0 {
		p.ProviderTimeout = DefaultProviderTimeout
	}
	return &Orchestrator{
		store:           p.Store,
		provider:        p.Provider,
		invalidator:     p.Invalidator,
		cache:           p.Cache,
		ttl:             p.TTL,
		logger:          p.Logger,
		providerTimeout: p.ProviderTimeout,
	}
}

// GenerateICPRequest asks for a new ICP profile under a company.
type GenerateICPRequest struct {
	OwnerID     string
	CompanyID   int64
	Name        string
	Description string
}

// GenerateICP runs the full pipeline for a new ICP profile.
func (o *Orchestrator) GenerateICP(ctx context.Context, req GenerateICPRequest) (*model.ICPProfile, error) {
	company, err := o.store.CompanyByID(ctx, req.CompanyID, req.OwnerID)
	if err != nil {
		return nil, o.fail(PhaseGathering, err)
	}

	raw, err := o.invoke(ctx, icpPrompt(newPromptContext(company)))
	if err != nil {
		return nil, o.fail(PhaseInvoking, err)
	}

	doc, err := parseDocument[ICPDocument](raw)
	if err != nil {
		return nil, o.fail(PhaseValidating, apperrors.GenerationInvalid("icp profile generation produced unusable output", err))
	}

	profile := &model.ICPProfile{
		CompanyID:       company.ID,
		Name:            req.Name,
		Description:     req.Description,
		ConfidenceLevel: model.ConfidenceHigh,
		ProfileData:     doc.Map(),
	}
	// Once the mutation is submitted it runs to completion even if the
	// caller goes away; a half-acknowledged persist is worse than a late one.
	persistCtx := context.WithoutCancel(ctx)
	if err := o.store.CreateProfile(persistCtx, profile); err != nil {
		return nil, o.fail(PhasePersisting, err)
	}

	o.invalidator.Invalidate(persistCtx, invalidation.Event{
		Kind:      invalidation.KindProfile,
		OwnerID:   company.OwnerID,
		CompanyID: company.ID,
	})
	return profile, nil
}

// GenerateCampaignRequest asks for a new campaign under an ICP profile.
type GenerateCampaignRequest struct {
	OwnerID   string
	ICPID     string
	Name      string
	CopyStyle string
	MediaType string
	CTA       string
	Hooks     string
}

// GenerateCampaign runs the full pipeline for a new campaign.
func (o *Orchestrator) GenerateCampaign(ctx context.Context, req GenerateCampaignRequest) (*model.Campaign, error) {
	profile, err := o.ownedProfile(ctx, req.ICPID, req.OwnerID)
	if err != nil {
		return nil, o.fail(PhaseGathering, err)
	}

	raw, err := o.invoke(ctx, campaignPrompt(profile.ProfileData, req.CopyStyle, req.MediaType, req.CTA, req.Hooks))
	if err != nil {
		return nil, o.fail(PhaseInvoking, err)
	}

	doc, err := parseDocument[CampaignDocument](raw)
	if err != nil {
		return nil, o.fail(PhaseValidating, apperrors.GenerationInvalid("campaign generation produced unusable output", err))
	}

	campaign := &model.Campaign{
		ICPID:           profile.ID,
		Name:            req.Name,
		CopyStyle:       req.CopyStyle,
		MediaType:       req.MediaType,
		CTA:             req.CTA,
		Hooks:           req.Hooks,
		AdCopy:          orDefault(doc.AdCopy.Headline, "Compelling ad copy"),
		ImagePrompt:     orDefault(doc.ImagePrompt, "Professional marketing imagery"),
		LandingPageCopy: orDefault(doc.LandingPageCopy.HeroSection.Headline, "Landing page copy"),
	}
	persistCtx := context.WithoutCancel(ctx)
	if err := o.store.CreateCampaign(persistCtx, campaign); err != nil {
		return nil, o.fail(PhasePersisting, err)
	}

	o.invalidator.Invalidate(persistCtx, invalidation.Event{
		Kind:  invalidation.KindCampaign,
		ICPID: profile.ID,
	})
	return campaign, nil
}

// RegenerateCampaignRequest re-runs generation over an existing campaign,
// optionally overriding its knobs.
type RegenerateCampaignRequest struct {
	OwnerID    string
	CampaignID string
	CopyStyle  *string
	MediaType  *string
	CTA        *string
	Hooks      *string
}

// RegenerateCampaign replaces a campaign's generated content in place.
func (o *Orchestrator) RegenerateCampaign(ctx context.Context, req RegenerateCampaignRequest) (*model.Campaign, error) {
	existing, err := o.store.CampaignByID(ctx, req.CampaignID)
	if err != nil {
		return nil, o.fail(PhaseGathering, err)
	}
	if existing.Profile == nil || existing.Profile.Company == nil || existing.Profile.Company.OwnerID != req.OwnerID {
		return nil, o.fail(PhaseGathering, apperrors.NotFoundf("campaign %s not found", req.CampaignID))
	}

	copyStyle := orOverride(existing.CopyStyle, req.CopyStyle)
	mediaType := orOverride(existing.MediaType, req.MediaType)
	cta := orOverride(existing.CTA, req.CTA)
	hooks := orOverride(existing.Hooks, req.Hooks)

	raw, err := o.invoke(ctx, campaignPrompt(existing.Profile.ProfileData, copyStyle, mediaType, cta, hooks))
	if err != nil {
		return nil, o.fail(PhaseInvoking, err)
	}

	doc, err := parseDocument[CampaignDocument](raw)
	if err != nil {
		return nil, o.fail(PhaseValidating, apperrors.GenerationInvalid("campaign regeneration produced unusable output", err))
	}

	adCopy := orDefault(doc.AdCopy.Headline, existing.AdCopy)
	imagePrompt := orDefault(doc.ImagePrompt, existing.ImagePrompt)
	landing := orDefault(doc.LandingPageCopy.HeroSection.Headline, existing.LandingPageCopy)

	persistCtx := context.WithoutCancel(ctx)
	updated, err := o.store.UpdateCampaign(persistCtx, existing.ID, store.CampaignUpdate{
		CopyStyle:       &copyStyle,
		MediaType:       &mediaType,
		CTA:             &cta,
		Hooks:           &hooks,
		AdCopy:          &adCopy,
		ImagePrompt:     &imagePrompt,
		LandingPageCopy: &landing,
	})
	if err != nil {
		return nil, o.fail(PhasePersisting, err)
	}

	o.invalidator.Invalidate(persistCtx, invalidation.Event{
		Kind:  invalidation.KindCampaign,
		ICPID: existing.ICPID,
	})
	return updated, nil
}

// AnalyzeCompany produces the AI company analysis through the analysis cache
// scope. The document is derived data only: it is never persisted, so a
// cache miss always pays one provider call. Ownership is resolved before the
// cache is consulted; a warm `analysis:` entry must not serve another owner.
func (o *Orchestrator) AnalyzeCompany(ctx context.Context, ownerID string, companyID int64) (*AnalysisDocument, error) {
	company, err := o.store.CompanyByID(ctx, companyID, ownerID)
	if err != nil {
		return nil, o.fail(PhaseGathering, err)
	}

	return cache.GetOrFetch(ctx, o.cache, cache.AnalysisKey(companyID), o.ttl.AnalysisTTL,
		func(ctx context.Context) (*AnalysisDocument, error) {
			raw, err := o.invoke(ctx, analysisPrompt(newPromptContext(company), company.Fields))
			if err != nil {
				return nil, o.fail(PhaseInvoking, err)
			}
			doc, err := parseDocument[AnalysisDocument](raw)
			if err != nil {
				return nil, o.fail(PhaseValidating, apperrors.GenerationInvalid("company analysis produced unusable output", err))
			}
			return doc, nil
		})
}

// invoke calls the provider under its own deadline. The provider budget is
// independent of any store budget on the same request.
func (o *Orchestrator) invoke(ctx context.Context, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, o.providerTimeout)
	defer cancel()

	raw, err := o.provider.Generate(callCtx, prompt)
	switch {
	case err == nil:
		return raw, nil
	case errors.Is(err, context.DeadlineExceeded):
		return "", apperrors.GenerationTimeout(err)
	case errors.Is(err, context.Canceled):
		// Caller-initiated cancellation propagates untranslated.
		return "", err
	default:
		return "", apperrors.GenerationInvalid("ai provider call failed", err)
	}
}

func (o *Orchestrator) ownedProfile(ctx context.Context, icpID, ownerID string) (*model.ICPProfile, error) {
	profile, err := o.store.ProfileByID(ctx, icpID)
	if err != nil {
		return nil, err
	}
	if profile.Company == nil || profile.Company.OwnerID != ownerID {
		return nil, apperrors.NotFoundf("icp profile %s not found", icpID)
	}
	return profile, nil
}

func (o *Orchestrator) fail(phase Phase, err error) error {
	o.logger.Warn("generation request failed", "phase", phase, "error", err)
	return err
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func orOverride(current string, override *string) string {
	if override != nil && *override != "" {
		return *override
	}
	return current
}
