package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/digitallabs/icp-engine/apperrors"
	"github.com/digitallabs/icp-engine/cache"
	"github.com/digitallabs/icp-engine/generation"
	"github.com/digitallabs/icp-engine/invalidation"
	"github.com/digitallabs/icp-engine/model"
	"github.com/digitallabs/icp-engine/pkg/testsupport"
)

type harness struct {
	store    *testsupport.FakeStore
	backend  *testsupport.FakeBackend
	provider *testsupport.FakeProvider
	svc      *Service
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	fs := testsupport.NewFakeStore()
	fb := testsupport.NewFakeBackend()
	fp := &testsupport.FakeProvider{}
	logger := slog.Default()
	cs := cache.NewStore(fb, logger, nil)
	accessor := cache.NewAccessor(cs, nil, logger)
	coordinator := invalidation.NewCoordinator(cs, logger)
	ttl := cache.DefaultConfig()

	generator := generation.New(generation.Params{
		Store:       fs,
		Provider:    fp,
		Invalidator: coordinator,
		Cache:       accessor,
		TTL:         ttl,
		Logger:      logger,
	})
	svc := New(Params{
		Store:       fs,
		Cache:       accessor,
		Invalidator: coordinator,
		Generator:   generator,
		TTL:         ttl,
		Logger:      logger,
	})
	return &harness{store: fs, backend: fb, provider: fp, svc: svc}
}

func TestListCompaniesReadThroughAndFreshnessAfterWrite(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	created, err := h.svc.CreateCompany(ctx, "u1", CreateCompanyInput{Name: "Digital Labs"})
	if err != nil {
		t.Fatal(err)
	}

	first, err := h.svc.ListCompanies(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != 1 || first[0].Name != "Digital Labs" {
		t.Fatalf("first list = %+v", first)
	}

	// Rename and immediately re-read: the write invalidated the list key, so
	// the next read must see the new name, not the cached copy.
	if _, err := h.svc.RenameCompany(ctx, "u1", created.ID, RenameCompanyInput{Name: "Renamed Labs"}); err != nil {
		t.Fatal(err)
	}
	second, err := h.svc.ListCompanies(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(second) != 1 || second[0].Name != "Renamed Labs" {
		t.Fatalf("read after write = %+v, want the renamed company", second)
	}
}

func TestCreateCompanyWithInitialFields(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	company, err := h.svc.CreateCompany(ctx, "u1", CreateCompanyInput{
		Name: "Digital Labs",
		Fields: []UpsertFieldInput{
			{FieldName: "industry", FieldValue: "SaaS"},
			{FieldName: "size", FieldValue: "25-50"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	loaded, err := h.svc.GetCompany(ctx, "u1", company.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Fields) != 2 {
		t.Fatalf("fields = %+v", loaded.Fields)
	}
}

func TestListCompaniesServesFromCache(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	if _, err := h.svc.CreateCompany(ctx, "u1", CreateCompanyInput{Name: "Digital Labs"}); err != nil {
		t.Fatal(err)
	}
	if _, err := h.svc.ListCompanies(ctx, "u1"); err != nil {
		t.Fatal(err)
	}

	// Mutate the store behind the service's back: a cached read must not see
	// the change until the TTL or an invalidation clears the key.
	for _, c := range h.store.Companies {
		c.Name = "changed directly"
	}
	cached, err := h.svc.ListCompanies(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if cached[0].Name != "Digital Labs" {
		t.Fatalf("expected the cached snapshot, got %q", cached[0].Name)
	}
}

func TestFieldUpsertInvalidatesAnalysis(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	company, err := h.svc.CreateCompany(ctx, "u1", CreateCompanyInput{Name: "Digital Labs"})
	if err != nil {
		t.Fatal(err)
	}

	h.provider.Response = string(testsupport.LoadFixture(t, "analysis_response.json"))
	if _, err := h.svc.AnalyzeCompany(ctx, "u1", company.ID); err != nil {
		t.Fatal(err)
	}
	if !h.backend.Has(cache.AnalysisKey(company.ID)) {
		t.Fatal("analysis should be cached")
	}

	if _, err := h.svc.UpsertField(ctx, "u1", company.ID, UpsertFieldInput{FieldName: "industry", FieldValue: "Fintech"}); err != nil {
		t.Fatal(err)
	}
	if h.backend.Has(cache.AnalysisKey(company.ID)) {
		t.Fatal("field write must clear the cached analysis")
	}
}

func TestOwnershipIsolation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	company, err := h.svc.CreateCompany(ctx, "owner", CreateCompanyInput{Name: "Mine"})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := h.svc.GetCompany(ctx, "intruder", company.ID); !apperrors.IsNotFound(err) {
		t.Errorf("foreign get: err = %v, want NotFound", err)
	}
	if _, err := h.svc.RenameCompany(ctx, "intruder", company.ID, RenameCompanyInput{Name: "x"}); !apperrors.IsNotFound(err) {
		t.Errorf("foreign rename: err = %v, want NotFound", err)
	}
	if err := h.svc.DeleteCompany(ctx, "intruder", company.ID); !apperrors.IsNotFound(err) {
		t.Errorf("foreign delete: err = %v, want NotFound", err)
	}
	if _, err := h.svc.ListProfiles(ctx, "intruder", company.ID); !apperrors.IsNotFound(err) {
		t.Errorf("foreign profile list: err = %v, want NotFound", err)
	}
}

func TestValidationRejectsBadInput(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	if _, err := h.svc.CreateCompany(ctx, "u1", CreateCompanyInput{}); apperrors.KindOf(err) != apperrors.KindValidation {
		t.Errorf("empty name: err = %v, want Validation", err)
	}
	if _, err := h.svc.GenerateProfile(ctx, "u1", GenerateProfileInput{Name: "x"}); apperrors.KindOf(err) != apperrors.KindValidation {
		t.Errorf("missing company id: err = %v, want Validation", err)
	}
	if len(h.store.Mutations) != 0 {
		t.Errorf("invalid input must not reach the store, got %v", h.store.Mutations)
	}
}

func TestAllOperationsSurviveTotalCacheOutage(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.backend.GetErr = errors.New("connection refused")
	h.backend.SetErr = errors.New("connection refused")
	h.backend.DelErr = errors.New("connection refused")

	company, err := h.svc.CreateCompany(ctx, "u1", CreateCompanyInput{Name: "Digital Labs"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := h.svc.ListCompanies(ctx, "u1"); err != nil {
		t.Fatalf("list with dead cache: %v", err)
	}
	if _, err := h.svc.UpsertField(ctx, "u1", company.ID, UpsertFieldInput{FieldName: "industry", FieldValue: "SaaS"}); err != nil {
		t.Fatalf("field write with dead cache: %v", err)
	}

	h.provider.Response = string(testsupport.LoadFixture(t, "icp_response.json"))
	profile, err := h.svc.GenerateProfile(ctx, "u1", GenerateProfileInput{CompanyID: company.ID, Name: "Growth Founder"})
	if err != nil {
		t.Fatalf("generation with dead cache: %v", err)
	}
	if _, err := h.svc.ListCampaigns(ctx, "u1", profile.ID); err != nil {
		t.Fatalf("campaign list with dead cache: %v", err)
	}
}

// cancelAwareBackend refuses work once the request context is cancelled,
// the way a real transport would.
type cancelAwareBackend struct {
	*testsupport.FakeBackend
}

func (b *cancelAwareBackend) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.FakeBackend.Delete(ctx, key)
}

func TestInvalidationRunsAfterCallerDisconnect(t *testing.T) {
	fs := testsupport.NewFakeStore()
	fb := &cancelAwareBackend{FakeBackend: testsupport.NewFakeBackend()}
	logger := slog.Default()
	cs := cache.NewStore(fb, logger, nil)
	coordinator := invalidation.NewCoordinator(cs, logger)
	svc := New(Params{
		Store:       fs,
		Cache:       cache.NewAccessor(cs, nil, logger),
		Invalidator: coordinator,
		TTL:         cache.DefaultConfig(),
		Logger:      logger,
	})
	ctx := context.Background()

	company, err := svc.CreateCompany(ctx, "u1", CreateCompanyInput{Name: "Digital Labs"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ListCompanies(ctx, "u1"); err != nil {
		t.Fatal(err)
	}
	if !fb.Has(cache.CompanyListKey("u1")) {
		t.Fatal("list key should be warm")
	}

	// The store commits this write regardless of the context; the scope
	// deletes must still run even though the caller is already gone.
	gone, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := svc.RenameCompany(gone, "u1", company.ID, RenameCompanyInput{Name: "Renamed Labs"}); err != nil {
		t.Fatal(err)
	}
	if fb.Has(cache.CompanyListKey("u1")) {
		t.Fatal("rename must clear the list key even after the caller disconnects")
	}
}

func TestCampaignScenario(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	company, err := h.svc.CreateCompany(ctx, "u1", CreateCompanyInput{Name: "Digital Labs"})
	if err != nil {
		t.Fatal(err)
	}
	h.provider.Response = string(testsupport.LoadFixture(t, "icp_response.json"))
	profile, err := h.svc.GenerateProfile(ctx, "u1", GenerateProfileInput{CompanyID: company.ID, Name: "Growth Founder"})
	if err != nil {
		t.Fatal(err)
	}

	h.provider.Response = string(testsupport.LoadFixture(t, "campaign_response.json"))
	campaign, err := h.svc.GenerateCampaign(ctx, "u1", GenerateCampaignInput{
		ICPID:     profile.ID,
		Name:      "Launch",
		CopyStyle: "professional",
		MediaType: "linkedin",
	})
	if err != nil {
		t.Fatal(err)
	}

	campaigns, err := h.svc.ListCampaigns(ctx, "u1", profile.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(campaigns) != 1 || campaigns[0].ID != campaign.ID {
		t.Fatalf("campaigns = %+v", campaigns)
	}

	newName := "Relaunch"
	updated, err := h.svc.UpdateCampaign(ctx, "u1", campaign.ID, UpdateCampaignInput{Name: &newName})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Name != "Relaunch" {
		t.Errorf("name = %q", updated.Name)
	}

	refreshed, err := h.svc.ListCampaigns(ctx, "u1", profile.ID)
	if err != nil {
		t.Fatal(err)
	}
	if refreshed[0].Name != "Relaunch" {
		t.Fatalf("read after write = %q, want the updated name", refreshed[0].Name)
	}

	if err := h.svc.DeleteCampaign(ctx, "u1", campaign.ID); err != nil {
		t.Fatal(err)
	}
	empty, err := h.svc.ListCampaigns(ctx, "u1", profile.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(empty) != 0 {
		t.Fatalf("campaigns after delete = %+v", empty)
	}
}

func TestCompanyStats(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	company, err := h.svc.CreateCompany(ctx, "u1", CreateCompanyInput{Name: "Digital Labs"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := h.svc.BulkUpsertFields(ctx, "u1", company.ID, BulkUpsertFieldsInput{Fields: []UpsertFieldInput{
		{FieldName: "industry", FieldValue: "SaaS"},
		{FieldName: "size", FieldValue: "25-50"},
	}}); err != nil {
		t.Fatal(err)
	}
	h.provider.Response = string(testsupport.LoadFixture(t, "icp_response.json"))
	if _, err := h.svc.GenerateProfile(ctx, "u1", GenerateProfileInput{CompanyID: company.ID, Name: "Growth Founder"}); err != nil {
		t.Fatal(err)
	}

	stats, err := h.svc.CompanyStats(ctx, "u1", company.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stats.DataFields != 2 || stats.ICPProfiles != 1 || stats.TotalCampaigns != 0 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestDeleteProfileCascadesAndInvalidates(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	company, err := h.svc.CreateCompany(ctx, "u1", CreateCompanyInput{Name: "Digital Labs"})
	if err != nil {
		t.Fatal(err)
	}
	profile := &model.ICPProfile{CompanyID: company.ID, Name: "Growth Founder", ConfidenceLevel: model.ConfidenceHigh}
	if err := h.store.CreateProfile(ctx, profile); err != nil {
		t.Fatal(err)
	}
	campaign := &model.Campaign{ICPID: profile.ID, Name: "Launch"}
	if err := h.store.CreateCampaign(ctx, campaign); err != nil {
		t.Fatal(err)
	}

	if err := h.svc.DeleteProfile(ctx, "u1", profile.ID); err != nil {
		t.Fatal(err)
	}
	if _, ok := h.store.Campaigns[campaign.ID]; ok {
		t.Error("campaigns under the profile should be gone")
	}
	if _, err := h.svc.GetProfile(ctx, "u1", profile.ID); !apperrors.IsNotFound(err) {
		t.Errorf("err = %v, want NotFound", err)
	}
}
