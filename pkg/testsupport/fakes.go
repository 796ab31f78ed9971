package testsupport

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/digitallabs/icp-engine/apperrors"
	"github.com/digitallabs/icp-engine/cache"
	"github.com/digitallabs/icp-engine/model"
	"github.com/digitallabs/icp-engine/store"
)

// FakeBackend is an in-memory cache.Backend that records every call and can
// fail on demand.
type FakeBackend struct {
	mu      sync.Mutex
	data    map[string][]byte
	GetErr  error
	SetErr  error
	DelErr  error
	Gets    []string
	Sets    []string
	Deletes []string
}

func NewFakeBackend() *FakeBackend {
	return &FakeBackend{data: map[string][]byte{}}
}

func (f *FakeBackend) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Gets = append(f.Gets, key)
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	v, ok := f.data[key]
	if !ok {
		return nil, cache.ErrNotFound
	}
	return v, nil
}

func (f *FakeBackend) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Sets = append(f.Sets, key)
	if f.SetErr != nil {
		return f.SetErr
	}
	f.data[key] = value
	return nil
}

func (f *FakeBackend) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Deletes = append(f.Deletes, key)
	if f.DelErr != nil {
		return f.DelErr
	}
	delete(f.data, key)
	return nil
}

// Has reports whether a key currently holds a value.
func (f *FakeBackend) Has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.data[key]
	return ok
}

// FakeProvider is a canned generation.Provider recording every prompt.
type FakeProvider struct {
	mu       sync.Mutex
	Response string
	Err      error
	Prompts  []string
}

func (f *FakeProvider) Generate(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.Prompts = append(f.Prompts, prompt)
	f.mu.Unlock()
	if f.Err != nil {
		return "", f.Err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return f.Response, nil
}

// FakeStore is an in-memory store.Store. It keeps the same relation loading
// behavior as the real store: profiles come back with their company and
// campaigns, campaigns with their profile chain. Err, when set, is returned
// by every method.
type FakeStore struct {
	mu        sync.Mutex
	Err       error
	nextID    int64
	Companies map[int64]*model.Company
	Fields    map[int64][]*model.CompanyField
	Profiles  map[string]*model.ICPProfile
	Campaigns map[string]*model.Campaign

	// Mutations lists every write in order, as "op:id" strings.
	Mutations []string
}

func NewFakeStore() *FakeStore {
	return &FakeStore{
		Companies: map[int64]*model.Company{},
		Fields:    map[int64][]*model.CompanyField{},
		Profiles:  map[string]*model.ICPProfile{},
		Campaigns: map[string]*model.Campaign{},
	}
}

var _ store.Store = (*FakeStore)(nil)

func (f *FakeStore) CompaniesByOwner(_ context.Context, ownerID string) ([]*model.Company, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	var out []*model.Company
	for _, c := range f.Companies {
		if c.OwnerID == ownerID {
			out = append(out, f.hydrateCompany(c))
		}
	}
	return out, nil
}

func (f *FakeStore) CompanyByID(_ context.Context, id int64, ownerID string) (*model.Company, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	c, ok := f.Companies[id]
	if !ok || c.OwnerID != ownerID {
		return nil, apperrors.NotFoundf("company %d not found", id)
	}
	return f.hydrateCompany(c), nil
}

func (f *FakeStore) CreateCompany(_ context.Context, company *model.Company) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.nextID++
	company.ID = f.nextID
	company.CreatedAt = time.Now().UTC()
	company.UpdatedAt = company.CreatedAt
	f.Companies[company.ID] = company
	for _, fld := range company.Fields {
		f.nextID++
		fld.ID = f.nextID
		fld.CompanyID = company.ID
		if fld.Version == 0 {
			fld.Version = 1
		}
		f.Fields[company.ID] = append(f.Fields[company.ID], fld)
	}
	f.record("create-company")
	return nil
}

func (f *FakeStore) UpdateCompanyName(_ context.Context, id int64, ownerID, name string) (*model.Company, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	c, ok := f.Companies[id]
	if !ok || c.OwnerID != ownerID {
		return nil, apperrors.NotFoundf("company %d not found", id)
	}
	c.Name = name
	c.UpdatedAt = time.Now().UTC()
	f.record("update-company")
	return f.hydrateCompany(c), nil
}

func (f *FakeStore) DeleteCompany(_ context.Context, id int64, ownerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	c, ok := f.Companies[id]
	if !ok || c.OwnerID != ownerID {
		return apperrors.NotFoundf("company %d not found", id)
	}
	for pid, p := range f.Profiles {
		if p.CompanyID == id {
			for cid, cam := range f.Campaigns {
				if cam.ICPID == pid {
					delete(f.Campaigns, cid)
				}
			}
			delete(f.Profiles, pid)
		}
	}
	delete(f.Fields, id)
	delete(f.Companies, id)
	f.record("delete-company")
	return nil
}

func (f *FakeStore) UpsertCompanyField(_ context.Context, companyID int64, fieldName, fieldValue string) (*model.CompanyField, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	for _, fld := range f.Fields[companyID] {
		if fld.FieldName == fieldName {
			fld.FieldValue = fieldValue
			fld.Version++
			f.record("upsert-field")
			return fld, nil
		}
	}
	f.nextID++
	fld := &model.CompanyField{
		ID:         f.nextID,
		CompanyID:  companyID,
		FieldName:  fieldName,
		FieldValue: fieldValue,
		Version:    1,
	}
	f.Fields[companyID] = append(f.Fields[companyID], fld)
	f.record("upsert-field")
	return fld, nil
}

func (f *FakeStore) BulkUpsertCompanyFields(ctx context.Context, companyID int64, fields []store.FieldValue) ([]*model.CompanyField, error) {
	out := make([]*model.CompanyField, 0, len(fields))
	for _, fv := range fields {
		fld, err := f.UpsertCompanyField(ctx, companyID, fv.Name, fv.Value)
		if err != nil {
			return nil, err
		}
		out = append(out, fld)
	}
	return out, nil
}

func (f *FakeStore) Stats(_ context.Context, id int64, ownerID string) (*store.CompanyStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	c, ok := f.Companies[id]
	if !ok || c.OwnerID != ownerID {
		return nil, apperrors.NotFoundf("company %d not found", id)
	}
	stats := &store.CompanyStats{CompanyID: id, DataFields: len(f.Fields[id]), LastUpdated: c.UpdatedAt}
	for pid, p := range f.Profiles {
		if p.CompanyID != id {
			continue
		}
		stats.ICPProfiles++
		for _, cam := range f.Campaigns {
			if cam.ICPID == pid {
				stats.TotalCampaigns++
			}
		}
	}
	return stats, nil
}

func (f *FakeStore) ProfilesByCompany(_ context.Context, companyID int64) ([]*model.ICPProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	var out []*model.ICPProfile
	for _, p := range f.Profiles {
		if p.CompanyID == companyID {
			out = append(out, f.hydrateProfile(p))
		}
	}
	return out, nil
}

func (f *FakeStore) ProfileByID(_ context.Context, id string) (*model.ICPProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	p, ok := f.Profiles[id]
	if !ok {
		return nil, apperrors.NotFoundf("icp profile %s not found", id)
	}
	return f.hydrateProfile(p), nil
}

func (f *FakeStore) CreateProfile(_ context.Context, profile *model.ICPProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	profile.CreatedAt = time.Now().UTC()
	f.Profiles[profile.ID] = profile
	f.record("create-profile")
	return nil
}

func (f *FakeStore) UpdateProfile(_ context.Context, id string, up store.ProfileUpdate) (*model.ICPProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	p, ok := f.Profiles[id]
	if !ok {
		return nil, apperrors.NotFoundf("icp profile %s not found", id)
	}
	if up.Name != nil {
		p.Name = *up.Name
	}
	if up.Description != nil {
		p.Description = *up.Description
	}
	if up.ProfileData != nil {
		p.ProfileData = up.ProfileData
	}
	if up.ConfidenceLevel != nil {
		p.ConfidenceLevel = *up.ConfidenceLevel
	}
	f.record("update-profile")
	return f.hydrateProfile(p), nil
}

func (f *FakeStore) DeleteProfile(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	if _, ok := f.Profiles[id]; !ok {
		return apperrors.NotFoundf("icp profile %s not found", id)
	}
	for cid, cam := range f.Campaigns {
		if cam.ICPID == id {
			delete(f.Campaigns, cid)
		}
	}
	delete(f.Profiles, id)
	f.record("delete-profile")
	return nil
}

func (f *FakeStore) CampaignsByICP(_ context.Context, icpID string) ([]*model.Campaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	var out []*model.Campaign
	for _, c := range f.Campaigns {
		if c.ICPID == icpID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *FakeStore) CampaignByID(_ context.Context, id string) (*model.Campaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	c, ok := f.Campaigns[id]
	if !ok {
		return nil, apperrors.NotFoundf("campaign %s not found", id)
	}
	out := *c
	if p, ok := f.Profiles[c.ICPID]; ok {
		out.Profile = f.hydrateProfile(p)
	}
	return &out, nil
}

func (f *FakeStore) CreateCampaign(_ context.Context, campaign *model.Campaign) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	if campaign.ID == "" {
		campaign.ID = uuid.NewString()
	}
	campaign.CreatedAt = time.Now().UTC()
	f.Campaigns[campaign.ID] = campaign
	f.record("create-campaign")
	return nil
}

func (f *FakeStore) UpdateCampaign(_ context.Context, id string, up store.CampaignUpdate) (*model.Campaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	c, ok := f.Campaigns[id]
	if !ok {
		return nil, apperrors.NotFoundf("campaign %s not found", id)
	}
	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&c.Name, up.Name)
	apply(&c.CopyStyle, up.CopyStyle)
	apply(&c.MediaType, up.MediaType)
	apply(&c.AdCopy, up.AdCopy)
	apply(&c.ImagePrompt, up.ImagePrompt)
	apply(&c.ImageURL, up.ImageURL)
	apply(&c.CTA, up.CTA)
	apply(&c.Hooks, up.Hooks)
	apply(&c.LandingPageCopy, up.LandingPageCopy)
	f.record("update-campaign")
	return c, nil
}

func (f *FakeStore) DeleteCampaign(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	if _, ok := f.Campaigns[id]; !ok {
		return apperrors.NotFoundf("campaign %s not found", id)
	}
	delete(f.Campaigns, id)
	f.record("delete-campaign")
	return nil
}

func (f *FakeStore) record(op string) {
	f.Mutations = append(f.Mutations, op)
}

func (f *FakeStore) hydrateCompany(c *model.Company) *model.Company {
	out := *c
	out.Fields = append([]*model.CompanyField(nil), f.Fields[c.ID]...)
	out.Profiles = nil
	for pid, p := range f.Profiles {
		if p.CompanyID == c.ID {
			cp := *p
			for _, cam := range f.Campaigns {
				if cam.ICPID == pid {
					cp.Campaigns = append(cp.Campaigns, cam)
				}
			}
			out.Profiles = append(out.Profiles, &cp)
		}
	}
	return &out
}

func (f *FakeStore) hydrateProfile(p *model.ICPProfile) *model.ICPProfile {
	out := *p
	out.Campaigns = nil
	for _, cam := range f.Campaigns {
		if cam.ICPID == p.ID {
			out.Campaigns = append(out.Campaigns, cam)
		}
	}
	if c, ok := f.Companies[p.CompanyID]; ok {
		cc := *c
		cc.Fields = append([]*model.CompanyField(nil), f.Fields[c.ID]...)
		out.Company = &cc
	}
	return &out
}
