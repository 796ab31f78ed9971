// Command seed creates the schema and loads a small demo data set: one
// company with a filled-out field sheet, one ICP profile, and one campaign.
package main

import (
	"context"
	"os"

	"github.com/google/uuid"

	"github.com/digitallabs/icp-engine/model"
	"github.com/digitallabs/icp-engine/pkg/di"
	"github.com/digitallabs/icp-engine/store"
)

func main() {
	cfg, err := di.Load()
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	c, err := di.New(cfg)
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	defer c.Close()

	ctx := context.Background()
	if err := run(ctx, c); err != nil {
		c.Logger.Error("seed failed", "error", err)
		os.Exit(1)
	}
	c.Logger.Info("seed complete")
}

func run(ctx context.Context, c *di.Container) error {
	if err := store.CreateSchema(ctx, c.DB); err != nil {
		return err
	}

	company := &model.Company{OwnerID: "demo-user", Name: "Digital Labs"}
	if err := c.Store.CreateCompany(ctx, company); err != nil {
		return err
	}

	fields := []store.FieldValue{
		{Name: "industry", Value: "Software Development"},
		{Name: "location", Value: "San Francisco, CA"},
		{Name: "size", Value: "25-50 employees"},
		{Name: "revenue", Value: "$2M-$5M"},
		{Name: "target_market", Value: "B2B SaaS companies"},
		{Name: "pain_points", Value: "Long sales cycles, High customer acquisition cost"},
		{Name: "goals", Value: "Scale revenue, Improve retention, Expand to enterprise"},
	}
	if _, err := c.Store.BulkUpsertCompanyFields(ctx, company.ID, fields); err != nil {
		return err
	}

	profile := &model.ICPProfile{
		ID:              uuid.NewString(),
		CompanyID:       company.ID,
		Name:            "Growth-Stage SaaS Founder",
		Description:     "Founders of B2B SaaS companies past product-market fit",
		ConfidenceLevel: model.ConfidenceHigh,
		ProfileData: map[string]any{
			"demographics": map[string]any{
				"ageRange": "30-45",
				"location": "North America",
			},
			"professional": map[string]any{
				"jobTitles": []any{"Founder", "CEO", "VP of Growth"},
				"industry":  "B2B SaaS",
			},
			"challenges": []any{"Scaling go-to-market", "Hiring senior sales talent"},
		},
	}
	if err := c.Store.CreateProfile(ctx, profile); err != nil {
		return err
	}

	campaign := &model.Campaign{
		ID:              uuid.NewString(),
		ICPID:           profile.ID,
		Name:            "Founder Outreach Launch",
		CopyStyle:       "professional",
		MediaType:       "linkedin",
		AdCopy:          "Stop losing deals to slow follow-up.",
		ImagePrompt:     "Modern SaaS dashboard on a laptop, clean workspace",
		CTA:             "Book a demo",
		Hooks:           "What if your pipeline updated itself?",
		LandingPageCopy: "The growth platform built for founder-led sales.",
	}
	return c.Store.CreateCampaign(ctx, campaign)
}
