package generation

import (
	"strings"
	"testing"

	"github.com/digitallabs/icp-engine/model"
)

func TestNewPromptContextDefaults(t *testing.T) {
	pc := newPromptContext(&model.Company{Name: "Acme"})
	if pc.CompanyName != "Acme" {
		t.Errorf("company name = %q", pc.CompanyName)
	}
	if pc.Industry != "Technology" || pc.TargetMarket != "B2B" {
		t.Errorf("defaults not applied: %+v", pc)
	}
	if len(pc.Goals) == 0 {
		t.Error("goals should default to a non-empty list")
	}
}

func TestNewPromptContextUsesFields(t *testing.T) {
	company := &model.Company{
		Name: "Acme",
		Fields: []*model.CompanyField{
			{FieldName: "industry", FieldValue: "Healthcare"},
			{FieldName: "painPoints", FieldValue: "Compliance, Staffing"},
		},
	}
	pc := newPromptContext(company)
	if pc.Industry != "Healthcare" {
		t.Errorf("industry = %q", pc.Industry)
	}
	if len(pc.PainPoints) != 2 || pc.PainPoints[1] != "Staffing" {
		t.Errorf("painPoints = %v", pc.PainPoints)
	}
}

func TestICPPromptEmbedsContext(t *testing.T) {
	prompt := icpPrompt(promptContext{
		CompanyName: "Acme",
		Industry:    "Healthcare",
		PainPoints:  []string{"Compliance"},
		Goals:       []string{"Growth"},
	})
	for _, want := range []string{"Acme", "Healthcare", "Compliance", "demographics"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestCampaignPromptEmbedsKnobs(t *testing.T) {
	prompt := campaignPrompt(map[string]any{"professional": map[string]any{"jobTitle": "Founder"}},
		"casual", "instagram", "Sign up", "What if?")
	for _, want := range []string{"Founder", "casual", "instagram", "Sign up", "adCopy"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestParseDocumentRejectsGarbage(t *testing.T) {
	if _, err := parseDocument[ICPDocument]("not json at all"); err == nil {
		t.Fatal("expected a parse error")
	}
	if _, err := parseDocument[ICPDocument](`{"demographics":{}}`); err == nil {
		t.Fatal("expected a validation error on a sparse document")
	}
}
