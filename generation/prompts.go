package generation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/digitallabs/icp-engine/model"
)

// promptContext is the flattened company information the ICP and analysis
// prompts are built from. Missing fields fall back to broad defaults rather
// than failing the request; the provider handles vague context fine.
type promptContext struct {
	CompanyName  string
	Industry     string
	Location     string
	Size         string
	Revenue      string
	TargetMarket string
	PainPoints   []string
	Goals        []string
}

func newPromptContext(company *model.Company) promptContext {
	fields := company.FieldMap()
	return promptContext{
		CompanyName:  company.Name,
		Industry:     fieldOr(fields, "industry", "Technology"),
		Location:     fieldOr(fields, "location", "Global"),
		Size:         fieldOr(fields, "size", "10-500 employees"),
		Revenue:      fieldOr(fields, "revenue", "$1M-$10M"),
		TargetMarket: fieldOr(fields, "targetMarket", "B2B"),
		PainPoints:   listFieldOr(fields, "painPoints", []string{"Limited resources", "Need for solutions"}),
		Goals:        listFieldOr(fields, "goals", []string{"Growth", "Efficiency", "Innovation"}),
	}
}

func fieldOr(fields map[string]string, key, fallback string) string {
	if v := strings.TrimSpace(fields[key]); v != "" {
		return v
	}
	return fallback
}

func listFieldOr(fields map[string]string, key string, fallback []string) []string {
	raw := strings.TrimSpace(fields[key])
	if raw == "" {
		return fallback
	}
	parts := strings.Split(raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func icpPrompt(pc promptContext) string {
	var b strings.Builder
	b.WriteString("You are an expert marketing strategist and ICP (Ideal Customer Profile) specialist.\n")
	b.WriteString("Based on the following company information, generate a comprehensive ICP profile:\n\n")
	fmt.Fprintf(&b, "Company: %s\n", pc.CompanyName)
	fmt.Fprintf(&b, "Industry: %s\n", pc.Industry)
	fmt.Fprintf(&b, "Location: %s\n", pc.Location)
	fmt.Fprintf(&b, "Company Size: %s\n", pc.Size)
	fmt.Fprintf(&b, "Revenue: %s\n", pc.Revenue)
	fmt.Fprintf(&b, "Target Market: %s\n", pc.TargetMarket)
	fmt.Fprintf(&b, "Pain Points: %s\n", strings.Join(pc.PainPoints, ", "))
	fmt.Fprintf(&b, "Goals: %s\n\n", strings.Join(pc.Goals, ", "))
	b.WriteString(`Respond with a JSON object using exactly this structure:
{
  "demographics": {"ageRange": "", "gender": "", "location": "", "incomeLevel": "", "education": ""},
  "psychographics": {"interests": [], "values": [], "lifestyle": "", "personality": ""},
  "behavioral": {"buyingBehavior": "", "decisionMakingProcess": "", "painPoints": [], "motivations": []},
  "professional": {"jobTitle": "", "department": "", "companySize": "", "industry": "", "responsibilities": []},
  "challenges": {"primaryChallenges": [], "objections": [], "barriers": []},
  "solutions": {"desiredOutcomes": [], "successMetrics": [], "preferredFeatures": []}
}

Make the profile realistic and specific to the company's industry and target market.
`)
	return b.String()
}

func campaignPrompt(profileData map[string]any, copyStyle, mediaType, cta, hooks string) string {
	var b strings.Builder
	b.WriteString("You are an expert marketing copywriter and campaign strategist.\n")
	b.WriteString("Based on the following ICP profile and campaign requirements, generate a comprehensive marketing campaign:\n\n")
	fmt.Fprintf(&b, "ICP Profile: %s\n", compactJSON(profileData))
	fmt.Fprintf(&b, "Copy Style: %s\n", copyStyle)
	fmt.Fprintf(&b, "Media Type: %s\n", mediaType)
	fmt.Fprintf(&b, "Call-to-Action: %s\n", cta)
	fmt.Fprintf(&b, "Hooks: %s\n\n", hooks)
	b.WriteString(`Respond with a JSON object using exactly this structure:
{
  "adCopy": {"headline": "", "subheadline": "", "body": "", "cta": ""},
  "hooks": {"primaryHook": "", "secondaryHooks": [], "emotionalTriggers": []},
  "landingPageCopy": {"heroSection": {"headline": "", "subheadline": "", "benefits": []}, "features": [], "testimonials": [], "socialProof": []},
  "imagePrompt": "Detailed prompt for generating campaign imagery",
  "targeting": {"audience": "", "platforms": [], "timing": ""},
  "messaging": {"valueProposition": "", "uniqueSellingPoints": [], "tone": ""}
}

Make the campaign compelling, specific to the ICP, and optimized for the specified media type and copy style.
`)
	return b.String()
}

func analysisPrompt(pc promptContext, fields []*model.CompanyField) string {
	var b strings.Builder
	b.WriteString("You are a business analyst specializing in market research and customer profiling.\n")
	b.WriteString("Analyze the following company data and provide insights for ICP generation:\n\n")
	fmt.Fprintf(&b, "Company: %s (%s, %s)\n", pc.CompanyName, pc.Industry, pc.Location)
	for _, f := range fields {
		fmt.Fprintf(&b, "%s: %s\n", f.FieldName, f.FieldValue)
	}
	b.WriteString(`
Respond with a JSON object using exactly this structure:
{
  "industryInsights": {"marketTrends": [], "competitiveLandscape": "", "growthOpportunities": []},
  "customerSegments": [],
  "painPoints": [],
  "recommendations": {"targetAudience": "", "messagingStrategy": "", "channels": []}
}
`)
	return b.String()
}

func compactJSON(m map[string]any) string {
	data, err := json.Marshal(m)
	if err != nil {
		return "{}"
	}
	return string(data)
}
