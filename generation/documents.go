package generation

import (
	"encoding/json"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// The provider returns free text that is supposed to be JSON matching one of
// these document shapes. Parsing is strict in the sense that a response must
// decode and pass structural validation before anything is persisted; an
// unvalidated payload never reaches the data model.

// ICPDocument is the structured profile document generated for an ICP.
type ICPDocument struct {
	Demographics   ICPDemographics   `json:"demographics"`
	Psychographics ICPPsychographics `json:"psychographics"`
	Behavioral     ICPBehavioral     `json:"behavioral"`
	Professional   ICPProfessional   `json:"professional"`
	Challenges     ICPChallenges     `json:"challenges"`
	Solutions      ICPSolutions      `json:"solutions"`
}

type ICPDemographics struct {
	AgeRange    string `json:"ageRange"`
	Gender      string `json:"gender"`
	Location    string `json:"location"`
	IncomeLevel string `json:"incomeLevel"`
	Education   string `json:"education"`
}

type ICPPsychographics struct {
	Interests   []string `json:"interests"`
	Values      []string `json:"values"`
	Lifestyle   string   `json:"lifestyle"`
	Personality string   `json:"personality"`
}

type ICPBehavioral struct {
	BuyingBehavior        string   `json:"buyingBehavior"`
	DecisionMakingProcess string   `json:"decisionMakingProcess"`
	PainPoints            []string `json:"painPoints"`
	Motivations           []string `json:"motivations"`
}

type ICPProfessional struct {
	JobTitle         string   `json:"jobTitle"`
	Department       string   `json:"department"`
	CompanySize      string   `json:"companySize"`
	Industry         string   `json:"industry"`
	Responsibilities []string `json:"responsibilities"`
}

type ICPChallenges struct {
	PrimaryChallenges []string `json:"primaryChallenges"`
	Objections        []string `json:"objections"`
	Barriers          []string `json:"barriers"`
}

type ICPSolutions struct {
	DesiredOutcomes   []string `json:"desiredOutcomes"`
	SuccessMetrics    []string `json:"successMetrics"`
	PreferredFeatures []string `json:"preferredFeatures"`
}

// Validate requires every top-level section to be present; the provider is
// prompted for the full shape and a missing section means a degenerate
// response, not a sparse profile.
func (d ICPDocument) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Demographics, validation.Required),
		validation.Field(&d.Psychographics, validation.Required),
		validation.Field(&d.Behavioral, validation.Required),
		validation.Field(&d.Professional, validation.Required),
		validation.Field(&d.Challenges, validation.Required),
		validation.Field(&d.Solutions, validation.Required),
	)
}

// Map converts the document to the schemaless form the store keeps.
func (d *ICPDocument) Map() map[string]any {
	return toMap(d)
}

// CampaignDocument is the structured campaign content generated for an ICP.
type CampaignDocument struct {
	AdCopy          CampaignAdCopy      `json:"adCopy"`
	Hooks           CampaignHooks       `json:"hooks"`
	LandingPageCopy CampaignLandingPage `json:"landingPageCopy"`
	ImagePrompt     string              `json:"imagePrompt"`
	Targeting       CampaignTargeting   `json:"targeting"`
	Messaging       CampaignMessaging   `json:"messaging"`
}

type CampaignAdCopy struct {
	Headline    string `json:"headline"`
	Subheadline string `json:"subheadline"`
	Body        string `json:"body"`
	CTA         string `json:"cta"`
}

type CampaignHooks struct {
	PrimaryHook       string   `json:"primaryHook"`
	SecondaryHooks    []string `json:"secondaryHooks"`
	EmotionalTriggers []string `json:"emotionalTriggers"`
}

type CampaignLandingPage struct {
	HeroSection  CampaignHero `json:"heroSection"`
	Features     []string     `json:"features"`
	Testimonials []string     `json:"testimonials"`
	SocialProof  []string     `json:"socialProof"`
}

type CampaignHero struct {
	Headline    string   `json:"headline"`
	Subheadline string   `json:"subheadline"`
	Benefits    []string `json:"benefits"`
}

type CampaignTargeting struct {
	Audience  string   `json:"audience"`
	Platforms []string `json:"platforms"`
	Timing    string   `json:"timing"`
}

type CampaignMessaging struct {
	ValueProposition    string   `json:"valueProposition"`
	UniqueSellingPoints []string `json:"uniqueSellingPoints"`
	Tone                string   `json:"tone"`
}

func (d CampaignDocument) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.AdCopy, validation.Required),
		validation.Field(&d.Hooks, validation.Required),
		validation.Field(&d.LandingPageCopy, validation.Required),
	)
}

// AnalysisDocument is the company analysis produced on demand; it lives only
// in the cache, never in the store.
type AnalysisDocument struct {
	IndustryInsights AnalysisInsights        `json:"industryInsights"`
	CustomerSegments []string                `json:"customerSegments"`
	PainPoints       []string                `json:"painPoints"`
	Recommendations  AnalysisRecommendations `json:"recommendations"`
}

type AnalysisInsights struct {
	MarketTrends         []string `json:"marketTrends"`
	CompetitiveLandscape string   `json:"competitiveLandscape"`
	GrowthOpportunities  []string `json:"growthOpportunities"`
}

type AnalysisRecommendations struct {
	TargetAudience    string   `json:"targetAudience"`
	MessagingStrategy string   `json:"messagingStrategy"`
	Channels          []string `json:"channels"`
}

func (d AnalysisDocument) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.IndustryInsights, validation.Required),
		validation.Field(&d.Recommendations, validation.Required),
	)
}

func parseDocument[T interface{ Validate() error }](raw string) (*T, error) {
	var doc T
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("response is not valid JSON: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("response failed structural validation: %w", err)
	}
	return &doc, nil
}

func toMap(v any) map[string]any {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	m := map[string]any{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil
	}
	return m
}
