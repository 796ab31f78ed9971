package cache

import "strconv"

// Key scheme: four scopes, each namespaced by entity kind and one scoping id.
// Same scope + same id always yields the same key; the distinct prefixes keep
// scopes from colliding. Pure functions, no side effects.

// CompanyListKey covers the company list (with embedded field and
// profile→campaign subtrees) for one owning user.
func CompanyListKey(ownerID string) string {
	return "company:" + ownerID
}

// ICPListKey covers the ICP profile list for one company.
func ICPListKey(companyID int64) string {
	return "icp:" + strconv.FormatInt(companyID, 10)
}

// CampaignListKey covers the campaign list for one ICP profile.
func CampaignListKey(icpID string) string {
	return "campaign:" + icpID
}

// AnalysisKey covers the AI company analysis for one company.
func AnalysisKey(companyID int64) string {
	return "analysis:" + strconv.FormatInt(companyID, 10)
}
