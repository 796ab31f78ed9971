package cache

import "testing"

func TestKeyFormats(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"company list", CompanyListKey("user-42"), "company:user-42"},
		{"icp list", ICPListKey(7), "icp:7"},
		{"campaign list", CampaignListKey("abc-123"), "campaign:abc-123"},
		{"analysis", AnalysisKey(7), "analysis:7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestKeysDoNotCollideAcrossScopes(t *testing.T) {
	keys := []string{
		CompanyListKey("7"),
		ICPListKey(7),
		CampaignListKey("7"),
		AnalysisKey(7),
	}
	seen := map[string]bool{}
	for _, k := range keys {
		if seen[k] {
			t.Fatalf("duplicate key %q across scopes", k)
		}
		seen[k] = true
	}
}
