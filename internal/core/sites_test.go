package core_test

import (
	"context"
	"testing"

	"erp-core/internal/core"
)

// fakeSites maps site codes to legal entities and lists known companies.
type fakeSites struct {
	legalEntities map[string]string
	companies     map[string]bool
}

func (f fakeSites) SiteLegalEntity(_ context.Context, siteCode string) (string, error) {
	return f.legalEntities[siteCode], nil
}

func (f fakeSites) CompanyExists(_ context.Context, code string) (bool, error) {
	return f.companies[code], nil
}

func TestResolveScope(t *testing.T) {
	sites := fakeSites{
		legalEntities: map[string]string{"LYON1": "FR01", "GHOST": "ZZ99"},
		companies:     map[string]bool{"FR01": true},
	}

	tests := []struct {
		name    string
		level   core.DefinitionLevel
		company string
		site    string
		want    string
	}{
		{"global scope is empty", core.LevelGlobal, "FR01", "LYON1", ""},
		{"site scope is the site code", core.LevelSite, "FR01", "LYON1", "LYON1"},
		{"legal entity resolved from site", core.LevelLegalEntity, "OTHER", "LYON1", "FR01"},
		{"legal entity without company record falls back", core.LevelLegalEntity, "FALLBK", "GHOST", "FALLBK"},
		{"unknown site falls back to company", core.LevelLegalEntity, "FALLBK", "NOPE", "FALLBK"},
		{"unknown level scopes globally", core.DefinitionLevel("region"), "FR01", "LYON1", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := core.ResolveScope(context.Background(), sites, tt.level, tt.company, tt.site)
			if err != nil {
				t.Fatalf("ResolveScope returned error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ResolveScope(%q, %q, %q) = %q, want %q", tt.level, tt.company, tt.site, got, tt.want)
			}
		})
	}
}
