package config

import (
	"testing"

	"github.com/ryz3006/alignzo/internal/apperr"
)

func testConfig() *Config {
	return &Config{
		User: User{
			ID:          "ada",
			Permissions: []string{"sessions:*", "worklogs:create"},
		},
		Projects: []Project{
			{
				ID:      "apollo",
				Name:    "Apollo Billing",
				Modules: []string{"billing", "auth"},
			},
		},
	}
}

func TestCatalogCategories(t *testing.T) {
	catalog := NewCatalog(testConfig())

	cats, err := catalog.Categories("apollo")
	if err != nil {
		t.Fatalf("expected categories for a configured project, got %v", err)
	}

	if len(cats.Modules) != 2 {
		t.Errorf("expected 2 modules, got %d", len(cats.Modules))
	}

	_, err = catalog.Categories("unknown")
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("expected not-found error, got %v", err)
	}
}

func TestCatalogWithoutConfiguredProjects(t *testing.T) {
	cfg := testConfig()
	cfg.Projects = nil

	catalog := NewCatalog(cfg)

	cats, err := catalog.Categories("anything")
	if err != nil {
		t.Fatalf("expected an open catalog, got %v", err)
	}

	if len(cats.Modules) != 0 {
		t.Errorf("expected no category restrictions, got %v", cats.Modules)
	}
}

func TestAuthorizer(t *testing.T) {
	auth := NewAuthorizer(testConfig())

	cases := []struct {
		user     string
		resource string
		action   string
		want     bool
	}{
		{"ada", "sessions", "create", true},
		{"ada", "sessions", "delete", true},
		{"ada", "worklogs", "create", true},
		{"ada", "worklogs", "delete", false},
		{"mallory", "sessions", "create", false},
	}

	for _, tc := range cases {
		got := auth.HasPermission(tc.user, tc.resource, tc.action)
		if got != tc.want {
			t.Errorf(
				"HasPermission(%s, %s, %s) = %v, want %v",
				tc.user,
				tc.resource,
				tc.action,
				got,
				tc.want,
			)
		}
	}
}

func TestAuthorizerWildcard(t *testing.T) {
	cfg := testConfig()
	cfg.User.Permissions = []string{"*"}

	auth := NewAuthorizer(cfg)

	if !auth.HasPermission("ada", "worklogs", "delete") {
		t.Error("expected the wildcard to grant every permission")
	}
}
