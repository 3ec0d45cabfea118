package config

import (
	"slices"
	"strings"

	"github.com/ryz3006/alignzo/internal/apperr"
	"github.com/ryz3006/alignzo/session"
)

var errUnknownProject = &apperr.Error{
	Kind:    apperr.KindNotFound,
	Message: "project %s is not configured",
}

// Catalog adapts the configured project list to the engine's catalog
// interface.
type Catalog struct {
	cfg *Config
}

func NewCatalog(cfg *Config) *Catalog {
	return &Catalog{cfg: cfg}
}

func (c *Catalog) Categories(projectID string) (*session.Categories, error) {
	project, ok := c.cfg.Project(projectID)
	if !ok {
		// Projects need not be pre-declared; an unconfigured project
		// accepts any categories.
		if len(c.cfg.Projects) == 0 {
			return &session.Categories{}, nil
		}

		return nil, errUnknownProject.Fmt(projectID)
	}

	return &session.Categories{
		Modules:            project.Modules,
		TaskCategories:     project.TaskCategories,
		WorkCategories:     project.WorkCategories,
		SeverityCategories: project.SeverityCategories,
		SourceCategories:   project.SourceCategories,
	}, nil
}

// Authorizer adapts the configured user permissions to the engine's
// permission check. Permissions take the form "resource:action"; "*" or
// "resource:*" grant wildcards. Only the configured user holds any grants.
type Authorizer struct {
	cfg *Config
}

func NewAuthorizer(cfg *Config) *Authorizer {
	return &Authorizer{cfg: cfg}
}

func (a *Authorizer) HasPermission(userID, resource, action string) bool {
	if userID != a.cfg.User.ID {
		return false
	}

	perms := a.cfg.User.Permissions

	return slices.Contains(perms, "*") ||
		slices.Contains(perms, resource+":*") ||
		slices.Contains(perms, strings.Join([]string{resource, action}, ":"))
}
