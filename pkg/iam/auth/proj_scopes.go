package auth

import "slices"

// ============================================================================
// DOMAIN-SPECIFIC SCOPES - job board
// ============================================================================

const (
	ScopeAll = "*"

	// Job scopes
	ScopeJobsRead   = "jobs:read"
	ScopeJobsWrite  = "jobs:write"
	ScopeJobsDelete = "jobs:delete"

	// Application scopes
	ScopeApplicationsSubmit = "applications:submit"   // Apply to a job
	ScopeApplicationsOwn    = "applications:read:own" // List own applications
	ScopeApplicationsRead   = "applications:read"     // List applicants of a job
	ScopeApplicationsReview = "applications:review"   // Accept/reject
	ScopeApplicationsRank   = "applications:rank"     // Trigger ranking
)

// Role is the user kind carried in the access token
type Role string

const (
	RoleJobseeker Role = "jobseeker"
	RoleRecruiter Role = "recruiter"
	RoleAdmin     Role = "admin"
)

func (r Role) IsValid() bool {
	_, ok := RoleScopes[r]
	return ok
}

// RoleScopes lists what each role is granted
var RoleScopes = map[Role][]string{
	RoleJobseeker: {
		ScopeJobsRead,
		ScopeApplicationsSubmit,
		ScopeApplicationsOwn,
	},
	RoleRecruiter: {
		ScopeJobsRead,
		ScopeJobsWrite,
		ScopeJobsDelete,
		ScopeApplicationsRead,
		ScopeApplicationsReview,
		ScopeApplicationsRank,
	},
	RoleAdmin: {
		ScopeAll,
	},
}

// HasScope reports whether role grants scope
func HasScope(role Role, scope string) bool {
	granted := RoleScopes[role]
	return slices.Contains(granted, ScopeAll) || slices.Contains(granted, scope)
}

// HasAnyScope reports whether role grants at least one of scopes
func HasAnyScope(role Role, scopes ...string) bool {
	return slices.ContainsFunc(scopes, func(s string) bool { return HasScope(role, s) })
}
