package models

import "testing"

func TestIsValidRole(t *testing.T) {
	for _, role := range []string{RolePilgrim, RoleAgency, RoleAdmin} {
		if !IsValidRole(role) {
			t.Errorf("IsValidRole(%q) = false", role)
		}
	}
	for _, role := range []string{"", "superuser", "Pilgrim", "agent"} {
		if IsValidRole(role) {
			t.Errorf("IsValidRole(%q) = true", role)
		}
	}
}

func TestRoleRoots(t *testing.T) {
	tests := []struct {
		role       string
		dashboard  string
		onboarding string
	}{
		{RolePilgrim, "/dashboard/pilgrim", "/onboarding/pilgrim"},
		{RoleAgency, "/dashboard/agency", "/onboarding/agency"},
		{RoleAdmin, "/dashboard/admin", "/onboarding/admin"},
		{"", "", ""},
		{"unknown", "", ""},
	}

	for _, tt := range tests {
		if got := DashboardRoot(tt.role); got != tt.dashboard {
			t.Errorf("DashboardRoot(%q) = %q, want %q", tt.role, got, tt.dashboard)
		}
		if got := OnboardingRoot(tt.role); got != tt.onboarding {
			t.Errorf("OnboardingRoot(%q) = %q, want %q", tt.role, got, tt.onboarding)
		}
	}
}
