package controllers

import "testing"

func TestTitleSearchFilterEscapesMetacharacters(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"umrah", "umrah"},
		{"  umrah deluxe ", "umrah deluxe"},
		{".*", `\.\*`},
		{"hajj (vip)", `hajj \(vip\)`},
		{"a+b|c", `a\+b\|c`},
	}

	for _, tt := range tests {
		filter := titleSearchFilter(tt.query)
		if got := filter["$regex"]; got != tt.want {
			t.Errorf("titleSearchFilter(%q) regex = %q, want %q", tt.query, got, tt.want)
		}
		if filter["$options"] != "i" {
			t.Errorf("titleSearchFilter(%q) should stay case-insensitive", tt.query)
		}
	}
}
