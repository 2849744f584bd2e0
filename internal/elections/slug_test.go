package elections

import "testing"

func TestSlugify(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Test Election 1", "test-election-1"},
		{"Spring 2025 General Election", "spring-2025-general-election"},
		{"By-Election!!", "by-election"},
		{"  Council   Rep  ", "council-rep"},
		{"already-a-slug", "already-a-slug"},
		{"MIXED Case", "mixed-case"},
		{"___", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Slugify(tc.name); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}
