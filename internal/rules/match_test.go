package rule

import "testing"

func TestMatchPattern(t *testing.T) {
	cases := []struct {
		name    string
		pattern string
		value   string
		want    bool
	}{
		{name: "empty pattern matches anything", pattern: "", value: "ACME-01", want: true},
		{name: "star matches anything", pattern: "*", value: "ACME-01", want: true},
		{name: "prefix glob", pattern: "ACME-*", value: "ACME-01", want: true},
		{name: "prefix glob rejects other prefix", pattern: "ACME-*", value: "GLOBEX-01", want: false},
		{name: "case insensitive", pattern: "acme-*", value: "ACME-01", want: true},
		{name: "single char wildcard", pattern: "R-?", value: "R-1", want: true},
		{name: "single char wildcard too long", pattern: "R-?", value: "R-12", want: false},
		{name: "exact match", pattern: "GLOBEX-EU", value: "GLOBEX-EU", want: true},
		{name: "malformed pattern never matches", pattern: "[", value: "ACME-01", want: false},
		{name: "whitespace trimmed", pattern: "  *  ", value: "ACME-01", want: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := MatchPattern(tc.pattern, tc.value); got != tc.want {
				t.Fatalf("MatchPattern(%q, %q) = %v, want %v", tc.pattern, tc.value, got, tc.want)
			}
		})
	}
}

func TestMatchAnyPattern(t *testing.T) {
	if MatchAnyPattern(nil, "R-1") {
		t.Fatal("empty pattern list must not match")
	}
	if !MatchAnyPattern([]string{"X-*", "R-*"}, "R-1") {
		t.Fatal("expected second pattern to match")
	}
	if MatchAnyPattern([]string{"X-*", "Y-*"}, "R-1") {
		t.Fatal("expected no pattern to match")
	}
}
