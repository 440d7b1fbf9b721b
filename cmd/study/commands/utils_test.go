// ABOUTME: Tests for shared CLI helpers
// ABOUTME: Covers output truncation and argument validation
package commands

import "testing"

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		maxLen int
		want   string
	}{
		{"under limit", "short", 20, "short"},
		{"at limit", "exactly10!", 10, "exactly10!"},
		{"over limit adds ellipsis", "this is a longer string", 10, "this is..."},
		{"tiny limit", "abcdef", 2, "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.in, tt.maxLen); got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestValidatePositiveInt(t *testing.T) {
	if err := validatePositiveInt(5, "limit"); err != nil {
		t.Errorf("validatePositiveInt(5) error = %v", err)
	}
	if err := validatePositiveInt(0, "limit"); err == nil {
		t.Error("validatePositiveInt(0) should fail")
	}
	if err := validatePositiveInt(-1, "limit"); err == nil {
		t.Error("validatePositiveInt(-1) should fail")
	}
}

func TestSetVersion(t *testing.T) {
	orig := versionInfo
	defer func() { versionInfo = orig }()

	SetVersion("1.2.3", "abc123", "2026-01-01")
	if versionInfo.Version != "1.2.3" || versionInfo.Commit != "abc123" || versionInfo.Date != "2026-01-01" {
		t.Errorf("versionInfo = %+v", versionInfo)
	}
}
