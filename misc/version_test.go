package misc

import "testing"

func TestIdentity(t *testing.T) {
	if GetAppName() != "cssmangle" {
		t.Errorf("unexpected application name %q", GetAppName())
	}
	if GetVersion() == "" {
		t.Error("version must not be empty")
	}
	if GetGitHash() == "" {
		t.Error("git hash must not be empty")
	}
}
