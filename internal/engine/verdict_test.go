package engine

import (
	"strings"
	"testing"
)

func TestVerdict(t *testing.T) {
	tests := []struct {
		name         string
		mode         Mode
		linkRequired bool
		linkOK       bool
		wantPass     bool
		wantContains string
	}{
		{
			name:         "link required and achieved",
			mode:         ModeTwoPort,
			linkRequired: true,
			linkOK:       true,
			wantPass:     true,
			wantContains: "LINK OK",
		},
		{
			name:         "link required but failed",
			mode:         ModeTwoPort,
			linkRequired: true,
			linkOK:       false,
			wantPass:     false,
			wantContains: "LINK required",
		},
		{
			name:         "link optional and achieved",
			mode:         ModeOnePort,
			linkRequired: false,
			linkOK:       true,
			wantPass:     true,
			wantContains: "LINK OK",
		},
		{
			name:         "one-port link deferred",
			mode:         ModeOnePort,
			linkRequired: false,
			linkOK:       false,
			wantPass:     true,
			wantContains: "auto-connect",
		},
		{
			name:         "two-port link disabled",
			mode:         ModeTwoPort,
			linkRequired: false,
			linkOK:       false,
			wantPass:     true,
			wantContains: "auto-connect",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			passed, message := Verdict(tt.mode, tt.linkRequired, tt.linkOK)
			if passed != tt.wantPass {
				t.Errorf("Verdict() passed = %v, want %v", passed, tt.wantPass)
			}
			if !strings.Contains(message, tt.wantContains) {
				t.Errorf("message %q does not mention %q", message, tt.wantContains)
			}
		})
	}
}
