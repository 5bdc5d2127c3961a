package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestRootCommand_Help(t *testing.T) {
	// cobra leaves the help flag set after Execute; reset it so later
	// tests that reuse rootCmd are not forced into help output.
	t.Cleanup(func() {
		_ = rootCmd.Flags().Set("help", "false")
	})
	rootCmd.SetArgs([]string{"--help"})
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	output := buf.String()
	if output == "" {
		t.Error("expected help output, got empty string")
	}
	if !strings.Contains(output, "hcpair") {
		t.Error("expected help to contain 'hcpair'")
	}
}

func TestRootCommand_Version(t *testing.T) {
	SetVersion("1.2.3")
	rootCmd.SetArgs([]string{"--version"})
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(buf.String(), "1.2.3") {
		t.Errorf("version output = %q", buf.String())
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"pair", "setup", "detect", "ports", "version"}
	for _, name := range want {
		found := false
		for _, cmd := range rootCmd.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestPairFlagDefaults(t *testing.T) {
	f := pairCmd.Flags()

	if got, _ := f.GetString("pin"); got != "1234" {
		t.Errorf("pin default = %q", got)
	}
	if got, _ := f.GetInt("baud"); got != 9600 {
		t.Errorf("baud default = %d", got)
	}
	if got, _ := f.GetString("mode"); got != "" {
		t.Errorf("mode default = %q", got)
	}
}

func TestSetupFlagDefaults(t *testing.T) {
	f := setupCmd.Flags()

	if got, _ := f.GetString("module"); got != "auto" {
		t.Errorf("module default = %q", got)
	}
	if got, _ := f.GetString("role"); got != "slave" {
		t.Errorf("role default = %q", got)
	}
	if got, _ := f.GetInt("baud"); got != 9600 {
		t.Errorf("baud default = %d", got)
	}
}
