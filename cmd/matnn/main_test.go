package main

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// TestCLI_E2E builds the binary and checks a few complete invocations.
func TestCLI_E2E(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary")
	}
	tmpDir := t.TempDir()
	binName := "matnn"
	if runtime.GOOS == "windows" {
		binName = "matnn.exe"
	}
	binPath := filepath.Join(tmpDir, binName)

	// go test runs in the package directory.
	build := exec.Command("go", "build", "-o", binPath, ".")
	build.Stdout = os.Stdout
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		t.Fatalf("Failed to build matnn: %v", err)
	}

	a := filepath.Join(tmpDir, "a.txt")
	b := filepath.Join(tmpDir, "b.txt")
	if err := os.WriteFile(a, []byte("1 2\n3 4\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(b, []byte("5 6\n7 8\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	profile := filepath.Join(tmpDir, "profile.json")

	tests := []struct {
		name     string
		args     []string
		wantOut  string // substring match (case-insensitive)
		wantCode int
	}{
		{
			name:    "Quiet product",
			args:    []string{"-a", a, "-b", b, "-q"},
			wantOut: "43 50",
		},
		{
			name:    "JSON output",
			args:    []string{"-a", a, "-b", b, "-json", "-algo", "naive"},
			wantOut: `"elements": [`,
		},
		{
			name:    "Random operands",
			args:    []string{"-size", "32", "-seed", "1", "--no-color"},
			wantOut: "Global Status: Success",
		},
		{
			name:    "Help",
			args:    []string{"--help"},
			wantOut: "usage",
		},
		{
			name:    "Version",
			args:    []string{"-V"},
			wantOut: "matnn",
		},
		{
			name:     "Invalid configuration",
			args:     []string{"-algo", "winograd"},
			wantOut:  "configuration error",
			wantCode: 4,
		},
		{
			name:     "Missing operand file",
			args:     []string{"-a", filepath.Join(tmpDir, "missing.txt"), "-b", b},
			wantOut:  "invalid input",
			wantCode: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"-calibration-profile", profile}, tt.args...)
			if tt.name == "Version" || tt.name == "Help" {
				args = tt.args
			}
			cmd := exec.Command(binPath, args...)
			output, err := cmd.CombinedOutput()

			code := 0
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				code = exitErr.ExitCode()
			} else if err != nil {
				t.Fatalf("Command failed to start: %v", err)
			}
			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d\nOutput: %s", code, tt.wantCode, output)
			}

			outStr := string(output)
			if !strings.Contains(strings.ToLower(outStr), strings.ToLower(tt.wantOut)) {
				t.Errorf("Output missing expected string.\nExpected: %q\nGot:\n%s", tt.wantOut, outStr)
			}
		})
	}
}
