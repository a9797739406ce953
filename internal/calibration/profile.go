// Package calibration measures the Strassen recursion cutoff that suits the
// current machine and persists it as a JSON profile, so later runs can start
// with a tuned default without benchmarking again.
package calibration

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sys/cpu"
)

const (
	// CurrentProfileVersion is the version of the profile format.
	// Increment this when making breaking changes to the profile structure.
	CurrentProfileVersion = 1

	// DefaultProfileFileName is the default name for the calibration profile file.
	DefaultProfileFileName = ".matnn_calibration.json"
)

// CPUFeatures records the SIMD extensions that change the speed of the
// naive inner loop, and therefore where Strassen starts to pay off.
type CPUFeatures struct {
	AVX2    bool `json:"avx2"`
	AVX512F bool `json:"avx512f"`
	FMA     bool `json:"fma"`
	ASIMD   bool `json:"asimd"`
}

func detectCPUFeatures() CPUFeatures {
	return CPUFeatures{
		AVX2:    cpu.X86.HasAVX2,
		AVX512F: cpu.X86.HasAVX512F,
		FMA:     cpu.X86.HasFMA,
		ASIMD:   cpu.ARM64.HasASIMD,
	}
}

// String lists the detected features, e.g. "avx2+fma".
func (f CPUFeatures) String() string {
	var names []string
	for _, feat := range []struct {
		on   bool
		name string
	}{
		{f.AVX2, "avx2"},
		{f.AVX512F, "avx512f"},
		{f.FMA, "fma"},
		{f.ASIMD, "asimd"},
	} {
		if feat.on {
			names = append(names, feat.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "+")
}

// CalibrationProfile stores the result of a calibration run together with
// the hardware it was measured on, so that a profile copied to another
// machine is not trusted.
type CalibrationProfile struct {
	CPUModel  string      `json:"cpu_model"`
	NumCPU    int         `json:"num_cpu"`
	GOARCH    string      `json:"goarch"`
	GOOS      string      `json:"goos"`
	GoVersion string      `json:"go_version"`
	Features  CPUFeatures `json:"cpu_features"`

	// OptimalMinSize is the fastest Strassen cutoff measured.
	OptimalMinSize int `json:"optimal_min_size"`
	// CalibrationSize is the dimension of the square operands benchmarked.
	CalibrationSize int `json:"calibration_size"`

	CalibratedAt    time.Time `json:"calibrated_at"`
	CalibrationTime string    `json:"calibration_time"`

	ProfileVersion int `json:"profile_version"`
}

// GetDefaultProfilePath returns the default path for the calibration profile.
// It uses the user's home directory if available, otherwise the current directory.
func GetDefaultProfilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultProfileFileName
	}
	return filepath.Join(home, DefaultProfileFileName)
}

func resolveProfilePath(path string) string {
	if path == "" {
		return GetDefaultProfilePath()
	}
	return path
}

// NewProfile creates a profile describing the current hardware.
func NewProfile() *CalibrationProfile {
	features := detectCPUFeatures()
	return &CalibrationProfile{
		CPUModel:       getCPUModel(features),
		NumCPU:         runtime.NumCPU(),
		GOARCH:         runtime.GOARCH,
		GOOS:           runtime.GOOS,
		GoVersion:      runtime.Version(),
		Features:       features,
		CalibratedAt:   time.Now(),
		ProfileVersion: CurrentProfileVersion,
	}
}

// getCPUModel builds a coarse CPU identifier from the architecture, the
// core count and the SIMD features.
func getCPUModel(f CPUFeatures) string {
	return fmt.Sprintf("%s-%d-cores-%s", runtime.GOARCH, runtime.NumCPU(), f)
}

// LoadProfile loads a calibration profile from path (default path if empty).
func LoadProfile(path string) (*CalibrationProfile, error) {
	data, err := os.ReadFile(resolveProfilePath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	var profile CalibrationProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	return &profile, nil
}

// SaveProfile writes the profile as indented JSON to path (default path if
// empty).
func (p *CalibrationProfile) SaveProfile(path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	if err := os.WriteFile(resolveProfilePath(path), data, 0600); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	return nil
}

// IsValid reports whether the profile can be trusted on this machine: same
// format version, core count, architecture and SIMD features, and a usable
// cutoff.
func (p *CalibrationProfile) IsValid() bool {
	if p == nil {
		return false
	}
	if p.ProfileVersion != CurrentProfileVersion {
		return false
	}
	if p.NumCPU != runtime.NumCPU() || p.GOARCH != runtime.GOARCH {
		return false
	}
	if p.Features != detectCPUFeatures() {
		return false
	}
	return p.OptimalMinSize >= 2
}

// IsStale checks if the profile is older than maxAge.
func (p *CalibrationProfile) IsStale(maxAge time.Duration) bool {
	if p == nil {
		return true
	}
	return time.Since(p.CalibratedAt) > maxAge
}

// String returns a human-readable summary of the profile.
func (p *CalibrationProfile) String() string {
	if p == nil {
		return "<nil profile>"
	}
	return fmt.Sprintf(
		"CalibrationProfile{CPU: %s, MinSize: %d, Size: %d, Calibrated: %s}",
		p.CPUModel,
		p.OptimalMinSize,
		p.CalibrationSize,
		p.CalibratedAt.Format(time.RFC3339),
	)
}

// LoadOrCreateProfile loads the profile at path. When it is missing,
// unreadable or invalid for this hardware, a fresh profile is returned
// with loaded set to false.
func LoadOrCreateProfile(path string) (profile *CalibrationProfile, loaded bool) {
	profile, err := LoadProfile(path)
	if err != nil || !profile.IsValid() {
		return NewProfile(), false
	}
	return profile, true
}

// ProfileExists checks if a calibration profile exists at path.
func ProfileExists(path string) bool {
	_, err := os.Stat(resolveProfilePath(path))
	return err == nil
}
