package calibration

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

const (
	// CurrentProfileVersion is bumped whenever the meaning of a stored
	// threshold changes, invalidating older profiles.
	CurrentProfileVersion = 1
	// DefaultProfileFileName is the profile's name in the home directory.
	DefaultProfileFileName = ".picalc_calibration.json"
	// DefaultProfileMaxAge is how long a profile is trusted.
	DefaultProfileMaxAge = 30 * 24 * time.Hour
)

// CalibrationProfile records the outcome of a calibration run together with
// the hardware it was measured on.
type CalibrationProfile struct {
	ProfileVersion int       `json:"profile_version"`
	CalibratedAt   time.Time `json:"calibrated_at"`

	NumCPU    int    `json:"num_cpu"`
	GOARCH    string `json:"goarch"`
	GOOS      string `json:"goos"`
	GoVersion string `json:"go_version"`
	WordSize  int    `json:"word_size"`

	OptimalParallelThreshold int    `json:"optimal_parallel_threshold"`
	CalibrationDigits        int    `json:"calibration_digits"`
	CalibrationTime          string `json:"calibration_time"`
}

// NewProfile returns an empty profile stamped with the current hardware.
func NewProfile() *CalibrationProfile {
	return &CalibrationProfile{
		ProfileVersion: CurrentProfileVersion,
		CalibratedAt:   time.Now(),
		NumCPU:         runtime.NumCPU(),
		GOARCH:         runtime.GOARCH,
		GOOS:           runtime.GOOS,
		GoVersion:      runtime.Version(),
		WordSize:       32 << (^uint(0) >> 63),
	}
}

// IsValid reports whether p was measured on hardware matching this process.
func (p *CalibrationProfile) IsValid() bool {
	if p == nil {
		return false
	}
	return p.ProfileVersion == CurrentProfileVersion &&
		p.NumCPU == runtime.NumCPU() &&
		p.GOARCH == runtime.GOARCH &&
		p.WordSize == 32<<(^uint(0)>>63)
}

// IsStale reports whether p is older than maxAge. A nil profile is stale.
func (p *CalibrationProfile) IsStale(maxAge time.Duration) bool {
	if p == nil {
		return true
	}
	return time.Since(p.CalibratedAt) > maxAge
}

func (p *CalibrationProfile) String() string {
	return fmt.Sprintf("calibration profile v%d (%s/%s, %d CPUs, %s): parallel threshold %d terms, measured at %d digits on %s",
		p.ProfileVersion, p.GOOS, p.GOARCH, p.NumCPU, p.GoVersion,
		p.OptimalParallelThreshold, p.CalibrationDigits, p.CalibratedAt.Format(time.RFC3339))
}

// SaveProfile writes p as indented JSON, creating parent directories.
func (p *CalibrationProfile) SaveProfile(path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding calibration profile: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating profile directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing calibration profile: %w", err)
	}
	return nil
}

func loadProfile(path string) (*CalibrationProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p CalibrationProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decoding calibration profile %s: %w", path, err)
	}
	return &p, nil
}

// LoadOrCreateProfile loads the profile at path. When none can be read it
// returns a fresh profile and false.
func LoadOrCreateProfile(path string) (*CalibrationProfile, bool) {
	p, err := loadProfile(path)
	if err != nil {
		return NewProfile(), false
	}
	return p, true
}

// GetDefaultProfilePath returns ~/.picalc_calibration.json, or the file in
// the working directory when the home directory is unknown.
func GetDefaultProfilePath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return DefaultProfileFileName
	}
	return filepath.Join(home, DefaultProfileFileName)
}

// ResolveProfilePath returns path, or the default location when empty.
func ResolveProfilePath(path string) string {
	if path != "" {
		return path
	}
	return GetDefaultProfilePath()
}
