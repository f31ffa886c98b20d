package mosse

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Config holds tunables of the correlation filter.
// Defaults reproduce the classic MOSSE constants.
type Config struct {
	// Peak-to-sidelobe ratio below which a frame is rejected. Default 8.0
	PSRThreshold float64 `json:"psr_threshold"`
	// Blend factor for accepted observations. Default 0.125
	LearningRate float64 `json:"learning_rate"`
	// Spatial sigma of the desired response. Default 2.0
	GaussianSigma float64 `json:"gaussian_sigma"`
	// Half-size of the square excluded around the peak for sidelobe statistics. Default 5
	SidelobeRadius int `json:"sidelobe_radius"`
	// Regulariser for standardisation, spectral division and PSR. Default 1e-5
	Epsilon float64 `json:"epsilon"`
	// Number of random affine perturbations averaged with the reference patch at initialisation.
	// 0 means single observation. Default 0
	// Warped initialisation tolerates larger motion, but also accepts a blob of noise
	// with the object's mean brightness as the object.
	InitWarps int `json:"init_warps"`
	// Magnitude of random affine perturbations. Default 0.2
	WarpCoef float64 `json:"warp_coef"`
	// Seed for perturbations, so that initialisation is reproducible. Default 1
	Seed uint64 `json:"seed"`
	// Max number of accepted centers kept in track history. Default 150
	MaxTrackLen int `json:"max_track_len"`
}

// DefaultConfig returns Config with default values
func DefaultConfig() Config {
	return Config{
		PSRThreshold:   8.0,
		LearningRate:   0.125,
		GaussianSigma:  2.0,
		SidelobeRadius: 5,
		Epsilon:        1e-5,
		InitWarps:      0,
		WarpCoef:       0.2,
		Seed:           1,
		MaxTrackLen:    150,
	}
}

// LoadConfig reads Config from JSON file.
// Fields omitted from the file keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return cfg, errors.Errorf("config file must have .json extension, got %q", ext)
	}
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return cfg, errors.Wrap(err, "Can't stat config file")
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return cfg, errors.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return cfg, errors.Wrap(err, "Can't read config file")
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(err, "Can't parse config JSON")
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

// Validate checks that the configuration values are usable
func (cfg Config) Validate() error {
	if cfg.PSRThreshold < 0 {
		return errors.Errorf("psr_threshold must be non-negative, got %f", cfg.PSRThreshold)
	}
	if cfg.LearningRate <= 0 || cfg.LearningRate > 1 {
		return errors.Errorf("learning_rate must be in (0, 1], got %f", cfg.LearningRate)
	}
	if cfg.GaussianSigma <= 0 {
		return errors.Errorf("gaussian_sigma must be positive, got %f", cfg.GaussianSigma)
	}
	if cfg.SidelobeRadius < 0 {
		return errors.Errorf("sidelobe_radius must be non-negative, got %d", cfg.SidelobeRadius)
	}
	if cfg.Epsilon <= 0 {
		return errors.Errorf("epsilon must be positive, got %g", cfg.Epsilon)
	}
	if cfg.InitWarps < 0 {
		return errors.Errorf("init_warps must be non-negative, got %d", cfg.InitWarps)
	}
	if cfg.WarpCoef < 0 || cfg.WarpCoef >= 1 {
		return errors.Errorf("warp_coef must be in [0, 1), got %f", cfg.WarpCoef)
	}
	if cfg.MaxTrackLen < 1 {
		return errors.Errorf("max_track_len must be positive, got %d", cfg.MaxTrackLen)
	}
	return nil
}
