// Package config resolves prism settings from defaults, an optional .env
// file and PRISM_* environment variables. Command-line flags are applied on
// top by the CLI.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/joho/godotenv"

	"github.com/jmylchreest/prism/internal/analysis"
	"github.com/jmylchreest/prism/internal/colour"
	imageutil "github.com/jmylchreest/prism/internal/image"
	httputil "github.com/jmylchreest/prism/internal/util/http"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "PRISM_"

// DefaultEnvFile is read when no env file is given explicitly.
const DefaultEnvFile = ".env"

// AutoThreshold selects the quantization policy's default threshold.
const AutoThreshold = -1.0

// Config holds resolved settings.
type Config struct {
	// Threshold is the starting vibrancy threshold. AutoThreshold (any
	// negative value) picks the policy default.
	Threshold float64

	MaxDimension int
	Quantization analysis.Quantization

	// Gate is empty to follow the quantization policy.
	Gate analysis.BrightnessGate

	Contrast colour.ContrastPolicy

	Addr           string
	LogLevel       string
	LogJSON        bool
	HTTPTimeout    time.Duration
	MaxUploadBytes int64

	// MaxPixels bounds width*height of decoded images, checked from the
	// image header before any pixels are allocated.
	MaxPixels int64
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Threshold:      AutoThreshold,
		MaxDimension:   analysis.DefaultMaxDimension,
		Quantization:   analysis.QuantizeStep16,
		Contrast:       colour.ContrastWCAG,
		Addr:           ":8080",
		LogLevel:       "info",
		HTTPTimeout:    httputil.DefaultTimeout,
		MaxUploadBytes: 32 << 20,
		MaxPixels:      imageutil.DefaultMaxPixels,
	}
}

// Load resolves configuration from defaults, then envFile, then the process
// environment. Process variables win over the file. When envFile is empty
// DefaultEnvFile is tried and silently skipped if missing; an explicit file
// must exist.
func Load(envFile string) (Config, error) {
	fileVars := map[string]string{}
	path := envFile
	if path == "" {
		path = DefaultEnvFile
	}
	vars, err := godotenv.Read(path)
	switch {
	case err == nil:
		fileVars = vars
	case envFile == "" && errors.Is(err, fs.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("failed to read env file %s: %w", path, err)
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileVars[key]
		return v, ok
	}

	cfg, err := FromLookup(lookup)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromLookup applies PRISM_* variables returned by lookup over Default().
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	p := envParser{lookup: lookup}

	p.float("THRESHOLD", &cfg.Threshold)
	p.int("MAX_DIMENSION", &cfg.MaxDimension)
	p.string("QUANTIZATION", (*string)(&cfg.Quantization))
	p.string("GATE", (*string)(&cfg.Gate))
	p.string("CONTRAST", (*string)(&cfg.Contrast))
	p.string("ADDR", &cfg.Addr)
	p.string("LOG_LEVEL", &cfg.LogLevel)
	p.bool("LOG_JSON", &cfg.LogJSON)
	p.duration("HTTP_TIMEOUT", &cfg.HTTPTimeout)
	p.int64("MAX_UPLOAD_BYTES", &cfg.MaxUploadBytes)
	p.int64("MAX_PIXELS", &cfg.MaxPixels)

	if err := errors.Join(p.errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that every setting is in range.
func (c Config) Validate() error {
	var errs []error
	if math.IsNaN(c.Threshold) || c.Threshold > 1 {
		errs = append(errs, fmt.Errorf("threshold must be between 0 and 1, got %v", c.Threshold))
	}
	if err := c.AnalysisOptions().Validate(); err != nil {
		errs = append(errs, err)
	}
	if !c.Contrast.IsValid() {
		errs = append(errs, fmt.Errorf("invalid contrast policy: %s (valid: %s, %s)", c.Contrast, colour.ContrastWCAG, colour.ContrastSimple))
	}
	if hclog.LevelFromString(c.LogLevel) == hclog.NoLevel {
		errs = append(errs, fmt.Errorf("invalid log level: %s", c.LogLevel))
	}
	if c.HTTPTimeout <= 0 {
		errs = append(errs, fmt.Errorf("HTTP timeout must be positive, got %s", c.HTTPTimeout))
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, fmt.Errorf("max upload bytes must be positive, got %d", c.MaxUploadBytes))
	}
	if c.MaxPixels <= 0 {
		errs = append(errs, fmt.Errorf("max pixels must be positive, got %d", c.MaxPixels))
	}
	return errors.Join(errs...)
}

// AnalysisOptions returns the sampler options.
func (c Config) AnalysisOptions() analysis.Options {
	opts := analysis.DefaultOptions()
	if c.Quantization == analysis.QuantizeExact {
		opts = analysis.ExactOptions()
	}
	if c.Quantization != "" {
		opts.Quantization = c.Quantization
	}
	if c.Gate != "" {
		opts.Gate = c.Gate
	}
	opts.MaxDimension = c.MaxDimension
	return opts
}

// EffectiveThreshold resolves AutoThreshold against the quantization policy.
func (c Config) EffectiveThreshold() float64 {
	if c.Threshold < 0 {
		return analysis.DefaultThresholdFor(c.Quantization)
	}
	return c.Threshold
}

// SelectOptions returns the selector options.
func (c Config) SelectOptions() analysis.SelectOptions {
	return analysis.SelectOptions{Threshold: c.EffectiveThreshold()}
}

type envParser struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (p *envParser) get(name string) (string, bool) {
	v, ok := p.lookup(EnvPrefix + name)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func (p *envParser) fail(name, value string, err error) {
	p.errs = append(p.errs, fmt.Errorf("invalid %s%s=%q: %w", EnvPrefix, name, value, err))
}

func (p *envParser) string(name string, dst *string) {
	if v, ok := p.get(name); ok {
		*dst = strings.ToLower(v)
	}
}

func (p *envParser) float(name string, dst *float64) {
	if v, ok := p.get(name); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			p.fail(name, v, err)
			return
		}
		*dst = f
	}
}

func (p *envParser) int(name string, dst *int) {
	if v, ok := p.get(name); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			p.fail(name, v, err)
			return
		}
		*dst = n
	}
}

func (p *envParser) int64(name string, dst *int64) {
	if v, ok := p.get(name); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			p.fail(name, v, err)
			return
		}
		*dst = n
	}
}

func (p *envParser) bool(name string, dst *bool) {
	if v, ok := p.get(name); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			p.fail(name, v, err)
			return
		}
		*dst = b
	}
}

func (p *envParser) duration(name string, dst *time.Duration) {
	if v, ok := p.get(name); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			p.fail(name, v, err)
			return
		}
		*dst = d
	}
}
