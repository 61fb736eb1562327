package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/justapithecus/pathbench/solver"
)

// Config represents a pathbench.yaml file.
// All values are optional and act as defaults for bench and check flags.
// CLI flags always override config values.
type Config struct {
	Timeout   Duration       `yaml:"timeout"`
	Parallel  int            `yaml:"parallel" validate:"gte=0,lte=256"`
	Seed      uint64         `yaml:"seed"`
	WorkDir   string         `yaml:"work_dir"`
	Report    ReportConfig   `yaml:"report"`
	Solvers   []SolverConfig `yaml:"solvers" validate:"dive"`
	Reference *SolverConfig  `yaml:"reference"`
	Storage   StorageConfig  `yaml:"storage"`
	Adapter   AdapterConfig  `yaml:"adapter"`
	Metrics   MetricsConfig  `yaml:"metrics"`
}

// ReportConfig holds report output defaults.
type ReportConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format" validate:"omitempty,oneof=json msgpack"`
}

// SolverConfig declares one solver executable and its optional build.
type SolverConfig struct {
	ID    string   `yaml:"id" validate:"required"`
	Path  string   `yaml:"path" validate:"required"`
	Build []string `yaml:"build"`
	Dir   string   `yaml:"dir"`
}

// Spec converts the entry to a solver build spec.
func (s SolverConfig) Spec() solver.Spec {
	return solver.Spec{ID: s.ID, Path: s.Path, Build: s.Build, Dir: s.Dir}
}

// StorageConfig selects where finished reports are archived.
// An empty backend disables archiving.
type StorageConfig struct {
	Backend     string `yaml:"backend" validate:"omitempty,oneof=fs s3"`
	Path        string `yaml:"path" validate:"required_with=Backend"`
	Dataset     string `yaml:"dataset"`
	Region      string `yaml:"region"`
	Endpoint    string `yaml:"endpoint" validate:"omitempty,url"`
	S3PathStyle bool   `yaml:"s3_path_style"`
}

// AdapterConfig holds run-completed notification settings.
// An empty type disables notifications.
type AdapterConfig struct {
	Type       string            `yaml:"type" validate:"omitempty,oneof=webhook redis"`
	URL        string            `yaml:"url" validate:"required_with=Type"`
	Channel    string            `yaml:"channel,omitempty"`
	HistoryKey string            `yaml:"history_key,omitempty"`
	Headers    map[string]string `yaml:"headers,omitempty"`
	Timeout    Duration          `yaml:"timeout,omitempty"`
	Retries    *int              `yaml:"retries,omitempty" validate:"omitempty,gte=0"`
}

// MetricsConfig holds metrics export settings.
type MetricsConfig struct {
	// Textfile is a Prometheus textfile-collector path written after each run.
	Textfile string `yaml:"textfile"`
}

// Duration wraps time.Duration for YAML string parsing (e.g. "10s", "5m").
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a duration string like "10s" or "5m30s".
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// SolverSpecs returns the configured solvers as build specs.
func (c *Config) SolverSpecs() []solver.Spec {
	specs := make([]solver.Spec, 0, len(c.Solvers))
	for _, s := range c.Solvers {
		specs = append(specs, s.Spec())
	}
	return specs
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report YAML key names rather than Go field names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks struct constraints and cross-field rules.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	if c.Timeout.Duration < 0 {
		return errors.New("timeout: must not be negative")
	}
	if c.Adapter.Timeout.Duration < 0 {
		return errors.New("adapter.timeout: must not be negative")
	}

	seen := make(map[string]bool, len(c.Solvers))
	for _, s := range c.Solvers {
		if seen[s.ID] {
			return fmt.Errorf("solvers: duplicate id %q", s.ID)
		}
		seen[s.ID] = true
	}
	return nil
}

// formatValidationError reports the first failed constraint by YAML path.
func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	e := verrs[0]
	field := yamlPath(e.Namespace())

	switch e.Tag() {
	case "required":
		return fmt.Errorf("%s: field is required", field)
	case "required_with":
		return fmt.Errorf("%s: required when %s is set", field, strings.ToLower(e.Param()))
	case "oneof":
		return fmt.Errorf("%s: must be one of [%s], got %q", field, e.Param(), e.Value())
	case "gte":
		return fmt.Errorf("%s: must be at least %s", field, e.Param())
	case "lte":
		return fmt.Errorf("%s: must not exceed %s", field, e.Param())
	default:
		return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
	}
}

// yamlPath strips the root struct name from a validator namespace,
// e.g. "Config.solvers[1].id" becomes "solvers[1].id".
func yamlPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}
