package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/mod/modfile"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/fileroute/internal/errors"
)

const (
	// ConfigFileName is the name of the JSON configuration file.
	ConfigFileName = "fileroute.json"

	// YAMLConfigFileName is the name of the YAML configuration file.
	YAMLConfigFileName = "fileroute.yaml"

	// DefaultRoutes is the default routes directory.
	DefaultRoutes = "app/routes"

	// DefaultPackage is the default package name of the generated files.
	DefaultPackage = "routes"

	// DefaultStatefulTag is the build tag selecting the stateful router.
	DefaultStatefulTag = "fileroute_stateful"

	// ModeStateless and ModeStateful name the two generation modes.
	ModeStateless = "stateless"
	ModeStateful  = "stateful"

	// ConflictPreferStatic lets static segments win over captures.
	ConflictPreferStatic = "prefer_static"

	// ConflictStrict rejects static/capture siblings.
	ConflictStrict = "strict"
)

// Config represents the complete fileroute configuration.
type Config struct {
	// Paths contains input path configuration.
	Paths PathsConfig `json:"paths,omitempty" yaml:"paths,omitempty"`

	// Output contains generated file configuration.
	Output OutputConfig `json:"output,omitempty" yaml:"output,omitempty"`

	// State describes the shared-state type threaded through stateful handlers.
	State StateConfig `json:"state,omitempty" yaml:"state,omitempty"`

	// Routing contains route model options.
	Routing RoutingConfig `json:"routing,omitempty" yaml:"routing,omitempty"`

	// Metrics contains generation metrics options.
	Metrics MetricsConfig `json:"metrics,omitempty" yaml:"metrics,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string

	// dir is the project root when no config file exists.
	dir string
}

// PathsConfig contains path configuration for project directories.
type PathsConfig struct {
	// Routes is the path to the routes directory.
	Routes string `json:"routes,omitempty" yaml:"routes,omitempty"`
}

// OutputConfig contains generated file configuration.
type OutputConfig struct {
	// Dir is the directory generated files are written to (default: routes dir).
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`

	// Package is the package clause of the generated files.
	Package string `json:"package,omitempty" yaml:"package,omitempty"`

	// Import overrides the import path of the routes directory.
	// Derived from go.mod when empty.
	Import string `json:"import,omitempty" yaml:"import,omitempty"`

	// Modes lists the generation modes to emit.
	Modes []string `json:"modes,omitempty" yaml:"modes,omitempty"`

	// StatefulTag is the build tag used when both modes are emitted.
	StatefulTag string `json:"statefulTag,omitempty" yaml:"statefulTag,omitempty"`
}

// StateConfig describes the shared-state type.
type StateConfig struct {
	// Type is the Go type expression (e.g. "*store.DB"). Defaults to State,
	// an identifier the host declares in the routes package.
	Type string `json:"type,omitempty" yaml:"type,omitempty"`

	// Import is the import path needed by Type, if any.
	Import string `json:"import,omitempty" yaml:"import,omitempty"`
}

// RoutingConfig contains route model options.
type RoutingConfig struct {
	// ConflictMode is prefer_static or strict.
	ConflictMode string `json:"conflictMode,omitempty" yaml:"conflictMode,omitempty"`

	// Strict turns route file parse failures into errors.
	Strict bool `json:"strict,omitempty" yaml:"strict,omitempty"`
}

// MetricsConfig contains generation metrics options.
type MetricsConfig struct {
	// File is a Prometheus textfile the pass writes its metrics to.
	File string `json:"file,omitempty" yaml:"file,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Paths: PathsConfig{
			Routes: DefaultRoutes,
		},
		Output: OutputConfig{
			Package:     DefaultPackage,
			Modes:       []string{ModeStateless, ModeStateful},
			StatefulTag: DefaultStatefulTag,
		},
		Routing: RoutingConfig{
			ConflictMode: ConflictPreferStatic,
		},
	}
}

// Default returns a default configuration rooted at dir.
func Default(dir string) *Config {
	cfg := New()
	cfg.dir = dir
	loadEnv(dir)
	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from the specified directory.
// It looks for fileroute.json, then fileroute.yaml.
func Load(dir string) (*Config, error) {
	for _, name := range []string{ConfigFileName, YAMLConfigFileName, "fileroute.yml"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New("E101").
		WithDetail("No " + ConfigFileName + " or " + YAMLConfigFileName + " found in " + dir).
		WithSuggestion("Create " + ConfigFileName + " or run without one to use defaults")
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E101").WithDetail(path)
		}
		return nil, errors.New("E102").Wrap(err)
	}

	loadEnv(filepath.Dir(path))

	cfg := New()
	// Explicit lists replace the defaults instead of merging into them.
	cfg.Output.Modes = nil

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.New("E102").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			WithSuggestion("Check the configuration file syntax")
	}

	cfg.configPath = path
	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadEnv loads a .env file from dir without overriding existing variables.
func loadEnv(dir string) {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); err != nil {
		return
	}
	_ = godotenv.Load(path)
}

// applyEnv applies FILEROUTE_* overrides.
func (c *Config) applyEnv() {
	if v := os.Getenv("FILEROUTE_ROUTES"); v != "" {
		c.Paths.Routes = v
	}
	if v := os.Getenv("FILEROUTE_OUTPUT"); v != "" {
		c.Output.Dir = v
	}
	if v := os.Getenv("FILEROUTE_MODES"); v != "" {
		var modes []string
		for _, m := range strings.Split(v, ",") {
			if m = strings.TrimSpace(m); m != "" {
				modes = append(modes, strings.ToLower(m))
			}
		}
		c.Output.Modes = modes
	}
	if v := os.Getenv("FILEROUTE_STATE_TYPE"); v != "" {
		c.State.Type = v
	}
	if v := os.Getenv("FILEROUTE_STATE_IMPORT"); v != "" {
		c.State.Import = v
	}
	if v := os.Getenv("FILEROUTE_METRICS_FILE"); v != "" {
		c.Metrics.File = v
	}
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Paths.Routes == "" {
		c.Paths.Routes = DefaultRoutes
	}
	if c.Output.Package == "" {
		c.Output.Package = DefaultPackage
	}
	if len(c.Output.Modes) == 0 {
		c.Output.Modes = []string{ModeStateless, ModeStateful}
	}
	if c.Output.StatefulTag == "" {
		c.Output.StatefulTag = DefaultStatefulTag
	}
	if c.Routing.ConflictMode == "" {
		c.Routing.ConflictMode = ConflictPreferStatic
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Output.Modes))
	for _, m := range c.Output.Modes {
		if m != ModeStateless && m != ModeStateful {
			return errors.New("E103").
				WithDetail("Unknown output mode " + m).
				WithSuggestion("Use \"stateless\", \"stateful\" or both")
		}
		if seen[m] {
			return errors.New("E103").WithDetail("Output mode " + m + " listed twice")
		}
		seen[m] = true
	}
	switch c.Routing.ConflictMode {
	case ConflictPreferStatic, ConflictStrict:
	default:
		return errors.New("E103").
			WithDetail("Unknown conflict mode " + c.Routing.ConflictMode).
			WithSuggestion("Use \"prefer_static\" or \"strict\"")
	}
	if c.State.Import != "" && c.State.Type == "" {
		return errors.New("E103").WithDetail("state.import is set but state.type is empty")
	}
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the project root directory.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return c.dir
	}
	return filepath.Dir(c.configPath)
}

// RoutesPath returns the absolute path to the routes directory.
func (c *Config) RoutesPath() string {
	return c.resolve(c.Paths.Routes)
}

// OutputPath returns the directory generated files are written to.
func (c *Config) OutputPath() string {
	if c.Output.Dir == "" {
		return c.RoutesPath()
	}
	return c.resolve(c.Output.Dir)
}

// MetricsPath returns the metrics textfile path, or "" when disabled.
func (c *Config) MetricsPath() string {
	if c.Metrics.File == "" {
		return ""
	}
	return c.resolve(c.Metrics.File)
}

// HasMode reports whether the given generation mode is enabled.
func (c *Config) HasMode(mode string) bool {
	for _, m := range c.Output.Modes {
		if m == mode {
			return true
		}
	}
	return false
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// RoutesImportPath returns the Go import path of the routes directory.
// The explicit output.import wins; otherwise it is derived from the nearest
// go.mod above the routes directory.
func (c *Config) RoutesImportPath() (string, error) {
	if c.Output.Import != "" {
		return c.Output.Import, nil
	}
	return ImportPath(c.RoutesPath())
}

// OutputImportPath returns the Go import path of the output directory.
func (c *Config) OutputImportPath() (string, error) {
	if c.OutputPath() == c.RoutesPath() {
		return c.RoutesImportPath()
	}
	return ImportPath(c.OutputPath())
}

// ImportPath derives the import path of dir from the nearest go.mod.
func ImportPath(dir string) (string, error) {
	modDir, err := findGoMod(dir)
	if err != nil {
		return "", err
	}
	modPath, err := ModulePath(modDir)
	if err != nil {
		return "", err
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.New("E104").Wrap(err)
	}
	rel, err := filepath.Rel(modDir, abs)
	if err != nil {
		return "", errors.New("E104").Wrap(err)
	}
	rel = filepath.ToSlash(rel)
	if rel == "." {
		return modPath, nil
	}
	return modPath + "/" + rel, nil
}

// ModulePath reads the module path from dir/go.mod.
func ModulePath(dir string) (string, error) {
	goModPath := filepath.Join(dir, "go.mod")
	data, err := os.ReadFile(goModPath)
	if err != nil {
		return "", errors.New("E104").Wrap(err)
	}
	path := modfile.ModulePath(data)
	if path == "" {
		return "", errors.New("E104").WithDetail("module declaration not found in " + goModPath)
	}
	return path, nil
}

// findGoMod walks up from start to the directory holding go.mod.
func findGoMod(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E104").
				WithDetail("No go.mod found above " + start).
				WithSuggestion("Set output.import in " + ConfigFileName)
		}
		dir = parent
	}
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	for _, name := range []string{ConfigFileName, YAMLConfigFileName, "fileroute.yml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// FindProjectRoot walks up directories to find the project root: the first
// directory holding a fileroute config, or failing that a go.mod.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for d := dir; ; {
		if Exists(d) {
			return d, nil
		}
		parent := filepath.Dir(d)
		if parent == d {
			break
		}
		d = parent
	}

	root, err := findGoMod(dir)
	if err != nil {
		return "", errors.New("E101").
			WithDetail("No " + ConfigFileName + " or go.mod found in " + startDir + " or any parent directory")
	}
	return root, nil
}

// LoadFromWorkingDir loads configuration for the project containing the
// current working directory, falling back to defaults when the project has
// no config file.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return LoadFromDir(wd)
}

// LoadFromDir is LoadFromWorkingDir starting at dir.
func LoadFromDir(dir string) (*Config, error) {
	root, err := FindProjectRoot(dir)
	if err != nil {
		return nil, err
	}
	if Exists(root) {
		return Load(root)
	}
	return Default(root), nil
}
