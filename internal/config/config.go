package config

import (
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds the settings of one generation run.
type Config struct {
	// Dir is the directory patterns are resolved against.
	Dir string `mapstructure:"dir"`
	// Patterns are go/packages patterns of the packages to scan.
	Patterns []string `mapstructure:"patterns" validate:"min=1,dive,required"`
	// Output is the file name of the factory unit.
	Output string `mapstructure:"output" validate:"required,gofile"`
	// RegisterOutput is the file name of the registration unit written into
	// every package that declares products.
	RegisterOutput string `mapstructure:"register_output" validate:"required,gofile,nefield=Output"`
	// OutputDir is the directory of the package receiving the factory unit,
	// relative to Dir. Defaults to Dir itself.
	OutputDir string `mapstructure:"output_dir"`
	// OutputPackage names the output package when OutputDir holds no Go files.
	OutputPackage string `mapstructure:"output_package" validate:"omitempty,goident"`
	// Duplicates is the registration policy for duplicate keys.
	Duplicates string `mapstructure:"duplicates" validate:"oneof=replace reject"`
	// Strict aborts the whole run on the first diagnostic instead of
	// skipping the offending group.
	Strict bool `mapstructure:"strict"`
	// Markers is the import path of the marker package.
	Markers string `mapstructure:"markers" validate:"required"`
	// BuildTags are passed to the package loader.
	BuildTags []string `mapstructure:"build_tags"`
	// Header is the first comment line of every generated file.
	Header string `mapstructure:"header" validate:"required"`
}

// NewConfig returns a Config holding the defaults.
func NewConfig() *Config {
	return &Config{
		Dir:            ".",
		Patterns:       []string{"./..."},
		Output:         DefaultOutput,
		RegisterOutput: DefaultRegisterOutput,
		Duplicates:     DuplicatesReplace,
		Markers:        DefaultMarkerPackage,
		Header:         DefaultHeader,
	}
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	out := *c
	out.Patterns = append([]string(nil), c.Patterns...)
	out.BuildTags = append([]string(nil), c.BuildTags...)
	return &out
}

// RejectDuplicates reports whether duplicate keys are errors.
func (c *Config) RejectDuplicates() bool {
	return c.Duplicates == DuplicatesReject
}

// AbsOutputDir returns the absolute directory of the output package.
func (c *Config) AbsOutputDir() (string, error) {
	dir := c.OutputDir
	if dir == "" {
		dir = "."
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(c.Dir, dir)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.Wrapf(err, "resolve output directory %s", dir)
	}
	return abs, nil
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	d := NewConfig()
	v.SetDefault("dir", d.Dir)
	v.SetDefault("patterns", d.Patterns)
	v.SetDefault("output", d.Output)
	v.SetDefault("register_output", d.RegisterOutput)
	v.SetDefault("output_dir", "")
	v.SetDefault("output_package", "")
	v.SetDefault("duplicates", d.Duplicates)
	v.SetDefault("strict", false)
	v.SetDefault("markers", d.Markers)
	v.SetDefault("build_tags", []string{})
	v.SetDefault("header", d.Header)
}

// NewViper returns a viper instance reading factorygen.{yaml,toml} from dir
// and FACTORYGEN_* environment variables.
func NewViper(dir string) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("FACTORYGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	v.SetConfigName("factorygen")
	v.AddConfigPath(dir)
	return v
}

// Load reads the configuration visible from dir. A missing config file is
// not an error.
func Load(dir string) (*Config, error) {
	return LoadWithViper(NewViper(dir))
}

// LoadFile reads the configuration from an explicit file.
func LoadFile(path string) (*Config, error) {
	v := NewViper(filepath.Dir(path))
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "read config file %s", path)
	}
	return unmarshal(v)
}

// LoadWithViper reads the configuration through a prepared viper instance,
// typically one with cobra flags bound to it.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "read config")
		}
	}
	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := NewConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	if cfg.Dir == "" {
		cfg.Dir = "."
	}
	return cfg, nil
}

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("gofile", func(fl validator.FieldLevel) bool {
			name := fl.Field().String()
			return strings.HasSuffix(name, ".go") &&
				!strings.HasSuffix(name, "_test.go") &&
				!strings.ContainsRune(name, os.PathSeparator) &&
				!strings.ContainsRune(name, '/')
		})

		_ = v.RegisterValidation("goident", func(fl validator.FieldLevel) bool {
			return token.IsIdentifier(fl.Field().String())
		})

		validateInst = v
	})
	return validateInst
}

// Validate checks cfg for values the generator cannot work with.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	if err := validatorInstance().Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fieldMessage(fe))
			}
			return errors.Newf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return errors.Wrap(err, "validate config")
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "oneof":
		return field + " must be one of: " + fe.Param()
	case "gofile":
		return field + " must be a non-test .go file name"
	case "goident":
		return field + " must be a Go identifier"
	case "nefield":
		return field + " must differ from " + strings.ToLower(fe.Param())
	case "min":
		return field + " needs at least " + fe.Param() + " entries"
	default:
		return field + " failed " + fe.Tag()
	}
}
