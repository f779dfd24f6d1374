package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"sunglow/internal/colorx"
)

const (
	appName   = "sunglow"
	envPrefix = "SUNGLOW"
	fileName  = "config.yaml"
)

// flag name -> config key
var flagKeys = map[string]string{
	"theme":     "colors.theme",
	"debug":     "log.debug",
	"log-level": "log.level",
	"latitude":  "location.latitude",
	"longitude": "location.longitude",
	"location":  "location.source",
	"fps":       "render.fps",
}

// Dir is the directory the default config file lives in.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate user config dir: %w", err)
	}
	return filepath.Join(base, appName), nil
}

// DefaultPath is the config file read when --config is not given.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// RegisterFlags defines the command-line flags Load understands.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "config file (default $XDG_CONFIG_HOME/sunglow/config.yaml)")
	fs.String("theme", "", `palette name, "auto" or "custom"`)
	fs.Bool("debug", false, "log frame statistics")
	fs.String("log-level", "", "debug, info, warn or error")
	fs.Float64("latitude", 0, "observer latitude in degrees")
	fs.Float64("longitude", 0, "observer longitude in degrees")
	fs.String("location", "", "geoclue, static or none")
	fs.Int("fps", 0, "target frame rate")
}

// Load builds the configuration. path selects the config file; when empty
// the default file is read if it exists. flags may be nil.
func Load(path string, flags *pflag.FlagSet, logger *slog.Logger) (*Config, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if path == "" {
			if f := flags.Lookup("config"); f != nil {
				path = f.Value.String()
			}
		}
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil || !f.Changed {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	if err := readFile(v, path, logger); err != nil {
		return nil, err
	}
	warnUnknownKeys(v, logger)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func readFile(v *viper.Viper, path string, logger *slog.Logger) error {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			logger.Warn("no default config file", "err", err)
			return nil
		}
		path = p
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			logger.Debug("config file not found, using defaults", "path", path)
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	logger.Info("config loaded", "path", path)
	return nil
}

func warnUnknownKeys(v *viper.Viper, logger *slog.Logger) {
	var unknown []string
	for _, key := range v.AllKeys() {
		if _, ok := defaults[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		logger.Warn("unrecognised config key", "key", key)
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	_ = val.RegisterValidation("theme", func(fl validator.FieldLevel) bool {
		name := fl.Field().String()
		if name == ThemeAuto || name == ThemeCustom {
			return true
		}
		_, ok := colorx.LookupPalette(name)
		return ok
	})
	_ = val.RegisterValidation("color", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true
		}
		_, err := colorx.Parse(s)
		return err == nil
	})
	return val
}

// Validate checks field ranges and cross-field rules.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validate config: %w", err)
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
		}
		return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
	}
	return nil
}

// Palette resolves the configured colours. For ThemeAuto it returns the
// default palette; the caller switches palettes as the day goes on.
func (c ColorsConfig) Palette() colorx.Palette {
	switch c.Theme {
	case ThemeCustom:
		return colorx.Custom(c.Inner, c.Outer)
	case ThemeAuto:
		return colorx.DefaultPalette
	}
	if p, ok := colorx.LookupPalette(c.Theme); ok {
		return p
	}
	return colorx.DefaultPalette
}

// SaveTheme writes theme into the config file at path, keeping its other
// settings. The file and its directory are created if needed.
func SaveTheme(path, theme string) error {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	v.Set("colors.theme", theme)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}
