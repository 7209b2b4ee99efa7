package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Processing ProcessingConfig `mapstructure:"processing" yaml:"processing"`
	Sanitize   SanitizeConfig   `mapstructure:"sanitize" yaml:"sanitize"`
	Encoding   EncodingConfig   `mapstructure:"encoding" yaml:"encoding"`
	Output     OutputConfig     `mapstructure:"output" yaml:"output"`
	Log        LogConfig        `mapstructure:"log" yaml:"log"`
}

type ProcessingConfig struct {
	PreviewLength int `mapstructure:"preview_length" yaml:"preview_length"`
	ProgressEvery int `mapstructure:"progress_every" yaml:"progress_every"`
}

type SanitizeConfig struct {
	StripExternalImages bool `mapstructure:"strip_external_images" yaml:"strip_external_images"`
	StripBase64Images   bool `mapstructure:"strip_base64_images" yaml:"strip_base64_images"`
	StripStyles         bool `mapstructure:"strip_styles" yaml:"strip_styles"`
	StripLinkElements   bool `mapstructure:"strip_link_elements" yaml:"strip_link_elements"`
	StripTrackingPixels bool `mapstructure:"strip_tracking_pixels" yaml:"strip_tracking_pixels"`
	Base64Threshold     int  `mapstructure:"base64_threshold" yaml:"base64_threshold"`
	MaxStyleLength      int  `mapstructure:"max_style_length" yaml:"max_style_length"`
}

type EncodingConfig struct {
	Default  string `mapstructure:"default" yaml:"default"`
	Fallback string `mapstructure:"fallback" yaml:"fallback"`
}

type OutputConfig struct {
	EmailsDirname      string `mapstructure:"emails_dirname" yaml:"emails_dirname"`
	AttachmentsDirname string `mapstructure:"attachments_dirname" yaml:"attachments_dirname"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

func DefaultConfig() Config {
	return Config{
		Processing: ProcessingConfig{
			PreviewLength: 200,
			ProgressEvery: 100,
		},
		Sanitize: SanitizeConfig{
			StripExternalImages: true,
			StripBase64Images:   true,
			StripStyles:         true,
			StripLinkElements:   true,
			StripTrackingPixels: true,
			Base64Threshold:     1000,
			MaxStyleLength:      500,
		},
		Encoding: EncodingConfig{
			Default:  "utf-8",
			Fallback: "latin-1",
		},
		Output: OutputConfig{
			EmailsDirname:      "emails",
			AttachmentsDirname: "attachments",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func ConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func Load() (Config, error) {
	cfg := DefaultConfig()

	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("MBOX2HTML")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func Save(cfg Config) (string, error) {
	path, err := ConfigPath()
	if err != nil {
		return "", err
	}

	if _, err := EnsureDir(); err != nil {
		return "", err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}

	return path, nil
}

func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("processing.preview_length", cfg.Processing.PreviewLength)
	v.SetDefault("processing.progress_every", cfg.Processing.ProgressEvery)

	v.SetDefault("sanitize.strip_external_images", cfg.Sanitize.StripExternalImages)
	v.SetDefault("sanitize.strip_base64_images", cfg.Sanitize.StripBase64Images)
	v.SetDefault("sanitize.strip_styles", cfg.Sanitize.StripStyles)
	v.SetDefault("sanitize.strip_link_elements", cfg.Sanitize.StripLinkElements)
	v.SetDefault("sanitize.strip_tracking_pixels", cfg.Sanitize.StripTrackingPixels)
	v.SetDefault("sanitize.base64_threshold", cfg.Sanitize.Base64Threshold)
	v.SetDefault("sanitize.max_style_length", cfg.Sanitize.MaxStyleLength)

	v.SetDefault("encoding.default", cfg.Encoding.Default)
	v.SetDefault("encoding.fallback", cfg.Encoding.Fallback)

	v.SetDefault("output.emails_dirname", cfg.Output.EmailsDirname)
	v.SetDefault("output.attachments_dirname", cfg.Output.AttachmentsDirname)

	v.SetDefault("log.level", cfg.Log.Level)
}

func Validate(cfg Config) error {
	if cfg.Processing.PreviewLength <= 0 {
		return fmt.Errorf("processing.preview_length must be positive")
	}
	if cfg.Processing.ProgressEvery <= 0 {
		return fmt.Errorf("processing.progress_every must be positive")
	}
	if cfg.Sanitize.Base64Threshold <= 0 {
		return fmt.Errorf("sanitize.base64_threshold must be positive")
	}
	if cfg.Sanitize.MaxStyleLength <= 0 {
		return fmt.Errorf("sanitize.max_style_length must be positive")
	}
	if cfg.Encoding.Default == "" {
		return fmt.Errorf("encoding.default is required")
	}
	if err := validateDirname(cfg.Output.EmailsDirname, "output.emails_dirname"); err != nil {
		return err
	}
	if err := validateDirname(cfg.Output.AttachmentsDirname, "output.attachments_dirname"); err != nil {
		return err
	}
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error")
	}
	return nil
}

func validateDirname(name, key string) error {
	if name == "" {
		return fmt.Errorf("%s is required", key)
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%s must be a bare directory name", key)
	}
	return nil
}
