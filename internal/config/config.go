// Package config loads proxy configuration from the environment. The SSO
// settings accept both the VITE_-prefixed names used by the browser build
// and the bare server-side names, with a fixed precedence per key.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// SSO holds the OAuth client settings the token endpoint needs. All three
// values must be present before the endpoint will talk to the CRM.
type SSO struct {
	BaseURL   string `mapstructure:"base_url" validate:"required,url"`
	AppID     string `mapstructure:"app_id" validate:"required"`
	AppSecret string `mapstructure:"app_secret" validate:"required"`
}

// Complete reports whether every SSO value is set. The token endpoint fails
// closed on an incomplete triple instead of forwarding a doomed request.
func (s SSO) Complete() bool {
	return s.BaseURL != "" && s.AppID != "" && s.AppSecret != ""
}

// Config is the full proxy configuration.
type Config struct {
	Addr string `mapstructure:"addr" validate:"required"`
	SSO  SSO    `mapstructure:"sso"`
}

// Load reads configuration from the environment. The SSO triple is optional
// at load time; completeness is enforced where the values are used, so the
// proxy can still serve the API passthrough without SSO configured.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("addr", ":8787")
	_ = v.BindEnv("addr", "PORTAL_PROXY_ADDR")

	// First name wins. The secret checks the bare name first because the
	// VITE_ variant leaks into browser bundles and only exists in legacy
	// deployments.
	_ = v.BindEnv("sso.base_url", "VITE_SSO_BASE_URL", "SSO_BASE_URL")
	_ = v.BindEnv("sso.app_id", "VITE_SSO_APP_ID", "SSO_APP_ID")
	_ = v.BindEnv("sso.app_secret", "SSO_APP_SECRET", "VITE_SSO_APP_SECRET")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	cfg.SSO.BaseURL = strings.TrimRight(cfg.SSO.BaseURL, "/")

	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validate(cfg Config) error {
	v := validator.New(validator.WithRequiredStructEnabled())

	if err := v.Var(cfg.Addr, "required"); err != nil {
		return fmt.Errorf("config: addr is required")
	}
	// Validate SSO only when at least one value is present; a fully absent
	// triple means the deployment does not use the token endpoint.
	if cfg.SSO != (SSO{}) {
		if err := v.Struct(cfg.SSO); err != nil {
			var fieldErrs validator.ValidationErrors
			if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
				first := fieldErrs[0]
				return fmt.Errorf("config: sso.%s failed %s validation", strings.ToLower(first.Field()), first.Tag())
			}
			return fmt.Errorf("config: sso: %w", err)
		}
	}
	return nil
}
