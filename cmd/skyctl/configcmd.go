package main

import (
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/skyfinder/skyfinder/internal/config"
)

// configView is the printable form of config.Config. Secrets are reduced to set/unset.
type configView struct {
	Env  string `yaml:"env"`
	Port int    `yaml:"port"`

	Amadeus struct {
		BaseURL   string        `yaml:"base_url"`
		APIKey    string        `yaml:"api_key"`
		APISecret string        `yaml:"api_secret"`
		Timeout   time.Duration `yaml:"timeout"`
	} `yaml:"amadeus"`

	Auth struct {
		SearchAuthRequired bool   `yaml:"search_auth_required"`
		JWTSecret          string `yaml:"jwt_secret"`
		ServiceURL         string `yaml:"service_url,omitempty"`
		InternalKeyHash    string `yaml:"internal_key_hash"`
	} `yaml:"auth"`

	Stores struct {
		Postgres string `yaml:"postgres"`
		Redis    string `yaml:"redis"`
	} `yaml:"stores"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML with secrets redacted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Parse()
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(viewOf(cfg)); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}

func viewOf(cfg *config.Config) configView {
	var v configView
	v.Env = cfg.AppEnv
	v.Port = cfg.AppPort

	v.Amadeus.BaseURL = cfg.AmadeusBaseURL
	v.Amadeus.APIKey = setOrUnset(cfg.AmadeusAPIKey)
	v.Amadeus.APISecret = setOrUnset(cfg.AmadeusAPISecret)
	v.Amadeus.Timeout = cfg.UpstreamTimeout

	v.Auth.SearchAuthRequired = cfg.SearchAuthRequired
	v.Auth.JWTSecret = setOrUnset(cfg.AuthJWTSecret)
	v.Auth.ServiceURL = cfg.AuthServiceURL
	v.Auth.InternalKeyHash = setOrUnset(cfg.InternalKeyHash)

	v.Stores.Postgres = setOrUnset(cfg.DatabaseURL)
	v.Stores.Redis = setOrUnset(cfg.RedisURL)

	v.Log.Level = cfg.LogLevel
	v.Log.Format = cfg.LogFormat
	return v
}

func setOrUnset(s string) string {
	if s == "" {
		return "unset"
	}
	return "set"
}
