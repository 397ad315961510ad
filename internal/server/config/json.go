package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/addonaccounts/internal/flagx"
	"github.com/dmitrijs2005/addonaccounts/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations use
// timex.Duration so both "15m" and integer nanoseconds are accepted.
type JsonConfig struct {
	EndpointAddrGRPC             string         `json:"endpoint_addr_grpc"`
	DatabaseDSN                  string         `json:"database_dsn"`
	SecretKey                    string         `json:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	S3RootUser                   string         `json:"s3_root_user"`
	S3RootPassword               string         `json:"s3_root_password"`
	S3Bucket                     string         `json:"s3_bucket"`
	S3Region                     string         `json:"s3_region"`
	S3BaseEndpoint               string         `json:"s3_base_endpoint"`
	PictureURLValidity           timex.Duration `json:"picture_url_validity"`
	RedisAddr                    string         `json:"redis_addr"`
	MaxLoginAttempts             int            `json:"max_login_attempts"`
	LoginAttemptWindow           timex.Duration `json:"login_attempt_window"`
	MetricsAddr                  string         `json:"metrics_addr"`
	MediaURL                     string         `json:"media_url"`
	StaticURL                    string         `json:"static_url"`
	DefaultLocale                string         `json:"default_locale"`
	DefaultApp                   string         `json:"default_app"`
	Logger                       string         `json:"logger"`
}

// parseJson overlays values from the file named by -c or -config onto
// config. Keys absent from the file keep their current value. An unreadable
// or invalid file panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setDuration(&config.AccessTokenValidityDuration, c.AccessTokenValidityDuration)
	setDuration(&config.RefreshTokenValidityDuration, c.RefreshTokenValidityDuration)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setDuration(&config.PictureURLValidity, c.PictureURLValidity)
	setString(&config.RedisAddr, c.RedisAddr)
	if c.MaxLoginAttempts != 0 {
		config.MaxLoginAttempts = c.MaxLoginAttempts
	}
	setDuration(&config.LoginAttemptWindow, c.LoginAttemptWindow)
	setString(&config.MetricsAddr, c.MetricsAddr)
	setString(&config.MediaURL, c.MediaURL)
	setString(&config.StaticURL, c.StaticURL)
	setString(&config.DefaultLocale, c.DefaultLocale)
	setString(&config.DefaultApp, c.DefaultApp)
	setString(&config.Logger, c.Logger)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
