package config

import (
	"encoding/json"
	"os"

	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/flagx"
	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/timex"
)

// JsonConfig is the JSON-file counterpart of Config. Duration fields use
// timex.Duration so the file can carry either "10m" strings or integer
// nanoseconds. After unmarshalling, values are copied into the runtime
// Config.
type JsonConfig struct {
	EndpointAddr           string         `json:"endpoint_addr"`
	DatabaseDSN            string         `json:"database_dsn"`
	SecretKey              string         `json:"secret_key"`
	TokenValidityDuration  timex.Duration `json:"token_validity_duration"`
	OTPValidityDuration    timex.Duration `json:"otp_validity_duration"`
	OTPResendCooldown      timex.Duration `json:"otp_resend_cooldown"`
	GoogleExchangeEndpoint string         `json:"google_exchange_endpoint"`
	S3RootUser             string         `json:"s3_root_user"`
	S3RootPassword         string         `json:"s3_root_password"`
	S3Bucket               string         `json:"s3_bucket"`
	S3Region               string         `json:"s3_region"`
	S3BaseEndpoint         string         `json:"s3_base_endpoint"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flags into the provided Config. When no file is named, nothing
// is loaded. An unreadable or invalid file panics: a present-but-broken
// config is a deployment error, not a runtime condition to recover from.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.EndpointAddr = c.EndpointAddr
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.TokenValidityDuration = c.TokenValidityDuration.Duration
	config.OTPValidityDuration = c.OTPValidityDuration.Duration
	config.OTPResendCooldown = c.OTPResendCooldown.Duration
	config.GoogleExchangeEndpoint = c.GoogleExchangeEndpoint
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
}
