package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/distillr/internal/flagx"
	"github.com/dmitrijs2005/distillr/internal/timex"
)

// JsonConfig is the on-disk shape of the server configuration. Durations
// accept both "1s" strings and integer nanoseconds (timex.Duration).
type JsonConfig struct {
	EndpointAddrGRPC        string          `json:"endpoint_addr_grpc"`
	EndpointAddrHTTP        *string         `json:"endpoint_addr_http"`
	DatabaseDSN             string          `json:"database_dsn"`
	SecretKey               string          `json:"secret_key"`
	SessionValidityDuration *timex.Duration `json:"session_validity_duration"`
	DailyFreeUses           *int            `json:"daily_free_uses"`
	FetchTimeout            *timex.Duration `json:"fetch_timeout"`
	StripeSecretKeyTest     string          `json:"stripe_secret_key_test"`
	StripeSecretKeyLive     string          `json:"stripe_secret_key_live"`
	PriceAmount             *int64          `json:"price_amount"`
	PriceCurrency           string          `json:"price_currency"`
}

// parseJson loads configuration values from the file named by -c or -config.
// Absent fields keep their current value. It panics when the file cannot be
// read or parsed.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.StripeSecretKeyTest, c.StripeSecretKeyTest)
	setString(&config.StripeSecretKeyLive, c.StripeSecretKeyLive)
	setString(&config.PriceCurrency, c.PriceCurrency)

	if c.EndpointAddrHTTP != nil {
		config.EndpointAddrHTTP = *c.EndpointAddrHTTP
	}
	if c.SessionValidityDuration != nil {
		config.SessionValidityDuration = c.SessionValidityDuration.Duration
	}
	if c.DailyFreeUses != nil {
		config.DailyFreeUses = *c.DailyFreeUses
	}
	if c.FetchTimeout != nil {
		config.FetchTimeout = c.FetchTimeout.Duration
	}
	if c.PriceAmount != nil {
		config.PriceAmount = *c.PriceAmount
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
