package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/distillr/internal/common"
	"github.com/dmitrijs2005/distillr/internal/flagx"
	"github.com/dmitrijs2005/distillr/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Absent fields
// leave the current value untouched.
type JsonConfig struct {
	ServerEndpointAddr string          `json:"server_endpoint_addr"`
	StatusPollInterval *timex.Duration `json:"status_poll_interval"`
	SuccessCloseDelay  *timex.Duration `json:"success_close_delay"`
	Platform           string          `json:"platform"`
	IsLive             *bool           `json:"is_live"`
	DatabasePath       string          `json:"database_path"`

	StripePublishableKeyTest string `json:"stripe_publishable_key_test"`
	StripePublishableKeyLive string `json:"stripe_publishable_key_live"`
	StoreAPIKeyApple         string `json:"store_api_key_apple"`
	StoreAPIKeyGoogle        string `json:"store_api_key_google"`
}

// parseJson overlays Config with values loaded from the file named by -c or
// -config. It panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	overlay(&cfg.ServerEndpointAddr, jc.ServerEndpointAddr)
	overlay(&cfg.DatabasePath, jc.DatabasePath)
	overlay(&cfg.StripePublishableKeyTest, jc.StripePublishableKeyTest)
	overlay(&cfg.StripePublishableKeyLive, jc.StripePublishableKeyLive)
	overlay(&cfg.StoreAPIKeyApple, jc.StoreAPIKeyApple)
	overlay(&cfg.StoreAPIKeyGoogle, jc.StoreAPIKeyGoogle)

	if jc.Platform != "" {
		cfg.Platform = common.Platform(jc.Platform)
	}
	if jc.StatusPollInterval != nil {
		cfg.StatusPollInterval = jc.StatusPollInterval.Duration
	}
	if jc.SuccessCloseDelay != nil {
		cfg.SuccessCloseDelay = jc.SuccessCloseDelay.Duration
	}
	if jc.IsLive != nil {
		cfg.IsLive = *jc.IsLive
	}
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
