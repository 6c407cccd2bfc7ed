package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Mpesa holds the Daraja gateway credentials. The gateway client receives
// this struct; it never reads the process environment itself.
type Mpesa struct {
	BaseURL         string `envconfig:"MPESA_API_URL" default:"https://sandbox.safaricom.co.ke"`
	ConsumerKey     string `envconfig:"MPESA_CONSUMER_KEY"`
	ConsumerSecret  string `envconfig:"MPESA_CONSUMER_SECRET"`
	ShortCode       string `envconfig:"MPESA_SHORTCODE"`
	Passkey         string `envconfig:"MPESA_PASSKEY"`
	CallbackBaseURL string `envconfig:"MPESA_CALLBACK_BASE_URL"`
}

func LoadMpesa() (Mpesa, error) {
	var c Mpesa
	err := envconfig.Process("", &c)
	return c, err
}

// Validate reports absent credentials. Absence is an operator error, not a
// user error, so it is checked at call time and surfaced as a configuration
// failure.
func (c Mpesa) Validate() error {
	for name, v := range map[string]string{
		"MPESA_CONSUMER_KEY":    c.ConsumerKey,
		"MPESA_CONSUMER_SECRET": c.ConsumerSecret,
		"MPESA_SHORTCODE":       c.ShortCode,
		"MPESA_PASSKEY":         c.Passkey,
	} {
		if v == "" {
			return fmt.Errorf("%s is not set", name)
		}
	}
	return nil
}
