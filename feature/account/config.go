package account

import "time"

// Config holds the login flow settings.
type Config struct {
	// CallbackPort starts a local listener that receives the OAuth redirect.
	// 0 means the redirected URL is pasted by hand.
	CallbackPort int `mapstructure:"callback_port" default:"0"`
	// CallbackTimeout bounds how long login waits for the redirect.
	CallbackTimeout time.Duration `mapstructure:"callback_timeout" default:"5m"`
}
