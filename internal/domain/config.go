package domain

import "time"

// Config is the runtime configuration handed to services and handlers.
type Config struct {
	JWTSecret    string
	TokenTTL     time.Duration
	OtpTTL       time.Duration
	ResolveTTL   time.Duration
	Registration string // open, close
}
