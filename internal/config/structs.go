package config

import (
	"time"

	"github.com/giftring/giftring/internal/logger"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	Mock      bool // run against an in-memory database seeded with fixture data
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	OTP       OTP
}

// Webserver implement webserver settings.
type Webserver struct {
	DisableRecover bool    // disable recover middleware
	Domain         string  // domain name for the webserver
	Port           int     // listening port for the webserver
	ShutDownTime   int     // wait time for shutdown
	URL            string  // base url for the webserver
	Session        Session // session settings
}

// OTP holds settings for the one-time-code login flow.
type OTP struct {
	Digits     int           // number of digits in a login code (default 6)
	ExpiryTime time.Duration // how long a requested code stays valid
}
