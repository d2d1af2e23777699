package config

import "time"

const (
	DefaultHTTPPort         = "8080"
	DefaultShutdownTimeout  = 10 * time.Second
	DefaultReceiptListLimit = 50
	MaxReceiptListLimit     = 500
	DefaultPGMaxConns       = 5
	DefaultPGMinConns       = 1
	DefaultConnectRetry     = 15 * time.Second
)
