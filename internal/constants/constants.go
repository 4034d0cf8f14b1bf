// Package constants defines application-wide constants to avoid magic numbers
package constants

import "time"

// Version is the fixed version string reported by the status endpoints.
const Version = "1.0.0"

// Network and Port Constants
const (
	// DefaultServerPort is the default port for the steward API listener
	DefaultServerPort = 8080

	// MinPort and MaxPort bound the valid listener port range
	MinPort = 1
	MaxPort = 65535
)

// Database Configuration
const (
	// DefaultMaxOpenConnections is the default maximum number of database connections
	DefaultMaxOpenConnections = 25

	// DefaultMaxIdleConnections is the default maximum number of idle database connections
	DefaultMaxIdleConnections = 5

	// DefaultConnMaxLifetime is the default maximum lifetime of a database connection
	DefaultConnMaxLifetime = 5 * time.Minute

	// DefaultConnMaxIdleTime is the default maximum idle time of a database connection
	DefaultConnMaxIdleTime = 1 * time.Minute

	// DefaultPingTimeout is the timeout applied to the connect-time ping
	DefaultPingTimeout = 5 * time.Second
)

// HTTP Configuration
const (
	// DefaultServerReadTimeout is the default HTTP read timeout
	DefaultServerReadTimeout = 30 * time.Second

	// DefaultServerWriteTimeout is the default HTTP write timeout
	DefaultServerWriteTimeout = 30 * time.Second

	// DefaultServerShutdownTimeout is the default graceful shutdown timeout
	DefaultServerShutdownTimeout = 10 * time.Second
)

// Cache Configuration
const (
	// DefaultCacheTTL is the default time-to-live for cached entries
	DefaultCacheTTL = 5 * time.Second

	// DefaultCacheMaxSize is the default maximum number of cached entries
	DefaultCacheMaxSize = 128
)

// DefaultTransitionLimit is the default page size for transition history listings.
const DefaultTransitionLimit = 50
