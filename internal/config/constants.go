package config

const (
	// DefaultDatabasePath is the default path for the SQLite inventory database
	DefaultDatabasePath = "./library.db"

	// DefaultServiceName identifies the service in telemetry resources
	DefaultServiceName = "library-inventory"
)
