package constants

const (
	// EnvPrefix is the prefix for environment overrides read by the config loader
	EnvPrefix = "DROPLET"

	// EnvIdentity overrides the identity stored in the OS keyring
	EnvIdentity = "DROPLET_IDENTITY"

	// EnvDBConnection supplies the PostgreSQL connection string without touching the keyring
	EnvDBConnection = "DROPLET_DB_CONNECTION"
)
