package constants

const (
	// DefaultBrokerURL is the connection target used when no configuration
	// file exists.
	DefaultBrokerURL = "tcp://localhost:3755"

	// DefaultHeartbeat is the heartbeat interval stored in freshly created
	// configuration files.
	DefaultHeartbeat = "1m"
)
