package constants

// Redis key prefixes.
const (
	// RevokedTokenKeyPrefix marks signed-out session tokens until they expire.
	RevokedTokenKeyPrefix = "rentacar:revoked:"
)
