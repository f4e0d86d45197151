package ir

// Version constants for the identity scheme.
const (
	// IRVersion is the value schema version.
	IRVersion = "1"

	// ToolVersion is the querymode release version.
	ToolVersion = "0.1.0"
)
