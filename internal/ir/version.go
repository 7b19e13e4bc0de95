package ir

// Version constants for the exchange format and the tool.
const (
	// FormatVersion is the network exchange format version.
	FormatVersion = "1"

	// ToolVersion is the neurograph release version.
	ToolVersion = "0.1.0"
)
