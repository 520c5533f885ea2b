package model

// Shared defaults used by the server, the API and the terminal client.
const (
	DefaultBigramLimit = 20
	DefaultMediaLimit  = 20
	DefaultTermLimit   = 10
	DefaultMaxLimit    = 50
)
