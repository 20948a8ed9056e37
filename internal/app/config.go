package app

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// GridPath is a .hcl file or a directory of grid files.
	GridPath string
	// Columns is an allow-list of sink identifiers applied to every result;
	// empty means no filtering. Numeric entries address positional sinks.
	Columns []string
	// Flatten promotes nested result values into the top-level mapping.
	Flatten   bool
	LogFormat string
	LogLevel  string
}
