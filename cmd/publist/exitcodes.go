package main

// Exit codes returned by publist commands.
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (bad config file, invalid pattern)
	ExitDataError   = 3 // Data error (malformed input block)
)
