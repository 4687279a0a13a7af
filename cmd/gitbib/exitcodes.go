package main

const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (missing gitbib.yaml, bad paths)
	ExitDataError   = 3 // Data error (malformed source files, identifier collisions)
)
