// Package config handles configuration loading, parsing, and validation
// from environment variables and an optional config file. It provides
// type-safe access to the settings needed by the tutor server, the CLI, and
// the Gemini integration while keeping configuration details separate from
// session logic.
package config
