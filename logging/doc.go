// Package logging provides a tiny abstraction over slog so downstream code
// can depend on a minimal interface (Logger) while allowing users to plug in
// any structured logger. Core packages accept a Logger via their options and
// default to NoOpLogger, keeping logging strictly opt-in.
package logging
