// Package testutil contains helpers used across tests to reduce
// boilerplate, most notably ScriptedService: an in-memory fake of the
// remote assistant service that replays pre-scripted run status frames and
// records every call it receives so tests can assert poll counts, thread
// creations and tool output submissions. Not intended for production usage.
package testutil
