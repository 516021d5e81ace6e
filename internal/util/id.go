package util

import "github.com/google/uuid"

// NewID generates a unique identifier for locally created objects
// (transcript entries, fake service handles in tests).
func NewID() string { return uuid.NewString() }
