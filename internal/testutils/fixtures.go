package testutils

import (
	"time"
)

const (
	// TestEncounterID is the default encounter ID for test fixtures
	TestEncounterID = "enc-test-001"

	// TestEncounterName is the default encounter name for test fixtures
	TestEncounterName = "Goblin Ambush"
)

// TestTime is a fixed instant with millisecond precision, so it survives
// every storage backend unchanged
var TestTime = time.Date(2024, time.March, 9, 18, 30, 0, 0, time.UTC)
