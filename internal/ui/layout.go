package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 100

	// LayoutWideWidth is the minimum width to show the difficulty column.
	LayoutWideWidth = 120
)

// Log display limits.
const (
	// LogTailLines is how many lines of the log file the log view keeps.
	LogTailLines = 400
)

// Timing constants.
const (
	// UITick drives the header clock and log following.
	UITick = 2 * time.Second
)
