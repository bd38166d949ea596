package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the header drops labels.
	LayoutCompactWidth = 100

	// LayoutPlanMinWidth is the narrowest terminal that shows five day columns;
	// below it the plan is a single list.
	LayoutPlanMinWidth = 80
)

// Chrome rows around the content area: header, command bar and toast line.
const chromeRows = 3

// Log display limits.
const (
	// LogTailLines is how many lines of the client log the logs view reads.
	LogTailLines = 500
)

// Timing constants.
const (
	// ToastLifetime is how long a message stays before it is removed.
	ToastLifetime = 5 * time.Second

	// LogRefreshInterval is how often the logs view re-reads the file.
	LogRefreshInterval = 2 * time.Second
)
