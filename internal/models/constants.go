package models

// Reserved categories
const (
	// CategoryUncategorized collects transactions no keyword matched.
	CategoryUncategorized = "Uncategorized"
	// CategoryIgnore drops matching transactions from all further processing.
	CategoryIgnore = "Ignore"
)

// Default seed categories written when no category config exists yet
const (
	CategoryFood           = "Food"
	CategoryTransportation = "Transportation"
)

// File permissions
const (
	PermissionConfigFile = 0600
	PermissionReportFile = 0644
)
