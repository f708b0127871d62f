package types

// Lead workflow status values. A freshly purchased lead starts at "New".
const (
	LeadStatusNew              = "New"
	LeadStatusContacted        = "Contacted"
	LeadStatusMeetingScheduled = "Meeting Scheduled"
	LeadStatusQuoteSent        = "Quote Sent"
	LeadStatusClosedWon        = "Closed Won"
	LeadStatusClosedLost       = "Closed Lost"
)

// Lead category values
const (
	CategoryConstruction = "construction"
	CategoryLandscaping  = "landscaping"
	CategoryEvents       = "events"
	CategoryIndustrial   = "industrial"
	CategoryRestoration  = "restoration"
)

// Payment session status values
const (
	PaymentPending   = "pending"
	PaymentSucceeded = "succeeded"
	PaymentCancelled = "cancelled"
	PaymentExpired   = "expired"
)

// Valid values for validation
var ValidLeadStatuses = []string{
	LeadStatusNew, LeadStatusContacted, LeadStatusMeetingScheduled,
	LeadStatusQuoteSent, LeadStatusClosedWon, LeadStatusClosedLost,
}

var ValidCategories = []string{
	CategoryConstruction, CategoryLandscaping, CategoryEvents,
	CategoryIndustrial, CategoryRestoration,
}

// CategoryVariant maps a lead category to its display icon and color variant.
type CategoryVariant struct {
	Category string
	Icon     string
	Color    string
}

// CategoryVariants is ordered; the first entry doubles as the fallback for
// categories missing from the table.
var CategoryVariants = []CategoryVariant{
	{Category: CategoryConstruction, Icon: "hard-hat", Color: "amber"},
	{Category: CategoryLandscaping, Icon: "shovel", Color: "green"},
	{Category: CategoryEvents, Icon: "tent", Color: "purple"},
	{Category: CategoryIndustrial, Icon: "factory", Color: "slate"},
	{Category: CategoryRestoration, Icon: "droplets", Color: "blue"},
}

// VariantForCategory returns the display variant for a category, falling back
// to the first table entry for unknown categories.
func VariantForCategory(category string) CategoryVariant {
	for _, v := range CategoryVariants {
		if v.Category == category {
			return v
		}
	}
	return CategoryVariants[0]
}

// Helper functions for validation
func IsValidLeadStatus(status string) bool {
	for _, s := range ValidLeadStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func IsValidCategory(category string) bool {
	for _, c := range ValidCategories {
		if c == category {
			return true
		}
	}
	return false
}

func IsValidPaymentStatus(status string) bool {
	switch status {
	case PaymentPending, PaymentSucceeded, PaymentCancelled, PaymentExpired:
		return true
	}
	return false
}
