package api

// Inventory is the asset inventory response. Only the summary is consumed.
type Inventory struct {
	Summary InventorySummary `json:"summary"`
}

type InventorySummary struct {
	TotalResources int `json:"totalResources"`
}

// TimelineEntry is one element of the support-mode resource timeline, used
// as a substitute asset count when the inventory endpoint is restricted.
type TimelineEntry struct {
	Resources int `json:"resources"`
}
