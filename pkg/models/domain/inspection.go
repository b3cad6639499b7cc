package domain

// Severity levels a policy may carry.
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"
)

// PolicyDetail is the in-memory view of a policy built during the policy
// fold, cross-referenced later by the alert fold and the report sheets.
type PolicyDetail struct {
	ID                  string
	Name                string
	Enabled             bool
	Severity            string
	Type                string
	Shiftable           bool
	Remediable          bool
	SystemDefault       bool
	UPI                 string
	AlertCount          int
	ComplianceStandards []string
}

// Counters is a flat counter table. Tables are pre-seeded with every key the
// fold may touch so that downstream summation never sees a missing key.
type Counters map[string]int

// SeverityCounts is a per-compliance-standard severity breakdown.
type SeverityCounts struct {
	High   int
	Medium int
	Low    int
}

// Add attributes n occurrences of the given severity. Unknown severities are
// ignored rather than invented as new buckets.
func (s *SeverityCounts) Add(severity string, n int) {
	switch severity {
	case SeverityHigh:
		s.High += n
	case SeverityMedium:
		s.Medium += n
	case SeverityLow:
		s.Low += n
	}
}

// IsZero reports whether no alerts were attributed to the standard.
func (s SeverityCounts) IsZero() bool {
	return s.High == 0 && s.Medium == 0 && s.Low == 0
}

// PolicyAlertCount ties a policy name back to its identifier together with
// the number of alerts it raised inside the query window.
type PolicyAlertCount struct {
	PolicyID   string
	AlertCount int
}

// AggregatedTotals is the support-API substitute for per-alert totals,
// copied from the aggregation endpoint's group-by results.
type AggregatedTotals struct {
	ByPolicy   map[string]int
	ByType     Counters
	BySeverity Counters
	ByStatus   Counters
}

// Summary holds the headline numbers for the summary sheets.
type Summary struct {
	AssetCount                int
	AlertCount                int
	StandardsWithOpenAlerts   int
	PoliciesWithOpenAlerts    int
	StandardsWithScopedAlerts int
	PoliciesWithScopedAlerts  int
}

// Results is everything the aggregation pass produces. Two parallel counter
// sets exist: the from-policies set derives from policies' self-reported
// open-alert counts and ignores the time range; the by-alert set derives
// from individual alert records and is scoped to the query window.
type Results struct {
	Policies       map[string]*PolicyDetail
	PolicyIDByName map[string]string

	AlertCountsFromPolicies Counters
	ComplianceFromPolicies  map[string]*SeverityCounts

	PolicyCountsFromAlerts map[string]*PolicyAlertCount
	PolicyTotalsByAlert    Counters
	AlertTotalsByAlert     Counters
	ComplianceFromAlerts   map[string]*SeverityCounts

	DeletedPolicies  map[string]int
	DisabledPolicies map[string]int

	Aggregated *AggregatedTotals

	Summary Summary
}
