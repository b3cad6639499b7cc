package api

// Group-by fields accepted by the alert aggregation endpoint.
const (
	GroupByPolicyName     = "policy.name"
	GroupByPolicyType     = "policy.type"
	GroupByPolicySeverity = "policy.severity"
	GroupByAlertStatus    = "alert.status"
)

// PolicyNameCount is an aggregate bucket grouped by policy name.
type PolicyNameCount struct {
	PolicyName string `json:"policyName"`
	Alerts     int    `json:"alerts"`
}

// PolicyTypeCount is an aggregate bucket grouped by policy type.
type PolicyTypeCount struct {
	PolicyType string `json:"policyType"`
	Alerts     int    `json:"alerts"`
}

// SeverityCount is an aggregate bucket grouped by policy severity.
type SeverityCount struct {
	Severity string `json:"severity"`
	Alerts   int    `json:"alerts"`
}

// StatusCount is an aggregate bucket grouped by alert status.
type StatusCount struct {
	Status string `json:"status"`
	Alerts int    `json:"alerts"`
}

// AggregatedAlerts is the composed alert document persisted in support-API
// mode, built from four group-by queries. Counts cover open alerts only and
// are scoped to the query time range. The field names match the persisted
// JSON, which is how process mode tells the two alert formats apart.
type AggregatedAlerts struct {
	ByPolicy   []PolicyNameCount `json:"by_policy"`
	ByType     []PolicyTypeCount `json:"by_policy_type"`
	BySeverity []SeverityCount   `json:"by_policy_severity"`
	ByStatus   []StatusCount     `json:"by_alert.status"`
}
