package api

// Alert statuses as reported by the tenant API.
const (
	AlertStatusOpen      = "open"
	AlertStatusResolved  = "resolved"
	AlertStatusDismissed = "dismissed"
	AlertStatusSnoozed   = "snoozed"
)

// Alert resolution reasons.
const (
	ReasonResourceDeleted = "RESOURCE_DELETED"
	ReasonResourceUpdated = "RESOURCE_UPDATED"
	ReasonPolicyDeleted   = "POLICY_DELETED"
)

// Alert is a single alert record from the alert job download. The embedded
// policy snapshot may reference a policy that no longer exists.
type Alert struct {
	ID     string      `json:"id"`
	Status string      `json:"status"`
	Reason string      `json:"reason,omitempty"`
	Policy AlertPolicy `json:"policy"`
}

// AlertPolicy is the policy snapshot embedded in an alert record.
type AlertPolicy struct {
	PolicyID      string `json:"policyId"`
	PolicyType    string `json:"policyType"`
	Remediable    bool   `json:"remediable"`
	SystemDefault bool   `json:"systemDefault"`
}

// Alert job statuses. Anything other than IN_PROGRESS or READY_TO_DOWNLOAD
// is a terminal failure.
const (
	JobStatusInProgress      = "IN_PROGRESS"
	JobStatusReadyToDownload = "READY_TO_DOWNLOAD"
)

// AlertJob is the response to an alert job submission.
type AlertJob struct {
	ID string `json:"id"`
}

// AlertJobStatus is the response to an alert job status poll.
type AlertJobStatus struct {
	Status string `json:"status"`
}
