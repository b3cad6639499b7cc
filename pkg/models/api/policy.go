package api

// Policy is a posture policy as returned by the tenant API. The support
// endpoint variant returns the same shape minus openAlertsCount.
type Policy struct {
	PolicyID           string            `json:"policyId"`
	Name               string            `json:"name"`
	Enabled            bool              `json:"enabled"`
	Severity           string            `json:"severity"`
	PolicyType         string            `json:"policyType"`
	PolicySubTypes     []string          `json:"policySubTypes"`
	PolicyUPI          string            `json:"policyUpi,omitempty"`
	Remediable         bool              `json:"remediable"`
	SystemDefault      bool              `json:"systemDefault"`
	OpenAlertsCount    int               `json:"openAlertsCount"`
	ComplianceMetadata []ComplianceEntry `json:"complianceMetadata,omitempty"`
}

// ComplianceEntry tags a policy with a compliance standard. A policy may
// declare the same standard more than once (per section / requirement).
type ComplianceEntry struct {
	StandardName string `json:"standardName"`
}

// HasBuildSubType reports whether the policy includes build-time (IaC)
// scanning.
func (p Policy) HasBuildSubType() bool {
	for _, sub := range p.PolicySubTypes {
		if sub == "build" {
			return true
		}
	}
	return false
}

// UPI returns the universal policy identifier, or "CUSTOM" for
// customer-authored policies which carry none.
func (p Policy) UPI() string {
	if p.PolicyUPI == "" {
		return "CUSTOM"
	}
	return p.PolicyUPI
}
