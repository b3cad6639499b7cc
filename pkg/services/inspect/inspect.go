package inspect

import (
	"sort"

	"github.com/de-tools/posture-atlas/pkg/models/api"
	"github.com/de-tools/posture-atlas/pkg/models/domain"
)

// Run folds the dataset into summary counters. It never mutates the dataset
// and never fails: malformed references are accounted for by the documented
// counting rules rather than reported as errors.
func Run(ds *Dataset) *domain.Results {
	res := newResults()
	if ds.AggregatedAlerts != nil {
		res.Aggregated = foldAggregated(ds.AggregatedAlerts)
	}
	foldPolicies(ds.Policies, res)
	foldAlerts(ds, res)
	summarize(ds, res)
	return res
}

// newResults pre-seeds every counter table with all expected keys so that
// downstream summation and sheet rendering never hit a missing key. The
// policies_disabled key is part of the seed even though only the alert fold
// touches it.
func newResults() *domain.Results {
	return &domain.Results{
		Policies:       make(map[string]*domain.PolicyDetail),
		PolicyIDByName: make(map[string]string),
		AlertCountsFromPolicies: domain.Counters{
			"open":        0,
			"open_high":   0,
			"open_medium": 0,
			"open_low":    0,
			"anomaly":     0,
			"audit_event": 0,
			"config":      0,
			"data":        0,
			"iam":         0,
			"network":     0,
			"remediable":  0,
			"shiftable":   0,
			"custom":      0,
			"default":     0,
		},
		ComplianceFromPolicies: make(map[string]*domain.SeverityCounts),
		PolicyCountsFromAlerts: make(map[string]*domain.PolicyAlertCount),
		PolicyTotalsByAlert: domain.Counters{
			"high":        0,
			"medium":      0,
			"low":         0,
			"anomaly":     0,
			"audit_event": 0,
			"config":      0,
			"data":        0,
			"iam":         0,
			"network":     0,
			"custom":      0,
			"default":     0,
		},
		AlertTotalsByAlert: domain.Counters{
			"dismissed":           0,
			"dismissed_high":      0,
			"dismissed_medium":    0,
			"dismissed_low":       0,
			"open":                0,
			"open_high":           0,
			"open_medium":         0,
			"open_low":            0,
			"policy_deleted":      0,
			"policies_disabled":   0,
			"resolved":            0,
			"resolved_high":       0,
			"resolved_medium":     0,
			"resolved_low":        0,
			"resolved_deleted":    0,
			"resolved_updated":    0,
			"remediable":          0,
			"remediable_open":     0,
			"remediable_resolved": 0,
			"snoozed":             0,
			"snoozed_high":        0,
			"snoozed_medium":      0,
			"snoozed_low":         0,
			"shiftable":           0,
			"anomaly":             0,
			"audit_event":         0,
			"config":              0,
			"data":                0,
			"iam":                 0,
			"network":             0,
			"custom":              0,
			"default":             0,
		},
		ComplianceFromAlerts: make(map[string]*domain.SeverityCounts),
		DeletedPolicies:      make(map[string]int),
		DisabledPolicies:     make(map[string]int),
	}
}

// foldAggregated copies the support-mode group-by results into totals.
// Counts from the aggregation endpoint cover open alerts only and are scoped
// to the query time range.
func foldAggregated(agg *api.AggregatedAlerts) *domain.AggregatedTotals {
	totals := &domain.AggregatedTotals{
		ByPolicy:   make(map[string]int),
		ByType:     domain.Counters{"anomaly": 0, "audit_event": 0, "config": 0, "data": 0, "iam": 0, "network": 0},
		BySeverity: domain.Counters{"high": 0, "medium": 0, "low": 0},
		ByStatus:   domain.Counters{"open": 0, "resolved": 0},
	}
	for _, bucket := range agg.ByPolicy {
		totals.ByPolicy[bucket.PolicyName] = bucket.Alerts
	}
	for _, bucket := range agg.ByType {
		totals.ByType[bucket.PolicyType] = bucket.Alerts
	}
	for _, bucket := range agg.BySeverity {
		totals.BySeverity[bucket.Severity] = bucket.Alerts
	}
	for _, bucket := range agg.ByStatus {
		totals.ByStatus[bucket.Status] = bucket.Alerts
	}
	return totals
}

// foldPolicies indexes every policy by id and name and accumulates its open
// alert count into the from-policies counters. These counts come from the
// policies' self-reported openAlertsCount and ignore the time range; in
// support mode the by-policy aggregate stands in, since the support policy
// endpoint does not report open alert counts.
func foldPolicies(policies []api.Policy, res *domain.Results) {
	for _, policy := range policies {
		detail := &domain.PolicyDetail{
			ID:            policy.PolicyID,
			Name:          policy.Name,
			Enabled:       policy.Enabled,
			Severity:      policy.Severity,
			Type:          policy.PolicyType,
			Shiftable:     policy.HasBuildSubType(),
			Remediable:    policy.Remediable,
			SystemDefault: policy.SystemDefault,
			UPI:           policy.UPI(),
		}
		if res.Aggregated != nil {
			detail.AlertCount = res.Aggregated.ByPolicy[policy.Name]
		} else {
			detail.AlertCount = policy.OpenAlertsCount
		}
		res.Policies[policy.PolicyID] = detail
		res.PolicyIDByName[policy.Name] = policy.PolicyID

		counts := res.AlertCountsFromPolicies
		counts["open"] += detail.AlertCount
		counts["open_"+policy.Severity] += detail.AlertCount
		counts[policy.PolicyType] += detail.AlertCount
		if detail.Remediable {
			counts["remediable"] += detail.AlertCount
		}
		if detail.Shiftable {
			counts["shiftable"] += detail.AlertCount
		}
		if detail.SystemDefault {
			counts["default"] += detail.AlertCount
		} else {
			counts["custom"] += detail.AlertCount
		}

		detail.ComplianceStandards = standardNames(policy.ComplianceMetadata)
		for _, standard := range detail.ComplianceStandards {
			rollup, ok := res.ComplianceFromPolicies[standard]
			if !ok {
				rollup = &domain.SeverityCounts{}
				res.ComplianceFromPolicies[standard] = rollup
			}
			rollup.Add(policy.Severity, detail.AlertCount)
		}
	}
}

// standardNames returns the unique standard names a policy declares, sorted.
func standardNames(entries []api.ComplianceEntry) []string {
	seen := make(map[string]struct{}, len(entries))
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if _, ok := seen[entry.StandardName]; ok {
			continue
		}
		seen[entry.StandardName] = struct{}{}
		names = append(names, entry.StandardName)
	}
	sort.Strings(names)
	return names
}

// foldAlerts walks individual alert records, which cover open and closed
// alerts inside the query window. Classification crosses from the alert to
// its policy; an alert whose policy no longer exists contributes only to the
// policy_deleted counters and is deliberately dropped from every other
// bucket, which under-counts totals by design.
func foldAlerts(ds *Dataset, res *domain.Results) {
	if res.Aggregated != nil {
		for _, severity := range []string{"high", "medium", "low"} {
			res.PolicyTotalsByAlert[severity] = res.Aggregated.BySeverity[severity]
		}
		for _, policyType := range []string{"anomaly", "audit_event", "config", "data", "iam", "network"} {
			res.PolicyTotalsByAlert[policyType] = res.Aggregated.ByType[policyType]
		}
		res.AlertTotalsByAlert["open"] = res.Aggregated.ByStatus["open"]
		res.AlertTotalsByAlert["resolved"] = res.Aggregated.ByStatus["resolved"]
		return
	}

	totals := res.AlertTotalsByAlert
	for _, alert := range ds.Alerts {
		if alert.Policy.SystemDefault {
			totals["default"]++
		} else {
			totals["custom"]++
		}
		totals[alert.Policy.PolicyType]++
		if alert.Policy.Remediable {
			totals["remediable"]++
			totals["remediable_"+alert.Status]++
		}
		totals[alert.Status]++
		switch alert.Reason {
		case api.ReasonResourceDeleted:
			totals["resolved_deleted"]++
		case api.ReasonResourceUpdated:
			totals["resolved_updated"]++
		}

		policy, ok := res.Policies[alert.Policy.PolicyID]
		if !ok {
			if alert.Reason == api.ReasonPolicyDeleted {
				res.DeletedPolicies[alert.Policy.PolicyID]++
				totals["policy_deleted"]++
			}
			continue
		}

		counts, ok := res.PolicyCountsFromAlerts[policy.Name]
		if !ok {
			counts = &domain.PolicyAlertCount{PolicyID: policy.ID}
			res.PolicyCountsFromAlerts[policy.Name] = counts
		}
		counts.AlertCount++
		res.PolicyTotalsByAlert[policy.Severity]++
		res.PolicyTotalsByAlert[policy.Type]++

		// Tracked but not reported per policy; only the total surfaces.
		if !policy.Enabled {
			res.DisabledPolicies[policy.Name]++
			totals["policies_disabled"]++
		}

		for _, standard := range policy.ComplianceStandards {
			rollup, ok := res.ComplianceFromAlerts[standard]
			if !ok {
				rollup = &domain.SeverityCounts{}
				res.ComplianceFromAlerts[standard] = rollup
			}
			rollup.Add(policy.Severity, 1)
		}

		if policy.Shiftable {
			totals["shiftable"]++
		}
		totals[alert.Status+"_"+policy.Severity]++
	}
}

func summarize(ds *Dataset, res *domain.Results) {
	res.Summary.AssetCount = ds.Assets.Summary.TotalResources

	for _, rollup := range res.ComplianceFromPolicies {
		if !rollup.IsZero() {
			res.Summary.StandardsWithOpenAlerts++
		}
	}

	if res.Aggregated != nil {
		res.Summary.AlertCount = res.Aggregated.ByStatus["open"]
		res.Summary.PoliciesWithOpenAlerts = len(res.Aggregated.ByPolicy)
		return
	}

	res.Summary.AlertCount = len(ds.Alerts)
	for _, detail := range res.Policies {
		if detail.AlertCount != 0 {
			res.Summary.PoliciesWithOpenAlerts++
		}
	}
	res.Summary.StandardsWithScopedAlerts = len(res.ComplianceFromAlerts)
	res.Summary.PoliciesWithScopedAlerts = len(res.PolicyCountsFromAlerts)
}
