package inspect

import (
	"sort"
	"strings"

	"github.com/de-tools/posture-atlas/pkg/models/api"
	"github.com/de-tools/posture-atlas/pkg/models/domain"
)

// Sheet names, capped at the spreadsheet format's 31-character limit.
const (
	sheetUtilization     = "Utilization"
	sheetOpenByStandard  = "Open Alerts by Standard"
	sheetAllByStandard   = "Open Closed Alerts by Standard"
	sheetOpenByPolicy    = "Open Alerts by Policy"
	sheetAllByPolicy     = "Open Closed Alerts by Policy"
	sheetOpenSummary     = "Open Alerts Summary"
	sheetAllSummary      = "Open Closed Alerts Summary"
	sheetDeletedPolicies = "Deleted Policies"
)

var policyHeader = domain.Row{
	"Policy", "Enabled", "UPI", "Severity", "Type", "With IAC", "With Remediation", "Alert Count", "Compliance Standards",
}

var standardHeader = domain.Row{"Compliance Standard", "Alerts High", "Alerts Medium", "Alerts Low"}

// BuildWorkbook renders the aggregation results into ordered report sheets.
// Time-scoped sheets only exist on the full-API path, where individual alert
// records were collected; they carry a literal time-range label row.
func BuildWorkbook(ds *Dataset, res *domain.Results, timeLabel string) *domain.Workbook {
	wb := &domain.Workbook{}
	wb.Sheets = append(wb.Sheets, utilizationSheet(ds, res))
	wb.Sheets = append(wb.Sheets, standardsSheet(sheetOpenByStandard, res.ComplianceFromPolicies, ""))
	if !ds.SupportAPI() {
		wb.Sheets = append(wb.Sheets, standardsSheet(sheetAllByStandard, res.ComplianceFromAlerts, timeLabel))
	}
	wb.Sheets = append(wb.Sheets, openPoliciesSheet(res))
	if !ds.SupportAPI() {
		wb.Sheets = append(wb.Sheets, scopedPoliciesSheet(res, timeLabel))
	}
	wb.Sheets = append(wb.Sheets, openSummarySheet(res))
	if !ds.SupportAPI() {
		wb.Sheets = append(wb.Sheets, scopedSummarySheet(res, timeLabel))
		wb.Sheets = append(wb.Sheets, deletedPoliciesSheet(res))
	}
	return wb
}

func utilizationSheet(ds *Dataset, res *domain.Results) domain.Sheet {
	accountsOn, accountsOff := countEnabled(ds.Accounts, func(a api.Account) *bool { return a.Enabled })
	rulesOn, rulesOff := countEnabled(ds.Rules, func(r api.AlertRule) *bool { return r.Enabled })
	integrationsOn, integrationsOff := countEnabled(ds.Integrations, func(i api.Integration) *bool { return i.Enabled })
	usersOn, usersOff := countEnabled(ds.Users, func(u api.User) *bool { return u.Enabled })

	var policiesOn, policiesOff, policiesCustom, policiesDefault int
	for _, policy := range ds.Policies {
		if policy.Enabled {
			policiesOn++
		} else {
			policiesOff++
		}
		if policy.SystemDefault {
			policiesDefault++
		} else {
			policiesCustom++
		}
	}

	return domain.Sheet{
		Name: sheetUtilization,
		Rows: []domain.Row{
			{"Number of Assets", res.Summary.AssetCount},
			blankRow(),
			{"Number of Cloud Accounts", len(ds.Accounts)},
			blankRow(),
			{"Cloud Accounts Disabled", accountsOff},
			{"Cloud Accounts Enabled", accountsOn},
			blankRow(),
			{"Number of Cloud Account Groups", len(ds.Groups)},
			blankRow(),
			{"Number of Alert Rules", len(ds.Rules)},
			blankRow(),
			{"Alert Rules Disabled", rulesOff},
			{"Alert Rules Enabled", rulesOn},
			blankRow(),
			{"Number of Integrations", len(ds.Integrations)},
			blankRow(),
			{"Integrations Disabled", integrationsOff},
			{"Integrations Enabled", integrationsOn},
			blankRow(),
			{"Number of Policies", len(ds.Policies)},
			blankRow(),
			{"Policies Disabled", policiesOff},
			{"Policies Enabled", policiesOn},
			blankRow(),
			{"Policies Custom", policiesCustom},
			{"Policies Default", policiesDefault},
			blankRow(),
			{"Number of Users", len(ds.Users)},
			blankRow(),
			{"Users Disabled", usersOff},
			{"Users Enabled", usersOn},
		},
	}
}

func standardsSheet(name string, rollups map[string]*domain.SeverityCounts, timeLabel string) domain.Sheet {
	rows := []domain.Row{standardHeader}
	for _, standard := range sortedKeys(rollups) {
		rollup := rollups[standard]
		rows = append(rows, domain.Row{standard, rollup.High, rollup.Medium, rollup.Low})
	}
	if timeLabel != "" {
		rows = appendTimeLabel(rows, timeLabel)
	}
	return domain.Sheet{Name: name, Rows: rows}
}

// openPoliciesSheet lists every policy sorted by name with its open alert
// count from the policy fold.
func openPoliciesSheet(res *domain.Results) domain.Sheet {
	rows := []domain.Row{policyHeader}
	for _, name := range sortedKeys(res.PolicyIDByName) {
		detail := res.Policies[res.PolicyIDByName[name]]
		rows = append(rows, policyRow(detail, detail.AlertCount))
	}
	return domain.Sheet{Name: sheetOpenByPolicy, Rows: rows}
}

// scopedPoliciesSheet lists only the policies that alerted inside the query
// window, with counts from the alert fold.
func scopedPoliciesSheet(res *domain.Results, timeLabel string) domain.Sheet {
	rows := []domain.Row{policyHeader}
	for _, name := range sortedKeys(res.PolicyCountsFromAlerts) {
		counts := res.PolicyCountsFromAlerts[name]
		detail := res.Policies[counts.PolicyID]
		rows = append(rows, policyRow(detail, counts.AlertCount))
	}
	rows = appendTimeLabel(rows, timeLabel)
	return domain.Sheet{Name: sheetAllByPolicy, Rows: rows}
}

func policyRow(detail *domain.PolicyDetail, alertCount int) domain.Row {
	return domain.Row{
		detail.Name,
		detail.Enabled,
		detail.UPI,
		detail.Severity,
		detail.Type,
		detail.Shiftable,
		detail.Remediable,
		alertCount,
		strings.Join(detail.ComplianceStandards, ","),
	}
}

func openSummarySheet(res *domain.Results) domain.Sheet {
	counts := res.AlertCountsFromPolicies
	return domain.Sheet{
		Name: sheetOpenSummary,
		Rows: []domain.Row{
			{"Number of Compliance Standards with Open Alerts", res.Summary.StandardsWithOpenAlerts},
			{"Number of Policies with Open Alerts", res.Summary.PoliciesWithOpenAlerts},
			blankRow(),
			{"Open Alerts", counts["open"]},
			blankRow(),
			{"Open Alerts High-Severity", counts["open_high"]},
			{"Open Alerts Medium-Severity", counts["open_medium"]},
			{"Open Alerts Low-Severity", counts["open_low"]},
			blankRow(),
			{"Open Anomaly Alerts", counts["anomaly"]},
			{"Open Audit Alerts", counts["audit_event"]},
			{"Open Config Alerts", counts["config"]},
			{"Open Data Alerts", counts["data"]},
			{"Open IAM Alerts", counts["iam"]},
			{"Open Network Alerts", counts["network"]},
			blankRow(),
			{"Open Alerts with IaC", counts["shiftable"]},
			{"Open Alerts with Remediation", counts["remediable"]},
			blankRow(),
			{"Open Alerts Generated by Custom Policies", counts["custom"]},
			{"Open Alerts Generated by Default Policies", counts["default"]},
		},
	}
}

func scopedSummarySheet(res *domain.Results, timeLabel string) domain.Sheet {
	totals := res.AlertTotalsByAlert
	rows := []domain.Row{
		{"Number of Compliance Standards with Alerts", res.Summary.StandardsWithScopedAlerts},
		blankRow(),
		{"Number of Policies with Alerts", res.Summary.PoliciesWithScopedAlerts},
		blankRow(),
		{"Number of Alerts", res.Summary.AlertCount},
		blankRow(),
		{"Anomaly Alerts", totals["anomaly"]},
		{"Audit Alerts", totals["audit_event"]},
		{"Config Alerts", totals["config"]},
		{"Data Alerts", totals["data"]},
		{"IAM Alerts", totals["iam"]},
		{"Network Alerts", totals["network"]},
		blankRow(),
		{"Open Alerts", totals["open"]},
		{"Dismissed Alerts", totals["dismissed"]},
		{"Resolved Alerts", totals["resolved"]},
		{"Snoozed Alerts", totals["snoozed"]},
		blankRow(),
		{"Open Alerts High-Severity", totals["open_high"]},
		{"Open Alerts Medium-Severity", totals["open_medium"]},
		{"Open Alerts Low-Severity", totals["open_low"]},
		blankRow(),
		{"Dismissed Alerts High-Severity", totals["dismissed_high"]},
		{"Dismissed Alerts Medium-Severity", totals["dismissed_medium"]},
		{"Dismissed Alerts Low-Severity", totals["dismissed_low"]},
		blankRow(),
		{"Resolved Alerts High-Severity", totals["resolved_high"]},
		{"Resolved Alerts Medium-Severity", totals["resolved_medium"]},
		{"Resolved Alerts Low-Severity", totals["resolved_low"]},
		blankRow(),
		{"Snoozed Alerts High-Severity", totals["snoozed_high"]},
		{"Snoozed Alerts Medium-Severity", totals["snoozed_medium"]},
		{"Snoozed Alerts Low-Severity", totals["snoozed_low"]},
		blankRow(),
		{"Resolved By Delete Policy", totals["policy_deleted"]},
		{"Resolved By Delete Resource", totals["resolved_deleted"]},
		{"Resolved By Update Resource", totals["resolved_updated"]},
		blankRow(),
		{"Alerts Generated by Policies w IaC", totals["shiftable"]},
		{"Alerts Generated by Policies w Remediation", totals["remediable"]},
		blankRow(),
		{"Alerts Generated by Custom Policies", totals["custom"]},
		{"Alerts Generated by Default Policies", totals["default"]},
		{"Alerts Generated by Disabled Policies", totals["policies_disabled"]},
	}
	rows = appendTimeLabel(rows, timeLabel)
	return domain.Sheet{Name: sheetAllSummary, Rows: rows}
}

func deletedPoliciesSheet(res *domain.Results) domain.Sheet {
	rows := []domain.Row{{"Deleted Policy", "Alert Count"}}
	for _, policyID := range sortedKeys(res.DeletedPolicies) {
		rows = append(rows, domain.Row{policyID, res.DeletedPolicies[policyID]})
	}
	return domain.Sheet{Name: sheetDeletedPolicies, Rows: rows}
}

func blankRow() domain.Row {
	return domain.Row{"", ""}
}

func appendTimeLabel(rows []domain.Row, timeLabel string) []domain.Row {
	rows = append(rows, domain.Row{""}, domain.Row{""})
	return append(rows, domain.Row{"Time Range: " + timeLabel, ""})
}

// countEnabled partitions records by their enabled flag. Records missing the
// flag count as neither enabled nor disabled.
func countEnabled[T any](items []T, enabled func(T) *bool) (on, off int) {
	for _, item := range items {
		flag := enabled(item)
		if flag == nil {
			continue
		}
		if *flag {
			on++
		} else {
			off++
		}
	}
	return on, off
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
