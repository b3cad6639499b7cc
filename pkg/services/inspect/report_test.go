package inspect

import (
	"testing"

	"github.com/de-tools/posture-atlas/pkg/models/api"
	"github.com/de-tools/posture-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func sheetNames(wb *domain.Workbook) []string {
	names := make([]string, len(wb.Sheets))
	for i, sheet := range wb.Sheets {
		names[i] = sheet.Name
	}
	return names
}

func findSheet(t *testing.T, wb *domain.Workbook, name string) domain.Sheet {
	t.Helper()
	for _, sheet := range wb.Sheets {
		if sheet.Name == name {
			return sheet
		}
	}
	t.Fatalf("sheet %q not found", name)
	return domain.Sheet{}
}

func TestBuildWorkbook_FullAPISheets(t *testing.T) {
	ds := &Dataset{
		Policies: []api.Policy{highPolicy()},
		Alerts:   []api.Alert{},
	}
	res := Run(ds)

	wb := BuildWorkbook(ds, res, "Past 1 Week")

	assert.Equal(t, []string{
		"Utilization",
		"Open Alerts by Standard",
		"Open Closed Alerts by Standard",
		"Open Alerts by Policy",
		"Open Closed Alerts by Policy",
		"Open Alerts Summary",
		"Open Closed Alerts Summary",
		"Deleted Policies",
	}, sheetNames(wb))
}

func TestBuildWorkbook_SupportModeOmitsScopedSheets(t *testing.T) {
	ds := &Dataset{
		Policies:         []api.Policy{highPolicy()},
		AggregatedAlerts: &api.AggregatedAlerts{},
	}
	res := Run(ds)

	wb := BuildWorkbook(ds, res, "Past 1 Week")

	assert.Equal(t, []string{
		"Utilization",
		"Open Alerts by Standard",
		"Open Alerts by Policy",
		"Open Alerts Summary",
	}, sheetNames(wb))
}

func TestBuildWorkbook_TimeRangeLabelRow(t *testing.T) {
	ds := &Dataset{
		Policies: []api.Policy{highPolicy()},
		Alerts:   []api.Alert{},
	}
	res := Run(ds)

	wb := BuildWorkbook(ds, res, "Past 2 Month")

	for _, name := range []string{"Open Closed Alerts by Standard", "Open Closed Alerts by Policy", "Open Closed Alerts Summary"} {
		sheet := findSheet(t, wb, name)
		last := sheet.Rows[len(sheet.Rows)-1]
		require.NotEmpty(t, last, "sheet %q", name)
		assert.Equal(t, "Time Range: Past 2 Month", last[0], "sheet %q", name)
	}
}

func TestBuildWorkbook_Utilization(t *testing.T) {
	ds := &Dataset{
		Assets: api.Inventory{Summary: api.InventorySummary{TotalResources: 42}},
		Policies: []api.Policy{
			{PolicyID: "p1", Name: "one", Enabled: true, Severity: "high", PolicyType: "config", SystemDefault: true},
			{PolicyID: "p2", Name: "two", Enabled: false, Severity: "low", PolicyType: "config"},
		},
		Alerts: []api.Alert{},
		Accounts: []api.Account{
			{AccountID: "a1", Enabled: boolPtr(true)},
			{AccountID: "a2", Enabled: boolPtr(false)},
			{AccountID: "a3"}, // no flag: counted as neither
		},
		Users:        []api.User{{Enabled: boolPtr(true)}},
		Groups:       []api.AccountGroup{{ID: "g1"}},
		Rules:        []api.AlertRule{{Enabled: boolPtr(false)}},
		Integrations: []api.Integration{},
	}
	res := Run(ds)

	wb := BuildWorkbook(ds, res, "Past 1 Week")
	sheet := findSheet(t, wb, "Utilization")

	values := make(map[string]any)
	for _, row := range sheet.Rows {
		if len(row) == 2 && row[0] != "" {
			values[row[0].(string)] = row[1]
		}
	}

	assert.Equal(t, 42, values["Number of Assets"])
	assert.Equal(t, 3, values["Number of Cloud Accounts"])
	assert.Equal(t, 1, values["Cloud Accounts Enabled"])
	assert.Equal(t, 1, values["Cloud Accounts Disabled"])
	assert.Equal(t, 1, values["Number of Cloud Account Groups"])
	assert.Equal(t, 1, values["Alert Rules Disabled"])
	assert.Equal(t, 0, values["Alert Rules Enabled"])
	assert.Equal(t, 0, values["Number of Integrations"])
	assert.Equal(t, 2, values["Number of Policies"])
	assert.Equal(t, 1, values["Policies Enabled"])
	assert.Equal(t, 1, values["Policies Disabled"])
	assert.Equal(t, 1, values["Policies Custom"])
	assert.Equal(t, 1, values["Policies Default"])
	assert.Equal(t, 1, values["Number of Users"])
	assert.Equal(t, 1, values["Users Enabled"])
}

func TestBuildWorkbook_PolicySheetSortedByName(t *testing.T) {
	ds := &Dataset{
		Policies: []api.Policy{
			{PolicyID: "p-z", Name: "zebra policy", Enabled: true, Severity: "low", PolicyType: "config", OpenAlertsCount: 1},
			{PolicyID: "p-a", Name: "aardvark policy", Enabled: true, Severity: "high", PolicyType: "network", OpenAlertsCount: 2},
		},
		Alerts: []api.Alert{},
	}
	res := Run(ds)

	wb := BuildWorkbook(ds, res, "Past 1 Week")
	sheet := findSheet(t, wb, "Open Alerts by Policy")

	require.Len(t, sheet.Rows, 3)
	assert.Equal(t, "Policy", sheet.Rows[0][0])
	assert.Equal(t, "aardvark policy", sheet.Rows[1][0])
	assert.Equal(t, "zebra policy", sheet.Rows[2][0])
	assert.Equal(t, 2, sheet.Rows[1][7])
}

func TestBuildWorkbook_DeletedPolicies(t *testing.T) {
	ds := &Dataset{
		Policies: []api.Policy{},
		Alerts: []api.Alert{
			{ID: "a1", Status: api.AlertStatusResolved, Reason: api.ReasonPolicyDeleted, Policy: api.AlertPolicy{PolicyID: "p-gone", PolicyType: "config"}},
			{ID: "a2", Status: api.AlertStatusResolved, Reason: api.ReasonPolicyDeleted, Policy: api.AlertPolicy{PolicyID: "p-gone", PolicyType: "config"}},
		},
	}
	res := Run(ds)

	wb := BuildWorkbook(ds, res, "Past 1 Week")
	sheet := findSheet(t, wb, "Deleted Policies")

	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, domain.Row{"p-gone", 2}, sheet.Rows[1])
}
