package inspect

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/de-tools/posture-atlas/pkg/models/api"
	"github.com/de-tools/posture-atlas/pkg/store/results"
)

// Dataset is every persisted category decoded into memory. Exactly one of
// Alerts and AggregatedAlerts is populated: the alerts file holds a JSON
// array on the full-API path and an object in support-API mode.
type Dataset struct {
	Assets           api.Inventory
	Policies         []api.Policy
	Alerts           []api.Alert
	AggregatedAlerts *api.AggregatedAlerts
	Users            []api.User
	Accounts         []api.Account
	Groups           []api.AccountGroup
	Rules            []api.AlertRule
	Integrations     []api.Integration
}

// SupportAPI reports whether the dataset was collected through the support
// endpoints, detected from the persisted alert format.
func (d *Dataset) SupportAPI() bool {
	return d.AggregatedAlerts != nil
}

// LoadDataset reads and decodes all category files. Every category must be
// present; a missing file means collect mode has not run.
func LoadDataset(store *results.Store) (*Dataset, error) {
	ds := &Dataset{}
	targets := map[results.Category]any{
		results.CategoryAssets:       &ds.Assets,
		results.CategoryPolicies:     &ds.Policies,
		results.CategoryUsers:        &ds.Users,
		results.CategoryAccounts:     &ds.Accounts,
		results.CategoryGroups:       &ds.Groups,
		results.CategoryRules:        &ds.Rules,
		results.CategoryIntegrations: &ds.Integrations,
	}
	for _, category := range results.Categories {
		raw, err := store.Read(category)
		if err != nil {
			return nil, err
		}
		if category == results.CategoryAlerts {
			if err := ds.decodeAlerts(raw); err != nil {
				return nil, err
			}
			continue
		}
		if err := json.Unmarshal(raw, targets[category]); err != nil {
			return nil, fmt.Errorf("failed to decode %s results: %w", category, err)
		}
	}
	return ds, nil
}

func (d *Dataset) decodeAlerts(raw []byte) error {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var agg api.AggregatedAlerts
		if err := json.Unmarshal(raw, &agg); err != nil {
			return fmt.Errorf("failed to decode aggregated alerts: %w", err)
		}
		d.AggregatedAlerts = &agg
		return nil
	}
	if err := json.Unmarshal(raw, &d.Alerts); err != nil {
		return fmt.Errorf("failed to decode alerts: %w", err)
	}
	return nil
}
