package collect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/de-tools/posture-atlas/pkg/models/api"
	"github.com/de-tools/posture-atlas/pkg/models/domain"
	"github.com/de-tools/posture-atlas/pkg/store/results"
	"github.com/rs/zerolog"
)

// API is the slice of the tenant client the collector depends on.
type API interface {
	Login(ctx context.Context) error
	Inventory(ctx context.Context) ([]byte, error)
	TimelineResources(ctx context.Context) ([]byte, error)
	Policies(ctx context.Context) ([]byte, error)
	SubmitAlertJob(ctx context.Context) (string, error)
	AlertJobStatus(ctx context.Context, id string) (string, error)
	DownloadAlertJob(ctx context.Context, id string) ([]byte, error)
	AlertAggregate(ctx context.Context, groupBy string) ([]byte, error)
	Users(ctx context.Context) ([]byte, error)
	Accounts(ctx context.Context) ([]byte, error)
	AccountChildren(ctx context.Context, cloudType, accountID string) ([]byte, error)
	AccountGroups(ctx context.Context) ([]byte, error)
	AlertRules(ctx context.Context) ([]byte, error)
	Integrations(ctx context.Context) ([]byte, error)
}

// Collector queries the tenant API once per category and persists each raw
// result. Any transport or API error fails the run; there is no partial
// continuation. The one exception is the alert job: a malformed or failed
// job skips the alerts category and the run carries on, matching the
// documented error taxonomy.
type Collector struct {
	api      API
	store    *results.Store
	settings domain.Settings
}

func New(api API, store *results.Store, settings domain.Settings) *Collector {
	return &Collector{api: api, store: store, settings: settings}
}

// Run executes a full collection pass.
func (c *Collector) Run(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	logger.Info().Msg("generating API token")
	if err := c.api.Login(ctx); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	steps := []struct {
		msg      string
		category results.Category
		collect  func(context.Context) error
	}{
		{"querying assets: " + c.settings.TimeRange.Label(), results.CategoryAssets, c.collectAssets},
		{"querying policies", results.CategoryPolicies, c.collectPolicies},
		{"querying alerts: " + c.settings.TimeRange.Label() + " (please wait)", results.CategoryAlerts, c.collectAlerts},
		{"querying users", results.CategoryUsers, c.collectUsers},
		{"querying accounts", results.CategoryAccounts, c.collectAccounts},
		{"querying account groups", results.CategoryGroups, c.collectAccountGroups},
		{"querying alert rules", results.CategoryRules, c.collectAlertRules},
		{"querying integrations", results.CategoryIntegrations, c.collectIntegrations},
	}
	for _, step := range steps {
		logger.Info().Msg(step.msg)
		if err := step.collect(ctx); err != nil {
			return err
		}
		logger.Info().Msgf("results saved as: %s", c.store.Path(step.category))
	}
	return nil
}

// collectAssets persists the inventory summary. The support path only has a
// resource timeline, so the first entry's count is rewrapped into the same
// summary shape the inventory endpoint returns.
func (c *Collector) collectAssets(ctx context.Context) error {
	if !c.settings.SupportAPI {
		data, err := c.api.Inventory(ctx)
		if err != nil {
			return err
		}
		return c.store.Write(results.CategoryAssets, data)
	}

	raw, err := c.api.TimelineResources(ctx)
	if err != nil {
		return err
	}
	var entries []api.TimelineEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return fmt.Errorf("failed to decode resource timeline: %w", err)
	}
	summary := api.Inventory{}
	if len(entries) > 0 {
		summary.Summary.TotalResources = entries[0].Resources
	}
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to encode asset summary: %w", err)
	}
	return c.store.Write(results.CategoryAssets, data)
}

func (c *Collector) collectPolicies(ctx context.Context) error {
	data, err := c.api.Policies(ctx)
	if err != nil {
		return err
	}
	return c.store.Write(results.CategoryPolicies, data)
}

func (c *Collector) collectAlerts(ctx context.Context) error {
	if c.settings.SupportAPI {
		return c.composeAggregatedAlerts(ctx)
	}
	return c.downloadAlertJob(ctx)
}

// downloadAlertJob runs the submit → poll → download sequence. The poll loop
// has no backoff; it is bounded only by the API's own completion latency.
// Malformed responses and unexpected terminal statuses abandon the alerts
// category without failing the run.
func (c *Collector) downloadAlertJob(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	id, err := c.api.SubmitAlertJob(ctx)
	if err != nil {
		if errors.Is(err, api.ErrMissingField) {
			logger.Error().Err(err).Msg("alert job submission malformed, skipping alerts")
			return nil
		}
		return err
	}

	status, err := c.api.AlertJobStatus(ctx, id)
	if err != nil {
		if errors.Is(err, api.ErrMissingField) {
			logger.Error().Err(err).Msg("alert job status malformed, skipping alerts")
			return nil
		}
		return err
	}
	for status == api.JobStatusInProgress {
		logger.Info().Msgf("checking: %s", status)
		status, err = c.api.AlertJobStatus(ctx, id)
		if err != nil {
			if errors.Is(err, api.ErrMissingField) {
				logger.Error().Err(err).Msg("alert job status malformed, skipping alerts")
				return nil
			}
			return err
		}
	}

	if status != api.JobStatusReadyToDownload {
		logger.Error().Str("status", status).Msg("alert job ended in unexpected status, skipping alerts")
		return nil
	}
	data, err := c.api.DownloadAlertJob(ctx, id)
	if err != nil {
		return err
	}
	return c.store.Write(results.CategoryAlerts, data)
}

// composeAggregatedAlerts builds the support-mode alert document from four
// group-by queries. The persisted shape is a JSON object, which is how
// process mode recognizes support-mode data later.
func (c *Collector) composeAggregatedAlerts(ctx context.Context) error {
	var agg api.AggregatedAlerts
	targets := []struct {
		groupBy string
		into    any
	}{
		{api.GroupByPolicyName, &agg.ByPolicy},
		{api.GroupByPolicyType, &agg.ByType},
		{api.GroupByPolicySeverity, &agg.BySeverity},
		{api.GroupByAlertStatus, &agg.ByStatus},
	}
	for _, target := range targets {
		raw, err := c.api.AlertAggregate(ctx, target.groupBy)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(raw, target.into); err != nil {
			return fmt.Errorf("failed to decode alert aggregate by %s: %w", target.groupBy, err)
		}
	}

	data, err := json.MarshalIndent(agg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode aggregated alerts: %w", err)
	}
	return c.store.Write(results.CategoryAlerts, data)
}

func (c *Collector) collectUsers(ctx context.Context) error {
	data, err := c.api.Users(ctx)
	if err != nil {
		return err
	}
	return c.store.Write(results.CategoryUsers, data)
}

// collectAccounts flattens organization accounts into their child accounts.
// The children list reported by the API includes a row for the parent itself
// with a zero child count; the parent's original count is copied onto it.
func (c *Collector) collectAccounts(ctx context.Context) error {
	raw, err := c.api.Accounts(ctx)
	if err != nil {
		return err
	}
	var accounts []api.Account
	if err := json.Unmarshal(raw, &accounts); err != nil {
		return fmt.Errorf("failed to decode accounts: %w", err)
	}

	flattened := make([]api.Account, 0, len(accounts))
	for _, account := range accounts {
		if !c.hasChildren(account) {
			flattened = append(flattened, account)
			continue
		}
		childrenRaw, err := c.api.AccountChildren(ctx, account.CloudType, account.AccountID)
		if err != nil {
			return err
		}
		children, err := flattenChildren(account, childrenRaw)
		if err != nil {
			return err
		}
		flattened = append(flattened, children...)
	}

	data, err := json.Marshal(flattened)
	if err != nil {
		return fmt.Errorf("failed to encode accounts: %w", err)
	}
	return c.store.Write(results.CategoryAccounts, data)
}

// hasChildren decides whether an account needs expansion. The support
// endpoint does not return accountType, so the child count stands in.
func (c *Collector) hasChildren(account api.Account) bool {
	if c.settings.SupportAPI {
		return account.NumberOfChildAccounts > 0
	}
	return account.AccountType == api.AccountTypeOrganization
}

func flattenChildren(parent api.Account, raw []byte) ([]api.Account, error) {
	var children []api.Account
	if err := json.Unmarshal(raw, &children); err != nil {
		return nil, fmt.Errorf("failed to decode child accounts of %s: %w", parent.AccountID, err)
	}
	for i := range children {
		if children[i].AccountID == parent.AccountID {
			children[i].NumberOfChildAccounts = parent.NumberOfChildAccounts
		}
	}
	return children, nil
}

func (c *Collector) collectAccountGroups(ctx context.Context) error {
	data, err := c.api.AccountGroups(ctx)
	if err != nil {
		return err
	}
	return c.store.Write(results.CategoryGroups, data)
}

func (c *Collector) collectAlertRules(ctx context.Context) error {
	data, err := c.api.AlertRules(ctx)
	if err != nil {
		return err
	}
	return c.store.Write(results.CategoryRules, data)
}

func (c *Collector) collectIntegrations(ctx context.Context) error {
	data, err := c.api.Integrations(ctx)
	if err != nil {
		return err
	}
	return c.store.Write(results.CategoryIntegrations, data)
}
