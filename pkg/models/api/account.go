package api

// AccountTypeOrganization marks a cloud account that owns child accounts.
const AccountTypeOrganization = "organization"

// Account is a cloud account onboarded to the tenant. Enabled is a pointer
// so that records missing the field count as neither enabled nor disabled.
type Account struct {
	AccountID             string `json:"accountId"`
	Name                  string `json:"name,omitempty"`
	CloudType             string `json:"cloudType"`
	AccountType           string `json:"accountType,omitempty"`
	Enabled               *bool  `json:"enabled,omitempty"`
	NumberOfChildAccounts int    `json:"numberOfChildAccounts"`
}

// AccountGroup is a named grouping of cloud accounts.
type AccountGroup struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
