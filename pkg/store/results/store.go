package results

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Category names one collected data set. Each category is persisted to its
// own file so that process mode can run without tenant credentials.
type Category string

const (
	CategoryAssets       Category = "assets"
	CategoryPolicies     Category = "policies"
	CategoryAlerts       Category = "alerts"
	CategoryUsers        Category = "users"
	CategoryAccounts     Category = "accounts"
	CategoryGroups       Category = "groups"
	CategoryRules        Category = "rules"
	CategoryIntegrations Category = "integrations"
)

// Categories lists every category in collection order.
var Categories = []Category{
	CategoryAssets,
	CategoryPolicies,
	CategoryAlerts,
	CategoryUsers,
	CategoryAccounts,
	CategoryGroups,
	CategoryRules,
	CategoryIntegrations,
}

var nonWord = regexp.MustCompile(`\W+`)

// Prefix normalizes a customer name into the file prefix: non-alphanumerics
// stripped, lowercased.
func Prefix(customerName string) string {
	return strings.ToLower(nonWord.ReplaceAllString(customerName, ""))
}

// Store reads and writes per-category result files under a directory.
type Store struct {
	dir    string
	prefix string
}

func NewStore(dir, customerName string) *Store {
	return &Store{dir: dir, prefix: Prefix(customerName)}
}

// Path returns the file path for a category, `<prefix>-<category>.json`.
func (s *Store) Path(c Category) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s-%s.json", s.prefix, c))
}

// WorkbookPath returns the spreadsheet output path, `<prefix>.xlsx`.
func (s *Store) WorkbookPath() string {
	return filepath.Join(s.dir, s.prefix+".xlsx")
}

// Write replaces the category file with data.
func (s *Store) Write(c Category, data []byte) error {
	if err := os.WriteFile(s.Path(c), data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s results: %w", c, err)
	}
	return nil
}

// Read returns the persisted category file. A missing file is an error: it
// means collect mode has not run for this customer.
func (s *Store) Read(c Category) ([]byte, error) {
	data, err := os.ReadFile(s.Path(c))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("query result file does not exist: %s", s.Path(c))
		}
		return nil, fmt.Errorf("failed to read %s results: %w", c, err)
	}
	return data, nil
}
