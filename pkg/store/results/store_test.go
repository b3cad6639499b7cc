package results

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefix(t *testing.T) {
	tests := []struct {
		name     string
		customer string
		want     string
	}{
		{"plain", "acme", "acme"},
		{"mixed case", "Acme", "acme"},
		{"spaces and punctuation", "Example Customer, Inc.", "examplecustomerinc"},
		{"ampersand", "Beispiel GmbH & Co", "beispielgmbhco"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Prefix(tt.customer))
		})
	}
}

func TestStore_Paths(t *testing.T) {
	store := NewStore("/tmp/out", "Example Customer")

	assert.Equal(t, filepath.Join("/tmp/out", "examplecustomer-policies.json"), store.Path(CategoryPolicies))
	assert.Equal(t, filepath.Join("/tmp/out", "examplecustomer.xlsx"), store.WorkbookPath())
}

func TestStore_WriteReadRoundtrip(t *testing.T) {
	store := NewStore(t.TempDir(), "acme")

	payload := []byte(`[{"policyId":"p1"}]`)
	require.NoError(t, store.Write(CategoryPolicies, payload))

	got, err := store.Read(CategoryPolicies)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestStore_WriteReplacesExisting(t *testing.T) {
	store := NewStore(t.TempDir(), "acme")

	require.NoError(t, store.Write(CategoryAlerts, []byte(`["old"]`)))
	require.NoError(t, store.Write(CategoryAlerts, []byte(`[]`)))

	got, err := store.Read(CategoryAlerts)
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), got)
}

func TestStore_ReadMissingFile(t *testing.T) {
	store := NewStore(t.TempDir(), "acme")

	_, err := store.Read(CategoryUsers)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "query result file does not exist")
}
