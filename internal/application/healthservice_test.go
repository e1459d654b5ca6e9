package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/passvault/internal/domain/model"
)

type mockSchemaInspector struct {
	version uint
	dirty   bool
	err     error
}

func (m *mockSchemaInspector) SchemaVersion(context.Context) (uint, bool, error) {
	return m.version, m.dirty, m.err
}

func checkByName(t *testing.T, report model.HealthReport, name string) model.HealthCheck {
	t.Helper()
	for _, c := range report.Checks {
		if c.Name == name {
			return c
		}
	}
	require.Failf(t, "check not found", "no %q check in report", name)
	return model.HealthCheck{}
}

// --- combinedHealthStatus tests (table-driven) ---

func TestCombinedHealthStatus(t *testing.T) {
	tests := []struct {
		name   string
		checks []model.HealthCheck
		want   model.HealthStatus
	}{
		{name: "no checks", want: model.HealthPassing},
		{
			name:   "all passing",
			checks: []model.HealthCheck{{Status: model.HealthPassing}, {Status: model.HealthPassing}},
			want:   model.HealthPassing,
		},
		{
			name:   "warning beats passing",
			checks: []model.HealthCheck{{Status: model.HealthPassing}, {Status: model.HealthWarning}},
			want:   model.HealthWarning,
		},
		{
			name:   "failing beats warning",
			checks: []model.HealthCheck{{Status: model.HealthWarning}, {Status: model.HealthFailing}, {Status: model.HealthPassing}},
			want:   model.HealthFailing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, combinedHealthStatus(tt.checks))
		})
	}
}

// --- HealthService.Check tests ---

func TestHealthService_Uninitialized(t *testing.T) {
	svc := NewHealthService(&mockSchemaInspector{version: 1}, &mockVerifierStore{}, newMockSecretCache())

	report := svc.Check(context.Background())

	require.Len(t, report.Checks, 2)
	assert.Equal(t, model.HealthPassing, checkByName(t, report, CheckDatabase).Status)
	assert.Equal(t, model.HealthWarning, checkByName(t, report, CheckVault).Status)
	assert.Equal(t, model.HealthWarning, report.Status)
}

func TestHealthService_InitializedWithCachedKey(t *testing.T) {
	vault, store, cache := newTestVault()
	require.NoError(t, vault.SetKey(context.Background(), "k1"))

	svc := NewHealthService(&mockSchemaInspector{version: 1}, store, cache)
	report := svc.Check(context.Background())

	require.Len(t, report.Checks, 4)
	assert.Equal(t, model.HealthPassing, checkByName(t, report, CheckVault).Status)
	assert.Equal(t, model.HealthPassing, checkByName(t, report, CheckKeyring).Status)

	kdf := checkByName(t, report, CheckKDF)
	assert.Equal(t, model.HealthWarning, kdf.Status, "test iterations are below production")
	assert.Contains(t, kdf.Detail, "test mode")
	assert.Equal(t, model.HealthWarning, report.Status)
}

func TestHealthService_ProductionIterationsPass(t *testing.T) {
	store := &mockVerifierStore{verifier: &model.KeyVerifier{VaultID: "v1", Iterations: ProductionIterations}}
	svc := NewHealthService(&mockSchemaInspector{version: 1}, store, nil)

	report := svc.Check(context.Background())

	require.Len(t, report.Checks, 3, "keyring check is skipped without a cache")
	assert.Equal(t, model.HealthPassing, checkByName(t, report, CheckKDF).Status)
	assert.Equal(t, model.HealthPassing, report.Status)
}

func TestHealthService_KeyringStates(t *testing.T) {
	store := &mockVerifierStore{verifier: &model.KeyVerifier{VaultID: "v1", Iterations: ProductionIterations}}

	t.Run("absent", func(t *testing.T) {
		svc := NewHealthService(&mockSchemaInspector{version: 1}, store, newMockSecretCache())
		check := checkByName(t, svc.Check(context.Background()), CheckKeyring)
		assert.Equal(t, model.HealthWarning, check.Status)
		assert.Contains(t, check.Detail, "will prompt")
	})

	t.Run("backend down", func(t *testing.T) {
		cache := newMockSecretCache()
		cache.getErr = errBackendDown
		svc := NewHealthService(&mockSchemaInspector{version: 1}, store, cache)
		check := checkByName(t, svc.Check(context.Background()), CheckKeyring)
		assert.Equal(t, model.HealthWarning, check.Status)
		assert.Contains(t, check.Detail, "unavailable")
	})
}

func TestHealthService_DatabaseFailures(t *testing.T) {
	tests := []struct {
		name   string
		schema *mockSchemaInspector
		detail string
	}{
		{name: "dirty schema", schema: &mockSchemaInspector{version: 1, dirty: true}, detail: "dirty"},
		{name: "read error", schema: &mockSchemaInspector{err: errors.New("disk I/O error")}, detail: "disk I/O error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewHealthService(tt.schema, &mockVerifierStore{}, nil)
			report := svc.Check(context.Background())

			check := checkByName(t, report, CheckDatabase)
			assert.Equal(t, model.HealthFailing, check.Status)
			assert.Contains(t, check.Detail, tt.detail)
			assert.Equal(t, model.HealthFailing, report.Status)
		})
	}
}

func TestHealthService_VerifierStoreFailure(t *testing.T) {
	store := &mockVerifierStore{err: errors.New("database is locked")}
	svc := NewHealthService(&mockSchemaInspector{version: 1}, store, newMockSecretCache())

	report := svc.Check(context.Background())

	require.Len(t, report.Checks, 2)
	assert.Equal(t, model.HealthFailing, checkByName(t, report, CheckVault).Status)
	assert.Equal(t, model.HealthFailing, report.Status)
}
