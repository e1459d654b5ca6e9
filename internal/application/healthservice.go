package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/ericfisherdev/passvault/internal/domain/model"
	"github.com/ericfisherdev/passvault/internal/domain/port/driven"
)

// Health check names.
const (
	CheckDatabase = "database"
	CheckVault    = "vault"
	CheckKDF      = "kdf"
	CheckKeyring  = "keyring"
)

// HealthService inspects the vault's schema, key verifier and secret cache.
// It depends only on port interfaces and never reads secrets beyond the cache
// lookup.
type HealthService struct {
	schema    driven.SchemaInspector
	verifiers driven.VerifierStore
	cache     driven.SecretCache
}

// NewHealthService creates a new HealthService with the required dependencies.
// cache may be nil.
func NewHealthService(schema driven.SchemaInspector, verifiers driven.VerifierStore, cache driven.SecretCache) *HealthService {
	return &HealthService{
		schema:    schema,
		verifiers: verifiers,
		cache:     cache,
	}
}

// Check runs every health check. Failures are reported in the returned
// report rather than as an error.
func (s *HealthService) Check(ctx context.Context) model.HealthReport {
	checks := []model.HealthCheck{s.checkDatabase(ctx)}

	verifier, vaultCheck := s.checkVault(ctx)
	checks = append(checks, vaultCheck)

	if verifier != nil {
		checks = append(checks, checkKDF(verifier))
		if s.cache != nil {
			checks = append(checks, s.checkKeyring(verifier))
		}
	}

	return model.HealthReport{
		Checks: checks,
		Status: combinedHealthStatus(checks),
	}
}

func (s *HealthService) checkDatabase(ctx context.Context) model.HealthCheck {
	version, dirty, err := s.schema.SchemaVersion(ctx)
	switch {
	case err != nil:
		return model.HealthCheck{Name: CheckDatabase, Status: model.HealthFailing, Detail: err.Error()}
	case dirty:
		return model.HealthCheck{Name: CheckDatabase, Status: model.HealthFailing, Detail: fmt.Sprintf("schema version %d is dirty", version)}
	default:
		return model.HealthCheck{Name: CheckDatabase, Status: model.HealthPassing, Detail: fmt.Sprintf("schema version %d", version)}
	}
}

func (s *HealthService) checkVault(ctx context.Context) (*model.KeyVerifier, model.HealthCheck) {
	verifier, err := s.verifiers.Get(ctx)
	switch {
	case errors.Is(err, model.ErrNotInitialized):
		return nil, model.HealthCheck{Name: CheckVault, Status: model.HealthWarning, Detail: "not initialized"}
	case err != nil:
		return nil, model.HealthCheck{Name: CheckVault, Status: model.HealthFailing, Detail: err.Error()}
	}
	return verifier, model.HealthCheck{
		Name:   CheckVault,
		Status: model.HealthPassing,
		Detail: fmt.Sprintf("vault %s created %s", verifier.VaultID, verifier.CreatedAt.Format("2006-01-02")),
	}
}

func checkKDF(verifier *model.KeyVerifier) model.HealthCheck {
	if verifier.Iterations < ProductionIterations {
		return model.HealthCheck{
			Name:   CheckKDF,
			Status: model.HealthWarning,
			Detail: fmt.Sprintf("key hash uses %d PBKDF2 iterations (test mode), production uses %d", verifier.Iterations, ProductionIterations),
		}
	}
	return model.HealthCheck{Name: CheckKDF, Status: model.HealthPassing, Detail: fmt.Sprintf("%d PBKDF2 iterations", verifier.Iterations)}
}

func (s *HealthService) checkKeyring(verifier *model.KeyVerifier) model.HealthCheck {
	_, err := s.cache.GetSecret(KeyringServicePrefix+verifier.VaultID, KeyringAccount)
	switch {
	case err == nil:
		return model.HealthCheck{Name: CheckKeyring, Status: model.HealthPassing, Detail: "encryption key cached"}
	case errors.Is(err, driven.ErrSecretNotFound):
		return model.HealthCheck{Name: CheckKeyring, Status: model.HealthWarning, Detail: "no cached encryption key, commands will prompt"}
	default:
		return model.HealthCheck{Name: CheckKeyring, Status: model.HealthWarning, Detail: fmt.Sprintf("secret cache unavailable: %v", err)}
	}
}

// combinedHealthStatus returns the worst status in checks.
// Priority: failing > warning > passing.
func combinedHealthStatus(checks []model.HealthCheck) model.HealthStatus {
	var hasFailing, hasWarning bool
	for _, c := range checks {
		switch c.Status {
		case model.HealthFailing:
			hasFailing = true
		case model.HealthWarning:
			hasWarning = true
		case model.HealthPassing:
		}
	}

	if hasFailing {
		return model.HealthFailing
	}
	if hasWarning {
		return model.HealthWarning
	}
	return model.HealthPassing
}
