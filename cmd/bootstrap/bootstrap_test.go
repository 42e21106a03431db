package bootstrap

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"hospital-admin/config"
	"hospital-admin/internal/domain/entity"
	"hospital-admin/internal/engine"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRegistryDefaultsToBuiltInTable(t *testing.T) {
	registry, err := loadRegistry(config.PolicyConfig{})
	require.NoError(t, err)

	access, err := registry.Access(entity.RoleReceptionist, engine.ResourcePatientRecord, engine.GroupClinical)
	require.NoError(t, err)
	assert.Equal(t, engine.NoAccess, access)
}

func TestLoadRegistryRejectsBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("roles:\n  nurse:\n    patient_record:\n      clinical: rw\n"), 0o600))

	_, err := loadRegistry(config.PolicyConfig{File: path})
	assert.True(t, errors.Is(err, engine.ErrConfiguration))
}

func TestExamplePolicyMatchesBuiltInTable(t *testing.T) {
	registry, err := loadRegistry(config.PolicyConfig{File: filepath.Join("..", "..", "config", "policy.example.yaml")})
	require.NoError(t, err)

	assert.Equal(t, engine.DefaultTable().Describe(), registry.Table().Describe())
}
