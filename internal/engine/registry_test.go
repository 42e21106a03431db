package engine

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"hospital-admin/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type RegistrySuite struct {
	suite.Suite
	registry *Registry
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

func (s *RegistrySuite) SetupTest() {
	var err error
	s.registry, err = NewRegistry(DefaultTable())
	s.Require().NoError(err)
}

// =============================================================================
// Construction
// =============================================================================

func (s *RegistrySuite) TestNewRegistry() {
	s.Run("empty table is a configuration error", func() {
		_, err := NewRegistry(Table{})
		s.ErrorIs(err, ErrConfiguration)
	})

	s.Run("missing role is a configuration error", func() {
		table := DefaultTable()
		delete(table, entity.RoleIntern)

		_, err := NewRegistry(table)
		var cfgErr *ConfigurationError
		s.Require().ErrorAs(err, &cfgErr)
		s.Contains(cfgErr.Reason, "intern")
	})

	s.Run("unknown role is a configuration error", func() {
		table := DefaultTable()
		table[entity.Role("janitor")] = Capabilities{}

		_, err := NewRegistry(table)
		s.ErrorIs(err, ErrConfiguration)
	})

	s.Run("unknown resource type is a configuration error", func() {
		table := DefaultTable()
		table[entity.RoleNurse]["pharmacy_stock"] = map[Target]Access{"read": ReadOnly}

		_, err := NewRegistry(table)
		s.ErrorIs(err, ErrConfiguration)
	})

	s.Run("unknown target is a configuration error", func() {
		table := DefaultTable()
		table[entity.RoleNurse][ResourcePatientRecord]["billing"] = ReadWrite

		_, err := NewRegistry(table)
		s.ErrorIs(err, ErrConfiguration)
	})

	s.Run("registry keeps its own copy of the table", func() {
		table := DefaultTable()
		r, err := NewRegistry(table)
		s.Require().NoError(err)

		table[entity.RoleIntern][ResourcePatientRecord][GroupClinical] = ReadWrite

		access, err := r.Access(entity.RoleIntern, ResourcePatientRecord, GroupClinical)
		s.NoError(err)
		s.Equal(ReadOnly, access)
	})
}

// =============================================================================
// Lookups
// =============================================================================

func (s *RegistrySuite) TestPatientRecordTable() {
	want := map[entity.Role]map[Target]Access{
		entity.RoleAdministrator: {GroupIdentity: ReadWrite, GroupClinical: ReadWrite, GroupAdmission: ReadWrite, GroupAdministrative: ReadWrite, GroupDischarge: ReadWrite},
		entity.RolePhysician:     {GroupIdentity: ReadWrite, GroupClinical: ReadWrite, GroupAdmission: ReadWrite, GroupAdministrative: NoAccess, GroupDischarge: ReadWrite},
		entity.RoleNurse:         {GroupIdentity: ReadWrite, GroupClinical: ReadWrite, GroupAdmission: ReadWrite, GroupAdministrative: NoAccess, GroupDischarge: ReadWrite},
		entity.RoleIntern:        {GroupIdentity: ReadOnly, GroupClinical: ReadOnly, GroupAdmission: ReadOnly, GroupAdministrative: NoAccess, GroupDischarge: ReadOnly},
		entity.RoleReceptionist:  {GroupIdentity: ReadWrite, GroupClinical: NoAccess, GroupAdmission: ReadWrite, GroupAdministrative: ReadWrite, GroupDischarge: NoAccess},
		entity.RolePatient:       {GroupIdentity: ReadOnly, GroupClinical: ReadOnly, GroupAdmission: ReadOnly, GroupAdministrative: NoAccess, GroupDischarge: ReadOnly},
	}

	for role, groups := range want {
		for group, access := range groups {
			got, err := s.registry.Access(role, ResourcePatientRecord, group)
			s.NoError(err)
			s.Equal(access, got, "%s/%s", role, group)
		}
	}
}

func (s *RegistrySuite) TestAccessErrors() {
	s.Run("unknown role", func() {
		_, err := s.registry.Access(entity.Role("janitor"), ResourcePatientRecord, GroupIdentity)
		s.ErrorIs(err, ErrConfiguration)
	})

	s.Run("unknown resource type", func() {
		_, err := s.registry.Access(entity.RoleNurse, ResourceType("invoice"), GroupIdentity)
		s.ErrorIs(err, ErrConfiguration)
	})

	s.Run("capabilities for unknown role", func() {
		_, err := s.registry.Capabilities(entity.Role("janitor"))
		s.ErrorIs(err, ErrConfiguration)
	})

	s.Run("capabilities returns a copy", func() {
		caps, err := s.registry.Capabilities(entity.RoleIntern)
		s.Require().NoError(err)
		caps[ResourcePatientRecord][GroupClinical] = ReadWrite

		access, err := s.registry.Access(entity.RoleIntern, ResourcePatientRecord, GroupClinical)
		s.NoError(err)
		s.Equal(ReadOnly, access)
	})
}

// =============================================================================
// Policy files
// =============================================================================

func TestParseAccess(t *testing.T) {
	cases := map[string]Access{"rw": ReadWrite, "r": ReadOnly, "w": WriteOnly, "none": NoAccess, "-": NoAccess, " RW ": ReadWrite}
	for raw, want := range cases {
		got, err := ParseAccess(raw)
		require.NoError(t, err)
		assert.Equal(t, want, got, raw)
	}

	_, err := ParseAccess("rwx")
	assert.True(t, errors.Is(err, ErrConfiguration))
}

func TestLoadTable(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid yaml builds a registry", func(t *testing.T) {
		path := filepath.Join(dir, "policy.yaml")
		content := `
roles:
  administrator:
    patient_record:
      identity: rw
      administrative: rw
      create: w
    leave_request:
      own: rw
      others: r
      approve: w
      reject: w
  physician:
    patient_record:
      clinical: rw
    leave_request:
      own: rw
  nurse:
    leave_request:
      own: rw
  intern:
    leave_request:
      own: rw
  receptionist:
    patient_record:
      administrative: rw
  patient:
    patient_record:
      identity: r
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		table, err := LoadTable(path)
		require.NoError(t, err)

		r, err := NewRegistry(table)
		require.NoError(t, err)

		access, err := r.Access(entity.RoleReceptionist, ResourcePatientRecord, GroupAdministrative)
		require.NoError(t, err)
		assert.Equal(t, ReadWrite, access)

		access, err = r.Access(entity.RolePhysician, ResourcePatientRecord, GroupIdentity)
		require.NoError(t, err)
		assert.Equal(t, NoAccess, access)
	})

	t.Run("deny cells written as none or a quoted dash", func(t *testing.T) {
		path := filepath.Join(dir, "deny.yaml")
		content := `
roles:
  administrator:
    patient_record:
      identity: rw
      clinical: none
      admission: "-"
  physician:
    leave_request:
      own: rw
  nurse:
    leave_request:
      own: rw
  intern:
    leave_request:
      own: rw
  receptionist:
    leave_request:
      own: rw
  patient:
    patient_record:
      identity: r
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		table, err := LoadTable(path)
		require.NoError(t, err)

		r, err := NewRegistry(table)
		require.NoError(t, err)

		for _, group := range []Target{GroupClinical, GroupAdmission} {
			access, err := r.Access(entity.RoleAdministrator, ResourcePatientRecord, group)
			require.NoError(t, err)
			assert.Equal(t, NoAccess, access, group)
		}
		assert.Equal(t, "none", NoAccess.String())
	})

	t.Run("unknown role name", func(t *testing.T) {
		path := filepath.Join(dir, "bad_role.yaml")
		require.NoError(t, os.WriteFile(path, []byte("roles:\n  janitor:\n    patient_record:\n      identity: r\n"), 0o600))

		_, err := LoadTable(path)
		assert.ErrorIs(t, err, ErrConfiguration)
	})

	t.Run("bad access notation", func(t *testing.T) {
		path := filepath.Join(dir, "bad_access.yaml")
		require.NoError(t, os.WriteFile(path, []byte("roles:\n  nurse:\n    patient_record:\n      identity: full\n"), 0o600))

		_, err := LoadTable(path)
		assert.ErrorIs(t, err, ErrConfiguration)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadTable(filepath.Join(dir, "absent.yaml"))
		assert.ErrorIs(t, err, ErrConfiguration)
	})
}

func TestTableDescribeIsSorted(t *testing.T) {
	lines := DefaultTable().Describe()
	require.NotEmpty(t, lines)
	assert.IsNonDecreasing(t, lines)
	assert.Contains(t, lines, "receptionist patient_record administrative rw")
}
