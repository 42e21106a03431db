package engine

import (
	"fmt"
	"sort"
	"strings"

	"hospital-admin/internal/domain/entity"

	"github.com/spf13/viper"
)

// ResourceType names a kind of record the engine governs
type ResourceType string

const (
	ResourcePatientRecord ResourceType = "patient_record"
	ResourceLeaveRequest  ResourceType = "leave_request"
	ResourceUserAccount   ResourceType = "user_account"
)

// Target is either a field-group or an action on a resource
type Target string

// Patient record field-groups
const (
	GroupIdentity       Target = "identity"
	GroupClinical       Target = "clinical"
	GroupAdmission      Target = "admission"
	GroupAdministrative Target = "administrative"
	GroupDischarge      Target = "discharge"
)

// Actions
const (
	ActionCreate  Target = "create"
	ActionDelete  Target = "delete"
	ActionApprove Target = "approve"
	ActionReject  Target = "reject"
	ActionManage  Target = "manage"

	// Leave requests are scoped by who filed them
	TargetOwn    Target = "own"
	TargetOthers Target = "others"
)

// Intent is the kind of access requested on a target
type Intent int

const (
	Read Intent = iota
	Write
)

func (i Intent) String() string {
	if i == Write {
		return "write"
	}
	return "read"
}

// Access is one cell of the capability table
type Access struct {
	Read  bool
	Write bool
}

var (
	NoAccess  = Access{}
	ReadOnly  = Access{Read: true}
	WriteOnly = Access{Write: true}
	ReadWrite = Access{Read: true, Write: true}
)

// Allows reports whether the cell grants the given intent
func (a Access) Allows(intent Intent) bool {
	if intent == Write {
		return a.Write
	}
	return a.Read
}

func (a Access) String() string {
	switch {
	case a.Read && a.Write:
		return "rw"
	case a.Read:
		return "r"
	case a.Write:
		return "w"
	}
	return "none"
}

// ParseAccess reads the compact notation used in policy files: rw, r, w or
// none. A bare - is a YAML sequence marker, so a dash only works quoted ("-").
func ParseAccess(raw string) (Access, error) {
	switch strings.TrimSpace(strings.ToLower(raw)) {
	case "rw", "wr":
		return ReadWrite, nil
	case "r":
		return ReadOnly, nil
	case "w":
		return WriteOnly, nil
	case "-", "", "none":
		return NoAccess, nil
	}
	return NoAccess, configErrorf("unknown access %q", raw)
}

// Capabilities maps every resource a role touches to its per-target access
type Capabilities map[ResourceType]map[Target]Access

// Table is the full role capability table. It is data: adding a role or a
// group means editing a Table, never the evaluator.
type Table map[entity.Role]Capabilities

// DefaultTable returns the built-in hospital policy
func DefaultTable() Table {
	staffLeave := map[Target]Access{TargetOwn: ReadWrite}

	return Table{
		entity.RoleAdministrator: {
			ResourcePatientRecord: {
				GroupIdentity:       ReadWrite,
				GroupClinical:       ReadWrite,
				GroupAdmission:      ReadWrite,
				GroupAdministrative: ReadWrite,
				GroupDischarge:      ReadWrite,
				ActionCreate:        WriteOnly,
				ActionDelete:        WriteOnly,
			},
			ResourceLeaveRequest: {
				TargetOwn:     ReadWrite,
				TargetOthers:  ReadOnly,
				ActionApprove: WriteOnly,
				ActionReject:  WriteOnly,
			},
			ResourceUserAccount: {
				ActionManage: ReadWrite,
			},
		},
		entity.RolePhysician: {
			ResourcePatientRecord: {
				GroupIdentity:  ReadWrite,
				GroupClinical:  ReadWrite,
				GroupAdmission: ReadWrite,
				GroupDischarge: ReadWrite,
			},
			ResourceLeaveRequest: copyTargets(staffLeave),
		},
		entity.RoleNurse: {
			ResourcePatientRecord: {
				GroupIdentity:  ReadWrite,
				GroupClinical:  ReadWrite,
				GroupAdmission: ReadWrite,
				GroupDischarge: ReadWrite,
				ActionCreate:   WriteOnly,
			},
			ResourceLeaveRequest: copyTargets(staffLeave),
		},
		entity.RoleIntern: {
			ResourcePatientRecord: {
				GroupIdentity:  ReadOnly,
				GroupClinical:  ReadOnly,
				GroupAdmission: ReadOnly,
				GroupDischarge: ReadOnly,
			},
			ResourceLeaveRequest: copyTargets(staffLeave),
		},
		entity.RoleReceptionist: {
			ResourcePatientRecord: {
				GroupIdentity:       ReadWrite,
				GroupAdmission:      ReadWrite,
				GroupAdministrative: ReadWrite,
				ActionCreate:        WriteOnly,
			},
			ResourceLeaveRequest: copyTargets(staffLeave),
		},
		entity.RolePatient: {
			ResourcePatientRecord: {
				GroupIdentity:  ReadOnly,
				GroupClinical:  ReadOnly,
				GroupAdmission: ReadOnly,
				GroupDischarge: ReadOnly,
			},
		},
	}
}

// Registry is a validated, immutable capability table
type Registry struct {
	table Table
}

// NewRegistry validates the table and takes a private copy of it.
// Any defect is reported as *ConfigurationError.
func NewRegistry(table Table) (*Registry, error) {
	if len(table) == 0 {
		return nil, configErrorf("capability table is empty")
	}

	for _, role := range entity.Roles {
		if _, ok := table[role]; !ok {
			return nil, configErrorf("role %q has no capability entry", role)
		}
	}

	copied := make(Table, len(table))
	for role, caps := range table {
		if !role.IsValid() {
			return nil, configErrorf("unknown role %q", role)
		}
		copiedCaps := make(Capabilities, len(caps))
		for resource, targets := range caps {
			known, ok := Targets(resource)
			if !ok {
				return nil, configErrorf("role %q: unknown resource type %q", role, resource)
			}
			for target := range targets {
				if !containsTarget(known, target) {
					return nil, configErrorf("role %q: unknown target %q for %s", role, target, resource)
				}
			}
			copiedCaps[resource] = copyTargets(targets)
		}
		copied[role] = copiedCaps
	}

	return &Registry{table: copied}, nil
}

// Capabilities returns a copy of everything the role may touch
func (r *Registry) Capabilities(role entity.Role) (Capabilities, error) {
	caps, ok := r.table[role]
	if !ok {
		return nil, configErrorf("unknown role %q", role)
	}
	out := make(Capabilities, len(caps))
	for resource, targets := range caps {
		out[resource] = copyTargets(targets)
	}
	return out, nil
}

// Access looks up one cell. Unknown roles, resource types or targets are
// configuration defects; a known target missing from the role's row is NoAccess.
func (r *Registry) Access(role entity.Role, resource ResourceType, target Target) (Access, error) {
	caps, ok := r.table[role]
	if !ok {
		return NoAccess, configErrorf("unknown role %q", role)
	}
	known, ok := Targets(resource)
	if !ok {
		return NoAccess, configErrorf("unknown resource type %q", resource)
	}
	if !containsTarget(known, target) {
		return NoAccess, configErrorf("unknown target %q for %s", target, resource)
	}
	return caps[resource][target], nil
}

// Table returns a copy of the validated table
func (r *Registry) Table() Table {
	out := make(Table, len(r.table))
	for role := range r.table {
		out[role], _ = r.Capabilities(role)
	}
	return out
}

// LoadTable reads a capability table from a yaml, json or toml file.
//
// Expected shape:
//
//	roles:
//	  administrator:
//	    patient_record:
//	      identity: rw
//	      create: w
func LoadTable(path string) (Table, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, configErrorf("read %s: %v", path, err)
	}

	var raw map[string]map[string]map[string]string
	if err := v.UnmarshalKey("roles", &raw); err != nil {
		return nil, configErrorf("decode %s: %v", path, err)
	}
	if len(raw) == 0 {
		return nil, configErrorf("%s defines no roles", path)
	}

	table := make(Table, len(raw))
	for roleName, resources := range raw {
		role, err := entity.ParseRole(roleName)
		if err != nil {
			return nil, configErrorf("%s: %v", path, err)
		}
		caps := make(Capabilities, len(resources))
		for resource, targets := range resources {
			cells := make(map[Target]Access, len(targets))
			for target, notation := range targets {
				access, err := ParseAccess(notation)
				if err != nil {
					return nil, configErrorf("%s: role %q %s.%s: %v", path, roleName, resource, target, err)
				}
				cells[Target(target)] = access
			}
			caps[ResourceType(resource)] = cells
		}
		table[role] = caps
	}
	return table, nil
}

// Describe renders the table as sorted "role resource target access" lines
func (t Table) Describe() []string {
	var lines []string
	for role, caps := range t {
		for resource, targets := range caps {
			for target, access := range targets {
				lines = append(lines, fmt.Sprintf("%s %s %s %s", role, resource, target, access))
			}
		}
	}
	sort.Strings(lines)
	return lines
}

func copyTargets(in map[Target]Access) map[Target]Access {
	out := make(map[Target]Access, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func containsTarget(targets []Target, target Target) bool {
	for _, t := range targets {
		if t == target {
			return true
		}
	}
	return false
}
