package engine

import (
	"reflect"
	"strings"

	"hospital-admin/internal/domain/entity"
)

// groupBinding ties a field-group name to the struct that holds it
type groupBinding struct {
	group Target
	field func(*entity.PatientRecord) any
}

// patientBindings is in canonical order. Authorization, merging and
// redaction all walk groups in this order so denials are deterministic.
var patientBindings = []groupBinding{
	{GroupIdentity, func(p *entity.PatientRecord) any { return &p.Identity }},
	{GroupClinical, func(p *entity.PatientRecord) any { return &p.Clinical }},
	{GroupAdmission, func(p *entity.PatientRecord) any { return &p.Admission }},
	{GroupAdministrative, func(p *entity.PatientRecord) any { return &p.Administrative }},
	{GroupDischarge, func(p *entity.PatientRecord) any { return &p.Discharge }},
}

var resourceTargets = map[ResourceType][]Target{
	ResourcePatientRecord: append(PatientGroups(), ActionCreate, ActionDelete),
	ResourceLeaveRequest:  {TargetOwn, TargetOthers, ActionApprove, ActionReject},
	ResourceUserAccount:   {ActionManage},
}

// groupFields holds the top-level json names of every group struct
var groupFields = func() map[Target][]string {
	fields := make(map[Target][]string, len(patientBindings))
	for _, b := range patientBindings {
		t := reflect.TypeOf(b.field(&entity.PatientRecord{})).Elem()
		fields[b.group] = jsonFieldNames(t)
	}
	return fields
}()

// PatientGroups returns the patient record field-groups in canonical order
func PatientGroups() []Target {
	groups := make([]Target, len(patientBindings))
	for i, b := range patientBindings {
		groups[i] = b.group
	}
	return groups
}

// Targets returns every group and action known for a resource type
func Targets(resource ResourceType) ([]Target, bool) {
	targets, ok := resourceTargets[resource]
	if !ok {
		return nil, false
	}
	out := make([]Target, len(targets))
	copy(out, targets)
	return out, true
}

// IsPatientGroup reports whether target names a patient record field-group
func IsPatientGroup(target Target) bool {
	_, ok := groupFields[target]
	return ok
}

// GroupFields lists the attributes that belong to a patient record group
func GroupFields(group Target) []string {
	fields := groupFields[group]
	out := make([]string, len(fields))
	copy(out, fields)
	return out
}

// GroupOf classifies a field path such as "clinical.blood_group" or a bare
// attribute name such as "blood_group" into its field-group.
func GroupOf(path string) (Target, bool) {
	if group, field, found := strings.Cut(path, "."); found {
		g := Target(group)
		if hasField(g, field) {
			return g, true
		}
		return "", false
	}
	for _, b := range patientBindings {
		if hasField(b.group, path) {
			return b.group, true
		}
	}
	return "", false
}

func hasField(group Target, field string) bool {
	for _, f := range groupFields[group] {
		if f == field {
			return true
		}
	}
	return false
}

func groupPointer(p *entity.PatientRecord, group Target) any {
	for _, b := range patientBindings {
		if b.group == group {
			return b.field(p)
		}
	}
	return nil
}

func jsonFieldNames(t reflect.Type) []string {
	names := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		names = append(names, name)
	}
	return names
}
