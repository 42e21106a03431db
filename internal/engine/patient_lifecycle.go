package engine

import (
	"bytes"
	"encoding/json"
	"reflect"
	"sort"
	"strings"

	"hospital-admin/internal/domain/entity"

	"github.com/google/uuid"
)

// StateIntake is the moment before a patient record is first saved.
// It is never persisted; saved records are ongoing or discharged.
const StateIntake = "intake"

// PatientPatch is a partial update keyed by field-group. Each value is a JSON
// object whose keys are merged into the group; absent keys are left alone and
// null resets a field. Wire shape: {"clinical": {"blood_group": "O+"}}.
type PatientPatch map[Target]json.RawMessage

// Groups returns the touched groups in canonical order, or a ValidationError
// for a key that is not a patient record group.
func (p PatientPatch) Groups() ([]Target, error) {
	keys := make([]string, 0, len(p))
	for g := range p {
		keys = append(keys, string(g))
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !IsPatientGroup(Target(k)) {
			return nil, invalid(k, "unknown field-group")
		}
	}

	touched := make([]Target, 0, len(p))
	for _, g := range PatientGroups() {
		if _, ok := p[g]; ok {
			touched = append(touched, g)
		}
	}
	return touched, nil
}

// intakeGroups are the groups that may be supplied before the record exists.
// Discharge data can only be added to a saved record.
var intakeGroups = map[Target]bool{
	GroupIdentity:       true,
	GroupClinical:       true,
	GroupAdmission:      true,
	GroupAdministrative: true,
}

// AdmitPatient runs the intake transition: it authorizes record creation and
// every supplied group, then returns a new ongoing record. The returned record
// has no ID; storage assigns one.
func (e *Engine) AdmitPatient(actor entity.Actor, ownerID *uuid.UUID, draft PatientPatch) (*entity.PatientRecord, error) {
	if d := e.Evaluate(actor, ResourcePatientRecord, ActionCreate, Write, ownerID); !d.Allowed {
		return nil, d.Reason
	}

	touched, err := draft.Groups()
	if err != nil {
		return nil, err
	}
	if err := e.authorizeWrites(actor, touched, ownerID); err != nil {
		return nil, err
	}
	for _, g := range touched {
		if !intakeGroups[g] {
			return nil, invalid(string(g), "cannot be set at intake")
		}
	}

	record := &entity.PatientRecord{OwnerID: cloneUUID(ownerID)}
	for _, g := range touched {
		if err := mergeGroup(g, groupPointer(record, g), draft[g]); err != nil {
			return nil, err
		}
	}

	if strings.TrimSpace(record.Identity.FullName) == "" {
		return nil, invalid("identity.full_name", "is required")
	}
	record.Administrative.DeriveTotalCost()

	e.observer.ObserveTransition(ResourcePatientRecord, StateIntake, string(record.Status()))
	return record, nil
}

// ApplyPatientUpdate authorizes and applies a patch to the latest known
// snapshot. Either every touched group is authorized and merged or nothing is:
// current is never modified and the result is a fresh copy.
func (e *Engine) ApplyPatientUpdate(actor entity.Actor, current *entity.PatientRecord, patch PatientPatch) (*entity.PatientRecord, error) {
	if current == nil {
		return nil, invalid("record", "is required")
	}
	if len(patch) == 0 {
		return nil, invalid("patch", "is empty")
	}

	touched, err := patch.Groups()
	if err != nil {
		return nil, err
	}
	if err := e.authorizeWrites(actor, touched, current.OwnerID); err != nil {
		return nil, err
	}

	from := current.Status()

	next, err := clonePatient(current)
	if err != nil {
		return nil, err
	}
	for _, g := range touched {
		if err := mergeGroup(g, groupPointer(next, g), patch[g]); err != nil {
			return nil, err
		}
	}

	to := next.Status()
	if from == entity.PatientStatusDischarged && to == entity.PatientStatusOngoing && actor.Role != entity.RoleAdministrator {
		return nil, &IllegalTransitionError{From: string(from), To: string(to)}
	}

	// total_cost is derived; any caller-supplied value is overwritten here
	next.Administrative.DeriveTotalCost()

	if from != to {
		e.observer.ObserveTransition(ResourcePatientRecord, string(from), string(to))
	}
	return next, nil
}

// CanDeletePatient is an authorization check only; deletion is not a lifecycle transition
func (e *Engine) CanDeletePatient(actor entity.Actor, record *entity.PatientRecord) error {
	var owner *uuid.UUID
	if record != nil {
		owner = record.OwnerID
	}
	return e.Evaluate(actor, ResourcePatientRecord, ActionDelete, Write, owner).Err()
}

func (e *Engine) authorizeWrites(actor entity.Actor, groups []Target, ownerID *uuid.UUID) error {
	for _, g := range groups {
		if d := e.Evaluate(actor, ResourcePatientRecord, g, Write, ownerID); !d.Allowed {
			return d.Reason
		}
	}
	return nil
}

// mergeGroup overlays the keys of raw onto the group pointed to by dst
func mergeGroup(group Target, dst any, raw json.RawMessage) error {
	var changes map[string]json.RawMessage
	if err := json.Unmarshal(raw, &changes); err != nil || changes == nil {
		return invalid(string(group), "must be a JSON object")
	}

	keys := make([]string, 0, len(changes))
	for k := range changes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !hasField(group, k) {
			return invalid(string(group)+"."+k, "unknown field")
		}
		if err := decodeField(dst, k, changes[k]); err != nil {
			return invalid(string(group)+"."+k, "has an invalid value")
		}
	}

	currentJSON, err := json.Marshal(dst)
	if err != nil {
		return err
	}
	merged := map[string]json.RawMessage{}
	if err := json.Unmarshal(currentJSON, &merged); err != nil {
		return err
	}
	for _, k := range keys {
		merged[k] = changes[k]
	}
	mergedJSON, err := json.Marshal(merged)
	if err != nil {
		return err
	}

	fresh := reflect.New(reflect.TypeOf(dst).Elem())
	dec := json.NewDecoder(bytes.NewReader(mergedJSON))
	dec.DisallowUnknownFields()
	if err := dec.Decode(fresh.Interface()); err != nil {
		return invalid(string(group), "is invalid")
	}
	reflect.ValueOf(dst).Elem().Set(fresh.Elem())
	return nil
}

// decodeField decodes a single key into a zero value of the group so a bad
// value is reported against its own field.
func decodeField(dst any, key string, value json.RawMessage) error {
	single, err := json.Marshal(map[string]json.RawMessage{key: value})
	if err != nil {
		return err
	}
	scratch := reflect.New(reflect.TypeOf(dst).Elem())
	return json.Unmarshal(single, scratch.Interface())
}

// clonePatient deep-copies a record through its JSON form
func clonePatient(p *entity.PatientRecord) (*entity.PatientRecord, error) {
	buf, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	var out entity.PatientRecord
	if err := json.Unmarshal(buf, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func cloneUUID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
