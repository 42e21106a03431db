// Package engine decides, for an actor and a record, which field-groups are
// visible, which mutations are legal and which state transitions a record may
// undergo. It is pure: no I/O, no shared mutable state, no blocking.
package engine

import (
	"time"

	"hospital-admin/internal/domain/entity"

	"github.com/google/uuid"
)

// Engine is the single entry point used by request handlers and views
type Engine struct {
	*Evaluator
	registry *Registry
	observer Observer
	now      func() time.Time
}

type Option func(*Engine)

// WithObserver reports decisions and transitions to o
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observer = o
		}
	}
}

// WithClock overrides the clock used to stamp leave decisions
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

func New(registry *Registry, opts ...Option) *Engine {
	e := &Engine{
		registry: registry,
		observer: nopObserver{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.Evaluator = NewEvaluator(registry, e.observer)
	return e
}

// Registry exposes the validated capability table
func (e *Engine) Registry() *Registry {
	return e.registry
}

// VisibleGroups lists, in canonical order, the groups the actor may read.
// Presentation layers use it instead of duplicating policy.
func (e *Engine) VisibleGroups(actor entity.Actor, resource ResourceType, ownerID *uuid.UUID) []Target {
	if resource != ResourcePatientRecord {
		return nil
	}
	var visible []Target
	for _, g := range PatientGroups() {
		if e.Evaluate(actor, resource, g, Read, ownerID).Allowed {
			visible = append(visible, g)
		}
	}
	return visible
}

// PatientView is a patient record with every group the actor may not read removed
type PatientView struct {
	ID             uuid.UUID
	OwnerID        *uuid.UUID
	Status         entity.PatientStatus
	Version        int
	CreatedAt      time.Time
	UpdatedAt      time.Time
	VisibleGroups  []Target
	Identity       *entity.IdentityGroup
	Clinical       *entity.ClinicalGroup
	Admission      *entity.AdmissionGroup
	Administrative *entity.AdministrativeGroup
	Discharge      *entity.DischargeGroup
}

// RedactPatient projects a record for the actor. An actor that can read no
// group at all gets the denial of the first group instead of an empty view.
func (e *Engine) RedactPatient(actor entity.Actor, record *entity.PatientRecord) (*PatientView, error) {
	if record == nil {
		return nil, invalid("record", "is required")
	}

	snapshot, err := clonePatient(record)
	if err != nil {
		return nil, err
	}

	view := &PatientView{
		ID:        snapshot.ID,
		OwnerID:   snapshot.OwnerID,
		Status:    snapshot.Status(),
		Version:   snapshot.Version,
		CreatedAt: snapshot.CreatedAt,
		UpdatedAt: snapshot.UpdatedAt,
	}

	var firstDenial error
	for _, g := range PatientGroups() {
		d := e.Evaluate(actor, ResourcePatientRecord, g, Read, record.OwnerID)
		if !d.Allowed {
			if firstDenial == nil {
				firstDenial = d.Reason
			}
			continue
		}
		view.VisibleGroups = append(view.VisibleGroups, g)
		switch g {
		case GroupIdentity:
			view.Identity = &snapshot.Identity
		case GroupClinical:
			view.Clinical = &snapshot.Clinical
		case GroupAdmission:
			view.Admission = &snapshot.Admission
		case GroupAdministrative:
			view.Administrative = &snapshot.Administrative
		case GroupDischarge:
			view.Discharge = &snapshot.Discharge
		}
	}

	if len(view.VisibleGroups) == 0 {
		return nil, firstDenial
	}
	return view, nil
}
