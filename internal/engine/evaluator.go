package engine

import (
	"hospital-admin/internal/domain/entity"

	"github.com/google/uuid"
)

// Decision is the uniform result of an authorization check. Denial is a
// value, so callers can test many fields or records without error plumbing.
type Decision struct {
	Allowed bool
	Reason  error // *ForbiddenError, *NotOwnerError or *ConfigurationError when denied
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason error) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Err returns nil for an allowed decision and the denial reason otherwise
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return d.Reason
}

// Observer receives every decision and transition the engine produces.
// Implementations must be safe for concurrent use.
type Observer interface {
	ObserveDecision(resource ResourceType, target Target, intent Intent, decision Decision)
	ObserveTransition(resource ResourceType, from, to string)
}

type nopObserver struct{}

func (nopObserver) ObserveDecision(ResourceType, Target, Intent, Decision) {}
func (nopObserver) ObserveTransition(ResourceType, string, string)        {}

// Evaluator answers allow/deny questions from the registry plus the patient
// self-scope rule. It never mutates anything.
type Evaluator struct {
	registry *Registry
	observer Observer
}

func NewEvaluator(registry *Registry, observer Observer) *Evaluator {
	if observer == nil {
		observer = nopObserver{}
	}
	return &Evaluator{registry: registry, observer: observer}
}

// Evaluate decides whether actor may access target on resource with intent.
// ownerID is the owning patient account of a patient record and may be nil.
func (e *Evaluator) Evaluate(actor entity.Actor, resource ResourceType, target Target, intent Intent, ownerID *uuid.UUID) Decision {
	d := e.evaluate(actor, resource, target, intent, ownerID)
	e.observer.ObserveDecision(resource, target, intent, d)
	return d
}

func (e *Evaluator) evaluate(actor entity.Actor, resource ResourceType, target Target, intent Intent, ownerID *uuid.UUID) Decision {
	// Self-scope is checked before the table so that a foreign record
	// reports NotOwner even for groups a patient could otherwise read.
	if actor.Role == entity.RolePatient && resource == ResourcePatientRecord {
		if ownerID == nil || *ownerID != actor.ID {
			return deny(&NotOwnerError{Resource: resource})
		}
	}

	access, err := e.registry.Access(actor.Role, resource, target)
	if err != nil {
		return deny(err)
	}
	if !access.Allows(intent) {
		return deny(&ForbiddenError{Resource: resource, Target: target})
	}
	return allow()
}
