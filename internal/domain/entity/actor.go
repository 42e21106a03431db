package entity

import (
	"errors"

	"github.com/google/uuid"
)

// Actor is an already-authenticated identity together with its role.
// It is built per request and passed explicitly into every engine call.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

func NewActor(id uuid.UUID, role Role) (Actor, error) {
	if id == uuid.Nil {
		return Actor{}, errors.New("actor id is required")
	}
	if !role.IsValid() {
		return Actor{}, errors.New("actor role is invalid")
	}
	return Actor{ID: id, Role: role}, nil
}
