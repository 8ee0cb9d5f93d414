package booking

import (
	"github.com/google/uuid"

	"github.com/UsmanRajput1111/SolarRevive/internal/platform/domain"
)

// Role is the kind of account acting on a booking.
type Role string

const (
	RoleCustomer   Role = "customer"
	RoleTechnician Role = "technician"
	RoleAdmin      Role = "admin"
)

// Actor is the authenticated identity behind a request. It is always passed explicitly.
type Actor struct {
	UserID uuid.UUID
	Role   Role
}

// IsAdmin reports whether the actor has the admin role.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// Capabilities is an actor's relationship to one booking.
type Capabilities struct {
	IsOwner              bool
	IsAdmin              bool
	IsAssignedTechnician bool
}

// Any reports whether the actor has any relationship to the booking at all.
func (c Capabilities) Any() bool {
	return c.IsOwner || c.IsAdmin || c.IsAssignedTechnician
}

// Classify derives the actor's capabilities over b.
func Classify(actor Actor, b *Booking) Capabilities {
	return Capabilities{
		IsOwner:              actor.Role == RoleCustomer && actor.UserID == b.CustomerID(),
		IsAdmin:              actor.Role == RoleAdmin,
		IsAssignedTechnician: b.IsAssignedTo(actor.UserID),
	}
}

// Authorize classifies the actor and rejects one with no capability over b.
func Authorize(actor Actor, b *Booking) (Capabilities, error) {
	if actor.UserID == uuid.Nil {
		return Capabilities{}, domain.NewUnauthorizedError("missing identity")
	}
	caps := Classify(actor, b)
	if !caps.Any() {
		return caps, domain.NewForbiddenError("not authorized to access this booking")
	}
	return caps, nil
}

// CanCreate rejects anyone but a customer. Admins in particular cannot book services.
func CanCreate(actor Actor) error {
	if actor.UserID == uuid.Nil {
		return domain.NewUnauthorizedError("missing identity")
	}
	switch actor.Role {
	case RoleCustomer:
		return nil
	case RoleAdmin:
		return domain.NewForbiddenError("admin users cannot book services")
	default:
		return domain.NewForbiddenError("only customers can book services")
	}
}
