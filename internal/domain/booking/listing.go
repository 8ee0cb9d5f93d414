package booking

import "github.com/google/uuid"

// ListFilter narrows a booking listing. Nil fields match everything.
type ListFilter struct {
	CustomerID             *uuid.UUID
	TechnicianID           *uuid.UUID
	RequiresAdminAttention bool
}

// ScopeFor returns the filter limiting a listing to what actor may see:
// admins see every booking, technicians their assignments, customers their own bookings.
// An unknown role gets a filter that matches nothing.
func ScopeFor(actor Actor) ListFilter {
	switch actor.Role {
	case RoleAdmin:
		return ListFilter{}
	case RoleTechnician:
		id := actor.UserID
		return ListFilter{TechnicianID: &id}
	case RoleCustomer:
		id := actor.UserID
		return ListFilter{CustomerID: &id}
	default:
		none := uuid.Nil
		return ListFilter{CustomerID: &none}
	}
}

// Matches reports whether b passes the filter.
func (f ListFilter) Matches(b *Booking) bool {
	if f.CustomerID != nil && b.CustomerID() != *f.CustomerID {
		return false
	}
	if f.TechnicianID != nil && !b.IsAssignedTo(*f.TechnicianID) {
		return false
	}
	if f.RequiresAdminAttention && !RequiresAdminAttention(b) {
		return false
	}
	return true
}

// VisibleTo returns the subset of bookings actor may see, preserving order.
func VisibleTo(actor Actor, bookings []*Booking) []*Booking {
	return Filter(ScopeFor(actor), bookings)
}

// Filter returns the bookings matching f, preserving order.
func Filter(f ListFilter, bookings []*Booking) []*Booking {
	out := make([]*Booking, 0, len(bookings))
	for _, b := range bookings {
		if f.Matches(b) {
			out = append(out, b)
		}
	}
	return out
}

// RequiresAdminAttention selects bookings an admin should look at: any pending payment,
// and cash the technician has already collected, which needs no action but must be seen.
func RequiresAdminAttention(b *Booking) bool {
	p := b.Payment()
	if p.Status() == PaymentPending {
		return true
	}
	return p.IsCashOnDelivery() &&
		p.Status() == PaymentPaid &&
		p.ReceivedBy() != nil && *p.ReceivedBy() == ReceivedByTechnician
}
