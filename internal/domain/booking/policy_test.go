package booking

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UsmanRajput1111/SolarRevive/internal/platform/domain"
)

func TestClassify(t *testing.T) {
	customerID := uuid.New()
	techID := uuid.New()
	bk := newCODBooking(t, customerID)
	require.NoError(t, bk.AssignTechnician(techID))

	tests := []struct {
		name  string
		actor Actor
		want  Capabilities
	}{
		{"owner", Actor{UserID: customerID, Role: RoleCustomer}, Capabilities{IsOwner: true}},
		{"other customer", Actor{UserID: uuid.New(), Role: RoleCustomer}, Capabilities{}},
		{"owner id with technician role", Actor{UserID: customerID, Role: RoleTechnician}, Capabilities{}},
		{"admin", Actor{UserID: uuid.New(), Role: RoleAdmin}, Capabilities{IsAdmin: true}},
		{"assigned technician", Actor{UserID: techID, Role: RoleTechnician}, Capabilities{IsAssignedTechnician: true}},
		{"other technician", Actor{UserID: uuid.New(), Role: RoleTechnician}, Capabilities{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.actor, bk))
		})
	}
}

func TestClassify_UnassignedBookingHasNoTechnician(t *testing.T) {
	bk := newCODBooking(t, uuid.New())
	caps := Classify(Actor{UserID: uuid.New(), Role: RoleTechnician}, bk)
	assert.False(t, caps.Any())
}

func TestAuthorize(t *testing.T) {
	bk := newCODBooking(t, uuid.New())

	_, err := Authorize(Actor{UserID: uuid.New(), Role: RoleCustomer}, bk)
	assert.True(t, domain.IsKind(err, domain.KindForbidden))

	_, err = Authorize(Actor{}, bk)
	assert.True(t, domain.IsKind(err, domain.KindUnauthorized))

	caps, err := Authorize(Actor{UserID: bk.CustomerID(), Role: RoleCustomer}, bk)
	require.NoError(t, err)
	assert.True(t, caps.IsOwner)
}

func TestCanCreate(t *testing.T) {
	assert.NoError(t, CanCreate(Actor{UserID: uuid.New(), Role: RoleCustomer}))
	assert.True(t, domain.IsKind(CanCreate(Actor{UserID: uuid.New(), Role: RoleAdmin}), domain.KindForbidden))
	assert.True(t, domain.IsKind(CanCreate(Actor{UserID: uuid.New(), Role: RoleTechnician}), domain.KindForbidden))
	assert.True(t, domain.IsKind(CanCreate(Actor{Role: RoleCustomer}), domain.KindUnauthorized))
}
