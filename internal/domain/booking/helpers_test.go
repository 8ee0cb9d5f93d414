package booking

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newCODBooking(t *testing.T, customerID uuid.UUID) *Booking {
	t.Helper()
	bk, err := NewBooking(customerID, ServiceCleaning, "12 Canal Road, Lahore",
		time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC), false, NewStandardPricingStrategy(), NewCashOnDeliveryPayment())
	require.NoError(t, err)
	return bk
}

func newOnlineBooking(t *testing.T, customerID uuid.UUID) *Booking {
	t.Helper()
	payment, err := NewOnlineTransferPayment("TID-99812")
	require.NoError(t, err)
	bk, err := NewBooking(customerID, ServiceInstallation, "7 Mall Road, Lahore",
		time.Date(2026, 11, 3, 0, 0, 0, 0, time.UTC), false, NewStandardPricingStrategy(), payment)
	require.NoError(t, err)
	return bk
}

// advanceTo walks a fresh booking through the lifecycle up to target.
func advanceTo(t *testing.T, bk *Booking, technicianID uuid.UUID, target BookingStatus) {
	t.Helper()
	if target == StatusPending {
		return
	}
	require.NoError(t, bk.AssignTechnician(technicianID))
	if target == StatusAssigned {
		return
	}
	require.NoError(t, bk.AdvanceStatus(StatusInProgress))
	if target == StatusInProgress {
		return
	}
	require.NoError(t, bk.AdvanceStatus(StatusCompleted))
}
