package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookingDomain "github.com/UsmanRajput1111/SolarRevive/internal/domain/booking"
)

func TestModelConversion_PreservesPaymentReconciliation(t *testing.T) {
	techID := uuid.New()
	bk, err := bookingDomain.NewBooking(uuid.New(), bookingDomain.ServiceCleaning, "Johar Town",
		time.Date(2026, 11, 20, 0, 0, 0, 0, time.UTC), true,
		bookingDomain.NewStandardPricingStrategy(), bookingDomain.NewCashOnDeliveryPayment())
	require.NoError(t, err)
	require.NoError(t, bk.AssignTechnician(techID))
	require.NoError(t, bk.AdvanceStatus(bookingDomain.StatusInProgress))
	require.NoError(t, bk.AttachImage(bookingDomain.ImageBefore, "before.jpg"))
	require.NoError(t, bk.ConfirmCashPayment(time.Now()))

	model := toBookingModel(bk)
	require.NotNil(t, model.PaymentReceivedBy)
	assert.Equal(t, "technician", *model.PaymentReceivedBy)
	assert.Equal(t, "Cash on Delivery", model.PaymentMethod)
	assert.Equal(t, "In Progress", model.Status)

	back, err := toDomainBooking(model)
	require.NoError(t, err)
	assert.Equal(t, bk.ID(), back.ID())
	assert.True(t, back.IsAssignedTo(techID))
	assert.Equal(t, bookingDomain.StatusInProgress, back.Status())
	assert.True(t, bk.AmountDue().Equal(back.AmountDue()))
	assert.True(t, back.IsSubscriptionBooking())
	assert.Equal(t, bookingDomain.PaymentPaid, back.Payment().Status())
	assert.Equal(t, bookingDomain.ReceivedByTechnician, *back.Payment().ReceivedBy())
	assert.Equal(t, "before.jpg", back.Images().Before)
}

func TestToDomainBooking_RejectsCorruptRows(t *testing.T) {
	_, err := toDomainBooking(&BookingModel{Status: "Lost", PaymentMethod: "Cash on Delivery", PaymentStatus: "Pending"})
	assert.Error(t, err)

	_, err = toDomainBooking(&BookingModel{Status: "Pending", PaymentMethod: "Barter", PaymentStatus: "Pending"})
	assert.Error(t, err)

	bad := "courier"
	_, err = toDomainBooking(&BookingModel{Status: "Pending", PaymentMethod: "Cash on Delivery", PaymentStatus: "Paid", PaymentReceivedBy: &bad})
	assert.Error(t, err)
}
