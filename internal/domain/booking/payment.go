package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/UsmanRajput1111/SolarRevive/internal/platform/domain"
)

// PaymentMethod is how the customer settles the amount due.
type PaymentMethod string

const (
	// MethodOnlineTransfer is a pre-paid mobile wallet transfer, identified by a transaction ID.
	MethodOnlineTransfer PaymentMethod = "Easypaisa/Jazzcash"
	// MethodCashOnDelivery is collected in person by the technician.
	MethodCashOnDelivery PaymentMethod = "Cash on Delivery"
)

// ParsePaymentMethod normalizes the accepted spellings of a payment method.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch strings.TrimSpace(s) {
	case "Easypaisa/Jazzcash", "Easypaisa", "Jazzcash", "OnlineTransfer":
		return MethodOnlineTransfer, nil
	case "Cash on Delivery", "CashOnDelivery":
		return MethodCashOnDelivery, nil
	}
	return "", fmt.Errorf("invalid payment method: %q", s)
}

// PaymentStatus is the reconciliation state of a payment.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "Pending"
	PaymentPaid    PaymentStatus = "Paid"
)

// ParsePaymentStatus converts a string to a PaymentStatus.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch PaymentStatus(s) {
	case PaymentPending, PaymentPaid:
		return PaymentStatus(s), nil
	}
	return "", fmt.Errorf("invalid payment status: %q", s)
}

// Receiver records who took receipt of a payment.
type Receiver string

const (
	ReceivedByAdmin      Receiver = "admin"
	ReceivedByTechnician Receiver = "technician"
)

// ParseReceiver converts a string to a Receiver.
func ParseReceiver(s string) (Receiver, error) {
	switch Receiver(s) {
	case ReceivedByAdmin, ReceivedByTechnician:
		return Receiver(s), nil
	}
	return "", fmt.Errorf("invalid payment receiver: %q", s)
}

// Payment is the payment sub-record of a booking.
// Construct it with NewOnlineTransferPayment, NewCashOnDeliveryPayment or NewPayment so the
// transaction ID rule holds; ReconstructPayment is for persistence only.
type Payment struct {
	method     PaymentMethod
	status     PaymentStatus
	paymentID  string
	receivedBy *Receiver
	receivedAt *time.Time
}

// NewOnlineTransferPayment creates a pending online transfer payment. The transaction ID is mandatory.
func NewOnlineTransferPayment(paymentID string) (Payment, error) {
	paymentID = strings.TrimSpace(paymentID)
	if paymentID == "" {
		return Payment{}, domain.NewValidationError("transaction ID is required for online transfer payments")
	}
	return Payment{method: MethodOnlineTransfer, status: PaymentPending, paymentID: paymentID}, nil
}

// NewCashOnDeliveryPayment creates a pending cash-on-delivery payment.
func NewCashOnDeliveryPayment() Payment {
	return Payment{method: MethodCashOnDelivery, status: PaymentPending}
}

// NewPayment builds a pending payment from boundary input.
// A transaction ID supplied with cash on delivery carries no meaning and is dropped.
func NewPayment(method, paymentID string) (Payment, error) {
	if strings.TrimSpace(method) == "" {
		return Payment{}, domain.NewValidationError("payment method is required")
	}
	m, err := ParsePaymentMethod(method)
	if err != nil {
		return Payment{}, domain.NewValidationError(err.Error())
	}
	if m == MethodOnlineTransfer {
		return NewOnlineTransferPayment(paymentID)
	}
	return NewCashOnDeliveryPayment(), nil
}

// ReconstructPayment rebuilds a Payment from persistence data (no validation).
func ReconstructPayment(method PaymentMethod, status PaymentStatus, paymentID string, receivedBy *Receiver, receivedAt *time.Time) Payment {
	return Payment{
		method:     method,
		status:     status,
		paymentID:  paymentID,
		receivedBy: receivedBy,
		receivedAt: receivedAt,
	}
}

// Method returns the payment method.
func (p Payment) Method() PaymentMethod { return p.method }

// Status returns the reconciliation status.
func (p Payment) Status() PaymentStatus { return p.status }

// PaymentID returns the transaction reference, empty for cash on delivery.
func (p Payment) PaymentID() string { return p.paymentID }

// ReceivedBy returns who received the payment, or nil while pending.
func (p Payment) ReceivedBy() *Receiver { return p.receivedBy }

// ReceivedAt returns when the payment was received, or nil while pending.
func (p Payment) ReceivedAt() *time.Time { return p.receivedAt }

// IsPaid reports whether the payment reached its terminal state.
func (p Payment) IsPaid() bool { return p.status == PaymentPaid }

// IsCashOnDelivery reports whether the payment is collected in person.
func (p Payment) IsCashOnDelivery() bool { return p.method == MethodCashOnDelivery }

// approve marks the payment paid by an admin. Any pending method may be approved.
// A cash payment the technician already collected is acknowledged without change (changed=false);
// repeating an admin approval is rejected.
func (p Payment) approve(now time.Time) (next Payment, changed bool, err error) {
	if p.IsPaid() {
		if p.receivedBy != nil && *p.receivedBy == ReceivedByTechnician {
			return p, false, nil
		}
		return p, false, domain.NewStateConflictError("payment is already paid")
	}
	return p.markPaid(ReceivedByAdmin, now), true, nil
}

// confirmCash marks a cash-on-delivery payment as collected by the technician.
func (p Payment) confirmCash(now time.Time) (Payment, error) {
	if !p.IsCashOnDelivery() {
		return p, domain.NewStateConflictError("only cash on delivery payments can be confirmed by a technician")
	}
	if p.IsPaid() {
		return p, domain.NewStateConflictError("payment is already paid")
	}
	return p.markPaid(ReceivedByTechnician, now), nil
}

func (p Payment) markPaid(by Receiver, now time.Time) Payment {
	at := now.UTC()
	p.status = PaymentPaid
	p.receivedBy = &by
	p.receivedAt = &at
	return p
}
