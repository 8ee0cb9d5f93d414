package booking

import "github.com/shopspring/decimal"

// ServiceType is the kind of solar service being booked.
type ServiceType string

const (
	ServiceCleaning     ServiceType = "Solar Panel Cleaning"
	ServiceInstallation ServiceType = "Solar Panel Installation"
	ServiceFoundation   ServiceType = "Solar Foundation"
)

// CurrencyPKR is the only currency bookings are priced in.
const CurrencyPKR = "PKR"

// IsValid returns true if the service type is recognized.
func (t ServiceType) IsValid() bool {
	_, ok := servicePrices[t]
	return ok
}

// SupportsSubscription reports whether the service can be booked as a subscription.
func (t ServiceType) SupportsSubscription() bool {
	return t == ServiceCleaning
}

var (
	servicePrices = map[ServiceType]decimal.Decimal{
		ServiceCleaning:     decimal.NewFromInt(2000),
		ServiceInstallation: decimal.NewFromInt(2500),
		ServiceFoundation:   decimal.NewFromInt(1500),
	}

	// SubscriptionPrice is the flat price of a cleaning subscription. It replaces the per-visit price.
	SubscriptionPrice = decimal.NewFromInt(12000)
)

// ComputeAmountDue returns the amount owed for a booking.
// Unknown service types price at zero. The subscription flag only matters for cleaning.
func ComputeAmountDue(serviceType ServiceType, wantsSubscription bool) decimal.Decimal {
	base, ok := servicePrices[serviceType]
	if !ok {
		return decimal.Zero
	}
	if serviceType.SupportsSubscription() && wantsSubscription {
		return SubscriptionPrice
	}
	return base
}

// PricingStrategy defines the interface for calculating booking prices.
type PricingStrategy interface {
	// Calculate returns the amount due for the given parameters.
	Calculate(params PricingParams) decimal.Decimal
}

// PricingParams holds the inputs for price calculation.
type PricingParams struct {
	ServiceType       ServiceType
	WantsSubscription bool
}

// StandardPricingStrategy prices bookings from the fixed price table.
type StandardPricingStrategy struct{}

// NewStandardPricingStrategy creates a new StandardPricingStrategy.
func NewStandardPricingStrategy() *StandardPricingStrategy {
	return &StandardPricingStrategy{}
}

// Calculate computes the amount due in PKR.
//
// Price table:
//   - Solar Panel Cleaning: 2000 per visit, or 12000 as a subscription
//   - Solar Panel Installation: 2500
//   - Solar Foundation: 1500
func (s *StandardPricingStrategy) Calculate(params PricingParams) decimal.Decimal {
	return ComputeAmountDue(params.ServiceType, params.WantsSubscription)
}
