package schema

import (
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// BookingDraft is everything the agent typed into the booking form.
type BookingDraft struct {
	ConfirmationNumber string              `json:"confirmationNumber" binding:"required"`
	GuestName          string              `json:"guestName" binding:"required"`
	GuestEmail         openapi_types.Email `json:"guestEmail" binding:"required,email"`
	GuestPhone         string              `json:"guestPhone" binding:"required"`
	LogoUrl            string              `json:"logoUrl,omitempty" binding:"omitempty,url"`
	Timezone           string              `json:"timezone" binding:"required"`
	PickupLocation     string              `json:"pickupLocation" binding:"required"`
	PickupDate         string              `json:"pickupDate" binding:"required"`
	DropoffLocation    string              `json:"dropoffLocation" binding:"required"`
	DropoffDate        string              `json:"dropoffDate" binding:"required"`
	VehicleCategory    string              `json:"vehicleCategory" binding:"required"`
	VehicleModel       string              `json:"vehicleModel" binding:"required"`
	SupplierName       string              `json:"supplierName" binding:"required"`
	SupplierAmount     AmountText          `json:"supplierAmount" binding:"required"`
	AgencyFee          AmountText          `json:"agencyFee" binding:"required"`
	AgentName          string              `json:"agentName" binding:"required"`

	// Internal to the agency, never part of anything the guest sees.
	AgentCommission AmountText `json:"agentCommission,omitempty"`
}

type BookingRequestParams struct {
	BookingDraft
	PaymentType PaymentType `json:"paymentType" binding:"omitempty,oneof=prepaid pay_at_counter"`
}

type QuoteRequestParams struct {
	SupplierAmount AmountText  `json:"supplierAmount"`
	AgencyFee      AmountText  `json:"agencyFee"`
	PaymentType    PaymentType `json:"paymentType" binding:"omitempty,oneof=prepaid pay_at_counter"`
}

// DerivedAmounts always satisfies AmountToChargeNow + AmountDueAtCounter == TotalTripCost.
type DerivedAmounts struct {
	TotalTripCost      Amount `json:"totalTripCost"`
	AmountToChargeNow  Amount `json:"amountToChargeNow"`
	AmountDueAtCounter Amount `json:"amountDueAtCounter"`
}

// CreateBookingRequest is the body sent to the booking backend.
type CreateBookingRequest struct {
	BookingDraft
	PaymentType       PaymentType `json:"paymentType"`
	AmountToChargeNow Amount      `json:"amountToChargeNow"`
}

type CreateBookingResponse struct {
	Success bool   `json:"success"`
	Link    string `json:"link,omitempty"`
	Error   string `json:"error,omitempty"`
}
