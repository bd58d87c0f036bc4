package request

type ConfirmPaymentRequest struct {
	// Amount the kiosk actually charged, in the lot currency's smallest unit.
	Amount int64 `json:"amount" binding:"gte=0"`
}
