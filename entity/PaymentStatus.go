package entity

// Payment states double as the cash-flow buckets of the revenue report.
const (
	PaymentPending = "pending"
	PaymentDeposit = "deposit"
	PaymentPaid    = "paid"
)

func IsPaymentStatus(s string) bool {
	return s == PaymentPending || s == PaymentDeposit || s == PaymentPaid
}
