package trip

import (
	"errors"
	"strings"
)

// PaymentStatus is a trip payment status as stored in the `payment_status` table.
type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "UNPAID"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

var ErrInvalidPaymentStatus = errors.New("invalid payment status")

// ParsePaymentStatus normalizes (uppercases+trims) and validates a payment status string.
func ParsePaymentStatus(in string) (PaymentStatus, error) {
	status := PaymentStatus(strings.ToUpper(strings.TrimSpace(in)))
	if status.Valid() {
		return status, nil
	}
	return "", ErrInvalidPaymentStatus
}

// Valid reports whether status is one of the allowed payment status constants.
func (status PaymentStatus) Valid() bool {
	switch status {
	case PaymentUnpaid, PaymentPaid, PaymentRefunded:
		return true
	default:
		return false
	}
}

// String returns the string representation of the PaymentStatus.
func (status PaymentStatus) String() string {
	return string(status)
}

// IsPaid reports whether the trip has been paid for.
func (status PaymentStatus) IsPaid() bool {
	return status == PaymentPaid
}
