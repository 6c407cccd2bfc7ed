package mpesa

import "errors"

var (
	// ErrConfiguration means required gateway credentials are absent. This is
	// an operator failure, never shown to the end user as their own.
	ErrConfiguration = errors.New("mpesa configuration error")

	// ErrAuth means the provider rejected the configured credentials.
	ErrAuth = errors.New("mpesa auth error")

	// ErrPaymentInitiation means the provider rejected or failed the push
	// request. No local state may transition to confirmed on this path.
	ErrPaymentInitiation = errors.New("payment initiation error")
)
