package port

import "errors"

// Sentinel errors used across ports.
var (
	ErrQueryTooShort     = errors.New("query too short")
	ErrQueryTooLong      = errors.New("query too long")
	ErrInvalidSearchType = errors.New("invalid search type")
	ErrVehicleNotFound   = errors.New("vehicle not found")
	ErrProductNotFound   = errors.New("product not found")
)
