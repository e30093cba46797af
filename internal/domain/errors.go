package domain

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrCampaignNotFound = errors.New("campaign not found")
	ErrMissingField     = errors.New("missing required field")
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrPaymentDeclined  = errors.New("payment declined")
	ErrBridgeFailure    = errors.New("payment bridge failure")
)
