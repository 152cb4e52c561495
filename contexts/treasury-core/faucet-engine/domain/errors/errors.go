package errors

import "errors"

var (
	ErrNotAdmin           = errors.New("caller is not the faucet admin")
	ErrNotInitialized     = errors.New("faucet is not initialized")
	ErrInsufficientFunds  = errors.New("treasury balance is below the claim amount")
	ErrAlreadyClaimed     = errors.New("asset already claimed")
	ErrAssetNotConfigured = errors.New("asset has no configured claim amount")
	ErrZeroDeposit        = errors.New("deposit amount must be greater than zero")
	ErrRateLimited        = errors.New("claim cooldown has not elapsed")
	ErrBelowMinimum       = errors.New("claim amount is below the configured minimum")
	ErrInvalidDelay       = errors.New("claim delay is below the system floor")
	ErrMaxClaimsReached   = errors.New("wallet has exhausted its claim quota for this asset")
	ErrInvalidInput       = errors.New("faucet input is invalid")
)
