package service

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrCompanyNotFound      = errors.New("company not found")
	ErrPackageNotFound      = errors.New("subscription package not found")
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrPackageNotActive     = errors.New("subscription package is not active")
	ErrVerificationRequired = errors.New("account is not verified yet; wait for admin approval")
	ErrInvalidSignature     = errors.New("payment response signature is invalid")
	ErrInvalidRequest       = errors.New("invalid request")
)
