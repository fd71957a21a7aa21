package employee

import "errors"

var (
	ErrEmployeeNotFound    = errors.New("Employee not found")
	ErrBranchNotFound      = errors.New("Branch not found")
	ErrInsufficientBalance = errors.New("Insufficient annual leave balance")
	ErrBalanceUpdateFailed = errors.New("Failed to update leave balance")
	ErrInvalidLeaveDays    = errors.New("leave days must be positive")
	ErrNoFieldsToUpdate    = errors.New("no fields to update")
)
