package services

import (
	"errors"
)

// sentinel errors the controllers branch on with errors.Is
var (
	ErrValidation = errors.New("validation failed")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountSuspended   = errors.New("account suspended")
	ErrEmailTaken         = errors.New("email already registered")
	ErrWrongPassword      = errors.New("current password is incorrect")

	ErrCustomerNotFound = errors.New("customer not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryTaken    = errors.New("category name already exists")

	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderNotCompleted = errors.New("order is not completed")
	ErrProductNotInOrder = errors.New("product is not part of this order")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrReviewExists      = errors.New("order already reviewed")

	ErrPromotionNotFound    = errors.New("promotion not found")
	ErrPromotionExpired     = errors.New("promotion expired")
	ErrPromotionUnavailable = errors.New("promotion unavailable")
	ErrPromotionUsed        = errors.New("promotion already used")
	ErrPromotionCodeTaken   = errors.New("promotion code already exists")
	ErrAlreadySaved         = errors.New("already saved")
)

// FieldError is a validation failure on one input field. It matches ErrValidation.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Message }

func (e *FieldError) Unwrap() error { return ErrValidation }

func invalid(field, msg string) error {
	return &FieldError{Field: field, Message: msg}
}
