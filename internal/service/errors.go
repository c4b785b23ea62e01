package service

import "errors"

var (
	ErrMissingSignature = errors.New("signature header is required")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrMalformedPayload = errors.New("malformed payload")
	ErrAmountMismatch   = errors.New("webhook amount does not match payment record")
)
