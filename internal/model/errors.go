package model

import (
	"errors"
	"fmt"
)

// ErrorKind separates user-correctable input from references to missing entities.
type ErrorKind int

// Error kinds.
const (
	KindValidation ErrorKind = iota + 1
	KindNotFound
)

// Error is a domain failure carrying a stable code and a readable message.
type Error struct {
	Kind    ErrorKind `json:"-"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

// Validation returns a validation failure.
func Validation(code, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: fmt.Sprintf(format, args...)}
}

// NotFound returns a lookup failure.
func NotFound(code, format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is, or wraps, a validation failure.
func IsValidation(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindValidation
}

// IsNotFound reports whether err is, or wraps, a lookup failure.
func IsNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindNotFound
}

// Code returns the domain code of err, or "" if err is not a domain failure.
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Failure codes.
const (
	CodeInvalidQuantity      = "INVALID_QUANTITY"
	CodeInvalidPrice         = "INVALID_PRICE"
	CodeNoParticipants       = "NO_PARTICIPANTS"
	CodeSameParticipants     = "SAME_PARTICIPANTS"
	CodeIncomeToStaff        = "INCOME_TO_STAFF"
	CodeMixedNumbers         = "MIXED_NUMBERS"
	CodeNumbersRequired      = "NUMBERS_REQUIRED"
	CodeNumberCount          = "NUMBER_COUNT"
	CodeNotSerialized        = "NOT_SERIALIZED"
	CodeNumbersInUse         = "NUMBERS_IN_USE"
	CodeNumbersNotAtSender   = "NUMBERS_NOT_AT_SENDER"
	CodeNumbersMissing       = "NUMBERS_MISSING"
	CodeInvalidNumber        = "INVALID_NUMBER"
	CodeInsufficientQuantity = "INSUFFICIENT_QUANTITY"
	CodeGenerateForExisting  = "GENERATE_FOR_EXISTING"
	CodeAttributeMismatch    = "ATTRIBUTE_MISMATCH"
	CodeMixedParticipants    = "MIXED_PARTICIPANTS"
	CodeNoLines              = "NO_LINES"

	CodeSenderGoodsNotFound = "SENDER_GOODS_NOT_FOUND"
	CodeLocationNotFound    = "LOCATION_NOT_FOUND"
	CodeTransferNotFound    = "TRANSFER_NOT_FOUND"
	CodeCategoryNotFound    = "CATEGORY_NOT_FOUND"
	CodeUnitNotFound        = "UNIT_NOT_FOUND"
	CodeNumberNotFound      = "NUMBER_NOT_FOUND"
	CodeGoodsNotFound       = "GOODS_NOT_FOUND"
)
