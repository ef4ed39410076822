// Package errors provides coded errors for content configuration failures.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an error without a domain code.
	CodeUnknown Code = "UNKNOWN"

	// Sampling errors
	CodePoolTooSmall Code = "POOL_TOO_SMALL"

	// Content guard errors
	CodeDuplicateRoundIDs                Code = "DUPLICATE_ROUND_IDS"
	CodeDuplicateRoundText               Code = "DUPLICATE_ROUND_TEXT"
	CodeDuplicateRoundIDsAcrossExercises Code = "DUPLICATE_ROUND_IDS_ACROSS_EXERCISES"
	CodeInvalidRound                     Code = "INVALID_ROUND"
	CodeIndexBias                        Code = "INDEX_BIAS"

	// Selection errors
	CodeMissingBankItem       Code = "MISSING_BANK_ITEM"
	CodeInsufficientBankItems Code = "INSUFFICIENT_BANK_ITEMS"
	CodeMissingRequiredField  Code = "MISSING_REQUIRED_FIELD"
	CodeUnknownBank           Code = "UNKNOWN_BANK"
	CodeTemplateMismatch      Code = "TEMPLATE_MISMATCH"
	CodeInvalidSelection      Code = "INVALID_SELECTION"

	// Content loading errors
	CodeInvalidContent Code = "INVALID_CONTENT"
)
