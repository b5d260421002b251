// Package errors provides structured errors that map onto gRPC statuses
// with localized user messages.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Scenario errors
	CodeScenarioMissing      Code = "SCENARIO_MISSING"
	CodeScenarioInvalid      Code = "SCENARIO_INVALID"
	CodeScenarioScriptFailed Code = "SCENARIO_SCRIPT_FAILED"
	CodeVictoryInvalid       Code = "VICTORY_EXPRESSION_INVALID"

	// Resolution errors
	CodeResolutionFailed   Code = "RESOLUTION_FAILED"
	CodeResolutionCanceled Code = "RESOLUTION_CANCELED"
	CodeBatchInvalid       Code = "BATCH_INVALID"

	// Storage errors
	CodeNotFound           Code = "NOT_FOUND"
	CodeStorageUnavailable Code = "STORAGE_UNAVAILABLE"

	// Random/seed errors
	CodeSeedOutOfRange Code = "SEED_OUT_OF_RANGE"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeScenarioMissing,
		CodeScenarioInvalid,
		CodeScenarioScriptFailed,
		CodeVictoryInvalid,
		CodeBatchInvalid,
		CodeSeedOutOfRange:
		return codes.InvalidArgument

	// NotFound - resource doesn't exist
	case CodeNotFound:
		return codes.NotFound

	case CodeResolutionCanceled:
		return codes.Canceled

	case CodeStorageUnavailable:
		return codes.Unavailable

	default:
		return codes.Internal
	}
}
