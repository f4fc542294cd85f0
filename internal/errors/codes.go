// Package errors provides structured error handling with i18n support.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Entity errors
	CodeEntityEmptyID      Code = "ENTITY_EMPTY_ID"
	CodeEntityEmptyName    Code = "ENTITY_EMPTY_NAME"
	CodeEntityInvalidType  Code = "ENTITY_INVALID_TYPE"
	CodeEntityAttrsInvalid Code = "ENTITY_ATTRS_INVALID"

	// Link errors
	CodeLinkEmptySourceID       Code = "LINK_EMPTY_SOURCE_ID"
	CodeLinkEmptyTargetID       Code = "LINK_EMPTY_TARGET_ID"
	CodeLinkInvalidRelationship Code = "LINK_INVALID_RELATIONSHIP"
	CodeLinkSelfReference       Code = "LINK_SELF_REFERENCE"

	// Trail/summary errors
	CodeSessionIDMissing Code = "SESSION_ID_MISSING"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
	CodeConflict Code = "CONFLICT"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeEntityEmptyID,
		CodeEntityEmptyName,
		CodeEntityInvalidType,
		CodeEntityAttrsInvalid,
		CodeLinkEmptySourceID,
		CodeLinkEmptyTargetID,
		CodeLinkInvalidRelationship,
		CodeLinkSelfReference,
		CodeSessionIDMissing:
		return codes.InvalidArgument

	// NotFound - resource doesn't exist
	case CodeNotFound:
		return codes.NotFound

	// AlreadyExists - uniqueness violations
	case CodeConflict:
		return codes.AlreadyExists

	default:
		return codes.Internal
	}
}
