package i18n

// Error codes must match the codes defined in internal/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeEntityEmptyID      = "ENTITY_EMPTY_ID"
	CodeEntityEmptyName    = "ENTITY_EMPTY_NAME"
	CodeEntityInvalidType  = "ENTITY_INVALID_TYPE"
	CodeEntityAttrsInvalid = "ENTITY_ATTRS_INVALID"

	CodeLinkEmptySourceID       = "LINK_EMPTY_SOURCE_ID"
	CodeLinkEmptyTargetID       = "LINK_EMPTY_TARGET_ID"
	CodeLinkInvalidRelationship = "LINK_INVALID_RELATIONSHIP"
	CodeLinkSelfReference       = "LINK_SELF_REFERENCE"

	CodeSessionIDMissing = "SESSION_ID_MISSING"

	CodeNotFound = "NOT_FOUND"
	CodeConflict = "CONFLICT"
)

var enUSCatalog = &Catalog{
	locale: "en-US",
	messages: map[Code]string{
		// Entity errors
		CodeEntityEmptyID:      "Entity id cannot be empty",
		CodeEntityEmptyName:    "Entity name cannot be empty",
		CodeEntityInvalidType:  "Unknown entity type {{.Type}}",
		CodeEntityAttrsInvalid: "Entity attributes must be a JSON object",

		// Link errors
		CodeLinkEmptySourceID:       "Link source id cannot be empty",
		CodeLinkEmptyTargetID:       "Link target id cannot be empty",
		CodeLinkInvalidRelationship: "Unknown relationship {{.Relationship}}",
		CodeLinkSelfReference:       "An entity cannot link to itself",

		// Trail/summary errors
		CodeSessionIDMissing: "Session id is required",

		// Storage errors
		CodeNotFound: "The requested record was not found",
		CodeConflict: "The write conflicts with an existing record",
	},
}
