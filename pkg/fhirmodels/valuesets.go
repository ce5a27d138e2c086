package fhirmodels

// STU3 value set codes used by the models and the validator.

// AdministrativeGender codes.
const (
	GenderMale    = "male"
	GenderFemale  = "female"
	GenderOther   = "other"
	GenderUnknown = "unknown"
)

// IssueSeverity codes.
const (
	IssueSeverityFatal       = "fatal"
	IssueSeverityError       = "error"
	IssueSeverityWarning     = "warning"
	IssueSeverityInformation = "information"
)

// IssueType codes.
const (
	IssueTypeInvalid      = "invalid"
	IssueTypeStructure    = "structure"
	IssueTypeRequired     = "required"
	IssueTypeValue        = "value"
	IssueTypeCodeInvalid  = "code-invalid"
	IssueTypeInvariant    = "invariant"
	IssueTypeSecurity     = "security"
	IssueTypeLogin        = "login"
	IssueTypeForbidden    = "forbidden"
	IssueTypeProcessing   = "processing"
	IssueTypeNotSupported = "not-supported"
	IssueTypeDuplicate    = "duplicate"
	IssueTypeNotFound     = "not-found"
	IssueTypeConflict     = "conflict"
	IssueTypeException    = "exception"
	IssueTypeTimeout      = "timeout"
	IssueTypeTooCostly    = "too-costly"
	IssueTypeInformation  = "informational"
)

// BundleType codes.
const (
	BundleTypeDocument            = "document"
	BundleTypeMessage             = "message"
	BundleTypeTransaction         = "transaction"
	BundleTypeTransactionResponse = "transaction-response"
	BundleTypeBatch               = "batch"
	BundleTypeBatchResponse       = "batch-response"
	BundleTypeHistory             = "history"
	BundleTypeSearchset           = "searchset"
	BundleTypeCollection          = "collection"
)

// SearchEntryMode codes.
const (
	SearchModeMatch   = "match"
	SearchModeInclude = "include"
	SearchModeOutcome = "outcome"
)

// PublicationStatus codes (PlanDefinition, TestScript).
const (
	PublicationStatusDraft   = "draft"
	PublicationStatusActive  = "active"
	PublicationStatusRetired = "retired"
	PublicationStatusUnknown = "unknown"
)

// FinancialResourceStatus codes (Claim).
const (
	ClaimStatusActive         = "active"
	ClaimStatusCancelled      = "cancelled"
	ClaimStatusDraft          = "draft"
	ClaimStatusEnteredInError = "entered-in-error"
)

// ConsentState codes.
const (
	ConsentStateDraft          = "draft"
	ConsentStateProposed       = "proposed"
	ConsentStateActive         = "active"
	ConsentStateRejected       = "rejected"
	ConsentStateInactive       = "inactive"
	ConsentStateEnteredInError = "entered-in-error"
)

// ContractStatus codes.
const (
	ContractStatusAmended        = "amended"
	ContractStatusAppended       = "appended"
	ContractStatusCancelled      = "cancelled"
	ContractStatusDisputed       = "disputed"
	ContractStatusEnteredInError = "entered-in-error"
	ContractStatusExecutable     = "executable"
	ContractStatusExecuted       = "executed"
	ContractStatusNegotiable     = "negotiable"
	ContractStatusOffered        = "offered"
	ContractStatusPolicy         = "policy"
	ContractStatusRejected       = "rejected"
	ContractStatusRenewed        = "renewed"
	ContractStatusRevoked        = "revoked"
	ContractStatusResolved       = "resolved"
	ContractStatusTerminated     = "terminated"
)

// ObservationStatus codes.
const (
	ObservationStatusRegistered     = "registered"
	ObservationStatusPreliminary    = "preliminary"
	ObservationStatusFinal          = "final"
	ObservationStatusAmended        = "amended"
	ObservationStatusCorrected      = "corrected"
	ObservationStatusCancelled      = "cancelled"
	ObservationStatusEnteredInError = "entered-in-error"
	ObservationStatusUnknown        = "unknown"
)

// HTTPVerb codes used in Bundle.entry.request.
const (
	HTTPVerbGet    = "GET"
	HTTPVerbPost   = "POST"
	HTTPVerbPut    = "PUT"
	HTTPVerbDelete = "DELETE"
)

// ValueSets maps a status element, keyed "ResourceType.element", to its
// required codes.
var ValueSets = map[string][]string{
	"Patient.gender": {
		GenderMale, GenderFemale, GenderOther, GenderUnknown,
	},
	"Observation.status": {
		ObservationStatusRegistered, ObservationStatusPreliminary, ObservationStatusFinal,
		ObservationStatusAmended, ObservationStatusCorrected, ObservationStatusCancelled,
		ObservationStatusEnteredInError, ObservationStatusUnknown,
	},
	"Bundle.type": {
		BundleTypeDocument, BundleTypeMessage, BundleTypeTransaction, BundleTypeTransactionResponse,
		BundleTypeBatch, BundleTypeBatchResponse, BundleTypeHistory, BundleTypeSearchset,
		BundleTypeCollection,
	},
	"Claim.status": {
		ClaimStatusActive, ClaimStatusCancelled, ClaimStatusDraft, ClaimStatusEnteredInError,
	},
	"Consent.status": {
		ConsentStateDraft, ConsentStateProposed, ConsentStateActive, ConsentStateRejected,
		ConsentStateInactive, ConsentStateEnteredInError,
	},
	"Contract.status": {
		ContractStatusAmended, ContractStatusAppended, ContractStatusCancelled, ContractStatusDisputed,
		ContractStatusEnteredInError, ContractStatusExecutable, ContractStatusExecuted,
		ContractStatusNegotiable, ContractStatusOffered, ContractStatusPolicy, ContractStatusRejected,
		ContractStatusRenewed, ContractStatusRevoked, ContractStatusResolved, ContractStatusTerminated,
	},
	"PlanDefinition.status": {
		PublicationStatusDraft, PublicationStatusActive, PublicationStatusRetired, PublicationStatusUnknown,
	},
	"TestScript.status": {
		PublicationStatusDraft, PublicationStatusActive, PublicationStatusRetired, PublicationStatusUnknown,
	},
	"OperationOutcome.issue.severity": {
		IssueSeverityFatal, IssueSeverityError, IssueSeverityWarning, IssueSeverityInformation,
	},
}

// InValueSet reports whether code is one of the codes bound to key.
// Unknown keys accept any code.
func InValueSet(key, code string) bool {
	codes, ok := ValueSets[key]
	if !ok {
		return true
	}
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}
