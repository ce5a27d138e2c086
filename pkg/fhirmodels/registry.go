package fhirmodels

import "sort"

// factories maps each modeled resource type to a constructor for its Go
// model.
var factories = map[string]func() Resource{
	"Bundle":           func() Resource { return &Bundle{} },
	"Claim":            func() Resource { return &Claim{} },
	"Consent":          func() Resource { return &Consent{} },
	"Contract":         func() Resource { return &Contract{} },
	"Observation":      func() Resource { return &Observation{} },
	"OperationOutcome": func() Resource { return &OperationOutcome{} },
	"Parameters":       func() Resource { return &Parameters{} },
	"Patient":          func() Resource { return &Patient{} },
	"PlanDefinition":   func() Resource { return &PlanDefinition{} },
	"TestScript":       func() Resource { return &TestScript{} },
}

// stu3Types lists every resource type defined by FHIR STU3 (3.0.x).
var stu3Types = map[string]struct{}{}

func init() {
	for _, t := range []string{
		"Account", "ActivityDefinition", "AdverseEvent", "AllergyIntolerance", "Appointment",
		"AppointmentResponse", "AuditEvent", "Basic", "Binary", "BodySite", "Bundle",
		"CapabilityStatement", "CarePlan", "CareTeam", "ChargeItem", "Claim", "ClaimResponse",
		"ClinicalImpression", "CodeSystem", "Communication", "CommunicationRequest",
		"CompartmentDefinition", "Composition", "ConceptMap", "Condition", "Consent", "Contract",
		"Coverage", "DataElement", "DetectedIssue", "Device", "DeviceComponent", "DeviceMetric",
		"DeviceRequest", "DeviceUseStatement", "DiagnosticReport", "DocumentManifest",
		"DocumentReference", "EligibilityRequest", "EligibilityResponse", "Encounter", "Endpoint",
		"EnrollmentRequest", "EnrollmentResponse", "EpisodeOfCare", "ExpansionProfile",
		"ExplanationOfBenefit", "FamilyMemberHistory", "Flag", "Goal", "GraphDefinition", "Group",
		"GuidanceResponse", "HealthcareService", "ImagingManifest", "ImagingStudy", "Immunization",
		"ImmunizationRecommendation", "ImplementationGuide", "Library", "Linkage", "List", "Location",
		"Measure", "MeasureReport", "Media", "Medication", "MedicationAdministration",
		"MedicationDispense", "MedicationRequest", "MedicationStatement", "MessageDefinition",
		"MessageHeader", "NamingSystem", "NutritionOrder", "Observation", "OperationDefinition",
		"OperationOutcome", "Organization", "Parameters", "Patient", "PaymentNotice",
		"PaymentReconciliation", "Person", "PlanDefinition", "Practitioner", "PractitionerRole",
		"Procedure", "ProcedureRequest", "ProcessRequest", "ProcessResponse", "Provenance",
		"Questionnaire", "QuestionnaireResponse", "ReferralRequest", "RelatedPerson", "RequestGroup",
		"ResearchStudy", "ResearchSubject", "RiskAssessment", "Schedule", "SearchParameter", "Sequence",
		"ServiceDefinition", "Slot", "Specimen", "StructureDefinition", "StructureMap", "Subscription",
		"Substance", "SupplyDelivery", "SupplyRequest", "Task", "TestReport", "TestScript", "ValueSet",
		"VisionPrescription",
	} {
		stu3Types[t] = struct{}{}
	}
}

// NewResource returns a new, empty model for resourceType. The boolean is
// false when the type has no Go model.
func NewResource(resourceType string) (Resource, bool) {
	f, ok := factories[resourceType]
	if !ok {
		return nil, false
	}
	return f(), true
}

// RegisteredTypes returns the modeled resource types in sorted order.
func RegisteredTypes() []string {
	out := make([]string, 0, len(factories))
	for t := range factories {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// IsKnownType reports whether resourceType is an STU3 resource type,
// whether or not it is modeled.
func IsKnownType(resourceType string) bool {
	_, ok := stu3Types[resourceType]
	return ok
}

// IsModeled reports whether resourceType decodes into a typed model rather
// than a RawResource.
func IsModeled(resourceType string) bool {
	_, ok := factories[resourceType]
	return ok
}
