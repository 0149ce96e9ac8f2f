// Formgate - Form Submission Gateway for the Enjaz Enterprise Support Portal
// Copyright 2026 Enjaz Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/enjaz-platform/formgate

package forms

// FieldMap binds one form field to one document field. A blank Target
// means the field is recognized but deliberately not mapped through this
// table.
type FieldMap struct {
	Source string
	Target string
}

// ComputedField derives a document field from a submission value.
type ComputedField struct {
	Source      string
	Target      string
	Computation ComputationID
}

// ChildTableConfig drives population of one child table.
//
// When ArraySource is set the table is built from an array of row objects
// in the submission; otherwise it is assembled as a single row from
// top-level submission fields. Mappings are ordered: with several sources
// feeding one target, order decides which value the target's MergePolicy
// sees first.
type ChildTableConfig struct {
	Doctype string

	// Required lists target fields of which at least one must be set for
	// the row to be kept, and all of which must be set to pass strict
	// validation.
	Required []string

	Mappings   []FieldMap
	Processors map[string]ProcessorID
	Defaults   map[string]any
	Merge      map[string]MergePolicy

	ArraySource string
	Condition   ConditionID
}

// MappingConfig is the full mapping for one form type.
type MappingConfig struct {
	FormType       string
	Doctype        string
	MainFields     []FieldMap
	ComputedFields []ComputedField
	ChildTables    map[string]*ChildTableConfig

	// childTableOrder fixes the iteration order over ChildTables so
	// mapping output is deterministic.
	childTableOrder []string
}

var mappingConfigs = map[string]*MappingConfig{}

// MappingFor returns the mapping configuration for a form type, or nil
// when the form has no structured mapping.
func MappingFor(formType string) *MappingConfig {
	return mappingConfigs[formType]
}

// registerMapping installs a mapping. Reference verification is deferred
// to the registry so mappings may be declared before the processors and
// computations they name; init functions run in file order.
func registerMapping(m *MappingConfig, tableOrder ...string) {
	m.childTableOrder = tableOrder
	mappingConfigs[m.FormType] = m
}

func init() {
	registerMapping(&MappingConfig{
		FormType: "small-project-register",
		Doctype:  "Micro Enterprise Request",
		MainFields: []FieldMap{
			{"ownerFullName", "family_name"},
			{"firstName", "first_name"},
			{"middleName", "middle_name"},
			{"lastName", "last_name"},
			{"gender", "gender"},
			{"birthDate", "date_of_birth"},
			{"workJoinDate", "date_of_joining"},
			{"primaryPhone", "cell_number"},
			{"secondaryPhone", "emergency_phone_number"},
			{"email", "personal_email"},
			{"emergencyContactName", "person_to_be_contacted"},
			{"emergencyContactPhone", "emergency_phone_number"},
			{"emergencyRelation", "relation"},
			{"projectStatus", "status"},
			{"familyInfo", "family_background"},
			{"idNumber", "token_id"},
		},
		ComputedFields: []ComputedField{
			{Source: "age", Target: "date_of_birth", Computation: CompAgeToBirthDate},
			{Source: "ownerFullName", Target: "family_name", Computation: CompCopyFullName},
			{Source: "ownerFullName", Target: "first_name", Computation: CompExtractFirstName},
		},
		ChildTables: map[string]*ChildTableConfig{
			"project": {
				Doctype:  "Project Details",
				Required: []string{"project_name"},
				Mappings: []FieldMap{
					{"projectName", "project_name"},
					{"projectDescription", "project_detials"},
					{"workersCount", "number_of_workers"},
					{"capital", "amount_capital"},
					{"products", "project_detials"},
					{"startDate", ""},
					{"projectStatus", ""},
				},
				Processors: map[string]ProcessorID{
					"number_of_workers": ProcWorkerCount,
					"amount_capital":    ProcCurrency,
					"project_detials":   ProcDescription,
				},
				Merge: map[string]MergePolicy{
					"project_detials": MergeConcat("\n\n"),
				},
			},
			"address_details": {
				Doctype:  "Address Details",
				Required: []string{"city_name"},
				Mappings: []FieldMap{
					{"governorate", "city_name"},
					{"district", "directorate_name"},
					{"neighborhood", "district_name"},
					{"street", "district_name_info"},
				},
				Defaults: map[string]any{
					"accommodation_type": "Owned",
				},
			},
			"education": {
				Doctype: "Employee Education",
				Mappings: []FieldMap{
					{"qualification", "qualification"},
					{"school_univ", "school_univ"},
					{"level", "level"},
					{"year_of_passing", "year_of_passing"},
					{"class_per", "class_per"},
					{"maj_opt_subj", "maj_opt_subj"},
				},
				Processors: map[string]ProcessorID{
					"year_of_passing": ProcYear,
				},
				ArraySource: "educations",
			},
			"productivity": {
				Doctype: "Productivity",
				Mappings: []FieldMap{
					{"quantity", "quantity"},
					{"unit", "unit"},
				},
				Processors: map[string]ProcessorID{
					"quantity": ProcQuantity,
				},
				ArraySource: "productions",
			},
		},
	}, "project", "address_details", "education", "productivity")
}
