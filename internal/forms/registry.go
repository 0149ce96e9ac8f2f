// Formgate - Form Submission Gateway for the Enjaz Enterprise Support Portal
// Copyright 2026 Enjaz Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/enjaz-platform/formgate

package forms

import (
	"fmt"
	"strings"
)

// ProcessorID names a field processor in mapping configuration.
type ProcessorID string

// ComputationID names a main-field computation in mapping configuration.
type ComputationID string

// ConditionID names a child-table inclusion condition.
type ConditionID string

const (
	ProcWorkerCount ProcessorID = "worker_count"
	ProcCurrency    ProcessorID = "currency_amount"
	ProcDescription ProcessorID = "project_description"
	ProcYear        ProcessorID = "graduation_year"
	ProcQuantity    ProcessorID = "quantity"

	CompAgeToBirthDate   ComputationID = "age_to_birth_date"
	CompExtractFirstName ComputationID = "extract_first_name"
	CompCopyFullName     ComputationID = "copy_full_name"
	CompBuildFullName    ComputationID = "build_full_name"

	CondHasEducationData ConditionID = "has_education_data"
)

// FieldProcessor transforms one child-table value. It receives the source
// value plus the full row (or submission, for single-row tables) so
// cross-field processors can look at sibling values.
type FieldProcessor func(value any, sourceField string, data map[string]any) any

// Computation derives one main-document value from the source field value
// and the full submission.
type Computation func(value any, submission map[string]any) any

// Condition gates the inclusion of a child table.
type Condition func(submission map[string]any) bool

var (
	fieldProcessors = map[ProcessorID]FieldProcessor{}
	computations    = map[ComputationID]Computation{}
	conditions      = map[ConditionID]Condition{}
)

// MustRegisterProcessor installs a field processor, panicking on duplicate
// registration. Mapping tables reference processors by ID at config load,
// so an unknown ID fails loudly at startup rather than silently at runtime.
func MustRegisterProcessor(id ProcessorID, fn FieldProcessor) {
	if _, dup := fieldProcessors[id]; dup {
		panic(fmt.Sprintf("forms: processor %q registered twice", id))
	}
	fieldProcessors[id] = fn
}

// MustRegisterComputation installs a main-field computation.
func MustRegisterComputation(id ComputationID, fn Computation) {
	if _, dup := computations[id]; dup {
		panic(fmt.Sprintf("forms: computation %q registered twice", id))
	}
	computations[id] = fn
}

// MustRegisterCondition installs a child-table condition.
func MustRegisterCondition(id ConditionID, fn Condition) {
	if _, dup := conditions[id]; dup {
		panic(fmt.Sprintf("forms: condition %q registered twice", id))
	}
	conditions[id] = fn
}

// applyProcessor runs the named processor, passing the value through
// unchanged when the ID is not registered.
func applyProcessor(id ProcessorID, value any, sourceField string, data map[string]any) any {
	if fn, ok := fieldProcessors[id]; ok {
		return fn(value, sourceField, data)
	}
	return value
}

// applyComputation runs the named computation; an unregistered ID yields
// nil so the target field is simply dropped.
func applyComputation(id ComputationID, value any, submission map[string]any) any {
	if fn, ok := computations[id]; ok {
		return fn(value, submission)
	}
	return nil
}

// checkCondition evaluates the named condition; an unregistered ID passes.
func checkCondition(id ConditionID, submission map[string]any) bool {
	if fn, ok := conditions[id]; ok {
		return fn(submission)
	}
	return true
}

// verifyMappingRefs checks that every processor, computation and condition
// a mapping references is registered, panicking on a dangling reference.
// Must not run before every registration init has finished; this file sorts
// after the mapping and processor declarations, so its init goes last.
func verifyMappingRefs(m *MappingConfig) {
	for _, cf := range m.ComputedFields {
		if _, ok := computations[cf.Computation]; !ok {
			panic(fmt.Sprintf("forms: mapping %q references unknown computation %q", m.FormType, cf.Computation))
		}
	}
	for name, tbl := range m.ChildTables {
		if tbl.Condition != "" {
			if _, ok := conditions[tbl.Condition]; !ok {
				panic(fmt.Sprintf("forms: table %q references unknown condition %q", name, tbl.Condition))
			}
		}
		for field, id := range tbl.Processors {
			if _, ok := fieldProcessors[id]; !ok {
				panic(fmt.Sprintf("forms: table %q field %q references unknown processor %q", name, field, id))
			}
		}
	}
}

// MergePolicy decides how a value lands on a target field that several
// source fields feed.
type MergePolicy struct {
	// Mode is one of "overwrite", "concat" or "first_wins".
	Mode string
	// Separator joins values in concat mode.
	Separator string
}

// Merge policies available to mapping tables.
var (
	MergeOverwrite = MergePolicy{Mode: "overwrite"}
	MergeFirstWins = MergePolicy{Mode: "first_wins"}
)

// MergeConcat joins successive values with the given separator.
func MergeConcat(sep string) MergePolicy {
	return MergePolicy{Mode: "concat", Separator: sep}
}

// apply resolves a new value against an existing one under this policy.
func (p MergePolicy) apply(existing, incoming any) any {
	switch p.Mode {
	case "concat":
		prev, ok := existing.(string)
		if !ok || prev == "" {
			return incoming
		}
		next, ok := incoming.(string)
		if !ok {
			return existing
		}
		return strings.Join([]string{prev, next}, p.Separator)
	case "first_wins":
		if existing != nil {
			return existing
		}
		return incoming
	default:
		return incoming
	}
}

func init() {
	MustRegisterProcessor(ProcWorkerCount, func(v any, _ string, _ map[string]any) any {
		return ParseWorkerCount(v)
	})
	MustRegisterProcessor(ProcCurrency, func(v any, _ string, _ map[string]any) any {
		return ParseCurrency(v)
	})
	MustRegisterProcessor(ProcYear, func(v any, _ string, _ map[string]any) any {
		return ParseYear(v)
	})
	MustRegisterProcessor(ProcQuantity, func(v any, _ string, _ map[string]any) any {
		return ParseQuantity(v)
	})
	MustRegisterProcessor(ProcDescription, func(v any, _ string, data map[string]any) any {
		return processProjectDescription(v, data)
	})

	MustRegisterComputation(CompAgeToBirthDate, func(v any, _ map[string]any) any {
		return ageToBirthDate(v)
	})
	MustRegisterComputation(CompExtractFirstName, func(v any, _ map[string]any) any {
		return extractFirstName(v)
	})
	MustRegisterComputation(CompCopyFullName, func(v any, _ map[string]any) any {
		return TrimOrNil(v)
	})
	MustRegisterComputation(CompBuildFullName, func(_ any, submission map[string]any) any {
		return buildFullName(submission)
	})

	MustRegisterCondition(CondHasEducationData, hasEducationData)

	for _, m := range mappingConfigs {
		verifyMappingRefs(m)
	}
}
