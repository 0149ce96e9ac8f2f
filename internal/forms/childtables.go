// Formgate - Form Submission Gateway for the Enjaz Enterprise Support Portal
// Copyright 2026 Enjaz Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/enjaz-platform/formgate

package forms

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ProcessChildTables builds every child table the mapping declares from a
// raw submission. Tables that end up empty are omitted.
func ProcessChildTables(m *MappingConfig, submission map[string]any) map[string][]map[string]any {
	tables := make(map[string][]map[string]any)
	if m == nil {
		return tables
	}

	for _, name := range m.childTableOrder {
		cfg := m.ChildTables[name]
		if cfg == nil {
			continue
		}
		if cfg.Condition != "" && !checkCondition(cfg.Condition, submission) {
			continue
		}

		var rows []map[string]any
		if cfg.ArraySource != "" {
			if src, ok := submission[cfg.ArraySource].([]any); ok {
				rows = processArrayTable(cfg, src)
			}
		} else {
			rows = processSingleRowTable(cfg, submission)
		}
		if len(rows) > 0 {
			tables[name] = rows
		}
	}
	return tables
}

// processSingleRowTable assembles one candidate row from top-level
// submission fields.
//
// Processors run first on the first source field of their target and see
// the whole submission, then consume every source feeding that target.
// Remaining sources map directly, with fan-in targets resolved by the
// table's merge policy. Defaults fill gaps but never overwrite, and the
// row is kept only when at least one required field came out truthy.
func processSingleRowTable(cfg *ChildTableConfig, submission map[string]any) []map[string]any {
	row := make(map[string]any)

	// Reverse index: target field -> ordered source fields feeding it.
	sourcesByTarget := make(map[string][]string)
	for _, fm := range cfg.Mappings {
		if fm.Target != "" {
			sourcesByTarget[fm.Target] = append(sourcesByTarget[fm.Target], fm.Source)
		}
	}

	consumed := make(map[string]bool)
	processedTargets := make(map[string]bool)
	for _, fm := range cfg.Mappings {
		if fm.Target == "" || processedTargets[fm.Target] {
			continue
		}
		id, ok := cfg.Processors[fm.Target]
		if !ok {
			continue
		}
		processedTargets[fm.Target] = true

		first := sourcesByTarget[fm.Target][0]
		if v := applyProcessor(id, submission[first], first, submission); v != nil {
			row[fm.Target] = v
		}
		for _, src := range sourcesByTarget[fm.Target] {
			consumed[src] = true
		}
	}

	for _, fm := range cfg.Mappings {
		if fm.Target == "" || consumed[fm.Source] {
			continue
		}
		raw, present := submission[fm.Source]
		if !present || raw == nil {
			continue
		}
		cleaned := CleanValue(raw)
		if cleaned == nil {
			continue
		}
		if len(sourcesByTarget[fm.Target]) > 1 {
			policy, ok := cfg.Merge[fm.Target]
			if !ok {
				policy = MergeOverwrite
			}
			row[fm.Target] = policy.apply(row[fm.Target], cleaned)
		} else {
			row[fm.Target] = cleaned
		}
	}

	for field, value := range cfg.Defaults {
		if _, set := row[field]; !set {
			row[field] = value
		}
	}

	if len(cfg.Required) > 0 {
		hasRequired := false
		for _, field := range cfg.Required {
			if truthy(row[field]) {
				hasRequired = true
				break
			}
		}
		if !hasRequired {
			return nil
		}
	}

	if len(row) == 0 {
		return nil
	}
	return []map[string]any{row}
}

// processArrayTable maps each element of an array source to one row.
// Non-object elements are skipped.
func processArrayTable(cfg *ChildTableConfig, src []any) []map[string]any {
	var rows []map[string]any

	for _, el := range src {
		data, ok := el.(map[string]any)
		if !ok {
			continue
		}
		row := make(map[string]any)

		for _, fm := range cfg.Mappings {
			id, hasProc := cfg.Processors[fm.Target]
			if !hasProc {
				continue
			}
			if _, set := row[fm.Target]; set {
				continue
			}
			if _, present := data[fm.Source]; !present {
				continue
			}
			if v := applyProcessor(id, data[fm.Source], fm.Source, data); v != nil {
				row[fm.Target] = v
			}
		}

		for _, fm := range cfg.Mappings {
			if fm.Target == "" {
				continue
			}
			if _, set := row[fm.Target]; set {
				continue
			}
			raw, present := data[fm.Source]
			if !present || raw == nil {
				continue
			}
			if cleaned := CleanValue(raw); cleaned != nil {
				row[fm.Target] = cleaned
			}
		}

		for field, value := range cfg.Defaults {
			if _, set := row[field]; !set {
				row[field] = value
			}
		}

		if len(row) > 0 {
			rows = append(rows, row)
		}
	}
	return rows
}

// ValidateChildTables runs the strict pass over already-processed tables.
// Unlike the inclusion gate, every required field must be set here, and
// numeric fields must parse. Keys follow "<table>_row_<idx>".
func ValidateChildTables(m *MappingConfig, tables map[string][]map[string]any) map[string][]string {
	errs := make(map[string][]string)
	if m == nil {
		return errs
	}

	for _, name := range m.childTableOrder {
		cfg := m.ChildTables[name]
		rows := tables[name]
		if cfg == nil || len(rows) == 0 {
			continue
		}

		for idx, row := range rows {
			var rowErrs []string
			for _, field := range cfg.Required {
				if !truthy(row[field]) {
					rowErrs = append(rowErrs, fmt.Sprintf("field %q is required", field))
				}
			}

			switch name {
			case "project":
				if v, set := row["amount_capital"]; set {
					if _, ok := asFloat(v); !ok {
						rowErrs = append(rowErrs, "capital amount must be a valid number")
					}
				}
				if v, set := row["number_of_workers"]; set {
					if _, ok := asInt(v); !ok {
						rowErrs = append(rowErrs, "number of workers must be a valid number")
					}
				}
			case "education":
				if v, set := row["year_of_passing"]; set {
					year, ok := asInt(v)
					if !ok {
						rowErrs = append(rowErrs, "graduation year must be a valid number")
					} else if year < 1950 || year > time.Now().Year()+10 {
						rowErrs = append(rowErrs, "graduation year must be between 1950 and the current year")
					}
				}
			}

			if len(rowErrs) > 0 {
				errs[fmt.Sprintf("%s_row_%d", name, idx)] = rowErrs
			}
		}
	}
	return errs
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func asInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case float64:
		if t == float64(int64(t)) {
			return int(t), true
		}
		return 0, false
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		return n, err == nil
	default:
		return 0, false
	}
}
