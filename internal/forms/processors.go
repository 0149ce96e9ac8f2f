// Formgate - Form Submission Gateway for the Enjaz Enterprise Support Portal
// Copyright 2026 Enjaz Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/enjaz-platform/formgate

package forms

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Processor holds the per-form-type behavior: validation rules and the
// mapping from submission fields to the stored document shape.
type Processor struct {
	FormType    string
	Doctype     string
	Description string

	// Validate checks the submission and may normalize enum values in
	// place (Arabic display values are translated to stored values).
	Validate func(submission map[string]any) *ValidationError

	// Map produces the main document fields and child tables.
	Map func(submission map[string]any) (map[string]any, map[string][]map[string]any)
}

// FormInfo summarizes one supported form type.
type FormInfo struct {
	FormType    string `json:"form_type"`
	Doctype     string `json:"doctype"`
	Description string `json:"description"`
}

var processors = map[string]*Processor{}

// processorOrder fixes the listing order of supported forms.
var processorOrder []string

func registerProcessor(p *Processor) {
	if _, dup := processors[p.FormType]; dup {
		panic(fmt.Sprintf("forms: processor for %q registered twice", p.FormType))
	}
	processors[p.FormType] = p
	processorOrder = append(processorOrder, p.FormType)
}

// ProcessorFor returns the processor for a form type, or ErrUnknownFormType.
func ProcessorFor(formType string) (*Processor, error) {
	p, ok := processors[formType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormType, formType)
	}
	return p, nil
}

// SupportedForms lists every registered form type in registration order.
func SupportedForms() []FormInfo {
	infos := make([]FormInfo, 0, len(processorOrder))
	for _, ft := range processorOrder {
		p := processors[ft]
		infos = append(infos, FormInfo{FormType: p.FormType, Doctype: p.Doctype, Description: p.Description})
	}
	return infos
}

var emailPattern = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)

// requiredField is a form field with its human-readable label.
type requiredField struct {
	name  string
	label string
}

func checkRequired(ve *ValidationError, submission map[string]any, fields []requiredField) {
	for _, f := range fields {
		if !truthy(submission[f.name]) {
			ve.addField(f.name, f.label+" is required")
		}
	}
}

func checkEmail(ve *ValidationError, submission map[string]any, field string) {
	email, ok := TrimOrNil(submission[field]).(string)
	if !ok {
		return
	}
	if !emailPattern.MatchString(email) {
		ve.addField(field, "invalid email format")
	}
}

var nonPhoneChars = regexp.MustCompile(`[^\d+]`)

func checkPhone(ve *ValidationError, submission map[string]any, field string) {
	phone, ok := TrimOrNil(submission[field]).(string)
	if !ok {
		return
	}
	if len(nonPhoneChars.ReplaceAllString(phone, "")) < 9 {
		ve.addField(field, "phone number must be at least 9 digits")
	}
}

func checkAgeRange(ve *ValidationError, submission map[string]any, field string, minAge, maxAge int) {
	v := submission[field]
	if isEmpty(v) {
		return
	}
	age, ok := asInt(v)
	if !ok {
		ve.addField(field, "age must be a valid number")
		return
	}
	if age < minAge || age > maxAge {
		ve.addField(field, fmt.Sprintf("age must be between %d and %d", minAge, maxAge))
	}
}

func checkEnum(ve *ValidationError, submission map[string]any, field string, allowed []string) {
	v, ok := TrimOrNil(submission[field]).(string)
	if !ok {
		return
	}
	for _, a := range allowed {
		if v == a {
			return
		}
	}
	ve.addField(field, fmt.Sprintf("invalid value, must be one of: %s", strings.Join(allowed, ", ")))
}

// nonAmountChars strips currency symbols and unit suffixes so inputs like
// "$50" or "50 SAR" validate on their numeric part.
var nonAmountChars = regexp.MustCompile(`[^\d.]`)

func checkNonNegativeNumber(ve *ValidationError, submission map[string]any, field, label string) {
	v := submission[field]
	if isEmpty(v) {
		return
	}
	s := nonAmountChars.ReplaceAllString(stringify(v), "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		ve.addField(field, label+" must be a valid number")
		return
	}
	if f < 0 {
		ve.addField(field, label+" must be a positive number")
	}
}

// statusTranslations maps the frontend's Arabic project status display
// values to stored status values.
var statusTranslations = map[string]string{
	"قيد الفكرة":  "Open",
	"قيد التنفيذ": "Open",
	"قائم":        "Approved",
}

var storedStatuses = map[string]bool{
	"Open": true, "Approved": true, "Rejected": true, "Cancelled": true,
}

// trainingFieldOptions are the selectable training tracks.
var trainingFieldOptions = map[string]bool{
	"تصنيع غذائي": true,
	"خياطة":       true,
	"حرف":         true,
	"ريادة أعمال": true,
	"تدريب مهني ومعرفي لأصحاب المشاريع الصغيرة": true,
}

// pruneEmpty drops nil and empty-string values from a mapped document.
func pruneEmpty(m map[string]any) map[string]any {
	for k, v := range m {
		if v == nil || v == "" {
			delete(m, k)
		}
	}
	return m
}

func validateSmallProject(submission map[string]any) *ValidationError {
	ve := &ValidationError{}
	checkRequired(ve, submission, []requiredField{
		{"ownerFullName", "owner full name"},
		{"governorate", "governorate"},
		{"district", "district"},
		{"neighborhood", "neighborhood"},
		{"street", "street"},
		{"age", "age"},
		{"primaryPhone", "primary phone"},
		{"email", "email"},
		{"projectName", "project name"},
		{"projectStatus", "project status"},
		{"capital", "capital"},
		{"workersCount", "workers count"},
		{"startDate", "start date"},
		{"products", "products"},
		{"projectDescription", "project description"},
	})
	checkEmail(ve, submission, "email")
	checkAgeRange(ve, submission, "age", 18, 100)
	checkNonNegativeNumber(ve, submission, "capital", "capital")
	checkPhone(ve, submission, "primaryPhone")

	if v := submission["workersCount"]; !isEmpty(v) {
		if n, ok := asInt(v); !ok {
			ve.addField("workersCount", "workers count must be a valid number")
		} else if n < 0 {
			ve.addField("workersCount", "workers count must be a positive number")
		}
	}

	if status, ok := TrimOrNil(submission["projectStatus"]).(string); ok {
		if stored, known := statusTranslations[status]; known {
			submission["projectStatus"] = stored
		} else if !storedStatuses[status] {
			ve.addField("projectStatus", "invalid project status, must be one of: قيد الفكرة, قيد التنفيذ, قائم")
		}
	}

	mapping := MappingFor("small-project-register")
	tables := ProcessChildTables(mapping, submission)
	if tableErrs := ValidateChildTables(mapping, tables); len(tableErrs) > 0 {
		ve.ChildTableErrors = tableErrs
	}

	if ve.Empty() {
		return nil
	}
	return ve
}

func validateSimpleRegistration(required []requiredField) func(map[string]any) *ValidationError {
	return func(submission map[string]any) *ValidationError {
		ve := &ValidationError{}
		checkRequired(ve, submission, required)
		checkAgeRange(ve, submission, "age", 16, 100)
		checkPhone(ve, submission, "phone")
		if ve.Empty() {
			return nil
		}
		return ve
	}
}

// mapSimpleRegistration covers the flat training and volunteer forms that
// share a full_name/phone/city/age core.
func mapSimpleRegistration(extra func(submission map[string]any, mapped map[string]any)) func(map[string]any) (map[string]any, map[string][]map[string]any) {
	return func(submission map[string]any) (map[string]any, map[string][]map[string]any) {
		mapped := map[string]any{
			"full_name": submission["fullName"],
			"phone":     submission["phone"],
			"city":      submission["city"],
			"age":       submission["age"],
			"status":    "Open",
		}
		if extra != nil {
			extra(submission, mapped)
		}
		return pruneEmpty(mapped), nil
	}
}

func init() {
	registerProcessor(&Processor{
		FormType:    "small-project-register",
		Doctype:     "Micro Enterprise Request",
		Description: "Micro enterprise registration form for small business applications",
		Validate:    validateSmallProject,
		Map: func(submission map[string]any) (map[string]any, map[string][]map[string]any) {
			return MapSubmission(MappingFor("small-project-register"), submission)
		},
	})

	registerProcessor(&Processor{
		FormType:    "training-program",
		Doctype:     "Training Registration",
		Description: "Training program registration form",
		Validate: validateSimpleRegistration([]requiredField{
			{"fullName", "full name"},
			{"phone", "phone"},
			{"city", "city"},
			{"age", "age"},
		}),
		Map: mapSimpleRegistration(func(submission, mapped map[string]any) {
			mapped["reason"] = submission["reason"]
		}),
	})

	registerProcessor(&Processor{
		FormType:    "volunteer-program",
		Doctype:     "Volunteer Application",
		Description: "Volunteer program application form",
		Validate: validateSimpleRegistration([]requiredField{
			{"fullName", "full name"},
			{"phone", "phone"},
			{"city", "city"},
			{"age", "age"},
			{"favField", "favorite field"},
		}),
		Map: mapSimpleRegistration(func(submission, mapped map[string]any) {
			mapped["favorite_field"] = submission["favField"]
			mapped["summary"] = submission["summary"]
		}),
	})

	registerProcessor(&Processor{
		FormType:    "training-service",
		Doctype:     "Training Service Request",
		Description: "Training service request form",
		Validate: func(submission map[string]any) *ValidationError {
			ve := &ValidationError{}
			checkRequired(ve, submission, []requiredField{
				{"fullName", "full name"},
				{"phone", "phone"},
				{"city", "city"},
				{"age", "age"},
			})

			selected, _ := submission["trainingFields"].([]any)
			if len(selected) == 0 {
				ve.addField("trainingFields", "at least one training field must be selected")
			} else {
				var invalid []string
				for _, v := range selected {
					s, _ := v.(string)
					if !trainingFieldOptions[s] {
						invalid = append(invalid, s)
					}
				}
				if len(invalid) > 0 {
					ve.addField("trainingFields", "invalid training fields: "+strings.Join(invalid, ", "))
				}
			}

			checkAgeRange(ve, submission, "age", 16, 100)
			checkPhone(ve, submission, "phone")
			if ve.Empty() {
				return nil
			}
			return ve
		},
		Map: mapSimpleRegistration(func(submission, mapped map[string]any) {
			if selected, ok := submission["trainingFields"].([]any); ok {
				parts := make([]string, 0, len(selected))
				for _, v := range selected {
					if s, ok := v.(string); ok && s != "" {
						parts = append(parts, s)
					}
				}
				mapped["training_fields"] = strings.Join(parts, ", ")
			}
			mapped["reason"] = submission["reason"]
		}),
	})

	registerProcessor(&Processor{
		FormType:    "training-ad",
		Doctype:     "Training Advertisement",
		Description: "Training advertisement registration form",
		Validate: validateSimpleRegistration([]requiredField{
			{"fullName", "full name"},
			{"phone", "phone"},
			{"city", "city"},
			{"age", "age"},
		}),
		Map: mapSimpleRegistration(func(submission, mapped map[string]any) {
			mapped["reason"] = submission["reason"]
		}),
	})

	registerProcessor(&Processor{
		FormType:    "promote-project",
		Doctype:     "Project Promotion Request",
		Description: "Project promotion service request form",
		Validate: func(submission map[string]any) *ValidationError {
			ve := &ValidationError{}
			checkRequired(ve, submission, []requiredField{
				{"projectName", "project name"},
				{"projectDescription", "project description"},
			})
			checkNonNegativeNumber(ve, submission, "price", "price")
			if ve.Empty() {
				return nil
			}
			return ve
		},
		Map: func(submission map[string]any) (map[string]any, map[string][]map[string]any) {
			return pruneEmpty(map[string]any{
				"project_name":        submission["projectName"],
				"project_description": submission["projectDescription"],
				"price":               submission["price"],
				"status":              "Open",
			}), nil
		},
	})

	registerProcessor(&Processor{
		FormType:    "specs-memo-request",
		Doctype:     "Specification Memo Request",
		Description: "Specification memo request form",
		Validate: func(submission map[string]any) *ValidationError {
			ve := &ValidationError{}
			checkRequired(ve, submission, []requiredField{
				{"projectType", "project type"},
				{"projectName", "project name"},
				{"projectStatus", "project status"},
				{"startDate", "start date"},
				{"capital", "capital"},
				{"location", "location"},
				{"ownerName", "owner name"},
				{"gender", "gender"},
				{"birthDate", "birth date"},
				{"educationLevel", "education level"},
				{"currentAddress", "current address"},
				{"phone", "phone"},
			})
			checkEnum(ve, submission, "projectType", []string{"صغير", "متناهي الصغر", "مشروع صغير قيد التأسيس"})
			checkEnum(ve, submission, "projectStatus", []string{"نشط", "غير نشط"})
			checkEnum(ve, submission, "gender", []string{"ذكر", "أنثى"})
			checkEnum(ve, submission, "educationLevel", []string{"مدرسة", "جامعة", "معهد"})
			checkPhone(ve, submission, "phone")
			checkNonNegativeNumber(ve, submission, "capital", "capital")
			if ve.Empty() {
				return nil
			}
			return ve
		},
		Map: func(submission map[string]any) (map[string]any, map[string][]map[string]any) {
			return pruneEmpty(map[string]any{
				"project_type":    submission["projectType"],
				"project_name":    submission["projectName"],
				"project_status":  submission["projectStatus"],
				"start_date":      submission["startDate"],
				"capital":         submission["capital"],
				"location":        submission["location"],
				"owner_name":      submission["ownerName"],
				"gender":          submission["gender"],
				"birth_date":      submission["birthDate"],
				"education_level": submission["educationLevel"],
				"qualification":   submission["qualification"],
				"graduation_year": submission["graduationYear"],
				"current_address": submission["currentAddress"],
				"phone":           submission["phone"],
				"relative_phone":  submission["relativePhone"],
				"status":          "Open",
			}), nil
		},
	})

	registerProcessor(&Processor{
		FormType:    "contract-opportunity",
		Doctype:     "Contract Opportunity",
		Description: "Contract opportunity application form",
		Validate: func(submission map[string]any) *ValidationError {
			ve := &ValidationError{}
			checkRequired(ve, submission, []requiredField{
				{"fullName", "full name"},
				{"phone", "phone"},
				{"email", "email"},
				{"specialization", "specialization"},
				{"experienceYears", "experience years"},
				{"field", "field"},
				{"cvFile", "CV file"},
			})
			checkEmail(ve, submission, "email")
			checkPhone(ve, submission, "phone")

			if v := submission["experienceYears"]; !isEmpty(v) {
				if years, ok := asInt(v); !ok {
					ve.addField("experienceYears", "experience years must be a valid number")
				} else if years < 0 || years > 50 {
					ve.addField("experienceYears", "experience years must be between 0 and 50")
				}
			}
			if ve.Empty() {
				return nil
			}
			return ve
		},
		Map: func(submission map[string]any) (map[string]any, map[string][]map[string]any) {
			return pruneEmpty(map[string]any{
				"full_name":        submission["fullName"],
				"phone":            submission["phone"],
				"email":            submission["email"],
				"specialization":   submission["specialization"],
				"experience_years": submission["experienceYears"],
				"field":            submission["field"],
				"cover_letter":     submission["coverLetter"],
				"notes":            submission["notes"],
				"status":           "Open",
			}), nil
		},
	})

	registerProcessor(&Processor{
		FormType:    "contact-form",
		Doctype:     "Contact Inquiry",
		Description: "General contact inquiry form",
		Validate: func(submission map[string]any) *ValidationError {
			ve := &ValidationError{}
			checkRequired(ve, submission, []requiredField{
				{"fullName", "full name"},
				{"phone", "phone"},
				{"subject", "subject"},
				{"message", "message"},
			})
			checkEmail(ve, submission, "email")
			checkPhone(ve, submission, "phone")
			if ve.Empty() {
				return nil
			}
			return ve
		},
		Map: func(submission map[string]any) (map[string]any, map[string][]map[string]any) {
			return pruneEmpty(map[string]any{
				"full_name": submission["fullName"],
				"phone":     submission["phone"],
				"email":     submission["email"],
				"subject":   submission["subject"],
				"message":   submission["message"],
				"status":    "Open",
			}), nil
		},
	})
}
