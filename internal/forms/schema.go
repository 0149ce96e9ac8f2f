// Formgate - Form Submission Gateway for the Enjaz Enterprise Support Portal
// Copyright 2026 Enjaz Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/enjaz-platform/formgate

package forms

// SchemaField describes one field of a form for frontend consumption.
type SchemaField struct {
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	Required bool     `json:"required"`
	Label    string   `json:"label"`
	Min      *int     `json:"min,omitempty"`
	Max      *int     `json:"max,omitempty"`
	Options  []string `json:"options,omitempty"`
	Accept   string   `json:"accept,omitempty"`
	MaxFiles int      `json:"max_files,omitempty"`
}

// Schema is the field layout and validation hints for one form type.
type Schema struct {
	FormType string        `json:"form_type"`
	Fields   []SchemaField `json:"fields"`
}

func intp(n int) *int { return &n }

// SchemaFor returns the schema for a form type, or nil when unknown.
func SchemaFor(formType string) *Schema {
	return schemas[formType]
}

// simpleRegistrationFields is the shared core of the training and
// volunteer forms.
func simpleRegistrationFields() []SchemaField {
	return []SchemaField{
		{Name: "fullName", Type: "string", Required: true, Label: "Full Name"},
		{Name: "phone", Type: "string", Required: true, Label: "Phone"},
		{Name: "city", Type: "string", Required: true, Label: "City"},
		{Name: "age", Type: "number", Required: true, Label: "Age", Min: intp(16), Max: intp(100)},
	}
}

var schemas = map[string]*Schema{
	"small-project-register": {
		FormType: "small-project-register",
		Fields: []SchemaField{
			{Name: "ownerFullName", Type: "string", Required: true, Label: "Owner Full Name"},
			{Name: "governorate", Type: "string", Required: true, Label: "Governorate"},
			{Name: "district", Type: "string", Required: true, Label: "District"},
			{Name: "neighborhood", Type: "string", Required: true, Label: "Neighborhood"},
			{Name: "street", Type: "string", Required: true, Label: "Street"},
			{Name: "age", Type: "number", Required: true, Label: "Age", Min: intp(18), Max: intp(100)},
			{Name: "primaryPhone", Type: "string", Required: true, Label: "Primary Phone"},
			{Name: "secondaryPhone", Type: "string", Required: false, Label: "Secondary Phone"},
			{Name: "email", Type: "email", Required: true, Label: "Email"},
			{Name: "projectName", Type: "string", Required: true, Label: "Project Name"},
			{Name: "projectStatus", Type: "string", Required: true, Label: "Project Status"},
			{Name: "capital", Type: "number", Required: true, Label: "Capital"},
			{Name: "workersCount", Type: "number", Required: true, Label: "Workers Count"},
			{Name: "startDate", Type: "date", Required: true, Label: "Start Date"},
			{Name: "products", Type: "string", Required: true, Label: "Products"},
			{Name: "projectDescription", Type: "text", Required: true, Label: "Project Description"},
			{Name: "idCardImage", Type: "file", Required: false, Label: "ID Card Image", Accept: "image/*"},
		},
	},
	"training-program": {
		FormType: "training-program",
		Fields: append(simpleRegistrationFields(),
			SchemaField{Name: "reason", Type: "text", Required: false, Label: "Reason for Joining"},
		),
	},
	"volunteer-program": {
		FormType: "volunteer-program",
		Fields: append(simpleRegistrationFields(),
			SchemaField{Name: "favField", Type: "string", Required: true, Label: "Favorite Field"},
			SchemaField{Name: "summary", Type: "text", Required: false, Label: "Experience Summary"},
		),
	},
	"training-service": {
		FormType: "training-service",
		Fields: append(simpleRegistrationFields(),
			SchemaField{
				Name: "trainingFields", Type: "array", Required: true, Label: "Training Fields",
				Options: []string{
					"تصنيع غذائي",
					"خياطة",
					"حرف",
					"ريادة أعمال",
					"تدريب مهني ومعرفي لأصحاب المشاريع الصغيرة",
				},
			},
			SchemaField{Name: "reason", Type: "text", Required: false, Label: "Reason for Training"},
		),
	},
	"training-ad": {
		FormType: "training-ad",
		Fields: append(simpleRegistrationFields(),
			SchemaField{Name: "reason", Type: "text", Required: false, Label: "Reason for Joining"},
		),
	},
	"promote-project": {
		FormType: "promote-project",
		Fields: []SchemaField{
			{Name: "projectName", Type: "string", Required: true, Label: "Project Name"},
			{Name: "projectDescription", Type: "text", Required: true, Label: "Project Description"},
			{Name: "price", Type: "string", Required: false, Label: "Price"},
			{Name: "files", Type: "file", Required: false, Label: "Product Images", Accept: "image/*", MaxFiles: 3},
		},
	},
	"specs-memo-request": {
		FormType: "specs-memo-request",
		Fields: []SchemaField{
			{Name: "projectType", Type: "radio", Required: true, Label: "Project Type", Options: []string{"صغير", "متناهي الصغر", "مشروع صغير قيد التأسيس"}},
			{Name: "projectName", Type: "string", Required: true, Label: "Project Name"},
			{Name: "projectStatus", Type: "radio", Required: true, Label: "Project Status", Options: []string{"نشط", "غير نشط"}},
			{Name: "startDate", Type: "string", Required: true, Label: "Start Date"},
			{Name: "capital", Type: "string", Required: true, Label: "Capital"},
			{Name: "location", Type: "string", Required: true, Label: "Location"},
			{Name: "ownerName", Type: "string", Required: true, Label: "Owner Name"},
			{Name: "gender", Type: "radio", Required: true, Label: "Gender", Options: []string{"ذكر", "أنثى"}},
			{Name: "birthDate", Type: "string", Required: true, Label: "Birth Date"},
			{Name: "educationLevel", Type: "radio", Required: true, Label: "Education Level", Options: []string{"مدرسة", "جامعة", "معهد"}},
			{Name: "qualification", Type: "string", Required: false, Label: "Qualification"},
			{Name: "graduationYear", Type: "string", Required: false, Label: "Graduation Year"},
			{Name: "currentAddress", Type: "string", Required: true, Label: "Current Address"},
			{Name: "phone", Type: "string", Required: true, Label: "Phone"},
			{Name: "relativePhone", Type: "string", Required: false, Label: "Relative Phone"},
		},
	},
	"contract-opportunity": {
		FormType: "contract-opportunity",
		Fields: []SchemaField{
			{Name: "fullName", Type: "string", Required: true, Label: "Full Name"},
			{Name: "phone", Type: "string", Required: true, Label: "Phone"},
			{Name: "email", Type: "email", Required: true, Label: "Email"},
			{Name: "specialization", Type: "string", Required: true, Label: "Specialization"},
			{Name: "experienceYears", Type: "number", Required: true, Label: "Experience Years", Min: intp(0), Max: intp(50)},
			{Name: "field", Type: "string", Required: true, Label: "Field"},
			{Name: "cvFile", Type: "file", Required: true, Label: "CV File", Accept: ".pdf,.doc,.docx"},
			{Name: "coverLetter", Type: "text", Required: false, Label: "Cover Letter"},
			{Name: "notes", Type: "text", Required: false, Label: "Notes"},
		},
	},
	"contact-form": {
		FormType: "contact-form",
		Fields: []SchemaField{
			{Name: "fullName", Type: "string", Required: true, Label: "Full Name"},
			{Name: "phone", Type: "string", Required: true, Label: "Phone"},
			{Name: "email", Type: "email", Required: false, Label: "Email"},
			{Name: "subject", Type: "string", Required: true, Label: "Subject"},
			{Name: "message", Type: "text", Required: true, Label: "Message"},
		},
	},
}
