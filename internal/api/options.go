// Formgate - Form Submission Gateway for the Enjaz Enterprise Support Portal
// Copyright 2026 Enjaz Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/enjaz-platform/formgate

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Option is one selectable value for a form field. Labels are Arabic-facing,
// values are the stored English identifiers.
type Option struct {
	Label   string `json:"label"`
	Value   string `json:"value"`
	Arabic  string `json:"arabic,omitempty"`
	English string `json:"english,omitempty"`
}

// fieldOptionOrder fixes the listing order of the catalog.
var fieldOptionOrder = []string{
	"gender",
	"enterprise_type",
	"unit",
	"salutation",
	"city_name",
	"directorate_name",
	"district_name",
	"village_name",
	"sector_name",
	"sector_type_name",
	"sector_type_details_name",
}

// fieldOptions is the static option catalog. Fields with an empty list are
// declared so frontends can render the picker, populated by operators later.
var fieldOptions = map[string][]Option{
	"gender": {
		{Label: "ذكر", Value: "Male", Arabic: "ذكر", English: "Male"},
		{Label: "أنثى", Value: "Female", Arabic: "أنثى", English: "Female"},
	},
	"enterprise_type": {},
	"unit": {
		{Label: "كيلوجرام", Value: "Kg"},
		{Label: "صندوق", Value: "Box"},
		{Label: "قطعة", Value: "Nos"},
		{Label: "متر", Value: "Meter"},
		{Label: "لتر", Value: "Litre"},
	},
	"salutation": {
		{Label: "السيد", Value: "Mr"},
		{Label: "الآنسة", Value: "Ms"},
		{Label: "السيدة", Value: "Mrs"},
		{Label: "الدكتور", Value: "Dr"},
	},
	"city_name": {
		{Label: "أمانة العاصمة", Value: "Amanat Al Asimah"},
		{Label: "صنعاء", Value: "Sana'a"},
		{Label: "عدن", Value: "Aden"},
		{Label: "تعز", Value: "Taiz"},
		{Label: "الحديدة", Value: "Al Hudaydah"},
		{Label: "إب", Value: "Ibb"},
		{Label: "ذمار", Value: "Dhamar"},
		{Label: "حضرموت", Value: "Hadramaut"},
	},
	"directorate_name": {},
	"district_name": {
		{Label: "السبعين", Value: "As Sab'een"},
		{Label: "الثورة", Value: "Ath Thawrah"},
		{Label: "شعوب", Value: "Shu'aub"},
		{Label: "الوحدة", Value: "Al Wahda"},
		{Label: "معين", Value: "Ma'een"},
		{Label: "الصافية", Value: "As Safiyah"},
	},
	"village_name": {
		{Label: "حي السبعين", Value: "As Sab'een District"},
		{Label: "حي الثورة", Value: "Ath Thawrah District"},
		{Label: "حي شعوب", Value: "Shu'aub District"},
		{Label: "حي الوحدة", Value: "Al Wahda District"},
		{Label: "حي معين", Value: "Ma'een District"},
		{Label: "حي الصافية", Value: "As Safiyah District"},
	},
	"sector_name": {},
	"sector_type_name": {
		{Label: "صناعة غذائية", Value: "Food Industry"},
		{Label: "صناعة نسيجية", Value: "Textile Industry"},
		{Label: "صناعة كيميائية", Value: "Chemical Industry"},
		{Label: "تجارة تجزئة", Value: "Retail Trade"},
		{Label: "تجارة جملة", Value: "Wholesale Trade"},
		{Label: "خدمات مالية", Value: "Financial Services"},
		{Label: "تكنولوجيا المعلومات", Value: "Information Technology"},
	},
	"sector_type_details_name": {
		{Label: "إنتاج المخبوزات", Value: "Bakery Production"},
		{Label: "تصنيع الألبان", Value: "Dairy Manufacturing"},
		{Label: "تعبئة وتغليف", Value: "Packaging"},
		{Label: "خياطة الملابس", Value: "Clothing Manufacturing"},
		{Label: "نسج السجاد", Value: "Carpet Weaving"},
		{Label: "تجارة المواد الغذائية", Value: "Food Trade"},
		{Label: "تجارة الإلكترونيات", Value: "Electronics Trade"},
	},
}

// Options handles GET /api/v1/options. Returns the full option catalog.
// Declared-but-empty fields are omitted unless include_empty is set, so
// frontends that only render populated pickers get a compact payload.
func (h *Handler) Options(w http.ResponseWriter, r *http.Request) {
	includeEmpty := r.URL.Query().Get("include_empty") == "true"

	out := make(map[string][]Option, len(fieldOptions))
	for _, field := range fieldOptionOrder {
		opts := fieldOptions[field]
		if len(opts) == 0 && !includeEmpty {
			continue
		}
		out[field] = opts
	}
	WriteSuccess(w, r, out)
}

// FieldOptions handles GET /api/v1/options/{field}. Declared fields with no
// values return an empty list, not a 404.
func (h *Handler) FieldOptions(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	field := chi.URLParam(r, "field")

	opts, ok := fieldOptions[field]
	if !ok {
		rw.NotFound("Unknown option field")
		return
	}
	rw.Success(map[string]interface{}{
		"field":   field,
		"options": opts,
	})
}
