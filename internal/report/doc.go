// Package report turns record collections into renderable documents.
//
// The formatter helpers (Truncate, FormatLocation, CategoryColor and the
// Partition functions) normalize raw fields. The templates are pure
// functions from a TemplateInput to a Document: a header, a statistics
// block, one or more tables and a footer. Serialization lives in
// internal/render.
package report
