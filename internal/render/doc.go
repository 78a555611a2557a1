// Package render serializes report documents. PDF is the default backend
// (go-pdf/fpdf, optionally verified with pdfcpu); XLSX (excelize) and CSV
// are offered for spreadsheet users.
package render
