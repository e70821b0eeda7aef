package ports

import (
	"io"

	"docgen/domain/mapping"
	"docgen/domain/render"
	"docgen/domain/template"
)

// WorkbookScanner extracts rectangular tables from a workbook
// The pipeline never sees raw worksheet cells, only closed tables
type WorkbookScanner interface {
	Scan(path string) ([]mapping.Table, error)
	ScanReader(name string, r io.Reader) ([]mapping.Table, error)
	// SheetNames lists every worksheet, including ones that yield no tables.
	SheetNames(path string) ([]string, error)
}

// FieldMapper assembles scanned tables into the canonical document model
type FieldMapper interface {
	Map(tables []mapping.Table) (mapping.CanonicalDocumentModel, []string, error)
}

// DialectTranslator classifies template markup and normalizes DialectA
// section syntax into DialectB control tags
type DialectTranslator interface {
	Detect(text string) template.Dialect
	Translate(text string) (string, error)
}

// ContextRenderer evaluates a normalized template against a canonical model
type ContextRenderer interface {
	Render(text string, model mapping.CanonicalDocumentModel) (string, []render.UnresolvedReference, error)
}
