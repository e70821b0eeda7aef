package app

import (
	"fmt"
	"log"
	"path/filepath"

	"docgen/adapters/excel"
	"docgen/domain/mapping"
	"docgen/domain/render"
	"docgen/domain/template"
	"docgen/ports"
)

// PipelineService composes the four pipeline stages: scan, map, translate,
// render. Every invocation is independent; the service holds no mutable
// state and is safe to share across goroutines.
type PipelineService struct {
	scanner    ports.WorkbookScanner
	mapper     ports.FieldMapper
	translator ports.DialectTranslator
	renderer   ports.ContextRenderer
}

// NewPipelineService wires an explicit set of stage implementations.
func NewPipelineService(
	scanner ports.WorkbookScanner,
	mapper ports.FieldMapper,
	translator ports.DialectTranslator,
	renderer ports.ContextRenderer,
) *PipelineService {
	return &PipelineService{
		scanner:    scanner,
		mapper:     mapper,
		translator: translator,
		renderer:   renderer,
	}
}

// NewDefaultPipeline builds the standard pipeline over the excelize scanner
// and the built-in bilingual dictionary.
func NewDefaultPipeline() *PipelineService {
	return NewPipelineWithDictionary(mapping.DefaultDictionary())
}

// NewPipelineWithDictionary builds the standard pipeline with a caller
// supplied synonym dictionary.
func NewPipelineWithDictionary(dict *mapping.SynonymDictionary) *PipelineService {
	return NewPipelineService(
		excel.NewScanner(),
		mapping.NewMapper(dict),
		dialectTranslator{},
		contextRenderer{},
	)
}

// GenerateResult is the full pipeline output for one workbook + template.
type GenerateResult struct {
	RenderedText string
	Unresolved   []render.UnresolvedReference
	Dialect      template.Dialect
	Model        mapping.CanonicalDocumentModel
	Warnings     []string
}

// MapWorkbook scans the workbook and maps its tables into a canonical
// model. The model can be reused to render any number of templates.
func (s *PipelineService) MapWorkbook(path string) (mapping.CanonicalDocumentModel, []string, error) {
	tables, err := s.scanner.Scan(path)
	if err != nil {
		return mapping.CanonicalDocumentModel{}, nil, err
	}

	model, warnings, err := s.mapper.Map(tables)
	if err != nil {
		return mapping.CanonicalDocumentModel{}, nil, err
	}
	model.Metadata.SourceFile = filepath.Base(path)

	// The mapper only sees sheets that produced tables; provenance lists
	// every sheet, narrative-only ones included.
	if sheets, err := s.scanner.SheetNames(path); err == nil {
		model.Metadata.Sheets = sheets
	}
	return model, warnings, nil
}

// NormalizeTemplate detects the template dialect and translates DialectA
// section syntax when present. PlainText and DialectB templates pass
// through unchanged.
func (s *PipelineService) NormalizeTemplate(text string) (string, template.Dialect, error) {
	dialect := s.translator.Detect(text)
	switch dialect {
	case template.DialectA, template.Mixed:
		normalized, err := s.translator.Translate(text)
		if err != nil {
			return "", dialect, fmt.Errorf("template normalization: %w", err)
		}
		return normalized, dialect, nil
	default:
		return text, dialect, nil
	}
}

// RenderTemplate normalizes the template and renders it against an already
// mapped model.
func (s *PipelineService) RenderTemplate(model mapping.CanonicalDocumentModel, templateText string) (string, []render.UnresolvedReference, error) {
	normalized, _, err := s.NormalizeTemplate(templateText)
	if err != nil {
		return "", nil, err
	}
	return s.renderer.Render(normalized, model)
}

// Generate runs the whole pipeline for one workbook and one template.
func (s *PipelineService) Generate(workbookPath, templateText string) (GenerateResult, error) {
	model, warnings, err := s.MapWorkbook(workbookPath)
	if err != nil {
		return GenerateResult{}, err
	}

	normalized, dialect, err := s.NormalizeTemplate(templateText)
	if err != nil {
		return GenerateResult{}, err
	}

	rendered, unresolved, err := s.renderer.Render(normalized, model)
	if err != nil {
		return GenerateResult{}, err
	}

	if len(unresolved) > 0 {
		log.Printf("[Pipeline] Rendered %q with %d unresolved references", filepath.Base(workbookPath), len(unresolved))
	}
	return GenerateResult{
		RenderedText: rendered,
		Unresolved:   unresolved,
		Dialect:      dialect,
		Model:        model,
		Warnings:     warnings,
	}, nil
}

// dialectTranslator adapts the template package functions to the port.
type dialectTranslator struct{}

func (dialectTranslator) Detect(text string) template.Dialect { return template.Detect(text) }

func (dialectTranslator) Translate(text string) (string, error) { return template.Translate(text) }

// contextRenderer builds the render context from the model before
// evaluating the template.
type contextRenderer struct{}

func (contextRenderer) Render(text string, model mapping.CanonicalDocumentModel) (string, []render.UnresolvedReference, error) {
	return render.Render(text, render.BuildContext(model))
}
