package mapping

import "time"

// ScheduleEntry is one row of the program tentative.
type ScheduleEntry struct {
	Time        string `json:"time"`
	Activity    string `json:"activity"`
	Description string `json:"description"`
	Handler     string `json:"handler"`
}

// UnmappedTable retains a table none of the classifiers claimed, so data is
// inspectable rather than silently lost.
type UnmappedTable struct {
	SheetName string           `json:"sheet_name"`
	Header    []string         `json:"header"`
	Rows      []map[string]any `json:"rows"`
}

// Metadata records provenance for a canonical model.
type Metadata struct {
	SourceFile  string    `json:"source_file"`
	Sheets      []string  `json:"sheets"`
	ExtractedAt time.Time `json:"extracted_at"`
}

// CanonicalDocumentModel is the target shape every template is rendered
// against. It is produced once by the Mapper and treated as immutable for
// the rest of the pipeline.
//
// ProgramInfo and Attendance hold scalars only (string or float64);
// collection-typed sections never appear as bare scalars.
type CanonicalDocumentModel struct {
	ProgramInfo  map[string]any                           `json:"program_info"`
	Participants []map[string]any                         `json:"participants"`
	Evaluation   map[string]map[string]map[string]float64 `json:"evaluation"` // section -> metric -> rating -> count
	Tentative    map[string][]ScheduleEntry               `json:"tentative"`  // day label -> entries
	Attendance   map[string]any                           `json:"attendance"`
	Suggestions  map[string][]string                      `json:"suggestions"` // "consultant" / "participants"
	Unmapped     []UnmappedTable                          `json:"unmapped,omitempty"`
	Metadata     Metadata                                 `json:"metadata"`
}

// NewEmptyModel returns a valid model with every section empty. Zero tables
// is not an error condition.
func NewEmptyModel() CanonicalDocumentModel {
	return CanonicalDocumentModel{
		ProgramInfo:  map[string]any{},
		Participants: []map[string]any{},
		Evaluation:   map[string]map[string]map[string]float64{},
		Tentative:    map[string][]ScheduleEntry{},
		Attendance:   map[string]any{},
		Suggestions:  map[string][]string{},
	}
}
