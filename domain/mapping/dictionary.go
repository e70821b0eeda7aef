package mapping

import (
	"sort"
	"strings"

	"docgen/domain/core"
)

// Canonical field names recognized by the mapper. Grouped by the model
// section they feed.
const (
	// program_info family
	FieldTitle            = "title"
	FieldDate             = "date"
	FieldLocation         = "location"
	FieldOrganizer        = "organizer"
	FieldObjectives       = "objectives"
	FieldParticipantCount = "participant_count"

	// participants family
	FieldName         = "name"
	FieldOrganization = "organization"
	FieldPosition     = "position"
	FieldScore        = "score"

	// tentative family
	FieldDay         = "day"
	FieldTime        = "time"
	FieldActivity    = "activity"
	FieldDescription = "description"
	FieldHandler     = "handler"

	// evaluation family
	FieldMetric = "metric"

	// attendance family
	FieldAttended   = "attended"
	FieldAbsent     = "absent"
	FieldRegistered = "registered"

	// suggestions family
	FieldConsultantSuggestions  = "consultant_suggestions"
	FieldParticipantSuggestions = "participant_suggestions"
)

// SynonymDictionary maps spreadsheet header aliases to canonical field
// names. Aliases are matched case-insensitively with surrounding whitespace
// trimmed; alias sets for distinct fields must not overlap.
type SynonymDictionary struct {
	entries map[string][]string // canonical field -> aliases as given
	index   map[string]string   // normalized alias -> canonical field
}

// NewSynonymDictionary builds a dictionary from canonical-field→aliases
// entries. Overlapping alias sets are a configuration bug and fail with
// ErrAmbiguousHeaderMapping rather than picking a winner at mapping time.
func NewSynonymDictionary(entries map[string][]string) (*SynonymDictionary, error) {
	d := &SynonymDictionary{
		entries: make(map[string][]string, len(entries)),
		index:   make(map[string]string),
	}

	// Deterministic order so the same configuration bug always reports the
	// same field pair.
	fields := make([]string, 0, len(entries))
	for field := range entries {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		aliases := entries[field]
		d.entries[field] = append([]string(nil), aliases...)
		for _, alias := range aliases {
			key := normalizeHeader(alias)
			if key == "" {
				continue
			}
			if owner, exists := d.index[key]; exists && owner != field {
				return nil, core.NewAmbiguousHeaderError(alias, owner, field)
			}
			d.index[key] = field
		}
	}
	return d, nil
}

// Lookup resolves a header cell to its canonical field name.
func (d *SynonymDictionary) Lookup(header string) (string, bool) {
	field, ok := d.index[normalizeHeader(header)]
	return field, ok
}

// Fields returns the canonical field names in sorted order.
func (d *SynonymDictionary) Fields() []string {
	fields := make([]string, 0, len(d.entries))
	for field := range d.entries {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

func normalizeHeader(header string) string {
	return strings.ToLower(strings.TrimSpace(header))
}

// DefaultDictionary returns the built-in bilingual (English/Malay) synonym
// table covering the headers seen in the source workbooks.
func DefaultDictionary() *SynonymDictionary {
	d, err := NewSynonymDictionary(defaultEntries)
	if err != nil {
		// The built-in table is validated by tests; overlap here is a
		// programming error, not a runtime condition.
		panic(err)
	}
	return d
}

var defaultEntries = map[string][]string{
	FieldTitle:            {"Title", "Program Title", "Tajuk", "Tajuk Program", "Nama Program"},
	FieldDate:             {"Date", "Program Date", "Tarikh", "Tarikh Program"},
	FieldLocation:         {"Location", "Venue", "Tempat", "Lokasi"},
	FieldOrganizer:        {"Organizer", "Organiser", "Penganjur", "Anjuran"},
	FieldObjectives:       {"Objectives", "Objective", "Objektif"},
	FieldParticipantCount: {"Participant Count", "No. of Participants", "Bilangan Peserta", "Bil. Peserta", "Jumlah Peserta"},

	FieldName:         {"Name", "Participant Name", "Nama", "Nama Peserta"},
	FieldOrganization: {"Organization", "Organisation", "Organisasi", "Agensi", "Jabatan"},
	FieldPosition:     {"Position", "Designation", "Jawatan"},
	FieldScore:        {"Score", "Marks", "Skor", "Markah"},

	FieldDay:         {"Day", "Hari"},
	FieldTime:        {"Time", "Masa"},
	FieldActivity:    {"Activity", "Aktiviti"},
	FieldDescription: {"Description", "Penerangan", "Keterangan", "Butiran"},
	FieldHandler:     {"Handler", "Facilitator", "Speaker", "Pengendali", "Penceramah", "Fasilitator"},

	FieldMetric: {"Metric", "Item", "Criteria", "Perkara", "Aspek", "Kriteria"},

	FieldAttended:   {"Attended", "Hadir"},
	FieldAbsent:     {"Absent", "Tidak Hadir"},
	FieldRegistered: {"Registered", "Berdaftar"},

	FieldConsultantSuggestions:  {"Consultant Suggestions", "Cadangan Penceramah", "Cadangan Perunding"},
	FieldParticipantSuggestions: {"Participant Suggestions", "Suggestions", "Cadangan", "Cadangan Peserta"},
}
