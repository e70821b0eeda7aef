package mapping

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"
)

// Mapper turns scanned tables into a canonical document model using a
// synonym dictionary. The dictionary is an immutable configuration value
// supplied at construction, never package-level state.
type Mapper struct {
	dict *SynonymDictionary
}

// NewMapper creates a mapper over a validated dictionary.
func NewMapper(dict *SynonymDictionary) *Mapper {
	return &Mapper{dict: dict}
}

// Map classifies every table and assembles the canonical model. Unclaimed
// tables land in the model's Unmapped bucket; an empty table list produces
// an empty-but-valid model. The returned warnings describe partial matches
// that may deserve manual inspection.
func (m *Mapper) Map(tables []Table) (CanonicalDocumentModel, []string, error) {
	model := NewEmptyModel()
	var warnings []string

	seenSheets := make(map[string]bool)
	for _, table := range tables {
		if !seenSheets[table.SheetName] {
			seenSheets[table.SheetName] = true
			model.Metadata.Sheets = append(model.Metadata.Sheets, table.SheetName)
		}

		fields := m.resolveHeaders(table.Header)

		switch {
		case m.isVerticalProgramInfo(table, fields):
			warnings = append(warnings, m.mapVerticalProgramInfo(&model, table)...)
		case isParticipantTable(fields):
			m.mapParticipants(&model, table, fields)
		case isEvaluationTable(table, fields):
			m.mapEvaluation(&model, table, fields)
		case isTentativeTable(fields):
			m.mapTentative(&model, table, fields)
		case isAttendanceTable(fields):
			m.mapAttendance(&model, table, fields)
		case hasSuggestionField(fields):
			m.mapSuggestions(&model, table, fields)
		case hasProgramInfoField(fields):
			m.mapProgramInfo(&model, table, fields)
		default:
			model.Unmapped = append(model.Unmapped, unmappedTable(table))
			warnings = append(warnings, fmt.Sprintf("sheet %q: table with headers %v did not match any canonical section", table.SheetName, table.Header))
		}
	}

	model.Metadata.ExtractedAt = time.Now().UTC()
	log.Printf("[Mapper] Mapped %d tables: %d participants, %d tentative days, %d evaluation sections, %d unmapped",
		len(tables), len(model.Participants), len(model.Tentative), len(model.Evaluation), len(model.Unmapped))
	return model, warnings, nil
}

// resolveHeaders looks up each header cell, returning header→canonical-field
// for the ones the dictionary recognizes.
func (m *Mapper) resolveHeaders(header []string) map[string]string {
	fields := make(map[string]string)
	for _, h := range header {
		if field, ok := m.dict.Lookup(h); ok {
			fields[h] = field
		}
	}
	return fields
}

// Field families used by the table classifiers.
var (
	participantFields = map[string]bool{FieldName: true, FieldOrganization: true, FieldPosition: true, FieldScore: true}
	programInfoFields = map[string]bool{FieldTitle: true, FieldDate: true, FieldLocation: true, FieldOrganizer: true, FieldObjectives: true, FieldParticipantCount: true}
	attendanceFields  = map[string]bool{FieldAttended: true, FieldAbsent: true, FieldRegistered: true}
	suggestionFields  = map[string]bool{FieldConsultantSuggestions: true, FieldParticipantSuggestions: true}
)

func countFamily(fields map[string]string, family map[string]bool) int {
	n := 0
	for _, field := range fields {
		if family[field] {
			n++
		}
	}
	return n
}

// isParticipantTable reports whether the matched headers predominantly
// belong to the participants family. A name column is required.
func isParticipantTable(fields map[string]string) bool {
	hits := countFamily(fields, participantFields)
	if hits < 2 {
		return false
	}
	hasName := false
	for _, field := range fields {
		if field == FieldName {
			hasName = true
		}
	}
	return hasName && hits*2 >= len(fields)
}

// isEvaluationTable detects rating-distribution tables: a metric column
// plus at least two numeric-bucket columns.
func isEvaluationTable(table Table, fields map[string]string) bool {
	hasMetric := false
	for _, field := range fields {
		if field == FieldMetric {
			hasMetric = true
		}
	}
	return hasMetric && len(ratingBuckets(table.Header)) >= 2
}

func isTentativeTable(fields map[string]string) bool {
	hasTime, hasActivity := false, false
	for _, field := range fields {
		switch field {
		case FieldTime:
			hasTime = true
		case FieldActivity:
			hasActivity = true
		}
	}
	return hasTime && hasActivity
}

func isAttendanceTable(fields map[string]string) bool {
	return countFamily(fields, attendanceFields) >= 1 &&
		countFamily(fields, attendanceFields) == len(fields)
}

func hasSuggestionField(fields map[string]string) bool {
	return countFamily(fields, suggestionFields) >= 1
}

func hasProgramInfoField(fields map[string]string) bool {
	return countFamily(fields, programInfoFields) >= 1
}

// isVerticalProgramInfo detects two-column label/value tables whose first
// header cell is itself a program info label. The scanner reads the first
// pair as the header row, so the header carries data in this orientation.
func (m *Mapper) isVerticalProgramInfo(table Table, fields map[string]string) bool {
	if len(table.Header) != 2 {
		return false
	}
	field, ok := m.dict.Lookup(table.Header[0])
	return ok && programInfoFields[field] && len(fields) <= 1
}

func (m *Mapper) mapVerticalProgramInfo(model *CanonicalDocumentModel, table Table) []string {
	var warnings []string
	assign := func(label, value string) {
		field, ok := m.dict.Lookup(label)
		if !ok || !programInfoFields[field] {
			warnings = append(warnings, fmt.Sprintf("sheet %q: unrecognized program info label %q", table.SheetName, label))
			return
		}
		model.ProgramInfo[field] = coerceValue(value)
	}

	// The header row is the first label/value pair in this orientation.
	assign(table.Header[0], table.Header[1])
	for _, row := range table.Rows {
		label := row[table.Header[0]]
		if strings.TrimSpace(label) == "" {
			continue
		}
		assign(label, row[table.Header[1]])
	}
	return warnings
}

func (m *Mapper) mapParticipants(model *CanonicalDocumentModel, table Table, fields map[string]string) {
	for _, row := range table.Rows {
		entry := make(map[string]any, len(table.Header))
		for _, h := range table.Header {
			key := h
			if field, ok := fields[h]; ok {
				key = field
			}
			entry[key] = coerceValue(row[h])
		}
		model.Participants = append(model.Participants, entry)
	}
}

func (m *Mapper) mapEvaluation(model *CanonicalDocumentModel, table Table, fields map[string]string) {
	metricHeader := ""
	for h, field := range fields {
		if field == FieldMetric {
			metricHeader = h
		}
	}
	buckets := ratingBuckets(table.Header)

	section := table.SheetName
	if model.Evaluation[section] == nil {
		model.Evaluation[section] = make(map[string]map[string]float64)
	}
	for _, row := range table.Rows {
		metric := strings.TrimSpace(row[metricHeader])
		if metric == "" {
			continue
		}
		dist := make(map[string]float64, len(buckets))
		for _, bucket := range buckets {
			if n, ok := coerceValue(row[bucket]).(float64); ok {
				dist[bucket] = n
			} else {
				dist[bucket] = 0
			}
		}
		model.Evaluation[section][metric] = dist
	}
}

func (m *Mapper) mapTentative(model *CanonicalDocumentModel, table Table, fields map[string]string) {
	headerFor := func(field string) string {
		for h, f := range fields {
			if f == field {
				return h
			}
		}
		return ""
	}
	timeHeader := headerFor(FieldTime)
	activityHeader := headerFor(FieldActivity)
	descriptionHeader := headerFor(FieldDescription)
	handlerHeader := headerFor(FieldHandler)
	dayHeader := headerFor(FieldDay)

	day := ""
	for _, row := range table.Rows {
		if dayHeader != "" {
			if label := strings.TrimSpace(row[dayHeader]); label != "" {
				day = label
			}
		} else if label, ok := dayLabelRow(table.Header, row); ok {
			day = label
			continue
		}
		if day == "" {
			day = "Day 1"
		}
		if strings.TrimSpace(row[timeHeader])+strings.TrimSpace(row[activityHeader]) == "" {
			continue
		}
		model.Tentative[day] = append(model.Tentative[day], ScheduleEntry{
			Time:        row[timeHeader],
			Activity:    row[activityHeader],
			Description: valueOrEmpty(row, descriptionHeader),
			Handler:     valueOrEmpty(row, handlerHeader),
		})
	}
}

// dayLabelRow detects a leading label row: only the first column carries a
// value, which names the day the following entries belong to.
func dayLabelRow(header []string, row RawRowData) (string, bool) {
	if len(header) == 0 {
		return "", false
	}
	label := strings.TrimSpace(row[header[0]])
	if label == "" {
		return "", false
	}
	for _, h := range header[1:] {
		if strings.TrimSpace(row[h]) != "" {
			return "", false
		}
	}
	return label, true
}

func (m *Mapper) mapAttendance(model *CanonicalDocumentModel, table Table, fields map[string]string) {
	if len(table.Rows) == 0 {
		return
	}
	row := table.Rows[0]
	for h, field := range fields {
		model.Attendance[field] = coerceValue(row[h])
	}
}

func (m *Mapper) mapSuggestions(model *CanonicalDocumentModel, table Table, fields map[string]string) {
	categories := map[string]string{
		FieldConsultantSuggestions:  "consultant",
		FieldParticipantSuggestions: "participants",
	}
	for h, field := range fields {
		category, ok := categories[field]
		if !ok {
			continue
		}
		for _, value := range table.ColumnValues(h) {
			if text := strings.TrimSpace(value); text != "" {
				model.Suggestions[category] = append(model.Suggestions[category], text)
			}
		}
	}
}

func (m *Mapper) mapProgramInfo(model *CanonicalDocumentModel, table Table, fields map[string]string) {
	if len(table.Rows) == 0 {
		return
	}
	row := table.Rows[0]
	for h, field := range fields {
		if programInfoFields[field] {
			model.ProgramInfo[field] = coerceValue(row[h])
		}
	}
}

func unmappedTable(table Table) UnmappedTable {
	rows := make([]map[string]any, 0, len(table.Rows))
	for _, row := range table.Rows {
		converted := make(map[string]any, len(row))
		for h, v := range row {
			converted[h] = coerceValue(v)
		}
		rows = append(rows, converted)
	}
	return UnmappedTable{SheetName: table.SheetName, Header: table.Header, Rows: rows}
}

// ratingBuckets returns header cells that are plain numbers, in header
// order. Evaluation tables use them as response-count columns.
func ratingBuckets(header []string) []string {
	var buckets []string
	for _, h := range header {
		if _, err := strconv.ParseFloat(strings.TrimSpace(h), 64); err == nil {
			buckets = append(buckets, h)
		}
	}
	return buckets
}

// coerceValue converts syntactically numeric cells to float64 and trims
// everything else.
func coerceValue(s string) any {
	text := strings.TrimSpace(s)
	if text == "" {
		return ""
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return f
	}
	return text
}

func valueOrEmpty(row RawRowData, header string) string {
	if header == "" {
		return ""
	}
	return row[header]
}
