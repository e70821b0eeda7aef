package app

import (
	"sort"
	"time"

	"docgen/domain/mapping"

	"github.com/montanaflynn/stats"
)

// Summary is the JSON-serializable digest of a canonical model produced for
// diagnostic and CLI use.
type Summary struct {
	SourceFile         string              `json:"source_file"`
	Sheets             []string            `json:"sheets"`
	ExtractedAt        time.Time           `json:"extracted_at"`
	ProgramInfo        map[string]any      `json:"program_info"`
	ParticipantCount   int                 `json:"participant_count"`
	ParticipantSample  []map[string]any    `json:"participant_sample,omitempty"`
	ScoreStats         *ScoreStats         `json:"score_stats,omitempty"`
	EvaluationSections map[string][]string `json:"evaluation_sections"`
	TentativeDays      map[string]int      `json:"tentative_days"`
	SuggestionCounts   map[string]int      `json:"suggestion_counts"`
	Attendance         map[string]any      `json:"attendance"`
	UnmappedTables     int                 `json:"unmapped_tables"`
}

// ScoreStats summarizes the numeric score column across participants.
type ScoreStats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

const participantSampleSize = 3

// BuildSummary digests a canonical model into its CLI/diagnostic summary.
func BuildSummary(model mapping.CanonicalDocumentModel) Summary {
	summary := Summary{
		SourceFile:         model.Metadata.SourceFile,
		Sheets:             model.Metadata.Sheets,
		ExtractedAt:        model.Metadata.ExtractedAt,
		ProgramInfo:        model.ProgramInfo,
		ParticipantCount:   len(model.Participants),
		ScoreStats:         scoreStats(model.Participants),
		EvaluationSections: make(map[string][]string, len(model.Evaluation)),
		TentativeDays:      make(map[string]int, len(model.Tentative)),
		SuggestionCounts:   make(map[string]int, len(model.Suggestions)),
		Attendance:         model.Attendance,
		UnmappedTables:     len(model.Unmapped),
	}

	sample := model.Participants
	if len(sample) > participantSampleSize {
		sample = sample[:participantSampleSize]
	}
	summary.ParticipantSample = sample

	for section, metrics := range model.Evaluation {
		names := make([]string, 0, len(metrics))
		for metric := range metrics {
			names = append(names, metric)
		}
		sort.Strings(names)
		summary.EvaluationSections[section] = names
	}
	for day, entries := range model.Tentative {
		summary.TentativeDays[day] = len(entries)
	}
	for category, texts := range model.Suggestions {
		summary.SuggestionCounts[category] = len(texts)
	}
	return summary
}

// scoreStats computes distribution statistics over the participants' score
// field. Nil when no participant carries a numeric score.
func scoreStats(participants []map[string]any) *ScoreStats {
	var scores []float64
	for _, p := range participants {
		if score, ok := p[mapping.FieldScore].(float64); ok {
			scores = append(scores, score)
		}
	}
	if len(scores) == 0 {
		return nil
	}

	// stats errors only on empty input, which is excluded above.
	mean, _ := stats.Mean(scores)
	median, _ := stats.Median(scores)
	min, _ := stats.Min(scores)
	max, _ := stats.Max(scores)
	return &ScoreStats{
		Count:  len(scores),
		Mean:   mean,
		Median: median,
		Min:    min,
		Max:    max,
	}
}
