package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMapper(t *testing.T) *Mapper {
	t.Helper()
	return NewMapper(DefaultDictionary())
}

func participantTable(sheet string) Table {
	return Table{
		SheetName: sheet,
		Header:    []string{"Name", "Organization", "Position"},
		Rows: []RawRowData{
			{"Name": "Ali", "Organization": "JPN", "Position": "Officer"},
			{"Name": "Siti", "Organization": "KKM", "Position": "Clerk"},
			{"Name": "Ravi", "Organization": "JKR", "Position": "Engineer"},
		},
	}
}

func TestMapParticipantTableOnly(t *testing.T) {
	model, warnings, err := newTestMapper(t).Map([]Table{participantTable("Peserta")})
	require.NoError(t, err)
	assert.Empty(t, warnings)

	require.Len(t, model.Participants, 3)
	assert.Empty(t, model.ProgramInfo)
	assert.Empty(t, model.Tentative)
	assert.Equal(t, "Ali", model.Participants[0][FieldName])
	assert.Equal(t, "JKR", model.Participants[2][FieldOrganization])
	assert.Equal(t, []string{"Peserta"}, model.Metadata.Sheets)
}

func TestMapParticipantsHaveUniformFieldSets(t *testing.T) {
	table := participantTable("Peserta")
	table.Header = append(table.Header, "Score")
	for i, score := range []string{"85", "90", "78"} {
		table.Rows[i]["Score"] = score
	}

	model, _, err := newTestMapper(t).Map([]Table{table})
	require.NoError(t, err)
	require.Len(t, model.Participants, 3)

	keys := func(entry map[string]any) []string {
		out := make([]string, 0, len(entry))
		for k := range entry {
			out = append(out, k)
		}
		return out
	}
	first := keys(model.Participants[0])
	for _, entry := range model.Participants[1:] {
		assert.ElementsMatch(t, first, keys(entry))
	}
	assert.Equal(t, 85.0, model.Participants[0][FieldScore])
}

func TestMapRetainsUnmatchedHeadersInEntries(t *testing.T) {
	table := participantTable("Peserta")
	table.Header = append(table.Header, "Remarks")
	for i := range table.Rows {
		table.Rows[i]["Remarks"] = "ok"
	}

	model, _, err := newTestMapper(t).Map([]Table{table})
	require.NoError(t, err)
	assert.Equal(t, "ok", model.Participants[0]["Remarks"])
}

func TestMapVerticalProgramInfo(t *testing.T) {
	table := Table{
		SheetName: "Maklumat",
		Header:    []string{"Tajuk", "Program Bina Insan"},
		Rows: []RawRowData{
			{"Tajuk": "Tarikh", "Program Bina Insan": "12 Mac 2024"},
			{"Tajuk": "Tempat", "Program Bina Insan": "Dewan Seri Melati"},
			{"Tajuk": "Penganjur", "Program Bina Insan": "Unit Latihan"},
		},
	}

	model, warnings, err := newTestMapper(t).Map([]Table{table})
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, "Program Bina Insan", model.ProgramInfo[FieldTitle])
	assert.Equal(t, "12 Mac 2024", model.ProgramInfo[FieldDate])
	assert.Equal(t, "Dewan Seri Melati", model.ProgramInfo[FieldLocation])
	assert.Equal(t, "Unit Latihan", model.ProgramInfo[FieldOrganizer])
}

func TestMapTentativeWithDayLabelRows(t *testing.T) {
	table := Table{
		SheetName: "Tentatif",
		Header:    []string{"Masa", "Aktiviti", "Penceramah"},
		Rows: []RawRowData{
			{"Masa": "Hari 1", "Aktiviti": "", "Penceramah": ""},
			{"Masa": "0900", "Aktiviti": "Pendaftaran", "Penceramah": ""},
			{"Masa": "1030", "Aktiviti": "Sesi 1", "Penceramah": "Dr. Lim"},
			{"Masa": "Hari 2", "Aktiviti": "", "Penceramah": ""},
			{"Masa": "0900", "Aktiviti": "Sesi 2", "Penceramah": "Pn. Aina"},
		},
	}

	model, _, err := newTestMapper(t).Map([]Table{table})
	require.NoError(t, err)
	require.Len(t, model.Tentative, 2)
	require.Len(t, model.Tentative["Hari 1"], 2)
	require.Len(t, model.Tentative["Hari 2"], 1)
	assert.Equal(t, "Sesi 1", model.Tentative["Hari 1"][1].Activity)
	assert.Equal(t, "Dr. Lim", model.Tentative["Hari 1"][1].Handler)
}

func TestMapTentativeWithExplicitDayColumn(t *testing.T) {
	table := Table{
		SheetName: "Tentatif",
		Header:    []string{"Hari", "Masa", "Aktiviti"},
		Rows: []RawRowData{
			{"Hari": "Isnin", "Masa": "0900", "Aktiviti": "Pendaftaran"},
			{"Hari": "", "Masa": "1030", "Aktiviti": "Sesi 1"},
			{"Hari": "Selasa", "Masa": "0900", "Aktiviti": "Sesi 2"},
		},
	}

	model, _, err := newTestMapper(t).Map([]Table{table})
	require.NoError(t, err)
	require.Len(t, model.Tentative["Isnin"], 2)
	require.Len(t, model.Tentative["Selasa"], 1)
}

func TestMapEvaluationDistribution(t *testing.T) {
	table := Table{
		SheetName: "Penilaian",
		Header:    []string{"Item", "1", "2", "3", "4", "5"},
		Rows: []RawRowData{
			{"Item": "Content quality", "1": "0", "2": "1", "3": "2", "4": "5", "5": "4"},
			{"Item": "Delivery", "1": "1", "2": "0", "3": "3", "4": "4", "5": "4"},
		},
	}

	model, _, err := newTestMapper(t).Map([]Table{table})
	require.NoError(t, err)
	require.Contains(t, model.Evaluation, "Penilaian")
	dist := model.Evaluation["Penilaian"]["Content quality"]
	assert.Equal(t, 5.0, dist["4"])
	assert.Equal(t, 0.0, dist["1"])
	assert.Len(t, model.Evaluation["Penilaian"], 2)
}

func TestMapAttendanceCounts(t *testing.T) {
	table := Table{
		SheetName: "Kehadiran",
		Header:    []string{"Hadir", "Tidak Hadir"},
		Rows: []RawRowData{
			{"Hadir": "42", "Tidak Hadir": "3"},
		},
	}

	model, _, err := newTestMapper(t).Map([]Table{table})
	require.NoError(t, err)
	assert.Equal(t, 42.0, model.Attendance[FieldAttended])
	assert.Equal(t, 3.0, model.Attendance[FieldAbsent])
}

func TestMapSuggestions(t *testing.T) {
	table := Table{
		SheetName: "Cadangan",
		Header:    []string{"Cadangan Peserta", "Cadangan Penceramah"},
		Rows: []RawRowData{
			{"Cadangan Peserta": "More breaks", "Cadangan Penceramah": "Extend Q&A"},
			{"Cadangan Peserta": "Better venue", "Cadangan Penceramah": ""},
		},
	}

	model, _, err := newTestMapper(t).Map([]Table{table})
	require.NoError(t, err)
	assert.Equal(t, []string{"More breaks", "Better venue"}, model.Suggestions["participants"])
	assert.Equal(t, []string{"Extend Q&A"}, model.Suggestions["consultant"])
}

func TestMapUnclaimedTableLandsInUnmappedBucket(t *testing.T) {
	table := Table{
		SheetName: "Lain",
		Header:    []string{"Kod", "Rujukan"},
		Rows: []RawRowData{
			{"Kod": "A1", "Rujukan": "X/2024"},
		},
	}

	model, warnings, err := newTestMapper(t).Map([]Table{table})
	require.NoError(t, err)
	require.Len(t, model.Unmapped, 1)
	assert.Equal(t, "Lain", model.Unmapped[0].SheetName)
	assert.Equal(t, "A1", model.Unmapped[0].Rows[0]["Kod"])
	assert.Len(t, warnings, 1)
}

func TestMapZeroTablesYieldsEmptyValidModel(t *testing.T) {
	model, warnings, err := newTestMapper(t).Map(nil)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.NotNil(t, model.Participants)
	assert.Empty(t, model.Participants)
	assert.NotNil(t, model.ProgramInfo)
	assert.False(t, model.Metadata.ExtractedAt.IsZero())
}
