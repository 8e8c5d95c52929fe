package repositories

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"csv_manager_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() *models.RecordTable {
	table := models.NewRecordTable()
	table.Rows = [][]string{
		{"Jan", "de Vries", "jan@example.com", "+31 6 1234", "2024-06-01, 2024-06-03", "Confirmed"},
		{"John", "Doe, Jr.", "john@example.com", "", "", ""},
		{"Anna", "\"Quoted\" Smit", "anna@example.com", "", "2024-07-10", "Pending"},
	}
	return table
}

// =============================================================================
// Save / Load Round Trip
// =============================================================================

func TestSaveLoad_RoundTrip(t *testing.T) {
	repo := NewRecordRepository()
	path := filepath.Join(t.TempDir(), "clients.csv")
	table := sampleTable()

	require.NoError(t, repo.Save(table, path))

	loaded, err := repo.Load(path)
	require.NoError(t, err)
	assert.Equal(t, table.Columns, loaded.Columns)
	assert.Equal(t, table.Rows, loaded.Rows)
}

func TestSave_EmbeddedCommaIsQuoted(t *testing.T) {
	repo := NewRecordRepository()
	path := filepath.Join(t.TempDir(), "clients.csv")

	require.NoError(t, repo.Save(sampleTable(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Doe, Jr."`)
	assert.True(t, strings.HasPrefix(string(data), "First Name,Last Name,Email,Phone,Reservation Dates,Status\n"))
}

func TestSave_EmptyTableWritesHeaderOnly(t *testing.T) {
	repo := NewRecordRepository()
	path := filepath.Join(t.TempDir(), "clients.csv")

	require.NoError(t, repo.Save(models.NewRecordTable(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "First Name,Last Name,Email,Phone,Reservation Dates,Status\n", string(data))
}

func TestSaveLoad_SingleEmptyCellRowSurvives(t *testing.T) {
	repo := NewRecordRepository()
	path := filepath.Join(t.TempDir(), "notes.csv")
	table := &models.RecordTable{
		Columns: []string{"Notes"},
		Rows:    [][]string{{"a"}, {""}, {"b"}},
	}

	require.NoError(t, repo.Save(table, path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Notes\na\n\"\"\nb\n", string(data))

	loaded, err := repo.Load(path)
	require.NoError(t, err)
	assert.Equal(t, table.Rows, loaded.Rows)
}

func TestSaveLoad_MultilineCell(t *testing.T) {
	repo := NewRecordRepository()
	path := filepath.Join(t.TempDir(), "clients.csv")
	table := models.NewRecordTable()
	table.Rows = [][]string{{"Jan", "de Vries", "", "", "", "note line1\nline2"}}

	require.NoError(t, repo.Save(table, path))
	loaded, err := repo.Load(path)
	require.NoError(t, err)
	assert.Equal(t, table.Rows, loaded.Rows)
}

func TestSave_LeavesNoTempFiles(t *testing.T) {
	repo := NewRecordRepository()
	dir := t.TempDir()
	path := filepath.Join(dir, "clients.csv")

	require.NoError(t, repo.Save(sampleTable(), path))
	require.NoError(t, repo.Save(models.NewRecordTable(), path))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "clients.csv", entries[0].Name())
}

func TestSave_CreatesMissingDirectory(t *testing.T) {
	repo := NewRecordRepository()
	path := filepath.Join(t.TempDir(), "nested", "dir", "clients.csv")

	require.NoError(t, repo.Save(sampleTable(), path))
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestSave_FailureKeepsExistingFile(t *testing.T) {
	repo := NewRecordRepository()
	dir := t.TempDir()
	// A directory sitting where the file should go makes the rename fail.
	path := filepath.Join(dir, "clients.csv")
	require.NoError(t, os.Mkdir(path, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(path, "keep.txt"), []byte("x"), 0644))

	err := repo.Save(sampleTable(), path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRecordFileWrite)

	info, statErr := os.Stat(path)
	require.NoError(t, statErr)
	assert.True(t, info.IsDir())

	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Len(t, entries, 1, "temp file should be cleaned up")
}

func TestSave_ParentIsAFile(t *testing.T) {
	repo := NewRecordRepository()
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	err := repo.Save(sampleTable(), filepath.Join(blocker, "clients.csv"))
	assert.ErrorIs(t, err, ErrRecordFileWrite)
}

// =============================================================================
// Load
// =============================================================================

func TestLoad_MissingFileYieldsDefaultTable(t *testing.T) {
	repo := NewRecordRepository()

	table, err := repo.Load(filepath.Join(t.TempDir(), "absent.csv"))
	require.NoError(t, err)
	assert.Equal(t, models.DefaultColumns, table.Columns)
	assert.Empty(t, table.Rows)
	assert.NotNil(t, table.Rows)
}

func TestLoad_DirectoryIsUnreadable(t *testing.T) {
	repo := NewRecordRepository()

	_, err := repo.Load(t.TempDir())
	assert.ErrorIs(t, err, ErrRecordFileUnreadable)
}

func TestLoad_ForeignSchemaIsKept(t *testing.T) {
	repo := NewRecordRepository()
	path := filepath.Join(t.TempDir(), "other.csv")
	require.NoError(t, os.WriteFile(path, []byte("Name,City\nPiet,Utrecht\n"), 0644))

	table, err := repo.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "City"}, table.Columns)
	assert.Equal(t, [][]string{{"Piet", "Utrecht"}}, table.Rows)
}

// =============================================================================
// Decode Edge Cases
// =============================================================================

func TestDecode(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		columns []string
		rows    [][]string
	}{
		{
			name:    "empty input",
			input:   "",
			columns: models.DefaultColumns,
			rows:    [][]string{},
		},
		{
			name:    "whitespace only",
			input:   " \n\n",
			columns: models.DefaultColumns,
			rows:    [][]string{},
		},
		{
			name:    "header only",
			input:   "A,B\n",
			columns: []string{"A", "B"},
			rows:    [][]string{},
		},
		{
			name:    "byte order mark is stripped",
			input:   "\xEF\xBB\xBFA,B\n1,2\n",
			columns: []string{"A", "B"},
			rows:    [][]string{{"1", "2"}},
		},
		{
			name:    "short rows are padded",
			input:   "A,B,C\n1\n",
			columns: []string{"A", "B", "C"},
			rows:    [][]string{{"1", "", ""}},
		},
		{
			name:    "extra cells are preserved",
			input:   "A,B\n1,2,3\n",
			columns: []string{"A", "B"},
			rows:    [][]string{{"1", "2", "3"}},
		},
		{
			name:    "quoted newline",
			input:   "A,B\n\"line1\nline2\",x\n",
			columns: []string{"A", "B"},
			rows:    [][]string{{"line1\nline2", "x"}},
		},
		{
			name:    "crlf line endings",
			input:   "A,B\r\n1,2\r\n",
			columns: []string{"A", "B"},
			rows:    [][]string{{"1", "2"}},
		},
	}

	repo := NewRecordRepository()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			table, err := repo.Decode(strings.NewReader(tc.input))
			require.NoError(t, err)
			assert.Equal(t, tc.columns, table.Columns)
			assert.Equal(t, tc.rows, table.Rows)
		})
	}
}

func TestDecode_CorruptInput(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{"invalid utf-8", "A,B\n\xff\xfe,1\n"},
		{"bare quote", "A,B\nab\"c,1\n"},
		{"unterminated quote", "A,B\n\"open,1\n"},
	}

	repo := NewRecordRepository()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := repo.Decode(strings.NewReader(tc.input))
			assert.ErrorIs(t, err, ErrRecordFileCorrupt)
		})
	}
}

func TestEncode_MatchesSavedBytes(t *testing.T) {
	repo := NewRecordRepository()
	path := filepath.Join(t.TempDir(), "clients.csv")
	table := sampleTable()

	encoded, err := repo.Encode(table)
	require.NoError(t, err)
	require.NoError(t, repo.Save(table, path))

	saved, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(encoded, saved))
}
