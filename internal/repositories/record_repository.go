package repositories

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"

	"csv_manager_backend/internal/models"

	"github.com/rs/zerolog/log"
)

const filePermissions = 0644

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// RecordRepository defines persistence of client record tables as delimited text.
type RecordRepository interface {
	Load(path string) (*models.RecordTable, error)
	Save(table *models.RecordTable, path string) error
	Encode(table *models.RecordTable) ([]byte, error)
	Decode(r io.Reader) (*models.RecordTable, error)
}

type csvRecordRepository struct{}

// NewRecordRepository creates a new file-backed RecordRepository.
func NewRecordRepository() RecordRepository {
	return &csvRecordRepository{}
}

// Load reads the table stored at path. A missing file yields an empty table
// with the default schema.
func (r *csvRecordRepository) Load(path string) (*models.RecordTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Debug().Str("path", path).Msg("record file absent, starting with empty table")
			return models.NewRecordTable(), nil
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrRecordFileUnreadable, path, err)
	}

	table, err := r.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return table, nil
}

// Decode parses delimited text with a header row. Empty input yields an
// empty table with the default schema.
func (r *csvRecordRepository) Decode(in io.Reader) (*models.RecordTable, error) {
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRecordFileUnreadable, err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: content is not valid UTF-8", ErrRecordFileCorrupt)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return models.NewRecordTable(), nil
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", ErrRecordFileCorrupt, err)
	}

	table := &models.RecordTable{
		Columns: append([]string(nil), header...),
		Rows:    [][]string{},
	}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRecordFileCorrupt, err)
		}
		for len(record) < len(header) {
			record = append(record, "")
		}
		table.Rows = append(table.Rows, record)
	}
	return table, nil
}

// Encode serializes the table, header first. Save and export share it so both
// produce identical bytes.
func (r *csvRecordRepository) Encode(table *models.RecordTable) ([]byte, error) {
	if table == nil {
		table = models.NewRecordTable()
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := writeRow(w, &buf, table.Columns); err != nil {
		return nil, fmt.Errorf("encoding header: %w", err)
	}
	for i, row := range table.Rows {
		if err := writeRow(w, &buf, row); err != nil {
			return nil, fmt.Errorf("encoding row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("encoding rows: %w", err)
	}
	return buf.Bytes(), nil
}

// writeRow writes one record. csv.Writer renders a lone empty field as a blank
// line, which readers skip, so that case is written as a quoted empty field.
func writeRow(w *csv.Writer, buf *bytes.Buffer, row []string) error {
	if len(row) == 1 && row[0] == "" {
		w.Flush()
		if err := w.Error(); err != nil {
			return err
		}
		buf.WriteString("\"\"\n")
		return nil
	}
	return w.Write(row)
}

// Save replaces the file at path with the encoded table. The data goes to a
// temporary file in the same directory first and is renamed into place, so
// readers see either the old or the new content.
func (r *csvRecordRepository) Save(table *models.RecordTable, path string) error {
	data, err := r.Encode(table)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRecordFileWrite, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: creating directory %s: %v", ErrRecordFileWrite, dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: creating temp file: %v", ErrRecordFileWrite, err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		if rmErr := os.Remove(tmpName); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			log.Warn().Err(rmErr).Str("tmp", tmpName).Msg("failed to remove temp record file")
		}
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("%w: %v", ErrRecordFileWrite, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("%w: syncing: %v", ErrRecordFileWrite, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("%w: closing: %v", ErrRecordFileWrite, err)
	}
	if err := os.Chmod(tmpName, filePermissions); err != nil {
		cleanup()
		return fmt.Errorf("%w: chmod: %v", ErrRecordFileWrite, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("%w: renaming into place: %v", ErrRecordFileWrite, err)
	}

	log.Debug().Str("path", path).Int("rows", len(table.Rows)).Int("bytes", len(data)).Msg("record file saved")
	return nil
}
