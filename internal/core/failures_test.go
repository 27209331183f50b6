package core

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportWriter_Write(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "failures")
	w := ReportWriter{Dir: dir}

	sink := NewFailureSink(EntityFamilies)
	sink.Add(2, "F1", ReasonFamilyMissingFields)
	sink.Add(5, KeyUnknown, "value; with delimiter")

	name, err := w.Write(sink)
	require.NoError(t, err)
	assert.Equal(t, "families_failures.csv", name)

	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t,
		"rowNumber;businessKey;reason\n"+
			"2;F1;Missing required fields (Code, Name, Line, or Brand)\n"+
			"5;UNKNOWN;\"value; with delimiter\"\n",
		string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file should be renamed away")
}

func TestReportWriter_EmptySinkWritesNothing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "failures")
	w := ReportWriter{Dir: dir}

	name, err := w.Write(NewFailureSink(EntityProducts))
	require.NoError(t, err)
	assert.Empty(t, name)

	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err), "report dir should not be created")
}

func TestReportWriter_Overwrites(t *testing.T) {
	w := ReportWriter{Dir: t.TempDir()}

	first := NewFailureSink(EntityProducts)
	first.Add(2, "A", "first")
	first.Add(3, "B", "first")
	_, err := w.Write(first)
	require.NoError(t, err)

	second := NewFailureSink(EntityProducts)
	second.Add(4, "C", "second")
	name, err := w.Write(second)
	require.NoError(t, err)

	data, err := os.ReadFile(w.Path(name))
	require.NoError(t, err)
	assert.Equal(t, "rowNumber;businessKey;reason\n4;C;second\n", string(data))
}

func TestFailureSink_AddFileError(t *testing.T) {
	sink := NewFailureSink(EntityFamilies)
	sink.AddFileError(errors.New("boom"))

	require.Equal(t, 1, sink.Len())
	assert.Equal(t, FailureRecord{RowNumber: 1, Key: KeyFileError, Reason: "boom"}, sink.Records()[0])
}
