package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Title:    "Jane - Monday",
		Subtitle: "Sternfield",
		Headers:  []string{"Time", "Type", "Activity"},
		Rows: [][]string{
			{"8:00 AM - 8:40 AM", "TEACHING", "MATH with FORM 1"},
			{"8:40 AM - 9:20 AM", "FREE", "Free Period"},
		},
	}
}

func TestCSVExporter(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.Equal(t, "Time,Type,Activity\n8:00 AM - 8:40 AM,TEACHING,MATH with FORM 1\n8:40 AM - 9:20 AM,FREE,Free Period\n", string(out))
}

func TestPDFExporter(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestDatasetValidation(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)

	_, err = NewPDFExporter().Render(Dataset{Headers: []string{"a", "b"}, Rows: [][]string{{"only one"}}})
	assert.Error(t, err)
}

func TestColumnWidths(t *testing.T) {
	widths := columnWidths([]string{"a", "b", "c"})
	assert.InDelta(t, pageWidth, widths[0]+widths[1]+widths[2], 0.001)
	assert.InDelta(t, widths[0]*2, widths[2], 0.001)
}
