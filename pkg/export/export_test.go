package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Headers: []string{"Name", "Phone", "Status"},
		Rows: []map[string]string{
			{"Name": "أحمد علي", "Phone": "+20 10 1234 5678", "Status": "pending"},
			{"Name": "Mona, Jr.", "Phone": "+20 11 2222 3333"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, utf8BOM))

	lines := strings.Split(strings.TrimSpace(string(out[len(utf8BOM):])), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Name,Phone,Status", lines[0])
	assert.Equal(t, "أحمد علي,+20 10 1234 5678,pending", lines[1])
	assert.Equal(t, `"Mona, Jr.",+20 11 2222 3333,`, lines[2])
}

func TestCSVExporterNeutralizesFormulas(t *testing.T) {
	data := Dataset{
		Headers: []string{"Name", "Phone"},
		Rows: []map[string]string{
			{"Name": "=HYPERLINK(\"http://evil\")", "Phone": "+20 10 1234 5678"},
			{"Name": "@SUM(A1)", "Phone": "-5"},
			{"Name": "+cmd", "Phone": "01012345678"},
		},
	}
	out, err := NewCSVExporter(WithoutBOM()).Render(data)
	require.NoError(t, err)
	require.False(t, bytes.HasPrefix(out, utf8BOM))

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, `"'=HYPERLINK(""http://evil"")",+20 10 1234 5678`, lines[1])
	assert.Equal(t, "'@SUM(A1),-5", lines[2])
	assert.Equal(t, "'+cmd,01012345678", lines[3])
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter("").Render(sampleDataset(), "Leads")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestPDFExporterMissingFont(t *testing.T) {
	_, err := NewPDFExporter("/nonexistent/font.ttf").Render(sampleDataset(), "Leads")
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
