package csvparser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReader_StripsBOMAndTracksLines(t *testing.T) {
	input := "\ufeffDatum von;Preis A ;Preis B\n" +
		"01.01.2023 00:00;-;5,0\n" +
		"\n" +
		"01.01.2023 00:15;3,0;4,0\n"

	data, err := ParseReader(strings.NewReader(input), "prices.csv", Settings{Delimiter: ";"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Datum von", "Preis A", "Preis B"}, data.Headers)
	require.Len(t, data.Records, 2)
	assert.Equal(t, 2, data.Records[0].Line)
	assert.Equal(t, []string{"01.01.2023 00:00", "-", "5,0"}, data.Records[0].Fields)
	assert.Equal(t, 4, data.Records[1].Line)
}

func TestParseReader_EmptyInput(t *testing.T) {
	_, err := ParseReader(strings.NewReader(""), "empty.csv", Settings{Delimiter: ";"})
	assert.Error(t, err)
}

func TestParse_FromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.csv")
	require.NoError(t, os.WriteFile(path, []byte("a|b\n1|2\n"), 0o644))

	data, err := Parse(path, Settings{Delimiter: "pipe"})
	require.NoError(t, err)
	assert.Equal(t, path, data.SourceFile)
	assert.Equal(t, []string{"1", "2"}, data.Records[0].Fields)
}

func TestDelimiter(t *testing.T) {
	assert.Equal(t, '\t', Delimiter("tab"))
	assert.Equal(t, ';', Delimiter("semicolon"))
	assert.Equal(t, ',', Delimiter(""))
	assert.Equal(t, '#', Delimiter("#"))
}

func TestParsePrefixedReader_KeepsOnlyDataLines(t *testing.T) {
	input := "Latitude (decimal degrees):\t48.1\n" +
		"time,P,G(i),H_sun,T2m,WS10m,Int\n" +
		"20230101:0010,0.0,0.0,0.0,0.0,1.2,3.4,5.6,0.0\n" +
		"  20230101:0110,12.5,1,2,3,4,5,6,0.0  \n" +
		"P: PV system power (W)\n"

	records, err := ParsePrefixedReader(strings.NewReader(input), "pv.csv", "20", ',')
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, 3, records[0].Line)
	assert.Equal(t, "20230101:0010", records[0].Fields[0])
	assert.Equal(t, 4, records[1].Line)
	assert.Equal(t, "12.5", records[1].Fields[1])
	assert.Len(t, records[1].Fields, 9)
}
