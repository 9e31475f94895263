package input

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func TestKindFromPath(t *testing.T) {
	assert.Equal(t, KindCSV, KindFromPath("leads.CSV"))
	assert.Equal(t, KindTSV, KindFromPath("leads.tsv"))
	assert.Equal(t, KindXLSX, KindFromPath("/tmp/leads.xlsx"))
	assert.Equal(t, KindText, KindFromPath("leads.txt"))
	assert.Equal(t, KindText, KindFromPath("-"))
}

func TestRead_Text(t *testing.T) {
	urls, err := Read(strings.NewReader("https://a.com\n\n  \nhttps://b.com\nhttps://a.com\n"), KindText)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.com", "https://b.com", "https://a.com"}, urls)
}

func TestRead_CSV(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  Kind
		want  []string
	}{
		{
			name:  "website header column",
			input: "Company,Website,Owner\nAcme,https://acme.com,Jo\nBeta, ,Sam\nGamma,https://gamma.io,Lee\n",
			kind:  KindCSV,
			want:  []string{"https://acme.com", "https://gamma.io"},
		},
		{
			name:  "url header case insensitive",
			input: "name,URL\nx,https://x.com\n",
			kind:  KindCSV,
			want:  []string{"https://x.com"},
		},
		{
			name:  "no header uses first column",
			input: "https://a.com,extra\nhttps://b.com\n",
			kind:  KindCSV,
			want:  []string{"https://a.com", "https://b.com"},
		},
		{
			name:  "tsv",
			input: "domain\tnotes\nhttps://t.com\thello\n",
			kind:  KindTSV,
			want:  []string{"https://t.com"},
		},
		{
			name:  "header only",
			input: "website\n",
			kind:  KindCSV,
			want:  []string{},
		},
		{
			name:  "empty",
			input: "",
			kind:  KindCSV,
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			urls, err := Read(strings.NewReader(tt.input), tt.kind)
			require.NoError(t, err)
			assert.Equal(t, tt.want, urls)
		})
	}
}

func TestRead_XLSX(t *testing.T) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Leads")
	require.NoError(t, err)
	for _, rowData := range [][]string{
		{"Name", "Homepage"},
		{"Acme", "https://acme.com"},
		{"Blank", ""},
		{"Beta", "https://beta.com"},
	} {
		row := sheet.AddRow()
		for _, c := range rowData {
			row.AddCell().SetString(c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	urls, err := Read(&buf, KindXLSX)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://acme.com", "https://beta.com"}, urls)
}

func TestRead_XLSXInvalid(t *testing.T) {
	_, err := Read(strings.NewReader("not a zip"), KindXLSX)
	assert.Error(t, err)
}

func TestRead_UnknownKind(t *testing.T) {
	_, err := Read(strings.NewReader("x"), Kind("pdf"))
	assert.Error(t, err)
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "leads.csv")
	require.NoError(t, os.WriteFile(path, []byte("website\nhttps://a.com\n"), 0o600))

	urls, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.com"}, urls)

	_, err = ReadFile(filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
}
