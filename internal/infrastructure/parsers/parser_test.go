package parsers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/dex-core/internal/domain/entities"
)

const csvHeader = "#,Name,Type 1,Type 2,Total,HP,Attack,Defense,Sp. Atk,Sp. Def,Speed,Generation,Legendary\n"

func TestCSVParser_Parse_ValidInput(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []RawRecord
	}{
		{
			name:  "single row",
			input: csvHeader + "25,Pikachu,Electric,,320,35,55,40,50,50,90,1,False\n",
			expected: []RawRecord{
				{
					ID: "25", Name: "Pikachu", Type1: "Electric",
					Stats:      [6]string{"35", "55", "40", "50", "50", "90"},
					Generation: "1", Legendary: "False", LineNum: 2,
				},
			},
		},
		{
			name:     "empty CSV (header only)",
			input:    csvHeader,
			expected: nil,
		},
		{
			name:  "columns in different order",
			input: "Speed,Sp. Def,Sp. Atk,Defense,Attack,HP,Type 1,Name,#\n100,85,109,78,84,78,Fire,Charizard,6\n",
			expected: []RawRecord{
				{
					ID: "6", Name: "Charizard", Type1: "Fire",
					Stats:   [6]string{"78", "84", "78", "109", "85", "100"},
					LineNum: 2,
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := &CSVParser{}
			result, err := parser.Parse(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestCSVParser_Parse_CleanedColumns(t *testing.T) {
	input := "#,Name,Type 1,Type 2,HP,Attack,Defense,Sp. Atk,Sp. Def,Speed,base_name,form,image_file\n" +
		"6,CharizardMega Charizard X,Fire,Dragon,78,130,111,130,85,100,Charizard,mega-x,6-mega-x.jpg\n"

	parser := &CSVParser{}
	result, err := parser.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, result, 1)

	rec := result[0]
	assert.Equal(t, "Dragon", rec.Type2)
	assert.Equal(t, "Charizard", rec.BaseName)
	assert.Equal(t, "mega-x", rec.Form)
	assert.Equal(t, "6-mega-x.jpg", rec.ImageFile)
}

func TestCSVParser_Parse_ShortRowIsKept(t *testing.T) {
	input := csvHeader + "25,Pikachu,Electric\n"

	parser := &CSVParser{}
	result, err := parser.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "", result[0].Stats[0])
}

func TestCSVParser_Parse_ByteOrderMark(t *testing.T) {
	input := "\ufeff" + csvHeader + "25,Pikachu,Electric,,320,35,55,40,50,50,90,1,False\n"

	parser := &CSVParser{}
	result, err := parser.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "25", result[0].ID)
}

func TestCSVParser_Parse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		errMsg string
	}{
		{
			name:   "missing required column",
			input:  "#,Name,Type 1,HP,Attack,Defense,Sp. Atk,Sp. Def\n1,Bulbasaur,Grass,45,49,49,65,65\n",
			errMsg: "missing required column: Speed",
		},
		{
			name:   "empty input",
			input:  "",
			errMsg: "reading CSV header",
		},
		{
			name:   "unterminated quote",
			input:  csvHeader + "25,\"Pikachu,Electric\n",
			errMsg: "line",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := &CSVParser{}
			_, err := parser.Parse(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestJSONParser_Parse_ValidInput(t *testing.T) {
	input := `[
		{"#": 25, "Name": "Pikachu", "Type 1": "Electric", "HP": 35, "Attack": 55,
		 "Defense": 40, "Sp. Atk": 50, "Sp. Def": 50, "Speed": 90, "Legendary": false},
		{"#": "6", "Name": "Charizard", "Type 1": "Fire", "Type 2": "Flying", "HP": 78.5}
	]`

	parser := &JSONParser{}
	result, err := parser.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, result, 2)

	assert.Equal(t, "25", result[0].ID)
	assert.Equal(t, [6]string{"35", "55", "40", "50", "50", "90"}, result[0].Stats)
	assert.Equal(t, "false", result[0].Legendary)
	assert.Equal(t, 1, result[0].LineNum)

	assert.Equal(t, "6", result[1].ID)
	assert.Equal(t, "Flying", result[1].Type2)
	assert.Equal(t, "78.5", result[1].Stats[0])
	assert.Equal(t, "", result[1].Stats[1])
	assert.Equal(t, 2, result[1].LineNum)
}

func TestJSONParser_Parse_InvalidInput(t *testing.T) {
	parser := &JSONParser{}
	_, err := parser.Parse(strings.NewReader("not json"))
	require.Error(t, err)
}

func TestForFormat(t *testing.T) {
	assert.IsType(t, &JSONParser{}, ForFormat("json"))
	assert.IsType(t, &CSVParser{}, ForFormat("CSV"))
	assert.Nil(t, ForFormat("unknown"))
}

func TestForFile(t *testing.T) {
	assert.IsType(t, &JSONParser{}, ForFile("pokemon.json"))
	assert.IsType(t, &CSVParser{}, ForFile("pokemon_cleaned.csv"))
	assert.Nil(t, ForFile("file.txt"))
	assert.Nil(t, ForFile("noextension"))
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	records := []entities.Record{
		{
			ID: 6, Name: "CharizardMega Charizard X", Type1: "Fire", Type2: "Dragon",
			Stats:      entities.Stats{78, 130, 111, 130, 85, 100},
			TotalStats: 634, Generation: 1,
			BaseName: "Charizard", Form: "mega-x", ImageKey: "6-mega-x.jpg",
		},
		{
			ID: 645, Name: "Landorus Therian Forme", Type1: "Ground", Type2: entities.NoType,
			Stats:      entities.Stats{89, 145, 90, 105, 80, 91},
			TotalStats: 600, Generation: 5, Legendary: true,
			BaseName: "Landorus", Form: "therian", ImageKey: "645-therian.jpg",
		},
	}

	var buf strings.Builder
	require.NoError(t, WriteCSV(&buf, records))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(CleanedHeader, ","), lines[0])
	assert.Equal(t, "645,Landorus Therian Forme,Ground,,600,89,145,90,105,80,91,5,True,Landorus,therian,645-therian.jpg", lines[2])

	parsed, err := (&CSVParser{}).Parse(strings.NewReader(buf.String()))
	require.NoError(t, err)
	require.Len(t, parsed, 2)
	assert.Equal(t, RawRecord{
		ID: "6", Name: "CharizardMega Charizard X", Type1: "Fire", Type2: "Dragon",
		Stats:      [6]string{"78", "130", "111", "130", "85", "100"},
		Generation: "1", Legendary: "False",
		BaseName: "Charizard", Form: "mega-x", ImageFile: "6-mega-x.jpg",
		LineNum: 2,
	}, parsed[0])
}
