package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotes_Unmarshal_Object(t *testing.T) {
	// Arrange
	raw := `{"top":["Bergamota","Limón"],"middle":["Jazmín"],"base":["Ámbar"]}`

	// Act
	var notes Notes
	err := json.Unmarshal([]byte(raw), &notes)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"Bergamota", "Limón"}, notes.Top)
	assert.Equal(t, []string{"Jazmín"}, notes.Middle)
	assert.Equal(t, []string{"Ámbar"}, notes.Base)
}

func TestNotes_Unmarshal_FlatArray(t *testing.T) {
	raw := `["Vainilla","Sándalo"]`

	var notes Notes
	err := json.Unmarshal([]byte(raw), &notes)

	require.NoError(t, err)
	assert.Equal(t, []string{"Vainilla", "Sándalo"}, notes.Top)
	assert.Empty(t, notes.Middle)
	assert.Empty(t, notes.Base)
}

func TestNotes_Unmarshal_DoubleEncodedString(t *testing.T) {
	// JSON-строка, содержащая тот же объект еще раз закодированным
	raw := `"{\"top\":[\"Rosa\"],\"middle\":[],\"base\":[\"Almizcle\"]}"`

	var notes Notes
	err := json.Unmarshal([]byte(raw), &notes)

	require.NoError(t, err)
	assert.Equal(t, []string{"Rosa"}, notes.Top)
	assert.Equal(t, []string{"Almizcle"}, notes.Base)
}

func TestNotes_Unmarshal_CommaString(t *testing.T) {
	raw := `"Bergamota, Pimienta rosa, Vetiver"`

	var notes Notes
	err := json.Unmarshal([]byte(raw), &notes)

	require.NoError(t, err)
	assert.Equal(t, []string{"Bergamota", "Pimienta rosa", "Vetiver"}, notes.Top)
}

func TestNotes_Unmarshal_MalformedGivesEmpty(t *testing.T) {
	// Некорректный вход не должен давать ошибку: пирамида просто пустая
	for _, raw := range []string{`null`, `42`, `true`, `""`} {
		var notes Notes
		err := json.Unmarshal([]byte(raw), &notes)

		require.NoError(t, err, raw)
		assert.True(t, notes.IsEmpty(), raw)
	}
}

func TestNotes_CleanToken_StripsEncodingArtifacts(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"wrapping double quotes", `"Bergamota"`, "Bergamota"},
		{"wrapping single quotes", `'Limón'`, "Limón"},
		{"escaped quotes", `\"Jazmín\"`, "Jazmín"},
		{"backslashes", `Sánda\lo`, "Sándalo"},
		{"brackets", `[Ámbar]`, "Ámbar"},
		{"braces", `{Vetiver}`, "Vetiver"},
		{"whitespace", `  Rosa  `, "Rosa"},
		{"empty after cleaning", `""`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanToken(tt.in))
		})
	}
}

// Три исторических представления одной пирамиды нормализуются одинаково
func TestNotes_EquivalentRepresentationsNormalizeIdentically(t *testing.T) {
	object := `{"top":["Bergamota"],"middle":[],"base":[]}`
	doubleEncoded := `"{\"top\":[\"Bergamota\"],\"middle\":[],\"base\":[]}"`
	commaText := `"Bergamota"`

	var fromObject, fromEncoded, fromText Notes
	require.NoError(t, json.Unmarshal([]byte(object), &fromObject))
	require.NoError(t, json.Unmarshal([]byte(doubleEncoded), &fromEncoded))
	require.NoError(t, json.Unmarshal([]byte(commaText), &fromText))

	assert.Equal(t, fromObject, fromEncoded)
	assert.Equal(t, fromObject, fromText)
}

func TestNotes_ParseNotesText_Empty(t *testing.T) {
	notes := ParseNotesText("")

	assert.Equal(t, EmptyNotes(), notes)
	assert.NotNil(t, notes.Top)
	assert.NotNil(t, notes.Middle)
	assert.NotNil(t, notes.Base)
}

func TestNotes_Value_NormalizesNilLists(t *testing.T) {
	notes := Notes{Top: []string{"Oud"}}

	value, err := notes.Value()

	require.NoError(t, err)
	assert.JSONEq(t, `{"top":["Oud"],"middle":[],"base":[]}`, string(value.([]byte)))
}

func TestNotes_Scan_RoundTrip(t *testing.T) {
	original := Notes{Top: []string{"Oud"}, Middle: []string{"Rosa"}, Base: []string{}}
	value, err := original.Value()
	require.NoError(t, err)

	var scanned Notes
	require.NoError(t, scanned.Scan(value))

	assert.Equal(t, original, scanned)
}
