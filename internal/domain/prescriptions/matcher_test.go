package prescriptions

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paracetamol() Prescription {
	return Prescription{
		Medicine:  "Paracetamol",
		Dosage:    "500mg",
		AgeMin:    5,
		AgeMax:    60,
		WeightMin: 15.0,
		WeightMax: 90.0,
		Symptoms:  []string{"Fever", "Headache"},
	}
}

func TestParseQuery(t *testing.T) {
	q, err := ParseQuery(" 30 ", "70.5", "Headache,  FEVER ")
	require.NoError(t, err)
	assert.Equal(t, Query{Age: 30, Weight: 70.5, Symptoms: []string{"headache", "fever"}}, q)
}

func TestParseQuery_InputFormatErrors(t *testing.T) {
	cases := []struct {
		name, age, weight, field string
	}{
		{"age not int", "thirty", "70", "age"},
		{"age float", "30.5", "70", "age"},
		{"age empty", "", "70", "age"},
		{"weight not number", "30", "heavy", "weight"},
		{"weight nan", "30", "NaN", "weight"},
		{"weight inf", "30", "+Inf", "weight"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q, err := ParseQuery(tc.age, tc.weight, "fever")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInputFormat))
			assert.Equal(t, Query{}, q, "no partial values")

			var ife *InputFormatError
			require.True(t, errors.As(err, &ife))
			assert.Equal(t, tc.field, ife.Field)
		})
	}
}

func TestSplitQuerySymptoms_KeepsEmptyTokens(t *testing.T) {
	assert.Equal(t, []string{"cough", "", "rash", ""}, SplitQuerySymptoms(" Cough,, RASH ,"))
	assert.Equal(t, []string{""}, SplitQuerySymptoms(""))
}

func TestMatches_RangeInclusive(t *testing.T) {
	p := Prescription{AgeMin: 2, AgeMax: 10, WeightMin: 10, WeightMax: 30, Symptoms: []string{"Fever"}}

	cases := []struct {
		age    int
		weight float64
		want   bool
	}{
		{2, 20, true},
		{10, 20, true},
		{1, 20, false},
		{11, 20, false},
		{5, 10, true},
		{5, 30, true},
		{5, 9.99, false},
		{5, 30.01, false},
	}

	for _, tc := range cases {
		got := Matches(p, Query{Age: tc.age, Weight: tc.weight, Symptoms: []string{"fever"}})
		assert.Equal(t, tc.want, got, "age=%d weight=%v", tc.age, tc.weight)
	}
}

func TestMatches_SymptomsAnyCaseInsensitive(t *testing.T) {
	p := Prescription{AgeMin: 0, AgeMax: 100, WeightMin: 0, WeightMax: 200, Symptoms: []string{"Fever", "Cough"}}

	q, err := ParseQuery("30", "70", "cough, rash")
	require.NoError(t, err)
	assert.True(t, Matches(p, q))

	q, err = ParseQuery("30", "70", "rash, headache")
	require.NoError(t, err)
	assert.False(t, Matches(p, q))
}

func TestMatches_EmptyQueryTokenOnlyMatchesEmptySymptom(t *testing.T) {
	q, err := ParseQuery("30", "70", "rash,")
	require.NoError(t, err)

	assert.False(t, Matches(paracetamol(), q))

	handEdited := paracetamol()
	handEdited.Symptoms = append(handEdited.Symptoms, "")
	assert.True(t, Matches(handEdited, q))
}

func TestSearch_EndToEndExample(t *testing.T) {
	other := Prescription{
		Medicine: "Amoxicilina", Dosage: "250mg",
		AgeMin: 1, AgeMax: 12, WeightMin: 5, WeightMax: 40,
		Symptoms: []string{"Infection"},
	}
	records := []Prescription{other, paracetamol()}

	q, err := ParseQuery("30", "70", "headache")
	require.NoError(t, err)

	got := Search(records, q)
	require.Len(t, got, 1)
	assert.Equal(t, MatchResult{
		Medicine:  "Paracetamol",
		Dosage:    "500mg",
		AgeMin:    5,
		AgeMax:    60,
		WeightMin: 15.0,
		WeightMax: 90.0,
		Symptoms:  []string{"Fever", "Headache"},
	}, got[0])
}

func TestSearch_NoMatchIsEmptyNotNil(t *testing.T) {
	got := Search([]Prescription{paracetamol()}, Query{Age: 30, Weight: 70, Symptoms: []string{"rash"}})
	assert.NotNil(t, got)
	assert.Empty(t, got)

	got = Search(nil, Query{Age: 30, Weight: 70, Symptoms: []string{"fever"}})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSearch_ResultDoesNotAliasRecord(t *testing.T) {
	records := []Prescription{paracetamol()}

	got := Search(records, Query{Age: 30, Weight: 70, Symptoms: []string{"fever"}})
	require.Len(t, got, 1)
	got[0].Symptoms[0] = "changed"

	assert.Equal(t, "Fever", records[0].Symptoms[0])
}
