package prescriptions

import (
	"math"
	"strconv"
	"strings"
)

// ParseQuery convierte los campos crudos de búsqueda.
// Si age o weight no parsean no se devuelve nada parcial.
func ParseQuery(age, weight, symptoms string) (Query, error) {
	a, err := parseInt("age", age)
	if err != nil {
		return Query{}, err
	}
	w, err := parseFloat("weight", weight)
	if err != nil {
		return Query{}, err
	}

	return Query{
		Age:      a,
		Weight:   w,
		Symptoms: SplitQuerySymptoms(symptoms),
	}, nil
}

// SplitQuerySymptoms separa por coma, hace trim y lowercase.
// Los tokens vacíos ("a,,b" o "a,") se conservan como "".
func SplitQuerySymptoms(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, s := range parts {
		out = append(out, strings.ToLower(strings.TrimSpace(s)))
	}
	return out
}

// Matches: rangos inclusivos y al menos un síntoma en común (case-insensitive).
func Matches(p Prescription, q Query) bool {
	if q.Age < p.AgeMin || q.Age > p.AgeMax {
		return false
	}
	if q.Weight < p.WeightMin || q.Weight > p.WeightMax {
		return false
	}

	have := make(map[string]struct{}, len(p.Symptoms))
	for _, s := range p.Symptoms {
		have[strings.ToLower(s)] = struct{}{}
	}
	for _, s := range q.Symptoms {
		if _, ok := have[s]; ok {
			return true
		}
	}
	return false
}

// Search recorre todos los registros en orden y proyecta los que matchean.
// Sin matches devuelve un slice vacío (no nil, no error).
func Search(records []Prescription, q Query) []MatchResult {
	out := make([]MatchResult, 0)
	for _, p := range records {
		if Matches(p, q) {
			out = append(out, toMatchResult(p))
		}
	}
	return out
}

func parseInt(field, raw string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &InputFormatError{Field: field, Value: raw, Want: "integer"}
	}
	return v, nil
}

func parseFloat(field, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	// NaN/Inf no se pueden serializar en el contenedor JSON
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &InputFormatError{Field: field, Value: raw, Want: "number"}
	}
	return v, nil
}
