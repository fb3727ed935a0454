package prescriptions

// Prescription es un registro del contenedor.
// Los tags JSON son el formato durable: no renombrar.
type Prescription struct {
	Medicine  string   `json:"medicine" yaml:"medicine"`
	Dosage    string   `json:"dosage" yaml:"dosage"`
	AgeMin    int      `json:"age_min" yaml:"age_min"`
	AgeMax    int      `json:"age_max" yaml:"age_max"`
	WeightMin float64  `json:"weight_min" yaml:"weight_min"`
	WeightMax float64  `json:"weight_max" yaml:"weight_max"`
	Symptoms  []string `json:"symptoms" yaml:"symptoms"` // casing original
}

// MatchResult es la proyección que devuelve una búsqueda.
type MatchResult struct {
	Medicine  string   `json:"medicine"`
	Dosage    string   `json:"dosage"`
	AgeMin    int      `json:"age_min"`
	AgeMax    int      `json:"age_max"`
	WeightMin float64  `json:"weight_min"`
	WeightMax float64  `json:"weight_max"`
	Symptoms  []string `json:"symptoms"`
}

// Query son los parámetros ya parseados de una búsqueda.
type Query struct {
	Age      int
	Weight   float64
	Symptoms []string // trim + lowercase, puede contener ""
}

func toMatchResult(p Prescription) MatchResult {
	syms := make([]string, len(p.Symptoms))
	copy(syms, p.Symptoms)

	return MatchResult{
		Medicine:  p.Medicine,
		Dosage:    p.Dosage,
		AgeMin:    p.AgeMin,
		AgeMax:    p.AgeMax,
		WeightMin: p.WeightMin,
		WeightMax: p.WeightMax,
		Symptoms:  syms,
	}
}
