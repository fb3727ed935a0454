package prescriptions

import "strings"

// Claves de formulario aceptadas por ValidateAndBuild.
const (
	FieldMedicine  = "medicine"
	FieldDosage    = "dosage"
	FieldAgeMin    = "age_min"
	FieldAgeMax    = "age_max"
	FieldWeightMin = "weight_min"
	FieldWeightMax = "weight_max"
	FieldSymptoms  = "symptoms"
)

// ValidateAndBuild valida los campos de upload y arma el registro.
// Corta en la primera violación, en este orden:
//  1. medicine/dosage no vacíos
//  2. edades enteras, pesos numéricos
//  3. age_min <= age_max
//  4. weight_min <= weight_max
//  5. al menos un síntoma no vacío
func ValidateAndBuild(fields map[string]string) (Prescription, error) {
	medicine := strings.TrimSpace(fields[FieldMedicine])
	dosage := strings.TrimSpace(fields[FieldDosage])
	if medicine == "" || dosage == "" {
		field := FieldMedicine
		if medicine != "" {
			field = FieldDosage
		}
		return Prescription{}, &ValidationError{Field: field, Message: "Medicine and dosage cannot be empty."}
	}

	ageMin, err := parseInt(FieldAgeMin, fields[FieldAgeMin])
	if err != nil {
		return Prescription{}, err
	}
	ageMax, err := parseInt(FieldAgeMax, fields[FieldAgeMax])
	if err != nil {
		return Prescription{}, err
	}
	weightMin, err := parseFloat(FieldWeightMin, fields[FieldWeightMin])
	if err != nil {
		return Prescription{}, err
	}
	weightMax, err := parseFloat(FieldWeightMax, fields[FieldWeightMax])
	if err != nil {
		return Prescription{}, err
	}

	if ageMin > ageMax {
		return Prescription{}, &ValidationError{Field: FieldAgeMin, Message: "Minimum age cannot be greater than maximum age."}
	}
	if weightMin > weightMax {
		return Prescription{}, &ValidationError{Field: FieldWeightMin, Message: "Minimum weight cannot be greater than maximum weight."}
	}

	symptoms := splitUploadSymptoms(fields[FieldSymptoms])
	if len(symptoms) == 0 {
		return Prescription{}, &ValidationError{Field: FieldSymptoms, Message: "At least one symptom must be provided."}
	}

	return Prescription{
		Medicine:  medicine,
		Dosage:    dosage,
		AgeMin:    ageMin,
		AgeMax:    ageMax,
		WeightMin: weightMin,
		WeightMax: weightMax,
		Symptoms:  symptoms,
	}, nil
}

// A diferencia de la búsqueda, acá los tokens vacíos se descartan
// y se conserva el casing original.
func splitUploadSymptoms(raw string) []string {
	out := make([]string, 0)
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
