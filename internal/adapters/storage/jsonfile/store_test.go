package jsonfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"prescription-matcher/internal/domain/prescriptions"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(prescriptions.StoreConfig{
		Location: filepath.Join(t.TempDir(), "data", "prescriptions.json"),
	}, nil)
	require.NoError(t, err)
	return s
}

func sampleRecords() []prescriptions.Prescription {
	return []prescriptions.Prescription{
		{
			Medicine:  "Paracetamol",
			Dosage:    "500mg",
			AgeMin:    5,
			AgeMax:    60,
			WeightMin: 15.0,
			WeightMax: 90.0,
			Symptoms:  []string{"Fever", "Headache"},
		},
		{
			Medicine:  "Ibuprofeno",
			Dosage:    "200mg cada 8h",
			AgeMin:    12,
			AgeMax:    80,
			WeightMin: 40.5,
			WeightMax: 120.25,
			Symptoms:  []string{"Dolor muscular", "inflamación"},
		},
	}
}

func TestNewStore_RequiresLocation(t *testing.T) {
	_, err := NewStore(prescriptions.StoreConfig{Location: "  "}, nil)
	assert.Error(t, err)
}

func TestEnsureInitialized_CreatesEmptyContainer(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.EnsureInitialized(ctx))

	got, err := s.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEnsureInitialized_DoesNotTruncate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.EnsureInitialized(ctx))
	require.NoError(t, s.SaveAll(ctx, sampleRecords()))

	require.NoError(t, s.EnsureInitialized(ctx))
	require.NoError(t, s.EnsureInitialized(ctx))

	got, err := s.LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestSaveAll_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.EnsureInitialized(ctx))

	first, err := s.LoadAll(ctx)
	require.NoError(t, err)

	want := append(first, sampleRecords()...)
	require.NoError(t, s.SaveAll(ctx, want))

	got, err := s.LoadAll(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveAll_PrettyPrintsWithStableKeys(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.EnsureInitialized(ctx))
	require.NoError(t, s.SaveAll(ctx, sampleRecords()[:1]))

	b, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	out := string(b)
	assert.Contains(t, out, "\n    {\n        \"medicine\": \"Paracetamol\",")
	assert.Contains(t, out, "\"age_min\": 5,")
	assert.Contains(t, out, "\"symptoms\": [\n            \"Fever\",")

	// sin temporales colgando
	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSaveAll_EmptyWritesArray(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.EnsureInitialized(ctx))
	require.NoError(t, s.SaveAll(ctx, nil))

	got, err := s.LoadAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestLoadAll_ReadsContainerWrittenElsewhere(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o755))

	raw := `[
    {
        "medicine": "Paracetamol",
        "dosage": "500mg",
        "age_min": 5,
        "age_max": 60,
        "weight_min": 15.0,
        "weight_max": 90.0,
        "symptoms": ["Fever", "Headache"]
    }
]`
	require.NoError(t, os.WriteFile(s.Path(), []byte(raw), 0o644))

	got, err := s.LoadAll(context.Background())
	require.NoError(t, err)
	if diff := cmp.Diff(sampleRecords()[:1], got); diff != "" {
		t.Fatalf("unexpected records (-want +got):\n%s", diff)
	}
}

func TestLoadAll_Corrupt(t *testing.T) {
	cases := map[string]string{
		"not json":        "{{{",
		"object":          `{"medicine": "x"}`,
		"null":            "null",
		"empty":           "",
		"missing key":     `[{"medicine":"a","dosage":"b","age_min":1,"age_max":2,"weight_min":1,"weight_max":2}]`,
		"wrong type":      `[{"medicine":"a","dosage":"b","age_min":"one","age_max":2,"weight_min":1,"weight_max":2,"symptoms":["x"]}]`,
		"null element":    `[null]`,
		"symptoms string": `[{"medicine":"a","dosage":"b","age_min":1,"age_max":2,"weight_min":1,"weight_max":2,"symptoms":"x"}]`,
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			s := newTestStore(t)
			require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o755))
			require.NoError(t, os.WriteFile(s.Path(), []byte(content), 0o644))

			_, err := s.LoadAll(context.Background())
			require.Error(t, err)
			assert.True(t, errors.Is(err, prescriptions.ErrStorageCorrupt), "got %v", err)

			var sce *prescriptions.StorageCorruptError
			require.True(t, errors.As(err, &sce))
			assert.Equal(t, s.Path(), sce.Location)
		})
	}
}

func TestLoadAll_MissingContainerIsNotCorrupt(t *testing.T) {
	s := newTestStore(t)

	_, err := s.LoadAll(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, prescriptions.ErrStorageCorrupt))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
