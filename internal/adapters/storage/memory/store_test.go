package memory

import (
	"context"
	"testing"

	"prescription-matcher/internal/domain/prescriptions"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SnapshotsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewStoreWith([]prescriptions.Prescription{
		{Medicine: "A", Dosage: "1", AgeMin: 1, AgeMax: 2, WeightMin: 1, WeightMax: 2, Symptoms: []string{"Fever"}},
	})

	got, err := s.LoadAll(ctx)
	require.NoError(t, err)
	got[0].Symptoms[0] = "mutated"
	got = append(got, prescriptions.Prescription{Medicine: "B"})

	again, err := s.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, again, 1)
	assert.Equal(t, "Fever", again[0].Symptoms[0])
}

func TestStore_EnsureInitializedKeepsRecords(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	require.NoError(t, s.EnsureInitialized(ctx))
	require.NoError(t, s.SaveAll(ctx, []prescriptions.Prescription{{Medicine: "A", Symptoms: []string{"x"}}}))
	require.NoError(t, s.EnsureInitialized(ctx))

	got, err := s.LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
