package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmhub/entities"
)

func refs() []entities.Disease {
	return []entities.Disease{
		{Name: "Late Blight", AffectedCrops: []string{"tomato", "potato"},
			Symptoms: []string{"Dark water-soaked lesions on leaves", "White mold on leaf underside"}},
		{Name: "Early Blight", AffectedCrops: []string{"Tomato"},
			Symptoms: []string{"Concentric rings on older leaves", "Yellowing around lesions"}},
		{Name: "Rice Blast", AffectedCrops: []string{"rice"},
			Symptoms: []string{"Diamond-shaped lesions"}},
	}
}

func TestMatchDiseasesRanking(t *testing.T) {
	got := MatchDiseases(refs(), "tomato", []string{"lesions", "white mold", "hail"})
	require.Len(t, got, 2)
	assert.Equal(t, "Late Blight", got[0].Disease.Name)
	assert.Equal(t, []string{"lesions", "white mold"}, got[0].MatchedSymptoms)
	assert.InDelta(t, 2.0/3, got[0].Confidence, 1e-9)
	assert.Equal(t, "Early Blight", got[1].Disease.Name)
}

func TestMatchDiseasesTieBreaksByName(t *testing.T) {
	got := MatchDiseases(refs(), "TOMATO", []string{"LESIONS"})
	require.Len(t, got, 2)
	assert.Equal(t, "Early Blight", got[0].Disease.Name)
	assert.Equal(t, 1.0, got[0].Confidence)
}

func TestMatchDiseasesFiltersCrop(t *testing.T) {
	assert.Empty(t, MatchDiseases(refs(), "maize", []string{"lesions"}))
	assert.Empty(t, MatchDiseases(refs(), "tomato", []string{" ", ""}))
}

func TestMatchDiseasesQuotesInput(t *testing.T) {
	assert.Empty(t, MatchDiseases(refs(), "rice", []string{"(.*)"}))
}
