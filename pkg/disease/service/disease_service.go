package service

import (
	"context"
	"regexp"
	"slices"
	"sort"
	"strings"

	"farmhub/entities"
	"farmhub/pkg/store"
)

type DiseaseService interface {
	Create(ctx context.Context, d *entities.Disease) (*entities.Disease, error)
	Get(ctx context.Context, id uint) (*entities.Disease, error)
	List(ctx context.Context, search string, q store.ListQuery) ([]entities.Disease, store.Pagination, error)
	Update(ctx context.Context, d *entities.Disease) (*entities.Disease, error)
	Delete(ctx context.Context, id uint) error
	Match(ctx context.Context, crop string, symptoms []string) ([]Match, error)
	// Upsert creates or updates by name; the bool reports creation.
	Upsert(ctx context.Context, d entities.Disease) (*entities.Disease, bool, error)
	ImportURL(ctx context.Context, rawURL string) (*ImportResult, error)
}

// Match is one reference disease that shares symptoms with a report.
type Match struct {
	Disease         entities.Disease `json:"disease"`
	MatchedSymptoms []string         `json:"matched_symptoms"`
	Confidence      float64          `json:"confidence"`
}

type ImportResult struct {
	SourceURL string   `json:"source_url"`
	Created   int      `json:"created"`
	Updated   int      `json:"updated"`
	Names     []string `json:"names"`
}

// ReferenceLookup is the ai_analysis source for matches found here.
const ReferenceLookup = "reference_lookup"

func affects(d entities.Disease, crop string) bool {
	return slices.ContainsFunc(d.AffectedCrops, func(c string) bool {
		return strings.EqualFold(strings.TrimSpace(c), strings.TrimSpace(crop))
	})
}

// MatchDiseases ranks diseases that affect crop by how many reported symptoms
// appear (case-insensitively) in any of their symptom descriptions. Ties are
// broken by name. Confidence is matched/reported.
func MatchDiseases(diseases []entities.Disease, crop string, symptoms []string) []Match {
	var pats []*regexp.Regexp
	var reported []string
	for _, s := range symptoms {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		reported = append(reported, s)
		pats = append(pats, regexp.MustCompile("(?i)"+regexp.QuoteMeta(s)))
	}
	out := []Match{}
	if len(pats) == 0 {
		return out
	}
	for _, d := range diseases {
		if !affects(d, crop) {
			continue
		}
		var hit []string
		for i, p := range pats {
			if slices.ContainsFunc(d.Symptoms, p.MatchString) {
				hit = append(hit, reported[i])
			}
		}
		if len(hit) == 0 {
			continue
		}
		out = append(out, Match{
			Disease:         d,
			MatchedSymptoms: hit,
			Confidence:      float64(len(hit)) / float64(len(reported)),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if len(out[i].MatchedSymptoms) != len(out[j].MatchedSymptoms) {
			return len(out[i].MatchedSymptoms) > len(out[j].MatchedSymptoms)
		}
		return out[i].Disease.Name < out[j].Disease.Name
	})
	return out
}
