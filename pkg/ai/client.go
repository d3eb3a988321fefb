package ai

import "context"

// Diagnosis is what a classifier says about one crop photo.
type Diagnosis struct {
	Label           string   `json:"label"`
	Confidence      float64  `json:"confidence"`
	Recommendations []string `json:"recommendations"`
}

type Client interface {
	ClassifyCropImage(ctx context.Context, image []byte, contentType, crop, stage string) (Diagnosis, error)
}

// Unknown is used whenever classification fails.
func Unknown() Diagnosis {
	return Diagnosis{Label: "unknown", Confidence: 0, Recommendations: []string{"Retake the photo in daylight and report symptoms manually"}}
}
