package ai

import (
	"context"
	"errors"
)

type mockClient struct{}

func NewMock() Client { return &mockClient{} }

// ClassifyCropImage returns the same healthy verdict for every non-empty image.
func (m *mockClient) ClassifyCropImage(_ context.Context, image []byte, _, crop, _ string) (Diagnosis, error) {
	if len(image) == 0 {
		return Diagnosis{}, errors.New("empty image")
	}
	return Diagnosis{
		Label:      "healthy",
		Confidence: 0.85,
		Recommendations: []string{
			"Continue regular monitoring of " + crop,
			"Keep irrigation on schedule",
		},
	}, nil
}
