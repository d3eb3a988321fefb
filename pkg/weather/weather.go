// Package weather fetches current conditions and turns them into crop alerts.
package weather

import (
	"context"
	"fmt"
)

// Snapshot is the current weather at a location.
type Snapshot struct {
	Location     string  `json:"location"`
	TemperatureC float64 `json:"temperature_c"`
	HumidityPct  float64 `json:"humidity_pct"`
	RainfallMM   float64 `json:"rainfall_mm"`
	WindSpeedKMH float64 `json:"wind_speed_kmh"`
	Conditions   string  `json:"conditions"`
	ForecastMaxC float64 `json:"forecast_max_c"`
	ForecastMinC float64 `json:"forecast_min_c"`
}

type Client interface {
	FetchWeather(ctx context.Context, location string) (Snapshot, error)
}

type stubClient struct{}

// NewStub returns a client that always reports the same mild day.
func NewStub() Client { return stubClient{} }

func (stubClient) FetchWeather(_ context.Context, location string) (Snapshot, error) {
	return Snapshot{
		Location:     location,
		TemperatureC: 28,
		HumidityPct:  65,
		RainfallMM:   0,
		WindSpeedKMH: 12,
		Conditions:   "partly cloudy",
		ForecastMaxC: 32,
		ForecastMinC: 21,
	}, nil
}

// Alert is a weather risk for crops.
type Alert struct {
	Type           string `json:"type"`
	Severity       string `json:"severity"`
	Message        string `json:"message"`
	Recommendation string `json:"recommendation"`
}

const (
	heatThresholdC    = 35
	frostThresholdC   = 2
	heavyRainMM       = 50
	fungalHumidityPct = 85
	strongWindKMH     = 50
)

// Alerts applies the threshold rules to s.
func Alerts(s Snapshot) []Alert {
	out := []Alert{}
	maxC := s.TemperatureC
	if s.ForecastMaxC > maxC {
		maxC = s.ForecastMaxC
	}
	minC := s.TemperatureC
	if s.ForecastMinC != 0 && s.ForecastMinC < minC {
		minC = s.ForecastMinC
	}
	if maxC >= heatThresholdC {
		out = append(out, Alert{
			Type: "heat", Severity: "high",
			Message:        fmt.Sprintf("Temperatures up to %.0f°C expected", maxC),
			Recommendation: "Irrigate early in the morning and watch for wilting",
		})
	}
	if minC <= frostThresholdC {
		out = append(out, Alert{
			Type: "frost", Severity: "high",
			Message:        fmt.Sprintf("Temperatures down to %.0f°C expected", minC),
			Recommendation: "Cover sensitive seedlings overnight",
		})
	}
	if s.RainfallMM >= heavyRainMM {
		out = append(out, Alert{
			Type: "heavy_rain", Severity: "medium",
			Message:        fmt.Sprintf("%.0f mm of rain recorded", s.RainfallMM),
			Recommendation: "Check drainage and postpone spraying",
		})
	}
	if s.HumidityPct >= fungalHumidityPct {
		out = append(out, Alert{
			Type: "fungal_risk", Severity: "medium",
			Message:        fmt.Sprintf("Humidity at %.0f%%", s.HumidityPct),
			Recommendation: "Scout for leaf spots and mildew",
		})
	}
	if s.WindSpeedKMH >= strongWindKMH {
		out = append(out, Alert{
			Type: "wind", Severity: "medium",
			Message:        fmt.Sprintf("Wind at %.0f km/h", s.WindSpeedKMH),
			Recommendation: "Stake tall crops and delay spraying",
		})
	}
	return out
}
