package pricing

import (
	"context"
	"math"
	"time"
)

// DemandForecaster is the injectable port resolving M_demand (spec
// §4.4). Its data source is an explicit Open Question in spec.md §9;
// SPEC_FULL.md resolves it by providing an in-process default (no
// external feed) while leaving the port open for a real one later.
type DemandForecaster interface {
	// Forecast returns the predicted occupancy percentage and a
	// confidence in [0.3, 0.9] for hotelID/roomType on the same
	// weekday as date, looked back over the prior 12 weeks.
	Forecast(ctx context.Context, hotelID string, roomType string, date time.Time) (predictedOccupancyPct, confidence float64, err error)
}

// WeeklySample is one historical weekly occupancy observation fed
// into WeightedMovingAverageForecaster.
type WeeklySample struct {
	WeeksAgo      int
	OccupancyPct  float64
}

// HistorySource supplies the raw weekly samples WeightedMovingAverageForecaster
// needs; a thin seam over the Booking Repository so the forecaster
// itself has no storage dependency.
type HistorySource interface {
	WeeklyOccupancy(ctx context.Context, hotelID string, roomType string, date time.Time, weeks int) ([]WeeklySample, error)
}

// WeightedMovingAverageForecaster is the default DemandForecaster: a
// weighted moving average over the same weekday for the prior 12
// weeks, weight proportional to 1/(weeks-ago), exactly as spec §4.4
// describes, with no external data source.
type WeightedMovingAverageForecaster struct {
	history HistorySource
	weeks   int
}

// NewWeightedMovingAverageForecaster constructs the default forecaster
// looking back 12 weeks, per spec §4.4.
func NewWeightedMovingAverageForecaster(history HistorySource) *WeightedMovingAverageForecaster {
	return &WeightedMovingAverageForecaster{history: history, weeks: 12}
}

func (f *WeightedMovingAverageForecaster) Forecast(ctx context.Context, hotelID, roomType string, date time.Time) (float64, float64, error) {
	samples, err := f.history.WeeklyOccupancy(ctx, hotelID, roomType, date, f.weeks)
	if err != nil {
		return 0, 0, err
	}
	if len(samples) == 0 {
		return 0, 0.3, nil
	}

	var weightedSum, weightTotal float64
	for _, s := range samples {
		weight := 1.0 / float64(s.WeeksAgo)
		weightedSum += weight * s.OccupancyPct
		weightTotal += weight
	}
	predicted := weightedSum / weightTotal

	stdDev := stdDeviation(samples)
	confidence := confidenceFromStdDev(stdDev)

	return predicted, confidence, nil
}

func stdDeviation(samples []WeeklySample) float64 {
	if len(samples) < 2 {
		return 0
	}
	var mean float64
	for _, s := range samples {
		mean += s.OccupancyPct
	}
	mean /= float64(len(samples))

	var variance float64
	for _, s := range samples {
		d := s.OccupancyPct - mean
		variance += d * d
	}
	variance /= float64(len(samples))
	return math.Sqrt(variance)
}

// confidenceFromStdDev maps a standard deviation of occupancy samples
// (0..100 scale) into the [0.3, 0.9] confidence band spec §4.4
// requires: tight historical agreement (low stddev) yields high
// confidence, wide spread yields low confidence.
func confidenceFromStdDev(stdDev float64) float64 {
	const maxStdDev = 40.0
	ratio := stdDev / maxStdDev
	if ratio > 1 {
		ratio = 1
	}
	return 0.9 - ratio*0.6
}

// MDemand resolves the demand-surge multiplier from a forecast (spec
// §4.4): 1.10 when predicted occupancy >= 80% and confidence >= 0.7,
// else 1.0.
func MDemand(predictedOccupancyPct, confidence float64) float64 {
	if predictedOccupancyPct >= 80 && confidence >= 0.7 {
		return 1.10
	}
	return 1.0
}
