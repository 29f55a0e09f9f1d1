package main

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"
)

// featureWindowSpan is how far back samples count towards the features.
const featureWindowSpan = 3500 * time.Millisecond

// emgFeatures are the time-domain features of the samples in the window.
type emgFeatures struct {
	MAV  float64 `json:"MAV"`
	RMS  float64 `json:"RMS"`
	ZC   int     `json:"ZC"`
	WL   float64 `json:"WL"`
	VAR  float64 `json:"VAR"`
	IEMG float64 `json:"IEMG"`
}

// sampleMessage is a single raw EMG sample as the sensor publishes it.
type sampleMessage struct {
	Value json.RawMessage `json:"value"`
}

// parseSample extracts the sample from a {"value": x} payload. x may be a
// number or a numeric string.
func parseSample(payload []byte) (float64, bool) {
	var msg sampleMessage
	if err := json.Unmarshal(payload, &msg); err != nil || len(msg.Value) == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.Trim(string(msg.Value), `"`), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// featureWindow keeps the samples received within the last span.
type featureWindow struct {
	mu     sync.Mutex
	span   time.Duration
	now    func() time.Time
	times  []time.Time
	values []float64
}

func newFeatureWindow(span time.Duration) *featureWindow {
	return &featureWindow{span: span, now: time.Now}
}

// Add records a sample and returns the features over the window.
// ok is false until the window holds at least two samples.
func (w *featureWindow) Add(value float64) (f emgFeatures, ok bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	w.times = append(w.times, now)
	w.values = append(w.values, value)

	i := 0
	for i < len(w.times) && now.Sub(w.times[i]) > w.span {
		i++
	}
	w.times = w.times[i:]
	w.values = w.values[i:]

	if len(w.values) < 2 {
		return emgFeatures{}, false
	}
	return computeFeatures(w.values), true
}

// computeFeatures needs at least one value.
func computeFeatures(values []float64) emgFeatures {
	n := float64(len(values))

	var sum, sumAbs, sumSq float64
	for _, v := range values {
		sum += v
		sumAbs += math.Abs(v)
		sumSq += v * v
	}
	mean := sum / n

	var variance float64
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= n

	var zc int
	var wl float64
	for i := 1; i < len(values); i++ {
		if sign(values[i]) != sign(values[i-1]) {
			zc++
		}
		wl += math.Abs(values[i] - values[i-1])
	}

	return emgFeatures{
		MAV:  sumAbs / n,
		RMS:  math.Sqrt(sumSq / n),
		ZC:   zc,
		WL:   wl,
		VAR:  variance,
		IEMG: sumAbs,
	}
}

// sign is -1, 0 or 1. Moving to or from zero counts as a crossing.
func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
