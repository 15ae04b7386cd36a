package models

// Station carries the normalized coordinates FareCalculator needs.
// Distances between stations are Euclidean on (X, Y) scaled by 100 to km.
type Station struct {
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}
