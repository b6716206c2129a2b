package model

// DecaySummary reports the outcome of one forgetting-curve pass
type DecaySummary struct {
	Scanned int
	Updated int
}
