package entity

// BatchResult is the outcome of one item of a batch submission. Exactly one
// of Reservation or Err is set; Data carries the original input back to the
// caller on failure.
type BatchResult struct {
	Reservation *Reservation      `json:"reservation,omitempty"`
	Err         string            `json:"error,omitempty"`
	Data        *ReservationInput `json:"data,omitempty"`
}

// Failed reports whether the item was rejected
func (r BatchResult) Failed() bool {
	return r.Err != ""
}

// BatchSummary aggregates the results of a batch submission. Results keeps
// the original submission order.
type BatchSummary struct {
	Total      int           `json:"total"`
	Successful int           `json:"successful"`
	Failed     int           `json:"failed"`
	ElapsedMs  int64         `json:"executionTime"`
	Results    []BatchResult `json:"results"`
}
