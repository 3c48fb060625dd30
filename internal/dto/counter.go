package dto

// ResetCounterRequest administratively sets a sequence counter.
type ResetCounterRequest struct {
	Value int64 `json:"value" binding:"min=0"`
}

// CounterResponse is the API representation of a sequence counter.
type CounterResponse struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}
