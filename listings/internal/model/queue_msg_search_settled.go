package model

const QueueMsgTypeSearchSettled = "search_settled"

type QueueMsgSearchSettled struct {
	SearchID   string           `json:"search_id"`
	Query      string           `json:"query"`
	ListingIDs []string         `json:"listing_ids"`
	Listings   []ListingSummary `json:"listings"`
	Error      string           `json:"error,omitempty"`
}

type ListingSummary struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Location string  `json:"location"`
}
