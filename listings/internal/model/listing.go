package model

// Listing is one rentable property as returned by the search service.
type Listing struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Description        string   `json:"description"`
	Price              float64  `json:"price"`
	Location           string   `json:"location"`
	Features           []string `json:"features"`
	Available          bool     `json:"available"`
	PetFriendly        bool     `json:"pet_friendly"`
	DistanceToStation  float64  `json:"distance_to_station"`
	FreelancerFriendly bool     `json:"freelancer_friendly"`
}
