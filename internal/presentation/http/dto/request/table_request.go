package request

// TableRequest represents a table create or update request
type TableRequest struct {
	Number   int    `json:"number"`
	Capacity int    `json:"capacity"`
	Location string `json:"location" binding:"max=100"`
}

// TableFilterRequest represents table list filters
type TableFilterRequest struct {
	Status      string `form:"status"`
	Location    string `form:"location"`
	MinCapacity int    `form:"min_capacity"`
}
