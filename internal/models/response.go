package models

type SearchMetadata struct {
	NewResults   int   `json:"new_results"`
	CatalogSize  int   `json:"catalog_size"`
	SearchTimeMs int64 `json:"search_time_ms"`
}

type SearchResponse struct {
	SearchCriteria SearchRequest  `json:"search_criteria"`
	Metadata       SearchMetadata `json:"metadata"`
	Flights        []FlightRecord `json:"flights"`
}

type FlightsResponse struct {
	Total   int            `json:"total"`
	Flights []FlightRecord `json:"flights"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
