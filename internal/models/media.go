package models

// ChromaKeyRequest represents a background removal request
type ChromaKeyRequest struct {
	ImageURL  string  `json:"imageUrl"`
	Color     string  `json:"color"`
	Threshold float64 `json:"threshold"`
}

// ChromaKeyResponse holds the URL of the generated PNG
type ChromaKeyResponse struct {
	URL string `json:"url"`
}
