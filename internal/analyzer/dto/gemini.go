package dto

// GeminiAPIRequest is the request body for the generateContent endpoint.
type GeminiAPIRequest struct {
	Contents []Content `json:"contents"`
}

// Content holds request content parts.
type Content struct {
	Parts []Part `json:"parts"`
}

// Part holds one text part.
type Part struct {
	Text string `json:"text"`
}

// GeminiAPIResponse is the response body of the generateContent endpoint.
type GeminiAPIResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}
