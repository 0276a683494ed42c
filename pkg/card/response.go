package card

// SearchMatch is a typeahead candidate from /search_cards.
type SearchMatch struct {
	SimpleName string `json:"simpleName"`
	Name       string `json:"name"`
	ImageURL   string `json:"image_url"`
}

// SimilarResponse is the body of /find_similar and one element of a batch
// result. Error is set instead of the cards when the backend rejects the
// request.
type SimilarResponse struct {
	TargetCard   *Card  `json:"target_card,omitempty"`
	SimilarCards []Card `json:"similar_cards"`
	Error        string `json:"error,omitempty"`
}

// DeckEntry is one resolved card of an analyzed deck.
type DeckEntry struct {
	Name       string `json:"name"`
	FinalCount int    `json:"final_count"`
	ImageURL   string `json:"image_url"`
}

// DeckAnalysis is the decoded body of /analyze_deck.
type DeckAnalysis struct {
	HTML      string      `json:"html"`
	FinalDeck []DeckEntry `json:"final_deck"`
}
