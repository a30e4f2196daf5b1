package types

// SearchResult is a single ranked match returned to a requester.
// Email is omitted from JSON when the requester may not see it, so a hidden
// email is indistinguishable from a missing one.
type SearchResult struct {
	Name                string   `json:"name"`
	PhoneNumber         string   `json:"phone_number"`
	SpamLikelihood      float64  `json:"spam_likelihood"`
	IsRegisteredAccount bool     `json:"is_registered_user"`
	Email               *string  `json:"email,omitempty"`
	AssociatedNames     []string `json:"associated_names,omitempty"`
}

// Validate checks if the search result is well formed
func (sr *SearchResult) Validate() error {
	if sr.Name == "" {
		return ErrMissingName
	}
	if sr.PhoneNumber == "" {
		return ErrMissingPhoneNumber
	}
	if sr.SpamLikelihood < 0 || sr.SpamLikelihood > 100 {
		return ErrInvalidLikelihood
	}
	return nil
}

// PagedSearchResponse is the response shape for name searches
type PagedSearchResponse struct {
	Results      []SearchResult `json:"results"`
	TotalPages   int            `json:"total_pages"`
	CurrentPage  int            `json:"current_page"`
	TotalResults int            `json:"total_results"`
}

// PhoneSearchResponse is the response shape for phone searches.
// Result is nil when no account or contact holds the number.
type PhoneSearchResponse struct {
	Result *SearchResult `json:"result"`
}
