package domain

// Country represents the simplified country data we show to the user.
// It is immutable once constructed and is what gets serialized into the cache.
type Country struct {
	Name       string `json:"name"`
	FlagURL    string `json:"flagUrl"`
	Population int64  `json:"population"`
	Region     string `json:"region"`
	Capital    string `json:"capital,omitempty"`
	Currency   string `json:"currency,omitempty"`
	Languages  string `json:"languages,omitempty"`
}
