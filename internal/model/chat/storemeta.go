package chat

// StoreMeta is the storefront context the widget sends with every request.
// It is never stored server-side; each request grounds the prompt with
// whatever the caller supplies.
type StoreMeta struct {
	Name         string     `json:"name"`
	URL          string     `json:"url"`
	Currency     string     `json:"currency"`
	Shipping     string     `json:"shipping"`
	SupportEmail string     `json:"supportEmail"`
	TopProducts  []Product  `json:"topProducts"`
	FAQ          []FAQEntry `json:"faq"`
}

// Product is one storefront catalog entry used for prompt grounding.
type Product struct {
	Title string `json:"title"`
	Price string `json:"price"`
	URL   string `json:"url"`
}

// FAQEntry is a question/answer pair from the storefront's FAQ page.
type FAQEntry struct {
	Q string `json:"q"`
	A string `json:"a"`
}
