package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/classifier.txt
	classifierRaw string

	//go:embed template/search_parse.txt
	searchParseRaw string

	//go:embed template/search_format.txt
	searchFormatRaw string

	//go:embed template/booking_parse.txt
	bookingParseRaw string

	//go:embed template/booking_format.txt
	bookingFormatRaw string

	//go:embed template/customer_parse.txt
	customerParseRaw string

	//go:embed template/customer_format.txt
	customerFormatRaw string
)

// PromptSet holds loaded prompt content.
type PromptSet struct {
	Classifier     string
	SearchParse    string
	SearchFormat   string
	BookingParse   string
	BookingFormat  string
	CustomerParse  string
	CustomerFormat string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
// Safe to call concurrently; the embed is compile-time.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Classifier:     strings.TrimSpace(classifierRaw),
		SearchParse:    strings.TrimSpace(searchParseRaw),
		SearchFormat:   strings.TrimSpace(searchFormatRaw),
		BookingParse:   strings.TrimSpace(bookingParseRaw),
		BookingFormat:  strings.TrimSpace(bookingFormatRaw),
		CustomerParse:  strings.TrimSpace(customerParseRaw),
		CustomerFormat: strings.TrimSpace(customerFormatRaw),
	}
}
