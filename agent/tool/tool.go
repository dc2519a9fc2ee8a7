// Package tool implements the pluggable tool provider backends: a local
// deterministic mock over in-memory hotel data and a remote variant that
// forwards calls to a configured HTTP endpoint.
package tool

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/hotel-assistant/agent/contract"
)

type Category string

const (
	CategorySearch   Category = "search"
	CategoryBooking  Category = "booking"
	CategoryCustomer Category = "customer"
)

// Tool names, one namespace shared by both provider variants.
const (
	ToolSearchHotels       = "search_hotels"
	ToolGetHotelDetails    = "get_hotel_details"
	ToolFilterHotels       = "filter_hotels"
	ToolCheckAvailability  = "check_availability"
	ToolCreateBooking      = "create_booking"
	ToolConfirmBooking     = "confirm_booking"
	ToolCancelBooking      = "cancel_booking"
	ToolGetBookingDetails  = "get_booking_details"
	ToolGetCustomerProfile = "get_customer_profile"
	ToolGetCustomerTrips   = "get_customer_trips"
	ToolGetCustomerRewards = "get_customer_rewards"
	ToolUpdateCustomer     = "update_customer_profile"
)

func toolsForCategory(cat Category) map[string]struct{} {
	switch cat {
	case CategorySearch:
		return map[string]struct{}{
			ToolSearchHotels:    {},
			ToolGetHotelDetails: {},
			ToolFilterHotels:    {},
		}
	case CategoryBooking:
		return map[string]struct{}{
			ToolCheckAvailability: {},
			ToolCreateBooking:     {},
			ToolConfirmBooking:    {},
			ToolCancelBooking:     {},
			ToolGetBookingDetails: {},
		}
	case CategoryCustomer:
		return map[string]struct{}{
			ToolGetCustomerProfile: {},
			ToolGetCustomerTrips:   {},
			ToolGetCustomerRewards: {},
			ToolUpdateCustomer:     {},
		}
	default:
		return nil
	}
}

type Mode string

const (
	ModeMock   Mode = "mock"
	ModeRemote Mode = "remote"
)

// Config selects the provider variant per tool category. Selection is fixed
// at construction; a pipeline never switches variant mid-run.
type Config struct {
	SearchMode   Mode          `envconfig:"SEARCH_TOOL_MODE" split_words:"true" default:"mock"`
	BookingMode  Mode          `envconfig:"BOOKING_TOOL_MODE" split_words:"true" default:"mock"`
	CustomerMode Mode          `envconfig:"CUSTOMER_TOOL_MODE" split_words:"true" default:"mock"`
	SearchURL    string        `envconfig:"SEARCH_TOOL_URL" split_words:"true"`
	BookingURL   string        `envconfig:"BOOKING_TOOL_URL" split_words:"true"`
	CustomerURL  string        `envconfig:"CUSTOMER_TOOL_URL" split_words:"true"`
	Timeout      time.Duration `envconfig:"TOOL_TIMEOUT" split_words:"true" default:"30s"`
}

// Providers bundles the per-category providers handed to the agents.
type Providers struct {
	Search   contractx.ToolProvider
	Booking  contractx.ToolProvider
	Customer contractx.ToolProvider
}

// NewProviders builds one provider per category. Mock providers share a
// single Dataset so a booking created through the booking provider is
// visible to search and customer lookups in the same process.
func NewProviders(cfg Config) (Providers, error) {
	data := NewDataset()

	search, err := newProvider(cfg.SearchMode, CategorySearch, cfg.SearchURL, cfg.Timeout, data)
	if err != nil {
		return Providers{}, err
	}
	booking, err := newProvider(cfg.BookingMode, CategoryBooking, cfg.BookingURL, cfg.Timeout, data)
	if err != nil {
		return Providers{}, err
	}
	customer, err := newProvider(cfg.CustomerMode, CategoryCustomer, cfg.CustomerURL, cfg.Timeout, data)
	if err != nil {
		return Providers{}, err
	}

	return Providers{Search: search, Booking: booking, Customer: customer}, nil
}

func newProvider(mode Mode, cat Category, baseURL string, timeout time.Duration, data *Dataset) (contractx.ToolProvider, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(string(mode)))) {
	case ModeMock, "":
		return NewMockProvider(cat, data), nil
	case ModeRemote:
		return NewRemoteProvider(cat, baseURL, timeout)
	default:
		return nil, fmt.Errorf("unsupported tool mode %q for category %s", mode, cat)
	}
}
