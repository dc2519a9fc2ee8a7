package tool

import (
	"encoding/json"
	"sync"
	"time"
)

type Hotel struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Location       string   `json:"location"`
	Type           string   `json:"type"`
	Rating         float64  `json:"rating"`
	PricePerNight  int      `json:"price_per_night"`
	Amenities      []string `json:"amenities"`
	AvailableRooms int      `json:"available_rooms"`
	Description    string   `json:"description"`
}

type Booking struct {
	BookingID          string `json:"booking_id"`
	HotelID            string `json:"hotel_id"`
	GuestName          string `json:"guest_name"`
	GuestEmail         string `json:"guest_email"`
	CheckIn            string `json:"check_in"`
	CheckOut           string `json:"check_out"`
	Rooms              int    `json:"rooms"`
	RoomType           string `json:"room_type"`
	PricePerNight      int    `json:"price_per_night"`
	TotalNights        int    `json:"total_nights"`
	TotalPrice         int    `json:"total_price"`
	Status             string `json:"status"`
	PaymentMethod      string `json:"payment_method,omitempty"`
	ConfirmationNumber string `json:"confirmation_number,omitempty"`
	CreatedAt          string `json:"created_at"`
	ConfirmedAt        string `json:"confirmed_at,omitempty"`
	CancelledAt        string `json:"cancelled_at,omitempty"`
}

const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
)

type CustomerProfile struct {
	CustomerID    string         `json:"customer_id"`
	Name          string         `json:"name"`
	Email         string         `json:"email"`
	Phone         string         `json:"phone"`
	LoyaltyTier   string         `json:"loyalty_tier"`
	MemberSince   string         `json:"member_since"`
	Preferences   map[string]any `json:"preferences"`
	TotalBookings int            `json:"total_bookings"`
	TotalSpent    float64        `json:"total_spent"`
}

type Trip struct {
	TripID      string   `json:"trip_id"`
	HotelName   string   `json:"hotel_name"`
	Location    string   `json:"location"`
	CheckIn     string   `json:"check_in"`
	CheckOut    string   `json:"check_out"`
	Status      string   `json:"status"`
	TotalCost   float64  `json:"total_cost"`
	RatingGiven *float64 `json:"rating_given"`
}

type Voucher struct {
	VoucherID string `json:"voucher_id"`
	Type      string `json:"type"`
	Value     any    `json:"value"`
	Expires   string `json:"expires"`
}

type Rewards struct {
	CustomerID        string    `json:"customer_id"`
	PointsBalance     int       `json:"points_balance"`
	PointsEarnedYTD   int       `json:"points_earned_ytd"`
	PointsRedeemedYTD int       `json:"points_redeemed_ytd"`
	Tier              string    `json:"tier"`
	TierBenefits      []string  `json:"tier_benefits"`
	Vouchers          []Voucher `json:"vouchers"`
}

// Dataset is the process-lifetime in-memory domain ledger shared by all
// mock providers. The catalog and customer seed records are fixed; the
// booking ledger and customer profiles are the only mutable state, guarded
// by a single mutex scoped to the ledger rather than the whole pipeline.
type Dataset struct {
	mu        sync.Mutex
	hotels    []Hotel
	bookings  map[string]*Booking
	customers map[string]*CustomerProfile
	trips     map[string][]Trip
	rewards   map[string]Rewards

	now func() time.Time
}

func NewDataset() *Dataset {
	return &Dataset{
		hotels:    seedHotels(),
		bookings:  make(map[string]*Booking, 16),
		customers: seedCustomers(),
		trips:     seedTrips(),
		rewards:   seedRewards(),
		now:       time.Now,
	}
}

func seedHotels() []Hotel {
	return []Hotel{
		{ID: "hotel_1", Name: "Luxury Paris Hotel", Location: "Paris", Type: "Luxury", Rating: 4.8, PricePerNight: 450, Amenities: []string{"WiFi", "Pool", "Spa", "Restaurant", "Room Service"}, AvailableRooms: 12, Description: "A wonderful luxury hotel in Paris"},
		{ID: "hotel_2", Name: "Boutique Paris Hotel", Location: "Paris", Type: "Boutique", Rating: 4.3, PricePerNight: 210, Amenities: []string{"WiFi", "Bar", "Restaurant"}, AvailableRooms: 8, Description: "A wonderful boutique hotel in Paris"},
		{ID: "hotel_3", Name: "Business Tokyo Hotel", Location: "Tokyo", Type: "Business", Rating: 4.1, PricePerNight: 180, Amenities: []string{"WiFi", "Gym", "Restaurant", "Parking"}, AvailableRooms: 20, Description: "A wonderful business hotel in Tokyo"},
		{ID: "hotel_4", Name: "Resort Dubai Hotel", Location: "Dubai", Type: "Resort", Rating: 4.9, PricePerNight: 620, Amenities: []string{"WiFi", "Pool", "Spa", "Bar", "Gym", "Room Service"}, AvailableRooms: 15, Description: "A wonderful resort hotel in Dubai"},
		{ID: "hotel_5", Name: "Budget London Hotel", Location: "London", Type: "Budget", Rating: 3.6, PricePerNight: 95, Amenities: []string{"WiFi", "Parking"}, AvailableRooms: 30, Description: "A wonderful budget hotel in London"},
		{ID: "hotel_6", Name: "Luxury New York Hotel", Location: "New York", Type: "Luxury", Rating: 4.7, PricePerNight: 520, Amenities: []string{"WiFi", "Gym", "Spa", "Restaurant", "Bar"}, AvailableRooms: 18, Description: "A wonderful luxury hotel in New York"},
		{ID: "hotel_7", Name: "Boutique Barcelona Hotel", Location: "Barcelona", Type: "Boutique", Rating: 4.4, PricePerNight: 175, Amenities: []string{"WiFi", "Bar", "Pool"}, AvailableRooms: 9, Description: "A wonderful boutique hotel in Barcelona"},
		{ID: "hotel_8", Name: "Business Singapore Hotel", Location: "Singapore", Type: "Business", Rating: 4.2, PricePerNight: 240, Amenities: []string{"WiFi", "Gym", "Restaurant", "Room Service"}, AvailableRooms: 25, Description: "A wonderful business hotel in Singapore"},
		{ID: "hotel_9", Name: "Resort Rome Hotel", Location: "Rome", Type: "Resort", Rating: 4.5, PricePerNight: 330, Amenities: []string{"WiFi", "Pool", "Spa", "Restaurant"}, AvailableRooms: 14, Description: "A wonderful resort hotel in Rome"},
		{ID: "hotel_10", Name: "Budget Tokyo Hotel", Location: "Tokyo", Type: "Budget", Rating: 3.8, PricePerNight: 85, Amenities: []string{"WiFi"}, AvailableRooms: 40, Description: "A wonderful budget hotel in Tokyo"},
		{ID: "hotel_11", Name: "Luxury Dubai Hotel", Location: "Dubai", Type: "Luxury", Rating: 4.9, PricePerNight: 780, Amenities: []string{"WiFi", "Pool", "Spa", "Bar", "Restaurant", "Room Service"}, AvailableRooms: 10, Description: "A wonderful luxury hotel in Dubai"},
		{ID: "hotel_12", Name: "Business London Hotel", Location: "London", Type: "Business", Rating: 4.0, PricePerNight: 205, Amenities: []string{"WiFi", "Gym", "Parking", "Restaurant"}, AvailableRooms: 22, Description: "A wonderful business hotel in London"},
	}
}

func seedCustomers() map[string]*CustomerProfile {
	return map[string]*CustomerProfile{
		"customer_1": {
			CustomerID:  "customer_1",
			Name:        "John Doe",
			Email:       "john.doe@example.com",
			Phone:       "+1-555-0123",
			LoyaltyTier: "Gold",
			MemberSince: "2020-01-15",
			Preferences: map[string]any{
				"room_type":        "King Suite",
				"floor_preference": "High floor",
				"amenities":        []string{"WiFi", "Gym", "Pool"},
				"special_requests": "Extra pillows",
			},
			TotalBookings: 24,
			TotalSpent:    12500.00,
		},
		"customer_2": {
			CustomerID:  "customer_2",
			Name:        "Jane Smith",
			Email:       "jane.smith@example.com",
			Phone:       "+1-555-0124",
			LoyaltyTier: "Platinum",
			MemberSince: "2019-03-20",
			Preferences: map[string]any{
				"room_type":        "Ocean View",
				"floor_preference": "Any",
				"amenities":        []string{"Spa", "Restaurant", "Bar"},
				"special_requests": "Late checkout",
			},
			TotalBookings: 45,
			TotalSpent:    28000.00,
		},
	}
}

func seedTrips() map[string][]Trip {
	five, four := 5.0, 4.0
	return map[string][]Trip{
		"customer_1": {
			{TripID: "trip_001", HotelName: "Luxury Paris Hotel", Location: "Paris, France", CheckIn: "2024-06-15", CheckOut: "2024-06-20", Status: "completed", TotalCost: 1500.00, RatingGiven: &five},
			{TripID: "trip_002", HotelName: "Business Tokyo Hotel", Location: "Tokyo, Japan", CheckIn: "2024-09-10", CheckOut: "2024-09-15", Status: "completed", TotalCost: 2200.00, RatingGiven: &four},
			{TripID: "trip_003", HotelName: "Resort Dubai Hotel", Location: "Dubai, UAE", CheckIn: "2025-02-01", CheckOut: "2025-02-07", Status: "upcoming", TotalCost: 3500.00},
		},
		"customer_2": {
			{TripID: "trip_101", HotelName: "Boutique London Hotel", Location: "London, UK", CheckIn: "2024-08-01", CheckOut: "2024-08-05", Status: "completed", TotalCost: 1800.00, RatingGiven: &five},
		},
	}
}

func seedRewards() map[string]Rewards {
	return map[string]Rewards{
		"customer_1": {
			CustomerID:        "customer_1",
			PointsBalance:     8500,
			PointsEarnedYTD:   12000,
			PointsRedeemedYTD: 3500,
			Tier:              "Gold",
			TierBenefits: []string{
				"Free breakfast",
				"Room upgrade (subject to availability)",
				"Late checkout",
				"10% bonus points",
			},
			Vouchers: []Voucher{
				{VoucherID: "VOUCHER_001", Type: "Discount", Value: 50.00, Expires: "2025-12-31"},
				{VoucherID: "VOUCHER_002", Type: "Free Night", Value: "1 night", Expires: "2025-06-30"},
			},
		},
		"customer_2": {
			CustomerID:        "customer_2",
			PointsBalance:     21000,
			PointsEarnedYTD:   18500,
			PointsRedeemedYTD: 6000,
			Tier:              "Platinum",
			TierBenefits: []string{
				"Free breakfast",
				"Guaranteed room upgrade",
				"Late checkout",
				"Lounge access",
				"25% bonus points",
			},
			Vouchers: []Voucher{
				{VoucherID: "VOUCHER_101", Type: "Discount", Value: 100.00, Expires: "2025-12-31"},
			},
		},
	}
}

// asMap round-trips a typed record through JSON into the generic result
// shape of the tool call contract.
func asMap(v any) map[string]any {
	raw, err := json.Marshal(v)
	if err != nil {
		return map[string]any{}
	}
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return map[string]any{}
	}
	return out
}
