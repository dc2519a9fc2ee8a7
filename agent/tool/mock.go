package tool

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	contractx "github.com/tanpawarit/hotel-assistant/agent/contract"
)

// MockProvider resolves tool names against deterministic functions over the
// shared Dataset. Results are stable for identical arguments except where a
// call intentionally mutates the ledger (create/confirm/cancel booking,
// profile updates).
type MockProvider struct {
	category Category
	allowed  map[string]struct{}
	data     *Dataset
}

func NewMockProvider(category Category, data *Dataset) *MockProvider {
	if data == nil {
		data = NewDataset()
	}
	return &MockProvider{
		category: category,
		allowed:  toolsForCategory(category),
		data:     data,
	}
}

func (p *MockProvider) Call(ctx context.Context, tool string, args map[string]any) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, contractx.NewToolError(contractx.ToolErrTimeout, tool, "call cancelled: %v", err)
	}
	if _, ok := p.allowed[tool]; !ok {
		return nil, contractx.NewToolError(contractx.ToolErrDomainRejected, tool,
			"tool is not available for category %s", p.category)
	}

	switch tool {
	case ToolSearchHotels:
		return p.searchHotels(args), nil
	case ToolGetHotelDetails:
		return p.getHotelDetails(args)
	case ToolFilterHotels:
		return p.filterHotels(args), nil
	case ToolCheckAvailability:
		return p.checkAvailability(args)
	case ToolCreateBooking:
		return p.createBooking(args)
	case ToolConfirmBooking:
		return p.confirmBooking(args)
	case ToolCancelBooking:
		return p.cancelBooking(args)
	case ToolGetBookingDetails:
		return p.getBookingDetails(args)
	case ToolGetCustomerProfile:
		return p.getCustomerProfile(args)
	case ToolGetCustomerTrips:
		return p.getCustomerTrips(args)
	case ToolGetCustomerRewards:
		return p.getCustomerRewards(args)
	case ToolUpdateCustomer:
		return p.updateCustomerProfile(args)
	default:
		return nil, contractx.NewToolError(contractx.ToolErrDomainRejected, tool, "unknown tool")
	}
}

/* ------------------------------- search -------------------------------- */

func (p *MockProvider) searchHotels(args map[string]any) map[string]any {
	location := stringArg(args, "location")

	matched := make([]map[string]any, 0, len(p.data.hotels))
	total := 0
	for _, h := range p.data.hotels {
		if location != "" && !strings.Contains(strings.ToLower(h.Location), strings.ToLower(location)) {
			continue
		}
		total++
		if len(matched) < 10 {
			matched = append(matched, asMap(h))
		}
	}

	return map[string]any{
		"success":     true,
		"results":     matched,
		"total_count": total,
		"search_params": map[string]any{
			"location":  location,
			"check_in":  stringArg(args, "check_in"),
			"check_out": stringArg(args, "check_out"),
			"guests":    intArg(args, "guests", 1),
		},
	}
}

func (p *MockProvider) getHotelDetails(args map[string]any) (map[string]any, error) {
	hotelID := stringArg(args, "hotel_id")
	h, ok := p.findHotel(hotelID)
	if !ok {
		return nil, contractx.NewToolError(contractx.ToolErrDomainRejected, ToolGetHotelDetails,
			"unknown hotel_id %q", hotelID)
	}
	return map[string]any{"success": true, "hotel": asMap(h)}, nil
}

func (p *MockProvider) filterHotels(args map[string]any) map[string]any {
	minRating := floatArg(args, "min_rating", 0)
	maxPrice := intArg(args, "max_price", 0)
	hotelType := stringArg(args, "hotel_type")
	amenities := stringSliceArg(args, "amenities")

	matched := make([]map[string]any, 0, len(p.data.hotels))
	for _, h := range p.data.hotels {
		if minRating > 0 && h.Rating < minRating {
			continue
		}
		if maxPrice > 0 && h.PricePerNight > maxPrice {
			continue
		}
		if hotelType != "" && !strings.Contains(strings.ToLower(h.Type), strings.ToLower(hotelType)) {
			continue
		}
		if len(amenities) > 0 && !hasAnyAmenity(h.Amenities, amenities) {
			continue
		}
		if len(matched) < 15 {
			matched = append(matched, asMap(h))
		}
	}

	return map[string]any{
		"success": true,
		"results": matched,
		"filters_applied": map[string]any{
			"min_rating": minRating,
			"max_price":  maxPrice,
			"amenities":  amenities,
			"hotel_type": hotelType,
		},
	}
}

/* ------------------------------- booking ------------------------------- */

func (p *MockProvider) checkAvailability(args map[string]any) (map[string]any, error) {
	hotelID := stringArg(args, "hotel_id")
	checkIn := stringArg(args, "check_in")
	checkOut := stringArg(args, "check_out")
	rooms := intArg(args, "rooms", 1)
	if rooms < 1 {
		rooms = 1
	}

	h, ok := p.findHotel(hotelID)
	if !ok {
		return nil, contractx.NewToolError(contractx.ToolErrDomainRejected, ToolCheckAvailability,
			"unknown hotel_id %q", hotelID)
	}

	p.data.mu.Lock()
	booked := bookedRooms(p.data.bookings, hotelID, checkIn, checkOut)
	p.data.mu.Unlock()

	remaining := h.AvailableRooms - booked
	if remaining < rooms {
		return nil, contractx.NewToolError(contractx.ToolErrDomainRejected, ToolCheckAvailability,
			"no rooms available at %s for %s to %s", hotelID, checkIn, checkOut)
	}

	nights := calculateNights(checkIn, checkOut)
	return map[string]any{
		"success":         true,
		"available":       true,
		"hotel_id":        hotelID,
		"room_type":       stringArgDefault(args, "room_type", "standard"),
		"available_rooms": remaining,
		"price_per_night": h.PricePerNight,
		"total_nights":    nights,
		"total_price":     h.PricePerNight * nights * rooms,
		"check_in":        checkIn,
		"check_out":       checkOut,
	}, nil
}

func (p *MockProvider) createBooking(args map[string]any) (map[string]any, error) {
	hotelID := stringArg(args, "hotel_id")
	h, ok := p.findHotel(hotelID)
	if !ok {
		return nil, contractx.NewToolError(contractx.ToolErrDomainRejected, ToolCreateBooking,
			"unknown hotel_id %q", hotelID)
	}

	checkIn := stringArg(args, "check_in")
	checkOut := stringArg(args, "check_out")
	rooms := intArg(args, "rooms", 1)
	if rooms < 1 {
		rooms = 1
	}
	nights := calculateNights(checkIn, checkOut)

	booking := &Booking{
		BookingID:     "booking_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8],
		HotelID:       hotelID,
		GuestName:     stringArgDefault(args, "guest_name", "Guest"),
		GuestEmail:    stringArgDefault(args, "guest_email", "guest@example.com"),
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		Rooms:         rooms,
		RoomType:      stringArgDefault(args, "room_type", "standard"),
		PricePerNight: h.PricePerNight,
		TotalNights:   nights,
		TotalPrice:    h.PricePerNight * nights * rooms,
		Status:        BookingPending,
		CreatedAt:     p.data.now().UTC().Format(time.RFC3339),
	}

	p.data.mu.Lock()
	p.data.bookings[booking.BookingID] = booking
	p.data.mu.Unlock()

	return map[string]any{
		"success": true,
		"booking": asMap(booking),
		"message": "Booking created successfully. Please confirm to complete.",
	}, nil
}

func (p *MockProvider) confirmBooking(args map[string]any) (map[string]any, error) {
	bookingID := stringArg(args, "booking_id")

	p.data.mu.Lock()
	defer p.data.mu.Unlock()

	booking, ok := p.data.bookings[bookingID]
	if !ok {
		return nil, contractx.NewToolError(contractx.ToolErrDomainRejected, ToolConfirmBooking,
			"booking %q not found", bookingID)
	}
	if booking.Status == BookingConfirmed {
		return nil, contractx.NewToolError(contractx.ToolErrDomainRejected, ToolConfirmBooking,
			"booking %q already confirmed", bookingID)
	}

	booking.Status = BookingConfirmed
	booking.PaymentMethod = stringArgDefault(args, "payment_method", "credit_card")
	booking.ConfirmationNumber = "CONF" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	booking.ConfirmedAt = p.data.now().UTC().Format(time.RFC3339)

	return map[string]any{
		"success": true,
		"booking": asMap(booking),
		"message": fmt.Sprintf("Booking confirmed! Confirmation number: %s", booking.ConfirmationNumber),
	}, nil
}

func (p *MockProvider) cancelBooking(args map[string]any) (map[string]any, error) {
	bookingID := stringArg(args, "booking_id")

	p.data.mu.Lock()
	defer p.data.mu.Unlock()

	booking, ok := p.data.bookings[bookingID]
	if !ok {
		return nil, contractx.NewToolError(contractx.ToolErrDomainRejected, ToolCancelBooking,
			"booking %q not found", bookingID)
	}

	booking.Status = BookingCancelled
	booking.CancelledAt = p.data.now().UTC().Format(time.RFC3339)

	return map[string]any{
		"success": true,
		"booking": asMap(booking),
		"message": "Booking cancelled successfully",
	}, nil
}

func (p *MockProvider) getBookingDetails(args map[string]any) (map[string]any, error) {
	bookingID := stringArg(args, "booking_id")

	p.data.mu.Lock()
	booking, ok := p.data.bookings[bookingID]
	var snapshot map[string]any
	if ok {
		snapshot = asMap(booking)
	}
	p.data.mu.Unlock()

	if !ok {
		return nil, contractx.NewToolError(contractx.ToolErrDomainRejected, ToolGetBookingDetails,
			"booking %q not found", bookingID)
	}
	return map[string]any{"success": true, "booking": snapshot}, nil
}

/* ------------------------------- customer ------------------------------ */

func (p *MockProvider) getCustomerProfile(args map[string]any) (map[string]any, error) {
	customerID := stringArg(args, "customer_id")
	email := stringArg(args, "email")

	p.data.mu.Lock()
	defer p.data.mu.Unlock()

	profile := p.data.customers[customerID]
	if profile == nil && email != "" {
		for _, c := range p.data.customers {
			if strings.EqualFold(c.Email, email) {
				profile = c
				break
			}
		}
	}
	if profile == nil {
		return nil, contractx.NewToolError(contractx.ToolErrDomainRejected, ToolGetCustomerProfile,
			"customer not found")
	}
	return map[string]any{"success": true, "profile": asMap(profile)}, nil
}

func (p *MockProvider) getCustomerTrips(args map[string]any) (map[string]any, error) {
	customerID := stringArg(args, "customer_id")
	status := stringArg(args, "status")

	trips, ok := p.data.trips[customerID]
	if !ok {
		return nil, contractx.NewToolError(contractx.ToolErrDomainRejected, ToolGetCustomerTrips,
			"no trips found for customer %q", customerID)
	}

	out := make([]map[string]any, 0, len(trips))
	for _, t := range trips {
		if status != "" && t.Status != status {
			continue
		}
		out = append(out, asMap(t))
	}

	return map[string]any{
		"success":     true,
		"customer_id": customerID,
		"trips":       out,
		"total_trips": len(out),
	}, nil
}

func (p *MockProvider) getCustomerRewards(args map[string]any) (map[string]any, error) {
	customerID := stringArg(args, "customer_id")

	rewards, ok := p.data.rewards[customerID]
	if !ok {
		return nil, contractx.NewToolError(contractx.ToolErrDomainRejected, ToolGetCustomerRewards,
			"no rewards found for customer %q", customerID)
	}
	return map[string]any{"success": true, "rewards": asMap(rewards)}, nil
}

func (p *MockProvider) updateCustomerProfile(args map[string]any) (map[string]any, error) {
	customerID := stringArg(args, "customer_id")
	updates, _ := args["updates"].(map[string]any)

	p.data.mu.Lock()
	defer p.data.mu.Unlock()

	profile, ok := p.data.customers[customerID]
	if !ok {
		return nil, contractx.NewToolError(contractx.ToolErrDomainRejected, ToolUpdateCustomer,
			"customer %q not found", customerID)
	}

	if phone, ok := updates["phone"].(string); ok && phone != "" {
		profile.Phone = phone
	}
	if prefs, ok := updates["preferences"].(map[string]any); ok {
		if profile.Preferences == nil {
			profile.Preferences = make(map[string]any, len(prefs))
		}
		for k, v := range prefs {
			profile.Preferences[k] = v
		}
	}

	return map[string]any{
		"success": true,
		"message": "Profile updated successfully",
		"profile": asMap(profile),
	}, nil
}

/* ------------------------------- helpers ------------------------------- */

func (p *MockProvider) findHotel(hotelID string) (Hotel, bool) {
	for _, h := range p.data.hotels {
		if h.ID == hotelID {
			return h, true
		}
	}
	return Hotel{}, false
}

// bookedRooms counts rooms held by non-cancelled bookings overlapping the
// requested range. Caller holds the ledger mutex.
func bookedRooms(bookings map[string]*Booking, hotelID, checkIn, checkOut string) int {
	total := 0
	for _, b := range bookings {
		if b.HotelID != hotelID || b.Status == BookingCancelled {
			continue
		}
		if rangesOverlap(b.CheckIn, b.CheckOut, checkIn, checkOut) {
			total += b.Rooms
		}
	}
	return total
}

func rangesOverlap(aStart, aEnd, bStart, bEnd string) bool {
	as, ok1 := parseDate(aStart)
	ae, ok2 := parseDate(aEnd)
	bs, ok3 := parseDate(bStart)
	be, ok4 := parseDate(bEnd)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		// Unparseable dates count as conflicting so availability never
		// overpromises.
		return true
	}
	return as.Before(be) && bs.Before(ae)
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if strings.Contains(s, "T") {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func calculateNights(checkIn, checkOut string) int {
	start, ok1 := parseDate(checkIn)
	end, ok2 := parseDate(checkOut)
	if !ok1 || !ok2 {
		return 1
	}
	nights := int(end.Sub(start).Hours() / 24)
	if nights < 1 {
		return 1
	}
	return nights
}

func hasAnyAmenity(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if strings.EqualFold(h, w) {
				return true
			}
		}
	}
	return false
}

func stringArg(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return strings.TrimSpace(v)
}

func stringArgDefault(args map[string]any, key, def string) string {
	if v := stringArg(args, key); v != "" {
		return v
	}
	return def
}

func intArg(args map[string]any, key string, def int) int {
	switch v := args[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return def
	}
}

func floatArg(args map[string]any, key string, def float64) float64 {
	switch v := args[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return def
	}
}

func stringSliceArg(args map[string]any, key string) []string {
	switch v := args[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
