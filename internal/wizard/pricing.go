package wizard

import (
	"regexp"
	"strconv"

	"github.com/Eursukkul/salon-booking-service/internal/models"
)

var (
	nonNumericRe  = regexp.MustCompile(`[^0-9.]`)
	numberPrefix  = regexp.MustCompile(`^\d*\.?\d*`)
	hoursRe       = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*h`)
	minutesRe     = regexp.MustCompile(`(\d+)\s*m`)
	firstNumberRe = regexp.MustCompile(`\d+`)
)

// DefaultServiceMinutes is used for services whose duration string carries no number.
const DefaultServiceMinutes = 60

// ParsePrice strips every non-numeric character from a display price and parses the
// leading number. "From $85" yields 85; strings without digits yield 0.
func ParsePrice(display string) float64 {
	digits := numberPrefix.FindString(nonNumericRe.ReplaceAllString(display, ""))
	v, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseDurationMinutes understands "45 min", "1h 30m", "1.5 hours" and bare numbers (minutes).
func ParseDurationMinutes(display string) int {
	total := 0.0
	matched := false
	if m := hoursRe.FindStringSubmatch(display); m != nil {
		h, _ := strconv.ParseFloat(m[1], 64)
		total += h * 60
		matched = true
	}
	if m := minutesRe.FindStringSubmatch(display); m != nil {
		mins, _ := strconv.Atoi(m[1])
		total += float64(mins)
		matched = true
	}
	if !matched {
		if n := firstNumberRe.FindString(display); n != "" {
			mins, _ := strconv.Atoi(n)
			total = float64(mins)
		}
	}
	if total <= 0 {
		return DefaultServiceMinutes
	}
	return int(total)
}

// TotalPrice sums the parsed price of every selected service across all people.
func TotalPrice(people []models.PersonBooking) float64 {
	total := 0.0
	for _, p := range people {
		for _, s := range p.Services {
			total += ParsePrice(s.Service.Price)
		}
	}
	return total
}

func PersonDuration(p models.PersonBooking) int {
	total := 0
	for _, s := range p.Services {
		total += ParseDurationMinutes(s.Service.Duration)
	}
	return total
}

// TotalDuration is the summed duration of every selected service.
func TotalDuration(people []models.PersonBooking) int {
	total := 0
	for _, p := range people {
		total += PersonDuration(p)
	}
	return total
}

// StylistDuration is how long a stylist is occupied by this booking. For the
// "any available" choice (nil id) the longest single person's duration is used,
// since parallel guests are served by different stylists.
func StylistDuration(people []models.PersonBooking, stylistID *string) int {
	if stylistID == nil {
		longest := 0
		for _, p := range people {
			if d := PersonDuration(p); d > longest {
				longest = d
			}
		}
		return longest
	}
	total := 0
	for _, p := range people {
		for _, s := range p.Services {
			if id := s.Stylist.StylistID(); id != nil && *id == *stylistID {
				total += ParseDurationMinutes(s.Service.Duration)
			}
		}
	}
	return total
}
