package validation

import (
	"errors"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Eursukkul/salon-booking-service/internal/models"
)

const DateLayout = "2006-01-02"

// ErrInvalid matches every *Error via errors.Is.
var ErrInvalid = errors.New("invalid booking data")

// Error is the first failing rule, carrying the message shown to the customer.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Is(target error) bool { return target == ErrInvalid }

var (
	emailRe      = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	phoneRe      = regexp.MustCompile(`^[+]?[1-9]\d{0,15}$`)
	phoneStripRe = regexp.MustCompile(`[\s()-]`)
	nameRe       = regexp.MustCompile(`^[a-zA-Z\s\-'.]+$`)
	spaceRe      = regexp.MustCompile(`\s+`)
)

func ValidEmail(email string) bool { return emailRe.MatchString(email) }

// ValidPhone accepts an optional leading "+" and up to 16 digits, ignoring spaces, dashes and parentheses.
func ValidPhone(phone string) bool {
	return phoneRe.MatchString(phoneStripRe.ReplaceAllString(phone, ""))
}

func ValidNameChars(name string) bool { return nameRe.MatchString(name) }

// SanitizeText escapes HTML-significant characters, including "/".
func SanitizeText(s string) string {
	return strings.ReplaceAll(html.EscapeString(strings.TrimSpace(s)), "/", "&#x2F;")
}

// SanitizeContact trims every field, collapses whitespace inside the name and escapes free-text notes.
func SanitizeContact(c models.Contact) models.Contact {
	return models.Contact{
		Name:  spaceRe.ReplaceAllString(strings.TrimSpace(c.Name), " "),
		Email: strings.TrimSpace(c.Email),
		Phone: strings.TrimSpace(c.Phone),
		Notes: SanitizeText(c.Notes),
	}
}

// BookingInput is the set of fields checked before anything is persisted.
type BookingInput struct {
	CustomerName  string  `validate:"required,max=100,personname"`
	CustomerEmail string  `validate:"required,emailaddr,max=255"`
	CustomerPhone string  `validate:"required,phone,max=20"`
	BookingDate   string  `validate:"required,bookingdate,notpast"`
	TotalPrice    float64 `validate:"gt=0"`
}

var messages = map[string]string{
	"CustomerName.required":   "Name is required",
	"CustomerName.max":        "Name must be 100 characters or less",
	"CustomerName.personname": "Name contains invalid characters",
	"CustomerEmail.required":  "Email is required",
	"CustomerEmail.emailaddr": "Please enter a valid email address",
	"CustomerEmail.max":       "Email must be 255 characters or less",
	"CustomerPhone.required":  "Phone number is required",
	"CustomerPhone.phone":     "Please enter a valid phone number",
	"CustomerPhone.max":       "Phone number must be 20 characters or less",
	"BookingDate.required":    "Booking date is required",
	"BookingDate.bookingdate": "Please choose a valid booking date",
	"BookingDate.notpast":     "Booking date cannot be in the past",
	"TotalPrice.gt":           "Total price must be greater than 0",
}

type Validator struct {
	v   *validator.Validate
	now func() time.Time
	loc *time.Location
}

type Option func(*Validator)

func WithClock(now func() time.Time) Option {
	return func(v *Validator) { v.now = now }
}

func WithLocation(loc *time.Location) Option {
	return func(v *Validator) { v.loc = loc }
}

func New(opts ...Option) *Validator {
	val := &Validator{v: validator.New(), now: time.Now, loc: time.UTC}
	for _, o := range opts {
		o(val)
	}

	_ = val.v.RegisterValidation("personname", func(fl validator.FieldLevel) bool {
		return ValidNameChars(fl.Field().String())
	})
	_ = val.v.RegisterValidation("emailaddr", func(fl validator.FieldLevel) bool {
		return ValidEmail(fl.Field().String())
	})
	_ = val.v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return ValidPhone(fl.Field().String())
	})
	_ = val.v.RegisterValidation("bookingdate", func(fl validator.FieldLevel) bool {
		_, err := time.ParseInLocation(DateLayout, fl.Field().String(), val.loc)
		return err == nil
	})
	_ = val.v.RegisterValidation("notpast", func(fl validator.FieldLevel) bool {
		d, err := time.ParseInLocation(DateLayout, fl.Field().String(), val.loc)
		if err != nil {
			return false
		}
		return !d.Before(val.Today())
	})
	return val
}

// Today is midnight of the current day in the validator's location.
func (v *Validator) Today() time.Time {
	now := v.now().In(v.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, v.loc)
}

// Problems returns one error per failing field, in field order.
func (v *Validator) Problems(in BookingInput) []*Error {
	err := v.v.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []*Error{{Field: "booking", Message: err.Error()}}
	}
	out := make([]*Error, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := messages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = fe.Error()
		}
		out = append(out, &Error{Field: fe.Field(), Message: msg})
	}
	return out
}

// ValidateBooking returns the first failing rule, or nil.
func (v *Validator) ValidateBooking(in BookingInput) error {
	if problems := v.Problems(in); len(problems) > 0 {
		return problems[0]
	}
	return nil
}
