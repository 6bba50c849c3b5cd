package wizard

import (
	"errors"
	"sync"
	"time"

	"github.com/Eursukkul/salon-booking-service/internal/models"
)

type Step int

const (
	StepPeople Step = iota + 1
	StepServices
	StepDateTime
	StepConfirm
)

func (s Step) String() string {
	switch s {
	case StepPeople:
		return "people"
	case StepServices:
		return "services"
	case StepDateTime:
		return "date_time"
	case StepConfirm:
		return "confirm"
	default:
		return "unknown"
	}
}

const DefaultResetDelay = 3 * time.Second

var (
	ErrNoSalon             = errors.New("booking wizard requires a salon")
	ErrStepIncomplete      = errors.New("current step is incomplete")
	ErrCompleted           = errors.New("booking is already complete")
	ErrPersonOutOfRange    = errors.New("person index out of range")
	ErrSelectionOutOfRange = errors.New("service selection index out of range")
	ErrServiceNotOffered   = errors.New("service is not offered by this salon")
	ErrUnknownStylist      = errors.New("stylist does not work at this salon")
	ErrDateRequired        = errors.New("select a date before choosing a time")
	ErrInvalidTime         = errors.New("invalid time, expected HH:MM")
	ErrSelectionChanged    = errors.New("booking changed while the time was checked, please choose again")
)

type Options struct {
	// ResetDelay is how long the completion screen stays up before reset-and-close.
	ResetDelay time.Duration
	// DateCheck validates a selected date; nil accepts any YYYY-MM-DD string.
	DateCheck func(date string) error
	// PreselectedServiceID is toggled on for the first person when the wizard opens.
	PreselectedServiceID string
	// OnBookingComplete runs once per successful submission.
	OnBookingComplete func()
	// OnClose runs after the post-completion reset.
	OnClose func()
}

// Wizard owns the canonical BookingData and the current step. All methods are safe
// for concurrent use; mutations of one wizard are serialised.
type Wizard struct {
	mu sync.Mutex

	catalog      models.Catalog
	services     map[string]models.Service
	stylists     map[string]models.Stylist
	opts         Options
	step         Step
	data         models.BookingData
	activePerson int
	complete     bool
	resetTimer   *time.Timer
}

func New(catalog models.Catalog, opts Options) (*Wizard, error) {
	if catalog.Salon.ID == "" {
		return nil, ErrNoSalon
	}
	if opts.ResetDelay <= 0 {
		opts.ResetDelay = DefaultResetDelay
	}

	w := &Wizard{
		catalog:  catalog,
		services: make(map[string]models.Service, len(catalog.Services)),
		stylists: make(map[string]models.Stylist, len(catalog.Stylists)),
		opts:     opts,
	}
	for _, s := range catalog.Services {
		w.services[s.ID] = s
	}
	for _, s := range catalog.Stylists {
		w.stylists[s.ID] = s
	}
	w.resetLocked()

	if opts.PreselectedServiceID != "" {
		if _, ok := w.services[opts.PreselectedServiceID]; ok {
			_, _ = w.toggleLocked(0, opts.PreselectedServiceID)
		}
	}
	return w, nil
}

func (w *Wizard) freshData() models.BookingData {
	return models.BookingData{
		Salon:          w.catalog.Salon.Ref(),
		NumberOfPeople: 1,
		PeopleBookings: []models.PersonBooking{{}},
	}
}

func (w *Wizard) resetLocked() {
	w.step = StepPeople
	w.data = w.freshData()
	w.activePerson = 0
	w.complete = false
}

func (w *Wizard) Catalog() models.Catalog {
	return w.catalog
}

func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Data returns a copy of the accumulator.
func (w *Wizard) Data() models.BookingData {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.data.Clone()
}

func (w *Wizard) Completed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.complete
}

// Advance moves to the next step once the current one is satisfied. It stays on the last step.
func (w *Wizard) Advance() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.complete {
		return ErrCompleted
	}
	if !w.canProceedLocked(w.step) {
		return ErrStepIncomplete
	}
	if w.step < StepConfirm {
		w.step++
	}
	return nil
}

// Retreat moves back one step without re-validating anything.
func (w *Wizard) Retreat() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step > StepPeople {
		w.step--
	}
}

// MergeUpdate shallow-merges the non-nil fields of u into the accumulator.
func (w *Wizard) MergeUpdate(u models.BookingUpdate) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.mergeLocked(u)
}

func (w *Wizard) mergeLocked(u models.BookingUpdate) {
	if u.NumberOfPeople != nil {
		w.data.NumberOfPeople = *u.NumberOfPeople
	}
	if u.PeopleBookings != nil {
		w.data.PeopleBookings = models.ClonePeople(u.PeopleBookings)
	}
	if u.Date != nil {
		w.data.Date = *u.Date
	}
	if u.Time != nil {
		w.data.Time = *u.Time
	}
	if u.TotalPrice != nil {
		w.data.TotalPrice = *u.TotalPrice
	}
	if u.PrimaryContact != nil {
		w.data.PrimaryContact = *u.PrimaryContact
	}
}

func (w *Wizard) CanProceed(step Step) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.canProceedLocked(step)
}

// Ready reports whether every step's predicate holds.
func (w *Wizard) Ready() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	for s := StepPeople; s <= StepConfirm; s++ {
		if !w.canProceedLocked(s) {
			return false
		}
	}
	return true
}

func (w *Wizard) canProceedLocked(step Step) bool {
	d := w.data
	switch step {
	case StepPeople:
		return peopleStepDone(d)
	case StepServices:
		return servicesStepDone(d)
	case StepDateTime:
		return d.Date != "" && d.Time != ""
	case StepConfirm:
		c := d.PrimaryContact
		return c.Name != "" && c.Email != "" && c.Phone != ""
	default:
		return false
	}
}

// Complete marks the booking as done, notifies the host once and schedules the
// reset-and-close after ResetDelay. A second call before the reset is rejected.
func (w *Wizard) Complete() error {
	w.mu.Lock()
	if w.complete {
		w.mu.Unlock()
		return ErrCompleted
	}
	w.complete = true
	w.stopTimerLocked()
	w.resetTimer = time.AfterFunc(w.opts.ResetDelay, w.resetAndClose)
	onComplete := w.opts.OnBookingComplete
	w.mu.Unlock()

	if onComplete != nil {
		onComplete()
	}
	return nil
}

func (w *Wizard) resetAndClose() {
	w.mu.Lock()
	if !w.complete {
		// Closed or reset in the meantime.
		w.mu.Unlock()
		return
	}
	w.resetTimer = nil
	w.resetLocked()
	onClose := w.opts.OnClose
	w.mu.Unlock()

	if onClose != nil {
		onClose()
	}
}

// Reset discards all selections and cancels a pending post-completion close.
func (w *Wizard) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopTimerLocked()
	w.resetLocked()
}

// Close discards the in-memory booking. A pending post-completion close will not fire.
func (w *Wizard) Close() {
	w.Reset()
}

func (w *Wizard) stopTimerLocked() {
	if w.resetTimer != nil {
		w.resetTimer.Stop()
		w.resetTimer = nil
	}
}
