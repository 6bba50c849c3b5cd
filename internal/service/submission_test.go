package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Eursukkul/salon-booking-service/internal/availability"
	"github.com/Eursukkul/salon-booking-service/internal/models"
	"github.com/Eursukkul/salon-booking-service/internal/validation"
)

func newSubmission(t *testing.T, repo *mockBookingRepo, pub Publisher) (SubmissionService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newMockDB(t)
	repo.db = db
	avail := availability.NewService(repo, nil, availability.Options{Now: nowFn})
	svc := NewSubmissionService(SubmissionDeps{
		Bookings:     repo,
		Availability: avail,
		Validator:    validation.New(validation.WithClock(nowFn)),
		Confirmation: NewConfirmationGenerator(ConfirmationRemote, repo),
		Publisher:    pub,
		Now:          nowFn,
	})
	return svc, mock
}

func singleGuest(stylist models.StylistChoice) models.BookingData {
	c := sampleCatalog()
	return models.BookingData{
		Salon:          c.Salon.Ref(),
		NumberOfPeople: 1,
		PeopleBookings: []models.PersonBooking{{
			Services: []models.ServiceSelection{{Service: c.Services[0], Stylist: stylist}},
		}},
		Date:           "2026-10-16",
		Time:           "10:00",
		TotalPrice:     85,
		PrimaryContact: models.Contact{Name: "Jane Doe", Email: "jane@x.com", Phone: "+15551234567"},
	}
}

func TestSubmit_SingleGuestAnyStylist(t *testing.T) {
	repo := &mockBookingRepo{}
	pub := &mockPublisher{}
	svc, mock := newSubmission(t, repo, pub)
	mock.ExpectBegin()
	mock.ExpectCommit()

	booking, err := svc.Submit(context.Background(), sampleCatalog(), singleGuest(models.AnyAvailable()))

	require.NoError(t, err)
	assert.NotEmpty(t, booking.ConfirmationNumber)
	assert.InDelta(t, 85, booking.TotalPrice, 0.001)
	assert.Nil(t, booking.StylistID)
	assert.Equal(t, "Any Available", booking.StylistName)
	assert.Equal(t, models.StatusPending, booking.Status)
	assert.Equal(t, 120, booking.DurationMinutes)
	require.Len(t, booking.People, 1)
	assert.Equal(t, "Person 1", booking.People[0].PersonName)
	assert.Equal(t, 1, booking.People[0].PersonOrder)
	require.Len(t, booking.People[0].Services, 1)
	assert.Equal(t, "booking-1", booking.People[0].BookingID)
	assert.Equal(t, "person-Person 1", booking.People[0].Services[0].BookingPeopleID)
	assert.Equal(t, 120, booking.People[0].Services[0].DurationMinutes)

	b, p, s := repo.inserts()
	assert.Equal(t, [3]int{1, 1, 1}, [3]int{b, p, s})
	assert.Equal(t, []string{models.RoutingBookingConfirmed}, pub.keys)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmit_SpecificStylistsAcrossPeople(t *testing.T) {
	c := sampleCatalog()
	repo := &mockBookingRepo{}
	svc, mock := newSubmission(t, repo, nil)
	mock.ExpectBegin()
	mock.ExpectCommit()

	data := singleGuest(models.Specific(c.Stylists[0]))
	data.NumberOfPeople = 2
	data.PeopleBookings[0].PersonName = "Jane Doe"
	data.PeopleBookings = append(data.PeopleBookings, models.PersonBooking{
		PersonName: "Kid",
		Services:   []models.ServiceSelection{{Service: c.Services[1], Stylist: models.Specific(c.Stylists[1])}},
	})

	booking, err := svc.Submit(context.Background(), c, data)

	require.NoError(t, err)
	require.NotNil(t, booking.StylistID)
	assert.Equal(t, "jane", *booking.StylistID)
	assert.Equal(t, "Jane", booking.StylistName)
	assert.InDelta(t, 130, booking.TotalPrice, 0.001)
	assert.Equal(t, 2, booking.NumberOfPeople)
	assert.Len(t, booking.Services, 2)
	b, p, s := repo.inserts()
	assert.Equal(t, [3]int{1, 2, 2}, [3]int{b, p, s})
}

func TestSubmit_RejectedBeforeAnyInsert(t *testing.T) {
	c := sampleCatalog()

	tests := []struct {
		name    string
		mutate  func(d *models.BookingData)
		wantErr error
		wantMsg string
	}{
		{
			name:    "missing time",
			mutate:  func(d *models.BookingData) { d.Time = "" },
			wantErr: ErrMissingBookingInfo,
		},
		{
			name:    "missing salon",
			mutate:  func(d *models.BookingData) { d.Salon = models.SalonRef{} },
			wantErr: ErrMissingBookingInfo,
		},
		{
			name:    "missing phone",
			mutate:  func(d *models.BookingData) { d.PrimaryContact.Phone = "  " },
			wantErr: ErrMissingContact,
		},
		{
			name: "second person service without stylist",
			mutate: func(d *models.BookingData) {
				d.NumberOfPeople = 2
				d.PeopleBookings = append(d.PeopleBookings, models.PersonBooking{
					PersonName: "Kid",
					Services:   []models.ServiceSelection{{Service: c.Services[1]}},
				})
			},
			wantErr: ErrIncompleteBooking,
		},
		{
			name: "person without services",
			mutate: func(d *models.BookingData) {
				d.PeopleBookings = append(d.PeopleBookings, models.PersonBooking{PersonName: "Kid"})
			},
			wantErr: ErrIncompleteBooking,
		},
		{
			name:    "bad email",
			mutate:  func(d *models.BookingData) { d.PrimaryContact.Email = "not-an-email" },
			wantErr: validation.ErrInvalid,
			wantMsg: "Please enter a valid email address",
		},
		{
			name:    "past date",
			mutate:  func(d *models.BookingData) { d.Date = "2026-10-14" },
			wantErr: validation.ErrInvalid,
			wantMsg: "Booking date cannot be in the past",
		},
		{
			name:    "name with digits",
			mutate:  func(d *models.BookingData) { d.PrimaryContact.Name = "R2D2" },
			wantErr: validation.ErrInvalid,
			wantMsg: "Name contains invalid characters",
		},
		{
			name:    "beyond booking window",
			mutate:  func(d *models.BookingData) { d.Date = "2027-06-01" },
			wantErr: availability.ErrDateOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockBookingRepo{}
			pub := &mockPublisher{}
			svc, mock := newSubmission(t, repo, pub)

			data := singleGuest(models.AnyAvailable())
			tt.mutate(&data)

			booking, err := svc.Submit(context.Background(), c, data)

			assert.Nil(t, booking)
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.wantMsg != "" {
				assert.EqualError(t, err, tt.wantMsg)
			}
			b, p, s := repo.inserts()
			assert.Zero(t, b+p+s)
			assert.Empty(t, pub.keys)
			assert.NoError(t, mock.ExpectationsWereMet(), "no transaction should start")
		})
	}
}

func TestSubmit_SlotTakenInsideTransaction(t *testing.T) {
	c := sampleCatalog()
	jane := "jane"
	repo := &mockBookingRepo{
		intervalsFn: func(ctx context.Context, salonID, date string) ([]models.BookedInterval, error) {
			return []models.BookedInterval{{BookingID: "other", StylistID: &jane, BookingTime: "09:30", DurationMinutes: 60}}, nil
		},
	}
	svc, mock := newSubmission(t, repo, nil)
	mock.ExpectBegin()
	mock.ExpectRollback()

	data := singleGuest(models.Specific(c.Stylists[0]))
	booking, err := svc.Submit(context.Background(), c, data)

	assert.Nil(t, booking)
	assert.ErrorIs(t, err, ErrSlotUnavailable)
	b, p, s := repo.inserts()
	assert.Zero(t, b+p+s)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmit_AnyStylistFullyBooked(t *testing.T) {
	jane, sam := "jane", "sam"
	repo := &mockBookingRepo{
		intervalsFn: func(ctx context.Context, salonID, date string) ([]models.BookedInterval, error) {
			return []models.BookedInterval{
				{BookingID: "b1", StylistID: &jane, BookingTime: "10:00", DurationMinutes: 60},
				{BookingID: "b2", StylistID: &sam, BookingTime: "11:00", DurationMinutes: 30},
			}, nil
		},
	}
	svc, mock := newSubmission(t, repo, nil)
	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.Submit(context.Background(), sampleCatalog(), singleGuest(models.AnyAvailable()))

	assert.ErrorIs(t, err, ErrSlotUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmit_SpecificPlusAnyWhenOtherStylistBusy(t *testing.T) {
	c := sampleCatalog()
	sam := "sam"
	repo := &mockBookingRepo{
		intervalsFn: func(ctx context.Context, salonID, date string) ([]models.BookedInterval, error) {
			return []models.BookedInterval{{BookingID: "b1", StylistID: &sam, BookingTime: "10:00", DurationMinutes: 60}}, nil
		},
	}
	svc, mock := newSubmission(t, repo, nil)
	mock.ExpectBegin()
	mock.ExpectRollback()

	data := singleGuest(models.Specific(c.Stylists[0]))
	data.NumberOfPeople = 2
	data.PeopleBookings = append(data.PeopleBookings, models.PersonBooking{
		PersonName: "Robin",
		Services:   []models.ServiceSelection{{Service: c.Services[1], Stylist: models.AnyAvailable()}},
	})

	booking, err := svc.Submit(context.Background(), c, data)

	assert.Nil(t, booking)
	assert.ErrorIs(t, err, ErrSlotUnavailable)
	b, p, s := repo.inserts()
	assert.Zero(t, b+p+s)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckSlots_AnyCapacity(t *testing.T) {
	c := sampleCatalog()
	jane, sam := "jane", "sam"
	day := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
	svc := &submissionService{now: nowFn}

	anyGuest := func(name string) models.PersonBooking {
		return models.PersonBooking{
			PersonName: name,
			Services:   []models.ServiceSelection{{Service: c.Services[1], Stylist: models.AnyAvailable()}},
		}
	}
	janeGuest := models.PersonBooking{
		PersonName: "Alex",
		Services:   []models.ServiceSelection{{Service: c.Services[1], Stylist: models.Specific(c.Stylists[0])}},
	}
	samBusy := []models.BookedInterval{{BookingID: "b1", StylistID: &sam, BookingTime: "10:00", DurationMinutes: 60}}
	janeBusy := []models.BookedInterval{{BookingID: "b2", StylistID: &jane, BookingTime: "10:00", DurationMinutes: 60}}
	laterBusy := []models.BookedInterval{{BookingID: "b3", StylistID: &sam, BookingTime: "12:00", DurationMinutes: 60}}

	tests := []struct {
		name    string
		people  []models.PersonBooking
		booked  []models.BookedInterval
		wantErr bool
	}{
		{"two any guests fit two stylists", []models.PersonBooking{anyGuest("A"), anyGuest("B")}, nil, false},
		{"three any guests exceed two stylists", []models.PersonBooking{anyGuest("A"), anyGuest("B"), anyGuest("C")}, nil, true},
		{"two any guests with one stylist busy", []models.PersonBooking{anyGuest("A"), anyGuest("B")}, samBusy, true},
		{"named stylist plus any with other stylist busy", []models.PersonBooking{janeGuest, anyGuest("B")}, samBusy, true},
		{"named stylist plus any on a free day", []models.PersonBooking{janeGuest, anyGuest("B")}, nil, false},
		{"named stylist already busy", []models.PersonBooking{janeGuest}, janeBusy, true},
		{"busy interval outside the slot", []models.PersonBooking{anyGuest("A"), anyGuest("B")}, laterBusy, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := models.BookingData{
				NumberOfPeople: len(tt.people),
				PeopleBookings: tt.people,
				Date:           "2026-10-16",
				Time:           "10:00",
			}
			err := svc.checkSlots(day, data, len(c.Stylists), tt.booked)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrSlotUnavailable)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSubmit_InsertFailureRollsBack(t *testing.T) {
	repo := &mockBookingRepo{
		personFn: func(ctx context.Context, tx *gorm.DB, p *models.BookingPerson) error {
			return errors.New("connection reset")
		},
	}
	pub := &mockPublisher{}
	svc, mock := newSubmission(t, repo, pub)
	mock.ExpectBegin()
	mock.ExpectRollback()

	booking, err := svc.Submit(context.Background(), sampleCatalog(), singleGuest(models.AnyAvailable()))

	assert.Nil(t, booking)
	assert.ErrorIs(t, err, ErrBookingFailed)
	assert.Empty(t, pub.keys)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmit_ConfirmationFailure(t *testing.T) {
	repo := &mockBookingRepo{
		confirmFn: func(ctx context.Context, tx *gorm.DB) (string, error) {
			return "", errors.New("function does not exist")
		},
	}
	svc, mock := newSubmission(t, repo, nil)
	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.Submit(context.Background(), sampleCatalog(), singleGuest(models.AnyAvailable()))

	assert.ErrorIs(t, err, ErrBookingFailed)
	b, _, _ := repo.inserts()
	assert.Zero(t, b)
}

func TestSubmit_PublishFailureDoesNotFailBooking(t *testing.T) {
	repo := &mockBookingRepo{}
	pub := &mockPublisher{err: errors.New("broker down")}
	svc, mock := newSubmission(t, repo, pub)
	mock.ExpectBegin()
	mock.ExpectCommit()

	booking, err := svc.Submit(context.Background(), sampleCatalog(), singleGuest(models.AnyAvailable()))

	require.NoError(t, err)
	assert.Equal(t, "BK000001AA", booking.ConfirmationNumber)
	assert.Len(t, pub.keys, 1)
}

func TestSubmit_SanitizesContact(t *testing.T) {
	repo := &mockBookingRepo{}
	svc, mock := newSubmission(t, repo, nil)
	mock.ExpectBegin()
	mock.ExpectCommit()

	data := singleGuest(models.AnyAvailable())
	data.PrimaryContact = models.Contact{
		Name:  "  Jane   Doe ",
		Email: " jane@x.com ",
		Phone: "+1 (555) 123-4567",
		Notes: "<b>allergic</b>",
	}

	booking, err := svc.Submit(context.Background(), sampleCatalog(), data)

	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", booking.CustomerName)
	assert.Equal(t, "jane@x.com", booking.CustomerEmail)
	require.NotNil(t, booking.CustomerNotes)
	assert.Equal(t, "&lt;b&gt;allergic&lt;&#x2F;b&gt;", *booking.CustomerNotes)
}
