package wizard

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Eursukkul/salon-booking-service/internal/models"
)

func strPtr(s string) *string { return &s }

func testCatalog() models.Catalog {
	return models.Catalog{
		Salon: models.Salon{ID: "salon-1", Slug: "glow", Name: "Glow Studio"},
		Services: []models.Service{
			{ID: "cut", SalonID: "salon-1", Name: "Haircut", Price: "$45", Duration: "45 min"},
			{ID: "color", SalonID: "salon-1", Name: "Color", Price: "From $85", Duration: "2 hours"},
			{ID: "blowout", SalonID: "salon-1", Name: "Blowout", Price: "$35", Duration: "30 min"},
		},
		Stylists: []models.Stylist{
			{ID: "jane", SalonID: "salon-1", Name: "Jane", Title: strPtr("Senior Stylist")},
			{ID: "sam", SalonID: "salon-1", Name: "Sam"},
		},
	}
}

func newWizard(t *testing.T, opts Options) *Wizard {
	t.Helper()
	w, err := New(testCatalog(), opts)
	require.NoError(t, err)
	return w
}

func fillReady(t *testing.T, w *Wizard) {
	t.Helper()
	_, err := w.ToggleService(0, "cut")
	require.NoError(t, err)
	require.NoError(t, w.SelectDate("2026-10-16"))
	require.NoError(t, w.SelectTime("10:00"))
	require.NoError(t, w.UpdateContact(models.Contact{Name: "Ann Lee", Email: "ann@example.com", Phone: "5551234567"}))
}

func TestNew(t *testing.T) {
	t.Run("requires salon", func(t *testing.T) {
		_, err := New(models.Catalog{}, Options{})
		assert.ErrorIs(t, err, ErrNoSalon)
	})

	t.Run("fresh state", func(t *testing.T) {
		w := newWizard(t, Options{})
		d := w.Data()
		assert.Equal(t, StepPeople, w.Step())
		assert.Equal(t, 1, d.NumberOfPeople)
		assert.Len(t, d.PeopleBookings, 1)
		assert.Equal(t, models.SalonRef{ID: "salon-1", Name: "Glow Studio"}, d.Salon)
		assert.Zero(t, d.TotalPrice)
		assert.Empty(t, d.Date)
	})

	t.Run("preselected service goes to first person", func(t *testing.T) {
		w := newWizard(t, Options{PreselectedServiceID: "color"})
		d := w.Data()
		require.Len(t, d.PeopleBookings[0].Services, 1)
		assert.Equal(t, "color", d.PeopleBookings[0].Services[0].Service.ID)
		assert.True(t, d.PeopleBookings[0].Services[0].Stylist.IsAny())
		assert.InDelta(t, 85, d.TotalPrice, 0.001)
	})

	t.Run("unknown preselected service is ignored", func(t *testing.T) {
		w := newWizard(t, Options{PreselectedServiceID: "nope"})
		assert.Empty(t, w.Data().PeopleBookings[0].Services)
	})
}

func TestNavigation(t *testing.T) {
	w := newWizard(t, Options{})

	require.NoError(t, w.Advance())
	assert.Equal(t, StepServices, w.Step())

	assert.ErrorIs(t, w.Advance(), ErrStepIncomplete)
	assert.Equal(t, StepServices, w.Step())

	_, err := w.ToggleService(0, "cut")
	require.NoError(t, err)
	require.NoError(t, w.Advance())
	assert.Equal(t, StepDateTime, w.Step())

	assert.ErrorIs(t, w.Advance(), ErrStepIncomplete)
	require.NoError(t, w.SelectDate("2026-10-16"))
	require.NoError(t, w.SelectTime("10:00"))
	require.NoError(t, w.Advance())
	assert.Equal(t, StepConfirm, w.Step())

	require.NoError(t, w.UpdateContact(models.Contact{Name: "Ann", Email: "a@b.co", Phone: "555"}))
	require.NoError(t, w.Advance())
	assert.Equal(t, StepConfirm, w.Step(), "advance stays on the last step")

	for i := 0; i < 5; i++ {
		w.Retreat()
	}
	assert.Equal(t, StepPeople, w.Step())
	assert.Equal(t, "10:00", w.Data().Time, "retreat keeps data")
}

func TestPeopleStep(t *testing.T) {
	t.Run("clamps count", func(t *testing.T) {
		w := newWizard(t, Options{})
		n, err := w.SetNumberOfPeople(9)
		require.NoError(t, err)
		assert.Equal(t, MaxPeople, n)
		assert.Len(t, w.Data().PeopleBookings, MaxPeople)

		n, err = w.SetNumberOfPeople(0)
		require.NoError(t, err)
		assert.Equal(t, MinPeople, n)
		assert.Len(t, w.Data().PeopleBookings, 1)
	})

	t.Run("grow keeps existing entries", func(t *testing.T) {
		w := newWizard(t, Options{})
		require.NoError(t, w.SetPersonName(0, "Ann"))
		_, err := w.ToggleService(0, "cut")
		require.NoError(t, err)

		_, err = w.SetNumberOfPeople(3)
		require.NoError(t, err)
		d := w.Data()
		assert.Equal(t, "Ann", d.PeopleBookings[0].PersonName)
		assert.Len(t, d.PeopleBookings[0].Services, 1)
		assert.Empty(t, d.PeopleBookings[2].Services)
	})

	t.Run("shrink drops trailing entries and their price", func(t *testing.T) {
		w := newWizard(t, Options{})
		_, _ = w.SetNumberOfPeople(2)
		_, _ = w.ToggleService(0, "cut")
		_, _ = w.ToggleService(1, "color")
		assert.InDelta(t, 130, w.Data().TotalPrice, 0.001)

		_, _ = w.SetNumberOfPeople(1)
		assert.InDelta(t, 45, w.Data().TotalPrice, 0.001)
	})

	t.Run("multiple people need names", func(t *testing.T) {
		w := newWizard(t, Options{})
		assert.True(t, w.CanProceed(StepPeople))
		_, _ = w.SetNumberOfPeople(2)
		assert.False(t, w.CanProceed(StepPeople))
		require.NoError(t, w.SetPersonName(0, "Ann"))
		require.NoError(t, w.SetPersonName(1, "   "))
		assert.False(t, w.CanProceed(StepPeople))
		require.NoError(t, w.SetPersonName(1, "Bo"))
		assert.True(t, w.CanProceed(StepPeople))
	})

	t.Run("out of range", func(t *testing.T) {
		w := newWizard(t, Options{})
		assert.ErrorIs(t, w.SetPersonName(3, "x"), ErrPersonOutOfRange)
		assert.ErrorIs(t, w.SetActivePerson(-1), ErrPersonOutOfRange)
	})
}

func TestServicesStep(t *testing.T) {
	t.Run("toggle twice restores state", func(t *testing.T) {
		w := newWizard(t, Options{})
		before := w.Data()

		on, err := w.ToggleService(0, "cut")
		require.NoError(t, err)
		assert.True(t, on)
		off, err := w.ToggleService(0, "cut")
		require.NoError(t, err)
		assert.False(t, off)

		after := w.Data()
		assert.Empty(t, after.PeopleBookings[0].Services)
		assert.Equal(t, before.TotalPrice, after.TotalPrice)
	})

	t.Run("total tracks selections", func(t *testing.T) {
		w := newWizard(t, Options{})
		_, _ = w.ToggleService(0, "cut")
		_, _ = w.ToggleService(0, "blowout")
		assert.InDelta(t, 80, w.Data().TotalPrice, 0.001)
		assert.InDelta(t, TotalPrice(w.Data().PeopleBookings), w.Data().TotalPrice, 0.001)
	})

	t.Run("unknown service", func(t *testing.T) {
		w := newWizard(t, Options{})
		_, err := w.ToggleService(0, "perm")
		assert.ErrorIs(t, err, ErrServiceNotOffered)
	})

	t.Run("assign stylist", func(t *testing.T) {
		w := newWizard(t, Options{})
		_, _ = w.ToggleService(0, "cut")

		require.NoError(t, w.AssignStylist(0, 0, "jane"))
		choice, ok := w.PrimaryStylist()
		require.True(t, ok)
		st, specific := choice.Stylist()
		require.True(t, specific)
		assert.Equal(t, "Jane", st.Name)

		require.NoError(t, w.AssignStylist(0, 0, models.AnyStylistID))
		choice, _ = w.PrimaryStylist()
		assert.True(t, choice.IsAny())
		assert.Nil(t, choice.StylistID())

		assert.ErrorIs(t, w.AssignStylist(0, 0, "ghost"), ErrUnknownStylist)
		assert.ErrorIs(t, w.AssignStylist(0, 4, "jane"), ErrSelectionOutOfRange)
	})

	t.Run("service without stylist blocks the step", func(t *testing.T) {
		w := newWizard(t, Options{})
		_, _ = w.ToggleService(0, "cut")
		assert.True(t, w.CanProceed(StepServices))
		assert.True(t, w.PersonReady(0))

		require.NoError(t, w.AssignStylist(0, 0, ""))
		assert.False(t, w.CanProceed(StepServices))
		assert.False(t, w.PersonReady(0))
	})

	t.Run("every person needs a service", func(t *testing.T) {
		w := newWizard(t, Options{})
		_, _ = w.SetNumberOfPeople(2)
		_, _ = w.ToggleService(0, "cut")
		assert.False(t, w.CanProceed(StepServices))
		_, _ = w.ToggleService(1, "blowout")
		assert.True(t, w.CanProceed(StepServices))
	})
}

func TestStylistOptions(t *testing.T) {
	opts := StylistOptions(testCatalog().Stylists)
	require.Len(t, opts, 3)
	assert.Equal(t, models.AnyStylistID, opts[0].ID)
	assert.Equal(t, models.AnyStylistName, opts[0].Name)
	assert.Equal(t, "Senior Stylist", opts[1].Title)
}

func TestDateTimeStep(t *testing.T) {
	t.Run("date change clears time", func(t *testing.T) {
		w := newWizard(t, Options{})
		require.NoError(t, w.SelectDate("2026-10-16"))
		require.NoError(t, w.SelectTime("14:30"))
		require.NoError(t, w.SelectDate("2026-10-17"))
		assert.Equal(t, "2026-10-17", w.Data().Date)
		assert.Empty(t, w.Data().Time)
	})

	t.Run("time requires date", func(t *testing.T) {
		w := newWizard(t, Options{})
		assert.ErrorIs(t, w.SelectTime("10:00"), ErrDateRequired)
	})

	t.Run("bad time format", func(t *testing.T) {
		w := newWizard(t, Options{})
		require.NoError(t, w.SelectDate("2026-10-16"))
		assert.ErrorIs(t, w.SelectTime("10am"), ErrInvalidTime)
		assert.ErrorIs(t, w.SelectTime("10:00:00"), ErrInvalidTime)
	})

	t.Run("date check hook", func(t *testing.T) {
		blocked := errors.New("too far")
		w := newWizard(t, Options{DateCheck: func(string) error { return blocked }})
		assert.ErrorIs(t, w.SelectDate("2099-01-01"), blocked)
		assert.Empty(t, w.Data().Date)
	})

	t.Run("checked time kept only while selection is unchanged", func(t *testing.T) {
		w := newWizard(t, Options{})
		_, _ = w.ToggleService(0, "cut")
		require.NoError(t, w.SelectDate("2026-10-16"))

		req := w.SlotRequest("2026-10-16")
		require.NoError(t, w.SelectCheckedTime(req, "10:00"))
		assert.Equal(t, "10:00", w.Data().Time)

		stale := w.SlotRequest("2026-10-16")
		require.NoError(t, w.SelectDate("2026-10-17"))
		assert.ErrorIs(t, w.SelectCheckedTime(stale, "11:00"), ErrSelectionChanged)
		assert.Empty(t, w.Data().Time)

		stale = w.SlotRequest("2026-10-17")
		require.NoError(t, w.AssignStylist(0, 0, "jane"))
		assert.ErrorIs(t, w.SelectCheckedTime(stale, "11:00"), ErrSelectionChanged)
		assert.Empty(t, w.Data().Time)

		require.NoError(t, w.SelectCheckedTime(w.SlotRequest("2026-10-17"), "11:00"))
		assert.Equal(t, "11:00", w.Data().Time)
	})

	t.Run("slot request scoped to primary stylist", func(t *testing.T) {
		w := newWizard(t, Options{})
		_, _ = w.ToggleService(0, "cut")
		_, _ = w.ToggleService(0, "color")
		require.NoError(t, w.AssignStylist(0, 0, "jane"))

		req := w.SlotRequest("2026-10-16")
		assert.Equal(t, "salon-1", req.SalonID)
		require.NotNil(t, req.StylistID)
		assert.Equal(t, "jane", *req.StylistID)
		assert.Equal(t, 45, req.DurationMinutes)
		assert.Equal(t, 2, req.StylistCount)
	})
}

func TestSummaryAndReport(t *testing.T) {
	w := newWizard(t, Options{})
	_, _ = w.SetNumberOfPeople(2)
	_ = w.SetPersonName(0, "Ann")
	_, _ = w.ToggleService(0, "cut")
	_, _ = w.ToggleService(1, "blowout")

	s := w.Summary()
	assert.Equal(t, []string{"Haircut", "Blowout"}, s.ServiceNames)
	assert.Equal(t, 75, s.TotalDurationMinutes)
	assert.Equal(t, "Person 2", s.People[1].Name)
	assert.Equal(t, models.AnyStylistName, s.People[0].Services[0].Stylist)

	rules := w.Report()
	require.Len(t, rules, 2)
	assert.Equal(t, "people-names", rules[1].ID)
	assert.False(t, rules[1].Valid)
	assert.Equal(t, "Please name all people", rules[1].Message)

	_ = w.SetPersonName(1, "Bo")
	require.NoError(t, w.Advance())
	rules = w.Report()
	require.Len(t, rules, 4)
	for _, r := range rules {
		assert.True(t, r.Valid, r.ID)
	}
}

func TestComplete(t *testing.T) {
	t.Run("resets and closes after delay", func(t *testing.T) {
		var completed, closed atomic.Int32
		w := newWizard(t, Options{
			ResetDelay:        20 * time.Millisecond,
			OnBookingComplete: func() { completed.Add(1) },
			OnClose:           func() { closed.Add(1) },
		})
		fillReady(t, w)
		require.True(t, w.Ready())

		require.NoError(t, w.Complete())
		assert.ErrorIs(t, w.Complete(), ErrCompleted)
		assert.True(t, w.Completed())
		assert.Equal(t, int32(1), completed.Load())

		_, err := w.ToggleService(0, "color")
		assert.ErrorIs(t, err, ErrCompleted)

		assert.Eventually(t, func() bool { return closed.Load() == 1 }, time.Second, 5*time.Millisecond)
		d := w.Data()
		assert.Equal(t, StepPeople, w.Step())
		assert.False(t, w.Completed())
		assert.Empty(t, d.PeopleBookings[0].Services)
		assert.Empty(t, d.Date)
		assert.Empty(t, d.PrimaryContact.Email)
	})

	t.Run("close cancels pending reset", func(t *testing.T) {
		var closed atomic.Int32
		w := newWizard(t, Options{
			ResetDelay: 20 * time.Millisecond,
			OnClose:    func() { closed.Add(1) },
		})
		fillReady(t, w)
		require.NoError(t, w.Complete())
		w.Close()

		time.Sleep(60 * time.Millisecond)
		assert.Equal(t, int32(0), closed.Load())
	})
}
