package dto

type OpenSessionRequest struct {
	PreselectedServiceID string `json:"preselected_service_id" validate:"omitempty,max=64"`
}

// NumberOfPeopleRequest must carry the count; out-of-range values, zero included, are clamped by the wizard.
type NumberOfPeopleRequest struct {
	NumberOfPeople *int `json:"number_of_people" validate:"required"`
}

type PersonNameRequest struct {
	Name string `json:"name" validate:"max=100"`
}

type ActivePersonRequest struct {
	Index int `json:"index" validate:"gte=0"`
}

// StylistRequest assigns a stylist; "any" picks any available and "" clears the choice.
type StylistRequest struct {
	StylistID string `json:"stylist_id" validate:"max=64"`
}

type DateRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

type TimeRequest struct {
	Time string `json:"time" validate:"required,datetime=15:04"`
}

// ContactRequest carries the contact form as typed; format rules run at submission.
type ContactRequest struct {
	Name  string `json:"name" validate:"max=100"`
	Email string `json:"email" validate:"max=255"`
	Phone string `json:"phone" validate:"max=20"`
	Notes string `json:"notes" validate:"max=1000"`
}
