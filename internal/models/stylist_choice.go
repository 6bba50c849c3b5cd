package models

import "encoding/json"

const (
	AnyStylistID   = "any"
	AnyStylistName = "Any Available Stylist"
)

// StylistChoice is either a specific stylist or "any available". The zero value
// means nothing has been assigned yet.
type StylistChoice struct {
	any     bool
	stylist *Stylist
}

func AnyAvailable() StylistChoice { return StylistChoice{any: true} }

func Specific(s Stylist) StylistChoice { return StylistChoice{stylist: &s} }

func (c StylistChoice) Assigned() bool { return c.any || c.stylist != nil }

func (c StylistChoice) IsAny() bool { return c.any }

// Stylist returns the chosen stylist, or false for "any available" and unassigned choices.
func (c StylistChoice) Stylist() (Stylist, bool) {
	if c.stylist == nil {
		return Stylist{}, false
	}
	return *c.stylist, true
}

// StylistID is the persisted stylist id; nil for "any available" or unassigned.
func (c StylistChoice) StylistID() *string {
	if c.stylist == nil {
		return nil
	}
	id := c.stylist.ID
	return &id
}

func (c StylistChoice) DisplayName() string {
	switch {
	case c.stylist != nil:
		return c.stylist.Name
	case c.any:
		return AnyStylistName
	default:
		return ""
	}
}

type stylistChoiceJSON struct {
	Kind string `json:"kind"`
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

func (c StylistChoice) MarshalJSON() ([]byte, error) {
	switch {
	case c.stylist != nil:
		return json.Marshal(stylistChoiceJSON{Kind: "specific", ID: c.stylist.ID, Name: c.stylist.Name})
	case c.any:
		return json.Marshal(stylistChoiceJSON{Kind: "any", ID: AnyStylistID, Name: AnyStylistName})
	default:
		return []byte("null"), nil
	}
}
