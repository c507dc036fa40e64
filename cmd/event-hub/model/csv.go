package model

// RSVPCSV is one row of an RSVP import or export file.
type RSVPCSV struct {
	EventID            uint   `csv:"event_id"`
	EventName          string `csv:"event_name"`
	Name               string `csv:"name"`
	Email              string `csv:"email"`
	Department         string `csv:"department"`
	DietaryPreferences string `csv:"dietary_preferences"`
	RegistrationDate   string `csv:"registration_date"`
}

func (r RSVPCSV) RSVP() RSVP {
	return RSVP{
		Name:               r.Name,
		Email:              r.Email,
		Department:         r.Department,
		DietaryPreferences: r.DietaryPreferences,
		RegistrationDate:   r.RegistrationDate,
	}
}

func NewRSVPCSV(e Event, r RSVP) RSVPCSV {
	return RSVPCSV{
		EventID:            e.ID,
		EventName:          e.Name,
		Name:               r.Name,
		Email:              r.Email,
		Department:         r.Department,
		DietaryPreferences: r.DietaryPreferences,
		RegistrationDate:   r.RegistrationDate,
	}
}
