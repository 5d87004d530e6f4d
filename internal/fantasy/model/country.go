package model

import "encoding/json"

// MaxNameLength bounds country and team names.
const MaxNameLength = 100

// Country is a nation that owns zero or more teams.
type Country struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Teams []*Team `json:"teams,omitempty"`
}

// TeamsCount is the number of loaded teams; zero when teams were not loaded.
func (c Country) TeamsCount() int {
	return len(c.Teams)
}

// MarshalJSON adds the derived teamsCount field.
func (c Country) MarshalJSON() ([]byte, error) {
	type country Country
	return json.Marshal(struct {
		country
		TeamsCount int `json:"teamsCount"`
	}{country: country(c), TeamsCount: c.TeamsCount()})
}

// CountryCombo is the id/name pair used by selection lists.
type CountryCombo struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
