package model

import "encoding/json"

// NoImagePlaceholder is served as imageFull for teams without a stored image.
const NoImagePlaceholder = "/images/NoImage.png"

// Team belongs to exactly one country; names are unique within a country.
type Team struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Image         string   `json:"image,omitempty"`
	CountryID     int64    `json:"countryId"`
	Country       *Country `json:"country,omitempty"`
	IsImageSquare bool     `json:"isImageSquare"`
}

// ImageFull returns the stored image locator or the placeholder.
func (t Team) ImageFull() string {
	if t.Image == "" {
		return NoImagePlaceholder
	}
	return t.Image
}

// MarshalJSON adds the derived imageFull field.
func (t Team) MarshalJSON() ([]byte, error) {
	type team Team
	return json.Marshal(struct {
		team
		ImageFull string `json:"imageFull"`
	}{team: team(t), ImageFull: t.ImageFull()})
}

// TeamDTO is the write payload of the full team endpoints.
// Image carries a base64 encoded picture; empty keeps the stored one on update.
type TeamDTO struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Image         string `json:"image,omitempty"`
	CountryID     int64  `json:"countryId"`
	IsImageSquare bool   `json:"isImageSquare"`
}

// TeamCombo is the id/name pair used by selection lists.
type TeamCombo struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
