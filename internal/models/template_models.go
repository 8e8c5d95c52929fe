package models

// ProfileTemplateOptions drives the client-profile CSV template generator.
type ProfileTemplateOptions struct {
	ClientName      string `json:"client_name"`
	CheckoutTime    string `json:"checkout_time"` // HH:MM
	CheckinTime     string `json:"checkin_time"`  // HH:MM
	Amenities       string `json:"amenities" binding:"omitempty,oneof=YES NO"`
	LaundryService  string `json:"laundry_service"`
	KeysAvailable   string `json:"keys_available" binding:"omitempty,oneof=Yes No"`
	CodesAvailable  string `json:"codes_available" binding:"omitempty,oneof=Yes No"`
	NumVillas       int    `json:"num_villas" binding:"omitempty,min=1,max=50"`
	CustomAmenities string `json:"custom_amenities"` // one per line
}
