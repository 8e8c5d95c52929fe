package services

import (
	"fmt"
	"strings"
	"time"

	"csv_manager_backend/internal/models"
	"csv_manager_backend/internal/repositories"
)

const (
	templateWidth        = 7
	templateSpacerRows   = 5
	defaultTemplateName  = "Kroon Beheer Client Profile"
	defaultCheckoutTime  = "12:00"
	defaultCheckinTime   = "16:00"
	defaultLaundry       = "Bayside Garage"
	defaultNumVillas     = 25
	defaultAmenitiesList = "Toilet paper per bathroom\nCoffee\nTea\nSugar\nHand soap"
)

// cleanTypes lists the cleaning types with their status codes and notes.
var cleanTypes = [][3]string{
	{"Check-In", "CI", "Complete cleaning for next guests."},
	{"Stay-over", "SO", "Maintenance cleaning during guest stay."},
	{"Check-out/in", "CO/CI", "Same day checkout and checkin."},
	{"Fresh-up", "FU", "Light cleaning before next checkin."},
	{"Deep Cleaning", "DC", "Thorough cleaning of property."},
	{"Construction Cleaning", "COC", "Post-renovation cleaning."},
}

// TemplateService builds downloadable client-profile CSV templates.
type TemplateService interface {
	GenerateProfileTemplate(opts models.ProfileTemplateOptions) ([][]string, error)
	EncodeProfileTemplate(opts models.ProfileTemplateOptions) ([]byte, error)
}

type templateService struct {
	recordRepo repositories.RecordRepository
}

// NewTemplateService creates a new instance of TemplateService.
func NewTemplateService(repo repositories.RecordRepository) TemplateService {
	return &templateService{recordRepo: repo}
}

func applyTemplateDefaults(opts models.ProfileTemplateOptions) models.ProfileTemplateOptions {
	if strings.TrimSpace(opts.ClientName) == "" {
		opts.ClientName = defaultTemplateName
	}
	if opts.CheckoutTime == "" {
		opts.CheckoutTime = defaultCheckoutTime
	}
	if opts.CheckinTime == "" {
		opts.CheckinTime = defaultCheckinTime
	}
	if opts.Amenities == "" {
		opts.Amenities = "YES"
	}
	if opts.LaundryService == "" {
		opts.LaundryService = defaultLaundry
	}
	if opts.KeysAvailable == "" {
		opts.KeysAvailable = "Yes"
	}
	if opts.CodesAvailable == "" {
		opts.CodesAvailable = "Yes"
	}
	if opts.NumVillas == 0 {
		opts.NumVillas = defaultNumVillas
	}
	if opts.CustomAmenities == "" {
		opts.CustomAmenities = defaultAmenitiesList
	}
	return opts
}

func parseClockTime(field, value string) (string, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		if t, err = time.Parse("15:04:05", value); err != nil {
			return "", fmt.Errorf("%w: %s must be HH:MM", ErrTemplateValidation, field)
		}
	}
	return t.Format("15:04:05"), nil
}

func templateRow(cells ...string) []string {
	row := make([]string, templateWidth)
	copy(row, cells)
	return row
}

// GenerateProfileTemplate lays out the client profile sheet: general client
// info with the cleaning-type legend, the villa list, and the amenities list.
func (s *templateService) GenerateProfileTemplate(opts models.ProfileTemplateOptions) ([][]string, error) {
	opts = applyTemplateDefaults(opts)
	if opts.NumVillas < 1 || opts.NumVillas > 50 {
		return nil, fmt.Errorf("%w: number of villas must be between 1 and 50", ErrTemplateValidation)
	}
	checkout, err := parseClockTime("checkout_time", opts.CheckoutTime)
	if err != nil {
		return nil, err
	}
	checkin, err := parseClockTime("checkin_time", opts.CheckinTime)
	if err != nil {
		return nil, err
	}

	general := [][2]string{
		{"Check-out time:", checkout},
		{"Check-in time:", checkin},
		{"Amenities Yes/No:", opts.Amenities},
		{"Laundry Services Yes/No:", opts.LaundryService},
		{"Keys Yes/No:", opts.KeysAvailable},
		{"Codes Yes/No:", opts.CodesAvailable},
	}

	rows := [][]string{
		templateRow(opts.ClientName),
		templateRow(),
		templateRow("General Client Info:"),
		templateRow("", "", "", "", "Type of cleans:", "Status Code:", "Comments:"),
	}
	for i, g := range general {
		ct := cleanTypes[i]
		rows = append(rows, templateRow(g[0], g[1], "", "", ct[0], ct[1], ct[2]))
	}
	rows = append(rows,
		templateRow(),
		templateRow("Villas/Apartments:"),
		templateRow("Villas/Apartments Name:", "Address", "Hours +/-", "SO +/-", "Keys & Codes:", "Comments:"),
	)
	for i := 1; i <= opts.NumVillas; i++ {
		rows = append(rows, templateRow(fmt.Sprintf("Villa_%02d", i)))
	}
	for i := 0; i < templateSpacerRows; i++ {
		rows = append(rows, templateRow())
	}
	rows = append(rows,
		templateRow("List of Amenities:"),
		templateRow("Item", "Quantity", "Comments:"),
	)
	for _, line := range strings.Split(opts.CustomAmenities, "\n") {
		if item := strings.TrimSpace(line); item != "" {
			rows = append(rows, templateRow(item))
		}
	}
	return rows, nil
}

// EncodeProfileTemplate renders the template with the record serializer; the
// first template row plays the header.
func (s *templateService) EncodeProfileTemplate(opts models.ProfileTemplateOptions) ([]byte, error) {
	rows, err := s.GenerateProfileTemplate(opts)
	if err != nil {
		return nil, err
	}
	table := &models.RecordTable{Columns: rows[0], Rows: rows[1:]}
	return s.recordRepo.Encode(table)
}
