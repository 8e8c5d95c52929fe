package services

import (
	"strings"
	"testing"

	"csv_manager_backend/internal/models"
	"csv_manager_backend/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateProfileTemplate_Defaults(t *testing.T) {
	svc := NewTemplateService(repositories.NewRecordRepository())

	rows, err := svc.GenerateProfileTemplate(models.ProfileTemplateOptions{})
	require.NoError(t, err)

	// name, blank, heading, legend, 6 general, blank, heading, header,
	// 25 villas, 5 spacers, heading, header, 5 amenities
	assert.Len(t, rows, 4+6+3+25+5+2+5)
	for _, row := range rows {
		assert.Len(t, row, 7)
	}
	assert.Equal(t, "Kroon Beheer Client Profile", rows[0][0])
	assert.Equal(t, []string{"Check-out time:", "12:00:00", "", "", "Check-In", "CI", "Complete cleaning for next guests."}, rows[4])
	assert.Equal(t, "16:00:00", rows[5][1])
	assert.Equal(t, "Bayside Garage", rows[7][1])
	assert.Equal(t, "Villa_01", rows[13][0])
	assert.Equal(t, "Villa_25", rows[37][0])
	assert.Equal(t, "List of Amenities:", rows[43][0])
	assert.Equal(t, "Toilet paper per bathroom", rows[45][0])
}

func TestGenerateProfileTemplate_Options(t *testing.T) {
	svc := NewTemplateService(repositories.NewRecordRepository())

	rows, err := svc.GenerateProfileTemplate(models.ProfileTemplateOptions{
		ClientName:      "Sunset Villas",
		CheckoutTime:    "10:30",
		NumVillas:       2,
		CustomAmenities: "Towels\n\n  Soap  \n",
	})
	require.NoError(t, err)
	assert.Equal(t, "Sunset Villas", rows[0][0])
	assert.Equal(t, "10:30:00", rows[4][1])
	assert.Len(t, rows, 4+6+3+2+5+2+2)
	assert.Equal(t, "Soap", rows[len(rows)-1][0])
}

func TestGenerateProfileTemplate_Invalid(t *testing.T) {
	svc := NewTemplateService(repositories.NewRecordRepository())

	_, err := svc.GenerateProfileTemplate(models.ProfileTemplateOptions{NumVillas: 51})
	assert.ErrorIs(t, err, ErrTemplateValidation)

	_, err = svc.GenerateProfileTemplate(models.ProfileTemplateOptions{CheckinTime: "late"})
	assert.ErrorIs(t, err, ErrTemplateValidation)
}

func TestEncodeProfileTemplate(t *testing.T) {
	svc := NewTemplateService(repositories.NewRecordRepository())

	data, err := svc.EncodeProfileTemplate(models.ProfileTemplateOptions{NumVillas: 1})
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	assert.Equal(t, "Kroon Beheer Client Profile,,,,,,", lines[0])
	assert.Equal(t, ",,,,,,", lines[1])
	assert.Contains(t, string(data), "Check-out time:,12:00:00,,,Check-In,CI,Complete cleaning for next guests.\n")
}
