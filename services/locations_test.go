package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateLocation(t *testing.T) {
	s, _ := newTestService(t, Options{})
	ctx := context.Background()

	location, err := s.CreateLocation(ctx, LocationInput{AreaName: " Salt Lake ", City: "Kolkata", State: "West Bengal", Pincode: "700091"})
	require.NoError(t, err)
	assert.Equal(t, "Salt Lake", location.AreaName)
	assert.True(t, location.DeliveryCharge.Equal(decimal.NewFromInt(50)), "default delivery charge")

	free := decimal.Zero
	location, err = s.CreateLocation(ctx, LocationInput{AreaName: "Park Street", City: "Kolkata", State: "West Bengal", Pincode: "700016", DeliveryCharge: &free})
	require.NoError(t, err)
	assert.True(t, location.DeliveryCharge.IsZero())

	locations, err := s.ListLocations(ctx)
	require.NoError(t, err)
	require.Len(t, locations, 2)
	assert.Equal(t, "Park Street", locations[0].AreaName)
}

func TestCreateLocationValidation(t *testing.T) {
	s, _ := newTestService(t, Options{})

	negative := decimal.NewFromInt(-1)
	fine := decimal.RequireFromString("10.005")
	tests := []struct {
		name string
		in   LocationInput
	}{
		{"missing city", LocationInput{AreaName: "A", State: "S", Pincode: "1234"}},
		{"letters in pincode", LocationInput{AreaName: "A", City: "C", State: "S", Pincode: "12AB"}},
		{"negative charge", LocationInput{AreaName: "A", City: "C", State: "S", Pincode: "1234", DeliveryCharge: &negative}},
		{"three decimals", LocationInput{AreaName: "A", City: "C", State: "S", Pincode: "1234", DeliveryCharge: &fine}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateLocation(context.Background(), tt.in)
			requireKind(t, err, KindValidation, "VALIDATION_ERROR")
		})
	}
}

func TestUpdateAndDeleteLocation(t *testing.T) {
	s, _ := newTestService(t, Options{})
	data := seedTestData(t, s)
	ctx := context.Background()

	charge := decimal.RequireFromString("75.50")
	updated, err := s.UpdateLocation(ctx, data.location.ID, LocationInput{
		AreaName: "Andheri East", City: "Mumbai", State: "Maharashtra", Pincode: "400069", DeliveryCharge: &charge,
	})
	require.NoError(t, err)
	assert.Equal(t, "Andheri East", updated.AreaName)
	assert.True(t, updated.DeliveryCharge.Equal(charge))

	_, err = s.UpdateLocation(ctx, 999, LocationInput{AreaName: "A", City: "C", State: "S", Pincode: "1234"})
	requireKind(t, err, KindNotFound, "LOCATION_NOT_FOUND")

	err = s.DeleteLocation(ctx, data.location.ID)
	requireKind(t, err, KindPrecondition, "LOCATION_IN_USE")

	empty, err := s.CreateLocation(ctx, LocationInput{AreaName: "Bandra", City: "Mumbai", State: "Maharashtra", Pincode: "400050"})
	require.NoError(t, err)
	require.NoError(t, s.DeleteLocation(ctx, empty.ID))
	_, err = s.GetLocation(ctx, empty.ID)
	requireKind(t, err, KindNotFound, "LOCATION_NOT_FOUND")
}
