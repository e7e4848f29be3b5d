package domain_test

import (
	"testing"

	"go-profile-builder/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestParseAddressQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  domain.ParsedAddress
	}{
		{
			name:  "Full address with suburb context",
			query: "4 Milburn Place, St Ives Chase NSW 2075",
			want: domain.ParsedAddress{
				StreetNumber: "4",
				StreetName:   "MILBURN",
				StreetType:   "PLACE",
				Location:     "St Ives Chase NSW 2075",
			},
		},
		{
			name:  "Abbreviated street type",
			query: "100 George St",
			want: domain.ParsedAddress{
				StreetNumber: "100",
				StreetName:   "GEORGE",
				StreetType:   "STREET",
			},
		},
		{
			name:  "Multi word street name",
			query: "12 Mona Vale Rd",
			want: domain.ParsedAddress{
				StreetNumber: "12",
				StreetName:   "MONA VALE",
				StreetType:   "ROAD",
			},
		},
		{
			name:  "Unit style street number",
			query: "4a Smith Street",
			want: domain.ParsedAddress{
				StreetNumber: "4a",
				StreetName:   "SMITH",
				StreetType:   "STREET",
			},
		},
		{
			name:  "Range style street number",
			query: "4-6 Railway Pde",
			want: domain.ParsedAddress{
				StreetNumber: "4-6",
				StreetName:   "RAILWAY",
				StreetType:   "PARADE",
			},
		},
		{
			name:  "Unknown trailing token stays in the name",
			query: "5 Eagle Rise",
			want: domain.ParsedAddress{
				StreetNumber: "5",
				StreetName:   "EAGLE RISE",
			},
		},
		{
			name:  "Single recognized token is a name, not a type",
			query: "Street",
			want: domain.ParsedAddress{
				StreetName: "STREET",
			},
		},
		{
			name:  "No street number",
			query: "Collins Street, Melbourne",
			want: domain.ParsedAddress{
				StreetName: "COLLINS",
				StreetType: "STREET",
				Location:   "Melbourne",
			},
		},
		{
			name:  "Empty query",
			query: "",
			want:  domain.ParsedAddress{},
		},
		{
			name:  "Comma only",
			query: ", Sydney",
			want: domain.ParsedAddress{
				Location: "Sydney",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.ParseAddressQuery(tt.query)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocationContextEmpty(t *testing.T) {
	assert.True(t, domain.LocationContext{}.Empty())

	lc := domain.LocationContext{Suburbs: map[string]bool{"Sydney": true}}
	assert.False(t, lc.Empty())
}
