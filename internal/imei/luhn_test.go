package imei

import (
	"testing"

	pkgerrors "github.com/atelierhq/atelier-backend/pkg/errors"
)

func TestValidateIMEI(t *testing.T) {
	tests := []struct {
		name  string
		imei  string
		valid bool
	}{
		{"known good imei", "490154203237518", true},
		{"check digit off by one", "490154203237519", false},
		{"too short", "49015420323751", false},
		{"too long", "4901542032375181", false},
		{"non digit", "49015420323751a", false},
		{"all zeros passes luhn", "000000000000000", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateIMEI(tc.imei)
			if tc.valid && err != nil {
				t.Fatalf("expected valid, got %v", err)
			}
			if !tc.valid && !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}
