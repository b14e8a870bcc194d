package imei

import (
	pkgerrors "github.com/atelierhq/atelier-backend/pkg/errors"
)

// ValidateIMEI checks the 15-digit format and the trailing Luhn check
// digit defined by the GSMA for IMEI allocation.
func ValidateIMEI(imei string) error {
	if len(imei) != 15 {
		return pkgerrors.New(pkgerrors.CodeValidation, "imei must be 15 digits")
	}
	sum := 0
	for i, r := range imei {
		if r < '0' || r > '9' {
			return pkgerrors.New(pkgerrors.CodeValidation, "imei must contain only digits")
		}
		digit := int(r - '0')
		// Double every second digit counting from the left (positions
		// 2, 4, ... in the 15-digit string).
		if i%2 == 1 {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
	}
	if sum%10 != 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "imei check digit mismatch")
	}
	return nil
}
