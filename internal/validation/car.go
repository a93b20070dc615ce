package validation

import (
	"rentacar.com/internal/domain"
	"rentacar.com/internal/model"
)

// ValidateCar checks a car listing's field constraints.
func ValidateCar(car *model.Car) []domain.FieldError {
	var errs []domain.FieldError

	if fe := Required("Brand", car.Brand); fe != nil {
		errs = append(errs, *fe)
	}
	if fe := Required("Model", car.Model); fe != nil {
		errs = append(errs, *fe)
	}
	if !Year(car.Year) {
		errs = append(errs, domain.FieldError{Field: "Year", Message: "Time cannot be set past the present."})
	}
	if car.Seats < 0 {
		errs = append(errs, domain.FieldError{Field: "Seats", Message: "Seats cannot be a negative number."})
	}
	if car.PricePerDay < 0 {
		errs = append(errs, domain.FieldError{Field: "PricePerDay", Message: "Price per day cannot be negative."})
	}

	return errs
}
