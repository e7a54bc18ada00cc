package validators

import (
	"github.com/go-playground/validator/v10"

	"timeforge/cmd/internal/domain/entity"
)

// IsDateKey accepts a 6-digit DDMMYY date key.
func IsDateKey(fl validator.FieldLevel) bool {
	_, err := entity.ParseDateKey(fl.Field().String())
	return err == nil
}

// IsTimeLabel accepts a clock label such as "9:30 PM".
func IsTimeLabel(fl validator.FieldLevel) bool {
	_, err := entity.ParseTimeLabel(fl.Field().String())
	return err == nil
}

// IsDuration accepts a positive numeric minute string.
func IsDuration(fl validator.FieldLevel) bool {
	_, err := entity.DurationMinutes(fl.Field().String())
	return err == nil
}
