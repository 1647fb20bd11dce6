package middleware

import (
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/najma-se/Hospital-Appointment-sys/internal/model"
)

// RegisterValidators installs the slot-field validators on gin's binding
// engine. Call once at startup.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	if err := v.RegisterValidation("dateonly", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(model.DateLayout, fl.Field().String())
		return err == nil
	}); err != nil {
		return err
	}

	return v.RegisterValidation("clocktime", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(model.TimeLayout, fl.Field().String())
		return err == nil
	})
}
