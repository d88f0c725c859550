package handler

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Reminder offsets beyond a year are almost certainly client bugs.
const maxReminderOffset = 365

// RegisterValidations installs custom binding rules on gin's validator.
// Called once at router construction.
func RegisterValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterValidation("reminderday", func(fl validator.FieldLevel) bool {
		day := fl.Field().Int()
		return day >= 0 && day <= maxReminderOffset
	})
}
