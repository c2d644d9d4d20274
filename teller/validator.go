package teller

import (
	"regexp"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var nameRe = regexp.MustCompile(`^[A-Za-z]+( [A-Za-z]+)*$`)

// personName accepts names made of letters and single spaces only.
func personName(fl validator.FieldLevel) bool {
	return nameRe.MatchString(fl.Field().String())
}

var registerOnce sync.Once

// RegisterValidations hooks the custom rules into gin's binding engine.
// Call once before serving.
func RegisterValidations() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("personname", personName)
		}
	})
}
