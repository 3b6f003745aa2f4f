package api

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	app_errors "legalaid/internal/errors"
	"legalaid/internal/i18n"

	"github.com/go-playground/validator/v10"
)

var (
	// validate holds the single instance of the validator.
	validate *validator.Validate
	// once ensures that the validator is initialized only one time.
	once sync.Once
)

// getInstance uses sync.Once to safely initialize and return the validator singleton.
func getInstance() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		// "language" accepts any code that resolves to a supported language.
		if err := validate.RegisterValidation("language", func(fl validator.FieldLevel) bool {
			_, err := i18n.Parse(fl.Field().String())
			return err == nil
		}); err != nil {
			panic(fmt.Sprintf("api: could not register language validation: %v", err))
		}
	})
	return validate
}

// validateRequest checks a payload against its `validate` tags and returns a
// wrapped app_errors.ErrValidation describing every failed field.
func validateRequest(payload interface{}) error {
	v := getInstance()
	err := v.Struct(payload)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("%w: an unexpected error occurred during validation: %s", app_errors.ErrValidation, err.Error())
	}

	var errorMessages []string
	for _, fieldErr := range validationErrors {
		// Example output: "Field 'Message' failed on the 'required' tag".
		errMsg := fmt.Sprintf("Field '%s' failed on the '%s' tag", fieldErr.Field(), fieldErr.Tag())
		errorMessages = append(errorMessages, errMsg)
	}

	return fmt.Errorf("%w: %s", app_errors.ErrValidation, strings.Join(errorMessages, "; "))
}
