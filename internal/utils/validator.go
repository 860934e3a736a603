package utils

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/kiganyamburu/quiz-application/internal/errors"
	"github.com/kiganyamburu/quiz-application/internal/models"
)

// Validator wraps go-playground struct validation with the custom rules used
// across the service.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator with all custom rules registered
func NewValidator() *Validator {
	validate := validator.New()

	validate.RegisterValidation("question_type", validateQuestionType)

	// Report json field names instead of Go struct fields in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: validate}
}

// Validate checks struct tags and converts failures into ValidationErrors
func (v *Validator) Validate(s interface{}) error {
	if err := v.validate.Struct(s); err != nil {
		if converted := apperrors.ToValidationErrors(err); len(converted) > 0 {
			return converted
		}
		return err
	}
	return nil
}

func validateQuestionType(fl validator.FieldLevel) bool {
	validTypes := []models.QuestionType{
		models.MultipleChoice,
		models.FillBlank,
	}

	value := fl.Field().String()
	for _, validType := range validTypes {
		if string(validType) == value {
			return true
		}
	}
	return false
}
