package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"todoapi/internal/core/model/response"
	"todoapi/internal/core/port"
)

type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func NewValidator() port.Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())

	// report json names so messages match the GraphQL argument names
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]

		if name == "-" || name == "" {
			return field.Name
		}

		return name
	})

	english := en.New()
	uni := ut.New(english, english)

	translator, found := uni.GetTranslator("en")

	if !found {
		panic("translator en not found")
	}

	if err := en_translations.RegisterDefaultTranslations(validate, translator); err != nil {
		panic(err)
	}

	v := &Validator{
		validate:   validate,
		translator: translator,
	}

	v.addCustomTranslations()

	return v
}

func (v *Validator) addCustomTranslations() {
	v.validate.RegisterTranslation("required", v.translator, func(ut ut.Translator) error {
		return ut.Add("required", "{0} must not be empty", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("required", fe.Field())
		return t
	})
}

func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

func (v *Validator) FormatValidationErrors(err error) []response.ValidationError {
	var result []response.ValidationError
	var validationErrors validator.ValidationErrors

	if !errors.As(err, &validationErrors) {
		return []response.ValidationError{{Field: "input", Message: err.Error()}}
	}

	for _, fieldError := range validationErrors {
		result = append(result, response.ValidationError{
			Field:   fieldError.Field(),
			Message: fieldError.Translate(v.translator),
		})
	}

	return result
}
