package validators

import (
	"github.com/go-playground/validator/v10"
)

// Validate is the shared validator instance used by the per-area validator
// packages.
var Validate = validator.New()

// Messages converts validator errors into the field->message map expected by
// middleware.ValidationErrorResponse.
func Messages(err error) map[string]string {
	errs := make(map[string]string)
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errs["body"] = "Invalid request body!"
		return errs
	}
	for _, fe := range verrs {
		errs[fe.Field()] = messageFor(fe)
	}
	return errs
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required!"
	case "email":
		return "Invalid email address!"
	case "min":
		return fe.Field() + " must be at least " + fe.Param() + " characters long!"
	case "max":
		return fe.Field() + " must be at most " + fe.Param() + " characters long!"
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	case "gt":
		return fe.Field() + " must be greater than " + fe.Param() + "!"
	case "gte":
		return fe.Field() + " must be at least " + fe.Param() + "!"
	case "lte":
		return fe.Field() + " must be at most " + fe.Param() + "!"
	}
	return fe.Field() + " is invalid!"
}
