package core

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"flaresentinel/internal/types"
)

// ValidationError describes one failed field constraint.
type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Validator wraps go-playground/validator with the JSON field names and custom
// tags used by request DTOs.
type Validator struct {
	validate *validator.Validate
	logger   *slog.Logger
}

// NewValidator creates a Validator and registers the custom tags:
//   - data_url: value starts with "data:" and has a comma separating the
//     header from the payload.
func NewValidator(logger *slog.Logger) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report json tag names so error details match the request body.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	if err := v.RegisterValidation("data_url", validateDataURL); err != nil {
		// Registration only fails for empty tags or nil funcs.
		panic(fmt.Sprintf("registering data_url validator: %v", err))
	}

	return &Validator{validate: v, logger: logger}
}

// ValidateStruct validates s against its `validate` tags. On failure it
// returns a *types.AppError whose code comes from the first failing field and
// whose details carry every failure under "validation_errors".
func (v *Validator) ValidateStruct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		v.logger.Error("struct validation failed unexpectedly", "error", err)
		return types.NewAppError(types.ErrCodeInternalUnexpected, "validation failed", err)
	}

	out := make([]ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, ValidationError{
			Field:   fe.Field(),
			Code:    tagToErrorCode(fe.Tag()),
			Message: fieldMessage(fe),
		})
	}

	return types.NewAppErrorWithDetails(
		types.ErrorCode(out[0].Code),
		out[0].Message,
		err,
		map[string]any{"validation_errors": out},
	)
}

func validateDataURL(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true // left to `required`
	}
	return strings.HasPrefix(s, "data:") && strings.Contains(s, ",")
}

func tagToErrorCode(tag string) string {
	switch tag {
	case "required":
		return string(types.ErrCodeValidationMissingField)
	case "data_url":
		return string(types.ErrCodeValidationInvalidDataURL)
	default:
		return string(types.ErrCodeValidationInvalidField)
	}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "data_url":
		return fmt.Sprintf("%s must be a data URL (data:<mediatype>;base64,<data>)", fe.Field())
	default:
		return fmt.Sprintf("%s failed the %q constraint", fe.Field(), fe.Tag())
	}
}
