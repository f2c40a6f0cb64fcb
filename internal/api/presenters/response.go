package presenters

import (
	"errors"
	"strings"

	"foodgram-backend/domain"
	"foodgram-backend/internal/logging"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type Response struct {
	Status  bool              `json:"status"`
	Message string            `json:"message"`
	Data    any               `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func SuccessResponse(c *fiber.Ctx, data any, statusCode int, message string) error {
	return c.Status(statusCode).JSON(Response{
		Status:  true,
		Message: message,
		Data:    data,
	})
}

// StatusFor maps an error to its HTTP status, falling back to statusCode for
// errors that carry no kind.
func StatusFor(err error, statusCode int) int {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs), errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrConflict):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrUserNotAllowed):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrTokenInvalid), errors.Is(err, domain.ErrTokenExpired), errors.Is(err, domain.ErrTokenNotFound):
		return fiber.StatusUnauthorized
	default:
		return statusCode
	}
}

func fieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[jsonField(fe.Namespace())] = describe(fe)
		}
		return fields
	}

	var derr *domain.Error
	if errors.As(err, &derr) && derr.Field != "" {
		return map[string]string{derr.Field: derr.Message}
	}
	return nil
}

// jsonField drops the struct name from a namespace such as
// "RecipeRequest.ingredients[0].amount". Field segments already carry json
// names through the validator's tag name func.
func jsonField(namespace string) string {
	if _, field, ok := strings.Cut(namespace, "."); ok {
		return field
	}
	return namespace
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "enter a valid email address"
	case "uuid":
		return "must be a valid id"
	case "max":
		return "ensure this field has no more than " + fe.Param() + " characters"
	case "min":
		return "ensure this field has at least " + fe.Param() + " characters"
	case "hexcolor":
		return "enter a valid hex color"
	case "slug":
		return "enter a valid slug of letters, numbers, underscores or hyphens"
	case "username":
		return "enter a valid username"
	default:
		return "invalid value"
	}
}

func ErrorResponse(c *fiber.Ctx, statusCode int, message string, err error) error {
	status := StatusFor(err, statusCode)
	if status >= fiber.StatusInternalServerError {
		logging.Error(c.UserContext(), message, "error", err, "path", c.Path())
	}

	res := Response{
		Status:  false,
		Message: message,
		Errors:  fieldErrors(err),
	}
	if err != nil {
		res.Error = err.Error()
	}
	return c.Status(status).JSON(res)
}
