package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nadiaputeri/campuscore/internal/services"
	appErrors "github.com/nadiaputeri/campuscore/pkg/errors"
	"github.com/nadiaputeri/campuscore/pkg/response"
	appValidator "github.com/nadiaputeri/campuscore/pkg/validator"
)

// bindAndValidate binds the JSON payload into dest and runs struct validation rules.
// When validation fails, an error response is automatically written and false is returned.
func bindAndValidate[T any](c *gin.Context, dest *T) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.NewBadRequest("invalid JSON payload"))
		return false
	}

	if err := appValidator.ValidateStruct(dest); err != nil {
		response.Error(c, appErrors.NewBadRequest(formatValidationError(err)))
		return false
	}

	return true
}

func formatValidationError(err error) string {
	if err == nil {
		return "invalid request payload"
	}

	if ve, ok := err.(appValidator.ValidationErrors); ok {
		if len(ve) == 0 {
			return "invalid request payload"
		}

		messages := make([]string, 0, len(ve))
		for _, failure := range ve {
			field := prettifyFieldName(failure.Field)
			switch failure.Tag {
			case "required":
				messages = append(messages, fmt.Sprintf("%s is required", field))
			case "email":
				messages = append(messages, fmt.Sprintf("%s must be a valid email address", field))
			case "min":
				messages = append(messages, fmt.Sprintf("%s must be at least %s characters", field, failure.Param))
			case "max":
				messages = append(messages, fmt.Sprintf("%s must be at most %s characters", field, failure.Param))
			case "gte":
				messages = append(messages, fmt.Sprintf("%s must be at least %s", field, failure.Param))
			case "lte":
				messages = append(messages, fmt.Sprintf("%s must be at most %s", field, failure.Param))
			case "uuid4":
				messages = append(messages, fmt.Sprintf("%s must be a valid UUID", field))
			default:
				if failure.Param != "" {
					messages = append(messages, fmt.Sprintf("%s failed validation: %s=%s", field, failure.Tag, failure.Param))
				} else {
					messages = append(messages, fmt.Sprintf("%s failed validation: %s", field, failure.Tag))
				}
			}
		}
		return strings.Join(messages, "; ")
	}

	return "invalid request payload"
}

func prettifyFieldName(name string) string {
	if name == "" {
		return "field"
	}
	name = strings.ReplaceAll(name, "_", " ")
	return strings.ToLower(name)
}

// mapServiceError translates service sentinel errors into the HTTP error
// taxonomy. Structured AppErrors pass through unchanged.
func mapServiceError(err error) *appErrors.AppError {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, services.ErrSchoolNotFound),
		errors.Is(err, services.ErrSubjectNotFound),
		errors.Is(err, services.ErrTeacherNotFound),
		errors.Is(err, services.ErrSectionNotFound),
		errors.Is(err, services.ErrAcademicYearNotFound),
		errors.Is(err, services.ErrDocumentNotFound):
		return appErrors.ErrNotFound.WithInternal(err)
	case errors.Is(err, services.ErrSchoolSlugTaken),
		errors.Is(err, services.ErrSubjectCodeTaken),
		errors.Is(err, services.ErrTeacherEmailTaken),
		errors.Is(err, services.ErrSectionNameTaken),
		errors.Is(err, services.ErrYearLabelTaken),
		errors.Is(err, services.ErrDocumentKeyTaken):
		return appErrors.ErrConflict.WithInternal(err)
	case errors.Is(err, services.ErrUnknownCategory):
		return appErrors.NewBadRequest("unknown document category")
	}

	var appErr *appErrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return appErrors.ErrInternalServer.WithInternal(err)
}
