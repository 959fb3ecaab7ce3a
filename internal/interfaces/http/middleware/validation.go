package middleware

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/tunerp/backend/internal/domain/shared/valueobject"
	"github.com/tunerp/backend/internal/interfaces/http/dto"
)

var setupValidatorOnce sync.Once

// SetupValidator reports JSON field names in errors and registers the
// tnphone tag (a number valid for the Tunisian numbering plan).
func SetupValidator() {
	setupValidatorOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			return name
		})
		_ = v.RegisterValidation("tnphone", func(fl validator.FieldLevel) bool {
			return valueobject.IsValidPhone(fl.Field().String(), valueobject.DefaultRegion)
		})
	})
}

// FormatValidationErrors formats binding errors into the error envelope
func FormatValidationErrors(err error, requestID string) dto.Response {
	var details []dto.ValidationDetail

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			details = append(details, dto.ValidationDetail{
				Field:   e.Field(),
				Message: getValidationMessage(e),
			})
		}
		return dto.Invalid("Données invalides", requestID, details)
	}

	return dto.Invalid("Corps de requête invalide", requestID, nil)
}

// HandleValidationError writes a 400 validation response
func HandleValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, FormatValidationErrors(err, c.GetString(RequestIDKey)))
}

func getValidationMessage(e validator.FieldError) string {
	isString := e.Kind() == reflect.String
	switch e.Tag() {
	case "required":
		return "Ce champ est obligatoire"
	case "email":
		return "Adresse e-mail invalide"
	case "tnphone":
		return "Numéro de téléphone tunisien invalide"
	case "min":
		if isString {
			return "Doit contenir au moins " + e.Param() + " caractères"
		}
		return "Doit être au moins " + e.Param()
	case "max":
		if isString {
			return "Doit contenir au plus " + e.Param() + " caractères"
		}
		return "Doit être au plus " + e.Param()
	case "oneof":
		return "Doit être l'une des valeurs : " + e.Param()
	case "url":
		return "URL invalide"
	case "hexcolor":
		return "Couleur hexadécimale invalide"
	case "uuid":
		return "Identifiant invalide"
	default:
		return "Valeur invalide"
	}
}
