package partner

import (
	"regexp"
	"strings"

	"github.com/tunerp/backend/internal/domain/shared"
	"github.com/tunerp/backend/internal/domain/shared/valueobject"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ErrPhoneTaken is returned when another partner of the same kind already uses the phone number
var ErrPhoneTaken = shared.NewDomainError(shared.CodeAlreadyExists, "Ce numéro de téléphone est déjà utilisé")

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if len(name) > 200 {
		return "", shared.NewDomainError("INVALID_NAME", "Name cannot exceed 200 characters")
	}
	return name, nil
}

func normalizePhone(phone string) (string, error) {
	e164, err := valueobject.NormalizePhone(phone, valueobject.DefaultRegion)
	if err != nil {
		return "", shared.NewDomainError("INVALID_PHONE", "Invalid phone number: "+phone)
	}
	return e164, nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", nil
	}
	if !emailRegex.MatchString(email) {
		return "", shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return email, nil
}
