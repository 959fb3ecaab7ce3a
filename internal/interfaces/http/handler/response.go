package handler

import "github.com/tunerp/backend/internal/interfaces/http/dto"

// Swagger shapes of dto.Response. Handlers never build these directly.

// APIResponse is the success envelope with a typed payload
// @Description Réponse standard: success, data et meta pour les listes paginées
type APIResponse[T any] struct {
	Success bool           `json:"success" example:"true"`
	Data    T              `json:"data,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
	Meta    *dto.Meta      `json:"meta,omitempty"`
}

// ErrorResponse is the failure envelope
// @Description Erreur: code stable, message en français et identifiant de requête
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error"`
}

// MessageData is returned by operations without a resource to show
type MessageData struct {
	Message string `json:"message" example:"Opération effectuée"`
}
