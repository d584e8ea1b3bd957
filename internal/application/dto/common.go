package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// PageRequest paginación 1-based para listados (page, limit).
type PageRequest struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

// DefaultPage aplica valores por defecto si Page/Limit son cero o negativos.
func (p *PageRequest) DefaultPage(defaultLimit int) {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
}

// Offset desplazamiento equivalente a la página pedida.
func (p PageRequest) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Pagination metadatos de página en respuestas.
type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
}

// NewPagination calcula el número de páginas (ceil(total/limit)).
func NewPagination(total, page, limit int) Pagination {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return Pagination{Total: total, Page: page, Limit: limit, Pages: pages}
}

// PageResponse página de resultados con sus metadatos.
type PageResponse[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// SuccessResponse envoltorio de respuestas correctas.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse cuerpo de error HTTP. Kind es la etiqueta estable que interpreta la UI
// (not_found, validation, insufficient_stock, invalid_adjustment, auth, permission, conflict, error).
type ErrorResponse struct {
	Kind    string         `json:"kind"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Date fecha de transacción; acepta "2006-01-02" o RFC 3339 en JSON.
type Date struct {
	time.Time
}

// UnmarshalJSON admite fecha simple o fecha-hora.
func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("fecha inválida: %w", err)
	}
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("fecha inválida: %q", s)
}

// MarshalJSON serializa en RFC 3339.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Time.Format(time.RFC3339))
}

// Actor identifica a quien ejecuta una operación (se toma del JWT y de la petición).
type Actor struct {
	UserID    string
	Username  string
	Role      string
	IPAddress string
}
