package server

import "steward/internal/db"

// TransitionsResponse represents a page of lifecycle transitions
type TransitionsResponse struct {
	Transitions []*db.Transition `json:"transitions"`
	Total       int              `json:"total" example:"4"`
}
