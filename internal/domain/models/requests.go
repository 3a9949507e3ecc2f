package models

// Requests for dashboard HTTP endpoints.

type SignalsRequest struct {
	Names string `query:"names" json:"names" validate:"required,max=2048,printascii"`
	// View selects raw fetch results or assembled display rows.
	View string `query:"view" json:"view" default:"results" validate:"oneof=results records"`
}

type SignalRequest struct {
	Name string `param:"name" json:"name" validate:"required"`
}
