package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domain "github.com/luticapital/arbitrage-helper/pkg/types"
)

// GridProvider exposes the marks of the current grid scan.
type GridProvider interface {
	Marks() []domain.GridMark
}

// GridHandler handles the grid marks endpoint.
type GridHandler struct {
	grid GridProvider
}

// NewGridHandler creates a new GridHandler.
func NewGridHandler(g GridProvider) *GridHandler {
	return &GridHandler{grid: g}
}

// ListGridInput filters grid marks.
type ListGridInput struct {
	Verdict string `query:"verdict" doc:"Filter by verdict" enum:"good,bad,skip,"`
}

// ListGridOutput is the response for the grid marks endpoint.
type ListGridOutput struct {
	Body struct {
		Marks []domain.GridMark          `json:"marks"`
		Total int                        `json:"total"`
		Tally map[domain.GridVerdict]int `json:"tally"`
	}
}

// ListGrid returns the marks placed on the current grid, in page order.
func (h *GridHandler) ListGrid(_ context.Context, input *ListGridInput) (*ListGridOutput, error) {
	marks := h.grid.Marks()

	resp := &ListGridOutput{}
	resp.Body.Marks = make([]domain.GridMark, 0, len(marks))
	resp.Body.Tally = make(map[domain.GridVerdict]int)
	for i := range marks {
		m := &marks[i]
		resp.Body.Tally[m.Verdict]++
		if input.Verdict != "" && string(m.Verdict) != input.Verdict {
			continue
		}
		resp.Body.Marks = append(resp.Body.Marks, *m)
	}
	resp.Body.Total = len(resp.Body.Marks)
	return resp, nil
}

// RegisterGridRoutes registers the grid endpoint with the Huma API.
func RegisterGridRoutes(api huma.API, h *GridHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-grid",
		Method:      http.MethodGet,
		Path:        "/api/v1/grid",
		Summary:     "List grid marks",
		Description: "Returns the verdict placed on each scanned grid item since the grid appeared.",
		Tags:        []string{"grid"},
	}, h.ListGrid)
}
