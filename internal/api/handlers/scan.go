package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/danielgtaylor/huma/v2"

	"github.com/luticapital/arbitrage-helper/internal/observer"
	"github.com/luticapital/arbitrage-helper/pkg/extract"
)

// maxPageBytes bounds pushed page snapshots, JSON envelope included.
const maxPageBytes = 8 << 20

// PageObserver runs one observation of the marketplace page.
type PageObserver interface {
	Poll(ctx context.Context) (observer.Result, error)
	Handle(ctx context.Context, doc *goquery.Document) (observer.Result, error)
}

// ScanHandler handles on-demand page observation.
type ScanHandler struct {
	observer PageObserver
}

// NewScanHandler creates a new ScanHandler.
func NewScanHandler(o PageObserver) *ScanHandler {
	return &ScanHandler{observer: o}
}

// ScanOutput reports what one observation did.
type ScanOutput struct {
	Body observer.Result
}

// PushPageInput carries a page snapshot taken by a client.
type PushPageInput struct {
	Body struct {
		HTML string `json:"html" doc:"Serialized document of the marketplace page" minLength:"1"`
	}
}

// Scan fetches the observed page now instead of waiting for the next poll.
func (h *ScanHandler) Scan(ctx context.Context, _ *struct{}) (*ScanOutput, error) {
	res, err := h.observer.Poll(ctx)
	if err != nil {
		return nil, observeError(err)
	}
	return &ScanOutput{Body: res}, nil
}

// PushPage handles a snapshot pushed by a client that renders the page
// itself, such as a browser overlay.
func (h *ScanHandler) PushPage(ctx context.Context, input *PushPageInput) (*ScanOutput, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(input.Body.HTML))
	if err != nil {
		return nil, huma.Error400BadRequest("parsing page: " + err.Error())
	}

	res, err := h.observer.Handle(ctx, doc)
	if err != nil {
		return nil, observeError(err)
	}
	res.Changed = true
	return &ScanOutput{Body: res}, nil
}

func observeError(err error) error {
	if extract.IsTransient(err) {
		return huma.Error422UnprocessableEntity("item not readable yet: " + err.Error())
	}
	return huma.Error502BadGateway("observing page failed: " + err.Error())
}

// RegisterScanRoutes registers the page observation endpoints with the Huma API.
func RegisterScanRoutes(api huma.API, h *ScanHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "scan-page",
		Method:      http.MethodPost,
		Path:        "/api/v1/scan",
		Summary:     "Scan the observed page",
		Description: "Fetches the configured page and handles it immediately. Unchanged pages are skipped.",
		Tags:        []string{"page"},
		Errors:      []int{http.StatusUnprocessableEntity, http.StatusBadGateway},
	}, h.Scan)

	huma.Register(api, huma.Operation{
		OperationID:  "push-page",
		Method:       http.MethodPost,
		Path:         "/api/v1/page",
		Summary:      "Push a page snapshot",
		Description:  "Handles a page snapshot supplied by the caller as if the observed page had changed to it.",
		Tags:         []string{"page"},
		Errors:       []int{http.StatusBadRequest, http.StatusUnprocessableEntity},
		MaxBodyBytes: maxPageBytes,
	}, h.PushPage)
}
