package api

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"SignalBoard/internal/domain/models"
	"SignalBoard/internal/service/ratelimit"
	"SignalBoard/internal/usecase"
	xhttp "SignalBoard/pkg/http"
	applogger "SignalBoard/pkg/logger"

	"github.com/labstack/echo/v4"
)

// pruneAbove is the bucket count past which idle limiter keys are swept.
const pruneAbove = 4096

// LatestSnapshot serves the snapshot from the most recent scheduled pass.
type LatestSnapshot interface {
	Latest() *models.Snapshot
}

// DashboardHandler exposes snapshots and signal results over HTTP.
type DashboardHandler struct {
	dash   *usecase.DashboardService
	latest LatestSnapshot
	rl     *ratelimit.Limiter
	log    *applogger.Logger
}

// NewDashboardHandler builds the handler. latest and rl may be nil: without
// latest every snapshot request runs a pass, without rl nothing is limited.
func NewDashboardHandler(dash *usecase.DashboardService, latest LatestSnapshot, rl *ratelimit.Limiter, l *applogger.Logger) *DashboardHandler {
	return &DashboardHandler{dash: dash, latest: latest, rl: rl, log: l}
}

func (h *DashboardHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api", h.rateLimit)
	g.GET("/snapshot", h.Snapshot)
	g.GET("/signals", h.Signals)
	g.GET("/signals/:name", h.Signal)
	g.GET("/catalog", h.Catalog)
}

func (h *DashboardHandler) Snapshot(c echo.Context) error {
	if h.latest != nil {
		if snap := h.latest.Latest(); snap != nil {
			return xhttp.SuccessResponse(c, snap)
		}
	}

	snap, err := h.dash.GetDashboardSnapshot(c.Request().Context())
	if err != nil {
		return h.errorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, snap)
}

func (h *DashboardHandler) Signals(c echo.Context) error {
	req := &models.SignalsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	names := splitNames(req.Names)
	if len(names) == 0 {
		return xhttp.BadRequestResponse(c, []xhttp.ValidationError{{
			Code:    "ERR_REQUIRED",
			Field:   "names",
			Message: "names is required",
		}})
	}

	ctx := c.Request().Context()
	if req.View == "records" {
		rows, err := h.dash.GetRecords(ctx, names)
		if err != nil {
			return h.errorResponse(c, err)
		}
		return xhttp.ListResponse(c, rows, int64(len(rows)))
	}

	res, err := h.dash.GetSignals(ctx, names)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *DashboardHandler) Signal(c echo.Context) error {
	req := &models.SignalRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.dash.GetSignals(c.Request().Context(), []string{req.Name})
	if err != nil {
		var cfgErr *models.ConfigurationError
		if errors.As(err, &cfgErr) {
			return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("signal %q not found", req.Name))
		}
		return h.errorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res[req.Name])
}

func (h *DashboardHandler) Catalog(c echo.Context) error {
	signals := h.dash.Catalog()
	return xhttp.ListResponse(c, signals, int64(len(signals)))
}

func (h *DashboardHandler) errorResponse(c echo.Context, err error) error {
	var cfgErr *models.ConfigurationError
	if errors.As(err, &cfgErr) && cfgErr.Signal != "" {
		return xhttp.AppErrorResponse(c, xhttp.UnknownSignalError(cfgErr.Signal).WithError(err))
	}
	h.log.Error("dashboard request failed",
		applogger.String("path", c.Path()),
		applogger.Error(err),
	)
	return xhttp.InternalServerErrorResponse(c)
}

func (h *DashboardHandler) rateLimit(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if h.rl == nil {
			return next(c)
		}
		if h.rl.Len() > pruneAbove {
			h.rl.Prune()
		}

		ok, retryAfter := h.rl.Allow(c.RealIP())
		if !ok {
			secs := math.Ceil(retryAfter.Seconds())
			c.Response().Header().Set("Retry-After", strconv.Itoa(int(secs)))
			h.log.Warn("rate limited",
				applogger.String("remote", c.RealIP()),
				applogger.String("path", c.Path()),
			)
			return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError(secs))
		}
		return next(c)
	}
}

// splitNames turns "a, b,,a" into [a b], keeping first-seen order.
func splitNames(raw string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
