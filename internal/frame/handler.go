package frame

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/strataviz/frameserve/internal/colormap"
	"github.com/strataviz/frameserve/internal/dto"
	"github.com/strataviz/frameserve/internal/shared"
)

const (
	minLimit = 1
	maxLimit = 10000
)

type Handler struct {
	store  *Store
	codec  *Codec
	logger *slog.Logger
}

func NewHandler(store *Store, codec *Codec, logger *slog.Logger) *Handler {
	return &Handler{
		store:  store,
		codec:  codec,
		logger: logger,
	}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.List)
}

type queryParams struct {
	depthMin float64
	depthMax float64
	colormap colormap.Map
	limit    int
}

func (h *Handler) parseQuery(c echo.Context) (queryParams, error) {
	var p queryParams

	depthMinRaw := c.QueryParam("depth_min")
	depthMaxRaw := c.QueryParam("depth_max")
	if depthMinRaw == "" || depthMaxRaw == "" {
		return p, shared.BadRequest("missing_depth", "depth_min and depth_max are required")
	}

	var err error
	p.depthMin, err = strconv.ParseFloat(depthMinRaw, 64)
	if err != nil {
		return p, shared.BadRequest("invalid_depth", "depth_min must be numeric")
	}
	p.depthMax, err = strconv.ParseFloat(depthMaxRaw, 64)
	if err != nil {
		return p, shared.BadRequest("invalid_depth", "depth_max must be numeric")
	}
	if p.depthMin < 0 || p.depthMax < 0 {
		return p, shared.BadRequest("invalid_depth", "depth values must be non-negative")
	}
	if p.depthMin > p.depthMax {
		return p, shared.BadRequest("invalid_range", "depth_min must be less than or equal to depth_max")
	}

	// Resolve the colormap up front so an unknown name never costs a
	// store round trip or a decompression.
	name := c.QueryParam("colormap")
	if name == "" {
		name = colormap.Default
	}
	p.colormap, err = colormap.Lookup(name)
	if err != nil {
		return p, shared.NewAPIError("unknown_colormap", "colormap must be one of the supported names").
			WithDetails(map[string]any{"requested": name, "supported": colormap.Names()}).
			ToHTTP(http.StatusBadRequest)
	}

	if limitRaw := c.QueryParam("limit"); limitRaw != "" {
		limit, err := strconv.Atoi(limitRaw)
		if err != nil || limit < minLimit || limit > maxLimit {
			return p, shared.BadRequest("invalid_limit", "limit must be an integer between 1 and 10000")
		}
		p.limit = limit
	}

	return p, nil
}

// List godoc
// @Summary      Query colorized frames by depth range
// @Description  Returns colorized, base64-encoded image frames for depths in [depth_min, depth_max], ordered ascending by depth
// @Tags         frames
// @Produce      json
// @Param        depth_min  query     number  true   "Minimum depth value"
// @Param        depth_max  query     number  true   "Maximum depth value"
// @Param        colormap   query     string  false  "Colormap name"  default(viridis)
// @Param        limit      query     integer false  "Maximum number of frames (1-10000)"
// @Success      200  {array}   dto.FrameResponse
// @Failure      400  {object}  shared.APIError
// @Failure      500  {object}  shared.APIError
// @Router       /frames [get]
func (h *Handler) List(c echo.Context) error {
	params, err := h.parseQuery(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()

	// One record is decoded as it arrives from the store; a corrupt
	// record fails the whole request rather than silently thinning an
	// ordered result set.
	results := make([]dto.FrameResponse, 0)
	err = h.store.QueryByDepthRange(ctx, params.depthMin, params.depthMax, params.limit, func(rec *Record) error {
		served, err := h.codec.Serve(rec, params.colormap)
		if err != nil {
			return err
		}
		results = append(results, *served)
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrCorruptData):
			h.logger.Error("corrupt frame record", "error", err,
				"depth_min", params.depthMin, "depth_max", params.depthMax)
			return shared.InternalError("corrupt_frame", "a stored frame failed to decompress")
		case errors.Is(err, shared.ErrInvalidInput):
			return shared.BadRequest("invalid_range", err.Error())
		default:
			h.logger.Error("failed to query frames", "error", err,
				"depth_min", params.depthMin, "depth_max", params.depthMax)
			return shared.InternalError("query_failed", "failed to query frames")
		}
	}

	return c.JSON(http.StatusOK, results)
}
