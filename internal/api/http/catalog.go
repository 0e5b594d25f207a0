package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/chatform/internal/domain/catalog"
	"github.com/GriffinCanCode/chatform/internal/shared/types"
	"github.com/GriffinCanCode/chatform/internal/shared/utils"
)

// ListOptions returns every option
func (h *Handlers) ListOptions(c *gin.Context) {
	options, err := h.catalog.ListOptions(c.Request.Context())
	if err != nil {
		h.catalogError(c, err, "Failed to fetch options")
		return
	}
	h.respondCached(c, options)
}

// ListItems returns items filtered by category and name search
func (h *Handlers) ListItems(c *gin.Context) {
	q := types.Query{Builtin: c.Query("category"), Search: c.Query("search")}

	items, err := h.catalog.ListItems(c.Request.Context(), q)
	if err != nil {
		h.catalogError(c, err, "Failed to fetch items")
		return
	}
	h.respondCached(c, items)
}

// ListLocations returns locations filtered by type and name search
func (h *Handlers) ListLocations(c *gin.Context) {
	q := types.Query{Builtin: c.Query("type"), Search: c.Query("search")}

	locations, err := h.catalog.ListLocations(c.Request.Context(), q)
	if err != nil {
		h.catalogError(c, err, "Failed to fetch locations")
		return
	}
	h.respondCached(c, locations)
}

// ItemFilters returns the distinct item categories
func (h *Handlers) ItemFilters(c *gin.Context) {
	values, err := h.catalog.ItemFilters(c.Request.Context())
	if err != nil {
		h.catalogError(c, err, "Failed to fetch filters")
		return
	}
	h.respondCached(c, values)
}

// LocationFilters returns the distinct location types
func (h *Handlers) LocationFilters(c *gin.Context) {
	values, err := h.catalog.LocationFilters(c.Request.Context())
	if err != nil {
		h.catalogError(c, err, "Failed to fetch filters")
		return
	}
	h.respondCached(c, values)
}

func (h *Handlers) catalogError(c *gin.Context, err error, message string) {
	if errors.Is(err, catalog.ErrInvalidQuery) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": message})
}

// respondCached answers 304 when the client already holds this listing
func (h *Handlers) respondCached(c *gin.Context, v any) {
	tag, err := h.hasher.ETag(v)
	if err != nil {
		h.logger.Warn("failed to compute etag", zap.Error(err))
		c.JSON(http.StatusOK, v)
		return
	}

	c.Header("ETag", tag)
	if utils.MatchesETag(c.GetHeader("If-None-Match"), tag) {
		c.Status(http.StatusNotModified)
		return
	}
	c.JSON(http.StatusOK, v)
}
