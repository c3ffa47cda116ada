package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"parkly/config"
	"parkly/models"
	"parkly/services/catalog"
	"parkly/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CatalogHandler exposes the administrative surface: facilities,
// spaces and tariff records.
type CatalogHandler struct {
	Service catalog.Service
	Logger  *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(service catalog.Service, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{Service: service, Logger: logger}
}

func respondCatalogError(c *gin.Context, err error) {
	var (
		validationErr *catalog.ValidationError
		notFoundErr   *catalog.NotFoundError
	)
	switch {
	case errors.As(err, &validationErr):
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", validationErr.Message)
	case errors.As(err, &notFoundErr):
		utils.JSONError(c, http.StatusNotFound, "Not found", notFoundErr.Error())
	default:
		utils.JSONError(c, http.StatusInternalServerError, "Internal server error", err.Error())
	}
}

// CreateFacility handles POST /api/facilities.
func (h *CatalogHandler) CreateFacility(c *gin.Context) {
	var facility models.Facility
	if err := c.ShouldBindJSON(&facility); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
		return
	}
	if err := h.Service.CreateFacility(&facility); err != nil {
		respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusCreated, facility)
}

// GetFacility handles GET /api/facilities/:id.
func (h *CatalogHandler) GetFacility(c *gin.Context) {
	facility, err := h.Service.GetFacility(c.Param("id"))
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, facility)
}

// ListFacilities handles GET /api/facilities.
func (h *CatalogHandler) ListFacilities(c *gin.Context) {
	facilities, err := h.Service.ListFacilities()
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(facilities), "facilities": facilities})
}

// NearbyFacilities handles GET /api/facilities/nearby.
func (h *CatalogHandler) NearbyFacilities(c *gin.Context) {
	lon, errLon := strconv.ParseFloat(c.Query("lon"), 64)
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	if errLon != nil || errLat != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", "lon and lat are required numbers")
		return
	}

	radiusKm := config.AppConfig.SearchRadiusKm
	if raw := c.Query("radiusKm"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 {
			utils.JSONError(c, http.StatusBadRequest, "Invalid input", "radiusKm must be a positive number")
			return
		}
		radiusKm = parsed
	}

	candidates, err := h.Service.NearbyFacilities(models.NewGeoPoint(lon, lat), radiusKm, c.Query("spaceType"), config.AppConfig.CandidateLimit)
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(candidates), "facilities": candidates})
}

// ImportFacilities handles POST /api/facilities/import. The body is
// the raw semicolon-separated dump, one facility per line.
func (h *CatalogHandler) ImportFacilities(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil || len(body) == 0 {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", "request body must contain the facility dump")
		return
	}

	count, err := h.Service.ImportFacilities(string(body))
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	h.Logger.Info("Facility import completed", zap.Int("imported", count))
	c.JSON(http.StatusCreated, gin.H{"imported": count})
}

// CreateSpace handles POST /api/facilities/:id/spaces.
func (h *CatalogHandler) CreateSpace(c *gin.Context) {
	var space models.Space
	if err := c.ShouldBindJSON(&space); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
		return
	}
	space.FacilityID = c.Param("id")
	if err := h.Service.CreateSpace(&space); err != nil {
		respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusCreated, space)
}

// ListSpaces handles GET /api/facilities/:id/spaces.
func (h *CatalogHandler) ListSpaces(c *gin.Context) {
	spaces, err := h.Service.ListSpaces(c.Param("id"))
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(spaces), "spaces": spaces})
}

// CreateTariff handles POST /api/facilities/:id/tariffs.
func (h *CatalogHandler) CreateTariff(c *gin.Context) {
	var record models.TariffRecord
	if err := c.ShouldBindJSON(&record); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
		return
	}
	record.FacilityID = c.Param("id")
	if err := h.Service.CreateTariff(&record); err != nil {
		respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

// ListTariffs handles GET /api/facilities/:id/tariffs.
func (h *CatalogHandler) ListTariffs(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	records, err := h.Service.ListTariffs(c.Param("id"), c.Query("spaceType"), activeOnly)
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(records), "tariffs": records})
}

// ResolveTariff handles GET /api/facilities/:id/tariffs/resolve. It
// answers which record would price a booking at the given instant.
func (h *CatalogHandler) ResolveTariff(c *gin.Context) {
	spaceType := c.Query("spaceType")
	if spaceType == "" {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", "spaceType is required")
		return
	}

	asOf := time.Now().UTC()
	if raw := c.Query("at"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid input", "at must be RFC3339")
			return
		}
		asOf = parsed
	}

	record, err := h.Service.ResolveTariff(c.Param("id"), spaceType, asOf)
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}
