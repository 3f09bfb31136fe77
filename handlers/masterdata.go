package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	catalogRepo "deskhive/database/repository/catalog"
	"deskhive/models"
	"deskhive/utils"
)

var CatalogRepo catalogRepo.CatalogRepository

const (
	masterDataCacheKey = "master_data"
	masterDataCacheTTL = 5 * time.Minute
)

// GetMasterData serves the static catalog (desk types, locations, slot
// templates). The payload is cached in Redis since it changes only through
// provisioning.
func GetMasterData(c *gin.Context) {
	logger := utils.GetLogger()
	cache := utils.GetCacheClient()
	ctx := c.Request.Context()

	if cache != nil {
		if cached, err := cache.Get(ctx, masterDataCacheKey).Result(); err == nil {
			c.Data(http.StatusOK, "application/json", []byte(cached))
			return
		}
	}

	data, err := loadMasterData(ctx)
	if err != nil {
		logger.Error("master data lookup failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": gin.H{"code": "TRANSIENT_STORE_ERROR", "message": "master data lookup failed"},
		})
		return
	}

	payload, err := json.Marshal(data)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{"code": "INTERNAL_ERROR", "message": "failed to encode master data"},
		})
		return
	}

	if cache != nil {
		if err := cache.Set(ctx, masterDataCacheKey, payload, masterDataCacheTTL).Err(); err != nil {
			logger.Warn("failed to cache master data", zap.Error(err))
		}
	}
	c.Data(http.StatusOK, "application/json", payload)
}

func loadMasterData(ctx context.Context) (*models.MasterData, error) {
	deskTypes, err := CatalogRepo.ListDeskTypes(ctx)
	if err != nil {
		return nil, err
	}
	locations, err := CatalogRepo.ListLocations(ctx)
	if err != nil {
		return nil, err
	}
	slots, err := CatalogRepo.ListSlots(ctx)
	if err != nil {
		return nil, err
	}
	return &models.MasterData{
		DeskTypes: deskTypes,
		Locations: locations,
		Slots:     slots,
	}, nil
}
