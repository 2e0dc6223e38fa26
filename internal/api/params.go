package api

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/xaenox/trendpulse/internal/apperr"
	"github.com/xaenox/trendpulse/internal/models"
	"github.com/xaenox/trendpulse/internal/service"
)

func pathInt64(c *gin.Context, name string) (int64, error) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, apperr.Validation("%s must be an integer", name)
	}
	return v, nil
}

func queryInt(c *gin.Context, name string, def int) (int, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Validation("%s must be an integer", name)
	}
	return v, nil
}

func queryPage(c *gin.Context) (service.Page, error) {
	skip, err := queryInt(c, "skip", 0)
	if err != nil {
		return service.Page{}, err
	}
	limit, err := queryInt(c, "limit", service.DefaultLimit)
	if err != nil {
		return service.Page{}, err
	}
	return service.Page{Skip: skip, Limit: limit}, nil
}

func queryProjectType(c *gin.Context, name string) (*models.ProjectType, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	pt := models.ProjectType(raw)
	for _, known := range models.ProjectTypes {
		if pt == known {
			return &pt, nil
		}
	}
	return nil, apperr.Validation("unknown %s %q", name, raw)
}
