package handlers

import (
	"net/http"

	"garment-designlab/internal/models"

	"github.com/gin-gonic/gin"
)

func HealthHandler(c *gin.Context) {
	response := models.HealthResponse{
		Status: "ok",
	}
	c.JSON(http.StatusOK, response)
}
