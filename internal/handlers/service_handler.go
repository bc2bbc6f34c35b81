package handlers

import (
	"net/http"

	"github.com/care-xyz/api/internal/models"
	"github.com/care-xyz/api/internal/services"
	"github.com/gin-gonic/gin"
)

func ListServices(cs *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := cs.ListServices(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(list, ""))
	}
}

func GetServiceByID(cs *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		service, err := cs.GetServiceByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(service, ""))
	}
}

func CreateService(cs *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input services.CreateServiceInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid request payload"))
			return
		}

		created, err := cs.CreateService(c.Request.Context(), input)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, models.SuccessResponse(created, "Service created"))
	}
}

func UpdateService(cs *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var fields map[string]interface{}
		if err := c.ShouldBindJSON(&fields); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid request payload"))
			return
		}

		if err := cs.UpdateService(c.Request.Context(), c.Param("id"), fields); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Service updated"))
	}
}

func DeleteService(cs *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := cs.DeleteService(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Service deleted"))
	}
}
