package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/c14220110/billing-backend/internal/katalog/models"
	"github.com/c14220110/billing-backend/internal/katalog/services"
)

type KatalogController struct {
	Service *services.KatalogService
}

func NewKatalogController(service *services.KatalogService) *KatalogController {
	return &KatalogController{Service: service}
}

// GET /api/catalog/categories?active=true
func (kc *KatalogController) ListCategories(c echo.Context) error {
	activeOnly := c.QueryParam("active") == "true"
	list, err := kc.Service.ListCategories(c.Request().Context(), activeOnly)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"status":  http.StatusInternalServerError,
			"message": "Failed to retrieve categories: " + err.Error(),
			"data":    nil,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":  http.StatusOK,
		"message": "Categories retrieved successfully",
		"data":    list,
	})
}

// GET /api/catalog/items/:type?q=para&active=true&limit=20&page=1
func (kc *KatalogController) ListItems(c echo.Context) error {
	itemType := models.ItemType(c.Param("type"))
	if !itemType.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"status":  http.StatusBadRequest,
			"message": "type must be one of service, medicine, action",
			"data":    nil,
		})
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	page, _ := strconv.Atoi(c.QueryParam("page"))

	list, total, err := kc.Service.ListItems(c.Request().Context(), itemType, c.QueryParam("q"), c.QueryParam("active") == "true", limit, page)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"status":  http.StatusInternalServerError,
			"message": "Failed to retrieve catalog items: " + err.Error(),
			"data":    nil,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":  http.StatusOK,
		"message": "Catalog items retrieved successfully",
		"data": echo.Map{
			"list":  list,
			"total": total,
		},
	})
}

// GET /api/catalog/items/:type/:id
func (kc *KatalogController) GetItem(c echo.Context) error {
	itemType := models.ItemType(c.Param("type"))
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if !itemType.Valid() || err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"status":  http.StatusBadRequest,
			"message": "Invalid item type or id",
			"data":    nil,
		})
	}

	item, err := kc.Service.GetItem(c.Request().Context(), itemType, id)
	if err != nil {
		if errors.Is(err, services.ErrItemNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{
				"status":  http.StatusNotFound,
				"message": "Item tidak ditemukan",
				"data":    nil,
			})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"status":  http.StatusInternalServerError,
			"message": "Failed to retrieve item: " + err.Error(),
			"data":    nil,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":  http.StatusOK,
		"message": "Item retrieved successfully",
		"data":    item,
	})
}
