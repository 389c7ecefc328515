package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"shortlink/backend/internal/model"
	"shortlink/backend/internal/service"
)

type LinkHandler struct {
	service service.LinkService
}

type createLinkRequest struct {
	OriginalURL    string  `json:"originalUrl"`
	CustomCode     *string `json:"customCode"`
	ExpirationDays *int    `json:"expirationDays"`
}

type linkResponse struct {
	ID          string  `json:"id"`
	ShortCode   string  `json:"shortCode"`
	CustomCode  *string `json:"customCode,omitempty"`
	ShortURL    string  `json:"shortUrl"`
	OriginalURL string  `json:"originalUrl"`
	ExpiresAt   *string `json:"expiresAt,omitempty"`
	CreatedAt   string  `json:"createdAt"`
}

type clickResponse struct {
	ID        string  `json:"id"`
	Timestamp string  `json:"timestamp"`
	Referer   string  `json:"referer,omitempty"`
	UserAgent string  `json:"userAgent,omitempty"`
	Country   *string `json:"country,omitempty"`
	City      *string `json:"city,omitempty"`
	Region    *string `json:"region,omitempty"`
	GeoSource *string `json:"geoSource,omitempty"`
}

type linkClicksResponse struct {
	Link           linkResponse    `json:"link"`
	Total          int             `json:"total"`
	UniqueVisitors int             `json:"uniqueVisitors"`
	Clicks         []clickResponse `json:"clicks"`
}

func NewLinkHandler(service service.LinkService) *LinkHandler {
	return &LinkHandler{service: service}
}

func (h *LinkHandler) RegisterRoutes(g *echo.Group, guards RouteGuards) {
	g.POST("/links", h.Create, guards.Create...)
	g.GET("/links", h.List, guards.Owned...)
	g.GET("/links/:code/clicks", h.Clicks, guards.Owned...)
}

// Create godoc
// @Summary Shorten a URL
// @Tags links
// @Accept json
// @Produce json
// @Param body body createLinkRequest true "link"
// @Success 201 {object} linkResponse
// @Failure 400 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Failure 429 {object} errorResponse
// @Router /api/links [post]
func (h *LinkHandler) Create(c echo.Context) error {
	var req createLinkRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
	}
	link, err := h.service.Create(c.Request().Context(), service.CreateLinkInput{
		OriginalURL:    req.OriginalURL,
		CustomCode:     req.CustomCode,
		ExpirationDays: req.ExpirationDays,
		OwnerID:        OwnerID(c),
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, h.toLinkResponse(link))
}

// List returns the caller's links, newest first.
func (h *LinkHandler) List(c echo.Context) error {
	limit, err := parseLimitParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid limit"})
	}
	links, err := h.service.ListByOwner(c.Request().Context(), OwnerID(c), limit)
	if err != nil {
		return writeServiceError(c, err)
	}
	response := make([]linkResponse, 0, len(links))
	for _, link := range links {
		response = append(response, h.toLinkResponse(link))
	}
	return c.JSON(http.StatusOK, response)
}

func (h *LinkHandler) Clicks(c echo.Context) error {
	limit, err := parseLimitParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid limit"})
	}
	analytics, err := h.service.Analytics(c.Request().Context(), OwnerID(c), c.Param("code"), limit)
	if err != nil {
		return writeServiceError(c, err)
	}

	clicks := make([]clickResponse, 0, len(analytics.Recent))
	for _, click := range analytics.Recent {
		clicks = append(clicks, toClickResponse(click))
	}
	return c.JSON(http.StatusOK, linkClicksResponse{
		Link:           h.toLinkResponse(analytics.Link),
		Total:          analytics.Stats.Total,
		UniqueVisitors: analytics.Stats.UniqueVisitors,
		Clicks:         clicks,
	})
}

func (h *LinkHandler) toLinkResponse(link model.ShortLink) linkResponse {
	return linkResponse{
		ID:          formatID(link.ID),
		ShortCode:   link.ShortCode,
		CustomCode:  link.CustomCode,
		ShortURL:    h.service.ShortURL(link),
		OriginalURL: link.OriginalURL,
		ExpiresAt:   formatTimePtr(link.ExpiresAt),
		CreatedAt:   link.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toClickResponse(click model.ClickEvent) clickResponse {
	return clickResponse{
		ID:        formatID(click.ID),
		Timestamp: click.Timestamp.UTC().Format(time.RFC3339),
		Referer:   click.Referer,
		UserAgent: click.UserAgent,
		Country:   click.Country,
		City:      click.City,
		Region:    click.Region,
		GeoSource: click.GeoSource,
	}
}
