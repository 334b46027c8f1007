package handlers

import (
	"context"
	"math"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/adcart-backend/internal/domain/apperror"
	"github.com/oksasatya/adcart-backend/internal/domain/entity"
	"github.com/oksasatya/adcart-backend/pkg/response"
)

// Ingestor turns a multipart submission into an ad.
type Ingestor interface {
	Ingest(ctx context.Context, mr *multipart.Reader) (*entity.Ad, error)
}

// Catalog serves ad reads, owner edits and feedback.
type Catalog interface {
	GetAd(ctx context.Context, id string) (*entity.Ad, error)
	ListByCategory(ctx context.Context, adType string, maxPrice *float64) ([]*entity.Ad, error)
	Search(ctx context.Context, keyword string) ([]*entity.Ad, error)
	Related(ctx context.Context, tags []string, adType string) ([]*entity.Ad, error)
	ListMine(ctx context.Context, advertiserID string) ([]*entity.Ad, error)
	UpdateAd(ctx context.Context, advertiserID, adID string, patch entity.AdPatch) (*entity.Ad, error)
	DeleteAd(ctx context.Context, advertiserID, adID string) error
	SubmitFeedback(ctx context.Context, userID, adID, comment string, rating int) (*entity.Ad, error)
}

type AdHandler struct {
	Ingest  Ingestor
	Catalog Catalog
	Logger  *logrus.Logger
	// MaxBodyBytes caps the whole upload request; the image limit itself is
	// enforced by the ingestor.
	MaxBodyBytes int64
}

func NewAdHandler(ingest Ingestor, catalog Catalog, logger *logrus.Logger, maxBodyBytes int64) *AdHandler {
	return &AdHandler{Ingest: ingest, Catalog: catalog, Logger: logger, MaxBodyBytes: maxBodyBytes}
}

type relatedRequest struct {
	Tags   []string `json:"tags"`
	AdType string   `json:"adType"`
}

type updateAdRequest struct {
	ProductName *string   `json:"productName"`
	Description *string   `json:"description"`
	Tags        *[]string `json:"tags"`
}

type feedbackRequest struct {
	Comment string `json:"comment" binding:"required"`
	Rating  int    `json:"rating" binding:"rating"`
}

func (h *AdHandler) Upload(c *gin.Context) {
	if h.MaxBodyBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxBodyBytes)
	}
	mr, err := c.Request.MultipartReader()
	if err != nil {
		fail(c, h.Logger, apperror.Validation("multipart/form-data body required"))
		return
	}
	ad, err := h.Ingest.Ingest(c.Request.Context(), mr)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, ad, "ad created", nil)
}

func (h *AdHandler) GetAd(c *gin.Context) {
	ad, err := h.Catalog.GetAd(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, ad, "ok", nil)
}

func (h *AdHandler) ListByCategory(c *gin.Context) {
	var maxPrice *float64
	if raw := strings.TrimSpace(c.Query("maxPrice")); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			fail(c, h.Logger, apperror.Validation("maxPrice must be a number"))
			return
		}
		maxPrice = &v
	}
	ads, err := h.Catalog.ListByCategory(c.Request.Context(), c.Param("type"), maxPrice)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, ads, "ok", nil)
}

func (h *AdHandler) Search(c *gin.Context) {
	ads, err := h.Catalog.Search(c.Request.Context(), c.Query("keyword"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, ads, "ok", nil)
}

func (h *AdHandler) Related(c *gin.Context) {
	var req relatedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	ads, err := h.Catalog.Related(c.Request.Context(), req.Tags, req.AdType)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, ads, "ok", nil)
}

func (h *AdHandler) ListMine(c *gin.Context) {
	ads, err := h.Catalog.ListMine(c.Request.Context(), callerID(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, ads, "ok", nil)
}

func (h *AdHandler) UpdateAd(c *gin.Context) {
	var req updateAdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	patch := entity.AdPatch{ProductName: req.ProductName, Description: req.Description}
	if req.Tags != nil {
		patch.Tags, patch.SetTags = *req.Tags, true
	}
	ad, err := h.Catalog.UpdateAd(c.Request.Context(), callerID(c), c.Param("adId"), patch)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, ad, "ad updated", nil)
}

func (h *AdHandler) DeleteAd(c *gin.Context) {
	if err := h.Catalog.DeleteAd(c.Request.Context(), callerID(c), c.Param("adId")); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "ad deleted", nil)
}

func (h *AdHandler) SubmitFeedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	ad, err := h.Catalog.SubmitFeedback(c.Request.Context(), callerID(c), c.Param("adId"), req.Comment, req.Rating)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, ad, "feedback added", nil)
}
