package link

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/zirius/linkcloak/models"
	"github.com/zirius/linkcloak/modules/cache"
	"github.com/zirius/linkcloak/modules/queue"
	"github.com/zirius/linkcloak/pg"
)

const (
	XForwardedHeader = "X-Forwarded-For"

	// Dashboard detail view is capped to keep the read cheap.
	visitHistoryLimit = 50

	// Links never change, so a cached copy is safe for the whole TTL.
	linkCacheTTL = time.Hour
)

// Store is everything the link handlers need from persistence.
type Store interface {
	GetLink(shortCode string) (*models.Link, error)
	GetLinkByID(id int64) (*models.Link, error)
	CreateLink(link *models.Link) error
	GetLinks() ([]models.LinkWithCount, error)
	GetVisits(linkID int64, limit uint64) ([]models.Visit, error)
}

// Handler serves the interstitial, the /verify resolution endpoint and the
// admin link API. The fallback URL is where unknown codes are sent; a
// visitor never sees an error page from this path.
type Handler struct {
	store       Store
	qc          queue.Dispatcher
	linkCache   *cache.Cache
	fallbackURL string
	baseURL     string
}

func NewHandler(store Store, qc queue.Dispatcher, linkCache *cache.Cache, fallbackURL, baseURL string) *Handler {
	return &Handler{
		store:       store,
		qc:          qc,
		linkCache:   linkCache,
		fallbackURL: fallbackURL,
		baseURL:     baseURL,
	}
}

// Interstitial serves the cloaking page for GET /:code. The page collects
// browser signals and posts them to /verify, which performs the real
// resolution. A couple of reserved paths share the wildcard.
func (h *Handler) Interstitial(c *gin.Context) {
	switch code := c.Param("code"); code {
	case "admin":
		c.HTML(http.StatusOK, "admin.tmpl.html", gin.H{})
	case "favicon.ico", "robots.txt":
		c.Status(http.StatusNoContent)
	default:
		c.HTML(http.StatusOK, "interstitial.tmpl.html", gin.H{
			"code": code,
			"host": c.Request.Host,
		})
	}
}

// Verify resolves a short code and answers with a redirect URL. The
// response is written first; enrichment is dispatched after and never
// awaited, so the visitor pays no latency for it. Unknown or unreadable
// requests degrade to the fallback destination, never to an error status.
func (h *Handler) Verify(c *gin.Context) {
	var signals models.ClientSignals
	if err := c.ShouldBindJSON(&signals); err != nil {
		log.WithError(err).Warn("unreadable verify payload")
		c.JSON(http.StatusOK, gin.H{"redirectUrl": h.fallbackURL})
		return
	}

	urlObj := h.lookup(c, signals.ShortCode)
	if urlObj == nil {
		// No link means no visit either: there is nothing to attach it to.
		c.JSON(http.StatusOK, gin.H{"redirectUrl": h.fallbackURL})
		return
	}

	c.JSON(http.StatusOK, gin.H{"redirectUrl": urlObj.OriginalURL})

	ip := c.ClientIP()
	if c.GetHeader(XForwardedHeader) != "" {
		ip = c.GetHeader(XForwardedHeader)
	}

	if err := queue.DispatchEnrichVisitJob(h.qc, queue.EnrichVisitRequest{
		LinkID:  urlObj.ID,
		IP:      ip,
		Signals: signals,
	}); err != nil {
		log.WithFields(log.Fields{
			"short_code": signals.ShortCode,
			"ip":         ip,
		}).WithError(err).Error("error sending enrich job")
	}
}

func (h *Handler) lookup(c *gin.Context, shortCode string) *models.Link {
	if shortCode == "" {
		return nil
	}

	if h.linkCache != nil {
		if cached, err := h.linkCache.GetLink(c.Request.Context(), shortCode); err == nil {
			return cached
		}
	}

	urlObj, err := h.store.GetLink(shortCode)
	if err != nil {
		if err != sql.ErrNoRows {
			log.WithField("short_code", shortCode).WithError(err).Error("error resolving link")
		}
		return nil
	}

	if h.linkCache != nil {
		if err := h.linkCache.SetLink(c.Request.Context(), urlObj, linkCacheTTL); err != nil {
			log.WithField("short_code", shortCode).WithError(err).Warn("error caching link")
		}
	}
	return urlObj
}

type createLinkRequest struct {
	ShortCode   string `json:"shortCode"`
	OriginalURL string `json:"originalUrl"`
}

// APICreateLink handles POST /api/links. Duplicate codes come back as 409
// and leave the existing link untouched.
func (h *Handler) APICreateLink(c *gin.Context) {
	var req createLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	req.ShortCode = strings.TrimSpace(req.ShortCode)
	req.OriginalURL = strings.TrimSpace(req.OriginalURL)
	if req.ShortCode == "" || req.OriginalURL == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Missing shortCode or originalUrl"})
		return
	}

	if !strings.HasPrefix(req.OriginalURL, "http://") && !strings.HasPrefix(req.OriginalURL, "https://") {
		req.OriginalURL = "https://" + req.OriginalURL
	}
	if !govalidator.IsURL(req.OriginalURL) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "originalUrl is not a valid URL"})
		return
	}

	urlObj := &models.Link{
		ShortCode:   req.ShortCode,
		OriginalURL: req.OriginalURL,
		Created:     time.Now(),
	}
	if err := h.store.CreateLink(urlObj); err != nil {
		if err == pg.ErrConflict {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Code already exists"})
			return
		}
		log.WithField("short_code", req.ShortCode).WithError(err).Error("error creating link")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to create link"})
		return
	}

	log.WithFields(log.Fields{
		"short_code": urlObj.ShortCode,
		"original":   urlObj.OriginalURL,
	}).Info("Short link created")

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"link":    urlObj,
	})
}

// APIGetLinks handles GET /api/links: every link, newest first, each with
// its derived click count.
func (h *Handler) APIGetLinks(c *gin.Context) {
	links, err := h.store.GetLinks()
	if err != nil {
		log.WithError(err).Error("error listing links")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if links == nil {
		links = []models.LinkWithCount{}
	}
	c.JSON(http.StatusOK, links)
}

// APIGetLinkStats handles GET /api/links/:linkId/stats: the most recent
// visits for the link, newest first.
func (h *Handler) APIGetLinkStats(c *gin.Context) {
	linkID, err := strconv.ParseInt(c.Param("linkId"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid link id"})
		return
	}

	visits, err := h.store.GetVisits(linkID, visitHistoryLimit)
	if err != nil {
		log.WithField("link_id", linkID).WithError(err).Error("error listing visits")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if visits == nil {
		visits = []models.Visit{}
	}
	c.JSON(http.StatusOK, visits)
}

// APIGetLinkQR handles GET /api/links/:linkId/qr with a PNG of the short
// URL.
func (h *Handler) APIGetLinkQR(c *gin.Context) {
	linkID, err := strconv.ParseInt(c.Param("linkId"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid link id"})
		return
	}

	urlObj, err := h.store.GetLinkByID(linkID)
	if err != nil {
		if err == sql.ErrNoRows {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Link not found"})
			return
		}
		log.WithField("link_id", linkID).WithError(err).Error("error loading link")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	png, err := qrcode.Encode(h.baseURL+"/"+urlObj.ShortCode, qrcode.Medium, 256)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
