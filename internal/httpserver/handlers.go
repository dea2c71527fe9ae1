package httpserver

import (
	"bytes"
	"net/http"
	"strconv"

	"buywidget/internal/widget"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// widgetHandler turns form posts into registry events and answers with a
// redirect back to the page, or to the checkout when one was requested.
type widgetHandler struct {
	reg    *widget.Registry
	page   *Page
	logger *zap.Logger
}

func (h *widgetHandler) index(c *gin.Context) {
	frags, err := h.reg.Render()
	if err != nil {
		h.logger.Error("render widgets", zap.Error(err))
		c.String(http.StatusInternalServerError, "render failed")
		return
	}
	var buf bytes.Buffer
	if err := h.page.render(&buf, frags); err != nil {
		h.logger.Error("render page", zap.Error(err))
		c.String(http.StatusInternalServerError, "render failed")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (h *widgetHandler) cart(c *gin.Context) {
	c.JSON(http.StatusOK, h.reg.Cart(c.Request.Context()))
}

func (h *widgetHandler) addToCart(c *gin.Context) {
	variant := -1
	if raw := c.PostForm("variant"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid variant"})
			return
		}
		variant = v
	}
	if !h.reg.AddToCart(c.Request.Context(), c.Param("container"), variant) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown container"})
		return
	}
	h.back(c)
}

func (h *widgetHandler) updateItem(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid index"})
		return
	}
	ctx := c.Request.Context()
	switch action := c.Param("action"); action {
	case widget.ActionIncrease, widget.ActionDecrease:
		h.reg.UpdateQuantity(ctx, index, action)
	case "remove":
		h.reg.RemoveItem(ctx, index)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown action"})
		return
	}
	h.back(c)
}

func (h *widgetHandler) openDrawer(c *gin.Context) {
	h.reg.OpenDrawer()
	h.back(c)
}

func (h *widgetHandler) closeDrawer(c *gin.Context) {
	h.reg.CloseDrawer()
	h.back(c)
}

func (h *widgetHandler) clickBadge(c *gin.Context) {
	h.reg.ClickBadge()
	h.back(c)
}

func (h *widgetHandler) checkout(c *gin.Context) {
	h.reg.Checkout(c.Request.Context())
	if target := h.page.TakeNavigation(); target != "" {
		c.Redirect(http.StatusSeeOther, target)
		return
	}
	h.back(c)
}

func (h *widgetHandler) addUpsell(c *gin.Context) {
	// Undecodable tokens are dropped by the registry; the shopper just
	// lands back on the page.
	h.reg.AddUpsellToCart(c.Request.Context(), c.PostForm("origin"), c.PostForm("map"))
	h.back(c)
}

func (h *widgetHandler) back(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/")
}
