package router

import (
	"context"
	"errors"
	"log"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/superbill/pos-api/pkg/cart"
	"github.com/superbill/pos-api/pkg/catalog"
	"github.com/superbill/pos-api/pkg/global"
	"github.com/superbill/pos-api/pkg/models"
	"github.com/superbill/pos-api/pkg/pricing"
	"github.com/superbill/pos-api/pkg/redis"
	"github.com/superbill/pos-api/pkg/superbill"
)

// Receipt header, matching the printed bill layout.
const (
	storeName    = "SuperMart"
	storeAddress = "123 Market Street, Cityville"
	storeContact = "+91-9876543210"
)

const (
	noProductsMessage = "No products match your search or selected category."
	noCartMessage     = "No items in cart."
	noBillMessage     = "No data available. Please return to the Inventory page and try again."
)

// Handlers carries the handler dependencies plus the in-memory catalog
// snapshot. The snapshot is fetched once at startup and replaced only by an
// explicit refresh; user interaction never re-triggers the fetch.
type Handlers struct {
	store  *redis.Store
	client *superbill.Client

	mu         sync.RWMutex
	catalog    []models.InventoryItem
	refreshing bool
}

func NewHandlers(store *redis.Store, client *superbill.Client) *Handlers {
	return &Handlers{store: store, client: client}
}

// LoadCatalog fetches the vendor's inventory into the snapshot. A failed
// fetch degrades to an empty catalog: filters over an empty snapshot yield
// empty results, which is a valid transient state, not an error.
func (h *Handlers) LoadCatalog(ctx context.Context) {
	items, err := h.client.FetchInventory(ctx)
	if err != nil {
		log.Printf("Error fetching inventory: %v", err)
		items = nil
	}

	h.mu.Lock()
	h.catalog = items
	h.mu.Unlock()
}

func (h *Handlers) catalogSnapshot() []models.InventoryItem {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.catalog
}

func (h *Handlers) itemByID(productID string) (models.InventoryItem, bool) {
	for _, item := range h.catalogSnapshot() {
		if string(item.ProductID) == productID {
			return item, true
		}
	}
	return models.InventoryItem{}, false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func (h *Handlers) HealthCheck(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Redis connection failed", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(map[string]string{"status": "OK", "redis": "Connected"}))
}

type inventoryRow struct {
	Serial int `json:"serial"`
	models.InventoryItem
	UnitPriceWithTax float64 `json:"unitPriceWithTax"`
}

// GetInventory returns the visible catalog subset for the cashier's query,
// category and stock filter. Ordering follows the fetched snapshot.
func (h *Handlers) GetInventory(c *gin.Context) {
	query := c.Query("q")
	category := c.DefaultQuery("category", catalog.CategoryAll)

	bucket, ok := catalog.ParseStockBucket(c.Query("stock"))
	if !ok {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid stock filter", []global.ValidationError{
			{Field: "stock", Message: "stock must be one of: All, Available, Low Availability, Stock Over", Code: "invalid_value"},
		}))
		return
	}

	items := catalog.VisibleItems(h.catalogSnapshot(), query, category)
	items = catalog.FilterByStock(items, bucket)

	rows := make([]inventoryRow, 0, len(items))
	for i, item := range items {
		rows = append(rows, inventoryRow{
			Serial:           i + 1,
			InventoryItem:    item,
			UnitPriceWithTax: round2(pricing.UnitPriceWithTax(item.SellingPriceValue)),
		})
	}

	data := gin.H{"items": rows, "count": len(rows)}
	if len(rows) == 0 {
		data["message"] = noProductsMessage
	}
	c.JSON(http.StatusOK, global.SuccessResponse(data))
}

// RefreshInventory re-fetches the catalog on operator demand. A concurrent
// refresh is rejected rather than queued; a failed fetch keeps the previous
// snapshot so the screen never goes blank on a flaky upstream.
func (h *Handlers) RefreshInventory(c *gin.Context) {
	h.mu.Lock()
	if h.refreshing {
		h.mu.Unlock()
		c.JSON(http.StatusConflict, global.ErrorResponse("Inventory refresh already in progress", nil))
		return
	}
	h.refreshing = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		h.refreshing = false
		h.mu.Unlock()
	}()

	items, err := h.client.FetchInventory(c.Request.Context())
	if err != nil {
		log.Printf("Error fetching inventory: %v", err)
		c.JSON(http.StatusBadGateway, global.ErrorResponse("Failed to refresh inventory", nil))
		return
	}

	h.mu.Lock()
	h.catalog = items
	h.mu.Unlock()

	c.JSON(http.StatusOK, global.SuccessResponse(gin.H{"count": len(items)}))
}

func (h *Handlers) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, global.SuccessResponse(catalog.Categories(h.catalogSnapshot())))
}

type cartLineRow struct {
	models.CartLine
	TaxAmount float64 `json:"taxAmount"`
	LineTotal float64 `json:"lineTotal"`
}

func cartView(lines []models.CartLine) gin.H {
	rows := make([]cartLineRow, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, cartLineRow{
			CartLine:  line,
			TaxAmount: round2(pricing.TaxAmount(line.SellingPriceValue)),
			LineTotal: round2(pricing.LineTotal(line.SellingPriceValue, line.Quantity)),
		})
	}

	data := gin.H{
		"items": rows,
		"count": len(rows),
		"total": pricing.CartTotal(lines),
	}
	if len(rows) == 0 {
		data["message"] = noCartMessage
	}
	return data
}

func (h *Handlers) GetCart(c *gin.Context) {
	sessionID := c.GetString("sessionId")

	lines, err := h.store.LoadCart(c.Request.Context(), sessionID)
	if err != nil {
		log.Printf("Error loading cart %s: %v", sessionID, err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to load cart", nil))
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(cartView(lines)))
}

// ToggleCart applies a single +-1 quantity step against the catalog
// snapshot and returns the updated cart.
func (h *Handlers) ToggleCart(c *gin.Context) {
	sessionID := c.GetString("sessionId")

	var req models.ToggleCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request data", []global.ValidationError{
			{Field: "request", Message: err.Error(), Code: "validation_error"},
		}))
		return
	}

	item, found := h.itemByID(req.ProductID)
	if !found {
		c.JSON(http.StatusNotFound, global.ErrorResponse("Product not found", []global.ValidationError{
			{Field: "productId", Message: "No product exists with this ID", Code: "not_found"},
		}))
		return
	}

	ctx := c.Request.Context()
	lines, err := h.store.LoadCart(ctx, sessionID)
	if err != nil {
		log.Printf("Error loading cart %s: %v", sessionID, err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to load cart", nil))
		return
	}

	billingCart := cart.FromLines(lines)
	billingCart.Toggle(item, req.Delta)

	if err := h.store.SaveCart(ctx, sessionID, billingCart.Lines()); err != nil {
		log.Printf("Error saving cart %s: %v", sessionID, err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to save cart", nil))
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(cartView(billingCart.Lines())))
}

func (h *Handlers) ClearCart(c *gin.Context) {
	sessionID := c.GetString("sessionId")

	if err := h.store.ClearCart(c.Request.Context(), sessionID); err != nil {
		log.Printf("Error clearing cart %s: %v", sessionID, err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to clear cart", nil))
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(gin.H{"cleared": true}))
}

// Checkout freezes the session cart into a one-shot billing snapshot, clears
// the cart and returns the bill handle for the checkout screen.
func (h *Handlers) Checkout(c *gin.Context) {
	sessionID := c.GetString("sessionId")
	ctx := c.Request.Context()

	lines, err := h.store.LoadCart(ctx, sessionID)
	if err != nil {
		log.Printf("Error loading cart %s: %v", sessionID, err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to load cart", nil))
		return
	}
	if len(lines) == 0 {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Cart is empty", []global.ValidationError{
			{Field: "cart", Message: "At least one item is required to check out", Code: "empty_cart"},
		}))
		return
	}

	now := time.Now()
	snap := &models.BillingSnapshot{
		BillID:    uuid.NewString(),
		Items:     lines,
		Total:     pricing.CartTotal(lines),
		Date:      now.Format("02/01/2006"),
		Time:      now.Format("3:04:05 PM"),
		CreatedAt: now,
	}

	if err := h.store.PutSnapshot(ctx, snap); err != nil {
		log.Printf("Error storing billing snapshot %s: %v", snap.BillID, err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to create bill", nil))
		return
	}
	if err := h.store.PutPendingBill(ctx, snap); err != nil {
		log.Printf("Error storing pending bill %s: %v", snap.BillID, err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to create bill", nil))
		return
	}

	if err := h.store.ClearCart(ctx, sessionID); err != nil {
		// The bill is already frozen; a stale cart is only a nuisance.
		log.Printf("Warning: failed to clear cart %s after checkout: %v", sessionID, err)
	}

	c.JSON(http.StatusCreated, global.SuccessResponse(gin.H{
		"billId": snap.BillID,
		"total":  snap.Total,
	}))
}

type billItemRow struct {
	ProductID        models.FlexString `json:"productId"`
	ProductName      string            `json:"productName"`
	Quantity         int               `json:"quantity"`
	UnitPriceWithTax float64           `json:"unitPriceWithTax"`
}

// GetBill consumes the one-shot billing snapshot and renders the receipt.
// Opening the checkout screen without a preceding cart, or reloading it, is
// the "no data" state, not a server error in disguise.
func (h *Handlers) GetBill(c *gin.Context) {
	billID := c.Param("billId")

	snap, err := h.store.TakeSnapshot(c.Request.Context(), billID)
	if errors.Is(err, redis.ErrSnapshotNotFound) {
		c.JSON(http.StatusNotFound, global.ErrorResponse(noBillMessage, nil))
		return
	}
	if err != nil {
		log.Printf("Error taking billing snapshot %s: %v", billID, err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to load bill", nil))
		return
	}

	rows := make([]billItemRow, 0, len(snap.Items))
	for _, line := range snap.Items {
		rows = append(rows, billItemRow{
			ProductID:        line.ProductID,
			ProductName:      line.ProductName,
			Quantity:         line.Quantity,
			UnitPriceWithTax: round2(pricing.UnitPriceWithTax(line.SellingPriceValue)),
		})
	}

	c.JSON(http.StatusOK, global.SuccessResponse(gin.H{
		"store": gin.H{
			"name":    storeName,
			"address": storeAddress,
			"contact": storeContact,
		},
		"billId":   snap.BillID,
		"date":     snap.Date,
		"time":     snap.Time,
		"items":    rows,
		"total":    round2(snap.Total),
		"thankyou": "Thank you for shopping with us!",
		"footer":   "Powered by SuperBill",
	}))
}

// SubmitBill forwards the preserved bill to the SuperBill service. The
// pending copy survives a failed attempt so the cashier can retry; a second
// submission is rejected only while one is in flight.
func (h *Handlers) SubmitBill(c *gin.Context) {
	billID := c.Param("billId")
	ctx := c.Request.Context()

	snap, err := h.store.GetPendingBill(ctx, billID)
	if errors.Is(err, redis.ErrSnapshotNotFound) {
		c.JSON(http.StatusNotFound, global.ErrorResponse("No bill data available to submit", nil))
		return
	}
	if err != nil {
		log.Printf("Error loading pending bill %s: %v", billID, err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to load bill", nil))
		return
	}

	acquired, err := h.store.AcquireSubmitLock(ctx, billID)
	if err != nil {
		log.Printf("Error acquiring submit lock for bill %s: %v", billID, err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to submit bill", nil))
		return
	}
	if !acquired {
		c.JSON(http.StatusConflict, global.ErrorResponse("Bill submission already in progress", nil))
		return
	}
	defer func() {
		if err := h.store.ReleaseSubmitLock(context.Background(), billID); err != nil {
			log.Printf("Warning: failed to release submit lock for bill %s: %v", billID, err)
		}
	}()

	bill := superbill.BillRequest{
		VendorEmail: h.client.VendorEmail(),
		Items:       snap.Items,
		TotalAmount: snap.Total,
		Date:        snap.Date,
		Time:        snap.Time,
	}

	if err := h.client.SubmitBill(ctx, bill); err != nil {
		log.Printf("Error submitting bill %s: %v", billID, err)
		c.JSON(http.StatusBadGateway, global.ErrorResponse("Failed to submit bill, please try again", nil))
		return
	}

	if err := h.store.DeletePendingBill(ctx, billID); err != nil {
		log.Printf("Warning: failed to delete pending bill %s: %v", billID, err)
	}

	c.JSON(http.StatusOK, global.SuccessResponse(gin.H{"submitted": true, "billId": billID}))
}
