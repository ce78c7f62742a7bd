package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/restokit/pos-core/internal/awsx"
	"github.com/restokit/pos-core/internal/cart"
	"github.com/restokit/pos-core/internal/catalog"
	"github.com/restokit/pos-core/internal/combo"
	"github.com/restokit/pos-core/internal/events"
	"github.com/restokit/pos-core/internal/orders"
	"github.com/restokit/pos-core/internal/validation"
)

const metricsNamespace = "RestoPOS"

// HandlerConfig groups dependencies for the POS routes.
type HandlerConfig struct {
	DynamoDBClient   awsx.DynamoDBAPI
	SQSClient        awsx.SQSAPI
	CloudWatchClient awsx.CloudWatchAPI
	MenuCache        *catalog.MenuCache // optional; nil disables caching
	ProductsTable    string
	CombosTable      string
	TablesTable      string
	OrdersTable      string
	QueueURL         string
	TaxRate          float64
}

// RegisterPOSRoutes registers menu, cart and order routes. Each register
// terminal identifies itself with the X-Register-Id header and owns its
// own cart session.
func RegisterPOSRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()
	catalogStore := catalog.NewStore(cfg.DynamoDBClient, cfg.ProductsTable, cfg.CombosTable, cfg.TablesTable)
	ordersStore := orders.NewStore(cfg.DynamoDBClient, cfg.OrdersTable)
	publisher := events.NewPublisher(cfg.SQSClient, cfg.QueueURL)
	metrics := events.NewMetrics(cfg.CloudWatchClient, metricsNamespace)
	compiler := orders.NewCompiler()
	registry := cart.NewRegistry()

	loadMenu := func(c *gin.Context) (*catalog.Menu, error) {
		ctx := c.Request.Context()
		if cfg.MenuCache != nil {
			menu, err := cfg.MenuCache.Get(ctx)
			if err == nil {
				return menu, nil
			}
			if !errors.Is(err, catalog.ErrCacheMiss) {
				log.Printf("[menu] cache read failed, falling back to store: %v", err)
			}
		}
		menu, err := catalogStore.LoadMenu(ctx)
		if err != nil {
			return nil, err
		}
		if cfg.MenuCache != nil {
			if err := cfg.MenuCache.Set(ctx, menu); err != nil {
				log.Printf("[menu] cache write failed: %v", err)
			}
		}
		return menu, nil
	}

	r.GET("/menu", func(c *gin.Context) {
		menu, err := loadMenu(c)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "catalog_unavailable", "detail": err.Error()})
			return
		}
		c.JSON(http.StatusOK, menu)
	})

	r.GET("/tables", func(c *gin.Context) {
		tables, err := catalogStore.ListTables(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "tables_unavailable", "detail": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"tables": tables})
	})

	r.GET("/cart", func(c *gin.Context) {
		c.JSON(http.StatusOK, cartView(registry.Cart(registerID(c))))
	})

	r.POST("/cart/items", func(c *gin.Context) {
		var req validation.AddItemRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			// BindAndValidate already wrote a 400
			return
		}

		menu, err := loadMenu(c)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "catalog_unavailable", "detail": err.Error()})
			return
		}

		session := registry.Cart(registerID(c))

		switch req.Kind {
		case cart.KindProduct:
			p, ok := menu.Product(req.SourceID)
			if !ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "unknown_product"})
				return
			}
			if !p.Available {
				c.JSON(http.StatusConflict, gin.H{"error": "product_unavailable"})
				return
			}
			id := session.AddProduct(p, req.Quantity, req.Note)
			c.JSON(http.StatusCreated, gin.H{"instance_id": id, "cart": cartView(session)})

		case cart.KindFixedCombo:
			def, ok := menu.Combo(req.SourceID)
			if !ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "unknown_combo"})
				return
			}
			if def.Type != catalog.ComboFixed {
				c.JSON(http.StatusBadRequest, gin.H{"error": "combo_requires_selection"})
				return
			}
			id := session.AddFixedCombo(def, req.Quantity)
			c.JSON(http.StatusCreated, gin.H{"instance_id": id, "cart": cartView(session)})

		case cart.KindConfiguredCombo:
			def, ok := menu.Combo(req.SourceID)
			if !ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "unknown_combo"})
				return
			}
			if def.Type != catalog.ComboSelectable {
				c.JSON(http.StatusBadRequest, gin.H{"error": "combo_not_selectable"})
				return
			}
			sel, err := buildSelection(def, req.Selections)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_selection", "detail": err.Error()})
				return
			}
			id, err := session.AddConfiguredCombo(def, sel, req.Quantity)
			if errors.Is(err, cart.ErrIncompleteSelection) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "incomplete_selection"})
				return
			}
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "add_failed", "detail": err.Error()})
				return
			}
			c.JSON(http.StatusCreated, gin.H{"instance_id": id, "cart": cartView(session)})
		}
	})

	r.PATCH("/cart/items/:id", func(c *gin.Context) {
		var req validation.UpdateQuantityRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		session := registry.Cart(registerID(c))
		session.UpdateQuantity(c.Param("id"), *req.Quantity)
		c.JSON(http.StatusOK, cartView(session))
	})

	r.DELETE("/cart/items/:id", func(c *gin.Context) {
		session := registry.Cart(registerID(c))
		session.RemoveLine(c.Param("id"))
		c.JSON(http.StatusOK, cartView(session))
	})

	r.DELETE("/cart", func(c *gin.Context) {
		session := registry.Cart(registerID(c))
		session.Clear()
		c.JSON(http.StatusOK, cartView(session))
	})

	r.POST("/orders", func(c *gin.Context) {
		ctx := c.Request.Context()

		var req validation.SubmitOrderRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		session := registry.Cart(registerID(c))
		order, err := compiler.Compile(session.Lines(), req.Destination, cfg.TaxRate, req.Notes)
		if errors.Is(err, orders.ErrEmptyCart) {
			c.JSON(http.StatusConflict, gin.H{"error": "empty_cart"})
			return
		}
		if errors.Is(err, orders.ErrMissingDestination) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing_destination"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "compile_failed", "detail": err.Error()})
			return
		}

		if err := ordersStore.Create(ctx, order); err != nil {
			if errors.Is(err, orders.ErrOrderExists) {
				c.JSON(http.StatusConflict, gin.H{"error": "duplicate_order"})
				return
			}
			// cart stays intact so the operator can retry
			c.JSON(http.StatusBadGateway, gin.H{"error": "persist_failed", "detail": err.Error()})
			return
		}

		// realtime feed is best-effort; the order is already persisted
		publishStatus(c, publisher, order.OrderID, order.OrderNumber, order.Status)
		metrics.OrderSubmitted(ctx, order.TotalAmount)

		session.Clear()

		c.Header("Location", fmt.Sprintf("/orders/%s", order.OrderID))
		c.JSON(http.StatusCreated, order)
	})

	r.GET("/orders/:id", func(c *gin.Context) {
		order, err := ordersStore.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "fetch_failed", "detail": err.Error()})
			return
		}
		if order == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "order_not_found"})
			return
		}
		c.JSON(http.StatusOK, order)
	})

	r.POST("/orders/:id/advance", func(c *gin.Context) {
		ctx := c.Request.Context()
		order, err := ordersStore.Get(ctx, c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "fetch_failed", "detail": err.Error()})
			return
		}
		if order == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "order_not_found"})
			return
		}
		next, ok := orders.NextStatus(order.Status)
		if !ok {
			c.JSON(http.StatusConflict, gin.H{"error": "terminal_status", "status": order.Status})
			return
		}
		if err := ordersStore.UpdateStatus(ctx, order.OrderID, order.Status, next); err != nil {
			if errors.Is(err, orders.ErrStatusMismatch) {
				c.JSON(http.StatusConflict, gin.H{"error": "status_conflict"})
				return
			}
			c.JSON(http.StatusBadGateway, gin.H{"error": "update_failed", "detail": err.Error()})
			return
		}
		publishStatus(c, publisher, order.OrderID, order.OrderNumber, next)
		c.JSON(http.StatusOK, gin.H{"order_id": order.OrderID, "status": next})
	})

	r.POST("/orders/:id/cancel", func(c *gin.Context) {
		ctx := c.Request.Context()
		order, err := ordersStore.Get(ctx, c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "fetch_failed", "detail": err.Error()})
			return
		}
		if order == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "order_not_found"})
			return
		}
		if !orders.CanCancel(order.Status) {
			c.JSON(http.StatusConflict, gin.H{"error": "cannot_cancel", "status": order.Status})
			return
		}
		if err := ordersStore.UpdateStatus(ctx, order.OrderID, order.Status, orders.StatusCancelled); err != nil {
			if errors.Is(err, orders.ErrStatusMismatch) {
				c.JSON(http.StatusConflict, gin.H{"error": "status_conflict"})
				return
			}
			c.JSON(http.StatusBadGateway, gin.H{"error": "update_failed", "detail": err.Error()})
			return
		}
		publishStatus(c, publisher, order.OrderID, order.OrderNumber, orders.StatusCancelled)
		c.JSON(http.StatusOK, gin.H{"order_id": order.OrderID, "status": orders.StatusCancelled})
	})
}

func registerID(c *gin.Context) string {
	if id := c.GetHeader("X-Register-Id"); id != "" {
		return id
	}
	return "reg-1"
}

func cartView(session *cart.Cart) gin.H {
	return gin.H{
		"lines":          session.Lines(),
		"line_count":     session.LineCount(),
		"total_quantity": session.TotalQuantity(),
		"subtotal":       session.Subtotal(),
	}
}

// buildSelection resolves the request's product ids against each group's
// candidate list. Unknown groups and non-candidate products are rejected
// before the cart is touched.
func buildSelection(def catalog.ComboDefinition, entries []validation.SelectionEntry) (combo.Selection, error) {
	sel := combo.Selection{}
	for _, e := range entries {
		var group *catalog.SelectionGroup
		for i := range def.Groups {
			if def.Groups[i].GroupID == e.GroupID {
				group = &def.Groups[i]
				break
			}
		}
		if group == nil {
			return nil, fmt.Errorf("%w: %s", combo.ErrInvalidGroup, e.GroupID)
		}
		for _, pid := range e.ProductIDs {
			var found *catalog.Product
			for i := range group.Candidates {
				if group.Candidates[i].ProductID == pid {
					found = &group.Candidates[i]
					break
				}
			}
			if found == nil {
				return nil, fmt.Errorf("product %s is not a candidate of group %s", pid, e.GroupID)
			}
			sel[e.GroupID] = append(sel[e.GroupID], *found)
		}
	}
	return sel, nil
}

func publishStatus(c *gin.Context, publisher *events.Publisher, orderID, orderNumber, status string) {
	ev := events.StatusEvent{
		OrderID:     orderID,
		NewStatus:   status,
		OrderNumber: orderNumber,
		Source:      "register",
	}
	attrs := map[string]string{
		"order_id":       orderID,
		"new_status":     status,
		"correlation_id": c.GetHeader("X-Request-Id"),
	}
	if err := publisher.PublishStatus(c.Request.Context(), ev, attrs); err != nil {
		log.Printf("[orders] status event publish failed order=%s status=%s: %v", orderID, status, err)
	}
}
