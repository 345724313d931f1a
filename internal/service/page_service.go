package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pr-poehali-dev/leopard-bag-project/internal/form"
	"github.com/pr-poehali-dev/leopard-bag-project/internal/models"
	"github.com/pr-poehali-dev/leopard-bag-project/internal/notify"
	"github.com/pr-poehali-dev/leopard-bag-project/internal/session"
	"github.com/pr-poehali-dev/leopard-bag-project/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrEmptyCart           = errors.New("cart is empty")
	ErrDuplicateSubmission = errors.New("submission already accepted")
)

const msgEmptyCart = "Корзина пуста"

// EventPublisher publishes accepted submissions; *broker.EventPublisher
// implements it.
type EventPublisher interface {
	PublishContactSubmitted(ctx context.Context, event *models.ContactSubmittedEvent) error
	PublishOrderSubmitted(ctx context.Context, event *models.OrderSubmittedEvent) error
}

// IdempotencyStore remembers submit keys; *redisclient.Client implements it.
type IdempotencyStore interface {
	ClaimIdempotencyKey(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error)
	ReleaseIdempotencyKey(ctx context.Context, key string) error
	GetIdempotencyValue(ctx context.Context, key string) (string, error)
}

// PageService runs user events against page sessions
type PageService struct {
	sessions       *session.Registry
	eventPublisher EventPublisher
	idempotency    IdempotencyStore
	idempotencyTTL time.Duration
	logger         *zap.Logger
}

// NewPageService creates a new page service. eventPublisher and idempotency
// may be nil.
func NewPageService(
	sessions *session.Registry,
	eventPublisher EventPublisher,
	idempotency IdempotencyStore,
	idempotencyTTL time.Duration,
) *PageService {
	return &PageService{
		sessions:       sessions,
		eventPublisher: eventPublisher,
		idempotency:    idempotency,
		idempotencyTTL: idempotencyTTL,
		logger:         util.GetLogger(),
	}
}

// SessionView describes a newly created session
type SessionView struct {
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CatalogView is the filter state of a page
type CatalogView[T any] struct {
	Categories []string `json:"categories"`
	Selected   string   `json:"selected"`
	Items      []T      `json:"items"`
}

// CartView is the cart with its derived values
type CartView struct {
	Items []models.LineItem `json:"items"`
	Count int               `json:"count"`
	Total int64             `json:"total"`
}

// FormView is the current value of every form field
type FormView struct {
	Form     string            `json:"form"`
	Fields   map[string]string `json:"fields"`
	Required []string          `json:"required"`
}

// CheckoutResult summarises an accepted order
type CheckoutResult struct {
	OrderNumber string            `json:"order_number"`
	Items       []models.LineItem `json:"items"`
	Total       int64             `json:"total"`
}

// Result wraps a view with the notifications the event produced
type Result[T any] struct {
	View          T                     `json:"view"`
	Notifications []models.Notification `json:"notifications"`
}

func (s *PageService) do(ctx context.Context, sessionID string, fn func(*session.Storefront, *session.Portfolio) error) ([]models.Notification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Do(fn)
}

// CreateSession starts a new page session
func (s *PageService) CreateSession(ctx context.Context) *SessionView {
	_, span := util.StartSpan(ctx, "PageService.CreateSession")
	defer span.End()

	sess := s.sessions.Create()
	s.logger.Info("Session started", zap.String("session_id", sess.ID))
	return &SessionView{SessionID: sess.ID, CreatedAt: sess.CreatedAt}
}

// CloseSession drops a page session
func (s *PageService) CloseSession(ctx context.Context, sessionID string) error {
	_, span := util.StartSpan(ctx, "PageService.CloseSession")
	defer span.End()

	if !s.sessions.Delete(sessionID) {
		return fmt.Errorf("%w: %s", session.ErrSessionNotFound, sessionID)
	}
	return nil
}

func storeCatalog(store *session.Storefront) CatalogView[models.Product] {
	return CatalogView[models.Product]{
		Categories: store.Selection.Categories(),
		Selected:   store.Selection.Selected(),
		Items:      store.Selection.Visible(),
	}
}

func projectCatalog(portfolio *session.Portfolio) CatalogView[models.Project] {
	return CatalogView[models.Project]{
		Categories: portfolio.Selection.Categories(),
		Selected:   portfolio.Selection.Selected(),
		Items:      portfolio.Selection.Visible(),
	}
}

func cartView(store *session.Storefront) CartView {
	return CartView{
		Items: store.Cart.Items(),
		Count: store.Cart.Count(),
		Total: store.Cart.Total(),
	}
}

func formView(name string, values map[string]string, required []string) FormView {
	return FormView{Form: name, Fields: values, Required: required}
}

// Products returns the storefront's visible products
func (s *PageService) Products(ctx context.Context, sessionID string) (*CatalogView[models.Product], error) {
	_, span := util.StartSpan(ctx, "PageService.Products")
	defer span.End()

	var view CatalogView[models.Product]
	_, err := s.do(ctx, sessionID, func(store *session.Storefront, _ *session.Portfolio) error {
		view = storeCatalog(store)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// SelectProductCategory changes the storefront filter
func (s *PageService) SelectProductCategory(ctx context.Context, sessionID, category string) (*CatalogView[models.Product], error) {
	_, span := util.StartSpan(ctx, "PageService.SelectProductCategory")
	defer span.End()

	var view CatalogView[models.Product]
	_, err := s.do(ctx, sessionID, func(store *session.Storefront, _ *session.Portfolio) error {
		if err := store.Selection.Select(category); err != nil {
			return err
		}
		view = storeCatalog(store)
		return nil
	})
	if err != nil {
		return nil, err
	}

	util.CategorySelectionsTotal.WithLabelValues("store").Inc()
	return &view, nil
}

// Cart returns the cart of a session
func (s *PageService) Cart(ctx context.Context, sessionID string) (*CartView, error) {
	_, span := util.StartSpan(ctx, "PageService.Cart")
	defer span.End()

	var view CartView
	_, err := s.do(ctx, sessionID, func(store *session.Storefront, _ *session.Portfolio) error {
		view = cartView(store)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// AddToCart puts one unit of a catalog product into the cart
func (s *PageService) AddToCart(ctx context.Context, sessionID string, productID int64) (*Result[CartView], error) {
	_, span := util.StartSpan(ctx, "PageService.AddToCart")
	defer span.End()

	var view CartView
	notes, err := s.do(ctx, sessionID, func(store *session.Storefront, _ *session.Portfolio) error {
		product, err := store.Catalog.Get(productID)
		if err != nil {
			return err
		}
		store.Cart.Add(product)
		view = cartView(store)
		return nil
	})
	if err != nil {
		return nil, err
	}

	util.CartAddsTotal.Inc()
	s.logger.Debug("Added to cart",
		zap.String("session_id", sessionID),
		zap.Int64("product_id", productID),
		zap.Int64("total", view.Total))
	return &Result[CartView]{View: view, Notifications: notes}, nil
}

// RemoveFromCart deletes a line item; unknown ids are ignored
func (s *PageService) RemoveFromCart(ctx context.Context, sessionID string, productID int64) (*Result[CartView], error) {
	_, span := util.StartSpan(ctx, "PageService.RemoveFromCart")
	defer span.End()

	var view CartView
	var removed bool
	notes, err := s.do(ctx, sessionID, func(store *session.Storefront, _ *session.Portfolio) error {
		removed = store.Cart.Remove(productID)
		view = cartView(store)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if removed {
		util.CartRemovalsTotal.WithLabelValues("explicit").Inc()
	}
	return &Result[CartView]{View: view, Notifications: notes}, nil
}

// AdjustCartItem changes a line item's quantity by delta
func (s *PageService) AdjustCartItem(ctx context.Context, sessionID string, productID int64, delta int) (*Result[CartView], error) {
	_, span := util.StartSpan(ctx, "PageService.AdjustCartItem")
	defer span.End()

	var view CartView
	var removed bool
	notes, err := s.do(ctx, sessionID, func(store *session.Storefront, _ *session.Portfolio) error {
		removed = store.Cart.AdjustQuantity(productID, delta)
		view = cartView(store)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if removed {
		util.CartRemovalsTotal.WithLabelValues("quantity").Inc()
	}
	return &Result[CartView]{View: view, Notifications: notes}, nil
}

// OrderForm returns the checkout form state
func (s *PageService) OrderForm(ctx context.Context, sessionID string) (*FormView, error) {
	_, span := util.StartSpan(ctx, "PageService.OrderForm")
	defer span.End()

	var view FormView
	_, err := s.do(ctx, sessionID, func(store *session.Storefront, _ *session.Portfolio) error {
		view = orderFormView(store)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func orderFormView(store *session.Storefront) FormView {
	var required []string
	for _, f := range store.OrderForm.Fields() {
		if f.Required {
			required = append(required, f.Name)
		}
	}
	return formView(store.OrderForm.Name(), store.OrderForm.Values(), required)
}

func contactFormView(portfolio *session.Portfolio) FormView {
	var required []string
	for _, f := range portfolio.ContactForm.Fields() {
		if f.Required {
			required = append(required, f.Name)
		}
	}
	return formView(portfolio.ContactForm.Name(), portfolio.ContactForm.Values(), required)
}

// UpdateOrderForm sets one checkout form field
func (s *PageService) UpdateOrderForm(ctx context.Context, sessionID, field, value string) (*FormView, error) {
	_, span := util.StartSpan(ctx, "PageService.UpdateOrderForm")
	defer span.End()

	var view FormView
	_, err := s.do(ctx, sessionID, func(store *session.Storefront, _ *session.Portfolio) error {
		if err := store.OrderForm.Set(field, value); err != nil {
			return err
		}
		view = orderFormView(store)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func submitKey(form, sessionID, key string) string {
	return fmt.Sprintf("%s:%s:%s", form, sessionID, key)
}

// claim takes the idempotency key for this submission and reports false when
// an earlier submission holds it. Store errors are logged and the submission
// is accepted.
func (s *PageService) claim(ctx context.Context, key string, value interface{}) bool {
	if s.idempotency == nil || key == "" {
		return true
	}
	claimed, err := s.idempotency.ClaimIdempotencyKey(ctx, key, value, s.idempotencyTTL)
	if err != nil {
		s.logger.Warn("Idempotency claim failed, accepting submission", zap.String("key", key), zap.Error(err))
		return true
	}
	return claimed
}

// release frees a claimed key after the submission was rejected, so the
// same key can be retried.
func (s *PageService) release(ctx context.Context, key string) {
	if s.idempotency == nil || key == "" {
		return
	}
	if err := s.idempotency.ReleaseIdempotencyKey(ctx, key); err != nil {
		s.logger.Warn("Failed to release idempotency key", zap.String("key", key), zap.Error(err))
	}
}

// claimedBy returns the value stored by the submission that holds key.
func (s *PageService) claimedBy(ctx context.Context, key string) string {
	if s.idempotency == nil || key == "" {
		return ""
	}
	val, err := s.idempotency.GetIdempotencyValue(ctx, key)
	if err != nil {
		s.logger.Warn("Failed to read idempotency key", zap.String("key", key), zap.Error(err))
		return ""
	}
	return val
}

func orderNumber() string {
	return "LB-" + strings.ToUpper(uuid.New().String()[:8])
}

// Checkout submits the order form. The cart must not be empty and the
// required fields must be filled; otherwise an error notification is emitted
// and nothing changes. On success the form is reset and the cart cleared.
// A repeated idempotency key returns ErrDuplicateSubmission with the order
// number of the accepted submission.
func (s *PageService) Checkout(ctx context.Context, sessionID, idempotencyKey string) (*Result[CheckoutResult], error) {
	ctx, span := util.StartSpan(ctx, "PageService.Checkout")
	defer span.End()

	var (
		result CheckoutResult
		fields map[string]string
	)
	key := ""
	if idempotencyKey != "" {
		key = submitKey("checkout", sessionID, idempotencyKey)
	}

	number := orderNumber()
	notes, err := s.do(ctx, sessionID, func(store *session.Storefront, _ *session.Portfolio) error {
		if !s.claim(ctx, key, number) {
			result.OrderNumber = s.claimedBy(ctx, key)
			return ErrDuplicateSubmission
		}

		if store.Cart.Len() == 0 {
			s.release(ctx, key)
			store.Notifier.Notify(notify.Error(msgEmptyCart))
			return ErrEmptyCart
		}

		submitted, err := store.OrderForm.Submit()
		if err != nil {
			s.release(ctx, key)
			return err
		}

		fields = submitted
		result = CheckoutResult{
			OrderNumber: number,
			Items:       store.Cart.Items(),
			Total:       store.Cart.Total(),
		}
		store.Cart.Clear()
		return nil
	})
	if err != nil {
		util.FormSubmissionsTotal.WithLabelValues("order", outcome(err)).Inc()
		return &Result[CheckoutResult]{View: result, Notifications: notes}, err
	}

	util.FormSubmissionsTotal.WithLabelValues("order", "accepted").Inc()
	util.CheckoutAmount.Observe(float64(result.Total))
	s.logger.Info("Order accepted",
		zap.String("session_id", sessionID),
		zap.String("order_number", result.OrderNumber),
		zap.Int64("total", result.Total))

	s.publishOrder(ctx, sessionID, fields, &result)
	return &Result[CheckoutResult]{View: result, Notifications: notes}, nil
}

func outcome(err error) string {
	switch {
	case errors.Is(err, ErrDuplicateSubmission):
		return "duplicate"
	case errors.Is(err, ErrEmptyCart):
		return "empty_cart"
	}
	var verr *form.ValidationError
	if errors.As(err, &verr) {
		return "invalid"
	}
	return "error"
}

func (s *PageService) publishOrder(ctx context.Context, sessionID string, fields map[string]string, result *CheckoutResult) {
	if s.eventPublisher == nil {
		return
	}

	items := make([]models.OrderItemData, 0, len(result.Items))
	for _, li := range result.Items {
		items = append(items, models.OrderItemData{
			ProductID: li.Product.ID,
			Name:      li.Product.Name,
			Quantity:  li.Quantity,
			UnitPrice: li.Product.Price,
		})
	}

	event := &models.OrderSubmittedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderSubmitted,
			Timestamp: time.Now(),
		},
		SessionID:   sessionID,
		OrderNumber: result.OrderNumber,
		Fields:      fields,
		Items:       items,
		TotalAmount: result.Total,
	}

	if err := s.eventPublisher.PublishOrderSubmitted(ctx, event); err != nil {
		util.EventsPublishFailedTotal.Inc()
		s.logger.Error("Failed to publish OrderSubmitted event", zap.Error(err))
	}
}
