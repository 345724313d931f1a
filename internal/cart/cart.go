// Package cart is the storefront's cart state: line items keyed by product
// id, quantity changes, and the derived total.
package cart

import (
	"fmt"

	"github.com/pr-poehali-dev/leopard-bag-project/internal/models"
	"github.com/pr-poehali-dev/leopard-bag-project/internal/notify"
)

// Notification texts.
const (
	msgRemoved = "Товар удален из корзины"
	msgDropped = "%s убран из корзины"
	msgAdded   = "%s добавлен в корзину"
)

// MaxQuantity bounds a line item's quantity so totals stay within int64.
const MaxQuantity = 9999

// Cart holds at most one line item per product id, in insertion order.
// Quantities stored are always at least 1. Cart is not safe for concurrent
// use; the owning page serialises access.
type Cart struct {
	items    []models.LineItem
	notifier notify.Notifier
}

// New creates an empty cart. A nil notifier discards notifications.
func New(notifier notify.Notifier) *Cart {
	if notifier == nil {
		notifier = notify.Nop
	}
	return &Cart{notifier: notifier}
}

func (c *Cart) find(productID int64) int {
	for i := range c.items {
		if c.items[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

// Add puts one unit of product into the cart, up to MaxQuantity. The product
// fields are copied at this point and never re-read.
func (c *Cart) Add(product models.Product) {
	if i := c.find(product.ID); i >= 0 {
		if c.items[i].Quantity < MaxQuantity {
			c.items[i].Quantity++
		}
	} else {
		snapshot := product
		snapshot.Tags = append([]string(nil), product.Tags...)
		c.items = append(c.items, models.LineItem{Product: snapshot, Quantity: 1})
	}
	c.notifier.Notify(notify.Success(fmt.Sprintf(msgAdded, product.Name)))
}

// Remove deletes the line item of productID. Absent ids are ignored.
// It reports whether a line item was removed.
func (c *Cart) Remove(productID int64) bool {
	i := c.find(productID)
	if i >= 0 {
		c.items = append(c.items[:i], c.items[i+1:]...)
	}
	c.notifier.Notify(notify.Info(msgRemoved))
	return i >= 0
}

// AdjustQuantity adds delta to the quantity of productID. A resulting
// quantity of zero or less removes the line item; one above MaxQuantity is
// clamped to it. Absent ids are ignored.
// It reports whether the line item was removed.
func (c *Cart) AdjustQuantity(productID int64, delta int) bool {
	i := c.find(productID)
	if i < 0 {
		return false
	}

	qty := c.items[i].Quantity + delta
	if delta > 0 && (qty < c.items[i].Quantity || qty > MaxQuantity) {
		qty = MaxQuantity
	}
	if qty > 0 {
		c.items[i].Quantity = qty
		return false
	}

	name := c.items[i].Product.Name
	c.items = append(c.items[:i], c.items[i+1:]...)
	c.notifier.Notify(notify.Info(fmt.Sprintf(msgDropped, name)))
	return true
}

// Total is the sum of price times quantity over the current line items.
func (c *Cart) Total() int64 {
	var total int64
	for _, li := range c.items {
		total += li.Subtotal()
	}
	return total
}

// Count is the number of units in the cart.
func (c *Cart) Count() int {
	n := 0
	for _, li := range c.items {
		n += li.Quantity
	}
	return n
}

// Len is the number of line items.
func (c *Cart) Len() int {
	return len(c.items)
}

// Quantity returns the quantity of productID, zero when absent.
func (c *Cart) Quantity(productID int64) int {
	if i := c.find(productID); i >= 0 {
		return c.items[i].Quantity
	}
	return 0
}

// Items returns a copy of the line items.
func (c *Cart) Items() []models.LineItem {
	out := make([]models.LineItem, len(c.items))
	copy(out, c.items)
	return out
}

// Clear empties the cart without notifying.
func (c *Cart) Clear() {
	c.items = nil
}
