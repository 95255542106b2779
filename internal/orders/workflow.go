// Package orders owns the order/product state machine. Every product status
// transition out of "available" goes through this package; handlers only
// translate HTTP to calls and errors back to status codes.
//
// Order:   pending -> {completed, cancelled}   (both terminal)
// Product: available -> reserved -> {sold, available}
package orders

import (
	"errors"
	"time"

	"campus_exchange/models"

	"gorm.io/gorm"
)

var (
	ErrNotBuyer           = errors.New("only buyers can place orders")
	ErrProductNotFound    = errors.New("product not found")
	ErrProductUnavailable = errors.New("product is no longer available")
	ErrOwnListing         = errors.New("cannot order your own listing")
	ErrOrderNotFound      = errors.New("order not found")
	ErrNotParty           = errors.New("not a party to this order")
	ErrInvalidStatus      = errors.New("invalid status value")
	ErrNotPending         = errors.New("only pending orders can be updated")
)

// Workflow runs order placement and status transitions against an injected
// gorm handle.
type Workflow struct {
	db *gorm.DB
}

func NewWorkflow(db *gorm.DB) *Workflow {
	return &Workflow{db: db}
}

// PlaceInput carries the buyer-supplied meetup terms.
type PlaceInput struct {
	MeetupLocation string
	MeetupTime     *time.Time
}

// Place creates a pending order against an available listing and reserves
// the listing, atomically as far as concurrent callers can observe. The
// reservation is a conditional update on the product row; if another order
// got there first, zero rows match and the whole transaction rolls back
// with ErrProductUnavailable.
func (w *Workflow) Place(buyer *models.User, productID uint, in PlaceInput) (*models.Order, error) {
	if !buyer.CanBuy() {
		return nil, ErrNotBuyer
	}

	var order models.Order
	err := w.db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		if product.SellerID == buyer.ID {
			return ErrOwnListing
		}
		if product.Status != models.ProductAvailable {
			return ErrProductUnavailable
		}

		res := tx.Model(&models.Product{}).
			Where("id = ? AND status = ?", product.ID, models.ProductAvailable).
			Update("status", models.ProductReserved)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Lost the race against a concurrent Place.
			return ErrProductUnavailable
		}

		order = models.Order{
			BuyerID:        buyer.ID,
			SellerID:       product.SellerID,
			ProductID:      product.ID,
			Price:          product.Price, // snapshot, immutable from here on
			Status:         models.OrderPending,
			MeetupLocation: in.MeetupLocation,
			MeetupTime:     in.MeetupTime,
		}
		return tx.Create(&order).Error
	})
	if err != nil {
		return nil, err
	}

	return w.load(order.ID)
}

// TransitionInput is the patch accepted against a pending order.
type TransitionInput struct {
	Status         string
	MeetupLocation *string
	MeetupTime     *time.Time
}

// Transition is the single code path for every order status change; both the
// PATCH and DELETE endpoints funnel into it. Only pending orders may move,
// and only to a terminal state. Completing sells the listing; cancelling
// releases it back to available.
func (w *Workflow) Transition(orderID uint, requester *models.User, in TransitionInput) (*models.Order, error) {
	order, err := w.Get(orderID, requester)
	if err != nil {
		return nil, err
	}

	if in.Status == "" || !models.ValidOrderStatus(in.Status) {
		return nil, ErrInvalidStatus
	}
	if in.Status == models.OrderPending {
		// No-op transitions are rejected rather than silently accepted.
		return nil, ErrInvalidStatus
	}

	err = w.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"status": in.Status}
		if in.MeetupLocation != nil {
			updates["meetup_location"] = *in.MeetupLocation
		}
		if in.MeetupTime != nil {
			updates["meetup_time"] = *in.MeetupTime
		}

		// Conditional on the order still being pending, so two concurrent
		// transitions cannot both win and the terminal states stay terminal.
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", order.ID, models.OrderPending).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotPending
		}

		productStatus := models.ProductSold
		if in.Status == models.OrderCancelled {
			productStatus = models.ProductAvailable
		}
		return tx.Model(&models.Product{}).
			Where("id = ?", order.ProductID).
			Update("status", productStatus).Error
	})
	if err != nil {
		return nil, err
	}

	return w.load(order.ID)
}

// Cancel is the DELETE entry point. Same path as Transition; it exists so
// the handler can keep the pending-only contract explicit.
func (w *Workflow) Cancel(orderID uint, requester *models.User) (*models.Order, error) {
	return w.Transition(orderID, requester, TransitionInput{Status: models.OrderCancelled})
}

// Get returns the order if the requester is its buyer or seller.
func (w *Workflow) Get(orderID uint, requester *models.User) (*models.Order, error) {
	order, err := w.load(orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != requester.ID && order.SellerID != requester.ID {
		return nil, ErrNotParty
	}
	return order, nil
}

// ListForBuyer returns the requester's orders as a buyer, newest first.
func (w *Workflow) ListForBuyer(requester *models.User) ([]models.Order, error) {
	return w.list("buyer_id = ?", requester.ID)
}

// ListForSeller returns the requester's orders as a seller, newest first.
func (w *Workflow) ListForSeller(requester *models.User) ([]models.Order, error) {
	return w.list("seller_id = ?", requester.ID)
}

func (w *Workflow) list(cond string, id uint) ([]models.Order, error) {
	var orders []models.Order
	err := w.db.Preload("Product").
		Preload("Buyer").
		Preload("Seller").
		Where(cond, id).
		Order("created_at desc").
		Find(&orders).Error
	return orders, err
}

func (w *Workflow) load(orderID uint) (*models.Order, error) {
	var order models.Order
	err := w.db.Preload("Product").
		Preload("Buyer").
		Preload("Seller").
		First(&order, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}
