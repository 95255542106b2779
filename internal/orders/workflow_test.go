package orders

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"campus_exchange/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", filepath.Join(t.TempDir(), "orders.db"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Product{}, &models.Order{}))
	return db
}

func newUser(t *testing.T, db *gorm.DB, email, userType string) *models.User {
	t.Helper()

	user := &models.User{
		Name:     "Test " + email,
		Email:    email,
		Password: "irrelevant-hash",
		UserType: userType,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func newProduct(t *testing.T, db *gorm.DB, seller *models.User, price float64) *models.Product {
	t.Helper()

	product := &models.Product{
		SellerID:    seller.ID,
		Title:       "Calculus textbook",
		Description: "Barely used",
		Price:       price,
		Category:    models.CategoryTextbooks,
		Condition:   models.ConditionGood,
		Status:      models.ProductAvailable,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func productStatus(t *testing.T, db *gorm.DB, id uint) string {
	t.Helper()

	var product models.Product
	require.NoError(t, db.First(&product, id).Error)
	return product.Status
}

func TestPlace(t *testing.T) {
	db := newTestDB(t)
	w := NewWorkflow(db)
	seller := newUser(t, db, "seller@campus.test", models.UserTypeSeller)
	buyer := newUser(t, db, "buyer@campus.test", models.UserTypeBuyer)

	t.Run("ReservesListingAndSnapshotsPrice", func(t *testing.T) {
		product := newProduct(t, db, seller, 20)

		order, err := w.Place(buyer, product.ID, PlaceInput{MeetupLocation: "Library steps"})
		require.NoError(t, err)

		assert.Equal(t, models.OrderPending, order.Status)
		assert.Equal(t, buyer.ID, order.BuyerID)
		assert.Equal(t, seller.ID, order.SellerID)
		assert.Equal(t, 20.0, order.Price)
		assert.Equal(t, models.ProductReserved, productStatus(t, db, product.ID))

		// A later price change must not leak into the snapshot.
		require.NoError(t, db.Model(&models.Product{}).Where("id = ?", product.ID).Update("price", 99).Error)
		got, err := w.Get(order.ID, buyer)
		require.NoError(t, err)
		assert.Equal(t, 20.0, got.Price)
	})

	t.Run("SellerRoleCannotBuy", func(t *testing.T) {
		product := newProduct(t, db, seller, 10)
		other := newUser(t, db, "other-seller@campus.test", models.UserTypeSeller)

		_, err := w.Place(other, product.ID, PlaceInput{})
		assert.ErrorIs(t, err, ErrNotBuyer)
		assert.Equal(t, models.ProductAvailable, productStatus(t, db, product.ID))
	})

	t.Run("MissingProduct", func(t *testing.T) {
		_, err := w.Place(buyer, 99999, PlaceInput{})
		assert.ErrorIs(t, err, ErrProductNotFound)
	})

	t.Run("OwnListing", func(t *testing.T) {
		trader := newUser(t, db, "trader@campus.test", models.UserTypeBoth)
		product := newProduct(t, db, trader, 15)

		_, err := w.Place(trader, product.ID, PlaceInput{})
		assert.ErrorIs(t, err, ErrOwnListing)
		assert.Equal(t, models.ProductAvailable, productStatus(t, db, product.ID))
	})

	t.Run("UnavailableListingConflicts", func(t *testing.T) {
		product := newProduct(t, db, seller, 12)
		_, err := w.Place(buyer, product.ID, PlaceInput{})
		require.NoError(t, err)

		second := newUser(t, db, "buyer2@campus.test", models.UserTypeBuyer)
		_, err = w.Place(second, product.ID, PlaceInput{})
		assert.ErrorIs(t, err, ErrProductUnavailable)
		assert.Equal(t, models.ProductReserved, productStatus(t, db, product.ID))
	})
}

func TestPlaceConcurrent(t *testing.T) {
	db := newTestDB(t)
	w := NewWorkflow(db)
	seller := newUser(t, db, "seller@campus.test", models.UserTypeSeller)
	product := newProduct(t, db, seller, 25)

	const racers = 4
	buyers := make([]*models.User, racers)
	for i := range buyers {
		buyers[i] = newUser(t, db, fmt.Sprintf("buyer%d@campus.test", i), models.UserTypeBuyer)
	}

	var wg sync.WaitGroup
	errs := make([]error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = w.Place(buyers[i], product.ID, PlaceInput{})
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, ErrProductUnavailable)
		}
	}
	assert.Equal(t, 1, wins, "exactly one concurrent order may reserve the listing")
	assert.Equal(t, models.ProductReserved, productStatus(t, db, product.ID))

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Where("product_id = ?", product.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestTransition(t *testing.T) {
	db := newTestDB(t)
	w := NewWorkflow(db)
	seller := newUser(t, db, "seller@campus.test", models.UserTypeSeller)
	buyer := newUser(t, db, "buyer@campus.test", models.UserTypeBuyer)
	stranger := newUser(t, db, "stranger@campus.test", models.UserTypeBoth)

	place := func(t *testing.T) (*models.Order, *models.Product) {
		product := newProduct(t, db, seller, 20)
		order, err := w.Place(buyer, product.ID, PlaceInput{})
		require.NoError(t, err)
		return order, product
	}

	t.Run("CompletedSellsListing", func(t *testing.T) {
		order, product := place(t)

		got, err := w.Transition(order.ID, seller, TransitionInput{Status: models.OrderCompleted})
		require.NoError(t, err)
		assert.Equal(t, models.OrderCompleted, got.Status)
		assert.Equal(t, models.ProductSold, productStatus(t, db, product.ID))
	})

	t.Run("CancelledReleasesListing", func(t *testing.T) {
		order, product := place(t)

		got, err := w.Transition(order.ID, buyer, TransitionInput{Status: models.OrderCancelled})
		require.NoError(t, err)
		assert.Equal(t, models.OrderCancelled, got.Status)
		assert.Equal(t, models.ProductAvailable, productStatus(t, db, product.ID))
	})

	t.Run("MeetupPatchApplied", func(t *testing.T) {
		order, _ := place(t)
		loc := "Cafeteria, table 4"

		got, err := w.Transition(order.ID, buyer, TransitionInput{
			Status:         models.OrderCompleted,
			MeetupLocation: &loc,
		})
		require.NoError(t, err)
		assert.Equal(t, loc, got.MeetupLocation)
	})

	t.Run("StrangerRejected", func(t *testing.T) {
		order, _ := place(t)

		_, err := w.Transition(order.ID, stranger, TransitionInput{Status: models.OrderCompleted})
		assert.ErrorIs(t, err, ErrNotParty)

		_, err = w.Get(order.ID, stranger)
		assert.ErrorIs(t, err, ErrNotParty)

		_, err = w.Cancel(order.ID, stranger)
		assert.ErrorIs(t, err, ErrNotParty)
	})

	t.Run("UnknownStatusRejected", func(t *testing.T) {
		order, _ := place(t)

		_, err := w.Transition(order.ID, buyer, TransitionInput{Status: "shipped"})
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("PendingNoOpRejected", func(t *testing.T) {
		order, _ := place(t)

		_, err := w.Transition(order.ID, buyer, TransitionInput{Status: models.OrderPending})
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("TerminalStatesStayTerminal", func(t *testing.T) {
		order, product := place(t)
		_, err := w.Transition(order.ID, seller, TransitionInput{Status: models.OrderCompleted})
		require.NoError(t, err)

		_, err = w.Transition(order.ID, buyer, TransitionInput{Status: models.OrderCancelled})
		assert.ErrorIs(t, err, ErrNotPending)
		// The failed cancel must not have released the sold listing.
		assert.Equal(t, models.ProductSold, productStatus(t, db, product.ID))

		_, err = w.Cancel(order.ID, buyer)
		assert.ErrorIs(t, err, ErrNotPending)
	})

	t.Run("MissingOrder", func(t *testing.T) {
		_, err := w.Transition(99999, buyer, TransitionInput{Status: models.OrderCancelled})
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestCancel(t *testing.T) {
	db := newTestDB(t)
	w := NewWorkflow(db)
	seller := newUser(t, db, "seller@campus.test", models.UserTypeSeller)
	buyer := newUser(t, db, "buyer@campus.test", models.UserTypeBuyer)
	product := newProduct(t, db, seller, 18)

	order, err := w.Place(buyer, product.ID, PlaceInput{})
	require.NoError(t, err)

	got, err := w.Cancel(order.ID, seller)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, got.Status)
	assert.Equal(t, models.ProductAvailable, productStatus(t, db, product.ID))

	// A released listing can be ordered again; the old order keeps its state.
	again, err := w.Place(buyer, product.ID, PlaceInput{})
	require.NoError(t, err)
	assert.NotEqual(t, order.ID, again.ID)

	old, err := w.Get(order.ID, buyer)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, old.Status)
}

func TestLists(t *testing.T) {
	db := newTestDB(t)
	w := NewWorkflow(db)
	seller := newUser(t, db, "seller@campus.test", models.UserTypeSeller)
	buyer := newUser(t, db, "buyer@campus.test", models.UserTypeBuyer)

	for i := 0; i < 3; i++ {
		product := newProduct(t, db, seller, float64(10+i))
		_, err := w.Place(buyer, product.ID, PlaceInput{})
		require.NoError(t, err)
	}

	bought, err := w.ListForBuyer(buyer)
	require.NoError(t, err)
	assert.Len(t, bought, 3)

	sold, err := w.ListForSeller(seller)
	require.NoError(t, err)
	assert.Len(t, sold, 3)

	none, err := w.ListForBuyer(seller)
	require.NoError(t, err)
	assert.Empty(t, none)
}
