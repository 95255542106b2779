package config

import (
	"log"

	"campus_exchange/models"
	"campus_exchange/utils"

	"gorm.io/gorm"
)

func SeedUsers(db *gorm.DB) {
	log.Println("🌱 Seeding users...")

	password, _ := utils.HashPassword("password123")

	users := []models.User{
		{
			Name:     "Demo Seller",
			Email:    "seller@campus.test",
			Password: password,
			UserType: models.UserTypeSeller,
			College:  "Engineering",
		},
		{
			Name:     "Demo Buyer",
			Email:    "buyer@campus.test",
			Password: password,
			UserType: models.UserTypeBuyer,
			College:  "Sciences",
		},
		{
			Name:     "Demo Trader",
			Email:    "trader@campus.test",
			Password: password,
			UserType: models.UserTypeBoth,
			College:  "Business",
		},
	}

	for _, user := range users {
		var existingUser models.User
		if err := db.Where("email = ?", user.Email).First(&existingUser).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				if err := db.Create(&user).Error; err != nil {
					log.Printf("Failed to seed user %s: %v", user.Email, err)
				} else {
					log.Printf("User seeded: %s (ID: %d)", user.Email, user.ID)
				}
			}
		} else {
			log.Printf("User already exists: %s", user.Email)
		}
	}

	log.Println("✅ Seeding complete.")
}

func SeedProducts(db *gorm.DB) {
	log.Println("🌱 Seeding products...")

	var seller models.User
	if err := db.Where("email = ?", "seller@campus.test").First(&seller).Error; err != nil {
		log.Printf("Seed seller missing, skipping product seed: %v", err)
		return
	}

	products := []models.Product{
		{
			SellerID:    seller.ID,
			Title:       "Calculus Early Transcendentals",
			Description: "8th edition, lightly annotated",
			Price:       20,
			Category:    models.CategoryTextbooks,
			Condition:   models.ConditionGood,
			Location:    "North campus library",
			Status:      models.ProductAvailable,
		},
		{
			SellerID:    seller.ID,
			Title:       "TI-84 Plus calculator",
			Description: "Works fine, new batteries included",
			Price:       35,
			Category:    models.CategoryElectronics,
			Condition:   models.ConditionLikeNew,
			Location:    "Student center",
			Status:      models.ProductAvailable,
		},
		{
			SellerID:    seller.ID,
			Title:       "Organic chemistry notes bundle",
			Description: "Full semester, handwritten and scanned",
			Price:       8,
			Category:    models.CategoryNotes,
			Condition:   models.ConditionFair,
			Status:      models.ProductAvailable,
		},
	}

	for _, product := range products {
		var existing models.Product
		err := db.Where("seller_id = ? AND title = ?", product.SellerID, product.Title).
			First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			if err := db.Create(&product).Error; err != nil {
				log.Printf("Failed to seed product %s: %v", product.Title, err)
			}
		}
	}

	log.Println("✅ Product seeding complete.")
}
