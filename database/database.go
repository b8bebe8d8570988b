package database

import (
	"log"
	"os"

	"loyaltyhub-backend/models"
	"loyaltyhub-backend/registry"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect() (*gorm.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "host=localhost user=postgres password=postgres dbname=loyaltyhub port=5432 sslmode=disable"
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Vendor{},
		&models.Transaction{},
		&models.Reward{},
		&models.RefreshToken{},
	)
}

// SeedDemoVendors registers the demo merchant network on an empty store so
// the customer scan flow has vendors to resolve against. Controlled by
// SEED_DEMO_DATA; a non-empty registry is left untouched.
func SeedDemoVendors(db *gorm.DB) error {
	if os.Getenv("SEED_DEMO_DATA") == "" {
		return nil
	}

	var count int64
	if err := db.Model(&models.Vendor{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	reg := &registry.Registry{DB: db}
	catalog := []struct {
		name, category, phone string
		rewards               []models.Reward
	}{
		{
			name: "Chai Point", category: "Cafe", phone: "9000000001",
			rewards: []models.Reward{
				{Title: "Free Masala Chai", Description: "One cutting chai on the house.", PointsRequired: 100},
			},
		},
		{
			name: "Burger Hub", category: "Fast Food", phone: "9000000002",
			rewards: []models.Reward{
				{Title: "Free Fries Upgrade", Description: "Upgrade any meal to large fries.", PointsRequired: 80},
			},
		},
		{
			name: "Style Studio", category: "Fashion", phone: "9000000003",
			rewards: []models.Reward{
				{Title: "15% Off Accessories", Description: "Flat discount on all accessories.", PointsRequired: 200},
			},
		},
	}

	for _, entry := range catalog {
		vendor, err := reg.RegisterVendor(entry.name, entry.category, entry.phone)
		if err != nil {
			return err
		}
		for _, reward := range entry.rewards {
			reward.VendorID = vendor.ID
			if err := db.Create(&reward).Error; err != nil {
				return err
			}
		}
		log.Printf("Seeded demo merchant: %s", vendor.Name)
	}

	return nil
}
