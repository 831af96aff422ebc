package main

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"ravintola/internal/database"
	"ravintola/internal/domain"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "ravintola.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM delivery_order_items")
	db.Exec("DELETE FROM delivery_orders")
	db.Exec("DELETE FROM reservation_items")
	db.Exec("DELETE FROM reservations")
	db.Exec("DELETE FROM delivery_coupons")
	db.Exec("DELETE FROM delivery_promotions")
	db.Exec("DELETE FROM fee_policies")
	db.Exec("DELETE FROM contact_messages")
	db.Exec("DELETE FROM menu_items")
	db.Exec("DELETE FROM categories")
	db.Exec("DELETE FROM users")

	// ================== USERS ==================
	log.Println("Creating users...")

	staffHash, _ := bcrypt.GenerateFromPassword([]byte("staff123"), bcrypt.DefaultCost)
	staff := domain.User{
		Email:        "staff@ravintola.fi",
		PasswordHash: string(staffHash),
		Name:         "Kitchen Staff",
		Role:         domain.RoleStaff,
	}
	db.Create(&staff)

	customerHash, _ := bcrypt.GenerateFromPassword([]byte("customer123"), bcrypt.DefaultCost)
	customer := domain.User{
		Email:        "asiakas@example.fi",
		PasswordHash: string(customerHash),
		Name:         "Matti Meikäläinen",
		Phone:        "+358 40 123 4567",
		Role:         domain.RoleCustomer,
	}
	db.Create(&customer)

	// ================== MENU ==================
	log.Println("Creating menu...")

	categories := []domain.Category{
		{Name: "Starters", Slug: "starters", IsActive: true, Order: 1},
		{Name: "Mains", Slug: "mains", IsActive: true, Order: 2},
		{Name: "Pizza", Slug: "pizza", IsActive: true, Order: 3},
		{Name: "Desserts", Slug: "desserts", IsActive: true, Order: 4},
		{Name: "Drinks", Slug: "drinks", IsActive: true, Order: 5},
	}
	for i := range categories {
		db.Create(&categories[i])
	}

	items := []domain.MenuItem{
		{Name: "Garlic Bread", CategoryID: categories[0].ID, Price: decimal.NewFromFloat(5.90), Description: "Toasted sourdough, garlic butter", Tags: "vegetarian", Allergens: "gluten,milk", Status: domain.MenuItemActive},
		{Name: "Salmon Soup", CategoryID: categories[0].ID, Price: decimal.NewFromFloat(9.50), Description: "Creamy lohikeitto with rye bread", Tags: "popular", Allergens: "fish,milk,gluten", Status: domain.MenuItemActive},
		{Name: "Grilled Salmon", CategoryID: categories[1].ID, Price: decimal.NewFromFloat(18.90), Description: "With seasonal vegetables", Tags: "popular,gluten-free", Allergens: "fish", Status: domain.MenuItemActive},
		{Name: "Beef Burger", CategoryID: categories[1].ID, Price: decimal.NewFromFloat(15.50), Description: "Brioche bun, cheddar, fries", Tags: "popular", Allergens: "gluten,milk,egg", Status: domain.MenuItemActive},
		{Name: "Wild Mushroom Risotto", CategoryID: categories[1].ID, Price: decimal.NewFromFloat(14.90), Description: "Arborio rice, forest mushrooms", Tags: "vegetarian,gluten-free", Allergens: "milk", Status: domain.MenuItemActive},
		{Name: "Margherita", CategoryID: categories[2].ID, Price: decimal.NewFromFloat(11.90), Description: "Tomato, mozzarella, basil", Tags: "vegetarian", Allergens: "gluten,milk", Status: domain.MenuItemActive},
		{Name: "Pepperoni", CategoryID: categories[2].ID, Price: decimal.NewFromFloat(13.90), Description: "Double pepperoni, mozzarella", Tags: "popular", Allergens: "gluten,milk", Status: domain.MenuItemActive},
		{Name: "Seasonal Special Pizza", CategoryID: categories[2].ID, Price: decimal.NewFromFloat(16.90), Description: "Ask the kitchen", Status: domain.MenuItemHidden},
		{Name: "Chocolate Lava Cake", CategoryID: categories[3].ID, Price: decimal.NewFromFloat(7.90), Description: "Vanilla ice cream", Tags: "popular,vegetarian", Allergens: "gluten,milk,egg", Status: domain.MenuItemActive},
		{Name: "Blueberry Pie", CategoryID: categories[3].ID, Price: decimal.NewFromFloat(6.50), Description: "With vanilla sauce", Tags: "vegetarian", Allergens: "gluten,milk", Status: domain.MenuItemSoldOut},
		{Name: "Lemonade", CategoryID: categories[4].ID, Price: decimal.NewFromFloat(3.90), Description: "House made", Tags: "vegan", Status: domain.MenuItemActive},
		{Name: "Coffee", CategoryID: categories[4].ID, Price: decimal.NewFromFloat(2.90), Tags: "vegan", Status: domain.MenuItemActive},
	}
	for i := range items {
		db.Create(&items[i])
	}

	// ================== PRICING ==================
	log.Println("Creating pricing data...")

	policy := domain.FeePolicy{
		BaseKm:   2.0,
		BaseFee:  decimal.Zero,
		PerKmFee: decimal.NewFromFloat(0.99),
		MaxFee:   decimal.NewFromFloat(8.99),
		IsActive: true,
	}
	db.Create(&policy)

	now := time.Now()
	promoEnd := now.AddDate(0, 1, 0)
	promotion := domain.DeliveryPromotion{
		Title:        "Free delivery over 30€",
		IsActive:     true,
		StartAt:      &now,
		EndAt:        &promoEnd,
		MinSubtotal:  decimal.NewFromInt(30),
		FreeDelivery: true,
	}
	db.Create(&promotion)

	hundred := 100
	coupons := []domain.DeliveryCoupon{
		{Code: "WELCOME10", IsActive: true, DiscountType: domain.DiscountPercent, DiscountValue: decimal.NewFromInt(10), MaxUses: &hundred},
		{Code: "FIVER", IsActive: true, DiscountType: domain.DiscountFixed, DiscountValue: decimal.NewFromInt(5), MinSubtotal: decimal.NewFromInt(25)},
		{Code: "FREESHIP", IsActive: true, DiscountType: domain.DiscountFreeDelivery, MinSubtotal: decimal.NewFromInt(20)},
	}
	for i := range coupons {
		db.Create(&coupons[i])
	}

	log.Println("Seed complete.")
	log.Println("Staff login:    staff@ravintola.fi / staff123")
	log.Println("Customer login: asiakas@example.fi / customer123")
}
