package db

import (
	"menu_system/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Logrus for structured logging
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// Seed wipes the catalog and provisions the admin user plus a starter menu.
// At least one user must exist before login can succeed.
func Seed(db *gorm.DB, adminUsername, adminPassword string) error {
	// Clear existing data, items first to respect the foreign key
	if err := db.Where("1 = 1").Delete(&domain.MenuItem{}).Error; err != nil {
		return err
	}
	if err := db.Where("1 = 1").Delete(&domain.Category{}).Error; err != nil {
		return err
	}
	if err := db.Where("1 = 1").Delete(&domain.User{}).Error; err != nil {
		return err
	}
	logrus.Info("Cleared existing data")

	// Create the admin user with a hashed password
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := domain.User{Username: adminUsername, Password: string(hash), Role: "admin"}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	logrus.Info("Admin user created")

	// Create the starter categories
	categories := []domain.Category{
		{Name: "Appetizers", Description: "Start your meal with our delicious appetizers", Order: 1, IsActive: true},
		{Name: "Main Courses", Description: "Our signature main dishes", Order: 2, IsActive: true},
		{Name: "Desserts", Description: "Sweet endings to your meal", Order: 3, IsActive: true},
		{Name: "Beverages", Description: "Refreshing drinks and beverages", Order: 4, IsActive: true},
	}
	for i := range categories {
		categories[i].NameKey = domain.NormalizeName(categories[i].Name) // Uniqueness key
		if err := db.Create(&categories[i]).Error; err != nil {
			return err
		}
	}
	logrus.Info("Categories created")

	appetizers := categories[0].ID // Category IDs for menu items
	mains := categories[1].ID
	desserts := categories[2].ID
	beverages := categories[3].ID

	// Create the starter menu items
	items := []domain.MenuItem{
		{
			Name: "Bruschetta Trio", CategoryID: appetizers, Price: 12.99, Order: 1,
			Description:     "Three slices of toasted ciabatta topped with fresh tomatoes, basil, and mozzarella cheese",
			PreparationTime: 10,
			Ingredients:     []string{"Ciabatta bread", "Tomatoes", "Fresh basil", "Mozzarella", "Olive oil", "Garlic"},
			Allergens:       []string{"gluten", "dairy"},
		},
		{
			Name: "Caesar Salad", CategoryID: appetizers, Price: 10.99, Order: 2,
			Description:     "Fresh romaine lettuce with parmesan cheese, croutons, and our signature caesar dressing",
			PreparationTime: 8,
			Ingredients:     []string{"Romaine lettuce", "Parmesan cheese", "Croutons", "Caesar dressing"},
			Allergens:       []string{"dairy", "eggs", "gluten"},
		},
		{
			Name: "Ribeye Steak", CategoryID: mains, Price: 32.99, Order: 1,
			Description:     "12oz premium ribeye steak grilled to perfection, served with garlic mashed potatoes and seasonal vegetables",
			PreparationTime: 25,
			Ingredients:     []string{"Ribeye steak", "Potatoes", "Garlic", "Butter", "Seasonal vegetables"},
			Allergens:       []string{"dairy"},
			NutritionalInfo: &domain.NutritionalInfo{Calories: 650, Protein: 55, Carbs: 25, Fat: 38},
		},
		{
			Name: "Salmon Piccata", CategoryID: mains, Price: 28.99, Order: 2,
			Description:     "Pan-seared Atlantic salmon with lemon caper sauce, served over creamy risotto",
			PreparationTime: 20,
			Ingredients:     []string{"Atlantic salmon", "Arborio rice", "Capers", "Lemon", "White wine", "Parmesan"},
			Allergens:       []string{"seafood", "dairy"},
			NutritionalInfo: &domain.NutritionalInfo{Calories: 580, Protein: 42, Carbs: 35, Fat: 28},
		},
		{
			Name: "Vegetable Curry", CategoryID: mains, Price: 19.99, Order: 3,
			Description:     "Mixed seasonal vegetables in a rich coconut curry sauce, served with basmati rice",
			PreparationTime: 18,
			Ingredients:     []string{"Mixed vegetables", "Coconut milk", "Curry spices", "Basmati rice", "Cilantro"},
			NutritionalInfo: &domain.NutritionalInfo{Calories: 420, Protein: 12, Carbs: 65, Fat: 18},
		},
		{
			Name: "Tiramisu", CategoryID: desserts, Price: 8.99, Order: 1,
			Description:     "Classic Italian dessert with coffee-soaked ladyfingers, mascarpone cheese, and cocoa powder",
			PreparationTime: 5,
			Ingredients:     []string{"Ladyfingers", "Mascarpone", "Coffee", "Cocoa powder", "Sugar", "Eggs"},
			Allergens:       []string{"gluten", "dairy", "eggs"},
		},
		{
			Name: "Cheesecake", CategoryID: desserts, Price: 7.99, Order: 2,
			Description:     "New York style cheesecake with graham cracker crust and fresh berry compote",
			PreparationTime: 5,
			Ingredients:     []string{"Cream cheese", "Graham crackers", "Mixed berries", "Sugar", "Eggs"},
			Allergens:       []string{"gluten", "dairy", "eggs"},
		},
		{
			Name: "Fresh Orange Juice", CategoryID: beverages, Price: 4.99, Order: 1,
			Description:     "Freshly squeezed orange juice served chilled",
			PreparationTime: 3,
			Ingredients:     []string{"Fresh oranges"},
		},
		{
			Name: "Espresso", CategoryID: beverages, Price: 3.99, Order: 2,
			Description:     "Rich Italian espresso made from premium coffee beans",
			PreparationTime: 3,
			Ingredients:     []string{"Coffee beans"},
		},
	}
	for i := range items {
		items[i].NameKey = domain.NormalizeName(items[i].Name) // Uniqueness key
		items[i].IsAvailable = true                            // Starter items are available
		if err := db.Create(&items[i]).Error; err != nil {
			return err
		}
	}
	logrus.Info("Menu items created")

	logrus.Infof("Seeding completed: 1 user, %d categories, %d menu items", len(categories), len(items))
	logrus.Infof("Login credentials: username=%s", adminUsername)
	return nil
}
