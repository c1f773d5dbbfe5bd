package api

import (
	"fmt"
	"menu_system/internal/domain"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newMenuRouter wires the menu routes without the auth gate
func newMenuRouter(db *gorm.DB, rdb *redis.Client) *gin.Engine {
	r := gin.New()
	r.GET("/api/menu", ListMenuHandler(db, rdb, false))
	r.GET("/api/menu/:id", GetMenuItemHandler(db, false))
	r.POST("/api/menu", CreateMenuItemHandler(db, rdb, false))
	r.PUT("/api/menu/:id", UpdateMenuItemHandler(db, rdb, false))
	r.DELETE("/api/menu/:id", DeleteMenuItemHandler(db, rdb, false))
	r.PATCH("/api/menu/:id/availability", ToggleAvailabilityHandler(db, rdb, false))
	return r
}

func TestCreateMenuItemRoundsPrice(t *testing.T) {
	db := newTestDB(t)
	r := newMenuRouter(db, newTestRedis(t))
	category := mustCreateCategory(t, db, "Desserts", 3)

	w := doJSON(r, http.MethodPost, "/api/menu", gin.H{
		"name":        "Tiramisu",
		"description": "Classic Italian dessert",
		"price":       8.999,
		"category":    category.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created domain.MenuItem
	env := decodeData(t, w, &created)
	assert.True(t, env.Success)
	assert.NotZero(t, created.ID)
	// 8.999 is stored as 9.00
	assert.Equal(t, 9.0, created.Price)
	assert.True(t, created.IsAvailable)
	require.NotNil(t, created.Category)
	assert.Equal(t, "Desserts", created.Category.Name)
}

func TestCreateMenuItemValidation(t *testing.T) {
	db := newTestDB(t)
	r := newMenuRouter(db, newTestRedis(t))

	// Missing name, description, price and category are all reported
	w := doJSON(r, http.MethodPost, "/api/menu", gin.H{})
	require.Equal(t, http.StatusBadRequest, w.Code)

	env := decodeEnvelope(t, w)
	assert.Equal(t, "Validation failed", env.Message)
	assert.ElementsMatch(t, []string{"name", "description", "price", "category"}, fieldNames(env.Errors))
}

func TestCreateMenuItemNegativePrice(t *testing.T) {
	db := newTestDB(t)
	r := newMenuRouter(db, newTestRedis(t))
	category := mustCreateCategory(t, db, "Desserts", 3)

	w := doJSON(r, http.MethodPost, "/api/menu", gin.H{
		"name":        "Tiramisu",
		"description": "Classic Italian dessert",
		"price":       -1.0,
		"category":    category.ID,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.ElementsMatch(t, []string{"price"}, fieldNames(decodeEnvelope(t, w).Errors))
}

func TestCreateMenuItemInvalidAllergen(t *testing.T) {
	db := newTestDB(t)
	r := newMenuRouter(db, newTestRedis(t))
	category := mustCreateCategory(t, db, "Desserts", 3)

	w := doJSON(r, http.MethodPost, "/api/menu", gin.H{
		"name":        "Tiramisu",
		"description": "Classic Italian dessert",
		"price":       8.99,
		"category":    category.ID,
		"allergens":   []string{"dairy", "plutonium"},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.ElementsMatch(t, []string{"allergens"}, fieldNames(decodeEnvelope(t, w).Errors))
}

func TestCreateMenuItemDanglingCategory(t *testing.T) {
	db := newTestDB(t)
	r := newMenuRouter(db, newTestRedis(t))

	w := doJSON(r, http.MethodPost, "/api/menu", gin.H{
		"name":        "Tiramisu",
		"description": "Classic Italian dessert",
		"price":       8.99,
		"category":    987,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Category not found", decodeEnvelope(t, w).Message)
}

func TestCreateMenuItemNameConflictWithinCategory(t *testing.T) {
	db := newTestDB(t)
	r := newMenuRouter(db, newTestRedis(t))
	category := mustCreateCategory(t, db, "Appetizers", 1)
	mustCreateItem(t, db, category.ID, "Soup", 6.5)

	// Same name differing only in case, same category
	w := doJSON(r, http.MethodPost, "/api/menu", gin.H{
		"name":        "SOUP",
		"description": "Hot soup",
		"price":       6.5,
		"category":    category.ID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Menu item with this name already exists in this category", decodeEnvelope(t, w).Message)
}

func TestCreateMenuItemSameNameOtherCategory(t *testing.T) {
	db := newTestDB(t)
	r := newMenuRouter(db, newTestRedis(t))
	appetizers := mustCreateCategory(t, db, "Appetizers", 1)
	mains := mustCreateCategory(t, db, "Main Courses", 2)
	mustCreateItem(t, db, appetizers.ID, "Soup", 6.5)

	// The uniqueness rule is scoped to the owning category
	w := doJSON(r, http.MethodPost, "/api/menu", gin.H{
		"name":        "Soup",
		"description": "A bigger soup",
		"price":       9.5,
		"category":    mains.ID,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestListMenuGroupedByCategory(t *testing.T) {
	db := newTestDB(t)
	r := newMenuRouter(db, newTestRedis(t))
	mains := mustCreateCategory(t, db, "Main Courses", 2)
	appetizers := mustCreateCategory(t, db, "Appetizers", 1)
	mustCreateItem(t, db, mains.ID, "Ribeye Steak", 32.99)
	mustCreateItem(t, db, appetizers.ID, "Caesar Salad", 10.99)
	mustCreateItem(t, db, appetizers.ID, "Bruschetta", 12.99)

	w := doJSON(r, http.MethodGet, "/api/menu", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var groups []MenuGroup
	env := decodeData(t, w, &groups)
	assert.Equal(t, 3, env.TotalItems)
	require.Len(t, groups, 2)
	// Groups follow the category display order
	assert.Equal(t, "Appetizers", groups[0].Category.Name)
	assert.Len(t, groups[0].Items, 2)
	assert.Equal(t, "Main Courses", groups[1].Category.Name)
	assert.Len(t, groups[1].Items, 1)
}

func TestListMenuFilterByCategory(t *testing.T) {
	db := newTestDB(t)
	r := newMenuRouter(db, newTestRedis(t))
	desserts := mustCreateCategory(t, db, "Desserts", 3)
	beverages := mustCreateCategory(t, db, "Beverages", 4)
	mustCreateItem(t, db, desserts.ID, "Tiramisu", 8.99)
	mustCreateItem(t, db, beverages.ID, "Espresso", 3.99)

	w := doJSON(r, http.MethodGet, fmt.Sprintf("/api/menu?category=%d", desserts.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var groups []MenuGroup
	env := decodeData(t, w, &groups)
	assert.Equal(t, 1, env.TotalItems)
	require.Len(t, groups, 1)
	assert.Equal(t, "Desserts", groups[0].Category.Name)
	require.Len(t, groups[0].Items, 1)
	assert.Equal(t, "Tiramisu", groups[0].Items[0].Name)
}

func TestListMenuFilterByAvailability(t *testing.T) {
	db := newTestDB(t)
	r := newMenuRouter(db, newTestRedis(t))
	category := mustCreateCategory(t, db, "Desserts", 3)
	mustCreateItem(t, db, category.ID, "Tiramisu", 8.99)
	off := mustCreateItem(t, db, category.ID, "Cheesecake", 7.99)
	require.NoError(t, db.Model(&off).Update("is_available", false).Error)

	w := doJSON(r, http.MethodGet, "/api/menu?available=true", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var groups []MenuGroup
	env := decodeData(t, w, &groups)
	assert.Equal(t, 1, env.TotalItems)
	require.Len(t, groups, 1)
	assert.Equal(t, "Tiramisu", groups[0].Items[0].Name)
}

func TestListMenuSortPriceLow(t *testing.T) {
	db := newTestDB(t)
	r := newMenuRouter(db, newTestRedis(t))
	category := mustCreateCategory(t, db, "Desserts", 3)
	mustCreateItem(t, db, category.ID, "Tiramisu", 8.99)
	mustCreateItem(t, db, category.ID, "Cheesecake", 7.99)
	mustCreateItem(t, db, category.ID, "Lava Cake", 9.99)

	w := doJSON(r, http.MethodGet, "/api/menu?sort=price-low", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var groups []MenuGroup
	decodeData(t, w, &groups)
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Items, 3)
	assert.Equal(t, "Cheesecake", groups[0].Items[0].Name)
	assert.Equal(t, "Tiramisu", groups[0].Items[1].Name)
	assert.Equal(t, "Lava Cake", groups[0].Items[2].Name)
}

func TestListMenuInvalidCategoryFilter(t *testing.T) {
	db := newTestDB(t)
	r := newMenuRouter(db, newTestRedis(t))

	w := doJSON(r, http.MethodGet, "/api/menu?category=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetMenuItem(t *testing.T) {
	db := newTestDB(t)
	r := newMenuRouter(db, newTestRedis(t))
	category := mustCreateCategory(t, db, "Desserts", 3)
	item := mustCreateItem(t, db, category.ID, "Tiramisu", 8.99)

	w := doJSON(r, http.MethodGet, fmt.Sprintf("/api/menu/%d", item.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got domain.MenuItem
	decodeData(t, w, &got)
	assert.Equal(t, item.ID, got.ID)
	require.NotNil(t, got.Category)
	assert.Equal(t, "Desserts", got.Category.Name)
}

func TestGetMenuItemNotFound(t *testing.T) {
	db := newTestDB(t)
	r := newMenuRouter(db, newTestRedis(t))

	w := doJSON(r, http.MethodGet, "/api/menu/12345", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Menu item not found", decodeEnvelope(t, w).Message)
}

func TestUpdateMenuItemPartial(t *testing.T) {
	db := newTestDB(t)
	r := newMenuRouter(db, newTestRedis(t))
	category := mustCreateCategory(t, db, "Desserts", 3)
	item := mustCreateItem(t, db, category.ID, "Tiramisu", 8.99)

	// Only the price is present, everything else must stay untouched
	w := doJSON(r, http.MethodPut, fmt.Sprintf("/api/menu/%d", item.ID), gin.H{"price": 10.999})
	require.Equal(t, http.StatusOK, w.Code)

	var got domain.MenuItem
	decodeData(t, w, &got)
	assert.Equal(t, "Tiramisu", got.Name)
	assert.Equal(t, 11.0, got.Price) // Rounded to cents on write
	assert.True(t, got.IsAvailable)
}

func TestUpdateMenuItemUnknownField(t *testing.T) {
	db := newTestDB(t)
	r := newMenuRouter(db, newTestRedis(t))
	category := mustCreateCategory(t, db, "Desserts", 3)
	item := mustCreateItem(t, db, category.ID, "Tiramisu", 8.99)

	w := doJSON(r, http.MethodPut, fmt.Sprintf("/api/menu/%d", item.ID), gin.H{"createdAt": "2020-01-01"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.ElementsMatch(t, []string{"createdAt"}, fieldNames(decodeEnvelope(t, w).Errors))
}

func TestUpdateMenuItemDanglingCategory(t *testing.T) {
	db := newTestDB(t)
	r := newMenuRouter(db, newTestRedis(t))
	category := mustCreateCategory(t, db, "Desserts", 3)
	item := mustCreateItem(t, db, category.ID, "Tiramisu", 8.99)

	w := doJSON(r, http.MethodPut, fmt.Sprintf("/api/menu/%d", item.ID), gin.H{"category": 987})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Category not found", decodeEnvelope(t, w).Message)
}

func TestUpdateMenuItemRenameConflict(t *testing.T) {
	db := newTestDB(t)
	r := newMenuRouter(db, newTestRedis(t))
	category := mustCreateCategory(t, db, "Desserts", 3)
	mustCreateItem(t, db, category.ID, "Tiramisu", 8.99)
	item := mustCreateItem(t, db, category.ID, "Cheesecake", 7.99)

	w := doJSON(r, http.MethodPut, fmt.Sprintf("/api/menu/%d", item.ID), gin.H{"name": "TIRAMISU"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Menu item with this name already exists in this category", decodeEnvelope(t, w).Message)
}

func TestUpdateMenuItemMoveToOtherCategory(t *testing.T) {
	db := newTestDB(t)
	r := newMenuRouter(db, newTestRedis(t))
	desserts := mustCreateCategory(t, db, "Desserts", 3)
	beverages := mustCreateCategory(t, db, "Beverages", 4)
	item := mustCreateItem(t, db, desserts.ID, "Affogato", 6.99)

	w := doJSON(r, http.MethodPut, fmt.Sprintf("/api/menu/%d", item.ID), gin.H{"category": beverages.ID})
	require.Equal(t, http.StatusOK, w.Code)

	var got domain.MenuItem
	decodeData(t, w, &got)
	assert.Equal(t, beverages.ID, got.CategoryID)
	require.NotNil(t, got.Category)
	assert.Equal(t, "Beverages", got.Category.Name)
}

func TestDeleteMenuItem(t *testing.T) {
	db := newTestDB(t)
	r := newMenuRouter(db, newTestRedis(t))
	category := mustCreateCategory(t, db, "Desserts", 3)
	item := mustCreateItem(t, db, category.ID, "Tiramisu", 8.99)

	// Item deletion is unconditional
	w := doJSON(r, http.MethodDelete, fmt.Sprintf("/api/menu/%d", item.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, fmt.Sprintf("/api/menu/%d", item.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteMenuItemNotFound(t *testing.T) {
	db := newTestDB(t)
	r := newMenuRouter(db, newTestRedis(t))

	w := doJSON(r, http.MethodDelete, "/api/menu/12345", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestToggleAvailability(t *testing.T) {
	db := newTestDB(t)
	r := newMenuRouter(db, newTestRedis(t))
	category := mustCreateCategory(t, db, "Desserts", 3)
	item := mustCreateItem(t, db, category.ID, "Tiramisu", 8.99)

	var data struct {
		IsAvailable bool `json:"isAvailable"`
	}

	// First toggle flips availability off
	w := doJSON(r, http.MethodPatch, fmt.Sprintf("/api/menu/%d/availability", item.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	env := decodeData(t, w, &data)
	assert.False(t, data.IsAvailable)
	assert.Contains(t, env.Message, "disabled")

	// Toggling twice returns the item to its original state
	w = doJSON(r, http.MethodPatch, fmt.Sprintf("/api/menu/%d/availability", item.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	env = decodeData(t, w, &data)
	assert.True(t, data.IsAvailable)
	assert.Contains(t, env.Message, "enabled")
}

func TestToggleAvailabilityNotFound(t *testing.T) {
	db := newTestDB(t)
	r := newMenuRouter(db, newTestRedis(t))

	w := doJSON(r, http.MethodPatch, "/api/menu/12345/availability", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
