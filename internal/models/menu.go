package models

type MenuCategory string

const (
	MenuFood    MenuCategory = "food"
	MenuDrink   MenuCategory = "drink"
	MenuDessert MenuCategory = "dessert"
)

type MenuItem struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Price       float64      `json:"price"`
	Category    MenuCategory `json:"category"`
	ImageURL    string       `json:"image_url"`
}

// OrderLine references a menu item with a quantity when the restaurant
// places an order against a stay.
type OrderLine struct {
	MenuItemID string `json:"menu_item_id"`
	Quantity   int    `json:"quantity"`
}
