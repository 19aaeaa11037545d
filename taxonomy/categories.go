package taxonomy

// Category ids used across the client. The ids are wire values; renaming
// one is an API change.
const (
	CategoryProperty    = "property"
	CategoryVehicles    = "vehicles"
	CategoryElectronics = "electronics"
	CategoryHome        = "home-garden"
	CategoryFashion     = "fashion"
)

// categories is the top-level category tree in display order.
var categories = []Category{
	{
		ID:   CategoryProperty,
		Name: "Property",
		Subcategories: []Subcategory{
			{ID: "apartments-rent", Name: "Apartments for Rent"},
			{ID: "apartments-sale", Name: "Apartments for Sale"},
			{ID: "houses-rent", Name: "Houses for Rent"},
			{ID: "houses-sale", Name: "Houses for Sale"},
			{ID: "land", Name: "Land & Plots"},
			{ID: "commercial", Name: "Commercial Property"},
		},
	},
	{
		ID:   CategoryVehicles,
		Name: "Vehicles",
		Subcategories: []Subcategory{
			{ID: "cars", Name: "Cars"},
			{ID: "motorcycles", Name: "Motorcycles"},
			{ID: "trucks", Name: "Trucks & Commercial"},
			{ID: "parts", Name: "Parts & Accessories"},
		},
	},
	{
		ID:   CategoryElectronics,
		Name: "Electronics",
		Subcategories: []Subcategory{
			{ID: "phones", Name: "Phones & Tablets"},
			{ID: "computers", Name: "Computers & Laptops"},
			{ID: "tv-audio", Name: "TV & Audio"},
			{ID: "appliances", Name: "Home Appliances"},
		},
	},
	{
		ID:   CategoryHome,
		Name: "Home & Garden",
		Subcategories: []Subcategory{
			{ID: "furniture", Name: "Furniture"},
			{ID: "garden", Name: "Garden & Outdoor"},
			{ID: "tools", Name: "Tools & DIY"},
		},
	},
	{
		ID:   CategoryFashion,
		Name: "Fashion",
		Subcategories: []Subcategory{
			{ID: "clothing", Name: "Clothing"},
			{ID: "shoes", Name: "Shoes"},
			{ID: "accessories", Name: "Accessories"},
		},
	},
}
