package taxonomy

// conditionOptions is shared by every goods category.
var conditionOptions = []string{"new", "like-new", "good", "fair", "for-parts"}

// schemas maps "category" or "category/subcategory" to an attribute schema.
// A subcategory entry fully replaces the category schema, it is not merged.
var schemas = map[string][]AttributeField{
	CategoryProperty: {
		{Key: "bedrooms", Label: "Bedrooms", Kind: KindInt, Required: true},
		{Key: "bathrooms", Label: "Bathrooms", Kind: KindInt},
		{Key: "size", Label: "Size", Kind: KindDecimal, Required: true, Unit: "m²"},
		{Key: "furnished", Label: "Furnished", Kind: KindBool},
		{Key: "parking", Label: "Parking", Kind: KindBool},
		{Key: "property_type", Label: "Property Type", Kind: KindSelect,
			Options: []string{"apartment", "house", "studio", "duplex", "villa"}},
	},

	// Land has no rooms to count.
	CategoryProperty + "/land": {
		{Key: "size", Label: "Plot Size", Kind: KindDecimal, Required: true, Unit: "m²"},
		{Key: "zoned", Label: "Zoning", Kind: KindSelect,
			Options: []string{"residential", "agricultural", "commercial", "mixed"}},
		{Key: "serviced", Label: "Serviced", Kind: KindBool},
	},

	CategoryProperty + "/commercial": {
		{Key: "size", Label: "Floor Area", Kind: KindDecimal, Required: true, Unit: "m²"},
		{Key: "use", Label: "Permitted Use", Kind: KindSelect,
			Options: []string{"office", "retail", "warehouse", "industrial"}},
		{Key: "parking", Label: "Parking", Kind: KindBool},
	},

	CategoryVehicles: {
		{Key: "make", Label: "Make", Kind: KindText, Required: true},
		{Key: "model", Label: "Model", Kind: KindText, Required: true},
		{Key: "year", Label: "Year", Kind: KindInt, Required: true},
		{Key: "mileage", Label: "Mileage", Kind: KindInt, Unit: "km"},
		{Key: "fuel", Label: "Fuel", Kind: KindSelect,
			Options: []string{"petrol", "diesel", "hybrid", "electric"}},
		{Key: "transmission", Label: "Transmission", Kind: KindSelect,
			Options: []string{"manual", "automatic"}},
		{Key: "condition", Label: "Condition", Kind: KindSelect, Options: conditionOptions},
	},

	// Parts are goods, not whole vehicles.
	CategoryVehicles + "/parts": {
		{Key: "part_for", Label: "Fits", Kind: KindText},
		{Key: "condition", Label: "Condition", Kind: KindSelect, Required: true,
			Options: conditionOptions},
	},

	CategoryElectronics: {
		{Key: "brand", Label: "Brand", Kind: KindText, Required: true},
		{Key: "model", Label: "Model", Kind: KindText},
		{Key: "condition", Label: "Condition", Kind: KindSelect, Required: true,
			Options: conditionOptions},
		{Key: "warranty", Label: "Under Warranty", Kind: KindBool},
	},

	CategoryHome: {
		{Key: "condition", Label: "Condition", Kind: KindSelect, Required: true,
			Options: conditionOptions},
		{Key: "material", Label: "Material", Kind: KindText},
	},

	CategoryFashion: {
		{Key: "size", Label: "Size", Kind: KindText},
		{Key: "brand", Label: "Brand", Kind: KindText},
		{Key: "condition", Label: "Condition", Kind: KindSelect, Required: true,
			Options: conditionOptions},
	},
}
