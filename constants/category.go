package constants

import "strings"

// Category is a bookkeeping expense category.
type Category string

const (
	AdvertisingMarketing  Category = "Advertising & Marketing"
	BankFees              Category = "Bank Fees"
	CarTruck              Category = "Car & Truck"
	ContractLabor         Category = "Contract Labor"
	Equipment             Category = "Equipment"
	Fuel                  Category = "Fuel"
	Insurance             Category = "Insurance"
	Meals                 Category = "Meals"
	OfficeSupplies        Category = "Office Supplies"
	Other                 Category = "Other"
	Rent                  Category = "Rent"
	RepairsMaintenance    Category = "Repairs & Maintenance"
	SoftwareSubscriptions Category = "Software & Subscriptions"
	Supplies              Category = "Supplies"
	Travel                Category = "Travel"
	Utilities             Category = "Utilities"
)

var allCategories = []Category{
	AdvertisingMarketing,
	BankFees,
	CarTruck,
	ContractLabor,
	Equipment,
	Fuel,
	Insurance,
	Meals,
	OfficeSupplies,
	Other,
	Rent,
	RepairsMaintenance,
	SoftwareSubscriptions,
	Supplies,
	Travel,
	Utilities,
}

func AsStringSlice() []string {
	result := make([]string, len(allCategories))
	for i, cat := range allCategories {
		result[i] = string(cat)
	}
	return result
}

// Canonicalize maps a free-form label onto the taxonomy. The second return is
// false when the label had to fall back to Other.
func Canonicalize(input string) (Category, bool) {
	if input == "" {
		return Other, false
	}

	normalized := strings.ToLower(strings.TrimSpace(input))

	synonyms := map[string]Category{
		"auto":          CarTruck,
		"automotive":    CarTruck,
		"gas":           Fuel,
		"gasoline":      Fuel,
		"marketing":     AdvertisingMarketing,
		"advertising":   AdvertisingMarketing,
		"saas":          SoftwareSubscriptions,
		"software":      SoftwareSubscriptions,
		"subscription":  SoftwareSubscriptions,
		"restaurant":    Meals,
		"food":          Meals,
		"office":        OfficeSupplies,
		"repair":        RepairsMaintenance,
		"maintenance":   RepairsMaintenance,
		"miscellaneous": Other,
	}

	if cat, ok := synonyms[normalized]; ok {
		return cat, true
	}

	for _, cat := range allCategories {
		if normalized == strings.ToLower(string(cat)) {
			return cat, true
		}
	}

	return Other, false
}
