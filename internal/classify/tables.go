// Package classify suggests a bookkeeping category for an extracted receipt
// through a deterministic rule cascade backed by a heuristic keyword engine.
package classify

import "github.com/ledgerline/receiptcore/constants"

// KeywordRule is one keyword-to-category mapping. Order matters: the rule
// layer takes the first hit.
type KeywordRule struct {
	Keyword  string
	Category constants.Category
}

// CategoryKeywords groups the engine's scoring keywords under one category.
// Slice order is the deterministic tie-break when hit counts are equal.
type CategoryKeywords struct {
	Category constants.Category
	Keywords []string
}

// HintRule boosts a category when a business type's telltale keywords show
// up in the caller's explanation.
type HintRule struct {
	Category constants.Category
	Keywords []string
}

// Tables is the read-only reference data the classifier scores against.
// Construct once at startup and share; nothing in here is mutated.
type Tables struct {
	// VendorCategories maps canonical vendor names (matched as normalized
	// substrings, longest key wins) to categories.
	VendorCategories map[string]constants.Category

	// KeywordRules is the deterministic keyword layer, first hit wins.
	KeywordRules []KeywordRule

	// EngineKeywords is the fallback scorer's curated keyword buckets.
	EngineKeywords []CategoryKeywords

	// BusinessTypeDefaults is the last-resort category per business type.
	BusinessTypeDefaults map[string]constants.Category

	// BusinessTypeHints pre-empt everything when their keywords appear in
	// the explanation.
	BusinessTypeHints map[string][]HintRule
}

// DefaultTables returns the curated accountant-reviewed reference data.
func DefaultTables() *Tables {
	return &Tables{
		VendorCategories:     defaultVendorCategories(),
		KeywordRules:         defaultKeywordRules(),
		EngineKeywords:       defaultEngineKeywords(),
		BusinessTypeDefaults: defaultBusinessTypeDefaults(),
		BusinessTypeHints:    defaultBusinessTypeHints(),
	}
}

func defaultVendorCategories() map[string]constants.Category {
	return map[string]constants.Category{
		// auto parts and service
		"AutoZone":            constants.CarTruck,
		"Advance Auto Parts":  constants.CarTruck,
		"O'Reilly Auto Parts": constants.CarTruck,
		"O'Reilly":            constants.CarTruck,
		"NAPA Auto Parts":     constants.CarTruck,
		"NAPA":                constants.CarTruck,
		"Pep Boys":            constants.CarTruck,
		"Jiffy Lube":          constants.CarTruck,
		"Valvoline":           constants.CarTruck,
		"Meineke":             constants.CarTruck,
		"Midas":               constants.CarTruck,
		"Firestone":           constants.CarTruck,
		"Goodyear":            constants.CarTruck,
		"Discount Tire":       constants.CarTruck,
		"Les Schwab":          constants.CarTruck,
		"Caliber Collision":   constants.CarTruck,
		"Maaco":               constants.CarTruck,
		"Harbor Freight":      constants.CarTruck,
		"Northern Tool":       constants.CarTruck,

		// fuel
		"Shell":      constants.Fuel,
		"Exxon":      constants.Fuel,
		"Chevron":    constants.Fuel,
		"BP":         constants.Fuel,
		"Mobil":      constants.Fuel,
		"Texaco":     constants.Fuel,
		"Sunoco":     constants.Fuel,
		"Marathon":   constants.Fuel,
		"Speedway":   constants.Fuel,
		"Circle K":   constants.Fuel,
		"7-Eleven":   constants.Fuel,
		"Wawa":       constants.Fuel,
		"Sheetz":     constants.Fuel,
		"QuikTrip":   constants.Fuel,
		"RaceTrac":   constants.Fuel,
		"Love's":     constants.Fuel,
		"Pilot":      constants.Fuel,
		"Costco Gas": constants.Fuel,

		// home improvement and hardware
		"Home Depot":   constants.RepairsMaintenance,
		"Lowe's":       constants.RepairsMaintenance,
		"Menards":      constants.RepairsMaintenance,
		"Ace Hardware": constants.RepairsMaintenance,
		"True Value":   constants.RepairsMaintenance,

		// landscaping and trade supply
		"SiteOne":                   constants.Supplies,
		"SiteOne Landscape Supply":  constants.Supplies,
		"Ewing Irrigation":          constants.Supplies,
		"Target Specialty Products": constants.Supplies,
		"Uline":                     constants.Supplies,
		"Amazon":                    constants.Supplies,
		"Grainger":                  constants.Supplies,

		// equipment
		"Tractor Supply":  constants.Equipment,
		"United Rentals":  constants.Equipment,
		"Sunbelt Rentals": constants.Equipment,
		"Best Buy":        constants.Equipment,
		"B&H Photo":       constants.Equipment,

		// office
		"Staples":         constants.OfficeSupplies,
		"Office Depot":    constants.OfficeSupplies,
		"OfficeMax":       constants.OfficeSupplies,
		"FedEx Office":    constants.OfficeSupplies,
		"UPS Store":       constants.OfficeSupplies,
		"Amazon Business": constants.OfficeSupplies,

		// meals
		"Starbucks":   constants.Meals,
		"McDonald's":  constants.Meals,
		"Subway":      constants.Meals,
		"Burger King": constants.Meals,
		"Wendy's":     constants.Meals,
		"Taco Bell":   constants.Meals,
		"Chick-fil-A": constants.Meals,
		"Dunkin":      constants.Meals,
		"Panera":      constants.Meals,
		"Chipotle":    constants.Meals,
		"Sysco":       constants.Meals,
		"US Foods":    constants.Meals,
		"DoorDash":    constants.Meals,
		"Uber Eats":   constants.Meals,

		// travel
		"Marriott":          constants.Travel,
		"Hilton":            constants.Travel,
		"Hyatt":             constants.Travel,
		"Holiday Inn":       constants.Travel,
		"Best Western":      constants.Travel,
		"Airbnb":            constants.Travel,
		"Delta":             constants.Travel,
		"United Airlines":   constants.Travel,
		"American Airlines": constants.Travel,
		"Southwest":         constants.Travel,
		"Uber":              constants.Travel,
		"Lyft":              constants.Travel,
		"Hertz":             constants.Travel,
		"Enterprise":        constants.Travel,
		"Avis":              constants.Travel,

		// software and subscriptions
		"QuickBooks":           constants.SoftwareSubscriptions,
		"Xero":                 constants.SoftwareSubscriptions,
		"FreshBooks":           constants.SoftwareSubscriptions,
		"Gusto":                constants.SoftwareSubscriptions,
		"ADP":                  constants.SoftwareSubscriptions,
		"Stripe":               constants.SoftwareSubscriptions,
		"Square":               constants.SoftwareSubscriptions,
		"Zoom":                 constants.SoftwareSubscriptions,
		"Microsoft 365":        constants.SoftwareSubscriptions,
		"Google Workspace":     constants.SoftwareSubscriptions,
		"Dropbox":              constants.SoftwareSubscriptions,
		"Adobe":                constants.SoftwareSubscriptions,
		"Adobe Creative Cloud": constants.SoftwareSubscriptions,
		"AWS":                  constants.SoftwareSubscriptions,
		"Amazon Web Services":  constants.SoftwareSubscriptions,

		// utilities
		"Verizon":     constants.Utilities,
		"AT&T":        constants.Utilities,
		"T-Mobile":    constants.Utilities,
		"Comcast":     constants.Utilities,
		"Xfinity":     constants.Utilities,
		"Spectrum":    constants.Utilities,
		"CenturyLink": constants.Utilities,

		// insurance
		"State Farm":     constants.Insurance,
		"Geico":          constants.Insurance,
		"Progressive":    constants.Insurance,
		"Allstate":       constants.Insurance,
		"Liberty Mutual": constants.Insurance,
		"Nationwide":     constants.Insurance,
		"USAA":           constants.Insurance,

		// advertising
		"Google Ads":       constants.AdvertisingMarketing,
		"Facebook Ads":     constants.AdvertisingMarketing,
		"Meta Ads":         constants.AdvertisingMarketing,
		"Yelp":             constants.AdvertisingMarketing,
		"Angi":             constants.AdvertisingMarketing,
		"HomeAdvisor":      constants.AdvertisingMarketing,
		"Thumbtack":        constants.AdvertisingMarketing,
		"Mailchimp":        constants.AdvertisingMarketing,
		"Constant Contact": constants.AdvertisingMarketing,

		// contract labor
		"Upwork":         constants.ContractLabor,
		"Fiverr":         constants.ContractLabor,
		"TaskRabbit":     constants.ContractLabor,
		"Indeed":         constants.ContractLabor,
		"ZipRecruiter":   constants.ContractLabor,
		"Robert Half":    constants.ContractLabor,
		"Kelly Services": constants.ContractLabor,

		// rent
		"Grand Rental Station": constants.Rent,
		"Party Rental":         constants.Rent,
		"CORT Events":          constants.Rent,

		// bank fees
		"ATM Fee":         constants.BankFees,
		"Service Charge":  constants.BankFees,
		"Overdraft Fee":   constants.BankFees,
		"Wire Fee":        constants.BankFees,
		"Maintenance Fee": constants.BankFees,
	}
}

func defaultKeywordRules() []KeywordRule {
	return []KeywordRule{
		{"fuel", constants.Fuel},
		{"gasoline", constants.Fuel},
		{"diesel", constants.Fuel},

		{"autozone", constants.CarTruck},
		{"auto zone", constants.CarTruck},
		{"advance auto", constants.CarTruck},
		{"o'reilly", constants.CarTruck},
		{"oreilly", constants.CarTruck},
		{"oil change", constants.CarTruck},
		{"tires", constants.CarTruck},
		{"tire", constants.CarTruck},
		{"brake", constants.CarTruck},
		{"wiper", constants.CarTruck},
		{"alignment", constants.CarTruck},

		{"staples", constants.OfficeSupplies},
		{"printer", constants.OfficeSupplies},
		{"toner", constants.OfficeSupplies},
		{"notebook", constants.OfficeSupplies},
		{"pens", constants.OfficeSupplies},
		{"post-it", constants.OfficeSupplies},

		{"subscription", constants.SoftwareSubscriptions},
		{"saas", constants.SoftwareSubscriptions},
		{"software", constants.SoftwareSubscriptions},
		{"quickbooks", constants.SoftwareSubscriptions},
		{"adobe", constants.SoftwareSubscriptions},
		{"microsoft 365", constants.SoftwareSubscriptions},
		{"google workspace", constants.SoftwareSubscriptions},
		{"dropbox", constants.SoftwareSubscriptions},

		{"supplies", constants.Supplies},
		{"supply", constants.Supplies},
		{"inventory", constants.Supplies},
		{"restock", constants.Supplies},
		{"materials", constants.Supplies},

		{"repair", constants.RepairsMaintenance},
		{"maintenance", constants.RepairsMaintenance},
		{"labor", constants.RepairsMaintenance},

		{"equipment", constants.Equipment},
		{"tools", constants.Equipment},
		{"laptop", constants.Equipment},
		{"computer", constants.Equipment},

		{"marketing", constants.AdvertisingMarketing},
		{"advertising", constants.AdvertisingMarketing},
		{"google ads", constants.AdvertisingMarketing},
		{"facebook ads", constants.AdvertisingMarketing},
		{"promotion", constants.AdvertisingMarketing},

		{"restaurant", constants.Meals},
		{"lunch", constants.Meals},
		{"dinner", constants.Meals},
		{"breakfast", constants.Meals},
		{"coffee", constants.Meals},
		{"starbucks", constants.Meals},
		{"mcdonald", constants.Meals},
		{"doordash", constants.Meals},
		{"uber eats", constants.Meals},

		{"hotel", constants.Travel},
		{"airbnb", constants.Travel},
		{"flight", constants.Travel},
		{"airline", constants.Travel},
		{"rental car", constants.Travel},
		{"parking", constants.Travel},
		{"toll", constants.Travel},

		{"electric", constants.Utilities},
		{"internet", constants.Utilities},
		{"wifi", constants.Utilities},
		{"utility", constants.Utilities},
		{"phone bill", constants.Utilities},

		{"insurance", constants.Insurance},
		{"premium", constants.Insurance},
		{"policy", constants.Insurance},

		{"rent", constants.Rent},
		{"lease", constants.Rent},

		{"service charge", constants.BankFees},
		{"overdraft", constants.BankFees},
		{"atm fee", constants.BankFees},
		{"wire fee", constants.BankFees},
	}
}

func defaultEngineKeywords() []CategoryKeywords {
	return []CategoryKeywords{
		{constants.Fuel, []string{"fuel", "gas", "gasoline", "diesel", "pump", "shell", "exxon", "chevron", "bp", "sunoco"}},
		{constants.CarTruck, []string{"autozone", "auto zone", "advance auto", "o'reilly", "oreilly", "tires", "tire", "oil change", "brake", "battery", "wiper", "alignment"}},
		{constants.OfficeSupplies, []string{"office", "staples", "paper", "printer", "ink", "toner", "notebook", "pens", "post-it"}},
		{constants.SoftwareSubscriptions, []string{"subscription", "saas", "software", "monthly", "annual", "stripe", "quickbooks", "adobe", "microsoft 365", "google workspace", "aws", "azure", "gcp", "dropbox", "notion"}},
		{constants.Supplies, []string{"supplies", "supply", "inventory", "restock", "materials"}},
		{constants.RepairsMaintenance, []string{"repair", "maintenance", "service", "labor", "parts", "fix", "replace"}},
		{constants.Equipment, []string{"equipment", "tool", "tools", "machine", "hardware", "laptop", "computer", "monitor", "router"}},
		{constants.AdvertisingMarketing, []string{"marketing", "advertising", "ads", "facebook ads", "google ads", "promotion", "sponsor"}},
		{constants.Meals, []string{"restaurant", "meal", "lunch", "dinner", "breakfast", "cafe", "coffee", "starbucks", "mcdonald", "subway", "doordash", "uber eats"}},
		{constants.Travel, []string{"hotel", "airbnb", "flight", "airline", "uber", "lyft", "taxi", "rental car", "parking", "toll"}},
		{constants.Utilities, []string{"electric", "water", "internet", "wifi", "utility", "phone bill", "verizon", "at&t", "t-mobile"}},
		{constants.Insurance, []string{"insurance", "premium", "policy"}},
		{constants.Rent, []string{"rent", "lease"}},
		{constants.BankFees, []string{"fee", "service charge", "overdraft", "wire fee", "atm fee"}},
	}
}

func defaultBusinessTypeDefaults() map[string]constants.Category {
	return map[string]constants.Category{
		"realtor":           constants.AdvertisingMarketing,
		"real estate agent": constants.AdvertisingMarketing,

		"contractor":         constants.Supplies,
		"general contractor": constants.Supplies,
		"electrician":        constants.Supplies,
		"plumber":            constants.Supplies,
		"hvac":               constants.Supplies,
		"carpenter":          constants.Supplies,
		"roofer":             constants.Supplies,
		"painter":            constants.Supplies,

		"mechanic":        constants.CarTruck,
		"auto repair":     constants.CarTruck,
		"auto mechanic":   constants.CarTruck,
		"mobile mechanic": constants.CarTruck,

		"cleaner":          constants.Supplies,
		"cleaning service": constants.Supplies,
		"janitorial":       constants.Supplies,
		"maid service":     constants.Supplies,

		"landscaper":   constants.Supplies,
		"lawn care":    constants.Supplies,
		"tree service": constants.Supplies,
		"gardener":     constants.Supplies,

		"event coordinator": constants.Supplies,
		"event planner":     constants.Supplies,
		"wedding planner":   constants.Supplies,

		"consultant": constants.SoftwareSubscriptions,
		"freelancer": constants.SoftwareSubscriptions,
		"developer":  constants.SoftwareSubscriptions,
		"designer":   constants.SoftwareSubscriptions,

		"photographer": constants.Equipment,
		"videographer": constants.Equipment,

		"food":       constants.Supplies,
		"restaurant": constants.Supplies,
		"catering":   constants.Supplies,
		"food truck": constants.Supplies,
		"bakery":     constants.Supplies,
		"cafe":       constants.Supplies,
	}
}

func defaultBusinessTypeHints() map[string][]HintRule {
	return map[string][]HintRule{
		"realtor": {
			{constants.AdvertisingMarketing, []string{"listing", "mls", "open house", "staging", "sign", "flyer", "zillow"}},
			{constants.Travel, []string{"showing", "client meeting", "site visit"}},
			{constants.OfficeSupplies, []string{"lockbox", "signs", "brochure"}},
		},
		"contractor": {
			{constants.Supplies, []string{"lumber", "drywall", "concrete", "paint", "tile", "plywood", "screws", "nails"}},
			{constants.Equipment, []string{"drill", "saw", "compressor", "ladder", "scaffolding"}},
			{constants.ContractLabor, []string{"subcontractor", "helper", "labor"}},
		},
		"mechanic": {
			{constants.CarTruck, []string{"parts", "oil", "filter", "brake pad", "rotor", "spark plug", "battery", "alternator", "starter"}},
			{constants.Equipment, []string{"diagnostic", "lift", "scanner", "tools"}},
			{constants.Supplies, []string{"shop towels", "degreaser", "cleaner"}},
		},
		"cleaner": {
			{constants.Supplies, []string{"cleaning supplies", "bleach", "disinfectant", "mop", "trash bags", "paper towels", "gloves"}},
			{constants.Equipment, []string{"vacuum", "carpet cleaner", "buffer", "steamer"}},
			{constants.ContractLabor, []string{"crew", "helper", "staff"}},
		},
		"landscaper": {
			{constants.Supplies, []string{"mulch", "soil", "plants", "seed", "fertilizer", "stone", "gravel", "weed killer"}},
			{constants.Equipment, []string{"mower", "trimmer", "blower", "chainsaw", "edger"}},
			{constants.Fuel, []string{"gas", "fuel", "oil mix"}},
			{constants.RepairsMaintenance, []string{"blade sharpening", "equipment repair", "mower service"}},
		},
		"event coordinator": {
			{constants.Supplies, []string{"decorations", "tablecloths", "centerpieces", "balloons", "flowers", "party supplies"}},
			{constants.Rent, []string{"tent", "tables", "chairs", "linens", "venue"}},
			{constants.Meals, []string{"catering", "food", "beverages"}},
			{constants.ContractLabor, []string{"staff", "servers", "bartender", "dj"}},
		},
		"food": {
			{constants.Supplies, []string{"ingredients", "produce", "meat", "dairy", "packaging", "containers", "utensils"}},
			{constants.Equipment, []string{"oven", "mixer", "fridge", "freezer", "cookware"}},
			{constants.RepairsMaintenance, []string{"appliance repair", "equipment service"}},
		},
		"photographer": {
			{constants.Equipment, []string{"camera", "lens", "lighting", "tripod", "memory card", "battery"}},
			{constants.SoftwareSubscriptions, []string{"adobe", "lightroom", "photoshop"}},
			{constants.Travel, []string{"shoot", "session", "location"}},
		},
		"electrician": {
			{constants.Supplies, []string{"wire", "conduit", "breaker", "outlet", "switch", "junction box", "cable"}},
			{constants.Equipment, []string{"multimeter", "wire stripper", "fish tape", "tools"}},
			{constants.ContractLabor, []string{"apprentice", "helper"}},
		},
		"plumber": {
			{constants.Supplies, []string{"pipe", "fitting", "valve", "toilet", "sink", "faucet", "drain cleaner"}},
			{constants.Equipment, []string{"snake", "camera", "torch", "wrench"}},
			{constants.ContractLabor, []string{"apprentice", "helper"}},
		},
		"hvac": {
			{constants.Supplies, []string{"refrigerant", "filter", "thermostat", "ductwork", "insulation"}},
			{constants.Equipment, []string{"gauges", "vacuum pump", "recovery machine", "torch"}},
			{constants.ContractLabor, []string{"apprentice", "installer"}},
		},
	}
}
