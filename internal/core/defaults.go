package core

// StarterBudgetCategories seed the budget of a new document.
var StarterBudgetCategories = []string{
	"venue",
	"catering",
	"decoration",
	"photography",
	"attire",
	"jewelry",
	"music",
	"invitations",
	"transport",
	"gifts",
	"miscellaneous",
}

var starterShoppingEvents = []string{"Engagement", "Haldi", "Mehendi", "Sangeet", "Wedding", "Reception"}

// DefaultDocument returns a complete document: every key present, nothing
// nil. Each call returns fresh slices.
func DefaultDocument() Document {
	budget := make([]BudgetCategory, 0, len(StarterBudgetCategories))
	for _, c := range StarterBudgetCategories {
		budget = append(budget, BudgetCategory{Category: c, Subcategories: []string{}})
	}
	return Document{
		WeddingInfo: &WeddingInfo{},
		Guests:      []Guest{},
		Vendors:     []Vendor{},
		Budget:      budget,
		Tasks:       []Task{},
		Menus:       []MenuEvent{},
		GiftsAndFavors: &GiftsAndFavors{
			FamilyGifts:  []Gift{},
			ReturnGifts:  []Gift{},
			SpecialGifts: []Gift{},
		},
		Shopping: &Shopping{
			Bride:  starterShopping("bride"),
			Groom:  starterShopping("groom"),
			Family: starterShopping("family"),
		},
		Travel:            &Travel{Transport: []Transport{}},
		RitualsAndCustoms: []Ritual{},
		Traditions:        []Tradition{},
		Timeline:          []TimelineDay{},
	}
}

func starterShopping(side string) []ShoppingEvent {
	out := make([]ShoppingEvent, 0, len(starterShoppingEvents))
	for _, name := range starterShoppingEvents {
		out = append(out, ShoppingEvent{
			ID:    side + "-" + Slugify(name),
			Name:  name,
			Items: []ShoppingItem{},
		})
	}
	return out
}
