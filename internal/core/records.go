package core

// GetID and WithID let every list record flow through the generic CRUD
// controller. WithID returns a modified copy.

func (g Guest) GetID() string { return g.ID }
func (g Guest) WithID(id string) Guest { g.ID = id; return g }
func (m FamilyMember) GetID() string { return m.ID }
func (v Vendor) GetID() string { return v.ID }
func (v Vendor) WithID(id string) Vendor { v.ID = id; return v }
func (t Task) GetID() string { return t.ID }
func (t Task) WithID(id string) Task { t.ID = id; return t }
func (r Ritual) GetID() string { return r.ID }
func (r Ritual) WithID(id string) Ritual { r.ID = id; return r }
func (t Tradition) GetID() string { return t.ID }
func (g Gift) GetID() string { return g.ID }
func (g Gift) WithID(id string) Gift { g.ID = id; return g }
func (m MenuEvent) GetID() string { return m.ID }
func (m MenuItem) GetID() string { return m.ID }
func (e ShoppingEvent) GetID() string { return e.ID }
func (i ShoppingItem) GetID() string { return i.ID }
func (t Transport) GetID() string { return t.ID }
func (d TimelineDay) GetID() string { return d.ID }
func (e TimelineEvent) GetID() string { return e.ID }
func (s AvailabilitySlot) GetID() string { return s.ID }

func (m FamilyMember) WithID(id string) FamilyMember { m.ID = id; return m }
func (t Tradition) WithID(id string) Tradition { t.ID = id; return t }
func (m MenuEvent) WithID(id string) MenuEvent { m.ID = id; return m }
func (m MenuItem) WithID(id string) MenuItem { m.ID = id; return m }
func (e ShoppingEvent) WithID(id string) ShoppingEvent { e.ID = id; return e }
func (i ShoppingItem) WithID(id string) ShoppingItem { i.ID = id; return i }
func (t Transport) WithID(id string) Transport { t.ID = id; return t }
func (d TimelineDay) WithID(id string) TimelineDay { d.ID = id; return d }
func (e TimelineEvent) WithID(id string) TimelineEvent { e.ID = id; return e }
func (s AvailabilitySlot) WithID(id string) AvailabilitySlot { s.ID = id; return s }

// A budget category is identified by its slug; WithID renames it.
func (c BudgetCategory) GetID() string { return c.Category }
func (c BudgetCategory) WithID(id string) BudgetCategory {
	c.Category = Slugify(id)
	return c
}
