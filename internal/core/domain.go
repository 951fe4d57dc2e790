package core

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

const (
	Bride PaymentResponsibility = "bride"
	Groom PaymentResponsibility = "groom"
	Split PaymentResponsibility = "split"
)

const (
	VendorPending   VendorStatus = "pending"
	VendorBooked    VendorStatus = "booked"
	VendorConfirmed VendorStatus = "confirmed"
	VendorCancelled VendorStatus = "cancelled"
)

const (
	TaskPending TaskStatus = "pending"
	TaskDone    TaskStatus = "done"
)

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

const (
	ItemPending   ItemStatus = "pending"
	ItemPurchased ItemStatus = "purchased"
	ItemDelivered ItemStatus = "delivered"
)

const (
	RSVPPending   RSVP = "pending"
	RSVPConfirmed RSVP = "confirmed"
	RSVPDeclined  RSVP = "declined"
)

type (
	// PaymentResponsibility names the side paying for a linked item. Values
	// outside bride/groom/split are kept as-is and excluded from side totals.
	PaymentResponsibility string

	VendorStatus string
	TaskStatus   string
	Priority     string
	ItemStatus   string
	RSVP         string

	WeddingInfo struct {
		BrideName   string  `json:"brideName"`
		GroomName   string  `json:"groomName"`
		Date        string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
		Venue       string  `json:"venue"`
		Location    string  `json:"location"`
		TotalBudget float64 `json:"totalBudget" validate:"gte=0"`
		BrideBudget float64 `json:"brideBudget" validate:"gte=0"`
		GroomBudget float64 `json:"groomBudget" validate:"gte=0"`
	}

	Guest struct {
		ID             string         `json:"id"`
		Name           string         `json:"name" validate:"required,max=200"`
		Side           string         `json:"side" validate:"omitempty,oneof=bride groom both"`
		Category       string         `json:"category,omitempty"`
		Phone          string         `json:"phone,omitempty"`
		Email          string         `json:"email,omitempty" validate:"omitempty,email"`
		RSVP           RSVP           `json:"rsvp,omitempty" validate:"omitempty,oneof=pending confirmed declined"`
		Dietary        string         `json:"dietary,omitempty"`
		PlusOne        bool           `json:"plusOne,omitempty"`
		IsFamily       bool           `json:"isFamily,omitempty"`
		FamilyMembers  []FamilyMember `json:"familyMembers" validate:"dive"`
		Accommodation  bool           `json:"accommodation,omitempty"`
		PickupRequired bool           `json:"pickupRequired,omitempty"`
		Notes          string         `json:"notes,omitempty"`
	}

	// FamilyMember belongs to exactly one family Guest; it is never a
	// top-level entity.
	FamilyMember struct {
		ID             string `json:"id"`
		Name           string `json:"name" validate:"required,max=200"`
		Relation       string `json:"relation,omitempty"`
		Age            int    `json:"age,omitempty" validate:"gte=0"`
		Phone          string `json:"phone,omitempty"`
		Dietary        string `json:"dietary,omitempty"`
		RSVP           RSVP   `json:"rsvp,omitempty" validate:"omitempty,oneof=pending confirmed declined"`
		Accommodation  bool   `json:"accommodation,omitempty"`
		PickupRequired bool   `json:"pickupRequired,omitempty"`
	}

	Vendor struct {
		ID                    string                `json:"id"`
		Name                  string                `json:"name" validate:"required,max=200"`
		Type                  string                `json:"type" validate:"required"`
		Contact               string                `json:"contact,omitempty"`
		Phone                 string                `json:"phone,omitempty"`
		Email                 string                `json:"email,omitempty" validate:"omitempty,email"`
		EstimatedCost         float64               `json:"estimatedCost" validate:"gte=0"`
		FinalCost             float64               `json:"finalCost" validate:"gte=0"`
		AdvancePaid           float64               `json:"advancePaid,omitempty" validate:"gte=0"`
		Status                VendorStatus          `json:"status" validate:"omitempty,oneof=pending booked confirmed cancelled"`
		BudgetCategory        string                `json:"budgetCategory,omitempty"`
		PaymentResponsibility PaymentResponsibility `json:"paymentResponsibility,omitempty"`
		Availability          []AvailabilitySlot    `json:"availability" validate:"dive"`
		Notes                 string                `json:"notes,omitempty"`
	}

	AvailabilitySlot struct {
		ID        string `json:"id"`
		Date      string `json:"date" validate:"required,datetime=2006-01-02"`
		StartTime string `json:"startTime,omitempty" validate:"omitempty,datetime=15:04"`
		EndTime   string `json:"endTime,omitempty" validate:"omitempty,datetime=15:04"`
		Notes     string `json:"notes,omitempty"`
	}

	// BudgetCategory is keyed by its slug-cased Category; linked items refer
	// to it by that value.
	BudgetCategory struct {
		Category      string   `json:"category" validate:"required,slug"`
		Planned       float64  `json:"planned" validate:"gte=0"`
		Actual        float64  `json:"actual" validate:"gte=0"`
		Subcategories []string `json:"subcategories"`
	}

	Task struct {
		ID          string     `json:"id"`
		Title       string     `json:"title" validate:"required,max=200"`
		Description string     `json:"description,omitempty"`
		DueDate     string     `json:"dueDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
		Status      TaskStatus `json:"status" validate:"omitempty,oneof=pending done"`
		Priority    Priority   `json:"priority" validate:"omitempty,oneof=low medium high"`
		Assignee    string     `json:"assignee,omitempty"`
		Category    string     `json:"category,omitempty"`
	}

	MenuEvent struct {
		ID             string     `json:"id"`
		Name           string     `json:"name" validate:"required,max=200"`
		Date           string     `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
		ExpectedGuests int        `json:"expectedGuests" validate:"gte=0"`
		AttendedGuests int        `json:"attendedGuests" validate:"gte=0"`
		Items          []MenuItem `json:"items" validate:"dive"`
	}

	MenuItem struct {
		ID                    string                `json:"id"`
		Name                  string                `json:"name" validate:"required,max=200"`
		Course                string                `json:"course,omitempty"`
		Vegetarian            bool                  `json:"vegetarian,omitempty"`
		PricePerPlate         float64               `json:"pricePerPlate" validate:"gte=0"`
		BudgetCategory        string                `json:"budgetCategory,omitempty"`
		PaymentResponsibility PaymentResponsibility `json:"paymentResponsibility,omitempty"`
	}

	GiftsAndFavors struct {
		FamilyGifts  []Gift `json:"familyGifts"`
		ReturnGifts  []Gift `json:"returnGifts"`
		SpecialGifts []Gift `json:"specialGifts"`
	}

	// Gift.TotalCost is derived: Normalize recomputes it from Quantity and
	// PricePerGift.
	Gift struct {
		ID                    string                `json:"id"`
		Recipient             string                `json:"recipient,omitempty"`
		Description           string                `json:"description" validate:"required,max=200"`
		Event                 string                `json:"event,omitempty"`
		Quantity              int                   `json:"quantity" validate:"gte=0"`
		PricePerGift          float64               `json:"pricePerGift" validate:"gte=0"`
		TotalCost             float64               `json:"totalCost"`
		Status                ItemStatus            `json:"status,omitempty" validate:"omitempty,oneof=pending purchased delivered"`
		BudgetCategory        string                `json:"budgetCategory,omitempty"`
		PaymentResponsibility PaymentResponsibility `json:"paymentResponsibility,omitempty"`
	}

	Shopping struct {
		Bride  []ShoppingEvent `json:"bride"`
		Groom  []ShoppingEvent `json:"groom"`
		Family []ShoppingEvent `json:"family"`
	}

	ShoppingEvent struct {
		ID    string         `json:"id"`
		Name  string         `json:"name" validate:"required,max=200"`
		Items []ShoppingItem `json:"items" validate:"dive"`
	}

	ShoppingItem struct {
		ID                    string                `json:"id"`
		Name                  string                `json:"name" validate:"required,max=200"`
		Budget                float64               `json:"budget" validate:"gte=0"`
		Status                ItemStatus            `json:"status,omitempty" validate:"omitempty,oneof=pending purchased delivered"`
		BudgetCategory        string                `json:"budgetCategory,omitempty"`
		PaymentResponsibility PaymentResponsibility `json:"paymentResponsibility,omitempty"`
		Notes                 string                `json:"notes,omitempty"`
	}

	Travel struct {
		Transport []Transport `json:"transport"`
	}

	Transport struct {
		ID                    string                `json:"id"`
		Type                  string                `json:"type" validate:"required"`
		From                  string                `json:"from,omitempty"`
		To                    string                `json:"to,omitempty"`
		Date                  string                `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
		Passengers            int                   `json:"passengers,omitempty" validate:"gte=0"`
		TotalPrice            float64               `json:"totalPrice" validate:"gte=0"`
		BudgetCategory        string                `json:"budgetCategory,omitempty"`
		PaymentResponsibility PaymentResponsibility `json:"paymentResponsibility,omitempty"`
	}

	Ritual struct {
		ID          string `json:"id"`
		Name        string `json:"name" validate:"required,max=200"`
		Description string `json:"description,omitempty"`
		Date        string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
		Responsible string `json:"responsible,omitempty"`
		Completed   bool   `json:"completed"`
	}

	Tradition struct {
		ID          string `json:"id"`
		Name        string `json:"name" validate:"required,max=200"`
		Description string `json:"description,omitempty"`
		Side        string `json:"side,omitempty" validate:"omitempty,oneof=bride groom both"`
		Completed   bool   `json:"completed"`
	}

	// TimelineDay groups ceremony events on the day DayOffset days away from
	// the wedding date (negative before, positive after).
	TimelineDay struct {
		ID        string          `json:"id"`
		DayOffset int             `json:"dayOffset"`
		Label     string          `json:"label,omitempty"`
		Events    []TimelineEvent `json:"events" validate:"dive"`
	}

	// TimelineEvent.Vendors maps a vendor type to the assigned vendor id.
	TimelineEvent struct {
		ID        string            `json:"id"`
		Name      string            `json:"name" validate:"required,max=200"`
		StartTime string            `json:"startTime,omitempty" validate:"omitempty,datetime=15:04"`
		EndTime   string            `json:"endTime,omitempty" validate:"omitempty,datetime=15:04"`
		Location  string            `json:"location,omitempty"`
		Vendors   map[string]string `json:"vendors,omitempty"`
		Notes     string            `json:"notes,omitempty"`
	}
)

var (
	ErrDuplicateID     = errors.New("duplicate id")
	ErrDuplicateOffset = errors.New("duplicate day offset")
	ErrNegativeAmount  = errors.New("negative amount")
)

// IsSide reports whether p attributes cost to at least one side.
func (p PaymentResponsibility) IsSide() bool {
	switch p {
	case Bride, Groom, Split:
		return true
	default:
		return false
	}
}

// Headcount counts the guest plus every family member.
func (g Guest) Headcount() int {
	if g.IsFamily {
		return 1 + len(g.FamilyMembers)
	}
	n := 1
	if g.PlusOne {
		n++
	}
	return n
}

// Cost is the gift's derived total.
func (g Gift) Cost() float64 {
	return float64(g.Quantity) * g.PricePerGift
}

// Done reports whether the item has been purchased or delivered.
func (s ItemStatus) Done() bool {
	return s == ItemPurchased || s == ItemDelivered
}

// Slugify lower-cases s and joins alphanumeric runs with '-'.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// IsSlug reports whether s is already in Slugify form.
func IsSlug(s string) bool {
	return s != "" && Slugify(s) == s
}

// ValidateFamily checks member id uniqueness inside one family guest.
func (g Guest) ValidateFamily() error {
	seen := make(map[string]struct{}, len(g.FamilyMembers))
	for _, m := range g.FamilyMembers {
		if m.ID == "" {
			continue
		}
		if _, ok := seen[m.ID]; ok {
			return ErrDuplicateID
		}
		seen[m.ID] = struct{}{}
	}
	return nil
}

// ValidateGuests reports a guest id used twice in the list or a member id
// used twice within one family.
func ValidateGuests(guests []Guest) error {
	seen := make(map[string]struct{}, len(guests))
	for _, g := range guests {
		if g.ID != "" {
			if _, ok := seen[g.ID]; ok {
				return fmt.Errorf("%w: guest %q", ErrDuplicateID, g.ID)
			}
			seen[g.ID] = struct{}{}
		}
		if err := g.ValidateFamily(); err != nil {
			return fmt.Errorf("%w: member of guest %q", err, g.ID)
		}
	}
	return nil
}

// ValidateTimeline reports a day offset used by more than one day.
func ValidateTimeline(days []TimelineDay) error {
	seen := make(map[int]bool, len(days))
	for _, day := range days {
		if seen[day.DayOffset] {
			return ErrDuplicateOffset
		}
		seen[day.DayOffset] = true
	}
	return nil
}
