package domain

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// DefaultCategories is the fixed set reviews are filed under.
func DefaultCategories() []Category {
	return []Category{
		{ID: "infrastructure", Name: "Infratuzilma", Icon: "🏗️"},
		{ID: "cleanliness", Name: "Tozalik", Icon: "🧹"},
		{ID: "staff", Name: "Xodimlar", Icon: "👨‍💼"},
		{ID: "wait_time", Name: "Kutish vaqti", Icon: "⏱️"},
		{ID: "accessibility", Name: "Qulaylik", Icon: "♿"},
	}
}

// IsKnownCategory reports whether id is one of cats.
func IsKnownCategory(cats []Category, id string) bool {
	for _, c := range cats {
		if c.ID == id {
			return true
		}
	}
	return false
}
