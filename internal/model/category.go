package model

// AllLabel is how the unfiltered selection is shown to the user.
const AllLabel = "All"

// CategoryFilter selects tasks by exact category. The zero value matches every
// task, which keeps "All" distinct from the empty (uncategorized) category.
type CategoryFilter struct {
	Category string
	Set      bool
}

var AllCategories = CategoryFilter{}

func ByCategory(category string) CategoryFilter {
	return CategoryFilter{Category: category, Set: true}
}

func (f CategoryFilter) IsAll() bool {
	return !f.Set
}

func (f CategoryFilter) Match(category string) bool {
	return !f.Set || f.Category == category
}

func (f CategoryFilter) String() string {
	switch {
	case !f.Set:
		return AllLabel
	case f.Category == "":
		return "(none)"
	default:
		return f.Category
	}
}
