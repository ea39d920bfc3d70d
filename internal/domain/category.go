package domain

type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CategoryDisplayOrder is the fixed order of the category submenu. Names the
// API does not return are skipped.
var CategoryDisplayOrder = []string{
	"과자 및 스낵",
	"시럽 및 티베이스",
	"아이스크림",
	"유제품",
	"음료",
	"초콜릿",
	"캔디 및 젤리",
	"탄산",
	"기타",
}

// FindCategory returns the first category with the given id.
func FindCategory(categories []Category, id int) (Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}
