package domain

type SweetenerName string

func (s SweetenerName) String() string {
	return string(s)
}

const (
	SweetenerAllulose    SweetenerName = "알룰로오스" // Allulose
	SweetenerErythritol  SweetenerName = "에리스리톨" // Erythritol
	SweetenerPolyol      SweetenerName = "당알코올"  // Sugar alcohols
	SweetenerPolyolAlias SweetenerName = "당알콜"   // Spelling used by some product labels
)

// DefaultSweetener is shown when the sweetener page is opened without a name.
const DefaultSweetener = SweetenerAllulose

// MenuSweeteners is the order of the sweetener submenu.
var MenuSweeteners = []SweetenerName{
	SweetenerAllulose,
	SweetenerErythritol,
	SweetenerPolyol,
}

// Tag classes for sweetener badges.
const (
	TagClassAllulose   = "zse-tag-allulose"
	TagClassErythritol = "zse-tag-erythritol"
	TagClassPolyol     = "zse-tag-polyol"
	TagClassUnmapped   = ""
)

// TagClass maps a sweetener name to the style of its badge.
func (s SweetenerName) TagClass() string {
	switch s {
	case SweetenerAllulose:
		return TagClassAllulose
	case SweetenerErythritol:
		return TagClassErythritol
	case SweetenerPolyol, SweetenerPolyolAlias:
		return TagClassPolyol
	default:
		return TagClassUnmapped
	}
}

// Description returns the intake caution text for the sweetener page.
func (s SweetenerName) Description() string {
	switch s {
	case SweetenerAllulose:
		return "과도 섭취 시 일시적인 설사, 복통이 발생할 수 있습니다. 일반적으로는 안전한 편이지만, 단기간 과섭취는 장에 부담을 줄 수 있습니다."
	case SweetenerErythritol:
		return "체내 흡수율이 낮아 비교적 안전한 편이지만, 많게 섭취하면 팽만감이나 설사가 생길 수 있습니다."
	case SweetenerPolyol:
		return "당알코올은 소화 과정에서 설사나 복통을 유발할 수 있고, 사람마다 민감도가 다를 수 있습니다."
	default:
		return ""
	}
}

// Sweetener is an entry of GET /sweeteners.
type Sweetener struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	KcalPerG    *float64 `json:"kcal_per_g,omitempty"`
	Description *string  `json:"description,omitempty"`
}

// MenuSweetenerNames returns the submenu names as plain strings.
func MenuSweetenerNames() []string {
	names := make([]string, 0, len(MenuSweeteners))
	for _, s := range MenuSweeteners {
		names = append(names, s.String())
	}
	return names
}
