package entity

// Choice is a stored key with its display label.
type Choice struct {
	Key   string
	Label string
}

// DistrictChoices lists the Taipei districts used for listings.
var DistrictChoices = []Choice{
	{"Zhongzheng", "中正區"},
	{"Da-an", "大安區"},
	{"Xinyi", "信義區"},
	{"Songshan", "松山區"},
	{"Zhongshan", "中山區"},
	{"Wanhua", "萬華區"},
	{"Datong", "大同區"},
	{"Shilin", "士林區"},
	{"Beitou", "北投區"},
	{"Neihu", "內湖區"},
	{"Nangang", "南港區"},
	{"Wenshan", "文山區"},
}

var RoomTypeChoices = []Choice{
	{"consultation", "診療室"},
	{"surgery", "手術室"},
	{"examination", "檢查室"},
	{"recovery", "恢復室"},
	{"emergency", "急診室"},
}

var RoomsChoices = []Choice{
	{"1", "1間"},
	{"2", "2間"},
	{"3", "3間"},
	{"4", "4間"},
	{"5+", "5間以上"},
}

// ChoiceLabel returns the label for key, or key itself when it is not a known choice.
// Imported data may carry labels directly, so unknown keys are displayed verbatim.
func ChoiceLabel(choices []Choice, key string) string {
	for _, c := range choices {
		if c.Key == key {
			return c.Label
		}
	}
	return key
}
