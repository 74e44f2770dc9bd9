package modes

// Category is the coarse grouping of provider queue identifiers.
type Category string

const (
	CategorySR5v5    Category = "SR_5v5"
	CategoryARAM     Category = "ARAM"
	CategoryFunModes Category = "Fun_Modes"
	CategoryBotGames Category = "Bot_Games"
	CategoryCustom   Category = "Custom"
	CategoryUnknown  Category = "Unknown"
)

// Categories lists every category in presentation order, Unknown last.
var Categories = []Category{
	CategorySR5v5,
	CategoryARAM,
	CategoryFunModes,
	CategoryBotGames,
	CategoryCustom,
	CategoryUnknown,
}

type Classification struct {
	Category Category
	Label    string
}

var queueLabels = map[int]string{
	400:  "Normal Draft",
	420:  "Ranked Solo/Duo",
	430:  "Normal Blind",
	440:  "Ranked Flex",
	450:  "ARAM",
	700:  "Clash",
	720:  "ARAM Clash",
	830:  "Co-op vs AI",
	840:  "Co-op vs AI",
	850:  "Co-op vs AI",
	900:  "URF",
	1020: "One for All",
	1300: "Nexus Blitz",
	1400: "Ultimate Spellbook",
	1700: "Arena",
	1900: "URF",
	0:    "Custom Game",
}

var queueCategories = buildQueueCategories()

func buildQueueCategories() map[int]Category {
	groups := map[Category][]int{
		CategorySR5v5:    {400, 420, 430, 440},
		CategoryARAM:     {450, 720},
		CategoryFunModes: {700, 900, 1020, 1300, 1400, 1700, 1900},
		CategoryBotGames: {830, 840, 850},
		CategoryCustom:   {0},
	}
	m := make(map[int]Category)
	for category, ids := range groups {
		for _, id := range ids {
			m[id] = category
		}
	}
	return m
}

// Classify maps a provider queue identifier to its category and display
// label. Queue ids absent from the table classify as Unknown with no label.
func Classify(queueID int) Classification {
	category, ok := queueCategories[queueID]
	if !ok {
		return Classification{Category: CategoryUnknown}
	}
	return Classification{Category: category, Label: queueLabels[queueID]}
}

// TeamBased reports whether matches of the category carry meaningful
// ally/enemy team splits.
func TeamBased(c Category) bool {
	return c == CategorySR5v5 || c == CategoryARAM
}
