package domain

import "strings"

// CategoryOther is the fallback when no keyword rule matches.
const CategoryOther = "other"

type rule struct {
	category string
	keywords []string
}

// Rule order matters: the first match wins, so the more specific
// categories come first.
var expenseRules = []rule{
	{"rent", []string{"rent", "mortgage", "letting"}},
	{"utilities", []string{"electric", "gas bill", "water", "broadband", "internet", "mobile", "phone", "council tax"}},
	{"groceries", []string{"tesco", "sainsbury", "asda", "aldi", "lidl", "morrisons", "waitrose", "co-op", "grocery", "supermarket"}},
	{"transport", []string{"tfl", "uber", "trainline", "rail", "bus", "fuel", "petrol", "diesel", "parking", "taxi"}},
	{"dining", []string{"restaurant", "cafe", "coffee", "takeaway", "deliveroo", "just eat", "uber eats", "pret", "nandos"}},
	{"entertainment", []string{"netflix", "spotify", "disney", "cinema", "odeon", "steam", "playstation", "xbox"}},
	{"shopping", []string{"amazon", "ebay", "argos", "john lewis", "ikea", "zara", "h&m"}},
	{"health", []string{"pharmacy", "boots", "gym", "puregym", "dentist", "optician"}},
	{"insurance", []string{"insurance", "aviva", "admiral", "direct line"}},
	{"travel", []string{"hotel", "airbnb", "booking.com", "flight", "ryanair", "easyjet", "british airways"}},
	{"software", []string{"software", "saas", "github", "aws", "google cloud", "hosting", "domain"}},
}

var incomeRules = []rule{
	{"salary", []string{"salary", "payroll", "wages"}},
	{"freelance", []string{"invoice", "client payment", "freelance", "consulting"}},
	{"investment", []string{"dividend", "interest", "vanguard"}},
	{"refund", []string{"refund", "reimbursement", "cashback"}},
}

// Categorize picks a category for a transaction from its description
// using the keyword rule tables. Matching is case-insensitive substring.
func Categorize(description string, kind Kind) string {
	needle := strings.ToLower(description)

	rules := expenseRules
	if kind == KindIncome {
		rules = incomeRules
	}
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(needle, kw) {
				return r.category
			}
		}
	}
	return CategoryOther
}
