package page

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var salaryPrinter = message.NewPrinter(language.English)

// FormatSalary renders an optional salary range. Zero counts as not given.
func FormatSalary(min, max *int64) string {
	hasMin := min != nil && *min != 0
	hasMax := max != nil && *max != 0

	switch {
	case !hasMin && !hasMax:
		return "Competitive Salary"
	case hasMin && hasMax:
		return salaryPrinter.Sprintf("$%d - $%d", *min, *max)
	case hasMin:
		return salaryPrinter.Sprintf("From $%d", *min)
	default:
		return salaryPrinter.Sprintf("Up to $%d", *max)
	}
}
