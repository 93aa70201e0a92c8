package nav

import "strings"

// Routes known to the landing site. The calculator is served elsewhere.
const (
	Home       = "/"
	Calculator = "/calculator"
)

// Link is the view model for a navigational control.
type Link struct {
	Href  string
	Label string
	// Boost lets htmx swap the next page in without a full reload.
	Boost bool
}

// CalculatorLink builds the call to action pointing at the calculator view.
func CalculatorLink(label string) Link {
	return Link{Href: Calculator, Label: label, Boost: true}
}

// IsCalculator reports whether path belongs to the calculator route tree.
func IsCalculator(path string) bool {
	return path == Calculator || strings.HasPrefix(path, Calculator+"/")
}
