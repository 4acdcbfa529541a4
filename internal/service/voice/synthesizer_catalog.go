package voice

import (
	"fmt"
	"strings"

	"github.com/seu-repo/clinic-assistant/internal/domain"
)

const catalogHighlights = 3

var (
	priceWords    = wordSet("price", "prices", "pricing", "cost", "costs", "how much", "price range", "expensive", "cheap", "cheapest", "afford")
	categoryWords = wordSet("category", "categories", "type", "types", "kind", "kinds")
	popularWords  = wordSet("popular", "best", "top", "recommend", "recommended", "recommendation", "recommendations")
)

func (s *synthesizer) servicesInfo(text string, b *domain.ContextBundle) string {
	services := b.Services
	if len(services) == 0 {
		return "I'm sorry, I couldn't load our services right now. Please check the app for the full list."
	}

	categories := distinctCategories(services)
	popular := popularNames(services)

	switch {
	case priceWords.MatchString(text):
		if len(services) == 1 {
			return fmt.Sprintf("Our only service right now, %s, costs %s.", services[0].Name, s.money(services[0].Price))
		}
		lo, hi, sum := services[0].Price, services[0].Price, 0.0
		for _, c := range services {
			if c.Price < lo {
				lo = c.Price
			}
			if c.Price > hi {
				hi = c.Price
			}
			sum += c.Price
		}
		return fmt.Sprintf("Our %d services range from %s to %s, with an average price of %s.",
			len(services), s.money(lo), s.money(hi), s.money(sum/float64(len(services))))

	case categoryWords.MatchString(text):
		if len(categories) == 0 {
			return fmt.Sprintf("We offer %s.", countNoun(len(services), "service", "services"))
		}
		return fmt.Sprintf("We offer services in %s: %s.",
			countNoun(len(categories), "category", "categories"), joinAnd(categories))

	case popularWords.MatchString(text):
		switch len(popular) {
		case 0:
			return fmt.Sprintf("None of our services are marked as popular right now, but we offer %s.",
				countNoun(len(services), "service", "services"))
		case 1:
			return fmt.Sprintf("Our most popular treatment is %s.", popular[0])
		default:
			return fmt.Sprintf("Our most popular treatments are %s.", joinAnd(firstN(popular, catalogHighlights)))
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "We offer %s", countNoun(len(services), "service", "services"))
	if len(categories) > 0 {
		fmt.Fprintf(&sb, " across %s, including %s",
			countNoun(len(categories), "category", "categories"), joinAnd(firstN(categories, catalogHighlights)))
	}
	sb.WriteString(".")
	if len(popular) > 0 {
		fmt.Fprintf(&sb, " Popular choices include %s.", joinAnd(firstN(popular, catalogHighlights)))
	}
	return sb.String()
}

func distinctCategories(services []domain.Consultation) []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range services {
		key := strings.ToLower(strings.TrimSpace(c.Category))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c.Category)
	}
	return out
}

func popularNames(services []domain.Consultation) []string {
	var out []string
	for _, c := range services {
		if c.Popular && c.Name != "" {
			out = append(out, c.Name)
		}
	}
	return out
}
