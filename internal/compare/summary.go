package compare

import (
	"fmt"
	"strings"

	"github.com/tayloree/appliance-compare/internal/catalog"
)

// SummaryKind selects the summary phrasing.
type SummaryKind string

const (
	SummaryUnanimous SummaryKind = "unanimous"
	SummaryLeader    SummaryKind = "leader"
	SummaryEven      SummaryKind = "even"
	SummaryGeneric   SummaryKind = "generic"
)

// Summary is the natural-language verdict of a comparison.
type Summary struct {
	Kind   SummaryKind            `json:"kind"`
	Text   string                 `json:"text"`
	Leader string                 `json:"leader,omitempty"`
	Wins   map[string][]Criterion `json:"wins,omitempty"`
}

// headToHead is the criterion set counted in a two-product comparison.
var headToHead = []Criterion{CriterionPrice, CriterionCapacity, CriterionNoise}

func summarize(products []catalog.Product, w Winners) Summary {
	if w.Unanimous() {
		p := byID(products, w.Overall)
		return Summary{
			Kind:   SummaryUnanimous,
			Leader: p.ID,
			Text: fmt.Sprintf("%s is the all-around winner: cheapest, quietest, most powerful, best value and best overall.",
				p.DisplayName()),
		}
	}

	if len(products) != 2 {
		return Summary{
			Kind: SummaryGeneric,
			Text: fmt.Sprintf("Each of these %d models has its strengths. Compare the highlighted specs and choose what matters most to you.",
				len(products)),
		}
	}

	a, b := products[0], products[1]
	wins := headToHeadWins(a, b)
	aWins, bWins := wins[a.ID], wins[b.ID]

	s := Summary{Wins: wins}
	switch {
	case len(aWins) == len(bWins):
		s.Kind = SummaryEven
		if len(aWins) == 0 {
			s.Text = fmt.Sprintf("%s and %s are evenly matched on price, capacity and noise.",
				a.DisplayName(), b.DisplayName())
		} else {
			s.Text = fmt.Sprintf("An even split: %s wins on %s, while %s wins on %s.",
				a.DisplayName(), joinCriteria(aWins), b.DisplayName(), joinCriteria(bWins))
		}
	default:
		s.Kind = SummaryLeader
		lead, lWins, other, oWins := a, aWins, b, bWins
		if len(bWins) > len(aWins) {
			lead, lWins, other, oWins = b, bWins, a, aWins
		}
		s.Leader = lead.ID
		s.Text = fmt.Sprintf("%s wins on %s.", lead.DisplayName(), joinCriteria(lWins))
		if len(oWins) > 0 {
			s.Text += fmt.Sprintf(" %s wins on %s.", other.DisplayName(), joinCriteria(oWins))
		}
	}
	return s
}

// headToHeadWins counts strict per-criterion wins; equal values are no win.
func headToHeadWins(a, b catalog.Product) map[string][]Criterion {
	wins := map[string][]Criterion{a.ID: nil, b.ID: nil}
	award := func(c Criterion, av, bv float64, lowerWins bool) {
		if av == bv {
			return
		}
		if (av < bv) == lowerWins {
			wins[a.ID] = append(wins[a.ID], c)
		} else {
			wins[b.ID] = append(wins[b.ID], c)
		}
	}
	for _, c := range headToHead {
		switch c {
		case CriterionPrice:
			award(c, a.Price, b.Price, true)
		case CriterionCapacity:
			award(c, capacityOrWorst(a), capacityOrWorst(b), false)
		case CriterionNoise:
			award(c, noiseOrWorst(a), noiseOrWorst(b), true)
		}
	}
	return wins
}

func joinCriteria(cs []Criterion) string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = string(c)
	}
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	}
	return strings.Join(parts[:len(parts)-1], ", ") + " and " + parts[len(parts)-1]
}

func byID(products []catalog.Product, id string) catalog.Product {
	for _, p := range products {
		if p.ID == id {
			return p
		}
	}
	return catalog.Product{}
}
