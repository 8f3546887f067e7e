package filter

import (
	"strings"

	"github.com/tayloree/appliance-compare/internal/catalog"
)

// brandSynonyms lets a free-text query written in katakana/kanji find the
// romanized brand and vice versa.
var brandSynonyms = map[string][]string{
	"panasonic":   {"パナソニック", "national"},
	"sharp":       {"シャープ"},
	"mitsubishi":  {"三菱", "三菱電機", "mitsubishi electric"},
	"daikin":      {"ダイキン"},
	"hitachi":     {"日立"},
	"corona":      {"コロナ"},
	"iris ohyama": {"アイリスオーヤマ", "iris"},
	"dyson":       {"ダイソン"},
	"balmuda":     {"バルミューダ"},
	"toshiba":     {"東芝"},
	"dainichi":    {"ダイニチ"},
	"zojirushi":   {"象印"},
}

type queryMatcher struct {
	terms []string
}

func newQueryMatcher(query string) queryMatcher {
	return queryMatcher{terms: queryAliasList(query)}
}

func queryAliasList(query string) []string {
	raw := normalizeTerm(query)
	if raw == "" {
		return nil
	}

	out := []string{raw}
	addAlias := func(alias string) {
		alias = normalizeTerm(alias)
		if alias == "" {
			return
		}
		for _, existing := range out {
			if existing == alias {
				return
			}
		}
		out = append(out, alias)
	}

	if group := resolveBrandGroup(raw); group != "" {
		addAlias(group)
		for _, s := range brandSynonyms[group] {
			addAlias(s)
		}
	}
	return out
}

func resolveBrandGroup(norm string) string {
	if _, ok := brandSynonyms[norm]; ok {
		return norm
	}
	for key, synonyms := range brandSynonyms {
		for _, s := range synonyms {
			if normalizeTerm(s) == norm {
				return key
			}
		}
	}
	return ""
}

func (m queryMatcher) matches(p catalog.Product) bool {
	if len(m.terms) == 0 {
		return true
	}
	text := normalizeTerm(p.Name + " " + p.Brand + " " + p.Model)
	for _, t := range m.terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}

func normalizeTerm(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")
	return strings.Join(strings.Fields(s), " ")
}
