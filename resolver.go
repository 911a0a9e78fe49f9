package perform

import (
	"regexp"
	"strings"
)

// DefaultFuzzyThreshold is the minimum similarity score a fuzzy match must
// reach to be accepted. It is a policy choice, override it on the Resolver
// when the holdings data warrants more or less tolerance.
const DefaultFuzzyThreshold = 0.80

// Confidence qualifies how a security name was resolved.
type Confidence int

const (
	// Unresolved means no instrument matched the name.
	Unresolved Confidence = iota
	// Fuzzy means an instrument matched above the similarity threshold.
	Fuzzy
	// Exact means the name matched a symbol, a registered name or an
	// alias after normalization.
	Exact
)

func (c Confidence) String() string {
	switch c {
	case Exact:
		return "exact"
	case Fuzzy:
		return "fuzzy"
	default:
		return "unresolved"
	}
}

// ResolvedInstrument is the outcome of resolving one free-text security
// name. An unresolved name carries no ID; Matched and Score then describe
// the best near miss so gap reports can show how close it was.
type ResolvedInstrument struct {
	Name       string     // the raw input name
	ID         ID         // the resolved instrument, empty when unresolved
	Matched    string     // the registry text that matched (or came closest)
	Score      float64    // similarity in [0,1], 1 for exact matches
	Confidence Confidence // exact, fuzzy or unresolved
}

var (
	parensRE    = regexp.MustCompile(`\([^)]*\)`)
	faceValueRE = regexp.MustCompile(`\bRS\.?\s*\d+(\s*/\s*-)?`)
	nonNameRE   = regexp.MustCompile(`[^A-Z0-9& ]+`)
)

// droppedTokens are corporate suffixes and listing markers that holdings
// statements add to a company name but registries usually do not.
var droppedTokens = map[string]bool{
	"LIMITED": true, "LTD": true, "PVT": true, "PRIVATE": true,
	"CO": true, "CORP": true, "CORPORATION": true, "INC": true,
	"COMPANY": true,
	// equity series markers of demat statements
	"EQ": true, "BE": true, "SM": true,
}

// normalizeName reduces a free-text security name to its comparable form:
// uppercase, no parenthesised segments, no face values ("RS. 2/-"), no
// corporate suffixes, only letters, digits, '&' and single spaces.
func normalizeName(name string) string {
	s := strings.ToUpper(name)
	s = parensRE.ReplaceAllString(s, " ")
	s = faceValueRE.ReplaceAllString(s, " ")
	s = nonNameRE.ReplaceAllString(s, " ")

	fields := strings.Fields(s)
	kept := fields[:0]
	for _, f := range fields {
		if droppedTokens[f] {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}

// bigrams returns the multiset of adjacent rune pairs of s.
func bigrams(s string) map[string]int {
	runes := []rune(s)
	grams := make(map[string]int, len(runes))
	for i := 0; i+1 < len(runes); i++ {
		grams[string(runes[i:i+2])]++
	}
	return grams
}

// similarity returns the Sorensen-Dice coefficient of the two strings'
// bigram multisets, in [0,1]. It is symmetric and deterministic.
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	ga, gb := bigrams(a), bigrams(b)
	if len(ga) == 0 || len(gb) == 0 {
		return 0
	}
	var common, total int
	for g, na := range ga {
		total += na
		if nb := gb[g]; nb < na {
			common += nb
		} else {
			common += na
		}
	}
	for _, nb := range gb {
		total += nb
	}
	return 2 * float64(common) / float64(total)
}

// candidate is one searchable text of the resolver index.
type candidate struct {
	norm   string // normalized text
	text   string // the registry text as declared
	symbol string // owning instrument
}

// Resolver maps free-text security names to registry instruments. It is
// built once over a registry snapshot and is stateless afterwards: the
// same name always resolves to the same result, and concurrent use is
// safe.
type Resolver struct {
	registry   *Registry
	threshold  float64
	exact      map[string]string // normalized name or alias -> symbol
	candidates []candidate       // every searchable text, in symbol order
}

// NewResolver builds a resolver over a registry snapshot. A non-positive
// threshold selects DefaultFuzzyThreshold.
func NewResolver(registry *Registry, threshold float64) *Resolver {
	if threshold <= 0 {
		threshold = DefaultFuzzyThreshold
	}
	r := &Resolver{
		registry:  registry,
		threshold: threshold,
		exact:     make(map[string]string),
	}
	// Instruments() is sorted by symbol, so index collisions and scan
	// order are deterministic: the first symbol wins.
	for _, ins := range registry.Instruments() {
		texts := append([]string{ins.Name()}, ins.aliases...)
		for _, text := range texts {
			norm := normalizeName(text)
			if norm == "" {
				continue
			}
			if _, taken := r.exact[norm]; !taken {
				r.exact[norm] = ins.Symbol()
			}
			r.candidates = append(r.candidates, candidate{norm: norm, text: text, symbol: ins.Symbol()})
		}
		// The symbol itself is searchable: holdings sometimes carry it.
		r.candidates = append(r.candidates, candidate{norm: ins.Symbol(), text: ins.Symbol(), symbol: ins.Symbol()})
	}
	return r
}

// Threshold returns the fuzzy acceptance threshold in use.
func (r *Resolver) Threshold() float64 { return r.threshold }

// Resolve maps a free-text security name to an instrument. Absence of a
// match is a normal outcome, never an error: the result is then tagged
// Unresolved and carries the best near miss.
func (r *Resolver) Resolve(name string) ResolvedInstrument {
	res := ResolvedInstrument{Name: name}

	// A holding may carry the symbol itself.
	if ins, ok := r.registry.Find(strings.TrimSpace(strings.ToUpper(name))); ok {
		res.ID = ins.ID()
		res.Matched = ins.Symbol()
		res.Score = 1
		res.Confidence = Exact
		return res
	}

	norm := normalizeName(name)
	if norm == "" {
		return res
	}

	if symbol, ok := r.exact[norm]; ok {
		ins, _ := r.registry.Find(symbol)
		res.ID = ins.ID()
		res.Matched = ins.Name()
		res.Score = 1
		res.Confidence = Exact
		return res
	}

	// Fuzzy scan over every candidate text. Ties break on the scan order,
	// which is the symbol order, so resolution stays deterministic.
	var best candidate
	var bestScore float64
	for _, c := range r.candidates {
		if score := similarity(norm, c.norm); score > bestScore {
			best, bestScore = c, score
		}
	}

	res.Matched = best.text
	res.Score = bestScore
	if bestScore >= r.threshold {
		ins, _ := r.registry.Find(best.symbol)
		res.ID = ins.ID()
		res.Confidence = Fuzzy
	}
	return res
}
