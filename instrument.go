package perform

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// symbolRegex checks an exchange symbol: letters, digits, '&' and '-'
// (M&M, BAJAJ-AUTO are real NSE symbols).
var symbolRegex = regexp.MustCompile(`^[A-Z0-9][A-Z0-9&-]{0,19}$`)

// exchangeRegex checks an exchange code: 2 to 8 uppercase letters.
var exchangeRegex = regexp.MustCompile(`^[A-Z]{2,8}$`)

// ID is the unique identifier of a priced instrument, the key of every
// price lookup.
//
// The format is the concatenation of the exchange symbol and the exchange
// code, separated by a FULL STOP character ('.'):
//
//	ID = SYMBOL "." EXCHANGE
//
// e.g. "HDFCBANK.NSE" for an equity, "NSEI.INDX" for an index.
type ID string

// NewID returns a validated ID from a symbol and an exchange code.
func NewID(symbol, exchange string) (ID, error) {
	id := ID(strings.ToUpper(strings.TrimSpace(symbol)) + "." + strings.ToUpper(strings.TrimSpace(exchange)))
	if err := id.Validate(); err != nil {
		return "", err
	}
	return id, nil
}

// Validate checks the SYMBOL.EXCHANGE format.
func (id ID) Validate() error {
	symbol, exchange, ok := strings.Cut(string(id), ".")
	if !ok {
		return fmt.Errorf("invalid instrument id %q: want format SYMBOL.EXCHANGE", string(id))
	}
	if !symbolRegex.MatchString(symbol) {
		return fmt.Errorf("invalid instrument id %q: invalid symbol %q", string(id), symbol)
	}
	if !exchangeRegex.MatchString(exchange) {
		return fmt.Errorf("invalid instrument id %q: invalid exchange %q", string(id), exchange)
	}
	return nil
}

// Symbol returns the symbol part of the ID.
func (id ID) Symbol() string {
	symbol, _, _ := strings.Cut(string(id), ".")
	return symbol
}

// Exchange returns the exchange code part of the ID.
func (id ID) Exchange() string {
	_, exchange, _ := strings.Cut(string(id), ".")
	return exchange
}

func (id ID) String() string { return string(id) }

// Instrument is a priced instrument of the registry: the target of ticker
// resolution and the key to market data.
type Instrument struct {
	id      ID
	name    string   // official company or index name
	aliases []string // other names the instrument is known by in holdings files
}

// NewInstrument returns a validated instrument.
func NewInstrument(id ID, name string, aliases ...string) (Instrument, error) {
	if err := id.Validate(); err != nil {
		return Instrument{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Instrument{}, fmt.Errorf("instrument %q has an empty name", string(id))
	}
	var as []string
	for _, a := range aliases {
		if a = strings.TrimSpace(a); a != "" {
			as = append(as, a)
		}
	}
	return Instrument{id: id, name: name, aliases: as}, nil
}

func (i Instrument) ID() ID         { return i.id }
func (i Instrument) Symbol() string { return i.id.Symbol() }
func (i Instrument) Name() string   { return i.name }

// Aliases returns a copy of the instrument's aliases.
func (i Instrument) Aliases() []string { return append([]string(nil), i.aliases...) }

// Registry holds the known instruments, keyed by symbol. It is the
// snapshot ticker resolution runs against: one listing per symbol.
type Registry struct {
	instruments map[string]Instrument
}

// NewRegistry returns a new empty registry.
func NewRegistry() *Registry { return &Registry{instruments: make(map[string]Instrument)} }

// Add registers an instrument. Adding a second instrument with the same
// symbol is an error.
func (r *Registry) Add(ins Instrument) error {
	if ins.id == "" {
		return fmt.Errorf("cannot register an instrument without id")
	}
	symbol := ins.Symbol()
	if _, exists := r.instruments[symbol]; exists {
		return fmt.Errorf("symbol %q is already registered", symbol)
	}
	r.instruments[symbol] = ins
	return nil
}

// Has reports whether the symbol is registered.
func (r *Registry) Has(symbol string) bool {
	_, ok := r.instruments[strings.ToUpper(symbol)]
	return ok
}

// Find returns the instrument registered under the symbol.
func (r *Registry) Find(symbol string) (Instrument, bool) {
	ins, ok := r.instruments[strings.ToUpper(symbol)]
	return ins, ok
}

// Len returns the number of registered instruments.
func (r *Registry) Len() int { return len(r.instruments) }

// Instruments returns all instruments sorted by symbol for stable output.
func (r *Registry) Instruments() []Instrument {
	list := make([]Instrument, 0, len(r.instruments))
	for _, ins := range r.instruments {
		list = append(list, ins)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Symbol() < list[j].Symbol() })
	return list
}
