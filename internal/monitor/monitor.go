// Package monitor tracks correlated stock pairs and fires a callback when
// a pair's prices drift beyond a configured threshold.
package monitor

// Stock is a watched instrument. Price 0 means "unset" — a stock that has
// never received an Update.
type Stock struct {
	Name  string
	Price int
}

// StockPair is an ordered pair of stock references, co-owned by both
// constituent stocks' pairing lists.
type StockPair struct {
	One *Stock
	Two *Stock
}

// Diverged reports whether the pair's prices differ by more than
// threshold. A pair with either price unset never diverges — this
// prevents spurious notifications during warm-up.
func (p *StockPair) Diverged(threshold int) bool {
	if p.One.Price == 0 || p.Two.Price == 0 {
		return false
	}
	diff := p.One.Price - p.Two.Price
	if diff < 0 {
		diff = -diff
	}
	return diff > threshold
}

// OnNotify is invoked at most once per diverged pair per Update, with the
// changed stock always as the first argument.
type OnNotify func(changed, other Stock)

type watchedStock struct {
	stock *Stock
	pairs []*StockPair
}

// Monitor holds the set of watched stocks and the pairs between them.
type Monitor struct {
	threshold int
	onNotify  OnNotify
	stocks    map[string]*watchedStock
}

// New constructs a Monitor. threshold must be strictly positive.
func New(threshold int, onNotify OnNotify) (*Monitor, error) {
	if threshold <= 0 {
		return nil, ErrInvalidArgument
	}
	return &Monitor{
		threshold: threshold,
		onNotify:  onNotify,
		stocks:    make(map[string]*watchedStock),
	}, nil
}

func (m *Monitor) lookup(name string) *watchedStock {
	if ws, ok := m.stocks[name]; ok {
		return ws
	}
	ws := &watchedStock{stock: &Stock{Name: name}}
	m.stocks[name] = ws
	return ws
}

// Monitor registers interest in (nameA, nameB). Equal names are a no-op.
// Unknown stocks are inserted with price 0. A pair already present on
// either side's list is a no-op.
func (m *Monitor) Monitor(nameA, nameB string) {
	if nameA == nameB {
		return
	}

	one := m.lookup(nameA)
	two := m.lookup(nameB)

	for _, p := range one.pairs {
		for _, q := range two.pairs {
			if p == q {
				return
			}
		}
	}

	pair := &StockPair{One: one.stock, Two: two.stock}
	one.pairs = append(one.pairs, pair)
	two.pairs = append(two.pairs, pair)
}

// Update sets name's price, inserting it if unknown, then notifies for
// every pair containing name whose Diverged predicate now holds.
func (m *Monitor) Update(name string, price int) {
	ws, ok := m.stocks[name]
	if !ok {
		ws = &watchedStock{stock: &Stock{Name: name, Price: price}}
		m.stocks[name] = ws
		return
	}

	ws.stock.Price = price

	for _, pair := range ws.pairs {
		if pair.Diverged(m.threshold) {
			m.notify(name, pair)
		}
	}
}

// notify branches on which side of the pair matches name, to decide
// argument order. When a pair's two stocks share a name (prevented at
// Monitor time, not here), this check is vacuous — preserved exactly.
func (m *Monitor) notify(name string, pair *StockPair) {
	if name == pair.One.Name {
		m.onNotify(*pair.One, *pair.Two)
	} else {
		m.onNotify(*pair.Two, *pair.One)
	}
}

// GetPairings returns the, possibly empty, list of pairs involving name.
func (m *Monitor) GetPairings(name string) []*StockPair {
	ws, ok := m.stocks[name]
	if !ok {
		return nil
	}
	return ws.pairs
}
