package bom

import "github.com/shopspring/decimal"

// EffectiveHardware picks the hardware id a line actually uses: an explicit
// override wins, then the shop standard for the default item's category,
// then the default itself. A standard missing from the price book is
// ignored.
func EffectiveHardware(defaultID, override string, prices PriceBook, standards Standards) string {
	if override != "" {
		return override
	}
	if hw, ok := prices.Hardware[defaultID]; ok && hw.Category != "" {
		if std := standards[hw.Category]; std != "" {
			if _, priced := prices.Hardware[std]; priced {
				return std
			}
		}
	}
	return defaultID
}

// HardwareLedger consolidates hardware quantities by effective id and keeps
// the labels of the lines that asked for them.
type HardwareLedger struct {
	order   []string
	qty     map[string]int
	origins map[string][]string
}

func NewHardwareLedger() *HardwareLedger {
	return &HardwareLedger{qty: map[string]int{}, origins: map[string][]string{}}
}

// Add records qty units of hardwareID requested by origin.
func (l *HardwareLedger) Add(hardwareID string, qty int, origin string) {
	if qty <= 0 {
		return
	}
	l.add(hardwareID, qty)
	l.addOrigin(hardwareID, origin)
}

// Merge adds every entry of o into l.
func (l *HardwareLedger) Merge(o *HardwareLedger) {
	for _, id := range o.order {
		l.add(id, o.qty[id])
		for _, origin := range o.origins[id] {
			l.addOrigin(id, origin)
		}
	}
}

func (l *HardwareLedger) add(id string, qty int) {
	if _, seen := l.qty[id]; !seen {
		l.order = append(l.order, id)
	}
	l.qty[id] += qty
}

func (l *HardwareLedger) addOrigin(id, origin string) {
	if origin == "" {
		return
	}
	for _, o := range l.origins[id] {
		if o == origin {
			return
		}
	}
	l.origins[id] = append(l.origins[id], origin)
}

// Count returns the total units across every hardware id.
func (l *HardwareLedger) Count() int {
	var n int
	for _, q := range l.qty {
		n += q
	}
	return n
}

// Aggregates prices every consolidated line. Ids missing from prices are
// left out.
func (l *HardwareLedger) Aggregates(prices PriceBook) []HardwareAggregate {
	out := make([]HardwareAggregate, 0, len(l.order))
	for _, id := range l.order {
		hw, ok := prices.Hardware[id]
		if !ok {
			continue
		}
		q := l.qty[id]
		out = append(out, HardwareAggregate{
			HardwareID: id,
			Name:       hw.Name,
			UOM:        hw.UOM,
			Quantity:   q,
			UnitPrice:  hw.UnitPrice,
			Cost:       hw.UnitPrice.Mul(decimal.NewFromInt(int64(q))),
			Origins:    append([]string(nil), l.origins[id]...),
		})
	}
	return out
}
