package engine

import "time"

// ExtensionPolicy implements anti-sniping: a bid accepted close to the end
// time pushes the end time out, up to a bounded number of extensions.
type ExtensionPolicy struct {
	Window        time.Duration
	Amount        time.Duration
	MaxExtensions int
}

// Apply decides whether a bid accepted at now extends the auction. The new
// end time never moves backward and never passes
// originalEnd + MaxExtensions*Amount, so extension wars stay bounded.
func (p ExtensionPolicy) Apply(now, endTime, originalEnd time.Time, extensionCount int) (time.Time, bool) {
	if p.Window <= 0 || p.Amount <= 0 {
		return endTime, false
	}
	if extensionCount >= p.MaxExtensions {
		return endTime, false
	}
	if endTime.Sub(now) > p.Window {
		return endTime, false
	}

	newEnd := now.Add(p.Amount)
	limit := originalEnd.Add(time.Duration(p.MaxExtensions) * p.Amount)
	if newEnd.After(limit) {
		newEnd = limit
	}
	if !newEnd.After(endTime) {
		return endTime, false
	}
	return newEnd, true
}
