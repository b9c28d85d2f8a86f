package signal

// Bounded is an integer kept inside [Min, Max]. Stepping past a bound either
// wraps to the opposite bound or clamps, depending on Wrap.
//
// Arm durations and schedule hours share this type and nothing else.
type Bounded struct {
	min, max int
	wrap     bool
	value    int
}

// NewBounded returns a Bounded holding v, brought into range.
func NewBounded(v, lo, hi int, wrap bool) Bounded {
	b := Bounded{min: lo, max: hi, wrap: wrap}
	b.Set(v)
	return b
}

// Get returns the current value.
func (b *Bounded) Get() int { return b.value }

// Set stores v clamped to the range.
func (b *Bounded) Set(v int) {
	switch {
	case v < b.min:
		v = b.min
	case v > b.max:
		v = b.max
	}
	b.value = v
}

// Inc steps the value up by one.
func (b *Bounded) Inc() {
	if b.value >= b.max {
		if b.wrap {
			b.value = b.min
		}
		return
	}
	b.value++
}

// Dec steps the value down by one.
func (b *Bounded) Dec() {
	if b.value <= b.min {
		if b.wrap {
			b.value = b.max
		}
		return
	}
	b.value--
}

// Range returns the inclusive bounds.
func (b *Bounded) Range() (lo, hi int) { return b.min, b.max }
