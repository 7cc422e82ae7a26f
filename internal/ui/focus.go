package ui

// FocusManager tracks and rotates focus across input fields.
type FocusManager struct {
	Current  string               // ID of the currently focused field
	Order    []string             // Tab order for focus rotation
	Enabled  func(id string) bool // nil = every field is focusable
	OnChange func(from, to string)
}

// Next advances focus to the next enabled field in order.
// Returns the new current focus ID (unchanged if nothing else is enabled).
func (f *FocusManager) Next() string {
	return f.rotate(1)
}

// Prev moves focus to the previous enabled field in order.
func (f *FocusManager) Prev() string {
	return f.rotate(-1)
}

func (f *FocusManager) rotate(step int) string {
	n := len(f.Order)
	if n == 0 {
		return ""
	}
	idx := f.index(f.Current)
	if idx < 0 {
		idx = 0
		if step > 0 {
			idx = n - 1
		}
	}
	for i := 1; i <= n; i++ {
		next := f.Order[((idx+step*i)%n+n)%n]
		if f.enabled(next) {
			f.set(next)
			break
		}
	}
	return f.Current
}

// SetFocus sets focus to the given field ID.
// Returns false if the ID is unknown or disabled.
func (f *FocusManager) SetFocus(id string) bool {
	if f.index(id) < 0 || !f.enabled(id) {
		return false
	}
	f.set(id)
	return true
}

func (f *FocusManager) set(id string) {
	from := f.Current
	f.Current = id
	if f.OnChange != nil && from != id {
		f.OnChange(from, id)
	}
}

func (f *FocusManager) index(id string) int {
	for i, o := range f.Order {
		if o == id {
			return i
		}
	}
	return -1
}

func (f *FocusManager) enabled(id string) bool {
	return f.Enabled == nil || f.Enabled(id)
}
