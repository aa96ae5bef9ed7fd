package quiz

// orderedMap is an int-keyed map that iterates in insertion order.
type orderedMap[V any] struct {
	keys   []int
	values map[int]V
}

func (m *orderedMap[V]) set(key int, value V) {
	if m.values == nil {
		m.values = map[int]V{}
	}
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

func (m *orderedMap[V]) get(key int) (V, bool) {
	value, ok := m.values[key]
	return value, ok
}

func (m *orderedMap[V]) len() int {
	return len(m.keys)
}

// ids returns a copy of the keys in insertion order.
func (m *orderedMap[V]) ids() []int {
	out := make([]int, len(m.keys))
	copy(out, m.keys)
	return out
}

func (m *orderedMap[V]) reset() {
	m.keys = nil
	m.values = map[int]V{}
}
