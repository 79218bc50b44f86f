package http1

// Headers is a case-insensitive header map, remembering the original spelling of
// every name. A repeated header overwrites the value of the previous one, keeping
// its original position
type Headers struct {
	values map[string]string
	names  map[string]string
	order  []string
}

func NewHeaders() *Headers {
	return &Headers{
		values: make(map[string]string),
		names:  make(map[string]string),
	}
}

func (h *Headers) set(folded, name, value string) {
	if _, found := h.values[folded]; !found {
		h.order = append(h.order, folded)
	}

	h.values[folded] = value
	h.names[folded] = name
}

// Get returns the value of the header, looked up case-insensitively
func (h *Headers) Get(name string) (value string, found bool) {
	value, found = h.values[foldString(name)]

	return value, found
}

// Value is Get without the presence flag
func (h *Headers) Value(name string) string {
	return h.values[foldString(name)]
}

func (h *Headers) Has(name string) bool {
	_, found := h.values[foldString(name)]

	return found
}

// Name returns the header name exactly as the client has spelled it
func (h *Headers) Name(name string) string {
	return h.names[foldString(name)]
}

func (h *Headers) Len() int {
	return len(h.order)
}

// Range calls fn for every header in the order of their first appearance, using
// the original spelling of names. Stops as soon as fn returns false
func (h *Headers) Range(fn func(name, value string) bool) {
	for _, folded := range h.order {
		if !fn(h.names[folded], h.values[folded]) {
			return
		}
	}
}

func (h *Headers) clear() {
	clear(h.values)
	clear(h.names)
	h.order = h.order[:0]
}

func foldString(s string) string {
	for i := 0; i < len(s); i++ {
		if 'A' <= s[i] && s[i] <= 'Z' {
			b := []byte(s)
			foldBytes(b[i:])

			return string(b)
		}
	}

	return s
}

func foldBytes(b []byte) {
	for i, char := range b {
		if 'A' <= char && char <= 'Z' {
			b[i] = char | 0x20
		}
	}
}
