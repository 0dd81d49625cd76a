package stat

// Alphabet maps between feature strings and integer ids.
type Alphabet struct {
	ToID  map[string]int `json:"to_id"`
	ToStr []string       `json:"to_str"`
}

func NewAlphabet() *Alphabet {
	return &Alphabet{
		ToID: make(map[string]int),
	}
}

// Add adds s if not already present and returns its id.
func (a *Alphabet) Add(s string) int {
	if id, ok := a.ToID[s]; ok {
		return id
	}
	id := len(a.ToStr)
	a.ToID[s] = id
	a.ToStr = append(a.ToStr, s)
	return id
}

// String returns the feature of id, or "" if id is unknown.
func (a *Alphabet) String(id int) string {
	if id < 0 || id >= len(a.ToStr) {
		return ""
	}
	return a.ToStr[id]
}

func (a *Alphabet) Size() int {
	return len(a.ToStr)
}
