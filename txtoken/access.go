package txtoken

// Read-only navigation over a Parsed document. Every accessor is bounds
// checked and reports a missing token as -1 (or nil) instead of panicking.

func (p *Parsed) valid(i int) bool {
	return i >= 0 && i < p.Count
}

// Kind returns the kind of token i, or KindUndefined.
func (p *Parsed) Kind(i int) Kind {
	if !p.valid(i) {
		return KindUndefined
	}
	return p.Tokens[i].Kind
}

// Text returns the raw bytes of token i. For strings the quotes are
// excluded and escapes are left as written.
func (p *Parsed) Text(i int) []byte {
	if !p.valid(i) {
		return nil
	}
	t := &p.Tokens[i]
	return p.Buffer[t.Start:t.End]
}

// Skip returns the index of the first token after the subtree rooted at i.
// Descendants of i are exactly the following tokens that start before i
// ends.
func (p *Parsed) Skip(i int) int {
	if !p.valid(i) {
		return -1
	}
	end := p.Tokens[i].End
	j := i + 1
	for j < p.Count && p.Tokens[j].Start < end {
		j++
	}
	return j
}

// Child returns the index of the n-th immediate child of i, or -1.
func (p *Parsed) Child(i, n int) int {
	if !p.valid(i) || n < 0 || n >= p.Tokens[i].Size {
		return -1
	}
	j := i + 1
	for ; n > 0; n-- {
		j = p.Skip(j)
	}
	return j
}

// ObjectLen returns the number of members of object i, or -1.
func (p *Parsed) ObjectLen(i int) int {
	if p.Kind(i) != KindObject {
		return -1
	}
	return p.Tokens[i].Size / 2
}

// ArrayLen returns the number of elements of array i, or -1.
func (p *Parsed) ArrayLen(i int) int {
	if p.Kind(i) != KindArray {
		return -1
	}
	return p.Tokens[i].Size
}

// ObjectKey returns the key token of the n-th member of object i, or -1.
func (p *Parsed) ObjectKey(i, n int) int {
	if p.Kind(i) != KindObject {
		return -1
	}
	return p.Child(i, 2*n)
}

// ObjectValue returns the value token of the n-th member of object i, or -1.
func (p *Parsed) ObjectValue(i, n int) int {
	if p.Kind(i) != KindObject {
		return -1
	}
	return p.Child(i, 2*n+1)
}

// ObjectGet returns the value token for key in object i, or -1. Keys are
// matched on their raw bytes at this level only.
func (p *Parsed) ObjectGet(i int, key string) int {
	n := p.ObjectLen(i)
	k := i + 1
	for ; n > 0; n-- {
		if string(p.Text(k)) == key {
			return k + 1
		}
		k = p.Skip(k + 1)
	}
	return -1
}

// ArrayElem returns the n-th element of array i, or -1.
func (p *Parsed) ArrayElem(i, n int) int {
	if p.Kind(i) != KindArray {
		return -1
	}
	return p.Child(i, n)
}
