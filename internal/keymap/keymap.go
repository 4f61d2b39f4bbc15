package keymap

import (
	"fmt"
	"sort"
	"strings"
)

// node is a node in a Keymap trie. Unlike a plain prefix tree a node may
// carry an action and children at the same time; the Matcher resolves that
// case by looking at the following byte.
type node struct {
	children map[byte]*node
	action   string
}

func newNode() *node {
	return &node{children: make(map[byte]*node)}
}

// Binding relates a key sequence to an action name.
type Binding struct {
	Keys   Sequence
	Action string
}

// Keymap is a set of bindings stored as a byte trie.
//
// Example:
//
//	trie:                mapping:
//
//	^[
//	+-[
//	| +-A  -> up         "^[[A" -> up
//	| +-B  -> down       "^[[B" -> down
//	+-b    -> word-left  "^[b"  -> word-left
//	^W     -> kill-word  "^W"   -> kill-word
type Keymap struct {
	root  *node
	count int
}

// New returns an empty Keymap.
func New() *Keymap {
	return &Keymap{root: newNode()}
}

// Bind maps seq to action, replacing any previous binding of seq.
// Empty sequences are ignored.
func (k *Keymap) Bind(seq Sequence, action string) {
	if len(seq) == 0 {
		return
	}
	n := k.root
	for i := 0; i < len(seq); i++ {
		child, ok := n.children[seq[i]]
		if !ok {
			child = newNode()
			n.children[seq[i]] = child
		}
		n = child
	}
	if n.action == "" {
		k.count++
	}
	n.action = action
}

// Unbind removes the binding for seq, pruning nodes left without purpose.
// It reports whether a binding was removed.
func (k *Keymap) Unbind(seq Sequence) bool {
	if len(seq) == 0 {
		return false
	}
	path := []*node{k.root}
	n := k.root
	for i := 0; i < len(seq); i++ {
		n = n.children[seq[i]]
		if n == nil {
			return false
		}
		path = append(path, n)
	}
	if n.action == "" {
		return false
	}
	n.action = ""
	k.count--

	for i := len(seq) - 1; i >= 0; i-- {
		child := path[i+1]
		if child.action != "" || len(child.children) > 0 {
			break
		}
		delete(path[i].children, seq[i])
	}
	return true
}

// Lookup returns the action bound to exactly seq.
func (k *Keymap) Lookup(seq Sequence) (string, bool) {
	n := k.root
	for i := 0; i < len(seq); i++ {
		n = n.children[seq[i]]
		if n == nil {
			return "", false
		}
	}
	if n == k.root || n.action == "" {
		return "", false
	}
	return n.action, true
}

// Len returns the number of bindings.
func (k *Keymap) Len() int {
	return k.count
}

// Bindings returns all bindings ordered by key sequence.
func (k *Keymap) Bindings() []Binding {
	bindings := make([]Binding, 0, k.count)
	var walk func(n *node, prefix []byte)
	walk = func(n *node, prefix []byte) {
		if n.action != "" {
			bindings = append(bindings, Binding{Keys: Sequence(prefix), Action: n.action})
		}
		for b, child := range n.children {
			walk(child, append(prefix[:len(prefix):len(prefix)], b))
		}
	}
	walk(k.root, nil)

	sort.Slice(bindings, func(i, j int) bool {
		return bindings[i].Keys < bindings[j].Keys
	})
	return bindings
}

// Dump returns one line per binding in the form
//
//	"^W"	->	ed-delete-prev-word
func (k *Keymap) Dump() string {
	var b strings.Builder
	for _, binding := range k.Bindings() {
		b.WriteString(FormatBinding(binding.Keys, binding.Action))
		b.WriteByte('\n')
	}
	return b.String()
}

// DumpSequence describes the binding of a single sequence. Unbound
// sequences are reported as ed-unassigned.
func (k *Keymap) DumpSequence(seq Sequence) string {
	action, ok := k.Lookup(seq)
	if !ok {
		action = ActionUnassigned
	}
	return FormatBinding(seq, action)
}

// FormatBinding formats a single dump line without the trailing newline.
func FormatBinding(seq Sequence, action string) string {
	return fmt.Sprintf("%q\t->\t%s", seq.String(), action)
}

// MatchKind classifies the result of feeding a byte to a Matcher.
type MatchKind int

const (
	// Partial means the bytes so far are a strict prefix of a binding.
	Partial MatchKind = iota
	// Matched means Action was selected for Seq.
	Matched
	// Unbound means Seq does not lead to any binding. A single unbound
	// byte is usually self-inserted by the caller.
	Unbound
)

// Match is the outcome of Matcher.Feed.
type Match struct {
	Kind   MatchKind
	Action string
	Seq    Sequence
	// Replay is set when the fed byte was not part of Seq and must be fed
	// again after the action has run.
	Replay bool
}

// Matcher walks a Keymap one byte at a time.
type Matcher struct {
	km      *Keymap
	cur     *node
	pending []byte
}

// NewMatcher returns a Matcher positioned at the root of km.
func (k *Keymap) NewMatcher() *Matcher {
	return &Matcher{km: k, cur: k.root}
}

// Reset discards any partially matched sequence.
func (m *Matcher) Reset() {
	m.cur = m.km.root
	m.pending = m.pending[:0]
}

// Pending reports whether a partial sequence is buffered.
func (m *Matcher) Pending() bool {
	return len(m.pending) > 0
}

// Feed advances the matcher by one input byte.
func (m *Matcher) Feed(b byte) Match {
	child := m.cur.children[b]
	if child == nil {
		if m.cur == m.km.root {
			return Match{Kind: Unbound, Seq: Sequence([]byte{b})}
		}
		if action := m.cur.action; action != "" {
			seq := Sequence(m.pending)
			m.Reset()
			return Match{Kind: Matched, Action: action, Seq: seq, Replay: true}
		}
		seq := Sequence(append(m.pending, b))
		m.Reset()
		return Match{Kind: Unbound, Seq: seq}
	}

	m.pending = append(m.pending, b)
	if len(child.children) == 0 {
		seq := Sequence(m.pending)
		m.Reset()
		return Match{Kind: Matched, Action: child.action, Seq: seq}
	}
	m.cur = child
	return Match{Kind: Partial}
}
