// Package snomask implements server-notice category registration: a
// snomask letter (spec GLOSSARY: "a server-notice category letter
// controlling which operators receive a given administrative event") and a
// per-oper subscription set, loosely grounded on ergochat/ergo's
// snomanager-style bitmask-per-category design (ergo has no standalone
// file for this; the shape here follows its general Manager-with-a-set
// idiom used throughout irc/client_lookup_set.go and irc/uban.go).
package snomask

import "fmt"

// Category describes one registered snomask letter.
type Category struct {
	Letter      byte
	Description string
}

// Registry tracks which letters are known and which subscriber keys (oper
// session identifiers) want which letters.
type Registry struct {
	known map[byte]Category
	subs  map[byte]map[string]bool
}

// NewRegistry returns an empty snomask registry.
func NewRegistry() *Registry {
	return &Registry{known: make(map[byte]Category), subs: make(map[byte]map[string]bool)}
}

// Register installs a new snomask category, failing if the letter is
// already taken.
func (r *Registry) Register(letter byte, description string) error {
	if _, exists := r.known[letter]; exists {
		return fmt.Errorf("snomask: letter %q already registered", letter)
	}
	r.known[letter] = Category{Letter: letter, Description: description}
	r.subs[letter] = make(map[string]bool)
	return nil
}

// Subscribe adds subscriberKey to the set of listeners for every letter in
// letters that is known; unknown letters are silently skipped.
func (r *Registry) Subscribe(subscriberKey string, letters string) {
	for i := 0; i < len(letters); i++ {
		l := letters[i]
		if set, ok := r.subs[l]; ok {
			set[subscriberKey] = true
		}
	}
}

// Unsubscribe removes subscriberKey from every letter in letters.
func (r *Registry) Unsubscribe(subscriberKey string, letters string) {
	for i := 0; i < len(letters); i++ {
		l := letters[i]
		if set, ok := r.subs[l]; ok {
			delete(set, subscriberKey)
		}
	}
}

// UnsubscribeAll removes subscriberKey from every category, used on quit.
func (r *Registry) UnsubscribeAll(subscriberKey string) {
	for _, set := range r.subs {
		delete(set, subscriberKey)
	}
}

// Subscribers returns every subscriber key currently listening for letter.
func (r *Registry) Subscribers(letter byte) []string {
	set := r.subs[letter]
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}

// ActiveLetters returns the letters subscriberKey currently listens to, in
// ascending order, for display (e.g. in a WHOIS/oper status reply).
func (r *Registry) ActiveLetters(subscriberKey string) string {
	var letters []byte
	for l, set := range r.subs {
		if set[subscriberKey] {
			letters = append(letters, l)
		}
	}
	for i := 0; i < len(letters); i++ {
		for j := i + 1; j < len(letters); j++ {
			if letters[j] < letters[i] {
				letters[i], letters[j] = letters[j], letters[i]
			}
		}
	}
	return string(letters)
}
