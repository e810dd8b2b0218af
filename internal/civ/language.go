package civ

import (
	"fmt"

	"github.com/biotica/biotica/internal/rng"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// maxLexiconSize bounds each faction's proto-lexicon (§4.8.6).
const maxLexiconSize = 64

var titleCaser = cases.Title(language.Und)

// Lexicon is a faction's bounded vocabulary of generated tokens, used both
// for agent utterances (§4.8.1) and scribe-authored notes (§4.8.6).
type Lexicon struct {
	tokens []string
	seen   map[string]bool
}

func newLexicon() *Lexicon {
	return &Lexicon{seen: map[string]bool{}}
}

var syllables = []string{
	"ka", "mi", "so", "ru", "ta", "el", "no", "va", "zu", "ith",
	"or", "an", "ek", "ul", "ra", "si", "om", "ad", "yu", "ob",
}

// coinToken deterministically mints a new lexicon token from r, normalizes
// its casing via golang.org/x/text/cases, and adds it if the lexicon has
// room (§4.8.6 is bounded).
func (lex *Lexicon) coinToken(r *rng.Stream) string {
	n := 2 + r.NextInt(2)
	raw := ""
	for i := 0; i < n; i++ {
		raw += syllables[r.NextInt(len(syllables))]
	}
	token := titleCaser.String(raw)
	if lex.seen[token] {
		return token
	}
	if len(lex.tokens) >= maxLexiconSize {
		return token
	}
	lex.tokens = append(lex.tokens, token)
	lex.seen[token] = true
	return token
}

// speakToken coins or reuses a token for a faction's lexicon and returns a
// short utterance string for the agent's thought buffer (§4.8.1).
func (s *System) speakToken(a *Agent, r *rng.Stream) string {
	f, ok := s.factions[a.FactionID]
	if !ok || f.Lexicon == nil {
		return ""
	}
	token := f.Lexicon.coinToken(r)
	return fmt.Sprintf("%s...", token)
}

// AuthorNote tokenizes a short message from a faction's lexicon and records
// it at the agent's current tile, per §3.5's Note type. Translation is left
// empty: it is filled in, non-authoritatively, by an external text service.
func (s *System) AuthorNote(a *Agent, r *rng.Stream, tokenCount int) *Note {
	f, ok := s.factions[a.FactionID]
	if !ok {
		return nil
	}
	tokens := make([]string, 0, tokenCount)
	for i := 0; i < tokenCount; i++ {
		tokens = append(tokens, f.Lexicon.coinToken(r))
	}
	note := &Note{
		ID:        fmt.Sprintf("note-%d", s.nextNoteID),
		FactionID: a.FactionID,
		AuthorID:  a.ID,
		X:         a.X,
		Y:         a.Y,
		Tokens:    tokens,
	}
	s.nextNoteID++
	s.notes = append(s.notes, note)
	return note
}

// Notes returns every authored note in creation order.
func (s *System) Notes() []*Note { return s.notes }
