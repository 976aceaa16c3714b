package lexer

import "github.com/girogio/parlc-sub000/pkg/token"

// transitionStep builds one state-chain for a multi-character lexeme (an
// identifier, a number, a two-character operator...) fluently: each To call
// extends the chain by one state, Repeated turns the last link into a
// self-loop, and GoesTo marks the chain's current end as accepting.
//
// The state numbering scheme mirrors a simple counter: Builder.Transition
// reserves the next free state, and every subsequent To call in the chain
// advances to Builder.maxState + depth, so chains never collide with each
// other or with single-character symbols added before them.
type transitionStep struct {
	b            *Builder
	transitions  []stepEdge
	finals       []stepFinal
	currentState int
}

type stepEdge struct {
	cat  Category
	from int
	to   int
}

type stepFinal struct {
	state int
	kind  token.Kind
}

func newTransitionStep(b *Builder) *transitionStep {
	return &transitionStep{b: b}
}

// To extends the chain by one state for each category given (categories
// that should be treated as alternatives at this position, e.g. a letter or
// an underscore starting an identifier).
func (t *transitionStep) To(categories ...Category) *transitionStep {
	for _, cat := range categories {
		from := 0
		if t.currentState != 0 {
			from = t.currentState + t.b.maxState - 1
		}
		to := t.b.maxState + t.currentState
		t.transitions = append(t.transitions, stepEdge{cat: cat, from: from, to: to})
	}
	t.currentState++
	return t
}

// Repeated turns the edge(s) just added by To into a self-loop: any prior
// edge sharing the same source state is duplicated with its source
// replaced by the destination, so further input in that category stays in
// the same state (e.g. "digit+").
func (t *transitionStep) Repeated() *transitionStep {
	if len(t.transitions) == 0 {
		return t
	}
	last := t.transitions[len(t.transitions)-1]
	s1, s2 := last.from, last.to
	origLen := len(t.transitions)
	for i := origLen - 1; i >= 0; i-- {
		if t.transitions[i].from != s1 {
			break
		}
		looped := t.transitions[i]
		looped.from = s2
		t.transitions = append(t.transitions, looped)
	}
	return t
}

// GoesTo marks the chain's current end state as accepting with kind.
func (t *transitionStep) GoesTo(kind token.Kind) *transitionStep {
	state := t.currentState + t.b.maxState - 1
	t.finals = append(t.finals, stepFinal{state: state, kind: kind})
	return t
}

// Done commits the chain into the owning Builder and returns it, ready for
// another AddCategory/Transition call.
func (t *transitionStep) Done() *Builder {
	for _, e := range t.transitions {
		t.b.transitions[stateCat{e.from, e.cat}] = e.to
	}
	for _, f := range t.finals {
		t.b.stateToToken[f.state] = f.kind
		t.b.accepting[f.state] = true
	}
	t.b.maxState += t.currentState - 1
	return t.b
}
