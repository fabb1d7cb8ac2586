package main

import (
	"fmt"
	"math"
	"strings"
)

// boardState holds the pipeline data and the grab-and-drop state machine.
// It is pure state: every transition is a method call so the move protocol
// can be exercised without a terminal attached.
type boardState struct {
	leads      []Lead
	deals      []Deal
	activities []Activity

	loaded  bool
	loadErr error
	gen     int

	// grabbedDealID is the card currently picked up; zero means none.
	grabbedDealID int

	// pendingMoves maps a deal id to the stage a not-yet-confirmed move is
	// targeting. A deal with a pending move rejects further moves until the
	// server answers.
	pendingMoves map[int]string
}

func newBoardState() *boardState {
	return &boardState{pendingMoves: make(map[int]string)}
}

func (b *boardState) setData(leads []Lead, deals []Deal, activities []Activity) {
	b.leads = leads
	b.deals = deals
	b.activities = activities
	b.loaded = true
	b.loadErr = nil
	b.grabbedDealID = 0
	b.pendingMoves = make(map[int]string)
}

func (b *boardState) setLoadError(err error) {
	b.loaded = false
	b.loadErr = err
}

func (b *boardState) deal(id int) *Deal {
	for i := range b.deals {
		if b.deals[i].ID == id {
			return &b.deals[i]
		}
	}
	return nil
}

// stageDeals partitions the full deal list on every call; nothing is cached.
func (b *boardState) stageDeals(stage string) []Deal {
	var out []Deal
	for _, d := range b.deals {
		if d.Stage == stage {
			out = append(out, d)
		}
	}
	return out
}

func (b *boardState) stageTotal(stage string) float64 {
	var total float64
	for _, d := range b.deals {
		if d.Stage == stage {
			total += d.Value
		}
	}
	return total
}

func (b *boardState) grab(id int) {
	if b.deal(id) != nil {
		b.grabbedDealID = id
	}
}

func (b *boardState) clearGrab() {
	b.grabbedDealID = 0
}

type dropResult int

const (
	// dropNone: nothing was grabbed.
	dropNone dropResult = iota
	// dropNoop: dropped on the deal's current stage; no network call.
	dropNoop
	// dropRejected: a move for this deal is already in flight.
	dropRejected
	// dropMove: stage mutated optimistically; a PATCH must follow.
	dropMove
)

// dropOn releases the grabbed deal onto the target stage. The grab state is
// cleared unconditionally, whatever the outcome.
func (b *boardState) dropOn(target string) (dropResult, int) {
	id := b.grabbedDealID
	b.grabbedDealID = 0
	if id == 0 {
		return dropNone, 0
	}
	deal := b.deal(id)
	if deal == nil || !isValidStage(target) || deal.Stage == target {
		return dropNoop, id
	}
	if _, busy := b.pendingMoves[id]; busy {
		return dropRejected, id
	}
	b.pendingMoves[id] = target
	deal.Stage = target
	return dropMove, id
}

// confirmMove replaces the optimistic deal with the server's copy and drops
// the pending marker.
func (b *boardState) confirmMove(id int, updated Deal) {
	delete(b.pendingMoves, id)
	if d := b.deal(id); d != nil && updated.ID == id {
		*d = updated
	}
}

// failMove only clears the pending marker; recovery is a full reload, not an
// inverse mutation.
func (b *boardState) failMove(id int) {
	delete(b.pendingMoves, id)
}

func (b *boardState) movePending(id int) bool {
	_, ok := b.pendingMoves[id]
	return ok
}

// appendDeal adds a deal handed off from another flow unless it is already
// present.
func (b *boardState) appendDeal(d Deal) {
	if b.deal(d.ID) != nil {
		return
	}
	b.deals = append(b.deals, d)
}

func (b *boardState) appendActivity(a Activity) {
	b.activities = append(b.activities, a)
}

func (b *boardState) appendLead(l Lead) {
	b.leads = append(b.leads, l)
}

// formatBRL renders a monetary value with pt-BR digit grouping, e.g.
// "R$ 14.000" or "R$ 1.234,50".
func formatBRL(value float64) string {
	negative := value < 0
	if negative {
		value = -value
	}
	cents := int64(math.Round(value * 100))
	whole := cents / 100
	frac := cents % 100

	digits := fmt.Sprintf("%d", whole)
	var grouped strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(r)
	}

	out := "R$ " + grouped.String()
	if frac > 0 {
		out += fmt.Sprintf(",%02d", frac)
	}
	if negative {
		out = "-" + out
	}
	return out
}
