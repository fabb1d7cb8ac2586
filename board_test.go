package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDeals() []Deal {
	return []Deal{
		{ID: 1, Title: "Diagnóstico ACME", Stage: StageLead, Value: 1000, Company: "ACME"},
		{ID: 2, Title: "Assessoria Beta", Stage: StageProposta, Value: 500, Company: "Beta"},
	}
}

func TestDropOnMovesDealOptimistically(t *testing.T) {
	b := newBoardState()
	b.setData(nil, testDeals(), nil)

	b.grab(1)
	result, id := b.dropOn(StageProposta)

	assert.Equal(t, dropMove, result)
	assert.Equal(t, 1, id)
	assert.Equal(t, StageProposta, b.deal(1).Stage, "stage mutates before the server answers")
	assert.True(t, b.movePending(1))
	assert.Zero(t, b.grabbedDealID, "grab clears on drop")

	// Column totals follow the optimistic stage immediately.
	assert.Equal(t, float64(0), b.stageTotal(StageLead))
	assert.Equal(t, float64(1500), b.stageTotal(StageProposta))
}

func TestDropOnSameStageIsNoop(t *testing.T) {
	b := newBoardState()
	b.setData(nil, testDeals(), nil)

	b.grab(1)
	result, id := b.dropOn(StageLead)

	assert.Equal(t, dropNoop, result)
	assert.Equal(t, 1, id)
	assert.False(t, b.movePending(1), "no network call, no pending marker")
	assert.Equal(t, StageLead, b.deal(1).Stage)
}

func TestDropOnInvalidStageIsNoop(t *testing.T) {
	b := newBoardState()
	b.setData(nil, testDeals(), nil)

	b.grab(1)
	result, _ := b.dropOn("Inexistente")

	assert.Equal(t, dropNoop, result)
	assert.Equal(t, StageLead, b.deal(1).Stage)
}

func TestDropWithoutGrabDoesNothing(t *testing.T) {
	b := newBoardState()
	b.setData(nil, testDeals(), nil)

	result, id := b.dropOn(StageProposta)
	assert.Equal(t, dropNone, result)
	assert.Zero(t, id)
}

func TestSecondMoveRejectedWhileFirstInFlight(t *testing.T) {
	b := newBoardState()
	b.setData(nil, testDeals(), nil)

	b.grab(1)
	result, _ := b.dropOn(StageProposta)
	require.Equal(t, dropMove, result)

	b.grab(1)
	result, id := b.dropOn(StageGanho)

	assert.Equal(t, dropRejected, result)
	assert.Equal(t, 1, id)
	assert.Equal(t, StageProposta, b.deal(1).Stage, "rejected move must not mutate")
}

func TestConfirmMoveAdoptsServerCopy(t *testing.T) {
	b := newBoardState()
	b.setData(nil, testDeals(), nil)

	b.grab(1)
	_, _ = b.dropOn(StageProposta)

	updated := Deal{ID: 1, Title: "Diagnóstico ACME", Stage: StageProposta, Value: 1200, Company: "ACME"}
	b.confirmMove(1, updated)

	assert.False(t, b.movePending(1))
	assert.Equal(t, float64(1200), b.deal(1).Value, "server copy wins over the local one")

	// The card can move again once confirmed.
	b.grab(1)
	result, _ := b.dropOn(StageGanho)
	assert.Equal(t, dropMove, result)
}

func TestFailMoveOnlyClearsPendingMarker(t *testing.T) {
	b := newBoardState()
	b.setData(nil, testDeals(), nil)

	b.grab(1)
	_, _ = b.dropOn(StageProposta)
	b.failMove(1)

	assert.False(t, b.movePending(1))
	// The optimistic stage is intentionally left in place; the caller follows
	// up with a full reload.
	assert.Equal(t, StageProposta, b.deal(1).Stage)
}

func TestSetDataResetsTransientState(t *testing.T) {
	b := newBoardState()
	b.setData(nil, testDeals(), nil)
	b.grab(1)
	_, _ = b.dropOn(StageProposta)

	b.setData(nil, testDeals(), nil)

	assert.Zero(t, b.grabbedDealID)
	assert.False(t, b.movePending(1))
	assert.True(t, b.loaded)
	assert.NoError(t, b.loadErr)
}

func TestSetLoadError(t *testing.T) {
	b := newBoardState()
	b.setData(nil, testDeals(), nil)
	b.setLoadError(assert.AnError)

	assert.False(t, b.loaded)
	assert.Error(t, b.loadErr)
}

func TestGrabUnknownDealIsIgnored(t *testing.T) {
	b := newBoardState()
	b.setData(nil, testDeals(), nil)
	b.grab(99)
	assert.Zero(t, b.grabbedDealID)
}

func TestStageDealsPartitions(t *testing.T) {
	b := newBoardState()
	deals := append(testDeals(), Deal{ID: 3, Title: "Horas Gamma", Stage: StageProposta, Value: 250})
	b.setData(nil, deals, nil)

	assert.Len(t, b.stageDeals(StageProposta), 2)
	assert.Len(t, b.stageDeals(StageLead), 1)
	assert.Empty(t, b.stageDeals(StageGanho))
	assert.Equal(t, float64(750), b.stageTotal(StageProposta))
}

func TestAppendDealDeduplicates(t *testing.T) {
	b := newBoardState()
	b.setData(nil, testDeals(), nil)

	b.appendDeal(Deal{ID: 3, Title: "Novo", Stage: StageLead})
	assert.Len(t, b.deals, 3)

	b.appendDeal(Deal{ID: 3, Title: "Duplicado", Stage: StageLead})
	assert.Len(t, b.deals, 3)
	assert.Equal(t, "Novo", b.deal(3).Title)
}

func TestFormatBRL(t *testing.T) {
	cases := []struct {
		value float64
		want  string
	}{
		{0, "R$ 0"},
		{950, "R$ 950"},
		{14000, "R$ 14.000"},
		{1234567, "R$ 1.234.567"},
		{1234.5, "R$ 1.234,50"},
		{0.07, "R$ 0,07"},
		{-500, "-R$ 500"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, formatBRL(tc.value), "value %v", tc.value)
	}
}
