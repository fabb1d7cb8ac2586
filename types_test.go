package main

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDealPayloadDefaults(t *testing.T) {
	p := newDealPayload("  Oportunidade - ACME ", " ACME ", 5000, StageProposta, "Diagnóstico", "Roberta Ops")

	assert.Equal(t, "Oportunidade - ACME", p.Title)
	assert.Equal(t, "ACME", p.Company)
	assert.Equal(t, StageProposta, p.Stage)
	assert.True(t, p.Active, "new deals are always active")
	assert.Equal(t, PriorityMedium, p.Priority)
}

func TestStagePatchMarshalsOnlyStage(t *testing.T) {
	data, err := json.Marshal(stagePatch(StageGanho))
	require.NoError(t, err)
	assert.JSONEq(t, `{"stage": "Ganho"}`, string(data))
}

func TestNewActivityPayloadFallbacks(t *testing.T) {
	before := time.Now()
	p := newActivityPayload(ActivityCall, "  ", "", 0, 42)

	assert.Equal(t, "Nova Atividade", p.Title)
	assert.Equal(t, 30, p.DurationMinutes)
	assert.Equal(t, 42, p.DealID)

	parsed, err := time.Parse(time.RFC3339, p.Date)
	require.NoError(t, err)
	assert.WithinDuration(t, before, parsed, 5*time.Second)
}

func TestNewActivityPayloadKeepsExplicitValues(t *testing.T) {
	p := newActivityPayload(ActivityMeeting, "Kickoff", "2026-03-10T14:00:00Z", 90, 7)

	assert.Equal(t, "Kickoff", p.Title)
	assert.Equal(t, "2026-03-10T14:00:00Z", p.Date)
	assert.Equal(t, 90, p.DurationMinutes)
}

func TestActivityDefaults(t *testing.T) {
	duration, title := activityDefaults(ActivityMeeting)
	assert.Equal(t, 60, duration)
	assert.Equal(t, "Reunião com Cliente", title)

	for _, other := range []string{ActivityCall, ActivityFollowUp, ActivityProspecting, ActivityVisit} {
		duration, title = activityDefaults(other)
		assert.Equal(t, 30, duration, other)
		assert.Empty(t, title, other)
	}
}

func TestParseDateInput(t *testing.T) {
	assert.Empty(t, parseDateInput(""))
	assert.Empty(t, parseDateInput("amanhã"))

	out := parseDateInput("2026-03-10 14:30")
	parsed, err := time.ParseInLocation(time.RFC3339, out, time.Local)
	require.NoError(t, err)
	assert.Equal(t, 14, parsed.Hour())
	assert.Equal(t, 30, parsed.Minute())

	out = parseDateInput("2026-03-10")
	parsed, err = time.ParseInLocation(time.RFC3339, out, time.Local)
	require.NoError(t, err)
	assert.Equal(t, time.March, parsed.Month())
	assert.Equal(t, 10, parsed.Day())

	assert.Equal(t, "2026-03-10T14:00:00Z", parseDateInput("2026-03-10T14:00:00Z"))
}

func TestNewLedgerEntryPayload(t *testing.T) {
	p := newLedgerEntryPayload("debit", 4.5, " Horas de consultoria ", "João Pedro", "")
	assert.Equal(t, "debit", p.Type)
	assert.Equal(t, "Horas de consultoria", p.Description)
	assert.Empty(t, p.ClientName)
	_, err := time.Parse(time.RFC3339, p.Date)
	assert.NoError(t, err)

	p = newLedgerEntryPayload("whatever", 10, "x", "y", " ACME ")
	assert.Equal(t, "credit", p.Type, "unknown types default to credit")
	assert.Equal(t, "ACME", p.ClientName)
}

func TestIsValidStage(t *testing.T) {
	for _, stage := range dealStages {
		assert.True(t, isValidStage(stage), stage)
	}
	assert.False(t, isValidStage("Arquivado"))
	assert.False(t, isValidStage(""))
}

func TestDealJSONTags(t *testing.T) {
	data, err := json.Marshal(Deal{ID: 1, Title: "T", Stage: StageLead, ProductInterest: "Diagnóstico"})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"productInterest"`)
	assert.Contains(t, string(data), `"stage":"Lead"`)
}
