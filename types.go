package main

import (
	"strings"
	"time"
)

// Pipeline stages, in board order.
const (
	StageLead       = "Lead"
	StageContato    = "Contato"
	StageProposta   = "Proposta"
	StageNegociacao = "Negociação"
	StageGanho      = "Ganho"
	StagePerdido    = "Perdido"
)

var dealStages = []string{StageLead, StageContato, StageProposta, StageNegociacao, StageGanho, StagePerdido}

func isValidStage(stage string) bool {
	for _, s := range dealStages {
		if s == stage {
			return true
		}
	}
	return false
}

const (
	ActivityProspecting = "Prospecção Novo Lead"
	ActivityFollowUp    = "Follow Up"
	ActivityCall        = "Ligação"
	ActivityMeeting     = "Reunião externa"
	ActivityVisit       = "Visita"
)

var activityTypes = []string{ActivityProspecting, ActivityFollowUp, ActivityCall, ActivityMeeting, ActivityVisit}

const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

type User struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	CompanyName string `json:"companyName,omitempty"`
}

type Lead struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Company   string `json:"company"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
}

type Deal struct {
	ID              int     `json:"id"`
	Title           string  `json:"title"`
	Value           float64 `json:"value"`
	Stage           string  `json:"stage"`
	ProductInterest string  `json:"productInterest"`
	Company         string  `json:"company"`
	Owner           string  `json:"owner"`
	Active          bool    `json:"active"`
	Priority        string  `json:"priority"`
}

type Activity struct {
	ID              int    `json:"id"`
	Type            string `json:"type"`
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	Date            string `json:"date"`
	DurationMinutes int    `json:"durationMinutes"`
	DealID          int    `json:"dealId,omitempty"`
	DealTitle       string `json:"dealTitle,omitempty"`
	UserID          int    `json:"userId,omitempty"`
}

type ClientProfile struct {
	ID               int    `json:"id"`
	CompanyName      string `json:"companyName"`
	CNPJ             string `json:"cnpj"`
	ResponsibleName  string `json:"responsibleName"`
	ResponsiblePhone string `json:"responsiblePhone"`
	OwnerPhone       string `json:"ownerPhone"`
	Instagram        string `json:"instagram"`
	City             string `json:"city,omitempty"`
	State            string `json:"state,omitempty"`
	EmployeeCount    int    `json:"employeeCount"`
	ClientCount      int    `json:"clientCount"`
	Status           string `json:"status"`
	JoinedAt         string `json:"joinedAt"`
}

type LedgerEntry struct {
	ID          int     `json:"id"`
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
	Consultant  string  `json:"consultant"`
	ClientName  string  `json:"clientName,omitempty"`
}

type WorkflowStep struct {
	ID            int    `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Type          string `json:"type"`
	RelativeDays  int    `json:"relativeDays"`
	DurationHours int    `json:"durationHours"`
}

type Product struct {
	ID                int            `json:"id"`
	Title             string         `json:"title"`
	Price             float64        `json:"price"`
	PriceModel        string         `json:"priceModel"`
	Description       string         `json:"description"`
	Category          string         `json:"category"`
	PaymentMethods    []string       `json:"paymentMethods"`
	OnboardingProcess string         `json:"onboardingProcess"`
	AutomationDesc    string         `json:"automationDesc,omitempty"`
	Workflow          []WorkflowStep `json:"workflow,omitempty"`
}

type OnboardingTask struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	Completed  bool   `json:"completed"`
	DueDate    string `json:"dueDate,omitempty"`
	AssignedTo string `json:"assignedTo,omitempty"`
}

type OnboardingNote struct {
	ID        int    `json:"id"`
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt"`
	User      string `json:"user"`
}

type OnboardingItem struct {
	ID         int    `json:"id"`
	ClientName string `json:"clientName"`
	Product    string `json:"product"`
	Stage      string `json:"stage"`
	StartDate  string `json:"startDate"`
	Consultant string `json:"consultant"`
}

// Request payloads. Each builder enumerates every optional field and its
// default instead of spreading ad hoc partial maps.

type dealPayload struct {
	Title           string  `json:"title"`
	Company         string  `json:"company"`
	Value           float64 `json:"value"`
	Stage           string  `json:"stage"`
	ProductInterest string  `json:"productInterest"`
	Owner           string  `json:"owner"`
	Active          bool    `json:"active"`
	Priority        string  `json:"priority"`
}

// newDealPayload builds the body for deal creation. New deals are always
// active with Medium priority; the stage is the column the form was opened
// from.
func newDealPayload(title, company string, value float64, stage, productInterest, owner string) dealPayload {
	return dealPayload{
		Title:           strings.TrimSpace(title),
		Company:         strings.TrimSpace(company),
		Value:           value,
		Stage:           stage,
		ProductInterest: productInterest,
		Owner:           owner,
		Active:          true,
		Priority:        PriorityMedium,
	}
}

// dealPatch is a partial update; only non-nil fields are sent.
type dealPatch struct {
	Stage    *string `json:"stage,omitempty"`
	Value    *float64 `json:"value,omitempty"`
	Owner    *string `json:"owner,omitempty"`
	Priority *string `json:"priority,omitempty"`
	Active   *bool   `json:"active,omitempty"`
}

func stagePatch(stage string) dealPatch {
	return dealPatch{Stage: &stage}
}

type activityPayload struct {
	Type            string `json:"type"`
	Title           string `json:"title"`
	Date            string `json:"date"`
	DurationMinutes int    `json:"durationMinutes"`
	DealID          int    `json:"dealId"`
}

// newActivityPayload builds the body for the quick-activity flow, filling the
// fallbacks the form leaves open: a generic title, the current time and a
// 30 minute duration.
func newActivityPayload(activityType, title, date string, durationMinutes, dealID int) activityPayload {
	if strings.TrimSpace(title) == "" {
		title = "Nova Atividade"
	}
	if strings.TrimSpace(date) == "" {
		date = time.Now().Format(time.RFC3339)
	}
	if durationMinutes <= 0 {
		durationMinutes = 30
	}
	return activityPayload{
		Type:            activityType,
		Title:           title,
		Date:            date,
		DurationMinutes: durationMinutes,
		DealID:          dealID,
	}
}

// parseDateInput accepts the form's "2006-01-02 15:04" shorthand and returns
// RFC 3339, or empty when the input is blank or unparseable (the payload
// builder then falls back to now).
func parseDateInput(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	layouts := []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02"}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t.Format(time.RFC3339)
		}
	}
	return ""
}

// activityDefaults returns the duration and title a quick-activity form is
// pre-seeded with. Meetings default to an hour with a ready-made subject,
// everything else to a blank half hour.
func activityDefaults(activityType string) (durationMinutes int, title string) {
	if activityType == ActivityMeeting {
		return 60, "Reunião com Cliente"
	}
	return 30, ""
}

type leadPayload struct {
	Name    string `json:"name"`
	Company string `json:"company"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Status  string `json:"status"`
}

type clientProfilePayload struct {
	CompanyName      string `json:"companyName"`
	CNPJ             string `json:"cnpj"`
	ResponsibleName  string `json:"responsibleName"`
	ResponsiblePhone string `json:"responsiblePhone"`
	OwnerPhone       string `json:"ownerPhone"`
	Instagram        string `json:"instagram"`
	City             string `json:"city"`
	State            string `json:"state"`
	Status           string `json:"status"`
}

type ledgerEntryPayload struct {
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
	Consultant  string  `json:"consultant"`
	ClientName  string  `json:"clientName,omitempty"`
}

func newLedgerEntryPayload(entryType string, amount float64, description, consultant, clientName string) ledgerEntryPayload {
	if entryType != "credit" && entryType != "debit" {
		entryType = "credit"
	}
	return ledgerEntryPayload{
		Type:        entryType,
		Amount:      amount,
		Description: strings.TrimSpace(description),
		Date:        time.Now().Format(time.RFC3339),
		Consultant:  consultant,
		ClientName:  strings.TrimSpace(clientName),
	}
}

type onboardingItemPatch struct {
	Stage      *string `json:"stage,omitempty"`
	Consultant *string `json:"consultant,omitempty"`
}

type productPayload struct {
	Title             string   `json:"title"`
	Price             float64  `json:"price"`
	PriceModel        string   `json:"priceModel"`
	Description       string   `json:"description"`
	Category          string   `json:"category"`
	PaymentMethods    []string `json:"paymentMethods"`
	OnboardingProcess string   `json:"onboardingProcess"`
}
