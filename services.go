package main

import "fmt"

// Resource clients. Each operation is exactly one HTTP call through the
// authenticated transport; errors propagate untouched to the caller.

type tokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type authService struct{ api *apiClient }

func (s authService) Login(username, password string) (tokenPair, error) {
	var pair tokenPair
	err := s.api.post("/token/", map[string]string{
		"username": username,
		"password": password,
	}, &pair)
	return pair, err
}

func (s authService) Me() (User, error) {
	var user User
	err := s.api.get("/core/users/me/", &user)
	return user, err
}

type userService struct{ api *apiClient }

func (s userService) List() ([]User, error) {
	var out []User
	err := s.api.get("/core/users/", &out)
	return out, err
}

func (s userService) Get(id int) (User, error) {
	var out User
	err := s.api.get(fmt.Sprintf("/core/users/%d/", id), &out)
	return out, err
}

type crmService struct{ api *apiClient }

func (s crmService) Leads() ([]Lead, error) {
	var out []Lead
	err := s.api.get("/crm/leads/", &out)
	return out, err
}

func (s crmService) CreateLead(payload leadPayload) (Lead, error) {
	var out Lead
	err := s.api.post("/crm/leads/", payload, &out)
	return out, err
}

func (s crmService) Deals() ([]Deal, error) {
	var out []Deal
	err := s.api.get("/crm/deals/", &out)
	return out, err
}

func (s crmService) CreateDeal(payload dealPayload) (Deal, error) {
	var out Deal
	err := s.api.post("/crm/deals/", payload, &out)
	return out, err
}

func (s crmService) UpdateDeal(id int, patch dealPatch) (Deal, error) {
	var out Deal
	err := s.api.patch(fmt.Sprintf("/crm/deals/%d/", id), patch, &out)
	return out, err
}

func (s crmService) Activities() ([]Activity, error) {
	var out []Activity
	err := s.api.get("/crm/activities/", &out)
	return out, err
}

func (s crmService) CreateActivity(payload activityPayload) (Activity, error) {
	var out Activity
	err := s.api.post("/crm/activities/", payload, &out)
	return out, err
}

type clientService struct{ api *apiClient }

func (s clientService) List() ([]ClientProfile, error) {
	var out []ClientProfile
	err := s.api.get("/clients/profiles/", &out)
	return out, err
}

func (s clientService) Get(id int) (ClientProfile, error) {
	var out ClientProfile
	err := s.api.get(fmt.Sprintf("/clients/profiles/%d/", id), &out)
	return out, err
}

func (s clientService) Create(payload clientProfilePayload) (ClientProfile, error) {
	var out ClientProfile
	err := s.api.post("/clients/profiles/", payload, &out)
	return out, err
}

func (s clientService) Update(id int, payload clientProfilePayload) (ClientProfile, error) {
	var out ClientProfile
	err := s.api.patch(fmt.Sprintf("/clients/profiles/%d/", id), payload, &out)
	return out, err
}

func (s clientService) Delete(id int) error {
	return s.api.delete(fmt.Sprintf("/clients/profiles/%d/", id))
}

type productService struct{ api *apiClient }

func (s productService) List() ([]Product, error) {
	var out []Product
	err := s.api.get("/products/products/", &out)
	return out, err
}

func (s productService) Get(id int) (Product, error) {
	var out Product
	err := s.api.get(fmt.Sprintf("/products/products/%d/", id), &out)
	return out, err
}

func (s productService) Create(payload productPayload) (Product, error) {
	var out Product
	err := s.api.post("/products/products/", payload, &out)
	return out, err
}

// Update replaces the whole product; the catalog endpoint takes PUT, not
// PATCH.
func (s productService) Update(id int, payload productPayload) (Product, error) {
	var out Product
	err := s.api.put(fmt.Sprintf("/products/products/%d/", id), payload, &out)
	return out, err
}

type financialService struct{ api *apiClient }

func (s financialService) Ledger() ([]LedgerEntry, error) {
	var out []LedgerEntry
	err := s.api.get("/financial/ledger/", &out)
	return out, err
}

func (s financialService) AddEntry(payload ledgerEntryPayload) (LedgerEntry, error) {
	var out LedgerEntry
	err := s.api.post("/financial/ledger/", payload, &out)
	return out, err
}

func (s financialService) DeleteEntry(id int) error {
	return s.api.delete(fmt.Sprintf("/financial/ledger/%d/", id))
}

type onboardingService struct{ api *apiClient }

func (s onboardingService) Items() ([]OnboardingItem, error) {
	var out []OnboardingItem
	err := s.api.get("/onboarding/items/", &out)
	return out, err
}

func (s onboardingService) CreateItem(item OnboardingItem) (OnboardingItem, error) {
	var out OnboardingItem
	err := s.api.post("/onboarding/items/", item, &out)
	return out, err
}

func (s onboardingService) UpdateItem(id int, patch onboardingItemPatch) (OnboardingItem, error) {
	var out OnboardingItem
	err := s.api.patch(fmt.Sprintf("/onboarding/items/%d/", id), patch, &out)
	return out, err
}

func (s onboardingService) Tasks(onboardingID int) ([]OnboardingTask, error) {
	var out []OnboardingTask
	err := s.api.get(fmt.Sprintf("/onboarding/tasks/?onboarding=%d", onboardingID), &out)
	return out, err
}

func (s onboardingService) Notes(onboardingID int) ([]OnboardingNote, error) {
	var out []OnboardingNote
	err := s.api.get(fmt.Sprintf("/onboarding/notes/?onboarding=%d", onboardingID), &out)
	return out, err
}

type services struct {
	auth       authService
	users      userService
	crm        crmService
	clients    clientService
	products   productService
	financial  financialService
	onboarding onboardingService
}

func newServices(api *apiClient) services {
	return services{
		auth:       authService{api: api},
		users:      userService{api: api},
		crm:        crmService{api: api},
		clients:    clientService{api: api},
		products:   productService{api: api},
		financial:  financialService{api: api},
		onboarding: onboardingService{api: api},
	}
}
