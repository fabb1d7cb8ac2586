package main

// Static reference data used to seed form dropdowns before the backend lists
// are available, mirroring the seed fixtures shipped with the platform.

var defaultUsers = []User{
	{ID: 1, Name: "Carlos CEO", Email: "carlos@potencialize.com", Role: "super_admin"},
	{ID: 2, Name: "Roberta Ops", Email: "roberta@potencialize.com", Role: "manager_cs_ops"},
	{ID: 3, Name: "João Consultor", Email: "joao@potencialize.com", Role: "consultant"},
	{ID: 6, Name: "Sandro Rabelo", Email: "sandro@potencialize.com", Role: "consultant"},
}

var defaultProducts = []Product{
	{
		ID:         1,
		Title:      "Curso Padronização de Processos Contábeis",
		Price:      497,
		PriceModel: "fixed",
		Category:   "Curso",
	},
	{
		ID:         2,
		Title:      "Diagnóstico Domínio",
		Price:      3000,
		PriceModel: "fixed",
		Category:   "Diagnóstico",
	},
	{
		ID:         3,
		Title:      "Diagnóstico Gestor de Tarefas",
		Price:      1500,
		PriceModel: "fixed",
		Category:   "Diagnóstico",
	},
	{
		ID:         4,
		Title:      "Assessoria de Processos",
		Price:      14000,
		PriceModel: "fixed",
		Category:   "Assessoria",
	},
	{
		ID:         5,
		Title:      "Horas Técnicas Domínio",
		Price:      500,
		PriceModel: "hourly",
		Category:   "Horas",
	},
}

func defaultOwnerNames() []string {
	names := make([]string, 0, len(defaultUsers))
	for _, u := range defaultUsers {
		names = append(names, u.Name)
	}
	return names
}

func defaultProductTitles() []string {
	titles := make([]string, 0, len(defaultProducts))
	for _, p := range defaultProducts {
		titles = append(titles, p.Title)
	}
	return titles
}
