package core

// DefaultCategories returns the seed set a fresh installation starts
// with. Names and colors come from the pizzeria back-office defaults.
func DefaultCategories() []Category {
	return []Category{
		{Name: "Motoboys", Description: "Pagamentos para entregadores", Color: "#28a745"},
		{Name: "Boletos", Description: "Contas e boletos diversos", Color: "#dc3545"},
		{Name: "Impostos", Description: "Impostos e taxas", Color: "#6f42c1"},
		{Name: "Aluguel", Description: "Aluguel do imóvel", Color: "#fd7e14"},
		{Name: "Produtos", Description: "Compra de ingredientes e produtos", Color: "#20c997"},
		{Name: "Contas Fixas", Description: "Contas mensais fixas", Color: "#17a2b8"},
		{Name: "Internet", Description: "Internet e telefone", Color: "#6c757d"},
		{Name: "Salários", Description: "Pagamento de funcionários", Color: "#ffc107"},
	}
}

// ExtraCategory is the catch-all entry some deployments seed in
// addition to the defaults. Controlled by configuration.
func ExtraCategory() Category {
	return Category{Name: "Outros", Description: "Outras despesas diversas", Color: "#6c757d"}
}
