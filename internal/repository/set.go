package repository

import (
	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/domain"
	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/infra/observability"
	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/port"

	"go.uber.org/zap"
)

// Set groups the six entity repositories.
type Set struct {
	Addresses *Repository[domain.Address]
	Customers *Repository[domain.Customer]
	Suppliers *Repository[domain.Supplier]
	Products  *Repository[domain.Product]
	Materials *Repository[domain.RawMaterial]
	Phones    *Repository[domain.Phone]
}

// NewSet creates one empty repository per resource, all sharing api.
func NewSet(api port.Requester, metrics *observability.Metrics, logger *zap.Logger) *Set {
	return &Set{
		Addresses: New[domain.Address](domain.ResourceAddresses, api, metrics, logger),
		Customers: New[domain.Customer](domain.ResourceCustomers, api, metrics, logger),
		Suppliers: New[domain.Supplier](domain.ResourceSuppliers, api, metrics, logger),
		Products:  New[domain.Product](domain.ResourceProducts, api, metrics, logger),
		Materials: New[domain.RawMaterial](domain.ResourceMaterials, api, metrics, logger),
		Phones:    New[domain.Phone](domain.ResourcePhones, api, metrics, logger),
	}
}

// Loader returns the repository for res as a port.Loader.
func (s *Set) Loader(res domain.Resource) port.Loader {
	switch res {
	case domain.ResourceAddresses:
		return s.Addresses
	case domain.ResourceCustomers:
		return s.Customers
	case domain.ResourceSuppliers:
		return s.Suppliers
	case domain.ResourceProducts:
		return s.Products
	case domain.ResourceMaterials:
		return s.Materials
	case domain.ResourcePhones:
		return s.Phones
	}
	return nil
}

// Sizes reports how many records each resource currently holds.
func (s *Set) Sizes() map[domain.Resource]int {
	return map[domain.Resource]int{
		domain.ResourceAddresses: s.Addresses.Len(),
		domain.ResourceCustomers: s.Customers.Len(),
		domain.ResourceSuppliers: s.Suppliers.Len(),
		domain.ResourceProducts:  s.Products.Len(),
		domain.ResourceMaterials: s.Materials.Len(),
		domain.ResourcePhones:    s.Phones.Len(),
	}
}

// ClearAll drops every held list.
func (s *Set) ClearAll() {
	for _, res := range domain.Resources {
		s.Loader(res).Clear()
	}
}
