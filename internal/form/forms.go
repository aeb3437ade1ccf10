package form

import (
	"context"
	"sort"

	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/domain"
	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/infra/observability"
	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/port"

	"go.uber.org/zap"
)

// Creators are the repositories the forms write through.
type Creators struct {
	Addresses Creator[domain.Address]
	Customers Creator[domain.Customer]
	Suppliers Creator[domain.Supplier]
	Products  Creator[domain.Product]
	Materials Creator[domain.RawMaterial]
	Phones    Creator[domain.Phone]
}

// Forms holds the six entity controllers.
type Forms struct {
	Address  *Controller[AddressDraft, domain.Address, domain.Address]
	Customer *Controller[CustomerDraft, CustomerPayload, domain.Customer]
	Supplier *Controller[SupplierDraft, domain.Supplier, domain.Supplier]
	Product  *Controller[ProductDraft, domain.Product, domain.Product]
	Material *Controller[MaterialDraft, domain.RawMaterial, domain.RawMaterial]
	Phone    *Controller[PhoneDraft, domain.Phone, domain.Phone]

	byName map[string]Handle
}

// New wires one controller per entity to its repository.
func New(repos Creators, notifier port.Notifier, metrics *observability.Metrics, logger *zap.Logger) *Forms {
	f := &Forms{
		Address: NewController(Spec[AddressDraft, domain.Address, domain.Address]{
			Name:      "address",
			Label:     "Address",
			Defaults:  zero[AddressDraft],
			Normalize: normalizeAddress,
			Validate:  ValidateAddress,
			Create:    repos.Addresses.Create,
		}, notifier, metrics, logger),

		Customer: NewController(Spec[CustomerDraft, CustomerPayload, domain.Customer]{
			Name:      "customer",
			Label:     "Customer",
			Defaults:  zero[CustomerDraft],
			Normalize: normalizeCustomer,
			Validate:  ValidateCustomer,
			Create:    createCustomer(repos.Customers, repos.Phones),
		}, notifier, metrics, logger),

		Supplier: NewController(Spec[SupplierDraft, domain.Supplier, domain.Supplier]{
			Name:      "supplier",
			Label:     "Supplier",
			Defaults:  zero[SupplierDraft],
			Normalize: normalizeSupplier,
			Validate:  ValidateSupplier,
			Create:    repos.Suppliers.Create,
		}, notifier, metrics, logger),

		Product: NewController(Spec[ProductDraft, domain.Product, domain.Product]{
			Name:      "product",
			Label:     "Product",
			Defaults:  defaultProduct,
			Normalize: identity[ProductDraft],
			Validate:  ValidateProduct,
			Create:    repos.Products.Create,
		}, notifier, metrics, logger),

		Material: NewController(Spec[MaterialDraft, domain.RawMaterial, domain.RawMaterial]{
			Name:      "material",
			Label:     "Raw material",
			Defaults:  zero[MaterialDraft],
			Normalize: identity[MaterialDraft],
			Validate:  ValidateMaterial,
			Create:    repos.Materials.Create,
		}, notifier, metrics, logger),

		Phone: NewController(Spec[PhoneDraft, domain.Phone, domain.Phone]{
			Name:      "phone",
			Label:     "Phone",
			Defaults:  zero[PhoneDraft],
			Normalize: normalizePhone,
			Validate:  ValidatePhone,
			Create:    repos.Phones.Create,
		}, notifier, metrics, logger),
	}

	f.byName = map[string]Handle{}
	for _, h := range []Handle{f.Address, f.Customer, f.Supplier, f.Product, f.Material, f.Phone} {
		f.byName[h.Name()] = h
	}
	return f
}

// Lookup returns the controller registered under name.
func (f *Forms) Lookup(name string) (Handle, bool) {
	h, ok := f.byName[name]
	return h, ok
}

// Names lists the registered form names, sorted.
func (f *Forms) Names() []string {
	out := make([]string, 0, len(f.byName))
	for n := range f.byName {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// ResetAll restores every draft, e.g. after logout.
func (f *Forms) ResetAll() {
	for _, h := range f.byName {
		h.Reset()
	}
}

// createCustomer creates the customer and then, if one was supplied, its
// phone. A phone failure is reported as a composite error; the customer is
// kept.
func createCustomer(customers Creator[domain.Customer], phones Creator[domain.Phone]) func(context.Context, CustomerPayload) (domain.Customer, error) {
	return func(ctx context.Context, p CustomerPayload) (domain.Customer, error) {
		c, err := customers.Create(ctx, p.Customer)
		if err != nil {
			return domain.Customer{}, err
		}
		if p.Phone == nil {
			return c, nil
		}

		ph := *p.Phone
		ph.CustomerID = c.ID
		if _, err := phones.Create(ctx, ph); err != nil {
			return c, domain.NewComposite("Customer", "phone", err)
		}
		return c, nil
	}
}
