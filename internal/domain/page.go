package domain

import "fmt"

// Page is the shell's current view.
type Page string

const (
	PageDashboard Page = "dashboard"
	PageItems     Page = "items"
	PageSuppliers Page = "suppliers"
	PageCustomers Page = "customers"
	PageAddresses Page = "addresses"
	PagePhones    Page = "phones"
)

// Pages lists every page in menu order.
var Pages = []Page{PageDashboard, PageItems, PageSuppliers, PageCustomers, PageAddresses, PagePhones}

// ParsePage validates a page selector.
func ParsePage(s string) (Page, error) {
	for _, p := range Pages {
		if string(p) == s {
			return p, nil
		}
	}
	return "", NewValidation("page", fmt.Sprintf("unknown page %q", s))
}

// Resource names one entity list held client-side.
type Resource string

const (
	ResourceAddresses Resource = "addresses"
	ResourceCustomers Resource = "customers"
	ResourceSuppliers Resource = "suppliers"
	ResourceProducts  Resource = "products"
	ResourceMaterials Resource = "materials"
	ResourcePhones    Resource = "phones"
)

// Resources lists every resource; addresses first since every page needs them.
var Resources = []Resource{
	ResourceAddresses, ResourceCustomers, ResourceSuppliers,
	ResourceProducts, ResourceMaterials, ResourcePhones,
}

// Path is the backend path suffix of the resource.
func (r Resource) Path() string {
	return "/" + string(r)
}
