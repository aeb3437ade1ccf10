package form_test

import (
	"testing"

	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/domain"
	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/form"
)

func expectValidation(t *testing.T, err error, want string) {
	t.Helper()
	if domain.KindOf(err) != domain.KindValidation {
		t.Fatalf("expected validation error %q, got %v", want, err)
	}
	if got := domain.MessageOf(err); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestValidateAddress(t *testing.T) {
	cases := []struct {
		name  string
		draft form.AddressDraft
		want  string
	}{
		{"missing street", form.AddressDraft{CEP: "01001-000", Number: "10"}, "street is required"},
		{"missing number", form.AddressDraft{Street: "Rua A", CEP: "01001-000"}, "number is required"},
		{"negative number", form.AddressDraft{Street: "Rua A", CEP: "01001-000", Number: "-3"}, "number must be a non-negative integer"},
		{"missing cep", form.AddressDraft{Street: "Rua A", Number: "10"}, "postal code is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := form.ValidateAddress(tc.draft)
			expectValidation(t, err, tc.want)
		})
	}

	a, err := form.ValidateAddress(form.AddressDraft{Street: " Rua A ", CEP: "01001-000", Number: "0"})
	if err != nil {
		t.Fatalf("expected valid address, got %v", err)
	}
	if a.CEP != "01001000" || a.Number != 0 || a.Street != "Rua A" {
		t.Errorf("unexpected payload %+v", a)
	}
}

func TestValidateCustomer(t *testing.T) {
	_, err := form.ValidateCustomer(form.CustomerDraft{BirthDate: "1990-01-01", AddressID: 3})
	expectValidation(t, err, "provide a CPF or CNPJ")

	_, err = form.ValidateCustomer(form.CustomerDraft{BirthDate: "1990-01-01", CPF: "123.456.789-09"})
	expectValidation(t, err, "select a valid address")

	_, err = form.ValidateCustomer(form.CustomerDraft{CPF: "123.456.789-09", AddressID: 3})
	expectValidation(t, err, "birth date is required")

	_, err = form.ValidateCustomer(form.CustomerDraft{BirthDate: "1990-01-01", CNPJ: "12.345.678/0001-99", AddressID: 3, Phone: "+55 (11) 9999"})
	expectValidation(t, err, "phone must have at least 10 digits")

	p, err := form.ValidateCustomer(form.CustomerDraft{
		Name:      "Maria",
		BirthDate: "1990-01-01",
		CPF:       "123.456.789-09",
		AddressID: 3,
		Phone:     "+55 (11) 99999-8888",
	})
	if err != nil {
		t.Fatalf("expected valid customer, got %v", err)
	}
	if p.Customer.CPF != "12345678909" || p.Customer.CNPJ != "" || p.Customer.AddressID != 3 {
		t.Errorf("unexpected customer payload %+v", p.Customer)
	}
	if p.Phone == nil || p.Phone.AreaCode != "11" || p.Phone.Number != "999998888" {
		t.Errorf("unexpected embedded phone %+v", p.Phone)
	}
}

func TestValidateSupplier_NormalizesBeforeTransmission(t *testing.T) {
	s, err := form.ValidateSupplier(form.SupplierDraft{
		CNPJ:      "11.222.333/0001-81",
		LegalName: "Cestas LTDA",
		Phone:     "(11) 4002-8922",
	})
	if err != nil {
		t.Fatalf("expected valid supplier, got %v", err)
	}
	if s.CNPJ != "11222333000181" {
		t.Errorf("expected digits-only CNPJ, got %q", s.CNPJ)
	}
	if s.Phone != "1140028922" {
		t.Errorf("expected digits-only phone, got %q", s.Phone)
	}
	if s.AddressID != nil {
		t.Errorf("expected no address, got %v", *s.AddressID)
	}

	_, err = form.ValidateSupplier(form.SupplierDraft{CNPJ: "11.222.333/0001"})
	expectValidation(t, err, "CNPJ must have 14 digits")

	_, err = form.ValidateSupplier(form.SupplierDraft{CNPJ: "11222333000181", Phone: "4002-8922"})
	expectValidation(t, err, "phone must have at least 10 digits")
}

func TestValidateProduct(t *testing.T) {
	base := form.ProductDraft{Code: "CB-01", Name: "Cesta", Category: "produto", Quantity: "2", Price: "10,50"}

	p, err := form.ValidateProduct(base)
	if err != nil {
		t.Fatalf("expected valid product, got %v", err)
	}
	if p.Price.String() != "10.5" || p.Quantity != 2 {
		t.Errorf("unexpected payload %+v", p)
	}

	cases := []struct {
		name string
		edit func(d *form.ProductDraft)
		want string
	}{
		{"no code", func(d *form.ProductDraft) { d.Code = " " }, "code is required"},
		{"no name", func(d *form.ProductDraft) { d.Name = "" }, "name is required"},
		{"negative quantity", func(d *form.ProductDraft) { d.Quantity = "-1" }, "quantity must be zero or greater"},
		{"negative price", func(d *form.ProductDraft) { d.Price = "-0.01" }, "price must be zero or greater"},
		{"bad category", func(d *form.ProductDraft) { d.Category = "kit" }, "select a valid category"},
		{"bad price", func(d *form.ProductDraft) { d.Price = "abc" }, "price must be a number"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := base
			tc.edit(&d)
			_, err := form.ValidateProduct(d)
			expectValidation(t, err, tc.want)
		})
	}
}

func TestValidateMaterial(t *testing.T) {
	_, err := form.ValidateMaterial(form.MaterialDraft{})
	expectValidation(t, err, "name is required")

	_, err = form.ValidateMaterial(form.MaterialDraft{Name: "Fita", Cost: "-2"})
	expectValidation(t, err, "cost must be zero or greater")

	m, err := form.ValidateMaterial(form.MaterialDraft{Name: "Fita", Type: "insumo"})
	if err != nil {
		t.Fatalf("expected valid material, got %v", err)
	}
	if m.Cost != nil {
		t.Errorf("expected cost omitted, got %v", m.Cost)
	}
}

func TestValidatePhone(t *testing.T) {
	p, err := form.ValidatePhone(form.PhoneDraft{AreaCode: "11", Number: "99998888", CustomerID: 5})
	if err != nil {
		t.Fatalf("expected 10 digits to be accepted, got %v", err)
	}
	if p.AreaCode != "11" || p.Number != "99998888" || p.CustomerID != 5 {
		t.Errorf("unexpected payload %+v", p)
	}

	_, err = form.ValidatePhone(form.PhoneDraft{AreaCode: "1", Number: "234", CustomerID: 5})
	expectValidation(t, err, "phone must have at least 10 digits")

	_, err = form.ValidatePhone(form.PhoneDraft{AreaCode: "11", Number: "99998888"})
	expectValidation(t, err, "select a valid customer")
}
