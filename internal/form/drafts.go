package form

import (
	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/domain"
	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/normalize"
)

const (
	AreaCodeMaxLen    = 3
	LocalNumberMaxLen = 9
)

// Drafts hold raw field input. Digit-bearing fields keep their display
// formatting here; the Validate functions strip it.

type AddressDraft struct {
	Street string `json:"street"`
	CEP    string `json:"cep"`
	Number string `json:"number"`
}

func normalizeAddress(d AddressDraft) AddressDraft {
	d.CEP = normalize.SanitizeCEP(d.CEP)
	return d
}

type CustomerDraft struct {
	Name      string `json:"name"`
	BirthDate string `json:"birthDate"`
	Email     string `json:"email"`
	CPF       string `json:"cpf"`
	CNPJ      string `json:"cnpj"`
	AddressID int64  `json:"addressId"`
	// Phone is optional; when set a phone record is created for the new customer.
	Phone string `json:"phone"`
}

func normalizeCustomer(d CustomerDraft) CustomerDraft {
	d.CPF = normalize.FormatCPF(d.CPF)
	d.CNPJ = normalize.FormatCNPJ(d.CNPJ)
	d.Phone = normalize.FormatPhone(d.Phone)
	return d
}

type SupplierDraft struct {
	CNPJ        string `json:"cnpj"`
	LegalName   string `json:"legalName"`
	ContactName string `json:"contactName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	AddressID   int64  `json:"addressId"`
}

func normalizeSupplier(d SupplierDraft) SupplierDraft {
	d.CNPJ = normalize.FormatCNPJ(d.CNPJ)
	d.Phone = normalize.FormatPhone(d.Phone)
	return d
}

type ProductDraft struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	Quantity   string `json:"quantity"`
	Price      string `json:"price"`
	SupplierID int64  `json:"supplierId"`
	ImageURL   string `json:"imageUrl"`
}

func defaultProduct() ProductDraft {
	return ProductDraft{Category: string(domain.CategoryProduct), Quantity: "0", Price: "0"}
}

type MaterialDraft struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Cost      string `json:"cost"`
	ExpiresOn string `json:"expiresOn"`
	Size      string `json:"size"`
	Material  string `json:"material"`
	Accessory string `json:"accessory"`
	ImageURL  string `json:"imageUrl"`
}

type PhoneDraft struct {
	AreaCode   string `json:"areaCode"`
	Number     string `json:"number"`
	CustomerID int64  `json:"customerId"`
}

func normalizePhone(d PhoneDraft) PhoneDraft {
	d.AreaCode = normalize.DigitsMax(d.AreaCode, AreaCodeMaxLen)
	d.Number = normalize.DigitsMax(d.Number, LocalNumberMaxLen)
	return d
}

func zero[D any]() D {
	var d D
	return d
}

func identity[D any](d D) D { return d }
