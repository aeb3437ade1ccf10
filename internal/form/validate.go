package form

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/domain"
	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/normalize"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report fields by their wire names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// decimals compare as numbers under gte/lte
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	if err := v.RegisterValidation("digits", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s != "" && normalize.Digits(s) == s
	}); err != nil {
		panic(err)
	}
	return v
}

// messages maps "field.tag" (or just "field") to the user-facing text.
type messages map[string]string

// check runs struct-tag validation and reports the first violated rule in
// field order.
func check(s any, msgs messages) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.NewValidation("", err.Error())
	}

	fe := verrs[0]
	msg, ok := msgs[fe.Field()+"."+fe.Tag()]
	if !ok {
		msg, ok = msgs[fe.Field()]
	}
	if !ok {
		msg = fe.Field() + " is invalid"
	}
	return domain.NewValidation(fe.Field(), msg)
}

const msgPhoneTooShort = "phone must have at least 10 digits"

// ============================================================
// Address
// ============================================================

type addressCheck struct {
	Street string `json:"rua" validate:"required"`
	Number string `json:"numero" validate:"required,digits"`
	CEP    string `json:"cep" validate:"required"`
}

var addressMessages = messages{
	"rua":             "street is required",
	"numero.required": "number is required",
	"numero.digits":   "number must be a non-negative integer",
	"cep":             "postal code is required",
}

// ValidateAddress turns a draft into the payload sent to POST /addresses.
func ValidateAddress(d AddressDraft) (domain.Address, error) {
	in := addressCheck{
		Street: strings.TrimSpace(d.Street),
		Number: strings.TrimSpace(d.Number),
		CEP:    normalize.Digits(d.CEP),
	}
	if err := check(in, addressMessages); err != nil {
		return domain.Address{}, err
	}
	n, err := strconv.Atoi(in.Number)
	if err != nil {
		return domain.Address{}, domain.NewValidation("numero", addressMessages["numero.digits"])
	}
	return domain.Address{Street: in.Street, CEP: in.CEP, Number: n}, nil
}

// ============================================================
// Customer
// ============================================================

type customerCheck struct {
	BirthDate string `json:"dataNascimento" validate:"required"`
	AddressID int64  `json:"enderecoId" validate:"gt=0"`
	CPF       string `json:"cpf" validate:"required_without=CNPJ"`
	CNPJ      string `json:"cnpj"`
	Phone     string `json:"telefone" validate:"omitempty,min=10"`
}

var customerMessages = messages{
	"dataNascimento": "birth date is required",
	"enderecoId":     "select a valid address",
	"cpf":            "provide a CPF or CNPJ",
	"telefone":       msgPhoneTooShort,
}

// CustomerPayload is a validated customer plus the optional phone to create
// once the customer exists.
type CustomerPayload struct {
	Customer domain.Customer
	Phone    *domain.Phone // CustomerID filled after the customer is created
}

// ValidateCustomer requires a birth date, an address and a CPF or CNPJ. A
// supplied phone must have at least 10 digits.
func ValidateCustomer(d CustomerDraft) (CustomerPayload, error) {
	in := customerCheck{
		BirthDate: strings.TrimSpace(d.BirthDate),
		AddressID: d.AddressID,
		CPF:       normalize.DigitsMax(d.CPF, normalize.CPFLen),
		CNPJ:      normalize.DigitsMax(d.CNPJ, normalize.CNPJLen),
		Phone:     normalize.PhoneDigits(d.Phone),
	}
	if err := check(in, customerMessages); err != nil {
		return CustomerPayload{}, err
	}

	p := CustomerPayload{Customer: domain.Customer{
		Name:      strings.TrimSpace(d.Name),
		BirthDate: in.BirthDate,
		Email:     strings.TrimSpace(d.Email),
		CPF:       in.CPF,
		CNPJ:      in.CNPJ,
		AddressID: in.AddressID,
	}}
	if in.Phone != "" {
		p.Phone = &domain.Phone{AreaCode: in.Phone[:2], Number: in.Phone[2:]}
	}
	return p, nil
}

// ============================================================
// Supplier
// ============================================================

type supplierCheck struct {
	CNPJ  string `json:"cnpj" validate:"len=14"`
	Phone string `json:"telefone" validate:"omitempty,min=10"`
}

var supplierMessages = messages{
	"cnpj":     "CNPJ must have 14 digits",
	"telefone": msgPhoneTooShort,
}

// ValidateSupplier requires a 14-digit CNPJ; a supplied phone needs 10 digits.
func ValidateSupplier(d SupplierDraft) (domain.Supplier, error) {
	in := supplierCheck{
		CNPJ:  normalize.Digits(d.CNPJ),
		Phone: normalize.PhoneDigits(d.Phone),
	}
	if err := check(in, supplierMessages); err != nil {
		return domain.Supplier{}, err
	}
	return domain.Supplier{
		CNPJ:        in.CNPJ,
		LegalName:   strings.TrimSpace(d.LegalName),
		ContactName: strings.TrimSpace(d.ContactName),
		Email:       strings.TrimSpace(d.Email),
		Phone:       in.Phone,
		AddressID:   optionalID(d.AddressID),
	}, nil
}

// ============================================================
// Product
// ============================================================

type productCheck struct {
	Code     string                 `json:"codigo" validate:"required"`
	Name     string                 `json:"nome" validate:"required"`
	Category domain.ProductCategory `json:"categoria" validate:"oneof=produto catalogo combo"`
	Quantity int                    `json:"quantidade" validate:"gte=0"`
	Price    decimal.Decimal        `json:"preco" validate:"gte=0"`
}

var productMessages = messages{
	"codigo":     "code is required",
	"nome":       "name is required",
	"categoria":  "select a valid category",
	"quantidade": "quantity must be zero or greater",
	"preco":      "price must be zero or greater",
}

// ValidateProduct requires code and name and non-negative quantity and price.
func ValidateProduct(d ProductDraft) (domain.Product, error) {
	qty, err := parseInt(d.Quantity)
	if err != nil {
		return domain.Product{}, domain.NewValidation("quantidade", "quantity must be a whole number")
	}
	price, err := parseDecimal(d.Price)
	if err != nil {
		return domain.Product{}, domain.NewValidation("preco", "price must be a number")
	}

	in := productCheck{
		Code:     strings.TrimSpace(d.Code),
		Name:     strings.TrimSpace(d.Name),
		Category: domain.ProductCategory(d.Category),
		Quantity: qty,
		Price:    price,
	}
	if err := check(in, productMessages); err != nil {
		return domain.Product{}, err
	}
	return domain.Product{
		Code:       in.Code,
		Name:       in.Name,
		Category:   in.Category,
		Quantity:   in.Quantity,
		Price:      in.Price,
		SupplierID: optionalID(d.SupplierID),
		ImageURL:   strings.TrimSpace(d.ImageURL),
	}, nil
}

// ============================================================
// Raw material
// ============================================================

type materialCheck struct {
	Name string              `json:"nome" validate:"required"`
	Type domain.MaterialType `json:"tipo" validate:"omitempty,oneof=componente insumo embalagem"`
	Cost *decimal.Decimal    `json:"custo" validate:"omitempty,gte=0"`
}

var materialMessages = messages{
	"nome":  "name is required",
	"tipo":  "select a valid material type",
	"custo": "cost must be zero or greater",
}

// ValidateMaterial requires a name; cost, when given, must be non-negative.
func ValidateMaterial(d MaterialDraft) (domain.RawMaterial, error) {
	var cost *decimal.Decimal
	if strings.TrimSpace(d.Cost) != "" {
		c, err := parseDecimal(d.Cost)
		if err != nil {
			return domain.RawMaterial{}, domain.NewValidation("custo", "cost must be a number")
		}
		cost = &c
	}

	in := materialCheck{
		Name: strings.TrimSpace(d.Name),
		Type: domain.MaterialType(d.Type),
		Cost: cost,
	}
	if err := check(in, materialMessages); err != nil {
		return domain.RawMaterial{}, err
	}
	return domain.RawMaterial{
		Name:      in.Name,
		Type:      in.Type,
		Cost:      in.Cost,
		ExpiresOn: strings.TrimSpace(d.ExpiresOn),
		Size:      strings.TrimSpace(d.Size),
		Material:  strings.TrimSpace(d.Material),
		Accessory: strings.TrimSpace(d.Accessory),
		ImageURL:  strings.TrimSpace(d.ImageURL),
	}, nil
}

// ============================================================
// Phone
// ============================================================

type phoneCheck struct {
	Combined   string `json:"numero" validate:"min=10"`
	CustomerID int64  `json:"clienteId" validate:"gt=0"`
}

var phoneMessages = messages{
	"numero":    msgPhoneTooShort,
	"clienteId": "select a valid customer",
}

// ValidatePhone requires area code plus number to reach 10 digits and a
// positive customer reference.
func ValidatePhone(d PhoneDraft) (domain.Phone, error) {
	area := normalize.DigitsMax(d.AreaCode, AreaCodeMaxLen)
	number := normalize.DigitsMax(d.Number, LocalNumberMaxLen)

	in := phoneCheck{Combined: area + number, CustomerID: d.CustomerID}
	if err := check(in, phoneMessages); err != nil {
		return domain.Phone{}, err
	}
	return domain.Phone{AreaCode: area, Number: number, CustomerID: d.CustomerID}, nil
}

// ============================================================
// helpers
// ============================================================

func optionalID(id int64) *int64 {
	if id <= 0 {
		return nil
	}
	return &id
}

// parseInt treats an empty field as zero.
func parseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

// parseDecimal accepts both "12.50" and "12,50"; empty is zero.
func parseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(strings.Replace(s, ",", ".", 1))
}
