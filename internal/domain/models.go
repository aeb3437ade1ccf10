package domain

import "github.com/shopspring/decimal"

// ============================================================
// Entities: wire shapes of the inventory/CRM backend
// ============================================================

// Entity is implemented by every record a repository holds.
type Entity interface {
	EntityID() int64
}

// Address is a street address referenced by customers and suppliers.
type Address struct {
	ID     int64  `json:"id,omitempty"`
	Street string `json:"rua"`
	CEP    string `json:"cep"` // digits only on the wire
	Number int    `json:"numero"`
}

func (a Address) EntityID() int64 { return a.ID }

// Customer is a person (CPF) or company (CNPJ) with a required address.
type Customer struct {
	ID        int64  `json:"id,omitempty"`
	Name      string `json:"nome"`
	BirthDate string `json:"dataNascimento"`
	Email     string `json:"email,omitempty"`
	CPF       string `json:"cpf,omitempty"`
	CNPJ      string `json:"cnpj,omitempty"`
	AddressID int64  `json:"enderecoId"`
}

func (c Customer) EntityID() int64 { return c.ID }

// Supplier is a company identified by CNPJ.
type Supplier struct {
	ID          int64  `json:"id,omitempty"`
	CNPJ        string `json:"cnpj"`
	LegalName   string `json:"razaoSocial"`
	ContactName string `json:"nomeContato"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"telefone,omitempty"`
	AddressID   *int64 `json:"enderecoId,omitempty"`
}

func (s Supplier) EntityID() int64 { return s.ID }

// ProductCategory enumerates the catalog sections a product may belong to.
type ProductCategory string

const (
	CategoryProduct ProductCategory = "produto"
	CategoryCatalog ProductCategory = "catalogo"
	CategoryCombo   ProductCategory = "combo"
)

// Valid reports whether c is one of the known categories.
func (c ProductCategory) Valid() bool {
	switch c {
	case CategoryProduct, CategoryCatalog, CategoryCombo:
		return true
	}
	return false
}

// Product is a sellable item.
type Product struct {
	ID         int64           `json:"id,omitempty"`
	Code       string          `json:"codigo"`
	Name       string          `json:"nome"`
	Category   ProductCategory `json:"categoria"`
	Quantity   int             `json:"quantidade"`
	Price      decimal.Decimal `json:"preco"`
	SupplierID *int64          `json:"fornecedorId,omitempty"`
	ImageURL   string          `json:"imagemUrl,omitempty"`
}

func (p Product) EntityID() int64 { return p.ID }

// MaterialType enumerates raw material kinds.
type MaterialType string

const (
	MaterialComponent MaterialType = "componente"
	MaterialInput     MaterialType = "insumo"
	MaterialPackaging MaterialType = "embalagem"
)

// Valid reports whether t is empty (optional) or one of the known types.
func (t MaterialType) Valid() bool {
	switch t {
	case "", MaterialComponent, MaterialInput, MaterialPackaging:
		return true
	}
	return false
}

// RawMaterial is a production input; everything but the name is optional.
type RawMaterial struct {
	ID        int64            `json:"id,omitempty"`
	Name      string           `json:"nome"`
	Type      MaterialType     `json:"tipo,omitempty"`
	Cost      *decimal.Decimal `json:"custo,omitempty"`
	ExpiresOn string           `json:"validade,omitempty"`
	Size      string           `json:"tamanho,omitempty"`
	Material  string           `json:"material,omitempty"`
	Accessory string           `json:"acessorio,omitempty"`
	ImageURL  string           `json:"imagemUrl,omitempty"`
}

func (m RawMaterial) EntityID() int64 { return m.ID }

// Phone belongs to exactly one customer.
type Phone struct {
	ID         int64  `json:"id,omitempty"`
	AreaCode   string `json:"ddd"`
	Number     string `json:"numero"`
	CustomerID int64  `json:"clienteId"`
}

func (p Phone) EntityID() int64 { return p.ID }

// ============================================================
// Auth
// ============================================================

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse accepts both token field names the backend has used.
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	Token       string `json:"token"`
}

// TokenValue returns whichever token field is present.
func (r LoginResponse) TokenValue() string {
	if r.AccessToken != "" {
		return r.AccessToken
	}
	return r.Token
}

// UploadResult is the data of POST /upload.
type UploadResult struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}
