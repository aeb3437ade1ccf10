package form_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/domain"
	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/form"
	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/infra/observability"
	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/notice"

	"go.uber.org/zap"
)

// --- Mocks ---

type mockCreator[T any] struct {
	mu      sync.Mutex
	calls   []T
	create  func(T) (T, error)
	release chan struct{}
}

func (m *mockCreator[T]) Create(_ context.Context, payload T) (T, error) {
	m.mu.Lock()
	m.calls = append(m.calls, payload)
	m.mu.Unlock()
	if m.release != nil {
		<-m.release
	}
	if m.create != nil {
		return m.create(payload)
	}
	return payload, nil
}

func (m *mockCreator[T]) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

type fixture struct {
	addresses *mockCreator[domain.Address]
	customers *mockCreator[domain.Customer]
	suppliers *mockCreator[domain.Supplier]
	phones    *mockCreator[domain.Phone]
	feed      *notice.Feed
	forms     *form.Forms
}

func newFixture() *fixture {
	f := &fixture{
		addresses: &mockCreator[domain.Address]{},
		customers: &mockCreator[domain.Customer]{},
		suppliers: &mockCreator[domain.Supplier]{},
		phones:    &mockCreator[domain.Phone]{},
		feed:      notice.NewFeed(20, zap.NewNop()),
	}
	f.forms = form.New(form.Creators{
		Addresses: f.addresses,
		Customers: f.customers,
		Suppliers: f.suppliers,
		Products:  &mockCreator[domain.Product]{},
		Materials: &mockCreator[domain.RawMaterial]{},
		Phones:    f.phones,
	}, f.feed, observability.NewMetrics(), zap.NewNop())
	return f
}

// --- Tests ---

func TestEdit_AppliesDisplayNormalizers(t *testing.T) {
	f := newFixture()

	d, err := f.forms.Supplier.Edit(func(d *form.SupplierDraft) error {
		d.CNPJ = "11222333000181"
		d.Phone = "11940028922"
		return nil
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if d.CNPJ != "11.222.333/0001-81" {
		t.Errorf("expected formatted CNPJ, got %q", d.CNPJ)
	}
	if d.Phone != "+55 (11) 94002-8922" {
		t.Errorf("expected formatted phone, got %q", d.Phone)
	}

	again, _ := f.forms.Supplier.Edit(func(*form.SupplierDraft) error { return nil })
	if again != d {
		t.Errorf("expected normalizers to be idempotent, got %+v", again)
	}
}

func TestEdit_FailureLeavesDraft(t *testing.T) {
	f := newFixture()
	f.forms.Address.Edit(func(d *form.AddressDraft) error { d.Street = "Rua A"; return nil })

	_, err := f.forms.Address.Edit(func(d *form.AddressDraft) error {
		d.Street = "changed"
		return errors.New("boom")
	})
	if err == nil {
		t.Fatal("expected edit error")
	}
	if f.forms.Address.Draft().Street != "Rua A" {
		t.Errorf("expected draft unchanged, got %+v", f.forms.Address.Draft())
	}
}

func TestSubmit_ValidationBlocksNetwork(t *testing.T) {
	f := newFixture()
	f.forms.Customer.Edit(func(d *form.CustomerDraft) error {
		d.BirthDate = "1990-01-01"
		d.AddressID = 2
		return nil
	})

	_, err := f.forms.Customer.Submit(context.Background())
	expectValidation(t, err, "provide a CPF or CNPJ")

	if f.customers.count() != 0 {
		t.Error("expected no create on validation failure")
	}
	if f.forms.Customer.Err() != "provide a CPF or CNPJ" {
		t.Errorf("expected error slot set, got %q", f.forms.Customer.Err())
	}
	if f.forms.Customer.Submitting() {
		t.Error("expected submitting flag cleared")
	}
	if f.forms.Customer.Draft().BirthDate != "1990-01-01" {
		t.Error("expected draft kept after validation failure")
	}
}

func TestSubmit_SupplierScenario(t *testing.T) {
	f := newFixture()
	f.suppliers.create = func(s domain.Supplier) (domain.Supplier, error) {
		s.ID = 9
		return s, nil
	}
	f.forms.Supplier.Edit(func(d *form.SupplierDraft) error {
		d.CNPJ = "11.222.333/0001-81"
		d.LegalName = "Cestas LTDA"
		d.Phone = "(11) 4002-8922"
		return nil
	})

	rec, err := f.forms.Supplier.Submit(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.ID != 9 {
		t.Errorf("expected created record, got %+v", rec)
	}

	sent := f.suppliers.calls[0]
	if sent.CNPJ != "11222333000181" || sent.Phone != "1140028922" {
		t.Errorf("expected digits-only payload, got %+v", sent)
	}
	if (f.forms.Supplier.Draft() != form.SupplierDraft{}) {
		t.Errorf("expected draft reset, got %+v", f.forms.Supplier.Draft())
	}
	notices := f.feed.Drain()
	if len(notices) != 1 || notices[0].Level != notice.LevelSuccess {
		t.Errorf("expected one success notice, got %+v", notices)
	}
}

func TestSubmit_StatusFailureFillsErrorSlot(t *testing.T) {
	f := newFixture()
	f.suppliers.create = func(s domain.Supplier) (domain.Supplier, error) {
		return domain.Supplier{}, domain.NewStatus(409, "CNPJ já cadastrado")
	}
	f.forms.Supplier.Edit(func(d *form.SupplierDraft) error { d.CNPJ = "11222333000181"; return nil })

	_, err := f.forms.Supplier.Submit(context.Background())
	if domain.KindOf(err) != domain.KindStatus {
		t.Fatalf("expected status error, got %v", err)
	}
	if f.forms.Supplier.Err() != "CNPJ já cadastrado" {
		t.Errorf("expected backend message, got %q", f.forms.Supplier.Err())
	}
	if f.forms.Supplier.Draft().CNPJ == "" {
		t.Error("expected draft kept after failure")
	}
}

func TestSubmit_BusyWhileInFlight(t *testing.T) {
	f := newFixture()
	f.addresses.release = make(chan struct{})
	f.forms.Address.Edit(func(d *form.AddressDraft) error {
		*d = form.AddressDraft{Street: "Rua A", CEP: "01001-000", Number: "1"}
		return nil
	})

	done := make(chan error)
	go func() {
		_, err := f.forms.Address.Submit(context.Background())
		done <- err
	}()

	deadline := time.Now().Add(time.Second)
	for !f.forms.Address.Submitting() {
		if time.Now().After(deadline) {
			t.Fatal("submission never started")
		}
		time.Sleep(time.Millisecond)
	}

	if _, err := f.forms.Address.Submit(context.Background()); !errors.Is(err, form.ErrBusy) {
		t.Errorf("expected ErrBusy, got %v", err)
	}

	close(f.addresses.release)
	if err := <-done; err != nil {
		t.Fatalf("expected first submission to succeed, got %v", err)
	}
	if f.addresses.count() != 1 {
		t.Errorf("expected exactly one create, got %d", f.addresses.count())
	}
}

func TestSubmit_CustomerWithPhone(t *testing.T) {
	f := newFixture()
	f.customers.create = func(c domain.Customer) (domain.Customer, error) {
		c.ID = 42
		return c, nil
	}
	f.forms.Customer.Edit(func(d *form.CustomerDraft) error {
		*d = form.CustomerDraft{BirthDate: "1990-01-01", CPF: "12345678909", AddressID: 1, Phone: "11999998888"}
		return nil
	})

	if _, err := f.forms.Customer.Submit(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if f.phones.count() != 1 {
		t.Fatalf("expected dependent phone create, got %d", f.phones.count())
	}
	ph := f.phones.calls[0]
	if ph.CustomerID != 42 || ph.AreaCode != "11" || ph.Number != "999998888" {
		t.Errorf("unexpected phone payload %+v", ph)
	}
}

func TestSubmit_CustomerPhoneFailureIsComposite(t *testing.T) {
	f := newFixture()
	f.customers.create = func(c domain.Customer) (domain.Customer, error) {
		c.ID = 42
		return c, nil
	}
	f.phones.create = func(p domain.Phone) (domain.Phone, error) {
		return domain.Phone{}, domain.NewStatus(400, "ddd inválido")
	}
	f.forms.Customer.Edit(func(d *form.CustomerDraft) error {
		*d = form.CustomerDraft{BirthDate: "1990-01-01", CPF: "12345678909", AddressID: 1, Phone: "11999998888"}
		return nil
	})

	rec, err := f.forms.Customer.Submit(context.Background())
	if domain.KindOf(err) != domain.KindComposite {
		t.Fatalf("expected composite error, got %v", err)
	}
	want := "Customer saved, but phone failed: ddd inválido"
	if err.Error() != want || f.forms.Customer.Err() != want {
		t.Errorf("expected %q, got %q / %q", want, err.Error(), f.forms.Customer.Err())
	}
	if rec.ID != 42 {
		t.Errorf("expected the saved customer to be returned, got %+v", rec)
	}
	if f.customers.count() != 1 || f.phones.count() != 1 {
		t.Error("expected no retry and no rollback")
	}
	if (f.forms.Customer.Draft() != form.CustomerDraft{}) {
		t.Error("expected draft reset once the customer was saved")
	}
}

func TestForms_LookupAndApply(t *testing.T) {
	f := newFixture()

	h, ok := f.forms.Lookup("phone")
	if !ok {
		t.Fatal("expected phone form")
	}
	if err := h.Apply([]byte(`{"areaCode":"(11)","number":"9999-8888","customerId":5}`)); err != nil {
		t.Fatalf("apply: %v", err)
	}
	snap := h.Snapshot()
	d := snap.Draft.(form.PhoneDraft)
	if d.AreaCode != "11" || d.Number != "99998888" {
		t.Errorf("expected capped digits, got %+v", d)
	}

	if err := h.Apply([]byte(`{"areaCode":`)); domain.KindOf(err) != domain.KindValidation {
		t.Errorf("expected validation error for bad JSON, got %v", err)
	}
	if _, ok := f.forms.Lookup("invoice"); ok {
		t.Error("expected unknown form to be missing")
	}
	if len(f.forms.Names()) != 6 {
		t.Errorf("expected six forms, got %v", f.forms.Names())
	}
}
