package catalog_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"shopagent/internal/domain/catalog"
	"shopagent/internal/domain/tool"
)

// MockStore is a func-field implementation of catalog.StoreClient that
// counts calls.
type MockStore struct {
	ListProductsFunc func(ctx context.Context, limit int) ([]catalog.Product, error)
	GetProductFunc   func(ctx context.Context, id int64) (*catalog.Product, error)

	ListCalls int
	GetCalls  int
}

func (m *MockStore) ListProducts(ctx context.Context, limit int) ([]catalog.Product, error) {
	m.ListCalls++
	if m.ListProductsFunc != nil {
		return m.ListProductsFunc(ctx, limit)
	}
	return nil, nil
}

func (m *MockStore) GetProduct(ctx context.Context, id int64) (*catalog.Product, error) {
	m.GetCalls++
	if m.GetProductFunc != nil {
		return m.GetProductFunc(ctx, id)
	}
	return nil, nil
}

func newRegistry(t *testing.T, store catalog.StoreClient) *tool.Registry {
	t.Helper()
	registry := tool.NewRegistry()
	for _, tl := range catalog.Tools(store) {
		if err := registry.Register(tl); err != nil {
			t.Fatalf("Register(%s) error = %v", tl.Name, err)
		}
	}
	return registry
}

func TestGetProducts_DefaultLimit(t *testing.T) {
	store := &MockStore{
		ListProductsFunc: func(ctx context.Context, limit int) ([]catalog.Product, error) {
			if limit != 10 {
				t.Errorf("limit = %d, want default 10", limit)
			}
			return []catalog.Product{{ID: 1, Title: "Mug"}}, nil
		},
	}
	registry := newRegistry(t, store)

	out, err := registry.Dispatch(context.Background(), tool.Call{
		ID:   "call_1",
		Name: "get_products",
	})
	if err != nil {
		t.Fatalf("Dispatch error = %v", err)
	}
	if !strings.Contains(out, `"title":"Mug"`) {
		t.Errorf("output = %s, want product title", out)
	}
}

func TestGetProducts_ExplicitLimit(t *testing.T) {
	store := &MockStore{
		ListProductsFunc: func(ctx context.Context, limit int) ([]catalog.Product, error) {
			if limit != 5 {
				t.Errorf("limit = %d, want 5", limit)
			}
			return make([]catalog.Product, 5), nil
		},
	}
	registry := newRegistry(t, store)

	out, err := registry.Dispatch(context.Background(), tool.Call{
		Name:      "get_products",
		Arguments: json.RawMessage(`{"limit": 5}`),
	})
	if err != nil {
		t.Fatalf("Dispatch error = %v", err)
	}

	var summaries []map[string]any
	if err := json.Unmarshal([]byte(out), &summaries); err != nil {
		t.Fatalf("output is not a JSON array: %v", err)
	}
	if len(summaries) != 5 {
		t.Errorf("len(output) = %d, want 5", len(summaries))
	}
}

func TestGetProducts_BadArguments(t *testing.T) {
	tests := []struct {
		name string
		args string
	}{
		{name: "wrong type", args: `{"limit": "lots"}`},
		{name: "unknown field", args: `{"count": 5}`},
		{name: "negative limit", args: `{"limit": -1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &MockStore{}
			registry := newRegistry(t, store)

			_, err := registry.Dispatch(context.Background(), tool.Call{
				Name:      "get_products",
				Arguments: json.RawMessage(tt.args),
			})

			var argErr *tool.ArgumentError
			if !errors.As(err, &argErr) {
				t.Fatalf("error = %v, want *tool.ArgumentError", err)
			}
			if store.ListCalls != 0 {
				t.Errorf("store called %d times, want 0", store.ListCalls)
			}
		})
	}
}

func TestGetProductByID_IdentifierForms(t *testing.T) {
	tests := []struct {
		name string
		args string
		want int64
	}{
		{name: "number", args: `{"product_id": 12345}`, want: 12345},
		{name: "numeric string", args: `{"product_id": "12345"}`, want: 12345},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &MockStore{
				GetProductFunc: func(ctx context.Context, id int64) (*catalog.Product, error) {
					if id != tt.want {
						t.Errorf("id = %d, want %d", id, tt.want)
					}
					return &catalog.Product{
						ID:    id,
						Title: "Travel Mug",
						Variants: []catalog.Variant{
							{ID: 1, Title: "Default", Price: "19.99"},
						},
					}, nil
				},
			}
			registry := newRegistry(t, store)

			out, err := registry.Dispatch(context.Background(), tool.Call{
				Name:      "get_product_by_id",
				Arguments: json.RawMessage(tt.args),
			})
			if err != nil {
				t.Fatalf("Dispatch error = %v", err)
			}
			if !strings.Contains(out, `"price":"19.99"`) {
				t.Errorf("output = %s, want variant price", out)
			}
		})
	}
}

func TestGetProductByID_MissingArgument(t *testing.T) {
	store := &MockStore{}
	registry := newRegistry(t, store)

	_, err := registry.Dispatch(context.Background(), tool.Call{
		Name:      "get_product_by_id",
		Arguments: json.RawMessage(`{}`),
	})

	var argErr *tool.ArgumentError
	if !errors.As(err, &argErr) {
		t.Fatalf("error = %v, want *tool.ArgumentError", err)
	}
	if argErr.Field != "product_id" {
		t.Errorf("Field = %q, want product_id", argErr.Field)
	}
	if store.GetCalls != 0 {
		t.Errorf("store called %d times, want 0", store.GetCalls)
	}
}

func TestGetProductByID_StoreErrorPassesThrough(t *testing.T) {
	store := &MockStore{
		GetProductFunc: func(ctx context.Context, id int64) (*catalog.Product, error) {
			return nil, catalog.NewStoreError(catalog.KindNotFound, "get product 99", nil)
		},
	}
	registry := newRegistry(t, store)

	_, err := registry.Dispatch(context.Background(), tool.Call{
		Name:      "get_product_by_id",
		Arguments: json.RawMessage(`{"product_id": 99}`),
	})
	if !catalog.IsNotFound(err) {
		t.Fatalf("error = %v, want a not-found StoreError", err)
	}
}

func TestTools_SchemaDeclaresRequiredProductID(t *testing.T) {
	registry := newRegistry(t, &MockStore{})

	defs := registry.Definitions()
	if len(defs) != 2 {
		t.Fatalf("len(Definitions) = %d, want 2", len(defs))
	}
	if defs[0].Function.Name != "get_products" || defs[1].Function.Name != "get_product_by_id" {
		t.Fatalf("definition order = %s, %s", defs[0].Function.Name, defs[1].Function.Name)
	}

	data, err := json.Marshal(defs[1].Function.Parameters)
	if err != nil {
		t.Fatalf("marshal parameters: %v", err)
	}
	var schema struct {
		Required []string `json:"required"`
	}
	if err := json.Unmarshal(data, &schema); err != nil {
		t.Fatalf("unmarshal parameters: %v", err)
	}
	if len(schema.Required) != 1 || schema.Required[0] != "product_id" {
		t.Errorf("required = %v, want [product_id]", schema.Required)
	}
}
