package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/invopop/jsonschema"

	"shopagent/internal/domain/tool"
)

const defaultListLimit = 10

// ProductID accepts the product identifier as a JSON number or a numeric
// string; models emit both.
type ProductID int64

func (p *ProductID) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		return fmt.Errorf("product_id must not be empty")
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("product_id must be a numeric identifier, got %s", s)
	}
	*p = ProductID(v)
	return nil
}

// JSONSchema declares the wire type for the LLM-facing schema.
func (ProductID) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{
			{Type: "integer"},
			{Type: "string", Pattern: "^[0-9]+$"},
		},
		Description: "Numeric identifier of the product",
	}
}

type listProductsArgs struct {
	Limit int `json:"limit,omitempty" jsonschema:"minimum=1,maximum=250,description=Maximum number of products to return (default 10)"`
}

type getProductArgs struct {
	ProductID ProductID `json:"product_id"`
}

// productSummary is the compact listing shape handed to the LLM.
type productSummary struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Handle      string `json:"handle"`
	Status      string `json:"status"`
	Vendor      string `json:"vendor"`
	ProductType string `json:"product_type"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// Tools exposes the store operations as agent tools bound to the given
// store client.
func Tools(store StoreClient) []tool.Tool {
	return []tool.Tool{
		{
			Name:        "get_products",
			Description: "Retrieve products from the store catalog. Returns id, title, handle, status, vendor, product type and timestamps for each product.",
			Parameters:  tool.Schema(&listProductsArgs{}),
			Handler:     listProductsHandler(store),
		},
		{
			Name:        "get_product_by_id",
			Description: "Retrieve a single product by its numeric ID, including variants and prices.",
			Parameters:  tool.Schema(&getProductArgs{}),
			Handler:     getProductHandler(store),
		},
	}
}

func listProductsHandler(store StoreClient) tool.Handler {
	return func(ctx context.Context, raw json.RawMessage) (string, error) {
		var args listProductsArgs
		if err := tool.DecodeArgs("get_products", raw, &args); err != nil {
			return "", err
		}
		if args.Limit < 0 {
			return "", &tool.ArgumentError{Tool: "get_products", Field: "limit", Message: "must be positive"}
		}
		limit := args.Limit
		if limit == 0 {
			limit = defaultListLimit
		}

		products, err := store.ListProducts(ctx, limit)
		if err != nil {
			return "", err
		}

		summaries := make([]productSummary, 0, len(products))
		for _, p := range products {
			summaries = append(summaries, productSummary{
				ID:          p.ID,
				Title:       p.Title,
				Handle:      p.Handle,
				Status:      p.Status,
				Vendor:      p.Vendor,
				ProductType: p.ProductType,
				CreatedAt:   p.CreatedAt,
				UpdatedAt:   p.UpdatedAt,
			})
		}
		return marshalToolOutput(summaries)
	}
}

func getProductHandler(store StoreClient) tool.Handler {
	return func(ctx context.Context, raw json.RawMessage) (string, error) {
		var args getProductArgs
		if err := tool.DecodeArgs("get_product_by_id", raw, &args); err != nil {
			return "", err
		}
		if args.ProductID == 0 {
			return "", &tool.ArgumentError{Tool: "get_product_by_id", Field: "product_id", Message: "required"}
		}

		product, err := store.GetProduct(ctx, int64(args.ProductID))
		if err != nil {
			return "", err
		}
		return marshalToolOutput(product)
	}
}

func marshalToolOutput(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal tool output: %w", err)
	}
	return string(data), nil
}
