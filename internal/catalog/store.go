package catalog

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/restokit/pos-core/internal/awsx"
)

// Store reads the catalog tables. The catalog is owned elsewhere; this
// store never writes.
type Store struct {
	client        awsx.DynamoDBAPI
	productsTable string
	combosTable   string
	tablesTable   string
}

// NewStore creates a read-only catalog Store.
func NewStore(client awsx.DynamoDBAPI, productsTable, combosTable, tablesTable string) *Store {
	return &Store{
		client:        client,
		productsTable: productsTable,
		combosTable:   combosTable,
		tablesTable:   tablesTable,
	}
}

// ListProducts returns all products, available or not.
func (s *Store) ListProducts(ctx context.Context) ([]Product, error) {
	out, err := s.client.Scan(ctx, &dyn.ScanInput{TableName: &s.productsTable})
	if err != nil {
		return nil, fmt.Errorf("scan products: %w", err)
	}
	var products []Product
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &products); err != nil {
		return nil, fmt.Errorf("unmarshal products: %w", err)
	}
	return products, nil
}

// ListCombos returns combo definitions as stored, without candidates resolved.
func (s *Store) ListCombos(ctx context.Context) ([]ComboDefinition, error) {
	out, err := s.client.Scan(ctx, &dyn.ScanInput{TableName: &s.combosTable})
	if err != nil {
		return nil, fmt.Errorf("scan combos: %w", err)
	}
	var combos []ComboDefinition
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &combos); err != nil {
		return nil, fmt.Errorf("unmarshal combos: %w", err)
	}
	return combos, nil
}

// ListTables returns the dining tables usable as order destinations.
func (s *Store) ListTables(ctx context.Context) ([]DiningTable, error) {
	out, err := s.client.Scan(ctx, &dyn.ScanInput{TableName: &s.tablesTable})
	if err != nil {
		return nil, fmt.Errorf("scan tables: %w", err)
	}
	var tables []DiningTable
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &tables); err != nil {
		return nil, fmt.Errorf("unmarshal tables: %w", err)
	}
	return tables, nil
}

// LoadMenu assembles the full menu: products plus combos with each
// selection group's candidates resolved to the available products of the
// group's category at this moment. The result is treated as frozen for the
// duration of cart composition.
func (s *Store) LoadMenu(ctx context.Context) (*Menu, error) {
	products, err := s.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	combos, err := s.ListCombos(ctx)
	if err != nil {
		return nil, err
	}

	for ci := range combos {
		if combos[ci].Type != ComboSelectable {
			continue
		}
		for gi := range combos[ci].Groups {
			g := &combos[ci].Groups[gi]
			g.Candidates = candidatesFor(products, g.CategoryID)
		}
	}

	return &Menu{Products: products, Combos: combos}, nil
}

func candidatesFor(products []Product, categoryID string) []Product {
	var out []Product
	for _, p := range products {
		if p.CategoryID == categoryID && p.Available {
			out = append(out, p)
		}
	}
	return out
}
