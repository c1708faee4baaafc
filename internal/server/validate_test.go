package server

import (
	"strings"
	"testing"

	"postcraft/internal/core"
)

func TestValidateProductValid(t *testing.T) {
	product, errs := ValidateProduct(core.Product{
		Name:        "  Trail Mug  ",
		Description: " Insulated steel mug ",
		Price:       24.99,
		Category:    " Outdoor ",
	})
	if len(errs) != 0 {
		t.Fatalf("unexpected validation errors: %v", errs)
	}
	if product.Name != "Trail Mug" {
		t.Errorf("name not trimmed: %q", product.Name)
	}
	if product.Description != "Insulated steel mug" {
		t.Errorf("description not trimmed: %q", product.Description)
	}
	if product.Category != "Outdoor" {
		t.Errorf("category not trimmed: %q", product.Category)
	}
}

func TestValidateProductZeroPrice(t *testing.T) {
	_, errs := ValidateProduct(core.Product{Name: "Freebie", Description: "No charge", Price: 0})
	if len(errs) != 0 {
		t.Errorf("zero price should be valid, got %v", errs)
	}
}

func TestValidateProductMissingFields(t *testing.T) {
	_, errs := ValidateProduct(core.Product{})
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors for empty product, got %v", errs)
	}

	joined := strings.Join(errs, "\n")
	if !strings.Contains(joined, "Product name is required") {
		t.Errorf("missing name error: %v", errs)
	}
	if !strings.Contains(joined, "Product description is required") {
		t.Errorf("missing description error: %v", errs)
	}
}

func TestValidateProductWhitespaceOnlyName(t *testing.T) {
	_, errs := ValidateProduct(core.Product{Name: "   ", Description: "desc", Price: 1})
	if len(errs) != 1 || !strings.Contains(errs[0], "Product name is required") {
		t.Errorf("whitespace-only name should fail: %v", errs)
	}
}

func TestValidateProductBounds(t *testing.T) {
	longName := strings.Repeat("a", 201)
	longDescription := strings.Repeat("b", 2001)
	longCategory := strings.Repeat("c", 101)

	_, errs := ValidateProduct(core.Product{
		Name:        longName,
		Description: longDescription,
		Price:       1000000,
		Category:    longCategory,
	})
	if len(errs) != 4 {
		t.Fatalf("expected 4 bound errors, got %v", errs)
	}

	joined := strings.Join(errs, "\n")
	for _, want := range []string{
		"200 characters or less",
		"2000 characters or less",
		"less than $999,999",
		"100 characters or less",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("missing %q in %v", want, errs)
		}
	}
}

func TestValidateProductNegativePrice(t *testing.T) {
	_, errs := ValidateProduct(core.Product{Name: "X", Description: "Y", Price: -5})
	if len(errs) != 1 || !strings.Contains(errs[0], "non-negative") {
		t.Errorf("negative price should fail: %v", errs)
	}
}

func TestValidateProductBoundaryLengths(t *testing.T) {
	product, errs := ValidateProduct(core.Product{
		Name:        strings.Repeat("a", 200),
		Description: strings.Repeat("b", 2000),
		Price:       999999,
		Category:    strings.Repeat("c", 100),
	})
	if len(errs) != 0 {
		t.Errorf("boundary lengths should be valid, got %v", errs)
	}
	if len(product.Name) != 200 {
		t.Errorf("name length = %d", len(product.Name))
	}
}

func TestValidateProductReturnsEmptyOnFailure(t *testing.T) {
	product, errs := ValidateProduct(core.Product{Name: "ok", Description: "", Price: 1})
	if len(errs) == 0 {
		t.Fatal("expected validation errors")
	}
	if product.Name != "" {
		t.Errorf("failed validation should return a zero product, got %+v", product)
	}
}
