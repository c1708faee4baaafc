package server

import (
	"strings"

	"postcraft/internal/core"
)

// Product bounds enforced at the boundary.
const (
	maxNameLength        = 200
	maxDescriptionLength = 2000
	maxCategoryLength    = 100
	maxPrice             = 999999
)

// ValidateProduct checks the structural bounds of a caller-supplied product
// and returns the trimmed product alongside field-level error messages.
// The product is only usable when the message list is empty.
func ValidateProduct(product core.Product) (core.Product, []string) {
	var errors []string

	name := strings.TrimSpace(product.Name)
	description := strings.TrimSpace(product.Description)
	category := strings.TrimSpace(product.Category)

	if name == "" {
		errors = append(errors, "Product name is required and must be a non-empty string")
	} else if len(name) > maxNameLength {
		errors = append(errors, "Product name must be 200 characters or less")
	}

	if description == "" {
		errors = append(errors, "Product description is required and must be a non-empty string")
	} else if len(description) > maxDescriptionLength {
		errors = append(errors, "Product description must be 2000 characters or less")
	}

	if product.Price < 0 {
		errors = append(errors, "Product price is required and must be a non-negative number")
	} else if product.Price > maxPrice {
		errors = append(errors, "Product price must be less than $999,999")
	}

	if product.Category != "" && category == "" {
		errors = append(errors, "Product category must be a non-empty string if provided")
	} else if len(category) > maxCategoryLength {
		errors = append(errors, "Product category must be 100 characters or less")
	}

	if len(errors) > 0 {
		return core.Product{}, errors
	}

	return core.Product{
		Name:        name,
		Description: description,
		Price:       product.Price,
		Category:    category,
	}, nil
}
