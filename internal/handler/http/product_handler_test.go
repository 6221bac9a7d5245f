package http

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/repository"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

const productID = "7b5a0a60-9f3e-4a27-b2dc-51c0276b42a1"

func catalogProduct() domain.Product {
	now := time.Now().UTC()
	return domain.Product{
		ID:        productID,
		Name:      "Brass Desk Lamp",
		Price:     3499,
		Category:  "Lighting",
		Stock:     8,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestListProducts_ReturnsCatalog(t *testing.T) {
	env := newTestEnv()
	env.products.On("List", mock.Anything).Return([]domain.Product{catalogProduct()}, nil)

	rec := env.do(t, http.MethodGet, "/api/v1/products", nil, requestOpts{})

	require.Equal(t, http.StatusOK, rec.Code)
	data := dataMap(t, rec)
	assert.Nil(t, data["placeholder"])
	products, ok := data["products"].([]any)
	require.True(t, ok)
	assert.Len(t, products, 1)
}

func TestListProducts_EmptyCatalogServesPlaceholders(t *testing.T) {
	env := newTestEnv()
	env.products.On("List", mock.Anything).Return([]domain.Product{}, nil)

	rec := env.do(t, http.MethodGet, "/api/v1/products", nil, requestOpts{})

	require.Equal(t, http.StatusOK, rec.Code)
	data := dataMap(t, rec)
	assert.Equal(t, true, data["placeholder"])
	products, ok := data["products"].([]any)
	require.True(t, ok)
	assert.Len(t, products, 6)
}

func TestGetProduct_InvalidUUID(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodGet, "/api/v1/products/not-a-uuid", nil, requestOpts{})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetProduct_NotFound(t *testing.T) {
	env := newTestEnv()
	env.products.On("GetByID", mock.Anything, productID).
		Return(nil, apperrors.NotFound("product", productID))

	rec := env.do(t, http.MethodGet, "/api/v1/products/"+productID, nil, requestOpts{})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateProduct_Success(t *testing.T) {
	env := newTestEnv()
	env.products.On("Create", mock.Anything, mock.AnythingOfType("*domain.Product")).Return(nil)

	rec := env.do(t, http.MethodPost, "/api/v1/products", map[string]any{
		"name":     "Brass Desk Lamp",
		"price":    3499,
		"category": "Lighting",
		"stock":    8,
	}, requestOpts{})

	require.Equal(t, http.StatusCreated, rec.Code)
	data := dataMap(t, rec)
	assert.Equal(t, "Brass Desk Lamp", data["name"])
	env.products.AssertExpectations(t)
}

func TestCreateProduct_ValidationFailure(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPost, "/api/v1/products", map[string]any{
		"name": "Missing price",
	}, requestOpts{})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env.products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateProduct_DiscountApplied(t *testing.T) {
	env := newTestEnv()

	current := catalogProduct()
	current.Price = 100
	env.products.On("GetByID", mock.Anything, productID).Return(&current, nil)
	env.products.On("Update", mock.Anything, productID, mock.MatchedBy(func(patch repository.ProductPatch) bool {
		return patch.Price != nil && *patch.Price == 80 &&
			patch.OriginalPrice != nil && *patch.OriginalPrice == 100
	})).Return(&domain.Product{ID: productID, Price: 80}, nil)

	rec := env.do(t, http.MethodPut, "/api/v1/products/"+productID, map[string]any{
		"discount_percent": 20,
	}, requestOpts{})

	require.Equal(t, http.StatusOK, rec.Code)
	env.products.AssertExpectations(t)
}

func TestUpdateProduct_NullDiscountClears(t *testing.T) {
	env := newTestEnv()

	current := catalogProduct()
	current.Price = 80
	original := int64(100)
	percent := 20
	current.OriginalPrice = &original
	current.DiscountPercent = &percent
	env.products.On("GetByID", mock.Anything, productID).Return(&current, nil)
	env.products.On("Update", mock.Anything, productID, mock.MatchedBy(func(patch repository.ProductPatch) bool {
		return patch.Price != nil && *patch.Price == 100 &&
			patch.ClearOriginal && patch.ClearDiscount
	})).Return(&domain.Product{ID: productID, Price: 100}, nil)

	rec := env.do(t, http.MethodPut, "/api/v1/products/"+productID, map[string]any{
		"discount_percent": nil,
	}, requestOpts{})

	require.Equal(t, http.StatusOK, rec.Code)
	env.products.AssertExpectations(t)
}

func TestUpdateProduct_AbsentDiscountLeavesPricing(t *testing.T) {
	env := newTestEnv()

	env.products.On("Update", mock.Anything, productID, mock.MatchedBy(func(patch repository.ProductPatch) bool {
		return patch.Name != nil && patch.Price == nil &&
			!patch.ClearDiscount && patch.DiscountPercent == nil
	})).Return(&domain.Product{ID: productID, Name: "Renamed", Price: 80}, nil)

	rec := env.do(t, http.MethodPut, "/api/v1/products/"+productID, map[string]any{
		"name": "Renamed",
	}, requestOpts{})

	require.Equal(t, http.StatusOK, rec.Code)
	env.products.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestUpdateProduct_DiscountOutOfRange(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPut, "/api/v1/products/"+productID, map[string]any{
		"discount_percent": 150,
	}, requestOpts{})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env.products.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteProduct_Success(t *testing.T) {
	env := newTestEnv()
	env.products.On("Delete", mock.Anything, productID).Return(nil)

	rec := env.do(t, http.MethodDelete, "/api/v1/products/"+productID, nil, requestOpts{})

	assert.Equal(t, http.StatusNoContent, rec.Code)
	env.products.AssertExpectations(t)
}
