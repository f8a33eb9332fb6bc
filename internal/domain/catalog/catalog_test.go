package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/artiflora-storefront/internal/pkg/logger"
)

type fakeRepo struct {
	products []Product
	created  []Product
	updated  map[string]Product
	deleted  []string
	err      error
}

func (f *fakeRepo) ListProducts(ctx context.Context) ([]Product, error) {
	return f.products, f.err
}

func (f *fakeRepo) GetProduct(ctx context.Context, id string) (*Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, p := range f.products {
		if p.ID == id {
			found := p
			return &found, nil
		}
	}
	return nil, errors.New("Product not found")
}

func (f *fakeRepo) CreateProduct(ctx context.Context, token string, product Product) (*Product, error) {
	product.ID = "new"
	f.created = append(f.created, product)
	return &product, nil
}

func (f *fakeRepo) UpdateProduct(ctx context.Context, token, id string, product Product) error {
	if f.updated == nil {
		f.updated = map[string]Product{}
	}
	f.updated[id] = product
	return nil
}

func (f *fakeRepo) DeleteProduct(ctx context.Context, token, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func sampleProducts() []Product {
	return []Product{
		{ID: "p1", Name: "Vase", Price: decimal.NewFromInt(250), ImageURL: []string{"a.jpg", "b.jpg"}},
		{ID: "p2", Name: "Bowl", Price: decimal.RequireFromString("99.5")},
		{Name: "Draft"},
	}
}

func TestProductJSONShape(t *testing.T) {
	data, err := json.Marshal(sampleProducts()[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"p1","name":"Vase","description":"","price":250,"image_url":["a.jpg","b.jpg"]}`, string(data))

	var p Product
	require.NoError(t, json.Unmarshal([]byte(`{"id":"x","name":"Mug","price":12.75,"image_url":[]}`), &p))
	assert.True(t, p.Price.Equal(decimal.RequireFromString("12.75")))
	assert.Equal(t, "₹12.75", p.DisplayPrice())
}

func TestProductInputValidate(t *testing.T) {
	tests := []struct {
		name    string
		input   ProductInput
		wantErr bool
	}{
		{"valid", ProductInput{Name: "Vase", Price: decimal.NewFromInt(10)}, false},
		{"zero price", ProductInput{Name: "Free sample"}, false},
		{"blank name", ProductInput{Name: "  ", Price: decimal.NewFromInt(10)}, true},
		{"negative price", ProductInput{Name: "Vase", Price: decimal.NewFromInt(-1)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIndexSkipsProductsWithoutID(t *testing.T) {
	index := NewIndex(sampleProducts())
	assert.Len(t, index, 2)

	p, ok := index.Lookup("p2")
	require.True(t, ok)
	assert.Equal(t, "Bowl", p.Name)

	_, ok = index.Lookup("")
	assert.False(t, ok)
}

func TestPrimaryImage(t *testing.T) {
	products := sampleProducts()
	assert.Equal(t, "a.jpg", products[0].PrimaryImage())
	assert.Equal(t, "", products[1].PrimaryImage())
}

func TestFeaturedLimitsList(t *testing.T) {
	svc := NewService(&fakeRepo{products: sampleProducts()}, logger.Discard())

	featured, err := svc.Featured(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, featured, 2)

	all, err := svc.Featured(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestListWrapsRepositoryError(t *testing.T) {
	boom := errors.New("boom")
	svc := NewService(&fakeRepo{err: boom}, logger.Discard())

	_, err := svc.List(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestEditFormPrepopulates(t *testing.T) {
	svc := NewService(&fakeRepo{products: sampleProducts()}, logger.Discard())

	form, err := svc.EditForm(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Vase", form.Name)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, form.ImageURL)
	assert.True(t, form.Price.Equal(decimal.NewFromInt(250)))
}

func TestCreateAndUpdateValidate(t *testing.T) {
	repo := &fakeRepo{products: sampleProducts()}
	svc := NewService(repo, logger.Discard())
	ctx := context.Background()

	_, err := svc.Create(ctx, "tok", &ProductInput{Name: "Bad", Price: decimal.NewFromInt(-5)})
	assert.Error(t, err)
	assert.Empty(t, repo.created)

	created, err := svc.Create(ctx, "tok", &ProductInput{Name: " Lamp ", Price: decimal.NewFromInt(40)})
	require.NoError(t, err)
	assert.Equal(t, "new", created.ID)
	assert.Equal(t, "Lamp", repo.created[0].Name)
	assert.NotNil(t, repo.created[0].ImageURL)

	require.NoError(t, svc.Update(ctx, "tok", "p1", &ProductInput{Name: "Vase II", Price: decimal.NewFromInt(300)}))
	assert.Equal(t, "Vase II", repo.updated["p1"].Name)
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	repo := &fakeRepo{products: sampleProducts()}
	svc := NewService(repo, logger.Discard())
	ctx := context.Background()

	confirmation, err := svc.Delete(ctx, "tok", "p1", false)
	require.ErrorIs(t, err, ErrConfirmationRequired)
	assert.Equal(t, `Are you sure you want to delete "Vase"?`, confirmation.Prompt)
	assert.Empty(t, repo.deleted)

	confirmation, err = svc.Delete(ctx, "tok", "p1", true)
	require.NoError(t, err)
	assert.Nil(t, confirmation)
	assert.Equal(t, []string{"p1"}, repo.deleted)
}
