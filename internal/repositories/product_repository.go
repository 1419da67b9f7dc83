package repositories

import (
	"context"

	"github.com/greatawakening/checkout-service/internal/models"
	"github.com/jackc/pgx/v4"
)

// ProductRepository manages the product catalog. Only seeding writes to it;
// the webhook flow never touches it at runtime.
type ProductRepository interface {
	Upsert(ctx context.Context, p *models.Product) error
	GetByStripeProductID(ctx context.Context, stripeProductID string) (*models.Product, error)
}

type productRepo struct {
	db DB
}

func NewProductRepository(db DB) ProductRepository {
	return &productRepo{db: db}
}

func baseSelectProduct() string {
	return `
		SELECT id, stripe_product_id, name, price_cents, created_at, updated_at
		FROM products
	`
}

func (r *productRepo) scanProduct(row pgx.Row) (*models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.StripeProductID, &p.Name, &p.PriceCents, &p.CreatedAt, &p.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) Upsert(ctx context.Context, p *models.Product) error {
	q := `
		INSERT INTO products (id, stripe_product_id, name, price_cents, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (stripe_product_id) DO UPDATE
		SET name = EXCLUDED.name, price_cents = EXCLUDED.price_cents, updated_at = NOW()
	`
	_, err := r.db.Exec(ctx, q, p.ID, p.StripeProductID, p.Name, p.PriceCents)
	return err
}

func (r *productRepo) GetByStripeProductID(ctx context.Context, stripeProductID string) (*models.Product, error) {
	row := r.db.QueryRow(ctx, baseSelectProduct()+" WHERE stripe_product_id=$1", stripeProductID)
	return r.scanProduct(row)
}
