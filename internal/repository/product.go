package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osikani/kente-storefront-api/internal/currency"
	"github.com/osikani/kente-storefront-api/internal/model"
)

// ProductFilter narrows catalog listings. Zero values mean "no filter".
type ProductFilter struct {
	Search   string
	Category model.Category
	Tag      string
	Featured *bool
	Sort     string
	Order    string
	Limit    int
	Offset   int
}

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]model.Product, int, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type pgProductRepo struct{ pool *pgxpool.Pool }

func NewProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &pgProductRepo{pool: pool}
}

func (r *pgProductRepo) Create(ctx context.Context, product *model.Product) error {
	product.ID = uuid.New()
	priceJSON, err := json.Marshal(product.Price)
	if err != nil {
		return fmt.Errorf("marshal price map: %w", err)
	}
	query := `INSERT INTO products (id, name, pattern_name, price, description, story, category, tags, images, image_url, featured, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW()) RETURNING created_at, updated_at`
	err = r.pool.QueryRow(ctx, query,
		product.ID, product.Name, product.PatternName, priceJSON, product.Description,
		product.Story, product.Category, product.Tags, product.Images, product.ImageURL, product.Featured,
	).Scan(&product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

func (r *pgProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	query := `SELECT id, name, pattern_name, price, description, story, category, tags, images, image_url, featured, created_at, updated_at
			  FROM products WHERE id = $1`
	p, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *pgProductRepo) List(ctx context.Context, filter ProductFilter) ([]model.Product, int, error) {
	allowedSorts := map[string]bool{"name": true, "pattern_name": true, "created_at": true}
	sort := filter.Sort
	if !allowedSorts[sort] {
		sort = "created_at"
	}
	order := filter.Order
	if order != "asc" && order != "desc" {
		order = "desc"
	}

	where := `($1 = '' OR name ILIKE '%' || $1 || '%' OR pattern_name ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%')
		AND ($2 = '' OR category = $2)
		AND ($3 = '' OR $3 = ANY(tags))
		AND ($4::boolean IS NULL OR featured = $4)`

	var total int
	countQ := `SELECT COUNT(*) FROM products WHERE ` + where
	if err := r.pool.QueryRow(ctx, countQ, filter.Search, string(filter.Category), filter.Tag, filter.Featured).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	query := fmt.Sprintf(`SELECT id, name, pattern_name, price, description, story, category, tags, images, image_url, featured, created_at, updated_at
		FROM products WHERE %s ORDER BY %s %s LIMIT $5 OFFSET $6`, where, sort, order)

	rows, err := r.pool.Query(ctx, query, filter.Search, string(filter.Category), filter.Tag, filter.Featured, filter.Limit, filter.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, total, nil
}

func (r *pgProductRepo) Update(ctx context.Context, product *model.Product) error {
	priceJSON, err := json.Marshal(product.Price)
	if err != nil {
		return fmt.Errorf("marshal price map: %w", err)
	}
	query := `UPDATE products SET name=$2, pattern_name=$3, price=$4, description=$5, story=$6, category=$7, tags=$8, images=$9, image_url=$10, featured=$11, updated_at=NOW()
			  WHERE id=$1 RETURNING updated_at`
	err = r.pool.QueryRow(ctx, query,
		product.ID, product.Name, product.PatternName, priceJSON, product.Description,
		product.Story, product.Category, product.Tags, product.Images, product.ImageURL, product.Featured,
	).Scan(&product.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return pgx.ErrNoRows
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

func (r *pgProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanProduct(row pgx.Row) (*model.Product, error) {
	p := &model.Product{}
	var priceJSON []byte
	err := row.Scan(
		&p.ID, &p.Name, &p.PatternName, &priceJSON, &p.Description, &p.Story,
		&p.Category, &p.Tags, &p.Images, &p.ImageURL, &p.Featured, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Price = currency.PriceMap{}
	if err := json.Unmarshal(priceJSON, &p.Price); err != nil {
		return nil, fmt.Errorf("unmarshal price map: %w", err)
	}
	return p, nil
}
