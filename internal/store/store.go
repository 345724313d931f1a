package store

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/pr-poehali-dev/leopard-bag-project/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

//go:embed schema.sql
var schemaSQL string

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// Migrate creates the tables this service uses if they are missing
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

type productRow struct {
	ID          int64          `db:"id"`
	Name        string         `db:"name"`
	Price       int64          `db:"price"`
	Category    string         `db:"category"`
	Image       string         `db:"image"`
	Description string         `db:"description"`
	Tags        pq.StringArray `db:"tags"`
}

type projectRow struct {
	ID          int64          `db:"id"`
	Title       string         `db:"title"`
	Description string         `db:"description"`
	Category    string         `db:"category"`
	Image       string         `db:"image"`
	Tags        pq.StringArray `db:"tags"`
	Link        string         `db:"link"`
}

// GetProducts retrieves all storefront products in id order
func (s *Store) GetProducts(ctx context.Context) ([]models.Product, error) {
	var rows []productRow
	err := s.db.SelectContext(ctx, &rows,
		"SELECT id, name, price, category, image, description, tags FROM products ORDER BY id")
	if err != nil {
		return nil, err
	}

	products := make([]models.Product, len(rows))
	for i, r := range rows {
		products[i] = models.Product{
			ID:          r.ID,
			Name:        r.Name,
			Price:       r.Price,
			Category:    r.Category,
			Image:       r.Image,
			Description: r.Description,
			Tags:        []string(r.Tags),
		}
	}
	return products, nil
}

// GetProjects retrieves all portfolio projects in id order
func (s *Store) GetProjects(ctx context.Context) ([]models.Project, error) {
	var rows []projectRow
	err := s.db.SelectContext(ctx, &rows,
		"SELECT id, title, description, category, image, tags, link FROM projects ORDER BY id")
	if err != nil {
		return nil, err
	}

	projects := make([]models.Project, len(rows))
	for i, r := range rows {
		projects[i] = models.Project{
			ID:          r.ID,
			Title:       r.Title,
			Description: r.Description,
			Category:    r.Category,
			Image:       r.Image,
			Tags:        []string(r.Tags),
			Link:        r.Link,
		}
	}
	return projects, nil
}

// tagArray binds tags as a TEXT[]; a nil slice would be sent as NULL.
func tagArray(tags []string) interface{} {
	if tags == nil {
		tags = []string{}
	}
	return pq.Array(tags)
}

// SeedProducts upserts products, used to publish the built-in catalog
func (s *Store) SeedProducts(ctx context.Context, products []models.Product) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, p := range products {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO products (id, name, price, category, image, description, tags)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO NOTHING`,
			p.ID, p.Name, p.Price, p.Category, p.Image, p.Description, tagArray(p.Tags))
		if err != nil {
			return fmt.Errorf("failed to seed product %d: %w", p.ID, err)
		}
	}

	return tx.Commit()
}

// SeedProjects upserts projects, used to publish the built-in portfolio
func (s *Store) SeedProjects(ctx context.Context, projects []models.Project) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, p := range projects {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO projects (id, title, description, category, image, tags, link)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO NOTHING`,
			p.ID, p.Title, p.Description, p.Category, p.Image, tagArray(p.Tags), p.Link)
		if err != nil {
			return fmt.Errorf("failed to seed project %d: %w", p.ID, err)
		}
	}

	return tx.Commit()
}
