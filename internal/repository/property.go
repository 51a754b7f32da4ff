package repository

import (
	"context"
	"errors"

	"homepick/pkg/customerror"
	"homepick/pkg/property"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PropertyRepository is read-only here: listing CRUD lives in its own
// service, the comparison feature only resolves summaries.
type PropertyRepositoryI interface {
	CreateTables(ctx context.Context) error
	GetProperty(ctx context.Context, id string) (*property.Summary, error)
	GetProperties(ctx context.Context, ids []string) ([]property.Summary, error)
}

type PropertyRepository struct {
	Pool *pgxpool.Pool
	Host string
	Port string
}

func NewPropertyRepository(pool *pgxpool.Pool, host string, port string) PropertyRepositoryI {
	return &PropertyRepository{
		Pool: pool,
		Host: host,
		Port: port,
	}
}

func (r *PropertyRepository) CreateTables(ctx context.Context) error {
	createTableQuery := `
	CREATE TABLE IF NOT EXISTS property (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		price BIGINT DEFAULT 0,
		address TEXT NOT NULL DEFAULT '',
		city TEXT NOT NULL DEFAULT '',
		province TEXT NOT NULL DEFAULT '',
		bedrooms INTEGER DEFAULT 0,
		bathrooms INTEGER DEFAULT 0,
		area DOUBLE PRECISION DEFAULT 0,
		property_type TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL DEFAULT '',
		year_built INTEGER DEFAULT 0,
		floors INTEGER DEFAULT 0,
		garage INTEGER DEFAULT 0,
		amenities TEXT[] DEFAULT '{}',
		heating TEXT NOT NULL DEFAULT '',
		cooling TEXT NOT NULL DEFAULT ''
	);`
	_, err := r.Pool.Exec(ctx, createTableQuery)
	if err != nil {
		return customerror.NewError("propertyRepo.CreateTables", r.Host+":"+r.Port, err.Error())
	}
	createIndexQuery := `CREATE INDEX IF NOT EXISTS property_city_idx ON property(city);`
	_, err = r.Pool.Exec(ctx, createIndexQuery)
	if err != nil {
		return customerror.NewError("propertyRepo.CreateTables", r.Host+":"+r.Port, err.Error())
	}
	return nil
}

const propertyColumns = `id, title, price, address, city, province, bedrooms, bathrooms, area,
	property_type, image_url, year_built, floors, garage, amenities, heating, cooling`

func (r *PropertyRepository) GetProperty(ctx context.Context, id string) (*property.Summary, error) {
	var p property.Summary
	query := `SELECT ` + propertyColumns + ` FROM property WHERE id = $1`
	row := r.Pool.QueryRow(ctx, query, id)
	err := row.Scan(
		&p.Id,
		&p.Title,
		&p.Price,
		&p.Address,
		&p.City,
		&p.Province,
		&p.Bedrooms,
		&p.Bathrooms,
		&p.Area,
		&p.PropertyType,
		&p.ImageUrl,
		&p.YearBuilt,
		&p.Floors,
		&p.Garage,
		&p.Amenities,
		&p.Heating,
		&p.Cooling,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pgx.ErrNoRows
		}
		return nil, customerror.NewError("propertyRepo.GetProperty", r.Host+":"+r.Port, err.Error())
	}
	return &p, nil
}

// GetProperties resolves the given ids, keeping the request order and
// silently skipping ids that no longer exist.
func (r *PropertyRepository) GetProperties(ctx context.Context, ids []string) ([]property.Summary, error) {
	query := `SELECT ` + propertyColumns + ` FROM property WHERE id = ANY($1)`
	rows, err := r.Pool.Query(ctx, query, ids)
	if err != nil {
		return nil, customerror.NewError("propertyRepo.GetProperties", r.Host+":"+r.Port, err.Error())
	}
	byId := map[string]property.Summary{}
	for rows.Next() {
		var p property.Summary
		err := rows.Scan(
			&p.Id,
			&p.Title,
			&p.Price,
			&p.Address,
			&p.City,
			&p.Province,
			&p.Bedrooms,
			&p.Bathrooms,
			&p.Area,
			&p.PropertyType,
			&p.ImageUrl,
			&p.YearBuilt,
			&p.Floors,
			&p.Garage,
			&p.Amenities,
			&p.Heating,
			&p.Cooling,
		)
		if err != nil {
			return nil, customerror.NewError("propertyRepo.GetProperties", r.Host+":"+r.Port, err.Error())
		}
		byId[p.Id] = p
	}
	properties := []property.Summary{}
	for _, id := range ids {
		if p, ok := byId[id]; ok {
			properties = append(properties, p)
		}
	}
	return properties, nil
}
