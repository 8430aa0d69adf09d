package db

import (
	"context"
)

const dropCountries = `DROP TABLE IF EXISTS Countries_by_GDP`

func (q *Queries) DropCountries(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, dropCountries)
	return err
}

func (q *Queries) CreateCountriesTable(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, Schema)
	return err
}

const createCountry = `INSERT INTO Countries_by_GDP (Country, GDP_USD_billion) VALUES (?, ?)`

type CreateCountryParams struct {
	Country       string
	GdpUsdBillion float64
}

func (q *Queries) CreateCountry(ctx context.Context, arg CreateCountryParams) error {
	_, err := q.db.ExecContext(ctx, createCountry, arg.Country, arg.GdpUsdBillion)
	return err
}

const countCountries = `SELECT count(*) FROM Countries_by_GDP`

func (q *Queries) CountCountries(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countCountries)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const getCountries = `SELECT Country, GDP_USD_billion FROM Countries_by_GDP ORDER BY rowid`

func (q *Queries) GetCountries(ctx context.Context) ([]CountriesByGdp, error) {
	rows, err := q.db.QueryContext(ctx, getCountries)
	if err != nil {
		return nil, err
	}
	return scanCountries(rows)
}

const getCountriesAbove = `SELECT Country, GDP_USD_billion FROM Countries_by_GDP
WHERE GDP_USD_billion > ?
ORDER BY rowid`

func (q *Queries) GetCountriesAbove(ctx context.Context, threshold float64) ([]CountriesByGdp, error) {
	rows, err := q.db.QueryContext(ctx, getCountriesAbove, threshold)
	if err != nil {
		return nil, err
	}
	return scanCountries(rows)
}

type rowsScanner interface {
	Next() bool
	Scan(dest ...interface{}) error
	Close() error
	Err() error
}

func scanCountries(rows rowsScanner) ([]CountriesByGdp, error) {
	defer rows.Close()
	var items []CountriesByGdp
	for rows.Next() {
		var i CountriesByGdp
		if err := rows.Scan(&i.Country, &i.GdpUsdBillion); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
