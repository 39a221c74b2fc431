package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type AddressRepository interface {
	Find(ctx context.Context, key string) (*entity.Person, error)
	Insert(ctx context.Context, person *entity.Person) error
	Update(ctx context.Context, person *entity.Person) error
	Erase(ctx context.Context, key string) error
	ListByAge(ctx context.Context) ([]*entity.Person, error)
}

type addressRepository struct {
	conn *sql.DB
}

func NewAddressRepository(conn *sql.DB) AddressRepository {
	return &addressRepository{
		conn: conn,
	}
}

func (that *addressRepository) Find(ctx context.Context, key string) (*entity.Person, error) {
	query := `SELECT owner, first_name, last_name, age, street, city, state FROM people WHERE owner = ?`

	var person entity.Person

	err := that.conn.QueryRowContext(ctx, query, key).Scan(
		&person.Key, &person.FirstName, &person.LastName, &person.Age, &person.Street, &person.City, &person.State,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.ErrRecordNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("can't find person: %w", err)
	}

	return &person, nil
}

func (that *addressRepository) Insert(ctx context.Context, person *entity.Person) error {
	query := `INSERT INTO people (owner, first_name, last_name, age, street, city, state) VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := that.conn.ExecContext(ctx, query,
		person.Key, person.FirstName, person.LastName, person.Age, person.Street, person.City, person.State,
	)
	if err != nil {
		return fmt.Errorf("can't save person: %w", err)
	}

	return nil
}

func (that *addressRepository) Update(ctx context.Context, person *entity.Person) error {
	query := `UPDATE people SET first_name = ?, last_name = ?, age = ?, street = ?, city = ?, state = ? WHERE owner = ?`

	result, err := that.conn.ExecContext(ctx, query,
		person.FirstName, person.LastName, person.Age, person.Street, person.City, person.State, person.Key,
	)
	if err != nil {
		return fmt.Errorf("can't update person: %w", err)
	}

	return expectAffected(result)
}

func (that *addressRepository) Erase(ctx context.Context, key string) error {
	query := `DELETE FROM people WHERE owner = ?`

	result, err := that.conn.ExecContext(ctx, query, key)
	if err != nil {
		return fmt.Errorf("can't delete person: %w", err)
	}

	return expectAffected(result)
}

func (that *addressRepository) ListByAge(ctx context.Context) ([]*entity.Person, error) {
	query := `SELECT owner, first_name, last_name, age, street, city, state FROM people ORDER BY age, owner`

	rows, err := that.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("can't list people: %w", err)
	}
	defer rows.Close()

	people := make([]*entity.Person, 0)
	for rows.Next() {
		var person entity.Person
		if err = rows.Scan(
			&person.Key, &person.FirstName, &person.LastName, &person.Age, &person.Street, &person.City, &person.State,
		); err != nil {
			return nil, fmt.Errorf("can't scan person: %w", err)
		}

		people = append(people, &person)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("can't list people: %w", err)
	}

	return people, nil
}

func expectAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("can't read affected rows: %w", err)
	}

	if affected == 0 {
		return apperror.ErrRecordNotFound
	}

	return nil
}
