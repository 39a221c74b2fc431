package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type AddressRepository struct {
	mu     sync.RWMutex
	people map[string]entity.Person
}

func NewAddressRepository() *AddressRepository {
	return &AddressRepository{
		people: make(map[string]entity.Person),
	}
}

func (that *AddressRepository) Find(_ context.Context, key string) (*entity.Person, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	person, ok := that.people[key]
	if !ok {
		return nil, apperror.ErrRecordNotFound
	}

	return &person, nil
}

func (that *AddressRepository) Insert(_ context.Context, person *entity.Person) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.people[person.Key] = *person

	return nil
}

func (that *AddressRepository) Update(_ context.Context, person *entity.Person) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.people[person.Key]; !ok {
		return apperror.ErrRecordNotFound
	}

	that.people[person.Key] = *person

	return nil
}

func (that *AddressRepository) Erase(_ context.Context, key string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.people[key]; !ok {
		return apperror.ErrRecordNotFound
	}

	delete(that.people, key)

	return nil
}

func (that *AddressRepository) ListByAge(_ context.Context) ([]*entity.Person, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	people := make([]*entity.Person, 0, len(that.people))
	for _, person := range that.people {
		person := person
		people = append(people, &person)
	}

	sort.Slice(people, func(i, j int) bool {
		if people[i].Age != people[j].Age {
			return people[i].Age < people[j].Age
		}

		return people[i].Key < people[j].Key
	})

	return people, nil
}
