package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/pkg"
)

const (
	CountEmplace = "emplace"
	CountModify  = "modify"
	CountErase   = "erase"
)

type addressRepo interface {
	Find(ctx context.Context, key string) (*entity.Person, error)
	Insert(ctx context.Context, person *entity.Person) error
	Update(ctx context.Context, person *entity.Person) error
	Erase(ctx context.Context, key string) error
	ListByAge(ctx context.Context) ([]*entity.Person, error)
}

type notifier interface {
	Send(ctx context.Context, recipient, message string) error
}

type counter interface {
	Increment(ctx context.Context, user, kind string) (int64, error)
}

type addressObserver interface {
	ObserveAddressOperation(operation string, err error)
}

// AddressBook stores one record per identity and reports every outcome to
// the record owner.
type AddressBook struct {
	logger *slog.Logger

	addressRepo addressRepo
	authorizer  authorizer
	notifier    notifier
	counter     counter
	observer    addressObserver

	locks *pkg.KeyLock
}

func NewAddressBook(
	logger *slog.Logger,
	addressRepo addressRepo,
	authorizer authorizer,
	notifier notifier,
	counter counter,
	observer addressObserver,
) *AddressBook {
	return &AddressBook{
		logger:      logger.With("component", "address_book"),
		addressRepo: addressRepo,
		authorizer:  authorizer,
		notifier:    notifier,
		counter:     counter,
		observer:    observer,
		locks:       pkg.NewKeyLock(),
	}
}

// Upsert inserts the record or updates the fields that differ.
func (that *AddressBook) Upsert(ctx context.Context, person *entity.Person) error {
	err := that.upsert(ctx, person)
	that.observer.ObserveAddressOperation("upsert", err)

	return err
}

func (that *AddressBook) upsert(ctx context.Context, person *entity.Person) error {
	user := person.Key

	if err := that.authorizer.RequireAuthority(ctx, user); err != nil {
		return err
	}

	unlock := that.locks.Lock(user)
	defer unlock()

	stored, err := that.addressRepo.Find(ctx, user)
	if errors.Is(err, apperror.ErrRecordNotFound) {
		if err = that.addressRepo.Insert(ctx, person); err != nil {
			return fmt.Errorf("failed to insert record: %w", err)
		}

		that.sendSummary(ctx, user, " successfully emplaced record to addressbook")
		that.incrementCounter(ctx, user, CountEmplace)

		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to find record: %w", err)
	}

	changes := stored.Diff(person)
	if len(changes) == 0 {
		that.sendSummary(ctx, user, " called upsert, but request resulted in no changes.")
		return nil
	}

	if err = that.addressRepo.Update(ctx, stored); err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}

	that.sendSummary(ctx, user, " successfully modified record in addressbook. Fields changed: "+strings.Join(changes, ", "))
	that.incrementCounter(ctx, user, CountModify)

	return nil
}

// Erase removes the record owned by user.
func (that *AddressBook) Erase(ctx context.Context, user string) error {
	err := that.erase(ctx, user)
	that.observer.ObserveAddressOperation("erase", err)

	return err
}

func (that *AddressBook) erase(ctx context.Context, user string) error {
	if err := that.authorizer.RequireAuthority(ctx, user); err != nil {
		return err
	}

	unlock := that.locks.Lock(user)
	defer unlock()

	if err := that.addressRepo.Erase(ctx, user); err != nil {
		return fmt.Errorf("failed to erase record: %w", err)
	}

	that.sendSummary(ctx, user, " successfully erased record from addressbook")
	that.incrementCounter(ctx, user, CountErase)

	return nil
}

func (that *AddressBook) ListByAge(ctx context.Context) ([]*entity.Person, error) {
	people, err := that.addressRepo.ListByAge(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	return people, nil
}

// sendSummary is fire-and-forget: a failed delivery never fails the operation.
func (that *AddressBook) sendSummary(ctx context.Context, user, message string) {
	if err := that.notifier.Send(ctx, user, user+message); err != nil {
		that.logger.WarnContext(ctx, "failed to send summary", "user", user, "error", err)
	}
}

func (that *AddressBook) incrementCounter(ctx context.Context, user, kind string) {
	if _, err := that.counter.Increment(ctx, user, kind); err != nil {
		that.logger.WarnContext(ctx, "failed to increment counter", "user", user, "kind", kind, "error", err)
	}
}
