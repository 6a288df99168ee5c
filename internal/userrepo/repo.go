// Package userrepo manages repository layer of users.
package userrepo

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/acmebank/ledger/internal/domain"
	"github.com/acmebank/ledger/internal/securestore"
	"github.com/acmebank/ledger/pkg/errorspkg"
)

// Repo reads user identity records written by the user-directory flow.
type Repo struct {
	store securestore.Store
}

// New returns a user repo backed by the given store.
func New(store securestore.Store) *Repo {
	return &Repo{store: store}
}

// Get loads the user record for the given id.
func (r *Repo) Get(ctx context.Context, id int32) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	lines, err := r.store.ReadRecords(blobKey(id))
	if err != nil {
		l.Error().Err(err).Int32("user_id", id).Send()
		return domain.User{}, err
	}

	if len(lines) == 0 {
		return domain.User{}, domain.ErrUserNotFound
	}

	user, err := parseRecord(lines[0])
	if err != nil {
		l.Error().Err(err).Int32("user_id", id).Send()
		return domain.User{}, errorspkg.ErrInternal
	}

	return user, nil
}

// Save overwrites the user record. It is called by the user-directory flow,
// never by ledger operations.
func (r *Repo) Save(ctx context.Context, user domain.User) error {
	l := zerolog.Ctx(ctx)

	err := r.store.WriteRecords(blobKey(user.ID), []string{formatRecord(user)})
	if err != nil {
		l.Error().Err(err).Int32("user_id", user.ID).Send()
		return err
	}

	return nil
}

func blobKey(id int32) string {
	return fmt.Sprintf("users/User-%d.enc", id)
}

// Record layout: userId,firstName,lastName,hashedPassword,role.
func formatRecord(u domain.User) string {
	return strings.Join([]string{
		strconv.FormatInt(int64(u.ID), 10),
		u.FirstName,
		u.LastName,
		u.HashedPassword,
		u.Role,
	}, ",")
}

func parseRecord(line string) (domain.User, error) {
	var u domain.User

	fields := strings.Split(line, ",")
	if len(fields) != 5 {
		return u, fmt.Errorf("expected 5 fields, got %d", len(fields))
	}

	id, err := strconv.ParseInt(fields[0], 10, 32)
	if err != nil {
		return u, err
	}

	u = domain.User{
		ID:             int32(id),
		FirstName:      fields[1],
		LastName:       fields[2],
		HashedPassword: fields[3],
		Role:           fields[4],
	}

	return u, nil
}
