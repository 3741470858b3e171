package sqldb

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/aanand-mishra/school-api/internal/types"
	"github.com/aanand-mishra/school-api/internal/validation"
)

var users = table[types.User]{
	name:    "users",
	columns: []string{"id", "username", "password", "created_at", "updated_at"},
	scan: func(row scanner) (types.User, error) {
		var u types.User
		err := row.Scan(&u.ID, &u.Username, &u.Password, &u.CreatedAt, &u.UpdatedAt)
		return u, err
	},
}

// CreateUser inserts a user. A taken username comes back as a
// *validation.Error from the unique index, even when two signups race.
func (d *DB) CreateUser(ctx context.Context, user types.User) (types.User, error) {
	if err := validation.Struct(user); err != nil {
		return types.User{}, err
	}

	now := d.now()
	id, err := insert(ctx, d, "CreateUser", users.name, map[string]any{
		"username":   user.Username,
		"password":   user.Password,
		"created_at": now,
		"updated_at": now,
	})
	if err != nil {
		return types.User{}, err
	}

	created, found, err := d.GetUserByID(ctx, id)
	if err != nil {
		return types.User{}, err
	}
	if !found {
		return types.User{}, fmt.Errorf("CreateUser: user %d vanished after insert", id)
	}
	return created, nil
}

// FindUser returns the first user matching every non-nil filter field.
func (d *DB) FindUser(ctx context.Context, filter types.UserFilter) (types.User, bool, error) {
	where := sq.Eq{}
	if filter.Username != nil {
		where["username"] = *filter.Username
	}
	if filter.Password != nil {
		where["password"] = *filter.Password
	}
	return findOne(ctx, d, "FindUser", users, where)
}

func (d *DB) GetUsers(ctx context.Context) ([]types.User, error) {
	return findAll(ctx, d, "GetUsers", users)
}

func (d *DB) GetUserByID(ctx context.Context, id int64) (types.User, bool, error) {
	return findOne(ctx, d, "GetUserByID", users, sq.Eq{"id": id})
}

func (d *DB) UpdateUserByID(ctx context.Context, id int64, patch types.UserPatch) (types.User, error) {
	if err := validation.Struct(patch); err != nil {
		return types.User{}, err
	}

	set := map[string]any{}
	if patch.Username != nil {
		set["username"] = *patch.Username
	}
	if patch.Password != nil {
		set["password"] = *patch.Password
	}
	return update(ctx, d, "UpdateUserByID", users, id, set)
}

func (d *DB) DeleteUserByID(ctx context.Context, id int64) error {
	return remove(ctx, d, "DeleteUserByID", users.name, id)
}
