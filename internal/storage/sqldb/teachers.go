package sqldb

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/aanand-mishra/school-api/internal/types"
	"github.com/aanand-mishra/school-api/internal/validation"
)

var teachers = table[types.Teacher]{
	name:    "teachers",
	columns: []string{"id", "name", "age", "created_at", "updated_at"},
	scan: func(row scanner) (types.Teacher, error) {
		var t types.Teacher
		err := row.Scan(&t.ID, &t.Name, &t.Age, &t.CreatedAt, &t.UpdatedAt)
		return t, err
	},
}

func (d *DB) CreateTeacher(ctx context.Context, teacher types.Teacher) (types.Teacher, error) {
	if err := validation.Struct(teacher); err != nil {
		return types.Teacher{}, err
	}

	now := d.now()
	id, err := insert(ctx, d, "CreateTeacher", teachers.name, map[string]any{
		"name":       teacher.Name,
		"age":        teacher.Age,
		"created_at": now,
		"updated_at": now,
	})
	if err != nil {
		return types.Teacher{}, err
	}

	created, found, err := d.GetTeacherByID(ctx, id)
	if err != nil {
		return types.Teacher{}, err
	}
	if !found {
		return types.Teacher{}, fmt.Errorf("CreateTeacher: teacher %d vanished after insert", id)
	}
	return created, nil
}

func (d *DB) FindTeacher(ctx context.Context, filter types.TeacherFilter) (types.Teacher, bool, error) {
	where := sq.Eq{}
	if filter.Name != nil {
		where["name"] = *filter.Name
	}
	if filter.Age != nil {
		where["age"] = *filter.Age
	}
	return findOne(ctx, d, "FindTeacher", teachers, where)
}

func (d *DB) GetTeachers(ctx context.Context) ([]types.Teacher, error) {
	return findAll(ctx, d, "GetTeachers", teachers)
}

func (d *DB) GetTeacherByID(ctx context.Context, id int64) (types.Teacher, bool, error) {
	return findOne(ctx, d, "GetTeacherByID", teachers, sq.Eq{"id": id})
}

func (d *DB) UpdateTeacherByID(ctx context.Context, id int64, patch types.TeacherPatch) (types.Teacher, error) {
	if err := validation.Struct(patch); err != nil {
		return types.Teacher{}, err
	}

	set := map[string]any{}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Age != nil {
		set["age"] = *patch.Age
	}
	return update(ctx, d, "UpdateTeacherByID", teachers, id, set)
}

func (d *DB) DeleteTeacherByID(ctx context.Context, id int64) error {
	return remove(ctx, d, "DeleteTeacherByID", teachers.name, id)
}
