package sqldb

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/aanand-mishra/school-api/internal/types"
	"github.com/aanand-mishra/school-api/internal/validation"
)

var students = table[types.Student]{
	name:    "students",
	columns: []string{"id", "name", "age", "grade", "semester", "created_at", "updated_at"},
	scan: func(row scanner) (types.Student, error) {
		var s types.Student
		err := row.Scan(&s.ID, &s.Name, &s.Age, &s.Grade, &s.Semester, &s.CreatedAt, &s.UpdatedAt)
		return s, err
	},
}

func (d *DB) CreateStudent(ctx context.Context, student types.Student) (types.Student, error) {
	if err := validation.Struct(student); err != nil {
		return types.Student{}, err
	}

	now := d.now()
	id, err := insert(ctx, d, "CreateStudent", students.name, map[string]any{
		"name":       student.Name,
		"age":        student.Age,
		"grade":      student.Grade,
		"semester":   student.Semester,
		"created_at": now,
		"updated_at": now,
	})
	if err != nil {
		return types.Student{}, err
	}

	created, found, err := d.GetStudentByID(ctx, id)
	if err != nil {
		return types.Student{}, err
	}
	if !found {
		return types.Student{}, fmt.Errorf("CreateStudent: student %d vanished after insert", id)
	}
	return created, nil
}

func (d *DB) FindStudent(ctx context.Context, filter types.StudentFilter) (types.Student, bool, error) {
	where := sq.Eq{}
	if filter.Name != nil {
		where["name"] = *filter.Name
	}
	if filter.Semester != nil {
		where["semester"] = *filter.Semester
	}
	return findOne(ctx, d, "FindStudent", students, where)
}

func (d *DB) GetStudents(ctx context.Context) ([]types.Student, error) {
	return findAll(ctx, d, "GetStudents", students)
}

func (d *DB) GetStudentByID(ctx context.Context, id int64) (types.Student, bool, error) {
	return findOne(ctx, d, "GetStudentByID", students, sq.Eq{"id": id})
}

func (d *DB) UpdateStudentByID(ctx context.Context, id int64, patch types.StudentPatch) (types.Student, error) {
	if err := validation.Struct(patch); err != nil {
		return types.Student{}, err
	}

	set := map[string]any{}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Age != nil {
		set["age"] = *patch.Age
	}
	if patch.Grade != nil {
		set["grade"] = *patch.Grade
	}
	if patch.Semester != nil {
		set["semester"] = *patch.Semester
	}
	return update(ctx, d, "UpdateStudentByID", students, id, set)
}

func (d *DB) DeleteStudentByID(ctx context.Context, id int64) error {
	return remove(ctx, d, "DeleteStudentByID", students.name, id)
}
