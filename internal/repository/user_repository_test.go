package repository

import (
	"testing"
	"time"

	"campus_erp_backend/internal/model"
)

func TestCreateUserAppliesRoleDefault(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	if err := repo.Create(&model.User{Name: "Anand Prabhu", Email: "anand@college.edu", Password: "hash"}); err != nil {
		t.Fatalf("create user: %v", err)
	}

	user, err := repo.FindByEmail("anand@college.edu")
	if err != nil {
		t.Fatalf("find user: %v", err)
	}
	if user.Role != model.RoleFaculty {
		t.Fatalf("role = %q, want %q", user.Role, model.RoleFaculty)
	}
}

func TestUpdatePersistsLastLogin(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	user := &model.User{Name: "Anand Prabhu", Email: "anand@college.edu", Password: "hash", Role: model.RoleFaculty}
	if err := repo.Create(user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	user.LastLogin = time.Now()
	if err := repo.Update(user); err != nil {
		t.Fatalf("update user: %v", err)
	}

	got, err := repo.FindByID(user.ID)
	if err != nil {
		t.Fatalf("find user: %v", err)
	}
	if got.LastLogin.IsZero() {
		t.Fatal("last login not persisted")
	}
}

func TestListFacultyExcludesAdmins(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	deptA, deptB := uint(1), uint(2)
	seed := []model.User{
		{Name: "Anand Prabhu", Email: "anand@college.edu", Password: "hash", Role: model.RoleFaculty, DepartmentID: &deptA},
		{Name: "Beena Thomas", Email: "beena@college.edu", Password: "hash", Role: model.RoleFaculty, DepartmentID: &deptB},
		{Name: "Registrar", Email: "registrar@college.edu", Password: "hash", Role: model.RoleAdmin, DepartmentID: &deptA},
	}
	for i := range seed {
		if err := repo.Create(&seed[i]); err != nil {
			t.Fatalf("create user %s: %v", seed[i].Email, err)
		}
	}

	users, total, err := repo.ListFaculty(0, 1, 10)
	if err != nil {
		t.Fatalf("list faculty: %v", err)
	}
	if total != 2 || len(users) != 2 {
		t.Fatalf("got %d faculty (total %d), want 2", len(users), total)
	}
	for _, u := range users {
		if u.Role != model.RoleFaculty {
			t.Fatalf("non-faculty %s in result", u.Email)
		}
	}

	users, total, err = repo.ListFaculty(deptB, 1, 10)
	if err != nil {
		t.Fatalf("list faculty by department: %v", err)
	}
	if total != 1 || len(users) != 1 || users[0].Email != "beena@college.edu" {
		t.Fatalf("department filter returned %d rows (total %d)", len(users), total)
	}
}
