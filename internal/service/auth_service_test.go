package service

import (
	"testing"
	"time"

	"campus_erp_backend/internal/config"
	"campus_erp_backend/internal/model"
	"campus_erp_backend/internal/repository"
	"campus_erp_backend/internal/util"
)

func newAuthEnv(t *testing.T) (*AuthService, *repository.UserRepository) {
	t.Helper()
	env := newTestEnv(t)
	userRepo := repository.NewUserRepository(env.db)

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret-0123456789abcdef0123"
	cfg.JWT.ExpireTime = time.Hour
	return NewAuthService(userRepo, cfg), userRepo
}

func TestLoginStampsLastLogin(t *testing.T) {
	svc, userRepo := newAuthEnv(t)

	user := &model.User{Name: "Anand Prabhu", Email: "anand@college.edu", Password: "correct-horse", Role: model.RoleFaculty}
	if err := svc.Register(user); err != nil {
		t.Fatalf("register: %v", err)
	}

	token, err := svc.Login("anand@college.edu", "correct-horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := util.ParseJWT(token, "test-secret-0123456789abcdef0123")
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Role != model.RoleFaculty || claims.Email != "anand@college.edu" {
		t.Fatalf("claims = %+v", claims)
	}

	stored, err := userRepo.FindByEmail("anand@college.edu")
	if err != nil {
		t.Fatalf("find user: %v", err)
	}
	if stored.LastLogin.IsZero() {
		t.Fatal("login did not stamp last_login")
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	svc, _ := newAuthEnv(t)

	user := &model.User{Name: "Anand Prabhu", Email: "anand@college.edu", Password: "correct-horse", Role: model.RoleFaculty}
	if err := svc.Register(user); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Login("anand@college.edu", "wrong"); err != util.ErrInvalidCredentials {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}
