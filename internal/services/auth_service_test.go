package services

import (
	"testing"
	"time"
)

type stubAuthStore struct {
	usersByEmail map[string]*User
}

func (s *stubAuthStore) FindUserByEmail(email string) (*User, error) {
	return s.usersByEmail[email], nil
}

func (s *stubAuthStore) AddUser(u *User) error {
	if s.usersByEmail == nil {
		s.usersByEmail = map[string]*User{}
	}
	s.usersByEmail[u.Email] = u
	return nil
}

func fakeSigner(uid, email, name string, ttl time.Duration) (string, error) {
	return "token-" + uid, nil
}

func TestRegisterAndLogin(t *testing.T) {
	store := &stubAuthStore{}
	svc := NewAuthService(store, fakeSigner)
	svc.idGen = func() string { return "u1" }

	res, err := svc.Register("reyes@yard.example", "hunter2", "M. Reyes")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if res.Token != "token-u1" || res.UserID != "u1" {
		t.Fatalf("register result = %+v", res)
	}
	u := store.usersByEmail["reyes@yard.example"]
	if u == nil || string(u.PassHash) == "hunter2" {
		t.Fatal("password stored unhashed or user missing")
	}

	login, err := svc.Login("reyes@yard.example", "hunter2")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if login.DisplayName != "M. Reyes" {
		t.Fatalf("display name = %q, want M. Reyes", login.DisplayName)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewAuthService(&stubAuthStore{}, fakeSigner)
	if _, err := svc.Register("reyes@yard.example", "hunter2", ""); err != nil {
		t.Fatalf("first register returned error: %v", err)
	}
	_, err := svc.Register("reyes@yard.example", "other", "")
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorConflict {
		t.Fatalf("error = %v, want conflict", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := NewAuthService(&stubAuthStore{}, fakeSigner)
	if _, err := svc.Register("reyes@yard.example", "hunter2", ""); err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	_, err := svc.Login("reyes@yard.example", "wrong")
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorUnauthorized {
		t.Fatalf("error = %v, want unauthorized", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	svc := NewAuthService(&stubAuthStore{}, fakeSigner)
	_, err := svc.Login("nobody@yard.example", "hunter2")
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorUnauthorized {
		t.Fatalf("error = %v, want unauthorized", err)
	}
}
