package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"learnweave/internal/models"
	"learnweave/internal/services"
	"learnweave/internal/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type authUserRepo struct {
	fakeUserRepo
	createErr   error
	updatedHash string
	updateErr   error
}

func (r *authUserRepo) Create(ctx context.Context, fullName, email, passwordHash string) (*models.User, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	return &models.User{ID: 1, FullName: fullName, Email: email, PasswordHash: passwordHash}, nil
}

func (r *authUserRepo) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.updatedHash = passwordHash
	return nil
}

type fakeMailer struct {
	to   string
	code string
	err  error
}

func (m *fakeMailer) SendOTP(to, code string) error {
	if m.err != nil {
		return m.err
	}
	m.to, m.code = to, code
	return nil
}

func newAuthRouter(t *testing.T, userRepo *authUserRepo, mailer *fakeMailer) *gin.Engine {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	router := gin.New()
	NewAuthHandler(userRepo,
		services.NewTokenService("test-secret"),
		services.NewOTPStore(services.NewRedisCache(client)),
		mailer).RegisterRoutes(router)
	return router
}

func TestSignupReturnsToken(t *testing.T) {
	router := newAuthRouter(t, &authUserRepo{}, &fakeMailer{})

	body := `{"fullName":"Test User","email":"user@example.com","password":"secret12"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/signup", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["token"] == "" {
		t.Fatal("expected a token in the signup response")
	}

	claims, err := services.NewTokenService("test-secret").ValidateToken(resp["token"])
	if err != nil {
		t.Fatalf("signup token does not validate: %v", err)
	}
	if claims.Email != "user@example.com" {
		t.Fatalf("token carries wrong email: %q", claims.Email)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	repo := &authUserRepo{createErr: errors.New(`Error 1062 (23000): Duplicate entry 'user@example.com' for key 'uq_users_email'`)}
	router := newAuthRouter(t, repo, &fakeMailer{})

	body := `{"fullName":"Test User","email":"user@example.com","password":"secret12"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/signup", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["message"] != "User already exists" {
		t.Fatalf("unexpected message: %q", resp["message"])
	}
}

func TestLoginWrongPassword(t *testing.T) {
	hash, err := utils.HashPassword("right-password")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	repo := &authUserRepo{}
	repo.user = &models.User{ID: 1, Email: "user@example.com", PasswordHash: hash}
	router := newAuthRouter(t, repo, &fakeMailer{})

	body := `{"email":"user@example.com","password":"wrong-password"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestLoginSuccess(t *testing.T) {
	hash, err := utils.HashPassword("right-password")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	repo := &authUserRepo{}
	repo.user = &models.User{ID: 1, Email: "user@example.com", FullName: "Test User", PasswordHash: hash}
	router := newAuthRouter(t, repo, &fakeMailer{})

	body := `{"email":"user@example.com","password":"right-password"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["token"] == "" {
		t.Fatal("expected a token in the login response")
	}
}

func TestOTPFlow(t *testing.T) {
	mailer := &fakeMailer{}
	router := newAuthRouter(t, &authUserRepo{}, mailer)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sendotp", bytes.NewBufferString(`{"email":"user@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("sendotp: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if mailer.to != "user@example.com" || mailer.code == "" {
		t.Fatalf("OTP mail not sent: to=%q code=%q", mailer.to, mailer.code)
	}

	// Wrong code first; the stored one must survive.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/verify",
		bytes.NewBufferString(`{"email":"user@example.com","otp":"0000"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("verify wrong code: expected 400, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/verify",
		bytes.NewBufferString(`{"email":"user@example.com","otp":"`+mailer.code+`"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("verify: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// A consumed code cannot be replayed.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/verify",
		bytes.NewBufferString(`{"email":"user@example.com","otp":"`+mailer.code+`"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("replayed OTP: expected 400, got %d", w.Code)
	}
}

func TestResetPassword(t *testing.T) {
	repo := &authUserRepo{}
	router := newAuthRouter(t, repo, &fakeMailer{})

	body := `{"email":"user@example.com","newPassword":"new-secret"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/reset-password", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if repo.updatedHash == "" {
		t.Fatal("expected the password hash to be updated")
	}
	if !utils.CheckPasswordHash("new-secret", repo.updatedHash) {
		t.Fatal("stored hash does not match the new password")
	}
}

func TestResetPasswordUnknownUser(t *testing.T) {
	repo := &authUserRepo{updateErr: errors.New("user not found")}
	router := newAuthRouter(t, repo, &fakeMailer{})

	body := `{"email":"ghost@example.com","newPassword":"new-secret"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/reset-password", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
