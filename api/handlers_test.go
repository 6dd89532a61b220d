package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/nemopss/expense-tracker/backend/db"
	"github.com/nemopss/expense-tracker/backend/models"
)

func setupTestHandler(t *testing.T) (*gin.Engine, db.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	storage := db.NewMemoryStore()
	handler := NewHandler(storage, "test-secret")

	r := gin.New()
	v1 := r.Group("/api/v1")
	v1.POST("/users/register", handler.Register)
	v1.POST("/users/login", handler.Login)

	protected := v1.Group("/", handler.AuthMiddleware())
	protected.POST("/users/setAvatar/:userId", handler.SetAvatar)
	protected.POST("/transactions/addTransaction", handler.AddTransaction)
	protected.POST("/transactions/getTransactions", handler.GetTransactions)
	protected.PUT("/transactions/updateTransaction/:id", handler.UpdateTransaction)
	protected.DELETE("/transactions/deleteTransaction/:id", handler.DeleteTransaction)

	return r, storage
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal body: %v", err)
		}
		buf = bytes.NewBuffer(data)
	} else {
		buf = bytes.NewBuffer(nil)
	}
	req, _ := http.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func registerUser(t *testing.T, r *gin.Engine, name, email, password string) *models.User {
	t.Helper()
	w := doJSON(t, r, "POST", "/api/v1/users/register", "", map[string]string{
		"name": name, "email": email, "password": password,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
	}
	var resp models.UserResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return resp.User
}

func login(t *testing.T, r *gin.Engine, email, password string) (*models.User, string) {
	t.Helper()
	w := doJSON(t, r, "POST", "/api/v1/users/login", "", map[string]string{
		"email": email, "password": password,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
	var resp models.LoginResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("Expected token, got empty")
	}
	return resp.User, resp.Token
}

func TestRegister(t *testing.T) {
	r, _ := setupTestHandler(t)

	user := registerUser(t, r, "Sam", "sam@example.com", "password123")
	if user == nil {
		t.Fatal("Expected user in response, got nil")
	}
	if user.ID == "" {
		t.Error("Expected user ID to be set, got empty")
	}
	if user.Email != "sam@example.com" || user.Name != "Sam" {
		t.Errorf("Expected user {Name: Sam, Email: sam@example.com}, got %+v", user)
	}
	if user.IsAvatarImageSet {
		t.Error("Expected fresh user without avatar")
	}

	// Duplicate email
	w := doJSON(t, r, "POST", "/api/v1/users/register", "", map[string]string{
		"email": "sam@example.com", "password": "other-password",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("Expected status %d, got %d", http.StatusConflict, w.Code)
	}

	// Original credentials still work after the conflicting attempt
	login(t, r, "sam@example.com", "password123")

	// Short password
	w = doJSON(t, r, "POST", "/api/v1/users/register", "", map[string]string{
		"email": "short@example.com", "password": "short",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}

	// Malformed email
	w = doJSON(t, r, "POST", "/api/v1/users/register", "", map[string]string{
		"email": "not-an-email", "password": "password123",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestRegisterNeverLeaksPassword(t *testing.T) {
	r, _ := setupTestHandler(t)

	w := doJSON(t, r, "POST", "/api/v1/users/register", "", map[string]string{
		"email": "sam@example.com", "password": "password123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status %d, got %d", http.StatusCreated, w.Code)
	}
	if strings.Contains(w.Body.String(), "password") || strings.Contains(w.Body.String(), "$2a$") {
		t.Errorf("Response leaks password material: %s", w.Body.String())
	}
}

func TestLogin(t *testing.T) {
	r, _ := setupTestHandler(t)
	registerUser(t, r, "Sam", "sam@example.com", "password123")

	user, token := login(t, r, "sam@example.com", "password123")
	if user.Email != "sam@example.com" {
		t.Errorf("Expected email sam@example.com, got %s", user.Email)
	}
	if token == "" {
		t.Error("Expected token, got empty")
	}

	// Wrong password and unknown email must be indistinguishable
	wrongPass := doJSON(t, r, "POST", "/api/v1/users/login", "", map[string]string{
		"email": "sam@example.com", "password": "wrong-password",
	})
	unknown := doJSON(t, r, "POST", "/api/v1/users/login", "", map[string]string{
		"email": "nobody@example.com", "password": "password123",
	})
	if wrongPass.Code != http.StatusUnauthorized {
		t.Errorf("Expected status %d, got %d", http.StatusUnauthorized, wrongPass.Code)
	}
	if unknown.Code != http.StatusUnauthorized {
		t.Errorf("Expected status %d, got %d", http.StatusUnauthorized, unknown.Code)
	}
	if wrongPass.Body.String() != unknown.Body.String() {
		t.Errorf("Login failures must not distinguish causes: %q vs %q", wrongPass.Body.String(), unknown.Body.String())
	}

	// Failure responses never carry password material either
	if strings.Contains(wrongPass.Body.String(), "$2a$") {
		t.Error("Login failure response leaks password hash")
	}
}

func TestSetAvatar(t *testing.T) {
	r, _ := setupTestHandler(t)
	registerUser(t, r, "Sam", "sam@example.com", "password123")
	user, token := login(t, r, "sam@example.com", "password123")

	image := "https://api.dicebear.com/7.x/adventurer/svg?seed=Felix"
	w := doJSON(t, r, "POST", "/api/v1/users/setAvatar/"+user.ID, token, map[string]string{"image": image})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
	var resp models.SetAvatarResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !resp.IsSet || resp.Image != image {
		t.Errorf("Expected {isSet: true, image: %s}, got %+v", image, resp)
	}

	// Flag visible on next login
	loggedIn, _ := login(t, r, "sam@example.com", "password123")
	if !loggedIn.IsAvatarImageSet || loggedIn.AvatarImage != image {
		t.Errorf("Expected avatar persisted on user, got %+v", loggedIn)
	}

	// Missing image
	w = doJSON(t, r, "POST", "/api/v1/users/setAvatar/"+user.ID, token, map[string]string{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}

	// Another user's id
	w = doJSON(t, r, "POST", "/api/v1/users/setAvatar/other-id", token, map[string]string{"image": image})
	if w.Code != http.StatusForbidden {
		t.Errorf("Expected status %d, got %d", http.StatusForbidden, w.Code)
	}

	// No token
	w = doJSON(t, r, "POST", "/api/v1/users/setAvatar/"+user.ID, "", map[string]string{"image": image})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	r, _ := setupTestHandler(t)

	// No Authorization header
	w := doJSON(t, r, "POST", "/api/v1/transactions/getTransactions", "", map[string]string{})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}

	// Garbage token
	w = doJSON(t, r, "POST", "/api/v1/transactions/getTransactions", "not-a-jwt", map[string]string{})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}

	// Token signed with a different secret
	other := NewHandler(db.NewMemoryStore(), "other-secret")
	token, err := other.generateToken("some-user")
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	w = doJSON(t, r, "POST", "/api/v1/transactions/getTransactions", token, map[string]string{})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}
