package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mealmeter/mealmeter/internal/api"
	"github.com/mealmeter/mealmeter/internal/api/models"
	"github.com/mealmeter/mealmeter/internal/auth"
	"github.com/mealmeter/mealmeter/internal/foodlog"
	"github.com/mealmeter/mealmeter/internal/foodsearch"
	"github.com/mealmeter/mealmeter/internal/nutrition"
	"github.com/mealmeter/mealmeter/internal/profile"
	"github.com/mealmeter/mealmeter/internal/provider/resilience"
)

// fixedProvider returns canned nutrition data without network calls.
type fixedProvider struct{}

func (fixedProvider) Name() string { return "fixed" }

func (fixedProvider) Search(_ context.Context, query string) ([]foodsearch.FoodItem, error) {
	return []foodsearch.FoodItem{
		{Name: query, Calories: 95, ServingSizeG: 100, ProteinG: 0.5, CarbohydratesTotalG: 25},
	}, nil
}

// newTestRouter wires the full service graph against in-memory storage.
func newTestRouter() http.Handler {
	logger := zerolog.New(io.Discard)

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SigningKey: "test-secret-key-for-testing-only",
		Issuer:     "https://api.mealmeter.app",
		Audience:   "mealmeter-api",
	})

	profileRepo := profile.NewMemoryRepository()
	nutritionService := nutrition.NewService(nutrition.NewMemoryRepository(), profileRepo)
	profileService := profile.NewService(profileRepo, nutritionService)
	foodLogService := foodlog.NewService(foodlog.NewMemoryRepository(), nutritionService)

	authService := auth.NewService(auth.ServiceConfig{
		JWTService:  jwtService,
		UserRepo:    auth.NewMemoryUserRepository(),
		RefreshRepo: auth.NewMemoryRefreshTokenRepository(),
		Mailer:      auth.NewLogMailer(logger, "http://localhost:8080"),
		Profiles:    profileService,
		BcryptCost:  bcrypt.MinCost,
	})

	registry := resilience.NewRegistry()
	searchService := foodsearch.NewService(fixedProvider{}, registry)

	return api.NewRouter(api.RouterConfig{
		Version:           "test",
		Logger:            logger,
		Registry:          registry,
		AuthService:       authService,
		ProfileService:    profileService,
		NutritionService:  nutritionService,
		FoodLogService:    foodLogService,
		FoodSearchService: searchService,
	})
}

// doJSON issues a request with a JSON body against the router.
func doJSON(t *testing.T, router http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader = http.NoBody
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// signupAndLogin registers a fresh account and returns a valid access token.
func signupAndLogin(t *testing.T, router http.Handler, email string) string {
	t.Helper()

	w := doJSON(t, router, http.MethodPost, "/v1/auth/signup", "", auth.SignupRequest{
		Email:    email,
		Password: "correct-horse-battery",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodPost, "/v1/auth/login", "", auth.LoginRequest{
		Email:    email,
		Password: "correct-horse-battery",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var tokens auth.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tokens))
	require.NotEmpty(t, tokens.AccessToken)
	return tokens.AccessToken
}

func validProfileRequest() models.ProfileCreateRequest {
	return models.ProfileCreateRequest{
		Gender:         models.GenderMale,
		Birthdate:      models.DateOnly{},
		HeightCM:       175,
		WeightKG:       70,
		ActivityLevel:  models.ActivitySedentary,
		Goal:           models.GoalWeightLoss,
		TargetWeightKG: 65,
		WeeklyGoalKG:   0.5,
	}
}

func TestRouter_HealthCheck(t *testing.T) {
	router := newTestRouter()

	w := doJSON(t, router, http.MethodGet, "/v1/ops/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	var health models.Health
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, models.HealthStatusOK, health.Status)
	assert.Equal(t, "test", health.Version)
}

func TestRouter_ReadinessCheck(t *testing.T) {
	router := newTestRouter()

	w := doJSON(t, router, http.MethodGet, "/v1/ops/ready", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var readiness models.Readiness
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &readiness))
	assert.Equal(t, models.HealthStatusOK, readiness.Status)
}

func TestRouter_SystemStatus_RequiresAuth(t *testing.T) {
	router := newTestRouter()

	w := doJSON(t, router, http.MethodGet, "/v1/ops/status", "", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
}

func TestRouter_SystemStatus(t *testing.T) {
	router := newTestRouter()
	token := signupAndLogin(t, router, "status@example.com")

	w := doJSON(t, router, http.MethodGet, "/v1/ops/status", token, nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var status models.SystemStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, models.HealthStatusOK, status.Status)
	assert.NotEmpty(t, status.Uptime)
}

func TestRouter_SignupAndLoginFlow(t *testing.T) {
	router := newTestRouter()

	token := signupAndLogin(t, router, "flow@example.com")
	assert.NotEmpty(t, token)

	// Signup left a profile stub behind.
	w := doJSON(t, router, http.MethodGet, "/v1/me/profile", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var p models.Profile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.False(t, p.IsSetup)
}

func TestRouter_Signup_DuplicateEmail(t *testing.T) {
	router := newTestRouter()
	signupAndLogin(t, router, "dupe@example.com")

	w := doJSON(t, router, http.MethodPost, "/v1/auth/signup", "", auth.SignupRequest{
		Email:    "dupe@example.com",
		Password: "correct-horse-battery",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRouter_Login_BadCredentials(t *testing.T) {
	router := newTestRouter()
	signupAndLogin(t, router, "badcreds@example.com")

	w := doJSON(t, router, http.MethodPost, "/v1/auth/login", "", auth.LoginRequest{
		Email:    "badcreds@example.com",
		Password: "wrong-password",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_CreateProfile_ComputesInsights(t *testing.T) {
	router := newTestRouter()
	token := signupAndLogin(t, router, "insights@example.com")

	req := validProfileRequest()
	req.Birthdate = birthdate(t, "1995-06-15")

	w := doJSON(t, router, http.MethodPost, "/v1/me/profile", token, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "/v1/me/profile", w.Header().Get("Location"))

	var p models.Profile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.True(t, p.IsSetup)

	// Completing the profile stores the macronutrient distribution.
	w = doJSON(t, router, http.MethodGet, "/v1/me/insights/nutrition", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var insights models.MacronutrientDistribution
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &insights))
	assert.Greater(t, insights.TDEE, 0.0)
	assert.Greater(t, insights.ProteinGrams, 0)
}

func TestRouter_CreateProfile_ValidationError(t *testing.T) {
	router := newTestRouter()
	token := signupAndLogin(t, router, "invalid@example.com")

	req := validProfileRequest()
	req.Birthdate = birthdate(t, "1995-06-15")
	req.HeightCM = 10 // below minimum

	w := doJSON(t, router, http.MethodPost, "/v1/me/profile", token, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))

	var problem models.Problem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.NotEmpty(t, problem.Errors)
}

func TestRouter_GetInsights_BeforeProfileSetup(t *testing.T) {
	router := newTestRouter()
	token := signupAndLogin(t, router, "noprofile@example.com")

	w := doJSON(t, router, http.MethodGet, "/v1/me/insights/nutrition", token, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_FoodLogFlow(t *testing.T) {
	router := newTestRouter()
	token := signupAndLogin(t, router, "foodlog@example.com")

	w := doJSON(t, router, http.MethodPost, "/v1/me/food-log", token, models.FoodEntryRequest{
		FoodName: "oatmeal",
		MealType: models.MealBreakfast,
		Calories: 150,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("Location"))

	var log models.DailyFoodLog
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &log))
	assert.Equal(t, 150.0, log.TotalCalories)
	require.Len(t, log.Meals[models.MealBreakfast], 1)
	assert.Equal(t, "oatmeal", log.Meals[models.MealBreakfast][0].FoodName)

	// The daily log is fetchable by its date.
	w = doJSON(t, router, http.MethodGet, "/v1/me/food-log/"+log.Date.String(), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// And listed in the full history.
	w = doJSON(t, router, http.MethodGet, "/v1/me/food-log", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list models.FoodLogList
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Count)
}

func TestRouter_FoodLog_UnknownMealType(t *testing.T) {
	router := newTestRouter()
	token := signupAndLogin(t, router, "badslot@example.com")

	w := doJSON(t, router, http.MethodPost, "/v1/me/food-log", token, models.FoodEntryRequest{
		FoodName: "mystery",
		MealType: "brunch",
		Calories: 100,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_FoodLog_BadDate(t *testing.T) {
	router := newTestRouter()
	token := signupAndLogin(t, router, "baddate@example.com")

	w := doJSON(t, router, http.MethodGet, "/v1/me/food-log/not-a-date", token, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_FoodSearch(t *testing.T) {
	router := newTestRouter()
	token := signupAndLogin(t, router, "search@example.com")

	w := doJSON(t, router, http.MethodGet, "/v1/food/search?query=apple", token, nil)

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.FoodSearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "apple", resp.Query)
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, 95.0, resp.Items[0].Calories)
}

func TestRouter_FoodSearch_EmptyQuery(t *testing.T) {
	router := newTestRouter()
	token := signupAndLogin(t, router, "emptyquery@example.com")

	w := doJSON(t, router, http.MethodGet, "/v1/food/search", token, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_MeEndpoints_RequireAuth(t *testing.T) {
	router := newTestRouter()

	paths := []string{
		"/v1/me/profile",
		"/v1/me/insights/nutrition",
		"/v1/me/food-log",
	}
	for _, path := range paths {
		w := doJSON(t, router, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestRouter_RequestID_Preserved(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	req.Header.Set("X-Request-Id", "req_custom123")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, "req_custom123", w.Header().Get("X-Request-Id"))
}

func TestRouter_NotFound(t *testing.T) {
	router := newTestRouter()

	w := doJSON(t, router, http.MethodGet, "/v1/nonexistent", "", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func birthdate(t *testing.T, s string) models.DateOnly {
	t.Helper()
	var d models.DateOnly
	require.NoError(t, json.Unmarshal([]byte(fmt.Sprintf("%q", s)), &d))
	return d
}
