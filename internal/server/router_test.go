package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladimiradmaev/diabetes-tracker/internal/database"
	apperrors "github.com/vladimiradmaev/diabetes-tracker/internal/errors"
	"github.com/vladimiradmaev/diabetes-tracker/internal/insulin"
	"github.com/vladimiradmaev/diabetes-tracker/internal/interfaces"
	"github.com/vladimiradmaev/diabetes-tracker/internal/logger"
	"github.com/vladimiradmaev/diabetes-tracker/internal/observability"
	"github.com/vladimiradmaev/diabetes-tracker/internal/services"
	"github.com/vladimiradmaev/diabetes-tracker/internal/testutil"
)

type fakeUsers struct {
	ratios map[uint][2]float64
}

func (f *fakeUsers) RegisterUser(context.Context, int64, string, string, string) (*database.User, error) {
	return nil, nil
}

func (f *fakeUsers) GetUser(_ context.Context, userID uint) (*database.User, error) {
	r, ok := f.ratios[userID]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	u := &database.User{FirstMealRatio: r[0], OtherMealRatio: r[1]}
	u.ID = userID
	return u, nil
}

func (f *fakeUsers) GetSettings(ctx context.Context, userID uint) (insulin.Settings, error) {
	u, err := f.GetUser(ctx, userID)
	if err != nil {
		return insulin.Settings{}, err
	}
	return services.NewUserService(nil, insulin.DefaultSettings()).SettingsFor(u), nil
}

func (f *fakeUsers) UpdateRatios(_ context.Context, userID uint, first, other float64) error {
	if _, ok := f.ratios[userID]; !ok {
		return apperrors.ErrUserNotFound
	}
	if first <= 0 || other <= 0 {
		return apperrors.NewValidationError("ratio must be positive")
	}
	f.ratios[userID] = [2]float64{first, other}
	return nil
}

type memCalculations struct {
	calcs []*database.InsulinCalculation
}

func (m *memCalculations) Create(_ context.Context, calc *database.InsulinCalculation) error {
	calc.ID = uint(len(m.calcs) + 1)
	m.calcs = append(m.calcs, calc)
	return nil
}

func (m *memCalculations) ListByUser(_ context.Context, userID uint, limit int) ([]database.InsulinCalculation, error) {
	var out []database.InsulinCalculation
	for i := len(m.calcs) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		if m.calcs[i].UserID == userID {
			out = append(out, *m.calcs[i])
		}
	}
	return out, nil
}

type fakeReadings struct{}

func (fakeReadings) AddRecord(_ context.Context, userID uint, value float64) (*database.BloodSugarRecord, error) {
	if value <= 0 {
		return nil, apperrors.NewValidationError("blood glucose must be above 0 and at most 55.5 mmol/L")
	}
	rec := &database.BloodSugarRecord{UserID: userID, Value: value, Timestamp: time.Now()}
	rec.ID = 1
	return rec, nil
}

func (fakeReadings) GetUserRecords(context.Context, uint, int) ([]database.BloodSugarRecord, error) {
	return nil, apperrors.NewDatabaseError(assert.AnError)
}

type fakePresets struct {
	presets []database.MealPreset
}

func (f *fakePresets) Add(_ context.Context, userID uint, name string, carbs float64) (*database.MealPreset, error) {
	for _, existing := range f.presets {
		if existing.UserID == userID && strings.EqualFold(existing.Name, name) {
			return nil, apperrors.NewConflictError("PRESET_EXISTS", "A meal preset with this name already exists")
		}
	}
	p := database.MealPreset{UserID: userID, Name: name, Carbs: carbs}
	p.ID = uint(len(f.presets) + 1)
	f.presets = append(f.presets, p)
	return &p, nil
}

func (f *fakePresets) List(_ context.Context, userID uint) ([]database.MealPreset, error) {
	return f.presets, nil
}

func (f *fakePresets) Get(context.Context, uint, uint) (*database.MealPreset, error) {
	return nil, apperrors.ErrPresetNotFound
}

func (f *fakePresets) Delete(_ context.Context, _ uint, presetID uint) error {
	for i, p := range f.presets {
		if p.ID == presetID {
			f.presets = append(f.presets[:i], f.presets[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrPresetNotFound
}

func newTestRouter(t *testing.T) (http.Handler, *memCalculations) {
	t.Helper()
	logger.InitWithWriter(io.Discard, logger.LevelInfo, "json")

	users := &fakeUsers{ratios: map[uint][2]float64{1: {0, 0}, 2: {5, 0}}}
	calcs := &memCalculations{}

	svc := interfaces.Services{
		Users:        users,
		Calculations: services.NewCalculationService(calcs, users, insulin.DefaultSettings()),
		BloodSugar:   fakeReadings{},
		Presets:      &fakePresets{},
	}
	return NewRouter(svc, nil), calcs
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := testutil.ExecuteRequest(req, router)

	testutil.CheckResponseCode(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := testutil.ExecuteRequest(req, router)

	testutil.CheckResponseCode(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "insulin_total_units")
}

func TestPreviewCalculation(t *testing.T) {
	router, calcs := newTestRouter(t)

	req := testutil.JSONRequest(t, http.MethodPost, "/api/insulin/calculate", map[string]any{
		"meal_type": "first",
		"carbs":     30,
		"bg":        10.0,
	})
	w := testutil.ExecuteRequest(req, router)

	testutil.CheckResponseCode(t, http.StatusOK, w.Code)
	_, err := uuid.Parse(w.Result().Header.Get(observability.RequestIDHeader))
	require.NoError(t, err)

	var resp CalculateResponse
	testutil.DecodeJSONBody(t, w.Body, &resp)
	assert.Equal(t, 3.0, resp.Result.MealInsulin)
	assert.Equal(t, 2.0, resp.Result.CorrectionInsulin)
	assert.Equal(t, 5.0, resp.Result.TotalInsulin)
	assert.Equal(t, 180.0, resp.Result.BGMgdl)
	assert.Equal(t, "174 to 190 mg/dL = +2 units", resp.Result.CorrectionRange)
	assert.Empty(t, calcs.calcs)
}

func TestPreviewCalculationRoundsOnlyDisplay(t *testing.T) {
	router, _ := newTestRouter(t)

	req := testutil.JSONRequest(t, http.MethodPost, "/api/insulin/calculate", map[string]any{
		"meal_type": "other",
		"carbs":     20,
		"bg":        6.0,
	})
	w := testutil.ExecuteRequest(req, router)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var resp CalculateResponse
	testutil.DecodeJSONBody(t, w.Body, &resp)
	assert.InDelta(t, 20.0/15.0, resp.Result.MealInsulin, 1e-12)
	assert.Equal(t, 1.3, resp.Display.MealInsulin)
	assert.Equal(t, 108.0, resp.Display.BGMgdl)
}

func TestPreviewCalculationValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	tests := []struct {
		name string
		body any
	}{
		{"unknown meal type", map[string]any{"meal_type": "lunch", "bg": 6.0}},
		{"negative carbs", map[string]any{"meal_type": "first", "carbs": -10, "bg": 6.0}},
		{"missing glucose", map[string]any{"meal_type": "first", "carbs": 10}},
		{"unknown field", map[string]any{"meal_type": "first", "bg": 6.0, "weight": 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.JSONRequest(t, http.MethodPost, "/api/insulin/calculate", tt.body)
			w := testutil.ExecuteRequest(req, router)

			testutil.CheckResponseCode(t, http.StatusBadRequest, w.Code)
			var body map[string]string
			testutil.DecodeJSONBody(t, w.Body, &body)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestPreviewCalculationNormalizesMealType(t *testing.T) {
	router, _ := newTestRouter(t)

	tests := []struct {
		mealType       string
		wantMealType   string
		wantMeal       float64
		wantCorrection float64
		wantRange      string
	}{
		{"Bedtime", "bedtime", 0, 1, "176 to 200 mg/dL = +1 units"},
		{"BEDTIME ", "bedtime", 0, 1, "176 to 200 mg/dL = +1 units"},
		{" first ", "first", 3, 2, "174 to 190 mg/dL = +2 units"},
		{"Other", "other", 2, 2, "174 to 190 mg/dL = +2 units"},
	}

	for _, tt := range tests {
		t.Run(tt.mealType, func(t *testing.T) {
			req := testutil.JSONRequest(t, http.MethodPost, "/api/insulin/calculate", map[string]any{
				"meal_type": tt.mealType,
				"carbs":     30,
				"bg":        10.0,
			})
			w := testutil.ExecuteRequest(req, router)
			testutil.CheckResponseCode(t, http.StatusOK, w.Code)

			var resp CalculateResponse
			testutil.DecodeJSONBody(t, w.Body, &resp)
			assert.Equal(t, tt.wantMealType, resp.MealType)
			assert.Equal(t, tt.wantMeal, resp.Result.MealInsulin)
			assert.Equal(t, tt.wantCorrection, resp.Result.CorrectionInsulin)
			assert.Equal(t, tt.wantMeal+tt.wantCorrection, resp.Result.TotalInsulin)
			assert.Equal(t, tt.wantRange, resp.Result.CorrectionRange)
		})
	}
}

func TestCreateCalculationStoresCanonicalMealType(t *testing.T) {
	router, calcs := newTestRouter(t)

	req := testutil.JSONRequest(t, http.MethodPost, "/api/users/1/calculations", map[string]any{
		"meal_type": "Bedtime",
		"carbs":     30,
		"bg":        10.0,
	})
	w := testutil.ExecuteRequest(req, router)
	testutil.CheckResponseCode(t, http.StatusCreated, w.Code)

	require.Len(t, calcs.calcs, 1)
	assert.Equal(t, "bedtime", calcs.calcs[0].MealType)
	assert.Equal(t, 0.0, calcs.calcs[0].MealInsulin)
	assert.Equal(t, 1.0, calcs.calcs[0].CorrectionInsulin)

	var resp CalculationResponse
	testutil.DecodeJSONBody(t, w.Body, &resp)
	assert.Equal(t, "bedtime", resp.MealType)
}

func TestTables(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/insulin/tables", nil)
	w := testutil.ExecuteRequest(req, router)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var settings insulin.Settings
	testutil.DecodeJSONBody(t, w.Body, &settings)
	assert.Equal(t, insulin.DefaultFirstMealRatio, settings.FirstMealRatio)
	assert.Equal(t, insulin.StandardCorrectionTable, settings.StandardTable)
	assert.Equal(t, insulin.BedtimeCorrectionTable, settings.BedtimeTable)
}

func TestCreateCalculationUsesUserSettings(t *testing.T) {
	router, calcs := newTestRouter(t)

	req := testutil.JSONRequest(t, http.MethodPost, "/api/users/2/calculations", map[string]any{
		"meal_type": "first",
		"carbs":     30,
		"bg":        10.0,
	})
	w := testutil.ExecuteRequest(req, router)
	testutil.CheckResponseCode(t, http.StatusCreated, w.Code)

	var resp CalculationResponse
	testutil.DecodeJSONBody(t, w.Body, &resp)
	assert.Equal(t, uint(1), resp.ID)
	assert.Equal(t, 6.0, resp.Result.MealInsulin)
	assert.Equal(t, 8.0, resp.Result.TotalInsulin)
	require.Len(t, calcs.calcs, 1)

	req = httptest.NewRequest(http.MethodGet, "/api/users/2/calculations?limit=5", nil)
	w = testutil.ExecuteRequest(req, router)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var history []CalculationResponse
	testutil.DecodeJSONBody(t, w.Body, &history)
	require.Len(t, history, 1)
	assert.Equal(t, "first", history[0].MealType)
}

func TestCreateCalculationUnknownUser(t *testing.T) {
	router, _ := newTestRouter(t)

	req := testutil.JSONRequest(t, http.MethodPost, "/api/users/9/calculations", map[string]any{
		"meal_type": "bedtime",
		"bg":        7.0,
	})
	w := testutil.ExecuteRequest(req, router)
	testutil.CheckResponseCode(t, http.StatusNotFound, w.Code)
}

func TestInvalidPathAndQueryParams(t *testing.T) {
	router, _ := newTestRouter(t)

	w := testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/api/users/abc/settings", nil), router)
	testutil.CheckResponseCode(t, http.StatusBadRequest, w.Code)

	w = testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/api/users/1/calculations?limit=-1", nil), router)
	testutil.CheckResponseCode(t, http.StatusBadRequest, w.Code)
}

func TestSettingsRoundTrip(t *testing.T) {
	router, _ := newTestRouter(t)

	req := testutil.JSONRequest(t, http.MethodPut, "/api/users/1/settings", SettingsRequest{FirstMealRatio: 12, OtherMealRatio: 18})
	w := testutil.ExecuteRequest(req, router)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var settings insulin.Settings
	testutil.DecodeJSONBody(t, w.Body, &settings)
	assert.Equal(t, 12.0, settings.FirstMealRatio)
	assert.Equal(t, 18.0, settings.OtherMealRatio)

	req = testutil.JSONRequest(t, http.MethodPut, "/api/users/1/settings", SettingsRequest{FirstMealRatio: 0, OtherMealRatio: 18})
	w = testutil.ExecuteRequest(req, router)
	testutil.CheckResponseCode(t, http.StatusBadRequest, w.Code)
}

func TestReadings(t *testing.T) {
	router, _ := newTestRouter(t)

	req := testutil.JSONRequest(t, http.MethodPost, "/api/users/1/readings", ReadingRequest{Value: 6.2})
	w := testutil.ExecuteRequest(req, router)
	testutil.CheckResponseCode(t, http.StatusCreated, w.Code)

	var reading ReadingResponse
	testutil.DecodeJSONBody(t, w.Body, &reading)
	assert.Equal(t, 6.2, reading.Value)

	// database failures are reported without details
	w = testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/api/users/1/readings", nil), router)
	testutil.CheckResponseCode(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
}

func TestPresets(t *testing.T) {
	router, _ := newTestRouter(t)

	req := testutil.JSONRequest(t, http.MethodPost, "/api/users/1/presets", PresetRequest{Name: "Oatmeal", Carbs: 45})
	w := testutil.ExecuteRequest(req, router)
	testutil.CheckResponseCode(t, http.StatusCreated, w.Code)

	var preset PresetResponse
	testutil.DecodeJSONBody(t, w.Body, &preset)
	assert.Equal(t, "Oatmeal", preset.Name)

	w = testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/api/users/1/presets", nil), router)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)
	var presets []PresetResponse
	testutil.DecodeJSONBody(t, w.Body, &presets)
	assert.Len(t, presets, 1)

	w = testutil.ExecuteRequest(httptest.NewRequest(http.MethodDelete, "/api/users/1/presets/1", nil), router)
	testutil.CheckResponseCode(t, http.StatusNoContent, w.Code)

	w = testutil.ExecuteRequest(httptest.NewRequest(http.MethodDelete, "/api/users/1/presets/1", nil), router)
	testutil.CheckResponseCode(t, http.StatusNotFound, w.Code)
}

func TestRateLimitedAPI(t *testing.T) {
	logger.InitWithWriter(io.Discard, logger.LevelInfo, "json")
	svc := interfaces.Services{
		Calculations: services.NewCalculationService(&memCalculations{}, &fakeUsers{}, insulin.DefaultSettings()),
	}
	router := NewRouter(svc, observability.NewRateLimiter(0.001, 1))

	w := testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/api/insulin/tables", nil), router)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	w = testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/api/insulin/tables", nil), router)
	testutil.CheckResponseCode(t, http.StatusTooManyRequests, w.Code)

	// health is outside the limited group
	w = testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/health", nil), router)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)
}

func TestCreatePresetDuplicateName(t *testing.T) {
	router, _ := newTestRouter(t)

	req := testutil.JSONRequest(t, http.MethodPost, "/api/users/1/presets", PresetRequest{Name: "Oatmeal", Carbs: 45})
	w := testutil.ExecuteRequest(req, router)
	testutil.CheckResponseCode(t, http.StatusCreated, w.Code)

	req = testutil.JSONRequest(t, http.MethodPost, "/api/users/1/presets", PresetRequest{Name: "oatmeal", Carbs: 50})
	w = testutil.ExecuteRequest(req, router)
	testutil.CheckResponseCode(t, http.StatusConflict, w.Code)

	var body map[string]string
	testutil.DecodeJSONBody(t, w.Body, &body)
	assert.Equal(t, "A meal preset with this name already exists", body["error"])
}
