package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	models "AgriPull/internal/domain/models"
	domsvc "AgriPull/internal/domain/service"
	"AgriPull/internal/service/ratelimit"
	"AgriPull/internal/services/recommend"
	"AgriPull/internal/usecase"
)

type staticSource struct {
	s   models.Series
	err error
}

func (f staticSource) Series(context.Context) (models.Series, error) { return f.s, f.err }

type fakeForecaster struct{ err error }

func (f fakeForecaster) Predict(_ context.Context, date time.Time, category string) (models.Forecast, error) {
	if f.err != nil {
		return models.Forecast{}, f.err
	}
	return models.Forecast{Date: date, Category: category, Prices: map[models.PriceColumn]float64{
		models.WholesalePettah: 120.5,
	}}, nil
}

func (f fakeForecaster) Status() models.ModelStatus {
	return models.ModelStatus{Loaded: f.err == nil, TrainingRuns: 1}
}

type fakeRecommender struct{ err error }

func (f fakeRecommender) Recommend(context.Context, models.CropFeatures) (models.CropRecommendation, error) {
	if f.err != nil {
		return models.CropRecommendation{}, f.err
	}
	return models.CropRecommendation{
		Crop:            "rice",
		Recommendations: []models.CropAlternative{{Label: "rice", Confidence: 81}},
	}, nil
}

func quote(date, cat string, wp float64) models.PriceRecord {
	d, _ := time.Parse("2006-01-02", date)
	return models.PriceRecord{Date: d, Category: cat, WholesalePettah: models.Float(wp)}
}

func sample() models.Series {
	return models.Series{
		quote("2024-03-01", "Tomato", 90),
		quote("2024-03-02", "Tomato", 92),
		quote("2024-03-03", "Tomato", 95),
		quote("2024-03-04", "Tomato", 110),
		quote("2024-03-04", "Beans", 300),
	}
}

type fixture struct {
	source     usecase.SeriesProvider
	forecaster domsvc.Forecaster
	recommend  domsvc.CropRecommender
	limiter    *ratelimit.Limiter
}

func newEcho(f fixture) *echo.Echo {
	if f.source == nil {
		f.source = staticSource{s: sample()}
	}
	if f.forecaster == nil {
		f.forecaster = fakeForecaster{}
	}
	if f.recommend == nil {
		f.recommend = fakeRecommender{}
	}
	h := NewHandler(nil,
		usecase.NewMarketUseCase(f.source, nil),
		usecase.NewTrendUseCase(f.source),
		usecase.NewForecastUseCase(f.forecaster, nil, nil, nil),
		usecase.NewCropUseCase(f.recommend, nil),
		f.limiter,
	)
	e := echo.New()
	h.RegisterRoutes(e)
	return e
}

type envelope struct {
	Status int             `json:"status"`
	Data   json.RawMessage `json:"data"`
}

func do(t *testing.T, e *echo.Echo, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
		assert.Equal(t, rec.Code, env.Status)
	}
	return rec, env
}

func errorCode(t *testing.T, env envelope) string {
	t.Helper()
	var errs []struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &errs))
	require.NotEmpty(t, errs)
	return errs[0].Code
}

func TestHello(t *testing.T) {
	rec, _ := do(t, newEcho(fixture{}), http.MethodGet, "/api/hello", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Hello from AgriPull")
}

func TestMarketLatest(t *testing.T) {
	rec, env := do(t, newEcho(fixture{}), http.MethodGet, "/api/market/latest", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Rows  []models.PriceRecord `json:"rows"`
		Total int64                `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.EqualValues(t, 2, list.Total)
}

func TestMarketValidation(t *testing.T) {
	e := newEcho(fixture{})
	cases := []string{
		"/api/market/month?year=2024&month=13",
		"/api/market/month?year=2024",
		"/api/market/date?date=2024/03/01",
		"/api/market/date",
		"/api/market/vegetable",
	}
	for _, target := range cases {
		rec, env := do(t, e, http.MethodGet, target, "")
		require.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.Equal(t, "ERR_INVALID_INPUT", errorCode(t, env), target)
	}
}

func TestMarketDataUnavailable(t *testing.T) {
	src := staticSource{err: fmt.Errorf("no rows: %w", models.ErrDataUnavailable)}
	rec, env := do(t, newEcho(fixture{source: src}), http.MethodGet, "/api/market/vegetable?name=Tomato", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "ERR_DATA_UNAVAILABLE", errorCode(t, env))
}

func TestTrendAndDemand(t *testing.T) {
	e := newEcho(fixture{})

	rec, env := do(t, e, http.MethodGet, "/api/trend?vegetable=tomato&year=2024&month=3", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var tr models.Trend
	require.NoError(t, json.Unmarshal(env.Data, &tr))
	require.NotNil(t, tr.Signal)
	assert.Equal(t, models.DemandHigh, tr.Signal.Level)

	rec, env = do(t, e, http.MethodGet, "/api/demand", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var dem usecase.DemandResult
	require.NoError(t, json.Unmarshal(env.Data, &dem))
	assert.Equal(t, "2024-03", dem.Window)
	require.Len(t, dem.Signals, 1)
	assert.Equal(t, "Tomato", dem.Signals[0].Category)
}

func TestTrendChart(t *testing.T) {
	e := newEcho(fixture{})
	rec, _ := do(t, e, http.MethodGet, "/api/trend/chart?vegetable=Tomato&year=2024&month=3", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))

	rec, _ = do(t, e, http.MethodGet, "/api/trend/chart?vegetable=Okra&year=2024&month=3", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestPredict(t *testing.T) {
	e := newEcho(fixture{})
	rec, env := do(t, e, http.MethodPost, "/api/predict", `{"date":"2025-01-10","vegetables":["Beans","Carrot"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var bf models.BatchForecast
	require.NoError(t, json.Unmarshal(env.Data, &bf))
	assert.Len(t, bf.Prices, 2)
	assert.Equal(t, 241.0, bf.Totals[models.WholesalePettah])

	for _, body := range []string{
		`{"date":"2025-01-10","vegetables":[]}`,
		`{"date":"10-01-2025","vegetables":["Beans"]}`,
		`{"vegetables":["Beans"]}`,
		`{not json`,
	} {
		rec, _ = do(t, e, http.MethodPost, "/api/predict", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestPredictModelUnavailable(t *testing.T) {
	f := fakeForecaster{err: fmt.Errorf("empty series: %w", models.ErrDataUnavailable)}
	e := newEcho(fixture{forecaster: f})
	rec, env := do(t, e, http.MethodPost, "/api/predict", `{"date":"2025-01-10","vegetables":["Beans"]}`)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "ERR_DATA_UNAVAILABLE", errorCode(t, env))

	rec, env = do(t, e, http.MethodGet, "/api/model", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var st models.ModelStatus
	require.NoError(t, json.Unmarshal(env.Data, &st))
	assert.False(t, st.Loaded)
}

const cropBody = `{"N":90,"P":42,"K":43,"temperature":20.8,"humidity":82,"ph":6.5,"rainfall":202.9}`

func TestRecommendCrop(t *testing.T) {
	e := newEcho(fixture{})
	rec, env := do(t, e, http.MethodPost, "/api/crop/recommend", cropBody)
	require.Equal(t, http.StatusOK, rec.Code)
	var out models.CropRecommendation
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.Equal(t, "rice", out.Crop)

	for _, body := range []string{
		`{"N":90,"P":42,"K":43,"temperature":20.8,"humidity":82,"ph":15,"rainfall":202.9}`,
		`{"N":201,"P":42,"K":43,"temperature":20.8,"humidity":82,"ph":6.5,"rainfall":202.9}`,
		`{"N":90,"P":42,"K":43,"temperature":20.8,"humidity":82,"ph":6.5}`,
		`{"N":90,"P":42,"K":43,"temperature":20.8,"humidity":82,"ph":6.5,"rainfall":-1}`,
	} {
		rec, _ = do(t, e, http.MethodPost, "/api/crop/recommend", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestRecommendCropZeroInputsAreValid(t *testing.T) {
	e := newEcho(fixture{})
	rec, _ := do(t, e, http.MethodPost, "/api/crop/recommend",
		`{"N":0,"P":0,"K":0,"temperature":0,"humidity":0,"ph":0,"rainfall":0}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRecommendCropNotConfigured(t *testing.T) {
	e := newEcho(fixture{recommend: fakeRecommender{err: recommend.ErrNotConfigured}})
	rec, env := do(t, e, http.MethodPost, "/api/crop/recommend", cropBody)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "ERR_DATA_UNAVAILABLE", errorCode(t, env))
}

func TestRateLimitedRoutes(t *testing.T) {
	e := newEcho(fixture{limiter: ratelimit.New(0.001, 1)})

	rec, _ := do(t, e, http.MethodPost, "/api/crop/recommend", cropBody)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env := do(t, e, http.MethodPost, "/api/crop/recommend", cropBody)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "ERR_RATE_LIMITED", errorCode(t, env))
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	// unlimited routes are unaffected
	rec, _ = do(t, e, http.MethodGet, "/api/market/latest", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
