package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/quidflow/quidflow/internal/config"
	entitlementdomain "github.com/quidflow/quidflow/internal/entitlement/domain"
	insightdomain "github.com/quidflow/quidflow/internal/insight/domain"
	"github.com/quidflow/quidflow/internal/observability"
	subscriptiondomain "github.com/quidflow/quidflow/internal/subscription/domain"
	"github.com/quidflow/quidflow/internal/tier"
	transactiondomain "github.com/quidflow/quidflow/internal/transaction/domain"
	"github.com/quidflow/quidflow/internal/usercontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubSubscriptions struct {
	current subscriptiondomain.Subscription
	err     error
}

func (s *stubSubscriptions) GetOrCreate(ctx context.Context) (subscriptiondomain.Subscription, error) {
	if _, ok := usercontext.UserIDFromContext(ctx); !ok {
		return subscriptiondomain.Subscription{}, subscriptiondomain.ErrInvalidUser
	}
	return s.current, s.err
}

func (s *stubSubscriptions) ChangeTier(ctx context.Context, req subscriptiondomain.ChangeTierRequest) (subscriptiondomain.Subscription, error) {
	if _, err := tier.Get(req.Tier); err != nil {
		return subscriptiondomain.Subscription{}, subscriptiondomain.ErrInvalidTier
	}
	s.current.Tier = req.Tier
	return s.current, s.err
}

func (s *stubSubscriptions) StartTrial(ctx context.Context, req subscriptiondomain.StartTrialRequest) (subscriptiondomain.Subscription, error) {
	return subscriptiondomain.Subscription{}, subscriptiondomain.ErrTrialAlreadyUsed
}

func (s *stubSubscriptions) Cancel(ctx context.Context) (subscriptiondomain.Subscription, error) {
	return s.current, s.err
}

func (s *stubSubscriptions) History(ctx context.Context) ([]subscriptiondomain.Subscription, error) {
	return []subscriptiondomain.Subscription{s.current}, s.err
}

type stubInsights struct {
	err error
}

func (s *stubInsights) Query(ctx context.Context, req insightdomain.QueryRequest) (insightdomain.Insight, error) {
	return insightdomain.Insight{}, s.err
}

func (s *stubInsights) Generate(ctx context.Context) ([]insightdomain.Insight, error) {
	return nil, s.err
}

func (s *stubInsights) Forecast(ctx context.Context, req insightdomain.ForecastRequest) (insightdomain.Forecast, error) {
	return insightdomain.Forecast{}, s.err
}

func (s *stubInsights) List(ctx context.Context) ([]insightdomain.Insight, error) {
	return nil, s.err
}

func (s *stubInsights) Dismiss(ctx context.Context, id snowflake.ID) error {
	return s.err
}

type stubTransactions struct {
	err     error
	created transactiondomain.Transaction
}

func (s *stubTransactions) Create(ctx context.Context, req transactiondomain.CreateTransactionRequest) (transactiondomain.Transaction, error) {
	if !req.Kind.Valid() {
		return transactiondomain.Transaction{}, transactiondomain.ErrInvalidKind
	}
	return s.created, s.err
}

func (s *stubTransactions) List(ctx context.Context, req transactiondomain.ListTransactionsRequest) ([]transactiondomain.Transaction, error) {
	return nil, s.err
}

func (s *stubTransactions) Delete(ctx context.Context, id snowflake.ID) error {
	return s.err
}

func (s *stubTransactions) SpendingByCategory(ctx context.Context, from, to time.Time) ([]transactiondomain.CategoryTotal, error) {
	return nil, s.err
}

func (s *stubTransactions) Totals(ctx context.Context, from, to time.Time) (int64, int64, error) {
	return 0, 0, s.err
}

type serverFixture struct {
	server        *Server
	subscriptions *stubSubscriptions
	insights      *stubInsights
	transactions  *stubTransactions
}

func newTestServer(t *testing.T) *serverFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var httpMetrics *observability.HTTPMetrics
	var metrics *observability.Metrics
	engine := NewEngine(observability.Config{}, httpMetrics, metrics, zap.NewNop())

	subscriptions := &stubSubscriptions{
		current: subscriptiondomain.Subscription{
			UserID: "user-1",
			Tier:   tier.PersonalFree,
			Status: subscriptiondomain.StatusActive,
		},
	}
	insights := &stubInsights{}
	transactions := &stubTransactions{}

	s := &Server{
		engine:  engine,
		cfg:     config.Config{},
		log:     zap.NewNop(),
		metrics: metrics,

		subscriptionSvc: subscriptions,
		insightSvc:      insights,
		transactionSvc:  transactions,
	}
	s.RegisterAPIRoutes()

	return &serverFixture{
		server:        s,
		subscriptions: subscriptions,
		insights:      insights,
		transactions:  transactions,
	}
}

func (f *serverFixture) do(t *testing.T, method, path, body string, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("X-User-Id", "user-1")
	}
	rec := httptest.NewRecorder()
	f.server.Engine().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestListTiersServesCatalogInOrder(t *testing.T) {
	f := newTestServer(t)

	rec := f.do(t, http.MethodGet, "/api/v1/tiers", "", false)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	data, ok := body["data"].([]any)
	require.True(t, ok)
	require.Len(t, data, 5)

	first := data[0].(map[string]any)
	assert.Equal(t, "personal_free", first["id"])
	assert.Equal(t, "Free", first["formattedPrice"])

	second := data[1].(map[string]any)
	assert.Equal(t, "personal_pro", second["id"])
	assert.Equal(t, "$7.99/month", second["formattedPrice"])
	assert.Equal(t, float64(14), second["trialDays"])
}

func TestGetTierByIDUnknownIs404(t *testing.T) {
	f := newTestServer(t)

	rec := f.do(t, http.MethodGet, "/api/v1/tiers/mega_plan", "", false)
	require.Equal(t, http.StatusNotFound, rec.Code)

	body := decodeBody(t, rec)
	errBody := body["error"].(map[string]any)
	assert.Equal(t, "not_found", errBody["type"])
}

func TestAuthedRoutesRequireUserHeader(t *testing.T) {
	f := newTestServer(t)

	rec := f.do(t, http.MethodGet, "/api/v1/subscription", "", false)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	body := decodeBody(t, rec)
	errBody := body["error"].(map[string]any)
	assert.Equal(t, "unauthorized", errBody["type"])
}

func TestGetSubscriptionReturnsCurrentRecord(t *testing.T) {
	f := newTestServer(t)

	rec := f.do(t, http.MethodGet, "/api/v1/subscription", "", true)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	data := body["data"].(map[string]any)
	assert.Equal(t, "personal_free", data["tier"])
	assert.Equal(t, "active", data["status"])
}

func TestChangeTierRejectsUnknownTier(t *testing.T) {
	f := newTestServer(t)

	rec := f.do(t, http.MethodPost, "/api/v1/subscription/change", `{"tier":"mega_plan"}`, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody(t, rec)
	errBody := body["error"].(map[string]any)
	assert.Equal(t, "validation_error", errBody["type"])
}

func TestStartTrialConflictIs409(t *testing.T) {
	f := newTestServer(t)

	rec := f.do(t, http.MethodPost, "/api/v1/subscription/trial", `{"tier":"personal_pro"}`, true)
	require.Equal(t, http.StatusConflict, rec.Code)

	body := decodeBody(t, rec)
	errBody := body["error"].(map[string]any)
	assert.Equal(t, "conflict", errBody["type"])
	assert.Equal(t, "trial_already_used", errBody["message"])
}

func TestUpgradeRequiredMapsToPaymentRequired(t *testing.T) {
	f := newTestServer(t)
	f.insights.err = entitlementdomain.ErrUpgradeRequired

	rec := f.do(t, http.MethodPost, "/api/v1/insights/query", `{"question":"how am I doing?"}`, true)
	require.Equal(t, http.StatusPaymentRequired, rec.Code)

	body := decodeBody(t, rec)
	errBody := body["error"].(map[string]any)
	assert.Equal(t, "upgrade_required", errBody["type"])
}

func TestUpgradeRequiredCarriesSuggestedTier(t *testing.T) {
	f := newTestServer(t)
	f.insights.err = entitlementdomain.FeatureDecision{
		CurrentTier:      tier.PersonalFree,
		SuggestedUpgrade: tier.PersonalPro,
	}.Denied()

	rec := f.do(t, http.MethodPost, "/api/v1/insights/query", `{"question":"how am I doing?"}`, true)
	require.Equal(t, http.StatusPaymentRequired, rec.Code)

	body := decodeBody(t, rec)
	errBody := body["error"].(map[string]any)
	assert.Equal(t, "upgrade_required", errBody["type"])
	assert.Equal(t, "personal_pro", errBody["suggestedUpgrade"])
}

func TestCreateTransactionRejectsBadKind(t *testing.T) {
	f := newTestServer(t)

	rec := f.do(t, http.MethodPost, "/api/v1/transactions",
		`{"description":"coffee","amount_minor":350,"kind":"transfer"}`, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody(t, rec)
	errBody := body["error"].(map[string]any)
	assert.Equal(t, "validation_error", errBody["type"])
}

func TestUpgradePathFromCurrentTier(t *testing.T) {
	f := newTestServer(t)

	rec := f.do(t, http.MethodGet, "/api/v1/subscription/upgrade", "", true)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	data := body["data"].(map[string]any)
	assert.Equal(t, "personal_pro", data["nextTier"])
	assert.NotEmpty(t, data["reason"])
}

func TestHealthEndpoint(t *testing.T) {
	f := newTestServer(t)

	rec := f.do(t, http.MethodGet, "/health", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}
