// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/admarket/pkg/deal"
	"github.com/luxfi/admarket/pkg/metric"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newTestClient(t *testing.T, router http.Handler, token string) (*Client, *metric.Metrics) {
	t.Helper()
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	m, err := metric.NewMetrics()
	require.NoError(t, err)

	c, err := New(Config{BaseURL: srv.URL + "/", Tokens: staticToken(token), Metrics: m})
	require.NoError(t, err)
	return c, m
}

func TestNewRequiresBaseURL(t *testing.T) {
	_, err := New(Config{})
	require.ErrorIs(t, err, ErrMissingBaseURL)
}

func TestHeadersAndDecoding(t *testing.T) {
	require := require.New(t)

	r := mux.NewRouter()
	r.HandleFunc("/deals/{id}", func(w http.ResponseWriter, req *http.Request) {
		require.Equal("Bearer tok", req.Header.Get("Authorization"))
		require.Equal("application/json", req.Header.Get("Content-Type"))
		require.NotEmpty(req.Header.Get("X-Request-ID"))
		require.Equal("42", mux.Vars(req)["id"])
		_, _ = io.WriteString(w, `{"id":42,"advertiser_id":5,"channel_id":7,"price":null,"status":"NEGOTIATING","tampered":false,"deleted":false,"created_at":"2026-01-01T10:00:00"}`)
	}).Methods(http.MethodGet)

	c, m := newTestClient(t, r, "tok")
	d, err := c.GetDeal(context.Background(), 42)
	require.NoError(err)
	require.Equal(int64(42), d.ID)
	require.Equal(deal.StatusNegotiating, d.Status)
	require.False(d.Price.Valid)

	created, ok := d.CreatedAt.Time()
	require.True(ok)
	require.Equal(10, created.Hour())

	require.Equal(1.0, testutil.ToFloat64(m.APIRequests.WithLabelValues("deals.get", "200")))
}

func TestNoAuthorizationBeforeLogin(t *testing.T) {
	r := mux.NewRouter()
	r.HandleFunc("/auth/me", func(w http.ResponseWriter, req *http.Request) {
		require.Empty(t, req.Header.Get("Authorization"))
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"detail":"Not authenticated"}`)
	})

	c, _ := newTestClient(t, r, "")
	_, err := c.Me(context.Background())

	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, apiErr.Status)
	require.Equal(t, "Not authenticated", apiErr.Message)
	require.Equal(t, "Not authenticated", Message(err))
}

func TestErrorMessageFallback(t *testing.T) {
	require := require.New(t)

	r := mux.NewRouter()
	r.HandleFunc("/deals/{id}/status", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = io.WriteString(w, `{"detail":[{"loc":["body","status"],"msg":"invalid"}]}`)
	})
	r.HandleFunc("/deals", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, `<html>bad gateway</html>`)
	})

	c, _ := newTestClient(t, r, "tok")

	err := c.UpdateStatus(context.Background(), 3, deal.StatusCanceled)
	apiErr, ok := AsAPIError(err)
	require.True(ok)
	require.Equal("API error 422", apiErr.Message)
	require.JSONEq(`[{"loc":["body","status"],"msg":"invalid"}]`, string(apiErr.Detail))
	require.False(IsNetworkError(err))

	_, err = c.ListDeals(context.Background())
	apiErr, ok = AsAPIError(err)
	require.True(ok)
	require.Equal("API error 502", apiErr.Error())
	require.Nil(apiErr.Detail)
}

func TestConflictDealID(t *testing.T) {
	require := require.New(t)

	nested := newAPIError(http.StatusConflict, []byte(`{"detail":{"message":"exists","deal_id":17}}`))
	id, ok := nested.ConflictDealID()
	require.True(ok)
	require.Equal(int64(17), id)
	require.Equal("API error 409", nested.Message)

	flat := newAPIError(http.StatusConflict, []byte(`{"detail":"Deal already exists","deal_id":17}`))
	id, ok = flat.ConflictDealID()
	require.True(ok)
	require.Equal(int64(17), id)
	require.Equal("Deal already exists", flat.Message)

	_, ok = newAPIError(http.StatusBadRequest, []byte(`{"deal_id":17}`)).ConflictDealID()
	require.False(ok)
	_, ok = newAPIError(http.StatusConflict, []byte(`{"detail":"exists"}`)).ConflictDealID()
	require.False(ok)
}

func TestNetworkError(t *testing.T) {
	require := require.New(t)

	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	m, err := metric.NewMetrics()
	require.NoError(err)
	c, err := New(Config{BaseURL: base, Metrics: m})
	require.NoError(err)

	_, err = c.ListListings(context.Background(), ListingFilter{})
	require.True(IsNetworkError(err))
	_, ok := AsAPIError(err)
	require.False(ok)
	require.Equal(1.0, testutil.ToFloat64(m.NetworkErrors))

	require.Error(c.Ping(context.Background()))
}

func TestCanceledContextIsNotNetworkError(t *testing.T) {
	r := mux.NewRouter()
	c, _ := newTestClient(t, r, "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.ListDeals(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.False(t, IsNetworkError(err))
}

func TestPingTreatsAnyResponseAsReachable(t *testing.T) {
	c, _ := newTestClient(t, mux.NewRouter(), "")
	require.NoError(t, c.Ping(context.Background()))
}

func TestListingFilterQuery(t *testing.T) {
	require := require.New(t)

	r := mux.NewRouter()
	r.HandleFunc("/listings", func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()
		require.Equal("10", q.Get("price_min"))
		require.Equal("", q.Get("price_max"))
		require.Equal("true", q.Get("active"))
		require.Equal("true", q.Get("exclude_own"))
		require.Equal("21", q.Get("limit"))
		require.Equal("40", q.Get("offset"))
		_, _ = io.WriteString(w, `[{"id":1,"channel_id":7,"price_ton":"12.5","price_usd":null,"format":"post","categories":["tech"],"constraints":{"lang":"en","geo":["US"],"age":"18+"},"active":true,"created_at":"2026-01-01T00:00:00Z"}]`)
	})

	c, _ := newTestClient(t, r, "tok")
	active := true
	priceMin := decimal.NewFromInt(10)
	items, err := c.ListListings(context.Background(), ListingFilter{
		PriceMin:   &priceMin,
		Active:     &active,
		ExcludeOwn: true,
		Page:       Page{Limit: 21, Offset: 40},
	})
	require.NoError(err)
	require.Len(items, 1)
	require.True(items[0].PriceTON.Decimal.Equal(decimal.RequireFromString("12.5")))
	require.Equal("en", items[0].Constraints.Lang)
	require.Equal([]string{"US"}, items[0].Constraints.Geo)
	require.JSONEq(`"18+"`, string(items[0].Constraints.Extra["age"]))
}

func TestTermsBodyUsesJSONNumbers(t *testing.T) {
	require := require.New(t)

	r := mux.NewRouter()
	r.HandleFunc("/deals/{id}/terms", func(w http.ResponseWriter, req *http.Request) {
		body, err := io.ReadAll(req.Body)
		require.NoError(err)
		require.JSONEq(`{"price":100,"format":"post","verification_window":15}`, string(body))
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodPost)

	c, _ := newTestClient(t, r, "tok")
	price := decimal.NewFromInt(100)
	window := 15
	require.NoError(c.SubmitTerms(context.Background(), 9, TermsRequest{Price: &price, Format: "post", VerificationWindow: &window}))
}

func TestRequestDepositSendsEmptyObject(t *testing.T) {
	require := require.New(t)

	r := mux.NewRouter()
	r.HandleFunc("/escrow/deals/{id}/deposit", func(w http.ResponseWriter, req *http.Request) {
		body, err := io.ReadAll(req.Body)
		require.NoError(err)
		require.Equal(`{}`, string(body))
		_, _ = io.WriteString(w, `{"id":1,"deal_id":9,"deposit_address":"EQabc","deposit_comment":"deal-9","expected_amount":1.5,"confirmed_at":null,"created_at":"2026-01-01T00:00:00Z"}`)
	}).Methods(http.MethodPost)

	c, _ := newTestClient(t, r, "tok")
	dep, err := c.RequestDeposit(context.Background(), 9)
	require.NoError(err)
	require.False(dep.Confirmed())
	require.Equal("deal-9", dep.Comment())
	require.Equal("1.5", dep.ExpectedAmount.Decimal.String())
}

func TestUploadMedia(t *testing.T) {
	require := require.New(t)

	r := mux.NewRouter()
	r.HandleFunc("/deals/media/upload", func(w http.ResponseWriter, req *http.Request) {
		require.True(strings.HasPrefix(req.Header.Get("Content-Type"), "multipart/form-data"))
		require.Equal("Bearer tok", req.Header.Get("Authorization"))
		f, header, err := req.FormFile("file")
		require.NoError(err)
		defer f.Close()
		data, err := io.ReadAll(f)
		require.NoError(err)
		require.Equal("banner.png", header.Filename)
		require.Equal("PNGDATA", string(data))
		_ = json.NewEncoder(w).Encode(map[string]any{"type": "photo", "file_id": "AgAC", "message_id": 77})
	}).Methods(http.MethodPost)

	c, _ := newTestClient(t, r, "tok")
	up, err := c.UploadMedia(context.Background(), "banner.png", strings.NewReader("PNGDATA"))
	require.NoError(err)
	require.Equal(MediaFileID{Type: MediaPhoto, FileID: "AgAC"}, up.Ref())
	require.NotNil(up.MessageID)
	require.Equal(int64(77), *up.MessageID)
}
