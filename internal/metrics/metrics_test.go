package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/surveys/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/surveys/{id}", "418"))
	for _, id := range []string{"a", "b", "c"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/surveys/"+id, nil))
		assert.Equal(t, http.StatusTeapot, rec.Code)
	}
	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/surveys/{id}", "418"))
	assert.Equal(t, 3.0, after-before)
}

func TestRecorders(t *testing.T) {
	before := testutil.ToFloat64(VotesCastTotal.WithLabelValues("duplicate"))
	RecordVote("duplicate")
	assert.Equal(t, 1.0, testutil.ToFloat64(VotesCastTotal.WithLabelValues("duplicate"))-before)

	before = testutil.ToFloat64(PaymentIntentsTotal.WithLabelValues("error"))
	RecordPaymentIntent(assert.AnError)
	assert.Equal(t, 1.0, testutil.ToFloat64(PaymentIntentsTotal.WithLabelValues("error"))-before)
}
