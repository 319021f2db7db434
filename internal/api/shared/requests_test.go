package shared

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputParam(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   string
	}{
		{name: "path wildcard", target: "/in/shalom", want: "shalom"},
		{name: "escaped path", target: "/in/%5B%22a%20b%22%5D", want: `["a b"]`},
		{name: "slashes in wildcard", target: "/in/sefer%20/%20moshe", want: "sefer / moshe"},
		{name: "encoded slash", target: "/in/a%2Fb", want: "a/b"},
		{name: "query fallback", target: "/in/?text=%D7%A9%D7%9C%D7%95%D7%9D", want: "שלום"},
		{name: "missing", target: "/in/", want: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got string
			r := chi.NewRouter()
			r.Get("/in/*", func(w http.ResponseWriter, r *http.Request) {
				var err error
				got, err = InputParam(r, "text")
				require.NoError(t, err)
			})

			r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tc.target, nil))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestPathParam_WithoutRouteContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	got, err := PathParam(req.WithContext(context.Background()), "ppn")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDecodeJSONParam(t *testing.T) {
	var words []string
	require.NoError(t, DecodeJSONParam(`["sefer","ha"]`, &words))
	assert.Equal(t, []string{"sefer", "ha"}, words)

	assert.Error(t, DecodeJSONParam(`["sefer"`, &words))
	assert.Error(t, DecodeJSONParam(``, &words))
}

func TestValidateRequest(t *testing.T) {
	type request struct {
		PPN string `validate:"required"`
	}
	assert.NoError(t, ValidateRequest(&request{PPN: "1"}))
	assert.Error(t, ValidateRequest(&request{}))
}
