package tavily

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/search_upp/app/search_upp/pkg/search"
)

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		var req SearchRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 3, req.MaxResults)
		assert.Equal(t, "basic", req.SearchDepth)
		w.Write([]byte(`{"query":"q","results":[{"title":"A","url":"https://a.example","content":"about a","score":0.9}]}`))
	}))
	defer srv.Close()

	resp, err := NewClient("key").WithBaseURL(srv.URL).Search(context.Background(), &search.Request{Query: "q", MaxResults: 3})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "https://a.example", resp.Results[0].URL)
	assert.Equal(t, "about a", resp.Results[0].Description)
}
