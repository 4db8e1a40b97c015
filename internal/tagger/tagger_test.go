package tagger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatternTaggerExtract(t *testing.T) {
	text := "Contact John at john.smith@acme.com about the $1,250.00 invoice for (NYSE:ACME)."

	tg := NewPatternTagger()
	entities, err := tg.Extract(context.Background(), text)
	require.NoError(t, err)

	types := make(map[string]string)
	for _, e := range entities {
		types[e.Type] = e.Value
	}

	assert.Equal(t, "john.smith@acme.com", types["EMAIL_ADDRESS"])
	assert.Equal(t, "$1,250.00", types["MONETARY_AMOUNT"])
	assert.Equal(t, "(NYSE:ACME)", types["STOCK_SYMBOL"])
}

func TestPatternTaggerSpansAndContext(t *testing.T) {
	text := "email: a@b.io done"

	tg := NewPatternTagger()
	entities, err := tg.Extract(context.Background(), text)
	require.NoError(t, err)
	require.Len(t, entities, 1)

	e := entities[0]
	require.NotNil(t, e.Start)
	require.NotNil(t, e.End)
	assert.Equal(t, "a@b.io", text[*e.Start:*e.End])
	assert.Contains(t, e.Context, "email: a@b.io")
}

func TestPatternTaggerOrderedByOffset(t *testing.T) {
	text := "rate is 5.5% and price is $10,000.00"

	tg := NewPatternTagger()
	entities, err := tg.Extract(context.Background(), text)
	require.NoError(t, err)
	require.Len(t, entities, 2)
	assert.Equal(t, "PERCENTAGE", entities[0].Type)
	assert.Equal(t, "MONETARY_AMOUNT", entities[1].Type)
}

func TestPatternTaggerEmptyText(t *testing.T) {
	tg := NewPatternTagger()
	entities, err := tg.Extract(context.Background(), "nothing structured here")
	require.NoError(t, err)
	assert.Empty(t, entities)
}

func TestMapLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"PERSON", "PERSON_NAME"},
		{"ORG", "COMPANY_NAME"},
		{"GPE", "LOCATION"},
		{"MONEY", "MONETARY_AMOUNT"},
		{"CUSTOM_TYPE", "CUSTOM_TYPE"},
	}
	for _, tt := range tests {
		if got := MapLabel(tt.in); got != tt.want {
			t.Errorf("MapLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRemoteTagger(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/extract-entities", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"type":"PERSON","value":"John Smith"},{"type":"ORG","value":"Acme","confidence":0.6}]`))
	}))
	defer srv.Close()

	tg := NewRemoteTagger(srv.URL)
	entities, err := tg.Extract(context.Background(), "John Smith works at Acme")
	require.NoError(t, err)
	require.Len(t, entities, 2)

	assert.Equal(t, "PERSON_NAME", entities[0].Type)
	assert.Equal(t, remoteConfidence, entities[0].Confidence)
	assert.Equal(t, "COMPANY_NAME", entities[1].Type)
	assert.Equal(t, 0.6, entities[1].Confidence)
}

func TestRemoteTaggerServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	tg := NewRemoteTagger(srv.URL)
	_, err := tg.Extract(context.Background(), "text")
	assert.Error(t, err)
}
