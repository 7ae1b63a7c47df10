package detail

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJisho(t *testing.T, handler http.HandlerFunc) *JishoSource {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewJishoSourceWithURL(srv.URL, time.Second, discardLogger())
}

func TestJishoFetch(t *testing.T) {
	src := newTestJisho(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "りんご", r.URL.Query().Get("keyword"))
		w.Write([]byte(`{"data":[{
			"japanese":[{"word":"林檎","reading":"りんご"}],
			"senses":[{"english_definitions":["apple"]}]
		}]}`))
	})

	d, err := src.Fetch(context.Background(), "りんご")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "林檎", d.Kanji)
	assert.Equal(t, "apple", d.Meaning)
}

func TestJishoFetchPrefersExactReading(t *testing.T) {
	src := newTestJisho(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"data":[{
			"japanese":[
				{"word":"別","reading":"べつ"},
				{"word":"林檎","reading":"りんご"}
			],
			"senses":[{"english_definitions":["apple"]}]
		}]}`))
	})

	d, err := src.Fetch(context.Background(), "りんご")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "林檎", d.Kanji)
}

func TestJishoFetchKanjiFallbacks(t *testing.T) {
	// No written form falls back to the reading.
	src := newTestJisho(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"data":[{
			"japanese":[{"reading":"ねこ"}],
			"senses":[{"english_definitions":["cat"]}]
		}]}`))
	})
	d, err := src.Fetch(context.Background(), "ねこ")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "ねこ", d.Kanji)
}

func TestJishoFetchMeaningCapped(t *testing.T) {
	src := newTestJisho(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"data":[{
			"japanese":[{"reading":"あれ"}],
			"senses":[
				{"english_definitions":["one","two"]},
				{"english_definitions":["three","four"]}
			]
		}]}`))
	})

	d, err := src.Fetch(context.Background(), "あれ")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "one, two, three", d.Meaning)
}

func TestJishoFetchSkipsGlossless(t *testing.T) {
	src := newTestJisho(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"data":[
			{"japanese":[{"reading":"あれ"}],"senses":[]},
			{"japanese":[{"reading":"あれ","word":"彼"}],"senses":[{"english_definitions":["that"]}]}
		]}`))
	})

	d, err := src.Fetch(context.Background(), "あれ")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "彼", d.Kanji)
}

func TestJishoFetchNoMatch(t *testing.T) {
	src := newTestJisho(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	})

	d, err := src.Fetch(context.Background(), "ほげ")
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestJishoFetchServerError(t *testing.T) {
	src := newTestJisho(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := src.Fetch(context.Background(), "りんご")
	assert.Error(t, err)
}

func TestJishoFetchMalformedBody(t *testing.T) {
	src := newTestJisho(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`not json`))
	})

	_, err := src.Fetch(context.Background(), "りんご")
	assert.Error(t, err)
}
