package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/memo-analyzer/internal/types"
)

func TestNormalize_JSON(t *testing.T) {
	s := newTestServer(t, staticService(`{}`), nil)

	rec := runRequest(s, "/normalize", `{"text": "# Title\n\nBody with **bold**.\n\n* item"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp types.NormalizeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Blocks, 3)
	assert.Equal(t, types.Heading(1, types.Plain("Title")), resp.Blocks[0])
	assert.Equal(t, []string{"bold"}, resp.Blocks[1].BoldTexts())
	assert.Equal(t, types.BlockBulletItem, resp.Blocks[2].Kind)
}

func TestNormalize_JSONWrapper(t *testing.T) {
	s := newTestServer(t, staticService(`{}`), nil)

	rec := runRequest(s, "/normalize", `{"text": "{\"content\": \"## Memo\"}"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp types.NormalizeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Blocks, 1)
	assert.Equal(t, types.Heading(2, types.Plain("Memo")), resp.Blocks[0])
}

func TestNormalize_EmptyTextGivesEmptyList(t *testing.T) {
	s := newTestServer(t, staticService(`{}`), nil)

	rec := runRequest(s, "/normalize", `{"text": "   "}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"blocks": []}`, rec.Body.String())
}

func TestNormalize_HTML(t *testing.T) {
	s := newTestServer(t, staticService(`{}`), nil)

	rec := runRequest(s, "/normalize?format=html", `{"text": "<script>alert(1)</script>\n\n* **x**"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rec.Body.String()))
	require.NoError(t, err)
	assert.Equal(t, 0, doc.Find("script").Length())
	assert.Equal(t, "<script>alert(1)</script>", doc.Find("p").Text())
	assert.Equal(t, "x", doc.Find("ul li strong").Text())
}

func TestNormalize_Text(t *testing.T) {
	s := newTestServer(t, staticService(`{}`), nil)

	rec := runRequest(s, "/normalize?format=text", `{"text": "# Title\n\n* one"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Title\n\n- one\n", rec.Body.String())
}

func TestNormalize_BadJSON(t *testing.T) {
	s := newTestServer(t, staticService(`{}`), nil)

	rec := runRequest(s, "/normalize", `{"text": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
