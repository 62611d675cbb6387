package controllers

import (
	"bytes"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestPlaceholderBlankAreaLeavesBoard(t *testing.T) {
	app := newTestApp(t, "http://127.0.0.1:1")

	_, body := app.postForm(t, "/placeholder", url.Values{"area": {"Aundh"}})
	first := chartID(t, body)

	resp, body := app.postForm(t, "/placeholder", url.Values{"area": {"   "}})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "Please enter an area.")
	assert.Contains(t, body, "Data for Aundh: Population, Weather, and Services overview")
	assert.Equal(t, first, chartID(t, body))

	resp, _ = app.get(t, "/placeholder/chart/"+first+".png")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPlaceholderRendersTableAndChart(t *testing.T) {
	app := newTestApp(t, "http://127.0.0.1:1")

	resp, body := app.postForm(t, "/placeholder", url.Values{"area": {"Baner"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Data for Baner: Population, Weather, and Services overview")
	for _, category := range []string{"Population", "Average Temperature", "Number of Schools", "Number of Hospitals"} {
		assert.Contains(t, body, "<td class=\"px-2 py-1 border\">"+category+"</td>")
	}

	resp, png := app.get(t, "/placeholder/chart/"+chartID(t, body)+".png")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.True(t, bytes.HasPrefix([]byte(png), []byte("\x89PNG")))
}

func TestPlaceholderSecondAnalysisReplacesChart(t *testing.T) {
	app := newTestApp(t, "http://127.0.0.1:1")

	_, body := app.postForm(t, "/placeholder", url.Values{"area": {"Wakad"}})
	first := chartID(t, body)
	_, body = app.postForm(t, "/placeholder", url.Values{"area": {"Hinjewadi"}})
	second := chartID(t, body)
	require.NotEqual(t, first, second)

	resp, _ := app.get(t, "/placeholder/chart/"+first+".png")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = app.get(t, "/placeholder/chart/"+second+".png")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// reloading the page disposes the chart too
	_, body = app.get(t, "/placeholder")
	assert.NotRegexp(t, chartSrc, body)
	resp, _ = app.get(t, "/placeholder/chart/"+second+".png")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPlaceholderExport(t *testing.T) {
	app := newTestApp(t, "http://127.0.0.1:1")

	resp, body := app.get(t, "/placeholder/export.xlsx")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, body, "Nothing to export yet.")

	app.postForm(t, "/placeholder", url.Values{"area": {"Kothrud"}})

	resp, body = app.get(t, "/placeholder/export.xlsx")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, xlsxContentType, resp.Header.Get("Content-Type"))

	f, err := excelize.OpenReader(bytes.NewReader([]byte(body)))
	require.NoError(t, err)
	defer f.Close()
	summary, err := f.GetCellValue("Placeholder", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Data for Kothrud: Population, Weather, and Services overview", summary)
}
