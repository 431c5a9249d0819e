package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/use-agent/pagefields/models"
)

type mockExtractor struct {
	mock.Mock
}

func (m *mockExtractor) Extract(ctx context.Context, url string, fields models.FieldMap) (*models.Result, error) {
	args := m.Called(ctx, url, fields)
	res, _ := args.Get(0).(*models.Result)
	return res, args.Error(1)
}

const (
	validURL    = "https://www.alza.cz/aeg-7000-prosteam-lfr73964cc-d7635493.htm"
	validFields = `{"price":".price-box__primary-price__value",
      "rating_count":".ratingCount",
      "rating_value":".ratingValue","meta":["keywords","twitter:image"]}`
)

var parsedFields = models.FieldMap{
	{Name: "price", Spec: models.Selector(".price-box__primary-price__value")},
	{Name: "rating_count", Spec: models.Selector(".ratingCount")},
	{Name: "rating_value", Spec: models.Selector(".ratingValue")},
	{Name: "meta", Spec: models.MetaNames("keywords", "twitter:image")},
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newDataRouter(x Extractor) *gin.Engine {
	r := gin.New()
	r.GET("/data", Data(x))
	r.POST("/data", Data(x))
	return r
}

func getData(r http.Handler, pageURL, fields string) *httptest.ResponseRecorder {
	q := url.Values{}
	q.Set("url", pageURL)
	q.Set("fields", fields)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/data?"+q.Encode(), nil)
	r.ServeHTTP(w, req)
	return w
}

func scraperResult() *models.Result {
	keywords := "AEG,7000,ProSteam®,LFR73964CC,Automatické pračky,Automatické pračky AEG"
	image := "https://image.alza.cz/products/AEGPR065/AEGPR065.jpg?width=360"
	res := models.NewResult(4)
	res.SetText("price", "19 990")
	res.SetText("rating_count", "25 hodnocení")
	res.SetText("rating_value", "4,8")
	res.SetMeta("meta", []models.MetaEntry{
		{Name: "keywords", Content: &keywords},
		{Name: "twitter:image", Content: &image},
	})
	return res
}

func TestData_ValidParameters(t *testing.T) {
	x := new(mockExtractor)
	x.On("Extract", mock.Anything, validURL, parsedFields).Return(scraperResult(), nil).Once()

	w := getData(newDataRouter(x), validURL, validFields)

	x.AssertExpectations(t)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"price": "19 990",
		"rating_count": "25 hodnocení",
		"rating_value": "4,8",
		"meta": {
			"keywords": "AEG,7000,ProSteam®,LFR73964CC,Automatické pračky,Automatické pračky AEG",
			"twitter:image": "https://image.alza.cz/products/AEGPR065/AEGPR065.jpg?width=360"
		}
	}`, w.Body.String())
}

func TestData_PostForm(t *testing.T) {
	x := new(mockExtractor)
	x.On("Extract", mock.Anything, validURL, parsedFields).Return(scraperResult(), nil).Once()

	form := url.Values{}
	form.Set("url", validURL)
	form.Set("fields", validFields)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/data", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	newDataRouter(x).ServeHTTP(w, req)

	x.AssertExpectations(t)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestData_BadInput(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		fields   string
		wantCode int
		wantBody string
	}{
		{"missing url", "", validFields, http.StatusBadRequest, `{"error":"URL and fields are required"}`},
		{"blank url", "  ", validFields, http.StatusBadRequest, `{"error":"URL and fields are required"}`},
		{"missing fields", validURL, "", http.StatusBadRequest, `{"error":"URL and fields are required"}`},
		{"empty field map", validURL, "{}", http.StatusBadRequest, `{"error":"URL and fields are required"}`},
		{"null fields", validURL, "null", http.StatusBadRequest, `{"error":"URL and fields are required"}`},
		{"empty array", validURL, "[]", http.StatusBadRequest, `{"error":"URL and fields are required"}`},
		{"empty string", validURL, `""`, http.StatusBadRequest, `{"error":"URL and fields are required"}`},
		{"false", validURL, "false", http.StatusBadRequest, `{"error":"URL and fields are required"}`},
		{"invalid json", validURL, "invalid json", http.StatusBadRequest, `{"error":"Invalid JSON: invalid character 'i' looking for beginning of value"}`},
		{"number", validURL, "0", http.StatusInternalServerError, `{"error":"fields must be a JSON object"}`},
		{"non-empty array", validURL, `["a"]`, http.StatusInternalServerError, `{"error":"fields must be a JSON object"}`},
		{"wrong meta type", validURL, `{"meta":"keywords"}`, http.StatusInternalServerError, `{"error":"field \"meta\" must be an array of strings"}`},
		{"null meta", validURL, `{"meta":null}`, http.StatusInternalServerError, `{"error":"field \"meta\" must be an array of strings"}`},
		{"wrong selector type", validURL, `{"t":1}`, http.StatusInternalServerError, `{"error":"field \"t\" must be a CSS selector string"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := new(mockExtractor)
			w := getData(newDataRouter(x), tt.url, tt.fields)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantBody, w.Body.String())
			x.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestData_MissingParametersEntirely(t *testing.T) {
	w := httptest.NewRecorder()
	newDataRouter(new(mockExtractor)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/data", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, `{"error":"URL and fields are required"}`, w.Body.String())
}

func TestData_ExtractorErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantBody string
	}{
		{"unclassified", errors.New("Something went wrong"), `{"error":"Something went wrong"}`},
		{"fetch failed", models.ErrFetchFailed(validURL, 404), `{"error":"Failed to fetch URL: ` + validURL + `"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := new(mockExtractor)
			x.On("Extract", mock.Anything, validURL, parsedFields).Return(nil, tt.err)

			w := getData(newDataRouter(x), validURL, validFields)

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.Equal(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestMapErrorToStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{models.ErrCodeInvalidInput, http.StatusBadRequest},
		{models.ErrCodeMalformedInput, http.StatusBadRequest},
		{models.ErrCodeFetchFailed, http.StatusInternalServerError},
		{models.ErrCodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, mapErrorToStatus(&models.ScrapeError{Code: tt.code}), tt.code)
	}
}
