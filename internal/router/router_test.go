package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walletly/config"
	"walletly/internal/router"
	"walletly/internal/store"
	"walletly/pkg/cloudinary"
)

type stubUploader struct{}

func (stubUploader) Upload(ctx context.Context, src cloudinary.Source, folder string) (string, error) {
	if src.Remote() {
		return src.URL, nil
	}
	return "https://res.cloudinary.com/demo/image/upload/" + folder + "/stub.jpg", nil
}

func newServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return router.Setup(config.Load(), store.NewMemory(), stubUploader{})
}

func doJSON(t *testing.T, engine *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func doForm(t *testing.T, engine *gin.Engine, method, path, token string, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func registerUser(t *testing.T, engine *gin.Engine) string {
	t.Helper()
	rec := doJSON(t, engine, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name":     "Ada",
		"email":    "ada@example.com",
		"password": "correct-horse",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data := decode(t, rec)["data"].(map[string]any)
	return data["access_token"].(string)
}

func createWallet(t *testing.T, engine *gin.Engine, token, name string) string {
	t.Helper()
	rec := doForm(t, engine, http.MethodPost, "/api/v1/wallets", token, map[string]string{"name": name})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data := decode(t, rec)["data"].(map[string]any)
	return data["id"].(string)
}

func TestRoutes_RequireAuth(t *testing.T) {
	engine := newServer(t)

	rec := doJSON(t, engine, http.MethodGet, "/api/v1/wallets", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWalletAndTransactionFlow(t *testing.T) {
	engine := newServer(t)
	token := registerUser(t, engine)
	wid := createWallet(t, engine, token, "Cash")

	// Record an income of 100.
	rec := doForm(t, engine, http.MethodPost, "/api/v1/transactions", token, map[string]string{
		"type":     "income",
		"amount":   "100",
		"walletId": wid,
		"category": "salary",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	txn := decode(t, rec)["data"].(map[string]any)
	txnID := txn["id"].(string)

	// Balance reflects it.
	rec = doJSON(t, engine, http.MethodGet, "/api/v1/wallets/"+wid, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	wallet := decode(t, rec)["data"].(map[string]any)
	assert.Equal(t, "100", wallet["amount"])
	assert.Equal(t, "100", wallet["totalIncome"])

	// An expense over the balance is refused with the precondition spelled out.
	rec = doForm(t, engine, http.MethodPost, "/api/v1/transactions", token, map[string]string{
		"type":     "expense",
		"amount":   "250",
		"walletId": wid,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "selected wallet does not have enough balance", decode(t, rec)["msg"])

	// Deleting the income rolls the wallet back.
	rec = doJSON(t, engine, http.MethodDelete, "/api/v1/transactions/"+txnID+"?walletId="+wid, token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, engine, http.MethodGet, "/api/v1/wallets/"+wid, token, nil)
	wallet = decode(t, rec)["data"].(map[string]any)
	assert.Equal(t, "0", wallet["amount"])
	assert.Equal(t, "0", wallet["totalIncome"])
}

func TestTransaction_InvalidAmount(t *testing.T) {
	engine := newServer(t)
	token := registerUser(t, engine)
	wid := createWallet(t, engine, token, "Cash")

	rec := doForm(t, engine, http.MethodPost, "/api/v1/transactions", token, map[string]string{
		"type":     "income",
		"amount":   "not-a-number",
		"walletId": wid,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWallet_OtherUsersWalletHidden(t *testing.T) {
	engine := newServer(t)
	token := registerUser(t, engine)
	wid := createWallet(t, engine, token, "Cash")

	rec := doJSON(t, engine, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name":     "Eve",
		"email":    "eve@example.com",
		"password": "hunter-two",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	other := decode(t, rec)["data"].(map[string]any)["access_token"].(string)

	rec = doJSON(t, engine, http.MethodGet, "/api/v1/wallets/"+wid, other, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestTransaction_OtherUsersDataGuarded(t *testing.T) {
	engine := newServer(t)
	token := registerUser(t, engine)
	wid := createWallet(t, engine, token, "Cash")

	rec := doForm(t, engine, http.MethodPost, "/api/v1/transactions", token, map[string]string{
		"type":     "income",
		"amount":   "100",
		"walletId": wid,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	txnID := decode(t, rec)["data"].(map[string]any)["id"].(string)

	rec = doJSON(t, engine, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name":     "Eve",
		"email":    "eve@example.com",
		"password": "hunter-two",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	other := decode(t, rec)["data"].(map[string]any)["access_token"].(string)

	// Another user cannot book a transaction against this wallet.
	rec = doForm(t, engine, http.MethodPost, "/api/v1/transactions", other, map[string]string{
		"type":     "income",
		"amount":   "5",
		"walletId": wid,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Nor edit or delete a transaction that is not theirs.
	rec = doForm(t, engine, http.MethodPut, "/api/v1/transactions/"+txnID, other, map[string]string{
		"type":     "income",
		"amount":   "1",
		"walletId": wid,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, engine, http.MethodDelete, "/api/v1/transactions/"+txnID+"?walletId="+wid, other, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// The owner's wallet is untouched.
	rec = doJSON(t, engine, http.MethodGet, "/api/v1/wallets/"+wid, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	wallet := decode(t, rec)["data"].(map[string]any)
	assert.Equal(t, "100", wallet["amount"])
}

func TestRemoteImageURL_PassedThrough(t *testing.T) {
	engine := newServer(t)
	token := registerUser(t, engine)

	rec := doForm(t, engine, http.MethodPost, "/api/v1/wallets", token, map[string]string{
		"name":      "Cash",
		"image_url": "https://res.cloudinary.com/demo/image/upload/icon.png",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	wallet := decode(t, rec)["data"].(map[string]any)
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/icon.png", wallet["image"])
}
