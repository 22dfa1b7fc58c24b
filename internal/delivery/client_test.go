package delivery_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"matjar/internal/delivery"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// merchantAPI fakes the delivery company's API: form login handing out
// sequential tokens, and a city list that rejects stale tokens.
type merchantAPI struct {
	logins      int
	cityCalls   int
	regionCalls int
	validToken  string
}

func (a *merchantAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if err := r.ParseForm(); err != nil || r.PostFormValue("username") != "merchant" || r.PostFormValue("password") != "secret" {
			fmt.Fprint(w, `{"status":false,"msg":"invalid credentials","data":null}`)
			return
		}
		a.logins++
		a.validToken = fmt.Sprintf("token-%d", a.logins)
		fmt.Fprintf(w, `{"status":true,"msg":"ok","data":{"token":"%s"}}`, a.validToken)
	})
	mux.HandleFunc("/citys", func(w http.ResponseWriter, r *http.Request) {
		a.cityCalls++
		if r.URL.Query().Get("token") != a.validToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		// delivery_price comes back as a string, as the real API sends it.
		fmt.Fprint(w, `{"status":true,"msg":"ok","data":[
			{"id":"1","city_name":"بغداد","delivery_price":"5000"},
			{"id":"2","city_name":"البصرة","delivery_price":"6000"}
		]}`)
	})
	mux.HandleFunc("/regions", func(w http.ResponseWriter, r *http.Request) {
		a.regionCalls++
		if r.URL.Query().Get("token") != a.validToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Query().Get("city_id") != "1" {
			fmt.Fprint(w, `{"status":true,"msg":"ok","data":[]}`)
			return
		}
		fmt.Fprint(w, `{"status":true,"msg":"ok","data":[
			{"id":"10","region_name":"الكرادة"},
			{"id":"11","region_name":"المنصور"}
		]}`)
	})
	return mux
}

func newTestClient(t *testing.T) (*delivery.Client, *merchantAPI) {
	api := &merchantAPI{}
	server := httptest.NewServer(api.handler())
	t.Cleanup(server.Close)
	return delivery.NewClient(server.URL, "merchant", "secret"), api
}

func TestClient_Cities(t *testing.T) {
	client, api := newTestClient(t)

	cities, err := client.Cities(context.Background())
	require.NoError(t, err)
	require.Len(t, cities, 2)

	assert.Equal(t, "1", cities[0].CompanyCityID)
	assert.Equal(t, "بغداد", cities[0].CompanyCityName)
	assert.Equal(t, "بغداد", cities[0].DisplayName)
	assert.Equal(t, 5000, cities[0].DeliveryFee) // string in the payload, int here
	assert.Equal(t, 6000, cities[1].DeliveryFee)
	assert.Equal(t, 1, api.logins)
}

func TestClient_ReusesToken(t *testing.T) {
	client, api := newTestClient(t)

	_, err := client.Cities(context.Background())
	require.NoError(t, err)
	_, err = client.Cities(context.Background())
	require.NoError(t, err)

	// One login serves both calls.
	assert.Equal(t, 1, api.logins)
	assert.Equal(t, 2, api.cityCalls)
}

func TestClient_ReloginsOnExpiredToken(t *testing.T) {
	client, api := newTestClient(t)

	_, err := client.Cities(context.Background())
	require.NoError(t, err)

	// Expire the token server-side; the next call gets a 401 and retries
	// once with a fresh login.
	api.validToken = "revoked"
	cities, err := client.Cities(context.Background())
	require.NoError(t, err)
	assert.Len(t, cities, 2)
	assert.Equal(t, 2, api.logins)
	assert.Equal(t, 3, api.cityCalls) // initial, rejected, retried
}

func TestClient_Regions(t *testing.T) {
	client, _ := newTestClient(t)

	regions, err := client.Regions(context.Background(), "1")
	require.NoError(t, err)
	require.Len(t, regions, 2)
	assert.Equal(t, "10", regions[0].ID)
	assert.Equal(t, "الكرادة", regions[0].RegionName)

	regions, err = client.Regions(context.Background(), "999")
	require.NoError(t, err)
	assert.Empty(t, regions)
}

func TestClient_LoginRejected(t *testing.T) {
	api := &merchantAPI{}
	server := httptest.NewServer(api.handler())
	t.Cleanup(server.Close)

	client := delivery.NewClient(server.URL, "merchant", "wrong")
	_, err := client.Cities(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "login rejected")
}
