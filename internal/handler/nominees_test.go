package handler_test

import (
	"net/http"
	"testing"
)

func TestNomineeInfo_OwnRecord(t *testing.T) {
	env := setupEnv(t)
	member := env.loginAs(t, "jdo12")

	// nothing filled in yet
	if w := env.request(t, http.MethodGet, "/api/nominee-info", nil, member); w.Code != http.StatusNotFound {
		t.Errorf("get before put status = %d, want 404", w.Code)
	}

	body := map[string]interface{}{
		"full_name": "Jane Doe",
		"email":     "jdo12@sfu.ca",
	}
	if w := env.request(t, http.MethodPut, "/api/nominee-info", body, member); w.Code != http.StatusOK {
		t.Fatalf("put status = %d, body %s", w.Code, w.Body.String())
	}

	data := decodeData(t, env.request(t, http.MethodGet, "/api/nominee-info", nil, member))
	info := data["nominee_info"].(map[string]interface{})
	if info["full_name"] != "Jane Doe" {
		t.Errorf("full_name = %v, want Jane Doe", info["full_name"])
	}

	// a second put replaces the record in place
	body["full_name"] = "Jane A. Doe"
	if w := env.request(t, http.MethodPut, "/api/nominee-info", body, member); w.Code != http.StatusOK {
		t.Fatalf("second put status = %d", w.Code)
	}
	data = decodeData(t, env.request(t, http.MethodGet, "/api/nominee-info", nil, member))
	info = data["nominee_info"].(map[string]interface{})
	if info["full_name"] != "Jane A. Doe" {
		t.Errorf("full_name after update = %v", info["full_name"])
	}

	// anonymous access is rejected
	if w := env.request(t, http.MethodGet, "/api/nominee-info", nil, nil); w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous get status = %d, want 401", w.Code)
	}
}
